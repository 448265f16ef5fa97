package normalize

import "strings"

// classificationRule is one ordered keyword rule for variable labels.
// Rules are evaluated in slice order, most specific first: ratio and
// per-unit phrasing must win before generic compensation keywords, so a
// per-RVU rate is never classified as raw total compensation.
type classificationRule struct {
	name  string
	match func(folded string) bool
	key   string
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var classificationRules = []classificationRule{
	{
		name: "per-work-rvu ratio",
		match: func(s string) bool {
			return containsAny(s, "per work rvu", "per wrvu", "/rvu", "/wrvu") ||
				(strings.Contains(s, "ratio") && strings.Contains(s, "rvu")) ||
				strings.Contains(s, "conversion factor")
		},
		key: KeyTCCPerWorkRVU,
	},
	{
		name: "per-unit ratio",
		match: func(s string) bool {
			return strings.Contains(s, " to ") && strings.Contains(s, "ratio")
		},
		key: KeyTCCPerWorkRVU,
	},
	{
		name: "work rvus",
		match: func(s string) bool {
			return containsAny(s, "rvu", "relative value unit")
		},
		key: KeyWorkRVUs,
	},
	{
		name: "call pay",
		match: func(s string) bool {
			return strings.Contains(s, "call") && containsAny(s, "pay", "rate", "stipend")
		},
		key: KeyCallPayDaily,
	},
	{
		name: "base salary",
		match: func(s string) bool {
			return strings.Contains(s, "base") && containsAny(s, "salary", "pay", "comp")
		},
		key: KeyBaseSalary,
	},
	{
		name: "incentive",
		match: func(s string) bool {
			return containsAny(s, "incentive", "bonus")
		},
		key: KeyIncentive,
	},
	{
		name: "clinical fte",
		match: func(s string) bool {
			return strings.Contains(s, "fte")
		},
		key: KeyClinicalFTE,
	},
	{
		name: "total compensation",
		match: func(s string) bool {
			return containsAny(s, "compensation", "total cash", "total comp", "earnings", "w2")
		},
		key: KeyTCC,
	},
}

// classifyByRules runs the ordered rule table over a folded label.
func classifyByRules(folded string) (string, bool) {
	for _, rule := range classificationRules {
		if rule.match(folded) {
			return rule.key, true
		}
	}
	return "", false
}
