package normalize

// Canonical variable keys. Keys are vendor-independent; every resolution
// path ends in one of these or in the folded raw label for unknown metrics.
const (
	KeyTCC           = "tcc"
	KeyWorkRVUs      = "work_rvus"
	KeyTCCPerWorkRVU = "tcc_per_work_rvu"
	KeyBaseSalary    = "base_salary"
	KeyIncentive     = "incentive_comp"
	KeyCallPayDaily  = "call_pay_daily"
	KeyClinicalFTE   = "clinical_fte"
)

// variableAliases is the static synonym dictionary, keyed by folded label.
// It covers the naming each vendor uses for the same canonical metric and is
// consulted after curated and learned mappings miss.
var variableAliases = map[string]string{
	// Total cash compensation.
	"tcc":                       KeyTCC,
	"total cash compensation":   KeyTCC,
	"total cash comp":           KeyTCC,
	"total compensation":        KeyTCC,
	"total comp":                KeyTCC,
	"total direct compensation": KeyTCC,
	"compensation":              KeyTCC,
	"annual compensation":       KeyTCC,

	// Work RVUs.
	"work rvus":           KeyWorkRVUs,
	"work rvu":            KeyWorkRVUs,
	"wrvu":                KeyWorkRVUs,
	"wrvus":               KeyWorkRVUs,
	"physician work rvus": KeyWorkRVUs,
	"annual work rvus":    KeyWorkRVUs,

	// Compensation per work RVU.
	"tcc per work rvu":               KeyTCCPerWorkRVU,
	"tcc/wrvu":                       KeyTCCPerWorkRVU,
	"tcc per wrvu":                   KeyTCCPerWorkRVU,
	"comp per work rvu":              KeyTCCPerWorkRVU,
	"compensation per work rvu":      KeyTCCPerWorkRVU,
	"compensation to work rvu ratio": KeyTCCPerWorkRVU,
	"comp to wrvu ratio":             KeyTCCPerWorkRVU,
	"conversion factor":              KeyTCCPerWorkRVU,
	"cf":                             KeyTCCPerWorkRVU,

	// Base salary.
	"base salary":       KeyBaseSalary,
	"base pay":          KeyBaseSalary,
	"base compensation": KeyBaseSalary,
	"salary":            KeyBaseSalary,

	// Incentive.
	"incentive":           KeyIncentive,
	"incentive comp":      KeyIncentive,
	"bonus":               KeyIncentive,
	"bonus and incentive": KeyIncentive,
	"production bonus":    KeyIncentive,

	// Call pay.
	"daily call rate":    KeyCallPayDaily,
	"call pay per day":   KeyCallPayDaily,
	"on call daily rate": KeyCallPayDaily,

	// Clinical FTE.
	"clinical fte": KeyClinicalFTE,
	"cfte":         KeyClinicalFTE,
}

// wideBaseAliases resolves common wide-format base names (already folded)
// directly; vendors abbreviate heavily in column headers.
var wideBaseAliases = map[string]string{
	"tcc":   KeyTCC,
	"comp":  KeyTCC,
	"wrvu":  KeyWorkRVUs,
	"wrvus": KeyWorkRVUs,
	"cf":    KeyTCCPerWorkRVU,
	"base":  KeyBaseSalary,
}
