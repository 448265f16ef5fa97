package normalize

import (
	"sort"
	"strings"

	"surveybench/pkg/contracts/domain"
)

// LongFieldAliases are the accepted names for the field that carries a
// variable label in long-format rows, checked in priority order.
var LongFieldAliases = []string{"variable", "Variable", "benchmark", "Benchmark", "metric", "Metric"}

// LongFormat records where a long-format row keeps its variable label.
type LongFormat struct {
	VariableField string
}

// WideGroup is one discovered metric column group in a wide-format row:
// a base name plus the percentile columns found for it, keyed by canonical
// percentile token (p25, p50, p75, p90).
type WideGroup struct {
	Base    string
	Columns map[string]string
}

// WideFormat records the metric column groups of a wide-format row.
type WideFormat struct {
	Groups []WideGroup
}

// RowFormat is the explicit format tag for one row. Long and Wide are not
// mutually exclusive: a single row may carry a long-format variable field
// and wide-format metric columns at the same time.
type RowFormat struct {
	Long *LongFormat
	Wide *WideFormat
}

// IsLong reports whether the row carries long-format data.
func (f RowFormat) IsLong() bool { return f.Long != nil }

// IsWide reports whether the row carries wide-format data.
func (f RowFormat) IsWide() bool { return f.Wide != nil }

// percentileTokens maps accepted percentile column suffixes to their
// canonical form.
var percentileTokens = map[string]string{
	"p25":    "p25",
	"p50":    "p50",
	"p75":    "p75",
	"p90":    "p90",
	"25th":   "p25",
	"50th":   "p50",
	"75th":   "p75",
	"90th":   "p90",
	"median": "p50",
}

// DetectRowFormat classifies one raw row. A row is long-format when one of
// the accepted variable-field aliases holds a non-empty label, and
// wide-format when column names match <base><separator><percentile-token>.
func DetectRowFormat(row domain.RawRow) RowFormat {
	var format RowFormat

	for _, alias := range LongFieldAliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			format.Long = &LongFormat{VariableField: alias}
			break
		}
	}

	groups := make(map[string]map[string]string)
	for column := range row {
		base, pct, ok := SplitMetricColumn(column)
		if !ok {
			continue
		}
		if groups[base] == nil {
			groups[base] = make(map[string]string)
		}
		groups[base][pct] = column
	}

	if len(groups) > 0 {
		wide := &WideFormat{Groups: make([]WideGroup, 0, len(groups))}
		for base, columns := range groups {
			wide.Groups = append(wide.Groups, WideGroup{Base: base, Columns: columns})
		}
		// Deterministic group order regardless of map iteration.
		sort.Slice(wide.Groups, func(i, j int) bool {
			return wide.Groups[i].Base < wide.Groups[j].Base
		})
		format.Wide = wide
	}

	return format
}

// SplitMetricColumn splits a column name of the form
// <base><separator><percentile-token> into its base name and canonical
// percentile. Accepted separators are underscore, hyphen and space; a
// missing separator is accepted for "p"-prefixed tokens (e.g. "tccp50").
func SplitMetricColumn(column string) (base, pct string, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(column))

	for token, canonical := range percentileTokens {
		if !strings.HasSuffix(lower, token) {
			continue
		}
		head := lower[:len(lower)-len(token)]
		if head == "" {
			continue
		}
		switch {
		case strings.HasSuffix(head, "_"), strings.HasSuffix(head, "-"), strings.HasSuffix(head, " "):
			base = strings.TrimRight(head, "_- ")
		case strings.HasPrefix(token, "p"):
			// Bare suffix like "wrvup50" is accepted only for p-tokens;
			// "25th" without a separator is too ambiguous.
			base = head
		default:
			continue
		}
		if base == "" {
			continue
		}
		return base, canonical, true
	}
	return "", "", false
}
