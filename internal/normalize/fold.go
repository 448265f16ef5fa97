package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	yearSuffixRe = regexp.MustCompile(`[\s_-]*(19|20)\d{2}$`)
	punctRe      = regexp.MustCompile(`[^\p{L}\p{N}\s/]+`)
)

// Clean trims a raw label and collapses internal whitespace without
// changing case. This is the passthrough form returned for unmapped labels.
func Clean(label string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(label), " ")
}

// Fold produces the comparison form of a label: lowercase, punctuation
// stripped, conjunctions unified, whitespace collapsed. Both sides of a
// fuzzy mapping-table match are folded.
func Fold(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "&", " and ")
	s = punctRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TrimYearSuffix removes a trailing year from a survey-source name, so a
// mapping entry recorded against "MGMA 2023" still matches source "MGMA".
func TrimYearSuffix(name string) string {
	return yearSuffixRe.ReplaceAllString(strings.TrimSpace(name), "")
}

// SourceMatches reports whether a mapping entry's survey-source name refers
// to the given source, tolerant of trailing year suffixes on either side.
func SourceMatches(entrySource, sourceID string) bool {
	a := strings.ToLower(TrimYearSuffix(entrySource))
	b := strings.ToLower(TrimYearSuffix(sourceID))
	return a == b
}
