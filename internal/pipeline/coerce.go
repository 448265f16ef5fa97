package pipeline

import (
	"strconv"
	"strings"
)

// noDataMarkers are the sentinel values vendors use for suppressed or
// unavailable cells. All of them coerce to zero, which the engine treats as
// "no data" rather than a true measurement.
var noDataMarkers = map[string]bool{
	"":     true,
	"*":    true,
	"**":   true,
	"***":  true,
	"-":    true,
	"--":   true,
	"n/a":  true,
	"na":   true,
	"isd":  true,
	"null": true,
}

// CoerceNumber converts a formatted numeric string to a float64. Currency
// symbols, thousand separators and surrounding whitespace are stripped;
// recognized no-data markers and anything unparseable coerce to 0. Coercion
// never fails.
func CoerceNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if noDataMarkers[strings.ToLower(s)] {
		return 0
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Accounting-style negatives: (1200) == -1200.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// CoerceCount converts a formatted count string to an int with the same
// degradation rules as CoerceNumber.
func CoerceCount(raw string) int {
	return int(CoerceNumber(raw))
}
