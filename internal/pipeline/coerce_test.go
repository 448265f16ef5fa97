package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain", raw: "4500", want: 4500},
		{name: "decimal", raw: "62.5", want: 62.5},
		{name: "currency and separators", raw: "$250,000", want: 250000},
		{name: "thousands separator only", raw: "1,200", want: 1200},
		{name: "surrounding whitespace", raw: "  750 ", want: 750},
		{name: "accounting negative", raw: "(1200)", want: -1200},
		{name: "currency accounting negative", raw: "$(1,200)", want: -1200},
		{name: "empty", raw: "", want: 0},
		{name: "asterisk marker", raw: "***", want: 0},
		{name: "dash marker", raw: "-", want: 0},
		{name: "na marker", raw: "N/A", want: 0},
		{name: "isd marker", raw: "ISD", want: 0},
		{name: "unparseable", raw: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceNumber(tt.raw))
		})
	}
}

func TestCoerceCount(t *testing.T) {
	assert.Equal(t, 1200, CoerceCount("1,200"))
	assert.Equal(t, 0, CoerceCount("***"))
	assert.Equal(t, 0, CoerceCount(""))
}
