package domain

// Dimension identifies one of the normalization dimensions handled by the
// engine. Mapping tables and learned mappings are curated per dimension.
type Dimension string

const (
	DimensionSpecialty    Dimension = "specialty"
	DimensionRegion       Dimension = "region"
	DimensionProviderType Dimension = "providerType"
	DimensionVariable     Dimension = "variable"
)

// SourceCategory classifies a survey source by the kind of compensation
// data it carries.
type SourceCategory string

const (
	CategoryCompensation SourceCategory = "compensation"
	CategoryCallPay      SourceCategory = "call-pay"
	CategoryMoonlighting SourceCategory = "moonlighting"
	CategoryCustom       SourceCategory = "custom"
)

// Valid reports whether c is a known category.
func (c SourceCategory) Valid() bool {
	switch c {
	case CategoryCompensation, CategoryCallPay, CategoryMoonlighting, CategoryCustom:
		return true
	}
	return false
}

// SurveySource describes one ingested vendor extract. Sources are immutable
// once ingested and owned by the row store.
type SurveySource struct {
	ID           string         `json:"id"`
	VendorName   string         `json:"vendor_name"`
	Category     SourceCategory `json:"category"`
	ProviderType string         `json:"provider_type,omitempty"`
	Year         int            `json:"year"`
}

// RawRow is one field-keyed observation from a survey extract. Field names
// and value formatting vary by vendor; the normalization pipeline owns all
// interpretation.
type RawRow map[string]string
