package domain

import "strings"

// Intake captures the style and budget preferences driving one generation
// request. Field names mirror the public API payload; Geslacht is accepted
// as an alias for Gender for older frontends.
type Intake struct {
	Purpose                  string            `json:"purpose"`
	Styles                   []string          `json:"styles,omitempty"`
	Gender                   string            `json:"gender,omitempty"`
	Geslacht                 string            `json:"geslacht,omitempty"`
	Fit                      string            `json:"fit,omitempty"`
	AgeRange                 string            `json:"age_range,omitempty"`
	Country                  string            `json:"country,omitempty"`
	Currency                 string            `json:"currency,omitempty"`
	BudgetTotal              float64           `json:"budget_total,omitempty"`
	BudgetPerItem            float64           `json:"budget_per_item,omitempty"`
	Sizes                    map[string]string `json:"sizes,omitempty"`
	FavoriteColors           []string          `json:"favorite_colors,omitempty"`
	MaterialsAvoid           []string          `json:"materials_avoid,omitempty"`
	Accessibility            map[string]any    `json:"accessibility,omitempty"`
	SustainabilityPreference bool              `json:"sustainability_preference,omitempty"`
}

const (
	DefaultBudgetTotal = 250
	DefaultCountry     = "NL"
)

// Normalize applies defaults and maps tolerated gender aliases onto the
// canonical man/vrouw values. Safe to call more than once.
func (in *Intake) Normalize() {
	if in.Gender == "" && in.Geslacht != "" {
		in.Gender = in.Geslacht
	}
	switch g := strings.ToLower(strings.TrimSpace(in.Gender)); g {
	case "male", "m":
		in.Gender = "man"
	case "female", "f", "v":
		in.Gender = "vrouw"
	default:
		in.Gender = g
	}
	if in.BudgetTotal <= 0 {
		in.BudgetTotal = DefaultBudgetTotal
	}
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
	if len(in.Country) > 2 {
		in.Country = in.Country[:2]
	}
	if in.Country == "" {
		in.Country = DefaultCountry
	}
}
