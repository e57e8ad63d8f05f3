package outfit

import (
	"strings"

	"server/internal/domain"
)

// categoryTerms are the fixed search keywords per category slot.
var categoryTerms = map[string]string{
	"outer":     "jacket blazer overshirt coat",
	"top1":      "shirt knit sweater",
	"top2":      "shirt knit sweater",
	"tee":       "t-shirt tee",
	"bottom":    "chino trousers jeans",
	"shoes":     "sneakers shoes",
	"accessory": "belt scarf",
	"belt":      "belt",
}

// BuildQuery turns the intake preferences into a shopping search query for
// one category. The output is deterministic for identical intakes because
// the assembler uses it as a cache key.
func BuildQuery(category string, intake domain.Intake) string {
	styles := intake.Styles
	if len(styles) == 0 {
		styles = []string{"casual"}
	}
	if len(styles) > 2 {
		styles = styles[:2]
	}
	colors := intake.FavoriteColors
	if len(colors) > 3 {
		colors = colors[:3]
	}

	parts := []string{
		genderToken(intake.Gender),
		strings.Join(styles, " "),
		categoryTerms[category],
		strings.Join(colors, " "),
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// genderToken maps the normalized (or raw) gender value onto the search
// token Google Shopping understands.
func genderToken(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "man", "male", "m":
		return "men"
	case "vrouw", "female", "f", "v":
		return "women"
	default:
		return ""
	}
}
