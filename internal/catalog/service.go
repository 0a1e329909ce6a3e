package catalog

import "strings"

// Service is a bookable clinic service. Loaded once at startup and never
// mutated afterwards.
type Service struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	DurationMinutes  int     `json:"duration_minutes"`
	PreparationNotes string  `json:"preparation_notes,omitempty"`
}

// Service categories recognized by the keyword scan.
const (
	CategoryCardiology       = "cardiology"
	CategoryGastroenterology = "gastroenterology"
	CategoryBloodTest        = "blood-test"
	CategoryDermatology      = "dermatology"
	CategoryGeneral          = "general"
)

// categoryKeywords maps a category to the phrases that select it. Order
// matters: the first category with a hit wins, so the more specific
// complaints come before the generic ones.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryCardiology, []string{"chest pain", "heart", "cardiac", "cardio", "palpitation"}},
	{CategoryGastroenterology, []string{"stomach", "digest", "gastro", "belly", "abdominal", "nausea"}},
	{CategoryBloodTest, []string{"blood", "lab test", "analysis", "screening", "cholesterol"}},
	{CategoryDermatology, []string{"skin", "rash", "acne", "mole", "eczema", "derma"}},
	{CategoryGeneral, []string{"checkup", "check-up", "general practice", "physical exam"}},
}

// MatchCategory scans text for category keywords and returns the first
// category with a hit, or empty when nothing matches.
func MatchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return ""
}

// serviceHits scores a service against text: one point per category keyword
// present plus one per service-name token present. Used to rank suggestions.
func serviceHits(svc Service, text string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, entry := range categoryKeywords {
		if entry.category != svc.Category {
			continue
		}
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
	}
	for _, token := range strings.Fields(strings.ToLower(svc.Name)) {
		if len(token) < 4 {
			continue
		}
		if strings.Contains(lower, token) {
			hits++
		}
	}
	return hits
}
