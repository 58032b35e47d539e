package analysis

import "fmt"

// DefaultActions maps an aspect to the improvement suggested when it
// under-performs.
func DefaultActions() map[string]string {
	return map[string]string{
		"service":     "Run refresher service training and review response times for guest requests.",
		"staff":       "Recognize standout staff and coach teams on personalized, attentive guest interactions.",
		"room":        "Audit room condition and prioritize maintenance for the lowest-rated room categories.",
		"food":        "Review restaurant menus and consider bringing in a consulting chef to refresh offerings.",
		"restaurant":  "Review restaurant menus and consider bringing in a consulting chef to refresh offerings.",
		"breakfast":   "Broaden the breakfast selection and keep the buffet replenished during peak hours.",
		"amenities":   "Survey guests on missing amenities and fix or replace underused facilities.",
		"cleanliness": "Tighten housekeeping checklists and add spot inspections after each turnover.",
		"location":    "Offer shuttle services and curated local guides to ease access to the surroundings.",
		"value":       "Bundle experiences into packages so the rate reflects what guests receive.",
		"price":       "Benchmark rates against the competitive set and communicate included benefits clearly.",
		"pool":        "Consider improvements to pool service, maintenance, or available amenities.",
		"spa":         "Refresh the spa treatment menu and review therapist scheduling to cut waiting times.",
		"bed":         "Upgrade mattresses and offer a pillow menu in the lowest-rated rooms.",
		"bathroom":    "Inspect bathroom fixtures, water pressure and toiletries during routine maintenance.",
		"view":        "Set expectations on room views at booking and offer view upgrades where available.",
		"ambiance":    "Review lighting, music and noise levels in public areas to restore the intended atmosphere.",
		"activities":  "Develop new exclusive activities and experiences unique to the property.",
	}
}

func genericAction(aspect string) string {
	return fmt.Sprintf("Investigate recent guest feedback on %s and set a targeted improvement plan.", aspect)
}
