package purpose

import (
	"strings"

	"github.com/pkordes/packlist/internal/domain"
)

type keywordRule struct {
	category string
	keywords []string
}

// keywordRules are tried in order; the first category with a keyword found in
// the folded text wins.
var keywordRules = []keywordRule{
	{"beach", []string{"beach", "sea", "seaside", "swim", "resort", "sunbath"}},
	{"business", []string{"business", "work", "conference", "meeting", "office", "client"}},
	{"hiking", []string{"hike", "hiking", "trek", "mountain", "camping"}},
	{"active", []string{"active", "ski", "surf", "bike", "cycling", "climb", "kayak"}},
	{"cruise", []string{"cruise", "ferry", "sailing"}},
	{"cultural", []string{"museum", "concert", "exhibition", "culture", "cultural", "theatre", "theater", "festival"}},
	{"sightseeing", []string{"sightseeing", "sights", "city", "tour"}},
	{"wellness", []string{"spa", "wellness", "retreat", "yoga"}},
	{"education", []string{"study", "studies", "course", "school", "university", "education"}},
	{"sports", []string{"sport", "match", "marathon", "championship", "tournament", "game"}},
	{"religious", []string{"pilgrimage", "church", "temple", "religious"}},
	{"family", []string{"family", "kids", "children", "relatives", "parents", "wedding"}},
	{"medical", []string{"medical", "clinic", "hospital", "treatment", "doctor", "surgery"}},
}

// matchKeywords is the classification used when no model is configured.
// Categories missing from base are skipped; no hit yields "other".
func matchKeywords(text string, base []domain.TripPurpose) string {
	folded := Normalize(text)
	for _, r := range keywordRules {
		if _, ok := find(base, r.category); !ok {
			continue
		}
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return r.category
			}
		}
	}
	return domain.PurposeOther
}
