package speech

import (
	"strings"

	"interview-voicebot/internal/language"
)

// Voice describes one synthesis voice offered by the engine.
type Voice struct {
	ID       string
	Name     string
	Language string
	Gender   string
}

// masculineNames is the curated preference list applied when several voices
// share the requested language. Cosmetic only; any same-language voice is an
// acceptable fallback.
var masculineNames = []string{
	"male", "man", "david", "mark", "ravi", "hemant",
	"prabhat", "daniel", "alex", "george",
}

// Choose picks a voice for the locale: any voice whose language shares the
// locale's primary subtag, upgraded to a masculine-sounding one when more
// than a single candidate exists. Returns false when no voice matches the
// language, in which case the engine default should be used.
func Choose(voices []Voice, locale string) (Voice, bool) {
	primary := language.Primary(locale)
	if primary == "" {
		return Voice{}, false
	}

	var candidates []Voice
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Language), primary) {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return Voice{}, false
	}

	selected := candidates[0]
	if len(candidates) > 1 {
		for _, v := range candidates {
			if strings.EqualFold(v.Gender, "male") || soundsMasculine(v.Name) {
				selected = v
				break
			}
		}
	}
	return selected, true
}

func soundsMasculine(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range masculineNames {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
