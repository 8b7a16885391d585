// Package language holds the registry of spoken languages the bot supports.
package language

import "strings"

// Locale describes one selectable spoken language.
type Locale struct {
	// Tag is the BCP-47 tag handed to the speech engines (e.g. "hi-IN").
	Tag string
	// Name is the human-readable display name sent to the relay. For the
	// Indic languages it carries the native script alongside the English
	// name, matching what the language picker shows.
	Name string
}

// DefaultTag is the locale selected at session start.
const DefaultTag = "en-US"

var supported = []Locale{
	{Tag: "en-US", Name: "English"},
	{Tag: "hi-IN", Name: "हिंदी (Hindi)"},
	{Tag: "bn-IN", Name: "বাংলা (Bengali)"},
}

// Supported returns the selectable locales in display order.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Lookup resolves a locale tag, case-insensitively.
func Lookup(tag string) (Locale, bool) {
	for _, l := range supported {
		if strings.EqualFold(l.Tag, tag) {
			return l, true
		}
	}
	return Locale{}, false
}

// Default returns the locale for DefaultTag.
func Default() Locale {
	l, _ := Lookup(DefaultTag)
	return l
}

// Primary extracts the primary subtag: "hi-IN" -> "hi".
func Primary(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		return strings.ToLower(tag[:i])
	}
	return strings.ToLower(tag)
}
