// Package mood classifies free text into a weather mood and detects which
// companion a message talks about. Matching is plain case-insensitive substring
// search against the catalog keyword lists.
package mood

import (
	"strings"

	"zootopia/internal/catalog"
)

// Classify maps text to a weather mood. Categories are tried in catalog priority
// order and the first one with a matching keyword wins; text with no match is
// sunny.
func Classify(text string) catalog.WeatherMood {
	lower := strings.ToLower(text)
	for _, w := range catalog.Weathers() {
		if containsAny(lower, w.Keywords) {
			return w.Mood
		}
	}
	return catalog.DefaultMood
}

// DetectCompanion finds the first companion, in catalog order, whose keywords,
// name or emoji appear in text.
func DetectCompanion(text string) (catalog.CompanionType, bool) {
	lower := strings.ToLower(text)
	for _, c := range catalog.Companions() {
		if containsAny(lower, c.Keywords) {
			return c.Type, true
		}
		if strings.Contains(lower, strings.ToLower(c.Name)) || strings.Contains(lower, c.Emoji) {
			return c.Type, true
		}
	}
	return "", false
}

type Report struct {
	Mood               catalog.WeatherMood
	Name               string
	Emoji              string
	Description        string
	DisplayTemperature int
	Suggestion         string
	Text               string
}

// Reporter builds mood reports with an injectable random source.
type Reporter struct {
	rnd catalog.Rand
}

// NewReporter returns a Reporter drawing from r, or from the shared
// math/rand/v2 source when r is nil.
func NewReporter(r catalog.Rand) *Reporter {
	if r == nil {
		r = catalog.SharedRand{}
	}
	return &Reporter{rnd: r}
}

// Report picks a display temperature within the mood's range and one of its
// suggestion lines. An unknown mood reports as the default mood.
func (r *Reporter) Report(text string, m catalog.WeatherMood) Report {
	w, ok := catalog.Weather(m)
	if !ok {
		w, _ = catalog.Weather(catalog.DefaultMood)
	}
	temp := w.TempMin + r.rnd.IntN(w.TempMax-w.TempMin+1)
	return Report{
		Mood:               w.Mood,
		Name:               w.Name,
		Emoji:              w.Emoji,
		Description:        w.Description,
		DisplayTemperature: temp,
		Suggestion:         w.Suggestions[r.rnd.IntN(len(w.Suggestions))],
		Text:               text,
	}
}

// Analyze classifies text and reports on the result.
func (r *Reporter) Analyze(text string) Report {
	return r.Report(text, Classify(text))
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
