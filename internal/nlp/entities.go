package nlp

import (
	"regexp"
	"sort"
)

// PatternRecognizer finds entity-like spans with fixed regular
// expressions. It covers the labels the asset pipeline cares about;
// explanations mirror the conventional meaning of each label.
type PatternRecognizer struct{}

func NewPatternRecognizer() *PatternRecognizer {
	return &PatternRecognizer{}
}

var labelExplanations = map[string]string{
	"MONEY":    "Monetary values, including unit",
	"DATE":     "Absolute or relative dates or periods",
	"GPE":      "Countries, cities, states",
	"CARDINAL": "Numerals that do not fall under another type",
}

// entityPatterns is a priority order: when spans overlap, the earlier
// pattern wins.
var entityPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"MONEY", regexp.MustCompile(`\$[0-9]+(?:,[0-9]{3})*(?:\.[0-9]{2})?`)},
	{"DATE", regexp.MustCompile(`\b(?:19|20)[0-9]{2}\b|\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\b`)},
	{"GPE", regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)*\b`)},
	{"CARDINAL", regexp.MustCompile(`\b[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?\b`)},
}

type span struct {
	start, end int
	priority   int
	entity     Entity
}

func (r *PatternRecognizer) Recognize(text string) []Entity {
	var spans []span
	for prio, p := range entityPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{
				start:    loc[0],
				end:      loc[1],
				priority: prio,
				entity: Entity{
					Text:        text[loc[0]:loc[1]],
					Label:       p.label,
					Description: labelExplanations[p.label],
				},
			})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].priority < spans[j].priority
	})

	// Drop spans overlapping an already accepted one.
	out := make([]Entity, 0, len(spans))
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		out = append(out, s.entity)
		lastEnd = s.end
	}
	return out
}
