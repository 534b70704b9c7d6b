package nlp

import (
	"math"
	"strings"
)

// LexiconScorer scores polarity from fixed word lists with simple
// negation handling. Compound normalization follows the usual
// hits/sqrt(hits^2+alpha) curve so it stays bounded in [-1,1].
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

const compoundAlpha = 15.0

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "beautiful": {}, "pristine": {},
	"luxury": {}, "luxurious": {}, "valuable": {}, "rare": {}, "prime": {},
	"spacious": {}, "modern": {}, "renovated": {}, "new": {}, "mint": {},
	"clean": {}, "solid": {}, "premium": {}, "stunning": {}, "perfect": {},
	"best": {}, "fine": {}, "original": {}, "authentic": {}, "certified": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "poor": {}, "damaged": {}, "broken": {}, "old": {},
	"worn": {}, "rusty": {}, "cracked": {}, "faded": {}, "cheap": {},
	"worst": {}, "terrible": {}, "awful": {}, "leaking": {}, "failing": {},
	"condemned": {}, "salvage": {}, "wrecked": {}, "defective": {},
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {}, "isn't": {},
	"wasn't": {}, "don't": {}, "doesn't": {}, "didn't": {}, "hardly": {},
}

func (s *LexiconScorer) Score(text string) SentimentScores {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return SentimentScores{Neutral: 1.0}
	}

	var posHits, negHits float64
	for i, tok := range tokens {
		_, isPos := positiveWords[tok]
		_, isNeg := negativeWords[tok]
		if !isPos && !isNeg {
			continue
		}

		// A negation immediately before the token flips its polarity.
		if i > 0 {
			if _, negated := negations[tokens[i-1]]; negated {
				isPos, isNeg = isNeg, isPos
			}
		}

		if isPos {
			posHits++
		} else {
			negHits++
		}
	}

	n := float64(len(tokens))
	pos := posHits / n
	neg := negHits / n
	neu := 1.0 - pos - neg
	if neu < 0 {
		neu = 0
	}

	raw := posHits - negHits
	compound := raw / math.Sqrt(raw*raw+compoundAlpha)

	return SentimentScores{
		Compound: compound,
		Positive: pos,
		Negative: neg,
		Neutral:  neu,
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"()[]")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
