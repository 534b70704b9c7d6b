// Package extraction turns a free-text asset description into a typed
// attribute set plus candidate follow-up questions.
package extraction

import (
	"strconv"
	"strings"

	"rwa-workers/internal/nlp"
)

// AttributeSet is the structured result of parsing one submission.
// It is immutable after creation; the caller owns persistence.
type AttributeSet struct {
	Category        Category            `json:"assetType"`
	Description     string              `json:"description"`
	EstimatedValue  *float64            `json:"estimatedValue,omitempty"`
	Location        string              `json:"location,omitempty"`
	Sentiment       nlp.SentimentScores `json:"sentiment"`
	Entities        []nlp.Entity        `json:"entities"`
	ConfidenceScore float64             `json:"confidenceScore"`
}

// Engine extracts attributes from raw text. Sentiment and entity
// recognition are pluggable; everything else is fixed tables.
type Engine struct {
	sentiment nlp.SentimentScorer
	entities  nlp.EntityRecognizer
}

func NewEngine(sentiment nlp.SentimentScorer, entities nlp.EntityRecognizer) *Engine {
	return &Engine{sentiment: sentiment, entities: entities}
}

// NewDefaultEngine wires the lexicon scorer and pattern recognizer.
func NewDefaultEngine() *Engine {
	return NewEngine(nlp.NewLexiconScorer(), nlp.NewPatternRecognizer())
}

func (e *Engine) Extract(text string) AttributeSet {
	attrs := AttributeSet{
		Category:    detectCategory(text),
		Description: cleanDescription(text),
		Location:    extractLocation(text),
		Sentiment:   e.sentiment.Score(text),
		Entities:    e.entities.Recognize(text),
	}
	attrs.EstimatedValue = extractValue(text)
	attrs.ConfidenceScore = calculateConfidence(&attrs)
	return attrs
}

func detectCategory(text string) Category {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return CategoryUnknown
}

func extractValue(text string) *float64 {
	for _, pattern := range valuePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		raw := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return &value
	}
	return nil
}

func extractLocation(text string) string {
	for _, pattern := range locationPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return match[1]
		}
	}
	return ""
}

func cleanDescription(text string) string {
	description := strings.Join(strings.Fields(text), " ")
	// Character limit, not bytes. Slicing the string directly would cut
	// multi-byte runes short.
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen])
	}
	return description
}

// confidenceRules is the additive rubric: an ordered (predicate, weight)
// list summed and clamped. The weights are a fixed contract.
var confidenceRules = []struct {
	weight  float64
	applies func(a *AttributeSet) bool
}{
	{0.3, func(a *AttributeSet) bool { return a.Category != CategoryUnknown }},
	{0.3, func(a *AttributeSet) bool { return a.EstimatedValue != nil }},
	{0.2, func(a *AttributeSet) bool { return a.Location != "" }},
	{0.1, func(a *AttributeSet) bool { return a.Sentiment.Compound >= 0 }},
	{0.1, func(a *AttributeSet) bool { return len(a.Entities) > 0 }},
}

func calculateConfidence(attrs *AttributeSet) float64 {
	score := 0.0
	for _, rule := range confidenceRules {
		if rule.applies(attrs) {
			score += rule.weight
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// FollowUpQuestions returns up to three clarifying questions, in fixed
// priority order: missing category, value, location, then a generic
// prompt for low confidence, then a category-specific document request.
func (e *Engine) FollowUpQuestions(attrs AttributeSet) []string {
	var questions []string

	if attrs.Category == CategoryUnknown {
		questions = append(questions, questionCategory)
	}
	if attrs.EstimatedValue == nil {
		questions = append(questions, questionValue)
	}
	if attrs.Location == "" {
		questions = append(questions, questionLocation)
	}
	if attrs.ConfidenceScore < 0.7 {
		questions = append(questions, questionConfidence)
	}
	if q, ok := documentQuestions[attrs.Category]; ok {
		questions = append(questions, q)
	}

	if len(questions) > maxFollowUpQuestions {
		questions = questions[:maxFollowUpQuestions]
	}
	return questions
}
