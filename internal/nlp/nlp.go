// Package nlp provides the language capabilities the extraction engine
// depends on, behind narrow interfaces so any conforming implementation
// (lexicon-based, statistical, or a test stub) can be substituted.
package nlp

// SentimentScores holds the four polarity components. Compound is in
// [-1,1]; Positive/Negative/Neutral are in [0,1] and sum to roughly 1.
type SentimentScores struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Entity is a recognized span with its label and a human-readable
// explanation of what the label means.
type Entity struct {
	Text        string `json:"text"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type SentimentScorer interface {
	Score(text string) SentimentScores
}

type EntityRecognizer interface {
	Recognize(text string) []Entity
}
