// Package verification scores an extracted attribute set against
// completeness, valuation, jurisdiction, and category rules, then maps
// the overall score onto a verification status.
package verification

import (
	"fmt"
	"strings"
	"time"

	"rwa-workers/internal/engine/extraction"
)

// Status is the lifecycle state a verification run assigns.
type Status string

const (
	StatusPending        Status = "pending"
	StatusVerified       Status = "verified"
	StatusRequiresReview Status = "requires_review"
	StatusRejected       Status = "rejected"
	StatusError          Status = "error"
)

// Breakdown keys, fixed across every result.
const (
	CheckCompleteness       = "completeness"
	CheckValueAssessment    = "value_assessment"
	CheckJurisdiction       = "jurisdiction"
	CheckCategoryCompliance = "category_compliance"
)

const (
	thresholdVerified = 0.7
	thresholdReview   = 0.5
)

// Result carries the overall score, its four sub-scores, and the
// operator-facing guidance derived from them.
type Result struct {
	OverallScore    float64            `json:"overallScore"`
	Status          Status             `json:"status"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Issues          []string           `json:"issues"`
	Recommendations []string           `json:"recommendations"`
	NextSteps       []string           `json:"nextSteps"`
	VerifiedAt      time.Time          `json:"verifiedAt"`
}

// namedCheck pairs a breakdown key with its scoring function.
type namedCheck struct {
	name  string
	score func(extraction.AttributeSet) float64
}

// Engine evaluates attribute sets through an ordered list of checks.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	checks []namedCheck
}

func NewEngine() *Engine {
	return &Engine{
		checks: []namedCheck{
			{CheckCompleteness, scoreCompleteness},
			{CheckValueAssessment, scoreValue},
			{CheckJurisdiction, func(attrs extraction.AttributeSet) float64 {
				return scoreJurisdiction(attrs.Location)
			}},
			{CheckCategoryCompliance, scoreCategoryCompliance},
		},
	}
}

// Verify runs the four checks and averages them into the overall
// score. A panic inside a check degrades to an error-status result
// rather than crashing the caller.
func (e *Engine) Verify(attrs extraction.AttributeSet) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				OverallScore: 0,
				Status:       StatusError,
				Breakdown:    map[string]float64{},
				Issues:       []string{fmt.Sprintf("Verification error: %v", r)},
				NextSteps:    nextStepsByStatus[StatusError],
				VerifiedAt:   time.Now().UTC(),
			}
		}
	}()

	breakdown := make(map[string]float64, len(e.checks))
	overall := 0.0
	for _, check := range e.checks {
		score := check.score(attrs)
		breakdown[check.name] = score
		overall += score
	}
	overall /= float64(len(e.checks))

	status := StatusRejected
	switch {
	case overall >= thresholdVerified:
		status = StatusVerified
	case overall >= thresholdReview:
		status = StatusRequiresReview
	}

	return Result{
		OverallScore:    overall,
		Status:          status,
		Breakdown:       breakdown,
		Issues:          []string{},
		Recommendations: buildRecommendations(breakdown, attrs.Category),
		NextSteps:       nextStepsByStatus[status],
		VerifiedAt:      time.Now().UTC(),
	}
}

// Jurisdiction resolves a free-form location to a region code, or
// empty when no location was given.
func Jurisdiction(location string) string {
	if location == "" {
		return ""
	}
	upper := strings.ToUpper(location)
	for _, region := range jurisdictionRegions {
		for _, marker := range region.markers {
			if strings.Contains(upper, marker) {
				return region.code
			}
		}
	}
	return jurisdictionOther
}

func scoreCompleteness(attrs extraction.AttributeSet) float64 {
	score := 0.0
	if len(attrs.Description) >= 10 {
		score += 0.25
	}
	if attrs.EstimatedValue != nil && *attrs.EstimatedValue > 0 {
		score += 0.25
	}
	if len(attrs.Category) >= 2 {
		score += 0.25
	}
	if len(attrs.Location) >= 2 {
		score += 0.25
	}
	return score
}

func scoreValue(attrs extraction.AttributeSet) float64 {
	if attrs.EstimatedValue == nil || *attrs.EstimatedValue <= 0 {
		return 0.0
	}
	bounds, ok := valueRanges[attrs.Category]
	if !ok {
		return 0.5
	}
	value := *attrs.EstimatedValue
	switch {
	case value < bounds.min:
		return 0.3
	case value > bounds.max:
		return 0.6
	default:
		return 1.0
	}
}

func scoreJurisdiction(location string) float64 {
	jurisdiction := Jurisdiction(location)
	if jurisdiction == "" {
		return jurisdictionScoreNone
	}
	if supportedJurisdictions[jurisdiction] {
		return jurisdictionScoreSupported
	}
	return jurisdictionScoreUnsupported
}

func scoreCategoryCompliance(attrs extraction.AttributeSet) float64 {
	indicators, ok := categoryIndicators[attrs.Category]
	if !ok {
		return 0.4
	}
	score := 0.5
	lower := strings.ToLower(attrs.Description)
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			score += 0.1
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// buildRecommendations appends guidance for every sub-score under 0.8,
// in the fixed breakdown order.
func buildRecommendations(breakdown map[string]float64, category extraction.Category) []string {
	recommendations := []string{}
	if breakdown[CheckCompleteness] < 0.8 {
		recommendations = append(recommendations, recCompleteness)
	}
	if breakdown[CheckValueAssessment] < 0.8 {
		recommendations = append(recommendations, recValue)
	}
	if breakdown[CheckJurisdiction] < 0.8 {
		recommendations = append(recommendations, recJurisdiction)
	}
	if breakdown[CheckCategoryCompliance] < 0.8 {
		if rec, ok := categoryRecommendations[category]; ok {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}
