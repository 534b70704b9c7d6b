package verification

import "rwa-workers/internal/engine/extraction"

// valueRanges bound plausible valuations per category. Values below
// the floor score 0.3, above the ceiling 0.6, inside 1.0.
var valueRanges = map[extraction.Category]struct {
	min float64
	max float64
}{
	extraction.CategoryRealEstate: {10_000, 50_000_000},
	extraction.CategoryVehicle:    {1_000, 2_000_000},
	extraction.CategoryArtwork:    {500, 100_000_000},
	extraction.CategoryEquipment:  {100, 5_000_000},
	extraction.CategoryCommodity:  {50, 10_000_000},
}

// jurisdictionRegions maps uppercase location markers to a region
// code. Scanned in order; first marker contained in the location wins.
var jurisdictionRegions = []struct {
	code    string
	markers []string
}{
	{"US", []string{"USA", "UNITED STATES", "AMERICA", "NEW YORK", "CALIFORNIA", "TEXAS"}},
	{"UK", []string{"UNITED KINGDOM", "ENGLAND", "SCOTLAND", "WALES", "LONDON"}},
	{"CA", []string{"CANADA", "TORONTO", "VANCOUVER", "MONTREAL"}},
	{"EU", []string{"GERMANY", "FRANCE", "SPAIN", "ITALY", "NETHERLANDS"}},
	{"SG", []string{"SINGAPORE"}},
}

const jurisdictionOther = "OTHER"

var supportedJurisdictions = map[string]bool{
	"US": true,
	"EU": true,
	"UK": true,
	"CA": true,
	"SG": true,
}

const (
	jurisdictionScoreSupported   = 0.9
	jurisdictionScoreUnsupported = 0.5
	jurisdictionScoreNone        = 0.3
)

// categoryIndicators are terms whose presence in the description lifts
// the compliance score 0.1 each above the 0.5 base.
var categoryIndicators = map[extraction.Category][]string{
	extraction.CategoryRealEstate: {"sqft", "bedroom", "bathroom", "acre", "floor", "apartment"},
	extraction.CategoryVehicle:    {"year", "model", "make", "mileage", "engine", "transmission"},
	extraction.CategoryArtwork:    {"artist", "canvas", "oil", "watercolor", "sculpture", "signed"},
	extraction.CategoryEquipment:  {"serial", "model", "manufacturer", "warranty", "condition"},
	extraction.CategoryCommodity:  {"grade", "purity", "weight", "certificate", "assay", "quality"},
}

const (
	recCompleteness = "Provide more detailed asset description"
	recValue        = "Consider professional appraisal for accurate valuation"
	recJurisdiction = "Verify jurisdiction-specific compliance requirements"
)

var categoryRecommendations = map[extraction.Category]string{
	extraction.CategoryRealEstate: "Obtain property deeds and recent appraisal",
	extraction.CategoryVehicle:    "Provide vehicle title and registration documents",
	extraction.CategoryArtwork:    "Obtain authenticity certificate and professional appraisal",
}

var nextStepsByStatus = map[Status][]string{
	StatusVerified: {
		"Asset ready for tokenization",
		"Prepare smart contract deployment",
		"Set up marketplace listing",
	},
	StatusRequiresReview: {
		"Submit additional documentation",
		"Schedule manual review",
		"Address verification concerns",
	},
	StatusRejected: {
		"Review asset information",
		"Provide missing documentation",
		"Contact support for assistance",
	},
	StatusError: {
		"Review asset information",
		"Provide missing documentation",
		"Contact support for assistance",
	},
}
