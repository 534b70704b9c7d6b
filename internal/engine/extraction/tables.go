package extraction

import "regexp"

// Category of a physical asset, as detected from free text.
type Category string

const (
	CategoryRealEstate Category = "real_estate"
	CategoryVehicle    Category = "vehicle"
	CategoryArtwork    Category = "artwork"
	CategoryEquipment  Category = "equipment"
	CategoryCommodity  Category = "commodity"
	CategoryUnknown    Category = "unknown"
)

// categoryKeywords is scanned in order; the first category with a
// substring hit wins, so the order is semantic, not cosmetic.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryRealEstate, []string{"house", "apartment", "property", "building", "land", "condo"}},
	{CategoryVehicle, []string{"car", "truck", "motorcycle", "boat", "plane", "vehicle", "auto"}},
	{CategoryArtwork, []string{"painting", "sculpture", "art", "artwork", "masterpiece"}},
	{CategoryEquipment, []string{"machinery", "equipment", "tool", "device", "machine"}},
	{CategoryCommodity, []string{"gold", "silver", "oil", "wheat", "commodity", "metal"}},
}

// valuePatterns are tried in order; the first parseable capture wins.
var valuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`(?i)([0-9,]+(?:\.[0-9]{2})?) dollars?`),
	regexp.MustCompile(`(?i)worth ([0-9,]+)`),
	regexp.MustCompile(`(?i)valued at ([0-9,]+)`),
}

// locationPatterns require capitalized word runs, so they stay
// case-sensitive on purpose.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`in ([A-Z][a-z]+(?: [A-Z][a-z]+)*)`),
	regexp.MustCompile(`located in ([A-Z][a-z]+(?: [A-Z][a-z]+)*)`),
	regexp.MustCompile(`at ([A-Z][a-z]+(?: [A-Z][a-z]+)*)`),
}

const (
	questionCategory   = "What type of asset are you looking to tokenize? (real estate, vehicle, artwork, etc.)"
	questionValue      = "What is the estimated value of your asset?"
	questionLocation   = "Where is the asset located?"
	questionConfidence = "Could you provide more details about your asset to help us better understand it?"
)

// documentQuestions asks for the ownership paperwork each category needs.
var documentQuestions = map[Category]string{
	CategoryRealEstate: "Do you have property deeds and ownership documents?",
	CategoryVehicle:    "Do you have the vehicle title and registration?",
	CategoryArtwork:    "Do you have authenticity certificates or appraisals?",
}

const maxDescriptionLen = 500
const maxFollowUpQuestions = 3
