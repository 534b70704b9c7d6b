package models

// Asset is the persisted record a submission produces. Requirements holds
// the extraction artifacts (confidence, sentiment, entities) as JSON, the
// same way the intake stores them.
type Asset struct {
	ID                 string   `json:"id"`
	UserID             string   `json:"userId"`
	AssetType          string   `json:"assetType"`
	Description        string   `json:"description"`
	EstimatedValue     *float64 `json:"estimatedValue,omitempty"`
	Location           string   `json:"location,omitempty"`
	VerificationStatus string   `json:"verificationStatus"`
	TokenID            string   `json:"tokenId,omitempty"`
	Requirements       string   `json:"requirements,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}
