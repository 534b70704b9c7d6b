package assetverify

type Input struct {
	AssetID string `json:"assetId"`
}

type Output struct {
	AssetID         string             `json:"assetId"`
	VerificationID  string             `json:"verificationId"`
	Status          string             `json:"verificationStatus"`
	OverallScore    float64            `json:"overallScore"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Issues          []string           `json:"issues"`
	Recommendations []string           `json:"recommendations"`
	NextSteps       []string           `json:"nextSteps"`
	VerifiedAt      string             `json:"verifiedAt"` // ISO 8601
}
