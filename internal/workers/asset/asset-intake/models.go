package assetintake

type Input struct {
	UserID        string `json:"userId"`
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email"`
	Description   string `json:"description"`
}

type Output struct {
	AssetID            string   `json:"assetId"`
	AssetType          string   `json:"assetType"`
	Description        string   `json:"description"`
	EstimatedValue     *float64 `json:"estimatedValue,omitempty"`
	Location           string   `json:"location,omitempty"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	FollowUpQuestions  []string `json:"followUpQuestions"`
	VerificationStatus string   `json:"verificationStatus"`
	CreatedAt          string   `json:"createdAt"` // ISO 8601
}
