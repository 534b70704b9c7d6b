package portfoliostats

type Input struct {
	UserID string `json:"userId"`
}

type Output struct {
	UserID           string         `json:"userId"`
	TotalAssets      int64          `json:"totalAssets"`
	TotalValue       float64        `json:"totalValue"`
	StatusCounts     map[string]int `json:"statusCounts"`
	TokenizedAssets  int64          `json:"tokenizedAssets"`
	VerificationRate float64        `json:"verificationRate"`
	TokenizationRate float64        `json:"tokenizationRate"`
	GeneratedAt      string         `json:"generatedAt"` // ISO 8601
}
