package assetsearch

type Input struct {
	Query              string   `json:"query,omitempty"`
	AssetType          string   `json:"assetType,omitempty"`
	UserID             string   `json:"userId,omitempty"`
	VerificationStatus string   `json:"verificationStatus,omitempty"`
	MinValue           *float64 `json:"minValue,omitempty"`
	MaxValue           *float64 `json:"maxValue,omitempty"`
	From               int      `json:"from,omitempty"`
	Size               int      `json:"size,omitempty"`
}

type Output struct {
	Results   []map[string]interface{} `json:"results"`
	TotalHits int64                    `json:"totalHits"`
	Took      int64                    `json:"took"` // milliseconds
}
