package sendnotification

import "time"

type Input struct {
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
	Event     string `json:"event"`
	AssetID   string `json:"assetId"`
	AssetType string `json:"assetType,omitempty"`
	TokenID   string `json:"tokenId,omitempty"`
}

type Output struct {
	Success  bool      `json:"success"`
	Channels []string  `json:"channels"`
	SentAt   time.Time `json:"sentAt"`
}
