package models

// Transaction types recorded against an asset.
const (
	TransactionTypeVerification = "verification"
	TransactionTypeTokenization = "tokenization"
)

// AssetTransaction is an audit row for each verification or tokenization
// attempt. Details carries the full engine result as JSON.
type AssetTransaction struct {
	ID              string `json:"id"`
	AssetID         string `json:"assetId"`
	TransactionType string `json:"transactionType"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Status          string `json:"status"`
	Details         string `json:"details,omitempty"`
	CreatedAt       string `json:"createdAt"`
}
