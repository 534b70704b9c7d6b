package assettokenize

import "rwa-workers/internal/engine/minting"

type Input struct {
	AssetID string `json:"assetId"`
}

type Output struct {
	AssetID          string                `json:"assetId"`
	TokenID          string                `json:"tokenId"`
	ContractAddress  string                `json:"contractAddress"`
	TransactionHash  string                `json:"transactionHash"`
	TokenStandard    string                `json:"tokenStandard"`
	Network          string                `json:"network"`
	Metadata         minting.TokenMetadata `json:"metadata"`
	TokenizationDate string                `json:"tokenizationDate"` // ISO 8601
}
