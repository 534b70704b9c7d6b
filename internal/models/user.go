package models

type User struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
	Email         string `json:"email,omitempty"`
	Jurisdiction  string `json:"jurisdiction,omitempty"`
	CreatedAt     string `json:"createdAt"`
}
