// Package minting derives token identifiers, contract coordinates, and
// marketplace metadata for a verified asset. Identifiers are sha256
// derivations, not on-chain artifacts.
package minting

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rwa-workers/internal/common/config"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/engine/verification"
)

// ErrNotVerified gates every mint: only assets that passed
// verification may be tokenized.
var ErrNotVerified = errors.New("Asset must be verified before tokenization")

const tokenIDPrefix = "RWA_"

// MintRequest is the asset snapshot a mint operates on.
type MintRequest struct {
	AssetID            string
	Category           extraction.Category
	Description        string
	EstimatedValue     float64
	Location           string
	VerificationStatus verification.Status
}

// MintResult is the full token record produced by a successful mint.
type MintResult struct {
	TokenID          string        `json:"tokenId"`
	ContractAddress  string        `json:"contractAddress"`
	ContractBytecode string        `json:"contractBytecode"`
	TransactionHash  string        `json:"transactionHash"`
	TokenStandard    string        `json:"tokenStandard"`
	Network          string        `json:"network"`
	Metadata         TokenMetadata `json:"metadata"`
	MintedAt         time.Time     `json:"mintedAt"`
}

// TransferResult records a simulated token transfer.
type TransferResult struct {
	TransactionHash string    `json:"transactionHash"`
	TokenID         string    `json:"tokenId"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	TransferredAt   time.Time `json:"transferredAt"`
}

// Minter derives token records. The clock and uuid source are fields
// so tests can pin them.
type Minter struct {
	cfg     config.TokenizationConfig
	now     func() time.Time
	newUUID func() string
}

func NewMinter(cfg config.TokenizationConfig) *Minter {
	return &Minter{
		cfg:     cfg,
		now:     time.Now,
		newUUID: uuid.NewString,
	}
}

// Mint checks the verification gate and derives the token record. Any
// panic inside the derivation is reported as a tokenization failure.
func (m *Minter) Mint(req MintRequest) (result MintResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Tokenization failed: %v", r)
		}
	}()

	if req.VerificationStatus != verification.StatusVerified {
		return MintResult{}, ErrNotVerified
	}

	now := m.now().UTC()

	tokenSeed := fmt.Sprintf("%s_%s_%d", req.AssetID, req.Category, now.Unix())
	tokenID := tokenIDPrefix + strings.ToUpper(sha256Hex(tokenSeed)[:16])

	contractSeed := fmt.Sprintf("contract_%s_%s", req.Category, m.newUUID())
	contractAddress := "0x" + sha256Hex(contractSeed)[:40]

	txSeed := fmt.Sprintf("tx_%s_%d", contractAddress, now.Unix())
	txHash := "0x" + sha256Hex(txSeed)

	bytecode := "0x" + sha256Hex(fmt.Sprintf("bytecode_%s", req.Category))

	return MintResult{
		TokenID:          tokenID,
		ContractAddress:  contractAddress,
		ContractBytecode: bytecode,
		TransactionHash:  txHash,
		TokenStandard:    m.cfg.TokenStandard,
		Network:          m.cfg.Network,
		Metadata:         m.buildMetadata(req, now),
		MintedAt:         now,
	}, nil
}

// VerifyOwnership is a placeholder for registry integration and
// currently accepts every claim.
func (m *Minter) VerifyOwnership(assetID, ownerID string) bool {
	return true
}

// Transfer simulates moving a token between wallets and returns a
// fresh transaction hash.
func (m *Minter) Transfer(tokenID, from, to string) TransferResult {
	now := m.now().UTC()
	seed := fmt.Sprintf("transfer_%s_%s_%s_%d", tokenID, from, to, now.Unix())
	return TransferResult{
		TransactionHash: "0x" + sha256Hex(seed),
		TokenID:         tokenID,
		From:            from,
		To:              to,
		TransferredAt:   now,
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
