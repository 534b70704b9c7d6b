package minting

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwa-workers/internal/common/config"
	"rwa-workers/internal/engine/extraction"
	"rwa-workers/internal/engine/verification"
)

var (
	tokenIDPattern  = regexp.MustCompile(`^RWA_[0-9A-F]{16}$`)
	addressPattern  = regexp.MustCompile(`^0x[0-9a-f]{40}$`)
	fullHashPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
)

func testConfig() config.TokenizationConfig {
	return config.TokenizationConfig{
		TokenStandard:  "RWA-721",
		Network:        "RWA-TestNet",
		MarketplaceURL: "https://rwa-marketplace.com/asset/",
		ImageBaseURL:   "https://placeholder.com/400x400",
	}
}

func testMinter() *Minter {
	minter := NewMinter(testConfig())
	minter.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	minter.newUUID = func() string {
		return "11111111-2222-3333-4444-555555555555"
	}
	return minter
}

func verifiedRequest() MintRequest {
	return MintRequest{
		AssetID:            "asset-123",
		Category:           extraction.CategoryRealEstate,
		Description:        "3 bedroom house in California",
		EstimatedValue:     250000,
		Location:           "California",
		VerificationStatus: verification.StatusVerified,
	}
}

func TestMint_RefusesUnverifiedAsset(t *testing.T) {
	minter := testMinter()

	for _, status := range []verification.Status{
		verification.StatusPending,
		verification.StatusRequiresReview,
		verification.StatusRejected,
		verification.StatusError,
	} {
		req := verifiedRequest()
		req.VerificationStatus = status

		result, err := minter.Mint(req)
		require.ErrorIs(t, err, ErrNotVerified)
		assert.Empty(t, result.TokenID)
	}
}

func TestMint_IdentifierFormats(t *testing.T) {
	minter := testMinter()

	result, err := minter.Mint(verifiedRequest())
	require.NoError(t, err)

	assert.Regexp(t, tokenIDPattern, result.TokenID)
	assert.Regexp(t, addressPattern, result.ContractAddress)
	assert.Regexp(t, fullHashPattern, result.TransactionHash)
	assert.Regexp(t, fullHashPattern, result.ContractBytecode)
	assert.Equal(t, "RWA-721", result.TokenStandard)
	assert.Equal(t, "RWA-TestNet", result.Network)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), result.MintedAt)
}

func TestMint_DeterministicUnderPinnedInputs(t *testing.T) {
	first, err := testMinter().Mint(verifiedRequest())
	require.NoError(t, err)
	second, err := testMinter().Mint(verifiedRequest())
	require.NoError(t, err)

	assert.Equal(t, first.TokenID, second.TokenID)
	assert.Equal(t, first.ContractAddress, second.ContractAddress)
	assert.Equal(t, first.TransactionHash, second.TransactionHash)
}

func TestMint_PanicInDerivationReportsFailure(t *testing.T) {
	minter := testMinter()
	minter.newUUID = func() string {
		panic("entropy source unavailable")
	}

	result, err := minter.Mint(verifiedRequest())
	require.Error(t, err)
	assert.Equal(t, "Tokenization failed: entropy source unavailable", err.Error())
	assert.Empty(t, result.TokenID)
}

func TestMint_Metadata(t *testing.T) {
	minter := testMinter()

	result, err := minter.Mint(verifiedRequest())
	require.NoError(t, err)

	meta := result.Metadata
	assert.Equal(t, "RWA Token - Real Estate", meta.Name)
	assert.Equal(t, "3 bedroom house in California", meta.Description)
	assert.Equal(t, "https://placeholder.com/400x400?text=Real+Estate", meta.Image)
	assert.Equal(t, "https://rwa-marketplace.com/asset/asset-123", meta.ExternalURL)

	require.Len(t, meta.Attributes, 7)
	assert.Equal(t, Trait{TraitType: "Asset Type", Value: "Real Estate"}, meta.Attributes[0])
	assert.Equal(t, Trait{TraitType: "Estimated Value", Value: "$250,000.00"}, meta.Attributes[1])
	assert.Equal(t, Trait{TraitType: "Location", Value: "California"}, meta.Attributes[2])
	assert.Equal(t, Trait{TraitType: "Verification Status", Value: "Verified"}, meta.Attributes[3])
	assert.Equal(t, Trait{TraitType: "Tokenization Date", Value: "2025-06-15"}, meta.Attributes[6])

	assert.Equal(t, "Real World Asset", meta.Properties.Category)
	assert.Equal(t, "real_estate", meta.Properties.Subcategory)
	assert.False(t, meta.Properties.Fractional)
	assert.True(t, meta.Properties.Transferable)
}

func TestTransfer(t *testing.T) {
	minter := testMinter()

	result := minter.Transfer("RWA_ABCDEF0123456789", "0xaaa", "0xbbb")
	assert.Regexp(t, fullHashPattern, result.TransactionHash)
	assert.Equal(t, "RWA_ABCDEF0123456789", result.TokenID)
	assert.Equal(t, "0xaaa", result.From)
	assert.Equal(t, "0xbbb", result.To)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), result.TransferredAt)
}

func TestVerifyOwnership(t *testing.T) {
	assert.True(t, testMinter().VerifyOwnership("asset-123", "user-456"))
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "$0.00"},
		{999.5, "$999.50"},
		{1000, "$1,000.00"},
		{250000, "$250,000.00"},
		{1250000.75, "$1,250,000.75"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatUSD(tt.value))
	}
}
