package minting

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// TokenMetadata follows the common NFT metadata layout so marketplace
// tooling can render it unchanged.
type TokenMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	ExternalURL string          `json:"external_url"`
	Attributes  []Trait         `json:"attributes"`
	Properties  TokenProperties `json:"properties"`
}

type Trait struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type TokenProperties struct {
	Category     string `json:"category"`
	Subcategory  string `json:"subcategory"`
	Fractional   bool   `json:"fractional"`
	Transferable bool   `json:"transferable"`
}

func (m *Minter) buildMetadata(req MintRequest, mintedAt time.Time) TokenMetadata {
	categoryTitle := titleCase(string(req.Category))

	return TokenMetadata{
		Name:        "RWA Token - " + categoryTitle,
		Description: req.Description,
		Image:       fmt.Sprintf("%s?text=%s", m.cfg.ImageBaseURL, url.QueryEscape(categoryTitle)),
		ExternalURL: m.cfg.MarketplaceURL + req.AssetID,
		Attributes: []Trait{
			{TraitType: "Asset Type", Value: categoryTitle},
			{TraitType: "Estimated Value", Value: formatUSD(req.EstimatedValue)},
			{TraitType: "Location", Value: req.Location},
			{TraitType: "Verification Status", Value: "Verified"},
			{TraitType: "Token Standard", Value: m.cfg.TokenStandard},
			{TraitType: "Network", Value: m.cfg.Network},
			{TraitType: "Tokenization Date", Value: mintedAt.Format("2006-01-02")},
		},
		Properties: TokenProperties{
			Category:     "Real World Asset",
			Subcategory:  string(req.Category),
			Fractional:   false,
			Transferable: true,
		},
	}
}

// titleCase turns "real_estate" into "Real Estate".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// formatUSD renders "$1,250,000.00" with thousands separators.
func formatUSD(value float64) string {
	plain := fmt.Sprintf("%.2f", value)
	dot := strings.Index(plain, ".")
	intPart, fracPart := plain[:dot], plain[dot:]

	var sb strings.Builder
	if strings.HasPrefix(intPart, "-") {
		sb.WriteByte('-')
		intPart = intPart[1:]
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(digit)
	}
	sb.WriteString(fracPart)
	return "$" + sb.String()
}
