package sendnotification

import "fmt"

// Lifecycle events the pipeline emits notifications for.
const (
	EventAssetVerified  = "asset_verified"
	EventAssetReview    = "asset_review"
	EventAssetRejected  = "asset_rejected"
	EventAssetTokenized = "asset_tokenized"
)

type template struct {
	subject string
	body    string
}

var notificationTemplates = map[string]template{
	EventAssetVerified: {
		subject: "Your asset has been verified",
		body:    "Good news! Your %s asset (%s) passed verification and is ready for tokenization.",
	},
	EventAssetReview: {
		subject: "Your asset needs additional review",
		body:    "Your %s asset (%s) requires manual review. Please submit any requested documentation.",
	},
	EventAssetRejected: {
		subject: "Your asset submission was rejected",
		body:    "Unfortunately your %s asset (%s) did not pass verification. Please review the submission and try again.",
	},
	EventAssetTokenized: {
		subject: "Your asset has been tokenized",
		body:    "Your %s asset (%s) is now tokenized. Token and contract details are available in your portfolio.",
	},
}

func renderTemplate(input *Input) (subject, body string, err error) {
	tpl, ok := notificationTemplates[input.Event]
	if !ok {
		return "", "", fmt.Errorf("unknown notification event: %s", input.Event)
	}
	assetType := input.AssetType
	if assetType == "" {
		assetType = "submitted"
	}
	return tpl.subject, fmt.Sprintf(tpl.body, assetType, input.AssetID), nil
}
