package domain

import "strings"

// SentimentLabel is the categorical form of a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// AlertTier classifies an inventory item's days of stock cover.
type AlertTier string

const (
	TierCritical  AlertTier = "Critical"
	TierWarning   AlertTier = "Warning"
	TierOverstock AlertTier = "Overstock"
	TierNone      AlertTier = "None"
)

var sentimentLabels = map[string]SentimentLabel{
	"positive": SentimentPositive,
	"negative": SentimentNegative,
	"neutral":  SentimentNeutral,
}

// ParseSentimentLabel returns the label for a name (case-insensitive).
func ParseSentimentLabel(name string) (SentimentLabel, bool) {
	label, ok := sentimentLabels[strings.ToLower(strings.TrimSpace(name))]

	return label, ok
}

// Severity maps a tier to the display severity used by clients.
func (t AlertTier) Severity() string {
	switch t {
	case TierCritical:
		return "danger"
	case TierWarning:
		return "warning"
	case TierOverstock:
		return "info"
	default:
		return ""
	}
}
