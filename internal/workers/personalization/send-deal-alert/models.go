package senddealalert

import "time"

const (
	SkipUnknownUser           = "unknown_user"
	SkipNotificationsDisabled = "notifications_disabled"
	SkipNoChannel             = "no_channel"
	SkipRateLimited           = "rate_limited"
)

type Input struct {
	UserID string     `json:"userId"`
	Deals  []DealLine `json:"deals"`
}

// DealLine is one deal as it should appear in the alert text.
type DealLine struct {
	Title        string `json:"title"`
	MerchantName string `json:"merchantName,omitempty"`
	Distance     string `json:"distance,omitempty"`
}

type Output struct {
	Sent          bool      `json:"sent"`
	AlertID       string    `json:"alertId,omitempty"`
	Channel       string    `json:"channel,omitempty"`
	MessageID     string    `json:"messageId,omitempty"`
	SkippedReason string    `json:"skippedReason,omitempty"`
	SentAt        time.Time `json:"sentAt,omitempty"`
}

func skipped(reason string) *Output {
	return &Output{Sent: false, SkippedReason: reason}
}
