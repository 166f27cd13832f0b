// Package aws delivers deal alerts through Amazon SNS (SMS) and SES (email).
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

// Message is a rendered alert. To is a phone number for SMS and an address
// for email; Subject is ignored by SMS.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier delivers a message and returns the provider message id.
type Notifier interface {
	Channel() string
	Send(ctx context.Context, msg Message) (string, error)
}

// Clients holds the SDK clients built from the default credential chain.
type Clients struct {
	SNS *sns.Client
	SES *ses.Client
}

func NewClients(ctx context.Context, region string) (*Clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Clients{
		SNS: sns.NewFromConfig(cfg),
		SES: ses.NewFromConfig(cfg),
	}, nil
}
