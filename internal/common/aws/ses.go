// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used for email delivery.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier sends alerts as UTF-8 text email through SES.
type EmailNotifier struct {
	client SESAPI
	from   string
}

func NewEmailNotifier(client SESAPI, from string) *EmailNotifier {
	return &EmailNotifier{client: client, from: from}
}

func (n *EmailNotifier) Channel() string { return ChannelEmail }

func (n *EmailNotifier) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("email: empty recipient")
	}

	out, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      awssdk.String(n.from),
		Destination: &types.Destination{ToAddresses: []string{msg.To}},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(msg.Subject), Charset: awssdk.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(msg.Body), Charset: awssdk.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ses send: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
