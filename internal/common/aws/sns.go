// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used for SMS delivery.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSNotifier sends alerts as transactional SMS through SNS.
type SMSNotifier struct {
	client   SNSAPI
	senderID string
}

func NewSMSNotifier(client SNSAPI, senderID string) *SMSNotifier {
	return &SMSNotifier{client: client, senderID: senderID}
}

func (n *SMSNotifier) Channel() string { return ChannelSMS }

// Send publishes msg.Body to the phone number in msg.To.
func (n *SMSNotifier) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("sms: empty phone number")
	}

	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String("Transactional"),
		},
	}
	if n.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(n.senderID),
		}
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       awssdk.String(msg.To),
		Message:           awssdk.String(msg.Body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("sns publish: %w", err)
	}
	return awssdk.ToString(out.MessageId), nil
}
