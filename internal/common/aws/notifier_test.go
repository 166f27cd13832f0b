package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct{ mock.Mock }

func (m *mockSNS) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

type mockSES struct{ mock.Mock }

func (m *mockSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ses.SendEmailOutput)
	return out, args.Error(1)
}

func TestSMSNotifier_Send(t *testing.T) {
	client := &mockSNS{}
	client.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		_, hasSender := in.MessageAttributes["AWS.SNS.SMS.SenderID"]
		return awssdk.ToString(in.PhoneNumber) == "+972501234567" &&
			awssdk.ToString(in.Message) == "2 deals near you" &&
			hasSender
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil)

	n := NewSMSNotifier(client, "Rewards")
	id, err := n.Send(context.Background(), Message{To: "+972501234567", Body: "2 deals near you"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, ChannelSMS, n.Channel())
	client.AssertExpectations(t)
}

func TestSMSNotifier_Errors(t *testing.T) {
	client := &mockSNS{}
	n := NewSMSNotifier(client, "")

	_, err := n.Send(context.Background(), Message{Body: "hi"})
	assert.Error(t, err)

	client.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))
	_, err = n.Send(context.Background(), Message{To: "+1", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestEmailNotifier_Send(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return awssdk.ToString(in.Source) == "deals@example.com" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "dana@example.com" &&
			awssdk.ToString(in.Message.Subject.Data) == "Deals for you"
	})).Return(&ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil)

	n := NewEmailNotifier(client, "deals@example.com")
	id, err := n.Send(context.Background(), Message{To: "dana@example.com", Subject: "Deals for you", Body: "..."})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, ChannelEmail, n.Channel())
	client.AssertExpectations(t)
}
