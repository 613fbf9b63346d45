package sns

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
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

func TestPublisher_Publish(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.TopicArn) == "arn:aws:sns:eu-central-1:1:contact" &&
			aws.ToString(in.Subject) == "New contact message" &&
			aws.ToString(in.Message) == "body"
	})).Return(&sns.PublishOutput{}, nil)

	err := NewPublisher(api, "arn:aws:sns:eu-central-1:1:contact").Publish(context.Background(), "New contact message", "body")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestPublisher_TruncatesSubject(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return len([]rune(aws.ToString(in.Subject))) == 100
	})).Return(&sns.PublishOutput{}, nil)

	require.NoError(t, NewPublisher(api, "arn").Publish(context.Background(), strings.Repeat("ä", 150), "m"))
}

func TestPublisher_Error(t *testing.T) {
	api := &mockSNS{}
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	err := NewPublisher(api, "arn").Publish(context.Background(), "s", "m")
	assert.ErrorContains(t, err, "sns publish")
}
