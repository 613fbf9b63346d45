package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/money-tracker-api/internal/config"
	"github.com/money-tracker-api/internal/domain"
	"github.com/money-tracker-api/internal/infrastructure/awscfg"
)

// API is the subset of the SES v2 client the Mailer uses.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Mailer sends email through Amazon SES.
type Mailer struct {
	client API
}

func NewClient(ctx context.Context, cfg *config.Config) (*sesv2.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.SESRegion)
	if err != nil {
		return nil, err
	}
	var opts []func(*sesv2.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sesv2.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return sesv2.NewFromConfig(awsCfg, opts...), nil
}

func NewMailer(client API) *Mailer {
	return &Mailer{client: client}
}

func (m *Mailer) Send(ctx context.Context, e domain.Email) error {
	body := &types.Body{}
	if e.Text != "" {
		body.Text = &types.Content{Data: aws.String(e.Text), Charset: aws.String("UTF-8")}
	}
	if e.HTML != "" {
		body.Html = &types.Content{Data: aws.String(e.HTML), Charset: aws.String("UTF-8")}
	}

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.From),
		Destination:      &types.Destination{ToAddresses: e.To},
		ReplyToAddresses: e.ReplyTo,
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(e.Subject), Charset: aws.String("UTF-8")},
				Body:    body,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
