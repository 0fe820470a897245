package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cobranca/internal/config"
	"cobranca/internal/port"
)

// sendAPI is the subset of the SES v2 client the sender uses.
type sendAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      sendAPI
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(ctx context.Context, cfg *config.EmailConfig) (port.EmailSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSender(sesv2.NewFromConfig(awsCfg), cfg), nil
}

func newSender(client sendAPI, cfg *config.EmailConfig) *sesSender {
	return &sesSender{
		client:      client,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}
}

func (s *sesSender) Send(ctx context.Context, msg *port.EmailMessage) error {
	_, err := s.client.SendEmail(ctx, buildInput(s.from(), msg))
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesSender) from() string {
	if s.fromName == "" {
		return s.fromAddress
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
}

// buildInput omits the HTML part when the message has none.
func buildInput(from string, msg *port.EmailMessage) *sesv2.SendEmailInput {
	subject, text := msg.Subject, msg.TextBody
	body := &types.Body{Text: &types.Content{Data: &text}}
	if msg.HTMLBody != "" {
		html := msg.HTMLBody
		body.Html = &types.Content{Data: &html}
	}

	return &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.ToEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body:    body,
			},
		},
	}
}
