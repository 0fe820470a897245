package port

import "context"

// EmailMessage is a single outbound email.
type EmailMessage struct {
	ToEmail  string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}
