package noop

import (
	"context"

	"go.uber.org/zap"

	"cobranca/internal/port"
)

type noopSender struct {
	log *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs each message instead of delivering it.
func NewNoopSender(log *zap.Logger) port.EmailSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &noopSender{log: log.Named("noop_email")}
}

func (s *noopSender) Send(_ context.Context, msg *port.EmailMessage) error {
	s.log.Info("email not delivered",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.TextBody)),
	)
	return nil
}
