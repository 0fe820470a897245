package noop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"cobranca/internal/port"
)

func TestNoopSender_LogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := NewNoopSender(zap.New(core))

	err := sender.Send(context.Background(), &port.EmailMessage{ToEmail: "ana@example.com", Subject: "Aviso", TextBody: "oi"})

	require.NoError(t, err)
	entries := logs.FilterMessage("email not delivered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ana@example.com", entries[0].ContextMap()["to"])
}

func TestNoopSender_NilLogger(t *testing.T) {
	assert.NoError(t, NewNoopSender(nil).Send(context.Background(), &port.EmailMessage{}))
}
