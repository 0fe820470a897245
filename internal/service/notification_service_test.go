package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cobranca/internal/domain"
	"cobranca/internal/port"
	"cobranca/internal/service"
	"cobranca/mocks"
)

type notificationFixture struct {
	tenant        *domain.Tenant
	notifications *mocks.MockNotificationRepo
	tenants       *mocks.MockTenantRepo
	sender        *mocks.MockEmailSender
	svc           service.NotificationService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		tenant:        &domain.Tenant{ID: uuid.New(), Name: "Cobra Bem"},
		notifications: new(mocks.MockNotificationRepo),
		tenants:       new(mocks.MockTenantRepo),
		sender:        new(mocks.MockEmailSender),
	}
	f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil).Maybe()
	f.svc = service.NewNotificationService(f.notifications, f.tenants, f.sender, nil)
	return f
}

func TestNotificationService_Create_PersistsThenSends(t *testing.T) {
	f := newNotificationFixture()

	f.notifications.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.TenantID == f.tenant.ID && n.Message == "Sua dívida venceu" && n.Email == "ana@example.com" && n.SentAt == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Notification).ID = 11
	}).Return(nil)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(m *port.EmailMessage) bool {
		return m.ToEmail == "ana@example.com" && m.TextBody == "Sua dívida venceu" &&
			m.Subject == "Aviso de cobrança - Cobra Bem"
	})).Return(nil)
	f.notifications.On("MarkSent", mock.Anything, int64(11), mock.AnythingOfType("time.Time")).Return(nil)

	n, err := f.svc.Create(context.Background(), f.tenant.ID, &service.CreateNotificationInput{
		Message: " Sua dívida venceu ",
		Email:   "ana@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), n.ID)
	require.NotNil(t, n.SentAt)
	assert.WithinDuration(t, time.Now(), *n.SentAt, time.Minute)
	f.notifications.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestNotificationService_Create_DeliveryFailureKeepsNotification(t *testing.T) {
	f := newNotificationFixture()

	f.notifications.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	n, err := f.svc.Create(context.Background(), f.tenant.ID, &service.CreateNotificationInput{
		Message: "Lembrete",
		Email:   "ana@example.com",
	})

	require.NoError(t, err)
	assert.Nil(t, n.SentAt)
	f.notifications.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input service.CreateNotificationInput
	}{
		{name: "missing message", input: service.CreateNotificationInput{Message: "  ", Email: "ana@example.com"}},
		{name: "missing email", input: service.CreateNotificationInput{Message: "oi"}},
		{name: "malformed email", input: service.CreateNotificationInput{Message: "oi", Email: "ana-at-example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNotificationFixture()

			_, err := f.svc.Create(context.Background(), f.tenant.ID, &tt.input)

			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			f.notifications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestNotificationService_Create_RepoError(t *testing.T) {
	f := newNotificationFixture()
	f.notifications.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.svc.Create(context.Background(), f.tenant.ID, &service.CreateNotificationInput{Message: "oi", Email: "ana@example.com"})

	assert.ErrorIs(t, err, assert.AnError)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotificationService_GetByID(t *testing.T) {
	f := newNotificationFixture()
	own := &domain.Notification{ID: 3, TenantID: f.tenant.ID}
	foreign := &domain.Notification{ID: 4, TenantID: uuid.New()}
	f.notifications.On("GetByID", mock.Anything, int64(3)).Return(own, nil)
	f.notifications.On("GetByID", mock.Anything, int64(4)).Return(foreign, nil)
	f.notifications.On("GetByID", mock.Anything, int64(5)).Return(nil, domain.ErrNotFound)

	got, err := f.svc.GetByID(context.Background(), f.tenant.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, own, got)

	_, err = f.svc.GetByID(context.Background(), f.tenant.ID, 4)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.GetByID(context.Background(), f.tenant.ID, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationService_List(t *testing.T) {
	f := newNotificationFixture()
	f.notifications.On("ListByTenant", mock.Anything, f.tenant.ID).Return([]domain.Notification{{ID: 1}, {ID: 2}}, nil)

	got, err := f.svc.List(context.Background(), f.tenant.ID)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNotificationService_Resend(t *testing.T) {
	f := newNotificationFixture()
	stored := &domain.Notification{ID: 8, TenantID: f.tenant.ID, Email: "ana@example.com", Message: "oi"}
	f.notifications.On("GetByID", mock.Anything, int64(8)).Return(stored, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("MarkSent", mock.Anything, int64(8), mock.AnythingOfType("time.Time")).Return(nil)

	got, err := f.svc.Resend(context.Background(), f.tenant.ID, 8)

	require.NoError(t, err)
	assert.NotNil(t, got.SentAt)
}

func TestNotificationService_Resend_DeliveryError(t *testing.T) {
	f := newNotificationFixture()
	stored := &domain.Notification{ID: 8, TenantID: f.tenant.ID, Email: "ana@example.com"}
	f.notifications.On("GetByID", mock.Anything, int64(8)).Return(stored, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.svc.Resend(context.Background(), f.tenant.ID, 8)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestNotificationService_Resend_Forbidden(t *testing.T) {
	f := newNotificationFixture()
	f.notifications.On("GetByID", mock.Anything, int64(9)).Return(&domain.Notification{ID: 9, TenantID: uuid.New()}, nil)

	_, err := f.svc.Resend(context.Background(), f.tenant.ID, 9)

	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
