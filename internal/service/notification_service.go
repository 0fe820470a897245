package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateNotificationInput is the DTO for notifying an email address.
type CreateNotificationInput struct {
	Message string `json:"message" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

// NotificationService records tenant notifications and delivers them by email.
type NotificationService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Notification, error)
	GetByID(ctx context.Context, tenantID uuid.UUID, id int64) (*domain.Notification, error)
	// Create persists the notification and then delivers it. A failed delivery
	// leaves the notification stored with a nil SentAt.
	Create(ctx context.Context, tenantID uuid.UUID, input *CreateNotificationInput) (*domain.Notification, error)
	// Resend delivers a stored notification again and returns the delivery error, if any.
	Resend(ctx context.Context, tenantID uuid.UUID, id int64) (*domain.Notification, error)
}

type notificationService struct {
	repo       port.NotificationRepository
	tenantRepo port.TenantRepository
	sender     port.EmailSender
	validate   *validator.Validate
	log        *zap.Logger
}

// NewNotificationService creates a new NotificationService implementation.
func NewNotificationService(
	repo port.NotificationRepository,
	tenantRepo port.TenantRepository,
	sender port.EmailSender,
	log *zap.Logger,
) NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &notificationService{
		repo:       repo,
		tenantRepo: tenantRepo,
		sender:     sender,
		validate:   validator.New(),
		log:        log.Named("notification"),
	}
}

func (s *notificationService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("notificationService.List: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) GetByID(ctx context.Context, tenantID uuid.UUID, id int64) (*domain.Notification, error) {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(notification, tenantID); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateNotificationInput) (*domain.Notification, error) {
	clean := CreateNotificationInput{
		Message: strings.TrimSpace(input.Message),
		Email:   strings.TrimSpace(input.Email),
	}
	if err := s.validate.Struct(clean); err != nil {
		return nil, validationError(err)
	}

	notification := &domain.Notification{
		TenantID: tenantID,
		Message:  clean.Message,
		Email:    clean.Email,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.log.Error("failed to create notification", zap.Stringer("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("notificationService.Create: %w", err)
	}

	if err := s.deliver(ctx, notification); err != nil {
		s.log.Warn("notification stored but not delivered",
			zap.Stringer("tenant_id", tenantID),
			zap.Int64("notification_id", notification.ID),
			zap.Error(err),
		)
	}
	return notification, nil
}

func (s *notificationService) Resend(ctx context.Context, tenantID uuid.UUID, id int64) (*domain.Notification, error) {
	notification, err := s.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.deliver(ctx, notification); err != nil {
		return nil, fmt.Errorf("notificationService.Resend: %w", err)
	}
	return notification, nil
}

// deliver sends the notification and stamps SentAt once the sender accepts it.
func (s *notificationService) deliver(ctx context.Context, notification *domain.Notification) error {
	tenant, err := s.tenantRepo.GetByID(ctx, notification.TenantID)
	if err != nil {
		return fmt.Errorf("loading tenant: %w", err)
	}

	msg := &port.EmailMessage{
		ToEmail:  notification.Email,
		Subject:  fmt.Sprintf("Aviso de cobrança - %s", tenant.Name),
		TextBody: notification.Message,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}

	sentAt := domain.Now()
	if err := s.repo.MarkSent(ctx, notification.ID, sentAt); err != nil {
		return fmt.Errorf("marking sent: %w", err)
	}
	notification.SentAt = &sentAt

	s.log.Info("notification delivered",
		zap.Stringer("tenant_id", notification.TenantID),
		zap.Int64("notification_id", notification.ID),
	)
	return nil
}

// validationError names the failing fields of a validator error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid %s", domain.ErrInvalidRequest, strings.Join(fields, ", "))
}
