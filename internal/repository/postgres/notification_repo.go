package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

type notificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo creates a new PostgreSQL-backed NotificationRepository.
func NewNotificationRepo(db *sqlx.DB) port.NotificationRepository {
	return &notificationRepo{db: db}
}

// Create inserts the notification and assigns the database-generated id.
func (r *notificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	notification.CreatedAt = time.Now().UTC()

	query := `INSERT INTO notifications (tenant_id, message, email, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		notification.TenantID, notification.Message, notification.Email,
		notification.SentAt, notification.CreatedAt).Scan(&notification.ID)
	if err != nil {
		return fmt.Errorf("notificationRepo.Create: %w", err)
	}
	return nil
}

func (r *notificationRepo) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.GetContext(ctx, &notification, "SELECT * FROM notifications WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("notificationRepo.GetByID: %w", err)
	}
	return &notification, nil
}

func (r *notificationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.SelectContext(ctx, &notifications,
		"SELECT * FROM notifications WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.ListByTenant: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepo) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	result, err := r.db.ExecContext(ctx, "UPDATE notifications SET sent_at = $1 WHERE id = $2", sentAt, id)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkSent: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
