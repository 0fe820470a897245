package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	if payment.PaidAt.IsZero() {
		payment.PaidAt = domain.Now()
	}

	query := `INSERT INTO payments (debt_id, account_id, method, value, paid_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		payment.DebtID, payment.AccountID, payment.Method, payment.Value, payment.PaidAt)
	if err != nil {
		if isDuplicateKey(err) {
			return domain.ErrPaymentExists
		}
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByKey(ctx context.Context, key domain.PaymentKey) (*domain.Payment, error) {
	var payment domain.Payment
	query := `SELECT ` + paymentColumns + `
		FROM payments p JOIN debtors dv ON dv.id = p.account_id
		WHERE p.debt_id = $1 AND p.account_id = $2`
	if err := r.db.GetContext(ctx, &payment, query, key.DebtID, key.AccountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByKey: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepo) Exists(ctx context.Context, key domain.PaymentKey) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM payments WHERE debt_id = $1 AND account_id = $2)",
		key.DebtID, key.AccountID)
	if err != nil {
		return false, fmt.Errorf("paymentRepo.Exists: %w", err)
	}
	return exists, nil
}

func (r *paymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	query := `SELECT ` + paymentColumns + `
		FROM payments p JOIN debtors dv ON dv.id = p.account_id
		WHERE dv.tenant_id = $1 ORDER BY p.paid_at DESC`
	if err := r.db.SelectContext(ctx, &payments, query, tenantID); err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByTenant: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE payments SET method = $1, value = $2 WHERE debt_id = $3 AND account_id = $4",
		payment.Method, payment.Value, payment.DebtID, payment.AccountID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, key domain.PaymentKey) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM payments WHERE debt_id = $1 AND account_id = $2", key.DebtID, key.AccountID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) CountByMethod(ctx context.Context, tenantID uuid.UUID, method domain.PaymentMethod) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM payments p JOIN debtors dv ON dv.id = p.account_id
		WHERE dv.tenant_id = $1 AND p.method = $2`, tenantID, method)
	if err != nil {
		return 0, fmt.Errorf("paymentRepo.CountByMethod: %w", err)
	}
	return count, nil
}
