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

type debtorRepo struct {
	db *sqlx.DB
}

// NewDebtorRepo creates a new PostgreSQL-backed DebtorRepository.
func NewDebtorRepo(db *sqlx.DB) port.DebtorRepository {
	return &debtorRepo{db: db}
}

func (r *debtorRepo) Create(ctx context.Context, debtor *domain.Debtor) error {
	debtor.ID = uuid.New()
	now := time.Now().UTC()
	debtor.CreatedAt = now
	debtor.UpdatedAt = now

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO debtors (id, tenant_id, name, cpf, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			debtor.ID, debtor.TenantID, debtor.Name, debtor.CPF, debtor.Email, debtor.CreatedAt, debtor.UpdatedAt)
		if err != nil {
			return fmt.Errorf("debtorRepo.Create debtor: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO accounts (id) VALUES ($1)", debtor.ID); err != nil {
			return fmt.Errorf("debtorRepo.Create account: %w", err)
		}
		return nil
	})
}

func (r *debtorRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debtor, error) {
	var debtor domain.Debtor
	err := r.db.GetContext(ctx, &debtor, "SELECT * FROM debtors WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("debtorRepo.GetByID: %w", err)
	}
	return &debtor, nil
}

func (r *debtorRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debtor, error) {
	var debtors []domain.Debtor
	err := r.db.SelectContext(ctx, &debtors,
		"SELECT * FROM debtors WHERE tenant_id = $1 ORDER BY name", tenantID)
	if err != nil {
		return nil, fmt.Errorf("debtorRepo.ListByTenant: %w", err)
	}
	return debtors, nil
}

func (r *debtorRepo) Update(ctx context.Context, debtor *domain.Debtor) error {
	debtor.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE debtors SET name = $1, cpf = $2, email = $3, updated_at = $4 WHERE id = $5",
		debtor.Name, debtor.CPF, debtor.Email, debtor.UpdatedAt, debtor.ID)
	if err != nil {
		return fmt.Errorf("debtorRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the debtor, its contracts and everything its account owns,
// children first.
func (r *debtorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		steps := []struct {
			name  string
			query string
		}{
			{"contracts", "DELETE FROM contracts WHERE debtor_id = $1"},
			{"payments", "DELETE FROM payments WHERE account_id = $1"},
			{"debts", "DELETE FROM debts WHERE account_id = $1"},
			{"account", "DELETE FROM accounts WHERE id = $1"},
		}
		for _, step := range steps {
			if _, err := tx.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("debtorRepo.Delete %s: %w", step.name, err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM debtors WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("debtorRepo.Delete debtor: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
