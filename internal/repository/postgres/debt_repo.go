package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

type debtRepo struct {
	db *sqlx.DB
}

// NewDebtRepo creates a new PostgreSQL-backed DebtRepository.
func NewDebtRepo(db *sqlx.DB) port.DebtRepository {
	return &debtRepo{db: db}
}

func (r *debtRepo) Create(ctx context.Context, debt *domain.Debt) error {
	debt.ID = uuid.New()
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = domain.Now()
	}

	query := `INSERT INTO debts (id, account_id, tenant_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		debt.ID, debt.AccountID, debt.TenantID, debt.Value, debt.CreatedAt)
	if err != nil {
		return fmt.Errorf("debtRepo.Create: %w", err)
	}
	return nil
}

func (r *debtRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error) {
	var debt domain.Debt
	if err := r.db.GetContext(ctx, &debt, "SELECT * FROM debts WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("debtRepo.GetByID: %w", err)
	}
	return &debt, nil
}

func (r *debtRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error) {
	var debts []domain.Debt
	err := r.db.SelectContext(ctx, &debts,
		"SELECT * FROM debts WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("debtRepo.ListByTenant: %w", err)
	}
	return debts, nil
}

// buildDebtWhereClause constructs the WHERE clause for a debt search.
// It returns the clause string (starting with "WHERE") and the positional arguments.
func buildDebtWhereClause(tenantID uuid.UUID, filters port.DebtFilters) (clause string, args []interface{}) {
	args = []interface{}{tenantID}
	clause = "WHERE tenant_id = $1"
	argN := 2

	if filters.MinValue != nil {
		clause += fmt.Sprintf(" AND value >= $%d", argN)
		args = append(args, *filters.MinValue)
		argN++
	}
	if filters.MaxValue != nil {
		clause += fmt.Sprintf(" AND value <= $%d", argN)
		args = append(args, *filters.MaxValue)
		argN++
	}
	if filters.AccountID != nil {
		clause += fmt.Sprintf(" AND account_id = $%d", argN)
		args = append(args, *filters.AccountID)
	}
	return clause, args
}

func (r *debtRepo) Search(ctx context.Context, tenantID uuid.UUID, filters port.DebtFilters) ([]domain.Debt, error) {
	where, args := buildDebtWhereClause(tenantID, filters)
	var debts []domain.Debt
	query := "SELECT * FROM debts " + where + " ORDER BY created_at DESC"
	if err := r.db.SelectContext(ctx, &debts, query, args...); err != nil {
		return nil, fmt.Errorf("debtRepo.Search: %w", err)
	}
	return debts, nil
}

// Update writes the debt and copies its value onto its payment, if any.
func (r *debtRepo) Update(ctx context.Context, debt *domain.Debt) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			"UPDATE debts SET account_id = $1, value = $2 WHERE id = $3",
			debt.AccountID, debt.Value, debt.ID)
		if err != nil {
			return fmt.Errorf("debtRepo.Update: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE payments SET value = $1 WHERE debt_id = $2", debt.Value, debt.ID); err != nil {
			return fmt.Errorf("debtRepo.Update payments: %w", err)
		}
		return nil
	})
}

func (r *debtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE debt_id = $1", id); err != nil {
			return fmt.Errorf("debtRepo.Delete payments: %w", err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM debts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("debtRepo.Delete: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *debtRepo) SumValueByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	err := r.db.GetContext(ctx, &sum,
		"SELECT SUM(value) FROM debts WHERE tenant_id = $1 AND account_id = $2", tenantID, accountID)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("debtRepo.SumValueByAccount: %w", err)
	}
	return sum, nil
}

func (r *debtRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM debts WHERE tenant_id = $1", tenantID); err != nil {
		return 0, fmt.Errorf("debtRepo.CountByTenant: %w", err)
	}
	return count, nil
}
