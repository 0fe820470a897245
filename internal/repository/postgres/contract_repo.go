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

type contractRepo struct {
	db *sqlx.DB
}

// NewContractRepo creates a new PostgreSQL-backed ContractRepository.
func NewContractRepo(db *sqlx.DB) port.ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	contract.ID = uuid.New()
	now := time.Now().UTC()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	query := `INSERT INTO contracts (id, tenant_id, debtor_id, text, due_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		contract.ID, contract.TenantID, contract.DebtorID, contract.Text,
		contract.DueAt, contract.Status, contract.CreatedAt, contract.UpdatedAt)
	if err != nil {
		return fmt.Errorf("contractRepo.Create: %w", err)
	}
	return nil
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.GetContext(ctx, &contract, "SELECT * FROM contracts WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contractRepo.GetByID: %w", err)
	}
	return &contract, nil
}

func (r *contractRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.SelectContext(ctx, &contracts,
		"SELECT * FROM contracts WHERE tenant_id = $1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.ListByTenant: %w", err)
	}
	return contracts, nil
}

func (r *contractRepo) ListByDebtor(ctx context.Context, debtorID uuid.UUID) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := r.db.SelectContext(ctx, &contracts,
		"SELECT * FROM contracts WHERE debtor_id = $1 ORDER BY created_at DESC", debtorID)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.ListByDebtor: %w", err)
	}
	return contracts, nil
}

func (r *contractRepo) Update(ctx context.Context, contract *domain.Contract) error {
	contract.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET debtor_id = $1, text = $2, due_at = $3, status = $4, updated_at = $5
		WHERE id = $6`,
		contract.DebtorID, contract.Text, contract.DueAt, contract.Status, contract.UpdatedAt, contract.ID)
	if err != nil {
		return fmt.Errorf("contractRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *contractRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM contracts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("contractRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
