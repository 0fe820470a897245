package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateDebtInput is the DTO for registering a debt guaranteed by the caller's tenant.
type CreateDebtInput struct {
	Value     decimal.Decimal `json:"value"`
	AccountID *uuid.UUID      `json:"account_id"`
	CreatedAt *time.Time      `json:"created_at"`
}

// UpdateDebtInput is the DTO for updating a debt. A nil AccountID keeps the
// current link.
type UpdateDebtInput struct {
	Value     decimal.Decimal `json:"value"`
	AccountID *uuid.UUID      `json:"account_id"`
}

// DebtService manages debts. Changing a debt's value re-synchronises its payment.
type DebtService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error)
	GetByID(ctx context.Context, tenantID, debtID uuid.UUID) (*domain.Debt, error)
	Search(ctx context.Context, tenantID uuid.UUID, filters port.DebtFilters) ([]domain.Debt, error)
	Create(ctx context.Context, tenantID uuid.UUID, input *CreateDebtInput) (*domain.Debt, error)
	Update(ctx context.Context, tenantID, debtID uuid.UUID, input *UpdateDebtInput) (*domain.Debt, error)
	Delete(ctx context.Context, tenantID, debtID uuid.UUID) error
	SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type debtService struct {
	debtRepo    port.DebtRepository
	accountRepo port.AccountRepository
	paymentRepo port.PaymentRepository
	log         *zap.Logger
}

// NewDebtService creates a new DebtService implementation.
func NewDebtService(
	debtRepo port.DebtRepository,
	accountRepo port.AccountRepository,
	paymentRepo port.PaymentRepository,
	log *zap.Logger,
) DebtService {
	if log == nil {
		log = zap.NewNop()
	}
	return &debtService{
		debtRepo:    debtRepo,
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		log:         log.Named("debt"),
	}
}

func (s *debtService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error) {
	debts, err := s.debtRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("debtService.List: %w", err)
	}
	return debts, nil
}

func (s *debtService) GetByID(ctx context.Context, tenantID, debtID uuid.UUID) (*domain.Debt, error) {
	debt, err := s.debtRepo.GetByID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(debt, tenantID); err != nil {
		return nil, err
	}
	return debt, nil
}

func (s *debtService) Search(ctx context.Context, tenantID uuid.UUID, filters port.DebtFilters) ([]domain.Debt, error) {
	if filters.MinValue != nil && filters.MaxValue != nil && filters.MinValue.GreaterThan(*filters.MaxValue) {
		return nil, fmt.Errorf("%w: min value is greater than max value", domain.ErrInvalidRequest)
	}
	debts, err := s.debtRepo.Search(ctx, tenantID, filters)
	if err != nil {
		return nil, fmt.Errorf("debtService.Search: %w", err)
	}
	return debts, nil
}

func (s *debtService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateDebtInput) (*domain.Debt, error) {
	if err := validateDebtValue(input.Value); err != nil {
		return nil, err
	}

	debt := &domain.Debt{
		TenantID: tenantID,
		Value:    decimal.NewNullDecimal(input.Value),
	}
	if input.CreatedAt != nil {
		debt.CreatedAt = input.CreatedAt.In(domain.Location())
	}
	if input.AccountID != nil {
		account, err := ownedAccount(ctx, s.accountRepo, tenantID, *input.AccountID)
		if err != nil {
			return nil, err
		}
		debt.AccountID = &account.ID
	}

	if err := s.debtRepo.Create(ctx, debt); err != nil {
		s.log.Error("failed to create debt", zap.Stringer("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("debtService.Create: %w", err)
	}
	s.log.Info("debt created", zap.Stringer("tenant_id", tenantID), zap.Stringer("debt_id", debt.ID))
	return debt, nil
}

// Update rewrites the value and optionally relinks the debt. A debt that already
// has a payment cannot move to another account.
func (s *debtService) Update(ctx context.Context, tenantID, debtID uuid.UUID, input *UpdateDebtInput) (*domain.Debt, error) {
	if err := validateDebtValue(input.Value); err != nil {
		return nil, err
	}

	debt, err := s.GetByID(ctx, tenantID, debtID)
	if err != nil {
		return nil, err
	}

	if input.AccountID != nil && (debt.AccountID == nil || *debt.AccountID != *input.AccountID) {
		account, err := ownedAccount(ctx, s.accountRepo, tenantID, *input.AccountID)
		if err != nil {
			return nil, err
		}
		if debt.AccountID != nil {
			paid, err := s.paymentRepo.Exists(ctx, domain.PaymentKey{DebtID: debt.ID, AccountID: *debt.AccountID})
			if err != nil {
				return nil, fmt.Errorf("debtService.Update: %w", err)
			}
			if paid {
				return nil, fmt.Errorf("%w: a paid debt cannot change account", domain.ErrInvalidRequest)
			}
		}
		debt.AccountID = &account.ID
	}
	debt.Value = decimal.NewNullDecimal(input.Value)

	if err := s.debtRepo.Update(ctx, debt); err != nil {
		return nil, fmt.Errorf("debtService.Update: %w", err)
	}
	return debt, nil
}

// Delete removes the debt and its payment.
func (s *debtService) Delete(ctx context.Context, tenantID, debtID uuid.UUID) error {
	if _, err := s.GetByID(ctx, tenantID, debtID); err != nil {
		return err
	}
	if err := s.debtRepo.Delete(ctx, debtID); err != nil {
		return fmt.Errorf("debtService.Delete: %w", err)
	}
	s.log.Info("debt deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("debt_id", debtID))
	return nil
}

// SumByAccount returns the total value of the tenant's debts on one account,
// zero when there are none.
func (s *debtService) SumByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.Decimal, error) {
	sum, err := s.debtRepo.SumValueByAccount(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("debtService.SumByAccount: %w", err)
	}
	return orZero(sum), nil
}

func (s *debtService) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	count, err := s.debtRepo.CountByTenant(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("debtService.CountByTenant: %w", err)
	}
	return count, nil
}

func validateDebtValue(v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: debt value must be positive", domain.ErrInvalidRequest)
	}
	return nil
}
