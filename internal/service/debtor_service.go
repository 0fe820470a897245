package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateDebtorInput is the DTO for registering a debtor.
type CreateDebtorInput struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// UpdateDebtorInput is the DTO for updating a debtor. Nil fields are left unchanged.
type UpdateDebtorInput struct {
	Name  *string `json:"name"`
	CPF   *string `json:"cpf"`
	Email *string `json:"email"`
}

// DebtorService manages debtors and their accounts.
type DebtorService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.DebtorSummary, error)
	GetByID(ctx context.Context, tenantID, debtorID uuid.UUID) (*domain.Debtor, error)
	GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*domain.Account, error)
	Create(ctx context.Context, tenantID uuid.UUID, input *CreateDebtorInput) (*domain.Debtor, error)
	Update(ctx context.Context, tenantID, debtorID uuid.UUID, input *UpdateDebtorInput) (*domain.Debtor, error)
	Delete(ctx context.Context, tenantID, debtorID uuid.UUID) error
}

type debtorService struct {
	debtorRepo  port.DebtorRepository
	accountRepo port.AccountRepository
	log         *zap.Logger
}

// NewDebtorService creates a new DebtorService implementation.
func NewDebtorService(debtorRepo port.DebtorRepository, accountRepo port.AccountRepository, log *zap.Logger) DebtorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &debtorService{debtorRepo: debtorRepo, accountRepo: accountRepo, log: log.Named("debtor")}
}

// List returns the tenant's debtors with each account's live balance.
func (s *debtorService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.DebtorSummary, error) {
	debtors, err := s.debtorRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("debtorService.List: %w", err)
	}
	accounts, err := s.accountRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("debtorService.List accounts: %w", err)
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for i := range accounts {
		balances[accounts[i].ID] = accounts[i].Balance()
	}

	summaries := make([]domain.DebtorSummary, 0, len(debtors))
	for i := range debtors {
		balance, ok := balances[debtors[i].ID]
		if !ok {
			balance = decimal.Zero
		}
		summaries = append(summaries, domain.DebtorSummary{Debtor: debtors[i], Balance: balance})
	}
	return summaries, nil
}

func (s *debtorService) GetByID(ctx context.Context, tenantID, debtorID uuid.UUID) (*domain.Debtor, error) {
	debtor, err := s.debtorRepo.GetByID(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(debtor, tenantID); err != nil {
		return nil, err
	}
	return debtor, nil
}

func (s *debtorService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*domain.Account, error) {
	return ownedAccount(ctx, s.accountRepo, tenantID, accountID)
}

func (s *debtorService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateDebtorInput) (*domain.Debtor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	debtor := &domain.Debtor{
		TenantID: tenantID,
		Name:     name,
		CPF:      strings.TrimSpace(input.CPF),
		Email:    strings.TrimSpace(input.Email),
	}
	if err := s.debtorRepo.Create(ctx, debtor); err != nil {
		s.log.Error("failed to create debtor", zap.Stringer("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("debtorService.Create: %w", err)
	}

	s.log.Info("debtor created", zap.Stringer("tenant_id", tenantID), zap.Stringer("debtor_id", debtor.ID))
	return debtor, nil
}

func (s *debtorService) Update(ctx context.Context, tenantID, debtorID uuid.UUID, input *UpdateDebtorInput) (*domain.Debtor, error) {
	debtor, err := s.GetByID(ctx, tenantID, debtorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidRequest)
		}
		debtor.Name = name
	}
	if input.CPF != nil {
		debtor.CPF = strings.TrimSpace(*input.CPF)
	}
	if input.Email != nil {
		debtor.Email = strings.TrimSpace(*input.Email)
	}

	if err := s.debtorRepo.Update(ctx, debtor); err != nil {
		return nil, fmt.Errorf("debtorService.Update: %w", err)
	}
	return debtor, nil
}

// Delete removes the debtor together with its contracts, account, debts and payments.
func (s *debtorService) Delete(ctx context.Context, tenantID, debtorID uuid.UUID) error {
	if _, err := s.GetByID(ctx, tenantID, debtorID); err != nil {
		return err
	}
	if err := s.debtorRepo.Delete(ctx, debtorID); err != nil {
		s.log.Error("failed to delete debtor", zap.Stringer("debtor_id", debtorID), zap.Error(err))
		return fmt.Errorf("debtorService.Delete: %w", err)
	}
	s.log.Info("debtor deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("debtor_id", debtorID))
	return nil
}
