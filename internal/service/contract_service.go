package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreateContractInput is the DTO for drafting a contract with a debtor.
// An empty DueDate defaults to one year from now.
type CreateContractInput struct {
	Text     string    `json:"text"`
	DebtorID uuid.UUID `json:"debtor_id"`
	DueDate  string    `json:"due_date"`
}

// UpdateContractInput is the DTO for updating a contract. Nil fields are left unchanged.
type UpdateContractInput struct {
	Text     *string                `json:"text"`
	DebtorID *uuid.UUID             `json:"debtor_id"`
	DueDate  *string                `json:"due_date"`
	Status   *domain.ContractStatus `json:"status"`
}

// ContractService manages the contracts a tenant holds with its debtors.
type ContractService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Contract, error)
	GetByID(ctx context.Context, tenantID, contractID uuid.UUID) (*domain.Contract, error)
	Create(ctx context.Context, tenantID uuid.UUID, input *CreateContractInput) (*domain.Contract, error)
	Update(ctx context.Context, tenantID, contractID uuid.UUID, input *UpdateContractInput) (*domain.Contract, error)
	Delete(ctx context.Context, tenantID, contractID uuid.UUID) error
}

type contractService struct {
	contractRepo port.ContractRepository
	debtorRepo   port.DebtorRepository
	log          *zap.Logger
}

// NewContractService creates a new ContractService implementation.
func NewContractService(contractRepo port.ContractRepository, debtorRepo port.DebtorRepository, log *zap.Logger) ContractService {
	if log == nil {
		log = zap.NewNop()
	}
	return &contractService{contractRepo: contractRepo, debtorRepo: debtorRepo, log: log.Named("contract")}
}

func (s *contractService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Contract, error) {
	contracts, err := s.contractRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("contractService.List: %w", err)
	}
	return contracts, nil
}

func (s *contractService) GetByID(ctx context.Context, tenantID, contractID uuid.UUID) (*domain.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(contract, tenantID); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *contractService) Create(ctx context.Context, tenantID uuid.UUID, input *CreateContractInput) (*domain.Contract, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrInvalidRequest)
	}
	if input.DebtorID == uuid.Nil {
		return nil, fmt.Errorf("%w: debtor is required", domain.ErrInvalidRequest)
	}

	dueAt := domain.Now().AddDate(1, 0, 0)
	if input.DueDate != "" {
		var err error
		if dueAt, err = parseDueDate(input.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.ownedDebtor(ctx, tenantID, input.DebtorID); err != nil {
		return nil, err
	}

	contract := &domain.Contract{
		TenantID: tenantID,
		DebtorID: input.DebtorID,
		Text:     text,
		DueAt:    dueAt,
		Status:   domain.ContractStatusActive,
	}
	if err := s.contractRepo.Create(ctx, contract); err != nil {
		s.log.Error("failed to create contract", zap.Stringer("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("contractService.Create: %w", err)
	}

	s.log.Info("contract created",
		zap.Stringer("tenant_id", tenantID),
		zap.Stringer("contract_id", contract.ID),
		zap.Stringer("debtor_id", contract.DebtorID),
	)
	return contract, nil
}

func (s *contractService) Update(ctx context.Context, tenantID, contractID uuid.UUID, input *UpdateContractInput) (*domain.Contract, error) {
	contract, err := s.GetByID(ctx, tenantID, contractID)
	if err != nil {
		return nil, err
	}

	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: text cannot be empty", domain.ErrInvalidRequest)
		}
		contract.Text = text
	}
	if input.DueDate != nil {
		if contract.DueAt, err = parseDueDate(*input.DueDate); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if !domain.ValidContractStatuses[*input.Status] {
			return nil, fmt.Errorf("%w: unknown contract status %q", domain.ErrInvalidRequest, *input.Status)
		}
		contract.Status = *input.Status
	}
	if input.DebtorID != nil && *input.DebtorID != contract.DebtorID {
		if err := s.ownedDebtor(ctx, tenantID, *input.DebtorID); err != nil {
			return nil, err
		}
		contract.DebtorID = *input.DebtorID
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("contractService.Update: %w", err)
	}
	return contract, nil
}

func (s *contractService) Delete(ctx context.Context, tenantID, contractID uuid.UUID) error {
	if _, err := s.GetByID(ctx, tenantID, contractID); err != nil {
		return err
	}
	if err := s.contractRepo.Delete(ctx, contractID); err != nil {
		return fmt.Errorf("contractService.Delete: %w", err)
	}
	s.log.Info("contract deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("contract_id", contractID))
	return nil
}

func (s *contractService) ownedDebtor(ctx context.Context, tenantID, debtorID uuid.UUID) error {
	debtor, err := s.debtorRepo.GetByID(ctx, debtorID)
	if err != nil {
		return err
	}
	return assertOwnedBy(debtor, tenantID)
}

// parseDueDate places an explicit due date at the last instant of that day.
func parseDueDate(raw string) (time.Time, error) {
	day, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return domain.EndOfDay(day), nil
}
