package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cobranca/internal/domain"
	"cobranca/internal/port"
)

// CreatePaymentInput is the DTO for settling a debt. The amount is always taken
// from the debt.
type CreatePaymentInput struct {
	DebtID uuid.UUID            `json:"debt_id"`
	Method domain.PaymentMethod `json:"method"`
	PaidAt *time.Time           `json:"paid_at"`
}

// PaymentService manages payments. A debt has at most one payment, and the
// payment's value always mirrors the debt's current value.
type PaymentService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error)
	GetByKey(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey) (*domain.Payment, error)
	Create(ctx context.Context, tenantID uuid.UUID, input *CreatePaymentInput) (*domain.Payment, error)
	Update(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey, method domain.PaymentMethod) (*domain.Payment, error)
	Delete(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey) error
	CountByMethod(ctx context.Context, tenantID uuid.UUID, method domain.PaymentMethod) (int64, error)
}

type paymentService struct {
	paymentRepo port.PaymentRepository
	debtRepo    port.DebtRepository
	log         *zap.Logger
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(paymentRepo port.PaymentRepository, debtRepo port.DebtRepository, log *zap.Logger) PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &paymentService{paymentRepo: paymentRepo, debtRepo: debtRepo, log: log.Named("payment")}
}

func (s *paymentService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("paymentService.List: %w", err)
	}
	return payments, nil
}

func (s *paymentService) GetByKey(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(payment, tenantID); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) Create(ctx context.Context, tenantID uuid.UUID, input *CreatePaymentInput) (*domain.Payment, error) {
	if err := validateMethod(input.Method); err != nil {
		return nil, err
	}

	debt, err := s.debtRepo.GetByID(ctx, input.DebtID)
	if err != nil {
		return nil, err
	}
	if err := assertOwnedBy(debt, tenantID); err != nil {
		return nil, err
	}
	if debt.AccountID == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, domain.ErrDebtNotLinked)
	}

	payment := &domain.Payment{
		DebtID:    debt.ID,
		AccountID: *debt.AccountID,
		TenantID:  tenantID,
		Method:    input.Method,
		Value:     debt.Value,
	}
	if input.PaidAt != nil {
		payment.PaidAt = input.PaidAt.In(domain.Location())
	}

	exists, err := s.paymentRepo.Exists(ctx, payment.Key())
	if err != nil {
		return nil, fmt.Errorf("paymentService.Create: %w", err)
	}
	if exists {
		return nil, domain.ErrPaymentExists
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrPaymentExists) {
			return nil, err
		}
		s.log.Error("failed to create payment", zap.Stringer("debt_id", debt.ID), zap.Error(err))
		return nil, fmt.Errorf("paymentService.Create: %w", err)
	}

	s.log.Info("payment created",
		zap.Stringer("tenant_id", tenantID),
		zap.Stringer("debt_id", payment.DebtID),
		zap.String("method", string(payment.Method)))
	return payment, nil
}

// Update changes the method and re-copies the value from the debt.
func (s *paymentService) Update(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey, method domain.PaymentMethod) (*domain.Payment, error) {
	if err := validateMethod(method); err != nil {
		return nil, err
	}

	payment, err := s.GetByKey(ctx, tenantID, key)
	if err != nil {
		return nil, err
	}
	debt, err := s.debtRepo.GetByID(ctx, key.DebtID)
	if err != nil {
		return nil, fmt.Errorf("paymentService.Update debt: %w", err)
	}

	payment.Method = method
	payment.Value = debt.Value
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("paymentService.Update: %w", err)
	}
	return payment, nil
}

func (s *paymentService) Delete(ctx context.Context, tenantID uuid.UUID, key domain.PaymentKey) error {
	if _, err := s.GetByKey(ctx, tenantID, key); err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("paymentService.Delete: %w", err)
	}
	s.log.Info("payment deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("debt_id", key.DebtID))
	return nil
}

func (s *paymentService) CountByMethod(ctx context.Context, tenantID uuid.UUID, method domain.PaymentMethod) (int64, error) {
	if err := validateMethod(method); err != nil {
		return 0, err
	}
	count, err := s.paymentRepo.CountByMethod(ctx, tenantID, method)
	if err != nil {
		return 0, fmt.Errorf("paymentService.CountByMethod: %w", err)
	}
	return count, nil
}

func validateMethod(method domain.PaymentMethod) error {
	if !domain.ValidPaymentMethods[method] {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidRequest, method)
	}
	return nil
}
