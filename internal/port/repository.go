package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cobranca/internal/domain"
)

// TenantRepository defines the contract for tenant persistence.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// DebtorRepository persists debtors together with their accounts.
// Create inserts the debtor and its account atomically; Delete removes the
// debtor's contracts, payments, debts and account in the same transaction.
type DebtorRepository interface {
	Create(ctx context.Context, debtor *domain.Debtor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debtor, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debtor, error)
	Update(ctx context.Context, debtor *domain.Debtor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountRepository loads accounts as read-only projections with their debts
// and payments collections populated.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Account, error)
}

// DebtFilters narrows a debt search. Nil fields are ignored.
type DebtFilters struct {
	MinValue  *decimal.Decimal
	MaxValue  *decimal.Decimal
	AccountID *uuid.UUID
}

// DebtRepository defines the contract for debt persistence.
// Update and Delete keep the debt's payment consistent in the same transaction.
type DebtRepository interface {
	Create(ctx context.Context, debt *domain.Debt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Debt, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Debt, error)
	Search(ctx context.Context, tenantID uuid.UUID, filters DebtFilters) ([]domain.Debt, error)
	Update(ctx context.Context, debt *domain.Debt) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumValueByAccount(ctx context.Context, tenantID, accountID uuid.UUID) (decimal.NullDecimal, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// PaymentRepository defines the contract for payment persistence.
// Create returns domain.ErrPaymentExists when the key is already taken.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByKey(ctx context.Context, key domain.PaymentKey) (*domain.Payment, error)
	Exists(ctx context.Context, key domain.PaymentKey) (bool, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	Delete(ctx context.Context, key domain.PaymentKey) error
	CountByMethod(ctx context.Context, tenantID uuid.UUID, method domain.PaymentMethod) (int64, error)
}

// ContractRepository defines the contract for contract persistence.
type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Contract, error)
	ListByDebtor(ctx context.Context, debtorID uuid.UUID) ([]domain.Contract, error)
	Update(ctx context.Context, contract *domain.Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the contract for notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Notification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
}
