package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TenantOwned is implemented by every entity reachable from a tenant through its
// ownership chain. linked is false when the entity has no path to any tenant.
type TenantOwned interface {
	OwnerTenantID() (tenantID uuid.UUID, linked bool)
}

// Tenant represents a collecting company ("empresa") whose data is isolated.
type Tenant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CNPJ      string    `db:"cnpj" json:"cnpj"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Debtor is a person owing money to a tenant. It owns exactly one Account.
type Debtor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TenantID  uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name      string    `db:"name" json:"name"`
	CPF       string    `db:"cpf" json:"cpf"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (d *Debtor) OwnerTenantID() (uuid.UUID, bool) { return d.TenantID, true }

// DebtorSummary is a debtor together with its account's live balance.
type DebtorSummary struct {
	Debtor
	Balance decimal.Decimal `json:"balance"`
}

// Account is the running ledger of one debtor. Its ID equals the debtor's ID.
// TenantID and DebtorName are resolved through the debtor; Debts and Payments
// are loaded by the repository and never persisted through this struct.
type Account struct {
	ID         uuid.UUID `db:"id" json:"id"`
	TenantID   uuid.UUID `db:"tenant_id" json:"tenant_id"`
	DebtorName string    `db:"debtor_name" json:"debtor_name"`
	Debts      []Debt    `db:"-" json:"debts"`
	Payments   []Payment `db:"-" json:"payments"`
}

func (a *Account) OwnerTenantID() (uuid.UUID, bool) { return a.TenantID, true }

// Debt is a single owed amount guaranteed by a tenant (the "fiadora").
type Debt struct {
	ID        uuid.UUID           `db:"id" json:"id"`
	AccountID *uuid.UUID          `db:"account_id" json:"account_id"`
	TenantID  uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	Value     decimal.NullDecimal `db:"value" json:"value"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}

func (d *Debt) OwnerTenantID() (uuid.UUID, bool) { return d.TenantID, true }

// Contract is a debt agreement between a tenant and one of its debtors.
type Contract struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	TenantID  uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	DebtorID  uuid.UUID      `db:"debtor_id" json:"debtor_id"`
	Text      string         `db:"text" json:"text"`
	DueAt     time.Time      `db:"due_at" json:"due_at"`
	Status    ContractStatus `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

func (c *Contract) OwnerTenantID() (uuid.UUID, bool) { return c.TenantID, true }

// Notification is a message addressed to an email on behalf of a tenant.
// SentAt stays nil until delivery succeeds.
type Notification struct {
	ID        int64      `db:"id" json:"id"`
	TenantID  uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Message   string     `db:"message" json:"message"`
	Email     string     `db:"email" json:"email"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

func (n *Notification) OwnerTenantID() (uuid.UUID, bool) { return n.TenantID, true }

// PaymentKey is the composite identity of a payment: one payment per debt and account.
type PaymentKey struct {
	DebtID    uuid.UUID `json:"debt_id"`
	AccountID uuid.UUID `json:"account_id"`
}

// Payment settles exactly one debt. Its value always mirrors the debt's value.
// TenantID is resolved through the account's debtor.
type Payment struct {
	DebtID    uuid.UUID           `db:"debt_id" json:"debt_id"`
	AccountID uuid.UUID           `db:"account_id" json:"account_id"`
	TenantID  uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	Method    PaymentMethod       `db:"method" json:"method"`
	Value     decimal.NullDecimal `db:"value" json:"value"`
	PaidAt    time.Time           `db:"paid_at" json:"paid_at"`
}

func (p *Payment) Key() PaymentKey {
	return PaymentKey{DebtID: p.DebtID, AccountID: p.AccountID}
}

func (p *Payment) OwnerTenantID() (uuid.UUID, bool) { return p.TenantID, true }

// ReportFields holds the computed or manually entered aggregates of a report.
// Which fields are set depends on the report type; the rest stay NULL.
type ReportFields struct {
	MovedValue    decimal.NullDecimal `db:"moved_value" json:"moved_value"`
	TotalDebts    decimal.NullDecimal `db:"total_debts" json:"total_debts"`
	TotalPayments decimal.NullDecimal `db:"total_payments" json:"total_payments"`
	DebtCount     *int                `db:"debt_count" json:"debt_count"`
	PaymentCount  *int                `db:"payment_count" json:"payment_count"`
	AccountCount  *int                `db:"account_count" json:"account_count"`
}

// Report is a persisted point-in-time financial snapshot.
type Report struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TenantID        uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	Type            ReportType `db:"type" json:"type"`
	AccountID       *uuid.UUID `db:"account_id" json:"account_id"`
	AccountTenantID *uuid.UUID `db:"account_tenant_id" json:"-"`
	ReportFields
	Description *string    `db:"description" json:"description"`
	GeneratedAt time.Time  `db:"generated_at" json:"generated_at"`
	PeriodStart *time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   *time.Time `db:"period_end" json:"period_end"`
}

// OwnerTenantID resolves the report's tenant through its linked account. A report
// without an account belongs to the tenant that created it. A link whose owner
// could not be resolved is reported as owned by uuid.Nil, which matches no caller.
func (r *Report) OwnerTenantID() (uuid.UUID, bool) {
	if r.AccountID == nil {
		return r.TenantID, true
	}
	if r.AccountTenantID == nil {
		return uuid.Nil, true
	}
	return *r.AccountTenantID, true
}

// AuditResult is an on-demand aggregate over a date range. It is never persisted.
type AuditResult struct {
	TotalDebtValue decimal.Decimal `json:"total_debt_value"`
	TotalPayments  int64           `json:"total_payments"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
}
