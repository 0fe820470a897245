package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"cobranca/internal/domain"
	"cobranca/internal/port"
	"cobranca/internal/service"
)

func (a *app) ledgerCommand(ctx context.Context, group, sub string, args []string) error {
	switch group + " " + sub {
	case "tenant create":
		return a.createTenant(ctx, args)
	case "tenant show":
		return a.showTenant(ctx, args)
	case "debtors list":
		return a.listDebtors(ctx, args)
	case "debtors create":
		return a.createDebtor(ctx, args)
	case "debtors update":
		return a.updateDebtor(ctx, args)
	case "debtors delete":
		return a.deleteDebtor(ctx, args)
	case "debts list":
		return a.listDebts(ctx, args)
	case "debts search":
		return a.searchDebts(ctx, args)
	case "debts create":
		return a.createDebt(ctx, args)
	case "debts update":
		return a.updateDebt(ctx, args)
	case "debts delete":
		return a.deleteDebt(ctx, args)
	case "payments list":
		return a.listPayments(ctx, args)
	case "payments create":
		return a.createPayment(ctx, args)
	case "payments update":
		return a.updatePayment(ctx, args)
	case "payments delete":
		return a.deletePayment(ctx, args)
	case "payments count":
		return a.countPayments(ctx, args)
	default:
		return errUsage
	}
}

// createTenant registers a company; it runs with database access only.
func (a *app) createTenant(ctx context.Context, args []string) error {
	fs, _ := a.flagSet("tenant create")
	name := fs.String("name", "", "company name")
	cnpj := fs.String("cnpj", "", "CNPJ")
	phone := fs.String("phone", "", "phone")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	tenant, err := a.tenants.Create(ctx, service.CreateTenantInput{Name: *name, CNPJ: *cnpj, Phone: *phone})
	if err != nil {
		return err
	}
	return a.print(tenant)
}

func (a *app) showTenant(ctx context.Context, args []string) error {
	fs, token := a.flagSet("tenant show")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	_, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	return a.print(tenant)
}

func (a *app) listDebtors(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debtors list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debtors, err := a.debtors.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(debtors)
}

func (a *app) createDebtor(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debtors create")
	name := fs.String("name", "", "debtor name")
	cpf := fs.String("cpf", "", "CPF")
	email := fs.String("email", "", "email")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debtor, err := a.debtors.Create(ctx, tenant.ID, &service.CreateDebtorInput{Name: *name, CPF: *cpf, Email: *email})
	if err != nil {
		return err
	}
	return a.print(debtor)
}

func (a *app) updateDebtor(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debtors update")
	id := fs.String("id", "", "debtor id")
	name := fs.String("name", "", "debtor name")
	cpf := fs.String("cpf", "", "CPF")
	email := fs.String("email", "", "email")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	debtorID, err := parseID("id", *id)
	if err != nil {
		return err
	}

	input := &service.UpdateDebtorInput{}
	if flagPassed(fs, "name") {
		input.Name = name
	}
	if flagPassed(fs, "cpf") {
		input.CPF = cpf
	}
	if flagPassed(fs, "email") {
		input.Email = email
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debtor, err := a.debtors.Update(ctx, tenant.ID, debtorID, input)
	if err != nil {
		return err
	}
	return a.print(debtor)
}

func (a *app) deleteDebtor(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debtors delete")
	id := fs.String("id", "", "debtor id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	debtorID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	if err := a.debtors.Delete(ctx, tenant.ID, debtorID); err != nil {
		return err
	}
	return a.print(map[string]string{"deleted": debtorID.String()})
}

func (a *app) listDebts(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debts list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debts, err := a.debts.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(debts)
}

func (a *app) createDebt(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debts create")
	value := fs.String("value", "", "debt value")
	account := fs.String("account", "", "account id")
	createdAt := fs.String("created-at", "", "creation time")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	amount, err := parseMoney(*value)
	if err != nil {
		return err
	}
	if amount == nil {
		return fmt.Errorf("%w: --value is required", domain.ErrInvalidRequest)
	}
	input := &service.CreateDebtInput{Value: *amount}
	if *account != "" {
		accountID, err := parseID("account", *account)
		if err != nil {
			return err
		}
		input.AccountID = &accountID
	}
	if input.CreatedAt, err = parseTimestamp("created-at", *createdAt); err != nil {
		return err
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debt, err := a.debts.Create(ctx, tenant.ID, input)
	if err != nil {
		return err
	}
	return a.print(debt)
}

func (a *app) searchDebts(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debts search")
	minValue := fs.String("min", "", "minimum value")
	maxValue := fs.String("max", "", "maximum value")
	account := fs.String("account", "", "account id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var filters port.DebtFilters
	var err error
	if filters.MinValue, err = parseDecimal("min", *minValue); err != nil {
		return err
	}
	if filters.MaxValue, err = parseDecimal("max", *maxValue); err != nil {
		return err
	}
	if *account != "" {
		accountID, err := parseID("account", *account)
		if err != nil {
			return err
		}
		filters.AccountID = &accountID
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debts, err := a.debts.Search(ctx, tenant.ID, filters)
	if err != nil {
		return err
	}
	return a.print(debts)
}

// updateDebt rewrites the value; the debt's payment, if any, follows it.
func (a *app) updateDebt(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debts update")
	id := fs.String("id", "", "debt id")
	value := fs.String("value", "", "debt value")
	account := fs.String("account", "", "account id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	debtID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	amount, err := parseMoney(*value)
	if err != nil {
		return err
	}
	if amount == nil {
		return fmt.Errorf("%w: --value is required", domain.ErrInvalidRequest)
	}
	input := &service.UpdateDebtInput{Value: *amount}
	if *account != "" {
		accountID, err := parseID("account", *account)
		if err != nil {
			return err
		}
		input.AccountID = &accountID
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	debt, err := a.debts.Update(ctx, tenant.ID, debtID, input)
	if err != nil {
		return err
	}
	return a.print(debt)
}

func (a *app) deleteDebt(ctx context.Context, args []string) error {
	fs, token := a.flagSet("debts delete")
	id := fs.String("id", "", "debt id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	debtID, err := parseID("id", *id)
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	if err := a.debts.Delete(ctx, tenant.ID, debtID); err != nil {
		return err
	}
	return a.print(map[string]string{"deleted": debtID.String()})
}

func (a *app) listPayments(ctx context.Context, args []string) error {
	fs, token := a.flagSet("payments list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	payments, err := a.payments.List(ctx, tenant.ID)
	if err != nil {
		return err
	}
	return a.print(payments)
}

func (a *app) createPayment(ctx context.Context, args []string) error {
	fs, token := a.flagSet("payments create")
	debt := fs.String("debt", "", "debt id")
	method := fs.String("method", "", "payment method")
	paidAt := fs.String("paid-at", "", "payment time")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	debtID, err := parseID("debt", *debt)
	if err != nil {
		return err
	}
	input := &service.CreatePaymentInput{DebtID: debtID, Method: domain.PaymentMethod(*method)}
	if input.PaidAt, err = parseTimestamp("paid-at", *paidAt); err != nil {
		return err
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	payment, err := a.payments.Create(ctx, tenant.ID, input)
	if err != nil {
		return err
	}
	return a.print(payment)
}

func (a *app) updatePayment(ctx context.Context, args []string) error {
	fs, token := a.flagSet("payments update")
	paymentKey := paymentKeyFlags(fs)
	method := fs.String("method", "", "payment method")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	key, err := paymentKey()
	if err != nil {
		return err
	}

	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	payment, err := a.payments.Update(ctx, tenant.ID, key, domain.PaymentMethod(*method))
	if err != nil {
		return err
	}
	return a.print(payment)
}

func (a *app) deletePayment(ctx context.Context, args []string) error {
	fs, token := a.flagSet("payments delete")
	paymentKey := paymentKeyFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	key, err := paymentKey()
	if err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	if err := a.payments.Delete(ctx, tenant.ID, key); err != nil {
		return err
	}
	return a.print(map[string]any{"deleted": key})
}

func (a *app) countPayments(ctx context.Context, args []string) error {
	fs, token := a.flagSet("payments count")
	method := fs.String("method", "", "payment method")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ctx, tenant, err := a.tenant(ctx, *token)
	if err != nil {
		return err
	}
	count, err := a.payments.CountByMethod(ctx, tenant.ID, domain.PaymentMethod(*method))
	if err != nil {
		return err
	}
	return a.print(map[string]any{"method": *method, "count": count})
}

// paymentKeyFlags registers --debt and --account and returns a parser for the
// composite key, to be called after the flags are parsed.
func paymentKeyFlags(fs *flag.FlagSet) func() (domain.PaymentKey, error) {
	debt := fs.String("debt", "", "debt id")
	account := fs.String("account", "", "account id")
	return func() (domain.PaymentKey, error) {
		debtID, err := parseID("debt", *debt)
		if err != nil {
			return domain.PaymentKey{}, err
		}
		accountID, err := parseID("account", *account)
		if err != nil {
			return domain.PaymentKey{}, err
		}
		return domain.PaymentKey{DebtID: debtID, AccountID: accountID}, nil
	}
}

func parseTimestamp(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid --%s %q, expected RFC3339", domain.ErrInvalidRequest, name, raw)
	}
	return &t, nil
}
