package domain

import "github.com/shopspring/decimal"

// TotalDebts sums the account's debt values, counting NULL values as zero.
func (a *Account) TotalDebts() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Debts {
		total = total.Add(a.Debts[i].Value.Decimal)
	}
	return total
}

// TotalPayments sums the account's payment values, counting NULL values as zero.
func (a *Account) TotalPayments() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Payments {
		total = total.Add(a.Payments[i].Value.Decimal)
	}
	return total
}

// Balance is recomputed from the loaded collections on every call.
func (a *Account) Balance() decimal.Decimal {
	return a.TotalDebts().Sub(a.TotalPayments())
}

// Consolidation accumulates the aggregates of several accounts.
type Consolidation struct {
	TotalDebts    decimal.Decimal
	TotalPayments decimal.Decimal
	Balance       decimal.Decimal
	DebtCount     int
	PaymentCount  int
	AccountCount  int
}

// Consolidate accumulates totals and counts across accounts. Balance is the sum
// of each account's own balance.
func Consolidate(accounts []Account) Consolidation {
	c := Consolidation{
		TotalDebts:    decimal.Zero,
		TotalPayments: decimal.Zero,
		Balance:       decimal.Zero,
		AccountCount:  len(accounts),
	}
	for i := range accounts {
		acc := &accounts[i]
		c.TotalDebts = c.TotalDebts.Add(acc.TotalDebts())
		c.TotalPayments = c.TotalPayments.Add(acc.TotalPayments())
		c.DebtCount += len(acc.Debts)
		c.PaymentCount += len(acc.Payments)
		c.Balance = c.Balance.Add(acc.Balance())
	}
	return c
}
