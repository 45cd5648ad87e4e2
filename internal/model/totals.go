package model

import "github.com/shopspring/decimal"

// Totals accumulates debits and credits for one account type.
type Totals struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// Net returns debit minus credit.
func (t Totals) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// Add returns t plus the given amounts.
func (t Totals) Add(debit, credit decimal.Decimal) Totals {
	return Totals{Debit: t.Debit.Add(debit), Credit: t.Credit.Add(credit)}
}

// TotalsByType always holds a bucket for every AccountType.
type TotalsByType map[AccountType]Totals

// NewTotalsByType returns zeroed buckets for all six account types.
func NewTotalsByType() TotalsByType {
	out := make(TotalsByType, len(accountTypes))
	for _, at := range accountTypes {
		out[at] = Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	}
	return out
}

// Equal compares two totals maps amount by amount.
func (t TotalsByType) Equal(other TotalsByType) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		o, ok := other[k]
		if !ok || !v.Debit.Equal(o.Debit) || !v.Credit.Equal(o.Credit) {
			return false
		}
	}
	return true
}
