package report

import "github.com/cleared-dev/standardizer/internal/model"

// Aggregate sums debits and credits per account type. Summary rows are
// skipped and unknown types count as Uncategorized. Every bucket is present
// in the result.
func Aggregate(entries []model.AccountEntry) model.TotalsByType {
	totals := model.NewTotalsByType()
	for _, e := range entries {
		if model.IsSummaryName(e.Account) {
			continue
		}
		at := e.AccountType.Normalize()
		totals[at] = totals[at].Add(e.Debit, e.Credit)
	}
	return totals
}

// GrandTotal sums every bucket.
func GrandTotal(totals model.TotalsByType) model.Totals {
	var sum model.Totals
	for _, t := range totals {
		sum = sum.Add(t.Debit, t.Credit)
	}
	return sum
}
