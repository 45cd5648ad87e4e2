package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/standardizer/internal/model"
)

// Check names a validation rule.
type Check string

const (
	CheckBalanced  Check = "balanced"
	CheckNegative  Check = "non-negative"
	CheckPrecision Check = "precision"
	CheckName      Check = "name"
	CheckSummary   Check = "summary-row"
)

// ValidationError describes a single violation. Row is the entry index, or
// -1 for report-wide checks.
type ValidationError struct {
	Check       Check
	Row         int
	Account     string
	Description string
}

func (e ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s", e.Check, e.Description)
	}
	return fmt.Sprintf("%s [%d %s]: %s", e.Check, e.Row+1, e.Account, e.Description)
}

var hundred = decimal.NewFromInt(100)

func hasExtraPlaces(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return !scaled.Equal(scaled.Floor())
}

// Validate reports every problem with the report's entries. An empty result
// means the trial balance is clean.
func (r *Report) Validate() []ValidationError {
	var errs []ValidationError

	for i, e := range r.Entries {
		if strings.TrimSpace(e.Account) == "" {
			errs = append(errs, ValidationError{Check: CheckName, Row: i, Description: "account name is blank"})
		}
		if model.IsSummaryName(e.Account) {
			errs = append(errs, ValidationError{Check: CheckSummary, Row: i, Account: e.Account, Description: "summary row is excluded from totals"})
		}
		if e.Debit.IsNegative() {
			errs = append(errs, ValidationError{Check: CheckNegative, Row: i, Account: e.Account, Description: fmt.Sprintf("debit %s is negative", e.Debit)})
		}
		if e.Credit.IsNegative() {
			errs = append(errs, ValidationError{Check: CheckNegative, Row: i, Account: e.Account, Description: fmt.Sprintf("credit %s is negative", e.Credit)})
		}
		if hasExtraPlaces(e.Debit) {
			errs = append(errs, ValidationError{Check: CheckPrecision, Row: i, Account: e.Account, Description: fmt.Sprintf("debit %s has more than 2 decimal places", e.Debit)})
		}
		if hasExtraPlaces(e.Credit) {
			errs = append(errs, ValidationError{Check: CheckPrecision, Row: i, Account: e.Account, Description: fmt.Sprintf("credit %s has more than 2 decimal places", e.Credit)})
		}
	}

	total := r.Totals()
	if !total.Debit.Equal(total.Credit) {
		errs = append(errs, ValidationError{
			Check:       CheckBalanced,
			Row:         -1,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", total.Debit.StringFixed(2), total.Credit.StringFixed(2)),
		})
	}
	return errs
}
