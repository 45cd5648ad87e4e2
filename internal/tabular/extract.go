package tabular

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/standardizer/internal/amount"
	"github.com/cleared-dev/standardizer/internal/model"
)

// ErrNoValidEntries means extraction finished without producing any entry.
var ErrNoValidEntries = errors.New("no valid entries")

// NoEntriesError names the rows that were skipped as totals or headings.
type NoEntriesError struct {
	Skipped []string
}

func (e *NoEntriesError) Error() string {
	if len(e.Skipped) == 0 {
		return "no valid entries found"
	}
	return "no valid entries found; skipped rows: " + strings.Join(e.Skipped, ", ")
}

func (e *NoEntriesError) Unwrap() error { return ErrNoValidEntries }

// RowError reports an unparseable amount. Row is 1-based, as shown by
// spreadsheet programs.
type RowError struct {
	Row     int
	Account string
	Value   string
	Err     error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid amount for %q (row %d): %q: %v", e.Account, e.Row, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Extractor turns the rows below a located header into entries.
type Extractor struct {
	// SkipSummaryRows drops rows whose name satisfies model.IsSummaryName.
	SkipSummaryRows bool
}

// DefaultExtractor skips total, subtotal and section-heading rows.
func DefaultExtractor() Extractor {
	return Extractor{SkipSummaryRows: true}
}

// ExtractEntries runs the default extractor.
func ExtractEntries(grid Grid, loc Location) ([]model.AccountEntry, error) {
	return DefaultExtractor().Extract(grid, loc)
}

// Extract walks every row strictly below loc.HeaderIndex. Rows without a
// name, and rows whose debit and credit both resolve to zero, are skipped.
// The first unparseable amount aborts extraction.
func (x Extractor) Extract(grid Grid, loc Location) ([]model.AccountEntry, error) {
	var entries []model.AccountEntry
	var skipped []string

	for i := loc.HeaderIndex + 1; i < len(grid); i++ {
		row := grid[i]
		name := row.Text(loc.NameCol)
		if name == "" {
			continue
		}
		if x.SkipSummaryRows && model.IsSummaryName(name) {
			skipped = append(skipped, name)
			continue
		}

		debit, err := cellAmount(row.At(loc.DebitCol))
		if err != nil {
			return nil, &RowError{Row: i + 1, Account: name, Value: CellString(row.At(loc.DebitCol)), Err: err}
		}
		credit, err := cellAmount(row.At(loc.CreditCol))
		if err != nil {
			return nil, &RowError{Row: i + 1, Account: name, Value: CellString(row.At(loc.CreditCol)), Err: err}
		}

		debit, credit = normalizeSides(debit, credit)
		if debit.IsZero() && credit.IsZero() {
			continue
		}
		entries = append(entries, model.NewEntry(name, debit, credit))
	}

	if len(entries) == 0 {
		return nil, &NoEntriesError{Skipped: skipped}
	}
	return entries, nil
}

func cellAmount(c Cell) (decimal.Decimal, error) {
	if amount.IsBlank(c) {
		return decimal.Zero, nil
	}
	return amount.Parse(c)
}

// normalizeSides moves a negative debit to the credit side and a negative
// credit to the debit side so both stay non-negative.
func normalizeSides(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	d, c := decimal.Zero, decimal.Zero
	if debit.IsNegative() {
		c = c.Add(debit.Neg())
	} else {
		d = d.Add(debit)
	}
	if credit.IsNegative() {
		d = d.Add(credit.Neg())
	} else {
		c = c.Add(credit)
	}
	return d, c
}
