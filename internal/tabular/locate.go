package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultScanRows bounds how far down the sheet the header search looks.
const DefaultScanRows = 10

var (
	// ErrHeaderNotFound means no row in the scan window names both a debit
	// and a credit column.
	ErrHeaderNotFound = errors.New("header not found")
	// ErrMissingColumns means a header row was found but a debit or credit
	// column could not be assigned.
	ErrMissingColumns = errors.New("missing columns")
)

// Location identifies the header row and the columns entries are read from.
// HeaderIndex is -1 for header-less (positional) input.
type Location struct {
	HeaderIndex int
	NameCol     int
	DebitCol    int
	CreditCol   int
}

// PositionalLocation is the layout assumed for header-less pastes:
// account name, debit, credit.
func PositionalLocation() Location {
	return Location{HeaderIndex: -1, NameCol: 0, DebitCol: 1, CreditCol: 2}
}

// MissingColumnsError lists the header cells that were actually present.
type MissingColumnsError struct {
	HeaderIndex int
	Missing     []string
	Found       []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("header row %d is missing %s column(s); found: %s",
		e.HeaderIndex+1, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// LocateHeader scans the first DefaultScanRows rows for the header.
func LocateHeader(grid Grid) (Location, error) {
	return LocateHeaderWithin(grid, DefaultScanRows)
}

// LocateHeaderWithin scans the first scanRows rows. The header is the first
// row holding a cell containing "debit" and a cell containing "credit".
// A combined cell such as "Debit/Credit" identifies the header but cannot
// serve as either amount column.
func LocateHeaderWithin(grid Grid, scanRows int) (Location, error) {
	if scanRows <= 0 {
		scanRows = DefaultScanRows
	}
	limit := min(scanRows, len(grid))

	for i := 0; i < limit; i++ {
		labels := normalizedRow(grid[i])
		if !anyContains(labels, "debit") || !anyContains(labels, "credit") {
			continue
		}
		return columnsFor(grid[i], labels, i)
	}
	return Location{}, fmt.Errorf("no row with debit and credit columns in the first %d rows: %w", limit, ErrHeaderNotFound)
}

func columnsFor(row Row, labels []string, headerIndex int) (Location, error) {
	loc := Location{HeaderIndex: headerIndex, NameCol: -1, DebitCol: -1, CreditCol: -1}

	for col, l := range labels {
		if strings.Contains(l, "account name") {
			loc.NameCol = col
			break
		}
	}
	if loc.NameCol < 0 {
		for col, l := range labels {
			if strings.Contains(l, "account") {
				loc.NameCol = col
				break
			}
		}
	}
	if loc.NameCol < 0 {
		loc.NameCol = 0
	}

	for col, l := range labels {
		isDebit := strings.Contains(l, "debit")
		isCredit := strings.Contains(l, "credit")
		switch {
		case isDebit && !isCredit && loc.DebitCol < 0:
			loc.DebitCol = col
		case isCredit && !isDebit && loc.CreditCol < 0:
			loc.CreditCol = col
		}
	}

	var missing []string
	if loc.DebitCol < 0 {
		missing = append(missing, "debit")
	}
	if loc.CreditCol < 0 {
		missing = append(missing, "credit")
	}
	if len(missing) > 0 {
		var found []string
		for col := range row {
			if s := row.Text(col); s != "" {
				found = append(found, s)
			}
		}
		return Location{}, &MissingColumnsError{HeaderIndex: headerIndex, Missing: missing, Found: found}
	}
	return loc, nil
}

func normalizedRow(row Row) []string {
	labels := make([]string, len(row))
	for i := range row {
		labels[i] = NormalizeLabel(CellString(row[i]))
	}
	return labels
}

func anyContains(labels []string, sub string) bool {
	for _, l := range labels {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}
