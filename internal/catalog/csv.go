package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/standardizer/internal/model"
)

const (
	numFields    = 4
	colType      = 0
	colPrimary   = 1
	colSecondary = 2
	colTertiary  = 3
)

// Header is the catalog file's column order.
var Header = []string{
	"account_type",
	"primary_classification",
	"secondary_classification",
	"tertiary_classification",
}

// WriteCSV writes the catalog in its file format, one tuple per row.
func WriteCSV(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range c.Entries() {
		if err := cw.Write(MarshalRow(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a tuple to a catalog row.
func MarshalRow(cl model.Classification) []string {
	row := make([]string, numFields)
	row[colType] = string(cl.AccountType)
	row[colPrimary] = cl.Primary
	row[colSecondary] = cl.Secondary
	row[colTertiary] = cl.Tertiary
	return row
}

// columns maps each required field to its position in a header row.
type columns [numFields]int

func findColumns(header []string) (columns, []string) {
	var cols columns
	for i := range cols {
		cols[i] = -1
	}
	for i, h := range header {
		name := strings.ReplaceAll(model.NormalizeName(h), " ", "_")
		for f, want := range Header {
			if name == want && cols[f] < 0 {
				cols[f] = i
			}
		}
	}
	var missing []string
	for f, idx := range cols {
		if idx < 0 {
			missing = append(missing, Header[f])
		}
	}
	return cols, missing
}

// unmarshalRow reads one data row. ok is false when every cell is blank.
func unmarshalRow(cols columns, record []string) (model.Classification, bool) {
	cell := func(f int) string {
		if cols[f] < len(record) {
			return record[cols[f]]
		}
		return ""
	}
	cl := model.Classification{
		AccountType: model.AccountType(cell(colType)),
		Primary:     cell(colPrimary),
		Secondary:   cell(colSecondary),
		Tertiary:    cell(colTertiary),
	}
	if isBlank(string(cl.AccountType)) && isBlank(cl.Primary) && isBlank(cl.Secondary) && isBlank(cl.Tertiary) {
		return cl, false
	}
	if at, known := model.ParseAccountType(string(cl.AccountType)); known {
		cl.AccountType = at
	} else {
		cl.AccountType = model.AccountTypeUncategorized
	}
	return cl, true
}
