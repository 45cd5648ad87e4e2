// Package tabular locates the trial-balance table inside a raw cell grid and
// extracts account entries from it.
package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/standardizer/internal/model"
)

// Cell is an untyped scalar: a string, a number, or nil for an empty cell.
type Cell = any

// Row is an ordered sequence of cells. Rows may be ragged.
type Row []Cell

// Grid is a sheet's rows; row 0 is the first candidate header.
type Grid []Row

// At returns the cell at col, or nil when the row is shorter.
func (r Row) At(col int) Cell {
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Text returns the trimmed string form of the cell at col.
func (r Row) Text(col int) string {
	return strings.TrimSpace(CellString(r.At(col)))
}

// CellString renders a cell without locale formatting.
func CellString(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case decimal.Decimal:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// StringGrid converts rows of strings, as produced by spreadsheet and CSV
// readers, into a Grid.
func StringGrid(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, rec := range rows {
		row := make(Row, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		g[i] = row
	}
	return g
}

// NormalizeLabel lowercases, strips accents and collapses whitespace.
func NormalizeLabel(s string) string {
	return model.NormalizeName(s)
}
