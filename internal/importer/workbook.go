package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/standardizer/internal/tabular"
)

// ErrNoSheets means the workbook has no readable sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// XLSXReader reads the first sheet of an Office Open XML workbook. Cells are
// read unformatted so numbers keep full precision.
type XLSXReader struct{}

func (x *XLSXReader) Format() string       { return "xlsx" }
func (x *XLSXReader) Extensions() []string { return []string{".xlsx", ".xlsm"} }

func (x *XLSXReader) Read(r io.Reader) (tabular.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	for i, row := range rows {
		rows[i] = trimRow(row)
	}
	return tabular.StringGrid(rows), nil
}

// XLSReader reads the first sheet of a legacy BIFF workbook.
type XLSReader struct {
	// Charset for non-Unicode strings; cp1252 when empty.
	Charset string
}

func (x *XLSReader) Format() string       { return "xls" }
func (x *XLSReader) Extensions() []string { return []string{".xls"} }

func (x *XLSReader) Read(r io.Reader) (tabular.Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	charset := x.Charset
	if charset == "" {
		charset = "cp1252"
	}
	wb, err := xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoSheets
	}

	grid := make(tabular.Grid, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make(tabular.Row, row.LastCol()+1)
		for c := range cells {
			if v := row.Col(c); v != "" {
				cells[c] = v
			}
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
