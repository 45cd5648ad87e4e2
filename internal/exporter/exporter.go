// Package exporter writes classified entries back to a workbook.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/standardizer/internal/model"
)

// DefaultSheetName is used when no export target name is given.
const DefaultSheetName = "Standardized"

const maxSheetName = 31

// Header is the exported column order.
var Header = []any{
	"Account",
	"Debit",
	"Credit",
	"Account Type",
	"Primary Classification",
	"Secondary Classification",
	"Tertiary Classification",
}

// SheetName makes name a legal worksheet name: forbidden characters become
// spaces, it is trimmed to 31 characters and never empty.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return ' '
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if runes := []rune(name); len(runes) > maxSheetName {
		name = strings.TrimSpace(string(runes[:maxSheetName]))
	}
	if name == "" {
		return DefaultSheetName
	}
	return name
}

// MarshalRow converts an entry to a sheet row.
func MarshalRow(e model.AccountEntry) []any {
	return []any{
		e.Account,
		e.Debit.InexactFloat64(),
		e.Credit.InexactFloat64(),
		string(e.AccountType.Normalize()),
		e.PrimaryClassification,
		e.SecondaryClassification,
		e.TertiaryClassification,
	}
}

// WriteWorkbook writes one sheet holding the header and every non-summary
// entry in order.
func WriteWorkbook(w io.Writer, sheetName string, entries []model.AccountEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(sheetName)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, e := range entries {
		if model.IsSummaryName(e.Account) {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := MarshalRow(e)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to path, naming the sheet after the file
// when sheetName is empty.
func WriteFile(path, sheetName string, entries []model.AccountEntry) error {
	if sheetName == "" {
		sheetName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteWorkbook(f, sheetName, entries); err != nil {
		return err
	}
	return f.Close()
}
