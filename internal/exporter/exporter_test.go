package exporter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/standardizer/internal/model"
)

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"":                          DefaultSheetName,
		"  ":                        DefaultSheetName,
		"Q1 2026":                   "Q1 2026",
		"FY2025/26 [draft]":         "FY2025 26  draft",
		strings.Repeat("x", 40):     strings.Repeat("x", 31),
		"'quoted'":                  "quoted",
		"Trial balance: north*east": "Trial balance  north east",
	}
	for in, want := range tests {
		assert.Equal(t, want, SheetName(in), in)
	}
}

func testEntries() []model.AccountEntry {
	cash := model.NewEntry("Cash", decimal.RequireFromString("1000.25"), decimal.Zero)
	cash.Apply(model.Classification{
		AccountType: model.AccountTypeAsset,
		Primary:     "Current Assets",
		Secondary:   "Cash and Cash Equivalents",
		Tertiary:    "Cash",
	})
	return []model.AccountEntry{
		cash,
		model.NewEntry("Total", decimal.RequireFromString("1000.25"), decimal.RequireFromString("1000.25")),
		model.NewEntry("Sales", decimal.Zero, decimal.RequireFromString("1000.25")),
	}
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "Q1/2026", testEntries()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Q1 2026"}, f.GetSheetList())

	rows, err := f.GetRows("Q1 2026")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Account", "Debit", "Credit", "Account Type", "Primary Classification", "Secondary Classification", "Tertiary Classification"}, rows[0])
	assert.Equal(t, []string{"Cash", "1000.25", "0", "Asset", "Current Assets", "Cash and Cash Equivalents", "Cash"}, rows[1])
	assert.Equal(t, []string{"Sales", "0", "1000.25", "Uncategorized", "Uncategorized", "Uncategorized", "Uncategorized"}, rows[2])
}

func TestWriteFileNamesSheetAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "march-close.xlsx")
	require.NoError(t, WriteFile(path, "", testEntries()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"march-close"}, f.GetSheetList())
}
