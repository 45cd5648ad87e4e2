package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/standardizer/internal/tabular"
)

func texts(g tabular.Grid) [][]string {
	out := make([][]string, len(g))
	for i, row := range g {
		out[i] = make([]string, len(row))
		for j := range row {
			out[i][j] = row.Text(j)
		}
	}
	return out
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("XLSX"))
	assert.NotNil(t, r.Get("Csv"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	assert.Panics(t, func() { r.Register(&XLSXReader{}) })
	assert.Panics(t, func() { r.Register(&DelimitedReader{Name: "other", Exts: []string{".xlsx"}}) })
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"csv", "tsv", "txt", "xls", "xlsx"}, r.Formats())
}

func TestDetect(t *testing.T) {
	r := DefaultRegistry()
	tests := map[string]string{
		"tb.xlsx":        "xlsx",
		"TB.XLSM":        "xlsx",
		"legacy.xls":     "xls",
		"export.csv":     "csv",
		"dir/export.tsv": "tsv",
		"paste.txt":      "txt",
	}
	for name, want := range tests {
		rd, err := r.Detect(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, rd.Format(), name)
	}

	_, err := r.Detect("report.pdf")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "csv, tsv, txt, xls, xlsx")
}

func TestResolve(t *testing.T) {
	r := DefaultRegistry()

	rd, err := r.Resolve("tsv", "data.csv")
	require.NoError(t, err)
	assert.Equal(t, "tsv", rd.Format())

	rd, err = r.Resolve("", "data.csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", rd.Format())

	_, err = r.Resolve("ods", "data.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', SniffDelimiter([]byte("Account,Debit,Credit\n")))
	assert.Equal(t, ';', SniffDelimiter([]byte("\n\nAccount;Debit;Credit\nCash;1.000,00;\n")))
	assert.Equal(t, '\t', SniffDelimiter([]byte("Account\tDebit\tCredit\n")))
	assert.Equal(t, ',', SniffDelimiter([]byte("Trial Balance\n")))
	assert.Equal(t, ',', SniffDelimiter(nil))
}

func TestSniffDelimiterSkipsTitleRows(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"tab with title", "Trial Balance\nAccount\tDebit\tCredit\nCash\t1,000\t\nSales\t\t1,000\n", '\t'},
		{"semicolon with title", "Acme Ltd\nTrial Balance\n\nAccount;Debit;Credit\nCash;1.000,00;\nSales;;1.000,00\n", ';'},
		{"comma with title", "Trial Balance\nAccount,Debit,Credit\nCash,1000,\n", ','},
		{"thousands commas in every row", "Account\tDebit\tCredit\nCash\t1,000\t2,000\nRent\t3,000\t4,000\n", '\t'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffDelimiter([]byte(tt.text)))
		})
	}
}

func TestReadPaste(t *testing.T) {
	g, err := ReadPaste("Account\tDebit\tCredit\n Cash \t1,000.00\t\nSales\t\t1000\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Account", "Debit", "Credit"},
		{"Cash", "1,000.00", ""},
		{"Sales", "", "1000"},
	}, texts(g))
}

func TestReadPasteWithTitleRow(t *testing.T) {
	g, err := ReadPaste("Trial Balance\nAccount\tDebit\tCredit\nCash\t1,000\t\nSales\t\t1,000\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Trial Balance"},
		{"Account", "Debit", "Credit"},
		{"Cash", "1,000", ""},
		{"Sales", "", "1,000"},
	}, texts(g))

	loc, err := tabular.LocateHeader(g)
	require.NoError(t, err)
	assert.Equal(t, tabular.Location{HeaderIndex: 1, NameCol: 0, DebitCol: 1, CreditCol: 2}, loc)
}

func TestDelimitedReaderRaggedAndQuoted(t *testing.T) {
	rd := &DelimitedReader{Name: "csv"}
	g, err := rd.Read(strings.NewReader("\xef\xbb\xbfTrial Balance\nAccount,Debit,Credit\n\"Property, Plant\",\"(1,234.50)\",\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Trial Balance"},
		{"Account", "Debit", "Credit"},
		{"Property, Plant", "(1,234.50)", ""},
	}, texts(g))
}

func TestDelimitedReaderFixedComma(t *testing.T) {
	rd := &DelimitedReader{Name: "tsv", Comma: '\t'}
	g, err := rd.Read(strings.NewReader("a,b\tc\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a,b", "c"}}, texts(g))
}

func writeWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Ignored", "A1", "second sheet"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestXLSXReaderFirstSheetRaw(t *testing.T) {
	data := writeWorkbook(t, [][]any{
		{"Trial Balance"},
		{"Account", "Debit", "Credit"},
		{"Cash", 1234.5, nil},
		{"Sales", nil, 1234.5},
	})

	g, err := (&XLSXReader{}).Read(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, g, 4)
	assert.Equal(t, "Trial Balance", g[0].Text(0))
	assert.Equal(t, "1234.5", g[2].Text(1))
	assert.Equal(t, "", g[2].Text(2))
	assert.Equal(t, "1234.5", g[3].Text(2))
}

func TestXLSXReaderRejectsGarbage(t *testing.T) {
	_, err := (&XLSXReader{}).Read(strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tb.csv")
	require.NoError(t, os.WriteFile(path, []byte("Account;Debit;Credit\nCash;10;\n"), 0o644))

	g, err := DefaultRegistry().ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Account", "Debit", "Credit"}, {"Cash", "10", ""}}, texts(g))

	_, err = DefaultRegistry().ReadFile(filepath.Join(dir, "missing.csv"), "")
	assert.Error(t, err)
}

func TestScan_FindsSupportedFiles(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(filepath.Join(importDir, "processed"), 0o755))

	for _, name := range []string{"b.csv", "a.xlsx", "notes.pdf", ".hidden.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(importDir, name), []byte("data"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "processed", "old.csv"), []byte("data"), 0o644))

	files, err := DefaultRegistry().Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xlsx", files[0].Name)
	assert.Equal(t, "xlsx", files[0].Format)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.EqualValues(t, 4, files[1].Size)
}

func TestScan_EmptyDir(t *testing.T) {
	files, err := DefaultRegistry().Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "tb.xlsx"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "tb.xlsx"))

	_, err := os.Stat(filepath.Join(importDir, "tb.xlsx"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "tb.xlsx"))
	assert.NoError(t, err)
}
