package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrCatalogEmpty means the source held no data rows.
	ErrCatalogEmpty = errors.New("catalog is empty")
	// ErrCatalogMalformed means required columns are absent.
	ErrCatalogMalformed = errors.New("catalog is malformed")
)

var (
	zipMagic = []byte("PK\x03\x04")
	utf8BOM  = []byte("\xef\xbb\xbf")
)

// Load parses a catalog file. XLSX workbooks are recognised by their zip
// signature (first sheet only); anything else is read as CSV.
func Load(data []byte) (*Catalog, error) {
	var (
		records [][]string
		err     error
	)
	if bytes.HasPrefix(data, zipMagic) {
		records, err = readWorkbook(data)
	} else {
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return fromRecords(records)
}

func readCSV(data []byte) ([][]string, error) {
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading catalog CSV: %w", err)
	}
	return records, nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening catalog workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrCatalogEmpty
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func fromRecords(records [][]string) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrCatalogEmpty
	}
	cols, missing := findColumns(records[0])
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrCatalogMalformed, strings.Join(missing, ", "))
	}

	c := New()
	for _, rec := range records[1:] {
		cl, ok := unmarshalRow(cols, rec)
		if !ok {
			continue
		}
		c.Add(cl)
	}
	if c.Len() == 0 {
		return nil, ErrCatalogEmpty
	}
	return c, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// LoadFile reads and parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// SaveFile writes the catalog as CSV, creating parent directories.
func SaveFile(path string, c *Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, c); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return f.Close()
}
