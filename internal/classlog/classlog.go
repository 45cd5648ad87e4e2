// Package classlog keeps an append-only CSV record of how each account was
// classified, including absorbed remote failures.
package classlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cleared-dev/standardizer/internal/model"
)

// Entry is one row in the classification log.
type Entry struct {
	Timestamp      time.Time
	ReportID       string
	Account        string
	Kind           model.ClassificationKind
	Classification model.Classification
	Attempts       int
	Reason         string
}

// Header is the CSV header for classification-log.csv.
var Header = []string{
	"timestamp", "report_id", "account", "kind",
	"account_type", "primary", "secondary", "tertiary",
	"attempts", "reason",
}

const (
	numFields    = 10
	logDir       = "logs"
	logFile      = "classification-log.csv"
	colTimestamp = 0
	colReportID  = 1
	colAccount   = 2
	colKind      = 3
	colType      = 4
	colPrimary   = 5
	colSecondary = 6
	colTertiary  = 7
	colAttempts  = 8
	colReason    = 9
)

// Path returns the log location under root.
func Path(root string) string {
	return filepath.Join(root, logDir, logFile)
}

// FromResults builds log entries for a classified report.
func FromResults(ts time.Time, reportID string, entries []model.AccountEntry, results []model.ClassificationResult) []Entry {
	out := make([]Entry, 0, len(results))
	for i, r := range results {
		if i >= len(entries) {
			break
		}
		out = append(out, Entry{
			Timestamp:      ts,
			ReportID:       reportID,
			Account:        entries[i].Account,
			Kind:           r.Kind,
			Classification: r.Classification,
			Attempts:       r.Attempts,
			Reason:         r.Reason,
		})
	}
	return out
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colReportID] = e.ReportID
	row[colAccount] = e.Account
	row[colKind] = string(e.Kind)
	row[colType] = string(e.Classification.AccountType)
	row[colPrimary] = e.Classification.Primary
	row[colSecondary] = e.Classification.Secondary
	row[colTertiary] = e.Classification.Tertiary
	row[colAttempts] = strconv.Itoa(e.Attempts)
	row[colReason] = e.Reason
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	attempts, err := strconv.Atoi(record[colAttempts])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing attempts %q: %w", record[colAttempts], err)
	}

	return Entry{
		Timestamp: ts,
		ReportID:  record[colReportID],
		Account:   record[colAccount],
		Kind:      model.ClassificationKind(record[colKind]),
		Classification: model.Classification{
			AccountType: model.AccountType(record[colType]),
			Primary:     record[colPrimary],
			Secondary:   record[colSecondary],
			Tertiary:    record[colTertiary],
		},
		Attempts: attempts,
		Reason:   record[colReason],
	}, nil
}

// Append writes entries to <root>/logs/classification-log.csv, creating the
// file and header if needed.
func Append(root string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(root, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening classification log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries, or nil when the log does not exist yet.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening classification log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading classification log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
