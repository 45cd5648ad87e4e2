package classlog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/standardizer/internal/model"
)

var testTime = time.Date(2026, 3, 31, 17, 0, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		ReportID:  "3f0c1e4a-0000-4000-8000-000000000001",
		Account:   "Office Rent",
		Kind:      model.KindRemote,
		Classification: model.Classification{
			AccountType: model.AccountTypeExpense,
			Primary:     "Operating Expenses",
			Secondary:   "Occupancy",
			Tertiary:    "Rent Expense",
		},
		Attempts: 2,
	}
}

func TestAppendNewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppendExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	failed := testEntry()
	failed.Kind = model.KindUncategorized
	failed.Classification = model.UncategorizedClassification()
	failed.Attempts = 3
	failed.Reason = "classification endpoint returned 503: busy, try later"
	require.NoError(t, Append(dir, []Entry{failed}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, failed.Reason, entries[1].Reason)

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "timestamp,report_id"))
}

func TestReadMissing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestFromResults(t *testing.T) {
	entries := []model.AccountEntry{
		model.NewEntry("Cash", decimal.NewFromInt(10), decimal.Zero),
		model.NewEntry("Mystery", decimal.Zero, decimal.NewFromInt(10)),
	}
	results := []model.ClassificationResult{
		model.LocalResult(model.Classification{AccountType: model.AccountTypeAsset, Primary: "Current Assets"}),
		model.UncategorizedResult("no keyword match", 0),
	}

	got := FromResults(testTime, "r1", entries, results)
	require.Len(t, got, 2)
	assert.Equal(t, "Cash", got[0].Account)
	assert.Equal(t, model.KindLocal, got[0].Kind)
	assert.Equal(t, model.Uncategorized, got[0].Classification.Tertiary)
	assert.Equal(t, "no keyword match", got[1].Reason)
}

func TestUnmarshalBadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"x"})
	assert.Error(t, err)

	row := MarshalEntry(testEntry())
	row[colAttempts] = "many"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing attempts")
}
