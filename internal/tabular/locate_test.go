package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateHeader_AfterTitleRows(t *testing.T) {
	grid := Grid{
		{"Acme Corp"},
		{},
		{"Trial Balance as of 2024-12-31"},
		{"Account", "Debit", "Credit"},
		{"Cash", "100", ""},
	}

	loc, err := LocateHeader(grid)
	require.NoError(t, err)
	assert.Equal(t, Location{HeaderIndex: 3, NameCol: 0, DebitCol: 1, CreditCol: 2}, loc)
}

func TestLocateHeader_PrefersAccountName(t *testing.T) {
	grid := Grid{
		{"Account No", "Account Name", "  Credit  Balance ", "DEBIT Balance"},
	}

	loc, err := LocateHeader(grid)
	require.NoError(t, err)
	assert.Equal(t, 1, loc.NameCol)
	assert.Equal(t, 3, loc.DebitCol)
	assert.Equal(t, 2, loc.CreditCol)
}

func TestLocateHeader_NameDefaultsToFirstColumn(t *testing.T) {
	grid := Grid{{"Description", "Debit", "Credit"}}

	loc, err := LocateHeader(grid)
	require.NoError(t, err)
	assert.Equal(t, 0, loc.NameCol)
}

func TestLocateHeader_AccentsAndCase(t *testing.T) {
	grid := Grid{{"Compte", "Débit", "CRÉDIT"}}

	loc, err := LocateHeader(grid)
	require.NoError(t, err)
	assert.Equal(t, 1, loc.DebitCol)
	assert.Equal(t, 2, loc.CreditCol)
}

func TestLocateHeader_NotFound(t *testing.T) {
	grid := Grid{
		{"Account", "Amount"},
		{"Cash", "100"},
	}

	_, err := LocateHeader(grid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrHeaderNotFound))
}

func TestLocateHeader_OnlyScansFirstTenRows(t *testing.T) {
	grid := make(Grid, 0, 12)
	for i := 0; i < 10; i++ {
		grid = append(grid, Row{"filler"})
	}
	grid = append(grid, Row{"Account", "Debit", "Credit"})

	_, err := LocateHeader(grid)
	assert.ErrorIs(t, err, ErrHeaderNotFound)

	loc, err := LocateHeaderWithin(grid, 11)
	require.NoError(t, err)
	assert.Equal(t, 10, loc.HeaderIndex)
}

func TestLocateHeader_CombinedColumnIsMissing(t *testing.T) {
	grid := Grid{{"Account", "Debit/Credit", "Memo"}}

	_, err := LocateHeader(grid)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"debit", "credit"}, mce.Missing)
	assert.Equal(t, []string{"Account", "Debit/Credit", "Memo"}, mce.Found)
	assert.Contains(t, err.Error(), "found: Account, Debit/Credit, Memo")
}

func TestLocateHeader_CombinedColumnSkippedForAmounts(t *testing.T) {
	grid := Grid{{"Account", "Debit/Credit Balance", "Debit", "Credit"}}

	loc, err := LocateHeader(grid)
	require.NoError(t, err)
	assert.Equal(t, Location{HeaderIndex: 0, NameCol: 0, DebitCol: 2, CreditCol: 3}, loc)
}

func TestLocateHeader_EmptyGrid(t *testing.T) {
	_, err := LocateHeader(nil)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "debit balance", NormalizeLabel("  Débit \t Balance "))
	assert.Equal(t, "", NormalizeLabel("   "))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", CellString(nil))
	assert.Equal(t, "1234.5", CellString(1234.5))
	assert.Equal(t, "7", CellString(7))
	assert.Equal(t, "x", CellString("x"))
}
