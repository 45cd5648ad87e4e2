package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/standardizer/internal/model"
)

func checks(errs []ValidationError) []Check {
	var out []Check
	for _, e := range errs {
		out = append(out, e.Check)
	}
	return out
}

func TestValidateClean(t *testing.T) {
	r := New("", []model.AccountEntry{
		entry("Cash", model.AccountTypeAsset, "1000.25", "0"),
		entry("Sales", model.AccountTypeRevenue, "0", "1000.25"),
	})
	assert.Empty(t, r.Validate())
}

func TestValidateUnbalanced(t *testing.T) {
	r := New("", []model.AccountEntry{
		entry("Cash", model.AccountTypeAsset, "1000", "0"),
		entry("Sales", model.AccountTypeRevenue, "0", "900"),
	})
	errs := r.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, CheckBalanced, errs[0].Check)
	assert.Equal(t, "balanced: debits (1000.00) != credits (900.00)", errs[0].Error())
}

func TestValidateEntryChecks(t *testing.T) {
	r := New("", []model.AccountEntry{
		entry(" ", model.AccountTypeAsset, "1", "0"),
		entry("Cash", model.AccountTypeAsset, "-5", "0"),
		entry("Bank", model.AccountTypeAsset, "1.005", "0"),
		entry("Subtotal", model.AccountTypeAsset, "0", "0"),
	})
	got := checks(r.Validate())
	assert.Equal(t, []Check{CheckName, CheckNegative, CheckPrecision, CheckSummary, CheckBalanced}, got)

	errs := r.Validate()
	assert.Equal(t, "non-negative [2 Cash]: debit -5 is negative", errs[1].Error())
}
