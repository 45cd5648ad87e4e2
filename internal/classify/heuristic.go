package classify

import (
	"strings"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
)

// keywordRules are checked in order; the first rule with a matching keyword
// wins. Liabilities come first so "accrued expenses" is not an expense, and
// expenses precede revenue so "cost of sales" is not revenue.
var keywordRules = []struct {
	accountType model.AccountType
	keywords    []string
}{
	{model.AccountTypeLiability, []string{"payable", "loan", "accrued"}},
	{model.AccountTypeAsset, []string{"cash", "receivable", "inventory"}},
	{model.AccountTypeEquity, []string{"capital", "equity", "retained"}},
	{model.AccountTypeExpense, []string{"expense", "cost", "salary"}},
	{model.AccountTypeRevenue, []string{"revenue", "income", "sales"}},
}

// KeywordType guesses an account type from words in the name.
func KeywordType(name string) (model.AccountType, bool) {
	lower := model.NormalizeName(name)
	for _, r := range keywordRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.accountType, true
			}
		}
	}
	return model.AccountTypeUncategorized, false
}

// Heuristic classifies by keyword. The lower levels come from the first
// catalog path under the guessed type, or Uncategorized when the catalog has
// none.
func Heuristic(name string, cat *catalog.Catalog) (model.Classification, bool) {
	at, ok := KeywordType(name)
	if !ok {
		return model.UncategorizedClassification(), false
	}
	if path, found := cat.FirstPath(at); found {
		return path, true
	}
	c := model.UncategorizedClassification()
	c.AccountType = at
	return c, true
}
