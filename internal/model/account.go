package model

import "strings"

// AccountType is the top level of the classification hierarchy.
type AccountType string

const (
	AccountTypeAsset         AccountType = "Asset"
	AccountTypeLiability     AccountType = "Liability"
	AccountTypeEquity        AccountType = "Equity"
	AccountTypeRevenue       AccountType = "Revenue/Income"
	AccountTypeExpense       AccountType = "Cost/Expense"
	AccountTypeUncategorized AccountType = "Uncategorized"
)

// Uncategorized is the label used for every classification level that could
// not be resolved.
const Uncategorized = "Uncategorized"

var accountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
	AccountTypeUncategorized,
}

var accountTypeAliases = map[string]AccountType{
	"asset":          AccountTypeAsset,
	"assets":         AccountTypeAsset,
	"liability":      AccountTypeLiability,
	"liabilities":    AccountTypeLiability,
	"equity":         AccountTypeEquity,
	"revenue/income": AccountTypeRevenue,
	"revenue":        AccountTypeRevenue,
	"revenues":       AccountTypeRevenue,
	"income":         AccountTypeRevenue,
	"cost/expense":   AccountTypeExpense,
	"cost":           AccountTypeExpense,
	"costs":          AccountTypeExpense,
	"expense":        AccountTypeExpense,
	"expenses":       AccountTypeExpense,
	"uncategorized":  AccountTypeUncategorized,
}

// AllAccountTypes returns every account type in display order.
func AllAccountTypes() []AccountType {
	out := make([]AccountType, len(accountTypes))
	copy(out, accountTypes)
	return out
}

// Valid reports whether t is one of the enumerated account types.
func (t AccountType) Valid() bool {
	for _, at := range accountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// Normalize maps values outside the enumeration to Uncategorized.
func (t AccountType) Normalize() AccountType {
	if t.Valid() {
		return t
	}
	return AccountTypeUncategorized
}

// ParseAccountType accepts the canonical labels plus common spellings
// ("Revenue", "Expenses", "cost / expense", ...).
func ParseAccountType(s string) (AccountType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " / ", "/")
	key = strings.ReplaceAll(key, " /", "/")
	key = strings.ReplaceAll(key, "/ ", "/")
	at, ok := accountTypeAliases[key]
	return at, ok
}
