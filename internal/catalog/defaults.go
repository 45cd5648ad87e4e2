package catalog

import "github.com/cleared-dev/standardizer/internal/model"

type branch struct {
	primary   string
	secondary string
	tertiary  []string
}

var defaultChart = map[model.AccountType][]branch{
	model.AccountTypeAsset: {
		{"Current Assets", "Cash and Cash Equivalents", []string{"Cash", "Petty Cash", "Bank Accounts"}},
		{"Current Assets", "Receivables", []string{"Accounts Receivable", "Notes Receivable", "Allowance for Doubtful Accounts"}},
		{"Current Assets", "Inventory", []string{"Raw Materials", "Finished Goods", "Merchandise Inventory"}},
		{"Current Assets", "Prepaid Items", []string{"Prepaid Expenses", "Prepaid Insurance", "Prepaid Rent"}},
		{"Non-Current Assets", "Property, Plant and Equipment", []string{"Land", "Buildings", "Equipment", "Vehicles", "Furniture and Fixtures", "Accumulated Depreciation"}},
		{"Non-Current Assets", "Intangible Assets", []string{"Goodwill", "Patents", "Software"}},
		{"Non-Current Assets", "Long-Term Investments", []string{"Investments", "Security Deposits"}},
	},
	model.AccountTypeLiability: {
		{"Current Liabilities", "Payables", []string{"Accounts Payable", "Notes Payable", "Credit Card"}},
		{"Current Liabilities", "Accrued Liabilities", []string{"Accrued Expenses", "Accrued Wages", "Accrued Interest"}},
		{"Current Liabilities", "Taxes Payable", []string{"Sales Tax Payable", "Payroll Taxes Payable", "Income Tax Payable"}},
		{"Current Liabilities", "Deferred Revenue", []string{"Unearned Revenue", "Customer Deposits"}},
		{"Non-Current Liabilities", "Long-Term Debt", []string{"Bank Loans", "Mortgage Payable", "Bonds Payable"}},
	},
	model.AccountTypeEquity: {
		{"Owner's Equity", "Contributed Capital", []string{"Common Stock", "Additional Paid-In Capital", "Owner's Capital"}},
		{"Owner's Equity", "Retained Earnings", []string{"Retained Earnings", "Dividends", "Owner's Drawings"}},
	},
	model.AccountTypeRevenue: {
		{"Operating Revenue", "Sales Revenue", []string{"Sales", "Product Revenue", "Sales Returns and Allowances", "Sales Discounts"}},
		{"Operating Revenue", "Service Revenue", []string{"Service Revenue", "Consulting Revenue", "Subscription Revenue"}},
		{"Other Income", "Non-Operating Income", []string{"Interest Income", "Dividend Income", "Gain on Sale of Assets"}},
	},
	model.AccountTypeExpense: {
		{"Cost of Sales", "Cost of Goods Sold", []string{"Cost of Goods Sold", "Purchases", "Freight In"}},
		{"Operating Expenses", "Personnel", []string{"Salaries and Wages", "Payroll Taxes", "Employee Benefits"}},
		{"Operating Expenses", "Occupancy", []string{"Rent Expense", "Utilities", "Repairs and Maintenance"}},
		{"Operating Expenses", "General and Administrative", []string{"Office Supplies", "Insurance Expense", "Professional Fees", "Advertising and Marketing", "Software and Subscriptions", "Depreciation Expense"}},
		{"Other Expenses", "Financing Costs", []string{"Interest Expense", "Bank Fees"}},
		{"Other Expenses", "Taxes", []string{"Income Tax Expense"}},
	},
}

// Default returns the built-in chart of categories covering every real
// account type.
func Default() *Catalog {
	c := New()
	for _, at := range model.AllAccountTypes() {
		for _, b := range defaultChart[at] {
			for _, t := range b.tertiary {
				c.Add(model.Classification{AccountType: at, Primary: b.primary, Secondary: b.secondary, Tertiary: t})
			}
		}
	}
	return c
}
