package commands

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
	"github.com/cleared-dev/standardizer/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
)

func newTable(amountCols ...int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			for _, c := range amountCols {
				if c == col {
					return amountStyle
				}
			}
			return cellStyle
		})
}

func renderEntries(entries []model.AccountEntry) string {
	t := newTable(1, 2).Headers("Account", "Debit", "Credit", "Account Type", "Primary", "Secondary", "Tertiary")
	for _, e := range entries {
		t.Row(
			e.Account,
			e.Debit.StringFixed(2),
			e.Credit.StringFixed(2),
			string(e.AccountType),
			e.PrimaryClassification,
			e.SecondaryClassification,
			e.TertiaryClassification,
		)
	}
	return t.String()
}

func renderTotals(totals model.TotalsByType) string {
	t := newTable(1, 2, 3).Headers("Account Type", "Debit", "Credit", "Net")
	for _, at := range model.AllAccountTypes() {
		b := totals[at]
		t.Row(string(at), b.Debit.StringFixed(2), b.Credit.StringFixed(2), b.Net().StringFixed(2))
	}
	sum := report.GrandTotal(totals)
	t.Row("Total", sum.Debit.StringFixed(2), sum.Credit.StringFixed(2), sum.Net().StringFixed(2))
	return t.String()
}

func renderCatalog(c *catalog.Catalog) string {
	root := tree.New().Root("Catalog")
	for _, typeNode := range c.Tree() {
		root.Child(subtree(typeNode))
	}
	return root.String()
}

func subtree(n *catalog.Node) any {
	if len(n.Children) == 0 {
		return n.Name
	}
	t := tree.New().Root(n.Name)
	for _, c := range n.Children {
		t.Child(subtree(c))
	}
	return t
}
