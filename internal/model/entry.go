package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Classification is the four-level label assigned to an account.
type Classification struct {
	AccountType AccountType `json:"accountType"`
	Primary     string      `json:"primary"`
	Secondary   string      `json:"secondary"`
	Tertiary    string      `json:"tertiary"`
}

// UncategorizedClassification returns the safe default tuple.
func UncategorizedClassification() Classification {
	return Classification{
		AccountType: AccountTypeUncategorized,
		Primary:     Uncategorized,
		Secondary:   Uncategorized,
		Tertiary:    Uncategorized,
	}
}

// Complete reports whether every level is filled and the type is enumerated.
func (c Classification) Complete() bool {
	return c.AccountType.Valid() &&
		strings.TrimSpace(c.Primary) != "" &&
		strings.TrimSpace(c.Secondary) != "" &&
		strings.TrimSpace(c.Tertiary) != ""
}

// String renders "Type / Primary / Secondary / Tertiary".
func (c Classification) String() string {
	return strings.Join([]string{string(c.AccountType), c.Primary, c.Secondary, c.Tertiary}, " / ")
}

// ClassificationKind records how a classification was resolved.
type ClassificationKind string

const (
	KindLocal         ClassificationKind = "local"
	KindRemote        ClassificationKind = "remote"
	KindUncategorized ClassificationKind = "uncategorized"
)

// ClassificationResult is the outcome of classifying one account name. The
// tuple is always complete: constructors fill every level.
type ClassificationResult struct {
	Kind           ClassificationKind
	Classification Classification
	Attempts       int    // remote attempts made, 0 when resolved locally
	Reason         string // diagnostic note for uncategorized outcomes
}

// LocalResult wraps a locally resolved classification.
func LocalResult(c Classification) ClassificationResult {
	return ClassificationResult{Kind: KindLocal, Classification: fill(c)}
}

// RemoteResult wraps a classification returned by the remote service.
func RemoteResult(c Classification, attempts int) ClassificationResult {
	return ClassificationResult{Kind: KindRemote, Classification: fill(c), Attempts: attempts}
}

// UncategorizedResult is the terminal fallback.
func UncategorizedResult(reason string, attempts int) ClassificationResult {
	return ClassificationResult{
		Kind:           KindUncategorized,
		Classification: UncategorizedClassification(),
		Attempts:       attempts,
		Reason:         reason,
	}
}

func fill(c Classification) Classification {
	c.AccountType = c.AccountType.Normalize()
	if strings.TrimSpace(c.Primary) == "" {
		c.Primary = Uncategorized
	}
	if strings.TrimSpace(c.Secondary) == "" {
		c.Secondary = Uncategorized
	}
	if strings.TrimSpace(c.Tertiary) == "" {
		c.Tertiary = Uncategorized
	}
	return c
}

// AccountEntry is one trial-balance line. Debit and Credit are never negative.
type AccountEntry struct {
	Account                 string          `json:"account"`
	Debit                   decimal.Decimal `json:"debit"`
	Credit                  decimal.Decimal `json:"credit"`
	AccountType             AccountType     `json:"accountType"`
	PrimaryClassification   string          `json:"primaryClassification"`
	SecondaryClassification string          `json:"secondaryClassification"`
	TertiaryClassification  string          `json:"tertiaryClassification"`
}

// NewEntry returns an unclassified entry.
func NewEntry(account string, debit, credit decimal.Decimal) AccountEntry {
	e := AccountEntry{Account: account, Debit: debit, Credit: credit}
	e.Apply(UncategorizedClassification())
	return e
}

// Apply copies a classification tuple onto the entry.
func (e *AccountEntry) Apply(c Classification) {
	c = fill(c)
	e.AccountType = c.AccountType
	e.PrimaryClassification = c.Primary
	e.SecondaryClassification = c.Secondary
	e.TertiaryClassification = c.Tertiary
}

// Classification returns the entry's current tuple.
func (e AccountEntry) Classification() Classification {
	return Classification{
		AccountType: e.AccountType,
		Primary:     e.PrimaryClassification,
		Secondary:   e.SecondaryClassification,
		Tertiary:    e.TertiaryClassification,
	}
}

var summaryMarkers = []string{
	"total", // also matches "subtotal"
	"classification",
	"balance sheet",
	"income statement",
}

// IsSummaryName reports whether an account name labels a total, subtotal or
// section heading rather than a real account. Extraction, aggregation,
// classification and export all use this one predicate.
func IsSummaryName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, m := range summaryMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
