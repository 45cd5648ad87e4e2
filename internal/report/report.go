// Package report holds a classified trial balance and keeps its per-type
// totals consistent with its entries.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/standardizer/internal/model"
)

// Report is the result of one submission. Mutate entries only through its
// methods so totals are recomputed.
type Report struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	Source       string               `json:"source,omitempty"`
	Entries      []model.AccountEntry `json:"entries"`
	TotalsByType model.TotalsByType   `json:"totalsByType"`
}

// New builds a report and computes its totals. The entries slice is copied.
func New(source string, entries []model.AccountEntry) *Report {
	r := &Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
	}
	r.Replace(entries)
	return r
}

// Replace swaps in a new entry set and recomputes totals.
func (r *Report) Replace(entries []model.AccountEntry) {
	r.Entries = append([]model.AccountEntry(nil), entries...)
	r.Recompute()
}

// Recompute rebuilds totals from scratch.
func (r *Report) Recompute() {
	r.TotalsByType = Aggregate(r.Entries)
}

// Reclassify changes entry i's classification and recomputes totals.
func (r *Report) Reclassify(i int, c model.Classification) error {
	if i < 0 || i >= len(r.Entries) {
		return fmt.Errorf("entry %d out of range (have %d)", i, len(r.Entries))
	}
	r.Entries[i].Apply(c)
	r.Recompute()
	return nil
}

// Find returns the index of the first entry whose name matches account
// after normalisation, or -1.
func (r *Report) Find(account string) int {
	key := model.NormalizeName(account)
	for i, e := range r.Entries {
		if model.NormalizeName(e.Account) == key {
			return i
		}
	}
	return -1
}

// Totals returns the grand total across every account type.
func (r *Report) Totals() model.Totals {
	return GrandTotal(r.TotalsByType)
}
