// Package catalog holds the chart-of-accounts category tree used to classify
// trial-balance entries: AccountType -> Primary -> Secondary -> Tertiary.
package catalog

import (
	"encoding/json"
	"strings"

	"github.com/cleared-dev/standardizer/internal/model"
)

// Node is one level of the category tree. Names are unique among siblings.
type Node struct {
	Name     string  `json:"name"`
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) child(name string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, false
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c, true
}

func (n *Node) find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) names() []string {
	if n == nil {
		return nil
	}
	out := make([]string, len(n.Children))
	for i, c := range n.Children {
		out[i] = c.Name
	}
	return out
}

// Catalog is the category tree plus the indexes used for deterministic
// name lookups. A Catalog is not safe for concurrent mutation; share it
// read-only once built (see Store).
type Catalog struct {
	root        Node
	entries     []model.Classification
	byTertiary  map[string][]model.Classification
	bySecondary map[string][]model.Classification
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		byTertiary:  make(map[string][]model.Classification),
		bySecondary: make(map[string][]model.Classification),
	}
}

// FromEntries builds a catalog from flat classification tuples.
func FromEntries(entries []model.Classification) *Catalog {
	c := New()
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add inserts a tuple. Blank levels become "Uncategorized"; duplicates are
// ignored.
func (c *Catalog) Add(cl model.Classification) {
	cl = clean(cl)

	typeNode, _ := c.root.child(string(cl.AccountType))
	primary, _ := typeNode.child(cl.Primary)
	secondary, newSecondary := primary.child(cl.Secondary)
	if _, added := secondary.child(cl.Tertiary); !added {
		return
	}

	c.entries = append(c.entries, cl)
	if cl.Tertiary != model.Uncategorized {
		key := model.NormalizeName(cl.Tertiary)
		c.byTertiary[key] = append(c.byTertiary[key], cl)
	}
	if newSecondary && cl.Secondary != model.Uncategorized {
		key := model.NormalizeName(cl.Secondary)
		c.bySecondary[key] = append(c.bySecondary[key], cl)
	}
}

func clean(cl model.Classification) model.Classification {
	cl.AccountType = cl.AccountType.Normalize()
	cl.Primary = orUncategorized(cl.Primary)
	cl.Secondary = orUncategorized(cl.Secondary)
	cl.Tertiary = orUncategorized(cl.Tertiary)
	return cl
}

func orUncategorized(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Uncategorized
	}
	return s
}

// Len returns the number of distinct tuples.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns every tuple in insertion order.
func (c *Catalog) Entries() []model.Classification {
	if c == nil {
		return nil
	}
	out := make([]model.Classification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Tree returns the top-level nodes, one per account type present.
func (c *Catalog) Tree() []*Node {
	if c == nil {
		return nil
	}
	return c.root.Children
}

// AccountTypes lists the account types present, in insertion order.
func (c *Catalog) AccountTypes() []model.AccountType {
	if c == nil {
		return nil
	}
	out := make([]model.AccountType, 0, len(c.root.Children))
	for _, n := range c.root.Children {
		out = append(out, model.AccountType(n.Name))
	}
	return out
}

// Primaries lists the primary classifications under an account type.
func (c *Catalog) Primaries(at model.AccountType) []string {
	if c == nil {
		return nil
	}
	return c.root.find(string(at)).names()
}

// Secondaries lists the secondary classifications under a primary.
func (c *Catalog) Secondaries(at model.AccountType, primary string) []string {
	if c == nil {
		return nil
	}
	return c.root.find(string(at)).find(primary).names()
}

// Tertiaries lists the tertiary classifications under a secondary.
func (c *Catalog) Tertiaries(at model.AccountType, primary, secondary string) []string {
	if c == nil {
		return nil
	}
	return c.root.find(string(at)).find(primary).find(secondary).names()
}

// Contains reports whether the exact tuple is in the catalog.
func (c *Catalog) Contains(cl model.Classification) bool {
	if c == nil {
		return false
	}
	return c.root.find(string(cl.AccountType)).find(cl.Primary).find(cl.Secondary).find(cl.Tertiary) != nil
}

// FirstPath returns the first tuple filed under an account type.
func (c *Catalog) FirstPath(at model.AccountType) (model.Classification, bool) {
	if c == nil {
		return model.Classification{}, false
	}
	for _, e := range c.entries {
		if e.AccountType == at {
			return e, true
		}
	}
	return model.Classification{}, false
}

// Lookup resolves an account name deterministically: the name must equal
// exactly one tertiary label or, failing that, exactly one secondary label.
// Ambiguous names do not resolve.
func (c *Catalog) Lookup(name string) (model.Classification, bool) {
	if c == nil {
		return model.Classification{}, false
	}
	key := model.NormalizeName(name)
	if key == "" {
		return model.Classification{}, false
	}
	if m := c.byTertiary[key]; len(m) == 1 {
		return m[0], true
	}
	if m := c.bySecondary[key]; len(m) == 1 && len(c.byTertiary[key]) == 0 {
		return m[0], true
	}
	return model.Classification{}, false
}

// MarshalJSON encodes the catalog as its flat tuple list.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	entries := c.Entries()
	if entries == nil {
		entries = []model.Classification{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON rebuilds the tree and indexes from a tuple list.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var entries []model.Classification
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*c = *FromEntries(entries)
	return nil
}
