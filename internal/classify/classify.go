// Package classify assigns a four-level classification to account names.
// Classification never fails: anything that cannot be resolved becomes
// Uncategorized and the reason is logged.
package classify

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
)

// DefaultConcurrency caps outstanding classifications in ClassifyAll.
const DefaultConcurrency = 8

var discard = log.New(io.Discard)

// MappingSource returns user-confirmed classifications.
type MappingSource interface {
	Mapping(account string) (model.Classification, bool)
}

// Resolver classifies one name against a catalog. *Remote implements it.
type Resolver interface {
	Classify(ctx context.Context, name string, cat *catalog.Catalog) (model.Classification, int, error)
}

// Classifier resolves names in order: learned mapping, catalog lookup, then
// the remote resolver when one is configured or the keyword heuristic when
// not.
type Classifier struct {
	catalogs    *catalog.Store
	mappings    MappingSource
	resolver    Resolver
	concurrency int
	logger      *log.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMappings consults learned mappings before the catalog.
func WithMappings(m MappingSource) Option {
	return func(c *Classifier) { c.mappings = m }
}

// WithResolver sets the remote resolver. A nil resolver selects the keyword
// heuristic.
func WithResolver(r Resolver) Option {
	return func(c *Classifier) { c.resolver = r }
}

// WithConcurrency bounds ClassifyAll's fan-out. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the logger for absorbed failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Classifier reading catalogs from store, which may be nil.
func New(store *catalog.Store, opts ...Option) *Classifier {
	if store == nil {
		store = catalog.NewStore(nil)
	}
	c := &Classifier{
		catalogs:    store,
		concurrency: DefaultConcurrency,
		logger:      discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves one account name.
func (c *Classifier) Classify(ctx context.Context, name string) model.ClassificationResult {
	if strings.TrimSpace(name) == "" {
		return model.UncategorizedResult("empty account name", 0)
	}
	if model.IsSummaryName(name) {
		return model.UncategorizedResult("summary row", 0)
	}

	if c.mappings != nil {
		if cl, ok := c.mappings.Mapping(name); ok {
			return model.LocalResult(cl)
		}
	}

	cat := c.catalogs.Current()
	if cl, ok := cat.Lookup(name); ok {
		return model.LocalResult(cl)
	}

	if c.resolver == nil {
		if cl, ok := Heuristic(name, cat); ok {
			return model.LocalResult(cl)
		}
		return model.UncategorizedResult("no keyword match", 0)
	}

	cl, attempts, err := c.resolver.Classify(ctx, name, cat)
	if err != nil {
		c.logger.Warn("classification failed", "account", name, "attempts", attempts, "error", err)
		return model.UncategorizedResult(err.Error(), attempts)
	}
	return model.RemoteResult(cl, attempts)
}

// ClassifyAll classifies names concurrently, at most the configured number
// at a time. Result i belongs to names[i] regardless of completion order.
func (c *Classifier) ClassifyAll(ctx context.Context, names []string) []model.ClassificationResult {
	results := make([]model.ClassificationResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			results[i] = c.Classify(gctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Apply classifies every entry in place and returns the per-entry results.
func (c *Classifier) Apply(ctx context.Context, entries []model.AccountEntry) []model.ClassificationResult {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Account
	}
	results := c.ClassifyAll(ctx, names)
	for i := range entries {
		entries[i].Apply(results[i].Classification)
	}
	return results
}
