// Package pipeline runs a raw grid through header location, entry
// extraction, classification and aggregation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/standardizer/internal/classify"
	"github.com/cleared-dev/standardizer/internal/model"
	"github.com/cleared-dev/standardizer/internal/report"
	"github.com/cleared-dev/standardizer/internal/tabular"
)

// Pipeline holds the per-stage settings. The zero value is not usable; build
// one with New.
type Pipeline struct {
	Extractor tabular.Extractor
	// ScanRows bounds the header search.
	ScanRows int
	// Positional skips header location and reads name, debit and credit
	// from the first three columns.
	Positional bool

	classifier *classify.Classifier
	logger     *log.Logger
}

// Result is a finished report plus how each entry was classified.
type Result struct {
	Report   *report.Report
	Outcomes []model.ClassificationResult
	Location tabular.Location
}

// New returns a pipeline with default extraction settings.
func New(c *classify.Classifier, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{
		Extractor:  tabular.DefaultExtractor(),
		ScanRows:   tabular.DefaultScanRows,
		classifier: c,
		logger:     logger,
	}
}

// Locate finds the table in grid, or returns the positional layout.
func (p *Pipeline) Locate(grid tabular.Grid) (tabular.Location, error) {
	if p.Positional {
		return tabular.PositionalLocation(), nil
	}
	return tabular.LocateHeaderWithin(grid, p.ScanRows)
}

// Run processes one submission. Structural and amount errors abort the run;
// classification failures only degrade entries to Uncategorized.
func (p *Pipeline) Run(ctx context.Context, source string, grid tabular.Grid) (*Result, error) {
	loc, err := p.Locate(grid)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("located table", "source", source, "header_row", loc.HeaderIndex+1,
		"name_col", loc.NameCol, "debit_col", loc.DebitCol, "credit_col", loc.CreditCol)

	entries, err := p.Extractor.Extract(grid, loc)
	if err != nil {
		return nil, err
	}
	p.logger.Info("extracted entries", "source", source, "count", len(entries))

	start := time.Now()
	outcomes := p.classifier.Apply(ctx, entries)
	p.logger.Info("classified entries", "source", source, "elapsed", time.Since(start).Round(time.Millisecond), "uncategorized", countKind(outcomes, model.KindUncategorized))

	return &Result{
		Report:   report.New(source, entries),
		Outcomes: outcomes,
		Location: loc,
	}, nil
}

// Reclassify applies a user override to the named account and recomputes
// totals.
func (r *Result) Reclassify(account string, c model.Classification) error {
	i := r.Report.Find(account)
	if i < 0 {
		return fmt.Errorf("account %q not found in report", account)
	}
	if err := r.Report.Reclassify(i, c); err != nil {
		return err
	}
	r.Outcomes[i] = model.LocalResult(c)
	return nil
}

func countKind(results []model.ClassificationResult, kind model.ClassificationKind) int {
	n := 0
	for _, r := range results {
		if r.Kind == kind {
			n++
		}
	}
	return n
}
