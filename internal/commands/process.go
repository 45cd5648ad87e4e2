package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/standardizer/internal/classlog"
	"github.com/cleared-dev/standardizer/internal/exporter"
	"github.com/cleared-dev/standardizer/internal/importer"
	"github.com/cleared-dev/standardizer/internal/model"
	"github.com/cleared-dev/standardizer/internal/pipeline"
	"github.com/cleared-dev/standardizer/internal/tabular"
)

type processOptions struct {
	format   string
	noHeader bool
	sets     []string
	export   string
	sheet    string
	asJSON   bool
}

func newProcessCommand(g *globalOptions) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process <file|->",
		Short: "Classify a trial balance and print its totals",
		Long: "Reads a workbook or delimited file (or pasted text on stdin with \"-\"),\n" +
			"locates the debit/credit table, classifies every account and prints\n" +
			"totals by account type.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runProcess(cmd.Context(), p, cmd.InOrStdin(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "input format (xlsx, xls, csv, tsv, txt); detected from the extension when empty")
	cmd.Flags().BoolVar(&opts.noHeader, "no-header", false, "input has no header row: columns are account, debit, credit")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, `reclassify an account and remember it: "Account=Type|Primary|Secondary|Tertiary"`)
	cmd.Flags().StringVar(&opts.export, "export", "", "write the classified entries to this .xlsx file")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet name for --export (default from config, else the export file name)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	return cmd
}

func runProcess(ctx context.Context, p *project, stdin io.Reader, source string, opts *processOptions) error {
	overrides, err := parseOverrides(opts.sets)
	if err != nil {
		return err
	}

	grid, err := readSource(stdin, source, opts.format)
	if err != nil {
		return err
	}

	s, err := p.openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.run(ctx, source, grid, opts.noHeader)
	if err != nil {
		return err
	}

	for _, o := range overrides {
		if err := res.Reclassify(o.account, o.classification); err != nil {
			return err
		}
		if err := s.cache.PutMapping(o.account, o.classification); err != nil {
			return fmt.Errorf("saving mapping: %w", err)
		}
		p.logger.Info("reclassified", "account", o.account, "classification", o.classification.String())
	}

	if err := s.record(res); err != nil {
		return err
	}

	if opts.export != "" {
		sheet := opts.sheet
		if sheet == "" {
			sheet = p.cfg.Export.SheetName
		}
		if err := exporter.WriteFile(opts.export, sheet, res.Report.Entries); err != nil {
			return err
		}
		p.logger.Info("exported", "path", opts.export, "entries", len(res.Report.Entries))
	}

	if opts.asJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}
	fmt.Fprintln(p.out, renderEntries(res.Report.Entries))
	fmt.Fprintln(p.out, renderTotals(res.Report.TotalsByType))
	return nil
}

func readSource(stdin io.Reader, source, format string) (tabular.Grid, error) {
	reg := importer.DefaultRegistry()
	if source != "-" {
		return reg.ReadFile(source, format)
	}
	if format != "" {
		rd := reg.Get(format)
		if rd == nil {
			return nil, fmt.Errorf("%w %q: expected one of %s", importer.ErrUnsupportedFormat, format, strings.Join(reg.Formats(), ", "))
		}
		return rd.Read(stdin)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return importer.ReadPaste(string(data))
}

func (s *session) run(ctx context.Context, source string, grid tabular.Grid, positional bool) (*pipeline.Result, error) {
	s.pipeline.Positional = positional
	res, err := s.pipeline.Run(ctx, source, grid)
	if err != nil {
		return nil, err
	}
	for _, v := range res.Report.Validate() {
		s.logger.Warn(v.Error())
	}
	return res, nil
}

// record appends every classification outcome to the classification log.
func (s *session) record(res *pipeline.Result) error {
	entries := classlog.FromResults(now(), res.Report.ID, res.Report.Entries, res.Outcomes)
	if err := classlog.Append(s.root, entries); err != nil {
		return fmt.Errorf("writing classification log: %w", err)
	}
	return nil
}

type override struct {
	account        string
	classification model.Classification
}

// parseOverrides reads --set values of the form
// "Account=Type|Primary|Secondary|Tertiary".
func parseOverrides(values []string) ([]override, error) {
	var out []override
	for _, v := range values {
		account, tuple, ok := strings.Cut(v, "=")
		account = strings.TrimSpace(account)
		if !ok || account == "" {
			return nil, fmt.Errorf("--set %q: expected Account=Type|Primary|Secondary|Tertiary", v)
		}
		c, err := parseClassification(strings.Split(tuple, "|"))
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", v, err)
		}
		out = append(out, override{account: account, classification: c})
	}
	return out, nil
}

func parseClassification(parts []string) (model.Classification, error) {
	if len(parts) != 4 {
		return model.Classification{}, fmt.Errorf("expected 4 levels, got %d", len(parts))
	}
	at, ok := model.ParseAccountType(parts[0])
	if !ok {
		return model.Classification{}, fmt.Errorf("unknown account type %q", parts[0])
	}
	c := model.Classification{
		AccountType: at,
		Primary:     strings.TrimSpace(parts[1]),
		Secondary:   strings.TrimSpace(parts[2]),
		Tertiary:    strings.TrimSpace(parts[3]),
	}
	if !c.Complete() {
		return model.Classification{}, fmt.Errorf("every level is required")
	}
	return c, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
