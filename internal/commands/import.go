package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/standardizer/internal/exporter"
	"github.com/cleared-dev/standardizer/internal/importer"
)

const exportDir = "exports"

func newImportCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Process every trial balance waiting in import/",
		Long: "Classifies each supported file in import/, writes the result to\n" +
			"exports/<name>.xlsx and moves the source to import/processed/.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), p)
		},
	}
}

func runImport(ctx context.Context, p *project) error {
	reg := importer.DefaultRegistry()
	files, err := reg.Scan(p.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(p.out, "No files to import.")
		return nil
	}

	s, err := p.openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var failed []string
	for _, f := range files {
		if err := s.importFile(ctx, reg, f); err != nil {
			p.logger.Error("import failed", "file", f.Name, "error", err)
			failed = append(failed, f.Name)
			continue
		}
	}

	fmt.Fprintf(p.out, "Imported %d of %d file(s).\n", len(files)-len(failed), len(files))
	if len(failed) > 0 {
		return fmt.Errorf("failed to import: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (s *session) importFile(ctx context.Context, reg *importer.Registry, f importer.FileInfo) error {
	grid, err := reg.ReadFile(f.Path, f.Format)
	if err != nil {
		return err
	}
	res, err := s.run(ctx, f.Name, grid, false)
	if err != nil {
		return err
	}
	if err := s.record(res); err != nil {
		return err
	}

	base := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
	out := filepath.Join(s.root, exportDir, base+".xlsx")
	if err := exporter.WriteFile(out, s.cfg.Export.SheetName, res.Report.Entries); err != nil {
		return err
	}
	if err := importer.MarkProcessed(s.root, f.Name); err != nil {
		return err
	}

	s.logger.Info("imported", "file", f.Name, "entries", len(res.Report.Entries), "export", out)
	fmt.Fprintf(s.out, "%s -> %s\n", f.Name, filepath.Join(exportDir, base+".xlsx"))
	return nil
}
