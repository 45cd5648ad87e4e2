package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/standardizer/internal/catalog"
)

func newCatalogCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the chart of categories",
	}
	cmd.AddCommand(newCatalogLoadCommand(g), newCatalogShowCommand(g))
	return cmd
}

func newCatalogLoadCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the project catalog with a CSV or XLSX chart of categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runCatalogLoad(p, args[0])
		},
	}
}

// runCatalogLoad validates the file before touching the project catalog, so
// a bad file leaves the previous catalog in place.
func runCatalogLoad(p *project, file string) error {
	cat, err := catalog.LoadFile(file)
	if err != nil {
		return err
	}

	if err := catalog.SaveFile(p.path(p.cfg.Catalog.Path), cat); err != nil {
		return err
	}

	c, err := p.openCache()
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.SaveCatalog(cat); err != nil {
		return fmt.Errorf("caching catalog: %w", err)
	}

	fmt.Fprintf(p.out, "Loaded %d categories across %d account types.\n", cat.Len(), len(cat.AccountTypes()))
	return nil
}

func newCatalogShowCommand(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active chart of categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return runCatalogShow(p, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the flat category list as JSON")
	return cmd
}

func runCatalogShow(p *project, asJSON bool) error {
	c, err := p.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	store, err := p.loadCatalog(c)
	if err != nil {
		return err
	}
	cat := store.Current()

	if asJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	fmt.Fprintln(p.out, renderCatalog(cat))
	return nil
}
