package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/config"
)

func newInitCommand() *cobra.Command {
	var endpoint string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new standardizer project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, endpoint, force)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "remote classification endpoint (empty uses the keyword classifier)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir, endpoint string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if fileExists(cfgPath) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	dirs := []string{
		"catalog",
		"logs",
		exportDir,
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Classifier.Endpoint = endpoint
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := catalog.SaveFile(config.Resolve(dir, cfg.Catalog.Path), catalog.Default()); err != nil {
		return fmt.Errorf("writing default catalog: %w", err)
	}

	gitignore := "exports/\n.standardizer-cache/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized standardizer project at %s\n", dir)
	return nil
}
