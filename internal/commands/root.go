package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/standardizer/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "standardizer",
		Short:   "Standardize and classify trial balances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repo, "repo", ".", "project directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <repo>/standardizer.yaml)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "remote classification endpoint, overrides the config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newProcessCommand(opts),
		newImportCommand(opts),
		newCatalogCommand(opts),
		newMapCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}
