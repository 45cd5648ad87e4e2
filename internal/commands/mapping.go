package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMapCommand(g *globalOptions) *cobra.Command {
	var accountType, primary, secondary, tertiary string
	var remove bool

	cmd := &cobra.Command{
		Use:   "map <account>",
		Short: "Remember a classification for an account name",
		Long: "Stores a classification that future runs apply before consulting the\n" +
			"catalog or the remote classifier. Use --delete to forget it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := g.load(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if remove {
				return runUnmap(p, args[0])
			}
			return runMap(p, args[0], []string{accountType, primary, secondary, tertiary})
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type (Asset, Liability, Equity, Revenue/Income, Cost/Expense)")
	cmd.Flags().StringVar(&primary, "primary", "", "primary classification")
	cmd.Flags().StringVar(&secondary, "secondary", "", "secondary classification")
	cmd.Flags().StringVar(&tertiary, "tertiary", "", "tertiary classification")
	cmd.Flags().BoolVar(&remove, "delete", false, "forget the stored mapping")
	cmd.MarkFlagsMutuallyExclusive("delete", "type")

	return cmd
}

func runMap(p *project, account string, levels []string) error {
	cl, err := parseClassification(levels)
	if err != nil {
		return err
	}

	c, err := p.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.PutMapping(account, cl); err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}
	fmt.Fprintf(p.out, "Mapped %q to %s\n", account, cl)
	return nil
}

func runUnmap(p *project, account string) error {
	c, err := p.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.DeleteMapping(account); err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}
	fmt.Fprintf(p.out, "Removed mapping for %q\n", account)
	return nil
}
