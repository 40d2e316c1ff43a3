// Package commands implements the shelfctl command line: offline routing,
// extraction and evaluation against a local catalog database.
package commands

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCommand builds the shelfctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "shelfctl",
		Short: "ShelfAssist catalog and query routing tool",
		Long: `shelfctl manages the product catalog and runs the query router offline:
seed the catalog from YAML, classify or explain shopper queries, and
measure routing accuracy against labelled cases.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newClassifyCommand(opts),
		newExtractCommand(opts),
		newExplainCommand(),
		newEvaluateCommand(opts),
		newSeedCommand(opts),
		newStatsCommand(opts),
	)
	return cmd
}
