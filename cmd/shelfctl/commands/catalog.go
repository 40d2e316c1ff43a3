package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfassist/backend/internal/infrastructure/catalog"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <seed.yaml>",
		Short: "Load products, synonyms and shelf locations into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := catalog.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.store.Seed(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", len(data.Products))
			return nil
		},
	}
}

func newStatsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalog row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			stats, err := env.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
