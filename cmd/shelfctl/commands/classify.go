package commands

import (
	"github.com/spf13/cobra"

	"github.com/shelfassist/backend/internal/usecase"
)

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <query>",
		Short: "Route a query to location or information intent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := joinArgs(args)
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			return printJSON(cmd.OutOrStdout(), env.classifier().Classify(cmd.Context(), text))
		},
	}
}

func newExtractCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <query>",
		Short: "List the catalog products a query refers to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := joinArgs(args)
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			product, candidates := env.classifier().ExtractProduct(cmd.Context(), text)
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"normalizedProduct": product,
				"candidates":        candidates,
			})
		},
	}
}

// explain needs only the keyword tables, so it never touches the catalog
func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <query>",
		Short: "Show the keyword evidence behind a routing decision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := joinArgs(args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), usecase.NewKeywordLexicon().Explain(text))
		},
	}
}
