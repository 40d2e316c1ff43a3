package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shelfassist/backend/internal/domain"
)

type evaluationFile struct {
	Cases []domain.EvaluationCase `yaml:"cases"`
}

type confidenceSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func newEvaluateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <cases.yaml>",
		Short: "Measure routing accuracy against labelled queries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := loadEvaluationCases(args[0])
			if err != nil {
				return err
			}

			env, err := openEnvironment(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer env.Close()

			classifier := env.classifier()
			stats := classifier.Evaluate(cmd.Context(), cases)

			queries := make([]string, len(cases))
			for i, c := range cases {
				queries[i] = c.Query
			}
			dist := classifier.ConfidenceDistribution(cmd.Context(), queries)

			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"stats": stats,
				"confidence": map[domain.Route]confidenceSummary{
					domain.RouteLocation:    summarize(dist[domain.RouteLocation]),
					domain.RouteInformation: summarize(dist[domain.RouteInformation]),
				},
			})
		},
	}
}

func loadEvaluationCases(path string) ([]domain.EvaluationCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	var file evaluationFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse cases: %w", err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("%s contains no cases", path)
	}
	for i, c := range file.Cases {
		if c.Expected != domain.RouteLocation && c.Expected != domain.RouteInformation {
			return nil, fmt.Errorf("case %d: unknown route %q", i+1, c.Expected)
		}
	}
	return file.Cases, nil
}

func summarize(values []float64) confidenceSummary {
	summary := confidenceSummary{Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	summary.Min, summary.Max = values[0], values[0]
	var total float64
	for _, v := range values {
		total += v
		summary.Min = min(summary.Min, v)
		summary.Max = max(summary.Max, v)
	}
	summary.Mean = total / float64(len(values))
	return summary
}
