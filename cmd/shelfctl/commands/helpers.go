package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/config"
	"github.com/shelfassist/backend/internal/infrastructure/catalog"
	"github.com/shelfassist/backend/internal/observability"
	"github.com/shelfassist/backend/internal/usecase"
)

// environment is the configuration, logger and catalog a command runs against
type environment struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *catalog.Store
}

func (e *environment) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// openEnvironment loads configuration and opens the migrated catalog
func openEnvironment(ctx context.Context, opts *rootOptions) (*environment, error) {
	cfg, err := config.LoadFile(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "shelfctl",
	})

	store, err := catalog.Open(ctx, cfg.Catalog.Driver, cfg.Catalog.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}

	return &environment{cfg: cfg, logger: logger, store: store}, nil
}

// classifier builds the query router over the environment's catalog
func (e *environment) classifier() *usecase.QueryClassifier {
	debug := e.cfg.Classifier.DebugLogging
	index := usecase.NewCatalogIndex(e.store, e.logger)
	extractor := usecase.NewProductExtractor(index, e.logger, debug)
	return usecase.NewQueryClassifier(usecase.NewKeywordLexicon(), extractor, usecase.ClassifierConfig{
		ExtractLimit:       e.cfg.Classifier.ExtractLimit,
		ProductLimit:       e.cfg.Classifier.ProductLimit,
		EnableDebugLogging: debug,
	}, e.logger)
}

func joinArgs(args []string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("query text is required")
	}
	return text, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
