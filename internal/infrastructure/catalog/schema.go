package catalog

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS brands (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		brand    TEXT NOT NULL REFERENCES brands(name),
		category TEXT NOT NULL REFERENCES categories(name)
	)`,
	`CREATE TABLE IF NOT EXISTS product_synonyms (
		product_id TEXT NOT NULL REFERENCES products(id),
		synonym    TEXT NOT NULL,
		PRIMARY KEY (product_id, synonym)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_locations (
		product_id TEXT PRIMARY KEY REFERENCES products(id),
		aisle      TEXT,
		bay        TEXT,
		shelf      TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name)`,
	`CREATE INDEX IF NOT EXISTS idx_product_synonyms_synonym ON product_synonyms (synonym)`,
}

// Migrate creates the catalog tables when they do not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate catalog: %w", err)
		}
	}
	s.logger.Info().Str("driver", s.driver).Msg("Catalog schema ready")
	return nil
}
