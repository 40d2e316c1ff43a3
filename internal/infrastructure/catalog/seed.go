package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shelfassist/backend/internal/domain"
)

// SeedProduct is one product entry of a seed file
type SeedProduct struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Brand    string       `yaml:"brand"`
	Category string       `yaml:"category"`
	Synonyms []string     `yaml:"synonyms"`
	Location SeedLocation `yaml:"location"`
}

// SeedLocation is the shelf position of a seeded product
type SeedLocation struct {
	Aisle string `yaml:"aisle"`
	Bay   string `yaml:"bay"`
	Shelf string `yaml:"shelf"`
}

// SeedData is the top-level shape of a catalog seed file
type SeedData struct {
	Products []SeedProduct `yaml:"products"`
}

// LoadSeedFile reads and validates a YAML seed file
func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes and validates YAML seed data
func ParseSeed(raw []byte) (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: parse seed: %v", domain.ErrInvalidRequest, err)
	}

	seen := make(map[string]bool, len(data.Products))
	for i, p := range data.Products {
		switch {
		case strings.TrimSpace(p.ID) == "":
			return nil, fmt.Errorf("%w: seed product %d has no id", domain.ErrInvalidRequest, i)
		case strings.TrimSpace(p.Name) == "":
			return nil, fmt.Errorf("%w: seed product %s has no name", domain.ErrInvalidRequest, p.ID)
		case seen[p.ID]:
			return nil, fmt.Errorf("%w: duplicate seed product %s", domain.ErrInvalidRequest, p.ID)
		}
		seen[p.ID] = true
	}
	return &data, nil
}

// Seed upserts the seed products, their synonyms and locations in one transaction
func (s *Store) Seed(ctx context.Context, data *SeedData) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin seed", err)
	}
	defer tx.Rollback()

	for _, p := range data.Products {
		if err := s.seedProduct(ctx, tx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit seed", err)
	}

	s.logger.Info().Int("products", len(data.Products)).Msg("Catalog seeded")
	return nil
}

type statement struct {
	query string
	args  []interface{}
}

func (s *Store) seedProduct(ctx context.Context, tx *sql.Tx, p SeedProduct) error {
	brand := defaultString(p.Brand, "Unbranded")
	category := defaultString(p.Category, "Uncategorized")

	stmts := []statement{
		{`INSERT INTO brands (name) VALUES (?) ON CONFLICT DO NOTHING`, []interface{}{brand}},
		{`INSERT INTO categories (name) VALUES (?) ON CONFLICT DO NOTHING`, []interface{}{category}},
		{`INSERT INTO products (id, name, brand, category) VALUES (?, ?, ?, ?)
		  ON CONFLICT (id) DO UPDATE SET name = excluded.name, brand = excluded.brand, category = excluded.category`,
			[]interface{}{p.ID, p.Name, brand, category}},
		{`DELETE FROM product_synonyms WHERE product_id = ?`, []interface{}{p.ID}},
	}

	for _, syn := range p.Synonyms {
		syn = strings.ToLower(strings.TrimSpace(syn))
		if syn == "" {
			continue
		}
		stmts = append(stmts, statement{`INSERT INTO product_synonyms (product_id, synonym) VALUES (?, ?) ON CONFLICT DO NOTHING`, []interface{}{p.ID, syn}})
	}

	if p.Location != (SeedLocation{}) {
		stmts = append(stmts, statement{`INSERT INTO inventory_locations (product_id, aisle, bay, shelf) VALUES (?, ?, ?, ?)
		   ON CONFLICT (product_id) DO UPDATE SET aisle = excluded.aisle, bay = excluded.bay, shelf = excluded.shelf`,
			[]interface{}{p.ID, p.Location.Aisle, p.Location.Bay, p.Location.Shelf}})
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, s.rebind(stmt.query), stmt.args...); err != nil {
			return err
		}
	}
	return nil
}

func defaultString(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}
