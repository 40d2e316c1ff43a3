// Package catalog is the SQL-backed product catalog: products, synonyms and
// shelf locations, stored in sqlite or postgres.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/shelfassist/backend/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	unknownLocation = "Unknown"
)

// Store implements domain.CatalogRepository over database/sql
type Store struct {
	db     *sql.DB
	driver string
	logger zerolog.Logger
}

// Open connects to the catalog database and verifies the connection
func Open(ctx context.Context, driver, dsn string, logger zerolog.Logger) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: unsupported catalog driver %q", domain.ErrInvalidRequest, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCatalogUnavailable, driver, err)
	}
	if driver == DriverSQLite {
		// A single connection keeps in-memory databases shared across queries
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", domain.ErrCatalogUnavailable, driver, err)
	}

	return New(db, driver, logger), nil
}

// New wraps an existing database handle
func New(db *sql.DB, driver string, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		driver: driver,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into $n for postgres
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, op, err)
}

// ListSynonyms returns every synonym row joined with its product
func (s *Store) ListSynonyms(ctx context.Context) ([]domain.SynonymEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT ps.synonym, p.id, p.name, p.brand
		FROM product_synonyms ps
		JOIN products p ON p.id = ps.product_id
		ORDER BY ps.synonym, p.id
	`))
	if err != nil {
		return nil, unavailable("list synonyms", err)
	}
	defer rows.Close()

	var entries []domain.SynonymEntry
	for rows.Next() {
		var e domain.SynonymEntry
		if err := rows.Scan(&e.Synonym, &e.ProductID, &e.Name, &e.Brand); err != nil {
			return nil, unavailable("scan synonym", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list synonyms", err)
	}
	return entries, nil
}

// ListProducts returns every product ordered by id
func (s *Store) ListProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, name, brand, category
		FROM products
		ORDER BY id
	`))
	if err != nil {
		return nil, unavailable("list products", err)
	}
	defer rows.Close()

	var products []domain.ProductRecord
	for rows.Next() {
		var p domain.ProductRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category); err != nil {
			return nil, unavailable("scan product", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list products", err)
	}
	return products, nil
}

const locationColumns = `
	p.id, p.name, p.brand, p.category, il.aisle, il.bay, il.shelf
`

type locationRow struct {
	domain.ProductLocation
	extra string
}

func scanLocations(rows *sql.Rows, withExtra bool) ([]locationRow, error) {
	defer rows.Close()

	var out []locationRow
	for rows.Next() {
		var (
			r                 locationRow
			aisle, bay, shelf sql.NullString
		)
		dest := []interface{}{
			&r.ProductID, &r.ProductName, &r.Brand, &r.Category, &aisle, &bay, &shelf,
		}
		if withExtra {
			dest = append(dest, &r.extra)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.Aisle = orUnknown(aisle)
		r.Bay = orUnknown(bay)
		r.Shelf = orUnknown(shelf)
		out = append(out, r)
	}
	return out, rows.Err()
}

func orUnknown(v sql.NullString) string {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return unknownLocation
	}
	return v.String
}

// GetLocation returns where a single product is shelved
func (s *Store) GetLocation(ctx context.Context, productID string) (*domain.ProductLocation, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT`+locationColumns+`
		FROM products p
		LEFT JOIN inventory_locations il ON il.product_id = p.id
		WHERE p.id = ?
	`), productID)
	if err != nil {
		return nil, unavailable("get location", err)
	}

	found, err := scanLocations(rows, false)
	if err != nil {
		return nil, unavailable("get location", err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}

	loc := found[0].ProductLocation
	loc.Confidence = 1.0
	return &loc, nil
}

// Stats returns row counts for the catalog tables
func (s *Store) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	stats := &domain.CatalogStats{}
	counts := []struct {
		table string
		dest  *int
	}{
		{"products", &stats.Products},
		{"brands", &stats.Brands},
		{"categories", &stats.Categories},
		{"product_synonyms", &stats.Synonyms},
		{"inventory_locations", &stats.Locations},
	}

	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dest); err != nil {
			return nil, unavailable("count "+c.table, err)
		}
	}
	return stats, nil
}
