package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/internal/domain"
)

// CatalogIndex is a read-only, lazily loaded view over the catalog's synonyms and
// products. A successful load is kept for the life of the process; a failed load
// yields empty collections and is retried on the next call.
type CatalogIndex struct {
	reader domain.CatalogReader
	logger zerolog.Logger

	synMu       sync.RWMutex
	synLoaded   bool
	synonyms    map[string][]domain.SynonymEntry
	synonymKeys []string

	prodMu      sync.RWMutex
	prodLoaded  bool
	products    []domain.ProductRecord
	productByID map[string]domain.ProductRecord
}

// NewCatalogIndex creates an index over the given catalog reader
func NewCatalogIndex(reader domain.CatalogReader, logger zerolog.Logger) *CatalogIndex {
	return &CatalogIndex{
		reader: reader,
		logger: logger.With().Str("component", "catalog_index").Logger(),
	}
}

// Warm loads both collections and reports the first load error, if any
func (x *CatalogIndex) Warm(ctx context.Context) error {
	if err := x.loadSynonyms(ctx); err != nil {
		return err
	}
	return x.loadProducts(ctx)
}

// SynonymMap returns lowercased synonym phrases mapped to the products they name.
// The returned map is shared and must not be modified.
func (x *CatalogIndex) SynonymMap(ctx context.Context) map[string][]domain.SynonymEntry {
	if err := x.loadSynonyms(ctx); err != nil {
		return map[string][]domain.SynonymEntry{}
	}
	x.synMu.RLock()
	defer x.synMu.RUnlock()
	return x.synonyms
}

// SynonymKeys returns the synonym phrases in sorted order
func (x *CatalogIndex) SynonymKeys(ctx context.Context) []string {
	if err := x.loadSynonyms(ctx); err != nil {
		return nil
	}
	x.synMu.RLock()
	defer x.synMu.RUnlock()
	return x.synonymKeys
}

// Products returns every catalog product ordered as the store listed them.
// The returned slice is shared and must not be modified.
func (x *CatalogIndex) Products(ctx context.Context) []domain.ProductRecord {
	if err := x.loadProducts(ctx); err != nil {
		return nil
	}
	x.prodMu.RLock()
	defer x.prodMu.RUnlock()
	return x.products
}

// Product looks up a single product by id
func (x *CatalogIndex) Product(ctx context.Context, id string) (domain.ProductRecord, bool) {
	if err := x.loadProducts(ctx); err != nil {
		return domain.ProductRecord{}, false
	}
	x.prodMu.RLock()
	defer x.prodMu.RUnlock()
	p, ok := x.productByID[id]
	return p, ok
}

func (x *CatalogIndex) loadSynonyms(ctx context.Context) error {
	x.synMu.RLock()
	loaded := x.synLoaded
	x.synMu.RUnlock()
	if loaded {
		return nil
	}

	x.synMu.Lock()
	defer x.synMu.Unlock()
	if x.synLoaded {
		return nil
	}

	entries, err := x.reader.ListSynonyms(ctx)
	if err != nil {
		x.logger.Warn().Err(err).Msg("synonym listing failed, continuing without synonyms")
		return err
	}

	synonyms := make(map[string][]domain.SynonymEntry)
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Synonym))
		if key == "" || containsProduct(synonyms[key], e.ProductID) {
			continue
		}
		synonyms[key] = append(synonyms[key], e)
	}

	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	x.synonyms = synonyms
	x.synonymKeys = keys
	x.synLoaded = true
	x.logger.Debug().Int("synonyms", len(keys)).Msg("synonym map loaded")
	return nil
}

func (x *CatalogIndex) loadProducts(ctx context.Context) error {
	x.prodMu.RLock()
	loaded := x.prodLoaded
	x.prodMu.RUnlock()
	if loaded {
		return nil
	}

	x.prodMu.Lock()
	defer x.prodMu.Unlock()
	if x.prodLoaded {
		return nil
	}

	products, err := x.reader.ListProducts(ctx)
	if err != nil {
		x.logger.Warn().Err(err).Msg("product listing failed, continuing without products")
		return err
	}

	byID := make(map[string]domain.ProductRecord, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	x.products = products
	x.productByID = byID
	x.prodLoaded = true
	x.logger.Debug().Int("products", len(products)).Msg("product list loaded")
	return nil
}

func containsProduct(entries []domain.SynonymEntry, productID string) bool {
	for _, e := range entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}
