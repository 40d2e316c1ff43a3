package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shelfassist/backend/internal/domain"
	"github.com/shelfassist/backend/internal/observability"
)

// fakeCatalog is an in-memory catalog store for tests
type fakeCatalog struct {
	mu           sync.Mutex
	products     []domain.ProductRecord
	synonyms     []domain.SynonymEntry
	locations    map[string]domain.ProductLocation
	err          error
	synonymCalls int
	productCalls int
}

func (f *fakeCatalog) ListSynonyms(ctx context.Context) ([]domain.SynonymEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synonymCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.synonyms, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]domain.ProductRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) GetLocation(ctx context.Context, productID string) (*domain.ProductLocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	loc, ok := f.locations[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &loc, nil
}

func (f *fakeCatalog) FindLocations(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ProductLocation
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(query), strings.ToLower(p.Category)) {
			if loc, ok := f.locations[p.ID]; ok {
				loc.Confidence = 0.5
				out = append(out, loc)
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCatalog) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CatalogStats{Products: len(f.products), Synonyms: len(f.synonyms), Locations: len(f.locations)}, nil
}

func (f *fakeCatalog) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synonymCalls, f.productCalls
}

func product(id, name, brand, category string) domain.ProductRecord {
	return domain.ProductRecord{ID: id, Name: name, Brand: brand, Category: category}
}

func synonym(phrase string, p domain.ProductRecord) domain.SynonymEntry {
	return domain.SynonymEntry{Synonym: phrase, ProductID: p.ID, Name: p.Name, Brand: p.Brand}
}

var (
	wholeMilk    = product("P001", "Whole Milk", "Dairy Farms", "Dairy")
	skimMilk     = product("P002", "Skim Milk", "Dairy Farms", "Dairy")
	cocaCola     = product("P003", "Coca-Cola Classic", "Coca-Cola", "Beverages")
	wheatBread   = product("P004", "Whole Wheat Bread", "Baker's Best", "Bakery")
	bananas      = product("P005", "Organic Bananas - Bundle", "Fresh Farms", "Produce")
	cheddar      = product("P006", "Cheddar Cheese", "Dairy Farms", "Dairy")
	groceryItems = []domain.ProductRecord{wholeMilk, skimMilk, cocaCola, wheatBread, bananas, cheddar}
)

// newGroceryCatalog returns a small store catalog with synonyms and locations
func newGroceryCatalog() *fakeCatalog {
	locations := make(map[string]domain.ProductLocation)
	for i, p := range groceryItems {
		locations[p.ID] = domain.ProductLocation{
			ProductID:   p.ID,
			ProductName: p.Name,
			Brand:       p.Brand,
			Category:    p.Category,
			Aisle:       string(rune('1' + i)),
			Bay:         "B",
			Shelf:       "2",
			Confidence:  1.0,
		}
	}

	return &fakeCatalog{
		products: groceryItems,
		synonyms: []domain.SynonymEntry{
			synonym("coke", cocaCola),
			synonym("coca cola", cocaCola),
			synonym("soda", cocaCola),
			synonym("whole milk", wholeMilk),
			synonym("skim milk", skimMilk),
			synonym("nonfat milk", skimMilk),
			synonym("bread", wheatBread),
			synonym("bananas", bananas),
			synonym("cheese", cheddar),
		},
		locations: locations,
	}
}

func newTestClassifier(catalog domain.CatalogReader) *QueryClassifier {
	logger := observability.Nop()
	index := NewCatalogIndex(catalog, logger)
	extractor := NewProductExtractor(index, logger, false)
	return NewQueryClassifier(NewKeywordLexicon(), extractor, ClassifierConfig{}, logger)
}

// fakeGenerator is a scripted answer generator
type fakeGenerator struct {
	mu        sync.Mutex
	answer    *domain.InfoAnswer
	err       error
	available bool
	requests  []domain.AnswerRequest
}

func (g *fakeGenerator) GenerateAnswer(ctx context.Context, req domain.AnswerRequest) (*domain.InfoAnswer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	answer := *g.answer
	answer.NormalizedProduct = req.Product
	answer.QuestionType = req.QuestionType
	return &answer, nil
}

func (g *fakeGenerator) Available(ctx context.Context) bool {
	return g.available
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// mapCache is a minimal CacheRepository for service tests
type mapCache struct {
	mu   sync.Mutex
	data map[string]interface{}
	ttls map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string]interface{}{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}
