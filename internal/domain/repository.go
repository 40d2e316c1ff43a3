package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogReader supplies the bulk listings the product index is built from
type CatalogReader interface {
	ListSynonyms(ctx context.Context) ([]SynonymEntry, error)
	ListProducts(ctx context.Context) ([]ProductRecord, error)
}

// CatalogRepository is the full catalog store used by the query service
type CatalogRepository interface {
	CatalogReader
	GetLocation(ctx context.Context, productID string) (*ProductLocation, error)
	FindLocations(ctx context.Context, query string, limit int) ([]ProductLocation, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}

// AnswerGenerator defines the interface for the text-generation backend
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, req AnswerRequest) (*InfoAnswer, error)
	Available(ctx context.Context) bool
}
