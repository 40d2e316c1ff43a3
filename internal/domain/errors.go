package domain

import "errors"

var (
	// ErrProductNotFound is returned when no catalog product matches a lookup
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCatalogUnavailable is returned when the catalog store cannot be queried
	ErrCatalogUnavailable = errors.New("catalog store unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrLLMFailure is returned when the text-generation backend fails
	ErrLLMFailure = errors.New("LLM request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
