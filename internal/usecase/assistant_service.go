package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/internal/domain"
	"github.com/shelfassist/backend/internal/observability"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// AssistantConfig holds configuration for the assistant service
type AssistantConfig struct {
	CacheTTL           time.Duration
	LocationLimit      int     // candidates looked up on the location route
	MinCacheConfidence float64 // answers below this confidence are not cached
}

// AssistantService answers natural-language queries end to end: it classifies the
// query, then resolves locations from the catalog or generates a product answer
type AssistantService struct {
	classifier         *QueryClassifier
	catalog            domain.CatalogRepository
	answers            domain.AnswerGenerator
	cache              domain.CacheRepository
	cacheTTL           time.Duration
	locationLimit      int
	minCacheConfidence float64
	logger             zerolog.Logger
}

// NewAssistantService creates a new assistant service with dependencies
func NewAssistantService(
	classifier *QueryClassifier,
	catalog domain.CatalogRepository,
	answers domain.AnswerGenerator,
	cache domain.CacheRepository,
	config AssistantConfig,
	logger zerolog.Logger,
) *AssistantService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	locationLimit := config.LocationLimit
	if locationLimit <= 0 {
		locationLimit = defaultProductLimit
	}

	minCacheConfidence := config.MinCacheConfidence
	if minCacheConfidence <= 0 {
		minCacheConfidence = confidentCandidateFloor
	}

	return &AssistantService{
		classifier:         classifier,
		catalog:            catalog,
		answers:            answers,
		cache:              cache,
		cacheTTL:           cacheTTL,
		locationLimit:      locationLimit,
		minCacheConfidence: minCacheConfidence,
		logger:             logger.With().Str("component", "assistant").Logger(),
	}
}

// HandleQuery classifies text and answers it on the chosen route.
// Flow: classify -> (location: extract -> look up locations) | (information: cache -> generate -> cache)
func (s *AssistantService) HandleQuery(ctx context.Context, text string) (*domain.QueryResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()
	traceID := observability.TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
		ctx = observability.ContextWithTraceID(ctx, traceID)
	}
	logger := observability.WithContext(ctx, s.logger)

	classification := s.classifier.Classify(ctx, text)
	logger.Info().
		Str("query", text).
		Str("route", string(classification.Route)).
		Float64("confidence", classification.Confidence).
		Msg("processing query")

	response := &domain.QueryResponse{
		TraceID:        traceID,
		Query:          text,
		Classification: classification,
	}

	switch classification.Route {
	case domain.RouteLocation:
		response.Location = s.locate(ctx, logger, text, classification)
	default:
		response.Information = s.answer(ctx, logger, text, classification)
	}

	response.LatencyMs = float64(time.Since(start).Microseconds()) / 1000.0
	logger.Info().
		Str("route", string(classification.Route)).
		Float64("latency_ms", response.LatencyMs).
		Bool("disambiguation", classification.DisambiguationNeeded).
		Msg("query answered")

	return response, nil
}

// locate resolves the product in text and looks up where each candidate is shelved
func (s *AssistantService) locate(
	ctx context.Context,
	logger zerolog.Logger,
	text string,
	classification domain.ClassificationResult,
) *domain.LocationAnswer {
	product, candidates := s.classifier.ExtractProduct(ctx, text)

	matches := make([]domain.ProductLocation, 0, len(candidates))
	for i, candidate := range candidates {
		if i == s.locationLimit {
			break
		}
		loc, err := s.catalog.GetLocation(ctx, candidate.ProductID)
		if err != nil {
			if !errors.Is(err, domain.ErrProductNotFound) {
				logger.Warn().Err(err).Str("product_id", candidate.ProductID).Msg("location lookup failed")
			}
			continue
		}
		loc.Confidence = candidate.Confidence
		matches = append(matches, *loc)
	}

	if len(candidates) == 0 {
		found, err := s.catalog.FindLocations(ctx, text, s.locationLimit)
		if err != nil {
			logger.Warn().Err(err).Msg("location search failed")
		} else {
			matches = append(matches, found...)
		}
	}

	answer := &domain.LocationAnswer{
		NormalizedProduct:    product,
		Matches:              matches,
		DisambiguationNeeded: classification.DisambiguationNeeded || len(matches) > 1,
	}
	if len(matches) == 0 {
		answer.Notes = "No products found matching your query"
		answer.DisambiguationNeeded = false
	} else {
		answer.Notes = fmt.Sprintf("Found %d product(s) matching your query", len(matches))
	}

	logger.Debug().Str("product", product).Int("matches", len(matches)).Msg("locations resolved")
	return answer
}

// answer produces a product-information answer, preferring a cached one
func (s *AssistantService) answer(
	ctx context.Context,
	logger zerolog.Logger,
	text string,
	classification domain.ClassificationResult,
) *domain.InfoAnswer {
	questionType := ClassifyQuestion(text)
	cacheKey := questionCacheKey(string(questionType), text)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = "Cache"
		return cached
	}

	req := domain.AnswerRequest{
		Question:     text,
		QuestionType: questionType,
	}
	if len(classification.Candidates) > 0 {
		top := classification.Candidates[0]
		req.Product = top.ProductName
		req.Attributes = domain.ProductAttributes{Brand: top.Brand, Category: top.Category}
	}

	answer, err := s.answers.GenerateAnswer(ctx, req)
	if err != nil {
		logger.Error().Err(err).Str("question_type", string(questionType)).Msg("answer generation failed")
		return fallbackAnswer(req)
	}

	if answer.Confidence >= s.minCacheConfidence {
		if err := s.setInCache(ctx, cacheKey, answer); err != nil {
			logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache answer")
		}
	}
	return answer
}

// Health reports the state of the catalog and the answer generator. The service is
// degraded while either one works and unhealthy when neither does.
func (s *AssistantService) Health(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Catalog: statusUnhealthy,
		LLM:     statusUnhealthy,
		Router:  statusHealthy,
	}

	if stats, err := s.catalog.Stats(ctx); err == nil && stats.Products > 0 {
		status.Catalog = statusHealthy
	}
	if s.answers.Available(ctx) {
		status.LLM = statusHealthy
	}

	switch {
	case status.Catalog == statusHealthy && status.LLM == statusHealthy:
		status.Overall = statusHealthy
	case status.Catalog == statusHealthy || status.LLM == statusHealthy:
		status.Overall = statusDegraded
	default:
		status.Overall = statusUnhealthy
	}
	return status
}

// Stats returns the catalog row counts
func (s *AssistantService) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return stats, nil
}

// getFromCache retrieves an answer from cache, whatever shape the backend returned it in
func (s *AssistantService) getFromCache(ctx context.Context, key string) (*domain.InfoAnswer, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var raw []byte
	switch v := value.(type) {
	case *domain.InfoAnswer:
		copied := *v
		return &copied, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		// maps produced by JSON round-tripping caches
		if raw, err = json.Marshal(v); err != nil {
			return nil, domain.ErrCacheMiss
		}
	}

	var answer domain.InfoAnswer
	if err := json.Unmarshal(raw, &answer); err != nil || answer.Answer == "" {
		return nil, domain.ErrCacheMiss
	}
	return &answer, nil
}

// setInCache stores an answer in cache
func (s *AssistantService) setInCache(ctx context.Context, key string, answer *domain.InfoAnswer) error {
	answer.CachedAt = time.Now()
	return s.cache.Set(ctx, key, answer, s.cacheTTL)
}

// fallbackAnswer is returned when the answer generator cannot be reached
func fallbackAnswer(req domain.AnswerRequest) *domain.InfoAnswer {
	product := req.Product
	if product == "" {
		product = "this product"
	}
	return &domain.InfoAnswer{
		NormalizedProduct: req.Product,
		QuestionType:      req.QuestionType,
		Answer: fmt.Sprintf("I'm sorry, I couldn't process your question about '%s'. "+
			"Please check the product label or ask store staff for assistance.", product),
		Caveats:    "Service temporarily unavailable",
		Confidence: 0.1,
		Source:     "Fallback",
	}
}
