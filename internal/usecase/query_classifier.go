package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shelfassist/backend/internal/domain"
)

// Routing and disambiguation thresholds
const (
	tieBreakLocationFloor   = 0.1 // ties above this go to location
	strongCandidateFloor    = 0.7 // two candidates above this are both plausible
	closeRaceFloor          = 0.5 // top candidate must exceed this for the gap rule
	closeRaceGap            = 0.2
	confidentCandidateFloor = 0.6 // below this the best guess is too weak to use

	defaultClassifyLimit = 3
	defaultProductLimit  = 5
	batchConcurrency     = 8
)

// ClassifierConfig holds configuration for the query classifier
type ClassifierConfig struct {
	ExtractLimit       int // candidates kept by Classify
	ProductLimit       int // candidates kept by ExtractProduct
	EnableDebugLogging bool
}

// QueryClassifier routes queries to location or information intent and resolves the product they mention
type QueryClassifier struct {
	lexicon            *KeywordLexicon
	extractor          *ProductExtractor
	extractLimit       int
	productLimit       int
	enableDebugLogging bool
	logger             zerolog.Logger
}

// NewQueryClassifier creates a new classifier with the given configuration
func NewQueryClassifier(lexicon *KeywordLexicon, extractor *ProductExtractor, config ClassifierConfig, logger zerolog.Logger) *QueryClassifier {
	extractLimit := config.ExtractLimit
	if extractLimit <= 0 {
		extractLimit = defaultClassifyLimit
	}

	productLimit := config.ProductLimit
	if productLimit <= 0 {
		productLimit = defaultProductLimit
	}

	return &QueryClassifier{
		lexicon:            lexicon,
		extractor:          extractor,
		extractLimit:       extractLimit,
		productLimit:       productLimit,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger.With().Str("component", "query_classifier").Logger(),
	}
}

// Classify routes text and attaches ranked product candidates. It never fails:
// blank input and an unreachable catalog degrade to default values.
func (c *QueryClassifier) Classify(ctx context.Context, text string) domain.ClassificationResult {
	if strings.TrimSpace(text) == "" {
		return domain.ClassificationResult{
			Route:      domain.RouteInformation,
			Confidence: 0.0,
			Candidates: []domain.ProductCandidate{},
			Reasoning:  "Empty query",
		}
	}

	route, confidence, reasoning := c.route(text)
	candidates := c.extractor.ExtractProducts(ctx, text, c.extractLimit)

	result := domain.ClassificationResult{
		Route:                route,
		Confidence:           confidence,
		NormalizedProduct:    normalizedProduct(candidates, text),
		DisambiguationNeeded: NeedsDisambiguation(candidates),
		Candidates:           candidates,
		Reasoning:            reasoning,
	}

	if c.enableDebugLogging {
		c.logger.Debug().
			Str("query", text).
			Str("route", string(result.Route)).
			Float64("confidence", result.Confidence).
			Str("product", result.NormalizedProduct).
			Bool("disambiguation", result.DisambiguationNeeded).
			Int("candidates", len(candidates)).
			Msg("query classified")
	}

	return result
}

// ExtractProduct resolves only the product referenced by text, returning the
// normalized product name and the full candidate list
func (c *QueryClassifier) ExtractProduct(ctx context.Context, text string) (string, []domain.ProductCandidate) {
	candidates := c.extractor.ExtractProducts(ctx, text, c.productLimit)
	return normalizedProduct(candidates, text), candidates
}

// Explain reports the lexicon evidence behind the routing of text
func (c *QueryClassifier) Explain(text string) domain.RouteExplanation {
	return c.lexicon.Explain(text)
}

// ClassifyBatch classifies each text independently, preserving input order
func (c *QueryClassifier) ClassifyBatch(ctx context.Context, texts []string) ([]domain.ClassificationResult, error) {
	results := make([]domain.ClassificationResult, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.Classify(gctx, text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Evaluate measures routing accuracy against labelled queries
func (c *QueryClassifier) Evaluate(ctx context.Context, cases []domain.EvaluationCase) domain.EvaluationStats {
	stats := domain.EvaluationStats{Total: len(cases)}
	for _, tc := range cases {
		if c.Classify(ctx, tc.Query).Route == tc.Expected {
			stats.Correct++
		}
	}
	stats.Incorrect = stats.Total - stats.Correct
	if stats.Total > 0 {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Total)
	}
	return stats
}

// ConfidenceDistribution groups the routing confidence of each query by the route it was sent to
func (c *QueryClassifier) ConfidenceDistribution(ctx context.Context, queries []string) map[domain.Route][]float64 {
	dist := map[domain.Route][]float64{
		domain.RouteLocation:    {},
		domain.RouteInformation: {},
	}
	for _, q := range queries {
		result := c.Classify(ctx, q)
		dist[result.Route] = append(dist[result.Route], result.Confidence)
	}
	return dist
}

// route picks the intent with the higher lexicon score, preferring location on
// ties that carry any real signal
func (c *QueryClassifier) route(text string) (domain.Route, float64, string) {
	locationScore := c.lexicon.LocationScore(text)
	informationScore := c.lexicon.InformationScore(text)

	switch {
	case locationScore > informationScore:
		return domain.RouteLocation, locationScore,
			fmt.Sprintf("Location keywords detected (score: %.2f)", locationScore)
	case informationScore > locationScore:
		return domain.RouteInformation, informationScore,
			fmt.Sprintf("Information keywords detected (score: %.2f)", informationScore)
	case locationScore > tieBreakLocationFloor:
		return domain.RouteLocation, locationScore,
			fmt.Sprintf("Tie-breaker: location preferred (score: %.2f)", locationScore)
	default:
		return domain.RouteInformation, informationScore,
			fmt.Sprintf("Tie-breaker: information preferred (score: %.2f)", informationScore)
	}
}

// NeedsDisambiguation decides whether candidates are too close or too weak to
// pick one without asking. Rules are checked in order and the first match wins.
func NeedsDisambiguation(candidates []domain.ProductCandidate) bool {
	if len(candidates) < 2 {
		return false
	}

	top := candidates[0].Confidence
	second := candidates[1].Confidence

	switch {
	case top > strongCandidateFloor && second > strongCandidateFloor:
		return true
	case top > closeRaceFloor && math.Abs(top-second) < closeRaceGap:
		return true
	case top < confidentCandidateFloor:
		return true
	default:
		return false
	}
}

// normalizedProduct is the best candidate's name, or the trimmed input when nothing matched
func normalizedProduct(candidates []domain.ProductCandidate, text string) string {
	if len(candidates) == 0 {
		return strings.TrimSpace(text)
	}
	return candidates[0].ProductName
}
