package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shelfassist/backend/internal/domain"
)

// Strategy thresholds and discount factors
const (
	synonymPhraseWords = 3 // longest n-gram compared against synonyms and trigrams
	namePhraseWords    = 4 // longest n-gram searched for inside product names

	fuzzySynonymThreshold = 0.7
	fuzzySynonymFactor    = 0.8
	nameSubstringFactor   = 0.9
	trigramThreshold      = 0.6
	trigramFactor         = 0.7

	defaultExtractLimit = 5
)

// ProductExtractor resolves free text to ranked catalog product candidates
type ProductExtractor struct {
	index              *CatalogIndex
	logger             zerolog.Logger
	enableDebugLogging bool
}

// NewProductExtractor creates an extractor backed by the given catalog index
func NewProductExtractor(index *CatalogIndex, logger zerolog.Logger, enableDebugLogging bool) *ProductExtractor {
	return &ProductExtractor{
		index:              index,
		logger:             logger.With().Str("component", "product_extractor").Logger(),
		enableDebugLogging: enableDebugLogging,
	}
}

// ExtractProducts returns up to limit candidates for text, best confidence first.
// Each product appears at most once, carrying its highest-confidence match.
func (e *ProductExtractor) ExtractProducts(ctx context.Context, text string, limit int) []domain.ProductCandidate {
	if limit <= 0 {
		limit = defaultExtractLimit
	}

	normalized := NormalizeQuery(text)
	if normalized == "" {
		return []domain.ProductCandidate{}
	}

	shortPhrases := wordPhrases(normalized, synonymPhraseWords)
	longPhrases := wordPhrases(normalized, namePhraseWords)

	var pooled []domain.ProductCandidate
	pooled = append(pooled, e.exactSynonymMatches(ctx, shortPhrases)...)
	pooled = append(pooled, e.fuzzySynonymMatches(ctx, shortPhrases)...)
	pooled = append(pooled, e.productNameMatches(ctx, longPhrases)...)
	pooled = append(pooled, e.trigramMatches(ctx, shortPhrases)...)

	candidates := dedupeCandidates(pooled)
	e.fillCategories(ctx, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	if e.enableDebugLogging {
		e.logger.Debug().
			Str("normalized", normalized).
			Int("pooled", len(pooled)).
			Int("returned", len(candidates)).
			Msg("products extracted")
	}

	return candidates
}

// exactSynonymMatches emits every product registered under a phrase that equals a synonym
func (e *ProductExtractor) exactSynonymMatches(ctx context.Context, phrases []string) []domain.ProductCandidate {
	synonyms := e.index.SynonymMap(ctx)

	var out []domain.ProductCandidate
	for _, phrase := range phrases {
		for _, entry := range synonyms[phrase] {
			out = append(out, synonymCandidate(entry, phrase, 1.0, domain.MatchExact))
		}
	}
	return out
}

// fuzzySynonymMatches emits products whose synonyms are close to a phrase
func (e *ProductExtractor) fuzzySynonymMatches(ctx context.Context, phrases []string) []domain.ProductCandidate {
	synonyms := e.index.SynonymMap(ctx)
	keys := e.index.SynonymKeys(ctx)

	var out []domain.ProductCandidate
	for _, phrase := range phrases {
		for _, key := range keys {
			ratio := SequenceRatio(phrase, key)
			if ratio <= fuzzySynonymThreshold {
				continue
			}
			for _, entry := range synonyms[key] {
				out = append(out, synonymCandidate(entry, phrase, ratio*fuzzySynonymFactor, domain.MatchSynonym))
			}
		}
	}
	return out
}

// productNameMatches emits products whose name contains a phrase, scored by how much of the name it covers
func (e *ProductExtractor) productNameMatches(ctx context.Context, phrases []string) []domain.ProductCandidate {
	products := e.index.Products(ctx)

	var out []domain.ProductCandidate
	for _, phrase := range phrases {
		for _, p := range products {
			if !strings.Contains(strings.ToLower(p.Name), phrase) {
				continue
			}
			ratio := SequenceRatio(phrase, p.Name)
			out = append(out, productCandidate(p, phrase, ratio*nameSubstringFactor, domain.MatchFuzzy))
		}
	}
	return out
}

// trigramMatches emits products whose names share most of their character trigrams with a phrase
func (e *ProductExtractor) trigramMatches(ctx context.Context, phrases []string) []domain.ProductCandidate {
	products := e.index.Products(ctx)

	var out []domain.ProductCandidate
	for _, phrase := range phrases {
		for _, p := range products {
			sim := TrigramSimilarity(phrase, p.Name)
			if sim <= trigramThreshold {
				continue
			}
			out = append(out, productCandidate(p, phrase, sim*trigramFactor, domain.MatchTrigram))
		}
	}
	return out
}

// fillCategories copies the category from the product listing onto synonym-derived candidates
func (e *ProductExtractor) fillCategories(ctx context.Context, candidates []domain.ProductCandidate) {
	for i := range candidates {
		if candidates[i].Category != "" {
			continue
		}
		if p, ok := e.index.Product(ctx, candidates[i].ProductID); ok {
			candidates[i].Category = p.Category
		}
	}
}

// dedupeCandidates keeps one candidate per product id, in first-seen order, replacing
// it only when a later match is strictly more confident
func dedupeCandidates(candidates []domain.ProductCandidate) []domain.ProductCandidate {
	positions := make(map[string]int, len(candidates))
	unique := make([]domain.ProductCandidate, 0, len(candidates))

	for _, c := range candidates {
		pos, seen := positions[c.ProductID]
		if !seen {
			positions[c.ProductID] = len(unique)
			unique = append(unique, c)
			continue
		}
		if c.Confidence > unique[pos].Confidence {
			unique[pos] = c
		}
	}
	return unique
}

func synonymCandidate(entry domain.SynonymEntry, phrase string, confidence float64, matchType domain.MatchType) domain.ProductCandidate {
	return domain.ProductCandidate{
		ProductID:   entry.ProductID,
		ProductName: entry.Name,
		Brand:       entry.Brand,
		Confidence:  clampUnit(confidence),
		MatchType:   matchType,
		MatchedText: phrase,
	}
}

func productCandidate(p domain.ProductRecord, phrase string, confidence float64, matchType domain.MatchType) domain.ProductCandidate {
	return domain.ProductCandidate{
		ProductID:   p.ID,
		ProductName: p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Confidence:  clampUnit(confidence),
		MatchType:   matchType,
		MatchedText: phrase,
	}
}

// clampUnit limits v to [0, 1]
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
