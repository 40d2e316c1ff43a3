package catalog

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/shelfassist/backend/internal/domain"
)

var (
	stopWords = map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true,
		"on": true, "at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
	}

	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\-']`)
)

// NormalizeName lowercases a search phrase, drops articles and prepositions,
// and strips punctuation other than hyphens and apostrophes
func NormalizeName(query string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(query)))

	kept := make([]string, 0, len(words))
	for _, word := range words {
		if stopWords[word] {
			continue
		}
		word = nonWordPattern.ReplaceAllString(word, "")
		if word != "" {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// FindLocations searches the catalog for products matching free text. Strategies
// run in order: exact name, all words in the name, synonym, then partial
// name/brand/category match. The first strategy with results wins.
func (s *Store) FindLocations(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	if limit <= 0 {
		limit = 10
	}

	normalized := NormalizeName(query)
	if normalized == "" {
		return []domain.ProductLocation{}, nil
	}

	strategies := []struct {
		name string
		find func(context.Context, string, int) ([]domain.ProductLocation, error)
	}{
		{"exact", s.findExact},
		{"words", s.findAllWords},
		{"synonym", s.findSynonyms},
		{"partial", s.findPartial},
	}

	for _, strategy := range strategies {
		matches, err := strategy.find(ctx, normalized, limit)
		if err != nil {
			return nil, unavailable("find locations ("+strategy.name+")", err)
		}
		if len(matches) > 0 {
			s.logger.Debug().
				Str("query", normalized).
				Str("strategy", strategy.name).
				Int("matches", len(matches)).
				Msg("Location search matched")
			return matches, nil
		}
	}

	return []domain.ProductLocation{}, nil
}

func (s *Store) findExact(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT`+locationColumns+`
		FROM products p
		LEFT JOIN inventory_locations il ON il.product_id = p.id
		WHERE LOWER(p.name) = ?
		ORDER BY p.name, p.id
		LIMIT ?
	`), query, limit)
	if err != nil {
		return nil, err
	}

	found, err := scanLocations(rows, false)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductLocation, 0, len(found))
	for _, r := range found {
		r.Confidence = 1.0
		out = append(out, r.ProductLocation)
	}
	return out, nil
}

func (s *Store) findAllWords(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	words := strings.Fields(query)
	conditions := make([]string, 0, len(words))
	args := make([]interface{}, 0, len(words)+1)
	for _, word := range words {
		conditions = append(conditions, `LOWER(p.name) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(word))
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT`+locationColumns+`
		FROM products p
		LEFT JOIN inventory_locations il ON il.product_id = p.id
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY p.name, p.id
		LIMIT ?
	`), args...)
	if err != nil {
		return nil, err
	}

	found, err := scanLocations(rows, false)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductLocation, 0, len(found))
	for _, r := range found {
		r.Confidence = wordMatchConfidence(query, r.ProductName)
		out = append(out, r.ProductLocation)
	}
	return sortByConfidence(out, limit), nil
}

func (s *Store) findSynonyms(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT`+locationColumns+`, ps.synonym
		FROM products p
		JOIN product_synonyms ps ON ps.product_id = p.id
		LEFT JOIN inventory_locations il ON il.product_id = p.id
		WHERE LOWER(ps.synonym) LIKE ? ESCAPE '\'
		ORDER BY p.name, p.id
		LIMIT ?
	`), likePattern(query), limit)
	if err != nil {
		return nil, err
	}

	found, err := scanLocations(rows, true)
	if err != nil {
		return nil, err
	}

	// A product can match through several synonyms; keep its best one
	best := make(map[string]int, len(found))
	out := make([]domain.ProductLocation, 0, len(found))
	for _, r := range found {
		r.Confidence = synonymConfidence(query, r.extra)
		if i, ok := best[r.ProductID]; ok {
			if r.Confidence > out[i].Confidence {
				out[i].Confidence = r.Confidence
			}
			continue
		}
		best[r.ProductID] = len(out)
		out = append(out, r.ProductLocation)
	}
	return sortByConfidence(out, limit), nil
}

func (s *Store) findPartial(ctx context.Context, query string, limit int) ([]domain.ProductLocation, error) {
	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT`+locationColumns+`
		FROM products p
		LEFT JOIN inventory_locations il ON il.product_id = p.id
		WHERE LOWER(p.name) LIKE ? ESCAPE '\'
		   OR LOWER(p.brand) LIKE ? ESCAPE '\'
		   OR LOWER(p.category) LIKE ? ESCAPE '\'
		ORDER BY p.name, p.id
		LIMIT ?
	`), pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}

	found, err := scanLocations(rows, false)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ProductLocation, 0, len(found))
	for _, r := range found {
		r.Confidence = partialConfidence(query, r.ProductName, r.Brand)
		out = append(out, r.ProductLocation)
	}
	return sortByConfidence(out, limit), nil
}

func sortByConfidence(matches []domain.ProductLocation, limit int) []domain.ProductLocation {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// wordMatchConfidence is the Jaccard similarity of the word sets plus a boost
// of 0.3 scaled by the share of query words found in the name
func wordMatchConfidence(query, productName string) float64 {
	queryWords := wordSet(query)
	productWords := wordSet(productName)
	if len(queryWords) == 0 || len(productWords) == 0 {
		return 0
	}

	shared := 0
	for w := range queryWords {
		if productWords[w] {
			shared++
		}
	}
	union := len(queryWords) + len(productWords) - shared

	similarity := float64(shared) / float64(union)
	boost := float64(shared) / float64(len(queryWords))
	return min(1.0, similarity+boost*0.3)
}

func synonymConfidence(query, synonym string) float64 {
	q := strings.ToLower(query)
	syn := strings.ToLower(synonym)
	switch {
	case q == syn:
		return 0.9
	case strings.Contains(syn, q):
		return 0.7
	case strings.Contains(q, syn):
		return 0.6
	default:
		return 0.5
	}
}

func partialConfidence(query, productName, brand string) float64 {
	q := strings.ToLower(query)
	name := strings.ToLower(productName)
	brandLower := strings.ToLower(brand)

	confidence := 0.0
	if strings.Contains(name, q) {
		confidence += 0.6
	}
	if strings.Contains(brandLower, q) {
		confidence += 0.3
	}

	queryWords := wordSet(q)
	known := wordSet(name + " " + brandLower)
	if len(queryWords) > 0 && len(known) > 0 {
		overlap := 0
		for w := range queryWords {
			if known[w] {
				overlap++
			}
		}
		confidence += float64(overlap) / float64(len(queryWords)) * 0.4
	}

	return min(1.0, confidence)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring LIKE match, escaping the LIKE wildcards
// so they match literally. Queries using it must declare ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
