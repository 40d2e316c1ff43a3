package usecase

import (
	"strings"

	"github.com/shelfassist/backend/internal/domain"
)

// negationPenalty scales intent scores down when the query contains a negation
const negationPenalty = 0.3

// KeywordLexicon scores query text for location and information intent
type KeywordLexicon struct {
	location    []domain.KeywordPattern
	information []domain.KeywordPattern
	negation    []domain.KeywordPattern
}

func pattern(p string, weight float64, class domain.KeywordClass) domain.KeywordPattern {
	return domain.KeywordPattern{Pattern: p, Weight: weight, Class: class}
}

func locationPatterns() []domain.KeywordPattern {
	loc := func(p string, w float64) domain.KeywordPattern { return pattern(p, w, domain.KeywordLocation) }
	return []domain.KeywordPattern{
		// Direct location queries
		loc("where", 1.0), loc("find", 1.0), loc("located", 1.0), loc("locate", 1.0),
		loc("position", 0.9), loc("place", 0.9), loc("spot", 0.8),
		loc("looking for", 0.8), loc("want", 0.5), loc("need", 0.5),

		// Aisle and section terms
		loc("aisle", 1.0), loc("section", 1.0), loc("shelf", 1.0),
		loc("bay", 0.9), loc("row", 0.8), loc("corridor", 0.7), loc("hallway", 0.7),

		// Proximity
		loc("near", 0.9), loc("next to", 0.9), loc("beside", 0.8), loc("close to", 0.8),
		loc("around", 0.7), loc("by", 0.6),

		// Directions
		loc("left", 0.6), loc("right", 0.6), loc("front", 0.6), loc("back", 0.6),
		loc("top", 0.5), loc("bottom", 0.5), loc("middle", 0.5),

		// Store layout
		loc("entrance", 0.7), loc("exit", 0.7), loc("checkout", 0.6),
		loc("register", 0.6), loc("counter", 0.5),

		loc("which aisle", 1.0), loc("what aisle", 1.0),
		loc("which section", 1.0), loc("what section", 1.0),
		loc("which shelf", 1.0), loc("what shelf", 1.0),
	}
}

func informationPatterns() []domain.KeywordPattern {
	info := func(p string, w float64) domain.KeywordPattern { return pattern(p, w, domain.KeywordInformation) }
	return []domain.KeywordPattern{
		// Nutrition
		info("ingredients", 1.0), info("nutrition", 1.0), info("calories", 1.0), info("calorie", 1.0),
		info("protein", 0.9), info("carbs", 0.9), info("carbohydrates", 0.9), info("fat", 0.9),
		info("sugar", 0.9), info("sodium", 0.9),
		info("fiber", 0.8), info("vitamins", 0.8), info("minerals", 0.8),

		// Dietary restrictions
		info("vegan", 1.0), info("vegetarian", 1.0),
		info("gluten-free", 1.0), info("gluten free", 1.0),
		info("dairy-free", 1.0), info("dairy free", 1.0),
		info("lactose-free", 1.0), info("lactose free", 1.0),
		info("halal", 1.0), info("kosher", 1.0),
		info("keto", 0.9), info("paleo", 0.9),
		info("organic", 0.8), info("natural", 0.8), info("non-gmo", 0.8), info("non gmo", 0.8),

		// Allergens
		info("allergens", 1.0), info("allergies", 1.0), info("allergic", 0.9),
		info("contains", 0.8), info("may contain", 0.8),
		info("nuts", 0.7), info("peanuts", 0.7), info("tree nuts", 0.7), info("soy", 0.7),
		info("eggs", 0.7), info("shellfish", 0.7), info("fish", 0.7),

		// Product details
		info("price", 1.0), info("cost", 1.0), info("expensive", 0.8), info("cheap", 0.8),
		info("size", 1.0), info("weight", 0.9), info("volume", 0.9),
		info("dimensions", 0.8), info("package", 0.8), info("container", 0.8),

		// Policies and freshness
		info("return policy", 1.0), info("warranty", 1.0), info("guarantee", 1.0),
		info("expiration", 1.0), info("expiry", 1.0), info("expires", 1.0),
		info("best before", 1.0), info("sell by", 1.0), info("use by", 1.0),
		info("fresh", 0.8), info("frozen", 0.8), info("refrigerated", 0.8),

		// Usage and preparation
		info("how to", 0.9), info("how do", 0.9),
		info("cook", 0.8), info("prepare", 0.8), info("serve", 0.8), info("recipe", 0.8),
		info("instructions", 0.8), info("directions", 0.8),
		info("usage", 0.7), info("storage", 0.7), info("store", 0.7),

		// Quality and reviews
		info("quality", 0.8), info("rating", 0.8), info("review", 0.8), info("recommend", 0.8),
		info("popular", 0.7), info("best", 0.7), info("good", 0.6), info("bad", 0.6),

		info("what is", 0.9), info("what are", 0.9), info("tell me about", 0.9),
		info("explain", 0.8), info("describe", 0.8),
	}
}

func negationPatterns() []domain.KeywordPattern {
	neg := func(p string, w float64) domain.KeywordPattern { return pattern(p, w, domain.KeywordNegation) }
	patterns := []domain.KeywordPattern{neg("not", 1.0), neg("no", 1.0)}
	for _, contraction := range []string{
		"don't", "doesn't", "isn't", "aren't", "wasn't", "weren't",
		"won't", "can't", "couldn't", "shouldn't", "wouldn't",
	} {
		patterns = append(patterns,
			neg(contraction, 1.0),
			neg(strings.ReplaceAll(contraction, "'", ""), 1.0),
		)
	}
	for _, word := range []string{"never", "none", "nothing", "nobody", "nowhere"} {
		patterns = append(patterns, neg(word, 0.9))
	}
	return patterns
}

// NewKeywordLexicon creates a lexicon with the built-in keyword tables
func NewKeywordLexicon() *KeywordLexicon {
	return &KeywordLexicon{
		location:    locationPatterns(),
		information: informationPatterns(),
		negation:    negationPatterns(),
	}
}

// Patterns returns a copy of the table for the given class
func (l *KeywordLexicon) Patterns(class domain.KeywordClass) []domain.KeywordPattern {
	var src []domain.KeywordPattern
	switch class {
	case domain.KeywordLocation:
		src = l.location
	case domain.KeywordInformation:
		src = l.information
	case domain.KeywordNegation:
		src = l.negation
	}
	out := make([]domain.KeywordPattern, len(src))
	copy(out, src)
	return out
}

// LocationScore returns the location intent score of text in [0, 1]
func (l *KeywordLexicon) LocationScore(text string) float64 {
	return l.score(strings.ToLower(text), l.location)
}

// InformationScore returns the information intent score of text in [0, 1]
func (l *KeywordLexicon) InformationScore(text string) float64 {
	return l.score(strings.ToLower(text), l.information)
}

// HasNegation reports whether any negation pattern occurs in text
func (l *KeywordLexicon) HasNegation(text string) bool {
	return len(matchPatterns(strings.ToLower(text), l.negation)) > 0
}

// Explain lists the patterns that fired for text along with both scores
func (l *KeywordLexicon) Explain(text string) domain.RouteExplanation {
	lower := strings.ToLower(text)
	return domain.RouteExplanation{
		Query:               text,
		LocationScore:       l.score(lower, l.location),
		InformationScore:    l.score(lower, l.information),
		LocationKeywords:    patternNames(matchPatterns(lower, l.location)),
		InformationKeywords: patternNames(matchPatterns(lower, l.information)),
		Negated:             len(matchPatterns(lower, l.negation)) > 0,
	}
}

// score sums the weights of every matching pattern, clamps to 1.0, then applies the negation penalty
func (l *KeywordLexicon) score(lower string, table []domain.KeywordPattern) float64 {
	if lower == "" {
		return 0
	}

	total := 0.0
	for _, p := range matchPatterns(lower, table) {
		total += p.Weight
	}
	if total > 1.0 {
		total = 1.0
	}

	if total > 0 && len(matchPatterns(lower, l.negation)) > 0 {
		total *= negationPenalty
	}
	return total
}

// matchPatterns returns the patterns occurring as substrings of the already lower-cased text
func matchPatterns(lower string, table []domain.KeywordPattern) []domain.KeywordPattern {
	var matched []domain.KeywordPattern
	for _, p := range table {
		if strings.Contains(lower, p.Pattern) {
			matched = append(matched, p)
		}
	}
	return matched
}

func patternNames(patterns []domain.KeywordPattern) []string {
	names := make([]string, 0, len(patterns))
	for _, p := range patterns {
		names = append(names, p.Pattern)
	}
	return names
}
