package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfassist/backend/internal/domain"
)

func TestNewQueryClassifier_Defaults(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())
	if c.extractLimit != 3 {
		t.Errorf("extractLimit = %d, want 3 (default)", c.extractLimit)
	}
	if c.productLimit != 5 {
		t.Errorf("productLimit = %d, want 5 (default)", c.productLimit)
	}
}

func TestClassify_Scenarios(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())
	ctx := context.Background()

	t.Run("where is the milk routes to location", func(t *testing.T) {
		result := c.Classify(ctx, "where is the milk")
		assert.Equal(t, domain.RouteLocation, result.Route)
		assert.Greater(t, result.Confidence, 0.3)
		assert.Equal(t, "Location keywords detected (score: 1.00)", result.Reasoning)
	})

	t.Run("ingredients question routes to information", func(t *testing.T) {
		result := c.Classify(ctx, "what are the ingredients in bread")
		assert.Equal(t, domain.RouteInformation, result.Route)
		assert.Greater(t, result.Confidence, 0.3)
		require.NotEmpty(t, result.Candidates)
		assert.Equal(t, wheatBread.Name, result.NormalizedProduct)
	})

	t.Run("bare product with close candidates needs disambiguation", func(t *testing.T) {
		result := c.Classify(ctx, "milk")
		require.GreaterOrEqual(t, len(result.Candidates), 2)
		assert.True(t, result.DisambiguationNeeded)
		assert.Equal(t, skimMilk.Name, result.NormalizedProduct)
		assert.Equal(t, domain.RouteInformation, result.Route)
		assert.Equal(t, 0.0, result.Confidence)
	})

	t.Run("desire phrase yields to an information keyword", func(t *testing.T) {
		result := c.Classify(ctx, "i need the price of bread")
		assert.Equal(t, domain.RouteInformation, result.Route)
		assert.Equal(t, 1.0, result.Confidence)
	})

	t.Run("registered synonym resolves exactly", func(t *testing.T) {
		result := c.Classify(ctx, "where is the coke")
		require.NotEmpty(t, result.Candidates)
		assert.Equal(t, cocaCola.ID, result.Candidates[0].ProductID)
		assert.Equal(t, domain.MatchExact, result.Candidates[0].MatchType)
		assert.Equal(t, cocaCola.Name, result.NormalizedProduct)
	})

	t.Run("negation lowers confidence", func(t *testing.T) {
		plain := c.Classify(ctx, "I want milk")
		negated := c.Classify(ctx, "I don't want milk")
		assert.Equal(t, plain.Route, negated.Route)
		assert.Less(t, negated.Confidence, plain.Confidence)
	})

	t.Run("nonsense yields no strong candidates", func(t *testing.T) {
		result := c.Classify(ctx, "xyzxyznonexistent")
		for _, cand := range result.Candidates {
			assert.Less(t, cand.Confidence, 0.3)
		}
	})
}

func TestClassify_EmptyInput(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	for _, text := range []string{"", "   ", "\n\t"} {
		result := c.Classify(context.Background(), text)
		assert.Equal(t, domain.RouteInformation, result.Route)
		assert.Equal(t, 0.0, result.Confidence)
		assert.False(t, result.DisambiguationNeeded)
		assert.Empty(t, result.NormalizedProduct)
		assert.Empty(t, result.Candidates)
		assert.Equal(t, "Empty query", result.Reasoning)
	}
}

func TestClassify_TieBreak(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	result := c.Classify(context.Background(), "where is the price")
	assert.Equal(t, domain.RouteLocation, result.Route)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "Tie-breaker: location preferred (score: 1.00)", result.Reasoning)

	result = c.Classify(context.Background(), "bread")
	assert.Equal(t, domain.RouteInformation, result.Route)
	assert.Equal(t, "Tie-breaker: information preferred (score: 0.00)", result.Reasoning)
}

func TestClassify_Idempotent(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())
	ctx := context.Background()

	for _, text := range []string{"where is the milk", "milk", "is the coka cola vegan", "organic banana"} {
		first := c.Classify(ctx, text)
		second := c.Classify(ctx, text)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Classify(%q) not idempotent (-first +second):\n%s", text, diff)
		}
	}
}

func TestClassify_CatalogUnavailable(t *testing.T) {
	catalog := newGroceryCatalog()
	catalog.err = errors.New("unable to open database file")
	c := newTestClassifier(catalog)

	result := c.Classify(context.Background(), "  where is the coke ")
	assert.Equal(t, domain.RouteLocation, result.Route)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Empty(t, result.Candidates)
	assert.False(t, result.DisambiguationNeeded)
	assert.Equal(t, "where is the coke", result.NormalizedProduct)
}

func TestClassify_CandidateLimit(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	result := c.Classify(context.Background(), "milk cheese bread coke bananas")
	assert.Len(t, result.Candidates, 3)

	product, candidates := c.ExtractProduct(context.Background(), "milk cheese bread coke bananas")
	assert.Len(t, candidates, 5)
	assert.Equal(t, candidates[0].ProductName, product)
}

func TestExtractProduct_NoMatchEchoesInput(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	product, candidates := c.ExtractProduct(context.Background(), " xyzxyznonexistent ")
	assert.Empty(t, candidates)
	assert.Equal(t, "xyzxyznonexistent", product)
}

func TestNeedsDisambiguation(t *testing.T) {
	candidates := func(confidences ...float64) []domain.ProductCandidate {
		out := make([]domain.ProductCandidate, len(confidences))
		for i, c := range confidences {
			out[i] = domain.ProductCandidate{ProductID: string(rune('A' + i)), Confidence: c}
		}
		return out
	}

	testCases := []struct {
		name       string
		candidates []domain.ProductCandidate
		want       bool
	}{
		{name: "no candidates", candidates: nil, want: false},
		{name: "single weak candidate", candidates: candidates(0.2), want: false},
		{name: "two strong contenders", candidates: candidates(0.95, 0.8), want: true},
		{name: "close race", candidates: candidates(0.65, 0.5), want: true},
		{name: "clear winner", candidates: candidates(0.9, 0.5), want: false},
		{name: "weak leader", candidates: candidates(0.55, 0.2), want: true},
		{name: "leader at confidence floor", candidates: candidates(0.6, 0.3), want: false},
		{name: "weak close pair", candidates: candidates(0.4, 0.35), want: true},
		{name: "only the top two count", candidates: candidates(1.0, 0.5, 0.95), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeedsDisambiguation(tc.candidates))
		})
	}
}

func TestClassifyBatch(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())
	texts := []string{"where is the milk", "what are the ingredients in bread", "", "milk"}

	results, err := c.ClassifyBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, text := range texts {
		if diff := cmp.Diff(c.Classify(context.Background(), text), results[i]); diff != "" {
			t.Errorf("batch result %d differs from single classification (-want +got):\n%s", i, diff)
		}
	}
}

func TestClassifyBatch_Cancelled(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ClassifyBatch(ctx, []string{"where is the milk", "milk"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	stats := c.Evaluate(context.Background(), []domain.EvaluationCase{
		{Query: "where is the milk", Expected: domain.RouteLocation},
		{Query: "which aisle has bread", Expected: domain.RouteLocation},
		{Query: "how many calories in cheese", Expected: domain.RouteInformation},
		{Query: "is coke vegan", Expected: domain.RouteLocation},
	})

	assert.Equal(t, domain.EvaluationStats{Accuracy: 0.75, Correct: 3, Incorrect: 1, Total: 4}, stats)
	assert.Equal(t, domain.EvaluationStats{}, c.Evaluate(context.Background(), nil))
}

func TestConfidenceDistribution(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	dist := c.ConfidenceDistribution(context.Background(), []string{"where is the milk", "price of bread", "milk"})
	assert.Equal(t, []float64{1.0}, dist[domain.RouteLocation])
	assert.Equal(t, []float64{1.0, 0.0}, dist[domain.RouteInformation])
}

func TestExplain(t *testing.T) {
	c := newTestClassifier(newGroceryCatalog())

	explanation := c.Explain("I don't know where the vegan cheese is")
	assert.True(t, explanation.Negated)
	assert.Contains(t, explanation.LocationKeywords, "where")
	assert.Contains(t, explanation.InformationKeywords, "vegan")
	assert.InDelta(t, 0.3, explanation.LocationScore, 1e-9)
}
