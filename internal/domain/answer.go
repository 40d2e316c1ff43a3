package domain

import "time"

// QuestionType is the kind of product-information question being asked
type QuestionType string

const (
	QuestionIngredients QuestionType = "ingredients"
	QuestionNutrition   QuestionType = "nutrition"
	QuestionPrice       QuestionType = "price"
	QuestionDietary     QuestionType = "dietary"
	QuestionGeneral     QuestionType = "general"
)

// ProductAttributes carries catalog facts handed to the answer generator as context.
// The catalog holds no prices, so price answers always come from the model.
type ProductAttributes struct {
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
}

// IsEmpty reports whether no attribute is set
func (a ProductAttributes) IsEmpty() bool {
	return a == ProductAttributes{}
}

// AnswerRequest is the input to an information answer
type AnswerRequest struct {
	Product      string            `json:"product"`
	Question     string            `json:"question"`
	QuestionType QuestionType      `json:"questionType"`
	Attributes   ProductAttributes `json:"attributes"`
}

// InfoAnswer is a generated answer to a product-information question
type InfoAnswer struct {
	NormalizedProduct string       `json:"normalizedProduct"`
	QuestionType      QuestionType `json:"questionType"`
	Answer            string       `json:"answer"`
	Caveats           string       `json:"caveats,omitempty"`
	Confidence        float64      `json:"confidence"`
	Source            string       `json:"source"` // "LLM", "Cache" or "Fallback"
	CachedAt          time.Time    `json:"cachedAt,omitempty"`
}

// LocationAnswer lists where the products referenced by a query can be found
type LocationAnswer struct {
	NormalizedProduct    string            `json:"normalizedProduct"`
	Matches              []ProductLocation `json:"matches"`
	DisambiguationNeeded bool              `json:"disambiguationNeeded"`
	Notes                string            `json:"notes,omitempty"`
}

// QueryResponse is the full answer to a natural-language query
type QueryResponse struct {
	TraceID        string               `json:"traceId"`
	Query          string               `json:"query"`
	Classification ClassificationResult `json:"classification"`
	Location       *LocationAnswer      `json:"location,omitempty"`
	Information    *InfoAnswer          `json:"information,omitempty"`
	LatencyMs      float64              `json:"latencyMs"`
}

// HealthStatus reports the health of the collaborators behind the query service
type HealthStatus struct {
	Catalog string `json:"catalog"`
	LLM     string `json:"llm"`
	Router  string `json:"router"`
	Overall string `json:"overall"`
}
