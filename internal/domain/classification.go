package domain

// Route is the intent a query is dispatched to
type Route string

const (
	RouteLocation    Route = "location"
	RouteInformation Route = "information"
)

// KeywordClass tags a lexicon entry with the signal it contributes to
type KeywordClass string

const (
	KeywordLocation    KeywordClass = "location"
	KeywordInformation KeywordClass = "information"
	KeywordNegation    KeywordClass = "negation"
)

// KeywordPattern is a weighted substring pattern of the intent lexicon
type KeywordPattern struct {
	Pattern string       `json:"pattern"`
	Weight  float64      `json:"weight"`
	Class   KeywordClass `json:"class"`
}

// ClassificationResult is the outcome of routing a single query
type ClassificationResult struct {
	Route                Route              `json:"route"`
	Confidence           float64            `json:"confidence"`
	NormalizedProduct    string             `json:"normalizedProduct"`
	DisambiguationNeeded bool               `json:"disambiguationNeeded"`
	Candidates           []ProductCandidate `json:"candidates"`
	Reasoning            string             `json:"reasoning"`
}

// RouteExplanation lists the lexicon evidence behind a routing decision
type RouteExplanation struct {
	Query               string   `json:"query"`
	LocationScore       float64  `json:"locationScore"`
	InformationScore    float64  `json:"informationScore"`
	LocationKeywords    []string `json:"locationKeywords"`
	InformationKeywords []string `json:"informationKeywords"`
	Negated             bool     `json:"negated"`
}

// EvaluationCase is a labelled query used to measure routing accuracy
type EvaluationCase struct {
	Query    string `json:"query" yaml:"query"`
	Expected Route  `json:"expected" yaml:"expected"`
}

// EvaluationStats summarizes routing accuracy over a set of labelled queries
type EvaluationStats struct {
	Accuracy  float64 `json:"accuracy"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Total     int     `json:"total"`
}
