package domain

// MatchType identifies the strategy that produced a product candidate
type MatchType string

const (
	MatchExact   MatchType = "exact"   // n-gram equals a registered synonym
	MatchSynonym MatchType = "synonym" // n-gram is close to a registered synonym
	MatchFuzzy   MatchType = "fuzzy"   // n-gram is contained in the product name
	MatchTrigram MatchType = "trigram" // character trigram overlap with the product name
)

// ProductRecord represents a catalog product as read from the store
type ProductRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
}

// SynonymEntry maps an alternate phrase to a catalog product
type SynonymEntry struct {
	Synonym   string `json:"synonym"`
	ProductID string `json:"productId"`
	Name      string `json:"productName"`
	Brand     string `json:"brand"`
}

// ProductCandidate is a catalog product proposed as the referent of a query
type ProductCandidate struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category,omitempty"`
	Confidence  float64   `json:"confidence"` // 0.0 - 1.0
	MatchType   MatchType `json:"matchType"`
	MatchedText string    `json:"matchedText"`
}

// ProductLocation is a product together with where it sits in the store
type ProductLocation struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Aisle       string  `json:"aisle"`
	Bay         string  `json:"bay"`
	Shelf       string  `json:"shelf"`
	Confidence  float64 `json:"confidence"`
}

// CatalogStats holds row counts for the catalog tables
type CatalogStats struct {
	Products   int `json:"products"`
	Brands     int `json:"brands"`
	Categories int `json:"categories"`
	Synonyms   int `json:"synonyms"`
	Locations  int `json:"locations"`
}
