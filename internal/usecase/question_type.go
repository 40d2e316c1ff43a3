package usecase

import (
	"strings"

	"github.com/shelfassist/backend/internal/domain"
)

// ClassifyQuestion decides which kind of product-information question is being asked.
// Categories are checked in a fixed order and the first match wins.
func ClassifyQuestion(question string) domain.QuestionType {
	q := strings.ToLower(question)

	switch {
	case strings.TrimSpace(q) == "":
		return domain.QuestionGeneral
	case containsAny(q, "ingredient"):
		return domain.QuestionIngredients
	case containsAny(q, "nutrition", "calorie", "protein", "fat", "sugar"):
		return domain.QuestionNutrition
	case containsAny(q, "price", "cost", "expensive", "cheap"):
		return domain.QuestionPrice
	case containsAny(q, "vegan", "vegetarian", "gluten", "dairy", "halal", "kosher"):
		return domain.QuestionDietary
	default:
		return domain.QuestionGeneral
	}
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
