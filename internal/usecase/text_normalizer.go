package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for query normalization
var (
	// Anything that is not a word character, whitespace, hyphen or apostrophe
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s\-']`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeQuery lowercases text, replaces punctuation other than hyphens and
// apostrophes with spaces and collapses whitespace
func NormalizeQuery(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = nonWordPattern.ReplaceAllString(normalized, " ")
	normalized = multiSpacePattern.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// wordPhrases returns every contiguous run of 1 to maxWords words of the
// normalized text, ordered by start position then length
func wordPhrases(normalized string, maxWords int) []string {
	words := strings.Fields(normalized)
	if len(words) == 0 || maxWords <= 0 {
		return nil
	}

	phrases := make([]string, 0, len(words)*maxWords)
	for i := range words {
		for j := i + 1; j <= len(words) && j <= i+maxWords; j++ {
			phrases = append(phrases, strings.Join(words[i:j], " "))
		}
	}
	return phrases
}

// questionCacheKey builds the answer cache key for a question of the given type
func questionCacheKey(questionType, question string) string {
	return "answer:" + questionType + ":" + NormalizeQuery(question)
}
