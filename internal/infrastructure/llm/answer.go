package llm

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shelfassist/backend/internal/domain"
)

const parseFailureAnswer = "I'm sorry, I encountered an error processing your request. Please try again or ask store staff for assistance."

type modelReply struct {
	Answer     *string     `json:"answer"`
	Confidence interface{} `json:"confidence"`
}

// ParseAnswer extracts the answer text and a confidence in [0, 1] from a model
// reply. JSON replies carry their own confidence; plain text is scored by shape.
func ParseAnswer(raw string) (string, float64) {
	raw = strings.TrimSpace(raw)

	if body, ok := jsonObject(raw); ok {
		var reply modelReply
		if err := json.Unmarshal([]byte(body), &reply); err == nil {
			if reply.Answer == nil {
				return parseFailureAnswer, 0.2
			}
			confidence, ok := toFloat(reply.Confidence)
			if !ok {
				return parseFailureAnswer, 0.2
			}
			return strings.TrimSpace(*reply.Answer), clampUnit(confidence)
		}
	}

	lower := strings.ToLower(raw)
	switch {
	case utf8.RuneCountInString(raw) < 20:
		return raw, 0.4
	case strings.Contains(lower, "sorry") || strings.Contains(lower, "unable"):
		return raw, 0.3
	case strings.Contains(lower, "check") || strings.Contains(lower, "label"):
		return raw, 0.8
	default:
		return raw, 0.7
	}
}

// jsonObject returns the outermost {...} span of s, tolerating prose around it
func jsonObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0.5, true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}

// Caveats lists the warnings that accompany an answer, joined by "; ".
// Prices never come from the catalog, so any price answer is flagged.
func Caveats(answer string, confidence float64, questionType domain.QuestionType, attrs domain.ProductAttributes) string {
	var caveats []string
	if confidence < 0.6 {
		caveats = append(caveats, "Low confidence in answer")
	}
	if attrs.IsEmpty() {
		caveats = append(caveats, "Limited product information available")
	}
	if questionType == domain.QuestionPrice || strings.Contains(strings.ToLower(answer), "price") {
		caveats = append(caveats, "Price information may not be current")
	}
	return strings.Join(caveats, "; ")
}
