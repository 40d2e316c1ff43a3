package llm

import (
	"fmt"
	"strings"

	"github.com/shelfassist/backend/internal/domain"
)

type promptTemplate struct {
	topic    string
	guidance []string
	examples [][2]string
}

var templates = map[domain.QuestionType]promptTemplate{
	domain.QuestionIngredients: {
		topic: "ingredients",
		guidance: []string{
			"Be factual and helpful",
			"If unsure, recommend checking the product label",
		},
		examples: [][2]string{
			{"What are the ingredients in bread?", `{"answer": "Bread typically contains flour, water, yeast, salt, and sometimes sugar or oil. Check the product label for the complete ingredient list.", "confidence": 0.8}`},
			{"What's in this milk?", `{"answer": "Milk typically contains milk, vitamins A and D, and sometimes added ingredients. Check the product label for the complete ingredient list.", "confidence": 0.9}`},
		},
	},
	domain.QuestionNutrition: {
		topic: "nutrition",
		guidance: []string{
			"Be factual and helpful",
			"If unsure, recommend checking the nutrition label",
		},
		examples: [][2]string{
			{"How many calories in yogurt?", `{"answer": "Yogurt typically contains 100-150 calories per serving, depending on the brand and type. Check the nutrition label for specific calorie information.", "confidence": 0.8}`},
			{"What's the protein content?", `{"answer": "Protein content varies by product type. Greek yogurt typically has 15-20g protein per serving, while regular yogurt has 8-12g. Check the nutrition label for specific amounts.", "confidence": 0.9}`},
		},
	},
	domain.QuestionPrice: {
		topic: "pricing",
		guidance: []string{
			"Be helpful but note that prices vary",
			"Recommend checking current pricing",
		},
		examples: [][2]string{
			{"What's the price of cheese?", `{"answer": "Cheese prices vary by brand, type, and size. Typical range is $3-8. Check the current price at the store or use the price checker.", "confidence": 0.6}`},
			{"How much does milk cost?", `{"answer": "Milk prices vary by brand and size. Typical range is $2-5. Check the current price at the store or use the price checker.", "confidence": 0.7}`},
		},
	},
	domain.QuestionDietary: {
		topic: "dietary information",
		guidance: []string{
			"Be factual and helpful",
			"Recommend checking product labels for certifications",
		},
		examples: [][2]string{
			{"Is this product vegan?", `{"answer": "Vegan status depends on the specific brand and ingredients. Look for 'vegan' labeling or check the ingredient list for animal products.", "confidence": 0.7}`},
			{"Is this gluten-free?", `{"answer": "Gluten-free status depends on the specific brand and manufacturing process. Look for 'gluten-free' labeling or check with store staff for certified options.", "confidence": 0.8}`},
		},
	},
	domain.QuestionGeneral: {
		topic: "product information",
		guidance: []string{
			"Be factual and helpful",
			"If unsure, recommend checking the product label or asking store staff",
		},
		examples: [][2]string{
			{"Tell me about this product", `{"answer": "This is a quality product with various options available. For specific information about ingredients, nutrition, or dietary restrictions, please check the product label or ask store staff for assistance.", "confidence": 0.6}`},
			{"What is this?", `{"answer": "This is a quality product. For specific information about ingredients, nutrition, or dietary restrictions, please check the product label or ask store staff for assistance.", "confidence": 0.5}`},
		},
	},
}

// BuildPrompt renders the user prompt for a question of the given type
func BuildPrompt(product, question string, questionType domain.QuestionType, attrs domain.ProductAttributes) string {
	tmpl, ok := templates[questionType]
	if !ok {
		tmpl = templates[domain.QuestionGeneral]
	}
	if product == "" {
		product = "product"
	}
	if question == "" {
		question = "question"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Product: %s\n", product)
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Context: %s\n\n", buildContext(attrs))

	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "- Only answer about %s, never locations\n", tmpl.topic)
	for _, line := range tmpl.guidance {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("- Return JSON with \"answer\" and \"confidence\" fields\n\n")

	b.WriteString("Examples:\n")
	for _, ex := range tmpl.examples {
		fmt.Fprintf(&b, "Q: %q\nA: %s\n\n", ex[0], ex[1])
	}
	b.WriteString("Answer:")

	return b.String()
}

// buildContext joins the known catalog attributes, e.g. "Brand: Acme | Category: Dairy"
func buildContext(attrs domain.ProductAttributes) string {
	var parts []string
	if attrs.Brand != "" {
		parts = append(parts, "Brand: "+attrs.Brand)
	}
	if attrs.Category != "" {
		parts = append(parts, "Category: "+attrs.Category)
	}
	return strings.Join(parts, " | ")
}
