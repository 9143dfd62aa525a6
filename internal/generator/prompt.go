package generator

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/models"
)

const systemInstruction = `You are a creative home cook who writes clear, practical recipes. ` +
	`Always answer with a single JSON object and nothing else.`

// Preferences joins the set preferences into one line, or "none".
func Preferences(req models.GenerationRequest) string {
	var prefs []string
	if v := strings.TrimSpace(string(req.Dietary)); v != "" {
		prefs = append(prefs, "Dietary: "+v)
	}
	if v := strings.TrimSpace(string(req.Cuisine)); v != "" {
		prefs = append(prefs, "Cuisine: "+v)
	}
	if v := strings.TrimSpace(string(req.CookingTime)); v != "" {
		prefs = append(prefs, fmt.Sprintf("Cooking Time: around %s minutes", v))
	}
	if v := strings.TrimSpace(string(req.Servings)); v != "" {
		prefs = append(prefs, fmt.Sprintf("Servings: %s people", v))
	}
	if len(prefs) == 0 {
		return "none"
	}
	return strings.Join(prefs, ", ")
}

// BuildPrompt renders the user prompt for req
func BuildPrompt(req models.GenerationRequest) string {
	return fmt.Sprintf(`Create a detailed recipe using these ingredients: %s.
Preferences: %s.
Return a JSON object with this exact structure:
{
  "title": "string",
  "description": "string (50-70 words)",
  "cookingTime": "string (e.g., '30 minutes')",
  "servings": "string (e.g., '4 servings')",
  "ingredients": ["string"],
  "instructions": ["string"],
  "nutritionInfo": {
    "calories": "string",
    "protein": "string",
    "carbs": "string",
    "fat": "string"
  }
}
`, strings.TrimSpace(string(req.Ingredients)), Preferences(req))
}
