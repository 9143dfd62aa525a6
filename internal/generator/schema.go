package generator

import "google.golang.org/genai"

var stringList = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

// recipeSchema constrains Gemini output to the GeneratedRecipe shape.
var recipeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":        {Type: genai.TypeString},
		"description":  {Type: genai.TypeString, Description: "50-70 words"},
		"cookingTime":  {Type: genai.TypeString, Description: "e.g. 30 minutes"},
		"servings":     {Type: genai.TypeString, Description: "e.g. 4 servings"},
		"ingredients":  stringList,
		"instructions": stringList,
		"nutritionInfo": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"calories": {Type: genai.TypeString},
				"protein":  {Type: genai.TypeString},
				"carbs":    {Type: genai.TypeString},
				"fat":      {Type: genai.TypeString},
			},
			Required: []string{"calories", "protein", "carbs", "fat"},
		},
	},
	Required: []string{"title", "description", "cookingTime", "servings", "ingredients", "instructions", "nutritionInfo"},
	PropertyOrdering: []string{
		"title", "description", "cookingTime", "servings", "ingredients", "instructions", "nutritionInfo",
	},
}

// recipeJSONSchema is the same shape as strict JSON Schema for OpenAI.
var recipeJSONSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"title":        map[string]any{"type": "string"},
		"description":  map[string]any{"type": "string", "description": "50-70 words"},
		"cookingTime":  map[string]any{"type": "string"},
		"servings":     map[string]any{"type": "string"},
		"ingredients":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"instructions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"nutritionInfo": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"calories": map[string]any{"type": "string"},
				"protein":  map[string]any{"type": "string"},
				"carbs":    map[string]any{"type": "string"},
				"fat":      map[string]any{"type": "string"},
			},
			"required": []string{"calories", "protein", "carbs", "fat"},
		},
	},
	"required": []string{"title", "description", "cookingTime", "servings", "ingredients", "instructions", "nutritionInfo"},
}
