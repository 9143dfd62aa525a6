package models

import (
	"bytes"
	"encoding/json"
)

// Preference is a free-form generation preference. It accepts both JSON
// strings and numbers so that `"cookingTime": 30` and `"30"` decode alike.
type Preference string

// UnmarshalJSON implements json.Unmarshaler
func (p *Preference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Preference(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Preference(n.String())
	return nil
}

// GenerationRequest carries the user's preferences for a generated recipe
type GenerationRequest struct {
	Ingredients Preference `json:"ingredients"`
	Dietary     Preference `json:"dietary,omitempty"`
	Cuisine     Preference `json:"cuisine,omitempty"`
	CookingTime Preference `json:"cookingTime,omitempty"`
	Servings    Preference `json:"servings,omitempty"`
}

// NutritionInfo is a display-only nutrition breakdown
type NutritionInfo struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// GeneratedRecipe is a recipe draft produced by the language model. It is
// never persisted; clients save it through the recipe endpoints.
type GeneratedRecipe struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	CookingTime   string        `json:"cookingTime"`
	Servings      string        `json:"servings"`
	Ingredients   []string      `json:"ingredients"`
	Instructions  []string      `json:"instructions"`
	NutritionInfo NutritionInfo `json:"nutritionInfo"`
	Image         *string       `json:"image"`
}
