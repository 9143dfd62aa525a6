package models

import "time"

// RecipeSource tells where a recipe came from
type RecipeSource string

const (
	RecipeSourceAI   RecipeSource = "AI-generated"
	RecipeSourceUser RecipeSource = "user-generated"
)

// Valid reports whether s is a known source
func (s RecipeSource) Valid() bool {
	return s == RecipeSourceAI || s == RecipeSourceUser
}

// Recipe represents a saved recipe
type Recipe struct {
	ID           string       `json:"id" firestore:"-"`
	OwnerID      string       `json:"ownerId" firestore:"ownerId"`
	Title        string       `json:"title" firestore:"title"`
	Description  string       `json:"description" firestore:"description"`
	Ingredients  []string     `json:"ingredients" firestore:"ingredients"`
	Instructions []string     `json:"instructions" firestore:"instructions"`
	Image        string       `json:"image" firestore:"image"`
	Source       RecipeSource `json:"source" firestore:"source"`
	CreatedAt    time.Time    `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" firestore:"updatedAt"`
}

// RecipePatch holds the fields of a partial recipe update. Nil fields are
// left untouched.
type RecipePatch struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Ingredients  []string      `json:"ingredients,omitempty"`
	Instructions []string      `json:"instructions,omitempty"`
	Image        *string       `json:"image,omitempty"`
	Source       *RecipeSource `json:"source,omitempty"`
}
