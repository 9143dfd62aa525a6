package models

import "time"

// MealPlan assigns a recipe to a calendar date. There is at most one plan
// per owner and date.
type MealPlan struct {
	ID        string    `json:"id" firestore:"-"`
	OwnerID   string    `json:"ownerId" firestore:"ownerId"`
	Date      string    `json:"date" firestore:"date"`
	RecipeID  string    `json:"recipeId" firestore:"recipeId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`

	// Recipe is populated on read; nil when the recipe has been deleted.
	Recipe *Recipe `json:"recipe" firestore:"-"`
}

// MealPlanPatch holds the fields of a partial plan update
type MealPlanPatch struct {
	Date     *string `json:"date,omitempty"`
	RecipeID *string `json:"recipeId,omitempty"`
}
