package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/models"
)

const msgRecipeNotFound = "Recipe not found"

func recipeOwner(r *models.Recipe) string { return r.OwnerID }

// ListRecipes returns the caller's recipes, newest first
func (s *Service) ListRecipes(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	recipes, err := s.Recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe returns one of the caller's recipes
func (s *Service) GetRecipe(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	return loadOwned(ctx, ownerID, id, msgRecipeNotFound, s.Recipes.GetByID, recipeOwner)
}

func validateRecipe(r *models.Recipe) error {
	var v validationErrors
	if r.Title == "" {
		v.add("title is required")
	}
	if len(r.Ingredients) == 0 {
		v.add("ingredients must not be empty")
	}
	if len(r.Instructions) == 0 {
		v.add("instructions must not be empty")
	}
	if !r.Source.Valid() {
		v.add(fmt.Sprintf("source must be %q or %q", models.RecipeSourceAI, models.RecipeSourceUser))
	}
	return v.err("Missing required fields")
}

// CreateRecipe saves a recipe for ownerID. Any owner set on draft is ignored.
func (s *Service) CreateRecipe(ctx context.Context, ownerID string, draft *models.Recipe) (*models.Recipe, error) {
	recipe := &models.Recipe{
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		Ingredients:  cleanList(draft.Ingredients),
		Instructions: cleanList(draft.Instructions),
		Image:        strings.TrimSpace(draft.Image),
		Source:       draft.Source,
	}
	if recipe.Source == "" {
		recipe.Source = models.RecipeSourceUser
	}
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}

	recipe, err := s.Recipes.Create(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// UpdateRecipe applies the fields present in patch to an owned recipe
func (s *Service) UpdateRecipe(ctx context.Context, ownerID, id string, patch models.RecipePatch) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		recipe.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		recipe.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Ingredients != nil {
		recipe.Ingredients = cleanList(patch.Ingredients)
	}
	if patch.Instructions != nil {
		recipe.Instructions = cleanList(patch.Instructions)
	}
	if patch.Image != nil {
		recipe.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Source != nil {
		recipe.Source = *patch.Source
	}
	if err := validateRecipe(recipe); err != nil {
		return nil, err
	}

	updated, err := s.Recipes.Update(ctx, recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe %s: %w", id, err)
	}
	if updated == nil {
		return nil, newError(ErrNotFound, msgRecipeNotFound)
	}
	return updated, nil
}

// DeleteRecipe removes an owned recipe. Meal plans that reference it are
// left in place.
func (s *Service) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	if _, err := s.GetRecipe(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.Recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}
