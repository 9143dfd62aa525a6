package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/models"
)

type recipeRepository struct {
	store *firestore.Client
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	ref := r.store.Collection(colRecipes).NewDoc()

	now := time.Now()
	recipe.ID = ref.ID
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if _, err := ref.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	if !validID(id) {
		return nil, nil
	}
	var recipe models.Recipe
	found, err := getDoc(ctx, r.store.Collection(colRecipes).Doc(id), &recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}
	if !found {
		return nil, nil
	}
	recipe.ID = id
	return &recipe, nil
}

func (r *recipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	recipes := []*models.Recipe{}
	err := queryAll(ctx, byOwner(r.store.Collection(colRecipes), ownerID), func(doc *firestore.DocumentSnapshot) error {
		var recipe models.Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return err
		}
		recipe.ID = doc.Ref.ID
		recipes = append(recipes, &recipe)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	sortNewestFirst(recipes, func(r *models.Recipe) time.Time { return r.CreatedAt })
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if !validID(recipe.ID) {
		return nil, nil
	}
	recipe.UpdatedAt = time.Now()
	ref := r.store.Collection(colRecipes).Doc(recipe.ID)

	// Set on a missing document would create it; Update fails instead.
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "title", Value: recipe.Title},
		{Path: "description", Value: recipe.Description},
		{Path: "ingredients", Value: recipe.Ingredients},
		{Path: "instructions", Value: recipe.Instructions},
		{Path: "image", Value: recipe.Image},
		{Path: "source", Value: recipe.Source},
		{Path: "updatedAt", Value: recipe.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.store.Collection(colRecipes).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
