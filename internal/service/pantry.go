package service

import (
	"context"
	"fmt"

	"github.com/Kerhoff/MealMate/internal/models"
)

// GetPantry returns the caller's pantry ingredients
func (s *Service) GetPantry(ctx context.Context, ownerID string) ([]string, error) {
	pantry, err := s.Pantries.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry: %w", err)
	}
	if pantry == nil {
		return nil, newError(ErrNotFound, "Pantry not found")
	}
	return pantry.Ingredients, nil
}

// SavePantry replaces the caller's pantry ingredients, creating the pantry on
// first use.
func (s *Service) SavePantry(ctx context.Context, ownerID string, ingredients []string) ([]string, error) {
	pantry, err := s.Pantries.Upsert(ctx, &models.Pantry{
		OwnerID:     ownerID,
		Ingredients: cleanList(ingredients),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save pantry: %w", err)
	}
	return pantry.Ingredients, nil
}
