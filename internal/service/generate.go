package service

import (
	"context"
	"strings"

	"github.com/Kerhoff/MealMate/internal/models"
)

// GenerateRecipe asks the generator for a recipe draft. The draft is not
// saved.
func (s *Service) GenerateRecipe(ctx context.Context, req models.GenerationRequest) (*models.GeneratedRecipe, error) {
	if strings.TrimSpace(string(req.Ingredients)) == "" {
		return nil, newError(ErrValidation, "Ingredients are required.")
	}

	recipe, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("recipe generation failed")
		return nil, wrapError(ErrUpstream, "An error occurred while generating the recipe.", err)
	}
	return recipe, nil
}
