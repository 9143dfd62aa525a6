package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

const msgPlanNotFound = "Plan not found"

func planOwner(p *models.MealPlan) string { return p.OwnerID }

func validDate(date string) bool {
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}

// ListPlans returns the caller's plans ordered by date, each with its recipe
// attached. Plans whose recipe has been deleted carry a nil recipe.
func (s *Service) ListPlans(ctx context.Context, ownerID string) ([]*models.MealPlan, error) {
	plans, err := s.Plans.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	if len(plans) == 0 {
		return plans, nil
	}

	recipes, err := s.Recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes for meal plans: %w", err)
	}
	byID := make(map[string]*models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	for _, p := range plans {
		p.Recipe = byID[p.RecipeID]
	}
	return plans, nil
}

// UpsertPlan assigns recipeID to date for the caller. inserted is false when
// an existing plan for that date had its recipe replaced.
func (s *Service) UpsertPlan(ctx context.Context, ownerID, date, recipeID string) (*models.MealPlan, bool, error) {
	date = strings.TrimSpace(date)
	recipeID = strings.TrimSpace(recipeID)
	if date == "" || recipeID == "" {
		return nil, false, newError(ErrValidation, "Missing date or recipeId")
	}
	if !validDate(date) {
		return nil, false, newError(ErrValidation, "Date must be formatted as YYYY-MM-DD")
	}

	recipe, err := s.GetRecipe(ctx, ownerID, recipeID)
	if err != nil {
		return nil, false, err
	}

	plan, inserted, err := s.Plans.Upsert(ctx, &models.MealPlan{
		OwnerID:  ownerID,
		Date:     date,
		RecipeID: recipeID,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to save meal plan: %w", err)
	}
	plan.Recipe = recipe
	return plan, inserted, nil
}

// UpdatePlan moves an owned plan to another date or points it at another
// recipe. Moving onto a date that already has a plan is a conflict.
func (s *Service) UpdatePlan(ctx context.Context, ownerID, id string, patch models.MealPlanPatch) (*models.MealPlan, error) {
	plan, err := loadOwned(ctx, ownerID, id, msgPlanNotFound, s.Plans.GetByID, planOwner)
	if err != nil {
		return nil, err
	}

	if patch.Date != nil {
		date := strings.TrimSpace(*patch.Date)
		if !validDate(date) {
			return nil, newError(ErrValidation, "Date must be formatted as YYYY-MM-DD")
		}
		plan.Date = date
	}
	if patch.RecipeID != nil {
		plan.RecipeID = strings.TrimSpace(*patch.RecipeID)
	}

	recipe, err := s.GetRecipe(ctx, ownerID, plan.RecipeID)
	if err != nil {
		return nil, err
	}

	updated, err := s.Plans.Update(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "A plan already exists for that date")
		}
		return nil, fmt.Errorf("failed to update meal plan %s: %w", id, err)
	}
	if updated == nil {
		return nil, newError(ErrNotFound, msgPlanNotFound)
	}
	updated.Recipe = recipe
	return updated, nil
}

// DeletePlan removes an owned plan
func (s *Service) DeletePlan(ctx context.Context, ownerID, id string) error {
	if _, err := loadOwned(ctx, ownerID, id, msgPlanNotFound, s.Plans.GetByID, planOwner); err != nil {
		return err
	}
	if err := s.Plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meal plan %s: %w", id, err)
	}
	return nil
}
