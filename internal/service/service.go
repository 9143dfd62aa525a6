package service

import (
	"context"
	"time"

	"github.com/Kerhoff/MealMate/internal/auth"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/sirupsen/logrus"
)

// RecipeGenerator produces recipe drafts from user preferences
type RecipeGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.GeneratedRecipe, error)
}

// Notifier delivers a shopping list to a chat
type Notifier interface {
	ShareShoppingList(chatID int64, items []*models.ShoppingItem) error
}

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application.
type Service struct {
	logger    *logrus.Logger
	tokens    auth.Maker
	tokenTTL  time.Duration
	generator RecipeGenerator
	notifier  Notifier

	Users    repository.UserRepository
	Recipes  repository.RecipeRepository
	Plans    repository.MealPlanRepository
	Shopping repository.ShoppingRepository
	Pantries repository.PantryRepository
}

// New creates a new Service with all required dependencies. notifier may be
// nil, in which case sharing the shopping list is unavailable.
func New(logger *logrus.Logger,
	repos repository.Repositories,
	tokens auth.Maker,
	tokenTTL time.Duration,
	generator RecipeGenerator,
	notifier Notifier,
) *Service {
	return &Service{
		logger: logger, tokens: tokens, tokenTTL: tokenTTL,
		generator: generator, notifier: notifier,
		Users: repos.Users, Recipes: repos.Recipes, Plans: repos.Plans,
		Shopping: repos.Shopping, Pantries: repos.Pantries,
	}
}

// CanShare reports whether a notifier is configured
func (s *Service) CanShare() bool {
	return s.notifier != nil
}

// loadOwned fetches a row and checks that it belongs to callerID. A missing
// row yields ErrNotFound and a foreign one ErrForbidden; both carry the same
// client message.
func loadOwned[T any](ctx context.Context, callerID, id, notFoundMsg string,
	get func(context.Context, string) (*T, error),
	owner func(*T) string,
) (*T, error) {
	row, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, newError(ErrNotFound, notFoundMsg)
	}
	if owner(row) != callerID {
		return nil, newError(ErrForbidden, notFoundMsg)
	}
	return row, nil
}
