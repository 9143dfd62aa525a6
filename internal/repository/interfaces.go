package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/MealMate/internal/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/Kerhoff/MealMate/internal/repository UserRepository,RecipeRepository,MealPlanRepository,ShoppingRepository,PantryRepository

// ErrDuplicate is returned when a write violates a uniqueness constraint
// (user email, meal plan owner+date).
var ErrDuplicate = errors.New("duplicate key")

// Lookups return (nil, nil) when the row does not exist. Delete returns nil
// for a missing row.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	Delete(ctx context.Context, id string) error
}

// MealPlanRepository defines the interface for meal plan operations
type MealPlanRepository interface {
	// Upsert inserts the plan or, when a plan already exists for the same
	// owner and date, replaces its recipe reference. inserted reports which
	// of the two happened.
	Upsert(ctx context.Context, plan *models.MealPlan) (saved *models.MealPlan, inserted bool, err error)
	GetByID(ctx context.Context, id string) (*models.MealPlan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.MealPlan, error)
	// Update returns ErrDuplicate when the new date is taken by another plan.
	Update(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error)
	Delete(ctx context.Context, id string) error
}

// ShoppingRepository defines the interface for shopping list operations
type ShoppingRepository interface {
	Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error)
	CreateMany(ctx context.Context, items []*models.ShoppingItem) ([]*models.ShoppingItem, error)
	GetByID(ctx context.Context, id string) (*models.ShoppingItem, error)
	ListByOwner(ctx context.Context, ownerID string, onlyUnbought bool) ([]*models.ShoppingItem, error)
	Update(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error)
	Delete(ctx context.Context, id string) error
}

// PantryRepository defines the interface for pantry operations
type PantryRepository interface {
	GetByOwner(ctx context.Context, ownerID string) (*models.Pantry, error)
	Upsert(ctx context.Context, pantry *models.Pantry) (*models.Pantry, error)
}

// Repositories bundles one implementation of every store
type Repositories struct {
	Users    UserRepository
	Recipes  RecipeRepository
	Plans    MealPlanRepository
	Shopping ShoppingRepository
	Pantries PantryRepository
}
