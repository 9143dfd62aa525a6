package postgres

import (
	"database/sql"

	"github.com/Kerhoff/MealMate/internal/repository"
)

// NewRepositories builds every Postgres-backed repository over db
func NewRepositories(db *sql.DB) repository.Repositories {
	return repository.Repositories{
		Users:    NewUserRepository(db),
		Recipes:  NewRecipeRepository(db),
		Plans:    NewMealPlanRepository(db),
		Shopping: NewShoppingRepository(db),
		Pantries: NewPantryRepository(db),
	}
}
