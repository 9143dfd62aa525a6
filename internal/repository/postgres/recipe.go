package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/lib/pq"
)

const recipeColumns = `id, owner_id, title, description, ingredients, instructions, image, source, created_at, updated_at`

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *sql.DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := row.Scan(
		&recipe.ID,
		&recipe.OwnerID,
		&recipe.Title,
		&recipe.Description,
		pq.Array(&recipe.Ingredients),
		pq.Array(&recipe.Instructions),
		&recipe.Image,
		&recipe.Source,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	return recipe, err
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (owner_id, title, description, ingredients, instructions, image, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		recipe.OwnerID,
		recipe.Title,
		recipe.Description,
		pq.Array(recipe.Ingredients),
		pq.Array(recipe.Instructions),
		recipe.Image,
		recipe.Source,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE id = $1`

	recipe, err := scanRecipe(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := []*models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		UPDATE recipes
		SET title = $2, description = $3, ingredients = $4, instructions = $5,
		    image = $6, source = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at`

	recipe.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		pq.Array(recipe.Ingredients),
		pq.Array(recipe.Instructions),
		recipe.Image,
		recipe.Source,
		recipe.UpdatedAt,
	).Scan(&recipe.UpdatedAt)

	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	return recipe, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM recipes WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		if isMissing(err) {
			return nil
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	return nil
}
