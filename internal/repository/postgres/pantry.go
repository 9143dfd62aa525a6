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

type pantryRepository struct {
	db *sql.DB
}

// NewPantryRepository creates a new pantry repository
func NewPantryRepository(db *sql.DB) repository.PantryRepository {
	return &pantryRepository{db: db}
}

func (r *pantryRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Pantry, error) {
	query := `
		SELECT id, owner_id, ingredients, created_at, updated_at
		FROM pantries
		WHERE owner_id = $1`

	pantry := &models.Pantry{}
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&pantry.ID,
		&pantry.OwnerID,
		pq.Array(&pantry.Ingredients),
		&pantry.CreatedAt,
		&pantry.UpdatedAt,
	)

	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pantry: %w", err)
	}

	return pantry, nil
}

func (r *pantryRepository) Upsert(ctx context.Context, pantry *models.Pantry) (*models.Pantry, error) {
	query := `
		INSERT INTO pantries (owner_id, ingredients, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (owner_id)
		DO UPDATE SET ingredients = EXCLUDED.ingredients, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`

	if pantry.Ingredients == nil {
		pantry.Ingredients = []string{}
	}

	err := r.db.QueryRowContext(ctx, query,
		pantry.OwnerID,
		pq.Array(pantry.Ingredients),
		time.Now(),
	).Scan(&pantry.ID, &pantry.CreatedAt, &pantry.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert pantry: %w", err)
	}

	return pantry, nil
}
