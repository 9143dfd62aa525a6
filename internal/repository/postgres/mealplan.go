package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

const mealPlanColumns = `id, owner_id, date, recipe_id, created_at, updated_at`

type mealPlanRepository struct {
	db *sql.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *sql.DB) repository.MealPlanRepository {
	return &mealPlanRepository{db: db}
}

func scanMealPlan(row rowScanner) (*models.MealPlan, error) {
	plan := &models.MealPlan{}
	err := row.Scan(
		&plan.ID,
		&plan.OwnerID,
		&plan.Date,
		&plan.RecipeID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	return plan, err
}

// Upsert relies on the meal_plans_owner_date_key constraint: a conflicting
// insert turns into an update of the recipe reference. xmax is zero only for
// freshly inserted tuples.
func (r *mealPlanRepository) Upsert(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, bool, error) {
	query := `
		INSERT INTO meal_plans (owner_id, date, recipe_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT ON CONSTRAINT meal_plans_owner_date_key
		DO UPDATE SET recipe_id = EXCLUDED.recipe_id, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		plan.OwnerID,
		plan.Date,
		plan.RecipeID,
		time.Now(),
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt, &inserted)

	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert meal plan: %w", err)
	}

	return plan, inserted, nil
}

func (r *mealPlanRepository) GetByID(ctx context.Context, id string) (*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE id = $1`

	plan, err := scanMealPlan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan by ID: %w", err)
	}

	return plan, nil
}

func (r *mealPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.MealPlan, error) {
	query := `SELECT ` + mealPlanColumns + ` FROM meal_plans WHERE owner_id = $1 ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.MealPlan{}
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (r *mealPlanRepository) Update(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	query := `
		UPDATE meal_plans
		SET date = $2, recipe_id = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at`

	plan.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.Date,
		plan.RecipeID,
		plan.UpdatedAt,
	).Scan(&plan.UpdatedAt)

	if err != nil {
		if hasCode(err, codeUniqueViolation) {
			return nil, repository.ErrDuplicate
		}
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update meal plan: %w", err)
	}

	return plan, nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meal_plans WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		if isMissing(err) {
			return nil
		}
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}

	return nil
}
