package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicate
		}
	}

	now := r.s.tick()
	row := *user
	row.ID = newID()
	row.CreatedAt = now
	row.UpdatedAt = now
	r.s.users[row.ID] = row

	return &row, nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

type recipeRepository struct{ s *Store }

func copyRecipe(r models.Recipe) *models.Recipe {
	r.Ingredients = cloneStrings(r.Ingredients)
	r.Instructions = cloneStrings(r.Instructions)
	return &r
}

func (r *recipeRepository) Create(_ context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	row := *copyRecipe(*recipe)
	row.ID = newID()
	row.CreatedAt = now
	row.UpdatedAt = now
	r.s.recipes[row.ID] = row

	return copyRecipe(row), nil
}

func (r *recipeRepository) GetByID(_ context.Context, id string) (*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.recipes[id]
	if !ok {
		return nil, nil
	}
	return copyRecipe(row), nil
}

func (r *recipeRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Recipe, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Recipe{}
	for _, row := range r.s.recipes {
		if row.OwnerID == ownerID {
			out = append(out, copyRecipe(row))
		}
	}
	newestFirst(out, func(r *models.Recipe) time.Time { return r.CreatedAt })
	return out, nil
}

func (r *recipeRepository) Update(_ context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.recipes[recipe.ID]; !ok {
		return nil, nil
	}
	row := *copyRecipe(*recipe)
	row.UpdatedAt = r.s.tick()
	r.s.recipes[row.ID] = row

	return copyRecipe(row), nil
}

func (r *recipeRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.recipes, id)
	return nil
}

// ---------------------------------------------------------------------------
// Meal plans
// ---------------------------------------------------------------------------

type mealPlanRepository struct{ s *Store }

// findPlan returns the plan for owner and date. Callers hold mu.
func (r *mealPlanRepository) findPlan(ownerID, date string) (models.MealPlan, bool) {
	for _, p := range r.s.plans {
		if p.OwnerID == ownerID && p.Date == date {
			return p, true
		}
	}
	return models.MealPlan{}, false
}

func (r *mealPlanRepository) Upsert(_ context.Context, plan *models.MealPlan) (*models.MealPlan, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	if existing, ok := r.findPlan(plan.OwnerID, plan.Date); ok {
		existing.RecipeID = plan.RecipeID
		existing.UpdatedAt = now
		r.s.plans[existing.ID] = existing
		return &existing, false, nil
	}

	row := *plan
	row.Recipe = nil
	row.ID = newID()
	row.CreatedAt = now
	row.UpdatedAt = now
	r.s.plans[row.ID] = row

	return &row, true, nil
}

func (r *mealPlanRepository) GetByID(_ context.Context, id string) (*models.MealPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.plans[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *mealPlanRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.MealPlan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.MealPlan{}
	for _, row := range r.s.plans {
		if row.OwnerID == ownerID {
			row := row
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *mealPlanRepository) Update(_ context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.plans[plan.ID]; !ok {
		return nil, nil
	}
	if other, ok := r.findPlan(plan.OwnerID, plan.Date); ok && other.ID != plan.ID {
		return nil, repository.ErrDuplicate
	}

	row := *plan
	row.Recipe = nil
	row.UpdatedAt = r.s.tick()
	r.s.plans[row.ID] = row

	return &row, nil
}

func (r *mealPlanRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.plans, id)
	return nil
}

// ---------------------------------------------------------------------------
// Shopping items
// ---------------------------------------------------------------------------

type shoppingRepository struct{ s *Store }

// insert stores a copy of item. Callers hold mu.
func (r *shoppingRepository) insert(item *models.ShoppingItem) *models.ShoppingItem {
	now := r.s.tick()
	row := *item
	row.ID = newID()
	row.Bought = false
	row.CreatedAt = now
	row.UpdatedAt = now
	r.s.items[row.ID] = row
	return &row
}

func (r *shoppingRepository) Create(_ context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.insert(item), nil
}

func (r *shoppingRepository) CreateMany(_ context.Context, items []*models.ShoppingItem) ([]*models.ShoppingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*models.ShoppingItem, 0, len(items))
	for _, item := range items {
		out = append(out, r.insert(item))
	}
	return out, nil
}

func (r *shoppingRepository) GetByID(_ context.Context, id string) (*models.ShoppingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *shoppingRepository) ListByOwner(_ context.Context, ownerID string, onlyUnbought bool) ([]*models.ShoppingItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.ShoppingItem{}
	for _, row := range r.s.items {
		if row.OwnerID != ownerID || (onlyUnbought && row.Bought) {
			continue
		}
		row := row
		out = append(out, &row)
	}
	newestFirst(out, func(i *models.ShoppingItem) time.Time { return i.CreatedAt })
	return out, nil
}

func (r *shoppingRepository) Update(_ context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[item.ID]; !ok {
		return nil, nil
	}
	row := *item
	row.UpdatedAt = r.s.tick()
	r.s.items[row.ID] = row

	return &row, nil
}

func (r *shoppingRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.items, id)
	return nil
}

// ---------------------------------------------------------------------------
// Pantries
// ---------------------------------------------------------------------------

type pantryRepository struct{ s *Store }

func (r *pantryRepository) GetByOwner(_ context.Context, ownerID string) (*models.Pantry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.pantries[ownerID]
	if !ok {
		return nil, nil
	}
	row.Ingredients = cloneStrings(row.Ingredients)
	return &row, nil
}

func (r *pantryRepository) Upsert(_ context.Context, pantry *models.Pantry) (*models.Pantry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.tick()
	row, ok := r.s.pantries[pantry.OwnerID]
	if !ok {
		row = models.Pantry{ID: newID(), OwnerID: pantry.OwnerID, CreatedAt: now}
	}
	row.Ingredients = cloneStrings(pantry.Ingredients)
	if row.Ingredients == nil {
		row.Ingredients = []string{}
	}
	row.UpdatedAt = now
	r.s.pantries[row.OwnerID] = row

	out := row
	out.Ingredients = cloneStrings(row.Ingredients)
	return &out, nil
}
