package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/Kerhoff/MealMate/internal/repository/repotest"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	user, err := repos.Users.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	_, err = repos.Users.Create(ctx, &models.User{Name: "Imposter", Email: "alice@example.com"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repos.Users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	missing, err := repos.Users.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRecipesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repos.Recipes.Create(ctx, &models.Recipe{OwnerID: "u1", Title: title, Ingredients: []string{"x"}})
		require.NoError(t, err)
	}
	_, err := repos.Recipes.Create(ctx, &models.Recipe{OwnerID: "u2", Title: "other"})
	require.NoError(t, err)

	list, err := repos.Recipes.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "third", list[0].Title)
	require.Equal(t, "first", list[2].Title)

	// Returned rows do not alias stored ones.
	list[0].Ingredients[0] = "mutated"
	again, err := repos.Recipes.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	require.Equal(t, "x", again.Ingredients[0])

	require.NoError(t, repos.Recipes.Delete(ctx, list[0].ID))
	gone, err := repos.Recipes.GetByID(ctx, list[0].ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestMealPlanUpsert(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	first, inserted, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: "u1", Date: "2026-10-20", RecipeID: "r1"})
	require.NoError(t, err)
	require.True(t, inserted)

	second, inserted, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: "u1", Date: "2026-10-20", RecipeID: "r2"})
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "r2", second.RecipeID)

	// Same date for another user is a separate plan.
	_, inserted, err = repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: "u2", Date: "2026-10-20", RecipeID: "r9"})
	require.NoError(t, err)
	require.True(t, inserted)

	other, _, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: "u1", Date: "2026-10-19", RecipeID: "r1"})
	require.NoError(t, err)

	plans, err := repos.Plans.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "2026-10-19", plans[0].Date)

	other.Date = "2026-10-20"
	_, err = repos.Plans.Update(ctx, other)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	other.Date = "2026-10-25"
	moved, err := repos.Plans.Update(ctx, other)
	require.NoError(t, err)
	require.Equal(t, "2026-10-25", moved.Date)
}

func TestMealPlanUpsertConcurrent(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, inserted, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: "u1", Date: "2026-10-20", RecipeID: "r1"})
			if err != nil {
				t.Error(err)
				return
			}
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, insertedCount)
	plans, err := repos.Plans.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
}

func TestShoppingItems(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	items, err := repos.Shopping.CreateMany(ctx, []*models.ShoppingItem{
		{OwnerID: "u1", Name: "eggs"},
		{OwnerID: "u1", Name: "flour"},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items[0].Bought = true
	_, err = repos.Shopping.Update(ctx, items[0])
	require.NoError(t, err)

	all, err := repos.Shopping.ListByOwner(ctx, "u1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	unbought, err := repos.Shopping.ListByOwner(ctx, "u1", true)
	require.NoError(t, err)
	require.Len(t, unbought, 1)
	require.Equal(t, "flour", unbought[0].Name)

	missing, err := repos.Shopping.Update(ctx, &models.ShoppingItem{ID: "nope"})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPantryUpsert(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	none, err := repos.Pantries.GetByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, none)

	first, err := repos.Pantries.Upsert(ctx, &models.Pantry{OwnerID: "u1", Ingredients: []string{"rice"}})
	require.NoError(t, err)

	second, err := repos.Pantries.Upsert(ctx, &models.Pantry{OwnerID: "u1", Ingredients: []string{"beans"}})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, []string{"beans"}, second.Ingredients)
	require.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestConformance(t *testing.T) {
	repotest.Run(t, NewStore().Repositories())
}
