// Package repotest holds behaviour every repository backend must share.
// Backend tests call Run with a fresh set of repositories.
package repotest

import (
	"context"
	"testing"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Run exercises repos. Rows are created under fresh users so a shared
// database may be reused between runs.
func Run(t *testing.T, repos repository.Repositories) {
	t.Run("Users", func(t *testing.T) { testUsers(t, repos) })
	t.Run("Recipes", func(t *testing.T) { testRecipes(t, repos) })
	t.Run("MealPlans", func(t *testing.T) { testMealPlans(t, repos) })
	t.Run("Shopping", func(t *testing.T) { testShopping(t, repos) })
	t.Run("Pantry", func(t *testing.T) { testPantry(t, repos) })
}

func newUser(t *testing.T, repos repository.Repositories) *models.User {
	t.Helper()
	user, err := repos.Users.Create(context.Background(), &models.User{
		Name:         "Test",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	return user
}

func newRecipe(t *testing.T, repos repository.Repositories, ownerID, title string) *models.Recipe {
	t.Helper()
	recipe, err := repos.Recipes.Create(context.Background(), &models.Recipe{
		OwnerID:      ownerID,
		Title:        title,
		Ingredients:  []string{"water", "salt"},
		Instructions: []string{"Boil."},
		Source:       models.RecipeSourceUser,
	})
	require.NoError(t, err)
	return recipe
}

func testUsers(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	user := newUser(t, repos)

	_, err := repos.Users.Create(ctx, &models.User{Name: "Dup", Email: user.Email, PasswordHash: "hash"})
	require.ErrorIs(t, err, repository.ErrDuplicate)

	byEmail, err := repos.Users.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	byID, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	missing, err := repos.Users.GetByEmail(ctx, uuid.NewString()+"@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)

	missing, err = repos.Users.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	require.Nil(t, missing)
}

func testRecipes(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	owner := newUser(t, repos)

	first := newRecipe(t, repos, owner.ID, "first")
	second := newRecipe(t, repos, owner.ID, "second")

	list, err := repos.Recipes.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	first.Title = "renamed"
	first.Ingredients = []string{"flour"}
	updated, err := repos.Recipes.Update(ctx, first)
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, []string{"flour"}, updated.Ingredients)

	require.NoError(t, repos.Recipes.Delete(ctx, first.ID))
	gone, err := repos.Recipes.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	gone, err = repos.Recipes.Update(ctx, first)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func testMealPlans(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	owner := newUser(t, repos)
	other := newUser(t, repos)
	soup := newRecipe(t, repos, owner.ID, "soup")
	stew := newRecipe(t, repos, owner.ID, "stew")

	plan, inserted, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: owner.ID, Date: "2026-10-20", RecipeID: soup.ID})
	require.NoError(t, err)
	require.True(t, inserted)

	again, inserted, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: owner.ID, Date: "2026-10-20", RecipeID: stew.ID})
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, plan.ID, again.ID)
	require.Equal(t, stew.ID, again.RecipeID)

	_, inserted, err = repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: other.ID, Date: "2026-10-20", RecipeID: soup.ID})
	require.NoError(t, err)
	require.True(t, inserted)

	earlier, _, err := repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: owner.ID, Date: "2026-10-18", RecipeID: soup.ID})
	require.NoError(t, err)

	plans, err := repos.Plans.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	require.Equal(t, "2026-10-18", plans[0].Date)
	require.Equal(t, "2026-10-20", plans[1].Date)

	earlier.Date = "2026-10-20"
	_, err = repos.Plans.Update(ctx, earlier)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	earlier.Date = "2026-10-19"
	moved, err := repos.Plans.Update(ctx, earlier)
	require.NoError(t, err)
	require.Equal(t, "2026-10-19", moved.Date)

	// The old date is free again.
	_, inserted, err = repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: owner.ID, Date: "2026-10-18", RecipeID: stew.ID})
	require.NoError(t, err)
	require.True(t, inserted)

	require.NoError(t, repos.Plans.Delete(ctx, plan.ID))
	gone, err := repos.Plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	_, inserted, err = repos.Plans.Upsert(ctx, &models.MealPlan{OwnerID: owner.ID, Date: "2026-10-20", RecipeID: soup.ID})
	require.NoError(t, err)
	require.True(t, inserted)
}

func testShopping(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	owner := newUser(t, repos)

	milk, err := repos.Shopping.Create(ctx, &models.ShoppingItem{OwnerID: owner.ID, Name: "milk", Quantity: "1l", Category: "Dairy"})
	require.NoError(t, err)
	require.False(t, milk.Bought)

	many, err := repos.Shopping.CreateMany(ctx, []*models.ShoppingItem{
		{OwnerID: owner.ID, Name: "eggs"},
		{OwnerID: owner.ID, Name: "flour"},
	})
	require.NoError(t, err)
	require.Len(t, many, 2)

	milk.Bought = true
	updated, err := repos.Shopping.Update(ctx, milk)
	require.NoError(t, err)
	require.True(t, updated.Bought)

	all, err := repos.Shopping.ListByOwner(ctx, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "milk", all[2].Name)

	unbought, err := repos.Shopping.ListByOwner(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, unbought, 2)

	require.NoError(t, repos.Shopping.Delete(ctx, milk.ID))
	gone, err := repos.Shopping.GetByID(ctx, milk.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func testPantry(t *testing.T, repos repository.Repositories) {
	ctx := context.Background()
	owner := newUser(t, repos)

	none, err := repos.Pantries.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Nil(t, none)

	first, err := repos.Pantries.Upsert(ctx, &models.Pantry{OwnerID: owner.ID, Ingredients: []string{"rice"}})
	require.NoError(t, err)

	second, err := repos.Pantries.Upsert(ctx, &models.Pantry{OwnerID: owner.ID, Ingredients: []string{}})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Empty(t, second.Ingredients)

	got, err := repos.Pantries.GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Empty(t, got.Ingredients)
}
