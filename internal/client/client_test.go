package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kerhoff/MealMate/internal/api"
	"github.com/Kerhoff/MealMate/internal/auth"
	"github.com/Kerhoff/MealMate/internal/generator"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository/memory"
	"github.com/Kerhoff/MealMate/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct{}

func (stubCompleter) Complete(context.Context, string, string) (string, error) {
	return `{"title":"Bean Chili","description":"Hearty.","cookingTime":"40 minutes","servings":"4",
"ingredients":["beans","tomatoes"],"instructions":["Simmer."],
"nutritionInfo":{"calories":"400","protein":"20g","carbs":"50g","fat":"8g"}}`, nil
}

type noImages struct{}

func (noImages) SearchImage(context.Context, string) (*string, error) { return nil, nil }

// newTestServer runs the real API on a memory store. When failToggles is set
// every toggle request is answered with a 500.
func newTestServer(t *testing.T, failToggles *atomic.Bool) *httptest.Server {
	return newHookedServer(t, func(r *http.Request) bool {
		return failToggles != nil && failToggles.Load() && strings.HasSuffix(r.URL.Path, "/toggle")
	})
}

// newHookedServer answers 500 to every request failRequest returns true for.
func newHookedServer(t *testing.T, failRequest func(*http.Request) bool) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	maker, err := auth.NewJWTMaker("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	svc := service.New(logger, memory.NewStore().Repositories(), maker, time.Hour,
		generator.New(stubCompleter{}, noImages{}, logger), nil)
	handler := api.NewServer(svc, logger, []string{"*"}).Handler()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failRequest(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"Failed to toggle shopping item"}`))
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(t *testing.T, ts *httptest.Server, sessionPath string) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(Config{BaseURL: ts.URL, HTTPClient: ts.Client(), Logger: logger}, NewSession(sessionPath))
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	path := filepath.Join(t.TempDir(), "mealmate", "session.json")
	ctx := context.Background()

	c := newTestClient(t, ts, path)
	user, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)
	require.True(t, c.Session().SignedIn())

	// A new process picks the session up from disk.
	restored := NewSession(path)
	require.NoError(t, restored.Load())
	require.Equal(t, c.Session().Token(), restored.Token())
	require.Equal(t, user.ID, restored.User().ID)

	c2 := New(Config{BaseURL: ts.URL, HTTPClient: ts.Client()}, restored)
	me, err := c2.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	require.NoError(t, c2.Logout())
	require.False(t, restored.SignedIn())
	require.NoFileExists(t, path)

	_, err = c2.Me(ctx)
	require.Equal(t, http.StatusUnauthorized, StatusOf(err))

	// Loading a missing file leaves the session signed out.
	empty := NewSession(path)
	require.NoError(t, empty.Load())
	require.False(t, empty.SignedIn())
	require.NoError(t, empty.Clear())
}

func TestLoginErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	c := newTestClient(t, ts, "")

	_, err := c.Login(ctx, "nobody@example.com", "secret")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "Invalid credentials", apiErr.Message)
	require.False(t, c.Session().SignedIn())
}

func TestRecipesAndPlannerViews(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	c := newTestClient(t, ts, "")
	_, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	gen := NewGeneratorView(c)
	require.NoError(t, gen.Mount(ctx))
	_, err = gen.SaveDraft(ctx)
	require.ErrorIs(t, err, ErrNoDraft)

	draft, err := gen.Generate(ctx, models.GenerationRequest{Ingredients: "beans"})
	require.NoError(t, err)
	require.Equal(t, "Bean Chili", draft.Title)
	require.Nil(t, draft.Image)

	saved, err := gen.SaveDraft(ctx)
	require.NoError(t, err)
	require.Equal(t, models.RecipeSourceAI, saved.Source)

	recipes := NewRecipesView(c)
	require.NoError(t, recipes.Mount(ctx))
	require.Len(t, recipes.Recipes(), 1)

	soup, err := recipes.Save(ctx, RecipeInput{
		Title:        "Soup",
		Ingredients:  []string{"water", "onion"},
		Instructions: []string{"Boil."},
	})
	require.NoError(t, err)
	require.Equal(t, soup.ID, recipes.Recipes()[0].ID)

	title := "Onion Soup"
	_, err = recipes.Update(ctx, soup.ID, models.RecipePatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Onion Soup", recipes.Recipes()[0].Title)

	planner := NewPlannerView(c)
	require.NoError(t, planner.Mount(ctx))
	require.Empty(t, planner.Plans())

	_, err = planner.Assign(ctx, "2026-10-21", soup.ID)
	require.NoError(t, err)
	_, err = planner.Assign(ctx, "2026-10-20", saved.ID)
	require.NoError(t, err)
	_, err = planner.Assign(ctx, "2026-10-21", saved.ID)
	require.NoError(t, err)

	plans := planner.Plans()
	require.Len(t, plans, 2)
	require.Equal(t, "2026-10-20", plans[0].Date)
	require.Equal(t, saved.ID, planner.PlanFor("2026-10-21").RecipeID)

	require.NoError(t, planner.Delete(ctx, plans[0].ID))
	require.Len(t, planner.Plans(), 1)

	require.NoError(t, recipes.Delete(ctx, soup.ID))
	require.Len(t, recipes.Recipes(), 1)

	err = recipes.Delete(ctx, soup.ID)
	require.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestShoppingToggleRollback(t *testing.T) {
	var failToggles atomic.Bool
	ts := newTestServer(t, &failToggles)
	ctx := context.Background()
	c := newTestClient(t, ts, "")
	_, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	view := NewShoppingView(c)
	require.NoError(t, view.Mount(ctx))

	milk, err := view.Add(ctx, ItemInput{Name: "Milk", Category: "Dairy"})
	require.NoError(t, err)

	require.NoError(t, view.Toggle(ctx, milk.ID))
	require.True(t, view.Items()[0].Bought)

	failToggles.Store(true)
	err = view.Toggle(ctx, milk.ID)
	require.Equal(t, http.StatusInternalServerError, StatusOf(err))
	require.True(t, view.Items()[0].Bought, "local state restored after failure")

	// The server agrees with the restored state.
	require.NoError(t, view.Mount(ctx))
	require.True(t, view.Items()[0].Bought)

	failToggles.Store(false)
	require.NoError(t, view.Toggle(ctx, milk.ID))
	require.False(t, view.Items()[0].Bought)

	qty := "2l"
	updated, err := view.Update(ctx, milk.ID, models.ShoppingItemPatch{Quantity: &qty})
	require.NoError(t, err)
	require.Equal(t, "2l", updated.Quantity)

	require.NoError(t, view.Delete(ctx, milk.ID))
	require.Empty(t, view.Items())
}

func TestShoppingToggleRollbackKeepsConcurrentAdd(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	ts := newHookedServer(t, func(r *http.Request) bool {
		if !strings.HasSuffix(r.URL.Path, "/toggle") {
			return false
		}
		once.Do(func() { close(entered) })
		<-release
		return true
	})
	releaseToggle := sync.OnceFunc(func() { close(release) })
	t.Cleanup(releaseToggle)
	ctx := context.Background()
	c := newTestClient(t, ts, "")
	_, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	view := NewShoppingView(c)
	require.NoError(t, view.Mount(ctx))
	milk, err := view.Add(ctx, ItemInput{Name: "Milk"})
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- view.Toggle(ctx, milk.ID) }()

	<-entered
	require.True(t, view.Items()[0].Bought)

	bread, err := view.Add(ctx, ItemInput{Name: "Bread"})
	require.NoError(t, err)

	releaseToggle()
	require.Equal(t, http.StatusInternalServerError, StatusOf(<-errc))

	items := view.Items()
	require.Len(t, items, 2)
	require.Equal(t, bread.ID, items[0].ID)
	require.Equal(t, milk.ID, items[1].ID)
	require.False(t, items[1].Bought)
}

func TestShoppingFromRecipe(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	c := newTestClient(t, ts, "")
	_, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	recipe, err := c.SaveRecipe(ctx, RecipeInput{
		Title: "Toast", Ingredients: []string{"bread", "butter"}, Instructions: []string{"Toast."},
	})
	require.NoError(t, err)

	view := NewShoppingView(c)
	require.NoError(t, view.Mount(ctx))
	added, err := view.AddFromRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, added, 2)
	require.Len(t, view.Items(), 2)

	_, err = c.ShareList(ctx, 1)
	require.Equal(t, http.StatusNotFound, StatusOf(err))
}

func TestPantryView(t *testing.T) {
	ts := newTestServer(t, nil)
	ctx := context.Background()
	c := newTestClient(t, ts, "")
	_, err := c.Register(ctx, "Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	view := NewPantryView(c)
	require.NoError(t, view.Mount(ctx))
	require.Empty(t, view.Ingredients())

	_, err = view.Save(ctx, []string{"rice", " ", "lentils"})
	require.NoError(t, err)
	require.Equal(t, []string{"rice", "lentils"}, view.Ingredients())

	other := NewPantryView(c)
	require.NoError(t, other.Mount(ctx))
	require.Equal(t, []string{"rice", "lentils"}, other.Ingredients())
}
