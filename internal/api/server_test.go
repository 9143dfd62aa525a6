package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kerhoff/MealMate/internal/auth"
	"github.com/Kerhoff/MealMate/internal/generator"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository/memory"
	"github.com/Kerhoff/MealMate/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubCompleter struct {
	text string
	err  error
}

func (s stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.text, s.err
}

type stubImages struct {
	url *string
	err error
}

func (s stubImages) SearchImage(context.Context, string) (*string, error) {
	return s.url, s.err
}

type stubNotifier struct {
	chatID int64
	items  []*models.ShoppingItem
}

func (n *stubNotifier) ShareShoppingList(chatID int64, items []*models.ShoppingItem) error {
	n.chatID = chatID
	n.items = items
	return nil
}

type testEnv struct {
	t      *testing.T
	server *httptest.Server
}

func newTestEnv(t *testing.T, completer generator.Completer, images generator.ImageSearcher, notifier service.Notifier) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	maker, err := auth.NewJWTMaker(testSecret)
	require.NoError(t, err)

	gen := generator.New(completer, images, logger)
	svc := service.New(logger, memory.NewStore().Repositories(), maker, time.Hour, gen, notifier)

	ts := httptest.NewServer(NewServer(svc, logger, []string{"*"}).Handler())
	t.Cleanup(ts.Close)
	return &testEnv{t: t, server: ts}
}

func defaultEnv(t *testing.T) *testEnv {
	return newTestEnv(t, stubCompleter{text: recipeJSON}, stubImages{err: errors.New("unsplash down")}, nil)
}

const recipeJSON = `{"title":"Tomato Pasta","description":"Simple.","cookingTime":"25 minutes","servings":"2",
"ingredients":["200g pasta","3 tomatoes"],"instructions":["Boil pasta.","Make sauce."],
"nutritionInfo":{"calories":"500","protein":"15g","carbs":"80g","fat":"10g"}}`

// do sends body as JSON and decodes the response into out when out is not nil.
func (e *testEnv) do(method, path, token string, body any, out any) int {
	e.t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(e.t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, rd)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(e.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) register(name, email string) models.AuthResult {
	e.t.Helper()
	var res models.AuthResult
	status := e.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret",
	}, &res)
	require.Equal(e.t, http.StatusCreated, status)
	require.NotEmpty(e.t, res.Token)
	return res
}

func (e *testEnv) createRecipe(token string) models.Recipe {
	e.t.Helper()
	var recipe models.Recipe
	status := e.do(http.MethodPost, "/api/recipes", token, map[string]any{
		"title":        "Omelette",
		"ingredients":  []string{"eggs", "salt"},
		"instructions": []string{"Whisk.", "Fry."},
	}, &recipe)
	require.Equal(e.t, http.StatusCreated, status)
	return recipe
}

func TestHealth(t *testing.T) {
	env := defaultEnv(t)

	var body map[string]string
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/healthz", "", nil, &body))
	require.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	env := defaultEnv(t)
	reg := env.register("Alice", "Alice@Example.com")
	require.Equal(t, "alice@example.com", reg.User.Email)

	var login models.AuthResult
	status := env.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, reg.User.ID, login.User.ID)

	var me models.PublicUser
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/users/me", login.Token, nil, &me))
	require.Equal(t, reg.User.ID, me.ID)

	var errBody errorResponse
	status = env.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Other", "email": "alice@example.com", "password": "x",
	}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "User already exists", errBody.Message)

	status = env.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid credentials", errBody.Message)

	status = env.do(http.MethodPost, "/api/users/register", "", map[string]string{"email": "b@example.com"}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Missing required fields", errBody.Message)
}

func TestRequireAuth(t *testing.T) {
	env := defaultEnv(t)
	reg := env.register("Alice", "alice@example.com")

	other, err := auth.NewJWTMaker("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	forged, err := other.CreateToken(reg.User.ID, time.Hour)
	require.NoError(t, err)

	maker, err := auth.NewJWTMaker(testSecret)
	require.NoError(t, err)
	expired, err := maker.CreateToken(reg.User.ID, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"wrong scheme", "Basic " + reg.Token, http.StatusUnauthorized, "Not authorized, no token"},
		{"no token", "Bearer", http.StatusUnauthorized, "Not authorized, no token"},
		{"forged signature", "Bearer " + forged, http.StatusUnauthorized, "Not authorized, token failed"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Not authorized, token failed"},
		{"valid", "Bearer " + reg.Token, http.StatusOK, ""},
		{"lower-case scheme", "bearer " + reg.Token, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/recipes", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := env.server.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tc.status, resp.StatusCode)
			if tc.msg != "" {
				var body errorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				require.Equal(t, tc.msg, body.Message)
			}
		})
	}
}

func TestForeignRecipeDeleteIsNotFound(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")
	bob := env.register("Bob", "bob@example.com")

	recipe := env.createRecipe(alice.Token)
	require.Equal(t, alice.User.ID, recipe.OwnerID)
	require.Equal(t, models.RecipeSourceUser, recipe.Source)

	var errBody errorResponse
	status := env.do(http.MethodDelete, "/api/recipes/"+recipe.ID, bob.Token, nil, &errBody)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Recipe not found", errBody.Message)

	status = env.do(http.MethodPut, "/api/recipes/"+recipe.ID, bob.Token, map[string]string{"title": "Stolen"}, &errBody)
	require.Equal(t, http.StatusNotFound, status)

	var list []models.Recipe
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/recipes", alice.Token, nil, &list))
	require.Len(t, list, 1)
	require.Equal(t, "Omelette", list[0].Title)

	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/recipes", bob.Token, nil, &list))
	require.Empty(t, list)

	var msg messageResponse
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/recipes/"+recipe.ID, alice.Token, nil, &msg))
	require.Equal(t, "Recipe deleted successfully", msg.Message)

	status = env.do(http.MethodDelete, "/api/recipes/"+recipe.ID, alice.Token, nil, &errBody)
	require.Equal(t, http.StatusNotFound, status)
}

func TestForeignRowsAreNotFound(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")
	bob := env.register("Bob", "bob@example.com")

	recipe := env.createRecipe(alice.Token)
	bobRecipe := env.createRecipe(bob.Token)

	var plan models.MealPlan
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/planner", alice.Token, map[string]string{
		"date": "2026-10-20", "recipeId": recipe.ID,
	}, &plan))

	var item models.ShoppingItem
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/shopping", alice.Token, map[string]string{
		"name": "Milk", "quantity": "1l",
	}, &item))

	snapshot := func(token string) map[string]json.RawMessage {
		lists := make(map[string]json.RawMessage)
		for _, path := range []string{"/api/recipes", "/api/planner", "/api/shopping"} {
			var raw json.RawMessage
			require.Equal(t, http.StatusOK, env.do(http.MethodGet, path, token, nil, &raw))
			lists[path] = raw
		}
		return lists
	}
	before := snapshot(alice.Token)

	testCases := []struct {
		name    string
		method  string
		path    string
		body    any
		message string
	}{
		{"UpdateRecipe", http.MethodPut, "/api/recipes/" + recipe.ID, map[string]string{"title": "Stolen"}, "Recipe not found"},
		{"DeleteRecipe", http.MethodDelete, "/api/recipes/" + recipe.ID, nil, "Recipe not found"},
		{"UpdatePlan", http.MethodPut, "/api/planner/" + plan.ID, map[string]string{"recipeId": bobRecipe.ID}, "Plan not found"},
		{"DeletePlan", http.MethodDelete, "/api/planner/" + plan.ID, nil, "Plan not found"},
		{"UpdateItem", http.MethodPut, "/api/shopping/" + item.ID, map[string]string{"quantity": "9l"}, "Item not found"},
		{"ToggleItem", http.MethodPatch, "/api/shopping/" + item.ID + "/toggle", nil, "Item not found"},
		{"DeleteItem", http.MethodDelete, "/api/shopping/" + item.ID, nil, "Item not found"},
		{"AddFromRecipe", http.MethodPost, "/api/shopping/from-recipe/" + recipe.ID, nil, "Recipe not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var errBody errorResponse
			status := env.do(tc.method, tc.path, bob.Token, tc.body, &errBody)
			require.Equal(t, http.StatusNotFound, status)
			require.Equal(t, tc.message, errBody.Message)
		})
	}

	after := snapshot(alice.Token)
	for path, raw := range before {
		require.JSONEq(t, string(raw), string(after[path]), path)
	}

	var bobItems []models.ShoppingItem
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/shopping", bob.Token, nil, &bobItems))
	require.Empty(t, bobItems)
}

func TestRecipeValidationAndUpdate(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")

	var errBody errorResponse
	status := env.do(http.MethodPost, "/api/recipes", alice.Token, map[string]any{
		"title": "Empty", "ingredients": []string{}, "instructions": []string{},
	}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Missing required fields", errBody.Message)
	require.Contains(t, errBody.Error, "ingredients must not be empty")
	require.Contains(t, errBody.Error, "instructions must not be empty")

	var list []models.Recipe
	env.do(http.MethodGet, "/api/recipes", alice.Token, nil, &list)
	require.Empty(t, list)

	status = env.do(http.MethodPost, "/api/recipes", alice.Token, `{"title":`, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Invalid request body", errBody.Message)

	recipe := env.createRecipe(alice.Token)
	var updated models.Recipe
	status = env.do(http.MethodPut, "/api/recipes/"+recipe.ID, alice.Token, map[string]string{"title": "Cheese Omelette"}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Cheese Omelette", updated.Title)
	require.Equal(t, recipe.Ingredients, updated.Ingredients)
}

func TestPlannerUpsert(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")
	first := env.createRecipe(alice.Token)
	second := env.createRecipe(alice.Token)

	var plan models.MealPlan
	status := env.do(http.MethodPost, "/api/planner", alice.Token, map[string]string{
		"date": "2026-10-20", "recipeId": first.ID,
	}, &plan)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, plan.Recipe)

	status = env.do(http.MethodPost, "/api/planner", alice.Token, map[string]string{
		"date": "2026-10-20", "recipeId": second.ID,
	}, &plan)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, second.ID, plan.RecipeID)

	var plans []models.MealPlan
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/planner", alice.Token, nil, &plans))
	require.Len(t, plans, 1)
	require.Equal(t, second.ID, plans[0].Recipe.ID)

	var errBody errorResponse
	status = env.do(http.MethodPost, "/api/planner", alice.Token, map[string]string{"date": "2026-10-21"}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Missing date or recipeId", errBody.Message)

	var other models.MealPlan
	env.do(http.MethodPost, "/api/planner", alice.Token, map[string]string{
		"date": "2026-10-22", "recipeId": first.ID,
	}, &other)
	status = env.do(http.MethodPut, "/api/planner/"+other.ID, alice.Token, map[string]string{"date": "2026-10-20"}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "A plan already exists for that date", errBody.Message)

	// Deleting the recipe leaves the plan with a null recipe.
	env.do(http.MethodDelete, "/api/recipes/"+second.ID, alice.Token, nil, nil)
	var raw []map[string]any
	env.do(http.MethodGet, "/api/planner", alice.Token, nil, &raw)
	require.Len(t, raw, 2)
	require.Equal(t, "2026-10-20", raw[0]["date"])
	require.Nil(t, raw[0]["recipe"])

	var msg messageResponse
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/planner/"+plan.ID, alice.Token, nil, &msg))
	require.Equal(t, "Plan deleted", msg.Message)
}

func TestShoppingList(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")
	recipe := env.createRecipe(alice.Token)

	var item models.ShoppingItem
	status := env.do(http.MethodPost, "/api/shopping", alice.Token, map[string]string{
		"name": "Milk", "quantity": "1l", "category": "Dairy",
	}, &item)
	require.Equal(t, http.StatusCreated, status)
	require.False(t, item.Bought)

	var toggled models.ShoppingItem
	env.do(http.MethodPatch, "/api/shopping/"+item.ID+"/toggle", alice.Token, nil, &toggled)
	require.True(t, toggled.Bought)
	env.do(http.MethodPatch, "/api/shopping/"+item.ID+"/toggle", alice.Token, nil, &toggled)
	require.False(t, toggled.Bought)

	var edited models.ShoppingItem
	status = env.do(http.MethodPut, "/api/shopping/"+item.ID, alice.Token, map[string]string{"quantity": "2l"}, &edited)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "2l", edited.Quantity)
	require.Equal(t, "Milk", edited.Name)

	var added []models.ShoppingItem
	status = env.do(http.MethodPost, "/api/shopping/from-recipe/"+recipe.ID, alice.Token, nil, &added)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, added, len(recipe.Ingredients))

	var list []models.ShoppingItem
	env.do(http.MethodGet, "/api/shopping", alice.Token, nil, &list)
	require.Len(t, list, 3)

	var errBody errorResponse
	status = env.do(http.MethodPost, "/api/shopping", alice.Token, map[string]string{"name": " "}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Item name is required", errBody.Message)

	status = env.do(http.MethodPost, "/api/shopping/share", alice.Token, map[string]int64{"chatId": 1}, &errBody)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Shopping list sharing is not enabled", errBody.Message)

	var msg messageResponse
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, "/api/shopping/"+item.ID, alice.Token, nil, &msg))
	require.Equal(t, "Item deleted", msg.Message)
}

func TestShareShoppingList(t *testing.T) {
	notifier := &stubNotifier{}
	env := newTestEnv(t, stubCompleter{text: recipeJSON}, stubImages{}, notifier)
	alice := env.register("Alice", "alice@example.com")

	var bread models.ShoppingItem
	env.do(http.MethodPost, "/api/shopping", alice.Token, map[string]string{"name": "Bread"}, &bread)
	env.do(http.MethodPost, "/api/shopping", alice.Token, map[string]string{"name": "Eggs"}, nil)
	env.do(http.MethodPatch, "/api/shopping/"+bread.ID+"/toggle", alice.Token, nil, nil)

	var res shareResponse
	status := env.do(http.MethodPost, "/api/shopping/share", alice.Token, map[string]int64{"chatId": 42}, &res)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, res.Count)
	require.Equal(t, int64(42), notifier.chatID)
	require.Len(t, notifier.items, 1)
	require.Equal(t, "Eggs", notifier.items[0].Name)
}

func TestPantry(t *testing.T) {
	env := defaultEnv(t)
	alice := env.register("Alice", "alice@example.com")

	var errBody errorResponse
	require.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/pantry", alice.Token, nil, &errBody))
	require.Equal(t, "Pantry not found", errBody.Message)

	for _, body := range []string{`{"ingredients":"rice"}`, `{"ingredients":{"a":1}}`, `{}`, `{"ingredients":[1,2]}`} {
		status := env.do(http.MethodPost, "/api/pantry", alice.Token, body, &errBody)
		require.Equal(t, http.StatusBadRequest, status, body)
		require.Equal(t, "Ingredients must be an array", errBody.Message)
	}

	var saved []string
	status := env.do(http.MethodPost, "/api/pantry", alice.Token, map[string]any{"ingredients": []string{"rice", "beans"}}, &saved)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"rice", "beans"}, saved)

	env.do(http.MethodPost, "/api/pantry", alice.Token, map[string]any{"ingredients": []string{}}, &saved)
	var got []string
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/pantry", alice.Token, nil, &got))
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestGenerateRecipe(t *testing.T) {
	t.Run("image miss still succeeds", func(t *testing.T) {
		env := defaultEnv(t)
		alice := env.register("Alice", "alice@example.com")

		var raw map[string]any
		status := env.do(http.MethodPost, "/api/ai/generate", alice.Token, map[string]string{"ingredients": "pasta, tomatoes"}, &raw)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Tomato Pasta", raw["title"])
		require.NotEmpty(t, raw["ingredients"])
		require.NotEmpty(t, raw["instructions"])
		require.Contains(t, raw, "image")
		require.Nil(t, raw["image"])

		// Nothing is persisted.
		var list []models.Recipe
		env.do(http.MethodGet, "/api/recipes", alice.Token, nil, &list)
		require.Empty(t, list)
	})

	t.Run("image found", func(t *testing.T) {
		url := "https://images.example.com/pasta.jpg"
		env := newTestEnv(t, stubCompleter{text: recipeJSON}, stubImages{url: &url}, nil)
		alice := env.register("Alice", "alice@example.com")

		var recipe models.GeneratedRecipe
		require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/ai/generate", alice.Token, map[string]any{
			"ingredients": "pasta", "servings": 2, "cookingTime": "30",
		}, &recipe))
		require.NotNil(t, recipe.Image)
		require.Equal(t, url, *recipe.Image)
	})

	t.Run("missing ingredients", func(t *testing.T) {
		env := defaultEnv(t)
		alice := env.register("Alice", "alice@example.com")

		var errBody errorResponse
		require.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/ai/generate", alice.Token, map[string]string{}, &errBody))
		require.Equal(t, "Ingredients are required.", errBody.Message)
	})

	t.Run("malformed model output", func(t *testing.T) {
		env := newTestEnv(t, stubCompleter{text: "not json"}, stubImages{}, nil)
		alice := env.register("Alice", "alice@example.com")

		var errBody errorResponse
		require.Equal(t, http.StatusInternalServerError, env.do(http.MethodPost, "/api/ai/generate", alice.Token, map[string]string{"ingredients": "x"}, &errBody))
		require.Equal(t, "An error occurred while generating the recipe.", errBody.Message)
		require.NotEmpty(t, errBody.Error)
	})
}
