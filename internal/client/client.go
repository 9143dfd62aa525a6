// Package client is a typed client for the MealMate HTTP API together with
// the per-screen views that keep local copies of server state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 90 * time.Second
)

// Config describes how the Client should be initialised.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// Client calls the API with the bearer token of its Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *logrus.Logger
}

// ErrNoDraft is returned when saving before anything was generated
var ErrNoDraft = errors.New("no generated recipe to save")

// APIError is a non-2xx response. Message and Detail come from the
// {message, error} body.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

// Error formats the status and message, plus the detail when present
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// New builds a Client bound to session
func New(cfg Config, session *Session) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    session,
		logger:     logger,
	}
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("api: encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "An unknown error occurred"}
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
			apiErr.Message, apiErr.Detail = payload.Message, payload.Error
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("api: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// Register creates an account and saves the returned token to the session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.PublicUser, error) {
	return c.authenticate(ctx, "/api/users/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

// Login signs in and saves the returned token to the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	return c.authenticate(ctx, "/api/users/login", map[string]string{
		"email": email, "password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*models.PublicUser, error) {
	var res models.AuthResult
	if _, err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	c.session.Set(&res)
	if err := c.session.Save(); err != nil {
		return nil, err
	}
	return c.session.User(), nil
}

// Logout clears the session
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var user models.PublicUser
	if _, err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

// RecipeInput is the body of a recipe create
type RecipeInput struct {
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	Ingredients  []string            `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	Image        string              `json:"image,omitempty"`
	Source       models.RecipeSource `json:"source,omitempty"`
}

// RecipeInputFromGenerated turns a generated draft into a saveable recipe
func RecipeInputFromGenerated(g *models.GeneratedRecipe) RecipeInput {
	in := RecipeInput{
		Title:        g.Title,
		Description:  g.Description,
		Ingredients:  g.Ingredients,
		Instructions: g.Instructions,
		Source:       models.RecipeSourceAI,
	}
	if g.Image != nil {
		in.Image = *g.Image
	}
	return in
}

// GenerateRecipe asks the server for an AI recipe draft. Nothing is saved.
func (c *Client) GenerateRecipe(ctx context.Context, req models.GenerationRequest) (*models.GeneratedRecipe, error) {
	var recipe models.GeneratedRecipe
	if _, err := c.do(ctx, http.MethodPost, "/api/ai/generate", req, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns the user's recipes, newest first
func (c *Client) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/api/recipes", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// SaveRecipe creates a recipe
func (c *Client) SaveRecipe(ctx context.Context, in RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if _, err := c.do(ctx, http.MethodPost, "/api/recipes", in, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe applies patch to a recipe
func (c *Client) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch) (*models.Recipe, error) {
	var recipe models.Recipe
	if _, err := c.do(ctx, http.MethodPut, "/api/recipes/"+url.PathEscape(id), patch, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe removes a recipe
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/recipes/"+url.PathEscape(id), nil, nil)
	return err
}

// ---------------------------------------------------------------------------
// Planner
// ---------------------------------------------------------------------------

// ListPlans returns the user's meal plans with their recipes filled in
func (c *Client) ListPlans(ctx context.Context) ([]*models.MealPlan, error) {
	var plans []*models.MealPlan
	if _, err := c.do(ctx, http.MethodGet, "/api/planner", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// AddPlan assigns a recipe to a date. created is false when the date already
// had a plan and it was repointed.
func (c *Client) AddPlan(ctx context.Context, date, recipeID string) (plan *models.MealPlan, created bool, err error) {
	plan = &models.MealPlan{}
	status, err := c.do(ctx, http.MethodPost, "/api/planner", map[string]string{
		"date": date, "recipeId": recipeID,
	}, plan)
	if err != nil {
		return nil, false, err
	}
	return plan, status == http.StatusCreated, nil
}

// UpdatePlan moves a plan to another date or recipe
func (c *Client) UpdatePlan(ctx context.Context, id string, patch models.MealPlanPatch) (*models.MealPlan, error) {
	var plan models.MealPlan
	if _, err := c.do(ctx, http.MethodPut, "/api/planner/"+url.PathEscape(id), patch, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DeletePlan removes a plan
func (c *Client) DeletePlan(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/planner/"+url.PathEscape(id), nil, nil)
	return err
}

// ---------------------------------------------------------------------------
// Shopping list
// ---------------------------------------------------------------------------

// ItemInput is the body of a shopping item create
type ItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Category string `json:"category,omitempty"`
}

// ListItems returns the shopping list, newest first
func (c *Client) ListItems(ctx context.Context) ([]*models.ShoppingItem, error) {
	var items []*models.ShoppingItem
	if _, err := c.do(ctx, http.MethodGet, "/api/shopping", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem creates a shopping item
func (c *Client) AddItem(ctx context.Context, in ItemInput) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if _, err := c.do(ctx, http.MethodPost, "/api/shopping", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies patch to a shopping item
func (c *Client) UpdateItem(ctx context.Context, id string, patch models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if _, err := c.do(ctx, http.MethodPut, "/api/shopping/"+url.PathEscape(id), patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleItem flips the bought flag of an item and returns the stored item
func (c *Client) ToggleItem(ctx context.Context, id string) (*models.ShoppingItem, error) {
	var item models.ShoppingItem
	if _, err := c.do(ctx, http.MethodPatch, "/api/shopping/"+url.PathEscape(id)+"/toggle", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes a shopping item
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/shopping/"+url.PathEscape(id), nil, nil)
	return err
}

// AddFromRecipe adds one item per ingredient of a recipe
func (c *Client) AddFromRecipe(ctx context.Context, recipeID string) ([]*models.ShoppingItem, error) {
	var items []*models.ShoppingItem
	if _, err := c.do(ctx, http.MethodPost, "/api/shopping/from-recipe/"+url.PathEscape(recipeID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ShareList sends the unbought items to a Telegram chat and returns how many
// were sent.
func (c *Client) ShareList(ctx context.Context, chatID int64) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/shopping/share", map[string]int64{"chatId": chatID}, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

// ---------------------------------------------------------------------------
// Pantry
// ---------------------------------------------------------------------------

// GetPantry returns the pantry ingredients. A user without a pantry gets an
// empty list.
func (c *Client) GetPantry(ctx context.Context) ([]string, error) {
	var ingredients []string
	if _, err := c.do(ctx, http.MethodGet, "/api/pantry", nil, &ingredients); err != nil {
		if StatusOf(err) == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, err
	}
	return ingredients, nil
}

// SavePantry replaces the pantry and returns what was stored
func (c *Client) SavePantry(ctx context.Context, ingredients []string) ([]string, error) {
	if ingredients == nil {
		ingredients = []string{}
	}
	var saved []string
	if _, err := c.do(ctx, http.MethodPost, "/api/pantry", map[string][]string{"ingredients": ingredients}, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
