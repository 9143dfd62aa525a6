package client

import (
	"context"
	"sort"
	"sync"

	"github.com/Kerhoff/MealMate/internal/models"
)

// Views hold local copies of one list each. Mount loads the list from the
// server; mutations wait for the server and then patch the local copy. Views
// share no state with each other.

func replaceByID[T any](list []*T, id func(*T) string, updated *T) []*T {
	for i, v := range list {
		if id(v) == id(updated) {
			list[i] = updated
			return list
		}
	}
	return list
}

func removeByID[T any](list []*T, id func(*T) string, target string) []*T {
	out := list[:0]
	for _, v := range list {
		if id(v) != target {
			out = append(out, v)
		}
	}
	return out
}

func cloneList[T any](list []*T) []*T {
	out := make([]*T, len(list))
	copy(out, list)
	return out
}

// ---------------------------------------------------------------------------
// Recipes
// ---------------------------------------------------------------------------

// RecipesView is the local copy of the recipe list
type RecipesView struct {
	api     *Client
	mu      sync.RWMutex
	recipes []*models.Recipe
}

// NewRecipesView returns an empty view; call Mount to load it
func NewRecipesView(api *Client) *RecipesView {
	return &RecipesView{api: api}
}

func recipeID(r *models.Recipe) string { return r.ID }

// Mount replaces the local list with the server's
func (v *RecipesView) Mount(ctx context.Context) error {
	recipes, err := v.api.ListRecipes(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.recipes = recipes
	v.mu.Unlock()
	return nil
}

// Recipes returns a copy of the list
func (v *RecipesView) Recipes() []*models.Recipe {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneList(v.recipes)
}

// Save creates a recipe and puts it at the top of the list.
func (v *RecipesView) Save(ctx context.Context, in RecipeInput) (*models.Recipe, error) {
	recipe, err := v.api.SaveRecipe(ctx, in)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.recipes = append([]*models.Recipe{recipe}, v.recipes...)
	v.mu.Unlock()
	return recipe, nil
}

// Update patches a recipe and swaps it in place
func (v *RecipesView) Update(ctx context.Context, id string, patch models.RecipePatch) (*models.Recipe, error) {
	recipe, err := v.api.UpdateRecipe(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.recipes = replaceByID(v.recipes, recipeID, recipe)
	v.mu.Unlock()
	return recipe, nil
}

// Delete removes a recipe on the server, then locally
func (v *RecipesView) Delete(ctx context.Context, id string) error {
	if err := v.api.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	v.mu.Lock()
	v.recipes = removeByID(v.recipes, recipeID, id)
	v.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Planner
// ---------------------------------------------------------------------------

// PlannerView keeps plans sorted by date
type PlannerView struct {
	api   *Client
	mu    sync.RWMutex
	plans []*models.MealPlan
}

// NewPlannerView returns an empty view; call Mount to load it
func NewPlannerView(api *Client) *PlannerView {
	return &PlannerView{api: api}
}

func planID(p *models.MealPlan) string { return p.ID }

// Mount replaces the local plans with the server's
func (v *PlannerView) Mount(ctx context.Context) error {
	plans, err := v.api.ListPlans(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.plans = plans
	v.sortLocked()
	v.mu.Unlock()
	return nil
}

// Plans returns a copy of the plans in date order
func (v *PlannerView) Plans() []*models.MealPlan {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneList(v.plans)
}

// PlanFor returns the plan on date, or nil
func (v *PlannerView) PlanFor(date string) *models.MealPlan {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, p := range v.plans {
		if p.Date == date {
			return p
		}
	}
	return nil
}

// Assign puts recipeID on date. An existing plan for the date is replaced in
// place.
func (v *PlannerView) Assign(ctx context.Context, date, recipeID string) (*models.MealPlan, error) {
	plan, created, err := v.api.AddPlan(ctx, date, recipeID)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if created {
		v.plans = append(v.plans, plan)
	} else {
		v.plans = replaceByID(v.plans, planID, plan)
	}
	v.sortLocked()
	return plan, nil
}

// Update patches a plan and keeps the list sorted
func (v *PlannerView) Update(ctx context.Context, id string, patch models.MealPlanPatch) (*models.MealPlan, error) {
	plan, err := v.api.UpdatePlan(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.plans = replaceByID(v.plans, planID, plan)
	v.sortLocked()
	return plan, nil
}

// Delete removes a plan on the server, then locally
func (v *PlannerView) Delete(ctx context.Context, id string) error {
	if err := v.api.DeletePlan(ctx, id); err != nil {
		return err
	}
	v.mu.Lock()
	v.plans = removeByID(v.plans, planID, id)
	v.mu.Unlock()
	return nil
}

func (v *PlannerView) sortLocked() {
	sort.SliceStable(v.plans, func(i, j int) bool { return v.plans[i].Date < v.plans[j].Date })
}

// ---------------------------------------------------------------------------
// Shopping list
// ---------------------------------------------------------------------------

// ShoppingView is the local copy of the shopping list
type ShoppingView struct {
	api   *Client
	mu    sync.RWMutex
	items []*models.ShoppingItem
}

// NewShoppingView returns an empty view; call Mount to load it
func NewShoppingView(api *Client) *ShoppingView {
	return &ShoppingView{api: api}
}

func itemID(i *models.ShoppingItem) string { return i.ID }

// Mount replaces the local list with the server's
func (v *ShoppingView) Mount(ctx context.Context) error {
	items, err := v.api.ListItems(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Items returns a copy of the list
func (v *ShoppingView) Items() []*models.ShoppingItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return cloneList(v.items)
}

// Add creates an item and puts it at the top of the list
func (v *ShoppingView) Add(ctx context.Context, in ItemInput) (*models.ShoppingItem, error) {
	item, err := v.api.AddItem(ctx, in)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.items = append([]*models.ShoppingItem{item}, v.items...)
	v.mu.Unlock()
	return item, nil
}

// AddFromRecipe adds every ingredient of a recipe to the top of the list.
func (v *ShoppingView) AddFromRecipe(ctx context.Context, recipeID string) ([]*models.ShoppingItem, error) {
	added, err := v.api.AddFromRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.items = append(cloneList(added), v.items...)
	v.mu.Unlock()
	return added, nil
}

// Update patches an item and swaps it in place
func (v *ShoppingView) Update(ctx context.Context, id string, patch models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	item, err := v.api.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.items = replaceByID(v.items, itemID, item)
	v.mu.Unlock()
	return item, nil
}

// Toggle flips the bought flag locally before the request is sent. If the
// server rejects it only that item is put back; changes made to the rest of
// the list while the request was in flight are kept.
func (v *ShoppingView) Toggle(ctx context.Context, id string) error {
	v.mu.Lock()
	var original *models.ShoppingItem
	for i, item := range v.items {
		if item.ID == id {
			original = item
			flipped := *item
			flipped.Bought = !flipped.Bought
			v.items[i] = &flipped
			break
		}
	}
	v.mu.Unlock()

	item, err := v.api.ToggleItem(ctx, id)
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.api.logger.WithError(err).WithField("item_id", id).Warn("toggle failed, restoring item")
		if original != nil {
			v.items = replaceByID(v.items, itemID, original)
		}
		return err
	}
	v.items = replaceByID(v.items, itemID, item)
	return nil
}

// Delete removes an item on the server, then locally
func (v *ShoppingView) Delete(ctx context.Context, id string) error {
	if err := v.api.DeleteItem(ctx, id); err != nil {
		return err
	}
	v.mu.Lock()
	v.items = removeByID(v.items, itemID, id)
	v.mu.Unlock()
	return nil
}

// ---------------------------------------------------------------------------
// Pantry
// ---------------------------------------------------------------------------

// PantryView is the local copy of the pantry ingredients
type PantryView struct {
	api         *Client
	mu          sync.RWMutex
	ingredients []string
}

// NewPantryView returns an empty view; call Mount to load it
func NewPantryView(api *Client) *PantryView {
	return &PantryView{api: api}
}

// Mount loads the pantry. A user without one gets an empty list.
func (v *PantryView) Mount(ctx context.Context) error {
	ingredients, err := v.api.GetPantry(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.ingredients = ingredients
	v.mu.Unlock()
	return nil
}

// Ingredients returns a copy of the pantry
func (v *PantryView) Ingredients() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.ingredients...)
}

// Save replaces the pantry with ingredients
func (v *PantryView) Save(ctx context.Context, ingredients []string) ([]string, error) {
	saved, err := v.api.SavePantry(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.ingredients = saved
	v.mu.Unlock()
	return saved, nil
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// GeneratorView holds the latest generated draft until it is saved
type GeneratorView struct {
	api   *Client
	mu    sync.RWMutex
	draft *models.GeneratedRecipe
}

// NewGeneratorView returns a view with no draft
func NewGeneratorView(api *Client) *GeneratorView {
	return &GeneratorView{api: api}
}

// Mount has nothing to fetch; it clears any previous draft.
func (v *GeneratorView) Mount(context.Context) error {
	v.mu.Lock()
	v.draft = nil
	v.mu.Unlock()
	return nil
}

// Draft returns the latest generated recipe, or nil
func (v *GeneratorView) Draft() *models.GeneratedRecipe {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.draft
}

// Generate asks for a new draft and keeps it until SaveDraft
func (v *GeneratorView) Generate(ctx context.Context, req models.GenerationRequest) (*models.GeneratedRecipe, error) {
	draft, err := v.api.GenerateRecipe(ctx, req)
	if err != nil {
		return nil, err
	}
	v.mu.Lock()
	v.draft = draft
	v.mu.Unlock()
	return draft, nil
}

// SaveDraft stores the current draft as an AI-generated recipe. Views holding
// recipes must Mount again to see it.
func (v *GeneratorView) SaveDraft(ctx context.Context) (*models.Recipe, error) {
	draft := v.Draft()
	if draft == nil {
		return nil, ErrNoDraft
	}
	return v.api.SaveRecipe(ctx, RecipeInputFromGenerated(draft))
}
