// Package memory keeps every repository in process memory. It backs the
// "memory" storage backend used for local development and tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/google/uuid"
)

// Store holds all rows behind a single lock
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	last     time.Time
	users    map[string]models.User
	recipes  map[string]models.Recipe
	plans    map[string]models.MealPlan
	items    map[string]models.ShoppingItem
	pantries map[string]models.Pantry // keyed by owner ID
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:      time.Now,
		users:    make(map[string]models.User),
		recipes:  make(map[string]models.Recipe),
		plans:    make(map[string]models.MealPlan),
		items:    make(map[string]models.ShoppingItem),
		pantries: make(map[string]models.Pantry),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{s},
		Recipes:  &recipeRepository{s},
		Plans:    &mealPlanRepository{s},
		Shopping: &shoppingRepository{s},
		Pantries: &pantryRepository{s},
	}
}

func newID() string {
	return uuid.NewString()
}

// tick returns a timestamp strictly after the previous one so newest-first
// ordering is stable for rows created in the same instant. Callers hold mu.
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Nanosecond)
	}
	s.last = t
	return t
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func newestFirst[T any](rows []*T, createdAt func(*T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		return createdAt(rows[i]).After(createdAt(rows[j]))
	})
}
