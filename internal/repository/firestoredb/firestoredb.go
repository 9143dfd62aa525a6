// Package firestoredb implements the repositories on Cloud Firestore.
//
// Uniqueness that Firestore cannot index is kept in lock documents whose ID
// is the unique key: userEmails/{email} and mealPlanDates/{ownerId}_{date}.
// Lock documents are written in the same transaction as the row they guard.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/repository"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colUsers         = "users"
	colUserEmails    = "userEmails"
	colRecipes       = "recipes"
	colMealPlans     = "mealPlans"
	colMealPlanDates = "mealPlanDates"
	colShoppingItems = "shoppingItems"
	colPantries      = "pantries"
)

// NewRepositories builds every Firestore-backed repository over client
func NewRepositories(client *firestore.Client) repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{store: client},
		Recipes:  &recipeRepository{store: client},
		Plans:    &mealPlanRepository{store: client},
		Shopping: &shoppingRepository{store: client},
		Pantries: &pantryRepository{store: client},
	}
}

// validID reports whether id can name a document. Anything else cannot exist.
func validID(id string) bool {
	return id != "" && !strings.Contains(id, "/") && id != "." && id != ".."
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// getDoc loads ref into dst. It reports false when the document is absent.
func getDoc(ctx context.Context, ref *firestore.DocumentRef, dst any) (bool, error) {
	doc, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if err := doc.DataTo(dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", ref.Path, err)
	}
	return true, nil
}

// queryAll runs q and decodes every document with decode.
func queryAll(ctx context.Context, q firestore.Query, decode func(*firestore.DocumentSnapshot) error) error {
	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := decode(doc); err != nil {
			return fmt.Errorf("failed to decode %s: %w", doc.Ref.Path, err)
		}
	}
}

// byOwner filters a collection on ownerId. Ordering is applied in memory so
// no composite index is needed.
func byOwner(col *firestore.CollectionRef, ownerID string) firestore.Query {
	return col.WhereEntity(firestore.PropertyFilter{
		Path:     "ownerId",
		Operator: "==",
		Value:    ownerID,
	})
}

func sortNewestFirst[T any](rows []*T, createdAt func(*T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		return createdAt(rows[i]).After(createdAt(rows[j]))
	})
}
