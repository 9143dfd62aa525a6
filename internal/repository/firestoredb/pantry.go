package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/models"
)

// Pantries are keyed by owner ID, which makes at most one per user.
type pantryRepository struct {
	store *firestore.Client
}

func (r *pantryRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Pantry, error) {
	if !validID(ownerID) {
		return nil, nil
	}
	var pantry models.Pantry
	found, err := getDoc(ctx, r.store.Collection(colPantries).Doc(ownerID), &pantry)
	if err != nil {
		return nil, fmt.Errorf("failed to get pantry: %w", err)
	}
	if !found {
		return nil, nil
	}
	pantry.ID = ownerID
	return &pantry, nil
}

func (r *pantryRepository) Upsert(ctx context.Context, pantry *models.Pantry) (*models.Pantry, error) {
	if !validID(pantry.OwnerID) {
		return nil, fmt.Errorf("invalid pantry owner %q", pantry.OwnerID)
	}
	ref := r.store.Collection(colPantries).Doc(pantry.OwnerID)
	if pantry.Ingredients == nil {
		pantry.Ingredients = []string{}
	}

	var saved models.Pantry
	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		now := time.Now()
		saved = *pantry
		saved.ID = pantry.OwnerID
		saved.CreatedAt = now
		saved.UpdatedAt = now

		doc, err := t.Get(ref)
		switch {
		case err == nil:
			var current models.Pantry
			if err := doc.DataTo(&current); err != nil {
				return err
			}
			saved.CreatedAt = current.CreatedAt
		case !isNotFound(err):
			return err
		}
		return t.Set(ref, saved)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert pantry: %w", err)
	}
	return &saved, nil
}
