package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/models"
)

type shoppingRepository struct {
	store *firestore.Client
}

func (r *shoppingRepository) Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	ref := r.store.Collection(colShoppingItems).NewDoc()

	now := time.Now()
	item.ID = ref.ID
	item.Bought = false
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := ref.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add shopping item: %w", err)
	}
	return item, nil
}

// CreateMany writes all items in one transaction. Creation times increase by
// a microsecond per item, the finest resolution Firestore keeps.
func (r *shoppingRepository) CreateMany(ctx context.Context, items []*models.ShoppingItem) ([]*models.ShoppingItem, error) {
	col := r.store.Collection(colShoppingItems)
	now := time.Now()

	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		for i, item := range items {
			ref := col.NewDoc()
			item.ID = ref.ID
			item.Bought = false
			item.CreatedAt = now.Add(time.Duration(i) * time.Microsecond)
			item.UpdatedAt = item.CreatedAt
			if err := t.Create(ref, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add shopping items: %w", err)
	}
	return items, nil
}

func (r *shoppingRepository) GetByID(ctx context.Context, id string) (*models.ShoppingItem, error) {
	if !validID(id) {
		return nil, nil
	}
	var item models.ShoppingItem
	found, err := getDoc(ctx, r.store.Collection(colShoppingItems).Doc(id), &item)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item by ID: %w", err)
	}
	if !found {
		return nil, nil
	}
	item.ID = id
	return &item, nil
}

func (r *shoppingRepository) ListByOwner(ctx context.Context, ownerID string, onlyUnbought bool) ([]*models.ShoppingItem, error) {
	q := byOwner(r.store.Collection(colShoppingItems), ownerID)
	if onlyUnbought {
		q = q.WhereEntity(firestore.PropertyFilter{Path: "bought", Operator: "==", Value: false})
	}

	items := []*models.ShoppingItem{}
	err := queryAll(ctx, q, func(doc *firestore.DocumentSnapshot) error {
		var item models.ShoppingItem
		if err := doc.DataTo(&item); err != nil {
			return err
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}
	sortNewestFirst(items, func(i *models.ShoppingItem) time.Time { return i.CreatedAt })
	return items, nil
}

func (r *shoppingRepository) Update(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	if !validID(item.ID) {
		return nil, nil
	}
	item.UpdatedAt = time.Now()

	_, err := r.store.Collection(colShoppingItems).Doc(item.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: item.Name},
		{Path: "quantity", Value: item.Quantity},
		{Path: "category", Value: item.Category},
		{Path: "bought", Value: item.Bought},
		{Path: "updatedAt", Value: item.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}
	return item, nil
}

func (r *shoppingRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.store.Collection(colShoppingItems).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}
