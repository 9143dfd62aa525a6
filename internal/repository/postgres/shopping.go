package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

const shoppingColumns = `id, owner_id, name, quantity, category, bought, created_at, updated_at`

type shoppingRepository struct {
	db *sql.DB
}

// NewShoppingRepository creates a new shopping list repository
func NewShoppingRepository(db *sql.DB) repository.ShoppingRepository {
	return &shoppingRepository{db: db}
}

func scanShoppingItem(row rowScanner) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.Quantity,
		&item.Category,
		&item.Bought,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

const insertShoppingItem = `
	INSERT INTO shopping_items (owner_id, name, quantity, category, bought, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createShoppingItem(ctx context.Context, q queryRower, item *models.ShoppingItem, now time.Time) error {
	item.Bought = false
	item.CreatedAt = now
	item.UpdatedAt = now

	return q.QueryRowContext(ctx, insertShoppingItem,
		item.OwnerID,
		item.Name,
		item.Quantity,
		item.Category,
		item.Bought,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *shoppingRepository) Create(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	if err := createShoppingItem(ctx, r.db, item, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to add shopping item: %w", err)
	}
	return item, nil
}

// CreateMany inserts all items in one transaction. Items get strictly
// increasing creation times so newest-first listing keeps their reverse order.
func (r *shoppingRepository) CreateMany(ctx context.Context, items []*models.ShoppingItem) ([]*models.ShoppingItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i, item := range items {
		if err := createShoppingItem(ctx, tx, item, now.Add(time.Duration(i)*time.Microsecond)); err != nil {
			return nil, fmt.Errorf("failed to add shopping item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit shopping items: %w", err)
	}

	return items, nil
}

func (r *shoppingRepository) GetByID(ctx context.Context, id string) (*models.ShoppingItem, error) {
	query := `SELECT ` + shoppingColumns + ` FROM shopping_items WHERE id = $1`

	item, err := scanShoppingItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping item by ID: %w", err)
	}

	return item, nil
}

func (r *shoppingRepository) ListByOwner(ctx context.Context, ownerID string, onlyUnbought bool) ([]*models.ShoppingItem, error) {
	query := `SELECT ` + shoppingColumns + ` FROM shopping_items WHERE owner_id = $1`

	if onlyUnbought {
		query += " AND bought = false"
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}
	defer rows.Close()

	items := []*models.ShoppingItem{}
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *shoppingRepository) Update(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	query := `
		UPDATE shopping_items
		SET name = $2, quantity = $3, category = $4, bought = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at`

	item.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Name,
		item.Quantity,
		item.Category,
		item.Bought,
		item.UpdatedAt,
	).Scan(&item.UpdatedAt)

	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update shopping item: %w", err)
	}

	return item, nil
}

func (r *shoppingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM shopping_items WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		if isMissing(err) {
			return nil
		}
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}

	return nil
}
