package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kerhoff/MealMate/internal/models"
)

const msgItemNotFound = "Item not found"

func itemOwner(i *models.ShoppingItem) string { return i.OwnerID }

// ListItems returns the caller's shopping list, newest first
func (s *Service) ListItems(ctx context.Context, ownerID string) ([]*models.ShoppingItem, error) {
	items, err := s.Shopping.ListByOwner(ctx, ownerID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	return items, nil
}

// AddItem puts a new, unbought item on the caller's list
func (s *Service) AddItem(ctx context.Context, ownerID, name, quantity, category string) (*models.ShoppingItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(ErrValidation, "Item name is required")
	}

	item, err := s.Shopping.Create(ctx, &models.ShoppingItem{
		OwnerID:  ownerID,
		Name:     name,
		Quantity: strings.TrimSpace(quantity),
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add shopping item: %w", err)
	}
	return item, nil
}

// UpdateItem edits the name, quantity or category of an owned item
func (s *Service) UpdateItem(ctx context.Context, ownerID, id string, patch models.ShoppingItemPatch) (*models.ShoppingItem, error) {
	item, err := loadOwned(ctx, ownerID, id, msgItemNotFound, s.Shopping.GetByID, itemOwner)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, newError(ErrValidation, "Item name is required")
		}
		item.Name = name
	}
	if patch.Quantity != nil {
		item.Quantity = strings.TrimSpace(*patch.Quantity)
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}

	return s.saveItem(ctx, item)
}

// ToggleItem flips the bought flag of an owned item
func (s *Service) ToggleItem(ctx context.Context, ownerID, id string) (*models.ShoppingItem, error) {
	item, err := loadOwned(ctx, ownerID, id, msgItemNotFound, s.Shopping.GetByID, itemOwner)
	if err != nil {
		return nil, err
	}
	item.Bought = !item.Bought
	return s.saveItem(ctx, item)
}

func (s *Service) saveItem(ctx context.Context, item *models.ShoppingItem) (*models.ShoppingItem, error) {
	updated, err := s.Shopping.Update(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to update shopping item %s: %w", item.ID, err)
	}
	if updated == nil {
		return nil, newError(ErrNotFound, msgItemNotFound)
	}
	return updated, nil
}

// DeleteItem removes an owned item
func (s *Service) DeleteItem(ctx context.Context, ownerID, id string) error {
	if _, err := loadOwned(ctx, ownerID, id, msgItemNotFound, s.Shopping.GetByID, itemOwner); err != nil {
		return err
	}
	if err := s.Shopping.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shopping item %s: %w", id, err)
	}
	return nil
}

// AddFromRecipe adds one unbought item per ingredient of an owned recipe
func (s *Service) AddFromRecipe(ctx context.Context, ownerID, recipeID string) ([]*models.ShoppingItem, error) {
	recipe, err := s.GetRecipe(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.ShoppingItem, 0, len(recipe.Ingredients))
	for _, ingredient := range recipe.Ingredients {
		items = append(items, &models.ShoppingItem{OwnerID: ownerID, Name: ingredient})
	}
	if len(items) == 0 {
		return items, nil
	}

	items, err = s.Shopping.CreateMany(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("failed to add items from recipe %s: %w", recipeID, err)
	}
	return items, nil
}

// ShareList sends the caller's unbought items to a chat and returns how many
// were listed.
func (s *Service) ShareList(ctx context.Context, ownerID string, chatID int64) (int, error) {
	if s.notifier == nil {
		return 0, newError(ErrValidation, "Sharing is not configured")
	}
	if chatID == 0 {
		return 0, newError(ErrValidation, "chatId is required")
	}

	items, err := s.Shopping.ListByOwner(ctx, ownerID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list unbought items: %w", err)
	}

	if err := s.notifier.ShareShoppingList(chatID, items); err != nil {
		return 0, wrapError(ErrUpstream, "Failed to share the shopping list", err)
	}
	s.logger.Infof("Shared %d shopping items with chat %d", len(items), chatID)
	return len(items), nil
}
