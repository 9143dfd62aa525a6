package models

import "time"

// ShoppingItem represents an entry on a user's shopping list
type ShoppingItem struct {
	ID        string    `json:"id" firestore:"-"`
	OwnerID   string    `json:"ownerId" firestore:"ownerId"`
	Name      string    `json:"name" firestore:"name"`
	Quantity  string    `json:"quantity" firestore:"quantity"`
	Category  string    `json:"category" firestore:"category"`
	Bought    bool      `json:"bought" firestore:"bought"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// ShoppingItemPatch holds the editable fields of a shopping item
type ShoppingItemPatch struct {
	Name     *string `json:"name,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
	Category *string `json:"category,omitempty"`
}
