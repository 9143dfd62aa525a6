package models

import "time"

// Pantry is the single list of ingredients a user keeps at home
type Pantry struct {
	ID          string    `json:"id" firestore:"-"`
	OwnerID     string    `json:"ownerId" firestore:"ownerId"`
	Ingredients []string  `json:"ingredients" firestore:"ingredients"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt"`
}
