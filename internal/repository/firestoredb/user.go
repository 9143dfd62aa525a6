package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

type userRepository struct {
	store *firestore.Client
}

type emailLock struct {
	UserID string `firestore:"userId"`
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	ref := r.store.Collection(colUsers).NewDoc()
	lockRef := r.store.Collection(colUserEmails).Doc(url.PathEscape(user.Email))

	now := time.Now()
	row := *user
	row.ID = ref.ID
	row.CreatedAt = now
	row.UpdatedAt = now

	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		if _, err := t.Get(lockRef); err == nil {
			return repository.ErrDuplicate
		} else if !isNotFound(err) {
			return err
		}
		if err := t.Create(lockRef, emailLock{UserID: row.ID}); err != nil {
			return err
		}
		return t.Create(ref, row)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &row, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, nil
	}
	var user models.User
	found, err := getDoc(ctx, r.store.Collection(colUsers).Doc(id), &user)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	if !found {
		return nil, nil
	}
	user.ID = id
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var lock emailLock
	found, err := getDoc(ctx, r.store.Collection(colUserEmails).Doc(url.PathEscape(email)), &lock)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !found {
		return nil, nil
	}
	return r.GetByID(ctx, lock.UserID)
}
