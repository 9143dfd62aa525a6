package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/Kerhoff/MealMate/internal/repository"
)

type mealPlanRepository struct {
	store *firestore.Client
}

type dateLock struct {
	PlanID string `firestore:"planId"`
}

func (r *mealPlanRepository) dateLockRef(ownerID, date string) *firestore.DocumentRef {
	return r.store.Collection(colMealPlanDates).Doc(ownerID + "_" + date)
}

// Upsert reads the date lock inside the transaction, so two concurrent
// inserts for the same slot conflict and the retried one takes the update
// path.
func (r *mealPlanRepository) Upsert(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, bool, error) {
	if !validID(plan.OwnerID + "_" + plan.Date) {
		return nil, false, fmt.Errorf("invalid meal plan key %q", plan.Date)
	}
	lockRef := r.dateLockRef(plan.OwnerID, plan.Date)
	plans := r.store.Collection(colMealPlans)

	var (
		saved    models.MealPlan
		inserted bool
	)
	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		now := time.Now()

		lockDoc, err := t.Get(lockRef)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err == nil {
			var lock dateLock
			if err := lockDoc.DataTo(&lock); err != nil {
				return err
			}
			planRef := plans.Doc(lock.PlanID)
			planDoc, err := t.Get(planRef)
			if err != nil {
				return err
			}
			if err := planDoc.DataTo(&saved); err != nil {
				return err
			}
			saved.ID = lock.PlanID
			saved.RecipeID = plan.RecipeID
			saved.UpdatedAt = now
			inserted = false
			return t.Update(planRef, []firestore.Update{
				{Path: "recipeId", Value: saved.RecipeID},
				{Path: "updatedAt", Value: saved.UpdatedAt},
			})
		}

		planRef := plans.NewDoc()
		saved = *plan
		saved.ID = planRef.ID
		saved.Recipe = nil
		saved.CreatedAt = now
		saved.UpdatedAt = now
		inserted = true
		if err := t.Create(lockRef, dateLock{PlanID: saved.ID}); err != nil {
			return err
		}
		return t.Create(planRef, saved)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert meal plan: %w", err)
	}

	return &saved, inserted, nil
}

func (r *mealPlanRepository) GetByID(ctx context.Context, id string) (*models.MealPlan, error) {
	if !validID(id) {
		return nil, nil
	}
	var plan models.MealPlan
	found, err := getDoc(ctx, r.store.Collection(colMealPlans).Doc(id), &plan)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal plan by ID: %w", err)
	}
	if !found {
		return nil, nil
	}
	plan.ID = id
	return &plan, nil
}

func (r *mealPlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.MealPlan, error) {
	plans := []*models.MealPlan{}
	err := queryAll(ctx, byOwner(r.store.Collection(colMealPlans), ownerID), func(doc *firestore.DocumentSnapshot) error {
		var plan models.MealPlan
		if err := doc.DataTo(&plan); err != nil {
			return err
		}
		plan.ID = doc.Ref.ID
		plans = append(plans, &plan)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Date < plans[j].Date })
	return plans, nil
}

// Update moves the date lock along with the plan when the date changes.
func (r *mealPlanRepository) Update(ctx context.Context, plan *models.MealPlan) (*models.MealPlan, error) {
	if !validID(plan.ID) || !validID(plan.OwnerID+"_"+plan.Date) {
		return nil, nil
	}
	planRef := r.store.Collection(colMealPlans).Doc(plan.ID)

	var saved *models.MealPlan
	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		saved = nil

		planDoc, err := t.Get(planRef)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var current models.MealPlan
		if err := planDoc.DataTo(&current); err != nil {
			return err
		}

		oldDate := current.Date
		newLock := r.dateLockRef(current.OwnerID, plan.Date)
		moving := oldDate != plan.Date
		if moving {
			if _, err := t.Get(newLock); err == nil {
				return repository.ErrDuplicate
			} else if !isNotFound(err) {
				return err
			}
		}

		current.ID = plan.ID
		current.Date = plan.Date
		current.RecipeID = plan.RecipeID
		current.UpdatedAt = time.Now()

		if moving {
			if err := t.Delete(r.dateLockRef(current.OwnerID, oldDate)); err != nil {
				return err
			}
			if err := t.Create(newLock, dateLock{PlanID: plan.ID}); err != nil {
				return err
			}
		}
		if err := t.Update(planRef, []firestore.Update{
			{Path: "date", Value: current.Date},
			{Path: "recipeId", Value: current.RecipeID},
			{Path: "updatedAt", Value: current.UpdatedAt},
		}); err != nil {
			return err
		}
		saved = &current
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update meal plan: %w", err)
	}

	return saved, nil
}

func (r *mealPlanRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	planRef := r.store.Collection(colMealPlans).Doc(id)

	err := r.store.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
		planDoc, err := t.Get(planRef)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var plan models.MealPlan
		if err := planDoc.DataTo(&plan); err != nil {
			return err
		}
		if err := t.Delete(r.dateLockRef(plan.OwnerID, plan.Date)); err != nil {
			return err
		}
		return t.Delete(planRef)
	})
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return nil
}
