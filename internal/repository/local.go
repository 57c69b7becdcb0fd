package repository

import (
	"context"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

// Local is the offline-only variant of the facade: the same CRUD surface
// with no cloud behind it. Used when no backend is configured.
type Local struct {
	local localSource
}

func NewLocal(local localSource) *Local {
	return &Local{local: local}
}

func (r *Local) ObserveAll(ctx context.Context) <-chan []models.Expense {
	return r.local.ObserveAll(ctx)
}

func (r *Local) ObserveByCategory(ctx context.Context, category models.Category) <-chan []models.Expense {
	return r.local.ObserveByCategory(ctx, category)
}

func (r *Local) ObserveByDateRange(ctx context.Context, start, end time.Time) <-chan []models.Expense {
	return r.local.ObserveByDateRange(ctx, start, end)
}

func (r *Local) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	e, err := r.local.GetByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "failed to get expense: "+err.Error())
	}
	return e, nil
}

func (r *Local) Insert(ctx context.Context, e models.Expense) error {
	if err := r.local.Insert(ctx, e); err != nil {
		return errs.NewDatabaseError("insert", "failed to insert expense: "+err.Error())
	}
	return nil
}

func (r *Local) Update(ctx context.Context, e models.Expense) error {
	if err := r.local.Update(ctx, e); err != nil {
		return errs.NewDatabaseError("update", "failed to update expense: "+err.Error())
	}
	return nil
}

func (r *Local) Delete(ctx context.Context, id string) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete expense: "+err.Error())
	}
	return nil
}
