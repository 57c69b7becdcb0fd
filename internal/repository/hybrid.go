package repository

import (
	"context"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
	"github.com/sulavtimsina/expense-sync/internal/sync"
)

// --- Dependencies (minimal interfaces scoped to this package) ---

// localSource is the on-device store surface the facades read and write.
type localSource interface {
	Insert(ctx context.Context, e models.Expense) error
	Update(ctx context.Context, e models.Expense) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	ObserveAll(ctx context.Context) <-chan []models.Expense
	ObserveByCategory(ctx context.Context, category models.Category) <-chan []models.Expense
	ObserveByDateRange(ctx context.Context, start, end time.Time) <-chan []models.Expense
}

// syncEngine is the background mirroring surface the hybrid facade fans
// writes out to.
type syncEngine interface {
	ScheduleMirror(e models.Expense)
	ScheduleDelete(id string)
	SignInAndStartSync(ctx context.Context) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	SignUpWithPassword(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	SyncNow(ctx context.Context) sync.Report
}

// Hybrid is the single point of access for expense CRUD. Reads come from
// the local store only; writes land locally first and return immediately,
// then mirror to the cloud as detached best-effort tasks. Callers never see
// a mirror failure; the engine's sink does.
type Hybrid struct {
	local  localSource
	engine syncEngine
}

func NewHybrid(local localSource, engine syncEngine) *Hybrid {
	return &Hybrid{local: local, engine: engine}
}

// ObserveAll streams snapshots of every expense. Never touches the network.
func (r *Hybrid) ObserveAll(ctx context.Context) <-chan []models.Expense {
	return r.local.ObserveAll(ctx)
}

// ObserveByCategory streams snapshots filtered to one category.
func (r *Hybrid) ObserveByCategory(ctx context.Context, category models.Category) <-chan []models.Expense {
	return r.local.ObserveByCategory(ctx, category)
}

// ObserveByDateRange streams snapshots inside a date window.
func (r *Hybrid) ObserveByDateRange(ctx context.Context, start, end time.Time) <-chan []models.Expense {
	return r.local.ObserveByDateRange(ctx, start, end)
}

// GetByID is a local point lookup. Absent records return (nil, nil).
func (r *Hybrid) GetByID(ctx context.Context, id string) (*models.Expense, error) {
	e, err := r.local.GetByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("get", "failed to get expense: "+err.Error())
	}
	return e, nil
}

// Insert writes locally and returns on the local outcome alone; the cloud
// mirror is scheduled only after the local write succeeded.
func (r *Hybrid) Insert(ctx context.Context, e models.Expense) error {
	if err := r.local.Insert(ctx, e); err != nil {
		return errs.NewDatabaseError("insert", "failed to insert expense: "+err.Error())
	}
	r.engine.ScheduleMirror(e)
	return nil
}

// Update writes locally, then schedules the mirror.
func (r *Hybrid) Update(ctx context.Context, e models.Expense) error {
	if err := r.local.Update(ctx, e); err != nil {
		return errs.NewDatabaseError("update", "failed to update expense: "+err.Error())
	}
	r.engine.ScheduleMirror(e)
	return nil
}

// Delete removes locally, then schedules a hard remote delete.
func (r *Hybrid) Delete(ctx context.Context, id string) error {
	if err := r.local.Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete expense: "+err.Error())
	}
	r.engine.ScheduleDelete(id)
	return nil
}

// SignInAndStartSync authenticates anonymously and kicks off the initial
// reconciliation. The auth error, if any, is the engine's unchanged.
func (r *Hybrid) SignInAndStartSync(ctx context.Context) (string, error) {
	return r.engine.SignInAndStartSync(ctx)
}

// SignInWithPassword is the credentialed variant.
func (r *Hybrid) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	return r.engine.SignInWithPassword(ctx, email, password)
}

// SignUpWithPassword creates a cloud account and starts syncing into it.
func (r *Hybrid) SignUpWithPassword(ctx context.Context, email, password string) (string, error) {
	return r.engine.SignUpWithPassword(ctx, email, password)
}

// SignOut ends the cloud session; local data stays.
func (r *Hybrid) SignOut(ctx context.Context) error {
	return r.engine.SignOut(ctx)
}

// SyncNow runs a user-initiated reconciliation and reports the result.
func (r *Hybrid) SyncNow(ctx context.Context) sync.Report {
	return r.engine.SyncNow(ctx)
}
