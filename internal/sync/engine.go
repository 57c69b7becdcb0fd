package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sulavtimsina/expense-sync/internal/models"
	"github.com/sulavtimsina/expense-sync/internal/sample"
)

// --- Dependencies (minimal interfaces scoped to this engine) ---

// LocalStore is the slice of the on-device store the engine needs for
// reconciliation.
type LocalStore interface {
	ListAll(ctx context.Context) ([]models.Expense, error)
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	Insert(ctx context.Context, e models.Expense) error
	Update(ctx context.Context, e models.Expense) error
}

// CloudSource is the authenticated remote store. CurrentUserID returns ""
// when no session exists; every other call is expected to fail with an auth
// error in that state, but the engine checks first and never reaches the
// network without a session.
type CloudSource interface {
	CurrentUserID() string
	SignInAnonymously(ctx context.Context) (string, error)
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	Upsert(ctx context.Context, e models.CloudExpense) error
	Delete(ctx context.Context, id string) error
	FetchAll(ctx context.Context, userID string) ([]models.CloudExpense, error)
	SubscribeAll(ctx context.Context, userID string) <-chan []models.CloudExpense
}

// Report summarizes one reconciliation pass. Per-record failures are
// counted here and recorded in the sink; they never abort the pass.
type Report struct {
	Pushed      int  `json:"pushed"`
	Skipped     int  `json:"skipped"`
	PushFailed  int  `json:"pushFailed"`
	Applied     int  `json:"applied"`
	ApplyFailed int  `json:"applyFailed"`
	PullFailed  bool `json:"pullFailed"`
}

// Engine moves expenses between the local store and the cloud while local
// reads and writes stay fully functional offline.
//
// Reconciliation is push-then-pull: the device's own records reach the
// cloud before the pull can overwrite them locally. On pull, the remote
// copy wins unconditionally; there is no timestamp or version comparison
// (the remote updated_at clock and the local clock are not comparable, so
// the engine does not pretend to merge). A record deleted remotely while
// this device was offline is not detected: the local copy survives and is
// re-pushed on the next sync.
type Engine struct {
	local LocalStore
	cloud CloudSource
	sink  Sink
	log   *slog.Logger

	streaming bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	endSession context.CancelFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithStreaming enables the continuous remote change feed after the initial
// sync. Without it the engine only reconciles on explicit triggers.
func WithStreaming() Option {
	return func(e *Engine) { e.streaming = true }
}

// New builds an engine around injected collaborators. Nothing runs until
// Start or a trigger is called; Close tears the background scope down.
func New(local LocalStore, cloud CloudSource, sink Sink, log *slog.Logger, opts ...Option) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		local:  local,
		cloud:  cloud,
		sink:   sink,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start performs the construction-time trigger: if a session already exists
// (app relaunch), the initial sync runs in the background, followed by the
// streaming loop when enabled. Without a session Start is a no-op; sync
// then waits for SignInAndStartSync.
func (e *Engine) Start() {
	if e.cloud.CurrentUserID() == "" {
		e.log.Debug("sync not started, no session")
		return
	}
	e.startBackground()
}

// startBackground kicks off the initial sync and, when enabled, the
// streaming loop. Both run in a session scope nested inside the engine
// scope, so SignOut or a re-sign-in ends them without closing the engine.
func (e *Engine) startBackground() {
	ctx := e.beginSession()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.InitialSync(ctx)
		if e.streaming {
			e.streamLoop(ctx)
		}
	}()
}

// beginSession replaces the current session scope. The previous scope is
// cancelled first: signing in again must never leave the old owner's
// stream running next to the new one.
func (e *Engine) beginSession() context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.endSession != nil {
		e.endSession()
	}
	ctx, cancel := context.WithCancel(e.ctx)
	e.endSession = cancel
	return ctx
}

func (e *Engine) cancelSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.endSession != nil {
		e.endSession()
		e.endSession = nil
	}
}

// SignInAndStartSync authenticates anonymously and, on success, starts the
// initial sync in the background. The auth error is returned unchanged and
// no sync is attempted on failure.
func (e *Engine) SignInAndStartSync(ctx context.Context) (string, error) {
	uid, err := e.cloud.SignInAnonymously(ctx)
	if err != nil {
		return "", err
	}
	e.startBackground()
	return uid, nil
}

// SignInWithPassword is SignInAndStartSync with email credentials.
func (e *Engine) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	uid, err := e.cloud.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	e.startBackground()
	return uid, nil
}

// SignUpWithPassword registers a new account and starts the initial sync.
func (e *Engine) SignUpWithPassword(ctx context.Context, email, password string) (string, error) {
	uid, err := e.cloud.SignUp(ctx, email, password)
	if err != nil {
		return "", err
	}
	e.startBackground()
	return uid, nil
}

// SignOut cancels the session scope, ending any running stream, then ends
// the cloud session. Local data is untouched.
func (e *Engine) SignOut(ctx context.Context) error {
	e.cancelSession()
	return e.cloud.SignOut(ctx)
}

// SyncNow runs a full reconciliation on the caller's context and reports
// what happened. It is idempotent and safe to call while another pass is
// running; every record write involved is individually idempotent.
func (e *Engine) SyncNow(ctx context.Context) Report {
	return e.InitialSync(ctx)
}

// InitialSync pushes local records to the cloud, then pulls the owner's
// full remote set and applies it locally. With no session it does nothing.
func (e *Engine) InitialSync(ctx context.Context) Report {
	var report Report

	uid := e.cloud.CurrentUserID()
	if uid == "" {
		e.log.Debug("initial sync skipped, no session")
		return report
	}

	e.pushLocal(ctx, uid, &report)
	e.pull(ctx, uid, &report)

	e.log.Info("initial sync complete",
		"pushed", report.Pushed,
		"skipped", report.Skipped,
		"push_failed", report.PushFailed,
		"applied", report.Applied,
		"apply_failed", report.ApplyFailed,
		"pull_failed", report.PullFailed,
	)
	return report
}

// pushLocal upserts every non-sample local record. One record's failure
// never stops the rest of the batch.
func (e *Engine) pushLocal(ctx context.Context, uid string, report *Report) {
	locals, err := e.local.ListAll(ctx)
	if err != nil {
		e.log.Warn("push skipped, local list failed", "error", err)
		return
	}

	for _, exp := range locals {
		if sample.IsSampleID(exp.ID) {
			e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusSkipped, Reason: "sample record"})
			report.Skipped++
			continue
		}
		if err := e.cloud.Upsert(ctx, exp.ToCloud(uid)); err != nil {
			e.log.Warn("push failed", "record_id", exp.ID, "error", err)
			e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusFailed, Err: err})
			report.PushFailed++
			continue
		}
		e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusPushed})
		report.Pushed++
	}
}

// pull fetches the owner's remote records and applies each one locally.
func (e *Engine) pull(ctx context.Context, uid string, report *Report) {
	cloudRecords, err := e.cloud.FetchAll(ctx, uid)
	if err != nil {
		e.log.Warn("pull failed", "error", err)
		report.PullFailed = true
		return
	}

	for _, c := range cloudRecords {
		if err := e.applyRemote(ctx, c); err != nil {
			e.log.Warn("apply failed", "record_id", c.ID, "error", err)
			e.sink.Record(Outcome{RecordID: c.ID, Op: "pull-apply", Status: StatusFailed, Err: err})
			report.ApplyFailed++
			continue
		}
		report.Applied++
	}
}

// applyRemote writes one pulled record into the local store: insert when
// absent, otherwise overwrite. The remote copy wins unconditionally.
func (e *Engine) applyRemote(ctx context.Context, c models.CloudExpense) error {
	existing, err := e.local.GetByID(ctx, c.ID)
	exp := c.ToDomain()
	if err != nil {
		// The lookup failed but the record may still be insertable.
		return e.local.Insert(ctx, exp)
	}
	if existing == nil {
		return e.local.Insert(ctx, exp)
	}
	return e.local.Update(ctx, exp)
}

// streamLoop applies every batch from the remote change feed until the
// engine scope or the feed ends.
func (e *Engine) streamLoop(ctx context.Context) {
	uid := e.cloud.CurrentUserID()
	if uid == "" {
		return
	}
	e.log.Info("remote change feed started")
	for batch := range e.cloud.SubscribeAll(ctx, uid) {
		for _, c := range batch {
			if err := e.applyRemote(ctx, c); err != nil {
				e.log.Warn("apply failed", "record_id", c.ID, "error", err)
				e.sink.Record(Outcome{RecordID: c.ID, Op: "pull-apply", Status: StatusFailed, Err: err})
			}
		}
	}
	e.log.Info("remote change feed ended")
}

// ScheduleMirror mirrors one local write to the cloud as a detached,
// supervised task. The caller has already returned by the time the push
// runs; the outcome lands in the sink, never on the caller.
func (e *Engine) ScheduleMirror(exp models.Expense) {
	e.goRun(func(ctx context.Context) {
		if sample.IsSampleID(exp.ID) {
			e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusSkipped, Reason: "sample record"})
			return
		}
		uid := e.cloud.CurrentUserID()
		if uid == "" {
			e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusSkipped, Reason: "no authenticated session"})
			return
		}
		if err := e.cloud.Upsert(ctx, exp.ToCloud(uid)); err != nil {
			e.log.Warn("mirror failed", "record_id", exp.ID, "error", err)
			e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusFailed, Err: err})
			return
		}
		e.sink.Record(Outcome{RecordID: exp.ID, Op: "upsert", Status: StatusPushed})
	})
}

// ScheduleDelete mirrors a local delete as a hard remote delete.
func (e *Engine) ScheduleDelete(id string) {
	e.goRun(func(ctx context.Context) {
		if sample.IsSampleID(id) {
			e.sink.Record(Outcome{RecordID: id, Op: "delete", Status: StatusSkipped, Reason: "sample record"})
			return
		}
		if e.cloud.CurrentUserID() == "" {
			e.sink.Record(Outcome{RecordID: id, Op: "delete", Status: StatusSkipped, Reason: "no authenticated session"})
			return
		}
		if err := e.cloud.Delete(ctx, id); err != nil {
			e.log.Warn("mirror delete failed", "record_id", id, "error", err)
			e.sink.Record(Outcome{RecordID: id, Op: "delete", Status: StatusFailed, Err: err})
			return
		}
		e.sink.Record(Outcome{RecordID: id, Op: "delete", Status: StatusPushed})
	})
}

func (e *Engine) goRun(f func(ctx context.Context)) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		f(e.ctx)
	}()
}

// Wait blocks until every scheduled background task has finished. Intended
// for tests and shutdown paths.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels the background scope and waits for outstanding tasks. A
// hung remote call ends here at the latest, when its context dies.
func (e *Engine) Close() {
	e.cancel()
	e.wg.Wait()
}
