package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

const defaultPollInterval = 30 * time.Second

// Source is the Supabase-backed cloud store: a thin client over the
// PostgREST expenses table, scoped to the owner by the user_id column.
// Row-level security enforces the same scoping server-side; the filter
// here keeps the client honest and the payloads small.
type Source struct {
	baseURL      string
	anonKey      string
	http         *http.Client
	auth         *Auth
	pollInterval time.Duration
}

type Option func(*Source)

// WithPollInterval sets how often SubscribeAll re-fetches. The change feed
// for this backend is a poll loop, not a push channel.
func WithPollInterval(d time.Duration) Option {
	return func(s *Source) { s.pollInterval = d }
}

func NewSource(baseURL, anonKey string, auth *Auth, opts ...Option) *Source {
	s := &Source{
		baseURL:      baseURL,
		anonKey:      anonKey,
		http:         &http.Client{Timeout: 30 * time.Second},
		auth:         auth,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) CurrentUserID() string { return s.auth.CurrentUserID() }

func (s *Source) SignInAnonymously(ctx context.Context) (string, error) {
	return s.auth.SignInAnonymously(ctx)
}

func (s *Source) SignIn(ctx context.Context, email, password string) (string, error) {
	return s.auth.SignIn(ctx, email, password)
}

func (s *Source) SignUp(ctx context.Context, email, password string) (string, error) {
	return s.auth.SignUp(ctx, email, password)
}

func (s *Source) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

// Upsert inserts or replaces one row, keyed by id.
func (s *Source) Upsert(ctx context.Context, c models.CloudExpense) error {
	if s.auth.CurrentUserID() == "" {
		return errs.NewAuthRequiredError()
	}
	body, err := json.Marshal(c)
	if err != nil {
		return errs.NewCloudSyncError("upsert", err.Error())
	}

	req, err := s.restRequest(ctx, http.MethodPost, "/rest/v1/expenses", nil, bytes.NewReader(body))
	if err != nil {
		return errs.NewCloudSyncError("upsert", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	return s.doWrite(req, "upsert")
}

// Delete hard-deletes one row. No tombstone is left behind; see the engine
// for what that means for offline devices. Deleting an absent row is a
// no-op for PostgREST and for us.
func (s *Source) Delete(ctx context.Context, id string) error {
	uid := s.auth.CurrentUserID()
	if uid == "" {
		return errs.NewAuthRequiredError()
	}

	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+uid)

	req, err := s.restRequest(ctx, http.MethodDelete, "/rest/v1/expenses", query, nil)
	if err != nil {
		return errs.NewCloudSyncError("delete", err.Error())
	}
	return s.doWrite(req, "delete")
}

// FetchAll pulls every row owned by userID.
func (s *Source) FetchAll(ctx context.Context, userID string) ([]models.CloudExpense, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("user_id", "eq."+userID)

	req, err := s.restRequest(ctx, http.MethodGet, "/rest/v1/expenses", query, nil)
	if err != nil {
		return nil, errs.NewCloudSyncError("fetch", err.Error())
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, errs.NewCloudSyncError("fetch", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.NewCloudSyncError("fetch",
			fmt.Sprintf("expenses query returned %s: %s", resp.Status, msg))
	}

	var expenses []models.CloudExpense
	if err := json.NewDecoder(resp.Body).Decode(&expenses); err != nil {
		return nil, errs.NewCloudSyncError("fetch", err.Error())
	}
	return expenses, nil
}

// SubscribeAll re-fetches the owner's rows on an interval and emits each
// result as a batch. The channel closes when ctx ends.
func (s *Source) SubscribeAll(ctx context.Context, userID string) <-chan []models.CloudExpense {
	out := make(chan []models.CloudExpense, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			batch, err := s.FetchAll(ctx, userID)
			if err != nil {
				continue
			}
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Source) restRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := s.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	if token := s.auth.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (s *Source) doWrite(req *http.Request, op string) error {
	resp, err := s.http.Do(req)
	if err != nil {
		return errs.NewCloudSyncError(op, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.NewCloudSyncError(op,
			fmt.Sprintf("expenses %s returned %s: %s", op, resp.Status, msg))
	}
	return nil
}
