package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

func signedInAuth(baseURL string) *Auth {
	a := NewAuth(baseURL, "anon-key", nil)
	a.uid = "uid-1"
	a.accessToken = "token-1"
	return a
}

func cloudExpense(id string) models.CloudExpense {
	return models.CloudExpense{
		ID:       id,
		UserID:   "uid-1",
		Amount:   12.5,
		Category: "Food",
		Date:     time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpsertSendsMergeDuplicates(t *testing.T) {
	var got *http.Request
	var body models.CloudExpense
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSource(srv.URL, "anon-key", signedInAuth(srv.URL))
	if err := s.Upsert(context.Background(), cloudExpense("e1")); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if got.URL.Path != "/rest/v1/expenses" || got.Method != http.MethodPost {
		t.Fatalf("unexpected request %s %s", got.Method, got.URL.Path)
	}
	if got.Header.Get("Prefer") != "resolution=merge-duplicates" {
		t.Fatalf("upsert must merge duplicates, got Prefer=%q", got.Header.Get("Prefer"))
	}
	if got.Header.Get("apikey") != "anon-key" || got.Header.Get("Authorization") != "Bearer token-1" {
		t.Fatalf("auth headers missing: %v", got.Header)
	}
	if body.ID != "e1" || body.UserID != "uid-1" {
		t.Fatalf("unexpected payload: %+v", body)
	}
}

func TestUpsertWithoutSession(t *testing.T) {
	s := NewSource("http://unused", "anon-key", NewAuth("http://unused", "anon-key", nil))

	err := s.Upsert(context.Background(), cloudExpense("e1"))
	var authErr *errs.AuthRequiredError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthRequiredError, got %v", err)
	}
}

func TestUpsertServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "row level security violation", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSource(srv.URL, "anon-key", signedInAuth(srv.URL))
	err := s.Upsert(context.Background(), cloudExpense("e1"))
	var cloudErr *errs.CloudSyncError
	if !errors.As(err, &cloudErr) {
		t.Fatalf("expected CloudSyncError, got %v", err)
	}
	if cloudErr.Operation != "upsert" {
		t.Fatalf("unexpected operation %q", cloudErr.Operation)
	}
}

func TestDeleteFiltersByIDAndOwner(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewSource(srv.URL, "anon-key", signedInAuth(srv.URL))
	if err := s.Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	q := got.URL.Query()
	if q.Get("id") != "eq.e1" || q.Get("user_id") != "eq.uid-1" {
		t.Fatalf("delete not scoped: %v", q)
	}
	if got.Method != http.MethodDelete {
		t.Fatalf("unexpected method %s", got.Method)
	}
}

func TestFetchAllScopedToOwner(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		json.NewEncoder(w).Encode([]models.CloudExpense{cloudExpense("e1"), cloudExpense("e2")})
	}))
	defer srv.Close()

	s := NewSource(srv.URL, "anon-key", signedInAuth(srv.URL))
	expenses, err := s.FetchAll(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(expenses) != 2 || expenses[0].ID != "e1" {
		t.Fatalf("unexpected rows: %+v", expenses)
	}
	if got.URL.Query().Get("user_id") != "eq.uid-1" {
		t.Fatalf("fetch not scoped to owner: %v", got.URL.Query())
	}
}

func TestSubscribeAllPollsAndCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.CloudExpense{cloudExpense("e1")})
	}))
	defer srv.Close()

	s := NewSource(srv.URL, "anon-key", signedInAuth(srv.URL), WithPollInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.SubscribeAll(ctx, "uid-1")
	select {
	case batch := <-ch:
		if len(batch) != 1 || batch[0].ID != "e1" {
			t.Fatalf("unexpected batch: %+v", batch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no batch emitted")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A batch may already be buffered; the next receive must close.
			if _, ok := <-ch; ok {
				t.Fatal("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}

func TestSignInStoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("apikey") != "anon-key" {
			http.Error(w, "missing apikey", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-xyz",
			"user":         map[string]string{"id": "uid-9"},
		})
	}))
	defer srv.Close()

	a := NewAuth(srv.URL, "anon-key", nil)
	uid, err := a.SignIn(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if uid != "uid-9" || a.CurrentUserID() != "uid-9" || a.AccessToken() != "token-xyz" {
		t.Fatalf("session not stored: uid=%q token=%q", a.CurrentUserID(), a.AccessToken())
	}
}

func TestSignInRejectedClearsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid login credentials", http.StatusBadRequest)
	}))
	defer srv.Close()

	a := NewAuth(srv.URL, "anon-key", nil)
	_, err := a.SignIn(context.Background(), "a@b.c", "wrong")
	var cloudErr *errs.CloudSyncError
	if !errors.As(err, &cloudErr) {
		t.Fatalf("expected CloudSyncError, got %v", err)
	}
	if a.CurrentUserID() != "" {
		t.Fatalf("failed sign-in left a session behind")
	}
}

func TestSignOutDropsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a := signedInAuth(srv.URL)
	if err := a.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if a.CurrentUserID() != "" || a.AccessToken() != "" {
		t.Fatalf("session survived sign-out")
	}
}
