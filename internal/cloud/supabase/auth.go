package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/errs"
)

// Auth is the GoTrue session holder for the Supabase backend. Sessions are
// kept in memory; a repository constructed while a session is live sees it
// through CurrentUserID.
type Auth struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu          sync.Mutex
	uid         string
	accessToken string
}

func NewAuth(baseURL, anonKey string, client *http.Client) *Auth {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Auth{baseURL: baseURL, anonKey: anonKey, http: client}
}

func (a *Auth) CurrentUserID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uid
}

// AccessToken returns the bearer token for data calls, or "" when signed
// out.
func (a *Auth) AccessToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accessToken
}

// SignInAnonymously creates an anonymous user. GoTrue issues one from a
// credential-less signup when anonymous sign-ins are enabled for the
// project.
func (a *Auth) SignInAnonymously(ctx context.Context) (string, error) {
	return a.tokenCall(ctx, "/auth/v1/signup", map[string]any{})
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (string, error) {
	return a.tokenCall(ctx, "/auth/v1/token?grant_type=password", map[string]any{
		"email":    email,
		"password": password,
	})
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (string, error) {
	return a.tokenCall(ctx, "/auth/v1/signup", map[string]any{
		"email":    email,
		"password": password,
	})
}

// SignOut revokes the session server-side when possible and always drops it
// locally.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	token := a.accessToken
	a.uid = ""
	a.accessToken = ""
	a.mu.Unlock()

	if token == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return errs.NewCloudSyncError("sign-out", err.Error())
	}
	req.Header.Set("apikey", a.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.http.Do(req)
	if err != nil {
		return errs.NewCloudSyncError("sign-out", err.Error())
	}
	resp.Body.Close()
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (a *Auth) tokenCall(ctx context.Context, path string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.anonKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.NewCloudSyncError("sign-in",
			fmt.Sprintf("auth returned %s: %s", resp.Status, msg))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	if tok.User.ID == "" {
		return "", errs.NewCloudSyncError("sign-in", "no user id in response")
	}

	a.mu.Lock()
	a.uid = tok.User.ID
	a.accessToken = tok.AccessToken
	a.mu.Unlock()
	return tok.User.ID, nil
}
