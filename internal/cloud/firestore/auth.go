package firestorecloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/sulavtimsina/expense-sync/internal/errs"
)

const identityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Auth holds the end-user session for the Firestore backend. Sign-in goes
// through the Identity Toolkit REST API with the project's web API key,
// since the Admin SDK cannot perform end-user sign-in. The Admin SDK is used for
// RestoreSession, verifying a previously issued ID token on relaunch.
//
// The session lives in memory only; nothing is persisted here.
type Auth struct {
	apiKey   string
	endpoint string
	http     *http.Client
	verifier *fbauth.Client

	mu      sync.Mutex
	uid     string
	idToken string
	expiry  time.Time
}

type AuthOption func(*Auth)

// WithEndpoint overrides the Identity Toolkit base URL. For tests.
func WithEndpoint(endpoint string) AuthOption {
	return func(a *Auth) { a.endpoint = endpoint }
}

func NewAuth(verifier *fbauth.Client, apiKey string, opts ...AuthOption) *Auth {
	a := &Auth{
		apiKey:   apiKey,
		endpoint: identityToolkitEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		verifier: verifier,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CurrentUserID returns the signed-in user id, or "" when there is no
// session or the session's token has expired.
func (a *Auth) CurrentUserID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.uid == "" || time.Now().After(a.expiry) {
		return ""
	}
	return a.uid
}

// SignInAnonymously creates an anonymous account and opens a session.
func (a *Auth) SignInAnonymously(ctx context.Context) (string, error) {
	return a.call(ctx, "accounts:signUp", map[string]any{
		"returnSecureToken": true,
	})
}

// SignIn opens a session with email credentials.
func (a *Auth) SignIn(ctx context.Context, email, password string) (string, error) {
	return a.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignUp registers an email account and opens a session.
func (a *Auth) SignUp(ctx context.Context, email, password string) (string, error) {
	return a.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignOut drops the in-memory session. ID tokens cannot be revoked from
// here; they simply stop being presented.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uid = ""
	a.idToken = ""
	a.expiry = time.Time{}
	return nil
}

// RestoreSession verifies an ID token issued in an earlier run and, when
// valid, reopens the session it represents. Used at construction when the
// app relaunches with a live token.
func (a *Auth) RestoreSession(ctx context.Context, idToken string) (string, error) {
	tok, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", errs.NewCloudSyncError("restore-session", err.Error())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.uid = tok.UID
	a.idToken = idToken
	a.expiry = time.Unix(tok.Expires, 0)
	return tok.UID, nil
}

// IDToken returns the session's raw token, for callers that persist it for
// the next launch.
func (a *Auth) IDToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.idToken
}

type sessionResponse struct {
	LocalID   string `json:"localId"`
	IDToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn"`
}

func (a *Auth) call(ctx context.Context, action string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}

	url := fmt.Sprintf("%s/%s?key=%s", a.endpoint, action, a.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.NewCloudSyncError("sign-in",
			fmt.Sprintf("identity toolkit returned %s: %s", resp.Status, msg))
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", errs.NewCloudSyncError("sign-in", err.Error())
	}
	if session.LocalID == "" {
		return "", errs.NewCloudSyncError("sign-in", "no user id in response")
	}

	ttl, err := strconv.Atoi(session.ExpiresIn)
	if err != nil || ttl <= 0 {
		ttl = 3600
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.uid = session.LocalID
	a.idToken = session.IDToken
	a.expiry = time.Now().Add(time.Duration(ttl) * time.Second)
	return session.LocalID, nil
}
