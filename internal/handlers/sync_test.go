package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sulavtimsina/expense-sync/internal/dto"
	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/sync"
)

type stubSyncService struct {
	report    sync.Report
	signInErr error

	syncNowCalled bool
	anonCalled    bool
	email         string
	password      string
	signedUp      bool
	signOutCalled bool
}

func (s *stubSyncService) SignInAndStartSync(context.Context) (string, error) {
	s.anonCalled = true
	if s.signInErr != nil {
		return "", s.signInErr
	}
	return "anon-uid", nil
}

func (s *stubSyncService) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	s.email, s.password = email, password
	if s.signInErr != nil {
		return "", s.signInErr
	}
	return "user-uid", nil
}

func (s *stubSyncService) SignUpWithPassword(_ context.Context, email, password string) (string, error) {
	s.signedUp = true
	s.email, s.password = email, password
	return "new-uid", nil
}

func (s *stubSyncService) SignOut(context.Context) error {
	s.signOutCalled = true
	return nil
}

func (s *stubSyncService) SyncNow(context.Context) sync.Report {
	s.syncNowCalled = true
	return s.report
}

type stubOutcomes struct {
	recent   []sync.Outcome
	failures []sync.Outcome
}

func (s *stubOutcomes) Recent() []sync.Outcome   { return s.recent }
func (s *stubOutcomes) Failures() []sync.Outcome { return s.failures }

func TestSyncNowReturnsReport(t *testing.T) {
	svc := &stubSyncService{report: sync.Report{Pushed: 2, Applied: 1}}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: svc, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/sync/now", nil)
	rr := httptest.NewRecorder()
	h.SyncNow(rr, req)

	if !svc.syncNowCalled {
		t.Fatalf("SyncNow not invoked")
	}
	report, ok := resp.writeSuccessData.(sync.Report)
	if !ok || report.Pushed != 2 || report.Applied != 1 {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestGetOutcomes(t *testing.T) {
	outcomes := &stubOutcomes{recent: []sync.Outcome{
		{RecordID: "a", Op: "upsert", Status: sync.StatusPushed},
		{RecordID: "b", Op: "upsert", Status: sync.StatusFailed, Err: errors.New("boom")},
	}}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: &stubSyncService{}, Outcomes: outcomes})

	req := httptest.NewRequest(http.MethodGet, "/sync/outcomes", nil)
	rr := httptest.NewRecorder()
	h.GetOutcomes(rr, req)

	list, ok := resp.writeSuccessData.([]dto.OutcomeResponse)
	if !ok || len(list) != 2 {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
	if list[1].Error != "boom" {
		t.Fatalf("failure cause not surfaced: %+v", list[1])
	}
}

func TestSignInValidatesBody(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: &stubSyncService{}, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":"a@b.c"}`))
	rr := httptest.NewRecorder()
	h.SignIn(rr, req)

	var vErr *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &vErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestSignInForwardsCredentials(t *testing.T) {
	svc := &stubSyncService{}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: svc, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin",
		strings.NewReader(`{"email":"a@b.c","password":"secret"}`))
	rr := httptest.NewRecorder()
	h.SignIn(rr, req)

	if svc.email != "a@b.c" || svc.password != "secret" {
		t.Fatalf("credentials not forwarded: %q %q", svc.email, svc.password)
	}
	sr, ok := resp.writeSuccessData.(dto.SignInResponse)
	if !ok || sr.UserID != "user-uid" {
		t.Fatalf("unexpected payload: %#v", resp.writeSuccessData)
	}
}

func TestSignInAnonymouslyErrorPassedThrough(t *testing.T) {
	authErr := errs.NewCloudSyncError("sign-in", "anonymous sign-in disabled")
	svc := &stubSyncService{signInErr: authErr}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: svc, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signin/anonymous", nil)
	rr := httptest.NewRecorder()
	h.SignInAnonymously(rr, req)

	if !svc.anonCalled {
		t.Fatalf("anonymous sign-in not invoked")
	}
	if !errors.Is(resp.handleError, authErr) {
		t.Fatalf("auth error not passed through: %v", resp.handleError)
	}
}

func TestSignUpCreatedStatus(t *testing.T) {
	svc := &stubSyncService{}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: svc, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signup",
		strings.NewReader(`{"email":"new@b.c","password":"secret"}`))
	rr := httptest.NewRecorder()
	h.SignUp(rr, req)

	if !svc.signedUp {
		t.Fatalf("sign-up not invoked")
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.writeSuccessStatus)
	}
}

func TestSignOut(t *testing.T) {
	svc := &stubSyncService{}
	resp := &stubResponseHandler{}
	h := NewSyncHandlers(&Deps{ResponseHandler: resp, SyncSvc: svc, Outcomes: &stubOutcomes{}})

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	rr := httptest.NewRecorder()
	h.SignOut(rr, req)

	if !svc.signOutCalled {
		t.Fatalf("sign-out not invoked")
	}
}
