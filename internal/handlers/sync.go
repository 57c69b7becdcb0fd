package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sulavtimsina/expense-sync/internal/dto"
	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/response"
	"github.com/sulavtimsina/expense-sync/internal/sync"
)

type SyncService interface {
	SignInAndStartSync(ctx context.Context) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	SignUpWithPassword(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
	SyncNow(ctx context.Context) sync.Report
}

type OutcomeSource interface {
	Recent() []sync.Outcome
	Failures() []sync.Outcome
}

type syncHandlers struct {
	ResponseHandler response.ResponseHandler
	SyncSvc         SyncService
	Outcomes        OutcomeSource
}

func NewSyncHandlers(deps *Deps) *syncHandlers {
	return &syncHandlers{
		ResponseHandler: deps.ResponseHandler,
		SyncSvc:         deps.SyncSvc,
		Outcomes:        deps.Outcomes,
	}
}

func (h *syncHandlers) SyncRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/now", h.SyncNow)
	r.Get("/outcomes", h.GetOutcomes)
	r.Get("/outcomes/failures", h.GetFailures)
	return r
}

func (h *syncHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signin", h.SignIn)
	r.Post("/signin/anonymous", h.SignInAnonymously)
	r.Post("/signup", h.SignUp)
	r.Post("/signout", h.SignOut)
	return r
}

func (h *syncHandlers) SyncNow(w http.ResponseWriter, r *http.Request) {
	report := h.SyncSvc.SyncNow(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, report)
}

func (h *syncHandlers) GetOutcomes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewOutcomeListResponse(h.Outcomes.Recent()))
}

func (h *syncHandlers) GetFailures(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewOutcomeListResponse(h.Outcomes.Failures()))
}

func (h *syncHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("email and password are required"))
		return
	}
	userID, err := h.SyncSvc.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SignInResponse{UserID: userID})
}

func (h *syncHandlers) SignInAnonymously(w http.ResponseWriter, r *http.Request) {
	userID, err := h.SyncSvc.SignInAndStartSync(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SignInResponse{UserID: userID})
}

func (h *syncHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("email and password are required"))
		return
	}
	userID, err := h.SyncSvc.SignUpWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.SignInResponse{UserID: userID})
}

func (h *syncHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SyncSvc.SignOut(r.Context()); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
