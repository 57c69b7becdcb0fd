package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sulavtimsina/expense-sync/internal/dto"
	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
	"github.com/sulavtimsina/expense-sync/internal/response"
)

type ExpenseRepository interface {
	ObserveAll(ctx context.Context) <-chan []models.Expense
	ObserveByCategory(ctx context.Context, category models.Category) <-chan []models.Expense
	GetByID(ctx context.Context, id string) (*models.Expense, error)
	Insert(ctx context.Context, expense models.Expense) error
	Update(ctx context.Context, expense models.Expense) error
	Delete(ctx context.Context, id string) error
}

type expenseHandlers struct {
	ResponseHandler response.ResponseHandler
	Repo            ExpenseRepository
	Analytics       AnalyticsService
}

func NewExpenseHandlers(deps *Deps) *expenseHandlers {
	return &expenseHandlers{
		ResponseHandler: deps.ResponseHandler,
		Repo:            deps.Repo,
		Analytics:       deps.Analytics,
	}
}

func (h *expenseHandlers) ExpenseRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListExpenses)
	r.Post("/", h.CreateExpense)
	// literal routes must be before /{expenseId}
	r.Get("/categories", h.GetCategories)
	r.Get("/analytics", h.GetAnalytics)
	r.Get("/{expenseId}", h.GetExpense)
	r.Put("/{expenseId}", h.UpdateExpense)
	r.Delete("/{expenseId}", h.DeleteExpense)
	return r
}

// ListExpenses returns the current snapshot. Observation channels emit the
// present state immediately, so one receive is a consistent read.
func (h *expenseHandlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var snapshots <-chan []models.Expense
	if category := r.URL.Query().Get("category"); category != "" {
		snapshots = h.Repo.ObserveByCategory(ctx, models.CategoryFromName(category))
	} else {
		snapshots = h.Repo.ObserveAll(ctx)
	}
	expenses, ok := <-snapshots
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewDatabaseError("list", "observation closed before first snapshot"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewExpenseListResponse(expenses))
}

func (h *expenseHandlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	expense, err := req.ToModel()
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.Repo.Insert(r.Context(), expense); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.NewExpenseResponse(expense))
}

func (h *expenseHandlers) GetExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseId")
	expense, err := h.Repo.GetByID(r.Context(), expenseID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if expense == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError("expense "+expenseID+" not found"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewExpenseResponse(*expense))
}

func (h *expenseHandlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseId")
	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	expense, err := req.ToModelWithID(expenseID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.Repo.Update(r.Context(), expense); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.NewExpenseResponse(expense))
}

func (h *expenseHandlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseId")
	if err := h.Repo.Delete(r.Context(), expenseID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *expenseHandlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories := models.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.String())
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, names)
}
