package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/dto"
	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

type AnalyticsService interface {
	GetAnalytics(ctx context.Context, from, to time.Time) (dto.AnalyticsResult, error)
}

// GetAnalytics reports spending aggregates for the range given by the
// "from" and "to" query parameters. The range defaults to the last month.
func (h *expenseHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, -1, 0)

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(models.DateLayout, raw); err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid from date, expected "+models.DateLayout))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(models.DateLayout, raw); err != nil {
			h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid to date, expected "+models.DateLayout))
			return
		}
	}
	if to.Before(from) {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("to date precedes from date"))
		return
	}

	result, err := h.Analytics.GetAnalytics(r.Context(), from, to)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
