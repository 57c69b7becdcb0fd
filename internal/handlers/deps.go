package handlers

import (
	"log/slog"

	"github.com/sulavtimsina/expense-sync/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Repo            ExpenseRepository
	Analytics       AnalyticsService
	SyncSvc         SyncService
	Outcomes        OutcomeSource
}
