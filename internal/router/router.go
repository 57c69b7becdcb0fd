package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sulavtimsina/expense-sync/internal/handlers"
	"github.com/sulavtimsina/expense-sync/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	exh := handlers.NewExpenseHandlers(deps)
	r.Mount("/expenses", exh.ExpenseRoutes())

	if deps.SyncSvc != nil {
		sh := handlers.NewSyncHandlers(deps)
		r.Mount("/sync", sh.SyncRoutes())
		r.Mount("/auth", sh.AuthRoutes())
	}

	return r
}
