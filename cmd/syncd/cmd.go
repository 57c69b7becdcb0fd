package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/sulavtimsina/expense-sync/internal/bootstrap"
	"github.com/sulavtimsina/expense-sync/internal/config"
	"github.com/sulavtimsina/expense-sync/internal/handlers"
	"github.com/sulavtimsina/expense-sync/internal/repository"
	"github.com/sulavtimsina/expense-sync/internal/response"
	"github.com/sulavtimsina/expense-sync/internal/router"
	"github.com/sulavtimsina/expense-sync/internal/sample"
	"github.com/sulavtimsina/expense-sync/internal/services"
	"github.com/sulavtimsina/expense-sync/internal/sync"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// sample data
	provider := sample.NewProvider(bs.Local)
	err = provider.Seed(context.Background())
	exitOnError("sample seed failed", err, bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Analytics = services.NewAnalyticsService(bs.Local)

	if bs.Cloud != nil {
		sink := sync.NewMemorySink(256)
		var opts []sync.Option
		if cfg.SyncStreaming {
			opts = append(opts, sync.WithStreaming())
		}
		engine := sync.New(bs.Local, bs.Cloud, sink, bs.Log, opts...)
		engine.Start()
		defer engine.Close()

		hybrid := repository.NewHybrid(bs.Local, engine)
		deps.Repo = hybrid
		deps.SyncSvc = hybrid
		deps.Outcomes = sink
	} else {
		deps.Repo = repository.NewLocal(bs.Local)
	}

	// router
	r := router.NewRouter(deps)
	bs.Log.Info("listening", "addr", cfg.ListenAddr)
	err = http.ListenAndServe(cfg.ListenAddr, r)
	exitOnError("server start failed", err, bs.Log)
}
