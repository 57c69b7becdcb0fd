package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"

	"github.com/sulavtimsina/expense-sync/internal/cloud/supabase"
	"github.com/sulavtimsina/expense-sync/internal/config"
	"github.com/sulavtimsina/expense-sync/internal/local"
	"github.com/sulavtimsina/expense-sync/internal/sync"
	"github.com/sulavtimsina/expense-sync/pkg/logger"

	firestorecloud "github.com/sulavtimsina/expense-sync/internal/cloud/firestore"
)

// Bootstrap owns the process-wide collaborators: the logger, the local
// store, and (when a backend is configured) the cloud source. Cloud is nil
// when syncd runs purely offline.
type Bootstrap struct {
	Log   *slog.Logger
	Local *local.Store
	Cloud sync.CloudSource

	firestore *firestore.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	handler := logger.NewDaemonHandler
	if cfg.LogFormat == config.LogConsole {
		handler = logger.NewConsoleHandler
	}
	bs.Log = logger.New(cfg.LogLevel, handler)
	bs.Local, err = local.Open(cfg.DBPath)
	if err != nil {
		return bs, err
	}

	switch cfg.CloudBackend {
	case config.CloudFirestore:
		bs.firestore, err = firestore.NewClient(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		verifier, err := initFirebaseVerifier(applicationCtx)
		if err != nil {
			return bs, err
		}
		auth := firestorecloud.NewAuth(verifier, cfg.FirebaseAPIKey)
		if cfg.FirebaseIDToken != "" {
			if _, err := auth.RestoreSession(applicationCtx, cfg.FirebaseIDToken); err != nil {
				bs.Log.Warn("stored session rejected, starting signed out", "error", err)
			}
		}
		bs.Cloud = firestorecloud.NewSource(bs.firestore, auth)
	case config.CloudSupabase:
		auth := supabase.NewAuth(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
		bs.Cloud = supabase.NewSource(cfg.SupabaseURL, cfg.SupabaseAnonKey, auth,
			supabase.WithPollInterval(cfg.PollInterval))
	}

	return bs, nil
}

// initFirebaseVerifier builds the Admin SDK auth client used to verify a
// stored ID token on relaunch. Credentials come from the environment.
func initFirebaseVerifier(ctx context.Context) (*fbauth.Client, error) {
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

func (bs *Bootstrap) Close() {
	if bs.firestore != nil {
		if err := bs.firestore.Close(); err != nil {
			bs.Log.Error("firestore close failed", "error", err)
		}
	}
	if bs.Local != nil {
		if err := bs.Local.Close(); err != nil {
			bs.Log.Error("local store close failed", "error", err)
		}
	}
}
