// cmd/server/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushub/internal/accounts"
	"campushub/internal/catalog"
	"campushub/internal/circulation"
	"campushub/internal/config"
	"campushub/internal/membership"
	"campushub/internal/notify"
	"campushub/internal/persist"
	"campushub/internal/roster"
	"campushub/internal/state"
	"campushub/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	snapshots, err := persist.Open(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	// Restore the last snapshot before any mutation is accepted. A missing
	// or unreadable snapshot falls back to the default state; only
	// durability is lost, never availability.
	initial, err := snapshots.Load(ctx)
	if err != nil {
		logger.Warn("snapshot restore failed, starting from default state", "error", err)
		initial = state.Default()
	}
	if initial == nil {
		initial = state.Default()
	}

	store := state.NewStore(initial, logger)

	writer := persist.NewWriter(snapshots, logger)
	store.OnChange(writer.Enqueue)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writer.Run(ctx)
	}()

	dispatcher := notify.NewDispatcher(notify.NewLogChannel(logger), logger)
	store.OnOutbound(dispatcher.Dispatch)

	circSvc := circulation.NewService(store, circulation.Policy{
		FinePerDay: cfg.FinePerDay,
		LoanPeriod: time.Duration(cfg.LoanPeriodDays) * 24 * time.Hour,
	})
	catalogSvc := catalog.NewService(store, circSvc)
	memberSvc := membership.NewService(store, circSvc, membership.Defaults{
		StudentMaxBooks: cfg.MaxBooksStudent,
		FacultyMaxBooks: cfg.MaxBooksFaculty,
		StaffMaxBooks:   cfg.MaxBooksStaff,
	})
	accountSvc := accounts.NewService(store)
	notifySvc := notify.NewService(store)

	router := newRouter(logger, store,
		catalog.NewHandler(catalogSvc),
		membership.NewHandler(memberSvc),
		circulation.NewHandler(circSvc),
		accounts.NewHandler(accountSvc),
		notify.NewHandler(notifySvc),
		roster.NewHandler(store),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-writerDone
	return nil
}

func newRouter(logger *slog.Logger, store *state.Store,
	catalogHandler *catalog.Handler,
	memberHandler *membership.Handler,
	circHandler *circulation.Handler,
	accountHandler *accounts.Handler,
	notifyHandler *notify.Handler,
	rosterHandler *roster.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", catalogHandler.Routes)
		r.Route("/members", memberHandler.Routes)
		r.Route("/circulation", circHandler.Routes)
		r.Route("/accounts", accountHandler.Routes)
		r.Route("/notifications", notifyHandler.Routes)
		r.Route("/roster", rosterHandler.Routes)
		r.Get("/state", handleStateSnapshot(store))
	})

	return r
}

// handleStateSnapshot serves the scoped read view of the state tree for
// dashboard rendering. Account credentials stay out of the payload.
func handleStateSnapshot(store *state.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snapshot := store.State()

		users := make([]state.User, len(snapshot.Users))
		for i, u := range snapshot.Users {
			users[i] = u.Redacted()
		}

		view := state.AppState{
			Books:         snapshot.Books,
			Members:       snapshot.Members,
			Transactions:  snapshot.Transactions,
			Students:      snapshot.Students,
			Faculty:       snapshot.Faculty,
			Courses:       snapshot.Courses,
			Users:         users,
			Notifications: snapshot.Notifications,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(view)
	}
}
