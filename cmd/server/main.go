package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/Simplici0/orca/internal/accounts"
	"github.com/Simplici0/orca/internal/config"
	"github.com/Simplici0/orca/internal/db"
	"github.com/Simplici0/orca/internal/migrations"
	"github.com/Simplici0/orca/internal/seed"
	"github.com/Simplici0/orca/internal/store"
)

const shutdownTimeout = 15 * time.Second

type server struct {
	auth     *authService
	accounts *accounts.Service
	store    *store.Store
	cfg      config.Config
}

func newServer(database *sql.DB, cfg config.Config) *server {
	return &server{
		auth:     newAuthService(cfg.SessionSecret, cfg.SessionTTL, !cfg.IsDev()),
		accounts: accounts.NewService(database),
		store:    store.New(database),
		cfg:      cfg,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/me", s.handleMe)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/estimates", s.handleEstimate)
		r.Post("/estimates/preview", s.handlePreview)

		r.Get("/quotes", s.handleQuotesList)
		r.Route("/quotes/{id}", func(r chi.Router) {
			r.Get("/", s.handleQuoteDetail)
			r.Get("/report", s.handleQuoteReport)
			r.Get("/charts", s.handleQuoteCharts)
			r.Get("/export.json", s.handleQuoteExport(jsonExport))
			r.Get("/export.xlsx", s.handleQuoteExport(excelExport))
			r.Get("/export.pdf", s.handleQuoteExport(pdfExport))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/materials", s.handleAdminMaterialsList)
			r.Post("/materials", s.handleAdminMaterialsUpsert)
			r.Post("/hardware", s.handleAdminHardwareUpsert)
			r.Post("/labor", s.handleAdminLaborUpdate)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		DemoUsers:     cfg.IsDev(),
	})
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	log.Printf("seed complete: %d inserts, %d updates", stats.Inserts, stats.Updates)

	srv := newServer(database, cfg)

	scheduler := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))))
	if _, err := accounts.ScheduleUsageReset(scheduler, srv.accounts, cfg.UsageResetSchedule); err != nil {
		log.Fatalf("failed to schedule usage reset: %v", err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, ":"+cfg.Port, srv.routes()); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Print("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
