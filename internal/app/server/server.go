package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"engage/internal/domain/aggregate"
	"engage/internal/domain/assignment"
	"engage/internal/domain/audit"
	"engage/internal/domain/catalog"
	"engage/internal/domain/cycle"
	"engage/internal/domain/evaluation"
	"engage/internal/domain/notifications"
	"engage/internal/domain/org"
	"engage/internal/domain/reports"
	"engage/internal/platform/config"
	"engage/internal/platform/db"
	"engage/internal/platform/email"
	"engage/internal/platform/jobs"
	"engage/internal/platform/metrics"
	"engage/internal/transport/http/api"
	audithandler "engage/internal/transport/http/handlers/audit"
	competencyhandler "engage/internal/transport/http/handlers/competencies"
	cyclehandler "engage/internal/transport/http/handlers/cycles"
	evaluationhandler "engage/internal/transport/http/handlers/evaluations"
	notificationhandler "engage/internal/transport/http/handlers/notifications"
	resultshandler "engage/internal/transport/http/handlers/results"
	"engage/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	catalogService := catalog.NewService(catalog.NewStore(pool))
	cycleService := cycle.NewService(cycle.NewStore(pool))
	orgStore := org.NewStore(pool)
	assignmentService := assignment.NewService(assignment.NewStore(pool), orgStore, cycleService)
	evaluationService := evaluation.NewService(evaluation.NewStore(pool), cycle.NewStore(pool))
	aggregateService := aggregate.NewService(aggregate.NewStore(pool), catalogService)
	reportService := reports.NewService(aggregateService, orgStore, cycleService)
	auditService := audit.New(pool)
	notifyService := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)

	jobRunner := jobs.New(pool, cfg, assignmentService)
	jobRunner.Start(ctx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/internal/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		// The form state machine runs on the client; it reads its autosave
		// cadence from here.
		r.Get("/client-config", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, map[string]any{
				"autosaveWindowMs": cfg.AutosaveWindow.Milliseconds(),
			}, middleware.GetRequestID(r.Context()))
		})

		competencyhandler.NewHandler(catalogService, auditService).RegisterRoutes(r)
		cyclehandler.NewHandler(cycleService, assignmentService, notifyService, auditService, jobRunner).RegisterRoutes(r)
		evaluationhandler.NewHandler(evaluationService, notifyService, auditService).RegisterRoutes(r)
		resultshandler.NewHandler(aggregateService, reportService, orgStore).RegisterRoutes(r)
		notificationhandler.NewHandler(notifyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	log.Printf("evaluation server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
