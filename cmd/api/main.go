package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	appinsights "github.com/bryanwahyu/talenta-triggers/internal/application/insights"
	apptriggers "github.com/bryanwahyu/talenta-triggers/internal/application/triggers"
	"github.com/bryanwahyu/talenta-triggers/internal/config"
	insdomain "github.com/bryanwahyu/talenta-triggers/internal/domain/insights"
	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
	aiopenai "github.com/bryanwahyu/talenta-triggers/internal/infra/ai/openai"
	"github.com/bryanwahyu/talenta-triggers/internal/infra/billing"
	mysqlp "github.com/bryanwahyu/talenta-triggers/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/talenta-triggers/internal/infra/db/postgres"
	"github.com/bryanwahyu/talenta-triggers/internal/infra/httpserver"
	"github.com/bryanwahyu/talenta-triggers/internal/infra/modules"
	minioStore "github.com/bryanwahyu/talenta-triggers/internal/infra/storage"
	"github.com/bryanwahyu/talenta-triggers/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres optional)
	var (
		db            *sql.DB
		triggerRepo   domain.Repository
		executionRepo domain.ExecutionRepository
		errorRepo     domain.ErrorRepository
		insightRepo   insdomain.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		triggerRepo = postgresp.NewTriggerRepository(db)
		executionRepo = postgresp.NewExecutionRepository(db)
		errorRepo = postgresp.NewDispatchErrorRepository(db)
		insightRepo = postgresp.NewInsightRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		triggerRepo = mysqlp.NewTriggerRepository(db)
		executionRepo = mysqlp.NewExecutionRepository(db)
		errorRepo = mysqlp.NewDispatchErrorRepository(db)
		insightRepo = mysqlp.NewInsightRepository(db)
	}
	defer db.Close()

	// init minio snapshot store
	var snapshots domain.SnapshotStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		snapshots = store
	}

	// init module handlers
	handlers := make(map[string]domain.ModuleHandler)
	timeouts := make(map[string]time.Duration)
	for family, ep := range cfg.Modules {
		if ep.BaseURL == "" {
			continue
		}
		handlers[family] = modules.NewHTTPHandler(family, ep.BaseURL)
		timeouts[family] = cfg.ModuleTimeout(family)
	}

	// init access gate
	access := billing.NewClient(cfg.Billing.BaseURL,
		time.Duration(cfg.Billing.TimeoutSeconds)*time.Second)

	// init services
	svc := &apptriggers.Service{
		Repo:       triggerRepo,
		Executions: executionRepo,
		Errors:     errorRepo,
		Access:     access,
		Handlers:   handlers,
		Snapshots:  snapshots,
		Clock:      apptriggers.SystemClock{},
		Timeouts:   timeouts,
	}

	aiClient := aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	insightsSvc := appinsights.NewService(aiClient, insightRepo)

	// init router + middleware chain
	limiter := middleware.NewRateLimiter(60, 1)
	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.ValidateJSON)
	mux.Use(limiter.RateLimitMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	mux.Get("/healthz", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(svc, insightsSvc))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
