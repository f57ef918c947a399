package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fraud_report_backend/internal/config"
	"fraud_report_backend/internal/database"
	"fraud_report_backend/internal/keepalive"
	"fraud_report_backend/internal/repositories"
	"fraud_report_backend/internal/router"
	"fraud_report_backend/internal/services"
	"fraud_report_backend/internal/session"
	"fraud_report_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", "console")
		utils.LogError(err, "Failed to load configuration")
		os.Exit(1)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.DSN(), database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		SchemaPath:   cfg.DBSchemaPath,
	})
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	customerRepo := repositories.NewCustomerRepository(db)
	customerService := services.NewCustomerService(customerRepo, db, cfg.SearchResultLimit)

	sessions, err := session.NewManager(customerService, cfg.SessionSecret, cfg.SessionTTL, cfg.SessionMax)
	if err != nil {
		utils.LogError(err, "Failed to initialize sessions")
		os.Exit(1)
	}
	go sessions.StartJanitor(ctx, cfg.SessionSweepInterval)

	if cfg.KeepAliveEnabled {
		worker := keepalive.NewWorker(customerService, keepalive.NewFileStore(cfg.KeepAliveStatePath),
			cfg.KeepAliveInterval, cfg.KeepAliveMinGap)
		go worker.Start(ctx)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	router.Setup(engine, router.Dependencies{
		CustomerService:    customerService,
		Sessions:           sessions,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
}
