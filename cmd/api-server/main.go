package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"financehub/database"
	"financehub/internal/cache"
	"financehub/internal/config"
	"financehub/internal/jobs"
	"financehub/internal/microservices/http-api/handler"
	"financehub/internal/microservices/http-api/middleware"
	"financehub/internal/microservices/http-api/repository"
	"financehub/internal/microservices/http-api/service"
	"financehub/internal/microservices/websocket"
	"financehub/pkg/timeserver"
)

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	jobsRepo := jobs.NewRepo(db)

	// Push channel
	hub := websocket.NewHub()

	// Services
	authSvc := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	allocationSvc := service.NewAllocationService(allocationRepo, transactionRepo, redisCache, cfg.ListCacheTTL)
	transactionSvc := service.NewTransactionService(transactionRepo, allocationRepo, redisCache, cfg.ListCacheTTL)
	dashboardSvc := service.NewDashboardService(transactionRepo, redisCache, cfg.DashboardCacheTTL)
	reminderSvc := service.NewReminderService(reminderRepo, jobsRepo, redisCache, cfg.ListCacheTTL, cfg.JobMaxAttempts)
	notificationSvc := service.NewNotificationService(notificationRepo, reminderRepo, hub, redisCache, cfg.NotificationCacheTTL)

	// Queue worker: fires due reminders into notifications
	worker := jobs.NewWorker("worker-1", jobsRepo, notificationSvc.DispatchReminder, cfg.JobPollInterval, cfg.JobRetryBackoff, logger)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	go worker.Run(workerCtx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "message": "ok"})
	})
	r.GET("/server-time", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": true, "serverTime": timeserver.Now()})
	})

	authRequired := middleware.AuthMiddleware(authSvc)

	handler.NewAuthHandler(authSvc).RegisterRoutes(r.Group("/auth"))
	handler.NewAllocationHandler(allocationSvc).RegisterRoutes(r.Group("/allocation", authRequired))
	handler.NewTransactionHandler(transactionSvc).RegisterRoutes(r.Group("/transaction", authRequired))
	handler.NewDashboardHandler(dashboardSvc).RegisterRoutes(r.Group("/dashboard", authRequired))
	handler.NewReminderHandler(reminderSvc, notificationSvc).RegisterRoutes(r.Group("/reminder", authRequired))
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(r.Group("/notification", authRequired))

	r.GET("/ws", authRequired, websocket.WSHandler(hub))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	logger.Info("shutting down")

	stopWorker()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
