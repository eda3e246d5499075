package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finmemory/internal/config"
	"finmemory/internal/database"
	"finmemory/internal/handlers"
	"finmemory/internal/llm"
	custommw "finmemory/internal/middleware"
	"finmemory/internal/repositories"
	"finmemory/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config.Load()

	setupLogger(cfg)

	db, err := database.Initialize(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	metrics := services.NewPrometheusMetrics()

	detector := services.NewAnomalyDetector()
	trends := services.NewTrendAnalyzer()
	ranker := services.NewAlertRanker()
	aggregation := services.NewAggregationService(detector, trends, ranker)
	memoryService := services.NewMemoryService(userRepo, transactionRepo, aggregation, metrics)

	generator := buildTextGenerator(cfg)
	breaker := services.NewCircuitBreaker(services.DefaultCircuitBreakerConfig())
	advisorService := services.NewAdvisorService(
		memoryService,
		services.NewPromptBuilder(),
		services.NewReplyParser(),
		generator,
		breaker,
		metrics,
	)

	forecastService := services.NewForecastService()
	recommendationService := services.NewRecommendationService()
	sampleGenerator := services.NewTransactionGenerator(uint64(time.Now().UnixNano()))

	userHandler := handlers.NewUserHandler(userRepo)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo, userRepo, memoryService, sampleGenerator)
	memoryHandler := handlers.NewMemoryHandler(
		memoryService,
		advisorService,
		forecastService,
		recommendationService,
		userRepo,
		transactionRepo,
	)
	healthHandler := handlers.NewHealthCheckHandler(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommw.CustomHTTPErrorHandler

	e.Use(custommw.RequestID())
	e.Use(custommw.PanicRecovery())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
	}))
	e.Use(custommw.RateLimiterWithConfig(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")

	api.POST("/users", userHandler.CreateUser)
	api.GET("/users/:user_id", userHandler.GetUser)
	api.DELETE("/users/:user_id", userHandler.DeleteUser)

	api.POST("/users/:user_id/transactions", transactionHandler.CreateTransaction)
	api.GET("/users/:user_id/transactions", transactionHandler.ListTransactions)
	api.GET("/users/:user_id/transactions/:id", transactionHandler.GetTransaction)
	api.DELETE("/users/:user_id/transactions/:id", transactionHandler.DeleteTransaction)
	api.POST("/users/:user_id/transactions/seed", transactionHandler.SeedTransactions)

	api.GET("/users/:user_id/memory", memoryHandler.GetMemory)
	api.POST("/users/:user_id/advice", memoryHandler.GenerateAdvice)
	api.GET("/users/:user_id/forecast", memoryHandler.GetForecast)
	api.GET("/users/:user_id/recommendations", memoryHandler.GetRecommendations)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		slog.Info("starting server", "addr", addr, "env", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// buildTextGenerator returns the configured generation backend.
// When generation is disabled, or the client cannot be constructed, advice
// requests fail fast instead of blocking startup.
func buildTextGenerator(cfg *config.Config) llm.TextGenerator {
	if !cfg.GenAI.Enabled {
		slog.Info("text generation disabled by configuration")
		return llm.DisabledGenerator{}
	}

	client, err := llm.NewGeminiClient(context.Background(), cfg.GenAI.Model)
	if err != nil {
		slog.Error("failed to create genai client, advice endpoint degraded", "error", err)
		return llm.DisabledGenerator{}
	}

	return llm.WithTimeout(client, cfg.GenAI.RequestTimeout)
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
