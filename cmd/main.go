package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ffarena/progression/brackets"
	"github.com/ffarena/progression/config"
	"github.com/ffarena/progression/db"
	"github.com/ffarena/progression/handlers"
	"github.com/ffarena/progression/repositories"
	api "github.com/ffarena/progression/routes"
	"github.com/ffarena/progression/services"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	wsHub := brackets.NewHub()
	go wsHub.Run()
	logger.Info("websocket hub started")

	txRunner := db.NewTxRunner(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	dayRepo := repositories.NewPostgresDayRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketMatchRepository(dbConn)

	teamService := services.NewTeamService(teamRepo)
	dayService := services.NewDayService(txRunner, dayRepo, matchRepo, scoreRepo, groupRepo, wsHub, logger)
	matchService := services.NewMatchService(txRunner, matchRepo, dayRepo, logger)
	scoreService := services.NewScoreService(txRunner, scoreRepo, matchRepo, dayRepo, wsHub, logger)
	bracketService := services.NewBracketService(txRunner, bracketRepo, dayRepo, teamRepo, wsHub, logger)
	leaderboardService := services.NewLeaderboardService(matchRepo, scoreRepo, teamRepo)
	logger.Info("services initialized")

	teamHandler := handlers.NewTeamHandler(teamService)
	dayHandler := handlers.NewDayHandler(dayService)
	matchHandler := handlers.NewMatchHandler(matchService, scoreService)
	bracketHandler := handlers.NewBracketHandler(bracketService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.AllowedOrigins,
		teamHandler,
		dayHandler,
		matchHandler,
		bracketHandler,
		leaderboardHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
