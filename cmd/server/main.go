package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"material-mastery/internal/cache"
	"material-mastery/internal/config"
	"material-mastery/internal/db"
	"material-mastery/internal/game"
	"material-mastery/internal/logging"
	"material-mastery/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store      game.Store
		engineOpts = []game.Option{
			game.WithScorer(game.StandardScorer{MaterialScore: cfg.MaterialScore, CreativityScore: cfg.CreativityScore}),
			game.WithSeed(cfg.CardSeed),
			game.WithLogger(logger),
		}
		serverOpts = []server.Option{server.WithLogger(logger)}
	)

	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := db.Migrate(conn); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}
		pgStore := db.NewStore(conn)
		store = pgStore
		serverOpts = append(serverOpts, server.WithHealthCheck("postgres", pgStore))
	} else {
		logger.Warn("DATABASE_URL is not set; using in-memory store")
		store = game.NewMemoryStore()
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		leaderboards := cache.NewRedisLeaderboard(client, time.Duration(cfg.LeaderboardCacheSeconds)*time.Second)
		engineOpts = append(engineOpts, game.WithLeaderboardCache(leaderboards))
		serverOpts = append(serverOpts, server.WithHealthCheck("redis", leaderboards))
	}

	engine := game.NewEngine(store, engineOpts...)
	srv := server.New(engine, cfg, serverOpts...)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("material-mastery server listening", "addr", cfg.Addr())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
