package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/brickfolio/marketplace-backend/config"
	"github.com/brickfolio/marketplace-backend/controllers"
	"github.com/brickfolio/marketplace-backend/middleware"
	"github.com/brickfolio/marketplace-backend/routes"
	"github.com/brickfolio/marketplace-backend/session"
	"github.com/brickfolio/marketplace-backend/storage"
	"github.com/brickfolio/marketplace-backend/utils"
)

const (
	authRateLimit  = 10
	authRateWindow = 15 * time.Minute
)

func setupLogger() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		TimeFormat: "2006-01-02 15:04:05",
	})))
}

func buildStore(cfg config.Config) (storage.Store, func(), error) {
	if cfg.StorageDriver != "mongo" {
		slog.Info("using in-memory storage")
		return storage.NewMemoryStore(), func() {}, nil
	}

	client, err := config.ConnectDB(cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			slog.Error("error closing MongoDB connection", "err", err)
			return
		}
		slog.Info("MongoDB connection closed")
	}
	return storage.NewMongoStore(client, cfg.DBName), cleanup, nil
}

func main() {
	setupLogger()
	cfg := config.Load()

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		slog.Error("failed to set up storage", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = config.ConnectRedis(cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			slog.Error("failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	janitorCtx, stopJanitors := context.WithCancel(context.Background())
	defer stopJanitors()

	var sessions session.Store
	if cfg.SessionStore == "redis" && redisClient != nil {
		sessions = session.NewRedisStore(redisClient)
	} else {
		memSessions := session.NewMemoryStore()
		memSessions.StartCleanup(janitorCtx, time.Minute)
		sessions = memSessions
	}

	rateLimiter := middleware.NewRateLimiter(authRateLimit, authRateWindow)
	rateLimiter.StartCleanup(janitorCtx, authRateWindow)

	router := mux.NewRouter()
	routes.Routes(router, routes.Deps{
		Store: store,
		Auth: controllers.AuthDeps{
			Store:      store,
			Sessions:   sessions,
			JWTKey:     []byte(cfg.JWTKey),
			SessionTTL: cfg.SessionTTL,
			OTPSender:  utils.LogOTPSender{},
			OTP:        controllers.NewOTPStore(),
		},
		Cache:       controllers.NewPropertyCache(redisClient),
		RateLimiter: rateLimiter,
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		slog.Info("server running", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("error during server shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server gracefully stopped")
}
