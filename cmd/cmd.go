package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/officialryder1/couplequest-backend/internal/config"
	"github.com/officialryder1/couplequest-backend/internal/handlers"
	"github.com/officialryder1/couplequest-backend/internal/middleware"
	"github.com/officialryder1/couplequest-backend/internal/notify"
	"github.com/officialryder1/couplequest-backend/internal/repository"
	"github.com/officialryder1/couplequest-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to Redis for the notification channel
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping redis")
	}
	log.Info().Msg("Redis connection established")

	// Initialize store and publisher
	store := repository.NewStore(db)
	publisher := notify.NewRedisPublisher(rdb)

	// Initialize services
	userService := services.NewUserService(store, cfg.JWT.Secret)
	pairingService := services.NewPairingService(store, publisher)
	taskService := services.NewTaskService(store, publisher)
	achievementService := services.NewAchievementService(store)
	coupleService := services.NewCoupleService(store, publisher)
	wsHub := services.NewWSHub(rdb)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	pairingHandler := handlers.NewPairingHandler(pairingService)
	taskHandler := handlers.NewTaskHandler(taskService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, coupleService)
	coupleHandler := handlers.NewCoupleHandler(coupleService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, coupleService)

	// Bridge Redis couple channels to connected WebSocket clients
	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	defer stopBridge()
	go wsHub.Run(bridgeCtx)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)
		r.Get("/couples/leaderboard", coupleHandler.Leaderboard)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/profile", userHandler.Me)

			r.Post("/pairing/initiate", pairingHandler.Initiate)
			r.Post("/pairing/confirm", pairingHandler.Confirm)
			r.Get("/pairing/status", pairingHandler.Status)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Patch("/tasks/{task_id}/complete", taskHandler.Complete)

			r.Get("/achievements", achievementHandler.Catalog)
			r.Get("/achievements/unlocked", achievementHandler.Unlocked)

			r.Get("/couples/messages", coupleHandler.Messages)
			r.Post("/couples/messages/read", coupleHandler.MarkMessagesRead)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stopBridge()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
