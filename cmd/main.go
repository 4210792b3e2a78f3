// @title WanderAI API
// @version 1.0.0
// @description AI travel planning backend: trips, itineraries, expenses and a travel assistant chat

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	_ "wanderai-backend/docs" // This is required for swagger
	"wanderai-backend/internal/auth"
	"wanderai-backend/internal/chat"
	"wanderai-backend/internal/config"
	"wanderai-backend/internal/database"
	"wanderai-backend/internal/handlers"
	"wanderai-backend/internal/itinerary"
	"wanderai-backend/internal/llm"
	"wanderai-backend/internal/logging"
	"wanderai-backend/internal/middleware"
	"wanderai-backend/internal/pexels"
	"wanderai-backend/internal/ratelimit"
	"wanderai-backend/internal/repository"
	"wanderai-backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log, closeLog := logging.Setup(cfg.Log.Level, cfg.Log.File)
	defer closeLog()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migrate(ctx, cfg); err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newHandler(ctx, cfg, pool, limiter, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func migrate(ctx context.Context, cfg *config.Config) error {
	db, err := database.OpenSQL(cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return database.MigrateUp(ctx, db)
}

// newLimiter picks the rate limit store. The redis store lets several API
// instances share one limit.
func newLimiter(cfg *config.Config) (*ratelimit.Limiter, func(), error) {
	if cfg.RateLimit.Backend != "redis" {
		return ratelimit.New(ratelimit.NewMemoryStore(), cfg.RateLimit.PerMinute, cfg.RateLimit.Window), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	store := ratelimit.NewRedisStore(client)
	return ratelimit.New(store, cfg.RateLimit.PerMinute, cfg.RateLimit.Window), func() { _ = client.Close() }, nil
}

func newVerifier(cfg *config.Config, log *slog.Logger) auth.TokenVerifier {
	var chain auth.ChainVerifier
	if cfg.Auth.FirebaseProjectID != "" {
		chain = append(chain, auth.NewFirebaseVerifier(cfg.Auth.FirebaseProjectID))
	}
	if cfg.IsGoogleOAuthConfigured() {
		chain = append(chain, auth.NewGoogleVerifier())
	}
	if cfg.Auth.SecretKey != "" && !cfg.IsProduction() {
		chain = append(chain, auth.NewDevTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.AccessTokenTTL))
	}
	if len(chain) == 0 {
		log.Warn("no token verifier configured, every authenticated request will be rejected")
	}
	return chain
}

func newHandler(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, limiter *ratelimit.Limiter, log *slog.Logger) http.Handler {
	users := repository.NewUserRepository(pool)
	trips := repository.NewTripRepository(pool)
	days := repository.NewItineraryRepository(pool)
	expenses := repository.NewExpenseRepository(pool)
	messages := repository.NewChatRepository(pool)
	destinations := repository.NewDestinationRepository(pool)

	var planModel itinerary.Model
	var replier chat.Replier
	if cfg.AI.GeminiAPIKey != "" {
		m, err := llm.NewGeminiItineraryModel(ctx, cfg.AI.GeminiAPIKey, cfg.AI.ItineraryModel, cfg.AI.ItineraryTemperature, cfg.AI.Timeout)
		if err != nil {
			log.Error("itinerary model unavailable, fallback plans only", "error", err)
		} else {
			planModel = m
		}
	}
	if cm, err := llm.NewChatModel(ctx, cfg.AI); err != nil {
		log.Error("chat model unavailable, replies will apologise", "error", err)
	} else {
		replier = cm
	}

	conversations := chat.NewConversationStore(messages)
	resolver := auth.NewResolver(newVerifier(cfg, log), users, log)

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, routes.Handlers{
		Health:       handlers.NewHealthHandler(pool, cfg.Environment),
		Auth:         handlers.NewAuthHandler(users, log),
		Trips:        handlers.NewTripsHandler(trips, pexels.NewClient(cfg.Pexels, log), log),
		Itinerary:    handlers.NewItineraryHandler(trips, days, conversations, itinerary.NewGenerator(planModel, log), log),
		Expenses:     handlers.NewExpensesHandler(trips, expenses, log),
		Chat:         handlers.NewChatHandler(chat.NewService(conversations, replier, log), conversations, log),
		Destinations: handlers.NewDestinationsHandler(destinations, log),
	}, resolver, log)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	var h http.Handler = mux
	h = c.Handler(h)
	h = middleware.RateLimit(limiter, log)(h)
	h = middleware.AccessLog(log)(h)
	h = middleware.Recover(log)(h)
	h = middleware.RequestID(h)
	return h
}
