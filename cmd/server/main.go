package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/cuddles47/electroshop/internal/config"
	"github.com/cuddles47/electroshop/internal/events"
	"github.com/cuddles47/electroshop/internal/handlers"
	"github.com/cuddles47/electroshop/internal/metrics"
	"github.com/cuddles47/electroshop/internal/store"
)

func main() {
	// Configure slog as early as possible in main.
	// TextHandler for console readability; JSONHandler might be
	// preferred in production.
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Handlers + instrumentation
	serverMetrics := metrics.NewServerMetrics("api")
	rateLimiter := handlers.NewRateLimiter(cfg.RateLimitWindow)
	mux := handlers.Routes(db, sessionStore, serverMetrics, rateLimiter)

	// 5. Outbox publisher (only when brokers are configured; events are
	// written to the outbox regardless and drain once Kafka comes up)
	outboxCtx, stopOutbox := context.WithCancel(context.Background())
	defer stopOutbox()
	kafkaClient := events.NewClient(cfg.KafkaBrokers)
	if kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter()
		defer writer.Close()
		publisher := events.NewPublisher(db, events.KafkaPublish(writer), cfg.OutboxInterval)
		go publisher.Run(outboxCtx)
		slog.Info("Outbox publisher started", "brokers", cfg.KafkaBrokers)
	} else {
		slog.Info("KAFKA_BROKERS not set, outbox publisher disabled")
	}

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")
	stopOutbox()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
