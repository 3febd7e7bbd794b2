package service

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentservice/app/config"
	"contentservice/app/events"
	"contentservice/app/middleware"
	"contentservice/app/repositories"
	"contentservice/app/routes"
	"contentservice/app/services"
	"contentservice/app/telemetry"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

// RunAppServer starts the content service and blocks until SIGINT/SIGTERM.
func RunAppServer(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides APP_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := loadConfig()
	if *addr != "" {
		cfg.Addr = *addr
	}
	cfg.DB.BadgerPath = badgerDir(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runServer(ctx, cfg)
}

// runServer wires storage, events, rate limiting and tracing into the HTTP
// server and serves until ctx is done.
func runServer(ctx context.Context, cfg *config.Config) error {
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			log.Printf("WARN: tracer shutdown: %v", err)
		}
	}()

	repo, err := repositories.Open(cfg.DB, telemetry.Enabled(cfg))
	if err != nil {
		return err
	}
	defer repo.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = middleware.NewRateLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
		if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
			return err
		}
	}

	router := routes.SetupRoutes(services.NewPostService(repo, publisher), limiter)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           otelhttp.NewHandler(router, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	log.Printf("contentservice listening on %s (driver=%s)", cfg.Addr, cfg.DB.Driver)
	return serve(ctx, srv)
}

// serve runs srv until it fails or ctx is done, then drains in-flight
// requests.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
