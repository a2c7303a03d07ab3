package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"intakeflow/internal/config"
	"intakeflow/internal/database"
	"intakeflow/internal/domain/lead"
	"intakeflow/internal/logger"
	"intakeflow/internal/mailer"
	"intakeflow/internal/metrics"
	"intakeflow/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	stream, err := openStream(ctx, cfg, lead.NewRepository(db), m, log)
	if err != nil {
		return err
	}
	defer stream.Close()

	mail := mailer.NewService(cfg.MailFrom, cfg.MailFromName, cfg.PublicBaseURL, cfg.SendGridAPIKey, log)
	a := newApp(cfg, db, stream, m, mail, log)
	a.router.GET("/metrics", gin.WrapH(m.Handler()))

	go a.sessions.RunSweeper(ctx, cfg.SessionSweepInterval, func(n int) {
		m.RecordSessionsSwept(n)
		log.Info("intake sessions swept", "count", n)
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.ListenAddr, "env", cfg.AppEnv, "notify_backend", cfg.NotifyBackend)
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStream(ctx context.Context, cfg *config.Config, leads notify.LeadLoader, m *metrics.Metrics, log logger.Logger) (notify.Stream, error) {
	opts := notify.Options{
		Buffer: cfg.NotifyBuffer,
		OnDrop: func(firmID uuid.UUID) {
			m.RecordNotificationDropped()
			log.Warn("lead notification dropped", "firm_id", firmID)
		},
	}

	switch cfg.NotifyBackend {
	case config.BackendRedis:
		client, err := notify.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return notify.NewRedisStream(client, opts, log), nil
	case config.BackendPostgres:
		pool, err := notify.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return notify.NewPostgresStream(pool, leads, opts, log), nil
	default:
		return notify.NewMemoryStream(opts), nil
	}
}
