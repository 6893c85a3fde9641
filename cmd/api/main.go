package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/openuni/facility-booking/internal/app"
	"github.com/openuni/facility-booking/internal/clock"
	"github.com/openuni/facility-booking/internal/config"
	"github.com/openuni/facility-booking/internal/storage/postgres"
	transporthttp "github.com/openuni/facility-booking/internal/transport/http"
	"github.com/openuni/facility-booking/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.WithError(err).Fatal("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	retries := postgres.WithTxRetries(cfg.TxRetries)
	clk := clock.NewSystem()
	notifier := app.NewLogNotifier(log)

	eventSvc := app.NewEventService(postgres.NewEventRepository(pool, retries), clk, notifier, log)
	bookingSvc := app.NewBookingService(postgres.NewBookingRepository(pool, retries), clk, notifier, log)
	changeSvc := app.NewChangeService(postgres.NewChangeRepository(pool, retries), clk, notifier, log)
	cancellationSvc := app.NewCancellationService(postgres.NewCancellationRepository(pool, retries), clk, notifier, log)
	roomRepo := postgres.NewRoomRepository(pool)

	router := transporthttp.NewRouter(transporthttp.Services{
		Events:        eventSvc,
		Bookings:      bookingSvc,
		Changes:       changeSvc,
		Cancellations: cancellationSvc,
		Rooms:         roomRepo,
	}, log, cfg.CORSOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	log.WithField("port", cfg.Port).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("server stopped")
}
