package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/config"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/infra"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/router"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Payment gateway circuit breaker, shared by refund settlement and /health.
	gatewayCB := infra.NewBreaker(5, 2, 30*time.Second)

	// Background workers are wired here (composition root) so the pool has
	// full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)

	handlers := worker.Handlers{
		Invoice: worker.NewInvoiceWorker(orderRepo, userRepo, dispatcher, rdb, cfg.InvoiceStoragePath, cfg.GSTRatePercent),
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	// Sweeper reclaims stock holds whose reservation TTL elapsed.
	stockSvc := service.NewStockService(
		repository.NewStockRepository(db),
		repository.NewProductRepository(db),
	)
	worker.StartReservationSweeper(ctx, stockSvc)

	r := router.New(cfg, db, rdb, gatewayCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("fulfillment backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
