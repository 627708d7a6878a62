package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wingo/api"
	"wingo/config"
	"wingo/database"
	"wingo/events"
	"wingo/models"
	"wingo/notify"
	"wingo/repository"
	"wingo/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	resolverService := service.NewResolverService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory)
	bettingService := service.NewBettingService(uowFactory)
	syncService := service.NewSyncService(uowFactory)

	configRepo := repository.NewConfigRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Optional Redis fan-out for gateway processes
	var publisher *notify.Publisher
	if cfg.RedisURL != "" {
		publisher, err = notify.NewPublisher(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher.AttachTo(eventBus)
	}

	scheduler := service.NewRoundScheduler(resolverService, settlementService, configRepo, models.DiscreteModes)
	stopScheduler := scheduler.Start(ctx)

	handler := api.NewHandler(api.HandlerDeps{
		Betting:         bettingService,
		Sync:            syncService,
		UserRepo:        userRepo,
		ConfigRepo:      configRepo,
		Bus:             eventBus,
		StartingBalance: cfg.StartingBalance,
		ResultLimit:     cfg.ResultLimit,
		BetLimit:        cfg.BetLimit,
	})

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(handler),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Infof("Server running in %s mode", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stopScheduler()
		db.Close()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err).Warn("HTTP server shutdown failed")
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.WithField("error", err).Warn("Redis close failed")
		}
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}
