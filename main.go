package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"airport-ops/cmd"
	"airport-ops/internal/cache"
	"airport-ops/internal/data/memory"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/events"
	"airport-ops/internal/usecase"
	"airport-ops/internal/wire"
	"airport-ops/pkg/database"
	"airport-ops/pkg/metrics"
	"airport-ops/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("storage", config.App.StorageDriver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStorage := setupStorage(ctx, config, logger)
	defer closeStorage()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	infra := usecase.Infra{
		Cache:   setupCache(ctx, config, logger),
		Events:  setupEvents(config, logger),
		Metrics: metrics.New(reg),
	}
	defer func() {
		if err := infra.Events.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	// Wire all dependencies
	app := wire.Wiring(repo, config, infra, reg, logger)

	if err := app.Service.User.EnsureAdmin(ctx, config.Admin.Username, config.Admin.Password); err != nil {
		logger.Fatal("Failed to bootstrap administrator", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

func setupStorage(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func()) {
	if config.App.StorageDriver == utils.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepository(logger), func() {}
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database schema applied")
	}

	return repository.NewRepository(db, logger), db.Close
}

func setupCache(ctx context.Context, config *utils.Config, logger *zap.Logger) cache.FlightCache {
	if config.Redis.Addr == "" {
		return cache.Nop{}
	}

	client, err := cache.Connect(ctx, config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, flight cache disabled", zap.Error(err))
		return cache.Nop{}
	}

	logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	return cache.NewRedisCache(client, config.Redis.FlightsTTL, logger)
}

func setupEvents(config *utils.Config, logger *zap.Logger) *events.Bus {
	if len(config.Kafka.Brokers) == 0 {
		return events.NewBus(events.Nop{}, config.Kafka.TicketTopic, config.Kafka.ClearanceTopic, logger)
	}

	logger.Info("Publishing events to kafka", zap.Strings("brokers", config.Kafka.Brokers))
	publisher := events.NewKafkaPublisher(config.Kafka.Brokers, logger)
	return events.NewBus(publisher, config.Kafka.TicketTopic, config.Kafka.ClearanceTopic, logger)
}
