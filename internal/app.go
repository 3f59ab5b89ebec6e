package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "property-service/internal/adapters/logger"
	postgres_adapter "property-service/internal/adapters/postgres"
	rabbitmq_adapter "property-service/internal/adapters/rabbitmq"
	"property-service/internal/adapters/rediscache"
	"property-service/internal/adapters/rest"
	"property-service/internal/configs"
	"property-service/internal/constants"
	"property-service/internal/core/port"
	"property-service/internal/core/port/usecases_port"
	"property-service/internal/core/usecase"
	fluentlogger "property-service/pkg/fluent_logger"
	"property-service/pkg/postgres"
	"property-service/pkg/rabbitmq/rabbitmq_common"
	"property-service/pkg/rabbitmq/rabbitmq_consumer"
	pkgredis "property-service/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config      *configs.AppConfig
	dbPool      *pgxpool.Pool
	redisClient *pkgredis.Client
	apiServer   *rest.Server

	upsertsConsumer *rabbitmq_adapter.PropertyUpsertsConsumerAdapter
	eventsPublisher *rabbitmq_adapter.PropertyEventsPublisherAdapter
	connManager     *rabbitmq_common.ConnectionManager
	sweepUC         usecases_port.MaintenanceSweepUseCasePort

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- Loggers ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- Low-level clients ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Postgres.URL,
		MaxConns:    int32(appConfig.Postgres.MaxConns),
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool", nil)

	redisClient, err := pkgredis.NewClient(pkgredis.Config{
		URL:                  appConfig.Redis.URL,
		OpTimeout:            appConfig.Redis.OpTimeout,
		MaxReconnectAttempts: appConfig.Redis.MaxReconnects,
		Logger:               rediscache.NewRedisLoggerBridge(baseLogger.WithFields(port.Fields{"component": "redis_client"})),
	})
	if err != nil {
		appLogger.Error("Failed to create Redis client", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create Redis client: %w", err)
	}

	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL,
		rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_manager"})))
	if err != nil {
		appLogger.Error("Failed to initialize RabbitMQ connection manager", err, nil)
		dbPool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("failed to initialize RabbitMQ connection manager: %w", err)
	}

	// --- Adapters ---
	storageAdapter, err := postgres_adapter.NewPostgresStorageAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres storage adapter", err, nil)
		dbPool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
	}

	kvBridge := rediscache.NewKVBridge(redisClient)

	cacheService, err := rediscache.NewCacheService(kvBridge, rediscache.CacheServiceConfig{
		SearchTTL:   appConfig.Cache.SearchResultsTTL,
		PropertyTTL: appConfig.Cache.PropertyDetailsTTL,
	}, baseLogger)
	if err != nil {
		dbPool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}

	historyTracker := rediscache.NewHistoryTracker(kvBridge, rediscache.HistoryTrackerConfig{
		HistoryTTL:       appConfig.Cache.HistoryTTL,
		PopularityWindow: appConfig.Cache.PopularityWindow,
	}, baseLogger)

	eventsPublisher, err := rabbitmq_adapter.NewPropertyEventsPublisherAdapter(
		appConfig.RabbitMQ.URL, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create property events publisher", err, nil)
		dbPool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("failed to create property events publisher: %w", err)
	}
	appLogger.Info("All persistence and messaging adapters initialized", nil)

	// --- Use cases ---
	searchUC := usecase.NewSearchPropertiesUseCase(storageAdapter, cacheService, historyTracker)
	detailsUC := usecase.NewGetPropertyDetailsUseCase(storageAdapter, cacheService)
	createUC := usecase.NewCreatePropertyUseCase(storageAdapter, cacheService, eventsPublisher)
	updateUC := usecase.NewUpdatePropertyUseCase(storageAdapter, cacheService, eventsPublisher)
	deleteUC := usecase.NewDeletePropertyUseCase(storageAdapter, cacheService, eventsPublisher)
	featureUC := usecase.NewToggleFeaturedUseCase(storageAdapter, cacheService, eventsPublisher)
	upsertUC := usecase.NewUpsertPropertyUseCase(createUC, updateUC)
	historyUC := usecase.NewGetSearchHistoryUseCase(historyTracker)
	popularUC := usecase.NewGetPopularTermsUseCase(historyTracker)
	similarUC := usecase.NewGetSimilarSearchesUseCase(historyTracker)
	sweepUC := usecase.NewMaintenanceSweepUseCase(storageAdapter, cacheService, eventsPublisher,
		usecase.MaintenanceSweepConfig{
			RenewalWindow: appConfig.Sweep.RenewalWindow,
			RenewFor:      appConfig.Sweep.RenewFor,
		})

	// --- Queue consumer ---
	upsertsConsumer, err := rabbitmq_adapter.NewPropertyUpsertsConsumerAdapter(
		rabbitmq_consumer.ConsumerConfig{
			Config: rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},

			QueueName:    constants.QueuePropertyUpserts,
			DeclareQueue: true,
			DurableQueue: true,

			PrefetchCount: 10,

			EnableRetryMechanism: true,
			RetryExchange:        constants.QueuePropertyUpserts + "_retry_exchange",
			RetryQueue:           constants.QueuePropertyUpserts + "_retry_queue",
			RetryTTL:             30000,
			FinalDLXExchange:     constants.FinalDLXExchange,
			FinalDLQ:             constants.FinalDLQ,
			FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
			MaxRetries:           3,
		},
		upsertUC, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create property upserts consumer", err, nil)
		dbPool.Close()
		redisClient.Close()
		return nil, fmt.Errorf("failed to create property upserts consumer: %w", err)
	}

	// --- REST server ---
	apiHandlers := rest.NewPropertyHandler(
		searchUC, detailsUC, createUC, updateUC, deleteUC, featureUC,
		historyUC, popularUC, similarUC)
	apiServer := rest.NewServer(appConfig.Rest.Port, apiHandlers, baseLogger)
	appLogger.Info("REST API server configured", nil)

	return &App{
		config:      appConfig,
		dbPool:      dbPool,
		redisClient: redisClient,
		apiServer:   apiServer,

		upsertsConsumer: upsertsConsumer,
		eventsPublisher: eventsPublisher,
		connManager:     connManager,
		sweepUC:         sweepUC,

		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run starts every component and manages graceful shutdown.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.upsertsConsumer != nil {
			if err := a.upsertsConsumer.Close(); err != nil {
				a.logger.Error("Error during consumer shutdown", err, nil)
			}
		}
		if a.eventsPublisher != nil {
			if err := a.eventsPublisher.Close(); err != nil {
				a.logger.Error("Error during publisher shutdown", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}

		if a.redisClient != nil {
			if err := a.redisClient.Close(); err != nil {
				a.logger.Error("Error closing Redis client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// stdout here, fluent may already be unreachable
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	consumerErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting property upserts consumer...", nil)
		if err := a.upsertsConsumer.Start(appCtx); err != nil {
			consumerErrors <- err
		}
	}()

	go a.runSweepLoop(appCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
	case err := <-consumerErrors:
		a.logger.Error("Consumer failed, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

// runSweepLoop drives the periodic renewal/expiration sweep and views
// reconciliation. One sweep runs shortly after startup so a restart never
// delays overdue expirations by a full interval.
func (a *App) runSweepLoop(ctx context.Context) {
	sweepLogger := a.logger.WithFields(port.Fields{"component": "sweep_loop"})

	ticker := time.NewTicker(a.config.Sweep.Interval)
	defer ticker.Stop()

	runOnce := func() {
		stats, err := a.sweepUC.Execute(ctx)
		if err != nil {
			sweepLogger.Error("Maintenance sweep finished with errors", err, nil)
			return
		}
		sweepLogger.Info("Maintenance sweep finished", port.Fields{
			"renewed": stats.Renewed,
			"expired": stats.Expired,
		})
	}

	select {
	case <-time.After(time.Minute):
		runOnce()
	case <-ctx.Done():
		return
	}

	for {
		select {
		case <-ticker.C:
			runOnce()
		case <-ctx.Done():
			return
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
