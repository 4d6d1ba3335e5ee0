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

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	logger_adapter "rental-hub-service/internal/adapters/logger"
	"rental-hub-service/internal/adapters/nlquery"
	postgres_adapter "rental-hub-service/internal/adapters/postgres"
	rabbitmq_adapter "rental-hub-service/internal/adapters/rabbitmq"
	"rental-hub-service/internal/adapters/rakuya"
	"rental-hub-service/internal/adapters/rental591"
	"rental-hub-service/internal/adapters/rest"
	"rental-hub-service/internal/configs"
	"rental-hub-service/internal/constants"
	"rental-hub-service/internal/contextkeys"
	"rental-hub-service/internal/core/domain"
	"rental-hub-service/internal/core/port"
	"rental-hub-service/internal/core/usecase"
	"rental-hub-service/internal/pkg/postgres"
	"rental-hub-service/internal/pkg/rabbitmq"
	"rental-hub-service/internal/scheduler"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
	baseLogger   port.LoggerPort

	eventsPublisher *rabbitmq_adapter.PriceChangePublisher
	crawlScheduler  *scheduler.Scheduler
	runCrawl        *usecase.RunCrawlUseCase
	defaultOptions  map[string]domain.CrawlOptions
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluent.New(fluent.Config{
			FluentHost:    appConfig.FluentBit.Host,
			FluentPort:    appConfig.FluentBit.Port,
			Async:         true,
			MarshalAsJSON: true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, appConfig.AppName, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingStorage := postgres_adapter.NewListingStorageAdapter(dbPool)
	runStorage := postgres_adapter.NewCrawlRunStorageAdapter(dbPool)
	searchLogStorage := postgres_adapter.NewSearchLogStorageAdapter(dbPool)
	favoriteReader := postgres_adapter.NewFavoriteReaderAdapter(dbPool)
	notificationSink := postgres_adapter.NewNotificationSinkAdapter(dbPool)
	appLogger.Info("Postgres storage adapters initialized.", nil)

	// Очередь опциональна: без неё уведомления пишутся только в БД
	var eventsPublisher *rabbitmq_adapter.PriceChangePublisher
	var eventsPort port.PriceChangeEventsPort
	if appConfig.RabbitMQ.Enabled {
		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManager, err := rabbitmq.GetManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewLoggerBridge(connManagerLogger))
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}

		producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		eventsPublisher, err = rabbitmq_adapter.NewPriceChangePublisher(connManager, rabbitmq_adapter.NewLoggerBridge(producerLogger))
		if err != nil {
			appLogger.Error("Failed to create price change publisher", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create price change publisher: %w", err)
		}
		eventsPort = eventsPublisher
		appLogger.Info("RabbitMQ price change publisher initialized.", nil)
	} else {
		appLogger.Info("RabbitMQ is disabled, price change events will not be published.", nil)
	}

	// --- 4. ИСХОДЯЩИЕ АДАПТЕРЫ ИСТОЧНИКОВ ---
	fetchers := make(map[string]port.SourceFetcherPort)

	if appConfig.Crawler.ExtractorURL != "" {
		rental591Fetcher, err := rental591.NewRental591FetcherAdapter(appConfig.Crawler.ExtractorURL)
		if err != nil {
			appLogger.Error("Failed to create 591 fetcher", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create 591 fetcher: %w", err)
		}
		fetchers[rental591Fetcher.Source()] = rental591Fetcher
	} else {
		appLogger.Warn("EXTRACTOR_URL is not set, 591 source is disabled.", nil)
	}

	rakuyaFetcher, err := rakuya.NewRakuyaFetcherAdapter()
	if err != nil {
		appLogger.Error("Failed to create rakuya fetcher", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create rakuya fetcher: %w", err)
	}
	fetchers[rakuyaFetcher.Source()] = rakuyaFetcher
	appLogger.Info("Source fetchers initialized.", port.Fields{"sources": len(fetchers)})

	// Переводчик запросов: без языкового шлюза эндпоинт отвечает ошибкой перевода
	var translator port.QueryTranslatorPort
	if appConfig.AIGateway.URL != "" {
		translator, err = nlquery.NewClaudeTranslatorAdapter(appConfig.AIGateway.URL, appConfig.AIGateway.Token, appConfig.AIGateway.Model)
		if err != nil {
			appLogger.Error("Failed to create query translator", err, nil)
			dbPool.Close()
			return nil, fmt.Errorf("failed to create query translator: %w", err)
		}
	} else {
		appLogger.Warn("AI_GATEWAY_URL is not set, natural language search is disabled.", nil)
		translator = nlquery.NewDisabledTranslator()
	}

	// --- 5. USE CASES (ядро бизнес-логики) ---
	notifyUseCase := usecase.NewNotifyPriceChangeUseCase(favoriteReader, notificationSink, eventsPort)
	upsertUseCase := usecase.NewUpsertListingUseCase(listingStorage, notifyUseCase)
	runCrawlUseCase := usecase.NewRunCrawlUseCase(fetchers, runStorage, upsertUseCase)

	searchUseCase := usecase.NewSearchListingsUseCase(listingStorage)
	naturalSearchUseCase := usecase.NewNaturalLanguageSearchUseCase(translator, searchUseCase, searchLogStorage)
	suggestUseCase := usecase.NewSuggestUseCase(listingStorage)
	getListingUseCase := usecase.NewGetListingUseCase(listingStorage)

	runLogsUseCase := usecase.NewGetRunLogsUseCase(runStorage)
	runStatsUseCase := usecase.NewGetRunStatsUseCase(runStorage)
	appLogger.Info("All use cases initialized.", nil)

	// --- 6. ВХОДЯЩИЕ АДАПТЕРЫ ---
	defaultOptions := defaultCrawlOptions(appConfig, fetchers)

	propertyHandlers := rest.NewPropertyHandler(searchUseCase, getListingUseCase)
	searchHandlers := rest.NewSearchHandler(searchUseCase, naturalSearchUseCase, suggestUseCase)
	crawlerHandlers := rest.NewCrawlerHandler(runCrawlUseCase, runLogsUseCase, runStatsUseCase, defaultOptions)

	apiServer := rest.NewServer(appConfig.Rest.PORT, propertyHandlers, searchHandlers, crawlerHandlers, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:          appConfig,
		dbPool:          dbPool,
		apiServer:       apiServer,
		fluentClient:    fluentClient,
		logger:          appLogger,
		baseLogger:      baseLogger,
		eventsPublisher: eventsPublisher,
		runCrawl:        runCrawlUseCase,
		defaultOptions:  defaultOptions,
	}

	application.crawlScheduler = scheduler.New(
		time.Duration(appConfig.Crawler.IntervalMinutes)*time.Minute,
		"crawl-all-sources",
		application.crawlTask,
		baseLogger,
	)

	return application, nil
}

// crawlTask — одна итерация планировщика: обход всех источников
func (a *App) crawlTask(ctx context.Context) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)
	summary, err := a.runCrawl.Execute(ctx, a.defaultOptions)
	if err != nil {
		return err
	}
	if len(summary.Errors) > 0 {
		return fmt.Errorf("crawl finished with %d source error(s)", len(summary.Errors))
	}
	return nil
}

// RunCrawlOnce выполняет один обход всех источников без HTTP-сервера
// и планировщика. Используется crawler-бинарником с флагом --once.
func (a *App) RunCrawlOnce(ctx context.Context) (*domain.RunSummary, error) {
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)
	return a.runCrawl.Execute(ctx, a.defaultOptions)
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventsPublisher != nil {
			if err := a.eventsPublisher.Close(); err != nil {
				a.logger.Error("Error closing events publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	go a.crawlScheduler.Run(appCtx)

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	}

	cancelApp()

	return nil
}

// defaultCrawlOptions строит параметры обхода по умолчанию для каждого
// сконфигурированного источника: Тайбэй, все типы жилья
func defaultCrawlOptions(cfg *configs.AppConfig, fetchers map[string]port.SourceFetcherPort) map[string]domain.CrawlOptions {
	options := make(map[string]domain.CrawlOptions, len(fetchers))
	for source := range fetchers {
		options[source] = domain.CrawlOptions{
			Region:   constants.RegionTaipei,
			Kind:     constants.KindAny,
			MaxPages: cfg.Crawler.MaxPages,
		}
	}
	return options
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
