package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/central-university-dev/go-commander/internal/bot/announce"
	"github.com/central-university-dev/go-commander/internal/bot/cache"
	"github.com/central-university-dev/go-commander/internal/bot/clients"
	"github.com/central-university-dev/go-commander/internal/bot/clients/kafka"
	"github.com/central-university-dev/go-commander/internal/bot/converters"
	bothandler "github.com/central-university-dev/go-commander/internal/bot/handler"
	"github.com/central-university-dev/go-commander/internal/bot/repository"
	botservice "github.com/central-university-dev/go-commander/internal/bot/service"
	"github.com/central-university-dev/go-commander/internal/bot/telegram"
	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/common/metrics"
	"github.com/central-university-dev/go-commander/internal/common/middleware"
	"github.com/central-university-dev/go-commander/internal/common/telemetry"
	"github.com/central-university-dev/go-commander/internal/config"
	"github.com/central-university-dev/go-commander/internal/database"
	"github.com/central-university-dev/go-commander/internal/scheduler"
	"github.com/central-university-dev/go-commander/pkg"
	"github.com/central-university-dev/go-commander/pkg/txs"
)

func gracefulShutdown(
	server *http.Server,
	poller *telegram.Poller,
	sched *scheduler.Scheduler,
	kafkaConsumer *kafka.Consumer,
	entityCache *cache.RedisEntityCache,
	metricsServer *metrics.MetricsServer,
	telemetryShutdown func(context.Context) error,
	stopCh <-chan struct{},
	appLogger *slog.Logger,
) {
	<-stopCh
	appLogger.Info("Получен сигнал завершения")

	poller.Stop()
	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Ошибка при остановке HTTP сервера",
			"error", err,
		)
	}

	if kafkaConsumer != nil {
		if err := kafkaConsumer.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии Kafka консьюмера",
				"error", err,
			)
		}
	}

	if entityCache != nil {
		if err := entityCache.Close(); err != nil {
			appLogger.Error("Ошибка при закрытии соединения с Redis",
				"error", err,
			)
		}
	}

	if err := metricsServer.Stop(ctx); err != nil {
		appLogger.Error("Ошибка при остановке сервера метрик",
			"error", err,
		)
	}

	if err := telemetryShutdown(ctx); err != nil {
		appLogger.Error("Ошибка при сбросе трассировки",
			"error", err,
		)
	}

	appLogger.Info("Сервер успешно остановлен")
}

func publishBotCommands(commanderService *botservice.CommanderService, appLogger *slog.Logger) {
	ctx := context.Background()
	if err := commanderService.PublishBotCommands(ctx); err != nil {
		appLogger.Error("Ошибка при регистрации команд бота",
			"error", err,
		)
	} else {
		appLogger.Info("Команды бота успешно зарегистрированы")
	}
}

func startHTTPServer(server *http.Server, port int, stopCh chan<- struct{}, appLogger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLogger.Info("Получен системный сигнал",
			"signal", sig.String(),
		)
		close(stopCh)
	}()

	go func() {
		appLogger.Info("Запуск HTTP сервера бота",
			"port", port,
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Ошибка при запуске HTTP сервера",
				"error", err,
			)
			close(stopCh)
		}
	}()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка запуска сервиса: %v\n", err)
		os.Exit(1)
	}
}

//nolint:funlen // Длина функции обусловлена необходимостью последовательной инициализации всех компонентов.
func run() error {
	appLogger := pkg.NewLogger(os.Stdout)

	cfg := config.LoadConfig()

	ctx := context.Background()

	telemetryShutdown, err := telemetry.Setup(ctx, "commander-bot", cfg.OtelEndpoint, cfg.OtelEnabled)
	if err != nil {
		appLogger.Error("Ошибка при настройке трассировки",
			"error", err,
		)
	}

	db, err := database.NewPostgresDB(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Ошибка при подключении к базе данных",
			"error", err,
		)

		return fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	defer db.Close()

	txManager := txs.NewTxManager(db.Pool, appLogger)

	repoFactory := repository.NewFactory(db, cfg, appLogger)

	settingsRepo, err := repoFactory.CreateChatSettingsRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория настроек чатов",
			"error", err,
		)

		return fmt.Errorf("ошибка создания репозитория настроек чатов: %w", err)
	}

	reminderRepo, err := repoFactory.CreateReminderRepository()
	if err != nil {
		appLogger.Error("Ошибка при создании репозитория напоминаний",
			"error", err,
		)

		return fmt.Errorf("ошибка создания репозитория напоминаний: %w", err)
	}

	telegramClient := clients.NewTelegramClient(cfg.TelegramBotToken, cfg.TelegramSendRate, cfg.TelegramSendBurst, appLogger)

	directoryClient := clients.NewDirectoryClient(cfg.DirectoryBaseURL, cfg, appLogger)

	var resolver converters.EntityResolver = directoryClient

	var entityCache *cache.RedisEntityCache

	if cfg.RedisURL != "" {
		cacheTTL := cfg.RedisCacheTTL
		if cacheTTL <= 0 {
			cacheTTL = 30 * time.Minute
		}

		entityCache, err = cache.NewRedisEntityCache(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB, cacheTTL, appLogger)
		if err != nil {
			appLogger.Error("Ошибка при подключении к Redis",
				"error", err,
			)
		} else {
			appLogger.Info("Кэш Redis успешно инициализирован")

			resolver = cache.NewCachedResolver(directoryClient, entityCache, appLogger)
		}
	}

	settingsService := botservice.NewSettingsService(settingsRepo, txManager, cfg, appLogger)
	reminderService := botservice.NewReminderService(reminderRepo, telegramClient, appLogger)

	registry := commands.NewRegistry(
		commands.WithRegistryGuards(botservice.NewDisabledCommandsGuard(settingsService, cfg.AdminUserIDs, appLogger)),
	)

	publisherFactory := announce.NewPublisherFactory(cfg, appLogger)

	publisher, err := publisherFactory.CreatePublisher()
	if err != nil {
		appLogger.Error("Ошибка при создании издателя объявлений",
			"error", err,
		)

		return fmt.Errorf("ошибка создания издателя объявлений: %w", err)
	}

	commanderService := botservice.NewCommanderService(
		registry,
		telegramClient,
		settingsService,
		reminderService,
		publisher,
		resolver,
		cfg,
		appLogger,
	)

	if err := commanderService.RegisterCommands(); err != nil {
		appLogger.Error("Ошибка при регистрации команд",
			"error", err,
		)

		return fmt.Errorf("ошибка регистрации команд: %w", err)
	}

	publishBotCommands(commanderService, appLogger)

	reporter := botservice.NewTelegramErrorReporter(telegramClient, appLogger)
	dispatcher := commands.NewDispatcher(registry, settingsService, reporter, appLogger)

	var kafkaConsumer *kafka.Consumer

	if strings.EqualFold(cfg.MessageTransport, "KAFKA") {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		kafkaConsumer = kafka.NewConsumer(
			brokers,
			"bot-group",
			cfg.TopicAnnouncements,
			cfg.TopicDeadLetterQueue,
			commanderService,
			appLogger,
		)

		kafkaConsumer.Start(ctx)
		appLogger.Info("Kafka консьюмер успешно запущен")
	}

	botHandler := bothandler.NewBotHandler(commanderService, appLogger)

	mux := http.NewServeMux()
	botHandler.RegisterRoutes(mux)

	metricsMiddleware := middleware.NewMetricsMiddleware("bot")
	rateLimiter := middleware.NewRateLimiterMiddleware(ctx, "bot", cfg.RateLimitRequests, cfg.RateLimitWindow, appLogger)

	httpHandler := metricsMiddleware.Middleware(rateLimiter.Middleware(mux))

	poller := telegram.NewPoller(telegramClient, dispatcher, appLogger)
	poller.Start()

	sched := scheduler.NewScheduler(registry, reminderService, cfg.CooldownCleanupInterval, cfg.ReminderCheckInterval, appLogger)
	sched.Start()

	metricsServer := metrics.NewMetricsServer(cfg.BotMetricsPort, appLogger)
	metricsServer.Start()

	httpServer := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.BotServerPort),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTPRequestTimeout,
	}

	stopCh := make(chan struct{})

	startHTTPServer(httpServer, cfg.BotServerPort, stopCh, appLogger)
	gracefulShutdown(httpServer, poller, sched, kafkaConsumer, entityCache, metricsServer, telemetryShutdown, stopCh, appLogger)

	return nil
}
