package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/block_slot"
	deleteAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_availability"
	deleteTemplateHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_template"
	getAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_availability"
	getFreeSlotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_free_slots"
	getTemplateHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_template"
	listAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/list_availability"
	recurringBlockHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/recurring_block"
	releaseSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/release_slot"
	reserveSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/reserve_slot"
	seedAvailabilityHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/seed_availability"
	upsertTemplateHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/upsert_template"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache"
	availabilityCache "github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/locker"
	availabilityRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/availability"
	templateRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/template"
	bookingServiceClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/bookingservice"
	catalogServiceClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/catalogservice"
	availabilityService "github.com/m04kA/SMC-AvailabilityService/internal/service/availability"
	templatesService "github.com/m04kA/SMC-AvailabilityService/internal/service/templates"
	blockSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/block_slot"
	recurringBlockUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/recurring_block"
	releaseSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/release_slot"
	reserveSlotUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/reserve_slot"
	seedAvailabilityUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/seed_availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/worker/seeder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis (кэш и лидерская блокировка сидера)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis is not reachable at %s, cache requests will fall back to database: %v", cfg.Redis.Addr, err)
	} else {
		log.Info("Successfully connected to Redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	}
	pingCancel()

	redisClient := cache.NewClient(rdb)

	var cacheClient *cache.Client
	if cfg.Cache.Enabled {
		cacheClient = redisClient
	}
	appCache := cache.New(cacheClient, time.Duration(cfg.Cache.TTL)*time.Second, log, metricsCollector)
	log.Info("Cache initialized (enabled=%t, ttl=%ds)", appCache.Enabled(), cfg.Cache.TTL)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	bookingClient := bookingServiceClient.NewClient(
		cfg.BookingService.URL,
		time.Duration(cfg.BookingService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, BookingService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.BookingService.URL, cfg.BookingService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		availabilityRepository *availabilityRepo.Repository
		templateRepository     *templateRepo.Repository
		txMgr                  availabilityService.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		templateRepository = templateRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB).WithMaxAttempts(cfg.Engine.TxAttempts)
	} else {
		availabilityRepository = availabilityRepo.NewRepository(db)
		templateRepository = templateRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db).WithMaxAttempts(cfg.Engine.TxAttempts)
	}

	// Чтение записей доступности через кэш
	availabilityStore := availabilityCache.NewStore(availabilityRepository, appCache, log)

	// Инициализируем сервисы
	engine := availabilityService.NewService(
		availabilityRepository,
		availabilityStore,
		txMgr,
		metricsCollector,
		log,
		cfg.Engine.MaxRetries,
	)
	templatesSvc := templatesService.NewService(
		templateRepository,
		catalogClient,
		appCache,
		log,
	)

	// Инициализируем use cases
	reserveSlotUseCase := reserveSlotUC.NewUseCase(engine, catalogClient, bookingClient, log)
	releaseSlotUseCase := releaseSlotUC.NewUseCase(engine, catalogClient, log)
	blockSlotUseCase := blockSlotUC.NewUseCase(engine, catalogClient, log)
	recurringBlockUseCase := recurringBlockUC.NewUseCase(engine, catalogClient, log)
	seedAvailabilityUseCase := seedAvailabilityUC.NewUseCase(engine, catalogClient, log)

	// Воркер посева по шаблонам
	var seederWorker *seeder.Worker
	if cfg.Seeder.Enabled {
		seederWorker = seeder.NewWorker(
			seeder.Config{
				CronSpec:   cfg.Seeder.Cron,
				WindowDays: cfg.Seeder.WindowDays,
				LockTTL:    time.Duration(cfg.Seeder.LockTTL) * time.Second,
			},
			templatesSvc,
			seedAvailabilityUseCase,
			locker.New(redisClient, log),
			metricsCollector,
			log,
		)
	}

	// Инициализируем handlers
	listAvailability := listAvailabilityHandler.NewHandler(engine, log)
	getAvailability := getAvailabilityHandler.NewHandler(engine, log)
	getFreeSlots := getFreeSlotsHandler.NewHandler(engine, log)
	deleteAvailability := deleteAvailabilityHandler.NewHandler(engine, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	releaseSlot := releaseSlotHandler.NewHandler(releaseSlotUseCase, log)
	blockSlot := blockSlotHandler.NewHandler(blockSlotUseCase, log)
	recurringBlock := recurringBlockHandler.NewHandler(recurringBlockUseCase, log)
	seedAvailability := seedAvailabilityHandler.NewHandler(seedAvailabilityUseCase, log)
	getTemplate := getTemplateHandler.NewHandler(templatesSvc, log)
	upsertTemplate := upsertTemplateHandler.NewHandler(templatesSvc, log)
	deleteTemplate := deleteTemplateHandler.NewHandler(templatesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst, log))
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	entity := api.PathPrefix("/entities/{kind}/{entityId}").Subrouter()

	// --- Доступность ---
	// seed регистрируем раньше {date}, иначе "seed" совпадет с шаблоном даты
	entity.HandleFunc("/availability/seed", seedAvailability.Handle).Methods(http.MethodPost)
	entity.HandleFunc("/availability", listAvailability.Handle).Methods(http.MethodGet)
	entity.HandleFunc("/availability/{date}", getAvailability.Handle).Methods(http.MethodGet)
	entity.HandleFunc("/availability/{date}/free-slots", getFreeSlots.Handle).Methods(http.MethodGet)

	// --- Операции со слотами ---
	entity.HandleFunc("/availability/{date}/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	entity.HandleFunc("/availability/{date}/release", releaseSlot.Handle).Methods(http.MethodPost)
	entity.HandleFunc("/availability/{date}/block", blockSlot.HandleBlock).Methods(http.MethodPost)
	entity.HandleFunc("/availability/{date}/unblock", blockSlot.HandleUnblock).Methods(http.MethodPost)
	entity.HandleFunc("/recurring-blocks", recurringBlock.Handle).Methods(http.MethodPost)

	// --- Шаблоны посева ---
	entity.HandleFunc("/template", getTemplate.Handle).Methods(http.MethodGet)
	entity.HandleFunc("/template", upsertTemplate.Handle).Methods(http.MethodPut)
	entity.HandleFunc("/template", deleteTemplate.Handle).Methods(http.MethodDelete)

	// Удаление записи по ID
	api.HandleFunc("/availability/{id}", deleteAvailability.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем воркер посева
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if seederWorker != nil {
		if err := seederWorker.Start(workerCtx); err != nil {
			log.Fatal("Failed to start seeder: %v", err)
		}
		log.Info("Seeder started (cron=%q, window_days=%d)", cfg.Seeder.Cron, cfg.Seeder.WindowDays)
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if seederWorker != nil {
		seederWorker.Stop()
		log.Info("Seeder stopped")
	}
	workerCancel()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
