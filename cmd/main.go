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

	cancelBookingHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_booking"
	getBusinessBookingsHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_business_bookings"
	getBusinessConfigHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_business_config"
	getStaffBookingsHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_staff_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_user_bookings"
	getUserNotificationsHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/get_user_notifications"
	markNotificationReadHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/mark_notification_read"
	toggleStaffActiveHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/toggle_staff_active"
	updateBookingStatusHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/update_booking_status"
	updateBusinessConfigHandler "github.com/m04kA/SMC-StaffBookingService/internal/api/handlers/update_business_config"
	"github.com/m04kA/SMC-StaffBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-StaffBookingService/internal/config"
	"github.com/m04kA/SMC-StaffBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/config"
	notificationRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/notification"
	serviceRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-StaffBookingService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-StaffBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-StaffBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-StaffBookingService/internal/service/bookings"
	configService "github.com/m04kA/SMC-StaffBookingService/internal/service/config"
	notificationsService "github.com/m04kA/SMC-StaffBookingService/internal/service/notifications"
	staffService "github.com/m04kA/SMC-StaffBookingService/internal/service/staff"
	createBookingUC "github.com/m04kA/SMC-StaffBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-StaffBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-StaffBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/logger"
	"github.com/m04kA/SMC-StaffBookingService/pkg/metrics"
	"github.com/m04kA/SMC-StaffBookingService/pkg/txmanager"
)

const bookingRateLimitPrefix = "ratelimit:bookings"

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-StaffBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	// nil-коллектор допустим: обёртки работают как прозрачный прокси
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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	// Проверяем соединение
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := wrappedDB.PingContext(pingCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	loc, err := cfg.Slots.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Slots.Timezone, err)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	configRepository := configRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	serviceRepository := serviceRepo.NewRepository(wrappedDB)
	staffRepository := staffRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Публикация уведомлений в RabbitMQ (опционально)
	var publisher notificationsService.EventPublisher
	var eventPublisher *eventbus.Publisher
	if cfg.RabbitMQ.Enabled {
		eventPublisher, err = eventbus.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = eventPublisher
		log.Info("Notification events are published to exchange %s", cfg.RabbitMQ.Exchange)
	}

	// Инициализируем сервисы
	clock := availability.NewRealTimeProvider(loc)
	configSvc := configService.NewService(configRepository, log)
	availabilitySvc := availability.NewService(
		staffRepository,
		bookingRepository,
		serviceRepository,
		configSvc,
		clock,
		domain.ParseLoadScope(cfg.Slots.LoadScope),
		log,
	)
	notificationSvc := notificationsService.NewService(notificationRepository, publisher, log)
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, notificationSvc, log)
	staffSvc := staffService.NewService(staffRepository, bookingRepository, clock, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		availabilitySvc,
		txMgr,
		notificationSvc,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(availabilitySvc, txMgr, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessBookings := getBusinessBookingsHandler.NewHandler(bookingSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(configSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(configSvc, log)
	getUserNotifications := getUserNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)
	getStaffBookings := getStaffBookingsHandler.NewHandler(staffSvc, log)
	toggleStaffActive := toggleStaffActiveHandler.NewHandler(staffSvc, log)

	// Ограничение частоты создания бронирований через Redis (опционально)
	var redisClient *redis.Client
	createBookingRoute := http.Handler(http.HandlerFunc(createBooking.Handle))
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		redisCtx, redisCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(redisCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s: %v (fail_open=%t)", cfg.Redis.Addr, err, cfg.RateLimit.FailOpen)
		}
		redisCancel()

		limiter := middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			bookingRateLimitPrefix,
			cfg.RateLimit.FailOpen,
			log,
		)
		createBookingRoute = limiter.Middleware(createBookingRoute)
		log.Info("Booking rate limit enabled: %d requests per %ds", cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов услуги на дату
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Окно слотов бизнеса
	api.HandleFunc("/businesses/{businessId}/slot-config", getBusinessConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.Handle("/bookings", createBookingRoute).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Пользователь ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/notifications", getUserNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// --- Сотрудник (самообслуживание) ---
	protected.HandleFunc("/staff/{staffId}/bookings", getStaffBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}/active", toggleStaffActive.Handle).Methods(http.MethodPatch)

	// --- Управление бизнесом (для владельца) ---
	protected.HandleFunc("/businesses/{businessId}/bookings", getBusinessBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/slot-config", updateBusinessConfig.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if eventPublisher != nil {
		if err := eventPublisher.Close(); err != nil {
			log.Warn("Failed to close RabbitMQ publisher: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close Redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
