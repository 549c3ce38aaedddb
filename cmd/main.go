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

	cancelBookingHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/check_availability"
	completeBookingHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/create_booking"
	createHostelHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/create_hostel"
	createMachineHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/create_machine"
	deleteMachineHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/delete_machine"
	getAvailableSlotsHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_booking"
	getBookingStatsHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_booking_stats"
	getConversationHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_conversation"
	getHostelHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_hostel"
	getMachineHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_machine"
	getMachineMaintenanceHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_machine_maintenance"
	getUnreadCountHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_unread_count"
	getWalletHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/get_wallet"
	listAllBookingsHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/list_all_bookings"
	listHostelsHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/list_hostels"
	listMachinesHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/list_machines"
	listOwnBookingsHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/list_own_bookings"
	markConversationReadHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/mark_conversation_read"
	sendMessageHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/send_message"
	topUpWalletHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/top_up_wallet"
	updateMachineStatusHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/update_machine_status"
	validateAccessCodeHandler "github.com/m04kA/LaundryBookingService/internal/api/handlers/validate_access_code"
	"github.com/m04kA/LaundryBookingService/internal/api/middleware"
	"github.com/m04kA/LaundryBookingService/internal/config"
	"github.com/m04kA/LaundryBookingService/internal/domain"
	hostelRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/hostel"
	machineRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/machine"
	messageRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/message"
	reservationRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/reservation"
	userRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/user"
	walletRepo "github.com/m04kA/LaundryBookingService/internal/infra/storage/wallet"
	"github.com/m04kA/LaundryBookingService/internal/integrations/eventbus"
	bookingsService "github.com/m04kA/LaundryBookingService/internal/service/bookings"
	hostelsService "github.com/m04kA/LaundryBookingService/internal/service/hostels"
	machinesService "github.com/m04kA/LaundryBookingService/internal/service/machines"
	machinesModels "github.com/m04kA/LaundryBookingService/internal/service/machines/models"
	messagesService "github.com/m04kA/LaundryBookingService/internal/service/messages"
	walletService "github.com/m04kA/LaundryBookingService/internal/service/wallet"
	checkAvailabilityUC "github.com/m04kA/LaundryBookingService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/LaundryBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/LaundryBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/LaundryBookingService/migrations"
	"github.com/m04kA/LaundryBookingService/pkg/accesscode"
	"github.com/m04kA/LaundryBookingService/pkg/dbmetrics"
	"github.com/m04kA/LaundryBookingService/pkg/logger"
	"github.com/m04kA/LaundryBookingService/pkg/metrics"
	"github.com/m04kA/LaundryBookingService/pkg/txmanager"
	"github.com/m04kA/LaundryBookingService/pkg/types"
)

// publisher общий интерфейс RabbitMQ и noop публикаторов
type publisher interface {
	PublishReservation(ctx context.Context, eventType eventbus.EventType, res *domain.Reservation)
	Close() error
}

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

	log.Info("Starting LaundryBookingService...")
	log.Info("Configuration loaded from config.toml (timezone=%s)", cfg.Booking.Location())

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

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Оборачиваем соединение (с метриками или без)
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.New(wrappedDB, log)

	// Подключаемся к Redis (используется только rate limiter)
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable at %s, rate limiting disabled: %v", cfg.Redis.Addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		pingCancel()
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Инициализируем публикатор событий
	var events publisher = eventbus.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		events = eventbus.NewPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.QueuePrefix,
			time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second,
			cfg.RabbitMQ.BufferSize,
			metricsCollector,
			log,
		)
		log.Info("Reservation events will be published to RabbitMQ (prefix=%s)", cfg.RabbitMQ.QueuePrefix)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем репозитории
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	machineRepository := machineRepo.NewRepository(wrappedDB)
	hostelRepository := hostelRepo.NewRepository(wrappedDB)
	userRepository := userRepo.NewRepository(wrappedDB)
	walletRepository := walletRepo.NewRepository(wrappedDB)
	messageRepository := messageRepo.NewRepository(wrappedDB)

	// Значения по умолчанию для новых машин (формат проверен в config.Load)
	defaultOpen, _ := types.NewTimeStringFromString(cfg.Booking.DefaultOpenTime)
	defaultClose, _ := types.NewTimeStringFromString(cfg.Booking.DefaultCloseTime)
	machineDefaults := machinesModels.Defaults{
		CycleMinutes: cfg.Booking.DefaultCycleMinutes,
		CostPerCycle: cfg.Booking.CostPerCycle(),
		OpenTime:     defaultOpen,
		CloseTime:    defaultClose,
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		reservationRepository,
		walletRepository,
		events,
		txMgr,
		cfg.Booking.Location(),
		cfg.Booking.RecentStatsLimit,
		log,
	)
	machineSvc := machinesService.NewService(
		machineRepository,
		hostelRepository,
		reservationRepository,
		walletRepository,
		events,
		txMgr,
		machineDefaults,
		log,
	)
	hostelSvc := hostelsService.NewService(hostelRepository, log)
	walletSvc := walletService.NewService(walletRepository, txMgr, log)
	messageSvc := messagesService.NewService(messageRepository, userRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		machineRepository,
		reservationRepository,
		walletRepository,
		accesscode.NewGenerator(),
		events,
		txMgr,
		createBookingUC.Settings{
			Location:           cfg.Booking.Location(),
			MaxDurationMinutes: cfg.Booking.MaxDurationMinutes,
			AccessCodeAttempts: cfg.Booking.AccessCodeAttempts,
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		machineRepository,
		reservationRepository,
		txMgr,
		cfg.Booking.Location(),
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		machineRepository,
		reservationRepository,
		txMgr,
		cfg.Booking.Location(),
		cfg.Booking.MaxDurationMinutes,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listOwnBookings := listOwnBookingsHandler.NewHandler(bookingSvc, log)
	listAllBookings := listAllBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	validateAccessCode := validateAccessCodeHandler.NewHandler(bookingSvc, log)
	getBookingStats := getBookingStatsHandler.NewHandler(bookingSvc, log)

	listMachines := listMachinesHandler.NewHandler(machineSvc, log)
	getMachine := getMachineHandler.NewHandler(machineSvc, log)
	createMachine := createMachineHandler.NewHandler(machineSvc, log)
	updateMachineStatus := updateMachineStatusHandler.NewHandler(machineSvc, log)
	deleteMachine := deleteMachineHandler.NewHandler(machineSvc, log)
	getMachineMaintenance := getMachineMaintenanceHandler.NewHandler(machineSvc, log)

	listHostels := listHostelsHandler.NewHandler(hostelSvc, log)
	getHostel := getHostelHandler.NewHandler(hostelSvc, log)
	createHostel := createHostelHandler.NewHandler(hostelSvc, log)

	getWallet := getWalletHandler.NewHandler(walletSvc, log)
	topUpWallet := topUpWalletHandler.NewHandler(walletSvc, log)

	sendMessage := sendMessageHandler.NewHandler(messageSvc, log)
	getConversation := getConversationHandler.NewHandler(messageSvc, log)
	markConversationRead := markConversationReadHandler.NewHandler(messageSvc, log)
	getUnreadCount := getUnreadCountHandler.NewHandler(messageSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты требуют JWT
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(cfg.Auth.JWTSecret, log))

	staffOnly := middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// ============================================================
	// SLOTS
	// ============================================================

	api.HandleFunc("/machines/{machineId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/machines/{machineId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// BOOKINGS
	// ============================================================

	// Литеральные пути регистрируются до /bookings/{bookingId}
	api.Handle("/bookings/all", staffOnly(http.HandlerFunc(listAllBookings.Handle))).Methods(http.MethodGet)
	api.HandleFunc("/bookings/stats", getBookingStats.Handle).Methods(http.MethodGet)
	api.Handle("/bookings/validate-code",
		staffOnly(middleware.RateLimit(cfg.RateLimit, rdb, log)(http.HandlerFunc(validateAccessCode.Handle))),
	).Methods(http.MethodPost)

	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listOwnBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.Handle("/bookings/{bookingId}/complete", staffOnly(http.HandlerFunc(completeBooking.Handle))).Methods(http.MethodPatch)

	// ============================================================
	// MACHINES
	// ============================================================

	api.HandleFunc("/machines", listMachines.Handle).Methods(http.MethodGet)
	api.Handle("/machines", adminOnly(http.HandlerFunc(createMachine.Handle))).Methods(http.MethodPost)
	api.HandleFunc("/machines/{machineId}", getMachine.Handle).Methods(http.MethodGet)
	api.Handle("/machines/{machineId}", adminOnly(http.HandlerFunc(deleteMachine.Handle))).Methods(http.MethodDelete)
	api.Handle("/machines/{machineId}/status", staffOnly(http.HandlerFunc(updateMachineStatus.Handle))).Methods(http.MethodPatch)
	api.Handle("/machines/{machineId}/maintenance", staffOnly(http.HandlerFunc(getMachineMaintenance.Handle))).Methods(http.MethodGet)

	// ============================================================
	// HOSTELS
	// ============================================================

	api.HandleFunc("/hostels", listHostels.Handle).Methods(http.MethodGet)
	api.Handle("/hostels", adminOnly(http.HandlerFunc(createHostel.Handle))).Methods(http.MethodPost)
	api.HandleFunc("/hostels/{hostelId}", getHostel.Handle).Methods(http.MethodGet)

	// ============================================================
	// WALLET
	// ============================================================

	api.HandleFunc("/users/{userId}/wallet", getWallet.Handle).Methods(http.MethodGet)
	api.Handle("/users/{userId}/wallet/top-up", staffOnly(http.HandlerFunc(topUpWallet.Handle))).Methods(http.MethodPost)

	// ============================================================
	// MESSAGES
	// ============================================================

	api.HandleFunc("/messages", sendMessage.Handle).Methods(http.MethodPost)
	api.HandleFunc("/messages/unread-count", getUnreadCount.Handle).Methods(http.MethodGet)
	api.HandleFunc("/messages/conversations/{userId}", getConversation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/messages/conversations/{userId}/read", markConversationRead.Handle).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
