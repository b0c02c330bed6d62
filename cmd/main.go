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

	acceptProposalHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/accept_proposal"
	calendarOverridesHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/calendar_overrides"
	cancelAppointmentHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/cancel_appointment"
	cancelProposalHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/cancel_proposal"
	checkAvailabilityHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/check_availability"
	completeAppointmentHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/complete_appointment"
	createProposalHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/create_proposal"
	dispatchOutboxHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/dispatch_outbox"
	dispatchRemindersHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/dispatch_reminders"
	expireProposalsHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/expire_proposals"
	exportCalendarHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/export_calendar"
	getAppointmentHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/get_appointment"
	getCalendarSettingsHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/get_calendar_settings"
	listAppointmentsHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/list_appointments"
	listProposalsHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/list_proposals"
	markNoShowHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/mark_no_show"
	rescheduleAppointmentHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/reschedule_appointment"
	rejectProposalHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/reject_proposal"
	updateCalendarSettingsHandler "github.com/mesterhub/MH-SchedulingService/internal/api/handlers/update_calendar_settings"
	"github.com/mesterhub/MH-SchedulingService/internal/api/middleware"
	"github.com/mesterhub/MH-SchedulingService/internal/config"
	appointmentRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/appointment"
	calendarRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/calendar"
	outboxRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/outbox"
	proposalRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/proposal"
	quoteRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/quote"
	reminderRepo "github.com/mesterhub/MH-SchedulingService/internal/infra/storage/reminder"
	jobServiceClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/jobservice"
	leadServiceClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/leadservice"
	notifyServiceClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/notifyservice"
	requestServiceClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/requestservice"
	threadServiceClient "github.com/mesterhub/MH-SchedulingService/internal/integrations/threadservice"
	appointmentsService "github.com/mesterhub/MH-SchedulingService/internal/service/appointments"
	calendarService "github.com/mesterhub/MH-SchedulingService/internal/service/calendar"
	outboxService "github.com/mesterhub/MH-SchedulingService/internal/service/outbox"
	proposalsService "github.com/mesterhub/MH-SchedulingService/internal/service/proposals"
	remindersService "github.com/mesterhub/MH-SchedulingService/internal/service/reminders"
	acceptProposalUC "github.com/mesterhub/MH-SchedulingService/internal/usecase/accept_proposal"
	createProposalUC "github.com/mesterhub/MH-SchedulingService/internal/usecase/create_proposal"
	getOpenSlotsUC "github.com/mesterhub/MH-SchedulingService/internal/usecase/get_open_slots"
	rescheduleAppointmentUC "github.com/mesterhub/MH-SchedulingService/internal/usecase/reschedule_appointment"
	"github.com/mesterhub/MH-SchedulingService/pkg/dbmetrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/logger"
	"github.com/mesterhub/MH-SchedulingService/pkg/metrics"
	"github.com/mesterhub/MH-SchedulingService/pkg/simpletxmanager"
	"github.com/mesterhub/MH-SchedulingService/pkg/txmanager"
)

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

	log.Info("Starting MH-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем интеграционных клиентов
	threadClient := threadServiceClient.NewClient(
		cfg.ThreadService.URL,
		time.Duration(cfg.ThreadService.Timeout)*time.Second,
		log,
	)
	leadClient := leadServiceClient.NewClient(
		cfg.LeadService.URL,
		time.Duration(cfg.LeadService.Timeout)*time.Second,
		log,
	)
	requestClient := requestServiceClient.NewClient(
		cfg.RequestService.URL,
		time.Duration(cfg.RequestService.Timeout)*time.Second,
		log,
	)
	jobClient := jobServiceClient.NewClient(
		cfg.JobService.URL,
		time.Duration(cfg.JobService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ThreadService=%s, LeadService=%s, RequestService=%s, JobService=%s, NotifyService=%s)",
		cfg.ThreadService.URL, cfg.LeadService.URL, cfg.RequestService.URL, cfg.JobService.URL, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		proposalRepository    *proposalRepo.Repository
		quoteRepository       *quoteRepo.Repository
		appointmentRepository *appointmentRepo.Repository
		calendarRepository    *calendarRepo.Repository
		reminderRepository    *reminderRepo.Repository
		outboxRepository      *outboxRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		proposalRepository = proposalRepo.NewRepository(wrappedDB)
		quoteRepository = quoteRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		reminderRepository = reminderRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		proposalRepository = proposalRepo.NewRepository(db)
		quoteRepository = quoteRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		reminderRepository = reminderRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	calendarSvc := calendarService.NewService(
		calendarRepository,
		&calendarService.RealTimeProvider{},
		log,
	)
	remindersSvc := remindersService.NewService(
		reminderRepository,
		notifyClient,
		txMgr,
		&remindersService.RealTimeProvider{},
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		remindersSvc,
		jobClient,
		txMgr,
		&appointmentsService.RealTimeProvider{},
		log,
	)
	proposalsSvc := proposalsService.NewService(
		proposalRepository,
		quoteRepository,
		threadClient,
		txMgr,
		&proposalsService.RealTimeProvider{},
		log,
	)
	outboxSvc := outboxService.NewService(
		outboxRepository,
		notifyClient,
		txMgr,
		&outboxService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createProposalUseCase := createProposalUC.NewUseCase(
		proposalRepository,
		quoteRepository,
		outboxRepository,
		threadClient,
		leadClient,
		txMgr,
		log,
	)
	acceptProposalUseCase := acceptProposalUC.NewUseCase(
		proposalRepository,
		quoteRepository,
		outboxRepository,
		appointmentsSvc,
		calendarSvc,
		threadClient,
		requestClient,
		txMgr,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		remindersSvc,
		txMgr,
		log,
	)
	getOpenSlotsUseCase := getOpenSlotsUC.NewUseCase(
		appointmentRepository,
		calendarRepository,
		calendarSvc,
		log,
	)

	// Инициализируем handlers
	createProposal := createProposalHandler.NewHandler(createProposalUseCase, log)
	acceptProposal := acceptProposalHandler.NewHandler(acceptProposalUseCase, log)
	rejectProposal := rejectProposalHandler.NewHandler(proposalsSvc, log)
	cancelProposal := cancelProposalHandler.NewHandler(proposalsSvc, log)
	listProposals := listProposalsHandler.NewHandler(proposalsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	markNoShow := markNoShowHandler.NewHandler(appointmentsSvc, log)
	getCalendarSettings := getCalendarSettingsHandler.NewHandler(calendarSvc, log)
	updateCalendarSettings := updateCalendarSettingsHandler.NewHandler(calendarSvc, log)
	calendarOverrides := calendarOverridesHandler.NewHandler(calendarSvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(getOpenSlotsUseCase, log)
	exportCalendar := exportCalendarHandler.NewHandler(appointmentsSvc, log)
	dispatchReminders := dispatchRemindersHandler.NewHandler(remindersSvc, log)
	expireProposals := expireProposalsHandler.NewHandler(proposalsSvc, log)
	dispatchOutbox := dispatchOutboxHandler.NewHandler(outboxSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// ============================================================
	// INTERNAL ROUTES (вызываются периодическим джобом, без auth)
	// ============================================================

	internal := r.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/reminders/dispatch", dispatchReminders.Handle).Methods(http.MethodPost)
	internal.HandleFunc("/proposals/expire", expireProposals.Handle).Methods(http.MethodPost)
	internal.HandleFunc("/outbox/dispatch", dispatchOutbox.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Выгрузка календаря мастера в формате iCalendar
	api.HandleFunc("/professionals/{professionalId}/calendar.ics",
		exportCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Предложения ---
	protected.HandleFunc("/proposals", createProposal.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/proposals/{proposalId}/accept", acceptProposal.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/proposals/{proposalId}/reject", rejectProposal.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/proposals/{proposalId}/cancel", cancelProposal.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/threads/{threadId}/proposals", listProposals.HandleByThread).Methods(http.MethodGet)
	protected.HandleFunc("/professionals/{professionalId}/proposals", listProposals.HandleByProfessional).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/no-show", markNoShow.Handle).Methods(http.MethodPost)

	// --- Календарь мастера ---
	protected.HandleFunc("/calendar/{professionalId}", getCalendarSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/{professionalId}", updateCalendarSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/calendar/{professionalId}/overrides", calendarOverrides.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/calendar/{professionalId}/overrides", calendarOverrides.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/calendar/{professionalId}/overrides/{overrideId}", calendarOverrides.HandleDelete).Methods(http.MethodDelete)

	// --- Доступность ---
	protected.HandleFunc("/availability/{professionalId}/check", checkAvailability.Handle).Methods(http.MethodPost)

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
