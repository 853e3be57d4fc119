package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-clinic-api/config"
	deliveryHttp "medical-clinic-api/internal/delivery/http"
	"medical-clinic-api/internal/delivery/http/handler"
	"medical-clinic-api/internal/delivery/http/middleware"
	"medical-clinic-api/internal/delivery/ws"
	"medical-clinic-api/internal/infrastructure/cache"
	"medical-clinic-api/internal/infrastructure/database"
	"medical-clinic-api/internal/infrastructure/mail"
	"medical-clinic-api/internal/repository"
	"medical-clinic-api/internal/service"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/jwt"
	"medical-clinic-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// slotSyncTimeout bounds the startup re-reservation of upcoming appointments,
// which walks every future appointment in batches.
const slotSyncTimeout = 2 * time.Minute

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger

	hub      *ws.Hub
	slots    *service.SlotReservationService
	notifier service.NotificationService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Migrations applied successfully")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	authUsecase := app.initializeServer(cfg, db, redisClient, log)

	if err := authUsecase.SeedAdmin(ctx, cfg.Admin); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	syncCtx, cancelSync := newSyncContext()
	defer cancelSync()

	if err := app.slots.SyncOnStartup(syncCtx); err != nil {
		log.Warnf("Failed to sync slot reservations: %+v", err)
	}

	return app, nil
}

// newSyncContext starts a fresh deadline for the slot sync. It must not share the
// connect context, whose budget is partly spent by the time the sync runs.
func newSyncContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), slotSyncTimeout)
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server.
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) usecase.AuthUsecase {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	availabilityRepo := repository.NewDoctorAvailabilityRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	alertRepo := repository.NewSystemAlertRepository()
	notificationRepo := repository.NewNotificationRepository()
	activityLogRepo := repository.NewActivityLogRepository()

	// Initialize services
	hub := ws.NewHub(log)
	go hub.Run()
	app.hub = hub

	var mailer service.Mailer
	if m := mail.NewMailer(cfg.SMTP); m != nil {
		mailer = m
	} else {
		log.Info("SMTP host not configured, e-mail notifications disabled")
	}

	tokenStore := service.NewTokenStore(redisClient, log)
	activity := service.NewActivityService(log, activityLogRepo)
	accountStatus := service.NewAccountStatusService(log, userRepo, tokenStore)
	notifier := service.NewNotificationService(log, notificationRepo, mailer, hub)
	slots := service.NewSlotReservationService(db, redisClient, log, appointmentRepo)
	app.notifier = notifier
	app.slots = slots

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, jwtService, tokenStore, activity, notifier, cfg.App.AutoApprovePatients)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorProfileRepo, patientProfileRepo, availabilityRepo, appointmentRepo, activity, cfg.App.Location)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorProfileRepo, availabilityRepo, activity)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, doctorProfileRepo, patientProfileRepo, availabilityRepo, appointmentRepo, slots, activity, notifier, cfg.Booking.MinLeadDays, cfg.App.Location)
	patientUsecase := usecase.NewPatientUsecase(db, log, userRepo, patientProfileRepo, doctorProfileRepo, availabilityRepo, activity)
	adminDoctorUsecase := usecase.NewAdminDoctorUsecase(db, log, userRepo, doctorProfileRepo, availabilityRepo, appointmentRepo, slots, accountStatus, activity, notifier)
	adminPatientUsecase := usecase.NewAdminPatientUsecase(db, log, userRepo, patientProfileRepo, appointmentRepo, slots, accountStatus, activity, notifier)
	specialtyUsecase := usecase.NewSpecialtyUsecase(db, log, specialtyRepo, activity)
	alertUsecase := usecase.NewSystemAlertUsecase(db, log, alertRepo, activity, hub)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, userRepo, notificationRepo, activity, notifier)
	activityLogUsecase := usecase.NewActivityLogUsecase(db, log, activityLogRepo)
	dashboardUsecase := usecase.NewAdminDashboardUsecase(db, log, doctorProfileRepo, patientProfileRepo, appointmentRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorUsecase, customValidator),
		Availability:   handler.NewAvailabilityHandler(availabilityUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase, customValidator),
		AdminDoctor:    handler.NewAdminDoctorHandler(adminDoctorUsecase, customValidator),
		AdminPatient:   handler.NewAdminPatientHandler(adminPatientUsecase, customValidator),
		Specialty:      handler.NewSpecialtyHandler(specialtyUsecase, customValidator),
		SystemAlert:    handler.NewSystemAlertHandler(alertUsecase, customValidator),
		Notification:   handler.NewNotificationHandler(notificationUsecase, customValidator),
		ActivityLog:    handler.NewActivityLogHandler(activityLogUsecase),
		AdminDashboard: handler.NewAdminDashboardHandler(dashboardUsecase),
		WebSocket:      hub,
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, loggingMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	app.Server = &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return authUsecase
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close stops background workers, then closes the database and Redis connections.
func (app *App) Close() {
	if app.slots != nil {
		app.slots.Stop()
	}
	if app.hub != nil {
		app.hub.Stop()
	}
	if app.notifier != nil {
		app.notifier.Wait()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
