package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitpoint/gym-app/internal/api"
	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/config"
	"fitpoint/gym-app/internal/events"
	"fitpoint/gym-app/internal/notification"
	"fitpoint/gym-app/internal/repository/mongo"
	"fitpoint/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Info().Msg("starting gym app server")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

	// The unique constraints installed here are required for booking
	// correctness, so index failures are fatal rather than logged.
	ctxIdx, cancelIdx := context.WithTimeout(context.Background(), time.Minute)
	if err := ensureIndexes(ctxIdx, appDB); err != nil {
		cancelIdx()
		log.Fatal().Err(err).Msg("index creation failed")
	}
	cancelIdx()
	log.Info().Msg("database indexes ensured")

	// Repositories
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	trainerRepo := mongo.NewMongoTrainerRepository(appDB)
	apptRepo := mongo.NewMongoAppointmentRepository(appDB)
	packageRepo := mongo.NewMongoPackageRepository(appDB)
	serviceTypeRepo := mongo.NewMongoServiceTypeRepository(appDB)
	purchaseRepo := mongo.NewMongoPurchaseHistoryRepository(appDB)
	reportRepo := mongo.NewMongoReportRepository(appDB)

	// Realtime event hub
	hub := events.NewHub(log)
	go hub.Run()
	defer hub.Close()

	// Push notifications
	var notifier notification.Notifier
	if cfg.Firebase.ProjectID != "" {
		notifier, err = notification.NewFCMNotifier(context.Background(), cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize FCM")
		}
	} else {
		log.Warn().Msg("firebase not configured, push notifications disabled")
		notifier = notification.NewNoopNotifier()
	}

	clk := clock.System()

	// Services
	authService := service.NewAuthService(userRepo, clientRepo, trainerRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	membershipService := service.NewMembershipService(clientRepo, packageRepo, purchaseRepo, userRepo, apptRepo, clk, hub, notifier, log)
	appointmentService := service.NewAppointmentService(apptRepo, clientRepo, trainerRepo, serviceTypeRepo, userRepo, membershipService, clk, hub, notifier, log)
	scheduleService := service.NewScheduleService(trainerRepo, apptRepo, clk)
	catalogService := service.NewCatalogService(packageRepo, serviceTypeRepo)
	clientService := service.NewClientService(clientRepo)
	trainerService := service.NewTrainerService(trainerRepo)
	reportService := service.NewReportService(reportRepo, apptRepo, trainerRepo, appointmentService)

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret, api.Handlers{
		Auth:        api.NewAuthHandler(authService),
		Appointment: api.NewAppointmentHandler(appointmentService),
		Client:      api.NewClientHandler(clientService),
		Trainer:     api.NewTrainerHandler(trainerService, scheduleService),
		Membership:  api.NewMembershipHandler(membershipService, catalogService),
		Payment:     api.NewPaymentHandler(cfg.Stripe, membershipService, catalogService, clientService, log),
		Report:      api.NewReportHandler(reportService),
		Events:      api.NewEventsHandler(hub, log),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func ensureIndexes(ctx context.Context, db *mongodriver.Database) error {
	ensures := []func() error{
		func() error { return mongo.EnsureUserIndexes(ctx, db.Collection("users")) },
		func() error { return mongo.EnsureClientIndexes(ctx, db.Collection("clients")) },
		func() error { return mongo.EnsureTrainerIndexes(ctx, db.Collection("trainers")) },
		func() error { return mongo.EnsureAppointmentIndexes(ctx, db.Collection("appointments")) },
		func() error { return mongo.EnsurePackageIndexes(ctx, db.Collection("membership_packages")) },
		func() error { return mongo.EnsureReportIndexes(ctx, db.Collection("reports")) },
	}
	for _, ensure := range ensures {
		if err := ensure(); err != nil {
			return err
		}
	}
	return nil
}
