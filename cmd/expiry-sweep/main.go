// Standalone daily job: deactivate memberships past their end date.
// Scheduled externally (cron/systemd timer), once per day in business
// time.
package main

import (
	"context"
	"os"
	"time"

	"fitpoint/gym-app/internal/clock"
	"fitpoint/gym-app/internal/config"
	"fitpoint/gym-app/internal/events"
	"fitpoint/gym-app/internal/jobs"
	"fitpoint/gym-app/internal/notification"
	"fitpoint/gym-app/internal/repository/mongo"
	"fitpoint/gym-app/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("job", "expiry-sweep").Logger()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		_ = mongo.DisconnectDB(dbClient)
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	clientRepo := mongo.NewMongoClientRepository(appDB)
	packageRepo := mongo.NewMongoPackageRepository(appDB)
	purchaseRepo := mongo.NewMongoPurchaseHistoryRepository(appDB)
	userRepo := mongo.NewMongoUserRepository(appDB)
	apptRepo := mongo.NewMongoAppointmentRepository(appDB)

	// No server process here, so events and pushes have nowhere to go.
	hub := events.NewHub(log)
	memberships := service.NewMembershipService(
		clientRepo, packageRepo, purchaseRepo, userRepo, apptRepo,
		clock.System(), hub, notification.NewNoopNotifier(), log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := jobs.ExpirySweep(ctx, memberships, log); err != nil {
		os.Exit(1)
	}
}
