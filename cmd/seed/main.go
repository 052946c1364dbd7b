package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"gatewaysandbox/internal/auth"
	"gatewaysandbox/internal/config"
	"gatewaysandbox/internal/db"
	"gatewaysandbox/internal/logs"
	"gatewaysandbox/internal/repository"
	"gatewaysandbox/internal/service"
)

func main() {
	cfg, err := config.LoadSeed()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logs.New(logs.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info("Starting seed script...")

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeder := service.NewAdminSeeder(repository.NewUserRepository(gormDB), auth.NewPasswordHasher(auth.DefaultBcryptCost))
	created, err := seeder.Seed(ctx, service.AdminInput{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	})
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	entry := log.WithField("email", cfg.Admin.Email)
	if created {
		entry.Info("Admin user created")
	} else {
		entry.Info("Existing admin user updated")
	}
}
