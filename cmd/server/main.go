package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"gatewaysandbox/internal/auth"
	"gatewaysandbox/internal/cache"
	"gatewaysandbox/internal/config"
	"gatewaysandbox/internal/db"
	"gatewaysandbox/internal/handler"
	"gatewaysandbox/internal/logs"
	"gatewaysandbox/internal/metrics"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/repository"
	"gatewaysandbox/internal/router"
	"gatewaysandbox/internal/sandbox"
	"gatewaysandbox/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	log := logs.New(logs.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.WithFields(logrus.Fields{"env": cfg.App.Env, "driver": cfg.DB.Driver}).Info("starting server")

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN, log)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.DB.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			log.Fatalf("auto-migrate: %v", err)
		}
	}

	cacheClient := cache.New(cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer cacheClient.Close()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)
	if sqlDB, err := gormDB.DB(); err == nil {
		if err := m.RegisterDB(sqlDB, cfg.DB.Driver); err != nil {
			log.WithError(err).Warn("db stats collector not registered")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	businessRepo := repository.NewListingRepository(gormDB, model.KindBusiness)
	productRepo := repository.NewListingRepository(gormDB, model.KindProduct)

	// Initialize auth components
	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokens)
	userService := service.NewUserService(userRepo)
	businessService := service.NewListingService(model.KindBusiness, businessRepo)
	productService := service.NewListingService(model.KindProduct, productRepo)

	// Initialize sandbox gateways
	sandboxHandler := handler.NewSandboxHandler(
		sandbox.NewANM(),
		sandbox.NewExpressPay(sandbox.NewCardValidator()),
		sandbox.NewNalo(),
		sandbox.NewWigal(sandbox.NewRedisOTPStore(cacheClient), cfg.Sandbox.OTPTTL),
	)

	e := router.New(router.Dependencies{
		Config:        cfg,
		Log:           log,
		Metrics:       m,
		Authenticator: auth.NewAuthenticator(tokens, userRepo),
		Auth:          handler.NewAuthHandler(authService),
		Users:         handler.NewUserHandler(userService),
		Business:      handler.NewListingHandler(businessService),
		Product:       handler.NewListingHandler(productService),
		Sandbox:       sandboxHandler,
		Health: handler.NewHealthHandler(log, map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error { return db.Ping(ctx, gormDB) }),
			"redis":    cacheClient,
		}),
	})

	go func() {
		addr := ":" + cfg.Server.Port
		log.Infof("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
