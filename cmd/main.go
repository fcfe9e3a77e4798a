package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/CatDevelop/exchange-tochka/config"
	"github.com/CatDevelop/exchange-tochka/internal/app"
	"github.com/CatDevelop/exchange-tochka/internal/constants"
	"github.com/CatDevelop/exchange-tochka/internal/db"
	"github.com/CatDevelop/exchange-tochka/internal/db/migrations"
	"github.com/CatDevelop/exchange-tochka/internal/logger"
)

func main() {
	// .env is optional; the container passes real environment variables
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	if esURL := os.Getenv(constants.EnvElasticsearchURL); esURL != "" {
		hook, err := logger.NewElasticHook(esURL)
		if err != nil {
			logger.Warnf("Elasticsearch logging disabled: %v", err)
		} else {
			if err := hook.SetupIndexTemplate(context.Background()); err != nil {
				logger.Warnf("failed to setup log index template: %v", err)
			}
			logger.AddHook(hook)
			defer hook.Close()
		}
	}

	sslEnabled := config.GetEnv(constants.EnvDBSSLMode, "disable") != "disable"
	database, err := db.New(db.Options{
		Host:       config.GetEnv(constants.EnvDBHost, db.DefaultHost),
		Port:       config.GetEnvInt(constants.EnvDBPort, db.DefaultPort),
		User:       config.GetEnv(constants.EnvDBUser, db.DefaultUser),
		Password:   config.GetEnv(constants.EnvDBPassword, db.DefaultPassword),
		DBName:     config.GetEnv(constants.EnvDBName, db.DefaultDBName),
		SSLEnabled: &sslEnabled,
	})
	if err != nil {
		logger.Fatalf("failed to open database: %v", err)
	}

	fiberApp := app.New(database)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// The listener starts before the migration loop; the API serves while
	// migrations retry against a database that may still be coming up.
	addr := ":" + config.GetEnv(constants.EnvServerPort, "8080")
	g.Go(func() error {
		logger.Infof("listening on %s", addr)
		return fiberApp.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		return fiberApp.Shutdown()
	})

	g.Go(func() error {
		if err := migrations.Run(ctx, migrations.ConfigFromEnv()); err != nil {
			return err
		}
		if err := db.SetupAdminUser(database); err != nil {
			logger.Warnf("failed to setup admin user: %v", err)
		}
		return nil
	})

	// Both the server and the migration loop must finish before exit; a
	// failed migration budget surfaces as a non-zero exit status.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("exchange terminated: %v", err)
	}
	logger.Info("exchange stopped")
}
