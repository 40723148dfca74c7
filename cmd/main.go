package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/saeidalz13/gridstrike-backend/api"
	"github.com/saeidalz13/gridstrike-backend/db"
)

func newLogger(stage string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if stage == api.StageProd {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	if os.Getenv("STAGE") != api.StageProd {
		if err := godotenv.Load(".env"); err != nil {
			panic(err)
		}
	}
	stage := os.Getenv("STAGE")
	if stage != api.StageDev && stage != api.StageProd {
		panic("stage must be either dev or prod")
	}

	logger := newLogger(stage)
	defer logger.Sync()

	port := os.Getenv("PORT")
	if port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			logger.Fatal("invalid port", zap.String("port", port), zap.Error(err))
		}
	}

	var strictPlacement bool
	if v := os.Getenv("STRICT_PLACEMENT"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			logger.Fatal("invalid STRICT_PLACEMENT", zap.String("value", v), zap.Error(err))
		}
		strictPlacement = parsed
	}

	opts := []api.Option{
		api.WithPort(port),
		api.WithStage(stage),
		api.WithLogger(logger),
		api.WithStrictPlacement(strictPlacement),
	}

	if v := os.Getenv("SESSION_CLEANUP_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			logger.Fatal("invalid SESSION_CLEANUP_INTERVAL", zap.String("value", v), zap.Error(err))
		}
		opts = append(opts, api.WithSessionCleanupInterval(interval))
	}

	// Without a database matches live in memory only
	if psqlUrl := os.Getenv("DATABASE_URL"); psqlUrl != "" {
		sqlDb := db.MustConnectToDb(psqlUrl, db.DefaultMigrationDir, logger)
		defer sqlDb.Close()
		opts = append(opts, api.WithDb(sqlDb))
	}

	server := api.NewServer(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
