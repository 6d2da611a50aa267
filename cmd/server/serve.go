package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/talent-shortlist/internal/config"
	"github.com/fadilmartias/talent-shortlist/internal/domain/fiber/handler"
	"github.com/fadilmartias/talent-shortlist/internal/logger"
	"github.com/fadilmartias/talent-shortlist/internal/repository"
	"github.com/fadilmartias/talent-shortlist/internal/service"
	"github.com/fadilmartias/talent-shortlist/internal/shortlist"
	"github.com/fadilmartias/talent-shortlist/internal/usecase"
	"github.com/fadilmartias/talent-shortlist/internal/validation"
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run database migrations before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create extensions and tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := connectDB(log)
			if err != nil {
				return err
			}
			if err := migrate(db); err != nil {
				return err
			}
			log.Info("migration completed")
			return nil
		},
	}
}

func newLogger() (*zap.Logger, error) {
	appConfig := config.LoadAppConfig()
	return logger.New(appConfig.LogJSON || appConfig.IsProduction(), appConfig.Debug)
}

func serve(ctx context.Context, autoMigrate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	appConfig := config.LoadAppConfig()

	db, err := connectDB(log)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := migrate(db); err != nil {
			return err
		}
	}

	matchRepo := repository.NewMatchRepository(db)
	jobRepo := repository.NewJobRepository(db)

	matcher, err := service.NewMatchService(config.LoadEngineConfig(), log)
	if err != nil {
		return err
	}

	var embedder service.EmbeddingServiceInterface
	if geminiConfig := config.LoadGeminiConfig(); geminiConfig.APIKey != "" {
		gemini, err := service.NewGeminiService(ctx, geminiConfig, log)
		if err != nil {
			return err
		}
		embedder = gemini
	} else {
		log.Warn("GEMINI_API_KEY not set, job embeddings disabled")
	}

	var outbox service.OutboxServiceInterface
	if redisConfig := config.LoadRedisConfig(); redisConfig.Enabled() {
		rdb, err := service.NewRedisClient(ctx, redisConfig.URL)
		if err != nil {
			return err
		}
		defer func(rdb *redis.Client) {
			if err := rdb.Close(); err != nil {
				log.Warn("failed to close redis client", zap.Error(err))
			}
		}(rdb)
		outbox = service.NewOutboxService(rdb, redisConfig, log)
	} else {
		log.Warn("REDIS_URL not set, shortlist sharing disabled")
	}

	sessionConfig := config.LoadSessionConfig()
	sessions := shortlist.NewStore()
	sweeper := shortlist.NewSweeper(sessions, sessionConfig.SweepSpec, sessionConfig.IdleTTL, log)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	validate := validation.New()
	app := newFiberApp(appConfig, handler.Handlers{
		Search:   handler.NewSearchHandler(usecase.NewSearchUsecase(matcher, matchRepo, jobRepo, sessions, log), validate, log),
		Cart:     handler.NewCartHandler(usecase.NewShortlistUsecase(sessions, matchRepo, outbox, log), validate),
		Jobs:     handler.NewJobHandler(usecase.NewJobUsecase(jobRepo, embedder, log), validate),
		Activity: handler.NewActivityHandler(usecase.NewActivityUsecase(jobRepo, matchRepo, log)),
	})

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Debug("runtime stats",
					zap.Int("goroutines", runtime.NumGoroutine()),
					zap.Int("sessions", sessions.Len()),
				)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("port", appConfig.Port), zap.String("env", appConfig.Env))
		errCh <- app.Listen(appConfig.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
