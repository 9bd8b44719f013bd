package main

import (
	"MediIntake/cache"
	"MediIntake/config"
	"MediIntake/database"
	"MediIntake/events"
	"MediIntake/llm"
	"MediIntake/logger"
	"MediIntake/metrics"
	"MediIntake/repositories"
	"MediIntake/routes"
	"MediIntake/utils"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "mediintake",
		Short:         "Patient intake, assessment and prescription backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (defaults to ./.env when present)")

	root.AddCommand(newServeCommand(), newDoctorCommand(), newBackupCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds what every command needs: configuration, a logger and the
// opened record store.
type app struct {
	cfg     *config.AppConfig
	logger  zerolog.Logger
	store   *database.RecordStore
	metrics *metrics.Metrics
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDev(),
	})
	if cfg.UsingDevSecret {
		log.Warn().Msg("TOKEN_SECRET is not set; using the development secret. Do not use this configuration in production.")
	}

	m := metrics.New()
	store, err := database.Open(cfg.DataDir, database.WithWriteHook(m.StoreWrite))
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	if err := store.EnsureCollections(repositories.Collections...); err != nil {
		return nil, fmt.Errorf("failed to initialize collections: %w", err)
	}
	log.Info().Str("data_dir", store.Dir()).Msg("record store ready")

	return &app{cfg: cfg, logger: log, store: store, metrics: m}, nil
}

// dependencies builds the optional collaborators. Anything that is not
// configured, or fails to start, is replaced by its no-op form.
func (a *app) dependencies(ctx context.Context) (routes.Dependencies, error) {
	tokens, err := utils.NewTokenManager(a.cfg.TokenFormat, a.cfg.TokenSecret, a.cfg.TokenTTL)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("failed to create token manager: %w", err)
	}

	historyCache := cache.NewNopCache()
	if a.cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, database.DefaultRedisConfig(a.cfg.RedisURL), a.logger)
		if err != nil {
			a.logger.Error().Err(err).Msg("redis unavailable, history cache disabled")
		} else if historyCache, err = cache.NewRedisCache(client); err != nil {
			return routes.Dependencies{}, err
		}
	}

	var generator llm.TextGenerator
	if a.cfg.BedrockEnabled {
		bedrock, err := llm.NewBedrockGenerator(ctx, llm.BedrockConfig{
			Region:  a.cfg.AWSRegion,
			ModelID: a.cfg.BedrockModelID,
		})
		if err != nil {
			a.logger.Error().Err(err).Msg("bedrock unavailable, prescriptions will use the symptom table")
		} else {
			generator = bedrock
			a.logger.Info().Str("model_id", bedrock.Name()).Msg("bedrock prescription generation enabled")
		}
	}

	return routes.Dependencies{
		Config:    a.cfg,
		Store:     a.store,
		Cache:     historyCache,
		Tokens:    tokens,
		Generator: generator,
		Publisher: events.NewPublisher(a.cfg.KafkaBrokers, a.cfg.KafkaTopic),
		Mailer: utils.NewMailer(utils.SMTPConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			User:     a.cfg.SMTPUser,
			Password: a.cfg.SMTPPassword,
			From:     a.cfg.SMTPFrom,
		}),
		Metrics: a.metrics,
		Logger:  a.logger,
	}, nil
}
