package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/config"
	"github.com/yukikurage/zen-task-api/internal/database"
	"github.com/yukikurage/zen-task-api/internal/logger"
	"github.com/yukikurage/zen-task-api/internal/repository"
	"github.com/yukikurage/zen-task-api/internal/services"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "zen-task-api",
	Short: "Eisenhower matrix task management API",
	Long: `A REST API for personal task management on the Eisenhower matrix.

Tasks are classified into DO_NOW, SCHEDULE, DELEGATE and ELIMINATE by
their urgency and importance. Configuration is read from the environment
and from a .env file when present.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// app holds what every command needs
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	db    *gorm.DB
	auth  *services.AuthService
	tasks *services.TaskService
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	hasher := auth.NewPasswordHasher(cfg.Bcrypt.Cost)
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})

	var suggester services.TaskSuggester
	if cfg.OpenAI.APIKey != "" {
		suggester = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, task suggestions disabled")
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		auth:  services.NewAuthService(repository.NewUserRepository(db), hasher, tokens, log),
		tasks: services.NewTaskService(repository.NewTaskRepository(db), suggester, log),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		a.log.Error().Err(err).Msg("failed to close database")
	}
}
