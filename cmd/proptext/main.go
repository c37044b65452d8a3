package main

import (
	"context"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doorstep-labs/proptext/internal/doorloop"
	"github.com/doorstep-labs/proptext/internal/quo"
	"github.com/doorstep-labs/proptext/internal/responder"
	"github.com/doorstep-labs/proptext/internal/server"
	"github.com/doorstep-labs/proptext/internal/storage"
	"github.com/doorstep-labs/proptext/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var configPath string

	root := &cobra.Command{
		Use:   "proptext",
		Short: "Property-management messaging assistant",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the webhook and dashboard API server",
			Run: func(cmd *cobra.Command, args []string) {
				runServe(logger, configPath)
			},
		},
		&cobra.Command{
			Use:   "sync",
			Short: "Pull properties, units, leases, tasks, and people from DoorLoop",
			Run: func(cmd *cobra.Command, args []string) {
				runSync(logger, configPath)
			},
		},
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadDependencies(logger *zap.Logger, configPath string) (*config.Config, storage.Storage) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", configPath))
	}

	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}

	return cfg, store
}

func runServe(logger *zap.Logger, configPath string) {
	cfg, store := loadDependencies(logger, configPath)
	defer store.Close()

	quoClient := quo.NewClient(cfg.Quo.BaseURL, cfg.Quo.APIKey, cfg.Quo.PhoneNumberID, logger)

	completionConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		completionConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	completions := openai.NewClientWithConfig(completionConfig)

	resp := responder.New(store, quoClient, completions, responder.Options{
		Model:        cfg.OpenAI.Model,
		MaxTokens:    cfg.OpenAI.MaxTokens,
		Temperature:  cfg.OpenAI.Temperature,
		HistoryLimit: cfg.Responder.HistoryLimit,
		ListingCap:   cfg.Responder.ListingCap,
	}, logger)

	doorloopClient := doorloop.NewClient(cfg.DoorLoop.BaseURL, cfg.DoorLoop.APIKey, logger)
	syncer := doorloop.NewSyncer(doorloopClient, store, logger)

	srv := server.New(store, resp, quoClient, syncer, logger)
	if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func runSync(logger *zap.Logger, configPath string) {
	cfg, store := loadDependencies(logger, configPath)
	defer store.Close()

	doorloopClient := doorloop.NewClient(cfg.DoorLoop.BaseURL, cfg.DoorLoop.APIKey, logger)
	syncer := doorloop.NewSyncer(doorloopClient, store, logger)

	counts, err := syncer.SyncAll(context.Background())
	if err != nil {
		logger.Fatal("Sync failed", zap.Error(err))
	}

	logger.Info("Sync finished",
		zap.Int("properties", counts.Properties),
		zap.Int("units", counts.Units),
		zap.Int("leases", counts.Leases),
		zap.Int("tasks", counts.Tasks),
		zap.Int("tenants", counts.Tenants),
		zap.Int("owners", counts.Owners),
		zap.Int("vendors", counts.Vendors))
}
