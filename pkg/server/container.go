package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"table-ops-api/internal/config"
	"table-ops-api/internal/dispatcher"
	"table-ops-api/internal/tableservice"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Dispatcher *dispatcher.Dispatcher

	tables tableservice.Resolver
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	factory := tableservice.NewFactory(logger)
	tables, err := factory.Create(context.Background(), &tableservice.BackendConfig{
		Type:         cfg.Storage.Type,
		Region:       cfg.Storage.Region,
		Endpoint:     cfg.Storage.Endpoint,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		SQLitePath:   cfg.Storage.SQLitePath,
		KeyAttrs:     []string{cfg.Storage.KeyAttribute},
		RunMigration: cfg.Storage.AutoMigrate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create table service: %w", err)
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Dispatcher: dispatcher.New(tables, logger),
		tables:     tables,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if closer, ok := c.tables.(tableservice.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close table service: %w", err)
		}
	}
	return nil
}
