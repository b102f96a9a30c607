package main

import (
	"log"

	"table-ops-api/internal/config"
	"table-ops-api/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	logger := logrus.New()
	if err := database.RunMigrations(db, logger); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.WithField("path", cfg.Storage.SQLitePath).Info("migrations complete")
}
