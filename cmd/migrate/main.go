package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pageza/coffeeshop/backend/config"
	"github.com/pageza/coffeeshop/backend/internal/database"
	"github.com/pageza/coffeeshop/backend/internal/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config-path", "", "optional TOML configuration file")
	reset := flag.Bool("reset", false, "drop the drinks table and insert the seed drink")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	if err := run(cfg, log, *reset || cfg.DBReset); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Info("Migration completed")
}

// run migrates the configured database and closes it before returning, so
// a failure can exit non-zero without skipping cleanup.
func run(cfg *config.Config, log *logrus.Logger, reset bool) error {
	db, err := database.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)

	if reset {
		return database.Reset(db, log)
	}
	return database.RunMigrations(db, log)
}
