package main

import (
	"log"

	"github.com/nexus/jobboard/internal/app"
	"github.com/nexus/jobboard/internal/config"
	"github.com/nexus/jobboard/internal/infrastructure/auth"
	"github.com/nexus/jobboard/internal/infrastructure/database"
)

// migrate creates the schema and seeds the default route policies, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := app.NewLogger(cfg)

	db, err := database.Open(cfg.DBDriver, cfg.DSN, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.WithError(err).Fatal("failed to get underlying sql.DB")
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("auto-migration failed")
	}

	cas, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load casbin policies")
	}
	if err := cas.SeedDefaultPolicies(); err != nil {
		logger.WithError(err).Fatal("failed to seed policies")
	}

	policies, _ := cas.E.GetPolicy()
	logger.WithField("policies", len(policies)).Info("migration complete")
}
