package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/models"
)

func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// migrate keeps the schema in sync with the models. Unique indexes, the
// score check and the on-delete rules declared in the model tags end up as
// real Postgres constraints, so the database stays the final arbiter
// against concurrent writers.
func migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Title{}, "Genres", &models.TitleGenre{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.TitleGenre{},
		&models.Review{},
		&models.Comment{},
	)
}
