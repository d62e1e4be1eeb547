package database

import (
	"fmt"

	"github.com/pageza/coffeeshop/backend/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDrink is the drink inserted by Reset.
var SeedDrink = model.Drink{
	Title:  "water",
	Recipe: model.Recipe{{Name: "water", Color: "blue", Parts: 1}},
}

// RunMigrations creates or updates the schema.
func RunMigrations(db *gorm.DB, log *logrus.Logger) error {
	log.WithField("dialect", db.Dialector.Name()).Info("Running auto-migration")
	if err := db.AutoMigrate(&model.Drink{}); err != nil {
		return fmt.Errorf("failed to migrate drinks: %w", err)
	}
	return nil
}

// Reset drops every drink, recreates the schema and inserts SeedDrink.
func Reset(db *gorm.DB, log *logrus.Logger) error {
	log.Warn("Dropping and recreating the drinks table")
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(&model.Drink{}); err != nil {
			return fmt.Errorf("failed to drop drinks: %w", err)
		}
		if err := tx.AutoMigrate(&model.Drink{}); err != nil {
			return fmt.Errorf("failed to migrate drinks: %w", err)
		}
		seed := SeedDrink
		if err := tx.Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to seed drinks: %w", err)
		}
		return nil
	})
}
