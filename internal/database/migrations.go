package database

import (
	"errors"
	"fmt"

	"github.com/example/standup-bot/internal/logging"
	"github.com/example/standup-bot/internal/models"
	"gorm.io/gorm"
)

// Migrations are forward-only and strictly ordered. Each step runs in its
// own transaction and the reached version is recorded in the same
// transaction, so a failed step leaves the schema at the previous version.
type migration struct {
	version int
	apply   func(tx *gorm.DB) error
}

var migrations = []migration{
	{version: 1, apply: migrateInitialSchema},
}

func migrateInitialSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(
		&models.Team{},
		&models.User{},
		&models.Question{},
		&models.StandupEntry{},
		&models.Schedule{},
	)
}

// MigrateDB brings the given database up to the latest schema version.
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to prepare schema version table: %w", err)
	}

	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	logging.L().WithField("version", current).Info("database schema version")

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return setSchemaVersion(tx, m.version)
		})
		if err != nil {
			return fmt.Errorf("migration to version %d failed: %w", m.version, err)
		}

		logging.L().WithField("version", m.version).Info("applied database migration")
	}

	return nil
}

func schemaVersion(db *gorm.DB) (int, error) {
	var record models.SchemaVersion
	err := db.First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return record.Version, nil
}

func setSchemaVersion(tx *gorm.DB, version int) error {
	var record models.SchemaVersion
	err := tx.First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.SchemaVersion{Version: version}).Error
		}
		return err
	}
	return tx.Model(&record).Update("version", version).Error
}
