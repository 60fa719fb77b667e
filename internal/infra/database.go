package infra

import (
	"fmt"

	"fertilabel/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the four collections, then applies the idempotent index patches GORM
// cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(15)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables and applies schema patches.
// Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.QueueItem{},
		&model.GenerationRecord{},
		&model.Product{},
		&model.Operator{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that AutoMigrate cannot
// handle on its own. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// recent-window listing: ORDER BY timestamp DESC LIMIT n
		`CREATE INDEX IF NOT EXISTS idx_generation_history_recent
		    ON generation_history ("timestamp" DESC)`,
		// rows written before the term fields existed carry version 1
		`UPDATE generation_history SET schema_version = 1
		    WHERE schema_version IS NULL OR schema_version = 0`,
		// case-insensitive catalog search by name / code
		`CREATE INDEX IF NOT EXISTS idx_products_upper_name
		    ON products (UPPER(name))`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
