package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/zen-task-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the dashboard and filter queries
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Task{}, "tasks", "idx_tasks_user_due_date", "user_id, due_date"},
		{&models.Task{}, "tasks", "idx_tasks_user_quadrant", "user_id, quadrant"},
		{&models.Task{}, "tasks", "idx_tasks_user_status", "user_id, status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().
			Str("index", idx.name).
			Str("table", idx.table).
			Str("columns", idx.columns).
			Msg("created index")
	}

	return nil
}

// MigrateDatabase runs the schema migration and then adds indexes
func MigrateDatabase(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	if err := Migrate(db); err != nil {
		return err
	}
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
