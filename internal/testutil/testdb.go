package testutil

import (
	"kanban-task-api/internal/database"
	"kanban-task-api/internal/logging"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := database.Open(database.MemoryDSN, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, logging.Discard()); err != nil {
		return nil, err
	}
	return db, nil
}
