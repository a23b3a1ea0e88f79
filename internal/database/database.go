package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens the SQLite database at path. glebarez/sqlite is a pure Go
// driver, no CGO required.
func Open(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get sql handle: %w", err)
	}
	// Every connection to :memory: is a separate database, and SQLite
	// serialises writers anyway.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	if path == MemoryDSN || strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies the embedded migrations that have not run yet. Each file
// runs in its own transaction and is recorded in schema_version.
func Migrate(db *gorm.DB, logger *log.Logger) error {
	const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if err := db.Exec(createVersionTable).Error; err != nil {
		return fmt.Errorf("could not create schema_version table: %w", err)
	}

	files, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}
		version := strings.TrimSuffix(f.Name(), ".sql")

		var count int64
		if err := db.Table("schema_version").Where("version = ?", version).Count(&count).Error; err != nil {
			return fmt.Errorf("could not check migration status: %w", err)
		}
		if count > 0 {
			logger.Debug("skip migration", "version", version)
			continue
		}

		content, err := migrations.ReadFile("migrations/" + f.Name())
		if err != nil {
			return fmt.Errorf("could not read migration %s: %w", f.Name(), err)
		}

		logger.Info("applying migration", "version", version)
		err = db.Transaction(func(tx *gorm.DB) error {
			for _, stmt := range splitStatements(string(content)) {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("could not execute migration %s: %w", f.Name(), err)
				}
			}
			if err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version).Error; err != nil {
				return fmt.Errorf("could not record migration %s: %w", f.Name(), err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// splitStatements splits a migration script on semicolons. Migrations must
// not contain semicolons inside string literals or triggers.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
