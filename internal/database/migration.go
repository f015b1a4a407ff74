package database

import (
	"fmt"
	"path/filepath"
	"strings"

	"assetledger/internal/database/migration"

	"go.uber.org/zap"
)

func RunMigrations(dbURL, migrationsDir string, logger *zap.Logger) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	migrationsURL, err := SourceURL(migrationsDir)
	if err != nil {
		return err
	}

	return migration.Migrate(dbURL, migrationsURL, true, logger)
}

func RollbackMigrations(dbURL, migrationsDir string, steps int, logger *zap.Logger) error {
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	migrationsURL, err := SourceURL(migrationsDir)
	if err != nil {
		return err
	}

	return migration.Rollback(dbURL, migrationsURL, steps, logger)
}

// SourceURL turns a directory into a file:// source url for golang-migrate.
func SourceURL(dir string) (string, error) {
	if strings.HasPrefix(dir, "file://") {
		return dir, nil
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return "file://" + filepath.ToSlash(absPath), nil
}
