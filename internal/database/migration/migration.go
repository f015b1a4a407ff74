package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres DB and SQL
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register postgres File
)

// Migrate applies every pending up migration.
func Migrate(dbURL string, migrationsPath string, verbose bool, log *zap.Logger) error {
	return run(dbURL, migrationsPath, verbose, log, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// Rollback reverts the last steps migrations.
func Rollback(dbURL string, migrationsPath string, steps int, log *zap.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}

	return run(dbURL, migrationsPath, true, log, func(m *migrate.Migrate) error {
		return m.Steps(-steps)
	})
}

func run(dbURL, migrationsPath string, verbose bool, log *zap.Logger, apply func(*migrate.Migrate) error) error {
	log.Info("Running database migration", zap.String("source", migrationsPath))

	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()
	m.Log = NewLogger(log, verbose)

	if err := apply(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database migration: no change needed")
			return nil
		}
		log.Error("Database migration failed", zap.Error(err))
		return err
	}

	if version, dirty, err := m.Version(); err == nil {
		log.Info("Database migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	}

	return nil
}

// Logger adapts zap to migrate.Logger.
type Logger struct {
	logger  *zap.Logger
	verbose bool
}

func (l *Logger) Printf(format string, v ...any) {
	l.logger.Sugar().Infof("DB Migration: "+format, v...)
}

func (l *Logger) Verbose() bool {
	return l.verbose
}

func NewLogger(logger *zap.Logger, verbose bool) *Logger {
	return &Logger{
		logger:  logger,
		verbose: verbose,
	}
}
