package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2mOlaf/gamer-gambit/internal/models"

	moderncSqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

type Storage struct {
	DB *gorm.DB
}

// New opens the single-file database at path, creating the parent
// directory when needed.
func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := gorm.Open(moderncSqlite.New(moderncSqlite.Config{
		DSN:        path,
		DriverName: "sqlite",
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// one writer at a time keeps SQLITE_BUSY out of concurrent handlers
	sqlDB.SetMaxOpenConns(1)

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MigrateKallax creates the catalog-cache and profile tables.
func (s *Storage) MigrateKallax() error {
	const op = "storage.sqlite.MigrateKallax"

	if err := s.DB.AutoMigrate(
		&gameRow{},
		&models.UserProfile{},
		&models.ServerSettings{},
		&playRow{},
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// MigrateJarvfjallet creates the review-assignment tables.
func (s *Storage) MigrateJarvfjallet() error {
	const op = "storage.sqlite.MigrateJarvfjallet"

	if err := s.DB.AutoMigrate(
		&models.ItchGame{},
		&models.Assignment{},
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
