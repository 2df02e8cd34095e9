package db

import (
	"fmt"
	"log/slog"
	"os"

	"Gin_postgres_library_api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds a Postgres DSN from DB_* variables when DATABASE_URL is not set.
func DSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

func ConnectDB(dsn string, log *slog.Logger) (*gorm.DB, error) {
	conn, err := Open(postgres.Open(dsn), log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("database connected")
	return conn, nil
}

// Open wraps gorm.Open with the settings every connection in this service uses.
func Open(dialector gorm.Dialector, log *slog.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Book{}, &models.Patron{}, &models.BorrowingRecord{}); err != nil {
		return err
	}

	// one outstanding loan per (book, patron)
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_pair
	  ON %s (book_id, patron_id)
	  WHERE return_date IS NULL;
	`, models.BorrowingRecordTable, models.BorrowingRecordTable)).Error; err != nil {
		return err
	}

	return nil
}
