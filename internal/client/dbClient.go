package client

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"berrypay/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDBClient opens the database named by databaseURL and migrates the schema.
// SQL errors and slow queries are reported through log; missing rows are not.
//
//	postgres://... or postgresql://...  -> postgres
//	sqlite:<path> or file:<path>        -> sqlite
//	anything else                       -> mysql DSN
func InitDBClient(databaseURL string, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger: logger.NewSlogLogger(log.With("component", "db"), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  logger.Warn,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Session{},
		&model.Product{},
		&model.Checkout{},
		&model.Settings{},
		&model.Sale{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func dialectorFor(databaseURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:"))
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL)
	default:
		return mysql.Open(databaseURL)
	}
}
