package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/config"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// NewDB opens the embedded store. _txlock=immediate makes every write
// transaction take the database lock up front (the check-then-write
// sequences rely on this), WAL keeps readers from blocking behind the
// single writer, and TranslateError lets a commit-time UNIQUE violation
// surface as gorm.ErrDuplicatedKey.
func NewDB(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"file:%s?_txlock=immediate&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on",
		cfg.DatabasePath,
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	// Single-writer store: one connection serializes all access and keeps
	// SQLITE_BUSY out of the common path.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Service{},
		&models.Booking{},
		&models.BlockedSlot{},
		&models.BookingHistory{},
		&models.Admin{},
		&models.Feedback{},
		&models.EventLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}
