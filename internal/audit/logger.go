package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(userID int64, event, data string) error {
	entry := models.EventLog{
		UserID:    userID,
		Event:     event,
		Data:      data,
		CreatedAt: time.Now(),
	}

	return l.db.Create(&entry).Error
}
