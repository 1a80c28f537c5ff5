package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	JWTSecret  string

	// Storage
	DatabasePath string

	// Redis (job queue + rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Telegram delivery
	BotToken        string
	ServiceLocation string

	// Booking rules
	MaxBookingsPerUser int
	CancellationHours  int
	WorkHoursStart     int
	WorkHoursEnd       int

	// Reminder lead times, hours before the appointment
	ReminderHours24 int
	ReminderHours2  int
	ReminderHours1  int

	// Feedback request, hours after the appointment end
	FeedbackHoursAfter int

	// Database retry policy
	DBMaxRetries   int
	DBRetryDelay   time.Duration
	DBRetryBackoff float64

	// Admin management
	AdminIDs                 []int64
	MaxAdminAdditionsPerHour int

	// Housekeeping
	HistoryRetentionDays int

	RestoreBatchSize int

	Timezone string
}

func Load() *Config {
	// Missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "changeme"),

		DatabasePath: getEnv("DATABASE_PATH", "bookings.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		BotToken:        getEnv("BOT_TOKEN", ""),
		ServiceLocation: getEnv("SERVICE_LOCATION", ""),

		MaxBookingsPerUser: getEnvInt("MAX_BOOKINGS_PER_USER", 3),
		CancellationHours:  getEnvInt("CANCELLATION_HOURS", 24),
		WorkHoursStart:     getEnvInt("WORK_HOURS_START", 9),
		WorkHoursEnd:       getEnvInt("WORK_HOURS_END", 18),

		ReminderHours24: getEnvInt("REMINDER_HOURS_BEFORE_24H", 24),
		ReminderHours2:  getEnvInt("REMINDER_HOURS_BEFORE_2H", 2),
		ReminderHours1:  getEnvInt("REMINDER_HOURS_BEFORE_1H", 1),

		FeedbackHoursAfter: getEnvInt("FEEDBACK_HOURS_AFTER", 2),

		DBMaxRetries:   getEnvInt("DB_MAX_RETRIES", 3),
		DBRetryDelay:   time.Duration(getEnvFloat("DB_RETRY_DELAY", 0.5) * float64(time.Second)),
		DBRetryBackoff: getEnvFloat("DB_RETRY_BACKOFF", 2.0),

		AdminIDs:                 getEnvIDs("ADMIN_IDS"),
		MaxAdminAdditionsPerHour: getEnvInt("MAX_ADMIN_ADDITIONS_PER_HOUR", 3),

		HistoryRetentionDays: getEnvInt("HISTORY_RETENTION_DAYS", 365),

		RestoreBatchSize: getEnvInt("RESTORE_BATCH_SIZE", 50),

		Timezone: getEnv("TIMEZONE", "Europe/Moscow"),
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvIDs(key string) []int64 {
	var ids []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
