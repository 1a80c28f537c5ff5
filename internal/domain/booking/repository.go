package booking

import (
	"context"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// Repository is the storage contract the booking use cases run against.
// Transaction rebinds the repository to an exclusive write transaction;
// every check-then-write sequence goes through it.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Service catalog (read-only collaborator) --------
	GetServiceByID(ctx context.Context, id uint) (*models.Service, error)
	ListActiveServices(ctx context.Context) ([]models.Service, error)

	// -------- Booking --------
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBookingForUser(ctx context.Context, id uint, userID int64) (*models.Booking, error)
	FindBooking(ctx context.Context, date, timeStr string, userID int64) (*models.Booking, error)
	ListBookingsAt(ctx context.Context, date, timeStr string) ([]models.Booking, error)
	DeleteBooking(ctx context.Context, id uint) (bool, error)
	UpdateBookingSlot(ctx context.Context, id uint, newDate, newTime string) error

	CountFutureBookings(ctx context.Context, userID int64, fromDate string) (int64, error)
	ListUserBookings(ctx context.Context, userID int64, fromDate string) ([]models.Booking, error)
	ListDayBookings(ctx context.Context, date string) ([]models.Booking, error)
	ListBookingsPage(ctx context.Context, offset, limit int) ([]models.Booking, error)
	CountBookings(ctx context.Context) (int64, error)
	DeleteBookingsBefore(ctx context.Context, date string) (int64, error)

	// -------- Blocked slots --------
	CreateBlock(ctx context.Context, bl *models.BlockedSlot) error
	DeleteBlock(ctx context.Context, date, timeStr string) (bool, error)
	ListDayBlocks(ctx context.Context, date string) ([]models.BlockedSlot, error)
	ListBlocks(ctx context.Context) ([]models.BlockedSlot, error)

	// -------- Calendar display --------
	CountOccupiedByDate(ctx context.Context, firstDate, lastDate string) (map[string]int, error)
}
