package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// Transaction runs fn against a repository bound to one write transaction.
// With the immediate-txlock DSN the database lock is taken at BEGIN, so the
// read-check-write sequence inside fn is serialized against other writers.
func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Service catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetServiceByID(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *BookingGormRepository) ListActiveServices(
	ctx context.Context,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBookingForUser(
	ctx context.Context,
	id uint,
	userID int64,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) FindBooking(
	ctx context.Context,
	date, timeStr string,
	userID int64,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("date = ? AND time = ? AND user_id = ?", date, timeStr, userID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsAt(
	ctx context.Context,
	date, timeStr string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("date = ? AND time = ?", date, timeStr).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) (bool, error) {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateBookingSlot moves a booking to a new (date, time) in place. The id,
// creation timestamp, service and duration are untouched.
func (r *BookingGormRepository) UpdateBookingSlot(
	ctx context.Context,
	id uint,
	newDate, newTime string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"date": newDate, "time": newTime}).Error
}

func (r *BookingGormRepository) CountFutureBookings(
	ctx context.Context,
	userID int64,
	fromDate string,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("user_id = ? AND date >= ?", userID, fromDate).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingGormRepository) ListUserBookings(
	ctx context.Context,
	userID int64,
	fromDate string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, fromDate).
		Order("date ASC, time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListDayBookings(
	ctx context.Context,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsPage(
	ctx context.Context,
	offset, limit int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Order("date ASC, time ASC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CountBookings(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *BookingGormRepository) DeleteBookingsBefore(
	ctx context.Context,
	date string,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("date < ?", date).
		Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

func (r *BookingGormRepository) CreateBlock(
	ctx context.Context,
	bl *models.BlockedSlot,
) error {
	return r.db.WithContext(ctx).Create(bl).Error
}

func (r *BookingGormRepository) DeleteBlock(
	ctx context.Context,
	date, timeStr string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("date = ? AND time = ?", date, timeStr).
		Delete(&models.BlockedSlot{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingGormRepository) ListDayBlocks(
	ctx context.Context,
	date string,
) ([]models.BlockedSlot, error) {

	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *BookingGormRepository) ListBlocks(ctx context.Context) ([]models.BlockedSlot, error) {
	var blocks []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Order("date ASC, time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// --------------------------------------------------
// Calendar display
// --------------------------------------------------

// CountOccupiedByDate counts bookings plus blocks per day over a date
// range. Feeds the coarse day coloring only; never used for the
// authoritative availability decision.
func (r *BookingGormRepository) CountOccupiedByDate(
	ctx context.Context,
	firstDate, lastDate string,
) (map[string]int, error) {

	type row struct {
		Date  string
		Total int
	}

	var rows []row
	err := r.db.WithContext(ctx).Raw(
		`SELECT date, SUM(cnt) AS total FROM (
			SELECT date, COUNT(*) AS cnt FROM bookings
			WHERE date >= ? AND date <= ? GROUP BY date
			UNION ALL
			SELECT date, COUNT(*) AS cnt FROM blocked_slots
			WHERE date >= ? AND date <= ? GROUP BY date
		) GROUP BY date`,
		firstDate, lastDate, firstDate, lastDate,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.Total
	}
	return counts, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
