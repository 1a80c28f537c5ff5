package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/db"
	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/booking"
	infraRepo "github.com/balzampsilo-sys/tg-bot-10-02/internal/infra/repository"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// ======================================================
// FAKES
// ======================================================

type fakeScheduler struct {
	scheduled []uint
	cancelled []uint
}

func (f *fakeScheduler) Schedule(_ context.Context, b *models.Booking) error {
	f.scheduled = append(f.scheduled, b.ID)
	return nil
}

func (f *fakeScheduler) Cancel(_ context.Context, bookingID uint) error {
	f.cancelled = append(f.cancelled, bookingID)
	return nil
}

type historyEntry struct {
	action    string
	bookingID uint
	actorType string
}

type fakeHistory struct {
	entries []historyEntry
}

func (f *fakeHistory) RecordCreate(_ context.Context, bookingID uint, _ int64, _, _ string, _ uint) error {
	f.entries = append(f.entries, historyEntry{action: models.HistoryActionCreate, bookingID: bookingID, actorType: models.ActorUser})
	return nil
}

func (f *fakeHistory) RecordCancel(_ context.Context, bookingID uint, _ int64, actorType, _, _ string, _ uint, _ string) error {
	f.entries = append(f.entries, historyEntry{action: models.HistoryActionCancel, bookingID: bookingID, actorType: actorType})
	return nil
}

func (f *fakeHistory) RecordReschedule(_ context.Context, bookingID uint, _ int64, actorType, _, _, _, _ string, _ uint) error {
	f.entries = append(f.entries, historyEntry{action: models.HistoryActionReschedule, bookingID: bookingID, actorType: actorType})
	return nil
}

// occupancyBlindRepo hides the day's bookings from the availability
// pre-check while delegating writes to the real store. It stands in for a
// second writer that committed between our read and our write, leaving
// the unique(date,time) index as the only defense.
type occupancyBlindRepo struct {
	domain.Repository
}

func (r *occupancyBlindRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&occupancyBlindRepo{Repository: tx})
	})
}

func (r *occupancyBlindRepo) ListDayBookings(_ context.Context, _ string) ([]models.Booking, error) {
	return nil, nil
}

// ======================================================
// TEST ENVIRONMENT
// ======================================================

type testEnv struct {
	db        *gorm.DB
	repo      domain.Repository
	scheduler *fakeScheduler
	history   *fakeHistory
	audit     *audit.Dispatcher
	logger    *zap.Logger
	workHours domain.WorkHours
	retry     db.RetryPolicy
	loc       *time.Location
}

var testDBSeq int

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:usecase_test_%d?mode=memory&cache=shared&_foreign_keys=on", testDBSeq)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := gdb.AutoMigrate(
		&models.Service{},
		&models.Booking{},
		&models.BlockedSlot{},
		&models.EventLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := zap.NewNop()
	return &testEnv{
		db:        gdb,
		repo:      infraRepo.NewBookingGormRepository(gdb),
		scheduler: &fakeScheduler{},
		history:   &fakeHistory{},
		audit:     audit.NewDispatcher(audit.New(gdb), logger),
		logger:    logger,
		workHours: domain.NewWorkHours(9, 18),
		retry:     db.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, Multiplier: 2},
		loc:       time.UTC,
	}
}

func (e *testEnv) seedService(t *testing.T, durationMinutes int) *models.Service {
	t.Helper()
	svc := &models.Service{
		Name:            "Consultation",
		DurationMinutes: durationMinutes,
		IsActive:        true,
	}
	if err := e.db.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc
}

func (e *testEnv) seedBooking(t *testing.T, date, timeStr string, userID int64, svc *models.Service) *models.Booking {
	t.Helper()
	b := &models.Booking{
		Date:            date,
		Time:            timeStr,
		UserID:          userID,
		Username:        "user",
		ServiceID:       svc.ID,
		DurationMinutes: svc.DurationMinutes,
		CreatedAt:       time.Now(),
	}
	if err := e.db.Create(b).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func (e *testEnv) newCreateUC(maxBookings int) *CreateBooking {
	return NewCreateBooking(e.repo, e.scheduler, e.history, e.audit, e.logger,
		e.workHours, maxBookings, e.retry, e.loc)
}

func (e *testEnv) newCancelUC(windowHours int) *CancelBooking {
	return NewCancelBooking(e.repo, e.scheduler, e.history, e.audit, e.logger,
		windowHours, e.retry, e.loc)
}

func (e *testEnv) newRescheduleUC() *RescheduleBooking {
	return NewRescheduleBooking(e.repo, e.scheduler, e.history, e.audit, e.logger,
		e.workHours, e.retry, e.loc)
}

func (e *testEnv) newBlockUC() *BlockSlot {
	return NewBlockSlot(e.repo, e.scheduler, e.history, e.audit, e.logger, e.retry, e.loc)
}

// futureDate is far enough out that limit counting and reminder logic see
// it as upcoming.
func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(domain.DateLayout)
}
