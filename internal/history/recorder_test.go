package history

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

func newTestRecorder(t *testing.T) (*Recorder, *gorm.DB, *time.Time) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:history_test?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := gdb.AutoMigrate(&models.BookingHistory{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	rec := NewRecorder(gdb, zap.NewNop(), func() time.Time { return now })
	return rec, gdb, &now
}

func TestRecorder_LifecycleEntries(t *testing.T) {
	rec, gdb, _ := newTestRecorder(t)
	ctx := context.Background()

	if err := rec.RecordCreate(ctx, 1, 100, "2026-03-20", "10:00", 5); err != nil {
		t.Fatalf("RecordCreate: %v", err)
	}
	if err := rec.RecordReschedule(ctx, 1, 100, models.ActorUser,
		"2026-03-20", "10:00", "2026-03-21", "14:00", 5); err != nil {
		t.Fatalf("RecordReschedule: %v", err)
	}
	if err := rec.RecordCancel(ctx, 1, 999, models.ActorAdmin,
		"2026-03-21", "14:00", 5, "Cancelled by admin"); err != nil {
		t.Fatalf("RecordCancel: %v", err)
	}

	entries, err := rec.ListByBooking(ctx, 1)
	if err != nil {
		t.Fatalf("ListByBooking: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	if entries[0].Action != models.HistoryActionCreate ||
		entries[1].Action != models.HistoryActionReschedule ||
		entries[2].Action != models.HistoryActionCancel {
		t.Fatalf("unexpected order: %s %s %s",
			entries[0].Action, entries[1].Action, entries[2].Action)
	}

	move := entries[1]
	if move.OldDate != "2026-03-20" || move.NewDate != "2026-03-21" {
		t.Fatalf("reschedule snapshot wrong: old=%s new=%s", move.OldDate, move.NewDate)
	}
	if move.OldServiceID == nil || move.NewServiceID == nil || *move.OldServiceID != *move.NewServiceID {
		t.Fatal("reschedule must keep the same service in old and new")
	}

	final := entries[2]
	if final.ChangedByType != models.ActorAdmin || final.Reason != "Cancelled by admin" {
		t.Fatalf("cancel attribution wrong: %+v", final)
	}

	// Rows are append-only: a cancel adds one entry, nothing is rewritten.
	var count int64
	gdb.Model(&models.BookingHistory{}).Count(&count)
	if count != 3 {
		t.Fatalf("total rows = %d, want 3", count)
	}
}

func TestRecorder_CleanupBefore(t *testing.T) {
	rec, gdb, now := newTestRecorder(t)
	ctx := context.Background()

	old := models.BookingHistory{
		BookingID: 1, Action: models.HistoryActionCreate,
		ChangedBy: 100, ChangedByType: models.ActorUser,
		ChangedAt: now.AddDate(-1, 0, -1),
	}
	fresh := models.BookingHistory{
		BookingID: 2, Action: models.HistoryActionCreate,
		ChangedBy: 100, ChangedByType: models.ActorUser,
		ChangedAt: *now,
	}
	if err := gdb.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := gdb.Create(&fresh).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	deleted, err := rec.CleanupBefore(ctx, now.AddDate(-1, 0, 0))
	if err != nil {
		t.Fatalf("CleanupBefore: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted = %d, want 1", deleted)
	}

	var left []models.BookingHistory
	gdb.Find(&left)
	if len(left) != 1 || left[0].BookingID != 2 {
		t.Fatalf("surviving rows wrong: %+v", left)
	}
}
