package booking

import (
	"context"
	"testing"
	"time"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

func TestCancelBooking_Success(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	uc := env.newCancelUC(24)

	date := futureDate(7)
	b := env.seedBooking(t, date, "10:00", 100, svc)

	id, err := uc.Execute(context.Background(), date, "10:00", 100, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if id != b.ID {
		t.Fatalf("cancelled id = %d, want %d", id, b.ID)
	}

	var count int64
	env.db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Fatalf("booking rows = %d, want 0", count)
	}

	if len(env.scheduler.cancelled) != 1 || env.scheduler.cancelled[0] != b.ID {
		t.Fatalf("scheduler cancels = %v", env.scheduler.cancelled)
	}
	if len(env.history.entries) != 1 ||
		env.history.entries[0].action != models.HistoryActionCancel ||
		env.history.entries[0].actorType != models.ActorUser {
		t.Fatalf("history entries = %v", env.history.entries)
	}
}

func TestCancelBooking_AdminActor(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	uc := env.newCancelUC(24)

	date := futureDate(7)
	env.seedBooking(t, date, "10:00", 100, svc)

	adminID := int64(999)
	if _, err := uc.Execute(context.Background(), date, "10:00", 100, &adminID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if env.history.entries[0].actorType != models.ActorAdmin {
		t.Fatalf("actor type = %q, want admin", env.history.entries[0].actorType)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedService(t, 60)
	uc := env.newCancelUC(24)

	_, err := uc.Execute(context.Background(), futureDate(7), "10:00", 100, nil)
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCancelBooking_WrongUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	uc := env.newCancelUC(24)

	date := futureDate(7)
	env.seedBooking(t, date, "10:00", 100, svc)

	_, err := uc.Execute(context.Background(), date, "10:00", 200, nil)
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for another user's booking, got %v", err)
	}
}

func TestCanCancelWindow(t *testing.T) {
	env := newTestEnv(t)
	uc := env.newCancelUC(24)

	ok, hoursLeft, err := uc.CanCancel(futureDate(7), "10:00")
	if err != nil {
		t.Fatalf("CanCancel: %v", err)
	}
	if !ok {
		t.Fatalf("expected cancellable, %f hours left", hoursLeft)
	}

	if _, _, err := uc.CanCancel("not-a-date", "10:00"); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCanCancelWindow_TooClose(t *testing.T) {
	env := newTestEnv(t)
	uc := env.newCancelUC(24)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	// Two hours out: refused, and the remaining hours are reported so the
	// caller can tell the user exactly how close the appointment is.
	ok, hoursLeft, err := uc.CanCancel("2026-03-15", "14:00")
	if err != nil {
		t.Fatalf("CanCancel: %v", err)
	}
	if ok {
		t.Fatal("expected refusal inside the window")
	}
	if hoursLeft < 1.99 || hoursLeft > 2.01 {
		t.Fatalf("hoursLeft = %f, want 2", hoursLeft)
	}

	// A past appointment reports negative hours, still refused.
	ok, hoursLeft, err = uc.CanCancel("2026-03-15", "10:00")
	if err != nil {
		t.Fatalf("CanCancel: %v", err)
	}
	if ok || hoursLeft >= 0 {
		t.Fatalf("past appointment: ok=%v hoursLeft=%f", ok, hoursLeft)
	}
}
