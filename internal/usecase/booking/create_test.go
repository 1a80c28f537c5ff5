package booking

import (
	"context"
	"testing"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

func TestCreateBooking_Success(t *testing.T) {
	env := newTestEnv(t)
	env.seedService(t, 60)
	uc := env.newCreateUC(3)

	b, err := uc.Execute(context.Background(), CreateInput{
		Date:     futureDate(7),
		Time:     "10:00",
		UserID:   100,
		Username: "alice",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected persisted booking id")
	}
	if b.DurationMinutes != 60 {
		t.Fatalf("duration = %d, want 60", b.DurationMinutes)
	}

	if len(env.scheduler.scheduled) != 1 || env.scheduler.scheduled[0] != b.ID {
		t.Fatalf("scheduler calls = %v, want [%d]", env.scheduler.scheduled, b.ID)
	}
	if len(env.history.entries) != 1 || env.history.entries[0].action != models.HistoryActionCreate {
		t.Fatalf("history entries = %v", env.history.entries)
	}
}

func TestCreateBooking_NoServices(t *testing.T) {
	env := newTestEnv(t)
	uc := env.newCreateUC(3)

	_, err := uc.Execute(context.Background(), CreateInput{
		Date: futureDate(7), Time: "10:00", UserID: 100,
	})
	if !httperr.IsBusiness(err, httperr.CodeNoServices) {
		t.Fatalf("expected NO_SERVICES, got %v", err)
	}
}

func TestCreateBooking_InactiveService(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	env.db.Model(svc).Update("is_active", false)
	uc := env.newCreateUC(3)

	_, err := uc.Execute(context.Background(), CreateInput{
		Date: futureDate(7), Time: "10:00", UserID: 100, ServiceID: &svc.ID,
	})
	if !httperr.IsBusiness(err, httperr.CodeServiceUnavailable) {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
}

func TestCreateBooking_LimitExceeded(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	uc := env.newCreateUC(2)

	env.seedBooking(t, futureDate(3), "10:00", 100, svc)
	env.seedBooking(t, futureDate(4), "11:00", 100, svc)

	_, err := uc.Execute(context.Background(), CreateInput{
		Date: futureDate(7), Time: "12:00", UserID: 100,
	})
	if !httperr.IsBusiness(err, httperr.CodeLimitExceeded) {
		t.Fatalf("expected LIMIT_EXCEEDED, got %v", err)
	}
	if len(env.scheduler.scheduled) != 0 {
		t.Fatal("rejected booking must not schedule jobs")
	}
}

func TestCreateBooking_PartialOverlapRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)
	uc := env.newCreateUC(5)

	date := futureDate(7)
	env.seedBooking(t, date, "10:00", 200, svc)

	// 10:30 overlaps the 10:00-11:00 hold even though the exact strings
	// differ, so the interval check rejects it before the unique index ever
	// comes into play.
	_, err := uc.Execute(context.Background(), CreateInput{
		Date: date, Time: "10:30", UserID: 100,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected SLOT_TAKEN, got %v", err)
	}

	// 11:00 is adjacent, not overlapping.
	if _, err := uc.Execute(context.Background(), CreateInput{
		Date: date, Time: "11:00", UserID: 100,
	}); err != nil {
		t.Fatalf("adjacent slot rejected: %v", err)
	}
}

func TestCreateBooking_ExactDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedService(t, 60)
	uc := env.newCreateUC(5)

	date := futureDate(7)
	if _, err := uc.Execute(context.Background(), CreateInput{
		Date: date, Time: "10:00", UserID: 100,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := uc.Execute(context.Background(), CreateInput{
		Date: date, Time: "10:00", UserID: 200,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected SLOT_TAKEN, got %v", err)
	}
}

func TestCreateBooking_CommitTimeDuplicateMapsToSlotTaken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.seedService(t, 60)

	uc := NewCreateBooking(&occupancyBlindRepo{Repository: env.repo},
		env.scheduler, env.history, env.audit, env.logger,
		env.workHours, 5, env.retry, env.loc)

	date := futureDate(7)
	env.seedBooking(t, date, "10:00", 200, svc)

	// The pre-check sees an empty day, so the insert goes through to the
	// unique(date,time) index and fails at commit time.
	_, err := uc.Execute(context.Background(), CreateInput{
		Date: date, Time: "10:00", UserID: 100,
	})
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected SLOT_TAKEN from the unique index, got %v", err)
	}

	var count int64
	env.db.Model(&models.Booking{}).Count(&count)
	if count != 1 {
		t.Fatalf("booking rows = %d, want 1", count)
	}
	if len(env.scheduler.scheduled) != 0 {
		t.Fatal("losing writer must not schedule jobs")
	}
}

func TestCreateBooking_OutsideWorkingHours(t *testing.T) {
	env := newTestEnv(t)
	env.seedService(t, 60)
	uc := env.newCreateUC(5)

	for _, timeStr := range []string{"08:00", "17:30", "18:00"} {
		_, err := uc.Execute(context.Background(), CreateInput{
			Date: futureDate(7), Time: timeStr, UserID: 100,
		})
		if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
			t.Fatalf("time %s: expected SLOT_TAKEN, got %v", timeStr, err)
		}
	}
}

func TestCreateBooking_InvalidTime(t *testing.T) {
	env := newTestEnv(t)
	env.seedService(t, 60)
	uc := env.newCreateUC(5)

	_, err := uc.Execute(context.Background(), CreateInput{
		Date: futureDate(7), Time: "25:99", UserID: 100,
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
