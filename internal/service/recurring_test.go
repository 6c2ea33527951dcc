package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/google/uuid"
)

func TestMonthlyDates(t *testing.T) {
	tests := []struct {
		name      string
		dayOfWeek int
		month     int
		year      int
		wantDays  []int
	}{
		{"mondays of february 2026", 1, 2, 2026, []int{2, 9, 16, 23}},
		{"sundays of february 2026", 0, 2, 2026, []int{1, 8, 15, 22}},
		{"five mondays in march 2026", 1, 3, 2026, []int{2, 9, 16, 23, 30}},
		{"mondays of september 2025", 1, 9, 2025, []int{1, 8, 15, 22, 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := monthlyDates(tt.dayOfWeek, tt.month, tt.year)
			if len(dates) != len(tt.wantDays) {
				t.Fatalf("got %d dates, want %d", len(dates), len(tt.wantDays))
			}
			for i, d := range dates {
				if d.Day() != tt.wantDays[i] {
					t.Errorf("dates[%d] = %d, want %d", i, d.Day(), tt.wantDays[i])
				}
				if int(d.Weekday()) != tt.dayOfWeek {
					t.Errorf("dates[%d] falls on %s", i, d.Weekday())
				}
				if d.Month() != time.Month(tt.month) || d.Year() != tt.year {
					t.Errorf("dates[%d] = %s, outside %d-%02d", i, d, tt.year, tt.month)
				}
			}
		})
	}
}

func TestCreateMonthly_HappyPath(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	student := f.addStudent()
	f.addAvailability(teacher.ID, 1, "09:00", "13:00")

	result, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID,
		StudentID: student.ID,
		DayOfWeek: 1,
		StartTime: "10:00",
		EndTime:   "11:00",
		Month:     2,
		Year:      2026,
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	if result.TotalDates != 4 {
		t.Errorf("total dates = %d, want 4", result.TotalDates)
	}
	if len(result.Successful) != 4 || len(result.Failed) != 0 {
		t.Fatalf("successful=%d failed=%d, want 4/0", len(result.Successful), len(result.Failed))
	}

	for _, b := range result.Successful {
		if b.Status != model.BookingStatusConfirmed || !b.Confirmed {
			t.Errorf("batch booking %s: status=%s confirmed=%v, want CONFIRMED/true", b.ID, b.Status, b.Confirmed)
		}
		if b.RecurringGroupID == nil || *b.RecurringGroupID != result.RecurringGroupID {
			t.Errorf("batch booking %s not linked to group", b.ID)
		}
	}

	group, _ := f.recurring.GetByID(context.Background(), result.RecurringGroupID)
	if group == nil {
		t.Fatal("recurring group not persisted")
	}
	if group.Month != 2 || group.Year != 2026 || group.DayOfWeek != 1 {
		t.Errorf("group = %d-%02d dow=%d", group.Year, group.Month, group.DayOfWeek)
	}
}

func TestCreateMonthly_InvalidParams(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	student := f.addStudent()
	f.addAvailability(teacher.ID, 1, "09:00", "13:00")

	base := MonthlyParams{
		TeacherID: teacher.ID, StudentID: student.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Month: 2, Year: 2026,
	}

	bad := base
	bad.Month = 13
	if _, err := f.svc.CreateMonthly(context.Background(), bad); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("month 13: want ErrInvalidMonth, got %v", err)
	}

	bad = base
	bad.Month = 0
	if _, err := f.svc.CreateMonthly(context.Background(), bad); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("month 0: want ErrInvalidMonth, got %v", err)
	}

	bad = base
	bad.DayOfWeek = 7
	if _, err := f.svc.CreateMonthly(context.Background(), bad); !errors.Is(err, ErrInvalidDayOfWeek) {
		t.Errorf("day 7: want ErrInvalidDayOfWeek, got %v", err)
	}

	bad = base
	bad.DayOfWeek = 3 // среда — окон нет
	var notAvail *TeacherNotAvailableError
	if _, err := f.svc.CreateMonthly(context.Background(), bad); !errors.As(err, &notAvail) {
		t.Errorf("no windows: want TeacherNotAvailableError, got %v", err)
	}
}

func TestCreateMonthly_PartialFailure(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	s1 := f.addStudent()
	s2 := f.addStudent()
	f.addAvailability(teacher.ID, 1, "09:00", "13:00")

	// Занимаем 9 февраля 2026 другим учеником
	taken := date(2026, time.February, 9)
	if _, err := f.svc.AdminAssign(context.Background(), CreateBookingParams{
		TeacherID: teacher.ID, StudentID: s1.ID, Date: taken, StartTime: "10:30", EndTime: "11:30",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	result, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID, StudentID: s2.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Month: 2, Year: 2026,
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	if len(result.Successful) != 3 {
		t.Errorf("successful = %d, want 3", len(result.Successful))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(result.Failed))
	}
	if !result.Failed[0].Date.Equal(taken) {
		t.Errorf("failed date = %s, want %s", result.Failed[0].Date, taken)
	}
	if result.Failed[0].Reason == "" {
		t.Error("failed date has no reason")
	}

	// Группа существует несмотря на частичный провал
	if group, _ := f.recurring.GetByID(context.Background(), result.RecurringGroupID); group == nil {
		t.Error("recurring group not persisted on partial failure")
	}
}

func TestCreateMonthly_AllDatesFail(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	s1 := f.addStudent()
	s2 := f.addStudent()
	f.addAvailability(teacher.ID, 1, "09:00", "13:00")

	// Первый ученик забирает все понедельники февраля
	if _, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID, StudentID: s1.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Month: 2, Year: 2026,
	}); err != nil {
		t.Fatalf("seed month: %v", err)
	}

	result, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID, StudentID: s2.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Month: 2, Year: 2026,
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	if len(result.Successful) != 0 || len(result.Failed) != 4 {
		t.Errorf("successful=%d failed=%d, want 0/4", len(result.Successful), len(result.Failed))
	}
	if result.RecurringGroupID == uuid.Nil {
		t.Error("group must be created even when every date fails")
	}
}

func TestRenewMonthly(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	student := f.addStudent()
	f.addAvailability(teacher.ID, 1, "09:00", "13:00")

	first, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID, StudentID: student.ID,
		DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00", Month: 2, Year: 2026,
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	renewed, err := f.svc.RenewMonthly(context.Background(), first.RecurringGroupID)
	if err != nil {
		t.Fatalf("RenewMonthly: %v", err)
	}

	if renewed.RecurringGroupID == first.RecurringGroupID {
		t.Error("renewal must create a new group")
	}
	group, _ := f.recurring.GetByID(context.Background(), renewed.RecurringGroupID)
	if group.Month != 3 || group.Year != 2026 {
		t.Errorf("renewed into %d-%02d, want 2026-03", group.Year, group.Month)
	}
	// В марте 2026 пять понедельников
	if len(renewed.Successful) != 5 {
		t.Errorf("successful = %d, want 5", len(renewed.Successful))
	}

	if _, err := f.svc.RenewMonthly(context.Background(), uuid.New()); !IsNotFound(err) {
		t.Errorf("unknown group: want NotFoundError, got %v", err)
	}
}

func TestRenewMonthly_DecemberRollsOver(t *testing.T) {
	f := newFixture()
	teacher := f.addTeacher(1)
	student := f.addStudent()
	f.addAvailability(teacher.ID, 2, "09:00", "13:00")

	first, err := f.svc.CreateMonthly(context.Background(), MonthlyParams{
		TeacherID: teacher.ID, StudentID: student.ID,
		DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00", Month: 12, Year: 2025,
	})
	if err != nil {
		t.Fatalf("CreateMonthly: %v", err)
	}

	renewed, err := f.svc.RenewMonthly(context.Background(), first.RecurringGroupID)
	if err != nil {
		t.Fatalf("RenewMonthly: %v", err)
	}

	group, _ := f.recurring.GetByID(context.Background(), renewed.RecurringGroupID)
	if group.Month != 1 || group.Year != 2026 {
		t.Errorf("renewed into %d-%02d, want 2026-01", group.Year, group.Month)
	}
}
