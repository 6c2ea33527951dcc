package service

import (
	"errors"
	"testing"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"github.com/google/uuid"
)

func activeBooking(start, end string) *model.Booking {
	return &model.Booking{
		ID:        uuid.New(),
		StartTime: start,
		EndTime:   end,
		Status:    model.BookingStatusPending,
	}
}

func TestCheckSlotConflict_Capacity(t *testing.T) {
	tests := []struct {
		name        string
		existing    []*model.Booking
		start, end  string
		maxCapacity int
		wantErr     bool
	}{
		{
			name:        "empty day",
			start:       "10:00",
			end:         "11:00",
			maxCapacity: 1,
			wantErr:     false,
		},
		{
			name:        "overlap at capacity 1",
			existing:    []*model.Booking{activeBooking("10:00", "11:00")},
			start:       "10:30",
			end:         "11:30",
			maxCapacity: 1,
			wantErr:     true,
		},
		{
			name:        "overlap below capacity 2",
			existing:    []*model.Booking{activeBooking("10:00", "11:00")},
			start:       "10:30",
			end:         "11:30",
			maxCapacity: 2,
			wantErr:     false,
		},
		{
			name: "two overlaps at capacity 2",
			existing: []*model.Booking{
				activeBooking("10:00", "11:00"),
				activeBooking("10:15", "11:15"),
			},
			start:       "10:30",
			end:         "11:30",
			maxCapacity: 2,
			wantErr:     true,
		},
		{
			name:        "back to back is not overlap",
			existing:    []*model.Booking{activeBooking("10:00", "11:00")},
			start:       "11:00",
			end:         "12:00",
			maxCapacity: 1,
			wantErr:     false,
		},
		{
			name: "cancelled booking frees the slot",
			existing: []*model.Booking{
				{ID: uuid.New(), StartTime: "10:00", EndTime: "11:00", Status: model.BookingStatusCancelled},
			},
			start:       "10:00",
			end:         "11:00",
			maxCapacity: 1,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			startMin := mustMinutes(t, tt.start)
			endMin := mustMinutes(t, tt.end)

			err := checkSlotConflict(tt.existing, nil, startMin, endMin, tt.maxCapacity, uuid.Nil)
			if tt.wantErr {
				var capErr *CapacityExceededError
				if !errors.As(err, &capErr) {
					t.Fatalf("want CapacityExceededError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckSlotConflict_StudentDoubleBooking(t *testing.T) {
	// Пересечение с занятием ученика у другого учителя блокирует бронь
	// даже при свободном учителе.
	studentBookings := []*model.Booking{activeBooking("10:00", "11:00")}

	err := checkSlotConflict(nil, studentBookings, mustMinutes(t, "10:30"), mustMinutes(t, "11:30"), 5, uuid.Nil)
	if !errors.Is(err, ErrStudentDoubleBooked) {
		t.Fatalf("want ErrStudentDoubleBooked, got %v", err)
	}

	// Занятия встык у ученика допустимы
	err = checkSlotConflict(nil, studentBookings, mustMinutes(t, "11:00"), mustMinutes(t, "12:00"), 5, uuid.Nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckSlotConflict_ExcludesSelf(t *testing.T) {
	self := activeBooking("10:00", "11:00")

	err := checkSlotConflict([]*model.Booking{self}, []*model.Booking{self}, mustMinutes(t, "10:00"), mustMinutes(t, "11:00"), 1, self.ID)
	if err != nil {
		t.Fatalf("booking must not conflict with itself: %v", err)
	}
}

func mustMinutes(t *testing.T, v string) int {
	t.Helper()
	min, err := timeslot.ToMinutes(v)
	if err != nil {
		t.Fatalf("parse %q: %v", v, err)
	}
	return min
}
