package service

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"github.com/google/uuid"
)

// checkSlotConflict применяет проверки конфликтов к кандидатному интервалу.
// Порядок фиксирован, первая нарушенная проверка останавливает остальные:
//  1. ученик не может держать два пересекающихся занятия, у какого бы учителя
//     они ни были (studentBookings — его занятия у всех учителей на эту дату);
//  2. число пересекающихся занятий учителя не должно достигать maxCapacity.
//
// Вместимость считается по числу пересечений, а не по точному совпадению
// интервалов: два частично пересекающихся занятия оба занимают место.
// excludeID исключает само бронирование при переносе.
func checkSlotConflict(
	teacherBookings, studentBookings []*model.Booking,
	startMin, endMin int,
	maxCapacity int,
	excludeID uuid.UUID,
) error {
	for _, booking := range studentBookings {
		if booking.ID == excludeID || booking.Status == model.BookingStatusCancelled {
			continue
		}
		overlap, err := bookingOverlaps(booking, startMin, endMin)
		if err != nil {
			return err
		}
		if overlap {
			return ErrStudentDoubleBooked
		}
	}

	overlapping := 0
	for _, booking := range teacherBookings {
		if booking.ID == excludeID || booking.Status == model.BookingStatusCancelled {
			continue
		}
		overlap, err := bookingOverlaps(booking, startMin, endMin)
		if err != nil {
			return err
		}
		if overlap {
			overlapping++
		}
	}

	if overlapping >= maxCapacity {
		return &CapacityExceededError{Overlapping: overlapping, MaxCapacity: maxCapacity}
	}

	return nil
}

func bookingOverlaps(booking *model.Booking, startMin, endMin int) (bool, error) {
	bookingStart, err := timeslot.ToMinutes(booking.StartTime)
	if err != nil {
		return false, fmt.Errorf("stored booking start time: %w", err)
	}
	bookingEnd, err := timeslot.ToMinutes(booking.EndTime)
	if err != nil {
		return false, fmt.Errorf("stored booking end time: %w", err)
	}
	return timeslot.Overlaps(startMin, endMin, bookingStart, bookingEnd), nil
}

// partitionByDate раскладывает предзагруженный набор бронирований по датам,
// чтобы пакетная проверка не ходила в хранилище на каждую дату
func partitionByDate(bookings []*model.Booking) map[string][]*model.Booking {
	byDate := make(map[string][]*model.Booking)
	for _, booking := range bookings {
		key := booking.Date.Format("2006-01-02")
		byDate[key] = append(byDate[key], booking)
	}
	return byDate
}
