// Package timeslot содержит чистую арифметику времени "HH:MM" в минутах от
// начала суток. Все интервалы полуоткрытые: [start, end).
package timeslot

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidFormat = errors.New("invalid time format, expected HH:MM")
	ErrInvalidRange  = errors.New("end time must be after start time")
)

var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ToMinutes переводит строку "HH:MM" в минуты от начала суток
func ToMinutes(t string) (int, error) {
	if !timePattern.MatchString(t) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, t)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(t, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, t)
	}

	return hour*60 + minute, nil
}

// ValidateRange проверяет что интервал не пуст и не перевёрнут
func ValidateRange(start, end string) error {
	startMin, err := ToMinutes(start)
	if err != nil {
		return err
	}

	endMin, err := ToMinutes(end)
	if err != nil {
		return err
	}

	if endMin <= startMin {
		return fmt.Errorf("%w: %s-%s", ErrInvalidRange, start, end)
	}

	return nil
}

// Contains проверяет что [innerStart, innerEnd) целиком лежит внутри
// [outerStart, outerEnd). Совпадающие границы считаются вхождением.
func Contains(outerStart, outerEnd, innerStart, innerEnd int) bool {
	return innerStart >= outerStart && innerEnd <= outerEnd
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Интервалы встык (a.end == b.start) не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

var dayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName возвращает английское название дня недели (0 = Sunday)
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return "Unknown"
	}
	return dayNames[dayOfWeek]
}
