package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
)

// Ошибки доменного уровня. Ошибки формата времени приходят из пакета timeslot
// (timeslot.ErrInvalidFormat, timeslot.ErrInvalidRange) и пробрасываются как есть.
var (
	ErrStudentDoubleBooked = errors.New("student already has an overlapping booking")
	ErrAlreadyConfirmed    = errors.New("booking is already confirmed")
	ErrNotConfirmed        = errors.New("booking is not confirmed")
	ErrForbidden           = errors.New("forbidden")
	ErrNoMatchingDates     = errors.New("no dates match the requested weekday in that month")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidDayOfWeek    = errors.New("day of week must be between 0 and 6")
	ErrInvalidCapacity     = errors.New("max capacity must be a positive integer")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email is already registered")
)

// NotFoundError — отсутствующая сущность по переданной ссылке
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NewNotFound создаёт NotFoundError для сущности
func NewNotFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

// IsNotFound проверяет является ли ошибка NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// TeacherNotAvailableError — у учителя нет ни одного окна в этот день недели
type TeacherNotAvailableError struct {
	DayOfWeek int
}

func (e *TeacherNotAvailableError) Error() string {
	return fmt.Sprintf("teacher is not available on %ss", timeslot.DayName(e.DayOfWeek))
}

// OutsideAvailabilityError — запрошенный интервал не попадает ни в одно окно.
// Windows перечисляет окна учителя в этот день, чтобы вызывающий мог
// скорректировать запрос.
type OutsideAvailabilityError struct {
	DayOfWeek int
	Windows   []string
}

func (e *OutsideAvailabilityError) Error() string {
	return fmt.Sprintf("booking time must be within teacher's available slots. Available: %s",
		strings.Join(e.Windows, ", "))
}

// CapacityExceededError — достигнут потолок одновременных бронирований учителя
type CapacityExceededError struct {
	Overlapping int
	MaxCapacity int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("teacher is fully booked for this time slot (%d/%d)", e.Overlapping, e.MaxCapacity)
}
