package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	teacherRepo   TeacherStore
	studentRepo   StudentStore
	subjectRepo   SubjectStore
	bookingRepo   BookingStore
	recurringRepo RecurringGroupStore
	availability  *AvailabilityService
	locker        Locker
	notifier      Notifier
	logger        *zap.Logger
}

func NewBookingService(
	teacherRepo TeacherStore,
	studentRepo StudentStore,
	subjectRepo SubjectStore,
	bookingRepo BookingStore,
	recurringRepo RecurringGroupStore,
	availability *AvailabilityService,
	locker Locker,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		teacherRepo:   teacherRepo,
		studentRepo:   studentRepo,
		subjectRepo:   subjectRepo,
		bookingRepo:   bookingRepo,
		recurringRepo: recurringRepo,
		availability:  availability,
		locker:        locker,
		notifier:      notifier,
		logger:        logger,
	}
}

// CreateBookingParams — параметры одиночного бронирования
type CreateBookingParams struct {
	TeacherID uuid.UUID
	StudentID uuid.UUID
	SubjectID *uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
}

// Create создаёт бронирование в статусе PENDING, прогнав полный конвейер
// проверок: ссылки, формат времени, окна доступности, конфликты.
// Секция "проверка конфликтов + запись" выполняется под локом (учитель, дата).
func (s *BookingService) Create(ctx context.Context, params CreateBookingParams) (*model.Booking, error) {
	booking, err := s.createChecked(ctx, params, model.BookingStatusPending)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("teacher_id", booking.TeacherID.String()),
		zap.String("student_id", booking.StudentID.String()),
		zap.Time("date", booking.Date),
		zap.String("time", booking.StartTime+"-"+booking.EndTime),
	)

	s.notifier.BookingPending(ctx, booking)

	return booking, nil
}

// AdminAssign создаёт бронирование сразу в статусе CONFIRMED. Конвейер проверок
// тот же, пропускается только этап ожидания подтверждения.
func (s *BookingService) AdminAssign(ctx context.Context, params CreateBookingParams) (*model.Booking, error) {
	booking, err := s.createChecked(ctx, params, model.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking assigned by admin",
		zap.String("booking_id", booking.ID.String()),
		zap.String("teacher_id", booking.TeacherID.String()),
		zap.String("student_id", booking.StudentID.String()),
		zap.Time("date", booking.Date),
	)

	s.notifier.BookingConfirmed(ctx, booking)

	return booking, nil
}

func (s *BookingService) createChecked(ctx context.Context, params CreateBookingParams, status model.BookingStatus) (*model.Booking, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, params.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, NewNotFound("teacher")
	}

	student, err := s.studentRepo.GetByID(ctx, params.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, NewNotFound("student")
	}

	if params.SubjectID != nil {
		subject, err := s.subjectRepo.GetByID(ctx, *params.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("get subject: %w", err)
		}
		if subject == nil {
			return nil, NewNotFound("subject")
		}
	}

	if err := timeslot.ValidateRange(params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	date := normalizeDate(params.Date)
	dayOfWeek := int(date.Weekday())

	if err := s.availability.IsWithinAvailability(ctx, params.TeacherID, dayOfWeek, params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	startMin, _ := timeslot.ToMinutes(params.StartTime)
	endMin, _ := timeslot.ToMinutes(params.EndTime)

	booking := &model.Booking{
		TeacherID: params.TeacherID,
		StudentID: params.StudentID,
		SubjectID: params.SubjectID,
		Date:      date,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Status:    status,
		Confirmed: status == model.BookingStatusConfirmed,
	}

	err = s.locker.WithTeacherDayLock(ctx, params.TeacherID, date, func(ctx context.Context) error {
		if err := s.checkConflictsForDate(ctx, params.TeacherID, params.StudentID, date, startMin, endMin, teacher.MaxCapacity, uuid.Nil); err != nil {
			return err
		}
		return s.bookingRepo.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *BookingService) checkConflictsForDate(ctx context.Context, teacherID, studentID uuid.UUID, date time.Time, startMin, endMin, maxCapacity int, excludeID uuid.UUID) error {
	dates := []time.Time{date}

	teacherBookings, err := s.bookingRepo.GetActiveByTeacherAndDates(ctx, teacherID, dates)
	if err != nil {
		return fmt.Errorf("get teacher bookings: %w", err)
	}

	studentBookings, err := s.bookingRepo.GetActiveByStudentAndDates(ctx, studentID, dates)
	if err != nil {
		return fmt.Errorf("get student bookings: %w", err)
	}

	return checkSlotConflict(teacherBookings, studentBookings, startMin, endMin, maxCapacity, excludeID)
}

// Confirm подтверждает PENDING-бронирование
func (s *BookingService) Confirm(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFound("booking")
	}

	if booking.Confirmed {
		return nil, ErrAlreadyConfirmed
	}

	if err := s.bookingRepo.Confirm(ctx, id); err != nil {
		return nil, err
	}

	booking.Confirmed = true
	booking.Status = model.BookingStatusConfirmed

	s.logger.Info("Booking confirmed", zap.String("booking_id", id.String()))

	s.notifier.BookingConfirmed(ctx, booking)

	return booking, nil
}

// UpdateBookingParams — частичное обновление: перенос на другого учителя,
// другую дату или другое время
type UpdateBookingParams struct {
	TeacherID *uuid.UUID
	Date      *time.Time
	StartTime *string
	EndTime   *string
}

// Update накладывает переданные поля на бронирование и заново прогоняет весь
// конвейер проверок по слитым значениям, исключая само бронирование из
// подсчёта конфликтов. Любое успешное обновление сбрасывает подтверждение:
// confirmed=false, status=PENDING, даже если новые значения совпали со старыми.
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, params UpdateBookingParams) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFound("booking")
	}

	if params.TeacherID != nil {
		booking.TeacherID = *params.TeacherID
	}
	if params.Date != nil {
		booking.Date = normalizeDate(*params.Date)
	}
	if params.StartTime != nil {
		booking.StartTime = *params.StartTime
	}
	if params.EndTime != nil {
		booking.EndTime = *params.EndTime
	}

	teacher, err := s.teacherRepo.GetByID(ctx, booking.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, NewNotFound("teacher")
	}

	if err := timeslot.ValidateRange(booking.StartTime, booking.EndTime); err != nil {
		return nil, err
	}

	dayOfWeek := int(booking.Date.Weekday())
	if err := s.availability.IsWithinAvailability(ctx, booking.TeacherID, dayOfWeek, booking.StartTime, booking.EndTime); err != nil {
		return nil, err
	}

	startMin, _ := timeslot.ToMinutes(booking.StartTime)
	endMin, _ := timeslot.ToMinutes(booking.EndTime)

	// Перенос отзывает прежнее подтверждение, требуется повторное одобрение
	booking.Confirmed = false
	booking.Status = model.BookingStatusPending

	err = s.locker.WithTeacherDayLock(ctx, booking.TeacherID, booking.Date, func(ctx context.Context) error {
		if err := s.checkConflictsForDate(ctx, booking.TeacherID, booking.StudentID, booking.Date, startMin, endMin, teacher.MaxCapacity, booking.ID); err != nil {
			return err
		}
		return s.bookingRepo.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("teacher_id", booking.TeacherID.String()),
		zap.Time("date", booking.Date),
		zap.String("time", booking.StartTime+"-"+booking.EndTime),
	)

	return booking, nil
}

// MarkAttendance фиксирует посещаемость подтверждённого занятия.
// Разрешено администратору или учителю, ведущему это занятие.
func (s *BookingService) MarkAttendance(ctx context.Context, id uuid.UUID, attendance model.Attendance, actingUserID uuid.UUID, roles []model.Role, notes *string) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFound("booking")
	}

	if booking.Status != model.BookingStatusConfirmed {
		return nil, ErrNotConfirmed
	}

	if !model.HasRole(roles, model.RoleAdmin) {
		teacher, err := s.teacherRepo.GetByUserID(ctx, actingUserID)
		if err != nil {
			return nil, fmt.Errorf("get teacher profile: %w", err)
		}
		if teacher == nil || teacher.ID != booking.TeacherID {
			return nil, ErrForbidden
		}
	}

	if err := s.bookingRepo.SetAttendance(ctx, id, attendance, actingUserID, notes); err != nil {
		return nil, err
	}

	now := time.Now()
	booking.Attendance = &attendance
	booking.AttendanceAt = &now
	booking.AttendanceBy = &actingUserID
	booking.Notes = notes

	s.logger.Info("Attendance marked",
		zap.String("booking_id", id.String()),
		zap.String("attendance", string(attendance)),
		zap.String("marked_by", actingUserID.String()),
	)

	return booking, nil
}

// Remove удаляет бронирование. Администратор удаляет любое; остальные — только
// бронирования, где они сами являются учеником.
func (s *BookingService) Remove(ctx context.Context, id uuid.UUID, actingUserID uuid.UUID, roles []model.Role) error {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return NewNotFound("booking")
	}

	if !model.HasRole(roles, model.RoleAdmin) {
		student, err := s.studentRepo.GetByUserID(ctx, actingUserID)
		if err != nil {
			return fmt.Errorf("get student profile: %w", err)
		}
		if student == nil || student.ID != booking.StudentID {
			return ErrForbidden
		}
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Booking deleted",
		zap.String("booking_id", id.String()),
		zap.String("deleted_by", actingUserID.String()),
	)

	s.notifier.BookingCancelled(ctx, booking)

	return nil
}

// FindFilters — пользовательские фильтры списка бронирований
type FindFilters struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	TeacherID *uuid.UUID
	Status    *model.BookingStatus
}

// BookingPage — страница выдачи со счётчиком для пагинации
type BookingPage struct {
	Items    []*model.Booking `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// FindAll возвращает страницу бронирований. Администратор видит все;
// остальные — объединение "я ученик" и "я учитель" (пользователь с обоими
// профилями видит обе части). Пользователь без профилей получает пустую
// страницу, а не ошибку.
func (s *BookingService) FindAll(ctx context.Context, actingUserID uuid.UUID, roles []model.Role, page, pageSize int, filters FindFilters) (*BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.BookingFilter{
		DateFrom:  filters.DateFrom,
		DateTo:    filters.DateTo,
		TeacherID: filters.TeacherID,
		Status:    filters.Status,
	}

	if !model.HasRole(roles, model.RoleAdmin) {
		student, err := s.studentRepo.GetByUserID(ctx, actingUserID)
		if err != nil {
			return nil, fmt.Errorf("get student profile: %w", err)
		}
		teacher, err := s.teacherRepo.GetByUserID(ctx, actingUserID)
		if err != nil {
			return nil, fmt.Errorf("get teacher profile: %w", err)
		}

		if student == nil && teacher == nil {
			return &BookingPage{Items: []*model.Booking{}, Total: 0, Page: page, PageSize: pageSize}, nil
		}
		if student != nil {
			filter.ScopeStudentID = &student.ID
		}
		if teacher != nil {
			filter.ScopeTeacherID = &teacher.ID
		}
	}

	items, total, err := s.bookingRepo.FindPage(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	if items == nil {
		items = []*model.Booking{}
	}

	return &BookingPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get получает бронирование по ID
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, NewNotFound("booking")
	}
	return booking, nil
}

// normalizeDate отбрасывает время внутри дня, бронирования привязаны к дате
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
