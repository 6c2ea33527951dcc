package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MonthlyParams — заявка на пакет занятий "тот же день недели каждую неделю
// в пределах одного месяца"
type MonthlyParams struct {
	TeacherID uuid.UUID
	StudentID uuid.UUID
	SubjectID *uuid.UUID
	DayOfWeek int
	StartTime string
	EndTime   string
	Month     int
	Year      int
}

// FailedDate — дата, не прошедшая проверку конфликтов, с причиной для вызывающего
type FailedDate struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// BatchResult — итог пакетного создания. Частичный успех — ожидаемый исход,
// а не ошибка: неудавшиеся даты перечислены рядом с удавшимися.
type BatchResult struct {
	RecurringGroupID uuid.UUID        `json:"recurring_group_id"`
	TotalDates       int              `json:"total_dates"`
	Successful       []*model.Booking `json:"successful"`
	Failed           []FailedDate     `json:"failed"`
}

// CreateMonthly разворачивает заявку в пакет подтверждённых бронирований.
//
// Инвариантные для всего месяца проверки (ссылки, формат времени, окна
// доступности) выполняются один раз; по датам повторяются только проверки
// конфликтов, причём против наборов, предзагруженных одним запросом на весь
// месяц. Recurring-группа создаётся всегда, даже если ни одна дата не прошла:
// она остаётся записью о намерении и шаблоном для продления.
// Прошедшие проверку бронирования записываются одним атомарным пакетом.
func (s *BookingService) CreateMonthly(ctx context.Context, params MonthlyParams) (*BatchResult, error) {
	if params.Month < 1 || params.Month > 12 {
		return nil, ErrInvalidMonth
	}
	if params.DayOfWeek < 0 || params.DayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

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

	dates := monthlyDates(params.DayOfWeek, params.Month, params.Year)
	if len(dates) == 0 {
		return nil, ErrNoMatchingDates
	}

	// Проверка окон не зависит от конкретной даты, выполняется один раз на пакет
	if err := s.availability.IsWithinAvailability(ctx, params.TeacherID, params.DayOfWeek, params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	startMin, _ := timeslot.ToMinutes(params.StartTime)
	endMin, _ := timeslot.ToMinutes(params.EndTime)

	result := &BatchResult{TotalDates: len(dates)}

	err = s.locker.WithTeacherLock(ctx, params.TeacherID, func(ctx context.Context) error {
		teacherBookings, err := s.bookingRepo.GetActiveByTeacherAndDates(ctx, params.TeacherID, dates)
		if err != nil {
			return fmt.Errorf("get teacher bookings: %w", err)
		}
		studentBookings, err := s.bookingRepo.GetActiveByStudentAndDates(ctx, params.StudentID, dates)
		if err != nil {
			return fmt.Errorf("get student bookings: %w", err)
		}

		teacherByDate := partitionByDate(teacherBookings)
		studentByDate := partitionByDate(studentBookings)

		group := &model.RecurringGroup{
			TeacherID: params.TeacherID,
			StudentID: params.StudentID,
			SubjectID: params.SubjectID,
			DayOfWeek: params.DayOfWeek,
			StartTime: params.StartTime,
			EndTime:   params.EndTime,
			Month:     params.Month,
			Year:      params.Year,
		}
		if err := s.recurringRepo.Create(ctx, group); err != nil {
			return fmt.Errorf("create recurring group: %w", err)
		}
		result.RecurringGroupID = group.ID

		var toCreate []*model.Booking
		for _, date := range dates {
			key := date.Format("2006-01-02")
			err := checkSlotConflict(teacherByDate[key], studentByDate[key], startMin, endMin, teacher.MaxCapacity, uuid.Nil)
			if err != nil {
				result.Failed = append(result.Failed, FailedDate{Date: date, Reason: err.Error()})
				continue
			}

			toCreate = append(toCreate, &model.Booking{
				TeacherID:        params.TeacherID,
				StudentID:        params.StudentID,
				SubjectID:        params.SubjectID,
				Date:             date,
				StartTime:        params.StartTime,
				EndTime:          params.EndTime,
				Status:           model.BookingStatusConfirmed,
				Confirmed:        true,
				RecurringGroupID: &group.ID,
			})
		}

		if err := s.bookingRepo.CreateBatch(ctx, toCreate); err != nil {
			return fmt.Errorf("create booking batch: %w", err)
		}
		result.Successful = toCreate

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Successful == nil {
		result.Successful = []*model.Booking{}
	}

	s.logger.Info("Monthly bookings created",
		zap.String("recurring_group_id", result.RecurringGroupID.String()),
		zap.String("teacher_id", params.TeacherID.String()),
		zap.String("student_id", params.StudentID.String()),
		zap.Int("month", params.Month),
		zap.Int("year", params.Year),
		zap.Int("total_dates", result.TotalDates),
		zap.Int("successful", len(result.Successful)),
		zap.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// RenewMonthly продлевает recurring-группу на следующий месяц: декабрь
// переходит в январь следующего года. Исходная группа и её бронирования
// не изменяются, создаётся новая группа с новым пакетом.
func (s *BookingService) RenewMonthly(ctx context.Context, groupID uuid.UUID) (*BatchResult, error) {
	group, err := s.recurringRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get recurring group: %w", err)
	}
	if group == nil {
		return nil, NewNotFound("recurring group")
	}

	month := group.Month + 1
	year := group.Year
	if month > 12 {
		month = 1
		year++
	}

	s.logger.Info("Renewing recurring group",
		zap.String("group_id", groupID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
	)

	return s.CreateMonthly(ctx, MonthlyParams{
		TeacherID: group.TeacherID,
		StudentID: group.StudentID,
		SubjectID: group.SubjectID,
		DayOfWeek: group.DayOfWeek,
		StartTime: group.StartTime,
		EndTime:   group.EndTime,
		Month:     month,
		Year:      year,
	})
}

// ListRecurringGroups возвращает все recurring-группы
func (s *BookingService) ListRecurringGroups(ctx context.Context) ([]*model.RecurringGroup, error) {
	return s.recurringRepo.GetAll(ctx)
}

// monthlyDates перечисляет даты месяца с нужным днём недели: с первого числа
// день за днём до первого совпадения, дальше шагом в неделю до конца месяца
func monthlyDates(dayOfWeek, month, year int) []time.Time {
	cur := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	for cur.Month() == time.Month(month) && int(cur.Weekday()) != dayOfWeek {
		cur = cur.AddDate(0, 0, 1)
	}
	if cur.Month() != time.Month(month) {
		return nil
	}

	var dates []time.Time
	for cur.Month() == time.Month(month) {
		dates = append(dates, cur)
		cur = cur.AddDate(0, 0, 7)
	}

	return dates
}
