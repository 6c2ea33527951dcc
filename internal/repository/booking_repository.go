package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, teacher_id, student_id, subject_id, date, start_time, end_time,
		status, confirmed, attendance, attendance_at, attendance_by, notes, recurring_group_id,
		created_at, updated_at`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// BookingFilter — фильтры постраничной выборки бронирований.
// Scope-поля ограничивают видимость не-администратора объединением
// "мои бронирования как ученика" и "мои бронирования как учителя".
type BookingFilter struct {
	DateFrom       *time.Time
	DateTo         *time.Time
	TeacherID      *uuid.UUID
	Status         *model.BookingStatus
	ScopeStudentID *uuid.UUID
	ScopeTeacherID *uuid.UUID
}

// Create создаёт новое бронирование
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (teacher_id, student_id, subject_id, date, start_time, end_time, status, confirmed, recurring_group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		booking.TeacherID,
		booking.StudentID,
		booking.SubjectID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Confirmed,
		booking.RecurringGroupID,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// CreateBatch создаёт пакет бронирований. Вызывается внутри секции TxManager,
// поэтому все вставки попадают в одну транзакцию: либо весь пакет, либо ничего.
func (r *BookingRepository) CreateBatch(ctx context.Context, bookings []*model.Booking) error {
	query := `
		INSERT INTO bookings (teacher_id, student_id, subject_id, date, start_time, end_time, status, confirmed, recurring_group_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	for _, booking := range bookings {
		err := r.DB(ctx).QueryRow(
			ctx, query,
			booking.TeacherID,
			booking.StudentID,
			booking.SubjectID,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.Confirmed,
			booking.RecurringGroupID,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create booking in batch: %w", err)
		}
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetActiveByTeacherAndDates получает неотменённые бронирования учителя
// на перечисленные даты одним запросом
func (r *BookingRepository) GetActiveByTeacherAndDates(ctx context.Context, teacherID uuid.UUID, dates []time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE teacher_id = $1 AND date = ANY($2) AND status <> 'CANCELLED'
		ORDER BY date, start_time
	`

	return r.queryBookings(ctx, query, teacherID, dates)
}

// GetActiveByStudentAndDates получает неотменённые бронирования ученика
// на перечисленные даты у всех учителей
func (r *BookingRepository) GetActiveByStudentAndDates(ctx context.Context, studentID uuid.UUID, dates []time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE student_id = $1 AND date = ANY($2) AND status <> 'CANCELLED'
		ORDER BY date, start_time
	`

	return r.queryBookings(ctx, query, studentID, dates)
}

// GetConfirmedByTeacherAndDate получает подтверждённые занятия учителя на дату
func (r *BookingRepository) GetConfirmedByTeacherAndDate(ctx context.Context, teacherID uuid.UUID, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE teacher_id = $1 AND date = $2 AND status = 'CONFIRMED'
		ORDER BY start_time
	`

	return r.queryBookings(ctx, query, teacherID, date)
}

// GetConfirmedByDate получает подтверждённые занятия всех учителей на дату.
// Используется фоновой задачей напоминаний.
func (r *BookingRepository) GetConfirmedByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE date = $1 AND status = 'CONFIRMED'
		ORDER BY start_time
	`

	return r.queryBookings(ctx, query, date)
}

// Update перезаписывает изменяемые поля бронирования
func (r *BookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET teacher_id = $2, date = $3, start_time = $4, end_time = $5,
			status = $6, confirmed = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		booking.ID,
		booking.TeacherID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Confirmed,
	).Scan(&booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	return nil
}

// Confirm подтверждает бронирование. Status и confirmed всегда меняются вместе
func (r *BookingRepository) Confirm(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bookings
		SET status = 'CONFIRMED', confirmed = true, updated_at = now()
		WHERE id = $1
	`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// SetAttendance фиксирует посещаемость занятия
func (r *BookingRepository) SetAttendance(ctx context.Context, id uuid.UUID, attendance model.Attendance, markedBy uuid.UUID, notes *string) error {
	query := `
		UPDATE bookings
		SET attendance = $2, attendance_at = now(), attendance_by = $3, notes = $4, updated_at = now()
		WHERE id = $1
	`

	result, err := r.DB(ctx).Exec(ctx, query, id, attendance, markedBy, notes)
	if err != nil {
		return fmt.Errorf("set booking attendance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// Delete удаляет бронирование
func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// FindPage выполняет постраничную выборку с фильтрами и возвращает
// страницу вместе с общим количеством подходящих строк
func (r *BookingRepository) FindPage(ctx context.Context, filter BookingFilter, page, pageSize int) ([]*model.Booking, int, error) {
	conditions := []string{"true"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, "date >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "date <= "+arg(*filter.DateTo))
	}
	if filter.TeacherID != nil {
		conditions = append(conditions, "teacher_id = "+arg(*filter.TeacherID))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(*filter.Status))
	}

	if filter.ScopeStudentID != nil || filter.ScopeTeacherID != nil {
		var scope []string
		if filter.ScopeStudentID != nil {
			scope = append(scope, "student_id = "+arg(*filter.ScopeStudentID))
		}
		if filter.ScopeTeacherID != nil {
			scope = append(scope, "teacher_id = "+arg(*filter.ScopeTeacherID))
		}
		conditions = append(conditions, "("+strings.Join(scope, " OR ")+")")
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT count(*) FROM bookings WHERE ` + where
	if err := r.DB(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	pageQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + where +
		` ORDER BY date DESC, start_time DESC LIMIT ` + arg(pageSize) + ` OFFSET ` + arg((page-1)*pageSize)

	bookings, err := r.queryBookings(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TeacherID,
		&booking.StudentID,
		&booking.SubjectID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.Confirmed,
		&booking.Attendance,
		&booking.AttendanceAt,
		&booking.AttendanceBy,
		&booking.Notes,
		&booking.RecurringGroupID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
