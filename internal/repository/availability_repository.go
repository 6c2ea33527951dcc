package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт окно доступности
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (teacher_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		slot.TeacherID,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create availability slot: %w", err)
	}

	return nil
}

// CreateBatch создаёт несколько окон одним пакетом в одной транзакции
func (r *AvailabilityRepository) CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}

	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO availability_slots (teacher_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for _, slot := range slots {
		err := tx.QueryRow(
			ctx, query,
			slot.TeacherID,
			slot.DayOfWeek,
			slot.StartTime,
			slot.EndTime,
		).Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			return fmt.Errorf("create availability slot in batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID получает окно по ID
func (r *AvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_time, end_time, created_at
		FROM availability_slots
		WHERE id = $1
	`

	slot, err := scanAvailabilitySlot(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability slot by id: %w", err)
	}

	return slot, nil
}

// GetByTeacherID получает все окна учителя
func (r *AvailabilityRepository) GetByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_time, end_time, created_at
		FROM availability_slots
		WHERE teacher_id = $1
		ORDER BY day_of_week, start_time
	`

	return r.querySlots(ctx, query, teacherID)
}

// GetByTeacherAndDay получает окна учителя в конкретный день недели
func (r *AvailabilityRepository) GetByTeacherAndDay(ctx context.Context, teacherID uuid.UUID, dayOfWeek int) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, teacher_id, day_of_week, start_time, end_time, created_at
		FROM availability_slots
		WHERE teacher_id = $1 AND day_of_week = $2
		ORDER BY start_time
	`

	return r.querySlots(ctx, query, teacherID, dayOfWeek)
}

// Update обновляет окно доступности
func (r *AvailabilityRepository) Update(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		UPDATE availability_slots
		SET day_of_week = $2, start_time = $3, end_time = $4
		WHERE id = $1
	`

	result, err := r.DB(ctx).Exec(ctx, query, slot.ID, slot.DayOfWeek, slot.StartTime, slot.EndTime)
	if err != nil {
		return fmt.Errorf("update availability slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot not found")
	}

	return nil
}

// Delete удаляет окно доступности
func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_slots WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete availability slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot not found")
	}

	return nil
}

func (r *AvailabilityRepository) querySlots(ctx context.Context, query string, args ...any) ([]*model.AvailabilitySlot, error) {
	rows, err := r.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanAvailabilitySlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

func scanAvailabilitySlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.TeacherID,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
