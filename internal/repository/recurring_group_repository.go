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

type RecurringGroupRepository struct {
	*base.Repository
}

func NewRecurringGroupRepository(pool *pgxpool.Pool) *RecurringGroupRepository {
	return &RecurringGroupRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую recurring-группу
func (r *RecurringGroupRepository) Create(ctx context.Context, group *model.RecurringGroup) error {
	query := `
		INSERT INTO recurring_groups (teacher_id, student_id, subject_id, day_of_week, start_time, end_time, month, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		group.TeacherID,
		group.StudentID,
		group.SubjectID,
		group.DayOfWeek,
		group.StartTime,
		group.EndTime,
		group.Month,
		group.Year,
	).Scan(&group.ID, &group.CreatedAt)

	if err != nil {
		return fmt.Errorf("create recurring group: %w", err)
	}

	return nil
}

// GetByID получает recurring-группу по ID
func (r *RecurringGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RecurringGroup, error) {
	query := `
		SELECT id, teacher_id, student_id, subject_id, day_of_week, start_time, end_time, month, year, created_at
		FROM recurring_groups
		WHERE id = $1
	`

	group, err := scanRecurringGroup(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recurring group by id: %w", err)
	}

	return group, nil
}

// GetAll получает все recurring-группы
func (r *RecurringGroupRepository) GetAll(ctx context.Context) ([]*model.RecurringGroup, error) {
	query := `
		SELECT id, teacher_id, student_id, subject_id, day_of_week, start_time, end_time, month, year, created_at
		FROM recurring_groups
		ORDER BY year DESC, month DESC, created_at DESC
	`

	rows, err := r.DB(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all recurring groups: %w", err)
	}
	defer rows.Close()

	var groups []*model.RecurringGroup
	for rows.Next() {
		group, err := scanRecurringGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, nil
}

func scanRecurringGroup(row pgx.Row) (*model.RecurringGroup, error) {
	var group model.RecurringGroup
	err := row.Scan(
		&group.ID,
		&group.TeacherID,
		&group.StudentID,
		&group.SubjectID,
		&group.DayOfWeek,
		&group.StartTime,
		&group.EndTime,
		&group.Month,
		&group.Year,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}
