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

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового учителя
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	query := `
		INSERT INTO teachers (user_id, first_name, last_name, max_capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		teacher.UserID,
		teacher.FirstName,
		teacher.LastName,
		teacher.MaxCapacity,
	).Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, first_name, last_name, max_capacity, created_at, updated_at
		FROM teachers
		WHERE id = $1
	`

	teacher, err := scanTeacher(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return teacher, nil
}

// GetByUserID получает профиль учителя по пользователю
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Teacher, error) {
	query := `
		SELECT id, user_id, first_name, last_name, max_capacity, created_at, updated_at
		FROM teachers
		WHERE user_id = $1
	`

	teacher, err := scanTeacher(r.DB(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by user id: %w", err)
	}

	return teacher, nil
}

// GetAll получает всех учителей
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*model.Teacher, error) {
	query := `
		SELECT id, user_id, first_name, last_name, max_capacity, created_at, updated_at
		FROM teachers
		ORDER BY last_name, first_name
	`

	rows, err := r.DB(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, teacher)
	}

	return teachers, nil
}

// Update обновляет учителя
func (r *TeacherRepository) Update(ctx context.Context, teacher *model.Teacher) error {
	query := `
		UPDATE teachers
		SET first_name = $2, last_name = $3, max_capacity = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		teacher.ID,
		teacher.FirstName,
		teacher.LastName,
		teacher.MaxCapacity,
	).Scan(&teacher.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}

	return nil
}

// Delete удаляет учителя
func (r *TeacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teachers WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("teacher not found")
	}

	return nil
}

func scanTeacher(row pgx.Row) (*model.Teacher, error) {
	var teacher model.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.UserID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.MaxCapacity,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}
