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

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового ученика
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	query := `
		INSERT INTO students (user_id, first_name, last_name, parent_email, grade, school)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		student.UserID,
		student.FirstName,
		student.LastName,
		student.ParentEmail,
		student.Grade,
		student.School,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID получает ученика по ID
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `
		SELECT id, user_id, first_name, last_name, parent_email, grade, school, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	student, err := scanStudent(r.DB(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// GetByUserID получает профиль ученика по пользователю
func (r *StudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	query := `
		SELECT id, user_id, first_name, last_name, parent_email, grade, school, created_at, updated_at
		FROM students
		WHERE user_id = $1
	`

	student, err := scanStudent(r.DB(ctx).QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by user id: %w", err)
	}

	return student, nil
}

// GetAll получает всех учеников
func (r *StudentRepository) GetAll(ctx context.Context) ([]*model.Student, error) {
	query := `
		SELECT id, user_id, first_name, last_name, parent_email, grade, school, created_at, updated_at
		FROM students
		ORDER BY last_name, first_name
	`

	rows, err := r.DB(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	return students, nil
}

// Update обновляет ученика
func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	query := `
		UPDATE students
		SET first_name = $2, last_name = $3, parent_email = $4, grade = $5, school = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		student.ID,
		student.FirstName,
		student.LastName,
		student.ParentEmail,
		student.Grade,
		student.School,
	).Scan(&student.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}

	return nil
}

// Delete удаляет ученика
func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM students WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}

func scanStudent(row pgx.Row) (*model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.UserID,
		&student.FirstName,
		&student.LastName,
		&student.ParentEmail,
		&student.Grade,
		&student.School,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}
