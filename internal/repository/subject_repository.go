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

type SubjectRepository struct {
	*base.Repository
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	query := `
		INSERT INTO subjects (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		subject.Name,
		subject.Description,
		subject.IsActive,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет по ID
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`

	var subject model.Subject
	err := r.DB(ctx).QueryRow(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Description,
		&subject.IsActive,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// GetAll получает все предметы
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*model.Subject, error) {
	query := `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM subjects
		ORDER BY name
	`

	rows, err := r.DB(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*model.Subject
	for rows.Next() {
		var subject model.Subject
		err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Description,
			&subject.IsActive,
			&subject.CreatedAt,
			&subject.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	return subjects, nil
}

// Update обновляет предмет
func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	query := `
		UPDATE subjects
		SET name = $2, description = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.DB(ctx).QueryRow(
		ctx, query,
		subject.ID,
		subject.Name,
		subject.Description,
		subject.IsActive,
	).Scan(&subject.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}

	return nil
}

// Delete удаляет предмет
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subjects WHERE id = $1`

	result, err := r.DB(ctx).Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("subject not found")
	}

	return nil
}
