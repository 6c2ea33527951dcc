package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RosterService — административный CRUD школьного реестра: учителя, ученики,
// предметы. Логики расписания здесь нет, только проверки существования.
type RosterService struct {
	teacherRepo TeacherStore
	studentRepo StudentStore
	subjectRepo SubjectStore
	userRepo    UserStore
	logger      *zap.Logger
}

func NewRosterService(teacherRepo TeacherStore, studentRepo StudentStore, subjectRepo SubjectStore, userRepo UserStore, logger *zap.Logger) *RosterService {
	return &RosterService{
		teacherRepo: teacherRepo,
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// CreateTeacher создаёт учителя. Если указан userID, пользователю выдаётся
// роль TEACHER.
func (s *RosterService) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	if teacher.MaxCapacity < 1 {
		return ErrInvalidCapacity
	}

	if teacher.UserID != nil {
		user, err := s.userRepo.GetByID(ctx, *teacher.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if user == nil {
			return NewNotFound("user")
		}
	}

	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return err
	}

	if teacher.UserID != nil {
		if err := s.userRepo.AddRole(ctx, *teacher.UserID, model.RoleTeacher); err != nil {
			return fmt.Errorf("grant teacher role: %w", err)
		}
	}

	s.logger.Info("Teacher created",
		zap.String("teacher_id", teacher.ID.String()),
		zap.Int("max_capacity", teacher.MaxCapacity),
	)

	return nil
}

// GetTeacher получает учителя по ID
func (s *RosterService) GetTeacher(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, NewNotFound("teacher")
	}
	return teacher, nil
}

// ListTeachers получает всех учителей
func (s *RosterService) ListTeachers(ctx context.Context) ([]*model.Teacher, error) {
	return s.teacherRepo.GetAll(ctx)
}

// UpdateTeacher обновляет учителя
func (s *RosterService) UpdateTeacher(ctx context.Context, teacher *model.Teacher) error {
	if teacher.MaxCapacity < 1 {
		return ErrInvalidCapacity
	}

	existing, err := s.teacherRepo.GetByID(ctx, teacher.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("teacher")
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return err
	}

	s.logger.Info("Teacher updated", zap.String("teacher_id", teacher.ID.String()))
	return nil
}

// DeleteTeacher удаляет учителя
func (s *RosterService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	existing, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("teacher")
	}

	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Teacher deleted", zap.String("teacher_id", id.String()))
	return nil
}

// CreateStudent создаёт ученика. Если указан userID, пользователю выдаётся
// роль STUDENT.
func (s *RosterService) CreateStudent(ctx context.Context, student *model.Student) error {
	if student.UserID != nil {
		user, err := s.userRepo.GetByID(ctx, *student.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if user == nil {
			return NewNotFound("user")
		}
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return err
	}

	if student.UserID != nil {
		if err := s.userRepo.AddRole(ctx, *student.UserID, model.RoleStudent); err != nil {
			return fmt.Errorf("grant student role: %w", err)
		}
	}

	s.logger.Info("Student created", zap.String("student_id", student.ID.String()))
	return nil
}

// GetStudent получает ученика по ID
func (s *RosterService) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, NewNotFound("student")
	}
	return student, nil
}

// ListStudents получает всех учеников
func (s *RosterService) ListStudents(ctx context.Context) ([]*model.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// UpdateStudent обновляет ученика
func (s *RosterService) UpdateStudent(ctx context.Context, student *model.Student) error {
	existing, err := s.studentRepo.GetByID(ctx, student.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("student")
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return err
	}

	s.logger.Info("Student updated", zap.String("student_id", student.ID.String()))
	return nil
}

// DeleteStudent удаляет ученика
func (s *RosterService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	existing, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("student")
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Student deleted", zap.String("student_id", id.String()))
	return nil
}

// CreateSubject создаёт предмет
func (s *RosterService) CreateSubject(ctx context.Context, subject *model.Subject) error {
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return err
	}

	s.logger.Info("Subject created",
		zap.String("subject_id", subject.ID.String()),
		zap.String("name", subject.Name),
	)
	return nil
}

// GetSubject получает предмет по ID
func (s *RosterService) GetSubject(ctx context.Context, id uuid.UUID) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, NewNotFound("subject")
	}
	return subject, nil
}

// ListSubjects получает все предметы
func (s *RosterService) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	return s.subjectRepo.GetAll(ctx)
}

// UpdateSubject обновляет предмет
func (s *RosterService) UpdateSubject(ctx context.Context, subject *model.Subject) error {
	existing, err := s.subjectRepo.GetByID(ctx, subject.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("subject")
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return err
	}

	s.logger.Info("Subject updated", zap.String("subject_id", subject.ID.String()))
	return nil
}

// DeleteSubject удаляет предмет
func (s *RosterService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	existing, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFound("subject")
	}

	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Subject deleted", zap.String("subject_id", id.String()))
	return nil
}
