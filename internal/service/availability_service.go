package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityService struct {
	availabilityRepo AvailabilityStore
	teacherRepo      TeacherStore
	logger           *zap.Logger
}

func NewAvailabilityService(availabilityRepo AvailabilityStore, teacherRepo TeacherStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		teacherRepo:      teacherRepo,
		logger:           logger,
	}
}

// IsWithinAvailability проверяет что [start, end) целиком лежит хотя бы в одном
// окне учителя в этот день недели. Окна — объединение, непрерывность не требуется.
// Отсутствие окон — полноценный результат "учитель не принимает в этот день",
// а не ошибка хранилища.
func (s *AvailabilityService) IsWithinAvailability(ctx context.Context, teacherID uuid.UUID, dayOfWeek int, start, end string) error {
	slots, err := s.availabilityRepo.GetByTeacherAndDay(ctx, teacherID, dayOfWeek)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}

	if len(slots) == 0 {
		return &TeacherNotAvailableError{DayOfWeek: dayOfWeek}
	}

	startMin, err := timeslot.ToMinutes(start)
	if err != nil {
		return err
	}
	endMin, err := timeslot.ToMinutes(end)
	if err != nil {
		return err
	}

	windows := make([]string, 0, len(slots))
	for _, slot := range slots {
		slotStart, err := timeslot.ToMinutes(slot.StartTime)
		if err != nil {
			return fmt.Errorf("stored slot start time: %w", err)
		}
		slotEnd, err := timeslot.ToMinutes(slot.EndTime)
		if err != nil {
			return fmt.Errorf("stored slot end time: %w", err)
		}

		if timeslot.Contains(slotStart, slotEnd, startMin, endMin) {
			return nil
		}
		windows = append(windows, slot.StartTime+"-"+slot.EndTime)
	}

	return &OutsideAvailabilityError{DayOfWeek: dayOfWeek, Windows: windows}
}

// Create создаёт окно доступности учителя
func (s *AvailabilityService) Create(ctx context.Context, teacherID uuid.UUID, dayOfWeek int, start, end string) (*model.AvailabilitySlot, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if err := timeslot.ValidateRange(start, end); err != nil {
		return nil, err
	}

	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, NewNotFound("teacher")
	}

	slot := &model.AvailabilitySlot{
		TeacherID: teacherID,
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
	}

	if err := s.availabilityRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create availability slot: %w", err)
	}

	s.logger.Info("Availability slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("teacher_id", teacherID.String()),
		zap.Int("day_of_week", dayOfWeek),
		zap.String("window", start+"-"+end),
	)

	return slot, nil
}

// SlotInput — одно окно в пакетном создании
type SlotInput struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateBulk создаёт несколько окон одним пакетом. Все интервалы валидируются
// до первой записи, вставка идёт одной транзакцией.
func (s *AvailabilityService) CreateBulk(ctx context.Context, teacherID uuid.UUID, inputs []SlotInput) ([]*model.AvailabilitySlot, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	if teacher == nil {
		return nil, NewNotFound("teacher")
	}

	slots := make([]*model.AvailabilitySlot, 0, len(inputs))
	for _, input := range inputs {
		if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
			return nil, ErrInvalidDayOfWeek
		}
		if err := timeslot.ValidateRange(input.StartTime, input.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, &model.AvailabilitySlot{
			TeacherID: teacherID,
			DayOfWeek: input.DayOfWeek,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
		})
	}

	if err := s.availabilityRepo.CreateBatch(ctx, slots); err != nil {
		return nil, fmt.Errorf("create availability slots: %w", err)
	}

	s.logger.Info("Availability slots created in bulk",
		zap.String("teacher_id", teacherID.String()),
		zap.Int("count", len(slots)),
	)

	return slots, nil
}

// FindByTeacher получает все окна учителя
func (s *AvailabilityService) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	return s.availabilityRepo.GetByTeacherID(ctx, teacherID)
}

// Get получает окно по ID
func (s *AvailabilityService) Get(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	slot, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, NewNotFound("availability slot")
	}
	return slot, nil
}

// UpdateSlotParams — частичное обновление окна
type UpdateSlotParams struct {
	DayOfWeek *int    `json:"day_of_week,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// Update накладывает переданные поля на существующее окно и валидирует
// получившийся интервал
func (s *AvailabilityService) Update(ctx context.Context, id uuid.UUID, params UpdateSlotParams) (*model.AvailabilitySlot, error) {
	slot, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, NewNotFound("availability slot")
	}

	if params.DayOfWeek != nil {
		if *params.DayOfWeek < 0 || *params.DayOfWeek > 6 {
			return nil, ErrInvalidDayOfWeek
		}
		slot.DayOfWeek = *params.DayOfWeek
	}
	if params.StartTime != nil {
		slot.StartTime = *params.StartTime
	}
	if params.EndTime != nil {
		slot.EndTime = *params.EndTime
	}

	if err := timeslot.ValidateRange(slot.StartTime, slot.EndTime); err != nil {
		return nil, err
	}

	if err := s.availabilityRepo.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("update availability slot: %w", err)
	}

	s.logger.Info("Availability slot updated", zap.String("slot_id", id.String()))

	return slot, nil
}

// Remove удаляет окно доступности
func (s *AvailabilityService) Remove(ctx context.Context, id uuid.UUID) error {
	slot, err := s.availabilityRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return NewNotFound("availability slot")
	}

	if err := s.availabilityRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete availability slot: %w", err)
	}

	s.logger.Info("Availability slot deleted", zap.String("slot_id", id.String()))

	return nil
}
