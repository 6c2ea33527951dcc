package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory фейки хранилища для сервисных тестов.

type fakeTeacherStore struct {
	teachers map[uuid.UUID]*model.Teacher
}

func (f *fakeTeacherStore) Create(_ context.Context, t *model.Teacher) error {
	t.ID = uuid.New()
	f.teachers[t.ID] = t
	return nil
}

func (f *fakeTeacherStore) GetByID(_ context.Context, id uuid.UUID) (*model.Teacher, error) {
	return f.teachers[id], nil
}

func (f *fakeTeacherStore) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Teacher, error) {
	for _, t := range f.teachers {
		if t.UserID != nil && *t.UserID == userID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTeacherStore) GetAll(_ context.Context) ([]*model.Teacher, error) {
	var out []*model.Teacher
	for _, t := range f.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTeacherStore) Update(_ context.Context, t *model.Teacher) error {
	f.teachers[t.ID] = t
	return nil
}

func (f *fakeTeacherStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.teachers, id)
	return nil
}

type fakeStudentStore struct {
	students map[uuid.UUID]*model.Student
}

func (f *fakeStudentStore) Create(_ context.Context, s *model.Student) error {
	s.ID = uuid.New()
	f.students[s.ID] = s
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	return f.students[id], nil
}

func (f *fakeStudentStore) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Student, error) {
	for _, s := range f.students {
		if s.UserID != nil && *s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) GetAll(_ context.Context) ([]*model.Student, error) {
	var out []*model.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStudentStore) Update(_ context.Context, s *model.Student) error {
	f.students[s.ID] = s
	return nil
}

func (f *fakeStudentStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.students, id)
	return nil
}

type fakeSubjectStore struct {
	subjects map[uuid.UUID]*model.Subject
}

func (f *fakeSubjectStore) Create(_ context.Context, s *model.Subject) error {
	s.ID = uuid.New()
	f.subjects[s.ID] = s
	return nil
}

func (f *fakeSubjectStore) GetByID(_ context.Context, id uuid.UUID) (*model.Subject, error) {
	return f.subjects[id], nil
}

func (f *fakeSubjectStore) GetAll(_ context.Context) ([]*model.Subject, error) {
	var out []*model.Subject
	for _, s := range f.subjects {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubjectStore) Update(_ context.Context, s *model.Subject) error {
	f.subjects[s.ID] = s
	return nil
}

func (f *fakeSubjectStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.subjects, id)
	return nil
}

type fakeAvailabilityStore struct {
	slots map[uuid.UUID]*model.AvailabilitySlot
}

func (f *fakeAvailabilityStore) Create(_ context.Context, s *model.AvailabilitySlot) error {
	s.ID = uuid.New()
	f.slots[s.ID] = s
	return nil
}

func (f *fakeAvailabilityStore) CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error {
	for _, s := range slots {
		if err := f.Create(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAvailabilityStore) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	return f.slots[id], nil
}

func (f *fakeAvailabilityStore) GetByTeacherID(_ context.Context, teacherID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, s := range f.slots {
		if s.TeacherID == teacherID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) GetByTeacherAndDay(_ context.Context, teacherID uuid.UUID, dayOfWeek int) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, s := range f.slots {
		if s.TeacherID == teacherID && s.DayOfWeek == dayOfWeek {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) Update(_ context.Context, s *model.AvailabilitySlot) error {
	f.slots[s.ID] = s
	return nil
}

func (f *fakeAvailabilityStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.slots, id)
	return nil
}

type fakeBookingStore struct {
	bookings map[uuid.UUID]*model.Booking
}

func (f *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingStore) CreateBatch(ctx context.Context, bookings []*model.Booking) error {
	for _, b := range bookings {
		if err := f.Create(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBookingStore) GetActiveByTeacherAndDates(_ context.Context, teacherID uuid.UUID, dates []time.Time) ([]*model.Booking, error) {
	return f.filter(func(b *model.Booking) bool {
		return b.TeacherID == teacherID && b.Status != model.BookingStatusCancelled && dateIn(b.Date, dates)
	}), nil
}

func (f *fakeBookingStore) GetActiveByStudentAndDates(_ context.Context, studentID uuid.UUID, dates []time.Time) ([]*model.Booking, error) {
	return f.filter(func(b *model.Booking) bool {
		return b.StudentID == studentID && b.Status != model.BookingStatusCancelled && dateIn(b.Date, dates)
	}), nil
}

func (f *fakeBookingStore) Update(_ context.Context, b *model.Booking) error {
	b.UpdatedAt = time.Now()
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeBookingStore) Confirm(_ context.Context, id uuid.UUID) error {
	b := f.bookings[id]
	b.Confirmed = true
	b.Status = model.BookingStatusConfirmed
	return nil
}

func (f *fakeBookingStore) SetAttendance(_ context.Context, id uuid.UUID, attendance model.Attendance, markedBy uuid.UUID, notes *string) error {
	b := f.bookings[id]
	now := time.Now()
	b.Attendance = &attendance
	b.AttendanceAt = &now
	b.AttendanceBy = &markedBy
	b.Notes = notes
	return nil
}

func (f *fakeBookingStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingStore) FindPage(_ context.Context, filter repository.BookingFilter, page, pageSize int) ([]*model.Booking, int, error) {
	matched := f.filter(func(b *model.Booking) bool {
		if filter.DateFrom != nil && b.Date.Before(*filter.DateFrom) {
			return false
		}
		if filter.DateTo != nil && b.Date.After(*filter.DateTo) {
			return false
		}
		if filter.TeacherID != nil && b.TeacherID != *filter.TeacherID {
			return false
		}
		if filter.Status != nil && b.Status != *filter.Status {
			return false
		}
		if filter.ScopeStudentID != nil || filter.ScopeTeacherID != nil {
			inScope := false
			if filter.ScopeStudentID != nil && b.StudentID == *filter.ScopeStudentID {
				inScope = true
			}
			if filter.ScopeTeacherID != nil && b.TeacherID == *filter.ScopeTeacherID {
				inScope = true
			}
			if !inScope {
				return false
			}
		}
		return true
	})

	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	total := len(matched)
	offset := (page - 1) * pageSize
	if offset >= total {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeBookingStore) filter(keep func(*model.Booking) bool) []*model.Booking {
	var out []*model.Booking
	for _, b := range f.bookings {
		if keep(b) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out
}

func dateIn(d time.Time, dates []time.Time) bool {
	for _, candidate := range dates {
		if d.Equal(candidate) {
			return true
		}
	}
	return false
}

type fakeRecurringStore struct {
	groups map[uuid.UUID]*model.RecurringGroup
}

func (f *fakeRecurringStore) Create(_ context.Context, g *model.RecurringGroup) error {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	clone := *g
	f.groups[g.ID] = &clone
	return nil
}

func (f *fakeRecurringStore) GetByID(_ context.Context, id uuid.UUID) (*model.RecurringGroup, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	clone := *g
	return &clone, nil
}

func (f *fakeRecurringStore) GetAll(_ context.Context) ([]*model.RecurringGroup, error) {
	var out []*model.RecurringGroup
	for _, g := range f.groups {
		clone := *g
		out = append(out, &clone)
	}
	return out, nil
}

// fakeLocker сериализует секции мьютексом, без транзакций
type fakeLocker struct {
	mu sync.Mutex
}

func (f *fakeLocker) WithTeacherDayLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeLocker) WithTeacherLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	pending   int
	confirmed int
	cancelled int
}

func (f *fakeNotifier) BookingPending(context.Context, *model.Booking)   { f.pending++ }
func (f *fakeNotifier) BookingConfirmed(context.Context, *model.Booking) { f.confirmed++ }
func (f *fakeNotifier) BookingCancelled(context.Context, *model.Booking) { f.cancelled++ }

// fixture собирает BookingService поверх фейков
type fixture struct {
	teachers  *fakeTeacherStore
	students  *fakeStudentStore
	subjects  *fakeSubjectStore
	slots     *fakeAvailabilityStore
	bookings  *fakeBookingStore
	recurring *fakeRecurringStore
	notifier  *fakeNotifier
	svc       *BookingService
}

func newFixture() *fixture {
	f := &fixture{
		teachers:  &fakeTeacherStore{teachers: map[uuid.UUID]*model.Teacher{}},
		students:  &fakeStudentStore{students: map[uuid.UUID]*model.Student{}},
		subjects:  &fakeSubjectStore{subjects: map[uuid.UUID]*model.Subject{}},
		slots:     &fakeAvailabilityStore{slots: map[uuid.UUID]*model.AvailabilitySlot{}},
		bookings:  &fakeBookingStore{bookings: map[uuid.UUID]*model.Booking{}},
		recurring: &fakeRecurringStore{groups: map[uuid.UUID]*model.RecurringGroup{}},
		notifier:  &fakeNotifier{},
	}

	logger := zap.NewNop()
	availability := NewAvailabilityService(f.slots, f.teachers, logger)
	f.svc = NewBookingService(f.teachers, f.students, f.subjects, f.bookings, f.recurring, availability, &fakeLocker{}, f.notifier, logger)

	return f
}

func (f *fixture) addTeacher(maxCapacity int) *model.Teacher {
	teacher := &model.Teacher{FirstName: "Anna", LastName: "Petrova", MaxCapacity: maxCapacity}
	_ = f.teachers.Create(context.Background(), teacher)
	return teacher
}

func (f *fixture) addTeacherWithUser(maxCapacity int, userID uuid.UUID) *model.Teacher {
	teacher := &model.Teacher{UserID: &userID, FirstName: "Anna", LastName: "Petrova", MaxCapacity: maxCapacity}
	_ = f.teachers.Create(context.Background(), teacher)
	return teacher
}

func (f *fixture) addStudent() *model.Student {
	student := &model.Student{FirstName: "Ivan", LastName: "Sidorov"}
	_ = f.students.Create(context.Background(), student)
	return student
}

func (f *fixture) addStudentWithUser(userID uuid.UUID) *model.Student {
	student := &model.Student{UserID: &userID, FirstName: "Ivan", LastName: "Sidorov"}
	_ = f.students.Create(context.Background(), student)
	return student
}

func (f *fixture) addAvailability(teacherID uuid.UUID, dayOfWeek int, start, end string) {
	_ = f.slots.Create(context.Background(), &model.AvailabilitySlot{
		TeacherID: teacherID,
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
	})
}

// date возвращает дату в UTC без времени
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
