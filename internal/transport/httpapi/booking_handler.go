package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

type createBookingRequest struct {
	TeacherID uuid.UUID  `json:"teacher_id"`
	StudentID uuid.UUID  `json:"student_id"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
}

func (h *BookingHandler) decodeCreate(w http.ResponseWriter, r *http.Request) (service.CreateBookingParams, bool) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return service.CreateBookingParams{}, false
	}
	if req.TeacherID == uuid.Nil || req.StudentID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "teacher_id and student_id are required")
		return service.CreateBookingParams{}, false
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return service.CreateBookingParams{}, false
	}

	return service.CreateBookingParams{
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}, true
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeCreate(w, r)
	if !ok {
		return
	}

	booking, err := h.bookings.Create(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// AdminAssign создаёт бронирование сразу подтверждённым
func (h *BookingHandler) AdminAssign(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeCreate(w, r)
	if !ok {
		return
	}

	booking, err := h.bookings.AdminAssign(r.Context(), params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// List возвращает страницу бронирований, область видимости зависит от роли
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	var filters service.FindFilters
	if v := q.Get("date_from"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_from, expected YYYY-MM-DD")
			return
		}
		filters.DateFrom = &d
	}
	if v := q.Get("date_to"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date_to, expected YYYY-MM-DD")
			return
		}
		filters.DateTo = &d
	}
	if v := q.Get("teacher_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid teacher_id")
			return
		}
		filters.TeacherID = &id
	}
	if v := q.Get("status"); v != "" {
		status := model.BookingStatus(v)
		switch status {
		case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled:
			filters.Status = &status
		default:
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
	}

	result, err := h.bookings.FindAll(r.Context(), identity.UserID, identity.Roles, page, pageSize, filters)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type updateBookingRequest struct {
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
	Date      *string    `json:"date,omitempty"`
	StartTime *string    `json:"start_time,omitempty"`
	EndTime   *string    `json:"end_time,omitempty"`
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req updateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	params := service.UpdateBookingParams{
		TeacherID: req.TeacherID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.Date != nil {
		d, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		params.Date = &d
	}

	booking, err := h.bookings.Update(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.Confirm(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

type attendanceRequest struct {
	Attendance model.Attendance `json:"attendance"`
	Notes      *string          `json:"notes,omitempty"`
}

func (h *BookingHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	switch req.Attendance {
	case model.AttendancePresent, model.AttendanceAbsent:
	default:
		writeError(w, http.StatusBadRequest, "attendance must be PRESENT or ABSENT")
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	booking, err := h.bookings.MarkAttendance(r.Context(), id, req.Attendance, identity.UserID, identity.Roles, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	identity, _ := IdentityFromContext(r.Context())

	if err := h.bookings.Remove(r.Context(), id, identity.UserID, identity.Roles); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type monthlyRequest struct {
	TeacherID uuid.UUID  `json:"teacher_id"`
	StudentID uuid.UUID  `json:"student_id"`
	SubjectID *uuid.UUID `json:"subject_id,omitempty"`
	DayOfWeek int        `json:"day_of_week"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Month     int        `json:"month"`
	Year      int        `json:"year"`
}

// CreateMonthly разворачивает месячную заявку в пакет бронирований
func (h *BookingHandler) CreateMonthly(w http.ResponseWriter, r *http.Request) {
	var req monthlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.TeacherID == uuid.Nil || req.StudentID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "teacher_id and student_id are required")
		return
	}

	result, err := h.bookings.CreateMonthly(r.Context(), service.MonthlyParams{
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Month:     req.Month,
		Year:      req.Year,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// RenewMonthly продлевает recurring-группу на следующий месяц
func (h *BookingHandler) RenewMonthly(w http.ResponseWriter, r *http.Request) {
	groupID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	result, err := h.bookings.RenewMonthly(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) ListRecurringGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.bookings.ListRecurringGroups(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if groups == nil {
		groups = []*model.RecurringGroup{}
	}

	writeJSON(w, http.StatusOK, groups)
}
