package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RosterHandler обслуживает справочники: учителя, ученики, предметы
type RosterHandler struct {
	roster *service.RosterService
	logger *zap.Logger
}

func NewRosterHandler(roster *service.RosterService, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{roster: roster, logger: logger}
}

func parseID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}

type teacherRequest struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	MaxCapacity int        `json:"max_capacity"`
}

func (h *RosterHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}

	teacher := &model.Teacher{
		UserID:      req.UserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MaxCapacity: req.MaxCapacity,
	}
	if err := h.roster.CreateTeacher(r.Context(), teacher); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, teacher)
}

func (h *RosterHandler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	teacher, err := h.roster.GetTeacher(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, teacher)
}

func (h *RosterHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.roster.ListTeachers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if teachers == nil {
		teachers = []*model.Teacher{}
	}

	writeJSON(w, http.StatusOK, teachers)
}

func (h *RosterHandler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	var req teacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	teacher := &model.Teacher{
		ID:          id,
		UserID:      req.UserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		MaxCapacity: req.MaxCapacity,
	}
	if err := h.roster.UpdateTeacher(r.Context(), teacher); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, teacher)
}

func (h *RosterHandler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	if err := h.roster.DeleteTeacher(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type studentRequest struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	ParentEmail string     `json:"parent_email"`
	Grade       string     `json:"grade"`
	School      string     `json:"school"`
}

func (h *RosterHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "first_name and last_name are required")
		return
	}

	student := &model.Student{
		UserID:      req.UserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ParentEmail: req.ParentEmail,
		Grade:       req.Grade,
		School:      req.School,
	}
	if err := h.roster.CreateStudent(r.Context(), student); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, student)
}

func (h *RosterHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	student, err := h.roster.GetStudent(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

func (h *RosterHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.roster.ListStudents(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if students == nil {
		students = []*model.Student{}
	}

	writeJSON(w, http.StatusOK, students)
}

func (h *RosterHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	student := &model.Student{
		ID:          id,
		UserID:      req.UserID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ParentEmail: req.ParentEmail,
		Grade:       req.Grade,
		School:      req.School,
	}
	if err := h.roster.UpdateStudent(r.Context(), student); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

func (h *RosterHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	if err := h.roster.DeleteStudent(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type subjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (h *RosterHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	subject := &model.Subject{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}
	if err := h.roster.CreateSubject(r.Context(), subject); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, subject)
}

func (h *RosterHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	subject, err := h.roster.GetSubject(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

func (h *RosterHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.roster.ListSubjects(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if subjects == nil {
		subjects = []*model.Subject{}
	}

	writeJSON(w, http.StatusOK, subjects)
}

func (h *RosterHandler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	var req subjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	subject := &model.Subject{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		subject.IsActive = *req.IsActive
	}
	if err := h.roster.UpdateSubject(r.Context(), subject); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

func (h *RosterHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subject id")
		return
	}

	if err := h.roster.DeleteSubject(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
