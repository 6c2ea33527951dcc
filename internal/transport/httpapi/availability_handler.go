package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/service"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	availability *service.AvailabilityService
	logger       *zap.Logger
}

func NewAvailabilityHandler(availability *service.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, logger: logger}
}

type slotRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	slot, err := h.availability.Create(r.Context(), teacherID, req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, slot)
}

type bulkSlotsRequest struct {
	Slots []service.SlotInput `json:"slots"`
}

func (h *AvailabilityHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	var req bulkSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Slots) == 0 {
		writeError(w, http.StatusBadRequest, "slots list is empty")
		return
	}

	slots, err := h.availability.CreateBulk(r.Context(), teacherID, req.Slots)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, slots)
}

func (h *AvailabilityHandler) ListByTeacher(w http.ResponseWriter, r *http.Request) {
	teacherID, err := parseID(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	slots, err := h.availability.FindByTeacher(r.Context(), teacherID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if slots == nil {
		slots = []*model.AvailabilitySlot{}
	}

	writeJSON(w, http.StatusOK, slots)
}

func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	var params service.UpdateSlotParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	slot, err := h.availability.Update(r.Context(), id, params)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, slot)
}

func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	if err := h.availability.Remove(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
