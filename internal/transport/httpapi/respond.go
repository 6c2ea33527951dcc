package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutoring_api/internal/service"
	"github.com/Freeeeeet/tutoring_api/internal/timeslot"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError транслирует доменные ошибки в HTTP-статусы: ошибки входных
// данных — 400, конфликты расписания и состояния — 409, всё неопознанное — 500
// с обезличенным телом.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		notFound    *service.NotFoundError
		notAvail    *service.TeacherNotAvailableError
		outside     *service.OutsideAvailabilityError
		capExceeded *service.CapacityExceededError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &notAvail),
		errors.As(err, &outside),
		errors.As(err, &capExceeded),
		errors.Is(err, service.ErrStudentDoubleBooked),
		errors.Is(err, service.ErrAlreadyConfirmed),
		errors.Is(err, service.ErrNotConfirmed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, timeslot.ErrInvalidFormat),
		errors.Is(err, timeslot.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidMonth),
		errors.Is(err, service.ErrInvalidDayOfWeek),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrNoMatchingDates):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("unhandled service error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
