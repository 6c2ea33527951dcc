package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutoring_api/internal/model"
	"github.com/Freeeeeet/tutoring_api/internal/service"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Server собирает маршруты и middleware поверх стандартного http.Server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(
	addr string,
	jwtSecret string,
	users *service.UserService,
	roster *service.RosterService,
	availability *service.AvailabilityService,
	bookings *service.BookingService,
	logger *zap.Logger,
) *Server {
	authHandler := NewAuthHandler(users, logger)
	rosterHandler := NewRosterHandler(roster, logger)
	availabilityHandler := NewAvailabilityHandler(availability, logger)
	bookingHandler := NewBookingHandler(bookings, logger)

	authed := WithAuth(jwtSecret)
	adminOnly := RequireRole(model.RoleAdmin)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("GET /auth/me", Chain(http.HandlerFunc(authHandler.Me), authed))
	mux.Handle("POST /auth/telegram", Chain(http.HandlerFunc(authHandler.LinkTelegram), authed))
	mux.Handle("POST /users/{id}/roles", Chain(http.HandlerFunc(authHandler.GrantRole), authed, adminOnly))

	// Справочники: чтение любому аутентифицированному, изменение — администратору
	mux.Handle("GET /teachers", Chain(http.HandlerFunc(rosterHandler.ListTeachers), authed))
	mux.Handle("GET /teachers/{id}", Chain(http.HandlerFunc(rosterHandler.GetTeacher), authed))
	mux.Handle("POST /teachers", Chain(http.HandlerFunc(rosterHandler.CreateTeacher), authed, adminOnly))
	mux.Handle("PUT /teachers/{id}", Chain(http.HandlerFunc(rosterHandler.UpdateTeacher), authed, adminOnly))
	mux.Handle("DELETE /teachers/{id}", Chain(http.HandlerFunc(rosterHandler.DeleteTeacher), authed, adminOnly))

	mux.Handle("GET /students", Chain(http.HandlerFunc(rosterHandler.ListStudents), authed, adminOnly))
	mux.Handle("GET /students/{id}", Chain(http.HandlerFunc(rosterHandler.GetStudent), authed))
	mux.Handle("POST /students", Chain(http.HandlerFunc(rosterHandler.CreateStudent), authed, adminOnly))
	mux.Handle("PUT /students/{id}", Chain(http.HandlerFunc(rosterHandler.UpdateStudent), authed, adminOnly))
	mux.Handle("DELETE /students/{id}", Chain(http.HandlerFunc(rosterHandler.DeleteStudent), authed, adminOnly))

	mux.Handle("GET /subjects", Chain(http.HandlerFunc(rosterHandler.ListSubjects), authed))
	mux.Handle("GET /subjects/{id}", Chain(http.HandlerFunc(rosterHandler.GetSubject), authed))
	mux.Handle("POST /subjects", Chain(http.HandlerFunc(rosterHandler.CreateSubject), authed, adminOnly))
	mux.Handle("PUT /subjects/{id}", Chain(http.HandlerFunc(rosterHandler.UpdateSubject), authed, adminOnly))
	mux.Handle("DELETE /subjects/{id}", Chain(http.HandlerFunc(rosterHandler.DeleteSubject), authed, adminOnly))

	mux.Handle("GET /teachers/{teacherID}/availability", Chain(http.HandlerFunc(availabilityHandler.ListByTeacher), authed))
	mux.Handle("POST /teachers/{teacherID}/availability", Chain(http.HandlerFunc(availabilityHandler.Create), authed, adminOnly))
	mux.Handle("POST /teachers/{teacherID}/availability/bulk", Chain(http.HandlerFunc(availabilityHandler.CreateBulk), authed, adminOnly))
	mux.Handle("PATCH /availability/{id}", Chain(http.HandlerFunc(availabilityHandler.Update), authed, adminOnly))
	mux.Handle("DELETE /availability/{id}", Chain(http.HandlerFunc(availabilityHandler.Delete), authed, adminOnly))

	mux.Handle("GET /bookings", Chain(http.HandlerFunc(bookingHandler.List), authed))
	mux.Handle("GET /bookings/{id}", Chain(http.HandlerFunc(bookingHandler.Get), authed))
	mux.Handle("POST /bookings", Chain(http.HandlerFunc(bookingHandler.Create), authed))
	mux.Handle("PATCH /bookings/{id}", Chain(http.HandlerFunc(bookingHandler.Update), authed))
	mux.Handle("DELETE /bookings/{id}", Chain(http.HandlerFunc(bookingHandler.Delete), authed))
	mux.Handle("POST /bookings/assign", Chain(http.HandlerFunc(bookingHandler.AdminAssign), authed, adminOnly))
	mux.Handle("POST /bookings/{id}/confirm", Chain(http.HandlerFunc(bookingHandler.Confirm), authed, adminOnly))
	mux.Handle("POST /bookings/{id}/attendance", Chain(http.HandlerFunc(bookingHandler.MarkAttendance), authed, RequireRole(model.RoleAdmin, model.RoleTeacher)))

	mux.Handle("POST /bookings/monthly", Chain(http.HandlerFunc(bookingHandler.CreateMonthly), authed, adminOnly))
	mux.Handle("GET /recurring-groups", Chain(http.HandlerFunc(bookingHandler.ListRecurringGroups), authed, adminOnly))
	mux.Handle("POST /recurring-groups/{id}/renew", Chain(http.HandlerFunc(bookingHandler.RenewMonthly), authed, adminOnly))

	handler := Chain(mux,
		WithRequestID,
		WithAccessLog(logger),
		WithRecover(logger),
		WithBodyLimit(maxBodyBytes),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start блокирует до остановки сервера
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown мягко завершает обслуживание запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
