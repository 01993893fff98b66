package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	taskHandler TaskHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			// Attendance sessions
			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)
			r.Get("/check-active-clockin", attendanceHandler.ActiveClockIn)
			r.Get("/clockin-status", attendanceHandler.ClockInStatus)

			// Breaks
			r.Post("/take-break", attendanceHandler.StartBreak)
			r.Post("/end-break", attendanceHandler.EndBreak)
			r.Get("/check-active-break", attendanceHandler.ActiveBreak)

			r.Route("/timesheet", func(r chi.Router) {
				r.Get("/", attendanceHandler.Timesheet)
				r.Get("/today", attendanceHandler.HoursWorkedToday)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Patch("/{id}/update", taskHandler.Update)

				// Staff only
				r.With(middleware.StaffOnly).Post("/", taskHandler.Create)
			})

			r.Get("/leave-balance", leaveHandler.GetBalance)

			r.Route("/leave-requests", func(r chi.Router) {
				r.Get("/", leaveHandler.ListMyRequests)
				r.Post("/", leaveHandler.CreateRequest)

				// Staff only
				r.With(middleware.StaffOnly).Patch("/{id}/decision", leaveHandler.DecideRequest)
			})
		})
	})
	return r
}
