package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shiftline/shiftline-backend/api/controllers"
	"github.com/shiftline/shiftline-backend/api/middleware"
	"github.com/shiftline/shiftline-backend/internal/attendance"
	"github.com/shiftline/shiftline-backend/internal/auth"
	"github.com/shiftline/shiftline-backend/internal/reports"
	"github.com/shiftline/shiftline-backend/internal/shifts"
	"github.com/shiftline/shiftline-backend/internal/users"
	"github.com/shiftline/shiftline-backend/pkg/auth/session"
	"github.com/shiftline/shiftline-backend/pkg/config"
	"github.com/shiftline/shiftline-backend/pkg/db"
	"github.com/shiftline/shiftline-backend/pkg/logger"
	"github.com/shiftline/shiftline-backend/pkg/metrics"
	"github.com/shiftline/shiftline-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService       auth.Service
	UsersService      users.Service
	ShiftsService     shifts.Service
	AttendanceService attendance.Service
	ReportsService    reports.Service
}

// NewRouter assembles the full route table.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	loginLimiter := func(next http.Handler) http.Handler { return next }
	if p.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(loginPolicy, p.Redis, logg)
	}

	var pingers []db.Pinger
	if p.DB != nil {
		pingers = append(pingers, p.DB)
	}
	if p.Redis != nil {
		pingers = append(pingers, p.Redis)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Get("/roster", controllers.Roster(p.ShiftsService, logg))
		r.Get("/shifts/{shiftId}", controllers.GetShift(p.ShiftsService, logg))

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", controllers.ClockIn(p.AttendanceService, logg))
			r.Post("/clock-out", controllers.ClockOut(p.AttendanceService, logg))
			r.Get("/{attendanceId}", controllers.GetAttendance(p.AttendanceService, logg))
		})
		r.Get("/users/{userId}/attendance", controllers.ListUserAttendance(p.AttendanceService, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/users", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateUser(p.UsersService, logg))
				r.Get("/", controllers.AdminListUsers(p.UsersService, logg))
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Post("/", controllers.AdminScheduleShift(p.ShiftsService, logg))
				r.Post("/bulk", controllers.AdminScheduleWeek(p.ShiftsService, logg))
				r.Patch("/{shiftId}", controllers.AdminUpdateShift(p.ShiftsService, logg))
				r.Delete("/{shiftId}", controllers.AdminDeleteShift(p.ShiftsService, logg))
				r.Get("/{shiftId}/attendance", controllers.AdminListShiftAttendance(p.AttendanceService, logg))
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/approve", controllers.AdminApproveAttendance(p.AttendanceService, logg))
				r.Post("/unapprove", controllers.AdminUnapproveAttendance(p.AttendanceService, logg))
				r.Delete("/{attendanceId}", controllers.AdminDeleteAttendance(p.AttendanceService, logg))
			})

			r.Get("/reports/weekly", controllers.AdminWeeklyReport(p.ReportsService, logg))
		})
	})

	return r
}
