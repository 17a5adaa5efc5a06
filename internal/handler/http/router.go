package http

import (
	"log/slog"
	"net/http"

	"github.com/crewconnect/employee-portal/internal/config"
	"github.com/crewconnect/employee-portal/internal/handler/http/middleware"
	"github.com/crewconnect/employee-portal/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/time/rate"
)

var jsonOnly = chiMiddleware.AllowContentType("application/json")

func NewRouter(cfg *config.Config, logger *slog.Logger, leaveHandler LeaveHandler, employeeHandler EmployeeHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.SecurityHeaders)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Health(w)
	})

	r.Route("/leave-requests", func(r chi.Router) {
		r.With(jsonOnly).Post("/", leaveHandler.CreateRequest)
		r.With(middleware.RateLimitByIP(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)).
			Get("/process-action", leaveHandler.ProcessAction)
		r.Get("/employee/{employeeId}", leaveHandler.ListEmployeeRequests)
	})

	r.Route("/employees", func(r chi.Router) {
		r.With(jsonOnly).Post("/", employeeHandler.CreateEmployee)
		r.Get("/{id}", employeeHandler.GetEmployee)
	})

	return r
}
