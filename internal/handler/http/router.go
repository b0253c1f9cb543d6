package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-workforce-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workforce-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-workforce-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, attendanceHandler AttendanceHandler, leaveHandler LeaveHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(otelhttp.NewMiddleware(opts.AppName))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Post("/break/start", attendanceHandler.StartBreak)
				r.Post("/break/end", attendanceHandler.EndBreak)
				r.Get("/today", attendanceHandler.Today)

				r.Get("/users/{userID}", attendanceHandler.ListByUser)
				r.Get("/users/{userID}/stats", attendanceHandler.Stats)

				// Managers only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityManagerRole))
					r.Post("/approve", attendanceHandler.Approve)
				})

				r.With(middleware.RequireCapability(user.CapabilityViewGlobalStats)).
					Get("/stats/today", attendanceHandler.GlobalStats)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.Submit)
				r.Get("/balance", leaveHandler.Balance)
				r.Get("/users/{userID}", leaveHandler.ListByUser)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(user.CapabilityApproveLeaves))
					r.Get("/pending/{stage}", leaveHandler.Pending)
					r.Post("/{id}/stages/{stage}", leaveHandler.Review)
				})

				r.Get("/{id}", leaveHandler.Get)
				r.Post("/{id}/cancel", leaveHandler.Cancel)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
