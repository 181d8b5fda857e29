// Package api exposes the view controller over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/dashboard"
	"github.com/sells-group/prospector-cli/internal/monitoring"
)

// Options configures the router.
type Options struct {
	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string
	// Formatter renders dashboard cards. Cards are omitted when nil.
	Formatter *dashboard.Formatter
}

// Server handles API requests against a single Controller.
type Server struct {
	ctrl     *app.Controller
	fmt      *dashboard.Formatter
	validate *validator.Validate
}

// NewRouter builds the HTTP handler for ctrl.
func NewRouter(ctrl *app.Controller, opts Options) http.Handler {
	s := &Server{ctrl: ctrl, fmt: opts.Formatter, validate: validator.New()}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.getDashboard)
		r.Get("/board", s.getBoard)
		r.Get("/view", s.getView)
		r.Post("/view", s.postView)

		r.Route("/search", func(r chi.Router) {
			r.Get("/", s.getSearch)
			r.Post("/", s.postSearch)
			r.Post("/locate", s.postLocate)
			r.Post("/select", s.postSelect)
			r.Post("/save", s.postSave)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", s.listLeads)
			r.Post("/", s.createLead)
			r.Patch("/{id}", s.updateLead)
			r.Delete("/{id}", s.deleteLead)
		})

		r.Get("/chat", s.getChat)
		r.Post("/chat", s.postChat)
	})

	return r
}

// requestLogger logs each request and counts it by route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		monitoring.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
