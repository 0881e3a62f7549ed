// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/auth"
	"github.com/YusovID/agency-backoffice/internal/config"
	"github.com/YusovID/agency-backoffice/internal/service"
	"github.com/YusovID/agency-backoffice/internal/validation"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
	"github.com/YusovID/agency-backoffice/swagger"
)

const maxBodyBytes = 1 << 20

// Authenticator is implemented by auth.Manager.
type Authenticator interface {
	Login(email, password string) (*auth.Token, error)
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the business logic the handlers call into.
type Services struct {
	Reports   service.ReportService
	Contacts  service.ContactService
	Projects  service.ProjectService
	Tasks     service.TaskService
	Revenue   service.RevenueService
	Metrics   service.MetricService
	Dashboard service.DashboardService
}

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log     *slog.Logger
	svc     Services
	auth    Authenticator
	db      Pinger
	limiter *ipRateLimiter
	now     func() time.Time
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	svc Services,
	authenticator Authenticator,
	db Pinger,
	rl config.RateLimit,
) *Server {
	return &Server{
		log:     log,
		svc:     svc,
		auth:    authenticator,
		db:      db,
		limiter: newIPRateLimiter(rl.RequestsPerMinute, rl.Burst, time.Now),
		now:     time.Now,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)
	mux.Use(s.recoverPanic)

	mux.Get("/healthz", s.healthz)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/swagger", http.StripPrefix("/swagger", swagger.GetHandler()))

	mux.Route("/api", func(r chi.Router) {
		r.With(s.rateLimit).Post("/contact", s.submitLead(""))
		r.With(s.rateLimit).Post("/quote", s.submitLead(quoteSource))

		r.Route("/admin", func(r chi.Router) {
			r.With(s.rateLimit).Post("/login", s.login)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/dashboard", s.dashboard)

				r.Route("/reports", func(r chi.Router) {
					r.Get("/", s.listReports)
					r.Post("/", s.generateReport)
					r.Get("/export", s.exportReports)
					r.Get("/{id}", s.getReport)
					r.Delete("/{id}", s.deleteReport)
					r.Get("/{id}/download", s.downloadReport)
					r.Post("/{id}/email", s.emailReport)
				})

				r.Route("/contacts", func(r chi.Router) {
					r.Get("/", s.listContacts)
					r.Post("/", s.createContact)
					r.Get("/{id}", s.getContact)
					r.Put("/{id}", s.updateContact)
					r.Delete("/{id}", s.deleteContact)
					r.Patch("/{id}/status", s.updateContactStatus)
				})

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", s.listProjects)
					r.Post("/", s.createProject)
					r.Get("/{id}", s.getProject)
					r.Put("/{id}", s.updateProject)
					r.Delete("/{id}", s.deleteProject)
					r.Get("/{id}/tasks", s.listTasks)
					r.Post("/{id}/tasks", s.createTask)
				})

				r.Put("/tasks/{id}", s.updateTask)
				r.Delete("/tasks/{id}", s.deleteTask)

				r.Route("/revenue", func(r chi.Router) {
					r.Get("/", s.listRevenue)
					r.Post("/", s.createRevenue)
					r.Get("/export", s.exportRevenue)
					r.Delete("/{id}", s.deleteRevenue)
				})

				r.Get("/metrics", s.listMetrics)
				r.Post("/metrics", s.recordMetric)
			})
		})
	})

	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Error("health check failed", sl.Err(err))
		s.respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

func (s *Server) respondSuccess(w http.ResponseWriter) {
	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

// respondFile writes a binary download with an attachment disposition.
func (s *Server) respondFile(w http.ResponseWriter, contentType, filename string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(content)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		s.log.Error("failed to write file response", sl.Err(err))
	}
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := s.decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// pathID returns the {id} URL parameter. Ids that are not UUIDs cannot
// exist, so they are reported as not found without touching the database.
func pathID(r *http.Request, resource string) (string, error) {
	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		return "", apperrors.NotFound(resource, id)
	}

	return id, nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)

	var (
		validationErr *validation.ValidationError
		notFoundErr   *apperrors.NotFoundError
		transitionErr *apperrors.InvalidTransitionError
		mailErr       *apperrors.MailDeliveryError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn("request rejected", sl.Err(err))
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrUnauthorized):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error())
	case errors.As(err, &notFoundErr):
		log.Warn("resource not found", sl.Err(err))
		s.respondError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		log.Warn("resource not found", sl.Err(err))
		s.respondError(w, http.StatusNotFound, apperrors.ErrNotFound.Error())
	case errors.As(err, &transitionErr):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, apperrors.ErrAlreadyExists):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusConflict, apperrors.ErrAlreadyExists.Error())
	case errors.Is(err, apperrors.ErrNoRecipient):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusUnprocessableEntity, apperrors.ErrNoRecipient.Error())
	case errors.As(err, &mailErr):
		log.Error("mail delivery failed", slog.String("reason", mailErr.Reason))
		s.respondError(w, http.StatusInternalServerError, apperrors.ErrMailDelivery.Error())
	default:
		log.Error("service error occurred", sl.Err(err))
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
