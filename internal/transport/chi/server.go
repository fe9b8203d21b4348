// Package chi exposes the catalog and search use cases over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/serviplace/searchapi/internal/domain"
	"github.com/serviplace/searchapi/internal/domain/query"
	cataloguc "github.com/serviplace/searchapi/internal/usecase/catalog"
	hashtaguc "github.com/serviplace/searchapi/internal/usecase/hashtag"
	healthuc "github.com/serviplace/searchapi/internal/usecase/health"
	listinguc "github.com/serviplace/searchapi/internal/usecase/listing"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use cases to the chi router.
type Server struct {
	catalog       *cataloguc.Service
	listing       *listinguc.Service
	hashtags      *hashtaguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	listing *listinguc.Service,
	hashtags *hashtaguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:  catalog,
		listing:  listing,
		hashtags: hashtags,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrFilterNotSupported, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrSortNotSupported, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrBadSortReverse, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrServiceNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes registers every API route on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)

	r.Route("/services", func(r chi.Router) {
		r.Get("/", s.listServices)
		r.Post("/", s.createService)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getService)
			r.Put("/", s.updateService)
			r.Delete("/", s.retireService)
			r.Post("/pause", s.pauseService)
			r.Post("/resume", s.resumeService)
			r.Post("/contracts/complete", s.completeContract)
			r.Post("/reviews", s.addReview)
		})
	})

	r.Get("/hashtags/{count}", s.topHashtags)
}

// listServices handles GET /services. The query descriptor (search text,
// range filters, sort) arrives as an optional JSON body; ?owner= narrows
// the listing to one user's catalog.
func (s *Server) listServices(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q, err := queryFromDTO(&req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	actor := domain.ActorFromContext(r.Context())
	owner := r.URL.Query().Get("owner")

	services, err := s.listing.List(r.Context(), actor, owner, q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]serviceResponse, len(services))
	for i := range services {
		items[i] = serviceToDTO(&services[i])
	}
	writeJSON(w, http.StatusOK, serviceListResponse{Items: items, Total: len(items)})
}

// getService handles GET /services/{id}.
func (s *Server) getService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	svc, err := s.catalog.Get(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceToDTO(&svc))
}

// createService handles POST /services.
func (s *Server) createService(w http.ResponseWriter, r *http.Request) {
	var req upsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor := domain.ActorFromContext(r.Context())
	svc, err := s.catalog.Create(r.Context(), actor, req.Title, req.Description, req.Price)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/services/"+strconv.FormatInt(svc.ID(), 10))
	writeJSON(w, http.StatusCreated, serviceToDTO(&svc))
}

// updateService handles PUT /services/{id}. The edited service comes back
// with a fresh row id; the master id is stable across edits.
func (s *Server) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	var req upsertServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	actor := domain.ActorFromContext(r.Context())
	svc, err := s.catalog.Update(r.Context(), actor, id, req.Title, req.Description, req.Price)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, serviceToDTO(&svc))
}

// retireService handles DELETE /services/{id}.
func (s *Server) retireService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Retire(r.Context(), domain.ActorFromContext(r.Context()), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pauseService handles POST /services/{id}/pause.
func (s *Server) pauseService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Pause(r.Context(), domain.ActorFromContext(r.Context()), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resumeService handles POST /services/{id}/resume.
func (s *Server) resumeService(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Resume(r.Context(), domain.ActorFromContext(r.Context()), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// completeContract handles POST /services/{id}/contracts/complete.
func (s *Server) completeContract(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.CompleteContract(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addReview handles POST /services/{id}/reviews.
func (s *Server) addReview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.serviceID(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.catalog.AddReview(r.Context(), id, req.Stars); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// topHashtags handles GET /hashtags/{count}.
func (s *Server) topHashtags(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "count must be an integer")
		return
	}

	tags, err := s.hashtags.Top(r.Context(), count)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, hashtagListResponse{Hashtags: tags})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) serviceID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "service id must be an integer")
		return 0, false
	}
	return id, true
}

// queryFromDTO builds the validated query descriptor. The sort's reverse
// flag is checked here: anything but a JSON boolean is rejected.
func queryFromDTO(req *listRequest) (query.Query, error) {
	var filters map[string]query.Bounds
	if len(req.Filters) > 0 {
		filters = make(map[string]query.Bounds, len(req.Filters))
		for key, b := range req.Filters {
			filters[key] = query.Bounds{Min: b.Min, Max: b.Max}
		}
	}

	var sortSpec *query.Sort
	if req.Sort != nil {
		reverse := false
		if req.Sort.Reverse != nil {
			b, ok := req.Sort.Reverse.(bool)
			if !ok {
				return query.Query{}, domain.ErrBadSortReverse
			}
			reverse = b
		}
		sortSpec = &query.Sort{By: req.Sort.By, Reverse: reverse}
	}

	return query.New(req.SearchText, filters, sortSpec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrServiceNotFound,
		domain.ErrFilterNotSupported,
		domain.ErrSortNotSupported,
		domain.ErrBadSortReverse,
		domain.ErrValidation,
		domain.ErrForbidden,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
