package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mallindex/internal/domain"
	dombatch "github.com/kailas-cloud/mallindex/internal/domain/batch"
	"github.com/kailas-cloud/mallindex/internal/domain/catalog"
	domentry "github.com/kailas-cloud/mallindex/internal/domain/entry"
	"github.com/kailas-cloud/mallindex/internal/logger"
	"github.com/kailas-cloud/mallindex/internal/transport/snapshot"
	categoryuc "github.com/kailas-cloud/mallindex/internal/usecase/category"
	healthuc "github.com/kailas-cloud/mallindex/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the indexing and category HTTP API.
type Server struct {
	indexer       Indexer
	resolver      CategoryResolver
	categories    CategoryWriter
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	indexer Indexer,
	resolver CategoryResolver,
	categories CategoryWriter,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indexer:    indexer,
		resolver:   resolver,
		categories: categories,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEntryNotFound, http.StatusNotFound, CodeEntryNotFound),
		sentinelHandler(domain.ErrCategoryNotFound, http.StatusNotFound, CodeCategoryNotFound),
		sentinelHandler(domain.ErrInvalidSnapshot, http.StatusBadRequest, CodeInvalidSnapshot),
		sentinelHandler(domain.ErrInvalidPath, http.StatusBadRequest, CodeInvalidPath),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusBadRequest, CodeBatchTooLarge),
		configurationHandler,
	}
	return s
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/entries/variants", s.IndexVariant)
		r.Post("/entries/variants/batch", s.BatchIndexVariants)
		r.Get("/entries/variants/{id}", s.GetVariantEntry)
		r.Delete("/entries/variants/{id}", s.DeleteVariantEntry)

		r.Put("/categories", s.ReplaceCategories)
		r.Get("/categories/path/*", s.ResolveCategory)
	})
}

// IndexVariant handles POST /v1/entries/variants. With ?dry_run=true the
// entry is built and returned without being written.
func (s *Server) IndexVariant(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "dry_run must be a boolean")
			return
		}
		dryRun = v
	}

	var req IndexVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	v, err := req.Variant.ToCatalog()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var e domentry.Entry
	if dryRun {
		e, err = s.indexer.Build(r.Context(), v, req.Overlay)
	} else {
		e, err = s.indexer.Index(r.Context(), v, req.Overlay)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{Key: e.Key(), Document: e.Data(), DryRun: dryRun})
}

// BatchIndexVariants handles POST /v1/entries/variants/batch.
func (s *Server) BatchIndexVariants(w http.ResponseWriter, r *http.Request) {
	var req BatchIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Variants) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "variants must not be empty")
		return
	}

	// Snapshots that fail conversion are reported without being built.
	items := make([]BatchResultItem, len(req.Variants))
	variants := make([]*catalog.Variant, 0, len(req.Variants))
	idx := make([]int, 0, len(req.Variants))
	for i, snap := range req.Variants {
		v, err := snap.ToCatalog()
		if err != nil {
			items[i] = batchResultToAPI(dombatch.NewError(snap.ID, err))
			continue
		}
		variants = append(variants, v)
		idx = append(idx, i)
	}

	if len(variants) > 0 {
		for j, res := range s.indexer.IndexBatch(r.Context(), variants) {
			items[idx[j]] = batchResultToAPI(res)
		}
	}

	succeeded, failed := 0, 0
	for _, it := range items {
		if it.Status == string(dombatch.StatusIndexed) {
			succeeded++
		} else {
			failed++
		}
	}

	writeJSON(w, http.StatusOK, BatchIndexResponse{Items: items, Succeeded: succeeded, Failed: failed})
}

// GetVariantEntry handles GET /v1/entries/variants/{id}.
func (s *Server) GetVariantEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := variantIDParam(w, r)
	if !ok {
		return
	}

	doc, err := s.indexer.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, EntryResponse{
		Key:      domentry.DocumentKey(domentry.IndexVariants, id),
		Document: doc,
	})
}

// DeleteVariantEntry handles DELETE /v1/entries/variants/{id}.
func (s *Server) DeleteVariantEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := variantIDParam(w, r)
	if !ok {
		return
	}

	if err := s.indexer.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplaceCategories handles PUT /v1/categories.
func (s *Server) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := snapshot.DecodeTree(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	cats := snapshot.CategoriesToCatalog(tree.Categories)
	if err := s.categories.Replace(r.Context(), cats); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ReplaceCategoriesResponse{Count: len(cats)})
}

// ResolveCategory handles GET /v1/categories/path/*.
func (s *Server) ResolveCategory(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if len(categoryuc.Segments(path)) == 0 {
		s.handleDomainError(w, r, fmt.Errorf("empty path: %w", domain.ErrInvalidPath))
		return
	}

	c, err := s.resolver.Resolve(r.Context(), path)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot.CategoryFromCatalog(c))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func variantIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	var ce *domain.ConfigurationError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	sentinels := []error{
		domain.ErrEntryNotFound,
		domain.ErrCategoryNotFound,
		domain.ErrInvalidSnapshot,
		domain.ErrInvalidPath,
		domain.ErrBatchTooLarge,
		domain.ErrConfiguration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// configurationHandler reports broken upstream preconditions with the failing component.
func configurationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrConfiguration) {
		return false
	}
	writeError(w, http.StatusUnprocessableEntity, CodeConfigurationError, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func batchResultToAPI(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{
		VariantID: r.VariantID(),
		Key:       r.Key(),
		Status:    string(r.Status()),
	}
	if r.Err() != nil {
		item.Error = &ErrorResponse{
			Code:    batchErrorCode(r.Err()),
			Message: safeDomainMessage(r.Err()),
		}
	}
	return item
}

func batchErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, domain.ErrInvalidSnapshot):
		return CodeInvalidSnapshot
	case errors.Is(err, domain.ErrConfiguration):
		return CodeConfigurationError
	case errors.Is(err, domain.ErrBatchTooLarge):
		return CodeBatchTooLarge
	default:
		return CodeInternalError
	}
}
