package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaldikaro/jaldikaro/internal/service"
)

// ServiceHandlers holds dependencies for service catalog HTTP handlers.
type ServiceHandlers struct {
	catalog service.Catalog
}

// NewServiceHandlers creates a new ServiceHandlers instance.
func NewServiceHandlers(catalog service.Catalog) *ServiceHandlers {
	return &ServiceHandlers{catalog: catalog}
}

// extractServiceID extracts the service ID from the URL path.
func extractServiceID(r *http.Request) (string, error) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tables/services/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", fmt.Errorf("service ID is required")
	}
	return parts[0], nil
}

// ListServices handles GET /tables/services.
// Supports ?search=, ?category=, and ?emergency=true query filters; without
// filters it returns the full active catalog.
func (h *ServiceHandlers) ListServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	var (
		services []service.Service
		err      error
	)
	switch {
	case q.Get("search") != "":
		services, err = h.catalog.Search(ctx, q.Get("search"))
	case q.Get("category") != "":
		services, err = h.catalog.ByCategory(ctx, q.Get("category"))
	case q.Get("emergency") == "true":
		services, err = h.catalog.Emergency(ctx)
	default:
		services, err = h.catalog.List(ctx)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to list services", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list services")
		return
	}

	writeList(w, r, services, len(services))
}

// ListCategories handles GET /tables/services/categories.
func (h *ServiceHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list categories", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list categories")
		return
	}

	writeList(w, r, categories, len(categories))
}

// GetService handles GET /tables/services/{id}.
func (h *ServiceHandlers) GetService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	id, err := extractServiceID(r)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Service ID is required")
		return
	}

	svc, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeServiceNotFound, "Service not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to get service", "id", id, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to get service")
		return
	}

	writeData(w, r, http.StatusOK, svc)
}
