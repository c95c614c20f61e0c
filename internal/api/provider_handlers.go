package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jaldikaro/jaldikaro/internal/provider"
)

// ProviderHandlers holds dependencies for provider discovery HTTP handlers.
type ProviderHandlers struct {
	repo   provider.Repository
	engine *provider.Engine
}

// NewProviderHandlers creates a new ProviderHandlers instance.
func NewProviderHandlers(repo provider.Repository, engine *provider.Engine) *ProviderHandlers {
	return &ProviderHandlers{repo: repo, engine: engine}
}

// extractProviderID extracts the provider ID from the URL path.
func extractProviderID(r *http.Request) (string, error) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tables/providers/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", fmt.Errorf("provider ID is required")
	}
	return parts[0], nil
}

// parsePage builds the pagination window from query values. Malformed
// values fall back to the first page at the default size.
func parsePage(q map[string][]string) provider.Page {
	page := provider.Page{Number: 1, Size: provider.DefaultPageSize}
	if vals := q["page"]; len(vals) > 0 {
		if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 {
			page.Number = n
		}
	}
	if vals := q["page_size"]; len(vals) > 0 {
		if n, err := strconv.Atoi(vals[0]); err == nil && n > 0 {
			page.Size = n
		}
	}
	return page
}

// ListProviders handles GET /tables/providers.
// The full filter/sort surface of the discovery listing rides on query
// parameters:
//
//	service_id  restrict to providers offering the service
//	price       all|budget|medium|premium
//	rating      minimum rating, e.g. "4+" or "4.5+"
//	distance    maximum distance in km
//	online      "true" for online providers only
//	verified    "true" for verified providers only
//	sort        recommended|price_low|price_high|rating|distance
//	page        1-based page number (window extends, it never shifts)
//	page_size   rows per page, default 10
//
// Total in the response envelope counts all matches, not just the window.
func (h *ProviderHandlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	candidates, err := h.repo.List(ctx, q.Get("service_id"))
	if err != nil {
		slog.ErrorContext(ctx, "failed to list providers", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list providers")
		return
	}

	filters := provider.ParseFilterConfig(
		q.Get("price"),
		q.Get("rating"),
		q.Get("distance"),
		q.Get("online") == "true",
		q.Get("verified") == "true",
	)
	mode := provider.ParseSortMode(q.Get("sort"))

	ranked := h.engine.RankAll(candidates, filters, mode)
	page := parsePage(q)
	window := ranked[:page.Window(len(ranked))]

	writeList(w, r, window, len(ranked))
}

// GetProvider handles GET /tables/providers/{id}.
func (h *ProviderHandlers) GetProvider(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	id, err := extractProviderID(r)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Provider ID is required")
		return
	}

	p, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, provider.ErrProviderNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeProviderNotFound, "Provider not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to get provider", "id", id, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to get provider")
		return
	}

	writeData(w, r, http.StatusOK, p)
}
