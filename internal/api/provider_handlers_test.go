package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaldikaro/jaldikaro/internal/provider"
)

func newProviderHandlers() *ProviderHandlers {
	return NewProviderHandlers(provider.NewSeededRepository(), provider.NewEngine(nil))
}

func decodeProviderList(t *testing.T, body []byte) ([]provider.Provider, int) {
	t.Helper()
	var resp struct {
		Data  []provider.Provider `json:"data"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode provider list: %v", err)
	}
	return resp.Data, resp.Total
}

func TestListProviders(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers", nil)
	w := httptest.NewRecorder()
	h.ListProviders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data, total := decodeList(t, w.Body.Bytes())
	if total == 0 || len(data) != total {
		t.Errorf("expected full seeded list, got %d items, total %d", len(data), total)
	}
}

func TestListProvidersByService(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers?service_id=1", nil)
	w := httptest.NewRecorder()
	h.ListProviders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	providers, _ := decodeProviderList(t, w.Body.Bytes())
	if len(providers) == 0 {
		t.Fatal("expected carpenters in seeded data")
	}
	for _, p := range providers {
		found := false
		for _, s := range p.Services {
			if s == "1" {
				found = true
			}
		}
		if !found {
			t.Errorf("provider %q does not offer service 1", p.ID)
		}
	}
}

func TestListProvidersOnlineVerifiedFilters(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers?online=true&verified=true", nil)
	w := httptest.NewRecorder()
	h.ListProviders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	providers, _ := decodeProviderList(t, w.Body.Bytes())
	for _, p := range providers {
		if !p.IsOnline || !p.IsVerified {
			t.Errorf("provider %q leaked through online/verified filters", p.ID)
		}
	}
}

func TestListProvidersSortedByRating(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers?sort=rating", nil)
	w := httptest.NewRecorder()
	h.ListProviders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	providers, _ := decodeProviderList(t, w.Body.Bytes())
	for i := 1; i < len(providers); i++ {
		if providers[i].Rating > providers[i-1].Rating {
			t.Errorf("providers not sorted by rating at index %d: %f > %f",
				i, providers[i].Rating, providers[i-1].Rating)
		}
	}
}

func TestListProvidersPagination(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers?page=1&page_size=2", nil)
	w := httptest.NewRecorder()
	h.ListProviders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	providers, total := decodeProviderList(t, w.Body.Bytes())
	if len(providers) != 2 {
		t.Errorf("expected page of 2 providers, got %d", len(providers))
	}
	if total <= 2 {
		t.Errorf("expected total to count all matches, got %d", total)
	}
}

func TestGetProvider(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers/p1", nil)
	w := httptest.NewRecorder()
	h.GetProvider(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data provider.Provider `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != "p1" {
		t.Errorf("expected provider p1, got %q", resp.Data.ID)
	}
}

func TestGetProviderNotFound(t *testing.T) {
	h := newProviderHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/providers/ghost", nil)
	w := httptest.NewRecorder()
	h.GetProvider(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error.Code != ErrCodeProviderNotFound {
		t.Errorf("expected error code %s, got %s", ErrCodeProviderNotFound, errResp.Error.Code)
	}
}
