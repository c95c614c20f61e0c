package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaldikaro/jaldikaro/internal/service"
)

func newServiceHandlers() *ServiceHandlers {
	return NewServiceHandlers(service.NewCatalog(service.DefaultServices()))
}

func decodeList(t *testing.T, body []byte) (data []json.RawMessage, total int) {
	t.Helper()
	var resp struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	return resp.Data, resp.Total
}

func TestListServices(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services", nil)
	w := httptest.NewRecorder()
	h.ListServices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	data, total := decodeList(t, w.Body.Bytes())
	if total == 0 || len(data) != total {
		t.Errorf("expected non-empty list with matching total, got %d items, total %d", len(data), total)
	}
}

func TestListServicesSearch(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services?search=electr", nil)
	w := httptest.NewRecorder()
	h.ListServices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data  []service.Service `json:"data"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total == 0 {
		t.Fatal("expected at least one match for 'electr'")
	}
	for _, s := range resp.Data {
		if s.Category != "electrician" {
			t.Errorf("unexpected service %q in search results", s.ID)
		}
	}
}

func TestListServicesByCategory(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services?category=plumber", nil)
	w := httptest.NewRecorder()
	h.ListServices(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data []service.Service `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	for _, s := range resp.Data {
		if s.Category != "plumber" {
			t.Errorf("service %q has category %q, want plumber", s.ID, s.Category)
		}
	}
}

func TestListCategories(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services/categories", nil)
	w := httptest.NewRecorder()
	h.ListCategories(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	data, _ := decodeList(t, w.Body.Bytes())
	if len(data) == 0 {
		t.Error("expected at least one category")
	}
}

func TestGetService(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services/2", nil)
	w := httptest.NewRecorder()
	h.GetService(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data service.Service `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.ID != "2" {
		t.Errorf("expected service 2, got %q", resp.Data.ID)
	}
}

func TestGetServiceNotFound(t *testing.T) {
	h := newServiceHandlers()

	req := httptest.NewRequest(http.MethodGet, "/tables/services/nope", nil)
	w := httptest.NewRecorder()
	h.GetService(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error.Code != ErrCodeServiceNotFound {
		t.Errorf("expected error code %s, got %s", ErrCodeServiceNotFound, errResp.Error.Code)
	}
}
