package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestLoaderSuccess verifies the loader returns upstream data when the
// table endpoint responds with a well-formed envelope.
func TestLoaderSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tables/providers" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("service"); got != "2" {
			t.Errorf("expected service=2, got %q", got)
		}
		if got := r.URL.Query().Get("pinCode"); got != "400001" {
			t.Errorf("expected pinCode=400001, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":[{"id":"x1","hourly_rate":200,"rating":4.1}],"total":1}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), server.URL, nil)
	got := loader.Load(context.Background(), "2", "400001")

	if len(got) != 1 || got[0].ID != "x1" {
		t.Fatalf("expected upstream provider x1, got %v", got)
	}
}

// TestLoaderSeedsRepository verifies the startup path: loader output feeds
// NewRepositoryWith, and the repository serves the upstream providers.
func TestLoaderSeedsRepository(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"data":[{"id":"u1","rating":4.5},{"id":"u2","rating":3.9}],"total":2}`)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	loader := NewLoader(server.Client(), server.URL, nil)
	repo := NewRepositoryWith(loader.Load(context.Background(), "", ""))

	got, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u2" {
		t.Fatalf("expected upstream providers u1, u2 in order, got %v", got)
	}
	if _, err := repo.GetByID(context.Background(), "u2"); err != nil {
		t.Errorf("GetByID(u2): %v", err)
	}
}

// TestLoaderFallsBackToDemoData verifies every failure mode degrades to
// the built-in demo list.
func TestLoaderFallsBackToDemoData(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte(`{"data": "not-a-list"`)); err != nil {
					t.Errorf("writing response: %v", err)
				}
			},
		},
		{
			name: "missing data field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte(`{"total": 0}`)); err != nil {
					t.Errorf("writing response: %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			loader := NewLoader(server.Client(), server.URL, nil)
			got := loader.Load(context.Background(), "1", "110001")

			want := DefaultProviders()
			if len(got) != len(want) || got[0].ID != want[0].ID {
				t.Errorf("expected demo data fallback, got %d providers", len(got))
			}
		})
	}
}

// TestLoaderNetworkFailure verifies an unreachable upstream also degrades
// to the demo list.
func TestLoaderNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed before use: every request fails

	loader := NewLoader(http.DefaultClient, server.URL, nil)
	got := loader.Load(context.Background(), "1", "110001")

	if len(got) != len(DefaultProviders()) {
		t.Errorf("expected demo data fallback, got %d providers", len(got))
	}
}
