package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimitConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  RateLimitConfig
		wantErr bool
	}{
		{name: "valid", config: RateLimitConfig{RequestsPerWindow: 10, WindowDuration: time.Minute}, wantErr: false},
		{name: "zero requests", config: RateLimitConfig{RequestsPerWindow: 0, WindowDuration: time.Minute}, wantErr: true},
		{name: "zero window", config: RateLimitConfig{RequestsPerWindow: 10}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInMemoryStoreAllowsUpToLimit(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 3, WindowDuration: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if allowed, _ := store.Allow(ctx, "key", config); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := store.Allow(ctx, "key", config)
	if allowed {
		t.Error("4th request should be blocked")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want 1..60", retryAfter)
	}
}

func TestInMemoryStoreIndependentKeys(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}
	ctx := context.Background()

	if allowed, _ := store.Allow(ctx, "a", config); !allowed {
		t.Error("first request for key a should be allowed")
	}
	if allowed, _ := store.Allow(ctx, "b", config); !allowed {
		t.Error("first request for key b should be allowed")
	}
	if allowed, _ := store.Allow(ctx, "a", config); allowed {
		t.Error("second request for key a should be blocked")
	}
}

func TestInMemoryStoreWindowExpiry(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 30 * time.Millisecond}
	ctx := context.Background()

	store.Allow(ctx, "key", config)
	if allowed, _ := store.Allow(ctx, "key", config); allowed {
		t.Fatal("should be blocked inside window")
	}

	time.Sleep(50 * time.Millisecond)
	if allowed, _ := store.Allow(ctx, "key", config); !allowed {
		t.Error("should be allowed after window expiry")
	}
}

func TestInMemoryStoreCleanup(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: 10 * time.Millisecond}
	store.Allow(context.Background(), "stale", config)

	time.Sleep(20 * time.Millisecond)
	store.Cleanup()

	store.mu.RLock()
	defer store.mu.RUnlock()
	if len(store.buckets) != 0 {
		t.Errorf("buckets = %d, want 0 after cleanup", len(store.buckets))
	}
}

func newMiniredisStore(t *testing.T) (*RedisRateLimitStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRateLimitStore(client), mr
}

func TestRedisStoreAllowsUpToLimit(t *testing.T) {
	store, _ := newMiniredisStore(t)
	config := RateLimitConfig{RequestsPerWindow: 2, WindowDuration: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if allowed, _ := store.Allow(ctx, "booking:key", config); !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := store.Allow(ctx, "booking:key", config)
	if allowed {
		t.Error("3rd request should be blocked")
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want 1..60", retryAfter)
	}
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	store, mr := newMiniredisStore(t)
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Second}
	ctx := context.Background()

	store.Allow(ctx, "key", config)
	if allowed, _ := store.Allow(ctx, "key", config); allowed {
		t.Fatal("should be blocked inside window")
	}

	mr.FastForward(2 * time.Second)
	if allowed, _ := store.Allow(ctx, "key", config); !allowed {
		t.Error("should be allowed after window expiry")
	}
}

func TestRedisStoreFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	defer client.Close()
	store := NewRedisRateLimitStore(client).WithMetrics(NewMetrics())

	allowed, _ := store.Allow(context.Background(), "key", RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute})
	if !allowed {
		t.Error("should fail open when Redis is unreachable")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	store := NewInMemoryRateLimitStore()
	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}
	handler := RateLimiter(store, config, IPKeyFunc())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/tables/bookings", nil)
	req.RemoteAddr = "203.0.113.7:4411"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("X-RateLimit-Reset header should be set")
	}
}

func TestIPKeyFunc(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{name: "remote addr with port", remoteAddr: "198.51.100.4:9000", want: "198.51.100.4"},
		{name: "x-forwarded-for single", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.9"}, want: "203.0.113.9"},
		{name: "x-forwarded-for chain", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}, want: "203.0.113.9"},
		{name: "x-real-ip", remoteAddr: "10.0.0.1:80", headers: map[string]string{"X-Real-IP": " 203.0.113.11 "}, want: "203.0.113.11"},
	}

	keyFunc := IPKeyFunc()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := keyFunc(req); got != tt.want {
				t.Errorf("key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdminKeyFunc(t *testing.T) {
	keyFunc := AdminKeyFunc()

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.RemoteAddr = "198.51.100.4:9000"
	if got := keyFunc(req); got != "ip:198.51.100.4" {
		t.Errorf("anonymous key = %q, want ip fallback", got)
	}

	req = req.WithContext(SetAdminUser(req.Context(), "admin-1"))
	if got := keyFunc(req); got != "admin:admin-1" {
		t.Errorf("authenticated key = %q, want admin:admin-1", got)
	}
}
