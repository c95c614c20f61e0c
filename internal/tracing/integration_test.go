package tracing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jaldikaro/jaldikaro/internal/middleware"
	"github.com/jaldikaro/jaldikaro/internal/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

// TestRequestSpansShareOneTrace drives a request through the tracing
// middleware into a handler that opens business and database spans, then
// checks the whole tree landed in one trace.
func TestRequestSpansShareOneTrace(t *testing.T) {
	recorder := installRecorder(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, endList := tracing.StartSpan(r.Context(), "list bookings")
		tracing.SetAttributes(ctx, attribute.String("booking.phone", "9876543210"))

		ctx, endQuery := tracing.StartDBSpan(ctx, "bookings", tracing.DBOperationQuery)
		endQuery(nil)

		tracing.AddEvent(ctx, "bookings_loaded", attribute.Int("count", 3))
		endList(nil)

		w.WriteHeader(http.StatusOK)
	})

	traced := middleware.Tracing("jaldikaro-api")(handler)
	rr := httptest.NewRecorder()
	traced.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tables/bookings", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	spans := recorder.Ended()
	if len(spans) != 3 {
		for i, span := range spans {
			t.Logf("  span %d: %s", i, span.Name())
		}
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}

	names := make(map[string]bool, len(spans))
	traceID := spans[0].SpanContext().TraceID()
	for _, span := range spans {
		names[span.Name()] = true
		if span.SpanContext().TraceID() != traceID {
			t.Errorf("span %q escaped the trace: %s vs %s",
				span.Name(), span.SpanContext().TraceID(), traceID)
		}
	}
	for _, want := range []string{"GET /tables/bookings", "list bookings", "query bookings"} {
		if !names[want] {
			t.Errorf("missing span %q", want)
		}
	}

	for _, span := range spans {
		if span.Name() != "query bookings" {
			continue
		}
		got := map[attribute.Key]string{}
		for _, a := range span.Attributes() {
			got[a.Key] = a.Value.AsString()
		}
		if got["db.system"] != "postgresql" {
			t.Errorf("db.system = %q, want postgresql", got["db.system"])
		}
		if got["db.operation"] != "query" {
			t.Errorf("db.operation = %q, want query", got["db.operation"])
		}
		if got["db.sql.table"] != "bookings" {
			t.Errorf("db.sql.table = %q, want bookings", got["db.sql.table"])
		}
	}
}

// TestSpanNamesUseRoutePatterns checks the middleware names spans by the
// normalized route, not the raw booking ID path.
func TestSpanNamesUseRoutePatterns(t *testing.T) {
	recorder := installRecorder(t)

	handler := middleware.Tracing("jaldikaro-api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tables/bookings/8e9d9c3a", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Name(); got != "GET /tables/bookings/{id}" {
		t.Errorf("span name = %q, want %q", got, "GET /tables/bookings/{id}")
	}
}

// TestHelpersNoOpWhenDisabled verifies the span helpers stay safe to call
// with tracing turned off.
func TestHelpersNoOpWhenDisabled(t *testing.T) {
	provider, err := tracing.NewProvider(tracing.Config{ServiceName: "jaldikaro-api", Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider.IsEnabled() {
		t.Fatal("provider reports enabled")
	}

	ctx, end := tracing.StartSpan(context.Background(), "list bookings")
	tracing.SetAttributes(ctx, attribute.String("booking.id", "b-123"))
	tracing.AddEvent(ctx, "bookings_loaded")
	end(nil)
}

// TestTraceContextPropagation checks GetTraceID inside a handler reports the
// same trace the middleware span records.
func TestTraceContextPropagation(t *testing.T) {
	recorder := installRecorder(t)

	var captured string
	handler := middleware.Tracing("jaldikaro-api")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.GetTraceID(r)
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tables/bookings", nil))

	if captured == "" {
		t.Fatal("handler saw no trace ID")
	}
	spans := recorder.Ended()
	if len(spans) == 0 {
		t.Fatal("no spans recorded")
	}
	if got := spans[0].SpanContext().TraceID().String(); got != captured {
		t.Errorf("trace ID mismatch: handler %s, span %s", captured, got)
	}
}
