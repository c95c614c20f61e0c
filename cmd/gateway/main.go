// Package main is the entry point for the Jaldikaro caching gateway.
//
// The gateway fronts the app shell's origin and satisfies every request
// through the offline cache dispatcher: static assets cache-first, API
// data network-first, CDN resources stale-while-revalidate, and
// navigations with an offline fallback page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jaldikaro/jaldikaro/internal/cache"
	"github.com/jaldikaro/jaldikaro/internal/config"
	"github.com/jaldikaro/jaldikaro/internal/middleware"
	"github.com/jaldikaro/jaldikaro/internal/tracing"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Jaldikaro Caching Gateway")
		fmt.Println()
		fmt.Println("Usage: gateway [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if cfg == nil {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config error:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	// The gateway only needs the upstream origin; the API server's
	// required values do not apply here.
	for _, err := range cfg.ValidateGateway() {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "jaldikaro-gateway",
		Enabled:      cfg.OTLPEndpoint != "",
		Environment:  cfg.Env,
		ExporterType: "otlp-http",
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplingRate: 1.0,
		InsecureMode: cfg.Env != "production",
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Cache entries persist to redis when configured; otherwise they live
	// in process memory and are lost on restart, which is fine for dev.
	var stores cache.StoreProvider
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		stores = cache.NewRedisStoreProvider(client)
		logger.Info("cache stores backed by redis", "addr", cfg.RedisAddr)
	} else {
		stores = cache.NewMemoryStoreProvider()
		logger.Info("cache stores kept in memory")
	}

	manifest := cache.DefaultManifest()
	if cfg.CacheManifestPath != "" {
		manifest, err = cache.LoadManifest(cfg.CacheManifestPath)
		if err != nil {
			logger.Error("failed to load cache manifest", "path", cfg.CacheManifestPath, "error", err)
			os.Exit(1)
		}
	}

	cacheMetrics := cache.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := cacheMetrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Outbound fetches are traced so a slow upstream shows up in spans.
	fetcher := cache.NewHTTPFetcher(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   30 * time.Second,
	})

	dispatcher := cache.NewDispatcher(cache.Config{
		Stores:   stores,
		Fetcher:  fetcher,
		Manifest: manifest,
		Origin:   cfg.UpstreamOrigin,
		Logger:   logger,
		Metrics:  cacheMetrics,
	})

	startCtx, startCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := dispatcher.Install(startCtx); err != nil {
		startCancel()
		logger.Error("precache install failed", "error", err)
		os.Exit(1)
	}
	if err := dispatcher.Activate(startCtx); err != nil {
		startCancel()
		logger.Error("cache activation failed", "error", err)
		os.Exit(1)
	}
	startCancel()

	// Work deferred while clients were offline replays through the sync
	// tags. The gateway's replay refreshes the backing table caches so the
	// first request after reconnecting sees current data, not a stale entry.
	registerSyncWarmers(dispatcher, cfg.UpstreamOrigin)

	mux := http.NewServeMux()
	mux.HandleFunc("/gateway/sync", triggerSync(dispatcher))
	mux.HandleFunc("/gateway/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	mux.Handle("/gateway/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/", serveFromCache(dispatcher, cfg.UpstreamOrigin))

	var handler http.Handler = mux
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Tracing("jaldikaro-gateway")(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting gateway", "port", cfg.Port, "upstream", cfg.UpstreamOrigin,
			"cache_version", manifest.Version)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Drain in-flight stale-while-revalidate refreshes before exit.
	dispatcher.Flush()

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Warn("tracer shutdown failed", "error", err)
	}

	logger.Info("gateway stopped")
}

// registerSyncWarmers attaches a cache-refresh callback to each sync tag.
// Refreshing goes through the dispatcher's normal network-first path, so a
// successful replay overwrites the runtime cache entry and a failed one
// returns an error for the trigger to surface.
func registerSyncWarmers(d *cache.Dispatcher, upstream string) {
	warm := func(path string) cache.SyncCallback {
		return func(ctx context.Context) error {
			_, err := d.Do(ctx, cache.Request{
				URL:  upstream + path,
				Mode: cache.ModeResource,
			})
			return err
		}
	}
	d.RegisterSync(cache.SyncTagBooking, warm("/tables/bookings"))
	d.RegisterSync(cache.SyncTagProviderApplication, warm("/tables/providers"))
}

// triggerSync fires sync callbacks on demand. Clients call it when
// connectivity returns; without a tag parameter every known tag fires.
func triggerSync(d *cache.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		tags := []string{cache.SyncTagBooking, cache.SyncTagProviderApplication}
		if tag := r.URL.Query().Get("tag"); tag != "" {
			tags = []string{tag}
		}

		for _, tag := range tags {
			if err := d.TriggerSync(r.Context(), tag); err != nil {
				slog.ErrorContext(r.Context(), "sync replay failed", "tag", tag, "error", err)
				http.Error(w, "Sync Failed", http.StatusBadGateway)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// serveFromCache proxies a browser request through the cache dispatcher
// and replays the resulting entry.
func serveFromCache(d *cache.Dispatcher, upstream string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		req := cache.Request{
			URL:    upstream + r.URL.RequestURI(),
			Mode:   requestMode(r),
			Header: r.Header.Clone(),
		}

		entry, err := d.Do(r.Context(), req)
		if err != nil {
			slog.ErrorContext(r.Context(), "gateway fetch failed",
				"url", req.URL, "error", err)
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
			return
		}

		if r.Method == http.MethodHead {
			for k, vals := range entry.Header {
				for _, v := range vals {
					w.Header().Add(k, v)
				}
			}
			w.WriteHeader(entry.Status)
			return
		}

		if err := entry.WriteTo(w); err != nil {
			slog.WarnContext(r.Context(), "writing cached response failed",
				"url", req.URL, "error", err)
		}
	}
}

// requestMode mirrors the browser's fetch mode: Sec-Fetch-Mode when the
// client sends it, falling back to sniffing the Accept header for
// document navigations.
func requestMode(r *http.Request) cache.Mode {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return cache.ModeNavigate
	}
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		return cache.ModeNavigate
	}
	return cache.ModeResource
}
