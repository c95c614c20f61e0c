// Package main is the entry point for the Jaldikaro API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jaldikaro/jaldikaro/internal/api"
	"github.com/jaldikaro/jaldikaro/internal/application"
	"github.com/jaldikaro/jaldikaro/internal/audit"
	"github.com/jaldikaro/jaldikaro/internal/auth"
	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/config"
	"github.com/jaldikaro/jaldikaro/internal/db"
	"github.com/jaldikaro/jaldikaro/internal/health"
	"github.com/jaldikaro/jaldikaro/internal/idempotency"
	"github.com/jaldikaro/jaldikaro/internal/middleware"
	"github.com/jaldikaro/jaldikaro/internal/notify"
	"github.com/jaldikaro/jaldikaro/internal/payment"
	"github.com/jaldikaro/jaldikaro/internal/provider"
	"github.com/jaldikaro/jaldikaro/internal/ranking"
	"github.com/jaldikaro/jaldikaro/internal/service"
	"github.com/jaldikaro/jaldikaro/internal/tracing"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("Jaldikaro API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
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

	for _, err := range errs {
		logger.Error("configuration invalid", "error", err)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}

	logger.Info("configuration loaded")
	for key, value := range cfg.LogSummary() {
		logger.Debug("config", key, value)
	}

	// Tracing is enabled whenever an OTLP endpoint is configured.
	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "jaldikaro-api",
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

	// Storage. Bookings persist to Postgres when a database is configured;
	// everything falls back to in-memory repositories for local development.
	var (
		bookingRepo booking.Repository
		dbChecker   *health.DBChecker
	)
	if cfg.DatabaseURL != "" {
		connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := db.Open(connectCtx, cfg.DatabaseURL)
		connectCancel()
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		bookingRepo = booking.NewPostgresRepository(conn, logger)
		dbChecker = health.NewDBChecker(conn)
		logger.Info("bookings backed by postgres")
	} else {
		bookingRepo = booking.NewInMemoryRepository()
		logger.Info("bookings kept in memory")
	}

	var (
		redisClient  *redis.Client
		redisChecker *health.RedisChecker
		rateStore    middleware.RateLimitStore
	)
	metrics := middleware.NewMetrics()
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		redisChecker = health.NewRedisChecker(redisClient)
		rateStore = middleware.NewRedisRateLimitStore(redisClient).WithMetrics(metrics)
		logger.Info("rate limiting backed by redis", "addr", cfg.RedisAddr)
	} else {
		rateStore = middleware.NewInMemoryRateLimitStore()
		logger.Info("rate limiting kept in memory")
	}

	// Provider ranking weights, with optional calibration overrides.
	weights := ranking.DefaultWeights()
	if cfg.RankingConfigPath != "" {
		loaded, err := ranking.LoadCalibration(cfg.RankingConfigPath)
		if err != nil {
			logger.Error("failed to load ranking calibration", "path", cfg.RankingConfigPath, "error", err)
			os.Exit(1)
		}
		weights = loaded
	}

	catalog := service.NewCatalog(service.DefaultServices())

	// Providers come from an upstream table endpoint when one is
	// configured; the loader degrades to the demo list on any failure, so
	// startup never blocks on the upstream being healthy.
	providerRepo := provider.NewSeededRepository()
	if cfg.ProviderUpstreamURL != "" {
		loader := provider.NewLoader(&http.Client{Timeout: 10 * time.Second},
			cfg.ProviderUpstreamURL, logger)
		loadCtx, loadCancel := context.WithTimeout(context.Background(), 15*time.Second)
		providerRepo = provider.NewRepositoryWith(loader.Load(loadCtx, "", ""))
		loadCancel()
		logger.Info("providers seeded from upstream", "url", cfg.ProviderUpstreamURL)
	}
	engine := provider.NewEngine(weights)
	applicationRepo := application.NewInMemoryRepository()
	paymentRepo := payment.NewInMemoryRepository()
	webhookRepo := payment.NewInMemoryWebhookRepository()
	idempotencyRepo := idempotency.NewInMemoryRepository()
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go idempotency.RunPeriodicCleanup(cleanupCtx, idempotencyRepo,
		idempotency.DefaultCleanupInterval, idempotency.DefaultExpiry)
	auditRepo := audit.NewInMemoryRepository()
	hub := notify.NewHub()
	stats := booking.NewStatsService(bookingRepo, providerRepo, logger)
	jwtService := auth.NewJWTServiceWithRotation(cfg.GetJWTSecrets())

	var stripeClient payment.Client
	if cfg.StripeAPIKey != "" {
		stripeClient = payment.NewStripeClient(cfg.StripeAPIKey)
		logger.Info("stripe checkout enabled")
	}
	payments := payment.NewService(paymentRepo, bookingRepo, stripeClient,
		cfg.StripeSuccessURL, cfg.StripeCancelURL, logger)

	var uploads *application.UploadService
	if cfg.R2BucketName != "" {
		uploads, err = application.NewUploadService(application.UploadConfig{
			BucketName:      cfg.R2BucketName,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Endpoint:        cfg.R2Endpoint,
		})
		if err != nil {
			logger.Error("failed to initialize upload service", "error", err)
			os.Exit(1)
		}
		logger.Info("document uploads enabled", "bucket", cfg.R2BucketName)
	}

	services := api.NewServiceHandlers(catalog)
	providers := api.NewProviderHandlers(providerRepo, engine)
	bookings := api.NewBookingHandlers(bookingRepo, catalog, hub)
	applications := api.NewApplicationHandlers(applicationRepo, uploads, auditRepo)
	paymentHandlers := api.NewPaymentHandlers(payments, bookingRepo, catalog, webhookRepo, cfg.StripeWebhookSecret)
	admin := api.NewAdminHandlers(jwtService, api.AdminCredentials{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
	}, stats, bookingRepo, auditRepo)
	ws := api.NewWebSocketHandlers(bookingRepo, hub)
	healthHandlers := api.NewHealthHandlers(api.HealthHandlersConfig{
		DBChecker:    dbChecker,
		RedisChecker: redisChecker,
	})

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/tables/services", services.ListServices)
	mux.HandleFunc("/tables/services/categories", services.ListCategories)
	mux.HandleFunc("/tables/services/", services.GetService)

	mux.HandleFunc("/tables/providers", providers.ListProviders)
	mux.HandleFunc("/tables/providers/", providers.GetProvider)

	mux.HandleFunc("/tables/bookings", bookings.Bookings)
	mux.HandleFunc("/tables/bookings/", bookings.BookingByID)

	mux.HandleFunc("/tables/applications", applications.Applications)
	mux.HandleFunc("/tables/applications/", applications.ApplicationByID)
	mux.HandleFunc("/applications/sign", applications.SignUpload)

	mux.HandleFunc("/payments/checkout", paymentHandlers.Checkout)
	mux.HandleFunc("/internal/stripe", paymentHandlers.StripeWebhook)

	mux.HandleFunc("/admin/login", admin.Login)
	mux.HandleFunc("/admin/stats", admin.RequireAdmin(admin.Stats))
	mux.HandleFunc("/admin/bookings/export", admin.RequireAdmin(admin.ExportBookings))

	mux.HandleFunc("/ws/bookings/", ws.SubscribeToBookingEvents)

	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"jaldikaro-api","version":"0.0.1"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Booking creation is guarded twice: a per-IP rate limit and an
	// Idempotency-Key requirement so client retries never double-book.
	idempotentRoutes := map[string]bool{"/tables/bookings": true}
	var handler http.Handler = mux
	handler = middleware.Idempotency(idempotencyRepo, idempotentRoutes)(handler)
	handler = middleware.Profiling(middleware.ProfilingConfig{
		Enabled:     cfg.Env == "development",
		Environment: cfg.Env,
	})(handler)
	handler = middleware.RateLimiter(rateStore, middleware.DefaultGlobalLimit(), middleware.IPKeyFunc())(handler)
	handler = middleware.HTTPMetrics(metrics)(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Tracing("jaldikaro-api")(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOriginList(),
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logger.Warn("tracer shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
