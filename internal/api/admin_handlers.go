package api

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jaldikaro/jaldikaro/internal/audit"
	"github.com/jaldikaro/jaldikaro/internal/auth"
	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/middleware"
)

// AdminLoginRequest represents the admin dashboard login form.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLoginResponse carries the issued admin token.
type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminCredentials are the configured dashboard login credentials. Empty
// credentials disable the login endpoint.
type AdminCredentials struct {
	Username string
	Password string
}

// AdminHandlers holds dependencies for the admin dashboard endpoints.
type AdminHandlers struct {
	jwt      *auth.JWTService
	creds    AdminCredentials
	stats    *booking.StatsService
	repo     booking.Repository
	auditLog audit.Repository
}

// NewAdminHandlers creates a new AdminHandlers instance.
func NewAdminHandlers(jwt *auth.JWTService, creds AdminCredentials, stats *booking.StatsService, repo booking.Repository, auditLog audit.Repository) *AdminHandlers {
	return &AdminHandlers{jwt: jwt, creds: creds, stats: stats, repo: repo, auditLog: auditLog}
}

// recordAudit appends an admin action to the audit log. Failures are
// logged but never block the action itself.
func (h *AdminHandlers) recordAudit(r *http.Request, entityType, entityID, action, outcome string) {
	if h.auditLog == nil {
		return
	}
	if err := audit.LogFromRequest(r, h.auditLog, entityType, entityID, action, outcome); err != nil {
		slog.WarnContext(r.Context(), "audit logging failed",
			"action", action, "error", err)
	}
}

// Login handles POST /admin/login, issuing a short-lived admin token.
func (h *AdminHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}
	if h.creds.Username == "" || h.creds.Password == "" {
		writeErr(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Admin login is not configured")
		return
	}

	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.creds.Password)) == 1
	if !userOK || !passOK {
		slog.WarnContext(ctx, "admin login rejected", "username", req.Username)
		h.recordAudit(r, audit.EntityAdminPanel, "login", audit.ActionAdminLogin, audit.OutcomeFailure)
		writeErr(w, r, http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateAdminToken(req.Username)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue admin token", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue token")
		return
	}

	slog.InfoContext(ctx, "admin login", "username", req.Username)
	h.recordAudit(r, audit.EntityAdminPanel, "login", audit.ActionAdminLogin, audit.OutcomeSuccess)

	writeData(w, r, http.StatusOK, AdminLoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.AdminTokenExpiry),
	})
}

// Stats handles GET /admin/stats with the dashboard headline figures.
func (h *AdminHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compute dashboard stats", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute stats")
		return
	}

	h.recordAudit(r, audit.EntityAdminPanel, "dashboard", audit.ActionViewDashboard, audit.OutcomeSuccess)
	writeData(w, r, http.StatusOK, stats)
}

// ExportBookings handles GET /admin/bookings/export, streaming all bookings
// as a CSV attachment.
func (h *AdminHandlers) ExportBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	bookings, err := h.repo.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list bookings for export", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to export bookings")
		return
	}

	h.recordAudit(r, audit.EntityAdminPanel, "export", audit.ActionExportBookings, audit.OutcomeSuccess)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+booking.ExportFilename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)

	if err := booking.WriteCSV(w, bookings); err != nil {
		// Headers are already sent; log and give up on the body.
		slog.ErrorContext(ctx, "failed to write bookings CSV", "error", err)
	}
}

// RequireAdmin wraps a handler with bearer-token admin authentication.
// The authenticated user ID is stashed in the request context for logging.
func (h *AdminHandlers) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeErr(w, r, http.StatusUnauthorized, ErrCodeAuthFailed, "Missing bearer token")
			return
		}

		claims, err := h.jwt.ValidateAdminToken(token)
		if err != nil {
			writeErr(w, r, http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid or expired token")
			return
		}

		ctx := middleware.SetAdminUser(r.Context(), claims.Subject)
		middleware.UpdateResponseContext(w, ctx)
		next(w, r.WithContext(ctx))
	}
}
