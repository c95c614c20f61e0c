package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jaldikaro/jaldikaro/internal/application"
	"github.com/jaldikaro/jaldikaro/internal/audit"
	"github.com/jaldikaro/jaldikaro/internal/validate"
)

// CreateApplicationRequest represents the signup wizard submission.
type CreateApplicationRequest struct {
	Name            string                    `json:"name"`
	PhoneNumber     string                    `json:"phone_number"`
	Email           string                    `json:"email"`
	Experience      string                    `json:"experience"` // wizard range, e.g. "3-5"
	LanguagesSpoken []string                  `json:"languages_spoken,omitempty"`
	Services        []string                  `json:"services"`
	HourlyRates     []int                     `json:"hourly_rates,omitempty"`
	ServiceAreas    []string                  `json:"service_areas"`
	ServiceRadiusKm int                       `json:"service_radius_km,omitempty"`
	WorkingDays     []string                  `json:"working_days,omitempty"`
	WorkingHours    application.WorkingHours  `json:"working_hours"`
	Bio             string                    `json:"bio,omitempty"`
	KYCDocuments    []application.KYCDocument `json:"kyc_documents"`
}

// ReviewApplicationRequest represents the request body for a review move.
type ReviewApplicationRequest struct {
	Status string `json:"status"`
}

// SignUploadRequest asks for one pre-signed document upload URL.
type SignUploadRequest struct {
	ApplicationID string `json:"application_id"`
	Kind          string `json:"kind"` // profile, id, portfolio
	ContentType   string `json:"content_type"`
	SizeBytes     int64  `json:"size_bytes"`
}

// ApplicationHandlers holds dependencies for provider application handlers.
type ApplicationHandlers struct {
	repo     application.Repository
	uploads  *application.UploadService
	auditLog audit.Repository
}

// NewApplicationHandlers creates a new ApplicationHandlers instance.
// uploads may be nil when document storage is not configured; the sign
// endpoint then responds 503. auditLog may be nil to disable review
// auditing.
func NewApplicationHandlers(repo application.Repository, uploads *application.UploadService, auditLog audit.Repository) *ApplicationHandlers {
	return &ApplicationHandlers{repo: repo, uploads: uploads, auditLog: auditLog}
}

// extractApplicationID extracts the application ID from the URL path, along
// with any trailing action segment ("review").
func extractApplicationID(r *http.Request) (id, action string, err error) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tables/applications/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", errors.New("application ID is required")
	}
	if len(parts) > 1 {
		action = parts[1]
	}
	return parts[0], action, nil
}

// Applications routes /tables/applications by method.
func (h *ApplicationHandlers) Applications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplications(w, r)
	case http.MethodPost:
		h.createApplication(w, r)
	default:
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

// listApplications handles GET /tables/applications.
func (h *ApplicationHandlers) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.repo.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list applications", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list applications")
		return
	}

	writeList(w, r, apps, len(apps))
}

// createApplication handles POST /tables/applications.
// The headline hourly rate is the average of the per-service rates from the
// wizard, and the experience range maps to its stored midpoint.
func (h *ApplicationHandlers) createApplication(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	name, err := validate.ProviderName(req.Name)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "name must be 1-100 letters, numbers, or basic punctuation")
		return
	}
	bio, err := validate.Bio(req.Bio)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "bio is too long")
		return
	}
	email, err := validate.Email(req.Email)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "email address is not valid")
		return
	}

	app := &application.Application{
		Name:            name,
		PhoneNumber:     req.PhoneNumber,
		Email:           email,
		ExperienceYears: application.ParseExperience(req.Experience),
		LanguagesSpoken: req.LanguagesSpoken,
		Services:        req.Services,
		HourlyRate:      application.AverageRate(req.HourlyRates),
		ServiceAreas:    req.ServiceAreas,
		ServiceRadiusKm: req.ServiceRadiusKm,
		WorkingDays:     req.WorkingDays,
		WorkingHours:    req.WorkingHours,
		Bio:             bio,
		KYCDocuments:    req.KYCDocuments,
		Status:          application.StatusSubmitted,
	}

	if errs := app.Validate(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, strings.Join(msgs, "; "))
		return
	}

	if err := h.repo.Insert(ctx, app); err != nil {
		slog.ErrorContext(ctx, "failed to create application", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create application")
		return
	}

	slog.InfoContext(ctx, "provider application submitted",
		"application_id", app.ID,
		"services", app.Services)

	writeData(w, r, http.StatusCreated, app)
}

// ApplicationByID routes /tables/applications/{id} and
// /tables/applications/{id}/review.
func (h *ApplicationHandlers) ApplicationByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := extractApplicationID(r)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Application ID is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getApplication(w, r, id)
	case action == "review" && r.Method == http.MethodPatch:
		h.reviewApplication(w, r, id)
	default:
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

// getApplication handles GET /tables/applications/{id}.
func (h *ApplicationHandlers) getApplication(w http.ResponseWriter, r *http.Request, id string) {
	app, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrApplicationNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeApplicationNotFound, "Application not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to get application", "id", id, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to get application")
		return
	}

	writeData(w, r, http.StatusOK, app)
}

// reviewApplication handles PATCH /tables/applications/{id}/review.
func (h *ApplicationHandlers) reviewApplication(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	var req ReviewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	app, err := h.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrApplicationNotFound):
			writeErr(w, r, http.StatusNotFound, ErrCodeApplicationNotFound, "Application not found")
		case errors.Is(err, application.ErrInvalidReviewMove):
			writeErr(w, r, http.StatusConflict, ErrCodeInvalidReview, err.Error())
		default:
			slog.ErrorContext(ctx, "failed to review application", "id", id, "error", err)
			writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to review application")
		}
		return
	}

	slog.InfoContext(ctx, "application reviewed", "application_id", app.ID, "status", app.Status)

	if h.auditLog != nil {
		if err := audit.LogFromRequest(r, h.auditLog, audit.EntityApplication, app.ID,
			audit.ActionReviewApplication, audit.OutcomeSuccess); err != nil {
			slog.WarnContext(ctx, "audit logging failed", "application_id", app.ID, "error", err)
		}
	}

	writeData(w, r, http.StatusOK, app)
}

// SignUpload handles POST /applications/sign, returning a pre-signed PUT URL
// for one document upload.
func (h *ApplicationHandlers) SignUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}
	if h.uploads == nil {
		writeErr(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Document storage is not configured")
		return
	}

	var req SignUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}
	if req.ApplicationID == "" {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "application_id is required")
		return
	}

	signed, err := h.uploads.SignedURL(ctx, application.SignedURLRequest{
		ApplicationID: req.ApplicationID,
		Kind:          req.Kind,
		ContentType:   req.ContentType,
		SizeBytes:     req.SizeBytes,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrUnknownDocKind):
			writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "kind must be one of profile, id, portfolio")
		case errors.Is(err, application.ErrUnsupportedType):
			writeErr(w, r, http.StatusBadRequest, ErrCodeUnsupportedType, "Content type not allowed for this document kind")
		case errors.Is(err, application.ErrFileTooLarge):
			writeErr(w, r, http.StatusBadRequest, ErrCodeDocumentTooLarge, "Document exceeds the size limit for its kind")
		case errors.Is(err, application.ErrInvalidAppID):
			writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "application_id contains invalid characters")
		default:
			slog.ErrorContext(ctx, "failed to presign upload", "application_id", req.ApplicationID, "error", err)
			writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to sign upload")
		}
		return
	}

	writeData(w, r, http.StatusOK, signed)
}
