// Package application handles provider onboarding: the signup application
// record, its review lifecycle, and pre-signed document uploads.
package application

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"
)

// Errors returned by application operations.
var (
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidReviewMove is returned for a disallowed review-status change.
	ErrInvalidReviewMove = errors.New("invalid application status change")
)

// Review statuses for a provider application.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// KYCDocument is one identity document attached to an application.
type KYCDocument struct {
	Type   string `json:"type"`   // aadhar, pan, driving_license, voter_id
	Number string `json:"number"`
	Status string `json:"status"` // pending, verified, rejected
}

// WorkingHours is the provider's daily availability window, 24h clock.
type WorkingHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Application is one provider signup application from the four-step wizard.
type Application struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	PhoneNumber     string        `json:"phone_number"`
	Email           string        `json:"email"`
	ExperienceYears float64       `json:"experience_years"`
	LanguagesSpoken []string      `json:"languages_spoken"`
	Services        []string      `json:"services"`
	HourlyRate      int           `json:"hourly_rate"`
	ServiceAreas    []string      `json:"service_areas"`
	ServiceRadiusKm int           `json:"service_radius_km"`
	WorkingDays     []string      `json:"working_days"`
	WorkingHours    WorkingHours  `json:"working_hours"`
	Bio             string        `json:"bio,omitempty"`
	KYCDocuments    []KYCDocument `json:"kyc_documents"`
	Status          string        `json:"status"`
	CreatedAt       *time.Time    `json:"created_at,omitempty"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// reviewMoves maps a review status to its allowed successors.
var reviewMoves = map[string][]string{
	StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {},
	StatusRejected:    {},
}

// Review moves the application to a new review status.
func (a *Application) Review(to string) error {
	if _, ok := reviewMoves[to]; !ok {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidReviewMove, to)
	}
	for _, next := range reviewMoves[a.Status] {
		if next == to {
			a.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidReviewMove, a.Status, to)
}

// experienceYears maps the wizard's experience ranges to the midpoint
// figure stored on the provider record.
var experienceYears = map[string]float64{
	"0-1":  0.5,
	"1-3":  2,
	"3-5":  4,
	"5-10": 7.5,
	"10+":  12,
}

// ParseExperience converts a wizard experience range to years. Unknown
// ranges map to zero.
func ParseExperience(rangeLabel string) float64 {
	return experienceYears[rangeLabel]
}

// AverageRate returns the rounded mean of per-service hourly rates, the
// single headline rate shown on a provider card. Zero when no rates.
func AverageRate(rates []int) int {
	if len(rates) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rates {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(rates))))
}

// AvailableSlots expands a working-hours window into hourly slot labels,
// e.g. 8..18 yields "8:00" through "17:00".
func AvailableSlots(h WorkingHours) []string {
	var slots []string
	for hour := h.Start; hour < h.End; hour++ {
		slots = append(slots, fmt.Sprintf("%d:00", hour))
	}
	return slots
}

var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidPhone reports whether the digits form a valid Indian mobile number.
// Non-digit separators are ignored.
func ValidPhone(phone string) bool {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	return indianMobile.Match(digits)
}

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address has a plausible mailbox shape.
func ValidEmail(email string) bool {
	return emailShape.MatchString(email)
}

// Validate checks the fields required to accept an application.
func (a *Application) Validate() []error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !ValidPhone(a.PhoneNumber) {
		errs = append(errs, errors.New("phone number must be a valid Indian mobile"))
	}
	if !ValidEmail(a.Email) {
		errs = append(errs, errors.New("email is invalid"))
	}
	if len(a.Services) == 0 {
		errs = append(errs, errors.New("at least one service is required"))
	}
	if len(a.ServiceAreas) == 0 {
		errs = append(errs, errors.New("at least one service area is required"))
	}
	if len(a.KYCDocuments) == 0 {
		errs = append(errs, errors.New("an identity document is required"))
	}
	return errs
}
