// Package provider provides the provider data model, repository, and the
// filtering/sorting/ranking engine behind the discovery listing.
package provider

import (
	"errors"
	"time"
)

// Common errors for provider operations.
var (
	ErrProviderNotFound = errors.New("provider not found")
)

// Provider represents a service professional listed in the marketplace.
type Provider struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ProfileImage    string   `json:"profile_image,omitempty"`
	Services        []string `json:"services"` // Service IDs the provider offers
	Rating          float64  `json:"rating"`   // Star rating [0, 5]
	TotalReviews    int      `json:"total_reviews"`
	LanguagesSpoken []string `json:"languages_spoken,omitempty"`
	ExperienceYears int      `json:"experience_years"`
	HourlyRate      float64  `json:"hourly_rate"` // In whole currency units
	IsVerified      bool     `json:"is_verified"`
	IsOnline        bool     `json:"is_online"`
	DistanceKm      float64  `json:"distance"` // Distance from the search location
	ETAMinutes      int      `json:"eta_minutes"`
	Specialties     []string `json:"specialties,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	PhoneNumber     string   `json:"phone_number,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
