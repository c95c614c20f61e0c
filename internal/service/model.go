// Package service holds the bookable service catalog: bilingual service
// definitions, category extraction, search, and price estimation.
package service

import "errors"

// ErrServiceNotFound is returned when no service exists for an ID.
var ErrServiceNotFound = errors.New("service not found")

// Service is one bookable service offering. Names and descriptions are
// bilingual; the front end picks a language at render time.
type Service struct {
	ID              string `json:"id"`
	NameEN          string `json:"name_en"`
	NameHI          string `json:"name_hi"`
	Category        string `json:"category"`
	DescriptionEN   string `json:"description_en"`
	DescriptionHI   string `json:"description_hi"`
	BasePrice       int    `json:"base_price"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
	Icon            string `json:"icon"`
}

// Category is one service category derived from the active catalog.
type Category struct {
	ID     string `json:"id"`
	NameEN string `json:"name_en"`
	NameHI string `json:"name_hi"`
	Icon   string `json:"icon"`
}
