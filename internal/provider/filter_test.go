package provider

import (
	"testing"
)

// TestParsePriceTier verifies permissive price tier parsing.
func TestParsePriceTier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected PriceTier
	}{
		{name: "all", input: "all", expected: PriceTierAll},
		{name: "budget", input: "budget", expected: PriceTierBudget},
		{name: "medium", input: "medium", expected: PriceTierMedium},
		{name: "premium", input: "premium", expected: PriceTierPremium},
		{name: "mixed case", input: "Budget", expected: PriceTierBudget},
		{name: "whitespace", input: "  premium ", expected: PriceTierPremium},
		{name: "empty degrades to all", input: "", expected: PriceTierAll},
		{name: "garbage degrades to all", input: "luxury", expected: PriceTierAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePriceTier(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

// TestPriceTierBoundaries checks the tier boundaries are inclusive where
// the product defines them inclusive: budget <=300, medium (300, 500].
func TestPriceTierBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		tier    PriceTier
		rate    float64
		matches bool
	}{
		{name: "budget at 300", tier: PriceTierBudget, rate: 300, matches: true},
		{name: "budget above 300", tier: PriceTierBudget, rate: 300.01, matches: false},
		{name: "medium just above 300", tier: PriceTierMedium, rate: 300.01, matches: true},
		{name: "medium at 300", tier: PriceTierMedium, rate: 300, matches: false},
		{name: "medium at 500", tier: PriceTierMedium, rate: 500, matches: true},
		{name: "premium at 500", tier: PriceTierPremium, rate: 500, matches: false},
		{name: "premium above 500", tier: PriceTierPremium, rate: 501, matches: true},
		{name: "all matches everything", tier: PriceTierAll, rate: 99999, matches: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tier.matches(tt.rate); got != tt.matches {
				t.Errorf("tier %q rate %.2f: expected %v, got %v", tt.tier, tt.rate, tt.matches, got)
			}
		})
	}
}

// TestParseMinRating verifies "N+" threshold parsing.
func TestParseMinRating(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{input: "all", expected: 0},
		{input: "", expected: 0},
		{input: "3+", expected: 3},
		{input: "4+", expected: 4},
		{input: "4.5+", expected: 4.5},
		{input: "4", expected: 4},
		{input: "not-a-rating", expected: 0},
		{input: "-2+", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseMinRating(tt.input); got != tt.expected {
				t.Errorf("ParseMinRating(%q) = %f, expected %f", tt.input, got, tt.expected)
			}
		})
	}
}

// TestParseMaxDistance verifies the distance limit parsing.
func TestParseMaxDistance(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{input: "all", expected: 0},
		{input: "", expected: 0},
		{input: "1", expected: 1},
		{input: "2", expected: 2},
		{input: "5", expected: 5},
		{input: "10", expected: 10},
		{input: "near", expected: 0},
		{input: "-3", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseMaxDistance(tt.input); got != tt.expected {
				t.Errorf("ParseMaxDistance(%q) = %f, expected %f", tt.input, got, tt.expected)
			}
		})
	}
}

// TestFilterConfigMatches tests each predicate in isolation and combined.
func TestFilterConfigMatches(t *testing.T) {
	p := Provider{
		ID:         "p1",
		HourlyRate: 350,
		Rating:     4.2,
		DistanceKm: 1.8,
		IsOnline:   true,
		IsVerified: false,
	}

	tests := []struct {
		name    string
		filters FilterConfig
		matches bool
	}{
		{name: "zero config matches", filters: FilterConfig{}, matches: true},
		{name: "price tier hit", filters: FilterConfig{PriceTier: PriceTierMedium}, matches: true},
		{name: "price tier miss", filters: FilterConfig{PriceTier: PriceTierBudget}, matches: false},
		{name: "rating threshold hit", filters: FilterConfig{MinRating: 4}, matches: true},
		{name: "rating threshold miss", filters: FilterConfig{MinRating: 4.5}, matches: false},
		{name: "distance limit hit", filters: FilterConfig{MaxDistanceKm: 2}, matches: true},
		{name: "distance limit miss", filters: FilterConfig{MaxDistanceKm: 1}, matches: false},
		{name: "online only hit", filters: FilterConfig{OnlineOnly: true}, matches: true},
		{name: "verified only miss", filters: FilterConfig{VerifiedOnly: true}, matches: false},
		{
			name: "all predicates AND-combined",
			filters: FilterConfig{
				PriceTier:     PriceTierMedium,
				MinRating:     4,
				MaxDistanceKm: 2,
				OnlineOnly:    true,
				VerifiedOnly:  true, // This one fails, so the whole conjunction fails
			},
			matches: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Matches(p); got != tt.matches {
				t.Errorf("expected %v, got %v", tt.matches, got)
			}
		})
	}
}
