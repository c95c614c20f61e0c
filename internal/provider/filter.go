package provider

import (
	"strconv"
	"strings"
)

// PriceTier buckets providers by hourly rate.
type PriceTier string

// Price tier values. Budget covers rates up to 300, medium covers
// (300, 500], premium everything above 500.
const (
	PriceTierAll     PriceTier = "all"
	PriceTierBudget  PriceTier = "budget"
	PriceTierMedium  PriceTier = "medium"
	PriceTierPremium PriceTier = "premium"
)

// ParsePriceTier parses a price tier value from the UI/query string.
// Unrecognized values degrade to PriceTierAll so a malformed filter never
// fails a ranking pass.
func ParsePriceTier(s string) PriceTier {
	switch PriceTier(strings.ToLower(strings.TrimSpace(s))) {
	case PriceTierBudget:
		return PriceTierBudget
	case PriceTierMedium:
		return PriceTierMedium
	case PriceTierPremium:
		return PriceTierPremium
	default:
		return PriceTierAll
	}
}

// matches reports whether the given hourly rate falls in the tier.
func (t PriceTier) matches(rate float64) bool {
	switch t {
	case PriceTierBudget:
		return rate <= 300
	case PriceTierMedium:
		return rate > 300 && rate <= 500
	case PriceTierPremium:
		return rate > 500
	default:
		return true
	}
}

// ParseMinRating parses a rating filter value such as "4+" or "4.5+" into
// a numeric threshold. "all", empty, and unrecognized values return 0,
// which disables the rating predicate.
func ParseMinRating(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseMaxDistance parses a distance filter value such as "2" or "10" into
// a kilometer limit. "all", empty, and unrecognized values return 0, which
// disables the distance predicate.
func ParseMaxDistance(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// FilterConfig holds one ranking pass's filter settings. All active
// predicates are AND-combined; zero values disable the corresponding
// predicate. A FilterConfig is constructed fresh per filter interaction
// and must not be mutated once passed to the engine.
type FilterConfig struct {
	PriceTier     PriceTier // PriceTierAll disables the price predicate
	MinRating     float64   // 0 disables the rating predicate
	MaxDistanceKm float64   // 0 disables the distance predicate
	OnlineOnly    bool
	VerifiedOnly  bool
}

// ParseFilterConfig builds a FilterConfig from raw UI/query-string values.
// Every axis parses permissively: an unrecognized value means "all" for
// that axis, never an error.
func ParseFilterConfig(price, rating, distance string, onlineOnly, verifiedOnly bool) FilterConfig {
	return FilterConfig{
		PriceTier:     ParsePriceTier(price),
		MinRating:     ParseMinRating(rating),
		MaxDistanceKm: ParseMaxDistance(distance),
		OnlineOnly:    onlineOnly,
		VerifiedOnly:  verifiedOnly,
	}
}

// Matches reports whether the provider satisfies every active predicate.
func (f FilterConfig) Matches(p Provider) bool {
	if !f.PriceTier.matches(p.HourlyRate) {
		return false
	}
	if f.MinRating > 0 && p.Rating < f.MinRating {
		return false
	}
	if f.MaxDistanceKm > 0 && p.DistanceKm > f.MaxDistanceKm {
		return false
	}
	if f.OnlineOnly && !p.IsOnline {
		return false
	}
	if f.VerifiedOnly && !p.IsVerified {
		return false
	}
	return true
}
