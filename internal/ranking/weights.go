package ranking

// RatingWeight computes the weighted rating component of a provider score.
// Parameters:
//   - rating: The provider's star rating, expected in [0, 5]
//   - w: The weight to apply to the rating
//
// Values outside [0, 5] are clamped before weighting so a malformed
// upstream record cannot dominate the composite score.
func RatingWeight(rating float64, w float64) float64 {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return rating * w
}

// DistanceTerm computes the raw distance component of a provider score.
//
// Formula: 2 - distance_km
//
// The term is intentionally unclamped: a provider 0.5 km away contributes
// +1.5 before weighting, a provider 6 km away contributes -4. For distant
// providers the distance axis can therefore dominate the composite score.
// This reproduces the shipped ranking exactly; treat any change here as a
// product decision, not a bug fix.
func DistanceTerm(distanceKm float64) float64 {
	return 2 - distanceKm
}

// AvailabilityWeight computes the availability component of a provider score.
// Returns w when the provider is online, 0 otherwise.
func AvailabilityWeight(online bool, w float64) float64 {
	if !online {
		return 0
	}
	return w
}

// ProviderParams holds the inputs for computing a provider composite score.
type ProviderParams struct {
	Rating     float64 // Star rating [0, 5]
	DistanceKm float64 // Distance from the search location, in kilometers
	Online     bool    // Whether the provider is currently available
}

// CompositeScoreProvider computes the final recommended-sort score for a
// provider. Uses the calibrated weights to combine rating, distance, and
// availability.
//
// Default formula: composite_score = (rating * 0.4) + ((2 - distance_km) * 0.3) + (availability * 0.3)
//
// The score is a pure deterministic function of (rating, distance_km,
// online): ranking the same input twice yields the same order.
//
// Parameters:
//   - params: The component inputs
//   - weights: The calibrated weight configuration (optional, uses default if nil)
func CompositeScoreProvider(params ProviderParams, weights *Weights) float64 {
	if weights == nil {
		weights = DefaultWeights()
	}

	return RatingWeight(params.Rating, weights.Provider.Rating) +
		DistanceTerm(params.DistanceKm)*weights.Provider.Distance +
		AvailabilityWeight(params.Online, weights.Provider.Availability)
}
