// Package ranking provides centralized ranking component calculations
// with calibration support for provider discovery.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		log.Warn("using default weights", "error", err)
//	}
//
//	// Calculate the recommended-sort score for a provider
//	params := ranking.ProviderParams{
//		Rating:     provider.Rating,     // Star rating on a 0-5 scale
//		DistanceKm: provider.DistanceKm, // Distance from the search location
//		Online:     provider.IsOnline,
//	}
//	score := ranking.CompositeScoreProvider(params, weights)
//
// The default formula is:
//
//	composite_score = (rating * 0.4) + ((2 - distance_km) * 0.3) + (availability * 0.3)
//
// Unlike the other weight functions in this package, the distance term is
// NOT normalized to [0, 1]: providers farther than 2 km contribute a
// negative amount that grows without bound. This matches the shipped
// ranking behavior and is preserved for compatibility; see DistanceTerm
// before changing it.
//
// Calibration:
//
// The calibration system allows deploy-time tuning of ranking weights via
// JSON configuration files loaded at startup. This enables A/B testing and
// optimization without code changes (but requires a redeploy or restart to
// pick up new configuration). Partial files are merged over the defaults,
// so a calibration file only needs to list the weights it changes.
package ranking
