package provider

import (
	"sort"
	"strings"

	"github.com/jaldikaro/jaldikaro/internal/ranking"
)

// SortMode selects the comparator for a ranking pass.
type SortMode string

// Sort modes. SortRecommended is the default and uses the weighted
// composite score from the ranking package; the others are exact-field
// comparators.
const (
	SortRecommended SortMode = "recommended"
	SortPriceLow    SortMode = "price_low"
	SortPriceHigh   SortMode = "price_high"
	SortRating      SortMode = "rating"
	SortDistance    SortMode = "distance"
)

// ParseSortMode parses a sort mode from the UI/query string. Unrecognized
// values degrade to SortRecommended.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	case SortDistance:
		return SortDistance
	default:
		return SortRecommended
	}
}

// DefaultPageSize is the number of providers revealed per "load more".
const DefaultPageSize = 10

// Page describes the visible window over the filtered-and-sorted list.
// The window is always [0, Number*Size): loading more pages extends the
// window, it never re-fetches or re-sorts.
type Page struct {
	Number int // 1-based; values < 1 are treated as 1
	Size   int // Values < 1 fall back to DefaultPageSize
}

// Window returns the end index of the visible window for a list of n items.
func (p Page) Window(n int) int {
	num := p.Number
	if num < 1 {
		num = 1
	}
	size := p.Size
	if size < 1 {
		size = DefaultPageSize
	}
	end := num * size
	if end > n {
		end = n
	}
	return end
}

// Engine ranks providers for the discovery listing. It is a pure
// computation over its inputs: no I/O, no hidden state beyond the
// calibrated weights it was constructed with, and safe for concurrent use.
type Engine struct {
	weights *ranking.Weights
}

// NewEngine creates a ranking engine with the given calibrated weights.
// A nil weights value falls back to the defaults.
func NewEngine(weights *ranking.Weights) *Engine {
	if weights == nil {
		weights = ranking.DefaultWeights()
	}
	return &Engine{weights: weights}
}

// Filter returns the providers satisfying every active predicate, in input
// order. The result is always a new slice; the input is never mutated.
func (e *Engine) Filter(providers []Provider, filters FilterConfig) []Provider {
	filtered := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if filters.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Sort orders providers in place by the given mode. The sort is stable:
// providers with equal sort keys keep their prior relative order, so the
// listing does not shuffle on every filter change.
func (e *Engine) Sort(providers []Provider, mode SortMode) {
	switch mode {
	case SortPriceLow:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].HourlyRate < providers[j].HourlyRate
		})
	case SortPriceHigh:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].HourlyRate > providers[j].HourlyRate
		})
	case SortRating:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].Rating > providers[j].Rating
		})
	case SortDistance:
		sort.SliceStable(providers, func(i, j int) bool {
			return providers[i].DistanceKm < providers[j].DistanceKm
		})
	default:
		// Recommended: balance of rating, distance, and availability.
		sort.SliceStable(providers, func(i, j int) bool {
			return e.Score(providers[i]) > e.Score(providers[j])
		})
	}
}

// Score computes the recommended-sort composite score for a provider.
func (e *Engine) Score(p Provider) float64 {
	return ranking.CompositeScoreProvider(ranking.ProviderParams{
		Rating:     p.Rating,
		DistanceKm: p.DistanceKm,
		Online:     p.IsOnline,
	}, e.weights)
}

// RankAll filters and sorts the full candidate list without pagination.
// An empty input yields an empty output; malformed filter values have
// already degraded to no-ops during parsing, so RankAll never fails.
func (e *Engine) RankAll(providers []Provider, filters FilterConfig, mode SortMode) []Provider {
	ranked := e.Filter(providers, filters)
	e.Sort(ranked, mode)
	return ranked
}

// Rank filters, sorts, and windows the candidate list. The result at page
// n is always a prefix of the result at page n+1 for unchanged filters and
// sort mode.
func (e *Engine) Rank(providers []Provider, filters FilterConfig, mode SortMode, page Page) []Provider {
	ranked := e.RankAll(providers, filters, mode)
	return ranked[:page.Window(len(ranked))]
}
