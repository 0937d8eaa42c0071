// internal/feedback/feedback.go
//
// Feedback and similarity computation for a guess against a target.
//
// Similarity (0..100) is the sum of four components, then clamped:
//   - region:   20 for the same region, +10 more for the same subregion.
//   - colors:   Jaccard overlap of the two color sets x 30, rounded.
//   - emblem:   10 when both flags agree on carrying an emblem.
//   - distance: max(0, (1 - km/20000) x 30), rounded.

package feedback

import (
	"math"

	"github.com/robalobadob/flaggle/internal/country"
	"github.com/robalobadob/flaggle/internal/geo"
)

const (
	regionPoints    = 20
	subregionPoints = 10
	colorPoints     = 30
	emblemPoints    = 10
	distancePoints  = 30

	// MaxDistanceKm is the distance at which the distance component reaches zero.
	MaxDistanceKm = 20000.0
)

// Generate computes the full feedback record for guess against target.
func Generate(guess, target country.Country) Record {
	km := geo.Distance(guess.Lat, guess.Lon, target.Lat, target.Lon)
	return Record{
		Region:     Region(guess, target),
		Colors:     Colors(guess.Colors, target.Colors),
		EmblemSame: guess.HasEmblem == target.HasEmblem,
		Similarity: Similarity(guess, target, km),
		DistanceKm: km,
	}
}

// Region classifies the geographic relationship of guess to target.
func Region(guess, target country.Country) RegionMatch {
	if guess.Region != target.Region {
		return RegionDifferent
	}
	if guess.Subregion == target.Subregion {
		return RegionSameSubregion
	}
	return RegionSameContinent
}

// Colors maps every distinct guess color to whether the target has it.
// Colors only the target carries are not reported.
func Colors(guess, target []string) map[string]bool {
	ts := toSet(target)
	out := make(map[string]bool, len(guess))
	for _, c := range guess {
		_, ok := ts[c]
		out[c] = ok
	}
	return out
}

// Similarity scores guess against target given their precomputed distance.
func Similarity(guess, target country.Country, distanceKm int) int {
	score := 0

	if guess.Region == target.Region {
		score += regionPoints
		if guess.Subregion == target.Subregion {
			score += subregionPoints
		}
	}

	score += int(math.Round(colorOverlap(guess.Colors, target.Colors) * colorPoints))

	if guess.HasEmblem == target.HasEmblem {
		score += emblemPoints
	}

	score += distanceScore(distanceKm)

	return clamp(score, 0, 100)
}

// colorOverlap is |A∩B| / |A∪B|; two empty sets overlap by 0.
func colorOverlap(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	union := len(as)
	inter := 0
	for c := range bs {
		if _, ok := as[c]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func distanceScore(km int) int {
	v := (1 - float64(km)/MaxDistanceKm) * distancePoints
	return int(math.Round(math.Max(0, v)))
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, s := range list {
		m[s] = struct{}{}
	}
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UILabel maps an engine tier to the label the web client renders.
// The client calls the closest tier "exact" although it only means the
// subregions match; no country-level tier exists in the engine.
func UILabel(m RegionMatch) string {
	switch m {
	case RegionSameSubregion:
		return "exact"
	case RegionSameContinent:
		return "same_continent"
	default:
		return "different"
	}
}
