// internal/feedback/types.go
//
// Type definitions for per-guess feedback.
// Defines:
//   - RegionMatch: three-tier geographic comparison.
//   - Record: the complete feedback for one guess against a target.

package feedback

// RegionMatch is the geographic tier of a guess relative to the target.
// Possible values:
//   - "same_subregion": same region and same subregion.
//   - "same_continent": same region, different subregion.
//   - "different":      different region.
type RegionMatch string

const (
	RegionSameSubregion RegionMatch = "same_subregion"
	RegionSameContinent RegionMatch = "same_continent"
	RegionDifferent     RegionMatch = "different"
)

// Record is the feedback produced for a single guess.
type Record struct {
	Region     RegionMatch     `json:"region"`
	Colors     map[string]bool `json:"colors"`      // guess color -> present in target
	EmblemSame bool            `json:"has_emblem"`  // guess.HasEmblem == target.HasEmblem
	Similarity int             `json:"similarity"`  // 0..100
	DistanceKm int             `json:"distance_km"` // rounded great-circle distance
}
