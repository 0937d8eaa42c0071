// Package geo holds great-circle helpers for country coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance in whole kilometres
// between (lat1, lon1) and (lat2, lon2), all in degrees.
func Distance(lat1, lon1, lat2, lon2 float64) int {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return int(math.Round(EarthRadiusKm * c))
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
