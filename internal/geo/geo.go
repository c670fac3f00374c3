// Package geo holds great-circle helpers for site coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

// DistanceKm returns the haversine distance in kilometres between two points
// given in decimal degrees. Inputs are not validated; NaN propagates, so
// callers check finiteness first.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)
	s1 := math.Sin(dLat / 2)
	s2 := math.Sin(dLon / 2)
	a := s1*s1 + math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*s2*s2
	// Rounding can push a just past 1 near antipodes.
	a = math.Min(math.Max(a, 0), 1)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Valid reports whether both coordinates are finite numbers.
func Valid(lat, lng float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && !math.IsNaN(lng) && !math.IsInf(lng, 0)
}
