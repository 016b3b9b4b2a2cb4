// Package geo implements the studio-matching geometry: great-circle
// distance, nearby filtering, and coordinate extraction from maps URLs.
package geo

import "math"

// earthRadiusM is the mean Earth radius in meters (spherical approximation).
const earthRadiusM = 6371000.0

// Distance computes the great-circle distance between two points using the
// Haversine formula. Inputs are decimal degrees, output is meters.
// Coordinate ranges are not validated.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := radians(lat1)
	lat2Rad := radians(lat2)
	deltaLat := radians(lat2 - lat1)
	deltaLon := radians(lon2 - lon1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
