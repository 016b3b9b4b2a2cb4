package geo

import (
	"sort"

	"github.com/fahroox/attendance/internal/attendance"
)

// DefaultMatchRadius is the product default for "near a studio", in meters.
// It is a policy constant, not a physical one; callers may override it.
const DefaultMatchRadius = 500.0

// Match pairs a studio with its computed distance from the user.
type Match struct {
	Studio    attendance.Studio
	DistanceM float64
}

// FindNearby returns the studios within maxDistance meters of the given
// point, nearest first. Studios missing either coordinate component are
// skipped. Ties keep the input order; an empty result is not an error.
func FindNearby(lat, lon float64, studios []attendance.Studio, maxDistance float64) []Match {
	var matches []Match

	for _, s := range studios {
		sLat, sLon, ok := s.Coordinate()
		if !ok {
			continue
		}
		d := Distance(lat, lon, sLat, sLon)
		if d <= maxDistance {
			matches = append(matches, Match{Studio: s, DistanceM: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceM < matches[j].DistanceM
	})
	return matches
}
