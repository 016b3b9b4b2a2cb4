package geo

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns tried in priority order: the /place/.../@lat,lng,Nz form carries
// the user-selected pin, so it wins over the viewport-centre @lat,lng form
// and the data-blob fallback.
var (
	placePattern  = regexp.MustCompile(`/place/[^/]+/@(-?\d+\.?\d*),(-?\d+\.?\d*),\d+z`)
	atPattern     = regexp.MustCompile(`@(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	dataPattern   = regexp.MustCompile(`!8m2!3d(-?\d+\.?\d*)!4d(-?\d+\.?\d*)!`)
	llPattern     = regexp.MustCompile(`[?&]ll=(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	centerPattern = regexp.MustCompile(`[?&]center=(-?\d+\.?\d*),(-?\d+\.?\d*)`)
	qPattern      = regexp.MustCompile(`[?&]q=(-?\d+\.?\d*),(-?\d+\.?\d*)`)
)

// ExtractCoordinates pulls a latitude/longitude pair out of the common
// Google Maps URL shapes. ok is false when no pattern matches or the
// extracted values fall outside valid coordinate ranges.
func ExtractCoordinates(url string) (lat, lon float64, ok bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, 0, false
	}

	for _, p := range []*regexp.Regexp{placePattern, atPattern, dataPattern, llPattern, centerPattern, qPattern} {
		m := p.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lon, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		if !ValidCoordinate(lat, lon) {
			return 0, 0, false
		}
		return lat, lon, true
	}
	return 0, 0, false
}

// ValidCoordinate reports whether lat and lon are inside the valid
// latitude [-90, 90] and longitude [-180, 180] ranges.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
