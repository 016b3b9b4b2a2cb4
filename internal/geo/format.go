package geo

import (
	"fmt"
	"math"
)

// FormatDistance renders a distance in meters for user-facing messages:
// "321m" below one kilometer, "1.2km" above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}
