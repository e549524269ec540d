package binmap

import (
	"math"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

// FillPercentage clamps distance to [0, maxDistance] and scales it to [0, 100].
func FillPercentage(distance, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	d := math.Min(maxDistance, math.Max(0, distance))
	return 100 * d / maxDistance
}

// FillColor maps a fill percentage to a red -> yellow -> green gradient.
//
// With i = 5p: green = min(255, i), red = 255 while i <= 255 and 500 - i after that.
// Channels are truncated to integers and clamped to [0, 255], so percentages outside
// [0, 100] saturate instead of producing negative or oversized channels.
func FillColor(p float64) models.RGB {
	i := 5 * p

	green := math.Min(255, i)
	red := 255.0
	if i > 255 {
		red = 500 - i
	}

	return models.RGB{
		R: clampChannel(red),
		G: clampChannel(green),
		B: 0,
	}
}

func clampChannel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(255, math.Trunc(v))))
}
