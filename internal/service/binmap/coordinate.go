package binmap

import (
	"math"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

// DecodeCoordinate turns a scaled ddmm.mmmm integer into decimal degrees:
// floor(value / (100*scale)) + (value mod 100*scale) / (60*scale).
// mod keeps the sign of value.
func DecodeCoordinate(value, scale float64) float64 {
	return decode(value, scale, scale)
}

func decode(value, scale, minutesScale float64) float64 {
	degrees := math.Floor(value / (100 * scale))
	minutes := math.Mod(value, 100*scale)
	return degrees + minutes/(60*minutesScale)
}

// CoordinateDecoder decodes the position carried by a reading.
type CoordinateDecoder struct {
	// LegacyLongitudeScale divides the longitude minutes by 60*lat_scale, like the
	// deployed map page does. Turning it off uses long_scale.
	// Both agree whenever lat_scale == long_scale.
	LegacyLongitudeScale bool
}

func (d CoordinateDecoder) Decode(r models.Reading) models.Position {
	lat := decode(r.Lat.Float64(), r.LatScale.Float64(), r.LatScale.Float64())

	minutesScale := r.LongScale.Float64()
	if d.LegacyLongitudeScale {
		minutesScale = r.LatScale.Float64()
	}
	lng := decode(r.Long.Float64(), r.LongScale.Float64(), minutesScale)

	return models.Position{Lat: lat, Lng: lng}
}

// EncodeCoordinate is the inverse of DecodeCoordinate for non-negative degrees:
// it produces the scaled ddmm.mmmm integer a GPS module reports.
func EncodeCoordinate(degrees, scale float64) float64 {
	whole := math.Floor(degrees)
	minutes := (degrees - whole) * 60
	return math.Round((whole*100 + minutes) * scale)
}
