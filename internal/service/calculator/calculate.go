package calculator

import (
	"cmp"
	"math"
	"slices"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

const earthRadiusM = 6371000.0

// DistanceMeters is the great-circle distance between two positions.
func DistanceMeters(p1, p2 models.Position) float64 {
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(p1.Lat*math.Pi/180)*math.Cos(p2.Lat*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Nearest returns the markers within radius meters of center, closest first.
// radius <= 0 means any distance, limit <= 0 means no limit.
// Ties are ordered by device id.
func Nearest(markers []models.Marker, center models.Position, radius float64, limit int) []models.NearbyMarker {
	out := make([]models.NearbyMarker, 0, len(markers))
	for _, m := range markers {
		d := DistanceMeters(center, m.Position)
		if radius > 0 && d > radius {
			continue
		}
		out = append(out, models.NearbyMarker{Marker: m, DistanceMeters: d})
	}

	slices.SortFunc(out, func(a, b models.NearbyMarker) int {
		if c := cmp.Compare(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		return cmp.Compare(a.Marker.DeviceID, b.Marker.DeviceID)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
