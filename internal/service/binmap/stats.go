package binmap

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

// FleetStats summarizes markers. Devices at or below alertPercent are listed as
// alerts: a short sensor distance means the bin is close to full.
func FleetStats(markers []models.Marker, alertPercent float64) models.FleetStats {
	out := models.FleetStats{
		Devices:        len(markers),
		AlertThreshold: alertPercent,
		AlertDevices:   []string{},
	}
	if len(markers) == 0 {
		return out
	}

	percents := make([]float64, len(markers))
	for i, m := range markers {
		percents[i] = m.Percent
		if m.Percent <= alertPercent {
			out.AlertDevices = append(out.AlertDevices, m.DeviceID)
		}
	}

	out.MinPercent = floats.Min(percents)
	out.MaxPercent = floats.Max(percents)
	if len(percents) == 1 {
		out.MeanPercent = percents[0]
		return out
	}
	out.MeanPercent, out.StdDevPercent = stat.MeanStdDev(percents, nil)

	return out
}
