package models

// FleetStats summarizes the fill percentage of all visible markers
type FleetStats struct {
	Devices        int      `json:"devices"`
	MeanPercent    float64  `json:"mean_percent"`
	StdDevPercent  float64  `json:"stddev_percent"`
	MinPercent     float64  `json:"min_percent"`
	MaxPercent     float64  `json:"max_percent"`
	AlertThreshold float64  `json:"alert_threshold"`
	AlertDevices   []string `json:"alert_devices"`
}
