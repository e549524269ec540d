package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
)

// Number is a numeric telemetry field.
// The bin firmware formats every value with %d inside quotes, so both 42 and "42" are accepted.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

// MarshalCSV writes the plain decimal form, never an exponent.
func (n Number) MarshalCSV() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(n), 'f', -1, 64), nil
}

// Reading is one telemetry event published by a bin
type Reading struct {
	ID         string              `json:"id" csv:"id"`
	Distance   Number              `json:"distance" csv:"distance"`
	Lat        Number              `json:"lat" csv:"lat"`
	LatScale   Number              `json:"lat_scale" csv:"lat_scale"`
	Long       Number              `json:"long" csv:"long"`
	LongScale  Number              `json:"long_scale" csv:"long_scale"`
	GPSMessage string              `json:"gps_msg,omitempty" csv:"gps_msg,omitempty"`
	Source     types.ReadingSource `json:"source,omitempty" csv:"source,omitempty"`
	ReceivedAt time.Time           `json:"received_at" csv:"received_at"`
}
