package dto

import (
	"math"
	"net/url"
	"strconv"

	"github.com/Temutjin2k/smartrash/pkg/validator"
)

const maxNearbyLimit = 1000

// NearbyQuery is the query string of the nearby markers search.
type NearbyQuery struct {
	Lat    float64
	Lng    float64
	Radius float64
	Limit  int
}

// Parse reads the query values, recording unparsable ones in v.
func (q *NearbyQuery) Parse(v *validator.Validator, values url.Values) {
	q.Lat = parseFloat(v, values, "lat", true)
	q.Lng = parseFloat(v, values, "lng", true)
	q.Radius = parseFloat(v, values, "radius", false)

	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		v.Check(err == nil, "limit", "must be an integer")
		q.Limit = n
	}
}

func (q *NearbyQuery) Validate(v *validator.Validator) {
	v.Check(q.Lat >= -90 && q.Lat <= 90, "lat", "must be between -90 and 90")
	v.Check(q.Lng >= -180 && q.Lng <= 180, "lng", "must be between -180 and 180")
	v.Check(q.Radius >= 0, "radius", "must not be negative")
	v.Check(q.Limit >= 0 && q.Limit <= maxNearbyLimit, "limit", "must be between 0 and 1000")
}

func parseFloat(v *validator.Validator, values url.Values, key string, required bool) float64 {
	raw := values.Get(key)
	if raw == "" {
		v.Check(!required, key, "must be provided")
		return 0
	}

	f, err := strconv.ParseFloat(raw, 64)
	v.Check(err == nil && !math.IsNaN(f) && !math.IsInf(f, 0), key, "must be a number")
	return f
}
