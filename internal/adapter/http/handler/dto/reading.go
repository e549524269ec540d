package dto

import (
	"github.com/Temutjin2k/smartrash/internal/domain/models"
	"github.com/Temutjin2k/smartrash/pkg/validator"
)

// ReadingReq is a reading injected by an operator. Numbers may be sent as
// JSON numbers or numeric strings, like the bins do.
type ReadingReq struct {
	ID         string         `json:"id"`
	GPSMessage string         `json:"gps_msg,omitempty"`
	Distance   *models.Number `json:"distance"`
	Lat        *models.Number `json:"lat"`
	LatScale   *models.Number `json:"lat_scale"`
	Long       *models.Number `json:"long"`
	LongScale  *models.Number `json:"long_scale"`
}

func (r *ReadingReq) Validate(v *validator.Validator) {
	v.Check(r.ID != "", "id", "must be provided")
	v.Check(r.Distance != nil, "distance", "must be provided")
	v.Check(r.Lat != nil, "lat", "must be provided")
	v.Check(r.LatScale != nil, "lat_scale", "must be provided")
	v.Check(r.Long != nil, "long", "must be provided")
	v.Check(r.LongScale != nil, "long_scale", "must be provided")
}

// ToModel must be called after Validate.
func (r *ReadingReq) ToModel() models.Reading {
	return models.Reading{
		ID:         r.ID,
		GPSMessage: r.GPSMessage,
		Distance:   *r.Distance,
		Lat:        *r.Lat,
		LatScale:   *r.LatScale,
		Long:       *r.Long,
		LongScale:  *r.LongScale,
	}
}

type ReadingResp struct {
	Marker   models.Marker `json:"marker"`
	Replaced bool          `json:"replaced"`
}
