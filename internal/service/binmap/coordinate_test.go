package binmap

import (
	"math"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestDecodeCoordinate(t *testing.T) {
	tests := []struct {
		name         string
		value, scale float64
		want         float64
	}{
		{"whole minutes", 3130, 1, 31.5},
		{"zero", 0, 1, 0},
		{"zero with scale", 0, 1000, 0},
		{"scaled minutes", 3146480, 1000, 31 + 46.48/60},
		{"longitude three digit degrees", 3511870, 1000, 35 + 11.87/60},
		{"negative keeps sign of remainder", -3130, 1, -32 - 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCoordinate(tt.value, tt.scale); !near(got, tt.want) {
				t.Fatalf("DecodeCoordinate(%v, %v) = %v, want %v", tt.value, tt.scale, got, tt.want)
			}
		})
	}
}

func TestDecodeCoordinate_Pure(t *testing.T) {
	a := DecodeCoordinate(3146480, 1000)
	b := DecodeCoordinate(3146480, 1000)
	if a != b {
		t.Fatalf("decode must be deterministic: %v vs %v", a, b)
	}
}

func TestCoordinateDecoder_LegacyLongitudeScale(t *testing.T) {
	r := models.Reading{
		Lat: 3130, LatScale: 1,
		Long: 526000, LongScale: 100,
	}

	legacy := CoordinateDecoder{LegacyLongitudeScale: true}.Decode(r)
	fixed := CoordinateDecoder{LegacyLongitudeScale: false}.Decode(r)

	if !near(legacy.Lat, 31.5) || !near(fixed.Lat, 31.5) {
		t.Fatalf("latitude must not depend on the switch: %v / %v", legacy.Lat, fixed.Lat)
	}
	// floor(526000/10000) = 52, remainder 6000
	if want := 52 + 6000.0/60; !near(legacy.Lng, want) {
		t.Fatalf("legacy longitude = %v, want %v", legacy.Lng, want)
	}
	if want := 52 + 6000.0/6000; !near(fixed.Lng, want) {
		t.Fatalf("fixed longitude = %v, want %v", fixed.Lng, want)
	}
}

func TestCoordinateDecoder_EqualScalesAgree(t *testing.T) {
	r := models.Reading{Lat: 3146480, LatScale: 1000, Long: 3511870, LongScale: 1000}
	legacy := CoordinateDecoder{LegacyLongitudeScale: true}.Decode(r)
	fixed := CoordinateDecoder{}.Decode(r)
	if legacy != fixed {
		t.Fatalf("decoders must agree when scales match: %+v vs %+v", legacy, fixed)
	}
}

func TestEncodeCoordinate_RoundTrip(t *testing.T) {
	for _, deg := range []float64{31.77480304008521, 35.19783738032892, 0.5, 12} {
		v := EncodeCoordinate(deg, 10000)
		if got := DecodeCoordinate(v, 10000); math.Abs(got-deg) > 1e-6 {
			t.Fatalf("%v -> %v -> %v", deg, v, got)
		}
	}
}
