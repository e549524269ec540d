package binmap

import (
	"regexp"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

func TestFillColor_LowPercentKeepsRedAndRampsGreen(t *testing.T) {
	for p := 0.0; p <= 255.0/5; p += 0.5 {
		c := FillColor(p)
		if c.R != 255 {
			t.Fatalf("p=%v: red must stay 255, got %d", p, c.R)
		}
		if want := int(5 * p); c.G != want {
			t.Fatalf("p=%v: green must be 5p=%d, got %d", p, want, c.G)
		}
		if c.B != 0 {
			t.Fatalf("p=%v: blue must be 0", p)
		}
	}
}

func TestFillColor_HighPercentClampsGreenAndFadesRed(t *testing.T) {
	prevRed := 256
	for p := 52.0; p <= 100; p++ {
		c := FillColor(p)
		if c.G != 255 {
			t.Fatalf("p=%v: green must be clamped at 255, got %d", p, c.G)
		}
		if want := int(500 - 5*p); c.R != want {
			t.Fatalf("p=%v: red must be 500-5p=%d, got %d", p, want, c.R)
		}
		if c.R >= prevRed {
			t.Fatalf("p=%v: red must decrease, %d after %d", p, c.R, prevRed)
		}
		prevRed = c.R
	}
	if c := FillColor(100); c.R != 0 {
		t.Fatalf("red must reach 0 at p=100, got %d", c.R)
	}
}

func TestFillColor_OutOfRangeSaturates(t *testing.T) {
	if c := FillColor(150); c.R != 0 || c.G != 255 {
		t.Fatalf("p=150 must saturate to pure green, got %+v", c)
	}
	if c := FillColor(-10); c.R != 255 || c.G != 0 {
		t.Fatalf("p=-10 must saturate to pure red, got %+v", c)
	}
}

func TestFillColor_Examples(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{0, "#ff0000"},
		{50, "#fffa00"},
		{51, "#ffff00"},
		{60, "#c8ff00"},
		{100, "#00ff00"},
	}
	for _, tt := range tests {
		if got := FillColor(tt.p).Hex(); got != tt.want {
			t.Fatalf("p=%v: got %s want %s", tt.p, got, tt.want)
		}
	}
}

func TestHex_AlwaysTwoLowercaseDigitsPerChannel(t *testing.T) {
	re := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for v := 0; v <= 255; v++ {
		got := models.RGB{R: v, G: v, B: v}.Hex()
		if !re.MatchString(got) {
			t.Fatalf("channel %d formatted as %q", v, got)
		}
	}
}

func TestFillPercentage(t *testing.T) {
	tests := []struct {
		distance, max, want float64
	}{
		{50, 100, 50},
		{0, 100, 0},
		{100, 100, 100},
		{250, 100, 100},
		{-3, 100, 0},
		{30, 120, 25},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := FillPercentage(tt.distance, tt.max); got != tt.want {
			t.Fatalf("FillPercentage(%v, %v) = %v, want %v", tt.distance, tt.max, got, tt.want)
		}
	}
}

func TestMarkerIcon(t *testing.T) {
	icon := MarkerIcon(50)
	if icon.FillColor != "#fffa00" {
		t.Fatalf("unexpected fill color %s", icon.FillColor)
	}
	if icon.Scale != 1.4 || icon.FillOpacity != 1 || icon.StrokeWeight != 0 {
		t.Fatalf("unexpected icon style: %+v", icon)
	}
	if icon.Anchor != (models.Point{X: 15, Y: 30}) {
		t.Fatalf("unexpected anchor: %+v", icon.Anchor)
	}
	if icon.Path == "" {
		t.Fatalf("icon path must be set")
	}
}

func BenchmarkFillColor(b *testing.B) {
	for b.Loop() {
		_ = FillColor(37.5).Hex()
	}
}
