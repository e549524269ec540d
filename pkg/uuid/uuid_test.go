package uuid

import (
	"encoding/json"
	"testing"
)

func TestNew_VersionAndVariant(t *testing.T) {
	u, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if u[6]>>4 != 4 {
		t.Fatalf("expected version 4, got %d", u[6]>>4)
	}
	if u[8]&0xc0 != 0x80 {
		t.Fatalf("expected RFC 4122 variant, got %08b", u[8])
	}
}

func TestParse_RoundTrip(t *testing.T) {
	u := MustNew()
	got, err := Parse(u.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != u {
		t.Fatalf("round trip mismatch: %s vs %s", got, u)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-a-uuid", "123e4567e89b12d3a456426614174000", "123e4567-e89b-12d3-a456-42661417400z"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestJSON_UsesTextForm(t *testing.T) {
	u, _ := Parse("123e4567-e89b-12d3-a456-426614174000")
	b, err := json.Marshal(map[string]UUID{"id": u})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":"123e4567-e89b-12d3-a456-426614174000"}` {
		t.Fatalf("unexpected json: %s", b)
	}
}
