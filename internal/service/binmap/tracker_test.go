package binmap

import (
	"sync"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

func TestTracker_SameDeviceKeepsOneMarkerAndFullHistory(t *testing.T) {
	tr := NewTracker()

	first, replaced := tr.Apply(models.Reading{ID: "a", Distance: 50}, models.Marker{Percent: 50})
	if replaced {
		t.Fatalf("first reading must not replace anything")
	}
	if first.DeviceID != "a" || first.Readings != 1 {
		t.Fatalf("unexpected first marker: %+v", first)
	}

	second, replaced := tr.Apply(models.Reading{ID: "a", Distance: 20}, models.Marker{Percent: 20})
	if !replaced {
		t.Fatalf("second reading must replace the first marker")
	}
	if second.Readings != 2 {
		t.Fatalf("expected 2 readings on marker, got %d", second.Readings)
	}

	if tr.Len() != 1 {
		t.Fatalf("expected exactly one visible marker, got %d", tr.Len())
	}
	m, ok := tr.Marker("a")
	if !ok || m.Percent != 20 {
		t.Fatalf("visible marker must be the latest one, got %+v", m)
	}

	h, ok := tr.History("a")
	if !ok || len(h) != 2 {
		t.Fatalf("expected two-element history, got %v", h)
	}
	if h[0].Distance != 50 || h[1].Distance != 20 {
		t.Fatalf("history must keep arrival order: %+v", h)
	}
}

func TestTracker_HistoryIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Apply(models.Reading{ID: "a", Distance: 1}, models.Marker{})

	h, _ := tr.History("a")
	h[0].Distance = 99

	again, _ := tr.History("a")
	if again[0].Distance != 1 {
		t.Fatalf("callers must not mutate tracker state")
	}
}

func TestTracker_MarkersSortedByID(t *testing.T) {
	tr := NewTracker()
	for _, id := range []string{"c", "a", "b"} {
		tr.Apply(models.Reading{ID: id}, models.Marker{})
	}

	got := tr.Markers()
	if len(got) != 3 || got[0].DeviceID != "a" || got[1].DeviceID != "b" || got[2].DeviceID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	tr.Apply(models.Reading{ID: "a"}, models.Marker{})

	if !tr.Forget("a") {
		t.Fatalf("forget must report a known device")
	}
	if tr.Forget("a") {
		t.Fatalf("forget must report an unknown device")
	}
	if _, ok := tr.History("a"); ok {
		t.Fatalf("history must be dropped")
	}
	if tr.Len() != 0 {
		t.Fatalf("marker must be dropped")
	}
}

func TestTracker_ConcurrentReaders(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for range 500 {
			tr.Apply(models.Reading{ID: "a"}, models.Marker{})
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			_ = tr.Markers()
			_, _ = tr.History("a")
		}
	}()
	wg.Wait()

	h, _ := tr.History("a")
	if len(h) != 500 {
		t.Fatalf("expected 500 readings, got %d", len(h))
	}
}
