package binmap

import (
	"slices"
	"strings"
	"sync"

	"github.com/Temutjin2k/smartrash/internal/domain/models"
)

// Tracker holds the session state of the map: the visible marker of every device
// and the readings each device has sent, in arrival order.
//
// Writes come from the message handler one at a time; HTTP and WebSocket
// handlers read concurrently, so every accessor returns copies.
type Tracker struct {
	mu      sync.RWMutex
	markers map[string]models.Marker
	history map[string][]models.Reading
}

func NewTracker() *Tracker {
	return &Tracker{
		markers: make(map[string]models.Marker),
		history: make(map[string][]models.Reading),
	}
}

// Apply installs marker as the only visible marker of reading.ID and appends the
// reading to the device history. It returns the installed marker and whether a
// previous marker was replaced.
func (t *Tracker) Apply(reading models.Reading, marker models.Marker) (models.Marker, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := reading.ID
	_, replaced := t.markers[id]

	t.history[id] = append(t.history[id], reading)
	marker.DeviceID = id
	marker.Readings = len(t.history[id])
	t.markers[id] = marker

	return marker, replaced
}

// Marker returns the visible marker of a device.
func (t *Tracker) Marker(id string) (models.Marker, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	m, ok := t.markers[id]
	return m, ok
}

// Markers returns all visible markers ordered by device id.
func (t *Tracker) Markers() []models.Marker {
	t.mu.RLock()
	out := make([]models.Marker, 0, len(t.markers))
	for _, m := range t.markers {
		out = append(out, m)
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.Marker) int {
		return strings.Compare(a.DeviceID, b.DeviceID)
	})
	return out
}

// History returns a copy of the readings of a device.
func (t *Tracker) History(id string) ([]models.Reading, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, ok := t.history[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(h), true
}

// Forget drops the marker and the history of a device.
func (t *Tracker) Forget(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.markers[id]
	delete(t.markers, id)
	delete(t.history, id)
	return ok
}

// Len returns the number of visible markers.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.markers)
}
