package locationIQ

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
)

func TestGetAddress(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if r.URL.Path != "/v1/reverse" || q.Get("key") != "k&y" || q.Get("lat") != "31.7748" || q.Get("lon") != "35.1978" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(`{"display_name":"Edmond J. Safra Campus, Jerusalem"}`))
	}))
	defer srv.Close()

	c := New("k&y")
	c.domain = srv.URL

	for range 2 {
		got, err := c.GetAddress(context.Background(), 35.1978, 31.7748)
		if err != nil {
			t.Fatal(err)
		}
		if got != "Edmond J. Safra Campus, Jerusalem" {
			t.Fatalf("got %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("second lookup must hit the cache, got %d calls", calls)
	}
}

func TestGetAddress_Errors(t *testing.T) {
	if _, err := New("").GetAddress(context.Background(), 1, 2); !errors.Is(err, types.ErrAddressLookupDisabled) {
		t.Fatalf("expected disabled lookup, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("key")
	c.domain = srv.URL
	if _, err := c.GetAddress(context.Background(), 1, 2); err == nil {
		t.Fatalf("non-200 answers must fail")
	}
	if len(c.cache) != 0 {
		t.Fatalf("failures must not be cached")
	}
}
