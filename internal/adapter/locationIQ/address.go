package locationIQ

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Temutjin2k/smartrash/internal/domain/types"
	wrap "github.com/Temutjin2k/smartrash/pkg/logger/wrapper"
)

const (
	defaultDomain  = "https://us1.locationiq.com"
	requestTimeout = 5 * time.Second
)

// LocationIQClient reverse geocodes bin positions. Addresses are cached per
// position rounded to about one metre, since bins rarely move.
type LocationIQClient struct {
	apiKey string
	domain string
	client *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

func New(apiKey string) *LocationIQClient {
	return &LocationIQClient{
		apiKey: apiKey,
		domain: defaultDomain,
		client: &http.Client{Timeout: requestTimeout},
		cache:  make(map[string]string),
	}
}

type AddressPayload struct {
	Address string `json:"display_name"`
}

func (c *LocationIQClient) GetAddress(ctx context.Context, longitude, latitude float64) (string, error) {
	const op = "LocationIQClient.GetAddress"

	if c.apiKey == "" {
		return "", types.ErrAddressLookupDisabled
	}

	key := cacheKey(longitude, latitude)
	c.mu.RLock()
	address, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return address, nil
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.domain+"/v1/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to build request: %w", op, err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload AddressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		ctx = wrap.WithAction(ctx, "decode_address_payload")
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to decode data from LocationIQ response: %w", op, err))
	}

	c.mu.Lock()
	c.cache[key] = payload.Address
	c.mu.Unlock()

	return payload.Address, nil
}

func cacheKey(longitude, latitude float64) string {
	return strconv.FormatFloat(latitude, 'f', 5, 64) + "," + strconv.FormatFloat(longitude, 'f', 5, 64)
}
