package spothinta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
	"github.com/Ondalf/spothinta/internal/infrastructure/metrics"
	"github.com/Ondalf/spothinta/internal/model"
)

const (
	// APIBaseURL is the fixed provider endpoint.
	APIBaseURL = "https://api.spot-hinta.fi"
	// TodayAndDayForwardEndpoint returns current plus forward-day prices.
	TodayAndDayForwardEndpoint = "/TodayAndDayForward"
	// DefaultTimeout bounds one request to the provider.
	DefaultTimeout = 15 * time.Second
)

// Client talks to the spot-hinta.fi REST API. It performs no cache mutation
// and no retries; it only fetches, validates and sorts one payload.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client against the fixed provider endpoint.
func NewClient() *Client {
	return &Client{
		baseURL: APIBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// NewClientWith creates a client with a custom base URL and timeout,
// mainly for tests against httptest servers.
func NewClientWith(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = APIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TodayAndDayForward fetches the price series for one region. The returned
// series is sorted ascending by timestamp; upstream ordering is untrusted.
// Malformed individual records are dropped and counted, not fatal.
func (c *Client) TodayAndDayForward(ctx context.Context, region model.Region, resolution model.Resolution) (model.TimeSeries, error) {
	if !region.IsSupported() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownRegion, region)
	}
	if err := resolution.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL + TodayAndDayForwardEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("region", region.String())
	q.Set("priceResolution", strconv.Itoa(int(resolution)))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "spothinta/1.0")

	logging.Debug(ctx, "Requesting provider", logging.Fields{
		logging.FieldRegion:   region.String(),
		logging.FieldEndpoint: TodayAndDayForwardEndpoint,
		"resolution":          int(resolution),
	})

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		metrics.RecordProviderRequest(region.String(), 0, requestDuration)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: context timeout/canceled: %v", ErrTransport, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordProviderRequest(region.String(), resp.StatusCode, requestDuration)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: HTTP 429 (%w)", ErrTransport, ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}

	series, dropped, err := decodeSeries(body)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		metrics.RecordDroppedRecords(region.String(), dropped)
		logging.Warn(ctx, "Dropped malformed provider records", logging.Fields{
			logging.FieldRegion: region.String(),
			"dropped":           dropped,
			"retained":          len(series),
		})
	}

	logging.Debug(ctx, "Provider response decoded", logging.Fields{
		logging.FieldRegion:   region.String(),
		logging.FieldDuration: float64(requestDuration.Nanoseconds()) / 1e6,
		"points":              len(series),
	})

	return series.Sorted(), nil
}

// decodeSeries parses the response body into retained points plus a count
// of dropped records. A body that is not a JSON array at all is a decode
// failure for the whole attempt.
func decodeSeries(body []byte) (model.TimeSeries, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	series := make(model.TimeSeries, 0, len(raw))
	dropped := 0
	for _, msg := range raw {
		var record priceRecord
		if err := json.Unmarshal(msg, &record); err != nil {
			dropped++
			continue
		}
		point, err := record.toPricePoint()
		if err != nil {
			dropped++
			continue
		}
		series = append(series, point)
	}
	return series, dropped, nil
}
