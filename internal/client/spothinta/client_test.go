package spothinta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ondalf/spothinta/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClientWith(srv.URL, 5*time.Second)
}

func TestTodayAndDayForward_Success(t *testing.T) {
	var gotQuery map[string]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"region":          r.URL.Query().Get("region"),
			"priceResolution": r.URL.Query().Get("priceResolution"),
		}
		assert.Equal(t, TodayAndDayForwardEndpoint, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"Rank": 2, "DateTime": "2026-03-10T11:00:00+02:00", "PriceWithTax": 0.1234, "PriceNoTax": 0.0995},
			{"Rank": 1, "DateTime": "2026-03-10T10:00:00+02:00", "PriceWithTax": 0.0712, "PriceNoTax": 0.0574}
		]`))
	})

	series, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	require.NoError(t, err)

	assert.Equal(t, "FI", gotQuery["region"])
	assert.Equal(t, "15", gotQuery["priceResolution"])

	// Upstream order is untrusted; the returned series is sorted.
	require.Len(t, series, 2)
	assert.True(t, series.IsSorted())
	require.NotNil(t, series[0].PriceWithTax)
	assert.Equal(t, 0.0712, *series[0].PriceWithTax)
	require.NotNil(t, series[1].PriceWithoutTax)
	assert.Equal(t, 0.0995, *series[1].PriceWithoutTax)
}

func TestTodayAndDayForward_DropsMalformedRecords(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"DateTime": "2026-03-10T10:00:00+02:00", "PriceWithTax": 0.07},
			{"DateTime": "not-a-timestamp", "PriceWithTax": 0.08},
			{"DateTime": "2026-03-10T11:00:00+02:00"},
			{"DateTime": "2026-03-10T12:00:00+02:00", "PriceWithTax": null, "PriceNoTax": 0.05},
			{"DateTime": "2026-03-10T13:00:00+02:00", "PriceNoTax": 0.09}
		]`))
	})

	series, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	require.NoError(t, err)

	// Dropped: bad timestamp, no price at all. Retained: the null
	// PriceWithTax record survives through its PriceNoTax.
	require.Len(t, series, 3)
	assert.Nil(t, series[1].PriceWithTax)
	require.NotNil(t, series[1].PriceWithoutTax)
	assert.Equal(t, 0.05, *series[1].PriceWithoutTax)
}

func TestTodayAndDayForward_RateLimited(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestTodayAndDayForward_ServerError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestTodayAndDayForward_StructuralDecodeError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "not an array"}`))
	})

	_, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestTodayAndDayForward_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client := NewClientWith(srv.URL, 20*time.Millisecond)
	_, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestTodayAndDayForward_InputValidation(t *testing.T) {
	client := NewClient()

	_, err := client.TodayAndDayForward(context.Background(), model.Region("XX"), model.ResolutionQuarterHour)
	assert.ErrorIs(t, err, model.ErrUnknownRegion)

	_, err = client.TodayAndDayForward(context.Background(), model.RegionFI, model.Resolution(30))
	assert.ErrorIs(t, err, model.ErrInvalidResolution)
}

func TestTodayAndDayForward_EmptyArray(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	series, err := client.TodayAndDayForward(context.Background(), model.RegionFI, model.ResolutionQuarterHour)
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestToPricePoint_TimestampNormalization(t *testing.T) {
	record := priceRecord{DateTime: "2026-03-10T10:00:00+02:00", PriceWithTax: jsonNumber("0.07")}
	point, err := record.toPricePoint()
	require.NoError(t, err)

	want := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	assert.True(t, point.Timestamp.Equal(want))
}

func jsonNumber(s string) *json.Number {
	n := json.Number(s)
	return &n
}
