package dhan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/algotrader/broker"
	"github.com/rustyeddy/algotrader/execution"
	"github.com/rustyeddy/algotrader/market"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("CID", "TOKEN", zerolog.Nop()).WithBaseURL(srv.URL)
}

func TestGetHistoricalBars(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charts/historical", r.URL.Path)
		assert.Equal(t, "TOKEN", r.Header.Get("access-token"))

		var req historicalRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2885", req.SecurityID)
		assert.Equal(t, "NSE_EQ", req.ExchangeSegment)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"timestamp": "2024-06-03", "open": 100, "high": 105, "low": 99, "close": 103, "volume": 12000},
				{"timestamp": "2024-06-04T00:00:00Z", "open": 103, "high": 108, "low": 102, "close": 107, "volume": 15000},
			},
		})
	})

	inst := market.Instrument{Symbol: "RELIANCE", SecurityID: "2885", Segment: "NSE_EQ"}
	bars, err := c.GetHistoricalBars(context.Background(), inst, 30)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.InDelta(t, 103.0, bars[0].Close, 1e-9)
	assert.InDelta(t, 15000.0, bars[1].Volume, 1e-9)
}

func TestGetHistoricalBars_Empty(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	_, err := c.GetHistoricalBars(context.Background(), market.Instrument{Symbol: "TCS"}, 30)
	assert.ErrorIs(t, err, broker.ErrDataUnavailable)
}

func TestGetHistoricalBars_APIError(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	})

	_, err := c.GetHistoricalBars(context.Background(), market.Instrument{Symbol: "TCS"}, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestPlaceOrder(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req orderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CID", req.DhanClientID)
		assert.Equal(t, "BUY", req.TransactionType)
		assert.Equal(t, "MARKET", req.OrderType)
		assert.Equal(t, 10, req.Quantity)
		assert.NotEmpty(t, req.CorrelationID)

		json.NewEncoder(w).Encode(orderResponse{OrderID: "ORD-1", Status: "TRANSIT"})
	})

	brokerID, err := c.PlaceOrder(context.Background(), execution.Order{
		ID: "o1", Symbol: "RELIANCE", SecurityID: "2885", Segment: "NSE_EQ",
		Side: execution.Buy, Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", brokerID)
}

func TestGetAvailableCapital(t *testing.T) {
	t.Parallel()

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fundlimit", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"availableBalance": 84250.5},
		})
	})

	capital, err := c.GetAvailableCapital(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 84250.5, capital, 1e-9)
}
