// Package dhan implements the broker contracts against the Dhan HTTP API.
package dhan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/algotrader/broker"
	"github.com/rustyeddy/algotrader/execution"
	"github.com/rustyeddy/algotrader/market"
	"github.com/rustyeddy/algotrader/pkg/id"
)

// BaseURL is the production API endpoint.
const BaseURL = "https://api.dhan.co"

// Client talks to the Dhan REST API. Every call carries a bounded timeout
// and passes through a client-side rate limiter.
type Client struct {
	baseURL    string
	clientID   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient builds a client authenticated with the given access token.
func NewClient(clientID, accessToken string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  BaseURL,
		clientID: clientID,
		token:    accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		// The API tolerates roughly 10 requests per second per token.
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		log:     log.With().Str("component", "dhan").Logger(),
	}
}

// WithBaseURL points the client at an alternate endpoint (tests, sandboxes).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type historicalRequest struct {
	SecurityID      string `json:"securityId"`
	ExchangeSegment string `json:"exchangeSegment"`
	Instrument      string `json:"instrument"`
	FromDate        string `json:"fromDate"`
	ToDate          string `json:"toDate"`
}

type historicalResponse struct {
	Data []struct {
		Timestamp string  `json:"timestamp"`
		Open      float64 `json:"open"`
		High      float64 `json:"high"`
		Low       float64 `json:"low"`
		Close     float64 `json:"close"`
		Volume    float64 `json:"volume"`
	} `json:"data"`
}

// GetHistoricalBars fetches daily bars covering the trailing lookback window.
func (c *Client) GetHistoricalBars(ctx context.Context, inst market.Instrument, lookbackDays int) ([]market.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	body := historicalRequest{
		SecurityID:      inst.SecurityID,
		ExchangeSegment: inst.Segment,
		Instrument:      "EQUITY",
		FromDate:        now.AddDate(0, 0, -lookbackDays).Format("2006-01-02"),
		ToDate:          now.Format("2006-01-02"),
	}

	var resp historicalResponse
	if err := c.do(ctx, http.MethodGet, "/charts/historical", body, &resp); err != nil {
		return nil, fmt.Errorf("historical %s: %w", inst.Symbol, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("historical %s: %w", inst.Symbol, broker.ErrDataUnavailable)
	}

	bars := make([]market.Bar, 0, len(resp.Data))
	for _, row := range resp.Data {
		t, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			// Some endpoints return date-only stamps.
			t, err = time.Parse("2006-01-02", row.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("historical %s: parse time %q: %w", inst.Symbol, row.Timestamp, err)
			}
		}
		bars = append(bars, market.Bar{
			Time:   t,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return bars, nil
}

type orderRequest struct {
	DhanClientID    string  `json:"dhanClientId"`
	CorrelationID   string  `json:"correlationId"`
	TransactionType string  `json:"transactionType"`
	ExchangeSegment string  `json:"exchangeSegment"`
	ProductType     string  `json:"productType"`
	OrderType       string  `json:"orderType"`
	Validity        string  `json:"validity"`
	SecurityID      string  `json:"securityId"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}

type orderResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"orderStatus"`
}

// PlaceOrder submits a market order and returns the broker order id.
func (c *Client) PlaceOrder(ctx context.Context, o execution.Order) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	orderType := o.Type
	if orderType == "" {
		orderType = "MARKET"
	}
	body := orderRequest{
		DhanClientID:    c.clientID,
		CorrelationID:   id.New(),
		TransactionType: string(o.Side),
		ExchangeSegment: o.Segment,
		ProductType:     "CNC",
		OrderType:       orderType,
		Validity:        "DAY",
		SecurityID:      o.SecurityID,
		Quantity:        o.Quantity,
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return "", fmt.Errorf("place order %s %s: %w", o.Side, o.Symbol, err)
	}

	c.log.Info().
		Str("symbol", o.Symbol).
		Str("side", string(o.Side)).
		Int("quantity", o.Quantity).
		Str("broker_order_id", resp.OrderID).
		Msg("order placed")
	return resp.OrderID, nil
}

type fundsResponse struct {
	Data struct {
		AvailableBalance float64 `json:"availableBalance"`
	} `json:"data"`
}

// GetAvailableCapital returns the free balance available for new positions.
func (c *Client) GetAvailableCapital(ctx context.Context) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var resp fundsResponse
	if err := c.do(ctx, http.MethodGet, "/fundlimit", nil, &resp); err != nil {
		return 0, fmt.Errorf("fund limit: %w", err)
	}
	return resp.Data.AvailableBalance, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access-token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
