// Package eodhd provides a quote client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/whoisarjen/investo/internal/common"
	"github.com/whoisarjen/investo/internal/interfaces"
	"github.com/whoisarjen/investo/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
// EODHD returns "NA" for fields it cannot resolve.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the QuoteClient interface against EODHD.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time // injectable clock for testing
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// realTimeResponse is the /real-time endpoint payload.
type realTimeResponse struct {
	Code          string      `json:"code"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Change        flexFloat64 `json:"change"`
	ChangePercent flexFloat64 `json:"change_p"`
	Timestamp     int64       `json:"timestamp"`
}

// eodBarResponse is one /eod bar.
type eodBarResponse struct {
	Date          string      `json:"date"`
	Close         flexFloat64 `json:"close"`
	AdjustedClose flexFloat64 `json:"adjusted_close"`
}

// GetQuote retrieves the current quote for a symbol. The real-time endpoint
// supplies price and previous close; one trailing-year EOD request supplies
// the 52-week range and the year-start reference close for the YTD change.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = models.NormalizeSymbol(symbol)
	if err := models.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	var rt realTimeResponse
	if err := c.get(ctx, fmt.Sprintf("/real-time/%s", symbol), nil, &rt); err != nil {
		return nil, err
	}
	if rt.Close <= 0 {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    "no price data for symbol",
			Endpoint:   fmt.Sprintf("/real-time/%s", symbol),
		}
	}

	now := c.now()
	quote := &models.Quote{
		Symbol:        symbol,
		CurrentPrice:  float64(rt.Close),
		PreviousClose: float64(rt.PreviousClose),
		Change:        float64(rt.Change),
		ChangePercent: float64(rt.ChangePercent),
		Timestamp:     now,
	}
	if rt.Timestamp > 0 {
		quote.Timestamp = time.Unix(rt.Timestamp, 0)
	}

	bars, err := c.getTrailingYearBars(ctx, symbol, now)
	if err != nil {
		// Range and YTD fields are best effort; the price itself stands.
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("EOD history unavailable, omitting 52-week and YTD fields")
		return quote, nil
	}

	enrichFromBars(quote, bars, now)
	return quote, nil
}

// getTrailingYearBars fetches daily closes for the past year, oldest first.
func (c *Client) getTrailingYearBars(ctx context.Context, symbol string, now time.Time) ([]eodBarResponse, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", now.AddDate(-1, 0, 0).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))

	var bars []eodBarResponse
	if err := c.get(ctx, fmt.Sprintf("/eod/%s", symbol), params, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// enrichFromBars fills the 52-week range and YTD change from daily closes.
// The YTD reference is the last close of the previous calendar year, or the
// first close of this year when the history does not reach back that far.
func enrichFromBars(quote *models.Quote, bars []eodBarResponse, now time.Time) {
	if len(bars) == 0 {
		return
	}

	yearStart := fmt.Sprintf("%04d-01-01", now.Year())

	var high, low, ytdReference float64
	for _, bar := range bars {
		close := float64(bar.Close)
		if close <= 0 {
			continue
		}
		if high == 0 || close > high {
			high = close
		}
		if low == 0 || close < low {
			low = close
		}
		if bar.Date < yearStart {
			ytdReference = close // last close before January 1 wins
		} else if ytdReference == 0 {
			ytdReference = close
		}
	}

	quote.High52Week = high
	quote.Low52Week = low
	if ytdReference > 0 {
		quote.YTDChangePercent = (quote.CurrentPrice - ytdReference) / ytdReference * 100
	}
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
