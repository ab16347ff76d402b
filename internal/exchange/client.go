package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// ErrRateLimited marks a venue response that indicates request throttling.
// The adapter backs off and retries exactly once on this error.
var ErrRateLimited = errors.New("rate limited by venue")

// restClient is the shared HTTP client used by all venue implementations.
type restClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func newRESTClient(baseURL string, timeout time.Duration, logger *zap.Logger) *restClient {
	return &restClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// getJSON issues a GET to path with the given query parameters and decodes
// the JSON body into out. HTTP 429 (and binance's 418 ban code) map to
// ErrRateLimited.
func (c *restClient) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "spot-arb/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusTeapot {
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrRateLimited)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// parseFloat converts a venue numeric string to float64, returning 0 for
// empty strings. Venues report all numbers as strings.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// decimalsFromStep derives decimal precision from a step string such as
// "0.001" (3) or "1" (0).
func decimalsFromStep(step string) int {
	f := parseFloat(step)
	if f <= 0 || f >= 1 {
		return 0
	}
	decimals := 0
	for f < 1 && decimals < 12 {
		f *= 10
		decimals++
	}
	return decimals
}

// trimBook caps both sides of book at limit levels.
func trimBook(book *types.OrderBook, limit int) {
	if limit <= 0 {
		return
	}
	if len(book.Bids) > limit {
		book.Bids = book.Bids[:limit]
	}
	if len(book.Asks) > limit {
		book.Asks = book.Asks[:limit]
	}
}

// parseLevels converts [["price","amount"], ...] pairs into levels.
func parseLevels(raw [][]string) []types.Level {
	levels := make([]types.Level, 0, len(raw))
	for _, pair := range raw {
		if len(pair) < 2 {
			continue
		}
		levels = append(levels, types.Level{
			Price:  parseFloat(pair[0]),
			Amount: parseFloat(pair[1]),
		})
	}
	return levels
}
