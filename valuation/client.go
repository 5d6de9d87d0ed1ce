package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client talks to the model backend. Transport retries are disabled: a failed
// request surfaces immediately and the caller decides whether the user's next
// action re-triggers it.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 0
	rc.HTTPClient.Timeout = 20 * time.Second // SHAP plot generation can take a few seconds
	rc.Logger = nil
	// With retries off, a retryable status (5xx) would otherwise be swallowed
	// into a "giving up" error; pass the final response through so status
	// classification still sees it.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(20), 40), // protect the single-process model backend
	}
}

// FormOptions fetches the selectable-value catalog.
func (c *Client) FormOptions(ctx context.Context) (*FormOptions, error) {
	var out FormOptions
	if err := c.getJSON(ctx, "/form-options", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarketInsights fetches per-city medians and counts for the current inputs.
func (c *Client) MarketInsights(ctx context.Context, q MarketQuery) (*MarketInsights, error) {
	params := url.Values{}
	params.Set("status", q.Status)
	params.Set("location", q.Location)
	params.Set("sqft", q.Sqft)
	params.Set("property_type", q.PropertyType)

	var out MarketInsights
	if err := c.getJSON(ctx, "/market-insights", params, &out); err != nil {
		return nil, err
	}
	if len(out.Locations) != len(out.MedianPrices) || len(out.Locations) != len(out.Counts) {
		return nil, fmt.Errorf("market-insights arrays misaligned: %d locations, %d prices, %d counts",
			len(out.Locations), len(out.MedianPrices), len(out.Counts))
	}
	return &out, nil
}

// Predict submits one valuation request.
func (c *Client) Predict(ctx context.Context, reqBody PredictRequest) (*Prediction, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encode predict request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/predict", nil, payload)
	if err != nil {
		return nil, err
	}
	var out Prediction
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return &out, nil
}

// ModelMetrics fetches the backend's per-status evaluation metrics verbatim.
func (c *Client) ModelMetrics(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.do(ctx, http.MethodGet, "/metrics", nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil { return nil, err }
	defer resp.Body.Close()

	raw, err := ioReadAllLimit(resp.Body, 8<<20) // SHAP images run to a few MB
	if err != nil { return nil, err }
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	lr := io.LimitReader(r, limit+1)
	b, err := io.ReadAll(lr)
	if err != nil { return nil, err }
	if int64(len(b)) > limit { return nil, errors.New("payload too large") }
	return b, nil
}
