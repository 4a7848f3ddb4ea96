package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"techsocial/internal/utils"
)

// SecretProvider hands out the viewer's bearer credential. The session
// implements it; tests use a static stub.
type SecretProvider interface {
	Secret() (string, bool)
}

// Client talks to the remote social media API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	secrets SecretProvider
	metrics *utils.MetricsCollector
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, secrets SecretProvider, metrics *utils.MetricsCollector) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		secrets: secrets,
		metrics: metrics,
		log:     slog.Default().With("component", "api"),
	}
}

// do performs one request against the API and decodes the response into out
// when out is non-nil and the body is non-empty. Authenticated requests carry
// the secret as a bearer header plus the query parameter / body field the
// server actually checks.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload map[string]interface{}, out interface{}, authed bool) error {
	secret := ""
	if authed {
		s, ok := c.secrets.Secret()
		if !ok {
			return utils.NewUnauthorizedError("no stored credential")
		}
		secret = s
	}

	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return utils.NewInvalidURLError(c.baseURL+endpoint, err)
	}
	if query == nil {
		query = url.Values{}
	}
	if authed && (method == http.MethodGet || method == http.MethodDelete) {
		query.Set("userSecret", secret)
	}
	u.RawQuery = query.Encode()

	var body io.Reader
	if payload != nil {
		if authed {
			payload["userSecret"] = secret
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return utils.NewAppError(utils.ErrInvalidURL, "could not encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return utils.NewInvalidURLError(u.String(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+secret)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordRequest(endpoint, time.Since(start), err)
	if err != nil {
		return utils.NewAppError(utils.ErrServerError, "request to "+endpoint+" failed", err)
	}
	defer resp.Body.Close()

	c.log.Debug("request completed", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// fall through to decoding
	default:
		return utils.HTTPStatusToAppError(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.NewDecodingError(endpoint, err)
	}
	if len(data) == 0 {
		// Some mutation endpoints answer 200 with no body.
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return utils.NewDecodingError(endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, out, true)
}

func (c *Client) post(ctx context.Context, endpoint string, payload map[string]interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, payload, out, true)
}
