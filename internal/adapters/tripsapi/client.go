// Package tripsapi is the HTTP client adapter for the remote viagens REST
// API. It forwards the session's bearer token verbatim and translates
// non-2xx responses into StatusError values whose text carries the status
// code and the server's body, so handlers can surface the server's own
// message to the user.
package tripsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
)

// maxErrorBodyBytes caps how much of an error response we keep for display.
const maxErrorBodyBytes = 4 << 10

// StatusError is a non-2xx response from the viagens API. Body holds the
// response body verbatim (truncated at 4KiB) because the server's error text
// is the message shown to the user.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// AsStatusError unwraps err to a *StatusError when one is in the chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// RequestObserver receives one observation per completed request. The zero
// status means the request failed before a response arrived.
type RequestObserver interface {
	ObserveRequest(operation string, status int, elapsed time.Duration)
}

// Client talks to the viagens API. Trip endpoints live under
// "{baseURL}/viagens".
type Client struct {
	baseURL  string
	client   *http.Client
	observer RequestObserver
}

// Options bundles dependencies for NewClient.
type Options struct {
	// BaseURL is the root of the remote API, without the /viagens suffix.
	BaseURL string

	// HTTPClient is optional; a client with a 15s timeout is used when nil.
	HTTPClient *http.Client

	// Observer is optional request instrumentation.
	Observer RequestObserver
}

// NewClient constructs a viagens API client.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("tripsapi: BaseURL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:  base,
		client:   httpClient,
		observer: opts.Observer,
	}, nil
}

// List fetches the trip collection. A 2xx body that is not a JSON array
// yields an empty slice rather than an error; the remote contract does not
// pin the shape and an unexpected body should degrade to "no trips", not a
// broken page.
func (c *Client) List(ctx context.Context, token string) ([]model.Trip, error) {
	body, err := c.do(ctx, "list", http.MethodGet, c.baseURL+"/viagens", token, nil)
	if err != nil {
		return nil, err
	}

	var trips []model.Trip
	if err := json.Unmarshal(body, &trips); err != nil {
		return []model.Trip{}, nil
	}
	if trips == nil {
		trips = []model.Trip{}
	}
	return trips, nil
}

// Create submits a new trip and returns the record the server created. When
// the server replies 2xx with a body we cannot decode, the submitted fields
// are echoed back so the caller still has a record to display.
func (c *Client) Create(ctx context.Context, token string, req model.CreateTripRequest) (model.Trip, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.Trip{}, fmt.Errorf("encode trip: %w", err)
	}

	body, err := c.do(ctx, "create", http.MethodPost, c.baseURL+"/viagens", token, payload)
	if err != nil {
		return model.Trip{}, err
	}

	var trip model.Trip
	if err := json.Unmarshal(body, &trip); err != nil {
		return model.Trip{
			Origin:        req.Origin,
			Destination:   req.Destination,
			Description:   req.Description,
			TransportMode: req.TransportMode,
		}, nil
	}
	return trip, nil
}

// Delete removes the trip with the given identifier.
func (c *Client) Delete(ctx context.Context, token string, id model.TripID) error {
	if id == "" {
		return errors.New("trip id is required")
	}
	_, err := c.do(ctx, "delete", http.MethodDelete, c.baseURL+"/viagens/"+id.String(), token, nil)
	return err
}

// do performs one request and returns the response body for 2xx statuses.
// Everything else becomes a *StatusError carrying the body verbatim.
func (c *Client) do(ctx context.Context, op, method, url, token string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(op, 0, time.Since(start))
		return nil, fmt.Errorf("%s trips: %w", op, err)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}
	return body, nil
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, elapsed)
	}
}
