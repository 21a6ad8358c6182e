// Package client speaks the two-endpoint insert/search contract of a vector
// service, plus the reachability probe on its root.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	vectorHttp "github.com/rupamthxt/vectrasmoke/internal/http"
)

var (
	// ErrUnreachable means no HTTP exchange happened at all.
	ErrUnreachable = errors.New("service unreachable")

	// ErrMalformedResponse means the search body lacks the fields the contract promises.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is a completed exchange with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s: unexpected status %d %s: %s", e.Op, e.Code, http.StatusText(e.Code), e.Body)
}

const maxErrorBody = 256

// SearchResult is the part of a search response this client reads.
type SearchResult struct {
	// Latency is the server's own processing time, verbatim. JSON strings are
	// unquoted, anything else is the raw JSON text.
	Latency string
	// Results is the server's result list, untouched.
	Results json.RawMessage
	// Elapsed covers sending the request through reading the last body byte.
	Elapsed time.Duration
}

type Client struct {
	baseURL string
	http    *http.Client
	sent    atomic.Int64
}

// New returns a client for baseURL. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BytesSent returns the total request payload written so far.
func (c *Client) BytesSent() int64 { return c.sent.Load() }

// Ping issues GET on the service root. Every status counts as success; only a
// transport failure is reported, wrapped in ErrUnreachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// Insert stores one record. The response body is drained but not inspected.
func (c *Client) Insert(ctx context.Context, id string, vector []float32) error {
	resp, err := c.post(ctx, "/insert", vectorHttp.InsertRequest{ID: id, Vector: vector})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus("insert", resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Search runs one similarity query and times it from send to full body read.
func (c *Client) Search(ctx context.Context, vector []float32, k int) (*SearchResult, error) {
	body, err := json.Marshal(vectorHttp.SearchRequest{Vector: vector, TopK: k})
	if err != nil {
		return nil, fmt.Errorf("search: encode request: %w", err)
	}
	req, err := c.newPost(ctx, "/search", body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus("search", resp); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	res, err := parseSearch(raw)
	if err != nil {
		return nil, err
	}
	res.Elapsed = elapsed
	return res, nil
}

func parseSearch(raw []byte) (*SearchResult, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrMalformedResponse)
	}

	latency := gjson.GetBytes(raw, "latency")
	if !latency.Exists() {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, "latency")
	}
	results := gjson.GetBytes(raw, "results")
	if !results.Exists() {
		return nil, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, "results")
	}

	lat := latency.Raw
	if latency.Type == gjson.String {
		lat = latency.Str
	}
	return &SearchResult{
		Latency: lat,
		Results: json.RawMessage(results.Raw),
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) (*http.Response, error) {
	op := strings.TrimPrefix(endpoint, "/")

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := c.newPost(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp, nil
}

func (c *Client) newPost(ctx context.Context, endpoint string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", strings.TrimPrefix(endpoint, "/"), err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.sent.Add(int64(len(body)))
	return req, nil
}

func checkStatus(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Op:   op,
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(snippet)),
	}
}
