// Package rest implements service.Service against a hosted table exposed over
// a PostgREST-style HTTP API (Supabase and similar backends).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskmgr/internal/config"
	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// restPath is the API prefix in front of table names.
	restPath = "/rest/v1/"

	// maxBody caps how much of a response is read.
	maxBody = 8 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	table   string
	apiKey  string
}

// New creates a client from the rest section of cfg.
// The API key is sent both as the apikey header and as a bearer token.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	rc := cfg.REST
	if rc.URL == "" || rc.APIKey == "" {
		return nil, errors.New("rest.url and rest.api_key are required")
	}
	if _, err := url.ParseRequestURI(rc.URL); err != nil {
		return nil, fmt.Errorf("invalid rest.url: %w", err)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: rc.APIKey,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(ctx, tokenSource)

	return NewWithHTTPClient(httpClient, rc.URL, rc.Table, rc.APIKey), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, baseURL, table, apiKey string) *Client {
	if table == "" {
		table = "tasks"
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		table:   table,
		apiKey:  apiKey,
	}
}

// ListAll returns every row of the table.
func (c *Client) ListAll(ctx context.Context) ([]service.Task, error) {
	body, err := c.do(ctx, "list", http.MethodGet, url.Values{"select": {"*"}}, nil)
	if err != nil {
		return nil, err
	}
	return service.DecodeRows(body)
}

// Insert creates a row.
func (c *Client) Insert(ctx context.Context, f service.Fields) error {
	_, err := c.do(ctx, "insert", http.MethodPost, nil, f)
	return err
}

// UpdateByID replaces title and description of row id.
func (c *Client) UpdateByID(ctx context.Context, id int64, f service.Fields) error {
	_, err := c.do(ctx, "update", http.MethodPatch, idFilter(id), f)
	return err
}

// DeleteByID removes row id.
func (c *Client) DeleteByID(ctx context.Context, id int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, idFilter(id), nil)
	return err
}

func idFilter(id int64) url.Values {
	return url.Values{"id": {"eq." + strconv.FormatInt(id, 10)}}
}

func (c *Client) endpoint(query url.Values) string {
	u := c.baseURL + restPath + url.PathEscape(c.table)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends one request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, op, method string, query url.Values, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, service.NewRemoteError(op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(query), body)
	if err != nil {
		return nil, service.NewRemoteError(op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	log := logging.FromContext(ctx).With("backend", "rest", "op", op, "request_id", requestID)
	log.Debug("request", "method", method, "table", c.table)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, wrapError(op, err)
	}

	log.Debug("response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(op, resp.StatusCode, data)
	}
	return data, nil
}

// apiError is the error body returned by PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// statusError converts a non-2xx reply into a RemoteError carrying the
// server's message.
func statusError(op string, status int, body []byte) error {
	var ae apiError
	msg := ""
	if json.Unmarshal(body, &ae) == nil {
		msg = ae.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	cause := fmt.Errorf("http status %d", status)
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		cause = fmt.Errorf("%w: http status %d", service.ErrUnauthorized, status)
	}
	return &service.RemoteError{Op: op, Message: msg, Err: cause}
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &service.RemoteError{Op: op, Message: "request timed out", Err: err}
	}
	return service.NewRemoteError(op, err)
}
