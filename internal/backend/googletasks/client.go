// Package googletasks implements the service.Service interface using Google Tasks API.
// One task list plays the part of the table; task notes hold the description.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskmgr/internal/config"
	"taskmgr/internal/logging"
	"taskmgr/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = tasks.TasksScope
)

// Client implements service.Service using Google Tasks API.
//
// Google task ids are opaque strings. The client hands out integer ids in
// the order tasks are first seen and keeps them for the life of the process.
type Client struct {
	svc    *tasks.Service
	listID string

	mu       sync.Mutex
	byID     map[int64]string
	byGoogle map[string]int64
	nextID   int64
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.Google.ListID)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options such as option.WithEndpoint are passed to the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{
		svc:      svc,
		listID:   listID,
		byID:     make(map[int64]string),
		byGoogle: make(map[string]int64),
		nextID:   1,
	}, nil
}

// ListAll returns the open tasks of the list in API order, following pages.
func (c *Client) ListAll(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, service.Task{
					ID:          c.handle(t.Id),
					Title:       t.Title,
					Description: t.Notes,
				})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list", err)
	}

	logging.FromContext(ctx).Debug("tasks listed", "backend", "googletasks", "list", c.listID, "count", len(result))
	return result, nil
}

// Insert creates a new task in the list.
func (c *Client) Insert(ctx context.Context, f service.Fields) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title: f.Title,
		Notes: f.Description,
	}).Context(ctx).Do()
	if err != nil {
		return wrapError("insert", err)
	}
	// Reserve the handle now so ids follow creation order.
	c.handle(created.Id)
	return nil
}

// UpdateByID patches title and notes. Both are always sent so that clearing
// a field is not mistaken for leaving it unchanged.
func (c *Client) UpdateByID(ctx context.Context, id int64, f service.Fields) error {
	googleID, err := c.lookup("update", id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err = c.svc.Tasks.Patch(c.listID, googleID, &tasks.Task{
		Title:           f.Title,
		Notes:           f.Description,
		ForceSendFields: []string{"Title", "Notes"},
	}).Context(ctx).Do()
	if err != nil {
		return wrapError("update", err)
	}
	return nil
}

// DeleteByID deletes a task.
func (c *Client) DeleteByID(ctx context.Context, id int64) error {
	googleID, err := c.lookup("delete", id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, googleID).Context(ctx).Do(); err != nil {
		return wrapError("delete", err)
	}

	c.mu.Lock()
	delete(c.byID, id)
	delete(c.byGoogle, googleID)
	c.mu.Unlock()
	return nil
}

// handle returns the integer id for a Google task id, assigning one if new.
func (c *Client) handle(googleID string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.byGoogle[googleID]; ok {
		return id
	}
	id := c.nextID
	c.nextID++
	c.byGoogle[googleID] = id
	c.byID[id] = googleID
	return id
}

func (c *Client) lookup(op string, id int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	googleID, ok := c.byID[id]
	if !ok {
		return "", &service.RemoteError{Op: op, Message: fmt.Sprintf("task not found: %d", id)}
	}
	return googleID, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.RemoteError{Op: op, Message: "request timed out", Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.RemoteError{
				Op:      op,
				Message: "token expired or revoked (run: taskmgr login)",
				Err:     fmt.Errorf("%w: %v", service.ErrUnauthorized, err),
			}
		case http.StatusNotFound:
			return &service.RemoteError{Op: op, Message: "not found", Err: err}
		}
		if gerr.Message != "" {
			return &service.RemoteError{Op: op, Message: gerr.Message, Err: err}
		}
	}

	return service.NewRemoteError(op, err)
}
