// Package backend is the HTTP client for the collaborator CRUD API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spogdesk/concierge/internal/model"
	"github.com/spogdesk/concierge/internal/paging"
	"github.com/spogdesk/concierge/pkg/logger"
	"github.com/spogdesk/concierge/pkg/metrics"
)

// ErrNotFound indicates a single-entity lookup matched nothing.
var ErrNotFound = errors.New("record not found")

// Config holds collaborator API settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls the collaborator CRUD API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *logger.Logger
}

// New creates a collaborator API client.
func New(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		logger:  log,
	}
}

func resourcePath(kind model.ResourceKind) string {
	switch kind {
	case model.ResourceUser:
		return "/api/users"
	case model.ResourceItem:
		return "/api/items"
	default:
		return "/api/tickets"
	}
}

// FetchPage fetches one page of a resource. The API is page-numbered,
// so the offset is converted before the call.
func (c *Client) FetchPage(ctx context.Context, kind model.ResourceKind, limit, offset int, query string) (model.ResultSet, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(paging.PageNumber(offset, limit)))
	params.Set("limit", strconv.Itoa(limit))
	if query != "" {
		params.Set("search", query)
	}

	endpoint := c.baseURL + resourcePath(kind) + "?" + params.Encode()

	start := time.Now()
	body, status, err := c.get(ctx, endpoint)
	metrics.BackendRequestDuration.WithLabelValues(string(kind), "list", strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list %s: unexpected status %d", kind, status)
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	c.logger.Debug("fetched page",
		zap.String("resource", string(kind)),
		zap.Int("offset", offset),
		zap.Int("count", len(records)),
	)

	return records, nil
}

// FetchByID fetches a single record by its identifier.
func (c *Client) FetchByID(ctx context.Context, kind model.ResourceKind, id string) (model.Record, error) {
	endpoint := c.baseURL + resourcePath(kind) + "/" + url.PathEscape(id)

	start := time.Now()
	body, status, err := c.get(ctx, endpoint)
	metrics.BackendRequestDuration.WithLabelValues(string(kind), "get", strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var rec model.Record
		if err := json.Unmarshal(body, &rec); err != nil {
			return nil, fmt.Errorf("get %s/%s: %w", kind, id, err)
		}
		return rec, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("get %s/%s: unexpected status %d", kind, id, status)
	}
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// decodeRecords accepts either a bare JSON array or an envelope object
// whose payload sits under a known key.
func decodeRecords(body []byte) (model.ResultSet, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var records model.ResultSet
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"data", "users", "items", "tickets"} {
		payload, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(payload, &records); err == nil {
			return records, nil
		}
	}
	return nil, errors.New("response contains no record array")
}
