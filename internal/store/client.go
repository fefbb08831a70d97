// Package store is the client of the directory API, the remote store
// that owns business records and import-batch bookkeeping. The import
// pipeline only ever talks to the store through this package.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/azlocal/directory/internal/pkg/httpretry"
)

const DefaultTimeout = 30 * time.Second

// Client talks JSON over HTTP to the directory API. The bulk upsert is
// the only data-bearing call and the only one that is retried;
// batch create/finalize are best-effort bookkeeping round trips.
type Client struct {
	baseURL     string
	httpClient  httpretry.HTTPDoer // plain, no retries
	retryClient httpretry.HTTPDoer // chunk upserts only
}

// NewClient creates a directory API client for the given base URL.
func NewClient(baseURL string) *Client {
	plain := &http.Client{Timeout: DefaultTimeout}
	return &Client{
		baseURL:     baseURL,
		httpClient:  plain,
		retryClient: httpretry.New(plain, 3),
	}
}

// CreateImportBatch opens a tracking record and returns it with the
// store-assigned ID. Not retried.
func (c *Client) CreateImportBatch(ctx context.Context, req CreateBatchRequest) (*ImportBatch, error) {
	var batch ImportBatch
	if err := c.call(ctx, c.httpClient, http.MethodPost, "/api/import-batches", req, &batch); err != nil {
		return nil, fmt.Errorf("create import batch: %w", err)
	}
	return &batch, nil
}

// UpsertBusinesses sends one chunk of records. Transient failures are
// retried with backoff by the underlying client.
func (c *Client) UpsertBusinesses(ctx context.Context, req UpsertRequest) (*UpsertResult, error) {
	var result UpsertResult
	if err := c.call(ctx, c.retryClient, http.MethodPost, "/api/businesses/bulk", req, &result); err != nil {
		return nil, fmt.Errorf("upsert businesses: %w", err)
	}
	return &result, nil
}

// UpsertReviews sends one chunk of review records, with the same retry
// policy as business upserts.
func (c *Client) UpsertReviews(ctx context.Context, req ReviewUpsertRequest) (*UpsertResult, error) {
	var result UpsertResult
	if err := c.call(ctx, c.retryClient, http.MethodPost, "/api/reviews/bulk", req, &result); err != nil {
		return nil, fmt.Errorf("upsert reviews: %w", err)
	}
	return &result, nil
}

// FinalizeImportBatch records the terminal status of a run. Not
// retried; the caller treats failures as logged-only.
func (c *Client) FinalizeImportBatch(ctx context.Context, batchID string, req FinalizeRequest) error {
	path := fmt.Sprintf("/api/import-batches/%s/finalize", batchID)
	if err := c.call(ctx, c.httpClient, http.MethodPut, path, req, nil); err != nil {
		return fmt.Errorf("finalize import batch: %w", err)
	}
	return nil
}

// ListCategories returns the store's category taxonomy, used to resolve
// classified slugs to store-side identifiers.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var cats []Category
	if err := c.call(ctx, c.httpClient, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (c *Client) call(ctx context.Context, doer httpretry.HTTPDoer, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("directory API error %d: %s", resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
