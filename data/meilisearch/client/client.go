package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// TaskInterval is the polling interval used while waiting for tasks.
const TaskInterval = 50 * time.Millisecond

// Client Meilisearch client wrapper
type Client struct {
	client meilisearch.ServiceManager
}

// SearchParams is an alias for meilisearch.SearchRequest type
type SearchParams = meilisearch.SearchRequest

// NewMeilisearch creates new Meilisearch client
func NewMeilisearch(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}
}

// GetClient returns the underlying meilisearch client
func (c *Client) GetClient() meilisearch.ServiceManager {
	return c.client
}

// IsNotFound reports whether err is a 404 reply from Meilisearch.
func IsNotFound(err error) bool {
	var msErr *meilisearch.Error
	return errors.As(err, &msErr) && msErr.StatusCode == http.StatusNotFound
}

func (c *Client) ready() error {
	if c == nil || c.client == nil {
		return errors.New("meilisearch client is nil")
	}
	return nil
}

// SearchWithContext searches from Meilisearch
func (c *Client) SearchWithContext(ctx context.Context, index, query string, options *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.Index(index).SearchWithContext(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search error: %w", err)
	}
	return resp, nil
}

// AddDocuments adds or replaces documents. With wait, it returns once the
// task has been processed.
func (c *Client) AddDocuments(index string, docs []map[string]any, primaryKey string, wait bool) error {
	if err := c.ready(); err != nil {
		return err
	}

	pk := primaryKey
	task, err := c.client.Index(index).AddDocuments(docs, &meilisearch.DocumentOptions{PrimaryKey: &pk})
	if err != nil {
		return fmt.Errorf("meilisearch add documents error: %w", err)
	}
	if wait {
		return c.WaitForTask(task.TaskUID)
	}
	return nil
}

// GetDocument gets a single document from Meilisearch
func (c *Client) GetDocument(index, documentID string, documentPtr any) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.client.Index(index).GetDocument(documentID, nil, documentPtr); err != nil {
		return fmt.Errorf("meilisearch get document error: %w", err)
	}
	return nil
}

// DeleteDocument deletes a single document from Meilisearch
func (c *Client) DeleteDocument(index, documentID string, wait bool) error {
	if err := c.ready(); err != nil {
		return err
	}
	task, err := c.client.Index(index).DeleteDocument(documentID, nil)
	if err != nil {
		return fmt.Errorf("meilisearch delete document error: %w", err)
	}
	if wait {
		return c.WaitForTask(task.TaskUID)
	}
	return nil
}

// Health checks if Meilisearch is healthy
func (c *Client) Health() (*meilisearch.Health, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	health, err := c.client.Health()
	if err != nil {
		return nil, fmt.Errorf("meilisearch health check error: %w", err)
	}
	return health, nil
}

// GetIndex gets a specific index from Meilisearch
func (c *Client) GetIndex(indexUID string) (*meilisearch.IndexResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	index, err := c.client.GetIndex(indexUID)
	if err != nil {
		return nil, fmt.Errorf("meilisearch get index error: %w", err)
	}
	return index, nil
}

// CreateIndex creates an index with its primary key and filterable
// attributes, and waits for both tasks.
func (c *Client) CreateIndex(indexUID, primaryKey string, filterable ...string) error {
	if err := c.ready(); err != nil {
		return err
	}

	task, err := c.client.CreateIndex(&meilisearch.IndexConfig{Uid: indexUID, PrimaryKey: primaryKey})
	if err != nil {
		return fmt.Errorf("meilisearch create index error: %w", err)
	}
	if err := c.WaitForTask(task.TaskUID); err != nil {
		return err
	}

	if len(filterable) == 0 {
		return nil
	}
	attrs := make([]any, len(filterable))
	for i, f := range filterable {
		attrs[i] = f
	}
	task, err = c.client.Index(indexUID).UpdateFilterableAttributes(&attrs)
	if err != nil {
		return fmt.Errorf("meilisearch filterable attributes error: %w", err)
	}
	return c.WaitForTask(task.TaskUID)
}

// DeleteIndex deletes an index from Meilisearch and waits for the task
func (c *Client) DeleteIndex(indexUID string) error {
	if err := c.ready(); err != nil {
		return err
	}
	task, err := c.client.DeleteIndex(indexUID)
	if err != nil {
		return fmt.Errorf("meilisearch delete index error: %w", err)
	}
	return c.WaitForTask(task.TaskUID)
}

// WaitForTask waits for a task and fails if it did not succeed
func (c *Client) WaitForTask(taskUID int64) error {
	task, err := c.client.WaitForTask(taskUID, TaskInterval)
	if err != nil {
		return fmt.Errorf("meilisearch wait for task error: %w", err)
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return fmt.Errorf("meilisearch task %d failed", taskUID)
	}
	return nil
}
