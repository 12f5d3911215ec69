package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Options configures the Elasticsearch client
type Options struct {
	Addresses     []string
	Username      string
	Password      string
	SniffOnStart  bool
	SniffInterval time.Duration
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// ResponseError is a non-2xx reply from the cluster.
type ResponseError struct {
	Status int
	Type   string
	Reason string
}

func (e *ResponseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("elasticsearch: status %d", e.Status)
	}
	return fmt.Sprintf("elasticsearch: status %d: %s: %s", e.Status, e.Type, e.Reason)
}

// NewClient new Elasticsearch client
func NewClient(opts Options) (*Client, error) {
	if len(opts.Addresses) == 0 {
		return nil, errors.New("elasticsearch: addresses are empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:             opts.Addresses,
		Username:              opts.Username,
		Password:              opts.Password,
		Transport:             opts.Transport,
		DiscoverNodesOnStart:  opts.SniffOnStart,
		DiscoverNodesInterval: opts.SniffInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// Do performs req and decodes a successful JSON reply into out, which may
// be nil. The status code is returned in all cases where a reply arrived;
// error replies are reported as *ResponseError.
func (c *Client) Do(ctx context.Context, req esapi.Request, out any) (int, error) {
	if c == nil || c.client == nil {
		return 0, errors.New("elasticsearch client is nil")
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return 0, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() {
		return res.StatusCode, decodeError(res)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return res.StatusCode, fmt.Errorf("elasticsearch parsing error: %w", err)
		}
	}
	return res.StatusCode, nil
}

func decodeError(res *esapi.Response) error {
	e := &ResponseError{Status: res.StatusCode}
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || len(body.Error) == 0 {
		return e
	}

	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if json.Unmarshal(body.Error, &detail) == nil {
		e.Type, e.Reason = detail.Type, detail.Reason
	} else {
		// some errors are plain strings
		_ = json.Unmarshal(body.Error, &e.Reason)
	}
	return e
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}
