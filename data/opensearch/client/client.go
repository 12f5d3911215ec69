package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Options configures the OpenSearch client
type Options struct {
	Addresses     []string
	Username      string
	Password      string
	Insecure      bool
	SniffOnStart  bool
	SniffInterval time.Duration
	// Transport overrides the HTTP transport, mostly for tests.
	Transport http.RoundTripper
}

// Client OpenSearch client
type Client struct {
	*opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(opts Options) (*Client, error) {
	if len(opts.Addresses) == 0 {
		return nil, errors.New("opensearch: addresses are empty")
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: opts.Insecure,
			},
		}
	}

	c, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:             opts.Addresses,
				Username:              opts.Username,
				Password:              opts.Password,
				Transport:             transport,
				MaxRetries:            3,
				DiscoverNodesOnStart:  opts.SniffOnStart,
				DiscoverNodesInterval: opts.SniffInterval,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{Client: c}, nil
}

// Status returns the HTTP status of a reply, or 0 when none arrived.
func Status(resp *opensearch.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

// ErrorType returns the cluster's error type, e.g. index_not_found_exception.
func ErrorType(err error) string {
	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return structErr.Err.Type
	}
	return ""
}
