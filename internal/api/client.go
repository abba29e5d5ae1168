package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/advisorchat/internal/config"
	"github.com/diogo/advisorchat/internal/models"
)

// AskerInterface is the part of the client the widget and commands depend on
type AskerInterface interface {
	Ask(ctx context.Context, question string) (*models.AnswerResult, error)
	Endpoint() string
}

// AdvisorClient posts questions to the advisor backend
type AdvisorClient struct {
	httpClient tls_client.HttpClient
	endpoint   string
	timeout    time.Duration
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure AdvisorClient implements AskerInterface
var _ AskerInterface = (*AdvisorClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*AdvisorClient)

// WithEndpoint sets the backend chat route
func WithEndpoint(endpoint string) ClientOption {
	return func(c *AdvisorClient) {
		c.endpoint = endpoint
	}
}

// WithTimeout bounds each question. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *AdvisorClient) {
		c.timeout = timeout
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *AdvisorClient) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *AdvisorClient) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new AdvisorClient
func NewClient(opts ...ClientOption) (*AdvisorClient, error) {
	client := &AdvisorClient{
		endpoint: models.DefaultEndpoint,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := config.ValidateEndpoint(client.endpoint); err != nil {
		return nil, err
	}

	if client.httpClient == nil {
		// Per-request deadlines come from the context, so the transport itself
		// is unbounded.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// NewClientFromConfig creates a client from user configuration
func NewClientFromConfig(cfg config.Config, logger zerolog.Logger) (*AdvisorClient, error) {
	return NewClient(
		WithEndpoint(cfg.Endpoint),
		WithTimeout(time.Duration(cfg.RequestTimeoutSeconds)*time.Second),
		WithLogger(logger),
	)
}

// Endpoint returns the backend chat route
func (c *AdvisorClient) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-question bound, zero when unbounded
func (c *AdvisorClient) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections. Further questions fail.
func (c *AdvisorClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *AdvisorClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
