package datanode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vegaprotocol/research-bot/internal/models"
	"github.com/vegaprotocol/research-bot/pkg/logger"

	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 5 * time.Second

	// maxAccountPages bounds the cursor loop so a data node that keeps
	// returning hasNextPage=true cannot make us loop forever.
	maxAccountPages = 500
)

// Client reads market, asset, account and node data from a set of data-node
// REST endpoints. Every call tries the endpoints in their configured order
// and uses the first one that returns a structurally valid response; no
// endpoint is ever blacklisted across calls.
type Client struct {
	endpoints  Endpoints
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for all requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a data-node client over the given endpoints.
func NewClient(endpoints Endpoints, opts ...Option) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, models.NewAppError(models.ErrorCodeConfigError, "data-node client requires at least one endpoint")
	}

	c := &Client{
		endpoints:  endpoints,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoints returns the configured endpoints in failover order.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// envelope is implemented by every typed response body. ok reports whether
// the required top-level key was present after decoding.
type envelope interface {
	ok() bool
}

// rejection records why a single endpoint was skipped during failover, so
// the final error names every reason instead of discarding them.
type rejection struct {
	endpoint string
	reason   string
}

func (r rejection) String() string {
	return fmt.Sprintf("%s: %s", r.endpoint, r.reason)
}

// fetchOne performs a single GET against one endpoint and decodes the body
// into out. It returns the response headers for callers that read them.
func (c *Client) fetchOne(ctx context.Context, endpoint, path string, out envelope) (http.Header, error) {
	url := endpoint + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	if !out.ok() {
		return nil, fmt.Errorf("response is missing the required top-level key")
	}

	return resp.Header, nil
}

// getResource fetches path from the first endpoint that yields a valid
// envelope of type T. Every endpoint is tried at most once per call; if all
// of them are rejected the call fails with a NO_HEALTHY_ENDPOINT error that
// names each rejection reason.
func getResource[T any, P interface {
	*T
	envelope
}](ctx context.Context, c *Client, path string) (*T, http.Header, error) {
	log := logger.GetLogger()

	var rejections []rejection
	for _, endpoint := range c.endpoints {
		out := new(T)
		headers, err := c.fetchOne(ctx, endpoint, path, P(out))
		if err != nil {
			log.Debug("Endpoint rejected",
				zap.String("endpoint", endpoint),
				zap.String("path", path),
				zap.Error(err),
			)
			rejections = append(rejections, rejection{endpoint: endpoint, reason: err.Error()})
			continue
		}
		return out, headers, nil
	}

	reasons := make([]string, 0, len(rejections))
	for _, r := range rejections {
		reasons = append(reasons, r.String())
	}

	return nil, nil, models.NewAppError(
		models.ErrorCodeNoHealthyEndpoint,
		fmt.Sprintf("all endpoints rejected for %s (%s)", path, strings.Join(reasons, "; ")),
	)
}
