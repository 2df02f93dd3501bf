// Package fetch provides the HTTP Fetcher the application directory uses to
// download catalogs. Requests are retried with exponential backoff on
// transport errors and 5xx responses via hashicorp/go-retryablehttp.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory"
	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/constants"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// Client fetches catalogs over HTTP.
type Client struct {
	http   *retryablehttp.Client
	auth   Authenticator
	apiKey string
	logger *zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.HTTPClient.Timeout = timeout
		}
	}
}

// WithRetries sets how many times a failed attempt is retried. Zero disables
// retries.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.http.RetryMax = retries
		}
	}
}

// WithBackoff sets the minimum and maximum wait between retries.
func WithBackoff(minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = minWait
		c.http.RetryWaitMax = maxWait
	}
}

// WithAPIKey authenticates every request with apiKey. The Authorization
// bearer scheme is used unless WithAuthenticator selects another.
func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithAuthenticator sets how the API key is attached to requests.
func WithAuthenticator(auth Authenticator) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a catalog fetch client.
func New(opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = constants.MaxRetries
	rc.RetryWaitMin = constants.RetryBackoff
	rc.RetryWaitMax = constants.MaxRetryBackoff
	rc.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	rc.Logger = nil

	c := &Client{
		http:   rc,
		auth:   &BearerAuth{},
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			c.logger.Debug().
				Str("url", req.URL.Redacted()).
				Int("attempt", attempt).
				Msg("Retrying catalog fetch")
		}
	}
	// Exhausted retries hand back the last response so its status reaches
	// the caller instead of a generic "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return c
}

// Fetch issues a GET for url. A transport failure is returned as a
// *errors.FetchError; any HTTP response, successful or not, is returned for
// the caller to inspect.
func (c *Client) Fetch(ctx context.Context, url string) (appdirectory.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewFetchError(url, 0, "invalid request", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		c.auth.Apply(req.Request, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if resp != nil {
		// the retry policy reports exhausted 5xx responses as errors; the
		// status is what the caller needs
		return &Response{url: url, resp: resp}, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewFetchError(url, 0, "request canceled", ctx.Err())
		}
		return nil, errors.NewFetchError(url, 0, "request failed", err)
	}
	return nil, errors.NewFetchError(url, 0, "no response", nil)
}

// Response is an HTTP catalog response.
type Response struct {
	url  string
	resp *http.Response
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.resp.StatusCode >= 200 && r.resp.StatusCode < 300
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.resp.StatusCode
}

// Decode reads the body as a JSON catalog. Bodies larger than
// constants.MaxCatalogBytes are rejected.
func (r *Response) Decode(ctx context.Context) (apps.Catalog, error) {
	body, err := io.ReadAll(io.LimitReader(r.resp.Body, constants.MaxCatalogBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewFetchError(r.url, r.resp.StatusCode, "read canceled", ctx.Err())
		}
		return nil, errors.WrapIO("read", "response body", err)
	}
	if len(body) > constants.MaxCatalogBytes {
		return nil, errors.NewParseError("json", r.url, "catalog exceeds size limit", nil)
	}
	return apps.Parse(body)
}

// Close releases the response body.
func (r *Response) Close() error {
	return r.resp.Body.Close()
}
