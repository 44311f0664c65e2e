package coingecko_common

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "coingecko_http")

// ClientOptions configures the transport towards CoinGecko
type ClientOptions struct {
	LogPrefix         string
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		LogPrefix:         "HTTP",
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// Response is a received HTTP response, whatever its status
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	Duration   time.Duration
}

// HTTPClient performs single, rate limited GET requests.
// It never retries: retrying is decided by the caller from the error kind.
type HTTPClient struct {
	client         *resty.Client
	opts           ClientOptions
	StatusHandler  IHttpStatusHandler
	LimiterManager IRateLimiterManager
}

// NewHTTPClient creates a new HTTP client
func NewHTTPClient(opts ClientOptions, handler IHttpStatusHandler, limiterManager IRateLimiterManager) *HTTPClient {
	client := resty.New().
		SetTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		}).
		SetTimeout(opts.RequestTimeout).
		SetLogger(log)

	return &HTTPClient{
		client:         client,
		opts:           opts,
		StatusHandler:  handler,
		LimiterManager: limiterManager,
	}
}

// Get executes the request built by rb.
// An error is returned only when no response was received; non-2xx responses are returned as is.
func (c *HTTPClient) Get(ctx context.Context, rb *CoingeckoRequestBuilder) (*Response, error) {
	requestURL := rb.BuildURL()

	if c.LimiterManager != nil {
		parsed, err := url.Parse(requestURL)
		if err != nil {
			return nil, fmt.Errorf("invalid request url: %w", err)
		}
		if limiter := c.LimiterManager.GetLimiterForURL(parsed); limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				c.onRequest(StatusError)
				return nil, fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}
	}

	requestStart := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(rb.Headers()).
		Get(requestURL)
	requestDuration := time.Since(requestStart)

	if err != nil {
		log.Warnf("%s: request to %s failed after %.2fs: %v", c.opts.LogPrefix, rb.Path(), requestDuration.Seconds(), err)
		c.onRequest(StatusError)
		return nil, fmt.Errorf("request failed after %.2fs: %w", requestDuration.Seconds(), err)
	}

	status := statusLabel(resp.StatusCode())
	c.onRequest(status)
	if status != StatusSuccess {
		log.Warnf("%s: %s returned status %d in %.2fs", c.opts.LogPrefix, rb.Path(), resp.StatusCode(), requestDuration.Seconds())
	} else {
		log.Debugf("%s: %s returned %d bytes in %.2fs", c.opts.LogPrefix, rb.Path(), len(resp.Body()), requestDuration.Seconds())
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
		Duration:   requestDuration,
	}, nil
}

func (c *HTTPClient) onRequest(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}
