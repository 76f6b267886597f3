// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL   = "https://api.pwnedpasswords.com"
	DefaultUserAgent = "pwdguard/1.0"
	DefaultTimeout   = 5 * time.Second

	// A range holds a few thousand lines at most, even padded.
	maxRangeBodySize = 1 << 20
)

// RangeTransport fetches the raw range of a digest prefix. Implementations must only send the prefix.
type RangeTransport interface {
	Range(ctx context.Context, prefix string, mode Mode) ([]byte, error)
}

// ClientConfig configures the HTTP range transport.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds every attempt of a request.
	Timeout time.Duration
	// RetryMax is the number of retries on connection errors, 429 and 5xx responses. Zero disables retries.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Padding asks the API to pad the response with decoy entries of count 0.
	Padding bool
}

// Client is the HTTP RangeTransport for the Pwned Passwords API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	padding   bool
	http      *retryablehttp.Client
}

var _ RangeTransport = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		padding:   cfg.Padding,
		http:      initHttpClient(cfg),
	}
}

func initHttpClient(cfg ClientConfig) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{l: log.Logger}
	client.RetryMax = max(cfg.RetryMax, 0)
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	// Hand the last response back so the status code ends up in the error.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   cfg.Timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return client
}

func (c *Client) rangeRequest(ctx context.Context, prefix string, mode Mode) (*retryablehttp.Request, error) {
	url := fmt.Sprintf("%s/range/%s", c.baseURL, prefix)
	if mode == ModeNTLM {
		url += "?mode=ntlm"
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.padding {
		req.Header.Set("Add-Padding", "true")
	}
	return req, nil
}

// Range sends a single GET for prefix and returns the raw body.
func (c *Client) Range(ctx context.Context, prefix string, mode Mode) ([]byte, error) {
	timer := time.Now()
	req, err := c.rangeRequest(ctx, prefix, mode)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if res != nil {
		defer func(Body io.ReadCloser) {
			if err := Body.Close(); err != nil {
				log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
			}
		}(res.Body)

		if res.StatusCode < 200 || res.StatusCode > 299 {
			return nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status}
		}
	}
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxRangeBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("reading range body: %w", err)
	}
	if len(body) > maxRangeBodySize {
		return nil, ErrBodyTooLarge
	}

	log.Debug().
		Str("range", prefix).
		Str("cache", res.Header.Get("CF-Cache-Status")).
		Int64("ms", time.Since(timer).Milliseconds()).
		Msg("range downloaded")
	return body, nil
}

// leveledLogger routes retryablehttp logs to zerolog, one level down so retries stay quiet by default.
type leveledLogger struct {
	l zerolog.Logger
}

func (z leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	z.l.Warn().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.l.Trace().Fields(keysAndValues).Msg(msg)
}

func (z leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	z.l.Info().Fields(keysAndValues).Msg(msg)
}
