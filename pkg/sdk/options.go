package estaterec

import (
	"net/http"
	"time"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	token      string
	userAgent  string
}

// WithHTTPClient replaces the underlying HTTP client. Its Jar is replaced
// by the client's own cookie jar when nil.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.httpClient = c
	})
}

// WithTimeout sets the per-request timeout (default: 30s).
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.timeout = d
	})
}

// WithToken authenticates with a previously issued session token
// sent as a Bearer header.
func WithToken(token string) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.token = token
	})
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.userAgent = ua
	})
}
