package client

import (
	"log/slog"
	"time"

	"github.com/kjanat/onesky-client/pkg/api"
)

// Options configures the client behavior.
type Options struct {
	baseURL             string
	timeout             time.Duration
	doer                api.HttpRequestDoer
	userAgent           string
	now                 func() time.Time
	logger              *slog.Logger
	validateRequests    bool
	downloadConcurrency int
}

func defaultOptions() *Options {
	return &Options{
		baseURL:             api.DefaultServer,
		timeout:             30 * time.Second,
		userAgent:           "onesky-client-go/1.0",
		now:                 time.Now,
		logger:              slog.New(slog.DiscardHandler),
		downloadConcurrency: 4,
	}
}

// Option configures the client.
type Option func(*Options)

// WithBaseURL sets the versioned API base URL.
// Default is https://platform.api.onesky.io/1.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP request timeout of the default transport.
// It has no effect together with WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithHTTPClient sets the transport used to execute requests. The doer is
// shared by all calls and must be safe for concurrent use.
func WithHTTPClient(doer api.HttpRequestDoer) Option {
	return func(o *Options) {
		o.doer = doer
	}
}

// WithUserAgent sets the User-Agent header. An empty value omits the header.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.userAgent = ua
	}
}

// WithClock sets the time source used to sign requests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithRequestValidation checks every request against the embedded OpenAPI
// description before it is sent.
func WithRequestValidation() Option {
	return func(o *Options) {
		o.validateRequests = true
	}
}

// WithDownloadConcurrency caps the parallel downloads of DownloadLocales.
// Default is 4.
func WithDownloadConcurrency(n int) Option {
	return func(o *Options) {
		o.downloadConcurrency = n
	}
}
