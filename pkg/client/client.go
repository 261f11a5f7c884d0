package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kjanat/onesky-client/pkg/api"
)

// Operation names used in errors and log records.
const (
	OpListFiles     = "list files"
	OpListLocales   = "list locales"
	OpListLanguages = "list languages"
	OpDownload      = "download"
	OpUpload        = "upload"
)

// FileAttachment is a file on disk to upload.
type FileAttachment = api.FileAttachment

// Client is a OneSky Platform API client bound to one project.
//
// A Client is safe for concurrent use by multiple goroutines. It holds no
// mutable state: every call signs itself with a fresh timestamp. The
// underlying transport is shared.
type Client struct {
	raw       *api.Client
	opts      *Options
	apiKey    string
	apiSecret string
	projectID int
}

// New creates a client for the given credentials and project.
func New(apiKey, apiSecret string, projectID int, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigurationError{Field: "apiKey", Message: "cannot be empty"}
	}
	if strings.TrimSpace(apiSecret) == "" {
		return nil, &ConfigurationError{Field: "apiSecret", Message: "cannot be empty"}
	}
	if projectID <= 0 {
		return nil, &ConfigurationError{Field: "projectID", Message: "must be positive"}
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	// Validate options
	if err := validateBaseURL(options.baseURL); err != nil {
		return nil, err
	}
	if options.timeout <= 0 {
		return nil, &ConfigurationError{Field: "timeout", Message: "must be positive"}
	}
	if options.now == nil {
		return nil, &ConfigurationError{Field: "clock", Message: "cannot be nil"}
	}
	if options.logger == nil {
		return nil, &ConfigurationError{Field: "logger", Message: "cannot be nil"}
	}
	if options.downloadConcurrency <= 0 {
		return nil, &ConfigurationError{Field: "downloadConcurrency", Message: "must be positive"}
	}

	doer := options.doer
	if doer == nil {
		doer = &http.Client{
			Timeout: options.timeout,
		}
	}

	clientOpts := []api.ClientOption{
		api.WithHTTPClient(doer),
	}

	if options.userAgent != "" {
		userAgent := options.userAgent
		clientOpts = append(clientOpts, api.WithRequestEditorFn(func(_ context.Context, req *http.Request) error {
			req.Header.Set("User-Agent", userAgent)
			return nil
		}))
	}

	if options.validateRequests {
		validator, err := api.NewRequestValidator(options.baseURL)
		if err != nil {
			return nil, &ConfigurationError{Field: "requestValidation", Message: err.Error()}
		}
		clientOpts = append(clientOpts, api.WithRequestEditorFn(validator.Editor()))
	}

	rawClient, err := api.NewClient(options.baseURL, clientOpts...)
	if err != nil {
		return nil, &ConfigurationError{Field: "baseURL", Message: err.Error()}
	}

	return &Client{
		raw:       rawClient,
		opts:      options,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		projectID: projectID,
	}, nil
}

// ProjectID returns the project the client is bound to.
func (c *Client) ProjectID() int {
	return c.projectID
}

// AuthParams signs a new api_key, dev_hash, timestamp triple at the current
// time. Each call recomputes it.
func (c *Client) AuthParams() api.Params {
	return api.Sign(c.apiKey, c.apiSecret, c.opts.now()).Params()
}

// ListFiles returns the raw JSON listing of the project's uploaded files.
func (c *Client) ListFiles(ctx context.Context) (string, error) {
	return c.call(ctx, OpListFiles, nil, func(params api.Params) (*http.Response, error) {
		return c.raw.ListFiles(ctx, c.projectID, params)
	})
}

// ListLocales returns the raw JSON listing of all locales OneSky supports.
func (c *Client) ListLocales(ctx context.Context) (string, error) {
	return c.call(ctx, OpListLocales, nil, func(params api.Params) (*http.Response, error) {
		return c.raw.ListLocales(ctx, params)
	})
}

// ListLanguages returns the raw JSON listing of the project's languages.
func (c *Client) ListLanguages(ctx context.Context) (string, error) {
	return c.call(ctx, OpListLanguages, nil, func(params api.Params) (*http.Response, error) {
		return c.raw.ListLanguages(ctx, c.projectID, params)
	})
}

// Download returns the translation of fileName for locale. An empty fileName
// means strings.xml.
func (c *Client) Download(ctx context.Context, locale, fileName string) (string, error) {
	if strings.TrimSpace(locale) == "" {
		return "", &ValidationError{Op: OpDownload, Message: "locale cannot be empty"}
	}
	if fileName == "" {
		fileName = api.DefaultSourceFileName
	}

	extra := api.Params{}.
		Add(api.ParamSourceFileName, fileName).
		Add(api.ParamLocale, locale)

	return c.call(ctx, OpDownload, extra, func(params api.Params) (*http.Response, error) {
		return c.raw.GetTranslation(ctx, c.projectID, params)
	})
}

// Upload sends file as an ANDROID_XML translation source. Uploads are not
// guaranteed to be idempotent on the server and are never retried.
func (c *Client) Upload(ctx context.Context, file FileAttachment) (string, error) {
	if file.Path == "" {
		return "", &ValidationError{Op: OpUpload, Message: "file path cannot be empty"}
	}

	extra := api.Params{}.Add(api.ParamFileFormat, api.FileFormatAndroidXML)

	return c.call(ctx, OpUpload, extra, func(params api.Params) (*http.Response, error) {
		return c.raw.UploadFile(ctx, c.projectID, params, file)
	})
}

// call signs, dispatches once and maps the outcome.
func (c *Client) call(
	ctx context.Context,
	op string,
	extra api.Params,
	send func(api.Params) (*http.Response, error),
) (string, error) {
	params := append(c.AuthParams(), extra...)
	logger := c.opts.logger.With("op", op, "project_id", c.projectID)

	start := time.Now()
	logger.DebugContext(ctx, "sending request", "params", len(params))

	resp, err := send(params)
	if err != nil {
		mapped := mapSendError(op, err)
		logger.DebugContext(ctx, "request failed", "error", mapped, "duration", time.Since(start))
		return "", mapped
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.DebugContext(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return "", &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	logger.DebugContext(ctx, "received response",
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProtocolError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return string(body), nil
}

func mapSendError(op string, err error) error {
	var buildErr *api.BuildError
	if errors.As(err, &buildErr) {
		return &ValidationError{Op: op, Message: "cannot build request", Err: buildErr.Err}
	}

	var reqErr *api.RequestValidationError
	if errors.As(err, &reqErr) {
		return &ValidationError{Op: op, Message: "request does not match API description", Err: reqErr}
	}

	return &TransportError{Op: op, Err: err}
}

func validateBaseURL(baseURL string) error {
	if baseURL == "" {
		return &ConfigurationError{Field: "baseURL", Message: "cannot be empty"}
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigurationError{Field: "baseURL", Message: "must be an absolute URL"}
	}
	return nil
}
