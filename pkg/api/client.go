package api

import (
	"context"
	"net/http"
	"strings"
)

// DefaultServer is the versioned OneSky Platform API base URL.
const DefaultServer = "https://platform.api.onesky.io/1"

// HttpRequestDoer performs HTTP requests. *http.Client implements it.
//
//revive:disable-next-line:var-naming
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is called on every request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Client sends OneSky requests and returns raw responses.
type Client struct {
	// Server is the base URL, always ending in a slash.
	Server string

	// Client executes the requests. Defaults to a zero http.Client.
	Client HttpRequestDoer

	// RequestEditors run, in order, on every request.
	RequestEditors []RequestEditorFn
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a Client for server, e.g. DefaultServer.
func NewClient(server string, opts ...ClientOption) (*Client, error) {
	client := Client{
		Server: server,
	}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient sets the doer used to execute requests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer
		return nil
	}
}

// WithBaseURL overrides the server given to NewClient.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		c.Server = baseURL
		return nil
	}
}

// WithRequestEditorFn appends a function run on every request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// ListFiles sends GET /projects/{project_id}/files.
func (c *Client) ListFiles(ctx context.Context, projectID int, params Params, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewListFilesRequest(c.Server, projectID, params)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.do(ctx, req, reqEditors)
}

// ListLocales sends GET /locales.
func (c *Client) ListLocales(ctx context.Context, params Params, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewListLocalesRequest(c.Server, params)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.do(ctx, req, reqEditors)
}

// ListLanguages sends GET /projects/{project_id}/languages.
func (c *Client) ListLanguages(ctx context.Context, projectID int, params Params, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewListLanguagesRequest(c.Server, projectID, params)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.do(ctx, req, reqEditors)
}

// GetTranslation sends GET /projects/{project_id}/translations.
func (c *Client) GetTranslation(ctx context.Context, projectID int, params Params, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewGetTranslationRequest(c.Server, projectID, params)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.do(ctx, req, reqEditors)
}

// UploadFile sends the multipart POST /projects/{project_id}/files.
func (c *Client) UploadFile(ctx context.Context, projectID int, params Params, file FileAttachment, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewUploadFileRequest(c.Server, projectID, params, file)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.do(ctx, req, reqEditors)
}

// BuildError reports a request that could not be constructed, for example
// because the upload file is unreadable. Nothing was sent.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return "build request: " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func (c *Client) do(ctx context.Context, req *http.Request, reqEditors []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	if err := c.applyEditors(ctx, req, reqEditors); err != nil {
		return nil, err
	}
	return c.Client.Do(req)
}

func (c *Client) applyEditors(ctx context.Context, req *http.Request, additionalEditors []RequestEditorFn) error {
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	for _, r := range additionalEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
