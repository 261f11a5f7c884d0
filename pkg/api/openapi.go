package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed onesky.yaml
var rawSpec []byte

// GetSpec returns the OpenAPI description of the supported endpoints.
// Paths are relative to the versioned server URL. A fresh document is
// returned on each call.
func GetSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load embedded OpenAPI document: %w", err)
	}
	return doc, nil
}

// RequestValidationError reports a built request that does not match the
// OpenAPI description.
type RequestValidationError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("request %s %s does not match OpenAPI document: %v", e.Method, e.Path, e.Err)
}

func (e *RequestValidationError) Unwrap() error {
	return e.Err
}

// RequestValidator checks outbound requests against the embedded OpenAPI document.
// It is safe for concurrent use.
type RequestValidator struct {
	router   routers.Router
	basePath string
}

// NewRequestValidator creates a validator for requests addressed to server.
func NewRequestValidator(server string) (*RequestValidator, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}

	doc, err := GetSpec()
	if err != nil {
		return nil, err
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	return &RequestValidator{
		router:   router,
		basePath: strings.TrimSuffix(serverURL.Path, "/"),
	}, nil
}

// Validate checks req's path, query and body. A request body consumed by the
// check is restored on req.
func (v *RequestValidator) Validate(ctx context.Context, req *http.Request) error {
	opPath := strings.TrimPrefix(req.URL.Path, v.basePath)
	if opPath == "" || opPath[0] != '/' {
		return &RequestValidationError{Method: req.Method, Path: req.URL.Path, Err: errors.New("path outside server base")}
	}

	routeURL := *req.URL
	routeURL.Path = opPath
	routeReq := &http.Request{Method: req.Method, URL: &routeURL}

	route, pathParams, err := v.router.FindRoute(routeReq)
	if err != nil {
		return &RequestValidationError{Method: req.Method, Path: opPath, Err: err}
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
	}
	if err := openapi3filter.ValidateRequest(ctx, input); err != nil {
		return &RequestValidationError{Method: req.Method, Path: opPath, Err: err}
	}

	return nil
}

// Editor adapts Validate to a RequestEditorFn.
func (v *RequestValidator) Editor() RequestEditorFn {
	return v.Validate
}
