package client

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestOptionChaining(t *testing.T) {
	opts := defaultOptions()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	doer := &fakeDoer{}

	WithBaseURL("http://localhost/1")(opts)
	WithTimeout(45 * time.Second)(opts)
	WithHTTPClient(doer)(opts)
	WithUserAgent("tool/1")(opts)
	WithClock(fixedClock)(opts)
	WithLogger(logger)(opts)
	WithRequestValidation()(opts)
	WithDownloadConcurrency(8)(opts)

	if opts.baseURL != "http://localhost/1" {
		t.Errorf("expected baseURL, got %q", opts.baseURL)
	}
	if opts.timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", opts.timeout)
	}
	if opts.doer != doer {
		t.Error("expected custom doer")
	}
	if opts.userAgent != "tool/1" {
		t.Errorf("expected user agent tool/1, got %q", opts.userAgent)
	}
	if !opts.now().Equal(time.Unix(1000000000, 0)) {
		t.Errorf("expected fixed clock, got %v", opts.now())
	}
	if opts.logger != logger {
		t.Error("expected custom logger")
	}
	if !opts.validateRequests {
		t.Error("expected request validation on")
	}
	if opts.downloadConcurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", opts.downloadConcurrency)
	}
}

func TestOptionOverwriting(t *testing.T) {
	opts := defaultOptions()
	WithTimeout(10 * time.Second)(opts)
	WithTimeout(20 * time.Second)(opts)

	if opts.timeout != 20*time.Second {
		t.Errorf("expected timeout 20s, got %v", opts.timeout)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := defaultOptions()

	if opts.baseURL != "https://platform.api.onesky.io/1" {
		t.Errorf("unexpected base URL %q", opts.baseURL)
	}
	if opts.doer != nil {
		t.Error("expected no doer by default")
	}
	if opts.validateRequests {
		t.Error("expected request validation off by default")
	}
	if opts.downloadConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", opts.downloadConcurrency)
	}
}

func TestWithLoggerNeverLogsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New("test-key", "test-secret", 42,
		WithHTTPClient(&fakeDoer{status: http.StatusNotFound, body: "missing"}),
		WithClock(fixedClock),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, _ = c.Download(context.Background(), "de", "")

	out := buf.String()
	if !strings.Contains(out, `"op":"download"`) {
		t.Errorf("expected op in log output, got %s", out)
	}
	if !strings.Contains(out, `"status":404`) {
		t.Errorf("expected status in log output, got %s", out)
	}
	for _, secret := range []string{"test-secret", fixedDevHash} {
		if strings.Contains(out, secret) {
			t.Errorf("log output leaked %q: %s", secret, out)
		}
	}
}

func TestWithLoggerNeverLogsSecretsOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL + "/1"
	server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c, err := New("test-key", "test-secret", 42,
		WithBaseURL(baseURL),
		WithClock(fixedClock),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Download(context.Background(), "de", "")
	if !IsTransportError(err) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}

	out := buf.String()
	if !strings.Contains(out, "request failed") {
		t.Fatalf("expected failure record, got %s", out)
	}
	if !strings.Contains(out, "/1/projects/42/translations") {
		t.Errorf("expected request path in log output, got %s", out)
	}
	for _, secret := range []string{"test-secret", fixedDevHash, "api_key=", "dev_hash="} {
		if strings.Contains(out, secret) {
			t.Errorf("log output leaked %q: %s", secret, out)
		}
		if strings.Contains(err.Error(), secret) {
			t.Errorf("error message leaked %q: %s", secret, err)
		}
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("expected *url.Error in chain, got %v", err)
	}
	if !strings.Contains(urlErr.URL, "dev_hash="+fixedDevHash) {
		t.Errorf("expected wrapped error to keep the full URL, got %q", urlErr.URL)
	}
}
