// Package main provides a CLI for the OneSky Platform API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gosuri/uitable"
	"github.com/kelseyhightower/envconfig"
	"github.com/kjanat/onesky-client/internal/logging"
	"github.com/kjanat/onesky-client/pkg/api"
	"github.com/kjanat/onesky-client/pkg/client"
	"github.com/spf13/cobra"
)

const envPrefix = "ONESKY"

var (
	// Global flags
	apiURL     string
	apiKey     string
	apiSecret  string
	projectID  int
	timeout    time.Duration
	jsonOutput bool
	logLevel   string
	logFormat  string
	retries    int

	// Command flags
	downloadLocales   []string
	downloadFileName  string
	downloadOutputDir string
	uploadFile        string
)

// envConfig holds settings read from ONESKY_* environment variables.
type envConfig struct {
	APIKey    string        `envconfig:"API_KEY"`
	APISecret string        `envconfig:"API_SECRET"`
	ProjectID int           `envconfig:"PROJECT_ID"`
	BaseURL   string        `envconfig:"BASE_URL" default:"https://platform.api.onesky.io/1"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string        `envconfig:"LOG_FORMAT" default:"text"`
}

// settings is the resolved configuration: flags first, then environment.
type settings struct {
	BaseURL   string
	APIKey    string
	APISecret string
	ProjectID int
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "onesky",
	Short: "OneSky Platform API CLI",
	Long: `A command-line client for the OneSky Platform API.

This tool allows you to:
  - List the files uploaded to a project
  - List the locales OneSky supports
  - List the languages enabled on a project
  - Download translations
  - Upload an Android strings.xml source file

Environment variables:
  ONESKY_API_KEY     - API key
  ONESKY_API_SECRET  - API secret
  ONESKY_PROJECT_ID  - Project ID
  ONESKY_BASE_URL    - API base URL (default: https://platform.api.onesky.io/1)
  ONESKY_TIMEOUT     - Request timeout (default: 30s)
  ONESKY_LOG_LEVEL   - debug, info, warn or error (default: warn)
  ONESKY_LOG_FORMAT  - text or json (default: text)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", "", "API base URL (or ONESKY_BASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (or ONESKY_API_KEY env)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "api-secret", "", "API secret (or ONESKY_API_SECRET env)")
	rootCmd.PersistentFlags().IntVar(&projectID, "project-id", 0, "Project ID (or ONESKY_PROJECT_ID env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (or ONESKY_TIMEOUT env)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (or ONESKY_LOG_LEVEL env)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (or ONESKY_LOG_FORMAT env)")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 0, "Retries for read commands on transport errors, 429 and 5xx")

	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(localesCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(uploadCmd)
}

// loadSettings merges flags over ONESKY_* environment variables
func loadSettings() (settings, error) {
	var env envConfig
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return settings{}, fmt.Errorf("read environment: %w", err)
	}

	s := settings{
		BaseURL:   env.BaseURL,
		APIKey:    env.APIKey,
		APISecret: env.APISecret,
		ProjectID: env.ProjectID,
		Timeout:   env.Timeout,
		LogLevel:  env.LogLevel,
		LogFormat: env.LogFormat,
	}

	if apiURL != "" {
		s.BaseURL = apiURL
	}
	if apiKey != "" {
		s.APIKey = apiKey
	}
	if apiSecret != "" {
		s.APISecret = apiSecret
	}
	if projectID != 0 {
		s.ProjectID = projectID
	}
	if timeout > 0 {
		s.Timeout = timeout
	}
	if logLevel != "" {
		s.LogLevel = logLevel
	}
	if logFormat != "" {
		s.LogFormat = logFormat
	}

	return s, nil
}

// newClient creates a new API client from the resolved settings
func newClient() (*client.Client, settings, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, s, err
	}

	logger := logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat})

	httpClient := &http.Client{
		Timeout:   s.Timeout,
		Transport: logging.Transport(logging.WithComponent(logger, "http"), nil),
	}

	c, err := client.New(s.APIKey, s.APISecret, s.ProjectID,
		client.WithBaseURL(s.BaseURL),
		client.WithTimeout(s.Timeout),
		client.WithHTTPClient(httpClient),
		client.WithLogger(logging.WithComponent(logger, "client")),
	)
	if err != nil {
		return nil, s, err
	}

	return c, s, nil
}

// outputJSON prints the value as JSON
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputRaw prints a response body as received
func outputRaw(body string) {
	fmt.Print(body)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		fmt.Println()
	}
}

// describeError adds a hint for the failure classes a user can act on
func describeError(action string, err error) error {
	var pe *client.ProtocolError
	switch {
	case client.IsConfigurationError(err):
		return fmt.Errorf("invalid configuration: %w", err)
	case client.IsAuthError(err):
		return fmt.Errorf("%s: authentication failed (check key, secret and system clock): %w", action, err)
	case errors.As(err, &pe):
		return fmt.Errorf("%s: server returned %d: %w", action, pe.StatusCode, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

// retryPolicy is the backoff used by --retries.
var retryPolicy = client.DefaultRetryPolicy()

// withRetries runs fn up to retries+1 times. Each attempt gets its own
// attemptTimeout, so backoff never eats into a later attempt's budget.
func withRetries(
	ctx context.Context,
	retries int,
	attemptTimeout time.Duration,
	fn func(ctx context.Context) (string, error),
) (string, error) {
	attempt := func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return fn(ctx)
	}
	if retries <= 0 {
		return attempt(ctx)
	}
	policy := retryPolicy
	policy.MaxRetries = retries
	return client.Retry(ctx, policy, attempt)
}

// Files command
var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List project files",
	Long:  "Lists the source files uploaded to the project.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, s, err := newClient()
		if err != nil {
			return describeError("list files", err)
		}

		body, err := withRetries(context.Background(), retries, s.Timeout, c.ListFiles)
		if err != nil {
			return describeError("list files", err)
		}

		if jsonOutput {
			outputRaw(body)
			return nil
		}

		list, err := client.ParseFiles(body)
		if err != nil {
			return err
		}

		if len(list.Files) == 0 {
			fmt.Println("No files found")
			return nil
		}

		table := uitable.New()
		table.AddRow("NAME", "STRINGS", "LAST IMPORT", "UPLOADED")
		for _, f := range list.Files {
			uploaded := ""
			if !f.UploadedAt.IsZero() {
				uploaded = f.UploadedAt.Format(time.RFC3339)
			}
			table.AddRow(f.Name, f.StringCount, f.ImportStatus, uploaded)
		}
		fmt.Println(table)

		return nil
	},
}

// Locales command
var localesCmd = &cobra.Command{
	Use:   "locales",
	Short: "List supported locales",
	Long:  "Lists every locale supported by OneSky.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, s, err := newClient()
		if err != nil {
			return describeError("list locales", err)
		}

		body, err := withRetries(context.Background(), retries, s.Timeout, c.ListLocales)
		if err != nil {
			return describeError("list locales", err)
		}

		if jsonOutput {
			outputRaw(body)
			return nil
		}

		locales, err := client.ParseLocales(body)
		if err != nil {
			return err
		}

		table := uitable.New()
		table.AddRow("CODE", "ENGLISH NAME", "LOCAL NAME")
		for _, l := range locales {
			table.AddRow(l.Code, l.EnglishName, l.LocalName)
		}
		fmt.Println(table)

		return nil
	},
}

// Languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List project languages",
	Long:  "Lists the languages enabled on the project and their progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, s, err := newClient()
		if err != nil {
			return describeError("list languages", err)
		}

		body, err := withRetries(context.Background(), retries, s.Timeout, c.ListLanguages)
		if err != nil {
			return describeError("list languages", err)
		}

		if jsonOutput {
			outputRaw(body)
			return nil
		}

		languages, err := client.ParseLanguages(body)
		if err != nil {
			return err
		}

		table := uitable.New()
		table.AddRow("CODE", "ENGLISH NAME", "PROGRESS", "READY", "BASE")
		for _, l := range languages {
			table.AddRow(l.Code, l.EnglishName, l.TranslationProgress, l.IsReadyToPublish, l.IsBaseLanguage)
		}
		fmt.Println(table)

		return nil
	},
}

// Download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download translations",
	Long: `Downloads the translation of a source file for one or more locales.

With a single locale and no --output-dir the file is written to stdout.
Otherwise each locale is written to <output-dir>/<locale>/<file-name>.

Example:
  onesky download --locale fr > values-fr/strings.xml
  onesky download --locale fr --locale ja --output-dir build/translations`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(downloadLocales) == 0 {
			return fmt.Errorf("--locale is required")
		}
		if len(downloadLocales) > 1 && downloadOutputDir == "" {
			return fmt.Errorf("--output-dir is required for more than one locale")
		}

		fileName := downloadFileName
		if fileName == "" {
			fileName = api.DefaultSourceFileName
		}

		c, s, err := newClient()
		if err != nil {
			return describeError("download", err)
		}

		if downloadOutputDir == "" {
			body, err := withRetries(context.Background(), retries, s.Timeout, func(ctx context.Context) (string, error) {
				return c.Download(ctx, downloadLocales[0], fileName)
			})
			if err != nil {
				return describeError("download "+downloadLocales[0], err)
			}
			fmt.Print(body)
			return nil
		}

		// The first pass shares one deadline; retries below get a fresh
		// timeout per attempt.
		fanout, cancel := context.WithTimeout(context.Background(), s.Timeout*time.Duration(len(downloadLocales)))
		results := c.DownloadLocales(fanout, downloadLocales, fileName)
		cancel()

		for i, r := range results {
			if r.Err == nil || !client.IsRetryable(r.Err) || retries <= 0 {
				continue
			}
			locale := r.Locale
			results[i].Body, results[i].Err = withRetries(context.Background(), retries-1, s.Timeout, func(ctx context.Context) (string, error) {
				return c.Download(ctx, locale, fileName)
			})
		}

		written := make(map[string]string, len(results))
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			path, err := writeTranslation(downloadOutputDir, r.Locale, fileName, r.Body)
			if err != nil {
				return err
			}
			written[r.Locale] = path
		}

		failed := client.Failed(results)

		if jsonOutput {
			errs := make(map[string]string, len(failed))
			for _, r := range failed {
				errs[r.Locale] = r.Err.Error()
			}
			if err := outputJSON(map[string]any{"written": written, "failed": errs}); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				if path, ok := written[r.Locale]; ok {
					fmt.Printf("%s: %s\n", r.Locale, path)
				}
			}
			for _, r := range failed {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.Locale, r.Err)
			}
		}

		if len(failed) > 0 {
			return fmt.Errorf("%d of %d downloads failed", len(failed), len(results))
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringSliceVar(&downloadLocales, "locale", nil, "Locale to download, repeatable (required)")
	downloadCmd.Flags().StringVar(&downloadFileName, "file-name", api.DefaultSourceFileName, "Source file name")
	downloadCmd.Flags().StringVar(&downloadOutputDir, "output-dir", "", "Directory to write translations to")
}

// writeTranslation stores body at <dir>/<locale>/<fileName>
func writeTranslation(dir, locale, fileName, body string) (string, error) {
	if !isPlainName(locale) || !isPlainName(fileName) {
		return "", fmt.Errorf("refusing to write outside %s: %s/%s", dir, locale, fileName)
	}

	localeDir := filepath.Join(dir, locale)
	if err := os.MkdirAll(localeDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", localeDir, err)
	}

	path := filepath.Join(localeDir, fileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil { //nolint:gosec // translations are not secret
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func isPlainName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}

// Upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a source file",
	Long: `Uploads an Android strings.xml file as a translation source.

Uploads are never retried.

Example:
  onesky upload --file app/src/main/res/values/strings.xml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadFile == "" {
			return fmt.Errorf("--file is required")
		}

		c, s, err := newClient()
		if err != nil {
			return describeError("upload", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		defer cancel()

		body, err := c.Upload(ctx, client.FileAttachment{Path: uploadFile})
		if err != nil {
			return describeError("upload", err)
		}

		if jsonOutput {
			outputRaw(body)
			return nil
		}

		receipt, err := client.ParseUpload(body)
		if err != nil {
			return err
		}

		fmt.Printf("File uploaded successfully\n")
		fmt.Printf("  Name: %s\n", receipt.Name)
		if receipt.Format != "" {
			fmt.Printf("  Format: %s\n", receipt.Format)
		}
		if receipt.ImportID != 0 {
			fmt.Printf("  Import ID: %d\n", receipt.ImportID)
		}

		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "Path to strings.xml (required)")
}
