// Package client provides a OneSky Platform API client for Android string
// resources.
//
// The client wraps the wire layer (pkg/api) and handles:
//   - Signing every call with a fresh api_key, dev_hash, timestamp triple
//   - Composing the ordered parameter list of each endpoint
//   - Mapping outcomes to typed errors
//   - Context-aware, at-most-once dispatch
//
// # Basic Usage
//
//	c, err := client.New(os.Getenv("ONESKY_API_KEY"), os.Getenv("ONESKY_API_SECRET"), 12345,
//	    client.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Upload the base strings
//	_, err = c.Upload(ctx, client.FileAttachment{Path: "app/src/main/res/values/strings.xml"})
//
//	// Fetch the French translation
//	xml, err := c.Download(ctx, "fr", "strings.xml")
//
// # Error Handling
//
// Every operation returns the raw response body or one of the typed errors:
//
//	body, err := c.ListFiles(ctx)
//	if err != nil {
//	    switch {
//	    case client.IsTransportError(err):
//	        // No response: network, DNS, timeout or cancellation
//	    case client.IsAuthError(err):
//	        // Bad key/secret, or a clock too far from the server's
//	    case client.IsProtocolError(err):
//	        // Any other non-2xx; the raw body is on *ProtocolError
//	    case client.IsValidationError(err):
//	        // Rejected locally, nothing was sent
//	    }
//	}
//
// # Retries
//
// The client performs no retries. Idempotent calls can be wrapped with Retry:
//
//	xml, err := client.Retry(ctx, client.DefaultRetryPolicy(), func(ctx context.Context) (string, error) {
//	    return c.Download(ctx, "ja", "")
//	})
package client
