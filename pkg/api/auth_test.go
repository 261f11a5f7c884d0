package api

import (
	"regexp"
	"strconv"
	"testing"
	"time"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestDevHashGoldenVector(t *testing.T) {
	// md5("1000000000test-secret")
	const want = "b53d6fd824ab4c95694e503811fa68bc"

	if got := DevHash("test-secret", 1000000000); got != want {
		t.Errorf("DevHash() = %s, want %s", got, want)
	}
}

func TestDevHashDeterministic(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		ts     int64
	}{
		{name: "typical", secret: "s3cr3t", ts: 1700000000},
		{name: "unicode secret", secret: "clé-secrète", ts: 1234567890},
		{name: "epoch", secret: "x", ts: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := DevHash(tt.secret, tt.ts)
			second := DevHash(tt.secret, tt.ts)
			if first != second {
				t.Errorf("DevHash not deterministic: %s vs %s", first, second)
			}
			if !hexHash.MatchString(first) {
				t.Errorf("DevHash = %q, want 32 lowercase hex chars", first)
			}
		})
	}
}

func TestDevHashDependsOnInputs(t *testing.T) {
	base := DevHash("secret", 1700000000)
	if DevHash("secret", 1700000001) == base {
		t.Error("expected different hash for different timestamp")
	}
	if DevHash("secreT", 1700000000) == base {
		t.Error("expected different hash for different secret")
	}
}

func TestSign(t *testing.T) {
	now := time.Unix(1000000000, 999_000_000)

	auth := Sign("my-key", "test-secret", now)

	if auth.APIKey != "my-key" {
		t.Errorf("APIKey = %q, want my-key", auth.APIKey)
	}
	if auth.Timestamp != "1000000000" {
		t.Errorf("Timestamp = %q, want 1000000000 (seconds, truncated)", auth.Timestamp)
	}
	if auth.DevHash != "b53d6fd824ab4c95694e503811fa68bc" {
		t.Errorf("DevHash = %q", auth.DevHash)
	}
}

func TestAuthParamsOrder(t *testing.T) {
	params := Sign("key", "secret", time.Now()).Params()

	if len(params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(params))
	}

	wantKeys := []string{ParamAPIKey, ParamDevHash, ParamTimestamp}
	for i, key := range params.Keys() {
		if key != wantKeys[i] {
			t.Errorf("param %d = %s, want %s", i, key, wantKeys[i])
		}
	}

	ts, err := strconv.ParseInt(params[2].Value, 10, 64)
	if err != nil || ts <= 0 {
		t.Errorf("timestamp %q is not a positive integer", params[2].Value)
	}
}
