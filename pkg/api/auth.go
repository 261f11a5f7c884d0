package api

import (
	"crypto/md5" //nolint:gosec // dev_hash is defined by the OneSky protocol as MD5
	"encoding/hex"
	"strconv"
	"time"
)

// Authentication parameter names, in the order they are sent.
const (
	ParamAPIKey    = "api_key"
	ParamDevHash   = "dev_hash"
	ParamTimestamp = "timestamp"
)

// AuthParams is the credential triple attached to every OneSky call.
//
// DevHash is only valid for Timestamp, so an AuthParams must be generated for
// each request and never reused.
type AuthParams struct {
	APIKey    string
	DevHash   string
	Timestamp string
}

// DevHash returns the lowercase hex MD5 of the decimal timestamp followed by
// the secret. MD5 is mandated by the remote protocol and provides no integrity
// guarantee beyond that.
func DevHash(secret string, unixSeconds int64) string {
	sum := md5.Sum([]byte(strconv.FormatInt(unixSeconds, 10) + secret)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Sign produces the auth parameters for apiKey and secret at time now.
func Sign(apiKey, secret string, now time.Time) AuthParams {
	ts := now.Unix()
	return AuthParams{
		APIKey:    apiKey,
		DevHash:   DevHash(secret, ts),
		Timestamp: strconv.FormatInt(ts, 10),
	}
}

// Params returns the triple as api_key, dev_hash, timestamp.
func (a AuthParams) Params() Params {
	return Params{
		{Key: ParamAPIKey, Value: a.APIKey},
		{Key: ParamDevHash, Value: a.DevHash},
		{Key: ParamTimestamp, Value: a.Timestamp},
	}
}
