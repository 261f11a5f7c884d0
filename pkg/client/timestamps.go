package client

import (
	"time"
)

// OneSky renders dates as ISO 8601 with a colon-less zone offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// parseTimestamp converts an ISO 8601 timestamp string to time.Time.
// Returns zero time if parsing fails.
func parseTimestamp(ts string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// resolveTimestamp prefers the unix seconds field when present.
func resolveTimestamp(iso string, unix int64) time.Time {
	if unix > 0 {
		return time.Unix(unix, 0).UTC()
	}
	return parseTimestamp(iso)
}
