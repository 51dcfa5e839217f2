package utils

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// timestampCutoff separates epoch seconds from epoch milliseconds.
// Values above 10^11 are treated as milliseconds.
const timestampCutoff = 100000000000

// GetCurrentTimeSeconds returns current time in seconds since epoch
func GetCurrentTimeSeconds() int64 {
	return time.Now().Unix()
}

// NormalizeToSeconds converts an epoch timestamp that may be in milliseconds to seconds
func NormalizeToSeconds(ts int64) int64 {
	if ts >= timestampCutoff {
		return ts / 1000
	}
	return ts
}

// ParseEpochOrRFC3339 parses an expiry value stored as epoch seconds, epoch millis or an RFC 3339 timestamp
func ParseEpochOrRFC3339(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return NormalizeToSeconds(n), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.Unix(), nil
}

// IsExpired checks if a given validity time has passed.
// Accepts seconds or milliseconds; zero means no expiry.
func IsExpired(validityTime int64) bool {
	if validityTime == 0 {
		return false
	}
	return GetCurrentTimeSeconds() > NormalizeToSeconds(validityTime)
}

// GetCurrentTimeMillis returns current time in milliseconds since epoch
func GetCurrentTimeMillis() int64 {
	return time.Now().UnixMilli()
}

var lastTimestampMillis atomic.Int64

// NextTimestampMillis returns the current time in milliseconds, strictly greater
// than any value previously returned in this process. Ledger rows use it so that
// records written within the same millisecond keep their write order.
func NextTimestampMillis() int64 {
	for {
		now := GetCurrentTimeMillis()
		last := lastTimestampMillis.Load()
		if now <= last {
			now = last + 1
		}
		if lastTimestampMillis.CompareAndSwap(last, now) {
			return now
		}
	}
}
