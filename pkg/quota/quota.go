package quota

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config describes one windowed quota policy. The same config must be used
// for every admission check against a logical resource, otherwise counts
// become incomparable.
type Config struct {
	MaxRequests int
	Window      time.Duration
	StorageKey  string
}

func (c Config) Validate() error {
	if c.MaxRequests <= 0 {
		return fmt.Errorf("quota: max requests must be positive, got %d", c.MaxRequests)
	}
	if c.Window <= 0 {
		return fmt.Errorf("quota: window must be positive, got %v", c.Window)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("quota: storage key is required")
	}
	return nil
}

// Record is one fixed-window counter. Timestamp marks the window start in
// epoch milliseconds; Fingerprint ties the record to the session that last
// wrote it and is informational only.
type Record struct {
	Timestamp   int64  `json:"timestamp"`
	Count       int    `json:"count"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewRecord opens a fresh window starting at now with a zero count.
func NewRecord(now time.Time) Record {
	return Record{Timestamp: now.UnixMilli()}
}

func (r Record) WindowStart() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// ResetAt is the instant the window closes and the count resets.
func (r Record) ResetAt(window time.Duration) time.Time {
	return r.WindowStart().Add(window)
}

// Elapsed reports whether the window has fully passed at now. There is no
// background sweep on the client side; callers reset lazily on access.
func (r Record) Elapsed(window time.Duration, now time.Time) bool {
	return !now.Before(r.ResetAt(window))
}

// Encode serializes a record to the persisted text form shared by every
// storage replica.
func Encode(r Record) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("quota: encode record: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted record, rejecting shapes that cannot have been
// written by this code so corrupt replicas are discarded rather than trusted.
func Decode(raw string) (Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return Record{}, fmt.Errorf("quota: malformed record: %w", err)
	}
	if r.Timestamp <= 0 || r.Count < 0 {
		return Record{}, fmt.Errorf("quota: malformed record: timestamp=%d count=%d", r.Timestamp, r.Count)
	}
	return r, nil
}
