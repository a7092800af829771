package quota

import (
	"strings"
	"testing"
	"time"
)

var testConfig = Config{MaxRequests: 2, Window: 24 * time.Hour, StorageKey: "scout_search_quota"}

func TestEvaluateNilRecord(t *testing.T) {
	state := Evaluate(nil, testConfig, time.Now())
	if state.Limited {
		t.Fatal("nil record should not be limited")
	}
	if state.Remaining != 2 {
		t.Fatalf("expected full quota, got %d", state.Remaining)
	}
	if !state.ResetAt.IsZero() {
		t.Fatalf("expected no reset time, got %v", state.ResetAt)
	}
}

func TestEvaluateOpenWindow(t *testing.T) {
	start := time.UnixMilli(0)
	rec := Record{Timestamp: start.UnixMilli(), Count: 1}
	state := Evaluate(&rec, testConfig, start.Add(time.Second))
	if state.Limited {
		t.Fatal("one request of two should not be limited")
	}
	if state.Remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", state.Remaining)
	}
	if !state.ResetAt.Equal(start.Add(24 * time.Hour)) {
		t.Fatalf("unexpected reset time: %v", state.ResetAt)
	}
}

func TestEvaluateExhaustedWindow(t *testing.T) {
	start := time.UnixMilli(0)
	rec := Record{Timestamp: start.UnixMilli(), Count: 2}
	state := Evaluate(&rec, testConfig, start.Add(2*time.Second))
	if !state.Limited {
		t.Fatal("expected limited state")
	}
	if state.Remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", state.Remaining)
	}
	if state.ResetAt.UnixMilli() != 86400000 {
		t.Fatalf("unexpected reset time: %d", state.ResetAt.UnixMilli())
	}
}

func TestEvaluateElapsedWindowResets(t *testing.T) {
	start := time.UnixMilli(0)
	rec := Record{Timestamp: start.UnixMilli(), Count: 2}
	state := Evaluate(&rec, testConfig, time.UnixMilli(86400001))
	if state.Limited {
		t.Fatal("elapsed window should not be limited")
	}
	if state.Remaining != 2 {
		t.Fatalf("expected full quota after window, got %d", state.Remaining)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := Record{Timestamp: 1700000000000, Count: 1, Fingerprint: "abc"}
	raw, err := Encode(rec)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(raw, `"timestamp":1700000000000`) {
		t.Fatalf("unexpected wire form: %s", raw)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != rec {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "{}", `{"timestamp":-5,"count":1}`, `{"timestamp":1,"count":-1}`} {
		if _, err := Decode(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestRecordElapsed(t *testing.T) {
	rec := NewRecord(time.UnixMilli(0))
	if rec.Elapsed(24*time.Hour, time.UnixMilli(86399999)) {
		t.Fatal("window should still be open one ms before the boundary")
	}
	if !rec.Elapsed(24*time.Hour, time.UnixMilli(86400000)) {
		t.Fatal("window should be elapsed exactly at the boundary")
	}
}
