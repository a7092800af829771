package main

import (
	"sync"
	"testing"
	"time"

	"github.com/haasonsaas/scout/pkg/quota"
)

func newTestGate(now *time.Time) *AdmissionGate {
	cfg := quota.Config{MaxRequests: 2, Window: 24 * time.Hour, StorageKey: "scout_search_quota"}
	return NewAdmissionGate(cfg, func() time.Time { return *now })
}

func TestAdmitWindowScenario(t *testing.T) {
	now := time.UnixMilli(0)
	gate := newTestGate(&now)

	first := gate.Admit("203.0.113.5_abcd1234deadbeef")
	if first.Limited || first.Remaining != 1 {
		t.Fatalf("unexpected first decision: %+v", first)
	}

	now = time.UnixMilli(1000)
	second := gate.Admit("203.0.113.5_abcd1234deadbeef")
	if second.Limited || second.Remaining != 0 {
		t.Fatalf("unexpected second decision: %+v", second)
	}

	now = time.UnixMilli(2000)
	third := gate.Admit("203.0.113.5_abcd1234deadbeef")
	if !third.Limited || third.Remaining != 0 {
		t.Fatalf("expected third request denied: %+v", third)
	}
	if third.ResetAt.UnixMilli() != 86400000 {
		t.Fatalf("unexpected reset time: %d", third.ResetAt.UnixMilli())
	}

	now = time.UnixMilli(86400001)
	fourth := gate.Admit("203.0.113.5_abcd1234deadbeef")
	if fourth.Limited || fourth.Remaining != 1 {
		t.Fatalf("expected fresh window after elapse: %+v", fourth)
	}
}

func TestAdmitDenialDoesNotConsumeQuota(t *testing.T) {
	now := time.UnixMilli(0)
	gate := newTestGate(&now)

	gate.Admit("id")
	gate.Admit("id")
	for i := 0; i < 5; i++ {
		if d := gate.Admit("id"); !d.Limited {
			t.Fatal("expected denial")
		}
	}
	// A denied call must not have pushed the count past the cap: after the
	// window elapses the next request starts a fresh window.
	now = now.Add(24*time.Hour + time.Millisecond)
	if d := gate.Admit("id"); d.Limited || d.Remaining != 1 {
		t.Fatalf("unexpected decision after window: %+v", d)
	}
}

func TestAdmitIsolatesIdentities(t *testing.T) {
	now := time.UnixMilli(0)
	gate := newTestGate(&now)

	gate.Admit("a")
	gate.Admit("a")
	if d := gate.Admit("a"); !d.Limited {
		t.Fatal("identity a should be limited")
	}
	if d := gate.Admit("b"); d.Limited {
		t.Fatal("identity b must not share a's window")
	}
}

func TestAdmitConcurrentRequestsNeverOvershoot(t *testing.T) {
	now := time.Now()
	cfg := quota.Config{MaxRequests: 5, Window: time.Hour, StorageKey: "scout_search_quota"}
	gate := NewAdmissionGate(cfg, func() time.Time { return now })

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d := gate.Admit("shared"); !d.Limited {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 5 {
		t.Fatalf("expected exactly 5 admissions, got %d", admitted)
	}
}

func TestSweepEvictsOnlyStaleRecords(t *testing.T) {
	now := time.UnixMilli(0)
	gate := newTestGate(&now)

	gate.Admit("stale")
	now = now.Add(12 * time.Hour)
	gate.Admit("fresh")

	// "stale" is 49h old at sweep time, past 2x the window; "fresh" is not.
	now = time.UnixMilli(0).Add(49 * time.Hour)
	gate.sweep(now)

	if stats := gate.Stats(); stats.Identities != 1 {
		t.Fatalf("expected one surviving identity, got %d", stats.Identities)
	}
}
