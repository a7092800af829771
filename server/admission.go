package main

import (
	"context"
	"sync"
	"time"

	"github.com/haasonsaas/scout/pkg/quota"
)

// AdmissionGate enforces the per-identity fixed-window cap from a
// process-local map. State is deliberately lost on restart: a fresh
// process is a new trust boundary.
type AdmissionGate struct {
	cfg   quota.Config
	clock func() time.Time

	mu      sync.Mutex
	entries map[string]quota.Record
}

// Decision is the outcome of one admission check.
type Decision struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

func NewAdmissionGate(cfg quota.Config, clock func() time.Time) *AdmissionGate {
	if clock == nil {
		clock = time.Now
	}
	return &AdmissionGate{cfg: cfg, clock: clock, entries: make(map[string]quota.Record)}
}

// Admit counts one request for identity and reports whether it may
// proceed. The comparison and increment happen under one lock so parallel
// requests cannot both slip under the cap. Denied requests never consume
// quota.
func (g *AdmissionGate) Admit(identity string) Decision {
	now := g.clock()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.entries[identity]
	if !ok || rec.Elapsed(g.cfg.Window, now) {
		rec = quota.NewRecord(now)
	}
	if rec.Count >= g.cfg.MaxRequests {
		return Decision{Limited: true, ResetAt: rec.ResetAt(g.cfg.Window)}
	}
	rec.Count++
	g.entries[identity] = rec
	return Decision{Remaining: g.cfg.MaxRequests - rec.Count, ResetAt: rec.ResetAt(g.cfg.Window)}
}

// Limit exposes the configured cap for response headers.
func (g *AdmissionGate) Limit() int { return g.cfg.MaxRequests }

// Run sweeps stale entries on a timer until ctx is done, bounding map
// growth in long-lived processes. The sweep is time-driven and never runs
// inside a request.
func (g *AdmissionGate) Run(ctx context.Context) {
	interval := g.cfg.Window / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep(g.clock())
		}
	}
}

// sweep drops records whose window started more than two windows ago.
// Records inside or just past their window stay so a late request still
// sees the correct lazy reset.
func (g *AdmissionGate) sweep(now time.Time) {
	cutoff := now.Add(-2 * g.cfg.Window)
	g.mu.Lock()
	defer g.mu.Unlock()
	for identity, rec := range g.entries {
		if rec.WindowStart().Before(cutoff) {
			delete(g.entries, identity)
		}
	}
}

type AdmissionStats struct {
	Identities int `json:"identities"`
}

func (g *AdmissionGate) Stats() AdmissionStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return AdmissionStats{Identities: len(g.entries)}
}
