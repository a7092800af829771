// Package gate implements the client-side admission gate: a fixed-window
// request counter persisted redundantly across storage replicas, with
// heuristics that surface (but do not enforce on) signs of tampering.
package gate

import (
	"errors"
	"sync"
	"time"

	"github.com/haasonsaas/scout/pkg/fingerprint"
	"github.com/haasonsaas/scout/pkg/quota"
	"github.com/haasonsaas/scout/pkg/storage"
	"github.com/rs/zerolog"
)

// Signals is tamper intelligence observed by the gate. It informs, it does
// not block: replica disagreement is healed in place, and a fingerprint can
// change legitimately between sessions, so enforcement policy stays with
// the caller.
type Signals struct {
	StorageDisagreement bool
	FingerprintMismatch bool
}

// Gate decides whether the next request may proceed. The window is fixed
// from first use: once it elapses the count resets entirely, trading a
// possible burst across the boundary for statelessness.
type Gate struct {
	cfg    quota.Config
	store  *storage.Store
	prints *fingerprint.Fingerprinter
	logger zerolog.Logger
	clock  func() time.Time

	mu      sync.Mutex
	state   quota.State
	signals Signals
}

// New builds a gate over the given replica store and fingerprinter. A nil
// clock uses wall time; tests inject their own.
func New(cfg quota.Config, store *storage.Store, prints *fingerprint.Fingerprinter, logger zerolog.Logger, clock func() time.Time) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	g := &Gate{cfg: cfg, store: store, prints: prints, logger: logger, clock: clock}
	g.state = quota.Evaluate(nil, cfg, clock())
	return g, nil
}

// Initialize reconciles stored state once per session without consuming
// quota: an elapsed window is proactively cleared from every replica, an
// open one is published as-is. Calling it repeatedly never changes the
// stored count.
func (g *Gate) Initialize() quota.State {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	rec, found := g.load()
	if found && rec.Elapsed(g.cfg.Window, now) {
		g.clear()
		found = false
	}
	if !found {
		g.state = quota.Evaluate(nil, g.cfg, now)
		return g.state
	}
	g.state = quota.Evaluate(&rec, g.cfg, now)
	return g.state
}

// Check decides whether the request about to be made is blocked, consuming
// one unit of quota when it is admitted. A blocked call never increments
// the stored count, so checking cannot itself burn quota.
func (g *Gate) Check() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock()
	fp, known := g.currentFingerprint()
	if !known {
		// An unknown identity cannot yet accumulate a window: fail open.
		g.state = quota.Evaluate(nil, g.cfg, now)
		return false
	}

	rec, found := g.load()
	if !found || rec.Elapsed(g.cfg.Window, now) {
		rec = quota.NewRecord(now)
	}
	if rec.Count >= g.cfg.MaxRequests {
		g.state = quota.Evaluate(&rec, g.cfg, now)
		return true
	}

	rec.Count++
	rec.Fingerprint = fp
	g.persist(rec)
	g.state = quota.Evaluate(&rec, g.cfg, now)
	return false
}

// RemainingTime reports how long until the current window resets. Zero
// when no window is open.
func (g *Gate) RemainingTime() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.ResetAt.IsZero() {
		return 0
	}
	remaining := g.state.ResetAt.Sub(g.clock())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the record from every replica and republishes fresh state.
// An explicit escape hatch for recovery and testing, with no
// abuse-prevention role of its own.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clear()
	g.state = quota.Evaluate(nil, g.cfg, g.clock())
}

// State returns the last published limiter view.
func (g *Gate) State() quota.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Signals returns the tamper intelligence accumulated so far.
func (g *Gate) Signals() Signals {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signals
}

// load reads and decodes the stored record, folding replica signals into
// the gate. A corrupt record is discarded from every replica and treated
// as absent: fail open, not fail closed.
func (g *Gate) load() (quota.Record, bool) {
	raw, sig, err := g.store.Read(g.cfg.StorageKey)
	if sig.Disagreement {
		g.signals.StorageDisagreement = true
	}
	if errors.Is(err, storage.ErrNotFound) {
		return quota.Record{}, false
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("Quota record read failed")
		return quota.Record{}, false
	}

	rec, err := quota.Decode(raw)
	if err != nil {
		g.logger.Warn().Err(err).Msg("Discarding corrupt quota record")
		g.clear()
		return quota.Record{}, false
	}

	if fp, known := g.currentFingerprint(); known && rec.Fingerprint != "" && rec.Fingerprint != fp {
		g.signals.FingerprintMismatch = true
		g.logger.Warn().Str("stored", rec.Fingerprint).Str("current", fp).Msg("Quota record carries a foreign fingerprint")
	}
	return rec, true
}

func (g *Gate) persist(rec quota.Record) {
	raw, err := quota.Encode(rec)
	if err != nil {
		g.logger.Error().Err(err).Msg("Quota record encode failed")
		return
	}
	// Persistence failure must not surface to the user; redundancy plus
	// fail-open absorbs it.
	if err := g.store.Write(g.cfg.StorageKey, raw); err != nil {
		g.logger.Warn().Err(err).Msg("Quota record write failed on every replica")
	}
}

func (g *Gate) clear() {
	if err := g.store.Delete(g.cfg.StorageKey); err != nil {
		g.logger.Warn().Err(err).Msg("Quota record delete failed")
	}
}

func (g *Gate) currentFingerprint() (string, bool) {
	if g.prints == nil {
		return "", false
	}
	return g.prints.Get()
}
