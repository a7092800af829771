package quota

import "time"

// State is the observable limiter view derived from a record. It is
// recomputed on every check and on session load; it is never stored.
type State struct {
	Limited   bool
	Remaining int
	ResetAt   time.Time
}

// Evaluate derives the limiter state for a record at now without mutating
// anything. A nil record or an elapsed window yields a full quota.
func Evaluate(rec *Record, cfg Config, now time.Time) State {
	if rec == nil || rec.Elapsed(cfg.Window, now) {
		return State{Remaining: cfg.MaxRequests}
	}
	remaining := cfg.MaxRequests - rec.Count
	if remaining <= 0 {
		return State{Limited: true, ResetAt: rec.ResetAt(cfg.Window)}
	}
	return State{Remaining: remaining, ResetAt: rec.ResetAt(cfg.Window)}
}
