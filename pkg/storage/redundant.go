package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Signals carries tamper intelligence observed during a read. The two
// primary replicas (durable and session) disagreeing on presence suggests
// storage was partially cleared; the store heals it and reports it rather
// than punishing the user.
type Signals struct {
	Disagreement bool
	Healed       bool
}

// Store replicates one record across independent backends with no
// authoritative copy: writes fan out to every replica unconditionally and
// reads follow a fixed priority order, repopulating replicas that missed.
// Backends must be supplied in priority order (durable, session, cookie).
type Store struct {
	backends []Backend
	logger   zerolog.Logger
}

func NewStore(logger zerolog.Logger, backends ...Backend) *Store {
	return &Store{backends: backends, logger: logger}
}

// Write persists the value to every replica. A single replica failing
// (quota exceeded, storage disabled) is logged and absorbed; the write
// only fails when no replica accepted it.
func (s *Store) Write(key, value string) error {
	var accepted int
	var firstErr error
	for _, b := range s.backends {
		if err := b.Write(key, value); err != nil {
			s.logger.Warn().Err(err).Str("backend", b.Name()).Str("key", key).Msg("Replica write failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return fmt.Errorf("storage: every replica rejected write: %w", firstErr)
	}
	return nil
}

// Read returns the highest-priority replica's value, back-filling every
// replica that missed so subsequent reads converge faster. Absence in all
// replicas returns ErrNotFound.
func (s *Store) Read(key string) (string, Signals, error) {
	var sig Signals
	values := make([]string, len(s.backends))
	present := make([]bool, len(s.backends))
	for i, b := range s.backends {
		value, err := b.Read(key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("backend", b.Name()).Str("key", key).Msg("Replica read failed")
			continue
		}
		values[i] = value
		present[i] = true
	}

	if len(s.backends) >= 2 && present[0] != present[1] {
		sig.Disagreement = true
		s.logger.Warn().Str("key", key).Bool("durable_present", present[0]).Bool("session_present", present[1]).
			Msg("Primary replicas disagree on record presence")
	}

	hit := -1
	for i := range s.backends {
		if present[i] {
			hit = i
			break
		}
	}
	if hit < 0 {
		return "", sig, ErrNotFound
	}

	for i, b := range s.backends {
		if present[i] {
			continue
		}
		if err := b.Write(key, values[hit]); err != nil {
			s.logger.Warn().Err(err).Str("backend", b.Name()).Str("key", key).Msg("Replica back-fill failed")
			continue
		}
		if i < 2 {
			sig.Healed = true
		}
	}
	return values[hit], sig, nil
}

// Delete clears the key from every replica, best effort.
func (s *Store) Delete(key string) error {
	var firstErr error
	for _, b := range s.backends {
		if err := b.Delete(key); err != nil {
			s.logger.Warn().Err(err).Str("backend", b.Name()).Str("key", key).Msg("Replica delete failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
