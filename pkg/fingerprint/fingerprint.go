package fingerprint

import (
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/haasonsaas/scout/pkg/storage"
	"github.com/rs/zerolog"
)

const (
	// CacheKey is where the session fingerprint lives in session storage.
	CacheKey = "scout_device_profile"

	// fingerprintLength keeps the identifier short while leaving plenty of
	// hash entropy for a manipulation signal.
	fingerprintLength = 28

	// userAgentMax bounds the user-agent contribution so trailing noise in
	// long agent strings does not destabilize the fingerprint.
	userAgentMax = 64
)

// Fingerprinter derives a short, stable identifier from ambient host
// attributes. The first derivation in a session is cached; later calls
// return the cached value without recomputation, because a mid-session
// environment change (timezone, locale) must not change the identity.
type Fingerprinter struct {
	env    EnvironmentReader
	cache  storage.Backend
	logger zerolog.Logger
}

func New(env EnvironmentReader, cache storage.Backend, logger zerolog.Logger) *Fingerprinter {
	return &Fingerprinter{env: env, cache: cache, logger: logger}
}

// Get returns the session fingerprint. ok is false when the environment
// cannot be read; absence means identity unknown, not a zero-length one.
func (f *Fingerprinter) Get() (string, bool) {
	if f.cache != nil {
		if cached, err := f.cache.Read(CacheKey); err == nil && cached != "" {
			return cached, true
		}
	}

	snap, ok := f.env.Snapshot()
	if !ok {
		return "", false
	}
	fp := Derive(snap)

	if f.cache != nil {
		if err := f.cache.Write(CacheKey, fp); err != nil {
			f.logger.Debug().Err(err).Msg("Fingerprint cache write failed")
		}
	}
	return fp, true
}

// Derive computes the fingerprint for a snapshot: a compact serialization
// of the attributes, hashed and truncated to a fixed length.
func Derive(snap Snapshot) string {
	parts := []string{
		strconv.Itoa(snap.ScreenWidth) + "x" + strconv.Itoa(snap.ScreenHeight),
		strconv.Itoa(snap.ColorDepth),
		snap.Timezone,
		snap.Language,
		snap.Platform,
		truncate(snap.UserAgent, userAgentMax),
		boolFlag(snap.CookiesEnabled),
		boolFlag(snap.DoNotTrack),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:fingerprintLength]
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func boolFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
