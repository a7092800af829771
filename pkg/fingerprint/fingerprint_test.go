package fingerprint

import (
	"testing"

	"github.com/haasonsaas/scout/pkg/storage"
	"github.com/rs/zerolog"
)

type fakeEnv struct {
	snap  Snapshot
	ok    bool
	calls int
}

func (f *fakeEnv) Snapshot() (Snapshot, bool) {
	f.calls++
	return f.snap, f.ok
}

var testSnapshot = Snapshot{
	ScreenWidth:    120,
	ScreenHeight:   40,
	ColorDepth:     24,
	Timezone:       "America/New_York",
	Language:       "en_US.UTF-8",
	Platform:       "linux/amd64",
	UserAgent:      "scout/dev (linux; amd64) go1.21.5",
	CookiesEnabled: true,
}

func TestDeriveDeterministicAndShort(t *testing.T) {
	a := Derive(testSnapshot)
	b := Derive(testSnapshot)
	if a != b {
		t.Fatalf("same snapshot produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 28 {
		t.Fatalf("unexpected fingerprint length: %d", len(a))
	}
}

func TestDeriveSensitiveToAttributes(t *testing.T) {
	other := testSnapshot
	other.Timezone = "Europe/Berlin"
	if Derive(testSnapshot) == Derive(other) {
		t.Fatal("different snapshots should not collide on obvious attribute changes")
	}
}

func TestGetCachesForSession(t *testing.T) {
	env := &fakeEnv{snap: testSnapshot, ok: true}
	cache := storage.NewMemoryBackend("session")
	f := New(env, cache, zerolog.Nop())

	first, ok := f.Get()
	if !ok || first == "" {
		t.Fatal("expected a fingerprint")
	}
	second, ok := f.Get()
	if !ok || second != first {
		t.Fatalf("cached fingerprint changed: %s vs %s", second, first)
	}
	if env.calls != 1 {
		t.Fatalf("snapshot recomputed despite cache: %d calls", env.calls)
	}
}

func TestGetPrefersCachedValueOverRecomputation(t *testing.T) {
	env := &fakeEnv{snap: testSnapshot, ok: true}
	cache := storage.NewMemoryBackend("session")
	_ = cache.Write(CacheKey, "previously-derived-value")
	f := New(env, cache, zerolog.Nop())

	fp, ok := f.Get()
	if !ok || fp != "previously-derived-value" {
		t.Fatalf("expected cached value, got %q", fp)
	}
	if env.calls != 0 {
		t.Fatal("environment should not be read when a cached value exists")
	}
}

func TestGetUnavailableEnvironment(t *testing.T) {
	env := &fakeEnv{ok: false}
	f := New(env, storage.NewMemoryBackend("session"), zerolog.Nop())
	if fp, ok := f.Get(); ok || fp != "" {
		t.Fatalf("expected no fingerprint, got %q ok=%v", fp, ok)
	}
}
