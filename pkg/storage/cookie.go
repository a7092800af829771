package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// CookieBackend keeps the cookie replica in a small jar file. Values are
// base64-encoded so the payload stays within cookie value restrictions, and
// every entry carries an expiry the way a browser cookie would. The jar
// entry for the quota key can be exported as an *http.Cookie and attached
// to outbound requests.
type CookieBackend struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

type cookieEntry struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires"`
}

func NewCookieBackend(path string, ttl time.Duration) *CookieBackend {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CookieBackend{path: path, ttl: ttl, now: time.Now}
}

func (b *CookieBackend) Name() string { return "cookie" }

func (b *CookieBackend) Read(key string) (string, error) {
	entry, err := b.lookup(key)
	if err != nil {
		return "", err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(entry.Value)
	if err != nil {
		return "", fmt.Errorf("storage: decode cookie value: %w", err)
	}
	return string(decoded), nil
}

func (b *CookieBackend) Write(key, value string) error {
	jar := b.loadJar()
	jar[key] = cookieEntry{
		Name:    key,
		Value:   base64.RawURLEncoding.EncodeToString([]byte(value)),
		Expires: b.now().Add(b.ttl),
	}
	return b.saveJar(jar)
}

func (b *CookieBackend) Delete(key string) error {
	jar := b.loadJar()
	if _, ok := jar[key]; !ok {
		return nil
	}
	delete(jar, key)
	return b.saveJar(jar)
}

// Cookie exports the stored entry in wire form for outbound requests.
func (b *CookieBackend) Cookie(key string) (*http.Cookie, error) {
	entry, err := b.lookup(key)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{Name: entry.Name, Value: entry.Value, Expires: entry.Expires}, nil
}

func (b *CookieBackend) lookup(key string) (cookieEntry, error) {
	entry, ok := b.loadJar()[key]
	if !ok || b.now().After(entry.Expires) {
		return cookieEntry{}, ErrNotFound
	}
	return entry, nil
}

// loadJar tolerates a missing or corrupt jar file: either way the replica
// simply has nothing, and the redundant store heals it on the next write.
func (b *CookieBackend) loadJar() map[string]cookieEntry {
	jar := make(map[string]cookieEntry)
	data, err := os.ReadFile(b.path)
	if err != nil {
		return jar
	}
	if err := json.Unmarshal(data, &jar); err != nil {
		return make(map[string]cookieEntry)
	}
	return jar
}

func (b *CookieBackend) saveJar(jar map[string]cookieEntry) error {
	data, err := json.Marshal(jar)
	if err != nil {
		return err
	}
	return os.WriteFile(b.path, data, 0o600)
}
