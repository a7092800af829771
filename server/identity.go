package main

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	// loopbackIdentity is the fallback when no proxy or network layer
	// supplied an address, which only happens in local setups.
	loopbackIdentity = "127.0.0.1"

	// userAgentPrefixLen bounds the user-agent contribution to the identity.
	userAgentPrefixLen = 100
)

// deriveIdentity builds the admission key from network and transport
// metadata: the first hop of the forwarded chain plus a short hash of the
// user agent. Deterministic for identical metadata, so requests spoofing
// identical headers collide; that weakness is accepted.
func deriveIdentity(r *http.Request) string {
	return clientAddress(r) + "_" + userAgentHash(r.UserAgent())
}

func clientAddress(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		first := fwd
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			first = fwd[:i]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Client-IP")); ip != "" {
		return ip
	}
	return loopbackIdentity
}

func userAgentHash(userAgent string) string {
	if len(userAgent) > userAgentPrefixLen {
		userAgent = userAgent[:userAgentPrefixLen]
	}
	sum := sha256.Sum256([]byte(userAgent))
	return hex.EncodeToString(sum[:8])
}
