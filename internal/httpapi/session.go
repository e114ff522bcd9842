package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

// sessionManager hands out the anonymous session ids that scope votes. The
// id is a hash over a fresh uuid and the client address, set as a long-lived
// HttpOnly cookie so repeat visits keep the same vote identity.
type sessionManager struct {
	ttl time.Duration
}

func newSessionManager(ttl time.Duration) *sessionManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &sessionManager{ttl: ttl}
}

// getOrCreate returns the caller's session id, minting and setting a cookie
// when none is present.
func (m *sessionManager) getOrCreate(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sum := sha256.Sum256([]byte(uuid.NewString() + "-" + clientIP(r)))
	sessionID := hex.EncodeToString(sum[:])

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sessionID
}

// clientIP extracts the bare address; chi's RealIP middleware has already
// resolved forwarding headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
