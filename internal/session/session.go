// Package session carries the authenticated identity as an explicit
// value injected at startup, never as ambient globals.
package session

import (
	"strings"

	"fintrack/internal/kv"
)

// Session identifies whose data a ledger and budget registry operate
// on. The zero value is a guest session with no storage namespace.
type Session struct {
	UserID string
	Guest  bool
}

// GuestSession returns the anonymous session.
func GuestSession() Session {
	return Session{Guest: true}
}

// ForUser returns a session for a known user id.
func ForUser(id string) Session {
	id = strings.TrimSpace(id)
	if id == "" {
		return GuestSession()
	}
	return Session{UserID: id}
}

// Namespace returns the storage key prefix for this session. Guest data
// lives under unprefixed keys so a later sign-in does not shadow it.
func (s Session) Namespace() string {
	if s.Guest || s.UserID == "" {
		return ""
	}
	return "user:" + s.UserID
}

// Store wraps a base key-value store with this session's namespace.
func (s Session) Store(base kv.Store) kv.Store {
	return kv.Namespaced(base, s.Namespace())
}
