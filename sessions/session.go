package sessions

import "time"

// Session is issued after a credential verifies. Sessions are process local
// and never persisted, so a restart forces everyone to authenticate again.
type Session struct {
	Token     string    // Opaque handle given to the client
	UserID    string    // Owner of the session
	CreatedAt time.Time // When the session was opened
	ExpiresAt time.Time // Last instant at which the session is valid
}

// Expired reports whether the session is no longer valid at now.
// A session is still valid at exactly ExpiresAt.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
