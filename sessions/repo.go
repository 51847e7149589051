package sessions

import "time"

// Repo defines the interface for session storage operations.
type Repo interface {
	// Upsert creates or replaces a session keyed by its token
	Upsert(session Session) error

	// Get retrieves a session by token, or errors.ErrNotFound
	Get(token string) (Session, error)

	// Delete removes a session by token. Deleting an unknown token is not an error.
	Delete(token string) error

	// DeleteByUser removes every session owned by userID and returns how many were dropped
	DeleteByUser(userID string) (int, error)

	// DeleteExpiredSessions removes sessions that expired before now
	DeleteExpiredSessions(now time.Time) (int, error)
}
