package fakesessionrepo

import (
	"sync"
	"time"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
	"github.com/jrsteele09/go-aletheia/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]sessions.Session
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]sessions.Session),
	}
}

func (sr *FakeSessionRepo) Upsert(session sessions.Session) error {
	if session.Token == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "session token is required")
	}

	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.sessions[session.Token] = session
	return nil
}

func (sr *FakeSessionRepo) Get(token string) (sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.sessions[token]
	if !ok {
		return sessions.Session{}, apperrors.ErrNotFound
	}
	return session, nil
}

func (sr *FakeSessionRepo) Delete(token string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.sessions, token)
	return nil
}

func (sr *FakeSessionRepo) DeleteByUser(userID string) (int, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	removed := 0
	for token, session := range sr.sessions {
		if session.UserID == userID {
			delete(sr.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (sr *FakeSessionRepo) DeleteExpiredSessions(now time.Time) (int, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	removed := 0
	for token, session := range sr.sessions {
		if session.Expired(now) {
			delete(sr.sessions, token)
			removed++
		}
	}
	return removed, nil
}
