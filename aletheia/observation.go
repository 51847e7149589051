package aletheia

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

const (
	defaultObservationCapacity = 1024
	maxObservationLength       = 4096
)

// Observation is a note submitted by an authenticated user.
type Observation struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Text     string    `json:"observation"`
	Received time.Time `json:"received"`
}

// observationLog keeps the most recent observations in memory. The oldest
// entry is dropped once capacity is reached.
type observationLog struct {
	entries  []Observation
	capacity int
	lock     sync.Mutex
}

func newObservationLog(capacity int) *observationLog {
	if capacity <= 0 {
		capacity = defaultObservationCapacity
	}
	return &observationLog{capacity: capacity}
}

func (l *observationLog) add(userID, text string, received time.Time) (Observation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Observation{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "observation is empty")
	}
	if len(text) > maxObservationLength {
		return Observation{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "observation exceeds %d bytes", maxObservationLength)
	}

	obs := Observation{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     text,
		Received: received,
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.entries) == l.capacity {
		l.entries = append(l.entries[:0], l.entries[1:]...)
	}
	l.entries = append(l.entries, obs)
	return obs, nil
}

func (l *observationLog) byUser(userID string) []Observation {
	l.lock.Lock()
	defer l.lock.Unlock()

	list := make([]Observation, 0)
	for _, obs := range l.entries {
		if obs.UserID == userID {
			list = append(list, obs)
		}
	}
	return list
}
