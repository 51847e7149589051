// Package filecredentialrepo keeps credentials in memory and mirrors every
// change to a JSON document keyed by user id.
package filecredentialrepo

import (
	"maps"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/credentials"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
	"github.com/jrsteele09/go-aletheia/internal/jsonfile"
)

var _ credentials.Repo = (*FileCredentialRepo)(nil)

type FileCredentialRepo struct {
	path        string
	credentials map[string]credentials.Credential
	lock        sync.RWMutex
}

type Option func(*options)

type options struct {
	recoverCorrupt bool
}

// WithRecoverCorrupt starts from an empty table, instead of failing, when the
// document on disk cannot be read.
func WithRecoverCorrupt(recoverCorrupt bool) Option {
	return func(o *options) {
		o.recoverCorrupt = recoverCorrupt
	}
}

// New loads the credentials document at path.
func New(path string, opts ...Option) (*FileCredentialRepo, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	stored, err := load(path)
	if err != nil {
		if !o.recoverCorrupt || !apperrors.Is(err, apperrors.ErrCorruptState) {
			return nil, err
		}
		log.Warn().Err(err).Str("path", path).Msg("Credential store unreadable, starting empty")
		stored = make(map[string]credentials.Credential)
	}

	return &FileCredentialRepo{
		path:        path,
		credentials: stored,
	}, nil
}

func load(path string) (map[string]credentials.Credential, error) {
	stored := make(map[string]credentials.Credential)
	if _, err := jsonfile.Load(path, &stored); err != nil {
		return nil, err
	}
	if stored == nil {
		stored = make(map[string]credentials.Credential)
	}
	for userID, c := range stored {
		if err := c.Validate(); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "[filecredentialrepo] %s: %v", path, err)
		}
		if userID != c.UserID {
			return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "[filecredentialrepo] %s: key %q holds record for %q", path, userID, c.UserID)
		}
	}
	return stored, nil
}

// commit persists next and only then makes it the live table. Callers hold the write lock.
func (cr *FileCredentialRepo) commit(next map[string]credentials.Credential) error {
	if err := jsonfile.Save(cr.path, next); err != nil {
		return err
	}
	cr.credentials = next
	return nil
}

func (cr *FileCredentialRepo) Upsert(c credentials.Credential) error {
	if err := c.Validate(); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()

	next := maps.Clone(cr.credentials)
	next[c.UserID] = c
	return cr.commit(next)
}

func (cr *FileCredentialRepo) Get(userID string) (credentials.Credential, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	c, ok := cr.credentials[userID]
	if !ok {
		return credentials.Credential{}, apperrors.ErrNotFound
	}
	return c, nil
}

func (cr *FileCredentialRepo) SetActive(userID string, active bool) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	c, ok := cr.credentials[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Active = active

	next := maps.Clone(cr.credentials)
	next[userID] = c
	return cr.commit(next)
}

func (cr *FileCredentialRepo) List() ([]credentials.Credential, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]credentials.Credential, 0, len(cr.credentials))
	for _, c := range cr.credentials {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UserID < list[j].UserID
	})
	return list, nil
}
