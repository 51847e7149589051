package fakecredentialrepo

import (
	"sort"
	"sync"

	"github.com/jrsteele09/go-aletheia/credentials"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

var _ credentials.Repo = (*FakeCredentialRepo)(nil)

type FakeCredentialRepo struct {
	credentials map[string]credentials.Credential
	lock        sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{
		credentials: make(map[string]credentials.Credential),
	}
}

func (cr *FakeCredentialRepo) Upsert(c credentials.Credential) error {
	if err := c.Validate(); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()

	cr.credentials[c.UserID] = c
	return nil
}

func (cr *FakeCredentialRepo) Get(userID string) (credentials.Credential, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	c, ok := cr.credentials[userID]
	if !ok {
		return credentials.Credential{}, apperrors.ErrNotFound
	}
	return c, nil
}

func (cr *FakeCredentialRepo) SetActive(userID string, active bool) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	c, ok := cr.credentials[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Active = active
	cr.credentials[userID] = c
	return nil
}

func (cr *FakeCredentialRepo) List() ([]credentials.Credential, error) {
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
