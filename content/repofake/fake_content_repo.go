package fakecontentrepo

import (
	"sync"

	"github.com/jrsteele09/go-aletheia/content"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

var _ content.Repo = (*FakeContentRepo)(nil)

type FakeContentRepo struct {
	items   map[string]content.Item
	order   []string
	nextSeq int
	lock    sync.RWMutex
}

func NewFakeContentRepo() *FakeContentRepo {
	return &FakeContentRepo{
		items: make(map[string]content.Item),
	}
}

func (cr *FakeContentRepo) Upsert(item content.Item) (content.Item, error) {
	if err := item.Validate(); err != nil {
		return content.Item{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()

	if existing, ok := cr.items[item.ID]; ok {
		item.Seq = existing.Seq
	} else {
		item.Seq = cr.nextSeq
		cr.nextSeq++
		cr.order = append(cr.order, item.ID)
	}
	cr.items[item.ID] = item
	return item, nil
}

func (cr *FakeContentRepo) Get(id string) (content.Item, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	item, ok := cr.items[id]
	if !ok {
		return content.Item{}, apperrors.ErrNotFound
	}
	return item, nil
}

func (cr *FakeContentRepo) List() []content.Item {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]content.Item, 0, len(cr.order))
	for _, id := range cr.order {
		list = append(list, cr.items[id])
	}
	return list
}
