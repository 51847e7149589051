// Package filecontentrepo keeps content items in memory and mirrors every
// change to a JSON document keyed by item id.
package filecontentrepo

import (
	"maps"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-aletheia/content"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
	"github.com/jrsteele09/go-aletheia/internal/jsonfile"
)

var _ content.Repo = (*FileContentRepo)(nil)

type FileContentRepo struct {
	path    string
	items   map[string]content.Item
	nextSeq int
	lock    sync.RWMutex
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

// New loads the content document at path.
func New(path string, opts ...Option) (*FileContentRepo, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	items, err := load(path)
	if err != nil {
		if !o.recoverCorrupt || !apperrors.Is(err, apperrors.ErrCorruptState) {
			return nil, err
		}
		log.Warn().Err(err).Str("path", path).Msg("Content store unreadable, starting empty")
		items = make(map[string]content.Item)
	}

	nextSeq := 0
	for _, item := range items {
		if item.Seq >= nextSeq {
			nextSeq = item.Seq + 1
		}
	}

	return &FileContentRepo{
		path:    path,
		items:   items,
		nextSeq: nextSeq,
	}, nil
}

func load(path string) (map[string]content.Item, error) {
	items := make(map[string]content.Item)
	if _, err := jsonfile.Load(path, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make(map[string]content.Item)
	}
	for id, item := range items {
		if err := item.Validate(); err != nil {
			return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "[filecontentrepo] %s: %v", path, err)
		}
		if id != item.ID {
			return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "[filecontentrepo] %s: key %q holds item %q", path, id, item.ID)
		}
		if item.Seq < 0 {
			return nil, apperrors.Wrapf(apperrors.ErrCorruptState, "[filecontentrepo] %s: negative seq for %q", path, id)
		}
	}
	return items, nil
}

func (cr *FileContentRepo) Upsert(item content.Item) (content.Item, error) {
	if err := item.Validate(); err != nil {
		return content.Item{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}

	cr.lock.Lock()
	defer cr.lock.Unlock()

	nextSeq := cr.nextSeq
	if existing, ok := cr.items[item.ID]; ok {
		item.Seq = existing.Seq
	} else {
		item.Seq = nextSeq
		nextSeq++
	}

	next := maps.Clone(cr.items)
	next[item.ID] = item
	if err := jsonfile.Save(cr.path, next); err != nil {
		return content.Item{}, err
	}

	cr.items = next
	cr.nextSeq = nextSeq
	return item, nil
}

func (cr *FileContentRepo) Get(id string) (content.Item, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	item, ok := cr.items[id]
	if !ok {
		return content.Item{}, apperrors.ErrNotFound
	}
	return item, nil
}

func (cr *FileContentRepo) List() []content.Item {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]content.Item, 0, len(cr.items))
	for _, item := range cr.items {
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Seq != list[j].Seq {
			return list[i].Seq < list[j].Seq
		}
		return list[i].ID < list[j].ID
	})
	return list
}
