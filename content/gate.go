package content

import (
	"time"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

// Gate decides which content a given clearance level may see. It never learns
// who the caller is; the façade resolves the session and passes the level in.
type Gate struct {
	repo    Repo
	nowTime func() time.Time
}

type GateOption func(*Gate)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) GateOption {
	return func(g *Gate) {
		g.nowTime = nowFunc
	}
}

func NewGate(repo Repo, options ...GateOption) *Gate {
	g := &Gate{
		repo:    repo,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Publish stores or replaces an item. The required level is clamped to 1..5.
func (g *Gate) Publish(id, payload string, requiredLevel int) error {
	if err := ValidateID(id); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}
	if _, err := g.repo.Upsert(Item{
		ID:            id,
		Payload:       payload,
		RequiredLevel: ClampLevel(requiredLevel),
		Created:       g.nowTime().UTC(),
	}); err != nil {
		return errors.Wrap(err, "[Gate.Publish] store item")
	}
	return nil
}

// Exists reports whether an item with id has been published. It is for
// administrative callers only; clearance-checked paths use Reveal.
func (g *Gate) Exists(id string) bool {
	_, err := g.repo.Get(id)
	return err == nil
}

// ListVisible returns metadata for every item clearance may see, in insertion order.
func (g *Gate) ListVisible(clearance int) []Summary {
	visible := make([]Summary, 0)
	for _, item := range g.repo.List() {
		if item.VisibleTo(clearance) {
			visible = append(visible, item.Summary())
		}
	}
	return visible
}

// ListMatching is ListVisible restricted to ids matching a glob pattern such as "LUX_*".
func (g *Gate) ListMatching(clearance int, pattern string) ([]Summary, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidPattern, "%q: %v", pattern, err)
	}

	matching := make([]Summary, 0)
	for _, summary := range g.ListVisible(clearance) {
		if matcher.Match(summary.ID) {
			matching = append(matching, summary)
		}
	}
	return matching, nil
}

// Reveal returns the payload of id if clearance is high enough. A missing item
// and an item above the caller's clearance both return false.
func (g *Gate) Reveal(id string, clearance int) (string, bool) {
	item, err := g.repo.Get(id)
	if err != nil || !item.VisibleTo(clearance) {
		return "", false
	}
	return item.Payload, true
}
