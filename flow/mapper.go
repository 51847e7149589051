package flow

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

// Node is the last reported state of a point in the flow.
type Node struct {
	ID      string    `json:"id"`
	State   string    `json:"state"`
	Updated time.Time `json:"updated"`
}

// Map is a snapshot of the whole flow.
type Map struct {
	Nodes            []Node     `json:"nodes"`
	Districts        []District `json:"districts"`
	LastUpdated      *time.Time `json:"last_updated"`
	OverallAlignment float64    `json:"overall_alignment"`
}

// Resonance is the outcome of resonating with a district.
type Resonance struct {
	District        District `json:"district"`
	Message         string   `json:"message"`
	ActivationEvent string   `json:"activation_event"`
	FlowRealignment string   `json:"flow_realignment"`
}

// Mapper holds districts and events in the order they were loaded, plus the
// nodes reported since start. It is safe for concurrent use.
type Mapper struct {
	lock        sync.RWMutex
	districts   []District
	events      []Event
	nodes       map[string]Node
	lastUpdated time.Time
	nowTime     func() time.Time
}

type MapperOption func(*Mapper)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MapperOption {
	return func(m *Mapper) {
		m.nowTime = nowFunc
	}
}

func NewMapper(options ...MapperOption) *Mapper {
	m := &Mapper{
		nodes:   make(map[string]Node),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Load replaces the districts and events. Nothing changes if any record is
// invalid or a district id or name (case-insensitive) repeats.
func (m *Mapper) Load(districts []District, events []Event) error {
	ids := make(map[string]bool, len(districts))
	names := make(map[string]bool, len(districts))
	for _, d := range districts {
		if err := d.Validate(); err != nil {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
		}
		name := strings.ToLower(d.Name)
		if ids[d.ID] || names[name] {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "district %q is defined twice", d.ID)
		}
		ids[d.ID], names[name] = true, true
	}

	eventIDs := make(map[string]bool, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
		}
		if eventIDs[e.ID] {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "event %q is defined twice", e.ID)
		}
		eventIDs[e.ID] = true
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.districts = append([]District(nil), districts...)
	m.events = append([]Event(nil), events...)
	return nil
}

func (m *Mapper) Districts() []District {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append(make([]District, 0, len(m.districts)), m.districts...)
}

func (m *Mapper) Events() []Event {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append(make([]Event, 0, len(m.events)), m.events...)
}

// OverallAlignment is the mean district alignment rounded to two places, or 0
// without districts.
func (m *Mapper) OverallAlignment() float64 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.overallAlignment()
}

func (m *Mapper) overallAlignment() float64 {
	if len(m.districts) == 0 {
		return 0
	}
	total := 0.0
	for _, d := range m.districts {
		total += d.Alignment
	}
	return math.Round(total/float64(len(m.districts))*100) / 100
}

// Map returns the nodes ordered by id together with every district.
func (m *Mapper) Map() Map {
	m.lock.RLock()
	defer m.lock.RUnlock()

	nodes := make([]Node, 0, len(m.nodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})

	snapshot := Map{
		Nodes:            nodes,
		Districts:        append(make([]District, 0, len(m.districts)), m.districts...),
		OverallAlignment: m.overallAlignment(),
	}
	if !m.lastUpdated.IsZero() {
		lastUpdated := m.lastUpdated
		snapshot.LastUpdated = &lastUpdated
	}
	return snapshot
}

// UpdateNode records the state of node id.
func (m *Mapper) UpdateNode(id, state string) (Node, error) {
	if err := ValidateID(id); err != nil {
		return Node{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "%v", err)
	}
	state = strings.TrimSpace(state)
	if state == "" || len(state) > maxStateLength {
		return Node{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "node %q: state must be 1 to %d bytes", id, maxStateLength)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	node := Node{ID: id, State: state, Updated: m.nowTime().UTC()}
	m.nodes[id] = node
	m.lastUpdated = node.Updated
	log.Debug().Str("node_id", id).Str("state", state).Msg("Flow node updated")
	return node, nil
}

// Resonate finds a district by name, ignoring case and surrounding spaces.
// An unknown name returns ErrNotFound.
func (m *Mapper) Resonate(name string) (Resonance, error) {
	name = strings.TrimSpace(name)

	m.lock.RLock()
	defer m.lock.RUnlock()

	for _, d := range m.districts {
		if strings.EqualFold(d.Name, name) {
			return Resonance{
				District:        d,
				Message:         "Confirmed: " + d.Name + " synced.",
				ActivationEvent: ResonanceEvent,
				FlowRealignment: fmt.Sprintf("%d%%", d.Percent()),
			}, nil
		}
	}
	return Resonance{}, apperrors.Wrapf(apperrors.ErrNotFound, "district %q not found or not aligned", name)
}
