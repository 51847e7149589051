package flow_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-aletheia/flow"
	apperrors "github.com/jrsteele09/go-aletheia/internal/errors"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func testDistricts() []flow.District {
	return []flow.District{
		{ID: "alpha", Name: "Home Alpha", Alignment: 0.87, Status: flow.StatusActive},
		{ID: "beta", Name: "Beta Sector", Alignment: 0.73, Status: flow.StatusActive},
		{ID: "gamma", Name: "Gamma Quadrant", Alignment: 0.65, Status: flow.StatusSyncing},
		{ID: "delta", Name: "Delta Zone", Alignment: 0.92, Status: flow.StatusActive},
	}
}

func testEvents() []flow.Event {
	return []flow.Event{
		{ID: "LUX_TRUTH_01", Name: "Lux Upload Complete", Status: flow.StatusPending},
		{ID: "LUX_TRUTH_04", Name: "Flow Realignment Complete", Status: flow.StatusActive},
	}
}

func setupMapper(t *testing.T) *flow.Mapper {
	t.Helper()
	m := flow.NewMapper(flow.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, m.Load(testDistricts(), testEvents()))
	return m
}

func TestMapper_Load(t *testing.T) {
	t.Run("keeps order", func(t *testing.T) {
		m := setupMapper(t)
		if diff := cmp.Diff(testDistricts(), m.Districts()); diff != "" {
			t.Errorf("districts mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(testEvents(), m.Events()); diff != "" {
			t.Errorf("events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects invalid records", func(t *testing.T) {
		for name, districts := range map[string][]flow.District{
			"missing id":        {{Name: "X", Alignment: 0.5, Status: flow.StatusActive}},
			"missing name":      {{ID: "x", Alignment: 0.5, Status: flow.StatusActive}},
			"alignment above 1": {{ID: "x", Name: "X", Alignment: 1.5, Status: flow.StatusActive}},
			"negative":          {{ID: "x", Name: "X", Alignment: -0.1, Status: flow.StatusActive}},
			"missing status":    {{ID: "x", Name: "X", Alignment: 0.5}},
			"duplicate name": {
				{ID: "x", Name: "Home", Alignment: 0.5, Status: flow.StatusActive},
				{ID: "y", Name: "HOME", Alignment: 0.5, Status: flow.StatusActive},
			},
		} {
			t.Run(name, func(t *testing.T) {
				m := setupMapper(t)
				require.ErrorIs(t, m.Load(districts, nil), apperrors.ErrInvalidRequest)
				require.Len(t, m.Districts(), 4, "failed load must not change state")
			})
		}

		m := setupMapper(t)
		duplicate := []flow.Event{{ID: "E", Name: "one", Status: flow.StatusActive}, {ID: "E", Name: "two", Status: flow.StatusActive}}
		require.ErrorIs(t, m.Load(nil, duplicate), apperrors.ErrInvalidRequest)
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		m := setupMapper(t)
		m.Districts()[0].Name = "changed"
		m.Events()[0].Status = "changed"
		require.Equal(t, "Home Alpha", m.Districts()[0].Name)
		require.Equal(t, flow.StatusPending, m.Events()[0].Status)
	})
}

func TestMapper_OverallAlignment(t *testing.T) {
	require.Equal(t, 0.0, flow.NewMapper().OverallAlignment())

	m := setupMapper(t)
	require.Equal(t, 0.79, m.OverallAlignment())

	require.NoError(t, m.Load([]flow.District{
		{ID: "a", Name: "A", Alignment: 0.5, Status: flow.StatusActive},
		{ID: "b", Name: "B", Alignment: 1, Status: flow.StatusActive},
	}, nil))
	require.Equal(t, 0.75, m.OverallAlignment())
}

func TestMapper_Map(t *testing.T) {
	m := setupMapper(t)

	snapshot := m.Map()
	require.Empty(t, snapshot.Nodes)
	require.NotNil(t, snapshot.Nodes)
	require.Nil(t, snapshot.LastUpdated)
	require.Len(t, snapshot.Districts, 4)
	require.Equal(t, 0.79, snapshot.OverallAlignment)

	_, err := m.UpdateNode("sentinel-002", "listening")
	require.NoError(t, err)
	node, err := m.UpdateNode("sentinel-001", "  awake ")
	require.NoError(t, err)
	require.Equal(t, flow.Node{ID: "sentinel-001", State: "awake", Updated: testNow}, node)

	snapshot = m.Map()
	require.Equal(t, []flow.Node{
		{ID: "sentinel-001", State: "awake", Updated: testNow},
		{ID: "sentinel-002", State: "listening", Updated: testNow},
	}, snapshot.Nodes)
	require.NotNil(t, snapshot.LastUpdated)
	require.Equal(t, testNow, *snapshot.LastUpdated)
}

func TestMapper_UpdateNodeValidation(t *testing.T) {
	m := setupMapper(t)
	for _, tt := range []struct{ id, state string }{
		{"", "awake"},
		{"has space", "awake"},
		{"a/b", "awake"},
		{"node", "   "},
	} {
		_, err := m.UpdateNode(tt.id, tt.state)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest, "id %q state %q", tt.id, tt.state)
	}
	require.Empty(t, m.Map().Nodes)
}

func TestMapper_Resonate(t *testing.T) {
	m := setupMapper(t)

	t.Run("matches name ignoring case", func(t *testing.T) {
		for _, name := range []string{"Home Alpha", "home alpha", "  HOME ALPHA  "} {
			r, err := m.Resonate(name)
			require.NoError(t, err)
			require.Equal(t, flow.Resonance{
				District:        testDistricts()[0],
				Message:         "Confirmed: Home Alpha synced.",
				ActivationEvent: flow.ResonanceEvent,
				FlowRealignment: "87%",
			}, r)
		}
	})

	t.Run("percent is rounded", func(t *testing.T) {
		require.NoError(t, m.Load([]flow.District{{ID: "e", Name: "Epsilon", Alignment: 0.29, Status: flow.StatusActive}}, nil))
		r, err := m.Resonate("epsilon")
		require.NoError(t, err)
		require.Equal(t, "29%", r.FlowRealignment)
	})

	t.Run("unknown district", func(t *testing.T) {
		_, err := m.Resonate("alpha")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Contains(t, err.Error(), `district "alpha" not found or not aligned`)
	})
}
