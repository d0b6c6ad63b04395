package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lintang-b-s/vrptour/pkg/util"
)

func TestCheckRoute(t *testing.T) {
	f := newTestFixture(t)

	testCases := []struct {
		name         string
		ids          []int
		corrupt      func(r Route)
		startAtDepot bool
		endAtDepot   bool
		errCount     int
	}{
		{name: "consistent", ids: []int{0, 1, 2, 0}, corrupt: func(r Route) {}, startAtDepot: true, endAtDepot: true},
		{name: "empty route", ids: nil, corrupt: func(r Route) {}, startAtDepot: true, endAtDepot: true},
		{name: "wrong cost", ids: []int{0, 1, 2}, corrupt: func(r Route) { r.UpdateCost(5) }, errCount: 1},
		{name: "wrong cost and load", ids: []int{0, 1, 2}, corrupt: func(r Route) {
			r.UpdateCost(-1)
			r.UpdateLoad(1, 2)
		}, errCount: 2},
		{name: "missing depots", ids: []int{1, 2}, corrupt: func(r Route) {}, startAtDepot: true, endAtDepot: true,
			errCount: 2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			r := NewArrayRoute(f.vehicle, f.costFn)
			require.NoError(t, r.AppendNodes(f.nodes(tt.ids...)))
			tt.corrupt(r)

			err := CheckRoute(r, false, tt.startAtDepot, tt.endAtDepot)
			if tt.errCount == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, util.ErrStructuralInconsistency)
			assert.Len(t, multierr.Errors(err), tt.errCount)
		})
	}
}

func TestCheckRouteAutoRepair(t *testing.T) {
	f := newTestFixture(t)
	r := NewDoublyLinkedRoute(f.inst, f.vehicle, f.costFn)
	require.NoError(t, r.AppendNodes(f.nodes(0, 3, 4, 0)))
	r.UpdateCost(12)
	r.UpdateLoad(0, -3)

	assert.Error(t, CheckRoute(r, true, true, true))
	assert.InDelta(t, f.pathCost(0, 3, 4, 0), r.GetCost(), 1e-9)
	assert.Equal(t, []float64{7, 2}, r.GetLoads())
	assert.NoError(t, CheckRoute(r, false, true, true))
}

func TestCheckingRouteCostDelegate(t *testing.T) {
	f := newTestFixture(t)
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			before := logs.Len()
			require.NoError(t, r.SetCostDelegate(NewCheckingRouteCostDelegate(NewDefaultRouteCostDelegate(f.costFn),
				log, true)))
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 0)))
			require.NoError(t, r.SwapNodes(1, 3))
			require.NoError(t, r.ReverseSubRoute(1, 3))
			_, err := r.ExtractNode(2)
			require.NoError(t, err)
			assert.Equal(t, before, logs.Len())

			r.UpdateCost(3)
			require.NoError(t, r.InsertNode(2, f.node(5)))
			require.Equal(t, before+1, logs.Len())
			entry := logs.All()[before]
			assert.Equal(t, "route check failed", entry.Message)
			assert.Equal(t, "NodeInserted", entry.ContextMap()["hook"])

			// the checker repaired the route
			assert.NoError(t, CheckRoute(r, false, true, true))
		})
	}
}

func TestCheckingRouteCostDelegateWithoutLogger(t *testing.T) {
	f := newTestFixture(t)
	r := NewArrayRoute(f.vehicle, f.costFn)
	require.NoError(t, r.SetCostDelegate(NewCheckingRouteCostDelegate(NewDefaultRouteCostDelegate(f.costFn), nil,
		true)))
	require.NoError(t, r.AppendNodes(f.nodes(0, 1, 0)))

	r.UpdateCost(3)
	assert.NotPanics(t, func() { require.NoError(t, r.InsertNode(2, f.node(2))) })
	assert.NoError(t, CheckRoute(r, false, true, true))
}
