package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

func newTestInstance(t *testing.T) *Instance {
	t.Helper()
	tw := NewTimeWindow(0, 100)
	p, d := NewPickupDelivery(2, 3, 0, 2, 3, []float64{4, 1}, 2, tw, tw)
	visits := []*NodeVisit{
		NewDepotVisit(0, 0, 0, 0, tw),
		NewRequestVisit(1, 1, 1, 1, 1, []float64{2, 3}, 1, NewTimeWindow(5, 10)),
		p,
		d,
	}
	fleet := NewHomogeneousFleet(2, NewVehicle(0, "van", 10, 2, 1, 20, 5))
	inst, err := NewInstance(visits, fleet)
	require.NoError(t, err)
	return inst
}

func TestInstanceSlots(t *testing.T) {
	inst := newTestInstance(t)

	assert.Equal(t, 3, inst.MaxID())
	assert.Equal(t, 4, inst.OriginalIDSpan())
	assert.Equal(t, 8, inst.SlotCount())
	assert.Equal(t, 4, inst.DepotDuplicateID(0))

	testCases := []struct {
		name     string
		slot     int
		wantID   int
		wantNil  bool
		original int
	}{
		{name: "depot", slot: 0, wantID: 0, original: 0},
		{name: "request", slot: 1, wantID: 1, original: 1},
		{name: "depot duplicate", slot: 4, wantID: 0, original: 0},
		{name: "duplicate of a request is empty", slot: 5, wantNil: true, original: 1},
		{name: "out of range", slot: 8, wantNil: true, original: 4},
		{name: "negative", slot: -1, wantNil: true, original: -1},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			n := inst.ResolveSlot(tt.slot)
			if tt.wantNil {
				assert.Nil(t, n)
			} else {
				require.NotNil(t, n)
				assert.Equal(t, tt.wantID, n.GetID())
			}
			assert.Equal(t, tt.original, inst.OriginalID(tt.slot))
		})
	}

	assert.Len(t, inst.GetDepots(), 1)
	assert.Len(t, inst.GetRequests(), 3)
	assert.Len(t, inst.GetNodeVisits(), 4)
	assert.Nil(t, inst.GetNodeVisit(7))
}

func TestInstanceRejectsBadIDs(t *testing.T) {
	tw := NewTimeWindow(0, 100)
	_, err := NewInstance([]*NodeVisit{NewDepotVisit(0, 0, 0, 0, tw), NewDepotVisit(0, 1, 0, 0, tw)}, nil)
	assert.ErrorIs(t, err, util.ErrDuplicateNode)

	_, err = NewInstance([]*NodeVisit{NewDepotVisit(-2, 0, 0, 0, tw)}, nil)
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestNodeVisit(t *testing.T) {
	inst := newTestInstance(t)
	depot := inst.GetNodeVisit(0)
	assert.True(t, depot.IsDepot())
	assert.True(t, depot.IsFixed())
	assert.Equal(t, 0.0, depot.GetDemand(0))
	assert.Equal(t, pkg.UNDEFINED, depot.GetRequestID())

	req := inst.GetNodeVisit(1)
	assert.Equal(t, 3.0, req.GetDemand(1))
	assert.Equal(t, 0.0, req.GetDemand(5))
	assert.True(t, req.GetTimeWindow().Contains(7))
	assert.False(t, req.GetTimeWindow().Contains(11))
	assert.Equal(t, 5.0, req.GetTimeWindow().Width())
	demands := req.GetDemands()
	demands[0] = 100
	assert.Equal(t, 2.0, req.GetDemand(0))

	req.Fix()
	assert.True(t, req.IsFixed())
	req.Free()
	assert.False(t, req.IsFixed())

	pickup, delivery := inst.GetNodeVisit(2), inst.GetNodeVisit(3)
	assert.True(t, pickup.IsPickup())
	assert.False(t, delivery.IsPickup())
	assert.Equal(t, []int{3}, pickup.GetSuccessors())
	assert.Equal(t, []int{2}, delivery.GetPredecessors())
	assert.Equal(t, "P2[r:0]", pickup.String())
	assert.Equal(t, "D3[r:0]", delivery.String())

	dup := depot.DuplicateDepot(9)
	assert.Equal(t, 9, dup.GetID())
	assert.Equal(t, 0, depot.GetID())
	assert.True(t, dup.IsDepot())
	assert.Equal(t, 0, dup.GetOriginalID())
	assert.True(t, dup.IsDuplicate())
	assert.False(t, depot.IsDuplicate())
	assert.Equal(t, 0, dup.DuplicateDepot(12).GetOriginalID())

	_, err := NewInstance([]*NodeVisit{depot, dup}, inst.GetFleet())
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}

func TestFleet(t *testing.T) {
	base := NewVehicle(0, "van", 10, 2, 0, 20, 5)
	assert.Equal(t, 1.0, base.GetSpeed())

	homogeneous := NewHomogeneousFleet(3, base)
	assert.True(t, homogeneous.IsHomogeneous())
	assert.Equal(t, 3, homogeneous.Size())
	assert.Equal(t, 2, homogeneous.GetVehicle(2).GetID())
	assert.Equal(t, 5.0, homogeneous.GetVehicle(2).GetCapacity(1))

	unlimited := NewUnlimitedFleet(base)
	assert.True(t, unlimited.IsUnlimited())
	assert.Same(t, base, unlimited.GetVehicle(42))

	_, err := NewHeterogeneousFleet([]*Vehicle{NewVehicle(1, "a", 0, 1, 1, 1), NewVehicle(1, "b", 0, 1, 1, 1)})
	assert.Error(t, err)
	fleet, err := NewHeterogeneousFleet([]*Vehicle{NewVehicle(1, "b", 0, 1, 1, 2), NewVehicle(0, "a", 0, 1, 1, 1)})
	require.NoError(t, err)
	assert.Equal(t, "a", fleet.GetVehicle(0).GetName())
	assert.False(t, fleet.IsHomogeneous())
}
