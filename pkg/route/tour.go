package route

import (
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// tourStorage is a view over the links of one vehicle in a shared GiantPermutation.
// It only owns first, last and length: joining a node claims it for the vehicle, leaving it resets its data.
type tourStorage struct {
	slotStorage
	perm    *datastructure.GiantPermutation
	vehicle int
}

func newTourStorage(perm *datastructure.GiantPermutation, vehicle int) *tourStorage {
	s := &tourStorage{perm: perm, vehicle: vehicle}
	s.slotStorage = newSlotStorage(perm.GetInstance(), s)
	return s
}

func (s *tourStorage) strategy() pkg.Strategy {
	return pkg.GIANT_PERMUTATION
}

func (s *tourStorage) getPred(slot int) int {
	return s.perm.GetPred(slot)
}

func (s *tourStorage) setPred(slot, pred int) {
	s.perm.SetPred(slot, pred)
}

func (s *tourStorage) getSucc(slot int) int {
	return s.perm.GetSucc(slot)
}

func (s *tourStorage) setSucc(slot, succ int) {
	s.perm.SetSucc(slot, succ)
}

func (s *tourStorage) isMember(slot int) bool {
	return s.perm.GetVisitingVehicle(slot) == s.vehicle
}

func (s *tourStorage) canClaim(slot int) error {
	if s.inst.ResolveSlot(slot) == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "slot %d does not hold a node of the instance", slot)
	}
	owner := s.perm.GetVisitingVehicle(slot)
	if owner != pkg.UNDEFINED && owner != s.vehicle {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"node %d is already visited by vehicle %d, it cannot join the tour of vehicle %d", slot, owner, s.vehicle)
	}
	return nil
}

func (s *tourStorage) claim(slot int, node *datastructure.NodeVisit) {
	err := s.perm.SetVisitingVehicle(slot, s.vehicle)
	util.AssertPanic(err == nil, "tour: claiming a node owned by another vehicle")
}

func (s *tourStorage) release(slot int) {
	s.perm.ResetNodeData(slot)
}

func (s *tourStorage) resolve(slot int) *datastructure.NodeVisit {
	return s.inst.ResolveSlot(slot)
}

func (s *tourStorage) clone() storage {
	return &arrayStorage{nodes: s.sequence()}
}

func (s *tourStorage) empty() storage {
	return newArrayStorage(0)
}

/*
Tour is the route of one vehicle stored in the GiantPermutation shared by a whole solution.
Ids used by the tour specific methods are slots: the node id, or the depot duplicate id for the second
occurrence of a depot.
*/
type Tour struct {
	*Engine
	ts          *tourStorage
	autoUpdated bool
}

func NewTour(perm *datastructure.GiantPermutation, vehicle *datastructure.Vehicle,
	costFn costfunction.CostFunction) *Tour {
	ts := newTourStorage(perm, vehicle.GetID())
	t := &Tour{
		Engine: newEngine(vehicle, costFn, ts),
		ts:     ts,
	}
	t.self = t
	return t
}

// CloneOnto binds a copy of the tour to perm, which must hold a copy of the links of this tour.
func (t *Tour) CloneOnto(perm *datastructure.GiantPermutation) *Tour {
	ts := newTourStorage(perm, t.ts.vehicle)
	ts.first = t.ts.first
	ts.last = t.ts.last
	ts.length = t.ts.length
	c := &Tour{
		Engine:      t.Engine.cloneWith(ts),
		ts:          ts,
		autoUpdated: t.autoUpdated,
	}
	c.self = c
	if c.autoUpdated {
		c.onEdit = c.UpdateTimeInformation
	}
	return c
}

func (t *Tour) GetPermutation() *datastructure.GiantPermutation {
	return t.ts.perm
}

func (t *Tour) GetVehicleID() int {
	return t.ts.vehicle
}

// GetFirstSlot is UNDEFINED for an empty tour.
func (t *Tour) GetFirstSlot() int {
	return t.ts.first
}

func (t *Tour) GetLastSlot() int {
	return t.ts.last
}

func (t *Tour) GetPred(slot int) int {
	return t.ts.perm.GetPred(slot)
}

func (t *Tour) GetSucc(slot int) int {
	return t.ts.perm.GetSucc(slot)
}

// GetSlots returns the slots of the tour in visiting order.
func (t *Tour) GetSlots() []int {
	return t.ts.slots()
}

// GetSlotsFrom returns slot and its successors up to the end of the tour.
func (t *Tour) GetSlotsFrom(slot int) []int {
	slots := make([]int, 0)
	for ; slot != pkg.UNDEFINED; slot = t.ts.perm.GetSucc(slot) {
		slots = append(slots, slot)
	}
	return slots
}

// ContainsSlot reports whether the slot is owned by this tour.
func (t *Tour) ContainsSlot(slot int) bool {
	return t.ts.perm.IsValidNode(slot) && t.ts.isMember(slot)
}

// Clear removes every node from the tour, releasing them in the permutation.
func (t *Tour) Clear() {
	t.Engine.clear()
	t.edited()
}

// SetAutoUpdated makes every structural edit refresh the time information of the tour.
func (t *Tour) SetAutoUpdated(autoUpdated bool) {
	t.autoUpdated = autoUpdated
	if autoUpdated {
		t.onEdit = t.UpdateTimeInformation
		t.UpdateTimeInformation()
	} else {
		t.onEdit = nil
	}
}

func (t *Tour) IsAutoUpdated() bool {
	return t.autoUpdated
}
