package datastructure

import (
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// Instance is the node-visit registry of one problem: every visit indexed by id, plus the fleet.
// Slots [0, span) hold original ids, slots [span, 2*span) hold depot duplicates.
type Instance struct {
	nodes  []*NodeVisit // indexed by original id
	depots []*NodeVisit
	fleet  *Fleet
	span   int
}

func NewInstance(visits []*NodeVisit, fleet *Fleet) (*Instance, error) {
	maxID := pkg.UNDEFINED
	for _, v := range visits {
		if v.GetID() < 0 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "node visit id must be non negative, got %d", v.GetID())
		}
		if v.IsDuplicate() {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"depot duplicate %v cannot be registered, its slot is derived from depot %d", v, v.GetOriginalID())
		}
		maxID = util.MaxInt(maxID, v.GetID())
	}

	span := maxID + 1
	nodes := make([]*NodeVisit, span)
	depots := make([]*NodeVisit, 0)
	for _, v := range visits {
		if nodes[v.GetID()] != nil {
			return nil, util.WrapErrorf(nil, util.ErrDuplicateNode, "two node visits have the same id: %v and %v",
				nodes[v.GetID()], v)
		}
		nodes[v.GetID()] = v
		if v.IsDepot() {
			depots = append(depots, v)
		}
	}

	return &Instance{
		nodes:  nodes,
		depots: depots,
		fleet:  fleet,
		span:   span,
	}, nil
}

func (inst *Instance) GetFleet() *Fleet {
	return inst.fleet
}

// MaxID is the largest original node id.
func (inst *Instance) MaxID() int {
	return inst.span - 1
}

// OriginalIDSpan is the size of the original id space (MaxID()+1). It is the offset of depot duplicates.
func (inst *Instance) OriginalIDSpan() int {
	return inst.span
}

// SlotCount is the size of every id-indexed array: original ids followed by depot duplicates.
func (inst *Instance) SlotCount() int {
	return 2 * inst.span
}

func (inst *Instance) DepotDuplicateID(id int) int {
	return id + inst.span
}

func (inst *Instance) IsDuplicateSlot(slot int) bool {
	return slot >= inst.span
}

// OriginalID maps a slot back to the id of the node visit it holds.
func (inst *Instance) OriginalID(slot int) int {
	if slot >= inst.span {
		return slot - inst.span
	}
	return slot
}

// GetNodeVisit returns the visit with the given original id, nil when unknown.
func (inst *Instance) GetNodeVisit(id int) *NodeVisit {
	if id < 0 || id >= inst.span {
		return nil
	}
	return inst.nodes[id]
}

// ResolveSlot returns the visit stored in a slot, resolving depot duplicates. nil for an empty slot.
func (inst *Instance) ResolveSlot(slot int) *NodeVisit {
	if slot < 0 || slot >= inst.SlotCount() {
		return nil
	}
	n := inst.nodes[inst.OriginalID(slot)]
	if inst.IsDuplicateSlot(slot) && (n == nil || !n.IsDepot()) {
		return nil
	}
	return n
}

func (inst *Instance) GetNodeVisits() []*NodeVisit {
	visits := make([]*NodeVisit, 0, len(inst.nodes))
	for _, n := range inst.nodes {
		if n != nil {
			visits = append(visits, n)
		}
	}
	return visits
}

func (inst *Instance) GetDepots() []*NodeVisit {
	return inst.depots
}

// GetRequests returns the non-depot visits.
func (inst *Instance) GetRequests() []*NodeVisit {
	reqs := make([]*NodeVisit, 0, len(inst.nodes)-len(inst.depots))
	for _, n := range inst.nodes {
		if n != nil && !n.IsDepot() {
			reqs = append(reqs, n)
		}
	}
	return reqs
}
