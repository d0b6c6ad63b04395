package route

import (
	"math"

	"github.com/lintang-b-s/vrptour/pkg"
)

// UpdateTimeInformation recomputes the time windows state of every node of the tour.
func (t *Tour) UpdateTimeInformation() {
	t.PropagateUpdate(pkg.UNDEFINED, pkg.UNDEFINED)
}

/*
PropagateUpdate refreshes the derived node data stored in the permutation after an edit:
earliest arrival, cumulative cost, load and depot flags forward from fwdNode, latest feasible arrival backward
from bwdNode. UNDEFINED stands for the first (resp. last) node of the tour.
Waiting times and forward slack times are pairwise values and are always recomputed over the whole tour.

earliest(j) = max(tw.start(i), earliest(i)) + service(i) + travel(i, j), the first node arrives at tw.start
latest(i) = min(tw.end(i), latest(j) - service(i) - travel(i, j)), the last node at tw.end
waiting(i) = max(0, tw.start(i) - earliest(i))
W(i, j) = sum of waiting(p) for i < p < j
F(i, j+1) = min(F(i, j), tw.end(j+1) - earliest(j+1) + W(i, j+1)), F(i, i) = +Inf
*/
func (t *Tour) PropagateUpdate(fwdNode, bwdNode int) {
	if t.ts.length == 0 {
		return
	}
	if fwdNode == pkg.UNDEFINED {
		fwdNode = t.ts.first
	}
	if bwdNode == pkg.UNDEFINED {
		bwdNode = t.ts.last
	}
	t.propagateEarliestTime(fwdNode)
	t.propagateLatestFeasibleArrivalTime(bwdNode)
	t.propagateWaitingTime()
	t.propagateFwdSlackTime()
	t.propagateCumulativeCost(fwdNode)
	t.propagateCapacity(fwdNode)
	t.propagateDepotVisited(fwdNode)
}

func (t *Tour) travelTime(from, to int) float64 {
	return t.costFn.GetTravelTime(t.ts.resolve(from), t.ts.resolve(to), t.vehicle)
}

// GetEarliestDepartureTime is the earliest time service can end at slot.
func (t *Tour) GetEarliestDepartureTime(slot int) float64 {
	n := t.ts.resolve(slot)
	return math.Max(t.ts.perm.GetEarliestArrivalTime(slot), n.GetTimeWindow().GetStart()) + n.GetServiceTime()
}

func (t *Tour) GetEarliestArrivalTime(slot int) float64 {
	return t.ts.perm.GetEarliestArrivalTime(slot)
}

func (t *Tour) GetLatestFeasibleArrivalTime(slot int) float64 {
	return t.ts.perm.GetLatestFeasibleArrivalTime(slot)
}

func (t *Tour) GetWaitingTime(slot int) float64 {
	return t.ts.perm.GetWaitingTime(slot)
}

// GetFwdSlackTime is the delay slot can absorb without violating a time window up to the end of the tour.
func (t *Tour) GetFwdSlackTime(slot int) float64 {
	return t.ts.perm.GetFwdSlackTime(slot, t.ts.last)
}

func (t *Tour) GetCumulativeCost(slot int) float64 {
	return t.ts.perm.GetCumulativeCost(slot)
}

// GetLateness is how late the earliest arrival at slot is with respect to its time window.
func (t *Tour) GetLateness(slot int) float64 {
	n := t.ts.resolve(slot)
	return math.Max(0, t.ts.perm.GetEarliestArrivalTime(slot)-n.GetTimeWindow().GetEnd())
}

func (t *Tour) GetMaxLateness() float64 {
	lateness := 0.0
	for slot := t.ts.first; slot != pkg.UNDEFINED; slot = t.ts.perm.GetSucc(slot) {
		lateness = math.Max(lateness, t.GetLateness(slot))
	}
	return lateness
}

// IsTimeFeasible reports whether every node can be reached within its time window.
// The time information must be up to date, see UpdateTimeInformation and SetAutoUpdated.
func (t *Tour) IsTimeFeasible() bool {
	return t.GetMaxLateness() <= pkg.ZERO_TOLERANCE
}

func (t *Tour) propagateEarliestTime(node int) {
	perm := t.ts.perm
	for slot := node; slot != pkg.UNDEFINED; slot = perm.GetSucc(slot) {
		pred := perm.GetPred(slot)
		if pred == pkg.UNDEFINED {
			perm.SetEarliestArrivalTime(slot, t.ts.resolve(slot).GetTimeWindow().GetStart())
		} else {
			perm.SetEarliestArrivalTime(slot, t.GetEarliestDepartureTime(pred)+t.travelTime(pred, slot))
		}
	}
}

func (t *Tour) propagateLatestFeasibleArrivalTime(node int) {
	perm := t.ts.perm
	for slot := node; slot != pkg.UNDEFINED; slot = perm.GetPred(slot) {
		n := t.ts.resolve(slot)
		succ := perm.GetSucc(slot)
		if succ == pkg.UNDEFINED {
			perm.SetLatestFeasibleArrivalTime(slot, n.GetTimeWindow().GetEnd())
		} else {
			perm.SetLatestFeasibleArrivalTime(slot, math.Min(n.GetTimeWindow().GetEnd(),
				perm.GetLatestFeasibleArrivalTime(succ)-n.GetServiceTime()-t.travelTime(slot, succ)))
		}
	}
}

func (t *Tour) propagateWaitingTime() {
	perm := t.ts.perm
	slots := t.ts.slots()
	for _, slot := range slots {
		wait := t.ts.resolve(slot).GetTimeWindow().GetStart() - perm.GetEarliestArrivalTime(slot)
		perm.SetWaitingTime(slot, math.Max(0, wait))
	}
	if !perm.IsFwdSlackTimeDefined() {
		return
	}
	for a := range slots {
		cumWait := 0.0
		for b := a + 1; b < len(slots); b++ {
			perm.SetWaitingTimeBetween(slots[a], slots[b], cumWait)
			cumWait += perm.GetWaitingTime(slots[b])
		}
	}
}

func (t *Tour) propagateFwdSlackTime() {
	perm := t.ts.perm
	if !perm.IsFwdSlackTimeDefined() {
		return
	}
	slots := t.ts.slots()
	for a, i := range slots {
		slack := math.Inf(1)
		perm.SetFwdSlackTime(i, i, slack)
		for b := a + 1; b < len(slots); b++ {
			j := slots[b]
			slack = math.Min(slack, t.ts.resolve(j).GetTimeWindow().GetEnd()-perm.GetEarliestArrivalTime(j)+
				perm.GetWaitingTimeBetween(i, j))
			perm.SetFwdSlackTime(i, j, slack)
		}
	}
}

func (t *Tour) propagateCumulativeCost(node int) {
	perm := t.ts.perm
	for slot := node; slot != pkg.UNDEFINED; slot = perm.GetSucc(slot) {
		pred := perm.GetPred(slot)
		if pred == pkg.UNDEFINED {
			perm.SetCumulativeCost(slot, 0)
			continue
		}
		arc := t.costFn.GetCost(t.ts.resolve(pred), t.ts.resolve(slot), t.vehicle)
		perm.SetCumulativeCost(slot, perm.GetCumulativeCost(pred)+arc)
	}
}

// propagateCapacity stores the load of the vehicle when it leaves each node.
func (t *Tour) propagateCapacity(node int) {
	perm := t.ts.perm
	products := min(perm.GetCompartmentCount(), t.vehicle.GetCompartmentCount())
	for slot := node; slot != pkg.UNDEFINED; slot = perm.GetSucc(slot) {
		pred := perm.GetPred(slot)
		n := t.ts.resolve(slot)
		for p := 0; p < products; p++ {
			load := n.GetDemand(p)
			if pred != pkg.UNDEFINED {
				load += perm.GetCapacity(pred, p)
			}
			perm.SetCapacity(slot, p, load)
		}
	}
}

func (t *Tour) propagateDepotVisited(node int) {
	perm := t.ts.perm
	for slot := node; slot != pkg.UNDEFINED; slot = perm.GetSucc(slot) {
		pred := perm.GetPred(slot)
		switch {
		case t.ts.resolve(slot).IsDepot():
			perm.SetDepotVisited(slot, true)
		case pred == pkg.UNDEFINED:
			perm.SetDepotVisited(slot, false)
		default:
			perm.SetDepotVisited(slot, perm.IsDepotVisited(pred))
		}
	}
}
