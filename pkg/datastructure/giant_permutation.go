package datastructure

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

/*
GiantPermutation encodes every tour of one solution in a single id-indexed structure.
pred[id]/succ[id] link the node occurrences of a tour, visitingVehicle[id] is the vehicle owning the node.
Every slot of the instance (original ids and depot duplicates) has an entry.

The derived arrays (cumulative cost, arrival times, waiting time, forward slack, capacity, spare parts) are not
kept consistent by pred/succ edits: the tour time propagation or the caller recomputes them after a move.
*/
type GiantPermutation struct {
	inst *Instance

	pred            []int
	succ            []int
	visitingVehicle []int

	cumulativeCost     []float64
	earliestArrival    []float64
	latestFeasible     []float64
	waitingTime        *TriangularMatrix[float64] // diagonal-only unless forward slack is enabled
	fwdSlackTime       *TriangularMatrix[float64] // nil when forward slack is disabled
	capacity           [][]float64
	requiredSpareParts [][]int
	depotVisited       []bool
}

func NewGiantPermutation(inst *Instance, fwdSlack bool) *GiantPermutation {
	n := inst.SlotCount()
	compartments := 0
	if inst.GetFleet() != nil && inst.GetFleet().Size() > 0 {
		compartments = inst.GetFleet().GetVehicle(0).GetCompartmentCount()
	}

	gp := &GiantPermutation{
		inst:               inst,
		pred:               make([]int, n),
		succ:               make([]int, n),
		visitingVehicle:    make([]int, n),
		cumulativeCost:     make([]float64, n),
		earliestArrival:    make([]float64, n),
		latestFeasible:     make([]float64, n),
		waitingTime:        NewTriangularMatrix[float64](n, !fwdSlack),
		capacity:           make([][]float64, n),
		requiredSpareParts: make([][]int, n),
		depotVisited:       make([]bool, n),
	}
	if fwdSlack {
		gp.fwdSlackTime = NewTriangularMatrix[float64](n, false)
	}
	for id := 0; id < n; id++ {
		gp.capacity[id] = make([]float64, compartments)
		gp.requiredSpareParts[id] = make([]int, compartments)
	}
	gp.Clear()
	return gp
}

func (gp *GiantPermutation) GetInstance() *Instance {
	return gp.inst
}

func (gp *GiantPermutation) Size() int {
	return len(gp.pred)
}

// GetCompartmentCount is the length of the per-node capacity and spare parts vectors.
func (gp *GiantPermutation) GetCompartmentCount() int {
	if len(gp.capacity) == 0 {
		return 0
	}
	return len(gp.capacity[0])
}

func (gp *GiantPermutation) IsValidNode(node int) bool {
	return node >= 0 && node < len(gp.pred)
}

func (gp *GiantPermutation) checkNode(node int) {
	if !gp.IsValidNode(node) {
		panic(util.WrapErrorf(nil, util.ErrOutOfRange, "node %d is out of range [0,%d)", node, len(gp.pred)))
	}
}

func (gp *GiantPermutation) IsFwdSlackTimeDefined() bool {
	return gp.fwdSlackTime != nil
}

func (gp *GiantPermutation) GetPred(node int) int {
	gp.checkNode(node)
	return gp.pred[node]
}

func (gp *GiantPermutation) SetPred(node, pred int) {
	gp.checkNode(node)
	gp.pred[node] = pred
}

func (gp *GiantPermutation) GetSucc(node int) int {
	gp.checkNode(node)
	return gp.succ[node]
}

func (gp *GiantPermutation) SetSucc(node, succ int) {
	gp.checkNode(node)
	gp.succ[node] = succ
}

func (gp *GiantPermutation) GetVisitingVehicle(node int) int {
	gp.checkNode(node)
	return gp.visitingVehicle[node]
}

// SetVisitingVehicle assigns node to vehicle. A node owned by another vehicle must be released first
// (vehicle = UNDEFINED).
func (gp *GiantPermutation) SetVisitingVehicle(node, vehicle int) error {
	gp.checkNode(node)
	current := gp.visitingVehicle[node]
	if current != pkg.UNDEFINED && vehicle != pkg.UNDEFINED && current != vehicle {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"cannot assign node %d to vehicle %d (already visited by %d)", node, vehicle, current)
	}
	gp.visitingVehicle[node] = vehicle
	return nil
}

func (gp *GiantPermutation) GetCumulativeCost(node int) float64 {
	gp.checkNode(node)
	return gp.cumulativeCost[node]
}

func (gp *GiantPermutation) SetCumulativeCost(node int, value float64) {
	gp.checkNode(node)
	gp.cumulativeCost[node] = value
}

func (gp *GiantPermutation) GetEarliestArrivalTime(node int) float64 {
	gp.checkNode(node)
	return gp.earliestArrival[node]
}

func (gp *GiantPermutation) SetEarliestArrivalTime(node int, time float64) {
	gp.checkNode(node)
	gp.earliestArrival[node] = time
}

func (gp *GiantPermutation) GetLatestFeasibleArrivalTime(node int) float64 {
	gp.checkNode(node)
	return gp.latestFeasible[node]
}

func (gp *GiantPermutation) SetLatestFeasibleArrivalTime(node int, time float64) {
	gp.checkNode(node)
	gp.latestFeasible[node] = time
}

// GetWaitingTime is the waiting time at node.
func (gp *GiantPermutation) GetWaitingTime(node int) float64 {
	return gp.waitingTime.Get(node, node)
}

func (gp *GiantPermutation) SetWaitingTime(node int, time float64) {
	gp.waitingTime.Set(node, node, time)
}

// GetWaitingTimeBetween is the waiting time accumulated on the path from i to j (pairs are unordered).
// Only stored when forward slack is enabled.
func (gp *GiantPermutation) GetWaitingTimeBetween(i, j int) float64 {
	return gp.waitingTime.Get(i, j)
}

func (gp *GiantPermutation) SetWaitingTimeBetween(i, j int, time float64) {
	gp.waitingTime.Set(i, j, time)
}

func (gp *GiantPermutation) GetFwdSlackTime(i, j int) float64 {
	util.AssertPanic(gp.fwdSlackTime != nil, "forward slack time is not enabled on this permutation")
	return gp.fwdSlackTime.Get(i, j)
}

func (gp *GiantPermutation) SetFwdSlackTime(i, j int, slack float64) {
	util.AssertPanic(gp.fwdSlackTime != nil, "forward slack time is not enabled on this permutation")
	gp.fwdSlackTime.Set(i, j, slack)
}

func (gp *GiantPermutation) GetCapacity(node, product int) float64 {
	gp.checkNode(node)
	return gp.capacity[node][product]
}

func (gp *GiantPermutation) SetCapacity(node, product int, value float64) {
	gp.checkNode(node)
	gp.capacity[node][product] = value
}

func (gp *GiantPermutation) GetRequiredSpareParts(node, product int) int {
	gp.checkNode(node)
	return gp.requiredSpareParts[node][product]
}

func (gp *GiantPermutation) SetRequiredSpareParts(node, product, num int) {
	gp.checkNode(node)
	gp.requiredSpareParts[node][product] = num
}

func (gp *GiantPermutation) IsDepotVisited(node int) bool {
	gp.checkNode(node)
	return gp.depotVisited[node]
}

func (gp *GiantPermutation) SetDepotVisited(node int, visited bool) {
	gp.checkNode(node)
	gp.depotVisited[node] = visited
}

// ResetNodeData clears all state of node back to "not assigned".
func (gp *GiantPermutation) ResetNodeData(node int) {
	gp.checkNode(node)
	gp.pred[node] = pkg.UNDEFINED
	gp.succ[node] = pkg.UNDEFINED
	gp.visitingVehicle[node] = pkg.UNDEFINED
	gp.cumulativeCost[node] = pkg.NA
	gp.earliestArrival[node] = pkg.NA
	gp.latestFeasible[node] = pkg.NA
	gp.waitingTime.FillRow(node, pkg.NA)
	if gp.fwdSlackTime != nil {
		gp.fwdSlackTime.FillRow(node, pkg.NA)
	}
	for p := range gp.capacity[node] {
		gp.capacity[node][p] = 0
		gp.requiredSpareParts[node][p] = 0
	}
	gp.depotVisited[node] = false
}

func (gp *GiantPermutation) Clear() {
	for node := 0; node < len(gp.pred); node++ {
		gp.ResetNodeData(node)
	}
}

// Clone deep-copies every array, the clone shares only the instance.
func (gp *GiantPermutation) Clone() *GiantPermutation {
	clone := &GiantPermutation{
		inst:               gp.inst,
		pred:               make([]int, len(gp.pred)),
		succ:               make([]int, len(gp.succ)),
		visitingVehicle:    make([]int, len(gp.visitingVehicle)),
		cumulativeCost:     make([]float64, len(gp.cumulativeCost)),
		earliestArrival:    make([]float64, len(gp.earliestArrival)),
		latestFeasible:     make([]float64, len(gp.latestFeasible)),
		waitingTime:        gp.waitingTime.Clone(),
		capacity:           make([][]float64, len(gp.capacity)),
		requiredSpareParts: make([][]int, len(gp.requiredSpareParts)),
		depotVisited:       make([]bool, len(gp.depotVisited)),
	}
	if gp.fwdSlackTime != nil {
		clone.fwdSlackTime = gp.fwdSlackTime.Clone()
	}
	for id := range gp.capacity {
		clone.capacity[id] = make([]float64, len(gp.capacity[id]))
		clone.requiredSpareParts[id] = make([]int, len(gp.requiredSpareParts[id]))
	}
	clone.ImportPermutation(gp)
	return clone
}

// ImportPermutation overwrites this permutation with the content of other (same instance and shape).
func (gp *GiantPermutation) ImportPermutation(other *GiantPermutation) {
	util.AssertPanic(len(gp.pred) == len(other.pred), "cannot import a permutation of a different size")
	copy(gp.pred, other.pred)
	copy(gp.succ, other.succ)
	copy(gp.visitingVehicle, other.visitingVehicle)
	copy(gp.cumulativeCost, other.cumulativeCost)
	copy(gp.earliestArrival, other.earliestArrival)
	copy(gp.latestFeasible, other.latestFeasible)
	gp.waitingTime.CopyFrom(other.waitingTime)
	if gp.fwdSlackTime != nil && other.fwdSlackTime != nil {
		gp.fwdSlackTime.CopyFrom(other.fwdSlackTime)
	}
	for id := range gp.capacity {
		copy(gp.capacity[id], other.capacity[id])
		copy(gp.requiredSpareParts[id], other.requiredSpareParts[id])
	}
	copy(gp.depotVisited, other.depotVisited)
}

// CheckForCycles follows the successor links from every node once. It returns the ids forming a cycle,
// or nil if the successor graph is acyclic.
func (gp *GiantPermutation) CheckForCycles() []int {
	n := uint(len(gp.succ))
	visited := bitset.New(n)
	onPath := bitset.New(n)
	path := make([]int, 0, 16)

	for start := 0; start < len(gp.succ); start++ {
		if visited.Test(uint(start)) {
			continue
		}
		path = path[:0]
		node := start
		for node != pkg.UNDEFINED && !visited.Test(uint(node)) {
			visited.Set(uint(node))
			onPath.Set(uint(node))
			path = append(path, node)
			node = gp.succ[node]
		}
		if node != pkg.UNDEFINED && onPath.Test(uint(node)) {
			// node closes the cycle, cut the tail leading to it
			for i, id := range path {
				if id == node {
					return append([]int(nil), path[i:]...)
				}
			}
		}
		for _, id := range path {
			onPath.Clear(uint(id))
		}
	}
	return nil
}
