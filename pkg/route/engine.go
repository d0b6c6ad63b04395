package route

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

/*
Engine implements Route on top of a storage strategy.

Cost and loads are maintained incrementally: every structural edit updates the loads with the demands of the
moved nodes and notifies the cost delegate, which applies the cost delta through UpdateCost.
costChanged/loadChanged mark the aggregates as stale so that CalculateCost(false)/CalculateLoad(false) recompute
them from scratch.

mu guards the aggregates only: a single goroutine mutates the sequence, observers may read cost and loads
concurrently. The lock is never held while the delegate runs.

self is the Route handed to the delegate and recorded in insertions: the engine itself, or the Tour embedding it.
*/
type Engine struct {
	vehicle  *datastructure.Vehicle
	costFn   costfunction.CostFunction
	delegate RouteCostDelegate
	store    storage
	onEdit   func()
	self     Route

	mu          sync.RWMutex
	cost        float64
	loads       []float64
	costChanged bool
	loadChanged bool
}

func newEngine(vehicle *datastructure.Vehicle, costFn costfunction.CostFunction, store storage) *Engine {
	e := &Engine{
		vehicle:     vehicle,
		costFn:      costFn,
		delegate:    NewDefaultRouteCostDelegate(costFn),
		store:       store,
		loads:       make([]float64, vehicle.GetCompartmentCount()),
		costChanged: true,
		loadChanged: true,
	}
	e.self = e
	return e
}

func (e *Engine) GetVehicle() *datastructure.Vehicle {
	return e.vehicle
}

func (e *Engine) GetStrategy() pkg.Strategy {
	return e.store.strategy()
}

func (e *Engine) GetCostFunction() costfunction.CostFunction {
	return e.costFn
}

func (e *Engine) Length() int {
	return e.store.size()
}

func (e *Engine) GetCost() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cost
}

func (e *Engine) GetLoad(product int) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loads[product]
}

func (e *Engine) GetLoads() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	loads := make([]float64, len(e.loads))
	copy(loads, e.loads)
	return loads
}

func (e *Engine) UpdateCost(delta float64) {
	e.mu.Lock()
	e.cost += delta
	e.mu.Unlock()
}

func (e *Engine) UpdateLoad(product int, delta float64) {
	e.mu.Lock()
	e.loads[product] += delta
	e.mu.Unlock()
}

func (e *Engine) updateLoads(sign float64, nodes ...*datastructure.NodeVisit) {
	e.mu.Lock()
	for _, n := range nodes {
		for p := range e.loads {
			e.loads[p] += sign * n.GetDemand(p)
		}
	}
	e.mu.Unlock()
}

func (e *Engine) setChanged() {
	e.mu.Lock()
	e.costChanged = true
	e.loadChanged = true
	e.mu.Unlock()
}

func (e *Engine) edited() {
	if e.onEdit != nil {
		e.onEdit()
	}
}

// CalculateCost recomputes the cost with a single traversal when it is stale or force is set.
func (e *Engine) CalculateCost(force bool) {
	e.mu.RLock()
	stale := e.costChanged
	e.mu.RUnlock()
	if !force && !stale {
		return
	}

	cost := 0.0
	nodes := e.store.sequence()
	for k := 1; k < len(nodes); k++ {
		cost += e.costFn.GetCost(nodes[k-1], nodes[k], e.vehicle)
	}

	e.mu.Lock()
	e.cost = cost
	e.costChanged = false
	e.mu.Unlock()
}

// CalculateLoad recomputes the loads when they are stale or force is set. Depots carry no demand.
func (e *Engine) CalculateLoad(force bool) {
	e.mu.RLock()
	stale := e.loadChanged
	e.mu.RUnlock()
	if !force && !stale {
		return
	}

	loads := make([]float64, len(e.loads))
	for _, n := range e.store.sequence() {
		for p := range loads {
			loads[p] += n.GetDemand(p)
		}
	}

	e.mu.Lock()
	copy(e.loads, loads)
	e.loadChanged = false
	e.mu.Unlock()
}

// CanAccommodate reports whether the demand of node fits in the remaining capacity of every compartment.
func (e *Engine) CanAccommodate(node *datastructure.NodeVisit) bool {
	e.CalculateLoad(false)
	for p := 0; p < e.vehicle.GetCompartmentCount(); p++ {
		if e.GetLoad(p)+node.GetDemand(p) > e.vehicle.GetCapacity(p) {
			return false
		}
	}
	return true
}

func (e *Engine) GetFirstNode() *datastructure.NodeVisit {
	return e.store.firstNode()
}

func (e *Engine) GetLastNode() *datastructure.NodeVisit {
	return e.store.lastNode()
}

func (e *Engine) GetNodeAt(index int) (*datastructure.NodeVisit, error) {
	if err := util.CheckIndex(index, "index", e.store.size(), false); err != nil {
		return nil, err
	}
	return e.store.nodeAt(index), nil
}

// GetNodePosition returns the position of the first occurrence of node, UNDEFINED if absent.
func (e *Engine) GetNodePosition(node *datastructure.NodeVisit) int {
	return e.store.indexOf(node)
}

func (e *Engine) Contains(node *datastructure.NodeVisit) bool {
	return e.store.count(node) > 0
}

// Subroute returns a copy of the inclusive range [start, end].
func (e *Engine) Subroute(start, end int) ([]*datastructure.NodeVisit, error) {
	if err := util.CheckSequenceIndexes(start, "start", end, "end", e.store.size(), false); err != nil {
		return nil, err
	}
	return e.store.subroute(start, end), nil
}

func (e *Engine) GetNodeSequence() []*datastructure.NodeVisit {
	return e.store.sequence()
}

func (e *Engine) GetNodeIDs() []int {
	nodes := e.store.sequence()
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.GetOriginalID()
	}
	return ids
}

// neighbours returns the nodes at positions before and after, nil outside the route.
func (e *Engine) neighbours(before, after int) (*datastructure.NodeVisit, *datastructure.NodeVisit) {
	var pred, succ *datastructure.NodeVisit
	if before >= 0 && before < e.store.size() {
		pred = e.store.nodeAt(before)
	}
	if after >= 0 && after < e.store.size() {
		succ = e.store.nodeAt(after)
	}
	return pred, succ
}

// admit enforces the duplicate policy on original ids: a non-depot node appears at most once, a depot at most
// twice, explicit duplicates included.
// replaced is the node about to be overwritten by SetNodeAt, nil otherwise.
func (e *Engine) admit(nodes []*datastructure.NodeVisit, replaced *datastructure.NodeVisit) error {
	pending := make(map[int]int, len(nodes))
	for _, n := range nodes {
		c := e.store.count(n) + pending[n.GetOriginalID()]
		if replaced != nil && replaced.GetOriginalID() == n.GetOriginalID() {
			c--
		}
		if (!n.IsDepot() && c > 0) || c > 1 {
			return util.WrapErrorf(nil, util.ErrDuplicateNode, "node %v is already present in the route", n)
		}
		pending[n.GetOriginalID()]++
	}
	return nil
}

func (e *Engine) insertSequence(index int, nodes []*datastructure.NodeVisit) error {
	if err := e.admit(nodes, nil); err != nil {
		return err
	}
	pred, succ := e.neighbours(index-1, index)
	if err := e.store.insert(index, nodes); err != nil {
		return err
	}
	e.updateLoads(1, nodes...)
	if len(nodes) == 1 {
		e.delegate.NodeInserted(e.self, pred, nodes[0], succ)
	} else {
		e.delegate.RouteInserted(e.self, pred, nodes, succ)
	}
	return nil
}

func (e *Engine) AppendNode(node *datastructure.NodeVisit) error {
	if err := e.insertSequence(e.store.size(), []*datastructure.NodeVisit{node}); err != nil {
		return err
	}
	e.edited()
	return nil
}

func (e *Engine) AppendNodes(nodes []*datastructure.NodeVisit) error {
	if len(nodes) == 0 {
		return nil
	}
	if err := e.insertSequence(e.store.size(), nodes); err != nil {
		return err
	}
	e.edited()
	return nil
}

func (e *Engine) AppendRoute(other Route) error {
	return e.AppendNodes(other.GetNodeSequence())
}

// InsertNode inserts node at index, shifting the following nodes to the right.
func (e *Engine) InsertNode(index int, node *datastructure.NodeVisit) error {
	if err := util.CheckIndex(index, "index", e.store.size(), true); err != nil {
		return err
	}
	if err := e.insertSequence(index, []*datastructure.NodeVisit{node}); err != nil {
		return err
	}
	e.edited()
	return nil
}

// InsertNodeAt applies an insertion computed on this route, the recorded cost is added as is.
func (e *Engine) InsertNodeAt(ins NodeInsertion) error {
	if ins.GetRoute() != nil && ins.GetRoute() != e.self {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "insertion %v was computed on another route", ins)
	}
	if !ins.IsFeasible() {
		return util.WrapErrorf(nil, util.ErrNoFeasibleInsertion, "insertion %v is not feasible", ins)
	}
	if err := util.CheckIndex(ins.GetPosition(), "position", e.store.size(), true); err != nil {
		return err
	}
	nodes := []*datastructure.NodeVisit{ins.GetNode()}
	if err := e.admit(nodes, nil); err != nil {
		return err
	}
	if err := e.store.insert(ins.GetPosition(), nodes); err != nil {
		return err
	}
	e.updateLoads(1, nodes...)
	e.delegate.InsertionApplied(e.self, ins)
	e.edited()
	return nil
}

func (e *Engine) InsertNodes(index int, nodes []*datastructure.NodeVisit) error {
	if len(nodes) == 0 {
		return nil
	}
	if err := util.CheckIndex(index, "index", e.store.size(), true); err != nil {
		return err
	}
	if err := e.insertSequence(index, nodes); err != nil {
		return err
	}
	e.setChanged()
	e.edited()
	return nil
}

func (e *Engine) InsertSubroute(index int, subroute Route) error {
	return e.InsertNodes(index, subroute.GetNodeSequence())
}

// SetNodeAt replaces the node at index and returns the previous one.
func (e *Engine) SetNodeAt(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error) {
	if err := util.CheckIndex(index, "index", e.store.size(), false); err != nil {
		return nil, err
	}
	current := e.store.nodeAt(index)
	if err := e.admit([]*datastructure.NodeVisit{node}, current); err != nil {
		return nil, err
	}
	pred, succ := e.neighbours(index-1, index+1)
	old, err := e.store.set(index, node)
	if err != nil {
		return nil, err
	}
	e.updateLoads(-1, old)
	e.updateLoads(1, node)
	e.delegate.NodeReplaced(e.self, pred, old, node, succ)
	e.setChanged()
	e.edited()
	return old, nil
}

func (e *Engine) ExtractNode(index int) (*datastructure.NodeVisit, error) {
	if err := util.CheckIndex(index, "index", e.store.size(), false); err != nil {
		return nil, err
	}
	pred, succ := e.neighbours(index-1, index+1)
	node := e.store.remove(index, index)[0]
	e.updateLoads(-1, node)
	e.delegate.NodeRemoved(e.self, pred, node, succ)
	e.setChanged()
	e.edited()
	return node, nil
}

// ExtractNodes removes the inclusive range [start, end] and returns it in route order.
func (e *Engine) ExtractNodes(start, end int) ([]*datastructure.NodeVisit, error) {
	if err := util.CheckSequenceIndexes(start, "start", end, "end", e.store.size(), false); err != nil {
		return nil, err
	}
	pred, succ := e.neighbours(start-1, end+1)
	nodes := e.store.remove(start, end)
	e.updateLoads(-1, nodes...)
	e.delegate.SubrouteRemoved(e.self, pred, nodes, succ)
	e.setChanged()
	e.edited()
	return nodes, nil
}

// ExtractSubroute removes [start, end] and returns it as a new route of the same strategy.
// A tour returns a detached array route.
func (e *Engine) ExtractSubroute(start, end int) (Route, error) {
	nodes, err := e.ExtractNodes(start, end)
	if err != nil {
		return nil, err
	}
	sub := newEngine(e.vehicle, e.costFn, e.store.empty())
	sub.delegate = e.delegate
	if err := sub.AppendNodes(nodes); err != nil {
		return nil, err
	}
	return sub, nil
}

// RemoveNode extracts the first occurrence of node, false if the route does not contain it.
func (e *Engine) RemoveNode(node *datastructure.NodeVisit) bool {
	index := e.store.indexOf(node)
	if index == pkg.UNDEFINED {
		return false
	}
	_, err := e.ExtractNode(index)
	return err == nil
}

func (e *Engine) SwapNodes(i, j int) error {
	if err := util.CheckIndex(i, "node1", e.store.size(), false); err != nil {
		return err
	}
	if err := util.CheckIndex(j, "node2", e.store.size(), false); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	if j < i {
		i, j = j, i
	}
	pred1, succ1 := e.neighbours(i-1, i+1)
	pred2, succ2 := e.neighbours(j-1, j+1)
	node1, node2 := e.store.nodeAt(i), e.store.nodeAt(j)
	e.store.swap(i, j)
	e.delegate.NodesSwapped(e.self, j == i+1, pred1, node1, succ1, pred2, node2, succ2)
	e.setChanged()
	e.edited()
	return nil
}

// ReverseSubRoute reverses the inclusive range [start, end] in place.
func (e *Engine) ReverseSubRoute(start, end int) error {
	if err := util.CheckSequenceIndexes(start, "start", end, "end", e.store.size(), false); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	pred, succ := e.neighbours(start-1, end+1)
	e.store.reverse(start, end)
	e.setChanged()
	e.delegate.SubrouteReversed(e.self, pred, e.store.subroute(start, end), succ)
	e.edited()
	return nil
}

func (e *Engine) ReverseRoute() {
	if e.store.size() > 1 {
		_ = e.ReverseSubRoute(0, e.store.size()-1)
	}
}

// GetBestNodeInsertion scans every position of the route.
func (e *Engine) GetBestNodeInsertion(node *datastructure.NodeVisit) NodeInsertion {
	return e.bestNodeInsertion(node, 0, e.store.size())
}

// GetBestNodeInsertionBetween scans the positions [min, max], both in [0, Length()].
func (e *Engine) GetBestNodeInsertionBetween(node *datastructure.NodeVisit, min, max int) (NodeInsertion, error) {
	if e.store.size() == 0 {
		return NewNodeInsertion(node, 0, 0, e.self), nil
	}
	if err := util.CheckSequenceIndexes(min, "min", max, "max", e.store.size(), true); err != nil {
		return NodeInsertion{}, err
	}
	return e.bestNodeInsertion(node, min, max), nil
}

/*
bestNodeInsertion evaluates the gaps min..max of the route:
  - an empty route accepts the node at position 0 for free
  - min == max evaluates that single gap, anchored on the first or last node at the boundaries
  - a route of length 1 is assumed to hold the start depot, the node goes to position 1
  - a fixed first node cannot be preceded, a fixed last node cannot be followed (+Inf)

The strict comparison keeps the lowest position among equal costs.
*/
func (e *Engine) bestNodeInsertion(node *datastructure.NodeVisit, min, max int) NodeInsertion {
	length := e.store.size()
	if length == 0 {
		return NewNodeInsertion(node, 0, 0, e.self)
	}

	if min == max {
		var cost float64
		switch {
		case min == 0:
			cost = e.costFn.GetCost(node, e.store.firstNode(), e.vehicle)
		case max == length:
			cost = e.costFn.GetCost(e.store.lastNode(), node, e.vehicle)
		default:
			cost = e.costFn.GetInsertionCost(node, e.store.nodeAt(min-1), e.store.nodeAt(min), e.vehicle)
		}
		return NewNodeInsertion(node, cost, min, e.self)
	}

	if length == 1 {
		return NewNodeInsertion(node, e.costFn.GetCost(e.store.firstNode(), node, e.vehicle), 1, e.self)
	}

	if min == 0 && e.store.firstNode().IsFixed() {
		min = 1
	}
	lastFixed := e.store.lastNode().IsFixed()

	best := NewInfeasibleInsertion(node, e.self)
	nodes := e.store.sequence()
	for index := min; index <= max; index++ {
		var c float64
		switch {
		case index == 0:
			c = e.costFn.GetCost(node, nodes[0], e.vehicle)
		case index == length:
			if lastFixed {
				c = math.Inf(1)
			} else {
				c = e.costFn.GetCost(nodes[length-1], node, e.vehicle)
			}
		default:
			c = e.costFn.GetInsertionCost(node, nodes[index-1], nodes[index], e.vehicle)
		}
		if c < best.GetCost() {
			best = NewNodeInsertion(node, c, index, e.self)
		}
	}
	return best
}

// BestInsertion inserts node at its cheapest position.
func (e *Engine) BestInsertion(node *datastructure.NodeVisit) (NodeInsertion, error) {
	ins := e.GetBestNodeInsertion(node)
	if !ins.IsFeasible() {
		return ins, util.WrapErrorf(nil, util.ErrNoFeasibleInsertion, "node %v cannot be inserted in route %s", node,
			e.GetNodeSeqString())
	}
	if err := e.InsertNodeAt(ins); err != nil {
		return ins, err
	}
	return ins, nil
}

func (e *Engine) GetCostDelegate() RouteCostDelegate {
	return e.delegate
}

// SetCostDelegate replaces the delegate and lets it evaluate the route.
func (e *Engine) SetCostDelegate(delegate RouteCostDelegate) error {
	if delegate == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "the cost delegate cannot be nil")
	}
	e.delegate = delegate
	e.delegate.EvaluateRoute(e.self)
	return nil
}

// Clone copies the sequence and the aggregates. A tour is cloned into a detached array route.
func (e *Engine) Clone() Route {
	return e.cloneWith(e.store.clone())
}

func (e *Engine) cloneWith(store storage) *Engine {
	e.mu.RLock()
	defer e.mu.RUnlock()
	loads := make([]float64, len(e.loads))
	copy(loads, e.loads)
	c := &Engine{
		vehicle:     e.vehicle,
		costFn:      e.costFn,
		delegate:    e.delegate,
		store:       store,
		cost:        e.cost,
		loads:       loads,
		costChanged: e.costChanged,
		loadChanged: e.loadChanged,
	}
	c.self = c
	return c
}

// clear empties the sequence and resets the aggregates.
func (e *Engine) clear() {
	e.store.clear()
	e.mu.Lock()
	e.cost = 0
	for p := range e.loads {
		e.loads[p] = 0
	}
	e.costChanged = false
	e.loadChanged = false
	e.mu.Unlock()
}

func (e *Engine) GetNodeSeqString() string {
	var sb strings.Builder
	sb.WriteByte('<')
	for i, id := range e.GetNodeIDs() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	sb.WriteByte('>')
	return sb.String()
}

func (e *Engine) String() string {
	return fmt.Sprintf("cost:%.2f length:%d load:%v %s", e.GetCost(), e.Length(), e.GetLoads(), e.GetNodeSeqString())
}
