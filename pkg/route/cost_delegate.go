package route

import (
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// RouteCostDelegate is notified synchronously after every structural edit of a route.
// pred and succ are the neighbours of the edited range, nil at the route boundaries.
type RouteCostDelegate interface {
	// EvaluateRoute recomputes and stores the cost of r.
	EvaluateRoute(r Route) float64
	NodeInserted(r Route, pred, node, succ *datastructure.NodeVisit)
	// InsertionApplied is called instead of NodeInserted when a precomputed insertion is applied.
	InsertionApplied(r Route, ins NodeInsertion)
	RouteInserted(r Route, pred *datastructure.NodeVisit, inserted []*datastructure.NodeVisit,
		succ *datastructure.NodeVisit)
	NodeRemoved(r Route, pred, node, succ *datastructure.NodeVisit)
	SubrouteRemoved(r Route, pred *datastructure.NodeVisit, removed []*datastructure.NodeVisit,
		succ *datastructure.NodeVisit)
	NodeReplaced(r Route, pred, previous, node, succ *datastructure.NodeVisit)
	// NodesSwapped receives the neighbourhoods of both positions before the swap, adjacent when j == i+1.
	NodesSwapped(r Route, adjacent bool, pred1, node1, succ1, pred2, node2, succ2 *datastructure.NodeVisit)
	// SubrouteReversed receives the segment in its new order.
	SubrouteReversed(r Route, pred *datastructure.NodeVisit, reversed []*datastructure.NodeVisit,
		succ *datastructure.NodeVisit)
}

// DefaultRouteCostDelegate keeps the route cost equal to the sum of its arc costs with O(1) or O(k) deltas.
type DefaultRouteCostDelegate struct {
	costFn costfunction.CostFunction
}

func NewDefaultRouteCostDelegate(costFn costfunction.CostFunction) *DefaultRouteCostDelegate {
	return &DefaultRouteCostDelegate{costFn: costFn}
}

func (d *DefaultRouteCostDelegate) EvaluateRoute(r Route) float64 {
	cost := d.pathCost(r, nil, r.GetNodeSequence(), nil)
	r.UpdateCost(cost - r.GetCost())
	return cost
}

// pathCost sums the arcs of pred, nodes..., succ, skipping the nil ends.
func (d *DefaultRouteCostDelegate) pathCost(r Route, pred *datastructure.NodeVisit,
	nodes []*datastructure.NodeVisit, succ *datastructure.NodeVisit) float64 {
	if len(nodes) == 0 {
		return 0
	}
	v := r.GetVehicle()
	cost := 0.0
	if pred != nil {
		cost += d.costFn.GetCost(pred, nodes[0], v)
	}
	for k := 1; k < len(nodes); k++ {
		cost += d.costFn.GetCost(nodes[k-1], nodes[k], v)
	}
	if succ != nil {
		cost += d.costFn.GetCost(nodes[len(nodes)-1], succ, v)
	}
	return cost
}

// sequenceInsertionCost is the cost change of inserting nodes between pred and succ.
func (d *DefaultRouteCostDelegate) sequenceInsertionCost(r Route, pred *datastructure.NodeVisit,
	nodes []*datastructure.NodeVisit, succ *datastructure.NodeVisit) float64 {
	if len(nodes) == 0 {
		return 0
	}
	delta := d.pathCost(r, pred, nodes, succ)
	if pred != nil && succ != nil {
		delta -= d.costFn.GetCost(pred, succ, r.GetVehicle())
	}
	return delta
}

func (d *DefaultRouteCostDelegate) NodeInserted(r Route, pred, node, succ *datastructure.NodeVisit) {
	r.UpdateCost(d.costFn.GetInsertionCost(node, pred, succ, r.GetVehicle()))
}

func (d *DefaultRouteCostDelegate) InsertionApplied(r Route, ins NodeInsertion) {
	r.UpdateCost(ins.GetCost())
}

func (d *DefaultRouteCostDelegate) RouteInserted(r Route, pred *datastructure.NodeVisit,
	inserted []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	r.UpdateCost(d.sequenceInsertionCost(r, pred, inserted, succ))
}

func (d *DefaultRouteCostDelegate) NodeRemoved(r Route, pred, node, succ *datastructure.NodeVisit) {
	r.UpdateCost(-d.costFn.GetInsertionCost(node, pred, succ, r.GetVehicle()))
}

func (d *DefaultRouteCostDelegate) SubrouteRemoved(r Route, pred *datastructure.NodeVisit,
	removed []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	r.UpdateCost(-d.sequenceInsertionCost(r, pred, removed, succ))
}

func (d *DefaultRouteCostDelegate) NodeReplaced(r Route, pred, previous, node, succ *datastructure.NodeVisit) {
	v := r.GetVehicle()
	delta := 0.0
	if pred != nil {
		delta += d.costFn.GetCost(pred, node, v) - d.costFn.GetCost(pred, previous, v)
	}
	if succ != nil {
		delta += d.costFn.GetCost(node, succ, v) - d.costFn.GetCost(previous, succ, v)
	}
	r.UpdateCost(delta)
}

func (d *DefaultRouteCostDelegate) NodesSwapped(r Route, adjacent bool, pred1, node1, succ1, pred2, node2,
	succ2 *datastructure.NodeVisit) {
	v := r.GetVehicle()
	delta := 0.0
	if adjacent {
		// pred1 -> node1 -> node2 -> succ2 becomes pred1 -> node2 -> node1 -> succ2
		if pred1 != nil {
			delta += d.costFn.GetCost(pred1, node2, v) - d.costFn.GetCost(pred1, node1, v)
		}
		if succ2 != nil {
			delta += d.costFn.GetCost(node1, succ2, v) - d.costFn.GetCost(node2, succ2, v)
		}
		delta += d.costFn.GetCost(node2, node1, v) - d.costFn.GetCost(node1, node2, v)
	} else {
		delta -= d.costFn.GetInsertionCost(node1, pred1, succ1, v)
		delta += d.costFn.GetInsertionCost(node1, pred2, succ2, v)
		delta -= d.costFn.GetInsertionCost(node2, pred2, succ2, v)
		delta += d.costFn.GetInsertionCost(node2, pred1, succ1, v)
	}
	r.UpdateCost(delta)
}

func (d *DefaultRouteCostDelegate) SubrouteReversed(r Route, pred *datastructure.NodeVisit,
	reversed []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	original := make([]*datastructure.NodeVisit, len(reversed))
	for k, n := range reversed {
		original[len(reversed)-1-k] = n
	}
	r.UpdateCost(d.pathCost(r, pred, reversed, succ) - d.pathCost(r, pred, original, succ))
}
