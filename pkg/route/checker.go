package route

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// CheckRoute recomputes the cost and the loads of r from scratch and compares them with the maintained values.
// Every inconsistency is reported, coded ErrStructuralInconsistency. With autoRepair the maintained values are
// overwritten by the recomputed ones.
func CheckRoute(r Route, autoRepair, startAtDepot, endAtDepot bool) error {
	var err error
	if r.Length() == 0 {
		return nil
	}

	if startAtDepot && !r.GetFirstNode().IsDepot() {
		err = multierr.Append(err, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"route does not start at a depot: %s", r.GetNodeSeqString()))
	}
	if endAtDepot && !r.GetLastNode().IsDepot() {
		err = multierr.Append(err, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"route does not end at a depot: %s", r.GetNodeSeqString()))
	}

	seen := make(map[int]int, r.Length())
	for _, n := range r.GetNodeSequence() {
		seen[n.GetOriginalID()]++
		if c := seen[n.GetOriginalID()]; (!n.IsDepot() && c == 2) || c == 3 {
			err = multierr.Append(err, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"node %v is visited %d times: %s", n, c, r.GetNodeSeqString()))
		}
	}

	ref := r.Clone()
	ref.CalculateCost(true)
	ref.CalculateLoad(true)

	repair := false
	if !util.Eq(ref.GetCost(), r.GetCost(), pkg.ZERO_TOLERANCE) {
		err = multierr.Append(err, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"cost is %.6f, expected %.6f: %s", r.GetCost(), ref.GetCost(), r.GetNodeSeqString()))
		repair = true
	}
	for p, load := range ref.GetLoads() {
		if !util.Eq(load, r.GetLoad(p), pkg.ZERO_TOLERANCE) {
			err = multierr.Append(err, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"load of product %d is %.6f, expected %.6f: %s", p, r.GetLoad(p), load, r.GetNodeSeqString()))
			repair = true
		}
	}

	if autoRepair && repair {
		r.CalculateCost(true)
		r.CalculateLoad(true)
	}
	return err
}

// CheckingRouteCostDelegate decorates a delegate and checks the route after every notification.
// Inconsistencies are logged, never returned: the delegate hooks have no error path.
type CheckingRouteCostDelegate struct {
	inner      RouteCostDelegate
	log        *zap.Logger
	autoRepair bool
}

// NewCheckingRouteCostDelegate wraps inner. A nil log drops the reports.
func NewCheckingRouteCostDelegate(inner RouteCostDelegate, log *zap.Logger,
	autoRepair bool) *CheckingRouteCostDelegate {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckingRouteCostDelegate{inner: inner, log: log, autoRepair: autoRepair}
}

func (d *CheckingRouteCostDelegate) check(r Route, hook string) {
	if err := CheckRoute(r, d.autoRepair, false, false); err != nil {
		d.log.Warn("route check failed",
			zap.String("hook", hook),
			zap.String("route", r.GetNodeSeqString()),
			zap.Errors("inconsistencies", multierr.Errors(err)),
			zap.Bool("repaired", d.autoRepair))
	}
}

func (d *CheckingRouteCostDelegate) EvaluateRoute(r Route) float64 {
	cost := d.inner.EvaluateRoute(r)
	d.check(r, "EvaluateRoute")
	return cost
}

func (d *CheckingRouteCostDelegate) NodeInserted(r Route, pred, node, succ *datastructure.NodeVisit) {
	d.inner.NodeInserted(r, pred, node, succ)
	d.check(r, "NodeInserted")
}

func (d *CheckingRouteCostDelegate) InsertionApplied(r Route, ins NodeInsertion) {
	d.inner.InsertionApplied(r, ins)
	d.check(r, "InsertionApplied")
}

func (d *CheckingRouteCostDelegate) RouteInserted(r Route, pred *datastructure.NodeVisit,
	inserted []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	d.inner.RouteInserted(r, pred, inserted, succ)
	d.check(r, "RouteInserted")
}

func (d *CheckingRouteCostDelegate) NodeRemoved(r Route, pred, node, succ *datastructure.NodeVisit) {
	d.inner.NodeRemoved(r, pred, node, succ)
	d.check(r, "NodeRemoved")
}

func (d *CheckingRouteCostDelegate) SubrouteRemoved(r Route, pred *datastructure.NodeVisit,
	removed []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	d.inner.SubrouteRemoved(r, pred, removed, succ)
	d.check(r, "SubrouteRemoved")
}

func (d *CheckingRouteCostDelegate) NodeReplaced(r Route, pred, previous, node, succ *datastructure.NodeVisit) {
	d.inner.NodeReplaced(r, pred, previous, node, succ)
	d.check(r, "NodeReplaced")
}

func (d *CheckingRouteCostDelegate) NodesSwapped(r Route, adjacent bool, pred1, node1, succ1, pred2, node2,
	succ2 *datastructure.NodeVisit) {
	d.inner.NodesSwapped(r, adjacent, pred1, node1, succ1, pred2, node2, succ2)
	d.check(r, "NodesSwapped")
}

func (d *CheckingRouteCostDelegate) SubrouteReversed(r Route, pred *datastructure.NodeVisit,
	reversed []*datastructure.NodeVisit, succ *datastructure.NodeVisit) {
	d.inner.SubrouteReversed(r, pred, reversed, succ)
	d.check(r, "SubrouteReversed")
}
