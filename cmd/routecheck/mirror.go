package main

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/route"
	"github.com/lintang-b-s/vrptour/pkg/solution"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// mirror applies every move to one route per storage strategy and to the first tour of a solution.
type mirror struct {
	routes   []route.Route
	refIndex int
}

func newMirror(inst *datastructure.Instance, reference pkg.Strategy, sol *solution.Solution, log *zap.Logger,
	checkRoutes bool) (*mirror, error) {
	tour := sol.GetTour(0)
	depot := inst.GetNodeVisit(0)
	m := &mirror{}
	for _, s := range []pkg.Strategy{pkg.ARRAY, pkg.LINKED, pkg.DOUBLY_LINKED} {
		r, err := route.NewRoute(s, inst, tour.GetVehicle(), sol.GetCostFunction())
		if err != nil {
			return nil, err
		}
		if err := r.AppendNodes([]*datastructure.NodeVisit{depot, depot}); err != nil {
			return nil, err
		}
		if s == reference {
			m.refIndex = len(m.routes)
		}
		m.routes = append(m.routes, r)
	}
	if reference == pkg.GIANT_PERMUTATION {
		m.refIndex = len(m.routes)
	}
	m.routes = append(m.routes, tour)

	if checkRoutes {
		for _, r := range m.routes {
			checking := route.NewCheckingRouteCostDelegate(route.NewDefaultRouteCostDelegate(sol.GetCostFunction()),
				log.With(zap.String("strategy", r.GetStrategy().String())), false)
			if err := r.SetCostDelegate(checking); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *mirror) ref() route.Route {
	return m.routes[m.refIndex]
}

func (m *mirror) each(fn func(r route.Route) error) error {
	for _, r := range m.routes {
		if err := fn(r); err != nil {
			return fmt.Errorf("%s: %w", r.GetStrategy(), err)
		}
	}
	return nil
}

func takeRandom(rng *rand.Rand, nodes *[]*datastructure.NodeVisit) *datastructure.NodeVisit {
	k := rng.Intn(len(*nodes))
	n := (*nodes)[k]
	*nodes = slices.Delete(*nodes, k, k+1)
	return n
}

// interiorPair returns two positions start < end strictly between the depots.
func interiorPair(rng *rand.Rand, length int) (int, int) {
	i := 1 + rng.Intn(length-2)
	j := 1 + rng.Intn(length-3)
	if j >= i {
		j++
	}
	return min(i, j), max(i, j)
}

// randomMove applies the same random move to every route and returns its name. Depots stay at both ends.
func (m *mirror) randomMove(rng *rand.Rand, unassigned *[]*datastructure.NodeVisit) (string, error) {
	length := m.ref().Length()
	interior := length - 2

	switch op := rng.Intn(7); {
	case op == 0 && len(*unassigned) > 0:
		node := takeRandom(rng, unassigned)
		pos := 1 + rng.Intn(length-1)
		return fmt.Sprintf("insert %v@%d", node, pos), m.each(func(r route.Route) error {
			return r.InsertNode(pos, node)
		})

	case op == 1 && len(*unassigned) > 0:
		node := takeRandom(rng, unassigned)
		want := m.ref().GetBestNodeInsertion(node)
		return fmt.Sprintf("best insertion %v", want), m.each(func(r route.Route) error {
			ins := r.GetBestNodeInsertion(node)
			if ins.GetPosition() != want.GetPosition() || !util.Eq(ins.GetCost(), want.GetCost(), pkg.ZERO_TOLERANCE) {
				return util.WrapErrorf(nil, util.ErrStructuralInconsistency, "best insertion %v, reference found %v",
					ins, want)
			}
			return r.InsertNodeAt(ins)
		})

	case op == 2 && interior > 0:
		pos := 1 + rng.Intn(interior)
		*unassigned = append(*unassigned, m.ref().GetNodeSequence()[pos])
		return fmt.Sprintf("extract %d", pos), m.each(func(r route.Route) error {
			_, err := r.ExtractNode(pos)
			return err
		})

	case op == 3 && interior > 1:
		i, j := interiorPair(rng, length)
		return fmt.Sprintf("swap %d %d", i, j), m.each(func(r route.Route) error {
			return r.SwapNodes(i, j)
		})

	case op == 4 && interior > 1:
		start, end := interiorPair(rng, length)
		return fmt.Sprintf("reverse %d..%d", start, end), m.each(func(r route.Route) error {
			return r.ReverseSubRoute(start, end)
		})

	case op == 5 && interior > 0 && len(*unassigned) > 0:
		node := takeRandom(rng, unassigned)
		pos := 1 + rng.Intn(interior)
		*unassigned = append(*unassigned, m.ref().GetNodeSequence()[pos])
		return fmt.Sprintf("set %v@%d", node, pos), m.each(func(r route.Route) error {
			_, err := r.SetNodeAt(pos, node)
			return err
		})

	case op == 6 && interior > 1:
		start, end := interiorPair(rng, length)
		*unassigned = append(*unassigned, m.ref().GetNodeSequence()[start:end+1]...)
		return fmt.Sprintf("extract %d..%d", start, end), m.each(func(r route.Route) error {
			_, err := r.ExtractNodes(start, end)
			return err
		})
	}
	return "noop", nil
}

// compare checks every route against the reference and against a recomputation from scratch.
func (m *mirror) compare() error {
	ref := m.ref()
	ref.CalculateCost(false)
	ref.CalculateLoad(false)
	var errs error
	for _, r := range m.routes {
		r.CalculateCost(false)
		r.CalculateLoad(false)
		errs = multierr.Append(errs, route.CheckRoute(r, false, true, true))
		if r == ref {
			continue
		}
		if !slices.Equal(r.GetNodeIDs(), ref.GetNodeIDs()) {
			errs = multierr.Append(errs, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"%s holds %s, reference holds %s", r.GetStrategy(), r.GetNodeSeqString(), ref.GetNodeSeqString()))
		}
		if !util.Eq(r.GetCost(), ref.GetCost(), pkg.ZERO_TOLERANCE) {
			errs = multierr.Append(errs, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"%s cost %.6f, reference cost %.6f", r.GetStrategy(), r.GetCost(), ref.GetCost()))
		}
		for p, load := range ref.GetLoads() {
			if !util.Eq(r.GetLoad(p), load, pkg.ZERO_TOLERANCE) {
				errs = multierr.Append(errs, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
					"%s load[%d] %.6f, reference %.6f", r.GetStrategy(), p, r.GetLoad(p), load))
			}
		}
	}
	return errs
}
