package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// planar points: depot 0 at the origin, requests 1..7, demand of request i is i.
var testCoordinates = [][2]float64{{0, 0}, {0, 3}, {4, 0}, {4, 3}, {1, 1}, {2, 5}, {6, 2}, {3, 3}}

type testFixture struct {
	inst    *datastructure.Instance
	vehicle *datastructure.Vehicle
	costFn  costfunction.CostFunction
}

func newTestFixture(t *testing.T) testFixture {
	t.Helper()
	tw := datastructure.NewTimeWindow(0, 1000)
	visits := []*datastructure.NodeVisit{datastructure.NewDepotVisit(0, 0, 0, 0, tw)}
	for id := 1; id < len(testCoordinates); id++ {
		visits = append(visits, datastructure.NewRequestVisit(id, id, id, testCoordinates[id][0],
			testCoordinates[id][1], []float64{float64(id), 1}, 1, tw))
	}
	fleet := datastructure.NewHomogeneousFleet(2, datastructure.NewVehicle(0, "van", 10, 1, 1, 100, 100))
	inst, err := datastructure.NewInstance(visits, fleet)
	require.NoError(t, err)
	return testFixture{
		inst:    inst,
		vehicle: fleet.GetVehicle(0),
		costFn:  costfunction.NewArcCostFunction(costfunction.NewEuclidean()),
	}
}

func (f testFixture) node(id int) *datastructure.NodeVisit {
	return f.inst.GetNodeVisit(id)
}

func (f testFixture) nodes(ids ...int) []*datastructure.NodeVisit {
	nodes := make([]*datastructure.NodeVisit, len(ids))
	for i, id := range ids {
		nodes[i] = f.node(id)
	}
	return nodes
}

func (f testFixture) arc(a, b int) float64 {
	return f.costFn.GetCost(f.node(a), f.node(b), f.vehicle)
}

func (f testFixture) pathCost(ids ...int) float64 {
	cost := 0.0
	for k := 1; k < len(ids); k++ {
		cost += f.arc(ids[k-1], ids[k])
	}
	return cost
}

// newRoutes returns one empty route per storage strategy, the tour included.
func (f testFixture) newRoutes(t *testing.T) map[string]Route {
	t.Helper()
	routes := make(map[string]Route)
	for _, s := range []pkg.Strategy{pkg.ARRAY, pkg.LINKED, pkg.DOUBLY_LINKED} {
		r, err := NewRoute(s, f.inst, f.vehicle, f.costFn)
		require.NoError(t, err)
		routes[s.String()] = r
	}
	perm := datastructure.NewGiantPermutation(f.inst, false)
	routes[pkg.GIANT_PERMUTATION.String()] = NewTour(perm, f.vehicle, f.costFn)
	return routes
}

// assertConsistent checks that the maintained cost and loads match a full recomputation.
func assertConsistent(t *testing.T, r Route) {
	t.Helper()
	cost := r.GetCost()
	loads := r.GetLoads()
	r.CalculateCost(true)
	r.CalculateLoad(true)
	require.InDelta(t, r.GetCost(), cost, 1e-9, "cost of %s (%s)", r.GetNodeSeqString(), r.GetStrategy())
	require.InDeltaSlice(t, r.GetLoads(), loads, 1e-9, "loads of %s (%s)", r.GetNodeSeqString(), r.GetStrategy())
}
