package route

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

func TestAppendAndRead(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNode(f.node(0)))
			require.NoError(t, r.AppendNodes(f.nodes(1, 2, 3)))

			assert.Equal(t, 4, r.Length())
			assert.Equal(t, []int{0, 1, 2, 3}, r.GetNodeIDs())
			assert.InDelta(t, f.pathCost(0, 1, 2, 3), r.GetCost(), 1e-9)
			assert.Equal(t, []float64{6, 3}, r.GetLoads())
			assert.Equal(t, 0, r.GetFirstNode().GetID())
			assert.Equal(t, 3, r.GetLastNode().GetID())
			assert.Equal(t, 2, r.GetNodePosition(f.node(2)))
			assert.Equal(t, pkg.UNDEFINED, r.GetNodePosition(f.node(5)))
			assert.True(t, r.Contains(f.node(3)))
			assert.False(t, r.Contains(f.node(4)))

			n, err := r.GetNodeAt(2)
			require.NoError(t, err)
			assert.Equal(t, 2, n.GetID())

			sub, err := r.Subroute(1, 3)
			require.NoError(t, err)
			assert.Equal(t, f.nodes(1, 2, 3), sub)

			assert.Equal(t, "<0,1,2,3>", r.GetNodeSeqString())
			assert.Contains(t, r.String(), "length:4 load:[6 3] <0,1,2,3>")
			assertConsistent(t, r)
		})
	}
}

func TestIndexBounds(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2)))

			testCases := []struct {
				name string
				op   func() error
			}{
				{"node at length", func() error { _, err := r.GetNodeAt(3); return err }},
				{"negative node", func() error { _, err := r.GetNodeAt(-1); return err }},
				{"subroute start after end", func() error { _, err := r.Subroute(2, 1); return err }},
				{"insert after length", func() error { return r.InsertNode(4, f.node(3)) }},
				{"set at length", func() error { _, err := r.SetNodeAt(3, f.node(3)); return err }},
				{"extract at length", func() error { _, err := r.ExtractNode(3); return err }},
				{"extract nodes past the end", func() error { _, err := r.ExtractNodes(1, 3); return err }},
				{"swap out of range", func() error { return r.SwapNodes(0, 3) }},
				{"reverse out of range", func() error { return r.ReverseSubRoute(1, 5) }},
				{"best insertion range", func() error {
					_, err := r.GetBestNodeInsertionBetween(f.node(3), 2, 4)
					return err
				}},
			}
			for _, tt := range testCases {
				t.Run(tt.name, func(t *testing.T) {
					assert.ErrorIs(t, tt.op(), util.ErrOutOfRange)
				})
			}
			assert.Equal(t, []int{0, 1, 2}, r.GetNodeIDs())

			require.NoError(t, r.InsertNode(3, f.node(3)))
			assert.Equal(t, []int{0, 1, 2, 3}, r.GetNodeIDs())
		})
	}
}

func TestInsertNodeUsesNodeAtIndexAsSuccessor(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3)))
			require.NoError(t, r.InsertNode(2, f.node(4)))
			assert.Equal(t, []int{0, 1, 4, 2, 3}, r.GetNodeIDs())
			assert.InDelta(t, f.pathCost(0, 1, 4, 2, 3), r.GetCost(), 1e-9)

			require.NoError(t, r.InsertNode(0, f.node(5)))
			require.NoError(t, r.InsertNode(r.Length(), f.node(6)))
			assert.Equal(t, []int{5, 0, 1, 4, 2, 3, 6}, r.GetNodeIDs())
			assertConsistent(t, r)
		})
	}
}

// append [1,2,3], extract index 1, insert 4 at index 1, reverse [0,1]
func TestCrossStrategyEquivalence(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(1, 2, 3)))
			n, err := r.ExtractNode(1)
			require.NoError(t, err)
			assert.Equal(t, 2, n.GetID())
			require.NoError(t, r.InsertNode(1, f.node(4)))
			require.NoError(t, r.ReverseSubRoute(0, 1))

			assert.Equal(t, []int{4, 1, 3}, r.GetNodeIDs())
			assert.InDelta(t, f.pathCost(4, 1, 3), r.GetCost(), 1e-9)
			assert.Equal(t, []float64{8, 3}, r.GetLoads())
			assertConsistent(t, r)
		})
	}
}

func TestExtractInsertRoundTrip(t *testing.T) {
	f := newTestFixture(t)
	testCases := []struct {
		name       string
		start, end int
	}{
		{"head", 0, 1},
		{"middle", 1, 3},
		{"tail", 3, 5},
		{"single", 2, 2},
		{"whole route", 0, 5},
	}
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 4, 5)))
			ids := r.GetNodeIDs()
			cost := r.GetCost()
			for _, tt := range testCases {
				t.Run(tt.name, func(t *testing.T) {
					sub, err := r.Subroute(tt.start, tt.end)
					require.NoError(t, err)
					extracted, err := r.ExtractNodes(tt.start, tt.end)
					require.NoError(t, err)
					assert.Equal(t, sub, extracted)
					assert.Equal(t, len(ids)-len(sub), r.Length())
					assertConsistent(t, r)

					require.NoError(t, r.InsertNodes(tt.start, extracted))
					assert.Equal(t, ids, r.GetNodeIDs())
					assert.InDelta(t, cost, r.GetCost(), 1e-9)
					assertConsistent(t, r)
				})
			}
		})
	}
}

func TestExtractSubroute(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 4)))
			sub, err := r.ExtractSubroute(1, 3)
			require.NoError(t, err)

			expected := r.GetStrategy()
			if expected == pkg.GIANT_PERMUTATION {
				expected = pkg.ARRAY
			}
			assert.Equal(t, expected, sub.GetStrategy())
			assert.Equal(t, []int{1, 2, 3}, sub.GetNodeIDs())
			assert.InDelta(t, f.pathCost(1, 2, 3), sub.GetCost(), 1e-9)
			assert.Equal(t, []float64{6, 3}, sub.GetLoads())
			assert.Equal(t, []int{0, 4}, r.GetNodeIDs())
			assertConsistent(t, r)
			assertConsistent(t, sub)

			require.NoError(t, r.InsertSubroute(1, sub))
			assert.Equal(t, []int{0, 1, 2, 3, 4}, r.GetNodeIDs())
			assertConsistent(t, r)
		})
	}
}

func TestDoubleReversalIdentity(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 4, 5, 6)))
			ids := r.GetNodeIDs()
			r.CalculateCost(true)
			cost := r.GetCost()

			require.NoError(t, r.ReverseSubRoute(1, 4))
			assert.Equal(t, []int{0, 4, 3, 2, 1, 5, 6}, r.GetNodeIDs())
			assertConsistent(t, r)

			require.NoError(t, r.ReverseSubRoute(1, 4))
			r.CalculateCost(true)
			assert.Equal(t, ids, r.GetNodeIDs())
			assert.InDelta(t, cost, r.GetCost(), 1e-9)

			r.ReverseRoute()
			assert.Equal(t, []int{6, 5, 4, 3, 2, 1, 0}, r.GetNodeIDs())
			assertConsistent(t, r)
		})
	}
}

func TestReversalWithAsymmetricCosts(t *testing.T) {
	f := newTestFixture(t)
	n := len(testCoordinates)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = float64(i*n + j + 1)
			}
		}
	}
	dm, err := costfunction.NewDistanceMatrix(dist)
	require.NoError(t, err)
	f.costFn = costfunction.NewArcCostFunction(dm)

	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 4, 5)))
			require.NoError(t, r.ReverseSubRoute(1, 3))
			assert.InDelta(t, f.pathCost(0, 3, 2, 1, 4, 5), r.GetCost(), 1e-9)
			require.NoError(t, r.ReverseSubRoute(0, 5))
			assert.InDelta(t, f.pathCost(5, 4, 1, 2, 3, 0), r.GetCost(), 1e-9)
			assertConsistent(t, r)
		})
	}
}

func TestSwapNodes(t *testing.T) {
	f := newTestFixture(t)
	testCases := []struct {
		name     string
		i, j     int
		expected []int
	}{
		{"adjacent", 1, 2, []int{0, 2, 1, 3, 4, 5}},
		{"adjacent reversed arguments", 2, 1, []int{0, 2, 1, 3, 4, 5}},
		{"one node apart", 1, 3, []int{0, 3, 2, 1, 4, 5}},
		{"far apart", 1, 4, []int{0, 4, 2, 3, 1, 5}},
		{"route ends", 0, 5, []int{5, 1, 2, 3, 4, 0}},
		{"first two", 0, 1, []int{1, 0, 2, 3, 4, 5}},
		{"last two", 4, 5, []int{0, 1, 2, 3, 5, 4}},
		{"same position", 3, 3, []int{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			for name, r := range f.newRoutes(t) {
				t.Run(name, func(t *testing.T) {
					require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3, 4, 5)))
					require.NoError(t, r.SwapNodes(tt.i, tt.j))
					assert.Equal(t, tt.expected, r.GetNodeIDs())
					assert.InDelta(t, f.pathCost(tt.expected...), r.GetCost(), 1e-9)
					assertConsistent(t, r)
				})
			}
		})
	}
}

func TestSetNodeAtAndRemove(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3)))

			old, err := r.SetNodeAt(2, f.node(6))
			require.NoError(t, err)
			assert.Equal(t, 2, old.GetID())
			assert.Equal(t, []int{0, 1, 6, 3}, r.GetNodeIDs())
			assert.Equal(t, []float64{10, 3}, r.GetLoads())
			assertConsistent(t, r)

			old, err = r.SetNodeAt(2, f.node(6))
			require.NoError(t, err)
			assert.Equal(t, 6, old.GetID())

			assert.True(t, r.RemoveNode(f.node(1)))
			assert.False(t, r.RemoveNode(f.node(1)))
			assert.Equal(t, []int{0, 6, 3}, r.GetNodeIDs())
			assertConsistent(t, r)

			n, err := r.ExtractNode(r.Length() - 1)
			require.NoError(t, err)
			assert.Equal(t, 3, n.GetID())
			n, err = r.ExtractNode(0)
			require.NoError(t, err)
			assert.Equal(t, 0, n.GetID())
			assert.Equal(t, []int{6}, r.GetNodeIDs())
			assert.InDelta(t, 0, r.GetCost(), 1e-9)
			assertConsistent(t, r)
		})
	}
}

func TestDuplicateRejection(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2)))

			assert.ErrorIs(t, r.AppendNode(f.node(1)), util.ErrDuplicateNode)
			assert.ErrorIs(t, r.InsertNode(0, f.node(2)), util.ErrDuplicateNode)
			assert.ErrorIs(t, r.InsertNodes(1, f.nodes(3, 3)), util.ErrDuplicateNode)
			_, err := r.SetNodeAt(1, f.node(2))
			assert.ErrorIs(t, err, util.ErrDuplicateNode)
			assert.Equal(t, []int{0, 1, 2}, r.GetNodeIDs())

			// a depot may be visited twice
			require.NoError(t, r.AppendNode(f.node(0)))
			assert.ErrorIs(t, r.AppendNode(f.node(0)), util.ErrDuplicateNode)
			assert.ErrorIs(t, r.InsertNode(1, f.node(0)), util.ErrDuplicateNode)

			assert.Equal(t, []int{0, 1, 2, 0}, r.GetNodeIDs())
			assert.InDelta(t, f.pathCost(0, 1, 2, 0), r.GetCost(), 1e-9)
			assertConsistent(t, r)

			// once an occurrence leaves, the depot can come back
			_, err = r.ExtractNode(0)
			require.NoError(t, err)
			require.NoError(t, r.InsertNode(1, f.node(0)))
			assert.Equal(t, []int{1, 0, 2, 0}, r.GetNodeIDs())
			assertConsistent(t, r)
		})
	}
}

func TestDuplicateDepotCountsAsDepotOccurrence(t *testing.T) {
	f := newTestFixture(t)
	dup := f.node(0).DuplicateDepot(f.inst.DepotDuplicateID(0))
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1)))
			require.NoError(t, r.AppendNode(dup))
			assert.Equal(t, []int{0, 1, 0}, r.GetNodeIDs())
			assert.True(t, r.Contains(dup))
			assert.Equal(t, 0, r.GetNodePosition(dup))
			assert.InDelta(t, f.pathCost(0, 1, 0), r.GetCost(), 1e-9)

			// the duplicate already took the second depot occurrence
			assert.ErrorIs(t, r.AppendNode(f.node(0)), util.ErrDuplicateNode)
			assert.ErrorIs(t, r.InsertNode(1, dup), util.ErrDuplicateNode)
			assert.Equal(t, []int{0, 1, 0}, r.GetNodeIDs())
			assertConsistent(t, r)

			// a duplicate batch is checked as a whole
			_, err := r.ExtractNodes(0, r.Length()-1)
			require.NoError(t, err)
			assert.ErrorIs(t, r.AppendNodes([]*datastructure.NodeVisit{f.node(0), dup, f.node(0)}),
				util.ErrDuplicateNode)
			assert.Equal(t, 0, r.Length())
			require.NoError(t, r.AppendNodes([]*datastructure.NodeVisit{dup, f.node(2), f.node(0)}))
			assert.Equal(t, []int{0, 2, 0}, r.GetNodeIDs())
			assertConsistent(t, r)
		})
	}
}

func TestBestNodeInsertion(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			ins := r.GetBestNodeInsertion(f.node(1))
			assert.Equal(t, 0, ins.GetPosition())
			assert.Equal(t, 0.0, ins.GetCost())

			// a lone fixed depot is followed by the node
			require.NoError(t, r.AppendNode(f.node(0)))
			ins = r.GetBestNodeInsertion(f.node(1))
			assert.Equal(t, 1, ins.GetPosition())
			assert.InDelta(t, f.arc(0, 1), ins.GetCost(), 1e-9)
			assert.True(t, ins.IsFeasible())

			// <0,2>: the last node is free, position 1 and 2 compete
			require.NoError(t, r.AppendNode(f.node(2)))
			ins = r.GetBestNodeInsertion(f.node(3))
			assert.Equal(t, 2, ins.GetPosition())
			assert.InDelta(t, f.arc(2, 3), ins.GetCost(), 1e-9)

			// <0,2,0>: the terminal depot is fixed, equal costs keep the lowest position
			require.NoError(t, r.AppendNode(f.node(0)))
			ins = r.GetBestNodeInsertion(f.node(1))
			assert.Equal(t, 1, ins.GetPosition())
			assert.InDelta(t, f.arc(0, 1)+f.arc(1, 2)-f.arc(0, 2), ins.GetCost(), 1e-9)

			ins = r.GetBestNodeInsertion(f.node(6))
			assert.NotEqual(t, r.Length(), ins.GetPosition())
			assert.NotEqual(t, 0, ins.GetPosition())

			// a single gap is evaluated as is, anchored on the boundary nodes
			ins, err := r.GetBestNodeInsertionBetween(f.node(6), 3, 3)
			require.NoError(t, err)
			assert.Equal(t, 3, ins.GetPosition())
			assert.InDelta(t, f.arc(0, 6), ins.GetCost(), 1e-9)
			ins, err = r.GetBestNodeInsertionBetween(f.node(6), 0, 0)
			require.NoError(t, err)
			assert.InDelta(t, f.arc(6, 0), ins.GetCost(), 1e-9)
			ins, err = r.GetBestNodeInsertionBetween(f.node(6), 2, 2)
			require.NoError(t, err)
			assert.InDelta(t, f.arc(2, 6)+f.arc(6, 0)-f.arc(2, 0), ins.GetCost(), 1e-9)

			ins, err = r.BestInsertion(f.node(6))
			require.NoError(t, err)
			assert.Equal(t, 4, r.Length())
			assert.Equal(t, 6, r.GetNodeIDs()[ins.GetPosition()])
			assertConsistent(t, r)
		})
	}
}

func TestBestInsertionInfeasible(t *testing.T) {
	f := newTestFixture(t)
	n := len(testCoordinates)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i == 7 || j == 7 {
				dist[i][j] = math.Inf(1)
			}
		}
	}
	dm, err := costfunction.NewDistanceMatrix(dist)
	require.NoError(t, err)
	f.costFn = costfunction.NewArcCostFunction(dm)

	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 0)))
			ins, err := r.BestInsertion(f.node(7))
			assert.ErrorIs(t, err, util.ErrNoFeasibleInsertion)
			assert.False(t, ins.IsFeasible())
			assert.Equal(t, []int{0, 1, 2, 0}, r.GetNodeIDs())
			assert.ErrorIs(t, r.InsertNodeAt(ins), util.ErrNoFeasibleInsertion)
		})
	}
}

func TestInsertNodeAtUsesRecordedCost(t *testing.T) {
	f := newTestFixture(t)
	routes := f.newRoutes(t)
	r, other := routes[pkg.ARRAY.String()], routes[pkg.LINKED.String()]
	require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2)))

	require.NoError(t, r.InsertNodeAt(NewNodeInsertion(f.node(3), 42, 1, r)))
	assert.Same(t, r, r.GetBestNodeInsertion(f.node(5)).GetRoute())
	assert.Equal(t, []int{0, 3, 1, 2}, r.GetNodeIDs())
	assert.InDelta(t, f.pathCost(0, 1, 2)+42, r.GetCost(), 1e-9)

	assert.ErrorIs(t, r.InsertNodeAt(NewNodeInsertion(f.node(4), 1, 1, other)), util.ErrBadParamInput)
}

func TestCanAccommodate(t *testing.T) {
	f := newTestFixture(t)
	v := datastructure.NewVehicle(0, "small", 0, 1, 1, 10, 3)
	r := NewArrayRoute(v, f.costFn)
	require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2)))

	// loads [3 2], capacities [10 3]
	assert.True(t, r.CanAccommodate(f.node(7)))
	assert.True(t, r.CanAccommodate(f.node(0)))
	require.NoError(t, r.AppendNode(f.node(3)))
	assert.False(t, r.CanAccommodate(f.node(4)))
}

func TestCostDelegate(t *testing.T) {
	f := newTestFixture(t)
	r := NewLinkedRoute(f.vehicle, f.costFn)
	require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2)))
	r.UpdateCost(100)

	assert.ErrorIs(t, r.SetCostDelegate(nil), util.ErrBadParamInput)
	require.NoError(t, r.SetCostDelegate(NewDefaultRouteCostDelegate(f.costFn)))
	assert.InDelta(t, f.pathCost(0, 1, 2), r.GetCost(), 1e-9)
}

func TestClone(t *testing.T) {
	f := newTestFixture(t)
	for name, r := range f.newRoutes(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.AppendNodes(f.nodes(0, 1, 2, 3)))
			c := r.Clone()
			require.NoError(t, c.AppendNode(f.node(4)))

			assert.Equal(t, []int{0, 1, 2, 3}, r.GetNodeIDs())
			assert.Equal(t, []int{0, 1, 2, 3, 4}, c.GetNodeIDs())
			assert.InDelta(t, f.pathCost(0, 1, 2, 3), r.GetCost(), 1e-9)
			assertConsistent(t, c)
		})
	}
}

type randomMove func(t *testing.T, r Route) error

// TestRandomMovesConsistency applies the same random move sequence to every strategy and checks the sequences
// agree and the maintained cost and loads match a full recomputation after every move.
func TestRandomMovesConsistency(t *testing.T) {
	f := newTestFixture(t)
	rng := rand.New(rand.NewSource(7))
	routes := f.newRoutes(t)
	names := []string{"array", "linked", "doubly_linked", "giant_permutation"}

	for name := range routes {
		require.NoError(t, routes[name].AppendNodes(f.nodes(0, 1, 2, 0)))
	}

	for step := 0; step < 400; step++ {
		ref := routes[names[0]]
		length := ref.Length()
		absent := make([]*datastructure.NodeVisit, 0)
		for id := 1; id < len(testCoordinates); id++ {
			if !ref.Contains(f.node(id)) {
				absent = append(absent, f.node(id))
			}
		}

		var move randomMove
		switch op := rng.Intn(8); {
		case op == 0 && len(absent) > 0:
			n := absent[rng.Intn(len(absent))]
			move = func(t *testing.T, r Route) error { return r.AppendNode(n) }
		case op == 1 && len(absent) > 0:
			n, i := absent[rng.Intn(len(absent))], rng.Intn(length+1)
			move = func(t *testing.T, r Route) error { return r.InsertNode(i, n) }
		case op == 2 && length > 2:
			i := rng.Intn(length)
			move = func(t *testing.T, r Route) error { _, err := r.ExtractNode(i); return err }
		case op == 3 && length > 1:
			i, j := rng.Intn(length), rng.Intn(length)
			move = func(t *testing.T, r Route) error { return r.SwapNodes(i, j) }
		case op == 4 && length > 1:
			i, j := rng.Intn(length), rng.Intn(length)
			if i > j {
				i, j = j, i
			}
			move = func(t *testing.T, r Route) error { return r.ReverseSubRoute(i, j) }
		case op == 5 && len(absent) > 0 && length > 0:
			n, i := absent[rng.Intn(len(absent))], rng.Intn(length)
			move = func(t *testing.T, r Route) error { _, err := r.SetNodeAt(i, n); return err }
		case op == 6 && length > 3:
			i := rng.Intn(length - 1)
			j := i + rng.Intn(util.MinInt(3, length-i))
			to := rng.Intn(length - (j - i + 1) + 1)
			move = func(t *testing.T, r Route) error {
				nodes, err := r.ExtractNodes(i, j)
				if err != nil {
					return err
				}
				return r.InsertNodes(to, nodes)
			}
		case op == 7 && len(absent) > 0:
			n := absent[rng.Intn(len(absent))]
			move = func(t *testing.T, r Route) error { _, err := r.BestInsertion(n); return err }
		default:
			continue
		}

		for _, name := range names {
			require.NoError(t, move(t, routes[name]), "step %d on %s", step, name)
		}
		for _, name := range names[1:] {
			require.Equal(t, ref.GetNodeIDs(), routes[name].GetNodeIDs(), "step %d on %s", step, name)
			require.InDelta(t, ref.GetCost(), routes[name].GetCost(), 1e-6, "step %d on %s", step, name)
		}
		for _, name := range names {
			assertConsistent(t, routes[name])
		}
	}
}
