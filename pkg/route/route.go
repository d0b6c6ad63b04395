package route

import (
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// Route is the ordered sequence of node visits served by one vehicle, with its cost and per-compartment load.
// Index arguments are positions in the sequence; insertion-style indexes also accept Length().
type Route interface {
	GetVehicle() *datastructure.Vehicle
	GetStrategy() pkg.Strategy
	Length() int

	GetCost() float64
	GetLoad(product int) float64
	GetLoads() []float64
	UpdateCost(delta float64)
	UpdateLoad(product int, delta float64)
	CalculateCost(force bool)
	CalculateLoad(force bool)
	CanAccommodate(node *datastructure.NodeVisit) bool

	GetFirstNode() *datastructure.NodeVisit
	GetLastNode() *datastructure.NodeVisit
	GetNodeAt(index int) (*datastructure.NodeVisit, error)
	GetNodePosition(node *datastructure.NodeVisit) int
	Contains(node *datastructure.NodeVisit) bool
	Subroute(start, end int) ([]*datastructure.NodeVisit, error)
	GetNodeSequence() []*datastructure.NodeVisit
	GetNodeIDs() []int

	AppendNode(node *datastructure.NodeVisit) error
	AppendNodes(nodes []*datastructure.NodeVisit) error
	AppendRoute(other Route) error
	InsertNode(index int, node *datastructure.NodeVisit) error
	InsertNodeAt(ins NodeInsertion) error
	InsertNodes(index int, nodes []*datastructure.NodeVisit) error
	InsertSubroute(index int, subroute Route) error
	SetNodeAt(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error)
	ExtractNode(index int) (*datastructure.NodeVisit, error)
	ExtractNodes(start, end int) ([]*datastructure.NodeVisit, error)
	ExtractSubroute(start, end int) (Route, error)
	RemoveNode(node *datastructure.NodeVisit) bool
	SwapNodes(i, j int) error
	ReverseSubRoute(start, end int) error
	ReverseRoute()

	GetBestNodeInsertion(node *datastructure.NodeVisit) NodeInsertion
	GetBestNodeInsertionBetween(node *datastructure.NodeVisit, min, max int) (NodeInsertion, error)
	BestInsertion(node *datastructure.NodeVisit) (NodeInsertion, error)

	GetCostDelegate() RouteCostDelegate
	SetCostDelegate(delegate RouteCostDelegate) error

	Clone() Route
	String() string
	GetNodeSeqString() string
}

// NewRoute builds an empty route backed by the given storage strategy.
// inst is only required by DOUBLY_LINKED, which sizes its arrays on the instance slot count.
func NewRoute(strategy pkg.Strategy, inst *datastructure.Instance, vehicle *datastructure.Vehicle,
	costFn costfunction.CostFunction) (*Engine, error) {
	switch strategy {
	case pkg.ARRAY:
		return NewArrayRoute(vehicle, costFn), nil
	case pkg.LINKED:
		return NewLinkedRoute(vehicle, costFn), nil
	case pkg.DOUBLY_LINKED:
		if inst == nil {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "doubly linked route requires an instance")
		}
		return NewDoublyLinkedRoute(inst, vehicle, costFn), nil
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unsupported route strategy: %v", strategy)
	}
}

func NewArrayRoute(vehicle *datastructure.Vehicle, costFn costfunction.CostFunction) *Engine {
	return newEngine(vehicle, costFn, newArrayStorage(0))
}

func NewLinkedRoute(vehicle *datastructure.Vehicle, costFn costfunction.CostFunction) *Engine {
	return newEngine(vehicle, costFn, newLinkedStorage())
}

func NewDoublyLinkedRoute(inst *datastructure.Instance, vehicle *datastructure.Vehicle,
	costFn costfunction.CostFunction) *Engine {
	return newEngine(vehicle, costFn, newDoublyLinkedStorage(inst))
}
