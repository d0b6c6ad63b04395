package route

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// NodeInsertion is the cheapest place found to insert a node in a route.
type NodeInsertion struct {
	node     *datastructure.NodeVisit
	cost     float64
	position int
	route    Route
}

func NewNodeInsertion(node *datastructure.NodeVisit, cost float64, position int, route Route) NodeInsertion {
	return NodeInsertion{node: node, cost: cost, position: position, route: route}
}

// NewInfeasibleInsertion is returned when no gap of the route can receive the node.
func NewInfeasibleInsertion(node *datastructure.NodeVisit, route Route) NodeInsertion {
	return NodeInsertion{node: node, cost: math.Inf(1), position: pkg.UNDEFINED, route: route}
}

func (ins NodeInsertion) GetNode() *datastructure.NodeVisit {
	return ins.node
}

func (ins NodeInsertion) GetCost() float64 {
	return ins.cost
}

func (ins NodeInsertion) GetPosition() int {
	return ins.position
}

func (ins NodeInsertion) GetRoute() Route {
	return ins.route
}

func (ins NodeInsertion) IsFeasible() bool {
	return ins.position >= 0 && !math.IsInf(ins.cost, 0) && !math.IsNaN(ins.cost)
}

func (ins NodeInsertion) String() string {
	return fmt.Sprintf("ins(%v@%d:%.2f)", ins.node, ins.position, ins.cost)
}
