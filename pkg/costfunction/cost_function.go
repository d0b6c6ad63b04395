package costfunction

import (
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// DistanceFunction is the distance model between two visits.
type DistanceFunction interface {
	GetDistance(origin, destination *datastructure.NodeVisit) float64
}

// CostFunction computes arc and insertion costs for a vehicle. Routes only depend on this interface.
type CostFunction interface {
	GetDistance(origin, destination *datastructure.NodeVisit) float64
	GetCost(origin, destination *datastructure.NodeVisit, vehicle *datastructure.Vehicle) float64
	GetTravelTime(origin, destination *datastructure.NodeVisit, vehicle *datastructure.Vehicle) float64
	// GetInsertionCost of node between pred and succ. A nil pred or succ drops the corresponding arcs.
	GetInsertionCost(node, pred, succ *datastructure.NodeVisit, vehicle *datastructure.Vehicle) float64
}

type ArcCostFunction struct {
	distance  DistanceFunction
	precision uint
	rounded   bool
}

func NewArcCostFunction(distance DistanceFunction) *ArcCostFunction {
	return &ArcCostFunction{distance: distance}
}

// SetPrecision rounds every distance to the given number of decimals.
func (cf *ArcCostFunction) SetPrecision(precision uint) {
	cf.precision = precision
	cf.rounded = true
}

func (cf *ArcCostFunction) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	d := cf.distance.GetDistance(origin, destination)
	if cf.rounded {
		return util.RoundFloat(d, cf.precision)
	}
	return d
}

func (cf *ArcCostFunction) GetCost(origin, destination *datastructure.NodeVisit,
	vehicle *datastructure.Vehicle) float64 {
	return cf.GetDistance(origin, destination) * vehicle.GetVariableCost()
}

func (cf *ArcCostFunction) GetTravelTime(origin, destination *datastructure.NodeVisit,
	vehicle *datastructure.Vehicle) float64 {
	return cf.GetDistance(origin, destination) / vehicle.GetSpeed()
}

func (cf *ArcCostFunction) GetInsertionCost(node, pred, succ *datastructure.NodeVisit,
	vehicle *datastructure.Vehicle) float64 {
	return InsertionCost(cf, node, pred, succ, vehicle)
}

// InsertionCost is cost(pred,node)+cost(node,succ)-cost(pred,succ), dropping arcs with a nil end.
func InsertionCost(cf CostFunction, node, pred, succ *datastructure.NodeVisit, vehicle *datastructure.Vehicle) float64 {
	delta := 0.0
	if pred != nil {
		delta += cf.GetCost(pred, node, vehicle)
	}
	if succ != nil {
		delta += cf.GetCost(node, succ, vehicle)
	}
	if pred != nil && succ != nil {
		delta -= cf.GetCost(pred, succ, vehicle)
	}
	return delta
}
