package costfunction

import (
	"fmt"

	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/geo"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// DistanceMatrix is a dense, possibly asymmetric, matrix indexed by node location.
type DistanceMatrix struct {
	dist [][]float64
}

func NewDistanceMatrix(dist [][]float64) (*DistanceMatrix, error) {
	for i, row := range dist {
		if len(row) != len(dist) {
			return nil, fmt.Errorf("distance matrix is not square: row %d has %d columns, expected %d", i, len(row),
				len(dist))
		}
	}
	return &DistanceMatrix{dist: dist}, nil
}

func (dm *DistanceMatrix) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	return dm.dist[origin.GetLocation()][destination.GetLocation()]
}

func (dm *DistanceMatrix) Size() int {
	return len(dm.dist)
}

// Euclidean treats node lat/lon as planar y/x coordinates.
type Euclidean struct{}

func NewEuclidean() *Euclidean {
	return &Euclidean{}
}

func (e *Euclidean) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	return geo.At(origin).Planar(geo.At(destination))
}

// Haversine is the haversine distance in km between node coordinates given in degrees.
type Haversine struct{}

func NewHaversine() *Haversine {
	return &Haversine{}
}

func (h *Haversine) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	return geo.At(origin).Haversine(geo.At(destination))
}

// GreatCircle is the great-circle distance in km on the s2 sphere, for coordinates given in degrees.
type GreatCircle struct{}

func NewGreatCircle() *GreatCircle {
	return &GreatCircle{}
}

func (g *GreatCircle) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	return geo.At(origin).GreatCircle(geo.At(destination))
}

// Equirectangular approximates the distance in km with an equirectangular projection, accurate for short arcs.
type Equirectangular struct{}

func NewEquirectangular() *Equirectangular {
	return &Equirectangular{}
}

func (e *Equirectangular) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	return geo.At(origin).Equirectangular(geo.At(destination))
}

// NewDistanceFunction returns the coordinate based distance model registered under name.
func NewDistanceFunction(name string) (DistanceFunction, error) {
	switch name {
	case "euclidean":
		return NewEuclidean(), nil
	case "haversine":
		return NewHaversine(), nil
	case "great_circle":
		return NewGreatCircle(), nil
	case "equirectangular":
		return NewEquirectangular(), nil
	default:
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unknown distance function %q", name)
	}
}
