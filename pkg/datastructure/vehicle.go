package datastructure

import (
	"fmt"
	"math"
)

type Vehicle struct {
	id           int
	name         string
	capacities   []float64
	fixedCost    float64
	variableCost float64
	speed        float64
}

func NewVehicle(id int, name string, fixedCost, variableCost, speed float64, capacities ...float64) *Vehicle {
	c := make([]float64, len(capacities))
	copy(c, capacities)
	if speed <= 0 {
		speed = 1
	}
	return &Vehicle{
		id:           id,
		name:         name,
		capacities:   c,
		fixedCost:    fixedCost,
		variableCost: variableCost,
		speed:        speed,
	}
}

// Clone copies the vehicle under a new id, used to build a homogeneous fleet.
func (v *Vehicle) Clone(id int) *Vehicle {
	return NewVehicle(id, v.name, v.fixedCost, v.variableCost, v.speed, v.capacities...)
}

func (v *Vehicle) GetID() int {
	return v.id
}

func (v *Vehicle) GetName() string {
	return v.name
}

func (v *Vehicle) GetCapacity(product int) float64 {
	return v.capacities[product]
}

func (v *Vehicle) GetCompartmentCount() int {
	return len(v.capacities)
}

func (v *Vehicle) GetFixedCost() float64 {
	return v.fixedCost
}

func (v *Vehicle) GetVariableCost() float64 {
	return v.variableCost
}

func (v *Vehicle) GetSpeed() float64 {
	return v.speed
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("[%d %s cap:%v cf:%v cv:%v s:%v]", v.id, v.name, v.capacities, v.fixedCost, v.variableCost,
		v.speed)
}

type Fleet struct {
	vehicles    []*Vehicle
	homogeneous bool
	size        int
}

func NewHomogeneousFleet(size int, base *Vehicle) *Fleet {
	vehicles := make([]*Vehicle, size)
	for i := 0; i < size; i++ {
		vehicles[i] = base.Clone(i)
	}
	return &Fleet{vehicles: vehicles, homogeneous: true, size: size}
}

// NewHeterogeneousFleet expects vehicle ids 0..n-1, vehicles are stored by id.
func NewHeterogeneousFleet(vehicles []*Vehicle) (*Fleet, error) {
	byID := make([]*Vehicle, len(vehicles))
	for _, v := range vehicles {
		if v.id < 0 || v.id >= len(vehicles) || byID[v.id] != nil {
			return nil, fmt.Errorf("vehicle ids must be a permutation of 0..%d, got %d", len(vehicles)-1, v.id)
		}
		byID[v.id] = v
	}
	return &Fleet{vehicles: byID, size: len(vehicles)}, nil
}

func NewUnlimitedFleet(base *Vehicle) *Fleet {
	return &Fleet{vehicles: []*Vehicle{base}, homogeneous: true, size: math.MaxInt}
}

func (f *Fleet) IsUnlimited() bool {
	return f.size == math.MaxInt
}

func (f *Fleet) IsHomogeneous() bool {
	return f.homogeneous
}

func (f *Fleet) GetVehicle(id int) *Vehicle {
	if f.IsUnlimited() {
		return f.vehicles[0]
	}
	return f.vehicles[id]
}

func (f *Fleet) Size() int {
	return f.size
}
