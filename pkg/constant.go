package pkg

import "math"

// enum of route storage strategy
type Strategy uint8

const (
	ARRAY Strategy = iota
	LINKED
	DOUBLY_LINKED
	GIANT_PERMUTATION // tour view over a solution-wide permutation
)

const (
	// UNDEFINED replaces nil in every id-indexed array (pred, succ, visiting vehicle).
	UNDEFINED = -1

	INF_WEIGHT     float64 = 1e15
	ZERO_TOLERANCE float64 = 1e-5

	DEFAULT_COST_CACHE_SIZE = 1 << 16 // 65536 arcs
)

// NA marks derived per-node state (cumulative cost, arrival times) of a node that is not assigned to a tour.
var NA = math.NaN()

const (
	DEBUG = false
)

func (s Strategy) String() string {
	switch s {
	case ARRAY:
		return "array"
	case LINKED:
		return "linked"
	case DOUBLY_LINKED:
		return "doubly_linked"
	case GIANT_PERMUTATION:
		return "giant_permutation"
	default:
		return "unknown"
	}
}

func GetStrategy(name string) (Strategy, bool) {
	switch name {
	case "array":
		return ARRAY, true
	case "linked":
		return LINKED, true
	case "doubly_linked", "doubly":
		return DOUBLY_LINKED, true
	case "giant_permutation", "tour":
		return GIANT_PERMUTATION, true
	default:
		return ARRAY, false
	}
}
