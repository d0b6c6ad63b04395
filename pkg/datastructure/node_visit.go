package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/vrptour/pkg"
)

type TimeWindow struct {
	start float64
	end   float64
}

func NewTimeWindow(start, end float64) TimeWindow {
	return TimeWindow{start: start, end: end}
}

func (tw TimeWindow) GetStart() float64 {
	return tw.start
}

func (tw TimeWindow) GetEnd() float64 {
	return tw.end
}

func (tw TimeWindow) Contains(t float64) bool {
	return t >= tw.start && t <= tw.end
}

func (tw TimeWindow) Width() float64 {
	return tw.end - tw.start
}

// NodeVisit is one visit to a physical location: a request pickup, a request delivery or a depot occurrence.
// Identity is the id. Depot occurrences after the first carry a duplicate id (see Instance.DepotDuplicateID).
type NodeVisit struct {
	id          int
	originalID  int // id of the visit this one duplicates, id otherwise
	requestID   int // pkg.UNDEFINED for depots
	location    int // index into a distance matrix
	lat         float64
	lon         float64
	demands     []float64
	serviceTime float64
	timeWindow  TimeWindow
	depot       bool
	pickup      bool
	fixed       bool

	predecessors []int // ids that must be visited before this node
	successors   []int // ids that must be visited after this node
}

func NewDepotVisit(id, location int, lat, lon float64, tw TimeWindow) *NodeVisit {
	return &NodeVisit{
		id:         id,
		originalID: id,
		requestID:  pkg.UNDEFINED,
		location:   location,
		lat:        lat,
		lon:        lon,
		timeWindow: tw,
		depot:      true,
		pickup:     true,
		fixed:      true,
	}
}

func NewRequestVisit(id, requestID, location int, lat, lon float64, demands []float64, serviceTime float64,
	tw TimeWindow) *NodeVisit {
	d := make([]float64, len(demands))
	copy(d, demands)
	return &NodeVisit{
		id:          id,
		originalID:  id,
		requestID:   requestID,
		location:    location,
		lat:         lat,
		lon:         lon,
		demands:     d,
		serviceTime: serviceTime,
		timeWindow:  tw,
		pickup:      true,
	}
}

// NewPickupDelivery creates the two visits of an origin-destination request, linked by precedence.
// The delivery carries the same demand, it is unloaded at the destination.
func NewPickupDelivery(pickupID, deliveryID, requestID int, pickupLocation, deliveryLocation int,
	demands []float64, serviceTime float64, pickupTW, deliveryTW TimeWindow) (*NodeVisit, *NodeVisit) {
	p := NewRequestVisit(pickupID, requestID, pickupLocation, 0, 0, demands, serviceTime, pickupTW)
	d := NewRequestVisit(deliveryID, requestID, deliveryLocation, 0, 0, demands, serviceTime, deliveryTW)
	d.pickup = false
	p.successors = append(p.successors, deliveryID)
	d.predecessors = append(d.predecessors, pickupID)
	return p, d
}

// DuplicateDepot returns a copy of a depot visit with an explicit id. The copy keeps the original id of the depot,
// routes count it as another occurrence of that depot.
func (n *NodeVisit) DuplicateDepot(id int) *NodeVisit {
	dup := *n
	dup.id = id
	dup.predecessors = nil
	dup.successors = nil
	return &dup
}

func (n *NodeVisit) GetID() int {
	return n.id
}

// GetOriginalID is the id shared by a depot and its duplicates. Routes compare visits on this id.
func (n *NodeVisit) GetOriginalID() int {
	return n.originalID
}

func (n *NodeVisit) IsDuplicate() bool {
	return n.id != n.originalID
}

func (n *NodeVisit) GetRequestID() int {
	return n.requestID
}

func (n *NodeVisit) GetLocation() int {
	return n.location
}

func (n *NodeVisit) GetLat() float64 {
	return n.lat
}

func (n *NodeVisit) GetLon() float64 {
	return n.lon
}

// GetDemand is zero for depots and for products the visit does not carry.
func (n *NodeVisit) GetDemand(product int) float64 {
	if n.depot || product < 0 || product >= len(n.demands) {
		return 0
	}
	return n.demands[product]
}

func (n *NodeVisit) GetDemands() []float64 {
	d := make([]float64, len(n.demands))
	copy(d, n.demands)
	return d
}

func (n *NodeVisit) GetServiceTime() float64 {
	return n.serviceTime
}

func (n *NodeVisit) GetTimeWindow() TimeWindow {
	return n.timeWindow
}

func (n *NodeVisit) IsDepot() bool {
	return n.depot
}

func (n *NodeVisit) IsPickup() bool {
	return n.pickup
}

func (n *NodeVisit) IsFixed() bool {
	return n.fixed
}

func (n *NodeVisit) Fix() {
	n.fixed = true
}

func (n *NodeVisit) Free() {
	n.fixed = false
}

func (n *NodeVisit) GetPredecessors() []int {
	return n.predecessors
}

func (n *NodeVisit) GetSuccessors() []int {
	return n.successors
}

func (n *NodeVisit) String() string {
	if n.depot {
		return fmt.Sprintf("D%d", n.id)
	}
	if len(n.predecessors) > 0 || len(n.successors) > 0 {
		if n.pickup {
			return fmt.Sprintf("P%d[r:%d]", n.id, n.requestID)
		}
		return fmt.Sprintf("D%d[r:%d]", n.id, n.requestID)
	}
	return fmt.Sprintf("%d", n.id)
}
