package route

import (
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// storage is the sequence primitive behind an Engine. Indexes are validated by the engine before any call,
// so implementations only deal with valid positions.
type storage interface {
	strategy() pkg.Strategy
	size() int
	nodeAt(index int) *datastructure.NodeVisit
	firstNode() *datastructure.NodeVisit
	lastNode() *datastructure.NodeVisit
	// indexOf returns the position of the first occurrence of the node id, UNDEFINED if absent.
	indexOf(node *datastructure.NodeVisit) int
	// count returns the number of occurrences of the node id.
	count(node *datastructure.NodeVisit) int
	subroute(start, end int) []*datastructure.NodeVisit
	sequence() []*datastructure.NodeVisit

	insert(index int, nodes []*datastructure.NodeVisit) error
	// remove detaches the inclusive range [start, end] and returns it in route order.
	remove(start, end int) []*datastructure.NodeVisit
	set(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error)
	// swap exchanges the nodes at positions i < j.
	swap(i, j int)
	reverse(start, end int)
	clear()

	clone() storage
	// empty returns a new empty storage to hold nodes extracted from this one.
	empty() storage
}
