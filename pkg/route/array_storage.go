package route

import (
	"slices"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// arrayStorage keeps the sequence in a slice: O(1) positional read, O(n) insert and remove in the middle.
type arrayStorage struct {
	nodes []*datastructure.NodeVisit
}

func newArrayStorage(capacity int) *arrayStorage {
	return &arrayStorage{nodes: make([]*datastructure.NodeVisit, 0, capacity)}
}

func (s *arrayStorage) strategy() pkg.Strategy {
	return pkg.ARRAY
}

func (s *arrayStorage) size() int {
	return len(s.nodes)
}

func (s *arrayStorage) nodeAt(index int) *datastructure.NodeVisit {
	return s.nodes[index]
}

func (s *arrayStorage) firstNode() *datastructure.NodeVisit {
	if len(s.nodes) == 0 {
		return nil
	}
	return s.nodes[0]
}

func (s *arrayStorage) lastNode() *datastructure.NodeVisit {
	if len(s.nodes) == 0 {
		return nil
	}
	return s.nodes[len(s.nodes)-1]
}

func (s *arrayStorage) indexOf(node *datastructure.NodeVisit) int {
	for i, n := range s.nodes {
		if n.GetOriginalID() == node.GetOriginalID() {
			return i
		}
	}
	return pkg.UNDEFINED
}

func (s *arrayStorage) count(node *datastructure.NodeVisit) int {
	c := 0
	for _, n := range s.nodes {
		if n.GetOriginalID() == node.GetOriginalID() {
			c++
		}
	}
	return c
}

func (s *arrayStorage) subroute(start, end int) []*datastructure.NodeVisit {
	return slices.Clone(s.nodes[start : end+1])
}

func (s *arrayStorage) sequence() []*datastructure.NodeVisit {
	return slices.Clone(s.nodes)
}

func (s *arrayStorage) insert(index int, nodes []*datastructure.NodeVisit) error {
	s.nodes = slices.Insert(s.nodes, index, nodes...)
	return nil
}

func (s *arrayStorage) remove(start, end int) []*datastructure.NodeVisit {
	removed := slices.Clone(s.nodes[start : end+1])
	s.nodes = slices.Delete(s.nodes, start, end+1)
	return removed
}

func (s *arrayStorage) set(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error) {
	old := s.nodes[index]
	s.nodes[index] = node
	return old, nil
}

func (s *arrayStorage) swap(i, j int) {
	s.nodes[i], s.nodes[j] = s.nodes[j], s.nodes[i]
}

func (s *arrayStorage) reverse(start, end int) {
	util.ReverseInPlace(s.nodes[start : end+1])
}

func (s *arrayStorage) clear() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}

func (s *arrayStorage) clone() storage {
	return &arrayStorage{nodes: slices.Clone(s.nodes)}
}

func (s *arrayStorage) empty() storage {
	return newArrayStorage(0)
}
