package route

import (
	"container/list"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// linkedStorage keeps the sequence in a doubly linked list: O(1) insert and remove at the head and the tail,
// positional access walks from the nearer end.
type linkedStorage struct {
	nodes *list.List
}

func newLinkedStorage() *linkedStorage {
	return &linkedStorage{nodes: list.New()}
}

func (s *linkedStorage) strategy() pkg.Strategy {
	return pkg.LINKED
}

func (s *linkedStorage) size() int {
	return s.nodes.Len()
}

func visitOf(e *list.Element) *datastructure.NodeVisit {
	return e.Value.(*datastructure.NodeVisit)
}

func (s *linkedStorage) elementAt(index int) *list.Element {
	n := s.nodes.Len()
	if index < n-index {
		e := s.nodes.Front()
		for k := 0; k < index; k++ {
			e = e.Next()
		}
		return e
	}
	e := s.nodes.Back()
	for k := n - 1; k > index; k-- {
		e = e.Prev()
	}
	return e
}

func (s *linkedStorage) nodeAt(index int) *datastructure.NodeVisit {
	return visitOf(s.elementAt(index))
}

func (s *linkedStorage) firstNode() *datastructure.NodeVisit {
	if s.nodes.Len() == 0 {
		return nil
	}
	return visitOf(s.nodes.Front())
}

func (s *linkedStorage) lastNode() *datastructure.NodeVisit {
	if s.nodes.Len() == 0 {
		return nil
	}
	return visitOf(s.nodes.Back())
}

func (s *linkedStorage) indexOf(node *datastructure.NodeVisit) int {
	i := 0
	for e := s.nodes.Front(); e != nil; e = e.Next() {
		if visitOf(e).GetOriginalID() == node.GetOriginalID() {
			return i
		}
		i++
	}
	return pkg.UNDEFINED
}

func (s *linkedStorage) count(node *datastructure.NodeVisit) int {
	c := 0
	for e := s.nodes.Front(); e != nil; e = e.Next() {
		if visitOf(e).GetOriginalID() == node.GetOriginalID() {
			c++
		}
	}
	return c
}

func (s *linkedStorage) subroute(start, end int) []*datastructure.NodeVisit {
	nodes := make([]*datastructure.NodeVisit, 0, end-start+1)
	e := s.elementAt(start)
	for k := start; k <= end; k++ {
		nodes = append(nodes, visitOf(e))
		e = e.Next()
	}
	return nodes
}

func (s *linkedStorage) sequence() []*datastructure.NodeVisit {
	nodes := make([]*datastructure.NodeVisit, 0, s.nodes.Len())
	for e := s.nodes.Front(); e != nil; e = e.Next() {
		nodes = append(nodes, visitOf(e))
	}
	return nodes
}

func (s *linkedStorage) insert(index int, nodes []*datastructure.NodeVisit) error {
	if index == s.nodes.Len() {
		for _, n := range nodes {
			s.nodes.PushBack(n)
		}
		return nil
	}
	mark := s.elementAt(index)
	for _, n := range nodes {
		s.nodes.InsertBefore(n, mark)
	}
	return nil
}

func (s *linkedStorage) remove(start, end int) []*datastructure.NodeVisit {
	// head and tail removals never walk
	if start == end && start == 0 {
		return []*datastructure.NodeVisit{s.nodes.Remove(s.nodes.Front()).(*datastructure.NodeVisit)}
	}
	if start == end && end == s.nodes.Len()-1 {
		return []*datastructure.NodeVisit{s.nodes.Remove(s.nodes.Back()).(*datastructure.NodeVisit)}
	}
	removed := make([]*datastructure.NodeVisit, 0, end-start+1)
	e := s.elementAt(start)
	for k := start; k <= end; k++ {
		next := e.Next()
		removed = append(removed, s.nodes.Remove(e).(*datastructure.NodeVisit))
		e = next
	}
	return removed
}

func (s *linkedStorage) set(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error) {
	e := s.elementAt(index)
	old := visitOf(e)
	e.Value = node
	return old, nil
}

func (s *linkedStorage) swap(i, j int) {
	ei := s.elementAt(i)
	ej := s.elementAt(j)
	ei.Value, ej.Value = ej.Value, ei.Value
}

func (s *linkedStorage) reverse(start, end int) {
	head := s.elementAt(start)
	tail := head
	for k := start; k < end; k++ {
		tail = tail.Next()
	}
	for k := 0; k < (end-start+1)/2; k++ {
		head.Value, tail.Value = tail.Value, head.Value
		head = head.Next()
		tail = tail.Prev()
	}
}

func (s *linkedStorage) clear() {
	s.nodes.Init()
}

func (s *linkedStorage) clone() storage {
	c := newLinkedStorage()
	for e := s.nodes.Front(); e != nil; e = e.Next() {
		c.nodes.PushBack(e.Value)
	}
	return c
}

func (s *linkedStorage) empty() storage {
	return newLinkedStorage()
}
