package route

import (
	"slices"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

// doublyLinkedStorage owns its predecessor/successor arrays, one entry per instance slot.
type doublyLinkedStorage struct {
	slotStorage
	pred   []int
	succ   []int
	visits []*datastructure.NodeVisit // nil for slots outside the route
}

func newDoublyLinkedStorage(inst *datastructure.Instance) *doublyLinkedStorage {
	n := inst.SlotCount()
	s := &doublyLinkedStorage{
		pred:   make([]int, n),
		succ:   make([]int, n),
		visits: make([]*datastructure.NodeVisit, n),
	}
	for slot := 0; slot < n; slot++ {
		s.pred[slot] = pkg.UNDEFINED
		s.succ[slot] = pkg.UNDEFINED
	}
	s.slotStorage = newSlotStorage(inst, s)
	return s
}

func (s *doublyLinkedStorage) strategy() pkg.Strategy {
	return pkg.DOUBLY_LINKED
}

func (s *doublyLinkedStorage) getPred(slot int) int {
	return s.pred[slot]
}

func (s *doublyLinkedStorage) setPred(slot, pred int) {
	s.pred[slot] = pred
}

func (s *doublyLinkedStorage) getSucc(slot int) int {
	return s.succ[slot]
}

func (s *doublyLinkedStorage) setSucc(slot, succ int) {
	s.succ[slot] = succ
}

func (s *doublyLinkedStorage) isMember(slot int) bool {
	return s.visits[slot] != nil
}

func (s *doublyLinkedStorage) canClaim(slot int) error {
	return nil
}

func (s *doublyLinkedStorage) claim(slot int, node *datastructure.NodeVisit) {
	s.visits[slot] = node
}

func (s *doublyLinkedStorage) release(slot int) {
	s.visits[slot] = nil
	s.pred[slot] = pkg.UNDEFINED
	s.succ[slot] = pkg.UNDEFINED
}

func (s *doublyLinkedStorage) resolve(slot int) *datastructure.NodeVisit {
	return s.visits[slot]
}

func (s *doublyLinkedStorage) clone() storage {
	c := &doublyLinkedStorage{
		pred:   slices.Clone(s.pred),
		succ:   slices.Clone(s.succ),
		visits: slices.Clone(s.visits),
	}
	c.slotStorage = s.slotStorage
	c.slotStorage.links = c
	return c
}

func (s *doublyLinkedStorage) empty() storage {
	return newDoublyLinkedStorage(s.inst)
}
