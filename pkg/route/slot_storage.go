package route

import (
	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

// slotLinks is an id-indexed predecessor/successor arena. A slot is a node id, or id + span for the second
// occurrence of a depot.
type slotLinks interface {
	getPred(slot int) int
	setPred(slot, pred int)
	getSucc(slot int) int
	setSucc(slot, succ int)
	isMember(slot int) bool
	// canClaim reports whether slot may join this sequence.
	canClaim(slot int) error
	claim(slot int, node *datastructure.NodeVisit)
	release(slot int)
	resolve(slot int) *datastructure.NodeVisit
}

// slotStorage implements the positional sequence operations on top of a slotLinks arena.
// Splices are O(1) once the slots are known, translating a position walks min(index, length-index) links.
type slotStorage struct {
	inst   *datastructure.Instance
	links  slotLinks
	first  int
	last   int
	length int
}

func newSlotStorage(inst *datastructure.Instance, links slotLinks) slotStorage {
	return slotStorage{
		inst:   inst,
		links:  links,
		first:  pkg.UNDEFINED,
		last:   pkg.UNDEFINED,
		length: 0,
	}
}

func (s *slotStorage) size() int {
	return s.length
}

func (s *slotStorage) slotAt(index int) int {
	if index < s.length-index {
		slot := s.first
		for k := 0; k < index; k++ {
			slot = s.links.getSucc(slot)
		}
		return slot
	}
	slot := s.last
	for k := s.length - 1; k > index; k-- {
		slot = s.links.getPred(slot)
	}
	return slot
}

func (s *slotStorage) nodeAt(index int) *datastructure.NodeVisit {
	return s.links.resolve(s.slotAt(index))
}

func (s *slotStorage) firstNode() *datastructure.NodeVisit {
	if s.first == pkg.UNDEFINED {
		return nil
	}
	return s.links.resolve(s.first)
}

func (s *slotStorage) lastNode() *datastructure.NodeVisit {
	if s.last == pkg.UNDEFINED {
		return nil
	}
	return s.links.resolve(s.last)
}

func (s *slotStorage) indexOf(node *datastructure.NodeVisit) int {
	if s.count(node) == 0 {
		return pkg.UNDEFINED
	}
	i := 0
	for slot := s.first; slot != pkg.UNDEFINED; slot = s.links.getSucc(slot) {
		if s.inst.OriginalID(slot) == node.GetOriginalID() {
			return i
		}
		i++
	}
	return pkg.UNDEFINED
}

func (s *slotStorage) count(node *datastructure.NodeVisit) int {
	id := node.GetOriginalID()
	if id < 0 || id >= s.inst.OriginalIDSpan() {
		return 0
	}
	c := 0
	if s.links.isMember(id) {
		c++
	}
	if node.IsDepot() && s.links.isMember(s.inst.DepotDuplicateID(id)) {
		c++
	}
	return c
}

func (s *slotStorage) subroute(start, end int) []*datastructure.NodeVisit {
	nodes := make([]*datastructure.NodeVisit, 0, end-start+1)
	slot := s.slotAt(start)
	for k := start; k <= end; k++ {
		nodes = append(nodes, s.links.resolve(slot))
		slot = s.links.getSucc(slot)
	}
	return nodes
}

func (s *slotStorage) sequence() []*datastructure.NodeVisit {
	nodes := make([]*datastructure.NodeVisit, 0, s.length)
	for slot := s.first; slot != pkg.UNDEFINED; slot = s.links.getSucc(slot) {
		nodes = append(nodes, s.links.resolve(slot))
	}
	return nodes
}

// slots returns the slot sequence in route order.
func (s *slotStorage) slots() []int {
	slots := make([]int, 0, s.length)
	for slot := s.first; slot != pkg.UNDEFINED; slot = s.links.getSucc(slot) {
		slots = append(slots, slot)
	}
	return slots
}

// freeSlot picks the slot receiving node: its original id, or the depot duplicate when that one is taken.
// An explicit duplicate tries the duplicate slot first. planned holds the slots already reserved by the current batch.
func (s *slotStorage) freeSlot(node *datastructure.NodeVisit, planned map[int]bool) (int, error) {
	id := node.GetOriginalID()
	if id < 0 || id >= s.inst.OriginalIDSpan() {
		return pkg.UNDEFINED, util.WrapErrorf(nil, util.ErrOutOfRange, "node %v is not part of the instance", node)
	}
	taken := func(slot int) bool {
		return s.links.isMember(slot) || planned[slot]
	}
	candidates := []int{id}
	if node.IsDepot() {
		dup := s.inst.DepotDuplicateID(id)
		if node.GetID() == dup {
			candidates = []int{dup, id}
		} else {
			candidates = append(candidates, dup)
		}
	}
	for _, slot := range candidates {
		if !taken(slot) {
			return slot, nil
		}
	}
	return pkg.UNDEFINED, util.WrapErrorf(nil, util.ErrDuplicateNode, "node %v is already present in the route", node)
}

// link makes b the successor of a. UNDEFINED on either side moves the head or the tail.
func (s *slotStorage) link(a, b int) {
	if a == pkg.UNDEFINED {
		s.first = b
	} else {
		s.links.setSucc(a, b)
	}
	if b == pkg.UNDEFINED {
		s.last = a
	} else {
		s.links.setPred(b, a)
	}
}

func (s *slotStorage) insert(index int, nodes []*datastructure.NodeVisit) error {
	planned := make(map[int]bool, len(nodes))
	slots := make([]int, len(nodes))
	for k, n := range nodes {
		slot, err := s.freeSlot(n, planned)
		if err != nil {
			return err
		}
		if err := s.links.canClaim(slot); err != nil {
			return err
		}
		planned[slot] = true
		slots[k] = slot
	}

	pred := pkg.UNDEFINED
	succ := s.first
	if index > 0 {
		pred = s.slotAt(index - 1)
		succ = s.links.getSucc(pred)
	}
	prev := pred
	for k, slot := range slots {
		s.links.claim(slot, nodes[k])
		s.link(prev, slot)
		prev = slot
	}
	s.link(prev, succ)
	s.length += len(nodes)
	return nil
}

func (s *slotStorage) remove(start, end int) []*datastructure.NodeVisit {
	removed := make([]*datastructure.NodeVisit, 0, end-start+1)
	slot := s.slotAt(start)
	pred := s.links.getPred(slot)
	for k := start; k <= end; k++ {
		next := s.links.getSucc(slot)
		removed = append(removed, s.links.resolve(slot))
		s.links.release(slot)
		slot = next
	}
	s.link(pred, slot)
	s.length -= len(removed)
	return removed
}

func (s *slotStorage) set(index int, node *datastructure.NodeVisit) (*datastructure.NodeVisit, error) {
	slot := s.slotAt(index)
	old := s.links.resolve(slot)
	newSlot := slot
	if node.GetOriginalID() != old.GetOriginalID() {
		var err error
		if newSlot, err = s.freeSlot(node, nil); err != nil {
			return nil, err
		}
		if err = s.links.canClaim(newSlot); err != nil {
			return nil, err
		}
	}
	pred, succ := s.links.getPred(slot), s.links.getSucc(slot)
	s.links.release(slot)
	s.links.claim(newSlot, node)
	s.link(pred, newSlot)
	s.link(newSlot, succ)
	return old, nil
}

func (s *slotStorage) swap(i, j int) {
	si, sj := s.slotAt(i), s.slotAt(j)
	if s.links.getSucc(si) == sj {
		pred, succ := s.links.getPred(si), s.links.getSucc(sj)
		s.link(pred, sj)
		s.link(sj, si)
		s.link(si, succ)
		return
	}
	predI, succI := s.links.getPred(si), s.links.getSucc(si)
	predJ, succJ := s.links.getPred(sj), s.links.getSucc(sj)
	s.link(predI, sj)
	s.link(sj, succI)
	s.link(predJ, si)
	s.link(si, succJ)
}

func (s *slotStorage) reverse(start, end int) {
	segment := make([]int, 0, end-start+1)
	slot := s.slotAt(start)
	for k := start; k <= end; k++ {
		segment = append(segment, slot)
		slot = s.links.getSucc(slot)
	}
	prev := s.links.getPred(segment[0])
	for k := len(segment) - 1; k >= 0; k-- {
		s.link(prev, segment[k])
		prev = segment[k]
	}
	s.link(prev, slot)
}

func (s *slotStorage) clear() {
	for _, slot := range s.slots() {
		s.links.release(slot)
	}
	s.first = pkg.UNDEFINED
	s.last = pkg.UNDEFINED
	s.length = 0
}
