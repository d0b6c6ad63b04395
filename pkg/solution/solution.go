package solution

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/concurrent"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/route"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

/*
Solution holds one tour per vehicle of the fleet, all stored in a single GiantPermutation.
A Solution has a single mutator. Parallel search works on clones (Clone, RunBranches); GetBestInsertion and
GetKBestInsertions only read the tours.
*/
type Solution struct {
	inst     *datastructure.Instance
	costFn   costfunction.CostFunction
	perm     *datastructure.GiantPermutation
	tours    []*route.Tour
	unserved *bitset.BitSet // original ids of the requests not in any tour
	workers  int
	log      *zap.Logger
}

// NewSolution builds one empty tour per vehicle. Empty tours take no request: open them with OpenTours first.
// A nil log discards the debug output.
func NewSolution(inst *datastructure.Instance, costFn costfunction.CostFunction, fwdSlack bool,
	log *zap.Logger) (*Solution, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fleet := inst.GetFleet()
	if fleet == nil || fleet.Size() == 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "a solution needs at least one vehicle")
	}
	if fleet.IsUnlimited() {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "a solution needs a finite fleet")
	}

	perm := datastructure.NewGiantPermutation(inst, fwdSlack)
	tours := make([]*route.Tour, fleet.Size())
	for v := range tours {
		tours[v] = route.NewTour(perm, fleet.GetVehicle(v), costFn)
	}

	s := &Solution{
		inst:     inst,
		costFn:   costFn,
		perm:     perm,
		tours:    tours,
		unserved: bitset.New(uint(inst.OriginalIDSpan())),
		workers:  runtime.GOMAXPROCS(0),
		log:      log,
	}
	s.MarkAllAsUnserved()
	log.Debug("solution created", zap.Int("tours", len(tours)), zap.Int("slots", perm.Size()),
		zap.Bool("fwdSlack", fwdSlack))
	return s, nil
}

// OpenTours starts the tour of vehicle v with a pair of visits of depots[v]. Every tour must still be empty.
func (s *Solution) OpenTours(depots []*datastructure.NodeVisit) error {
	if len(depots) != len(s.tours) {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "%d depots given for %d tours", len(depots), len(s.tours))
	}
	for v, depot := range depots {
		if depot == nil || !depot.IsDepot() {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "tour %d must start at a depot, got %v", v, depot)
		}
		if s.tours[v].Length() > 0 {
			return util.WrapErrorf(nil, util.ErrBadParamInput, "tour %d is already open: %s", v,
				s.tours[v].GetNodeSeqString())
		}
	}
	for v, depot := range depots {
		if err := s.tours[v].AppendNodes([]*datastructure.NodeVisit{depot, depot}); err != nil {
			return err
		}
	}
	s.log.Debug("tours opened", zap.Int("tours", len(depots)))
	return nil
}

func (s *Solution) GetInstance() *datastructure.Instance {
	return s.inst
}

func (s *Solution) GetCostFunction() costfunction.CostFunction {
	return s.costFn
}

func (s *Solution) GetPermutation() *datastructure.GiantPermutation {
	return s.perm
}

// SetWorkers bounds the goroutines used by GetBestInsertion and GetKBestInsertions.
func (s *Solution) SetWorkers(workers int) {
	s.workers = util.MaxInt(workers, 1)
}

func (s *Solution) GetTour(vehicle int) *route.Tour {
	return s.tours[vehicle]
}

func (s *Solution) GetTours() []*route.Tour {
	return s.tours
}

func (s *Solution) GetTourCount() int {
	return len(s.tours)
}

// GetVisitingTour returns the tour visiting the slot, nil when the slot is not assigned.
func (s *Solution) GetVisitingTour(slot int) *route.Tour {
	if !s.perm.IsValidNode(slot) {
		return nil
	}
	v := s.perm.GetVisitingVehicle(slot)
	if v == pkg.UNDEFINED {
		return nil
	}
	return s.tours[v]
}

// SetAutoUpdated switches the time propagation after every edit on all tours.
func (s *Solution) SetAutoUpdated(autoUpdated bool) {
	for _, t := range s.tours {
		t.SetAutoUpdated(autoUpdated)
	}
}

// GetObjectiveValue is the sum of the tour costs.
func (s *Solution) GetObjectiveValue() float64 {
	obj := 0.0
	for _, t := range s.tours {
		t.CalculateCost(false)
		obj += t.GetCost()
	}
	return obj
}

// GetNonEmptyTourCount counts the tours visiting at least one node.
func (s *Solution) GetNonEmptyTourCount() int {
	count := 0
	for _, t := range s.tours {
		if t.Length() > 0 {
			count++
		}
	}
	return count
}

func (s *Solution) checkRequest(id int) error {
	n := s.inst.GetNodeVisit(id)
	if n == nil || n.IsDepot() {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "%d is not the id of a request visit", id)
	}
	return nil
}

func (s *Solution) MarkAsServed(id int) error {
	if err := s.checkRequest(id); err != nil {
		return err
	}
	s.unserved.Clear(uint(id))
	return nil
}

func (s *Solution) MarkAsUnserved(id int) error {
	if err := s.checkRequest(id); err != nil {
		return err
	}
	s.unserved.Set(uint(id))
	return nil
}

func (s *Solution) MarkAllAsServed() {
	s.unserved.ClearAll()
}

func (s *Solution) MarkAllAsUnserved() {
	s.unserved.ClearAll()
	for _, r := range s.inst.GetRequests() {
		s.unserved.Set(uint(r.GetID()))
	}
}

func (s *Solution) IsServed(id int) bool {
	return !s.unserved.Test(uint(id))
}

func (s *Solution) GetUnservedCount() int {
	return int(s.unserved.Count())
}

// GetUnservedRequests lists the unserved request ids in increasing order.
func (s *Solution) GetUnservedRequests() []int {
	ids := make([]int, 0, s.unserved.Count())
	for id, ok := s.unserved.NextSet(0); ok; id, ok = s.unserved.NextSet(id + 1) {
		ids = append(ids, int(id))
	}
	return ids
}

// Clear empties every tour and marks every request unserved.
func (s *Solution) Clear() {
	for _, t := range s.tours {
		t.Clear()
	}
	s.perm.Clear()
	s.MarkAllAsUnserved()
}

// Clone copies the permutation once and rebinds every tour to the copy.
func (s *Solution) Clone() *Solution {
	perm := s.perm.Clone()
	tours := make([]*route.Tour, len(s.tours))
	for v, t := range s.tours {
		tours[v] = t.CloneOnto(perm)
	}
	return &Solution{
		inst:     s.inst,
		costFn:   s.costFn,
		perm:     perm,
		tours:    tours,
		unserved: s.unserved.Clone(),
		workers:  s.workers,
		log:      s.log,
	}
}

/*
Check verifies the structure of the solution:
  - the successor links of the permutation contain no cycle
  - the successor walk of each tour visits exactly Length() distinct slots owned by its vehicle and ends on its last slot
  - cost and loads of each tour match a recomputation
*/
func (s *Solution) Check() error {
	var errs error
	if cycle := s.perm.CheckForCycles(); cycle != nil {
		errs = multierr.Append(errs, util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"successor links contain the cycle %v", cycle))
	}

	for v, t := range s.tours {
		// the node sequence of a tour with broken links cannot be walked
		if err := s.checkTourLinks(v, t); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := route.CheckRoute(t, false, false, false); err != nil {
			errs = multierr.Append(errs, util.WrapErrorf(err, util.ErrStructuralInconsistency, "tour %d", v))
		}
	}
	return errs
}

func (s *Solution) checkTourLinks(v int, t *route.Tour) error {
	seen := bitset.New(uint(s.perm.Size()))
	count := 0
	last := pkg.UNDEFINED
	for slot := t.GetFirstSlot(); slot != pkg.UNDEFINED; slot = s.perm.GetSucc(slot) {
		if seen.Test(uint(slot)) || count > t.Length() {
			return util.WrapErrorf(nil, util.ErrStructuralInconsistency, "tour %d revisits slot %d", v, slot)
		}
		if owner := s.perm.GetVisitingVehicle(slot); owner != v {
			return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"slot %d in tour %d is owned by vehicle %d", slot, v, owner)
		}
		if last != pkg.UNDEFINED && s.perm.GetPred(slot) != last {
			return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
				"slot %d in tour %d has pred %d, expected %d", slot, v, s.perm.GetPred(slot), last)
		}
		seen.Set(uint(slot))
		last = slot
		count++
	}
	if count != t.Length() {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"successor walk of tour %d visits %d slots, length is %d", v, count, t.Length())
	}
	if last != t.GetLastSlot() {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"successor walk of tour %d ends on %d, last slot is %d", v, last, t.GetLastSlot())
	}
	return nil
}

// evaluate returns the best insertion of node in every tour, infeasible for tours that cannot carry it and for
// tours not opened yet.
func (s *Solution) evaluate(node *datastructure.NodeVisit) []route.NodeInsertion {
	for _, t := range s.tours {
		// stale loads are refreshed here so the workers only read
		t.CalculateLoad(false)
	}
	return concurrent.Map(s.workers, s.tours, func(t *route.Tour) route.NodeInsertion {
		if t.Length() == 0 || !t.CanAccommodate(node) {
			return route.NewInfeasibleInsertion(node, t)
		}
		return t.GetBestNodeInsertion(node)
	})
}

// GetBestInsertion returns the cheapest feasible insertion of node over all tours, ties go to the lowest vehicle id.
func (s *Solution) GetBestInsertion(node *datastructure.NodeVisit) (route.NodeInsertion, error) {
	best := route.NewInfeasibleInsertion(node, nil)
	for _, ins := range s.evaluate(node) {
		if ins.IsFeasible() && ins.GetCost() < best.GetCost() {
			best = ins
		}
	}
	if !best.IsFeasible() {
		return best, util.WrapErrorf(nil, util.ErrNoFeasibleInsertion, "node %v fits in no tour", node)
	}
	return best, nil
}

// GetKBestInsertions returns up to k feasible insertions of node, one per tour, cheapest first.
func (s *Solution) GetKBestInsertions(node *datastructure.NodeVisit, k int) []route.NodeInsertion {
	pq := datastructure.NewFourAryHeap[route.NodeInsertion]()
	pq.Preallocate(len(s.tours))
	for _, ins := range s.evaluate(node) {
		if ins.IsFeasible() {
			pq.Insert(datastructure.NewPriorityQueueNode(ins.GetCost(), ins))
		}
	}

	best := make([]route.NodeInsertion, 0, util.MinInt(k, pq.Size()))
	for len(best) < k && !pq.IsEmpty() {
		item, _ := pq.ExtractMin()
		best = append(best, item.GetItem())
	}
	return best
}

// GetRegret is the cost difference between the k-th best and the best insertion of node, +Inf when fewer than
// k tours can take it.
func (s *Solution) GetRegret(node *datastructure.NodeVisit, k int) float64 {
	best := s.GetKBestInsertions(node, k)
	if len(best) < k || k < 2 {
		return math.Inf(1)
	}
	return best[k-1].GetCost() - best[0].GetCost()
}

// InsertRequest inserts the request at its cheapest position over all tours and marks it served.
func (s *Solution) InsertRequest(id int) (route.NodeInsertion, error) {
	if err := s.checkRequest(id); err != nil {
		return route.NodeInsertion{}, err
	}
	if t := s.GetVisitingTour(id); t != nil {
		return route.NodeInsertion{}, util.WrapErrorf(nil, util.ErrDuplicateNode,
			"request %d is already visited by vehicle %d", id, t.GetVehicleID())
	}
	ins, err := s.GetBestInsertion(s.inst.GetNodeVisit(id))
	if err != nil {
		return ins, err
	}
	if err := ins.GetRoute().InsertNodeAt(ins); err != nil {
		return ins, err
	}
	s.unserved.Clear(uint(id))
	return ins, nil
}

// RemoveRequest takes the request out of its tour and marks it unserved.
func (s *Solution) RemoveRequest(id int) error {
	if err := s.checkRequest(id); err != nil {
		return err
	}
	t := s.GetVisitingTour(id)
	if t == nil {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "request %d is not visited", id)
	}
	if !t.RemoveNode(s.inst.GetNodeVisit(id)) {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency,
			"request %d is owned by vehicle %d but missing from its tour", id, t.GetVehicleID())
	}
	s.unserved.Set(uint(id))
	return nil
}

// RunBranches runs fn on n clones of the solution concurrently and returns the clones.
// The first error cancels ctx for the other branches.
func (s *Solution) RunBranches(ctx context.Context, n int, fn func(ctx context.Context, branch int,
	sol *Solution) error) ([]*Solution, error) {
	clones := make([]*Solution, n)
	for i := range clones {
		clones[i] = s.Clone()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, clone := range clones {
		i, clone := i, clone
		g.Go(func() error {
			if util.StopConcurrentOperation(gctx) {
				return gctx.Err()
			}
			if err := fn(gctx, i, clone); err != nil {
				return fmt.Errorf("branch %d: %w", i, err)
			}
			s.log.Debug("branch finished", zap.Int("branch", i), zap.Float64("objective", clone.GetObjectiveValue()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("branches aborted", zap.Error(err))
		return clones, err
	}
	return clones, nil
}

// ToGiantTour concatenates the node ids of every tour, in vehicle order.
func (s *Solution) ToGiantTour() []int {
	ids := make([]int, 0, s.inst.SlotCount())
	for _, t := range s.tours {
		ids = append(ids, t.GetNodeIDs()...)
	}
	return ids
}

func (s *Solution) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "objective:%.2f unserved:%d\n", s.GetObjectiveValue(), s.GetUnservedCount())
	for v, t := range s.tours {
		fmt.Fprintf(&sb, "  tour %d: %s\n", v, t.String())
	}
	return sb.String()
}

// ToShortString prints only the non-empty tours on a single line.
func (s *Solution) ToShortString() string {
	parts := make([]string, 0, len(s.tours))
	for v, t := range s.tours {
		if t.Length() > 0 {
			parts = append(parts, fmt.Sprintf("%d:%s", v, t.GetNodeSeqString()))
		}
	}
	return fmt.Sprintf("%.2f {%s}", s.GetObjectiveValue(), strings.Join(parts, " "))
}
