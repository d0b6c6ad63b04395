package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/lintang-b-s/vrptour/pkg"
	"github.com/lintang-b-s/vrptour/pkg/costfunction"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
	"github.com/lintang-b-s/vrptour/pkg/logger"
	"github.com/lintang-b-s/vrptour/pkg/solution"
	"github.com/lintang-b-s/vrptour/pkg/util"
)

var (
	configPath = flag.String("config", "", "config file, ./data/config.yaml when empty")
	seed       = flag.Uint64("seed", 0, "random seed, overrides the config when non zero")
)

// bounding box of the generated instance (solo - jogja)
const (
	minLat = -7.90
	maxLat = -7.50
	minLon = 110.30
	maxLon = 110.90
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg, err := util.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	logHost(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("routecheck failed", zap.Error(err))
		os.Exit(1)
	}
}

func logHost(log *zap.Logger) {
	hostStat, _ := host.Info()
	cpuStat, _ := cpu.Info()
	vmStat, _ := mem.VirtualMemory()

	fields := make([]zap.Field, 0, 4)
	if hostStat != nil {
		fields = append(fields, zap.String("os", hostStat.Platform+" "+hostStat.PlatformVersion))
	}
	if len(cpuStat) > 0 {
		fields = append(fields, zap.String("cpu", cpuStat[0].ModelName), zap.Int("cpus", len(cpuStat)))
	}
	if vmStat != nil {
		fields = append(fields, zap.Uint64("memoryMB", vmStat.Total/1024/1024))
	}
	log.Info("host", fields...)
}

// newInstance places one depot per vehicle at the center of the bounding box and nodes requests around it.
func newInstance(rng *rand.Rand, nodes, vehicles int) (*datastructure.Instance, error) {
	tw := datastructure.NewTimeWindow(0, 24*60)
	centerLat, centerLon := (minLat+maxLat)/2, (minLon+maxLon)/2

	visits := make([]*datastructure.NodeVisit, 0, nodes+vehicles)
	for v := 0; v < vehicles; v++ {
		visits = append(visits, datastructure.NewDepotVisit(v, v, centerLat, centerLon, tw))
	}
	for i := 0; i < nodes; i++ {
		id := vehicles + i
		lat := minLat + rng.Float64()*(maxLat-minLat)
		lon := minLon + rng.Float64()*(maxLon-minLon)
		start := rng.Float64() * 12 * 60
		visits = append(visits, datastructure.NewRequestVisit(id, i, id, lat, lon,
			[]float64{float64(1 + rng.Intn(10))}, 5, datastructure.NewTimeWindow(start, start+6*60)))
	}

	base := datastructure.NewVehicle(0, "truck", 100, 1, 0.5, float64(nodes*10/vehicles+10))
	return datastructure.NewInstance(visits, datastructure.NewHomogeneousFleet(vehicles, base))
}

func newCostFunction(cfg util.Config) (costfunction.CostFunction, error) {
	distance, err := costfunction.NewDistanceFunction(cfg.Distance)
	if err != nil {
		return nil, err
	}
	cached, err := costfunction.NewCached(distance, cfg.CostCacheSize)
	if err != nil {
		return nil, err
	}
	return costfunction.NewArcCostFunction(cached), nil
}

func run(ctx context.Context, cfg util.Config, log *zap.Logger) error {
	reference, ok := pkg.GetStrategy(cfg.Strategy)
	if !ok {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "unknown strategy %q", cfg.Strategy)
	}
	if cfg.Vehicles < 1 || cfg.Branches < 1 {
		return util.WrapErrorf(nil, util.ErrBadParamInput, "vehicles and branches must be positive, got %d and %d",
			cfg.Vehicles, cfg.Branches)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	inst, err := newInstance(rng, cfg.Nodes, cfg.Vehicles)
	if err != nil {
		return err
	}
	costFn, err := newCostFunction(cfg)
	if err != nil {
		return err
	}

	sol, err := solution.NewSolution(inst, costFn, cfg.ForwardSlack, log)
	if err != nil {
		return err
	}
	sol.SetWorkers(cfg.Workers)
	depots := make([]*datastructure.NodeVisit, sol.GetTourCount())
	for v := range depots {
		depots[v] = inst.GetNodeVisit(v)
	}
	if err := sol.OpenTours(depots); err != nil {
		return err
	}
	sol.SetAutoUpdated(true)

	mirror, err := newMirror(inst, reference, sol, log, cfg.CheckRoutes)
	if err != nil {
		return err
	}
	log.Info("instance", zap.Int("requests", cfg.Nodes), zap.Int("vehicles", cfg.Vehicles),
		zap.String("reference", reference.String()), zap.Uint64("seed", cfg.Seed))

	unassigned := make([]*datastructure.NodeVisit, 0, cfg.Nodes)
	for _, r := range inst.GetRequests() {
		if r.GetID() >= cfg.Vehicles {
			unassigned = append(unassigned, r)
		}
	}

	mismatches := 0
	for step := 0; step < cfg.Moves; step++ {
		move, err := mirror.randomMove(rng, &unassigned)
		if err != nil {
			return fmt.Errorf("move %d (%s): %w", step, move, err)
		}
		if err := mirror.compare(); err != nil {
			mismatches++
			log.Error("strategies diverged", zap.Int("step", step), zap.String("move", move), zap.Error(err))
		}
		if err := sol.Check(); err != nil {
			mismatches++
			log.Error("solution check failed", zap.Int("step", step), zap.String("move", move), zap.Error(err))
		}
	}
	for _, n := range mirror.ref().GetNodeSequence() {
		if !n.IsDepot() {
			if err := sol.MarkAsServed(n.GetID()); err != nil {
				return err
			}
		}
	}
	log.Info("moves applied", zap.Int("moves", cfg.Moves), zap.Int("mismatches", mismatches),
		zap.String("tour", mirror.ref().String()))

	branches, err := sol.RunBranches(ctx, cfg.Branches, func(ctx context.Context, branch int,
		s *solution.Solution) error {
		branchRng := rand.New(rand.NewSource(cfg.Seed + uint64(branch) + 1))
		requests := s.GetUnservedRequests()
		branchRng.Shuffle(len(requests), func(i, j int) { requests[i], requests[j] = requests[j], requests[i] })
		for _, id := range requests {
			if util.StopConcurrentOperation(ctx) {
				return ctx.Err()
			}
			if _, err := s.InsertRequest(id); err != nil && !errors.Is(err, util.ErrNoFeasibleInsertion) {
				return err
			}
		}
		return s.Check()
	})
	if err != nil {
		return err
	}

	best := slices.MinFunc(branches, func(a, b *solution.Solution) int {
		switch {
		case a.GetObjectiveValue() < b.GetObjectiveValue():
			return -1
		case a.GetObjectiveValue() > b.GetObjectiveValue():
			return 1
		default:
			return 0
		}
	})
	log.Info("best branch", zap.Float64("objective", best.GetObjectiveValue()),
		zap.Int("unserved", best.GetUnservedCount()), zap.Int("tours", best.GetNonEmptyTourCount()))
	if pkg.DEBUG {
		fmt.Println(best.String())
	}

	if mismatches > 0 {
		return util.WrapErrorf(nil, util.ErrStructuralInconsistency, "%d mismatches between strategies", mismatches)
	}
	return nil
}
