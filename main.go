// Command solverd is the benchmark driver for the Toss-or-Hold'em subgame
// solver: it spawns a fixed worker pool, each running an independent
// selfplay.Driver loop, for --num_cycles cycles, reporting after each one.
//
// Adapted from dcfr-go's main.go (worker goroutines reading off a
// work channel, wg.Wait() per cycle, periodic log.Printf stats), replacing
// its fixed no-limit hold'em traversal and raw thread-count/
// buffer-size literals with selfplay.Driver workers over
// RecursiveSolvingParams, and replacing its ungated stats loop with a
// progressbar-driven per-cycle report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"tossholdem/appconfig"
	"tossholdem/common/bench"
	"tossholdem/common/linq"
	"tossholdem/game"
	"tossholdem/replay"
	"tossholdem/selfplay"
	"tossholdem/solver"
	"tossholdem/valuenet"
)

// cycleDuration is the reporting cycle length workers log progress on.
const cycleDuration = 10 * time.Second

func main() {
	cfg, err := appconfig.LoadAppConfig()
	if err != nil {
		log.Fatalf("solverd: load config: %v", err)
	}

	flag.IntVar(&cfg.FPIters, "fp_iters", cfg.FPIters, "num_iters per subgame solve")
	flag.IntVar(&cfg.MDPDepth, "mdp_depth", cfg.MDPDepth, "max_depth per subgame solve")
	flag.IntVar(&cfg.NumThreads, "num_threads", cfg.NumThreads, "self-play worker count")
	flag.IntVar(&cfg.PerGPU, "per_gpu", cfg.PerGPU, "value-network client replicas")
	flag.IntVar(&cfg.NumCycles, "num_cycles", cfg.NumCycles, "reporting cycles, 10s each")
	flag.StringVar(&cfg.Device, "device", cfg.Device, "host device id")
	flag.StringVar(&cfg.Net, "net", cfg.Net, "value-network gRPC address (empty: local NullNet+replay fallback)")
	flag.Parse()
	if flag.NArg() > 0 {
		log.Printf("solverd: unknown arguments: %v", flag.Args())
		os.Exit(1)
	}

	net, closeNet, err := buildNet(cfg)
	if err != nil {
		log.Fatalf("solverd: build value network: %v", err)
	}
	defer closeNet()

	params := selfplay.RecursiveSolvingParams{
		RandomActionProb: 0.25,
		SampleLeaf:       true,
		SubgameParams: solver.Params{
			NumIters:     cfg.FPIters,
			MaxDepth:     cfg.MDPDepth,
			UseCFR:       true,
			LinearUpdate: true,
		},
	}

	stats := newWorkerStats(cfg.NumThreads)
	drivers := make([]*selfplay.Driver, cfg.NumThreads)
	for i := range drivers {
		drivers[i] = selfplay.NewDriver(params, net, rand.New(rand.NewSource(int64(44+i))))
	}

	log.Printf("solverd: %d workers, %d fp_iters, depth %d, device %s, net %q",
		cfg.NumThreads, cfg.FPIters, cfg.MDPDepth, cfg.Device, cfg.Net)

	for cycle := 0; cycle < cfg.NumCycles; cycle++ {
		elapsed := bench.MeasureExec(func() {
			runCycle(cfg, drivers, stats)
		})
		log.Printf("solverd: cycle %d/%d done in %s, %s steps total",
			cycle+1, cfg.NumCycles, elapsed.Round(time.Millisecond), humanize.Comma(stats.total()))
		for _, line := range stats.report() {
			log.Print(line)
		}
	}
}

// runCycle drives every worker for cycleDuration, reporting progress on an
// unbounded progressbar that ticks once per completed step.
func runCycle(cfg *appconfig.AppConfig, drivers []*selfplay.Driver, stats *workerStats) {
	ctx, cancel := context.WithTimeout(context.Background(), cycleDuration)
	defer cancel()

	bar := progressbar.Default(-1, "self-play")
	defer bar.Close()

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range drivers {
		i, d := i, d
		g.Go(func() error {
			for ctx.Err() == nil {
				if err := d.Step(ctx); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("worker %d: %w", i, err)
				}
				stats.recordStep(i)
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("solverd: cycle worker error: %v", err)
	}
}

// buildNet constructs the value-network client per cfg.Net: a gRPC client
// (mirrored into a local durable replay buffer) when an address is
// configured, or a NullNet-over-replay fallback otherwise (so the driver
// still runs end to end, writing real training examples to the replay
// buffer, when no live evaluator process is available). per_gpu client
// replicas are round-robined across workers by
// wrapping them in a single fan-out Net.
func buildNet(cfg *appconfig.AppConfig) (solver.Net, func(), error) {
	buffer, err := replay.NewPriorityBuffer(cfg.ReplayPath, 1_500_000, 0.05)
	if err != nil {
		return nil, nil, fmt.Errorf("open replay buffer: %w", err)
	}

	if cfg.Net == "" {
		net := valuenet.WithReplayMirror(valuenet.NewNullNet(game.NumHands), buffer)
		return net, func() { buffer.Close() }, nil
	}

	replicas := make([]*valuenet.GRPCClient, 0, cfg.PerGPU)
	for i := 0; i < cfg.PerGPU; i++ {
		c, err := valuenet.NewGRPCClient(cfg.Net, 10_000, 15_000)
		if err != nil {
			for _, r := range replicas {
				r.Close()
			}
			buffer.Close()
			return nil, nil, fmt.Errorf("dial %s replica %d: %w", cfg.Net, i, err)
		}
		replicas = append(replicas, c)
	}

	net := valuenet.WithReplayMirror(newReplicaPool(replicas), buffer)
	closeAll := func() {
		for _, r := range replicas {
			r.Close()
		}
		buffer.Close()
	}
	return net, closeAll, nil
}

// replicaPool round-robins ComputeValues calls across a fixed set of
// GRPCClient replicas (one per --per_gpu slot), matching dcfr-go's
// per-device batch executor pattern scaled out to multiple GPU replicas.
type replicaPool struct {
	replicas []*valuenet.GRPCClient
	next     atomic.Uint64
}

func newReplicaPool(replicas []*valuenet.GRPCClient) *replicaPool {
	return &replicaPool{replicas: replicas}
}

func (p *replicaPool) ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error) {
	i := p.next.Add(1) % uint64(len(p.replicas))
	return p.replicas[i].ComputeValues(ctx, batch)
}

func (p *replicaPool) AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error {
	i := p.next.Add(1) % uint64(len(p.replicas))
	return p.replicas[i].AddTrainingExample(ctx, queryRow, values)
}

// workerStats tracks a humanized per-worker step count for reporting.
type workerStats struct {
	counts []atomic.Int64
}

func newWorkerStats(n int) *workerStats {
	return &workerStats{counts: make([]atomic.Int64, n)}
}

func (s *workerStats) recordStep(worker int) {
	s.counts[worker].Add(1)
}

func (s *workerStats) total() int64 {
	var sum int64
	for i := range s.counts {
		sum += s.counts[i].Load()
	}
	return sum
}

// report formats one line per worker via linq.ToList, the way dcfr-go's
// common/linq helpers turn a keyed collection into a flat report slice.
func (s *workerStats) report() []string {
	byWorker := make(map[int]int64, len(s.counts))
	for i := range s.counts {
		byWorker[i] = s.counts[i].Load()
	}
	return linq.ToList(byWorker, func(worker int, steps int64) string {
		return fmt.Sprintf("solverd:   worker %d: %s steps", worker, humanize.Comma(steps))
	})
}
