package selfplay

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"

	"tossholdem/game"
	"tossholdem/solver"
	"tossholdem/valuenet"
)

// countingNet wraps a solver.Net and counts AddTrainingExample calls, the
// way a real replay.Sink would, without needing a sqlite-backed
// replay.PriorityBuffer in a unit test.
type countingNet struct {
	solver.Net
	examples atomic.Int64
}

func (c *countingNet) AddTrainingExample(ctx context.Context, queryRow, values []float32) error {
	c.examples.Add(1)
	return c.Net.AddTrainingExample(ctx, queryRow, values)
}

// TestDriverStepEmitsTwoTrainingExamplesPerStep checks that, with a
// degenerate zero-valued evaluator and a minimal subgame depth, 10
// Driver.Step() calls emit exactly 20 root training examples (one per
// traverser per step).
func TestDriverStepEmitsTwoTrainingExamplesPerStep(t *testing.T) {
	net := &countingNet{Net: valuenet.NewNullNet(game.NumHands)}
	params := RecursiveSolvingParams{
		RandomActionProb: 1.0,
		SampleLeaf:       true,
		SubgameParams: solver.Params{
			NumIters: 1,
			MaxDepth: 1,
			UseCFR:   true,
		},
	}
	d := NewDriver(params, net, rand.New(rand.NewSource(7)))

	const steps = 10
	for i := 0; i < steps; i++ {
		if err := d.Step(context.Background()); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if got, want := net.examples.Load(), int64(2*steps); got != want {
		t.Fatalf("training examples = %d, want %d", got, want)
	}
}

// TestDriverStepResetsOnFoldTerminal exercises the driver's reset branch
// directly: with a RandomActionProb of 1 every step takes a uniformly random
// legal action (fold included, so folds are reached often), and after each
// step State() is non-terminal and Beliefs() are non-empty (the driver never
// leaves itself parked on a terminal state, resetting to a fresh root deal
// instead).
func TestDriverStepResetsOnFoldTerminal(t *testing.T) {
	net := valuenet.NewNullNet(game.NumHands)
	params := RecursiveSolvingParams{
		RandomActionProb: 1.0,
		SampleLeaf:       true,
		SubgameParams: solver.Params{
			NumIters: 1,
			MaxDepth: 1,
			UseCFR:   true,
		},
	}
	d := NewDriver(params, net, rand.New(rand.NewSource(11)))

	for i := 0; i < 25; i++ {
		if err := d.Step(context.Background()); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if len(d.Beliefs()[0]) == 0 || len(d.Beliefs()[1]) == 0 {
			t.Fatalf("Step %d: empty beliefs after step", i)
		}
		if game.IsTerminal(d.State()) {
			t.Fatalf("Step %d: driver left on terminal state %+v", i, d.State())
		}
	}
}
