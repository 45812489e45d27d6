package solver

import (
	"context"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/tree"
)

// fullTreeDepth is the "effectively unbounded" depth used to unroll the
// complete game tree for exploitability measurement, matching
// compute_exploitability2's literal 1000000 in the ported source.
const fullTreeDepth = 1_000_000

// ComputeExploitability2 returns each player's exploitability against
// strategy: the expected value a pure best response earns starting from a
// uniform belief over both players' hands. A correct, converged solver for
// a zero-sum game drives both toward zero.
func ComputeExploitability2(strategy belief.Strategy) (belief.Pair[float64], error) {
	root := game.InitialState()
	t := tree.Unroll(root, fullTreeDepth)

	numHands := game.NumHands
	uniform := make(belief.Vector, numHands)
	for i := range uniform {
		uniform[i] = 1.0 / float64(numHands)
	}
	beliefs := belief.Pair[belief.Vector]{uniform, uniform}

	br, err := NewBRSolver(t, numHands, nil)
	if err != nil {
		return belief.Pair[float64]{}, err
	}

	var out belief.Pair[float64]
	for traverser := 0; traverser < 2; traverser++ {
		_, values, err := br.ComputeBR(context.Background(), traverser, strategy, beliefs)
		if err != nil {
			return belief.Pair[float64]{}, err
		}
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		out[traverser] = sum / float64(numHands)
	}
	return out, nil
}

// ComputeExploitability returns the mean of both players' exploitability.
func ComputeExploitability(strategy belief.Strategy) (float64, error) {
	e, err := ComputeExploitability2(strategy)
	if err != nil {
		return 0, err
	}
	return (e[0] + e[1]) / 2.0, nil
}
