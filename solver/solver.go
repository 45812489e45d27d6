package solver

import (
	"context"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/tree"
)

// ISubgameSolver is the common operation set both FP and CFR expose:
// step/multistep the iteration, report the average/sampling/belief-
// propagation strategies, the per-traverser running root-value mean, and
// the tree it was built over. Named after dcfr-go's CFRActor interface
// boundary (cfr/deepcfr_actor.go) and the ported source's ISubgameSolver.
type ISubgameSolver interface {
	Step(ctx context.Context, traverser int) error
	Multistep(ctx context.Context) error
	UpdateValueNetwork(ctx context.Context) error
	GetStrategy() belief.Strategy
	GetSamplingStrategy() belief.Strategy
	GetBeliefPropagationStrategy() belief.Strategy
	GetHandValues(traverser int) []float64
	GetTree() tree.Tree
}

var (
	_ ISubgameSolver = (*FPSolver)(nil)
	_ ISubgameSolver = (*CFRSolver)(nil)
)

// BuildSolver unrolls the subgame rooted at root to params.MaxDepth and
// constructs the solver variant params.UseCFR selects. Mirrors
// subgame_solving.cc's build_solver.
func BuildSolver(root game.PublicState, beliefs belief.Pair[belief.Vector], params Params, net Net) (ISubgameSolver, error) {
	t := tree.Unroll(root, params.MaxDepth)
	if params.UseCFR {
		return NewCFRSolver(t, beliefs, params, net)
	}
	return NewFPSolver(t, beliefs, params, net)
}
