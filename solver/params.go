// Package solver implements the public-tree subgame solvers: fictitious
// play (FP) and counterfactual regret minimization (CFR, Linear-CFR,
// Discounted-CFR), the best-response solver they share, and exploitability
// measurement.
//
// Ported function-for-function from original_source/csrc/poker's
// subgame_solving.cc (PartialTreeTraverser/BRSolver/FP/CFR), restructured
// into a shared bottom-up traverser (kernels.go) composed by FPSolver and
// CFRSolver, matching dcfr-go's own CFRActor/DeepCFRActor interface split
// in cfr/deepcfr_actor.go.
package solver

// Params mirrors SubgameSolvingParams: the knobs a host passes when
// constructing a subgame solver.
type Params struct {
	NumIters     int
	MaxDepth     int
	LinearUpdate bool
	Optimistic   bool
	UseCFR       bool
	DCFR         bool
	DCFRAlpha    float64
	DCFRBeta     float64
	DCFRGamma    float64
}

// kRegretSmoothingEps is the epsilon below which a strategy row is treated
// as all-zero and falls back to uniform (belief.NormalizeSafe), and the
// floor CFR clips positive regrets to before normalizing. Named after the
// ported source's kRegretSmoothingEps constant.
const kRegretSmoothingEps = 1e-3

// kReachSmoothingEps names the ported source's reach-normalization
// epsilon. Nothing in this package reads it: the query codec normalizes
// beliefs with its own reachSmoothingEps of the same value, and the
// exploitability functions do no belief renormalization.
const kReachSmoothingEps = 1e-3
