package solver

import (
	"context"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/tree"
)

// FPSolver runs fictitious play: each step recomputes a pure best response
// for one traverser against the opponent's current average strategy, then
// folds that response (reach-weighted by the traverser's belief) into a
// running sum whose safe-normalized average is the returned strategy.
// Ported from subgame_solving.cc's FP struct.
type FPSolver struct {
	params  Params
	tree    tree.Tree
	beliefs belief.Pair[belief.Vector]
	net     Net
	br      *BRSolver

	average, sum, last belief.Strategy
	rootValues         belief.Pair[[]float64]
	rootValueMeans     belief.Pair[[]float64]
	numUpdates         int // num_strategies in the ported source
}

// NewFPSolver constructs an FP solver over the subgame rooted at t, with
// uniform initial average/last strategies and a reach-weighted initial sum
// (so the first average is already well-defined; see
// belief.UniformReachWeightedStrategy).
func NewFPSolver(t tree.Tree, beliefs belief.Pair[belief.Vector], params Params, net Net) (*FPSolver, error) {
	br, err := NewBRSolver(t, len(beliefs[0]), net)
	if err != nil {
		return nil, err
	}
	numHands := len(beliefs[0])
	s := &FPSolver{
		params:  params,
		tree:    t,
		beliefs: beliefs,
		net:     net,
		br:      br,
		average: belief.UniformStrategy(numHands, game.NumActions, t),
		last:    belief.UniformStrategy(numHands, game.NumActions, t),
		sum:     belief.UniformReachWeightedStrategy(game.NumActions, t, beliefs),
	}
	return s, nil
}

// updateSumStrategy recursively folds br (reach-weighted by
// traverserBeliefs, which starts as beliefs[traverser] at the root and
// narrows along traverser-controlled edges) into s.sum and s.last, exactly
// mirroring subgame_solving.cc's FP::update_sum_strat.
func (s *FPSolver) updateSumStrategy(nodeID, traverser int, br belief.Strategy, traverserBeliefs []float64) {
	node := s.tree.Nodes[nodeID]
	if node.NumChildren() == 0 {
		return
	}
	numHands := len(traverserBeliefs)
	begin, end := s.tree.Children(nodeID)

	if game.ActivePlayer(node.State) == traverser {
		for c := begin; c < end; c++ {
			action := s.tree.ActionForChild(nodeID, c)
			newBeliefs := make([]float64, numHands)
			for hand := 0; hand < numHands; hand++ {
				weighted := traverserBeliefs[hand] * br[nodeID][hand][action]
				s.sum[nodeID][hand][action] += weighted
				s.last[nodeID][hand][action] = weighted
				newBeliefs[hand] = weighted
			}
			s.updateSumStrategy(c, traverser, br, newBeliefs)
		}
	} else {
		for c := begin; c < end; c++ {
			s.updateSumStrategy(c, traverser, br, traverserBeliefs)
		}
	}
}

// Step runs one iteration of fictitious play for traverser.
func (s *FPSolver) Step(ctx context.Context, traverser int) error {
	brStrategy, rootValues, err := s.br.ComputeBR(ctx, traverser, s.average, s.beliefs)
	if err != nil {
		return err
	}
	s.rootValues[traverser] = rootValues

	// num_update is how many times this traverser has stepped, assuming the
	// alternating traverser=iter%2 pattern multistep() uses.
	numUpdate := s.numUpdates/2 + 1
	alpha := 1.0 / float64(numUpdate)
	if s.params.LinearUpdate {
		alpha = 2.0 / float64(numUpdate+1)
	}
	if len(s.rootValueMeans[traverser]) == 0 {
		s.rootValueMeans[traverser] = make([]float64, len(rootValues))
	}
	for i, v := range rootValues {
		s.rootValueMeans[traverser][i] += (v - s.rootValueMeans[traverser][i]) * alpha
	}

	s.updateSumStrategy(0, traverser, brStrategy, s.beliefs[traverser])

	for nodeID, node := range s.tree.Nodes {
		if node.NumChildren() == 0 || game.ActivePlayer(node.State) != traverser {
			continue
		}
		for hand := range s.average[nodeID] {
			if s.params.LinearUpdate {
				scale := float64(numUpdate+1) / float64(numUpdate+2)
				for a := range s.sum[nodeID][hand] {
					s.sum[nodeID][hand][a] *= scale
				}
			}
			if s.params.Optimistic {
				combined := make([]float64, len(s.sum[nodeID][hand]))
				for a := range combined {
					combined[a] = s.sum[nodeID][hand][a] + s.last[nodeID][hand][a]
				}
				s.average[nodeID][hand] = belief.NormalizeSafe(combined, kRegretSmoothingEps)
			} else {
				s.average[nodeID][hand] = belief.NormalizeSafe(s.sum[nodeID][hand], kRegretSmoothingEps)
			}
		}
	}

	s.numUpdates++
	return nil
}

// Multistep alternates traversers across params.NumIters iterations,
// traverser = iter % 2.
func (s *FPSolver) Multistep(ctx context.Context) error {
	for iter := 0; iter < s.params.NumIters; iter++ {
		if err := s.Step(ctx, iter%2); err != nil {
			return err
		}
	}
	return nil
}

// UpdateValueNetwork emits the two root (query, value) training examples
// this subgame produced, one per traverser.
func (s *FPSolver) UpdateValueNetwork(ctx context.Context) error {
	root := s.tree.Nodes[0].State
	for traverser := 0; traverser < 2; traverser++ {
		if err := addTrainingExample(ctx, s.net, root, traverser, s.beliefs, s.GetHandValues(traverser)); err != nil {
			return err
		}
	}
	return nil
}

// GetStrategy returns the running average strategy (the solved policy).
func (s *FPSolver) GetStrategy() belief.Strategy { return s.average }

// GetSamplingStrategy returns the strategy the self-play driver should
// sample actions from. FP has no regret-matching "last" analogue suited to
// sampling, so (per the ported source's own FP/CFR asymmetry) it exposes
// the same average policy CFR's sampling strategy converges to.
func (s *FPSolver) GetSamplingStrategy() belief.Strategy { return s.average }

// GetBeliefPropagationStrategy mirrors GetSamplingStrategy.
func (s *FPSolver) GetBeliefPropagationStrategy() belief.Strategy { return s.average }

// GetHandValues returns the running mean of traverser's root values across
// all of its steps so far.
func (s *FPSolver) GetHandValues(traverser int) []float64 { return s.rootValueMeans[traverser] }

// GetTree returns the subgame tree this solver operates on.
func (s *FPSolver) GetTree() tree.Tree { return s.tree }
