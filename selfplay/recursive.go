package selfplay

import (
	"context"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/solver"
)

// TreeStrategyMap is a full, non-truncated tree's solved strategy, keyed by
// the public state it was computed at rather than by a node index into any
// one subgame's tree — the real game tree this walks is never itself
// materialized as a tree.Tree (it is far larger than any one subgame), so a
// map keyed by game.PublicState is the natural accumulator. Two distinct
// betting histories reaching an identical PublicState share one entry.
type TreeStrategyMap map[game.PublicState][][]float64

// RecursiveStrategy walks the real game tree from root, solving a bounded
// subgame at every node it visits and recording only that node's own
// (root-of-its-subgame) strategy row into out, then recursing one real
// game-tree level at a time using the belief-propagation strategy to
// narrow beliefs along each edge. This is the non-training analogue of
// Driver.Step's descent: every real node gets its own subgame solve.
// Grounded on the StrategyCache-backed recursion in cfr/deepcfr_actor.go,
// generalized from a single hashed GameState lookup to the public-tree
// abstraction here.
func RecursiveStrategy(ctx context.Context, root game.PublicState, beliefs belief.Pair[belief.Vector], params solver.Params, net solver.Net, cache *StrategyCache, out TreeStrategyMap) error {
	if game.IsTerminal(root) {
		return nil
	}
	if _, ok := out[root]; ok {
		return nil
	}

	s, err := solver.BuildSolver(root, beliefs, params, net)
	if err != nil {
		return err
	}
	if err := s.Multistep(ctx); err != nil {
		return err
	}

	avg := s.GetStrategy()
	out[root] = avg[0]
	cache.Set(0, root, avg[0])
	cache.Set(1, root, avg[0])

	t := s.GetTree()
	propagation := s.GetBeliefPropagationStrategy()
	reach0 := belief.ComputeReachProbabilities(t, propagation, beliefs[0], 0)
	reach1 := belief.ComputeReachProbabilities(t, propagation, beliefs[1], 1)

	lo, hi := game.LegalActionRange(root)
	begin, _ := t.Children(0)
	for a := lo; a < hi; a++ {
		childIdx := begin + int(a-lo)
		childState := t.Nodes[childIdx].State
		childBeliefs := belief.Pair[belief.Vector]{reach0[childIdx], reach1[childIdx]}
		if err := RecursiveStrategy(ctx, childState, childBeliefs, params, net, cache, out); err != nil {
			return err
		}
	}
	return nil
}

// RecursiveStrategyToLeaf is RecursiveStrategy's "avoid re-solving interior
// nodes a higher subgame already covered" variant: it records every interior
// node of the solved subgame (not just its root) into out, then recurses only from
// the subgame's own pseudo-leaves rather than from every single real-tree
// node one level down.
func RecursiveStrategyToLeaf(ctx context.Context, root game.PublicState, beliefs belief.Pair[belief.Vector], params solver.Params, net solver.Net, cache *StrategyCache, out TreeStrategyMap) error {
	if game.IsTerminal(root) {
		return nil
	}
	if _, ok := out[root]; ok {
		return nil
	}

	s, err := solver.BuildSolver(root, beliefs, params, net)
	if err != nil {
		return err
	}
	if err := s.Multistep(ctx); err != nil {
		return err
	}

	avg := s.GetStrategy()
	t := s.GetTree()
	for i, node := range t.Nodes {
		if node.NumChildren() == 0 {
			continue
		}
		if _, ok := out[node.State]; ok {
			continue
		}
		out[node.State] = avg[i]
		cache.Set(0, node.State, avg[i])
		cache.Set(1, node.State, avg[i])
	}

	propagation := s.GetBeliefPropagationStrategy()
	reach0 := belief.ComputeReachProbabilities(t, propagation, beliefs[0], 0)
	reach1 := belief.ComputeReachProbabilities(t, propagation, beliefs[1], 1)

	for i, node := range t.Nodes {
		if node.NumChildren() != 0 || game.IsTerminal(node.State) {
			continue
		}
		childBeliefs := belief.Pair[belief.Vector]{reach0[i], reach1[i]}
		if err := RecursiveStrategyToLeaf(ctx, node.State, childBeliefs, params, net, cache, out); err != nil {
			return err
		}
	}
	return nil
}
