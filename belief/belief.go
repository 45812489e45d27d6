// Package belief holds the small numeric primitives shared by every
// solver: per-hand belief/reach vectors, the flattened per-node strategy
// matrix, safe normalization, and the bottom-up EV/regret sweeps used both
// by the solvers themselves and by offline diagnostics.
//
// Grounded on original_source/csrc/poker/subgame_solving.cc's free
// functions of the same name (compute_reach_probabilities,
// get_uniform_strategy, get_uniform_reach_weigted_strategy, compute_ev,
// compute_ev2, compute_immediate_regrets), restructured the way dcfr-go's
// common/linq and common/random packages hold small pure numeric helpers
// rather than methods on a god-object.
package belief

import (
	"tossholdem/game"
	"tossholdem/tree"
)

// Vector is a per-hand belief or reach value, indexed by card.HandID.
type Vector []float64

// Pair holds one value per player, indexed by player id (0 or 1).
type Pair[T any] [2]T

// Strategy is a per-node, per-hand, per-action probability table:
// Strategy[node][hand][action]. Entries for actions outside a node's
// legal range are always 0.
type Strategy [][][]float64

// NormalizeSafe renormalizes x to sum to 1, falling back to a uniform
// distribution over all of x when the sum is too small to divide by
// safely. This is the solver's only silent-recovery numerical path (per
// spec's error-handling design) and is load-bearing: CFR's positive-regret
// clipping routinely yields all-zero rows at dominated actions.
func NormalizeSafe(x []float64, eps float64) []float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	out := make([]float64, len(x))
	if sum < eps {
		uniform := 1.0 / float64(len(x))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, v := range x {
		out[i] = v / sum
	}
	return out
}

// newStrategy allocates a zeroed [numNodes][numHands][numActions] table.
func newStrategy(numNodes, numHands, numActions int) Strategy {
	s := make(Strategy, numNodes)
	for n := range s {
		s[n] = make([][]float64, numHands)
		for h := range s[n] {
			s[n][h] = make([]float64, numActions)
		}
	}
	return s
}

// UniformStrategy returns a strategy placing equal probability on every
// legal action at every node, zero elsewhere.
func UniformStrategy(numHands, numActions int, t tree.Tree) Strategy {
	s := newStrategy(len(t.Nodes), numHands, numActions)
	for nodeID, node := range t.Nodes {
		if node.NumChildren() == 0 {
			continue
		}
		lo, hi := game.LegalActionRange(node.State)
		p := 1.0 / float64(int(hi)-int(lo))
		for hand := 0; hand < numHands; hand++ {
			for a := lo; a < hi; a++ {
				s[nodeID][hand][a] = p
			}
		}
	}
	return s
}

// ComputeReachProbabilities fills reach[node][hand] := P(root -> node, hand
// | strategy, initialBeliefs) for the given player: at each node reached by
// an action of player, multiply the parent's reach by the parent's
// strategy probability on the edge action; otherwise (the other player
// acted, or chance) inherit the parent's reach unchanged. Unlike the ported
// source, the edge action is read off the tree's own FirstAction
// bookkeeping rather than the state's LastAction field, since LastAction is
// left unset by discard transitions (see DESIGN.md).
func ComputeReachProbabilities(t tree.Tree, strategy Strategy, initialBeliefs Vector, player int) [][]float64 {
	reach := make([][]float64, len(t.Nodes))
	reach[0] = append([]float64(nil), initialBeliefs...)

	for nodeID := 1; nodeID < len(t.Nodes); nodeID++ {
		node := t.Nodes[nodeID]
		parent := t.Nodes[node.Parent]
		numHands := len(initialBeliefs)
		reach[nodeID] = make([]float64, numHands)

		if game.ActivePlayer(parent.State) == player {
			action := t.ActionForChild(node.Parent, nodeID)
			for hand := 0; hand < numHands; hand++ {
				reach[nodeID][hand] = reach[node.Parent][hand] * strategy[node.Parent][hand][action]
			}
		} else {
			copy(reach[nodeID], reach[node.Parent])
		}
	}
	return reach
}

// UniformReachWeightedStrategy starts from a uniform strategy and, for each
// player's controlled nodes, scales every legal-action entry by that
// player's reach probability (the product of reach and the uniform-per-row
// mass, per get_uniform_reach_weigted_strategy) so the result matches the
// solver's convention for a belief-initialized running sum.
func UniformReachWeightedStrategy(numActions int, t tree.Tree, initialBeliefs Pair[Vector]) Strategy {
	numHands := len(initialBeliefs[0])
	strategy := UniformStrategy(numHands, numActions, t)

	for traverser := 0; traverser < 2; traverser++ {
		reach := ComputeReachProbabilities(t, strategy, initialBeliefs[traverser], traverser)
		for nodeID, node := range t.Nodes {
			if node.NumChildren() == 0 || game.ActivePlayer(node.State) != traverser {
				continue
			}
			lo, hi := game.LegalActionRange(node.State)
			for hand := 0; hand < numHands; hand++ {
				for a := lo; a < hi; a++ {
					strategy[nodeID][hand][a] *= reach[nodeID][hand]
				}
			}
		}
	}
	return strategy
}

func vectorSum(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s
}
