package solver

import (
	"context"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/tree"
)

// BRSolver computes a pure best response to a fixed opponent strategy,
// bottom-up: max over actions at traverser-controlled nodes, sum over
// children at opponent-controlled nodes (reach is already folded into the
// opponent's reach vector, so summing children integrates over the
// opponent's hand distribution at that node). Ported from
// subgame_solving.cc's BRSolver::compute_br; reused both as the
// exploitability measurement and as FPSolver's inner best-response step.
type BRSolver struct {
	base *baseTraverser
}

// NewBRSolver constructs a best-response solver over t. net may be nil iff
// t has no pseudo-leaves (every leaf is terminal).
func NewBRSolver(t tree.Tree, numHands int, net Net) (*BRSolver, error) {
	base, err := newBaseTraverser(t, numHands, net)
	if err != nil {
		return nil, err
	}
	return &BRSolver{base: base}, nil
}

// ComputeBR recomputes the best response for traverser against
// opponentStrategy, returning a pure strategy (one-hot per hand, valid only
// at nodes where traverser is active) and the per-hand root value vector.
func (s *BRSolver) ComputeBR(ctx context.Context, traverser int, opponentStrategy belief.Strategy, beliefs belief.Pair[belief.Vector]) (belief.Strategy, []float64, error) {
	s.base.precomputeReaches(opponentStrategy, beliefs)
	if err := s.base.precomputeAllLeafValues(ctx, traverser); err != nil {
		return nil, nil, err
	}

	t := s.base.tree
	numHands := s.base.numHands
	brStrategy := make(belief.Strategy, len(t.Nodes))

	for nodeID := len(t.Nodes) - 1; nodeID >= 0; nodeID-- {
		node := t.Nodes[nodeID]
		if node.NumChildren() == 0 {
			continue // leaf values already populated
		}
		state := node.State
		value := make([]float64, numHands)
		begin, end := t.Children(nodeID)

		if game.ActivePlayer(state) == traverser {
			bestAction := make([]game.Action, numHands)
			for _, ca := range t.ChildrenActions(nodeID) {
				childValue := s.base.traverserValues[ca.Node]
				for hand := 0; hand < numHands; hand++ {
					if ca.Node == begin || childValue[hand] > value[hand] {
						value[hand] = childValue[hand]
						bestAction[hand] = ca.Action
					}
				}
			}
			row := make([][]float64, numHands)
			for hand := 0; hand < numHands; hand++ {
				row[hand] = make([]float64, game.NumActions)
				row[hand][bestAction[hand]] = 1.0
			}
			brStrategy[nodeID] = row
		} else {
			for c := begin; c < end; c++ {
				childValue := s.base.traverserValues[c]
				for hand := 0; hand < numHands; hand++ {
					value[hand] += childValue[hand]
				}
			}
		}
		s.base.traverserValues[nodeID] = value
	}

	root := append([]float64(nil), s.base.traverserValues[0]...)
	return brStrategy, root, nil
}
