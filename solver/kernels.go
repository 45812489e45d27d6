package solver

import (
	"context"
	"fmt"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/query"
	"tossholdem/tree"
)

// LeafEvaluator is the external value-network contract the solver calls at
// pseudo-leaves (non-terminal nodes truncated by max depth).
type LeafEvaluator interface {
	ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error)
}

// Net is the full external value-network contract: batched leaf evaluation
// plus the training-example sink UpdateValueNetwork feeds.
// It is satisfied structurally by valuenet.Net, so this package never
// imports valuenet — that dependency would run the wrong way round, since
// valuenet is an external collaborator of the solver, not vice versa.
type Net interface {
	LeafEvaluator
	AddTrainingExample(ctx context.Context, queryRow []float32, values []float32) error
}

// baseTraverser holds the bottom-up machinery shared by BRSolver and
// CFRSolver: per-player reach probabilities, per-node traverser values, and
// the pseudo-leaf/terminal value precomputation. The direct equivalent of
// subgame_solving.cc's PartialTreeTraverser.
type baseTraverser struct {
	tree     tree.Tree
	net      Net
	numHands int

	reach           belief.Pair[[][]float64]
	traverserValues [][]float64

	pseudoLeaves []int
	terminals    []int
}

func newBaseTraverser(t tree.Tree, numHands int, net Net) (*baseTraverser, error) {
	bt := &baseTraverser{
		tree:     t,
		net:      net,
		numHands: numHands,
	}
	bt.reach[0] = make([][]float64, len(t.Nodes))
	bt.reach[1] = make([][]float64, len(t.Nodes))
	bt.traverserValues = make([][]float64, len(t.Nodes))
	for i := range t.Nodes {
		bt.traverserValues[i] = make([]float64, numHands)
	}

	for i, n := range t.Nodes {
		if game.IsTerminal(n.State) {
			bt.terminals = append(bt.terminals, i)
		} else if n.IsLeaf() {
			bt.pseudoLeaves = append(bt.pseudoLeaves, i)
		}
	}
	if net == nil && len(bt.pseudoLeaves) > 0 {
		return nil, fmt.Errorf("solver: tree has %d non-terminal leaf(s) but no value evaluator was supplied (state=%s); either raise max_depth or provide one",
			len(bt.pseudoLeaves), game.StateToString(t.Nodes[bt.pseudoLeaves[0]].State))
	}
	return bt, nil
}

// precomputeReaches fills bt.reach[player] from strategy and the player's
// initial beliefs.
func (bt *baseTraverser) precomputeReaches(strategy belief.Strategy, beliefs belief.Pair[belief.Vector]) {
	bt.reach[0] = belief.ComputeReachProbabilities(bt.tree, strategy, beliefs[0], 0)
	bt.reach[1] = belief.ComputeReachProbabilities(bt.tree, strategy, beliefs[1], 1)
}

// precomputeAllLeafValues fills traverserValues for every terminal and
// pseudo-leaf node, from traverser's point of view. Pseudo-leaf queries are
// packed with that node's own reach vectors (bt.reach[0][nodeID],
// bt.reach[1][nodeID]), not the subgame root's beliefs: the belief
// distribution narrows along the path down to each leaf, and the value
// network needs the conditional distribution actually reaching that node,
// per subgame_solving.cc's PartialTreeTraverser::write_query.
func (bt *baseTraverser) precomputeAllLeafValues(ctx context.Context, traverser int) error {
	for _, nodeID := range bt.terminals {
		state := bt.tree.Nodes[nodeID].State
		inverse := game.ActivePlayer(state) != traverser
		bt.traverserValues[nodeID] = belief.ComputeExpectedTerminalValues(state, inverse, bt.reach[1-traverser][nodeID])
	}
	if len(bt.pseudoLeaves) == 0 {
		return nil
	}

	batch := make([][]float32, len(bt.pseudoLeaves))
	scalers := make([]float64, len(bt.pseudoLeaves))
	for row, nodeID := range bt.pseudoLeaves {
		state := bt.tree.Nodes[nodeID].State
		batch[row] = query.Serialize(traverser, state, bt.reach[0][nodeID], bt.reach[1][nodeID])
		sum := 0.0
		for _, r := range bt.reach[1-traverser][nodeID] {
			sum += r
		}
		scalers[row] = sum
	}

	out, err := bt.net.ComputeValues(ctx, batch)
	if err != nil {
		return fmt.Errorf("solver: value evaluator call failed: %w", err)
	}
	for row, nodeID := range bt.pseudoLeaves {
		values := out[row]
		dst := make([]float64, len(values))
		for h, v := range values {
			dst[h] = float64(v) * scalers[row]
		}
		bt.traverserValues[nodeID] = dst
	}
	return nil
}

// addTrainingExample packs the root query for traverser and hands it, with
// values, to the evaluator as a (query, value) training pair.
func addTrainingExample(ctx context.Context, net Net, root game.PublicState, traverser int, beliefs belief.Pair[belief.Vector], values []float64) error {
	q := query.Serialize(traverser, root, beliefs[0], beliefs[1])
	v := make([]float32, len(values))
	for i, x := range values {
		v[i] = float32(x)
	}
	return net.AddTrainingExample(ctx, q, v)
}
