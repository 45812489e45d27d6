package solver

import (
	"context"
	"testing"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/query"
	"tossholdem/tree"
	"tossholdem/valuenet"
)

// recordingNet wraps a valuenet.NullNet but keeps every batch passed to
// ComputeValues, in call order, so a test can inspect exactly what was
// packed into each pseudo-leaf query.
type recordingNet struct {
	*valuenet.NullNet
	batches [][][]float32
}

func newRecordingNet(handsPerQuery int) *recordingNet {
	return &recordingNet{NullNet: valuenet.NewNullNet(handsPerQuery)}
}

func (r *recordingNet) ComputeValues(ctx context.Context, batch [][]float32) ([][]float32, error) {
	r.batches = append(r.batches, batch)
	return r.NullNet.ComputeValues(ctx, batch)
}

// testNumHands is a reduced hand count used by the tests below. The solver
// is generic over len(beliefs[0]); it never assumes numHands == game.NumHands
// except in ComputeExploitability2's own full-game-tree convenience wrapper,
// which this file deliberately never exercises directly (see DESIGN.md:
// fullTreeDepth applied to the literal initial state is only tractable when
// callers cap real play depth some other way, since this model's raise
// action never becomes illegal). A depth-2 preflop subgame never reveals
// board cards, so card.ComputeWinProbability's terminal evaluation always
// takes its less-than-4-board-cards branch regardless of hand count, making
// a reduced probe both faithful and fast for these iteration-heavy tests.
const testNumHands = 16

// uniformBeliefs returns a belief.Pair over n hands with equal mass, the
// starting point every convergence test below solves a subgame from.
func uniformBeliefs(n int) belief.Pair[belief.Vector] {
	u := make(belief.Vector, n)
	mass := 1.0 / float64(n)
	for i := range u {
		u[i] = mass
	}
	return belief.Pair[belief.Vector]{append(belief.Vector(nil), u...), append(belief.Vector(nil), u...)}
}

// localExploitability measures a strategy's exploitability against BR played
// on the very same (depth-bounded) tree it was solved over, rather than
// ComputeExploitability2's full-game-tree diagnostic: a depth-2 subgame's
// average strategy is only defined over that subgame's own node indices, so
// its BR opponent must be computed over the same tree (see DESIGN.md).
func localExploitability(t tree.Tree, strategy belief.Strategy, beliefs belief.Pair[belief.Vector], net Net) (float64, error) {
	numHands := len(beliefs[0])
	br, err := NewBRSolver(t, numHands, net)
	if err != nil {
		return 0, err
	}
	var sum float64
	for traverser := 0; traverser < 2; traverser++ {
		_, values, err := br.ComputeBR(context.Background(), traverser, strategy, beliefs)
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			sum += v / float64(numHands)
		}
	}
	return sum / 2.0, nil
}

// TestFPConvergesOnDepthTwoSubgame runs FP on a depth-2 subgame from the
// initial state with uniform beliefs for 100 iterations; the resulting
// average strategy's exploitability must land strictly below the
// payoff-range upper bound of 1.0.
func TestFPConvergesOnDepthTwoSubgame(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	beliefs := uniformBeliefs(testNumHands)
	net := valuenet.NewNullNet(testNumHands)

	params := Params{NumIters: 100, MaxDepth: 2, LinearUpdate: true}
	s, err := NewFPSolver(tr, beliefs, params, net)
	if err != nil {
		t.Fatalf("NewFPSolver: %v", err)
	}
	if err := s.Multistep(context.Background()); err != nil {
		t.Fatalf("Multistep: %v", err)
	}

	exploit, err := localExploitability(tr, s.GetStrategy(), beliefs, net)
	if err != nil {
		t.Fatalf("localExploitability: %v", err)
	}
	if exploit < 0 || exploit >= 1.0 {
		t.Fatalf("FP exploitability = %f, want in [0, 1)", exploit)
	}
}

// TestCFRConvergesOnDepthTwoSubgame is the vanilla-CFR counterpart of
// TestFPConvergesOnDepthTwoSubgame (no linear/discounted weighting).
func TestCFRConvergesOnDepthTwoSubgame(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	beliefs := uniformBeliefs(testNumHands)
	net := valuenet.NewNullNet(testNumHands)

	params := Params{NumIters: 100, MaxDepth: 2, UseCFR: true}
	s, err := NewCFRSolver(tr, beliefs, params, net)
	if err != nil {
		t.Fatalf("NewCFRSolver: %v", err)
	}
	if err := s.Multistep(context.Background()); err != nil {
		t.Fatalf("Multistep: %v", err)
	}

	exploit, err := localExploitability(tr, s.GetStrategy(), beliefs, net)
	if err != nil {
		t.Fatalf("localExploitability: %v", err)
	}
	if exploit < 0 || exploit >= 1.0 {
		t.Fatalf("CFR exploitability = %f, want in [0, 1)", exploit)
	}
}

// TestLinearCFRConvergesOnDepthTwoSubgame runs CFR with Linear-CFR
// weighting enabled over a depth-2 subgame for 100 iterations; exploitability
// must still land in [0, 1).
func TestLinearCFRConvergesOnDepthTwoSubgame(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	beliefs := uniformBeliefs(testNumHands)
	net := valuenet.NewNullNet(testNumHands)

	params := Params{NumIters: 100, MaxDepth: 2, UseCFR: true, LinearUpdate: true}
	s, err := NewCFRSolver(tr, beliefs, params, net)
	if err != nil {
		t.Fatalf("NewCFRSolver: %v", err)
	}
	if err := s.Multistep(context.Background()); err != nil {
		t.Fatalf("Multistep: %v", err)
	}

	exploit, err := localExploitability(tr, s.GetStrategy(), beliefs, net)
	if err != nil {
		t.Fatalf("localExploitability: %v", err)
	}
	if exploit < 0 || exploit >= 1.0 {
		t.Fatalf("Linear-CFR exploitability = %f, want in [0, 1)", exploit)
	}
}

// TestDiscountedCFRRuns exercises the DCFR discount-schedule branch
// (Params.DCFR/DCFRAlpha/DCFRBeta/DCFRGamma) end to end.
func TestDiscountedCFRRuns(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	beliefs := uniformBeliefs(testNumHands)
	net := valuenet.NewNullNet(testNumHands)

	params := Params{NumIters: 20, MaxDepth: 2, UseCFR: true, DCFR: true, DCFRAlpha: 1.5, DCFRBeta: 0, DCFRGamma: 2}
	s, err := NewCFRSolver(tr, beliefs, params, net)
	if err != nil {
		t.Fatalf("NewCFRSolver: %v", err)
	}
	if err := s.Multistep(context.Background()); err != nil {
		t.Fatalf("Multistep: %v", err)
	}
	if _, err := localExploitability(tr, s.GetStrategy(), beliefs, net); err != nil {
		t.Fatalf("localExploitability: %v", err)
	}
}

// TestBuildSolverRejectsMissingEvaluator covers the configuration-error
// case: a tree with pseudo-leaves but no value evaluator must fail loudly at
// construction rather than panic partway through a solve.
func TestBuildSolverRejectsMissingEvaluator(t *testing.T) {
	root := game.InitialState()
	beliefs := uniformBeliefs(game.NumHands)
	params := Params{NumIters: 1, MaxDepth: 2, UseCFR: true}
	if _, err := BuildSolver(root, beliefs, params, nil); err == nil {
		t.Fatalf("expected an error building a depth-2 solver with no evaluator")
	}
}

// TestExploitabilityNonNegative checks that for any strategy, both players'
// exploitability are >= 0. Exercised on the uniform strategy over a small
// depth-2 tree.
func TestExploitabilityNonNegative(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	numHands := 8
	strategy := belief.UniformStrategy(numHands, game.NumActions, tr)
	beliefs := belief.Pair[belief.Vector]{
		make(belief.Vector, numHands),
		make(belief.Vector, numHands),
	}
	for i := range beliefs[0] {
		beliefs[0][i] = 1.0 / float64(numHands)
		beliefs[1][i] = 1.0 / float64(numHands)
	}
	net := valuenet.NewNullNet(numHands)

	exploit, err := localExploitability(tr, strategy, beliefs, net)
	if err != nil {
		t.Fatalf("localExploitability: %v", err)
	}
	if exploit < 0 {
		t.Fatalf("exploitability = %f, want >= 0", exploit)
	}
}

// TestPseudoLeafQueryUsesNodeOwnReach guards against packing a pseudo-leaf
// value-network query with the subgame root's beliefs instead of that
// node's own reach vectors: it builds a one-hot strategy at the root (hand h
// always takes action h+1) so each child's own reach is a distinct
// degenerate distribution, then checks the recorded query batch reflects
// that per-node narrowing rather than the flat root beliefs.
func TestPseudoLeafQueryUsesNodeOwnReach(t *testing.T) {
	const numHands = 3
	root := game.InitialState()
	tr := tree.Unroll(root, 1)

	lo, _ := game.LegalActionRange(root)
	strategy := belief.Strategy(make([][][]float64, len(tr.Nodes)))
	for nodeID := range strategy {
		strategy[nodeID] = make([][]float64, numHands)
		for h := range strategy[nodeID] {
			strategy[nodeID][h] = make([]float64, game.NumActions)
		}
	}
	for h := 0; h < numHands; h++ {
		strategy[0][h][int(lo)+1+h] = 1.0
	}

	beliefs := belief.Pair[belief.Vector]{
		{0.6, 0.3, 0.1},
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
	}

	net := newRecordingNet(numHands)
	br, err := NewBRSolver(tr, numHands, net)
	if err != nil {
		t.Fatalf("NewBRSolver: %v", err)
	}
	if _, _, err := br.ComputeBR(context.Background(), 1, strategy, beliefs); err != nil {
		t.Fatalf("ComputeBR: %v", err)
	}
	if len(net.batches) != 1 {
		t.Fatalf("ComputeValues called %d times, want 1", len(net.batches))
	}

	begin, _ := tr.Children(0)
	batch := net.batches[0]
	for h := 0; h < numHands; h++ {
		action := int(lo) + 1 + h
		childNodeID := begin + (action - int(lo))
		row := -1
		for i, leafNodeID := range pseudoLeafNodeIDs(tr) {
			if leafNodeID == childNodeID {
				row = i
				break
			}
		}
		if row < 0 {
			t.Fatalf("action %d's child (node %d) is not a pseudo-leaf", action, childNodeID)
		}

		_, _, gotB0, _ := query.Deserialize(batch[row], numHands)
		want := make(belief.Vector, numHands)
		want[h] = 1.0
		for hand := range want {
			if diff := gotB0[hand] - want[hand]; diff < -1e-9 || diff > 1e-9 {
				t.Fatalf("action %d: query belief0 = %v, want %v (node's own narrowed reach, not the root's %v)",
					action, gotB0, want, beliefs[0])
			}
		}
	}
}

// pseudoLeafNodeIDs recomputes the same pseudo-leaf node id list
// baseTraverser builds internally (in ascending node-id order, matching the
// order a batch's rows are packed in), so the test above can map a batch
// row back to the tree node it came from without reaching into
// baseTraverser's private state.
func pseudoLeafNodeIDs(t tree.Tree) []int {
	var out []int
	for i, n := range t.Nodes {
		if n.PseudoLeaf() {
			out = append(out, i)
		}
	}
	return out
}
