package belief

import (
	"math"
	"testing"

	"tossholdem/game"
	"tossholdem/tree"
)

func TestNormalizeSafeNormalCase(t *testing.T) {
	out := NormalizeSafe([]float64{1, 1, 2}, 1e-3)
	want := []float64{0.25, 0.25, 0.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-10 {
			t.Fatalf("out[%d] = %f, want %f", i, out[i], want[i])
		}
	}
}

func TestNormalizeSafeUnderflow(t *testing.T) {
	out := NormalizeSafe([]float64{0, 0, 0}, 1e-3)
	want := 1.0 / 3.0
	for i, v := range out {
		if math.Abs(v-want) > 1e-10 {
			t.Fatalf("out[%d] = %f, want %f", i, v, want)
		}
	}
}

func TestUniformStrategyValidity(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 2)
	const numHands = 4
	strategy := UniformStrategy(numHands, game.NumActions, tr)

	for nodeID, node := range tr.Nodes {
		if node.NumChildren() == 0 {
			continue
		}
		lo, hi := game.LegalActionRange(node.State)
		for hand := 0; hand < numHands; hand++ {
			sum := 0.0
			for a, p := range strategy[nodeID][hand] {
				if game.Action(a) < lo || game.Action(a) >= hi {
					if p != 0 {
						t.Fatalf("node %d hand %d action %d illegal but nonzero: %f", nodeID, hand, a, p)
					}
					continue
				}
				sum += p
			}
			if math.Abs(sum-1.0) > 1e-6 {
				t.Fatalf("node %d hand %d legal-action sum = %f, want 1", nodeID, hand, sum)
			}
		}
	}
}

func TestComputeReachProbabilitiesRootIsInitialBeliefs(t *testing.T) {
	root := game.InitialState()
	tr := tree.Unroll(root, 1)
	numHands := 3
	strategy := UniformStrategy(numHands, game.NumActions, tr)
	initial := Vector{0.2, 0.3, 0.5}

	reach := ComputeReachProbabilities(tr, strategy, initial, 0)
	for h := range initial {
		if reach[0][h] != initial[h] {
			t.Fatalf("root reach[%d] = %f, want %f", h, reach[0][h], initial[h])
		}
	}
}
