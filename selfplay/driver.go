// Package selfplay implements the recursive self-play driver: repeatedly
// solve a depth-bounded subgame rooted at the current public state, emit
// training examples at the root, sample a successor public state from the
// solver's own play distribution, and descend until terminal.
//
// Grounded on dcfr-go's main.go worker loop (build a traverser, step
// it, report, reset) and cfr/deepcfr_actor.go's per-node strategy caching
// (ActionsCache/DeepCFRActor), generalized from a full no-limit hold'em
// traversal keyed by hashed GameState to a bounded public-tree subgame
// solve keyed directly by game.PublicState.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"

	"tossholdem/belief"
	"tossholdem/common/random"
	"tossholdem/game"
	"tossholdem/solver"
)

// RecursiveSolvingParams holds the per-worker knobs a host process sets
// once and the driver reads on every step.
type RecursiveSolvingParams struct {
	RandomActionProb float64
	SampleLeaf       bool
	SubgameParams    solver.Params
}

// UniformBeliefs returns a belief.Pair with both players' vectors set to
// 1/NumHands, the starting point of a worker's driving state and of
// convergence diagnostics.
func UniformBeliefs() belief.Pair[belief.Vector] {
	u := make(belief.Vector, game.NumHands)
	mass := 1.0 / float64(game.NumHands)
	for i := range u {
		u[i] = mass
	}
	return belief.Pair[belief.Vector]{append(belief.Vector(nil), u...), append(belief.Vector(nil), u...)}
}

// Driver owns one worker's self-play loop state: the shared game model is
// stateless (package game is pure functions), so all a Driver carries is
// its solving params, its own RNG, and the public state/beliefs it is
// currently positioned at.
type Driver struct {
	params  RecursiveSolvingParams
	net     solver.Net
	rng     *rand.Rand
	state   game.PublicState
	beliefs belief.Pair[belief.Vector]
}

// NewDriver constructs a worker positioned at the initial state with
// uniform beliefs, the state a worker maintains across calls to Step.
func NewDriver(params RecursiveSolvingParams, net solver.Net, rng *rand.Rand) *Driver {
	return &Driver{
		params:  params,
		net:     net,
		rng:     rng,
		state:   game.InitialState(),
		beliefs: UniformBeliefs(),
	}
}

// State and Beliefs expose the driver's current position, mainly for
// reporting and tests.
func (d *Driver) State() game.PublicState            { return d.state }
func (d *Driver) Beliefs() belief.Pair[belief.Vector] { return d.beliefs }

// Step runs one iteration of the recursive driver: build a subgame at the
// current state, solve it, emit the two root training examples, sample a
// successor state, and reset to the initial state with uniform beliefs if
// that successor is terminal.
func (d *Driver) Step(ctx context.Context) error {
	s, err := solver.BuildSolver(d.state, d.beliefs, d.params.SubgameParams, d.net)
	if err != nil {
		return fmt.Errorf("selfplay: build subgame at state=%s: %w", game.StateToString(d.state), err)
	}
	if err := s.Multistep(ctx); err != nil {
		return fmt.Errorf("selfplay: multistep: %w", err)
	}
	if err := s.UpdateValueNetwork(ctx); err != nil {
		return fmt.Errorf("selfplay: update value network: %w", err)
	}

	nextState, nextBeliefs, err := d.sampleNext(s)
	if err != nil {
		return fmt.Errorf("selfplay: sample successor: %w", err)
	}

	if game.IsTerminal(nextState) {
		d.state = game.InitialState()
		d.beliefs = UniformBeliefs()
		return nil
	}
	d.state = nextState
	d.beliefs = nextBeliefs
	return nil
}

// sampleNext dispatches to the sample-to-leaf or single-step successor
// sampling mode, selected by params.SampleLeaf.
func (d *Driver) sampleNext(s solver.ISubgameSolver) (game.PublicState, belief.Pair[belief.Vector], error) {
	if d.params.SampleLeaf {
		return d.sampleToLeaf(s)
	}
	return d.sampleOneStep(s)
}

// sampleToLeaf walks down the subgame from its root, sampling one action
// per node from the solver's sampling strategy (with random_action_prob
// exploration) until a subgame leaf (terminal or pseudo-leaf) is reached,
// updating beliefs along the way by the belief-propagation strategy.
func (d *Driver) sampleToLeaf(s solver.ISubgameSolver) (game.PublicState, belief.Pair[belief.Vector], error) {
	t := s.GetTree()
	sampling := s.GetSamplingStrategy()
	propagation := s.GetBeliefPropagationStrategy()

	beliefs := belief.Pair[belief.Vector]{
		append(belief.Vector(nil), d.beliefs[0]...),
		append(belief.Vector(nil), d.beliefs[1]...),
	}

	nodeID := 0
	for {
		node := t.Nodes[nodeID]
		if node.NumChildren() == 0 {
			return node.State, beliefs, nil
		}

		player := game.ActivePlayer(node.State)
		action, err := d.sampleAction(node.State, sampling[nodeID], beliefs[player])
		if err != nil {
			return game.PublicState{}, belief.Pair[belief.Vector]{}, err
		}
		beliefs[player] = updateBeliefOnAction(beliefs[player], propagation[nodeID], action)

		lo, _ := game.LegalActionRange(node.State)
		begin, _ := t.Children(nodeID)
		nodeID = begin + int(action-lo)
	}
}

// sampleOneStep applies a single sampled action at the subgame's root and
// returns the resulting (possibly non-terminal, non-leaf) state.
func (d *Driver) sampleOneStep(s solver.ISubgameSolver) (game.PublicState, belief.Pair[belief.Vector], error) {
	root := s.GetTree().Nodes[0].State
	sampling := s.GetSamplingStrategy()
	propagation := s.GetBeliefPropagationStrategy()
	player := game.ActivePlayer(root)

	action, err := d.sampleAction(root, sampling[0], d.beliefs[player])
	if err != nil {
		return game.PublicState{}, belief.Pair[belief.Vector]{}, err
	}

	beliefs := belief.Pair[belief.Vector]{
		append(belief.Vector(nil), d.beliefs[0]...),
		append(belief.Vector(nil), d.beliefs[1]...),
	}
	beliefs[player] = updateBeliefOnAction(beliefs[player], propagation[0], action)

	return game.Act(root, action), beliefs, nil
}

// sampleAction picks one public action at state: with probability
// RandomActionProb it draws uniformly from the legal range (the
// exploration branch that keeps the "BR side" of an asymmetric self-play
// setup from collapsing onto the current strategy's support); otherwise it
// draws from the reach-weighted
// aggregate of stratRow (one row per hand) under bel, so a single public
// action is chosen even though the underlying strategy is per-hand.
func (d *Driver) sampleAction(state game.PublicState, stratRow [][]float64, bel belief.Vector) (game.Action, error) {
	lo, hi := game.LegalActionRange(state)
	if hi-lo == 1 {
		return lo, nil
	}
	if d.rng.Float64() < d.params.RandomActionProb {
		return lo + game.Action(d.rng.Intn(int(hi-lo))), nil
	}

	dist := make([]float64, game.NumActions)
	for hand, row := range stratRow {
		w := bel[hand]
		if w <= 0 {
			continue
		}
		for a := lo; a < hi; a++ {
			dist[a] += w * row[a]
		}
	}
	normalized := belief.NormalizeSafe(dist, kBeliefSmoothingEps)

	probs := make(map[int32]float32, hi-lo)
	for a := lo; a < hi; a++ {
		probs[int32(a)] = float32(normalized[a])
	}
	chosen, err := random.Sample(d.rng, probs)
	if err != nil {
		// normalized sums to 1 by construction; only a pathological
		// floating-point drift across a wide legal range lands here.
		return lo, nil
	}
	return game.Action(chosen), nil
}

// updateBeliefOnAction narrows bel to the hands consistent with the acting
// player having chosen action, per its own per-hand strategy row at this
// node, then renormalizes safely. The opponent's belief is left untouched
// by a single node's action (the public move carries no information about
// a hand the actor doesn't hold).
func updateBeliefOnAction(bel belief.Vector, stratRow [][]float64, action game.Action) belief.Vector {
	weighted := make([]float64, len(bel))
	for hand, row := range stratRow {
		weighted[hand] = bel[hand] * row[action]
	}
	return belief.NormalizeSafe(weighted, kBeliefSmoothingEps)
}
