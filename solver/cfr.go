package solver

import (
	"context"
	"math"

	"tossholdem/belief"
	"tossholdem/game"
	"tossholdem/tree"
)

// CFRSolver runs vanilla CFR, Linear-CFR, or Discounted-CFR (selected by
// Params.LinearUpdate / Params.DCFR) over a fixed subgame. Ported from
// subgame_solving.cc's CFR struct, sharing baseTraverser's bottom-up
// leaf-value machinery with BRSolver.
type CFRSolver struct {
	params Params
	base   *baseTraverser
	net    Net

	beliefs belief.Pair[belief.Vector]

	average, sum, last, regrets belief.Strategy
	reachBuffer                 [][]float64

	numSteps       belief.Pair[int]
	rootValues     belief.Pair[[]float64]
	rootValueMeans belief.Pair[[]float64]
}

// NewCFRSolver constructs a CFR solver over t.
func NewCFRSolver(t tree.Tree, beliefs belief.Pair[belief.Vector], params Params, net Net) (*CFRSolver, error) {
	numHands := len(beliefs[0])
	base, err := newBaseTraverser(t, numHands, net)
	if err != nil {
		return nil, err
	}
	s := &CFRSolver{
		params:  params,
		base:    base,
		net:     net,
		beliefs: beliefs,
		average: belief.UniformStrategy(numHands, game.NumActions, t),
		last:    belief.UniformStrategy(numHands, game.NumActions, t),
		sum:     belief.UniformReachWeightedStrategy(game.NumActions, t, beliefs),
	}
	s.regrets = make(belief.Strategy, len(t.Nodes))
	for i := range t.Nodes {
		s.regrets[i] = make([][]float64, numHands)
		for h := range s.regrets[i] {
			s.regrets[i][h] = make([]float64, game.NumActions)
		}
	}
	return s, nil
}

// updateRegrets adds immediate regret for s.last to s.regrets and fills
// s.base.traverserValues with the EV of s.last for traverser. Ported from
// CFR::update_regrets.
func (s *CFRSolver) updateRegrets(ctx context.Context, traverser int) error {
	s.base.precomputeReaches(s.last, s.beliefs)
	if err := s.base.precomputeAllLeafValues(ctx, traverser); err != nil {
		return err
	}

	t := s.base.tree
	numHands := s.base.numHands

	for nodeID := len(t.Nodes) - 1; nodeID >= 0; nodeID-- {
		node := t.Nodes[nodeID]
		if node.NumChildren() == 0 {
			continue
		}
		state := node.State
		value := make([]float64, numHands)
		begin, end := t.Children(nodeID)

		if game.ActivePlayer(state) == traverser {
			for _, ca := range t.ChildrenActions(nodeID) {
				actionValue := s.base.traverserValues[ca.Node]
				for hand := 0; hand < numHands; hand++ {
					s.regrets[nodeID][hand][ca.Action] += actionValue[hand]
					value[hand] += actionValue[hand] * s.last[nodeID][hand][ca.Action]
				}
			}
			for _, ca := range t.ChildrenActions(nodeID) {
				for hand := 0; hand < numHands; hand++ {
					s.regrets[nodeID][hand][ca.Action] -= value[hand]
				}
			}
		} else {
			for c := begin; c < end; c++ {
				actionValue := s.base.traverserValues[c]
				for hand := 0; hand < numHands; hand++ {
					value[hand] += actionValue[hand]
				}
			}
		}
		s.base.traverserValues[nodeID] = value
	}
	return nil
}

// Step runs one CFR iteration for traverser.
func (s *CFRSolver) Step(ctx context.Context, traverser int) error {
	if err := s.updateRegrets(ctx, traverser); err != nil {
		return err
	}
	s.rootValues[traverser] = append([]float64(nil), s.base.traverserValues[0]...)

	numStrategies := float64(s.numSteps[traverser] + 1)
	alpha := 1.0 / float64(s.numSteps[traverser]+1)
	if s.params.LinearUpdate {
		alpha = 2.0 / float64(s.numSteps[traverser]+2)
	}
	if len(s.rootValueMeans[traverser]) == 0 {
		s.rootValueMeans[traverser] = make([]float64, len(s.rootValues[traverser]))
	}
	for i, v := range s.rootValues[traverser] {
		s.rootValueMeans[traverser][i] += (v - s.rootValueMeans[traverser][i]) * alpha
	}

	posDiscount, negDiscount, stratDiscount := 1.0, 1.0, 1.0
	switch {
	case s.params.LinearUpdate:
		posDiscount = numStrategies / (numStrategies + 1)
		negDiscount = posDiscount
		stratDiscount = posDiscount
	case s.params.DCFR:
		if s.params.DCFRAlpha >= 5 {
			posDiscount = 1
		} else {
			posDiscount = math.Pow(numStrategies, s.params.DCFRAlpha) / (math.Pow(numStrategies, s.params.DCFRAlpha) + 1)
		}
		if s.params.DCFRBeta <= -5 {
			negDiscount = 0
		} else {
			negDiscount = math.Pow(numStrategies, s.params.DCFRBeta) / (math.Pow(numStrategies, s.params.DCFRBeta) + 1)
		}
		stratDiscount = math.Pow(numStrategies/(numStrategies+1), s.params.DCFRGamma)
	}

	t := s.base.tree
	numHands := s.base.numHands

	for nodeID, node := range t.Nodes {
		if node.NumChildren() == 0 || game.ActivePlayer(node.State) != traverser {
			continue
		}
		lo, hi := game.LegalActionRange(node.State)
		for hand := 0; hand < numHands; hand++ {
			for a := lo; a < hi; a++ {
				s.last[nodeID][hand][a] = math.Max(s.regrets[nodeID][hand][a], kRegretSmoothingEps)
			}
			s.last[nodeID][hand] = belief.NormalizeSafe(s.last[nodeID][hand], kRegretSmoothingEps)
		}
	}

	s.reachBuffer = belief.ComputeReachProbabilities(t, s.last, s.beliefs[traverser], traverser)

	for nodeID, node := range t.Nodes {
		if node.NumChildren() == 0 || game.ActivePlayer(node.State) != traverser {
			continue
		}
		lo, hi := game.LegalActionRange(node.State)
		for hand := 0; hand < numHands; hand++ {
			for a := lo; a < hi; a++ {
				if s.regrets[nodeID][hand][a] > 0 {
					s.regrets[nodeID][hand][a] *= posDiscount
				} else {
					s.regrets[nodeID][hand][a] *= negDiscount
				}
			}
			for a := lo; a < hi; a++ {
				s.sum[nodeID][hand][a] *= stratDiscount
			}
			for a := lo; a < hi; a++ {
				s.sum[nodeID][hand][a] += s.reachBuffer[nodeID][hand] * s.last[nodeID][hand][a]
			}
			s.average[nodeID][hand] = belief.NormalizeSafe(s.sum[nodeID][hand], kRegretSmoothingEps)
		}
	}

	s.numSteps[traverser]++
	return nil
}

// Multistep alternates traversers across params.NumIters iterations.
func (s *CFRSolver) Multistep(ctx context.Context) error {
	for iter := 0; iter < s.params.NumIters; iter++ {
		if err := s.Step(ctx, iter%2); err != nil {
			return err
		}
	}
	return nil
}

// UpdateValueNetwork emits the two root training examples this subgame
// produced, one per traverser.
func (s *CFRSolver) UpdateValueNetwork(ctx context.Context) error {
	root := s.base.tree.Nodes[0].State
	for traverser := 0; traverser < 2; traverser++ {
		if err := addTrainingExample(ctx, s.net, root, traverser, s.beliefs, s.GetHandValues(traverser)); err != nil {
			return err
		}
	}
	return nil
}

// GetStrategy returns the running average strategy.
func (s *CFRSolver) GetStrategy() belief.Strategy { return s.average }

// GetSamplingStrategy returns `last`, the strategy derived from the most
// recent non-negative-clipped regrets — the policy the self-play driver
// should sample actions from during a subgame descent.
func (s *CFRSolver) GetSamplingStrategy() belief.Strategy { return s.last }

// GetBeliefPropagationStrategy mirrors GetSamplingStrategy.
func (s *CFRSolver) GetBeliefPropagationStrategy() belief.Strategy { return s.last }

// GetHandValues returns the running mean of traverser's root values.
func (s *CFRSolver) GetHandValues(traverser int) []float64 { return s.rootValueMeans[traverser] }

// GetTree returns the subgame tree this solver operates on.
func (s *CFRSolver) GetTree() tree.Tree { return s.base.tree }
