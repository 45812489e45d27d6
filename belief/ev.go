package belief

import (
	"tossholdem/card"
	"tossholdem/game"
	"tossholdem/tree"
)

// boardCards extracts the card.Card slice visible at state, i.e. the first
// NumBoardCards entries of state.BoardCards. Act/ProceedStreet never write
// card identities, only the reveal count, and no code in this repository
// (the self-play driver included) fills them in, so unless a caller sets
// BoardCards itself the slots read here are -1 (see DESIGN.md).
func boardCards(state game.PublicState) []card.Card {
	out := make([]card.Card, state.NumBoardCards)
	for i := 0; i < state.NumBoardCards; i++ {
		out[i] = card.Card(state.BoardCards[i])
	}
	return out
}

// ComputeExpectedTerminalValues returns, for the traverser implicit in
// opReach's ownership, the reach-weighted payoff vector at a terminal
// state: compute_win_probability scaled into [-sum(opReach), sum(opReach)]
// so it composes additively with reach-weighted interior sums, negated
// when the terminal's acting player role is not the traverser's own.
// Ported from subgame_solving.cc's compute_expected_terminal_values.
func ComputeExpectedTerminalValues(state game.PublicState, inverse bool, opReach []float64) []float64 {
	values := card.ComputeWinProbability(boardCards(state), opReach)
	beliefSum := vectorSum(opReach)
	out := make([]float64, len(values))
	for h, v := range values {
		// v is normalized over opReach; v*beliefSum is the reach-weighted
		// win mass, so this is (win mass)*2 - sum(opReach).
		out[h] = (v*2 - 1) * beliefSum
	}
	if inverse {
		for h := range out {
			out[h] = -out[h]
		}
	}
	return out
}

// ComputeEV evaluates strategy1 against strategy2 from player 0's
// perspective, returning the per-hand value vector at the root. Bottom-up:
// terminal nodes use ComputeExpectedTerminalValues, player-0-controlled
// interior nodes sum children weighted by strategy1, opponent-controlled
// interior nodes simply sum children (reach already folded into
// opReachProbabilities). Ported from subgame_solving.cc's compute_ev.
func ComputeEV(t tree.Tree, strategy1, strategy2 Strategy, initialBeliefs Vector) []float64 {
	const player = 0
	numHands := len(initialBeliefs)
	opReach := ComputeReachProbabilities(t, strategy2, initialBeliefs, 1-player)

	values := make([][]float64, len(t.Nodes))
	for nodeID := len(t.Nodes) - 1; nodeID >= 0; nodeID-- {
		node := t.Nodes[nodeID]
		state := node.State

		if node.NumChildren() == 0 {
			values[nodeID] = ComputeExpectedTerminalValues(state, game.ActivePlayer(state) != player, opReach[nodeID])
			continue
		}

		values[nodeID] = make([]float64, numHands)
		begin, end := t.Children(nodeID)
		if game.ActivePlayer(state) == player {
			for c := begin; c < end; c++ {
				action := t.ActionForChild(nodeID, c)
				for hand := 0; hand < numHands; hand++ {
					values[nodeID][hand] += strategy1[nodeID][hand][action] * values[c][hand]
				}
			}
		} else {
			for c := begin; c < end; c++ {
				for hand := 0; hand < numHands; hand++ {
					values[nodeID][hand] += values[c][hand]
				}
			}
		}
	}
	return values[0]
}

// ComputeEV2 returns both players' mean-over-hands EV for the strategy
// pair: player 0's EV against strategy2, and player 1's EV (the negation
// of player 0's EV when roles are swapped), per compute_ev2.
func ComputeEV2(t tree.Tree, strategy1, strategy2 Strategy, initialBeliefs Vector) Pair[float64] {
	ev1 := vectorSum(ComputeEV(t, strategy1, strategy2, initialBeliefs)) / float64(len(initialBeliefs))
	ev2 := -vectorSum(ComputeEV(t, strategy2, strategy1, initialBeliefs)) / float64(len(initialBeliefs))
	return Pair[float64]{ev1, ev2}
}

// ComputeImmediateRegrets measures, for a sequence of strategies (e.g. the
// `last` strategy recorded at each CFR iteration), the per-node mean
// immediate regret: the largest action-regret at that node averaged across
// the supplied strategies. Used as an offline convergence diagnostic, not
// by the solvers themselves. Ported from compute_immediate_regrets,
// generalized to take the tree and initial beliefs already built rather
// than re-unrolling the full game tree internally.
func ComputeImmediateRegrets(t tree.Tree, numActions int, strategies []Strategy, initialBeliefs Vector) [][]float64 {
	numHands := len(initialBeliefs)
	regrets := newStrategy(len(t.Nodes), numHands, numActions)

	for _, last := range strategies {
		reach0 := ComputeReachProbabilities(t, last, initialBeliefs, 0)
		reach1 := ComputeReachProbabilities(t, last, initialBeliefs, 1)

		for _, traverser := range []int{0, 1} {
			opReach := reach1
			if traverser == 1 {
				opReach = reach0
			}

			values := make([][]float64, len(t.Nodes))
			for nodeID := len(t.Nodes) - 1; nodeID >= 0; nodeID-- {
				node := t.Nodes[nodeID]
				state := node.State

				if node.NumChildren() == 0 {
					values[nodeID] = ComputeExpectedTerminalValues(state, game.ActivePlayer(state) != traverser, opReach[nodeID])
					continue
				}

				values[nodeID] = make([]float64, numHands)
				begin, end := t.Children(nodeID)
				if game.ActivePlayer(state) == traverser {
					for c := begin; c < end; c++ {
						action := t.ActionForChild(nodeID, c)
						for hand := 0; hand < numHands; hand++ {
							regrets[nodeID][hand][action] += values[c][hand]
							values[nodeID][hand] += values[c][hand] * last[nodeID][hand][action]
						}
					}
					for c := begin; c < end; c++ {
						action := t.ActionForChild(nodeID, c)
						for hand := 0; hand < numHands; hand++ {
							regrets[nodeID][hand][action] -= values[nodeID][hand]
						}
					}
				} else {
					for c := begin; c < end; c++ {
						for hand := 0; hand < numHands; hand++ {
							values[nodeID][hand] += values[c][hand]
						}
					}
				}
			}
		}
	}

	immediateRegrets := make([][]float64, len(t.Nodes))
	for nodeID, node := range t.Nodes {
		immediateRegrets[nodeID] = make([]float64, numHands)
		if node.NumChildren() == 0 {
			continue
		}
		for hand := 0; hand < numHands; hand++ {
			max := regrets[nodeID][hand][0]
			for _, r := range regrets[nodeID][hand][1:] {
				if r > max {
					max = r
				}
			}
			immediateRegrets[nodeID][hand] = max / float64(len(strategies))
		}
	}
	return immediateRegrets
}
