// Package query implements the flat float32 wire format the solver uses
// to call the external value network: one active player id, one
// traverser id, a one-hot of the last action, six board card slots, two
// discard choices, the street, and two safely-normalized belief vectors.
//
// Grounded on original_source/csrc/poker/subgame_solving.cc's
// write_query_to/deserialize_query/get_query_size, and on
// grpc_batch_executor.go's state2proto, which marshals a fixed-layout
// struct into a flat buffer the same way.
package query

import (
	"tossholdem/belief"
	"tossholdem/game"
)

const reachSmoothingEps = 1e-3

// Size returns the number of float32 values one query occupies.
func Size(numHands int) int {
	return 1 + 1 + game.NumActions + 6 + 2 + 1 + 2*numHands
}

// Serialize packs (traverser, state, belief0, belief1) into the flat
// layout consumed by the value network, normalizing each belief vector
// safely (see belief.NormalizeSafe) before writing it.
func Serialize(traverser int, state game.PublicState, b0, b1 belief.Vector) []float32 {
	numHands := len(b0)
	buf := make([]float32, Size(numHands))
	i := 0

	buf[i] = float32(state.PlayerID)
	i++
	buf[i] = float32(traverser)
	i++

	for a := 0; a < game.NumActions; a++ {
		if game.Action(a) == state.LastAction {
			buf[i] = 1
		}
		i++
	}

	for slot := 0; slot < game.NumBoardCardSlots; slot++ {
		if slot < state.NumBoardCards && state.BoardCards[slot] >= 0 {
			buf[i] = float32(state.BoardCards[slot])
		} else {
			buf[i] = -1
		}
		i++
	}

	buf[i] = float32(state.DiscardChoice[0])
	i++
	buf[i] = float32(state.DiscardChoice[1])
	i++

	buf[i] = float32(state.Street)
	i++

	n0 := belief.NormalizeSafe(b0, reachSmoothingEps)
	for _, v := range n0 {
		buf[i] = float32(v)
		i++
	}
	n1 := belief.NormalizeSafe(b1, reachSmoothingEps)
	for _, v := range n1 {
		buf[i] = float32(v)
		i++
	}

	return buf
}

// Deserialize is the exact inverse of Serialize: it recovers the
// traverser, the observable PublicState fields, and the two (already
// normalized) belief vectors from a flat query buffer.
func Deserialize(buf []float32, numHands int) (traverser int, state game.PublicState, b0, b1 belief.Vector) {
	i := 0

	state.PlayerID = int(buf[i])
	i++
	traverser = int(buf[i])
	i++

	state.LastAction = game.InitialAction
	for a := 0; a < game.NumActions; a++ {
		if buf[i] != 0 {
			state.LastAction = game.Action(a)
		}
		i++
	}

	numBoard := 0
	for slot := 0; slot < game.NumBoardCardSlots; slot++ {
		v := int32(buf[i])
		state.BoardCards[slot] = v
		if v >= 0 {
			numBoard = slot + 1
		}
		i++
	}
	state.NumBoardCards = numBoard

	state.DiscardChoice[0] = int8(buf[i])
	i++
	state.DiscardChoice[1] = int8(buf[i])
	i++

	state.Street = int(buf[i])
	i++

	b0 = make(belief.Vector, numHands)
	for h := 0; h < numHands; h++ {
		b0[h] = float64(buf[i])
		i++
	}
	b1 = make(belief.Vector, numHands)
	for h := 0; h < numHands; h++ {
		b1[h] = float64(buf[i])
		i++
	}

	return traverser, state, b0, b1
}
