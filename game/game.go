// Package game implements the Toss-or-Hold'em public game tree: action
// encoding, street transitions, and the terminal/legal-action contract the
// tree builder and solvers walk. It deliberately tracks only the public
// information the solver needs (street, whose turn it is, the last action,
// how many board cards are visible, and each player's discard choice) —
// not chip stacks or pot size, which the abstraction folds into the
// discretized bet-size action set below. This package never assigns
// concrete card values to BoardCards, and neither does the self-play
// driver; they keep whatever values the caller put there.
//
// Adapted from original_source's poker.h/poker.cc Game class (action
// encoding, street machine) and the nolimitholdem package's Action/Strategy
// naming and Go idiom for a Step-based game state machine.
package game

import "fmt"

// Action indexes one of NumActions discrete choices available at a node.
type Action int32

// Street values. 0 is preflop; 2 and 3 are the two discard phases (player 1
// discards on 2, player 0 on 3); 4-6 are flop/turn/river betting; 999 marks
// a fold-terminal state. IsTerminal also treats 6 as terminal (river
// showdown) as soon as it is reached, so no river betting node is expanded.
const (
	StreetPreflop       = 0
	StreetFlopDiscard1  = 2
	StreetFlopDiscard2  = 3
	StreetFlopBetting   = 4
	StreetTurnBetting   = 5
	StreetRiverBetting  = 6
	StreetFoldTerminal  = 999
	InitialAction       = Action(-1)
	NumBoardCardSlots   = 6
)

const (
	NumCards           = 52
	NumPreDiscardCards = 3
	NumPostDiscardCards = 2
	StackSize          = 400
	SmallBlind         = 1
	BigBlind           = 2
	MaxBetSize         = StackSize
)

// Bet sizes in chips; the last entry equals StackSize (all-in).
var BetSizes = [...]int{1, 2, 4, 8, 16, 32, 64, 128, 256, 400}

const NumBetSizes = len(BetSizes)

// Action encoding: 0 fold, 1 call/check, [ActionBetBase, ActionDiscardBase)
// bet/raise by BetSizes index, [ActionDiscardBase, NumActions) discard of
// pre-discard hole card 0, 1, or 2.
const (
	ActionFold        Action = 0
	ActionCallCheck   Action = 1
	ActionBetBase     Action = 2
	ActionDiscardBase Action = ActionBetBase + Action(NumBetSizes)
	NumActions        int    = int(ActionDiscardBase) + NumPreDiscardCards
)

// NumHands is the number of distinct 3-card pre-discard holdings, C(52,3).
const NumHands = 52 * 51 * 50 / 6

// ActionKind classifies an unpacked Action.
type ActionKind int

const (
	KindFold ActionKind = iota
	KindCallCheck
	KindBetRaise
	KindDiscard
)

// UnpackedAction separates an Action into its kind and payload: the bet
// amount for KindBetRaise, the discarded hole-card index for KindDiscard.
type UnpackedAction struct {
	Kind   ActionKind
	Amount int
}

// Unpack decodes a raw Action into its kind and payload.
func Unpack(action Action) UnpackedAction {
	switch {
	case action == ActionFold:
		return UnpackedAction{Kind: KindFold}
	case action == ActionCallCheck:
		return UnpackedAction{Kind: KindCallCheck}
	case action >= ActionBetBase && action < ActionDiscardBase:
		return UnpackedAction{Kind: KindBetRaise, Amount: BetSizes[int(action-ActionBetBase)]}
	case action >= ActionDiscardBase && int(action) < NumActions:
		return UnpackedAction{Kind: KindDiscard, Amount: int(action - ActionDiscardBase)}
	default:
		return UnpackedAction{Kind: -1, Amount: -1}
	}
}

// BetSize returns the chip amount for a bet/raise action, 0 otherwise.
func BetSize(action Action) int {
	if action >= ActionBetBase && action < ActionDiscardBase {
		return BetSizes[int(action-ActionBetBase)]
	}
	return 0
}

// IsDiscardAction reports whether action is one of the three discard
// choices.
func IsDiscardAction(action Action) bool {
	return action >= ActionDiscardBase && int(action) < NumActions
}

// DiscardIndex returns which pre-discard hole card a discard action drops.
func DiscardIndex(action Action) int {
	return int(action - ActionDiscardBase)
}

// PublicState is the solver's public-information view of a game node.
type PublicState struct {
	Street        int
	PlayerID      int
	LastAction    Action
	NumBoardCards int
	BoardCards    [NumBoardCardSlots]int32 // -1 for unset slots
	DiscardChoice [2]int8                  // -1 until that player has discarded
}

// InitialState is the root of the game tree: preflop, player 0 to act, no
// board cards or discards yet.
func InitialState() PublicState {
	s := PublicState{
		Street:     StreetPreflop,
		PlayerID:   0,
		LastAction: InitialAction,
	}
	for i := range s.BoardCards {
		s.BoardCards[i] = -1
	}
	s.DiscardChoice[0] = -1
	s.DiscardChoice[1] = -1
	return s
}

// LegalActionRange returns [min, max) legal actions at state. During the
// two discard streets only the player on turn to discard has a real
// choice; the other player gets a single pass action (call/check) so the
// tree still has exactly one child at that node. Act advances the street
// on that pass only when it hands the turn to player 0 (street 3).
func LegalActionRange(state PublicState) (Action, Action) {
	if state.Street == StreetFlopDiscard1 || state.Street == StreetFlopDiscard2 {
		playerToDiscard := (state.Street == StreetFlopDiscard1 && state.PlayerID == 1) ||
			(state.Street == StreetFlopDiscard2 && state.PlayerID == 0)
		if playerToDiscard {
			return ActionDiscardBase, Action(NumActions)
		}
		return ActionCallCheck, ActionCallCheck + 1
	}
	return 0, ActionDiscardBase
}

// IsTerminal reports whether state ends the hand (fold or river showdown).
func IsTerminal(state PublicState) bool {
	return state.Street == StreetFoldTerminal || state.Street == StreetRiverBetting
}

// ActivePlayer returns whose turn it is at state.
func ActivePlayer(state PublicState) int {
	return state.PlayerID
}

// Act applies action to state, returning the resulting state. Board card
// values are not assigned here (only NumBoardCards advances), and no other
// code in this repository assigns them either; a discard records the
// discarded hole-card index in DiscardChoice.
func Act(state PublicState, action Action) PublicState {
	unpacked := Unpack(action)
	next := state

	switch unpacked.Kind {
	case KindDiscard:
		next.DiscardChoice[state.PlayerID] = int8(unpacked.Amount)
		next.PlayerID = 1 - state.PlayerID
		bothDiscarded := (state.Street == StreetFlopDiscard1 && next.PlayerID == 0) ||
			(state.Street == StreetFlopDiscard2 && next.PlayerID == 1)
		if bothDiscarded {
			return ProceedStreet(next)
		}
		return next

	case KindFold:
		next.Street = StreetFoldTerminal
		return next

	case KindCallCheck:
		next.LastAction = action
		next.PlayerID = 1 - state.PlayerID
		if next.PlayerID == 0 && state.Street != StreetPreflop {
			return ProceedStreet(next)
		}
		return next

	case KindBetRaise:
		next.LastAction = action
		next.PlayerID = 1 - state.PlayerID
		return next
	}

	return next
}

// ProceedStreet advances state to the next street once a betting round or
// discard phase has completed.
func ProceedStreet(state PublicState) PublicState {
	switch state.Street {
	case StreetRiverBetting:
		state.Street = StreetFoldTerminal
		return state
	case StreetPreflop:
		state.Street = StreetFlopDiscard1
		state.PlayerID = 1
		state.NumBoardCards = 2
	case StreetFlopDiscard1:
		state.Street = StreetFlopDiscard2
		state.PlayerID = 0
		state.NumBoardCards = 3
	case StreetFlopDiscard2:
		state.Street = StreetFlopBetting
		state.PlayerID = 1
		state.NumBoardCards = 4
	default:
		state.Street = state.Street + 1
		state.PlayerID = 1
		state.NumBoardCards = state.Street - 1
	}
	return state
}

// ActionToString renders action in the long human-readable form poker.cc's
// action_to_string uses: "fold", "call/check", "bet/raise(N)", or
// "discard(card=N)".
func ActionToString(action Action) string {
	unpacked := Unpack(action)
	switch unpacked.Kind {
	case KindFold:
		return "fold"
	case KindCallCheck:
		return "call/check"
	case KindBetRaise:
		return fmt.Sprintf("bet/raise(%d)", unpacked.Amount)
	case KindDiscard:
		return fmt.Sprintf("discard(card=%d)", unpacked.Amount)
	default:
		return "unknown"
	}
}

// ActionToStringShort renders action in the compact form poker.cc's
// action_to_string_short uses, for dense tree dumps: "F", "C", "B<amount>",
// "D<index>".
func ActionToStringShort(action Action) string {
	unpacked := Unpack(action)
	switch unpacked.Kind {
	case KindFold:
		return "F"
	case KindCallCheck:
		return "C"
	case KindBetRaise:
		return fmt.Sprintf("B%d", unpacked.Amount)
	case KindDiscard:
		return fmt.Sprintf("D%d", unpacked.Amount)
	default:
		return "?"
	}
}

// StateToString renders state's public fields in the long form poker.cc's
// state_to_string uses, for error messages and diagnostic logging.
func StateToString(state PublicState) string {
	last := "start"
	if state.LastAction != InitialAction {
		last = ActionToString(state.LastAction)
	}
	return fmt.Sprintf("(street=%d,player=%d,board=%d,last=%s)",
		state.Street, state.PlayerID, state.NumBoardCards, last)
}

// StateToStringShort renders state in the compact form poker.cc's
// state_to_string_short uses, for dense tree dumps.
func StateToStringShort(state PublicState) string {
	last := "beg"
	if state.LastAction != InitialAction {
		last = ActionToStringShort(state.LastAction)
	}
	return fmt.Sprintf("S%dp%d,%s", state.Street, state.PlayerID, last)
}
