package game

import "testing"

func TestInitialState(t *testing.T) {
	s := InitialState()
	if s.Street != StreetPreflop || s.PlayerID != 0 || s.LastAction != InitialAction {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	for _, c := range s.BoardCards {
		if c != -1 {
			t.Fatalf("expected unset board cards, got %+v", s.BoardCards)
		}
	}
}

func TestUnpackActions(t *testing.T) {
	if k := Unpack(ActionFold).Kind; k != KindFold {
		t.Fatalf("fold kind = %v", k)
	}
	if k := Unpack(ActionCallCheck).Kind; k != KindCallCheck {
		t.Fatalf("call/check kind = %v", k)
	}
	bet := Unpack(ActionBetBase)
	if bet.Kind != KindBetRaise || bet.Amount != BetSizes[0] {
		t.Fatalf("bet unpack = %+v", bet)
	}
	discard := Unpack(ActionDiscardBase + 1)
	if discard.Kind != KindDiscard || discard.Amount != 1 {
		t.Fatalf("discard unpack = %+v", discard)
	}
}

func TestLegalActionRangeBetting(t *testing.T) {
	s := InitialState()
	lo, hi := LegalActionRange(s)
	if lo != 0 || hi != ActionDiscardBase {
		t.Fatalf("preflop range = [%d,%d)", lo, hi)
	}
}

func TestLegalActionRangeDiscard(t *testing.T) {
	s := PublicState{Street: StreetFlopDiscard1, PlayerID: 1}
	lo, hi := LegalActionRange(s)
	if lo != ActionDiscardBase || int(hi) != NumActions {
		t.Fatalf("discarding player's range = [%d,%d)", lo, hi)
	}

	waiting := PublicState{Street: StreetFlopDiscard1, PlayerID: 0}
	lo, hi = LegalActionRange(waiting)
	if lo != ActionCallCheck || hi != ActionCallCheck+1 {
		t.Fatalf("waiting player's range = [%d,%d)", lo, hi)
	}
}

func TestActFoldIsTerminal(t *testing.T) {
	s := InitialState()
	s = Act(s, ActionFold)
	if !IsTerminal(s) {
		t.Fatalf("expected terminal state after fold, got %+v", s)
	}
}

// Preflop never advances on its own via call/check: the public abstraction
// only models a bounded subgame and relies on max_depth truncation to bound
// preflop exploration, matching the original engine's street != 0 guard in
// its own call/check transition.
func TestPreflopCheckCheckDoesNotAdvance(t *testing.T) {
	s := InitialState()
	s = Act(s, ActionCallCheck)
	s = Act(s, ActionCallCheck)
	if s.Street != StreetPreflop {
		t.Fatalf("expected preflop to stay put on check/check, got %+v", s)
	}
}

func TestDiscardPhaseProgression(t *testing.T) {
	s := PublicState{Street: StreetFlopDiscard1, PlayerID: 1, NumBoardCards: 2}
	s.DiscardChoice[0] = -1
	s.DiscardChoice[1] = -1

	s = Act(s, ActionDiscardBase) // player 1 discards card 0
	if s.Street != StreetFlopDiscard2 || s.PlayerID != 0 || s.NumBoardCards != 3 {
		t.Fatalf("expected player-0 discard phase, got %+v", s)
	}

	s = Act(s, ActionDiscardBase+1) // player 0 discards card 1
	if s.Street != StreetFlopBetting || s.PlayerID != 1 || s.NumBoardCards != 4 {
		t.Fatalf("expected flop betting, got %+v", s)
	}
	if s.DiscardChoice[0] != 1 || s.DiscardChoice[1] != 0 {
		t.Fatalf("discard choices not recorded: %+v", s.DiscardChoice)
	}
}

func TestBettingStreetProgression(t *testing.T) {
	s := PublicState{Street: StreetFlopBetting, PlayerID: 1, NumBoardCards: 4}
	s = Act(s, ActionCallCheck) // player 1 checks: the turn passes back to player 0 and street != 0, so the street advances
	if s.Street != StreetTurnBetting || s.PlayerID != 1 || s.NumBoardCards != 4 {
		t.Fatalf("expected turn betting, got %+v", s)
	}
	s = Act(s, ActionCallCheck) // player 1 checks on the turn: advance again
	if s.Street != StreetRiverBetting || s.PlayerID != 1 || s.NumBoardCards != 5 {
		t.Fatalf("expected river betting, got %+v", s)
	}
}

func TestRiverShowdownIsTerminal(t *testing.T) {
	s := PublicState{Street: StreetRiverBetting, PlayerID: 1}
	if !IsTerminal(s) {
		t.Fatalf("river street should be terminal")
	}
}

func TestActionToString(t *testing.T) {
	cases := map[Action]string{
		ActionFold:        "fold",
		ActionCallCheck:   "call/check",
		ActionBetBase:     "bet/raise(1)",
		ActionDiscardBase: "discard(card=0)",
	}
	for action, want := range cases {
		if got := ActionToString(action); got != want {
			t.Fatalf("ActionToString(%d) = %q, want %q", action, got, want)
		}
	}
}

func TestActionToStringShort(t *testing.T) {
	if got := ActionToStringShort(ActionFold); got != "F" {
		t.Fatalf("ActionToStringShort(fold) = %q, want F", got)
	}
	if got := ActionToStringShort(ActionBetBase + 2); got != "B4" {
		t.Fatalf("ActionToStringShort(bet index 2) = %q, want B4", got)
	}
}

func TestStateToStringIncludesInitialMarker(t *testing.T) {
	s := InitialState()
	if got := StateToString(s); got != "(street=0,player=0,board=0,last=start)" {
		t.Fatalf("StateToString(initial) = %q", got)
	}

	s = Act(s, ActionCallCheck)
	got := StateToString(s)
	if got != "(street=0,player=1,board=0,last=call/check)" {
		t.Fatalf("StateToString(after call) = %q", got)
	}
}

func TestStateToStringShort(t *testing.T) {
	if got := StateToStringShort(InitialState()); got != "S0p0,beg" {
		t.Fatalf("StateToStringShort(initial) = %q", got)
	}
}
