package billiards

import (
	"errors"
	"testing"
)

// fourPlayerTeams builds two teams of two with ranks interleaved across sides.
func fourPlayerTeams() []*Team {
	return []*Team{
		NewTeam(1, SidePar, []string{"ana", "beto"}, []int{3, 1}),
		NewTeam(2, SideImpar, []string{"caro", "dani"}, []int{2, 4}),
	}
}

func TestStartingSideFollowsLowestRank(t *testing.T) {
	e, err := NewTurnEngine(fourPlayerTeams())
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	got := e.CurrentTurn()
	if got.Side != SidePar || got.Player != "beto" || got.TeamID != 1 {
		t.Errorf("expected beto (PAR, team 1) to start, got %+v", got)
	}
	if e.StartingSide() != SidePar {
		t.Errorf("starting side = %s, want PAR", e.StartingSide())
	}
}

func TestTwoPlayersRankOneStarts(t *testing.T) {
	teams := []*Team{
		NewTeam(1, SidePar, []string{"zoe"}, []int{2}),
		NewTeam(2, SideImpar, []string{"yan"}, []int{1}),
	}
	e, err := NewTurnEngine(teams)
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	if got := e.CurrentTurn(); got.Player != "yan" || got.Side != SideImpar {
		t.Errorf("expected rank-1 player yan to start, got %+v", got)
	}
}

func TestStartingSideTieBreaksOnName(t *testing.T) {
	cases := []struct {
		name     string
		par      string
		impar    string
		wantSide Side
	}{
		{"par name smaller", "alba", "bruno", SidePar},
		{"impar name smaller", "carla", "bruno", SideImpar},
		{"identical names favour par", "eva", "eva", SidePar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			teams := []*Team{
				NewTeam(1, SidePar, []string{tc.par}, []int{1}),
				NewTeam(2, SideImpar, []string{tc.impar}, []int{1}),
			}
			e, err := NewTurnEngine(teams)
			if err != nil {
				t.Fatalf("NewTurnEngine: %v", err)
			}
			if e.StartingSide() != tc.wantSide {
				t.Errorf("starting side = %s, want %s", e.StartingSide(), tc.wantSide)
			}
		})
	}
}

func TestStartingSideOverride(t *testing.T) {
	e, err := NewTurnEngine(fourPlayerTeams(), WithStartingSide(SideImpar))
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	if got := e.CurrentTurn(); got.Player != "caro" {
		t.Errorf("override should start with caro, got %+v", got)
	}
}

func TestOverrideToEmptySideFallsBack(t *testing.T) {
	teams := []*Team{NewTeam(1, SidePar, []string{"solo", "duo"}, []int{2, 1})}
	e, err := NewTurnEngine(teams, WithStartingSide(SideImpar))
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	if e.StartingSide() != SidePar {
		t.Errorf("starting side should be corrected to PAR, got %s", e.StartingSide())
	}
	if got := e.CurrentTurn(); got.Player != "duo" {
		t.Errorf("expected duo, got %+v", got)
	}
}

func TestEmptyRosterRejected(t *testing.T) {
	_, err := NewTurnEngine(nil)
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster, got %v", err)
	}
	_, err = NewTurnEngine([]*Team{NewTeam(1, SidePar, nil, nil)})
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster for teams without players, got %v", err)
	}
}

func TestSequenceSortedByRankThenName(t *testing.T) {
	teams := []*Team{
		NewTeam(1, SidePar, []string{"mia", "leo"}, []int{5, 5}),
		NewTeam(3, SidePar, []string{"ivo"}, []int{2}),
		NewTeam(2, SideImpar, []string{"noa"}, []int{1}),
	}
	e, err := NewTurnEngine(teams)
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	seq := e.Sequence(SidePar)
	want := []string{"ivo", "leo", "mia"}
	if len(seq) != len(want) {
		t.Fatalf("sequence length = %d, want %d", len(seq), len(want))
	}
	for i, name := range want {
		if seq[i].Player != name {
			t.Errorf("seq[%d] = %s, want %s", i, seq[i].Player, name)
		}
	}
}

func TestMissingRankSortsLast(t *testing.T) {
	teams := []*Team{
		{ID: 1, Side: SidePar, Players: []string{"a", "b"}, Ranks: []int{4}},
		NewTeam(2, SideImpar, []string{"c"}, []int{1}),
	}
	e, err := NewTurnEngine(teams)
	if err != nil {
		t.Fatalf("NewTurnEngine: %v", err)
	}
	seq := e.Sequence(SidePar)
	if seq[0].Player != "a" || seq[1].Player != "b" {
		t.Errorf("player without rank should sort last, got %+v", seq)
	}
}

func TestAdvanceManualAlternatesSides(t *testing.T) {
	e, _ := NewTurnEngine(fourPlayerTeams())
	want := []string{"beto", "caro", "ana", "dani", "beto", "caro"}
	for i, name := range want {
		if got := e.CurrentTurn().Player; got != name {
			t.Fatalf("step %d: current = %s, want %s", i, got, name)
		}
		e.AdvanceManual()
	}
}

func TestAdvanceCyclesBackToStart(t *testing.T) {
	teams := []*Team{
		NewTeam(1, SidePar, []string{"a", "b", "c"}, []int{1, 3, 5}),
		NewTeam(2, SideImpar, []string{"d", "e"}, []int{2, 4}),
	}
	e, _ := NewTurnEngine(teams)
	start := e.CurrentTurn()

	// 3 PAR and 2 IMPAR players realign after 2*lcm(3,2) advances.
	for i := 0; i < 12; i++ {
		e.AdvanceManual()
	}
	if got := e.CurrentTurn(); got != start {
		t.Errorf("after full cycle current = %+v, want %+v", got, start)
	}

	eq, _ := NewTurnEngine(fourPlayerTeams())
	start = eq.CurrentTurn()
	for i := 0; i < 4; i++ {
		eq.AdvanceManual()
	}
	if got := eq.CurrentTurn(); got != start {
		t.Errorf("equal sides: after 2x side size current = %+v, want %+v", got, start)
	}
}

func TestOneSidedRosterRotatesWithinSide(t *testing.T) {
	teams := []*Team{NewTeam(1, SideImpar, []string{"x", "y"}, []int{1, 2})}
	e, _ := NewTurnEngine(teams)
	e.AdvanceManual()
	if got := e.CurrentTurn(); got.Player != "y" || got.Side != SideImpar {
		t.Errorf("expected y, got %+v", got)
	}
	e.AdvanceManual()
	if got := e.CurrentTurn(); got.Player != "x" {
		t.Errorf("expected wrap to x, got %+v", got)
	}
}

func TestRecordShotAutoContinue(t *testing.T) {
	e, _ := NewTurnEngine(fourPlayerTeams(), WithAutoContinue(true))
	before := e.CurrentTurn()
	for i := 0; i < 3; i++ {
		e.RecordShot(true, false)
		if got := e.CurrentTurn(); got != before {
			t.Fatalf("legal pot with auto-continue changed turn to %+v", got)
		}
	}
	if e.BallInHand() {
		t.Error("ball-in-hand should be clear after a legal pot")
	}

	e.SetAutoContinue(false)
	e.RecordShot(true, false)
	if got := e.CurrentTurn(); got.Side == before.Side {
		t.Errorf("legal pot without auto-continue should alternate, got %+v", got)
	}
}

func TestRecordShotFoulAlwaysPasses(t *testing.T) {
	for _, auto := range []bool{true, false} {
		for _, legal := range []bool{true, false} {
			e, _ := NewTurnEngine(fourPlayerTeams(), WithAutoContinue(auto))
			before := e.CurrentTurn()
			e.RecordShot(legal, true)
			if got := e.CurrentTurn(); got.Side == before.Side {
				t.Errorf("auto=%v legal=%v: foul did not alternate side", auto, legal)
			}
			if !e.BallInHand() {
				t.Errorf("auto=%v legal=%v: foul did not raise ball-in-hand", auto, legal)
			}
		}
	}
}

func TestBallInHandClearing(t *testing.T) {
	e, _ := NewTurnEngine(fourPlayerTeams())
	e.RecordShot(false, true)
	turn := e.CurrentTurn()
	e.ClearBallInHand()
	if e.BallInHand() {
		t.Error("ClearBallInHand left flag set")
	}
	if e.CurrentTurn() != turn {
		t.Error("ClearBallInHand changed the turn")
	}

	e.RecordShot(false, true)
	e.AdvanceManual()
	if e.BallInHand() {
		t.Error("AdvanceManual should clear ball-in-hand")
	}

	e.RecordShot(false, true)
	e.RecordShot(false, false)
	if e.BallInHand() {
		t.Error("a plain miss should clear ball-in-hand")
	}
}

func TestResetReturnsToStart(t *testing.T) {
	e, _ := NewTurnEngine(fourPlayerTeams(), WithAutoContinue(true))
	start := e.CurrentTurn()
	e.AdvanceManual()
	e.RecordShot(false, true)
	e.Reset()
	if e.CurrentTurn() != start || e.BallInHand() {
		t.Errorf("Reset: current = %+v ballInHand = %v", e.CurrentTurn(), e.BallInHand())
	}
	if !e.AutoContinue() {
		t.Error("Reset should keep auto-continue")
	}
}
