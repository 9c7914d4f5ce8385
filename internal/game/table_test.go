package game

import (
	"errors"
	"sync"
	"testing"

	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/playmatatu/tablescore/internal/config"
)

// headToHead builds a table with ana (PAR, rank 1) against caro (IMPAR, rank 2).
func headToHead(t *testing.T, autoContinue bool) (*Table, *recorder) {
	t.Helper()
	rules := config.DefaultRules()
	rules.AutoContinue = autoContinue
	teams := []*billiards.Team{
		billiards.NewTeam(1, billiards.SidePar, []string{"ana"}, []int{1}),
		billiards.NewTeam(2, billiards.SideImpar, []string{"caro"}, []int{2}),
	}
	tbl, err := newTable("tbl_test", teams, rules, "")
	if err != nil {
		t.Fatalf("newTable: %v", err)
	}
	rec := &recorder{}
	tbl.notify = rec.add
	return tbl, rec
}

func TestTableRegisterBallPublishes(t *testing.T) {
	tbl, rec := headToHead(t, false)
	snap, err := tbl.RegisterBall(2)
	if err != nil {
		t.Fatalf("RegisterBall: %v", err)
	}
	if snap.LastShot == nil || !snap.LastShot.Legal || snap.LastShot.Ball != 2 {
		t.Errorf("last shot = %+v", snap.LastShot)
	}
	if snap.Turn.Player != "caro" {
		t.Errorf("turn = %+v, want caro", snap.Turn)
	}
	if got := snap.Sides[billiards.SidePar].Sunk; len(got) != 1 || got[0] != 2 {
		t.Errorf("PAR sunk = %v", got)
	}
	ev := rec.last()
	if ev.Type != EventTableUpdate || ev.Action != "register_ball" || ev.Snapshot == nil {
		t.Errorf("unexpected event %+v", ev)
	}

	snap, _ = tbl.Miss()
	if snap.LastShot != nil {
		t.Error("last shot should only describe the latest mutation")
	}
}

func TestTableFoulAndClear(t *testing.T) {
	tbl, _ := headToHead(t, false)
	snap, _ := tbl.Foul()
	if !snap.BallInHand || snap.Turn.Player != "caro" {
		t.Errorf("foul snapshot %+v", snap)
	}
	snap, _ = tbl.ClearBallInHand()
	if snap.BallInHand || snap.Turn.Player != "caro" {
		t.Errorf("clear snapshot %+v", snap)
	}
	snap, _ = tbl.Advance()
	if snap.Turn.Player != "ana" {
		t.Errorf("advance snapshot %+v", snap)
	}
}

func TestTableResolutionLifecycle(t *testing.T) {
	tbl, _ := headToHead(t, true)
	for _, n := range billiards.DefaultParBalls {
		if _, err := tbl.RegisterBall(n); err != nil {
			t.Fatalf("RegisterBall(%d): %v", n, err)
		}
	}
	snap, _ := tbl.ResolveEightBall(true)
	if snap.Status != StatusResolved || !snap.Resolved {
		t.Fatalf("status = %s resolved = %v", snap.Status, snap.Resolved)
	}
	if snap.Winner == nil || *snap.Winner != billiards.SidePar || snap.WinningScorer != "ana" {
		t.Errorf("winner = %v scorer = %q", snap.Winner, snap.WinningScorer)
	}
	if snap.Teams[0].Score != 8 || snap.Teams[0].Players[0].Score != 8 {
		t.Errorf("winner scores %+v", snap.Teams[0])
	}

	if _, err := tbl.Advance(); !errors.Is(err, ErrRackOver) {
		t.Errorf("Advance after resolution = %v, want ErrRackOver", err)
	}
	after, err := tbl.RegisterBall(1)
	if err != nil || !after.LastShot.Ignored {
		t.Errorf("ball after resolution should be ignored: %+v, %v", after.LastShot, err)
	}

	snap, err = tbl.NewGame()
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if snap.Status != StatusInProgress || snap.GameNumber != 2 || snap.Resolved {
		t.Errorf("new game snapshot %+v", snap)
	}
	if snap.Teams[0].Score != 0 || snap.Teams[0].Players[0].Score != 0 {
		t.Error("scores not reset for the new game")
	}
	if snap.Turn.Player != "ana" || !snap.AutoContinue {
		t.Errorf("new game turn %+v auto=%v", snap.Turn, snap.AutoContinue)
	}
}

func TestTableEarlyBlackBall(t *testing.T) {
	tbl, _ := headToHead(t, true)
	tbl.RegisterBall(2)
	snap, _ := tbl.ResolveEightBallEarly()
	if snap.Winner == nil || *snap.Winner != billiards.SideImpar {
		t.Fatalf("winner = %v", snap.Winner)
	}
	if snap.Disqualification != billiards.EarlyBlackBall {
		t.Errorf("reason = %s", snap.Disqualification)
	}
}

func TestFinishedTableRefusesEverything(t *testing.T) {
	tbl, _ := headToHead(t, false)
	tbl.Finish()
	calls := map[string]func() (Snapshot, error){
		"register": func() (Snapshot, error) { return tbl.RegisterBall(2) },
		"foul":     tbl.Foul,
		"auto":     func() (Snapshot, error) { return tbl.SetAutoContinue(true) },
		"new game": tbl.NewGame,
	}
	for name, call := range calls {
		if _, err := call(); !errors.Is(err, ErrTableFinished) {
			t.Errorf("%s: got %v, want ErrTableFinished", name, err)
		}
	}
}

func TestConcurrentMovesPublishInOrder(t *testing.T) {
	tbl, rec := headToHead(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl.Miss()
		}()
	}
	wg.Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 20 {
		t.Fatalf("published %d events, want 20", len(rec.events))
	}
	for i := 1; i < len(rec.events); i++ {
		prev, cur := rec.events[i-1].Snapshot.Version, rec.events[i].Snapshot.Version
		if cur <= prev {
			t.Fatalf("event %d has version %d after %d", i, cur, prev)
		}
	}
}

func TestFinishPublishesClosedEvent(t *testing.T) {
	tbl, rec := headToHead(t, false)
	before := tbl.Snapshot().Version
	snap := tbl.Finish()
	ev := rec.last()
	if ev.Type != EventTableClosed || ev.Snapshot == nil || ev.Snapshot.Status != StatusFinished {
		t.Errorf("closed event %+v", ev)
	}
	if snap.Version <= before {
		t.Errorf("finish should bump the version: %d -> %d", before, snap.Version)
	}
}
