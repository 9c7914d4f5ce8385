package game

import (
	"log"
	"sync"
	"time"

	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/playmatatu/tablescore/internal/config"
)

// Table owns one TurnEngine + ScoreBook pair and the teams they score.
// The engines are single-threaded; the table serialises access to them.
type Table struct {
	ID           string
	Status       TableStatus
	GameNumber   int
	Rules        config.Rules
	Teams        []*billiards.Team
	CreatedAt    time.Time
	LastActivity time.Time

	turns    *billiards.TurnEngine
	book     *billiards.ScoreBook
	pinHash  string
	lastShot *billiards.ShotOutcome
	version  int64
	notify   func(Event)
	mu       sync.RWMutex
	emitMu   sync.Mutex // held from snapshot to publish so events leave in mutation order
}

// newTable wires the engines for teams. pinHash may be empty.
func newTable(id string, teams []*billiards.Team, rules config.Rules, pinHash string, opts ...billiards.TurnOption) (*Table, error) {
	opts = append([]billiards.TurnOption{billiards.WithAutoContinue(rules.AutoContinue)}, opts...)
	turns, err := billiards.NewTurnEngine(teams, opts...)
	if err != nil {
		return nil, err
	}
	book, err := billiards.NewScoreBook(rules.ParBalls, rules.ImparBalls, turns, teams)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Table{
		ID:           id,
		Status:       StatusInProgress,
		GameNumber:   1,
		Rules:        rules,
		Teams:        teams,
		CreatedAt:    now,
		LastActivity: now,
		turns:        turns,
		book:         book,
		pinHash:      pinHash,
	}, nil
}

// Snapshot returns the current scoreboard.
func (t *Table) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// CheckPIN reports whether pin unlocks this table.
func (t *Table) CheckPIN(pin string) bool {
	t.mu.RLock()
	hash := t.pinHash
	t.mu.RUnlock()
	return access.CheckPIN(hash, pin)
}

// IdleSince reports how long the table has gone without a mutation.
func (t *Table) IdleSince(now time.Time) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return now.Sub(t.LastActivity)
}

// RegisterBall records ball n as potted by the current shooter.
func (t *Table) RegisterBall(n int) (Snapshot, error) {
	return t.mutate("register_ball", false, func() {
		out := t.book.RegisterBall(n)
		t.lastShot = &out
	})
}

// UnregisterBall takes ball n back out of the pockets.
func (t *Table) UnregisterBall(n int) (Snapshot, error) {
	return t.mutate("unregister_ball", false, func() {
		t.book.UnregisterBall(n)
	})
}

// Foul passes the turn with ball-in-hand.
func (t *Table) Foul() (Snapshot, error) {
	return t.mutate("foul", true, func() {
		t.turns.RecordShot(false, true)
	})
}

// Miss passes the turn after a shot that potted nothing.
func (t *Table) Miss() (Snapshot, error) {
	return t.mutate("miss", true, func() {
		t.turns.RecordShot(false, false)
	})
}

// Advance hands the turn to the other side.
func (t *Table) Advance() (Snapshot, error) {
	return t.mutate("advance", true, func() {
		t.turns.AdvanceManual()
	})
}

// ClearBallInHand acknowledges ball-in-hand.
func (t *Table) ClearBallInHand() (Snapshot, error) {
	return t.mutate("clear_ball_in_hand", false, func() {
		t.turns.ClearBallInHand()
	})
}

// SetAutoContinue toggles auto-continue for the following shots.
func (t *Table) SetAutoContinue(on bool) (Snapshot, error) {
	return t.mutate("set_auto_continue", false, func() {
		t.turns.SetAutoContinue(on)
	})
}

// ResolveEightBall settles the rack on the current shooter's black ball.
func (t *Table) ResolveEightBall(calledPocket bool) (Snapshot, error) {
	return t.mutate("eight_ball", false, func() {
		t.book.ResolveEightBall(calledPocket)
	})
}

// ResolveEightBallEarly records a black ball potted before the side cleared its balls.
func (t *Table) ResolveEightBallEarly() (Snapshot, error) {
	return t.mutate("eight_ball_early", false, func() {
		t.book.ResolveEightBallEarly()
	})
}

// NewGame re-racks with the same teams. Scores go back to zero.
func (t *Table) NewGame() (Snapshot, error) {
	t.mu.Lock()
	if t.Status == StatusFinished {
		t.mu.Unlock()
		return Snapshot{}, ErrTableFinished
	}
	t.book.Reset()
	t.turns.Reset()
	t.lastShot = nil
	t.GameNumber++
	t.Status = StatusInProgress
	t.touchLocked()
	snap := t.snapshotLocked()
	t.emitMu.Lock()
	t.mu.Unlock()
	defer t.emitMu.Unlock()

	log.Printf("[TABLE] %s new game #%d", t.ID, snap.GameNumber)
	t.emit(EventTableUpdate, "new_game", snap)
	return snap, nil
}

// Finish closes the table and publishes table_closed. Further mutations fail
// with ErrTableFinished.
func (t *Table) Finish() Snapshot {
	t.mu.Lock()
	t.Status = StatusFinished
	t.touchLocked()
	snap := t.snapshotLocked()
	t.emitMu.Lock()
	t.mu.Unlock()
	defer t.emitMu.Unlock()

	t.emit(EventTableClosed, "finish", snap)
	return snap
}

// mutate runs fn under the table lock and publishes the resulting snapshot.
// Turn moves are refused once the rack is resolved; ball and resolution
// calls fall through to the score book, which ignores them.
func (t *Table) mutate(action string, movesTurn bool, fn func()) (Snapshot, error) {
	t.mu.Lock()
	switch {
	case t.Status == StatusFinished:
		t.mu.Unlock()
		return Snapshot{}, ErrTableFinished
	case movesTurn && t.Status == StatusResolved:
		t.mu.Unlock()
		return Snapshot{}, ErrRackOver
	}

	t.lastShot = nil
	fn()
	if t.book.Resolved() && t.Status == StatusInProgress {
		t.Status = StatusResolved
		w, _ := t.book.Winner()
		log.Printf("[TABLE] %s rack resolved: winner=%s reason=%s scorer=%q", t.ID, w, t.book.Disqualification(), t.book.WinningScorer())
	}
	t.touchLocked()
	snap := t.snapshotLocked()
	t.emitMu.Lock()
	t.mu.Unlock()
	defer t.emitMu.Unlock()

	t.emit(EventTableUpdate, action, snap)
	return snap, nil
}

// touchLocked bumps the version and activity time. Caller holds t.mu.
func (t *Table) touchLocked() {
	t.version++
	t.LastActivity = time.Now()
}

// emit publishes snap. Caller holds t.emitMu.
func (t *Table) emit(eventType, action string, snap Snapshot) {
	if t.notify == nil {
		return
	}
	t.notify(Event{Type: eventType, TableID: t.ID, Action: action, Snapshot: &snap})
}
