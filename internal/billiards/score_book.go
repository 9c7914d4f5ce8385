package billiards

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidBallSet is returned by NewScoreBook for malformed ball sets.
var ErrInvalidBallSet = errors.New("invalid ball set")

// Disqualification records why a side lost on the black ball.
type Disqualification int

const (
	DisqualificationNone Disqualification = iota
	EarlyBlackBall
	WrongPocket
)

func (d Disqualification) String() string {
	switch d {
	case EarlyBlackBall:
		return "early"
	case WrongPocket:
		return "wrong_pocket"
	}
	return "none"
}

// MarshalText encodes the reason as "none", "early" or "wrong_pocket".
func (d Disqualification) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the values written by MarshalText.
func (d *Disqualification) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*d = DisqualificationNone
	case "early":
		*d = EarlyBlackBall
	case "wrong_pocket":
		*d = WrongPocket
	default:
		return fmt.Errorf("unknown disqualification %q", b)
	}
	return nil
}

// ShotOutcome describes what RegisterBall did with a ball.
type ShotOutcome struct {
	Ball    int  `json:"ball"`
	Side    Side `json:"side"`
	Legal   bool `json:"legal"`
	Ignored bool `json:"ignored"`
}

// ScoreBook tracks potted balls per side, who potted them, and the outcome of
// the black ball. It writes running totals into the teams it was built with
// and drives the TurnEngine after every pot.
//
// Once resolved, every mutator except Reset is a no-op.
type ScoreBook struct {
	turns *TurnEngine
	teams []*Team

	valid   [2]map[int]bool
	sunk    [2]map[int]bool
	scorers map[int]Turn

	resolved         bool
	winner           Side
	disqualification Disqualification
	blackBallScorer  *Turn
}

// NewScoreBook creates an empty book for the given ball sets.
func NewScoreBook(parBalls, imparBalls []int, turns *TurnEngine, teams []*Team) (*ScoreBook, error) {
	if turns == nil {
		return nil, errors.New("score book needs a turn engine")
	}
	b := &ScoreBook{
		turns:   turns,
		teams:   teams,
		scorers: make(map[int]Turn),
	}
	seen := make(map[int]Side)
	for side, balls := range [2][]int{parBalls, imparBalls} {
		if len(balls) == 0 {
			return nil, fmt.Errorf("%w: %s has no balls", ErrInvalidBallSet, Side(side))
		}
		b.valid[side] = make(map[int]bool, len(balls))
		b.sunk[side] = make(map[int]bool, len(balls))
		for _, n := range balls {
			if n < 1 || n > 15 || n == BlackBall {
				return nil, fmt.Errorf("%w: ball %d", ErrInvalidBallSet, n)
			}
			if prev, dup := seen[n]; dup {
				return nil, fmt.Errorf("%w: ball %d listed for %s and %s", ErrInvalidBallSet, n, prev, Side(side))
			}
			seen[n] = Side(side)
			b.valid[side][n] = true
		}
	}
	b.recompute()
	return b, nil
}

// sideOf returns the side a ball belongs to.
func (b *ScoreBook) sideOf(n int) (Side, bool) {
	switch {
	case b.valid[SidePar][n]:
		return SidePar, true
	case b.valid[SideImpar][n]:
		return SideImpar, true
	}
	return SidePar, false
}

// RegisterBall marks ball n as potted by the current shooter. A ball of the
// shooter's own side is legal and credited to them; any other ball still
// counts for its home side but is treated as a foul.
func (b *ScoreBook) RegisterBall(n int) ShotOutcome {
	out := ShotOutcome{Ball: n, Ignored: true}
	if b.resolved {
		return out
	}
	side, ok := b.sideOf(n)
	if !ok || b.sunk[side][n] {
		return out
	}

	turn := b.turns.CurrentTurn()
	legal := side == turn.Side
	b.sunk[side][n] = true
	if legal {
		b.scorers[n] = turn
	}
	b.recompute()
	// A legal pot under auto-continue leaves the engine untouched, ball-in-hand included.
	if !(legal && b.turns.AutoContinue()) {
		b.turns.RecordShot(legal, !legal)
	}

	return ShotOutcome{Ball: n, Side: side, Legal: legal}
}

// UnregisterBall undoes a pot. The turn is left alone.
func (b *ScoreBook) UnregisterBall(n int) {
	if b.resolved {
		return
	}
	for s := range b.sunk {
		delete(b.sunk[s], n)
	}
	delete(b.scorers, n)
	b.recompute()
}

// ResolveEightBall settles the rack when the black ball drops on the current
// side's shot. The side wins only if it had cleared all its balls and the
// black went into the called pocket.
func (b *ScoreBook) ResolveEightBall(sunkInCalledPocket bool) {
	if b.resolved {
		return
	}
	turn := b.turns.CurrentTurn()
	switch {
	case !b.BlackBallCallable(turn.Side):
		b.lose(turn.Side, EarlyBlackBall)
	case !sunkInCalledPocket:
		b.lose(turn.Side, WrongPocket)
	default:
		b.winner = turn.Side
		b.disqualification = DisqualificationNone
		b.blackBallScorer = &turn
		b.resolved = true
	}
	b.recompute()
}

// ResolveEightBallEarly records that the current side dropped the black ball
// before clearing its own balls.
func (b *ScoreBook) ResolveEightBallEarly() {
	if b.resolved {
		return
	}
	b.lose(b.turns.CurrentTurn().Side, EarlyBlackBall)
	b.recompute()
}

func (b *ScoreBook) lose(side Side, reason Disqualification) {
	b.winner = side.Opposite()
	b.disqualification = reason
	b.blackBallScorer = nil
	b.resolved = true
}

// Reset clears the rack for a new game.
func (b *ScoreBook) Reset() {
	for s := range b.sunk {
		b.sunk[s] = make(map[int]bool, len(b.valid[s]))
	}
	b.scorers = make(map[int]Turn)
	b.resolved = false
	b.winner = SidePar
	b.disqualification = DisqualificationNone
	b.blackBallScorer = nil
	b.recompute()
}

// recompute rebuilds every team and player total from scratch. Team totals
// come from side counts, player totals from the scorer ledger.
func (b *ScoreBook) recompute() {
	for _, t := range b.teams {
		t.ResetScores()
	}
	for _, t := range b.teams {
		if t.Side != SidePar && t.Side != SideImpar {
			continue
		}
		if b.resolved && t.Side == b.winner {
			t.Score = fullRackScore
		} else {
			t.Score = len(b.sunk[t.Side])
		}
	}
	for _, scorer := range b.scorers {
		b.credit(scorer)
	}
	if b.resolved && b.disqualification == DisqualificationNone && b.blackBallScorer != nil {
		b.credit(*b.blackBallScorer)
	}
}

func (b *ScoreBook) credit(turn Turn) {
	for _, t := range b.teams {
		if t.ID != turn.TeamID {
			continue
		}
		if i := t.indexOf(turn.Player); i >= 0 {
			t.PlayerScores[i]++
			return
		}
	}
}

// SunkCount returns how many balls of side s are down.
func (b *ScoreBook) SunkCount(s Side) int { return len(b.sunk[s]) }

// Sunk returns the potted balls of side s in ascending order.
func (b *ScoreBook) Sunk(s Side) []int { return sortedKeys(b.sunk[s]) }

// Remaining returns the balls of side s still on the table.
func (b *ScoreBook) Remaining(s Side) []int {
	var out []int
	for n := range b.valid[s] {
		if !b.sunk[s][n] {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// BlackBallCallable reports whether side s has cleared all its balls.
func (b *ScoreBook) BlackBallCallable(s Side) bool {
	return len(b.sunk[s]) == len(b.valid[s])
}

// Scorer returns the player credited with ball n.
func (b *ScoreBook) Scorer(n int) (string, bool) {
	t, ok := b.scorers[n]
	return t.Player, ok
}

// Resolved reports whether the black ball has settled the rack.
func (b *ScoreBook) Resolved() bool { return b.resolved }

// Winner returns the winning side once resolved.
func (b *ScoreBook) Winner() (Side, bool) {
	if !b.resolved {
		return SidePar, false
	}
	return b.winner, true
}

// Disqualification returns why the loser lost, if on a black-ball foul.
func (b *ScoreBook) Disqualification() Disqualification { return b.disqualification }

// WinningScorer returns the player who legally potted the black ball.
func (b *ScoreBook) WinningScorer() string {
	if b.blackBallScorer == nil {
		return ""
	}
	return b.blackBallScorer.Player
}

// TeamScore returns the running score of team id.
func (b *ScoreBook) TeamScore(id int) int {
	for _, t := range b.teams {
		if t.ID == id {
			return t.Score
		}
	}
	return 0
}

// PlayerScore returns the individual score of the named player.
func (b *ScoreBook) PlayerScore(name string) int {
	for _, t := range b.teams {
		if s, ok := t.PlayerScore(name); ok {
			return s
		}
	}
	return 0
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
