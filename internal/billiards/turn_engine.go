package billiards

import (
	"errors"
	"sort"
)

// missingRank is used for players whose rank data is absent.
const missingRank = 9999

// notStarted marks a side whose sequence has not been reached yet.
const notStarted = -1

// ErrEmptyRoster is returned when neither side has any players.
var ErrEmptyRoster = errors.New("no players on either side")

// Turn identifies the player due to shoot.
type Turn struct {
	Side   Side   `json:"side"`
	TeamID int    `json:"team_id"`
	Player string `json:"player"`
}

type rankedTurn struct {
	Turn
	rank int
}

// TurnEngine tracks whose turn it is. Each side keeps its own position in a
// rank-ordered sequence, and turns alternate between sides.
//
// A TurnEngine is not safe for concurrent use.
type TurnEngine struct {
	sequences    [2][]Turn
	minRank      [2]int
	index        [2]int
	startingSide Side
	current      Side
	ballInHand   bool
	autoContinue bool
}

// TurnOption configures a TurnEngine at construction time.
type TurnOption func(*turnOptions)

type turnOptions struct {
	startingSide *Side
	autoContinue bool
}

// WithStartingSide forces the side that shoots first.
func WithStartingSide(s Side) TurnOption {
	return func(o *turnOptions) {
		o.startingSide = &s
	}
}

// WithAutoContinue sets the initial auto-continue mode.
func WithAutoContinue(on bool) TurnOption {
	return func(o *turnOptions) {
		o.autoContinue = on
	}
}

// NewTurnEngine builds the per-side rotations from teams and picks the starting side.
func NewTurnEngine(teams []*Team, opts ...TurnOption) (*TurnEngine, error) {
	var o turnOptions
	for _, opt := range opts {
		opt(&o)
	}

	var ranked [2][]rankedTurn
	for _, t := range teams {
		if t == nil || (t.Side != SidePar && t.Side != SideImpar) {
			continue
		}
		for i, name := range t.Players {
			ranked[t.Side] = append(ranked[t.Side], rankedTurn{
				Turn: Turn{Side: t.Side, TeamID: t.ID, Player: name},
				rank: t.rank(i),
			})
		}
	}

	e := &TurnEngine{autoContinue: o.autoContinue}
	for s := range ranked {
		seq := ranked[s]
		sort.SliceStable(seq, func(i, j int) bool {
			if seq[i].rank != seq[j].rank {
				return seq[i].rank < seq[j].rank
			}
			return seq[i].Player < seq[j].Player
		})
		e.sequences[s] = make([]Turn, len(seq))
		for i, rt := range seq {
			e.sequences[s][i] = rt.Turn
		}
		e.minRank[s] = missingRank
		if len(seq) > 0 {
			e.minRank[s] = seq[0].rank
		}
	}

	if len(e.sequences[SidePar]) == 0 && len(e.sequences[SideImpar]) == 0 {
		return nil, ErrEmptyRoster
	}

	if o.startingSide != nil {
		e.startingSide = *o.startingSide
	} else {
		e.startingSide = e.pickStartingSide()
	}
	e.Reset()
	return e, nil
}

// pickStartingSide chooses the side holding the lowest rank. Equal ranks fall
// back to the players' names, PAR winning exact ties.
func (e *TurnEngine) pickStartingSide() Side {
	par, impar := e.sequences[SidePar], e.sequences[SideImpar]
	switch {
	case len(impar) == 0:
		return SidePar
	case len(par) == 0:
		return SideImpar
	case e.minRank[SidePar] < e.minRank[SideImpar]:
		return SidePar
	case e.minRank[SideImpar] < e.minRank[SidePar]:
		return SideImpar
	case par[0].Player <= impar[0].Player:
		return SidePar
	default:
		return SideImpar
	}
}

// Reset puts the engine back at the first player of the starting side and
// clears ball-in-hand. Auto-continue is kept.
func (e *TurnEngine) Reset() {
	if len(e.sequences[e.startingSide]) == 0 {
		e.startingSide = e.startingSide.Opposite()
	}
	e.index = [2]int{notStarted, notStarted}
	e.index[e.startingSide] = 0
	e.current = e.startingSide
	e.ballInHand = false
}

// CurrentTurn returns the player due to shoot.
func (e *TurnEngine) CurrentTurn() Turn {
	seq := e.sequences[e.current]
	i := e.index[e.current]
	if i < 0 || i >= len(seq) {
		return Turn{Side: e.current}
	}
	return seq[i]
}

// StartingSide returns the side that shot first.
func (e *TurnEngine) StartingSide() Side { return e.startingSide }

// Sequence returns a copy of the rotation for side s.
func (e *TurnEngine) Sequence(s Side) []Turn {
	return append([]Turn(nil), e.sequences[s]...)
}

// BallInHand reports whether the current player inherits ball-in-hand from a foul.
func (e *TurnEngine) BallInHand() bool { return e.ballInHand }

// ClearBallInHand drops the ball-in-hand flag without changing the turn.
func (e *TurnEngine) ClearBallInHand() { e.ballInHand = false }

// AutoContinue reports whether a legal pot keeps the turn.
func (e *TurnEngine) AutoContinue() bool { return e.autoContinue }

// SetAutoContinue toggles auto-continue; it applies from the next RecordShot.
func (e *TurnEngine) SetAutoContinue(on bool) { e.autoContinue = on }

// AdvanceManual hands the turn to the next player of the other side.
func (e *TurnEngine) AdvanceManual() {
	e.advance()
	e.ballInHand = false
}

// RecordShot applies the outcome of a shot. A foul always passes the turn with
// ball-in-hand. A legal pot with auto-continue on keeps the shooter at the table.
func (e *TurnEngine) RecordShot(sankLegalBall, wasFoul bool) {
	switch {
	case wasFoul:
		e.advance()
		e.ballInHand = true
	case e.autoContinue && sankLegalBall:
		e.ballInHand = false
	default:
		e.advance()
		e.ballInHand = false
	}
}

// advance flips to the other side and moves that side's pointer one step.
// A one-sided roster rotates within the only populated side.
func (e *TurnEngine) advance() {
	next := e.current.Opposite()
	if len(e.sequences[next]) == 0 {
		next = e.current
	}
	n := len(e.sequences[next])
	if n == 0 {
		return
	}
	if e.index[next] == notStarted {
		e.index[next] = 0
	} else {
		e.index[next] = (e.index[next] + 1) % n
	}
	e.current = next
}
