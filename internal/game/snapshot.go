package game

import (
	"time"

	"github.com/playmatatu/tablescore/internal/billiards"
)

// PlayerView is one player's line on the scoreboard.
type PlayerView struct {
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
	Score int    `json:"score"`
}

// TeamView is one team's line on the scoreboard.
type TeamView struct {
	ID      int            `json:"id"`
	Side    billiards.Side `json:"side"`
	Score   int            `json:"score"`
	Players []PlayerView   `json:"players"`
}

// SideView summarises the balls of one side.
type SideView struct {
	Sunk              []int `json:"sunk"`
	Remaining         []int `json:"remaining"`
	BlackBallCallable bool  `json:"black_ball_callable"`
}

// Snapshot is the plain-data view of a table that clients render.
type Snapshot struct {
	TableID          string                      `json:"table_id"`
	Version          int64                       `json:"version"`
	Status           TableStatus                 `json:"status"`
	GameNumber       int                         `json:"game_number"`
	Turn             billiards.Turn              `json:"turn"`
	BallInHand       bool                        `json:"ball_in_hand"`
	AutoContinue     bool                        `json:"auto_continue"`
	StartingSide     billiards.Side              `json:"starting_side"`
	Sides            map[billiards.Side]SideView `json:"sides"`
	Teams            []TeamView                  `json:"teams"`
	Resolved         bool                        `json:"resolved"`
	Winner           *billiards.Side             `json:"winner,omitempty"`
	Disqualification billiards.Disqualification  `json:"disqualification"`
	WinningScorer    string                      `json:"winning_scorer,omitempty"`
	LastShot         *billiards.ShotOutcome      `json:"last_shot,omitempty"`
	LastActivity     time.Time                   `json:"last_activity"`
}

// snapshotLocked builds a Snapshot. Caller holds t.mu.
func (t *Table) snapshotLocked() Snapshot {
	s := Snapshot{
		TableID:          t.ID,
		Version:          t.version,
		Status:           t.Status,
		GameNumber:       t.GameNumber,
		Turn:             t.turns.CurrentTurn(),
		BallInHand:       t.turns.BallInHand(),
		AutoContinue:     t.turns.AutoContinue(),
		StartingSide:     t.turns.StartingSide(),
		Sides:            make(map[billiards.Side]SideView, 2),
		Resolved:         t.book.Resolved(),
		Disqualification: t.book.Disqualification(),
		WinningScorer:    t.book.WinningScorer(),
		LastShot:         t.lastShot,
		LastActivity:     t.LastActivity,
	}
	for _, side := range []billiards.Side{billiards.SidePar, billiards.SideImpar} {
		s.Sides[side] = SideView{
			Sunk:              t.book.Sunk(side),
			Remaining:         t.book.Remaining(side),
			BlackBallCallable: t.book.BlackBallCallable(side),
		}
	}
	if w, ok := t.book.Winner(); ok {
		s.Winner = &w
	}
	for _, tm := range t.Teams {
		tv := TeamView{ID: tm.ID, Side: tm.Side, Score: tm.Score}
		for i, name := range tm.Players {
			pv := PlayerView{Name: name}
			if i < len(tm.Ranks) {
				pv.Rank = tm.Ranks[i]
			}
			if i < len(tm.PlayerScores) {
				pv.Score = tm.PlayerScores[i]
			}
			tv.Players = append(tv.Players, pv)
		}
		s.Teams = append(s.Teams, tv)
	}
	return s
}
