package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/pterm/pterm"
)

// sideColor paints text in the colour of a side.
func sideColor(s billiards.Side, text string) string {
	if s == billiards.SidePar {
		return pterm.LightBlue(text)
	}
	return pterm.LightYellow(text)
}

// scoreRows builds the scoreboard table, one row per player.
func scoreRows(teams []*billiards.Team, current billiards.Turn) [][]string {
	rows := [][]string{{"Team", "Side", "Player", "Rank", "Player pts", "Team pts"}}
	for _, t := range teams {
		for i, name := range t.Players {
			marker := name
			if name == current.Player && t.ID == current.TeamID {
				marker = "> " + name
			}
			rank := "-"
			if i < len(t.Ranks) {
				rank = strconv.Itoa(t.Ranks[i])
			}
			pts := 0
			if i < len(t.PlayerScores) {
				pts = t.PlayerScores[i]
			}
			rows = append(rows, []string{
				strconv.Itoa(t.ID),
				t.Side.String(),
				marker,
				rank,
				strconv.Itoa(pts),
				strconv.Itoa(t.Score),
			})
		}
	}
	return rows
}

func ballList(balls []int) string {
	if len(balls) == 0 {
		return "-"
	}
	parts := make([]string, len(balls))
	for i, b := range balls {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, " ")
}

// ballsPanel summarises sunk and remaining balls per side.
func ballsPanel(book *billiards.ScoreBook) pterm.Panel {
	var b strings.Builder
	for _, s := range []billiards.Side{billiards.SidePar, billiards.SideImpar} {
		fmt.Fprintf(&b, "%s  sunk: %s  left: %s", sideColor(s, s.String()), ballList(book.Sunk(s)), ballList(book.Remaining(s)))
		if book.BlackBallCallable(s) {
			b.WriteString(pterm.LightGreen("  (on the black)"))
		}
		b.WriteString("\n")
	}
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle("|BALLS|").WithTitleTopCenter()
	return pterm.Panel{Data: box.Sprint(b.String())}
}

// turnPanel shows who is at the table.
func turnPanel(turns *billiards.TurnEngine) pterm.Panel {
	cur := turns.CurrentTurn()
	text := fmt.Sprintf("%s to shoot (%s)", pterm.LightCyan(cur.Player), sideColor(cur.Side, cur.Side.String()))
	if turns.BallInHand() {
		text += "\n" + pterm.LightRed("ball in hand")
	}
	if turns.AutoContinue() {
		text += "\nauto-continue on"
	}
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle("|TURN|").WithTitleTopCenter()
	return pterm.Panel{Data: box.Sprint(text)}
}

// resultText describes a settled rack.
func resultText(book *billiards.ScoreBook) string {
	w, ok := book.Winner()
	if !ok {
		return ""
	}
	switch book.Disqualification() {
	case billiards.EarlyBlackBall:
		return fmt.Sprintf("%s wins: %s potted the black early", w, w.Opposite())
	case billiards.WrongPocket:
		return fmt.Sprintf("%s wins: %s potted the black in the wrong pocket", w, w.Opposite())
	}
	return fmt.Sprintf("%s wins: %s sank the black", w, book.WinningScorer())
}

// printState renders the whole scoreboard.
func printState(s *session) {
	pterm.DefaultSection.Printfln("Game %d", s.game)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		{turnPanel(s.turns), ballsPanel(s.book)},
	}).Render()
	pterm.DefaultTable.WithHasHeader().WithData(scoreRows(s.teams, s.turns.CurrentTurn())).Render()
	if res := resultText(s.book); res != "" {
		pterm.Success.Println(res)
	}
}
