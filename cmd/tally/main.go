// Command tally is a terminal scorekeeper for a single PAR/IMPAR table.
package main

import (
	"log"
	mrand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playmatatu/tablescore/internal/billiards"
	"github.com/playmatatu/tablescore/internal/config"
	"github.com/playmatatu/tablescore/internal/roster"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const (
	actSink      = "Sink ball"
	actTakeBack  = "Take back a ball"
	actFoul      = "Foul"
	actMiss      = "Miss"
	actPass      = "Pass turn"
	actClearBIH  = "Clear ball in hand"
	actAuto      = "Toggle auto-continue"
	actBlack     = "Black ball, called pocket"
	actBlackMiss = "Black ball, wrong pocket"
	actBlackEarl = "Black ball, early"
	actNewGame   = "New game"
	actQuit      = "Quit"
)

// session is one table played at the terminal.
type session struct {
	teams []*billiards.Team
	turns *billiards.TurnEngine
	book  *billiards.ScoreBook
	game  int
}

func newSession(names []string, rules config.Rules, rng *mrand.Rand) (*session, error) {
	teams := roster.Assign(names, rules.TeamsPerSide, rng)
	turns, err := billiards.NewTurnEngine(teams, billiards.WithAutoContinue(rules.AutoContinue))
	if err != nil {
		return nil, err
	}
	book, err := billiards.NewScoreBook(rules.ParBalls, rules.ImparBalls, turns, teams)
	if err != nil {
		return nil, err
	}
	return &session{teams: teams, turns: turns, book: book, game: 1}, nil
}

// actions lists what can be done in the current state.
func (s *session) actions() []string {
	if s.book.Resolved() {
		return []string{actNewGame, actQuit}
	}
	acts := []string{actSink, actFoul, actMiss, actPass}
	if s.turns.BallInHand() {
		acts = append(acts, actClearBIH)
	}
	if len(s.book.Sunk(billiards.SidePar))+len(s.book.Sunk(billiards.SideImpar)) > 0 {
		acts = append(acts, actTakeBack)
	}
	side := s.turns.CurrentTurn().Side
	if s.book.BlackBallCallable(side) {
		acts = append(acts, actBlack, actBlackMiss)
	} else {
		acts = append(acts, actBlackEarl)
	}
	return append(acts, actAuto, actNewGame, actQuit)
}

// apply performs a non-interactive action. ball is used by sink and take back.
func (s *session) apply(action string, ball int) string {
	switch action {
	case actSink:
		out := s.book.RegisterBall(ball)
		switch {
		case out.Ignored:
			return "ball " + strconv.Itoa(ball) + " ignored"
		case out.Legal:
			return "ball " + strconv.Itoa(ball) + " potted"
		default:
			return "ball " + strconv.Itoa(ball) + " belongs to " + out.Side.String() + ", turn passes"
		}
	case actTakeBack:
		s.book.UnregisterBall(ball)
		return "ball " + strconv.Itoa(ball) + " back on the table"
	case actFoul:
		s.turns.RecordShot(false, true)
		return "foul, ball in hand"
	case actMiss:
		s.turns.RecordShot(false, false)
	case actPass:
		s.turns.AdvanceManual()
	case actClearBIH:
		s.turns.ClearBallInHand()
	case actAuto:
		s.turns.SetAutoContinue(!s.turns.AutoContinue())
	case actBlack:
		s.book.ResolveEightBall(true)
	case actBlackMiss:
		s.book.ResolveEightBall(false)
	case actBlackEarl:
		s.book.ResolveEightBallEarly()
	case actNewGame:
		s.book.Reset()
		s.turns.Reset()
		s.game++
	}
	return ""
}

func ballOptions(balls []int) []string {
	opts := make([]string, len(balls))
	for i, b := range balls {
		opts[i] = strconv.Itoa(b)
	}
	return opts
}

func pickBall(title string, balls []int) (int, bool) {
	if len(balls) == 0 {
		pterm.Warning.Println("no balls to choose from")
		return 0, false
	}
	choice, err := pterm.DefaultInteractiveSelect.WithDefaultText(title).WithOptions(ballOptions(balls)).Show()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(choice)
	return n, err == nil
}

func readNames(minLen int) []string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Players (comma separated)").Show()
		names, err := roster.Validate(strings.Split(raw, ","), minLen)
		if err == nil {
			return names
		}
		pterm.Error.Println(err.Error())
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()
	rules := config.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := config.LoadRules(cfg.RulesFile)
		if err != nil {
			log.Fatalf("Failed to load rules from %s: %v", cfg.RulesFile, err)
		}
		rules = loaded
	}

	title, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Table", pterm.FgLightBlue.ToStyle()),
		putils.LettersFromStringWithStyle("Score", pterm.FgLightYellow.ToStyle()),
	).Srender()
	pterm.Print(title)

	names := readNames(rules.MinNameLength)
	rng := mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	s, err := newSession(names, rules, rng)
	if err != nil {
		pterm.Fatal.Println(err)
	}
	pterm.Info.Printfln("%d players in %d teams, %s breaks", len(names), len(s.teams), s.turns.CurrentTurn().Player)

	for {
		printState(s)
		action, err := pterm.DefaultInteractiveSelect.WithDefaultText("Action").WithOptions(s.actions()).Show()
		if err != nil || action == actQuit {
			break
		}

		ball := 0
		switch action {
		case actSink:
			var left []int
			left = append(left, s.book.Remaining(billiards.SidePar)...)
			left = append(left, s.book.Remaining(billiards.SideImpar)...)
			n, ok := pickBall("Which ball?", left)
			if !ok {
				continue
			}
			ball = n
		case actTakeBack:
			var sunk []int
			sunk = append(sunk, s.book.Sunk(billiards.SidePar)...)
			sunk = append(sunk, s.book.Sunk(billiards.SideImpar)...)
			n, ok := pickBall("Which ball comes back?", sunk)
			if !ok {
				continue
			}
			ball = n
		}
		if msg := s.apply(action, ball); msg != "" {
			pterm.Info.Println(msg)
		}
	}

	pterm.Println("Thanks for playing...")
}
