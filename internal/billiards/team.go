package billiards

import (
	"fmt"
	"strings"
)

// Side is one of the two mutually exclusive categories players are split into.
type Side int

const (
	SidePar Side = iota
	SideImpar
)

// BlackBall is the ball that ends the rack.
const BlackBall = 8

// fullRackScore is the team score of a side that legally pots the black ball.
const fullRackScore = 8

// Default ball sets. Both exclude the black ball and are disjoint.
var (
	DefaultParBalls   = []int{2, 4, 6, 10, 12, 14, 15}
	DefaultImparBalls = []int{1, 3, 5, 7, 9, 11, 13}
)

func (s Side) String() string {
	if s == SideImpar {
		return "IMPAR"
	}
	return "PAR"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SidePar {
		return SideImpar
	}
	return SidePar
}

// MarshalText encodes the side as "PAR" or "IMPAR".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts "PAR"/"IMPAR" in any case.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSide parses a side name. "A"/"B" and "even"/"odd" are accepted as aliases.
func ParseSide(v string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "PAR", "A", "EVEN":
		return SidePar, nil
	case "IMPAR", "B", "ODD":
		return SideImpar, nil
	}
	return SidePar, fmt.Errorf("unknown side %q", v)
}

// Team is a group of players sharing a side. Ranks and PlayerScores are
// index-aligned with Players.
type Team struct {
	ID           int      `json:"id"`
	Side         Side     `json:"side"`
	Players      []string `json:"players"`
	Ranks        []int    `json:"ranks"`
	Score        int      `json:"score"`
	PlayerScores []int    `json:"player_scores"`
}

// NewTeam creates a team with zeroed scores.
func NewTeam(id int, side Side, players []string, ranks []int) *Team {
	t := &Team{
		ID:      id,
		Side:    side,
		Players: append([]string(nil), players...),
		Ranks:   append([]int(nil), ranks...),
	}
	t.PlayerScores = make([]int, len(t.Players))
	return t
}

// ResetScores zeroes the team score and every player score.
func (t *Team) ResetScores() {
	t.Score = 0
	if len(t.PlayerScores) != len(t.Players) {
		t.PlayerScores = make([]int, len(t.Players))
		return
	}
	for i := range t.PlayerScores {
		t.PlayerScores[i] = 0
	}
}

// rank returns the player's global rank, or missingRank when rank data is short.
func (t *Team) rank(i int) int {
	if i < len(t.Ranks) {
		return t.Ranks[i]
	}
	return missingRank
}

// indexOf returns the position of name in the team, or -1.
func (t *Team) indexOf(name string) int {
	for i, p := range t.Players {
		if p == name {
			return i
		}
	}
	return -1
}

// PlayerScore returns the individual score of name and whether the player is on this team.
func (t *Team) PlayerScore(name string) (int, bool) {
	i := t.indexOf(name)
	if i < 0 || i >= len(t.PlayerScores) {
		return 0, false
	}
	return t.PlayerScores[i], true
}
