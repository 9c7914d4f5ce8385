// Package roster validates player names and deals players into PAR/IMPAR teams
// with a random global play order.
package roster

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/playmatatu/tablescore/internal/billiards"
)

// MinPlayers is the smallest roster a table accepts.
const MinPlayers = 2

var (
	ErrTooFewPlayers = errors.New("at least two players are required")
	ErrNameTooShort  = errors.New("name too short")
	ErrDuplicateName = errors.New("duplicate name")
)

// Validate trims names and checks length and case-insensitive uniqueness.
func Validate(names []string, minLen int) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if len([]rune(name)) < minLen || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrNameTooShort, name)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[key] = true
		out = append(out, name)
	}
	if len(out) < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	return out, nil
}

// Assign shuffles names into 2*teamsPerSide teams, alternating PAR and IMPAR,
// and hands out global ranks 1..N in random order. teamsPerSide is clamped so
// that every team gets at least one player.
func Assign(names []string, teamsPerSide int, rng *rand.Rand) []*billiards.Team {
	teamsPerSide = clampTeamsPerSide(len(names), teamsPerSide)
	if teamsPerSide == 0 {
		return nil
	}

	shuffled := append([]string(nil), names...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	order := rng.Perm(len(shuffled))

	teams := make([]*billiards.Team, 2*teamsPerSide)
	for i := range teams {
		side := billiards.SidePar
		if i%2 == 1 {
			side = billiards.SideImpar
		}
		teams[i] = billiards.NewTeam(i+1, side, nil, nil)
	}
	for i, name := range shuffled {
		t := teams[i%len(teams)]
		t.Players = append(t.Players, name)
		t.Ranks = append(t.Ranks, order[i]+1)
		t.PlayerScores = append(t.PlayerScores, 0)
	}
	return teams
}

func clampTeamsPerSide(players, teamsPerSide int) int {
	if teamsPerSide < 1 {
		teamsPerSide = 1
	}
	if limit := players / 2; teamsPerSide > limit {
		teamsPerSide = limit
	}
	return teamsPerSide
}
