// Package backgammon holds the pre-game helpers for backgammon: color
// assignment, the opening roll and the standard starting layout. It does not
// implement move legality.
package backgammon

import "math/rand/v2"

// Color identifies a player's checkers.
type Color string

const (
	White Color = "WHITE"
	Black Color = "BLACK"
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// AssignColors gives the two players different random colors.
func AssignColors(first, second string, rng *rand.Rand) map[string]Color {
	c := White
	if rng.IntN(2) == 1 {
		c = Black
	}
	return map[string]Color{
		first:  c,
		second: c.Opposite(),
	}
}

// Opening is the result of the opening roll. The starter plays both dice.
type Opening struct {
	Starter Color `json:"starter"`
	White   int   `json:"white"`
	Black   int   `json:"black"`
	Rerolls int   `json:"rerolls"`
}

// Dice returns the two dice the starter moves with, starter's die first.
func (o Opening) Dice() [2]int {
	if o.Starter == White {
		return [2]int{o.White, o.Black}
	}
	return [2]int{o.Black, o.White}
}

// RollDie returns a value in 1..6.
func RollDie(rng *rand.Rand) int {
	return rng.IntN(6) + 1
}

// OpeningRoll has each color roll one die until the values differ.
func OpeningRoll(rng *rand.Rand) Opening {
	var o Opening
	for {
		o.White, o.Black = RollDie(rng), RollDie(rng)
		if o.White != o.Black {
			break
		}
		o.Rerolls++
	}
	o.Starter = White
	if o.Black > o.White {
		o.Starter = Black
	}
	return o
}
