package backgammon

import "sort"

// Points on the board are numbered 1..24 from White's home board.
const Points = 24

// CheckersPerColor is the number of checkers each side starts with.
const CheckersPerColor = 15

// Point is the stack of checkers on one point.
type Point struct {
	Color    Color `json:"color"`
	Checkers int   `json:"checkers"`
}

// Board maps point number to its stack. Empty points are absent.
type Board map[int]Point

// StartingBoard returns the standard opening layout. Black mirrors White.
func StartingBoard() Board {
	b := Board{}
	for point, n := range map[int]int{24: 2, 13: 5, 8: 3, 6: 5} {
		b[point] = Point{Color: White, Checkers: n}
		b[Points+1-point] = Point{Color: Black, Checkers: n}
	}
	return b
}

// Checkers counts the checkers of color c on the board.
func (b Board) Checkers(c Color) int {
	total := 0
	for _, p := range b {
		if p.Color == c {
			total += p.Checkers
		}
	}
	return total
}

// Occupied returns the occupied point numbers in ascending order.
func (b Board) Occupied() []int {
	out := make([]int, 0, len(b))
	for n, p := range b {
		if p.Checkers > 0 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
