package tokenlayer

import "fmt"

// Point is an integer lattice coordinate on the padded sampling grid.
// Lattice point (x, y) is the top-left corner of cell (x, y).
type Point struct {
	X, Y int
}

// Contour is a closed polygon. The last point connects back to the first.
type Contour []Point

type step uint8

const (
	stepNone step = iota
	stepUp
	stepDown
	stepLeft
	stepRight
)

// caseCode packs the 2x2 neighbourhood around lattice point (x, y):
// 1 up-left, 2 up-right, 4 down-left, 8 down-right.
func (s *AlphaSampler) caseCode(x, y int) int {
	c := 0
	if s.IsTransparent(x-1, y-1) {
		c |= 1
	}
	if s.IsTransparent(x, y-1) {
		c |= 2
	}
	if s.IsTransparent(x-1, y) {
		c |= 4
	}
	if s.IsTransparent(x, y) {
		c |= 8
	}
	return c
}

// nextStep keeps the set cells on the walker's left. The two saddle cases
// are resolved from the previous step so diagonal cells stay separate.
func nextStep(code int, prev step) step {
	switch code {
	case 1, 5, 13:
		return stepUp
	case 2, 3, 7:
		return stepRight
	case 4, 12, 14:
		return stepLeft
	case 8, 10, 11:
		return stepDown
	case 6:
		if prev == stepUp {
			return stepLeft
		}
		return stepRight
	case 9:
		if prev == stepRight {
			return stepUp
		}
		return stepDown
	default:
		return stepNone
	}
}

func (s *AlphaSampler) firstSet() (Point, bool) {
	for y := range s.H {
		for x := range s.W {
			if s.Cells[y*s.W+x] {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

// TraceContour walks the boundary of the first set region in scan order and
// returns its corner points. Only points where the walk changes direction
// are emitted, so every edge of the polygon is axis aligned and the polygon
// covers exactly the traced cells.
//
// The grid must contain at least one set cell; a fully clear grid yields
// ErrDegenerate.
func TraceContour(s *AlphaSampler) (Contour, error) {
	start, ok := s.firstSet()
	if !ok {
		return nil, ErrDegenerate
	}

	// Every lattice edge is walked at most once.
	limit := 2*(s.W+1)*(s.H+1) + 1

	var pts Contour
	x, y := start.X, start.Y
	prev := stepNone
	for n := 0; ; n++ {
		if n > limit {
			return nil, fmt.Errorf("trace from %v did not close after %d steps", start, limit)
		}
		d := nextStep(s.caseCode(x, y), prev)
		if d == stepNone {
			return nil, fmt.Errorf("trace lost the boundary at (%d,%d)", x, y)
		}
		if d != prev {
			pts = append(pts, Point{x, y})
		}
		switch d {
		case stepUp:
			y--
		case stepDown:
			y++
		case stepLeft:
			x--
		case stepRight:
			x++
		}
		prev = d
		if x == start.X && y == start.Y {
			break
		}
	}

	return pts, nil
}
