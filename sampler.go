package tokenlayer

import "image"

// DefaultThreshold is the alpha level a pixel must exceed to be traced.
const DefaultThreshold uint8 = 254

// AlphaSampler is a padded boolean view of an image alpha channel.
// Cell (x, y) of the grid maps to source pixel (x-1, y-1); the one cell
// border on every side is always transparent.
type AlphaSampler struct {
	W, H  int // padded size
	Cells []bool
}

// NewAlphaSampler samples img against threshold.
// A cell is set when its alpha is strictly greater than threshold.
func NewAlphaSampler(img image.Image, threshold uint8) *AlphaSampler {
	b := img.Bounds()
	w, h := b.Dx()+2, b.Dy()+2
	s := &AlphaSampler{
		W:     w,
		H:     h,
		Cells: make([]bool, w*h),
	}
	for y := range b.Dy() {
		for x := range b.Dx() {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			s.Cells[(y+1)*w+x+1] = uint8(a>>8) > threshold
		}
	}
	return s
}

// IsTransparent reports whether cell (x, y) is set. The name is historical:
// set cells are the ones above the threshold, which form the traced (and
// filled) side of the contour. Reads outside the grid return false.
func (s *AlphaSampler) IsTransparent(x, y int) bool {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return false
	}
	return s.Cells[y*s.W+x]
}

// Coverage classifies the grid.
type Coverage int

const (
	CoverageMixed Coverage = iota
	CoverageTransparent
	CoverageOpaque
)

func (c Coverage) String() string {
	switch c {
	case CoverageTransparent:
		return "transparent"
	case CoverageOpaque:
		return "opaque"
	default:
		return "mixed"
	}
}

// Classify scans every source cell (the border is excluded).
func (s *AlphaSampler) Classify() Coverage {
	set, total := 0, 0
	for y := 1; y < s.H-1; y++ {
		for x := 1; x < s.W-1; x++ {
			if s.Cells[y*s.W+x] {
				set++
			}
			total++
		}
	}
	switch set {
	case 0:
		return CoverageTransparent
	case total:
		return CoverageOpaque
	default:
		return CoverageMixed
	}
}
