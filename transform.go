package tokenlayer

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"gonum.org/v1/gonum/mat"
)

// RotationSensitivity converts pointer drag degrees into visual degrees.
const RotationSensitivity = 2

// Transform holds the placement of a source inside a view. It is applied
// from scratch on every redraw; nothing is accumulated in pixel space.
type Transform struct {
	X, Y     int     // top-left of the scaled source in view pixels
	Scale    float64 // uniform, always > 0
	Rotation float64 // degrees, unbounded
}

func NewTransform() Transform {
	return Transform{Scale: 1}
}

// Reset fits the source's longer side to the view and centers it.
// The view size used for the fit is the shorter view side.
func (t *Transform) Reset(view, src image.Point) {
	if view.X <= 0 || view.Y <= 0 || src.X <= 0 || src.Y <= 0 {
		return
	}
	t.Scale = float64(min(view.X, view.Y)) / float64(max(src.X, src.Y))
	t.Rotation = 0
	t.X = int(math.Floor(float64(view.X)/2 - float64(src.X)*t.Scale/2))
	t.Y = int(math.Floor(float64(view.Y)/2 - float64(src.Y)*t.Scale/2))
}

// Translate moves the position against the drag delta.
func (t *Transform) Translate(dx, dy int) {
	t.X -= dx
	t.Y -= dy
}

// SetScale replaces the scale. Bounding the factor is the caller's job;
// only non-positive and NaN factors are refused.
func (t *Transform) SetScale(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return ErrInvalidScale
	}
	t.Scale = factor
	return nil
}

// Rotate adds degree scaled by RotationSensitivity.
func (t *Transform) Rotate(degree float64) {
	t.Rotation += degree * RotationSensitivity
}

// DrawMatrix maps source pixels into view pixels: translate then scale.
func (t Transform) DrawMatrix() *mat.Dense {
	var m mat.Dense
	m.Mul(translation(float64(t.X), float64(t.Y)), scaling(t.Scale))
	return &m
}

// RotationMatrix rotates a size.X x size.Y image about its own center.
func (t Transform) RotationMatrix(size image.Point) *mat.Dense {
	cx, cy := float64(size.X)/2, float64(size.Y)/2
	var m mat.Dense
	m.Product(translation(cx, cy), rotation(t.Rotation), translation(-cx, -cy))
	return &m
}

func translation(tx, ty float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	})
}

func scaling(s float64) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		s, 0, 0,
		0, s, 0,
		0, 0, 1,
	})
}

// rotation is clockwise on screen for positive degrees (y grows down).
func rotation(degrees float64) *mat.Dense {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return mat.NewDense(3, 3, []float64{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	})
}

func aff3(m mat.Matrix) f64.Aff3 {
	return f64.Aff3{
		m.At(0, 0), m.At(0, 1), m.At(0, 2),
		m.At(1, 0), m.At(1, 1), m.At(1, 2),
	}
}

// rotated renders src rotated about its center onto a new raster of the
// same size. The input is always the unrotated original.
func (t Transform) rotated(src image.Image, interp xdraw.Interpolator) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if math.Mod(t.Rotation, 360) == 0 {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	var m mat.Dense
	m.Mul(t.RotationMatrix(b.Size()), translation(-float64(b.Min.X), -float64(b.Min.Y)))
	interp.Transform(dst, aff3(&m), src, b, xdraw.Over, nil)
	return dst
}

// place draws img into dst through the draw matrix.
func (t Transform) place(dst draw.Image, img image.Image, interp xdraw.Interpolator) {
	if t.Scale == 1 {
		r := img.Bounds().Sub(img.Bounds().Min).Add(image.Pt(t.X, t.Y))
		draw.Draw(dst, r, img, img.Bounds().Min, draw.Over)
		return
	}
	var m mat.Dense
	m.Mul(t.DrawMatrix(), translation(-float64(img.Bounds().Min.X), -float64(img.Bounds().Min.Y)))
	interp.Transform(dst, aff3(&m), img, img.Bounds(), xdraw.Over, nil)
}
