package tokenlayer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"
	"golang.org/x/image/vector"
)

// MaskConfig controls mask rasterization.
type MaskConfig struct {
	// Colour painted inside the silhouette. Its alpha is ignored: mask
	// pixels are either fully opaque or fully transparent.
	FillColor color.Color
	// Pixels with alpha strictly above Threshold belong to the silhouette.
	Threshold uint8
}

func DefaultMaskConfig() MaskConfig {
	return MaskConfig{
		FillColor: color.Black,
		Threshold: DefaultThreshold,
	}
}

func (cfg MaskConfig) fill() color.NRGBA {
	c := cfg.FillColor
	if c == nil {
		c = color.Black
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = 0xff
	return nc
}

// BuildMask produces a binary mask with the same size as src. Uniform
// sources are filled (or left clear) directly; anything else is traced and
// the closed contour is filled.
func BuildMask(src image.Image, cfg MaskConfig) (*image.NRGBA, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	mask := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill := cfg.fill()

	s := NewAlphaSampler(src, cfg.Threshold)
	coverage := s.Classify()
	log := Logger().With(zap.Int("width", w), zap.Int("height", h), zap.Stringer("coverage", coverage))

	switch coverage {
	case CoverageTransparent:
		log.Debug("mask left clear")
		return mask, nil
	case CoverageOpaque:
		draw.Draw(mask, mask.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
		log.Debug("mask filled")
		return mask, nil
	}

	contour, err := TraceContour(s)
	if err != nil {
		return nil, fmt.Errorf("build mask: %w", err)
	}
	cov := fillContour(contour, s.W, s.H)

	for y := range h {
		for x := range w {
			if cov.AlphaAt(x+1, y+1).A >= 0x80 {
				mask.SetNRGBA(x, y, fill)
			}
		}
	}
	log.Debug("mask traced", zap.Int("points", len(contour)))
	return mask, nil
}

// fillContour rasterizes the closed polygon onto a w x h coverage raster.
func fillContour(c Contour, w, h int) *image.Alpha {
	cov := image.NewAlpha(image.Rect(0, 0, w, h))
	if len(c) < 3 {
		return cov
	}
	r := vector.NewRasterizer(w, h)
	r.MoveTo(float32(c[0].X), float32(c[0].Y))
	for _, p := range c[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
	r.Draw(cov, cov.Bounds(), image.Opaque, image.Point{})
	return cov
}
