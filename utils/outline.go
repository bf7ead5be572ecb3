package utils

import (
	"image"
	"image/color"
	"io"

	"github.com/gotranspile/gotrace"
)

// OutlineSVG traces the opaque part of mask with potrace and writes the
// resulting curves as an SVG document.
func OutlineSVG(mask image.Image, w io.Writer) error {
	paths, err := traceOutline(mask)
	if err != nil {
		return err
	}
	b := mask.Bounds()
	return gotrace.Render("svg", nil, w, paths, b.Dx(), b.Dy())
}

// traceOutline traces the pixels of mask with alpha at least one half.
// They are drawn black, the foreground colour for potrace.
func traceOutline(mask image.Image) ([]gotrace.Path, error) {
	b := mask.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			_, _, _, a := mask.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a >= 0x8000 {
				gray.SetGray(x, y, color.Gray{Y: 0})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return gotrace.Trace(gotrace.BitmapFromGray(gray, nil), nil)
}
