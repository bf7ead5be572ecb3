package tokenlayer

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestBuildMaskOpaque(t *testing.T) {
	mask, err := BuildMask(solid(7, 5, color.White), DefaultMaskConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := mask.Bounds().Size(); got != image.Pt(7, 5) {
		t.Fatalf("expected 7x5, got %v", got)
	}
	if n := opaqueCount(mask); n != 35 {
		t.Errorf("expected all 35 pixels opaque, got %d", n)
	}
}

func TestBuildMaskTransparent(t *testing.T) {
	mask, err := BuildMask(solid(6, 9, color.NRGBA{R: 255, A: 200}), DefaultMaskConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := mask.Bounds().Size(); got != image.Pt(6, 9) {
		t.Fatalf("expected 6x9, got %v", got)
	}
	for y := range 9 {
		for x := range 6 {
			if a := alphaAt(mask, x, y); a != 0 {
				t.Fatalf("pixel (%d,%d): expected clear, got alpha %d", x, y, a)
			}
		}
	}
}

func TestBuildMaskSize(t *testing.T) {
	sizes := []image.Point{{1, 1}, {1, 9}, {13, 2}, {31, 17}}
	for _, sz := range sizes {
		mixed := solid(sz.X, sz.Y, color.Transparent)
		mixed.SetNRGBA(0, 0, color.NRGBA{A: 255})
		for _, src := range []image.Image{
			solid(sz.X, sz.Y, color.White),
			solid(sz.X, sz.Y, color.Transparent),
			mixed,
		} {
			mask, err := BuildMask(src, DefaultMaskConfig())
			if err != nil {
				t.Fatal(err)
			}
			if got := mask.Bounds().Size(); got != sz {
				t.Errorf("expected %v, got %v", sz, got)
			}
		}
	}
}

func TestBuildMaskCircle(t *testing.T) {
	src := disk(64, 32)
	mask, err := BuildMask(src, DefaultMaskConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pi * 32 * 32
	got := float64(opaqueCount(mask))
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("expected about %.0f opaque pixels, got %.0f", want, got)
	}
	// The filled contour covers exactly the opaque disk pixels.
	if int(got) != opaqueCount(src) {
		t.Errorf("expected %d pixels, got %.0f", opaqueCount(src), got)
	}
	if alphaAt(mask, 0, 0) != 0 || alphaAt(mask, 32, 32) != 0xff {
		t.Error("expected clear corner and opaque centre")
	}
}

func TestBuildMaskFillsRingHole(t *testing.T) {
	src := disk(40, 18)
	hole := disk(40, 10)
	for y := range 40 {
		for x := range 40 {
			if hole.NRGBAAt(x, y).A != 0 {
				src.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	mask, err := BuildMask(src, DefaultMaskConfig())
	if err != nil {
		t.Fatal(err)
	}
	if alphaAt(mask, 20, 20) != 0xff {
		t.Error("expected the ring's hole to be inside the silhouette")
	}
	if opaqueCount(mask) != opaqueCount(disk(40, 18)) {
		t.Errorf("expected the outer disk footprint, got %d pixels", opaqueCount(mask))
	}
}

func TestBuildMaskFillColor(t *testing.T) {
	cfg := MaskConfig{
		FillColor: color.NRGBA{R: 10, G: 20, B: 30, A: 40},
		Threshold: DefaultThreshold,
	}
	mask, err := BuildMask(disk(16, 6), cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	if got := mask.NRGBAAt(8, 8); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBuildMaskThreshold(t *testing.T) {
	src := solid(4, 4, color.NRGBA{A: 100})
	cfg := DefaultMaskConfig()
	cfg.Threshold = 50
	mask, err := BuildMask(src, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opaqueCount(mask) != 16 {
		t.Errorf("expected a filled mask with a low threshold, got %d", opaqueCount(mask))
	}
}

func TestBuildMaskEmpty(t *testing.T) {
	_, err := BuildMask(image.NewNRGBA(image.Rect(0, 0, 0, 5)), DefaultMaskConfig())
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}
