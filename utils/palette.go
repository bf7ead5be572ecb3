package utils

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		la, lb := luminance(a), luminance(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		}
		return 0
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// silhouette packs the visible pixels of img that fall inside mask (all
// visible pixels when mask is nil) into a square image. Unused trailing
// cells stay transparent, which both extractors skip.
func silhouette(img, mask image.Image) image.Image {
	b := img.Bounds()
	var mb image.Rectangle
	if mask != nil {
		mb = mask.Bounds()
	}
	var px []color.Color
	for y := range b.Dy() {
		for x := range b.Dx() {
			if mask != nil {
				if _, _, _, ma := mask.At(mb.Min.X+x, mb.Min.Y+y).RGBA(); ma < 0x8000 {
					continue
				}
			}
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if _, _, _, a := c.RGBA(); a == 0 {
				continue
			}
			px = append(px, c)
		}
	}
	if len(px) == 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	side := int(math.Ceil(math.Sqrt(float64(len(px)))))
	out := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i, c := range px {
		out.Set(i%side, i/side, c)
	}
	return out
}

// ExtractPalette returns up to k well separated colours of img, restricted
// to the pixels covered by mask when mask is not nil. The kmeans method
// falls back to dominantcolor when it finds nothing.
func ExtractPalette(img, mask image.Image, k int, method PaletteMethod) []colorful.Color {
	img = silhouette(img, mask)
	if img.Bounds().Empty() {
		return nil
	}
	switch method {
	case PaletteMethodKMeans:
		if p := extractKMeansPalette(img, k); len(p) != 0 {
			return p
		}
		return extractDominantPalette(img, k)
	default:
		return extractDominantPalette(img, k)
	}
}

// SuggestFillColor picks a backdrop colour for a token: the strongest
// dominant colour of the silhouette, darkened slightly so the artwork stays
// readable on top of it.
func SuggestFillColor(img, mask image.Image) color.Color {
	p := ExtractPalette(img, mask, 1, PaletteMethodDominantColor)
	if len(p) == 0 {
		return color.Black
	}
	h, c, l := p[0].Hcl()
	dark := colorful.Hcl(h, c, math.Max(0, l*0.6)).Clamped()
	r, g, b := dark.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func extractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	if len(candidates) == 0 {
		candidates = append(candidates, dominantcolor.Color{
			RGBA:   color.RGBA{R: 128, G: 128, B: 128, A: 255},
			Weight: 1.0,
		})
	}
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: c.Weight})
	}
	return selectDiverse(weighted, k)
}

func extractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large images.
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 == 0 {
				continue
			}
			// un-premultiply
			dataset = append(dataset, clusters.Coordinates{
				float64(r16) / float64(a16),
				float64(g16) / float64(a16),
				float64(b16) / float64(a16),
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse seeds with the heaviest colour, then greedily adds the
// candidate farthest (in Lab) from the chosen set, biased by weight.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	maxW := 0.0
	for i := range cands {
		cands[i].Weight = math.Max(cands[i].Weight, 1e-6)
		maxW = math.Max(maxW, cands[i].Weight)
	}
	k = min(k, len(cands))

	seed := 0
	for i := range cands {
		if cands[i].Weight > cands[seed].Weight {
			seed = i
		}
	}
	chosen := []int{seed}
	used := make([]bool, len(cands))
	used[seed] = true

	for len(chosen) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			minD := math.MaxFloat64
			for _, s := range chosen {
				minD = math.Min(minD, c.Col.DistanceLab(cands[s].Col))
			}
			score := minD * (0.55 + 0.45*math.Sqrt(c.Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		chosen = append(chosen, best)
	}

	out := make([]colorful.Color, 0, len(chosen))
	for _, i := range chosen {
		out = append(out, cands[i].Col)
	}
	return out
}
