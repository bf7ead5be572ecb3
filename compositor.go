package tokenlayer

import (
	"image"
	"image/color"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
)

// Composite stacks the views of layers, bottom first, into a new
// width x height raster. Invisible layers are skipped. A masked layer is
// clipped by its effective mask, placed with the transform of the layer
// that owns the mask when that layer is part of the stack and with the
// masked layer's own transform otherwise. Alpha and CompositeOperation are
// then used to combine the layer with what is below it.
func Composite(width, height int, layers ...*Layer) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	byID := make(map[string]*Layer, len(layers))
	for _, l := range layers {
		byID[l.id] = l
	}
	for _, l := range layers {
		if !l.visible || l.alpha == 0 {
			continue
		}
		var clip *image.Alpha
		if l.isMasked {
			clip = l.clip(byID)
		}
		compositeLayer(dst, l.view, clip, l.alpha, l.op)
	}
	return dst
}

// clip renders the effective mask into view space, or nil when the mask
// cannot be resolved.
func (l *Layer) clip(byID map[string]*Layer) *image.Alpha {
	m := l.Mask()
	if m == nil {
		return nil
	}
	placer := l
	if owner, err := l.registry.Owner(*l.mask); err == nil {
		if o, ok := byID[owner]; ok {
			placer = o
		} else if owner != l.id {
			Logger().Debug("mask owner not composited, using own transform",
				zap.String("layer", l.id), zap.String("owner", owner))
		}
	}
	clip := image.NewAlpha(l.view.Bounds())
	t := placer.transform
	t.place(clip, t.rotated(m, xdraw.NearestNeighbor), xdraw.NearestNeighbor)
	return clip
}

func compositeLayer(dst *image.RGBA, src *image.RGBA, clip *image.Alpha, alpha float64, op CompositeOperation) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.RGBAAt(x, y)
			k := alpha
			if clip != nil {
				k *= float64(clip.AlphaAt(x, y).A) / 0xff
			}
			if s.A == 0 || k == 0 {
				continue
			}
			dst.SetRGBA(x, y, blendPixel(dst.RGBAAt(x, y), s, k, op))
		}
	}
}

// blendPixel combines premultiplied source s, scaled by k, with backdrop d.
func blendPixel(d, s color.RGBA, k float64, op CompositeOperation) color.RGBA {
	as := float64(s.A) / 0xff * k
	ab := float64(d.A) / 0xff
	cs := straight(s)
	cb := straight(d)

	var co [3]float64 // premultiplied
	var ao float64
	switch op {
	case DestinationOver:
		for i := range co {
			co[i] = ab*cb[i] + as*cs[i]*(1-ab)
		}
		ao = ab + as*(1-ab)
	case SourceAtop:
		for i := range co {
			co[i] = as*cs[i]*ab + ab*cb[i]*(1-as)
		}
		ao = ab
	default:
		for i := range co {
			mixed := cs[i]
			if op.separable() {
				mixed = (1-ab)*cs[i] + ab*op.blendChannel(cb[i], cs[i])
			}
			co[i] = as*mixed + ab*cb[i]*(1-as)
		}
		ao = as + ab*(1-as)
	}
	return color.RGBA{
		R: unit8(co[0]),
		G: unit8(co[1]),
		B: unit8(co[2]),
		A: unit8(ao),
	}
}

func straight(c color.RGBA) [3]float64 {
	if c.A == 0 {
		return [3]float64{}
	}
	a := float64(c.A)
	return [3]float64{float64(c.R) / a, float64(c.G) / a, float64(c.B) / a}
}

func unit8(v float64) uint8 {
	return uint8(max(0, min(255, v*255+0.5)))
}
