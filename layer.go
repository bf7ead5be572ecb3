package tokenlayer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/google/uuid"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"
)

// Option configures a Layer at construction.
type Option func(*Layer)

// WithRegistry shares masks through r. Layers that borrow each other's
// masks must use the same registry; ApplyMask rejects a handle issued by
// another one with ErrUnknownMask.
func WithRegistry(r *MaskRegistry) Option {
	return func(l *Layer) { l.registry = r }
}

func WithMaskConfig(cfg MaskConfig) Option {
	return func(l *Layer) { l.maskConfig = cfg }
}

// WithIDGenerator replaces the default UUID generator. It is called once.
func WithIDGenerator(gen func() string) Option {
	return func(l *Layer) { l.newID = gen }
}

// WithInterpolator selects the resampler used for rotation and scaling.
func WithInterpolator(i xdraw.Interpolator) Option {
	return func(l *Layer) { l.interp = i }
}

// Layer is one raster on the token canvas: a source image with its
// transform, derived mask and background colour, rendered into a view of
// fixed size.
//
// Alpha, CompositeOperation, Visible and the effective mask are not used by
// Redraw. They describe how a compositor stacks this layer's view.
type Layer struct {
	id     string
	newID  func() string
	view   *image.RGBA
	interp xdraw.Interpolator

	source    *image.NRGBA
	transform Transform

	registry     *MaskRegistry
	maskConfig   MaskConfig
	sourceMask   *MaskHandle
	mask         *MaskHandle
	isMasked     bool
	providesMask bool

	color         color.Color
	previousColor color.Color
	alpha         float64
	op            CompositeOperation
	visible       bool
	active        bool
}

// NewLayer creates an empty layer with a width x height view.
func NewLayer(width, height int, opts ...Option) (*Layer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new layer %dx%d: %w", width, height, ErrInvalidSize)
	}
	l := &Layer{
		newID:      uuid.NewString,
		view:       image.NewRGBA(image.Rect(0, 0, width, height)),
		interp:     xdraw.BiLinear,
		transform:  NewTransform(),
		maskConfig: DefaultMaskConfig(),
		alpha:      1,
		op:         SourceOver,
		visible:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = NewMaskRegistry()
	}
	l.id = l.newID()
	return l, nil
}

func (l *Layer) ID() string { return l.id }
func (l *Layer) View() *image.RGBA { return l.view }
func (l *Layer) Registry() *MaskRegistry { return l.registry }
func (l *Layer) Transform() Transform { return l.transform }
func (l *Layer) Position() image.Point { return image.Pt(l.transform.X, l.transform.Y) }
func (l *Layer) Scale() float64 { return l.transform.Scale }
func (l *Layer) Rotation() float64 { return l.transform.Rotation }
func (l *Layer) IsActive() bool { return l.active }
func (l *Layer) IsMasked() bool { return l.isMasked }
func (l *Layer) ProvidesMask() bool { return l.providesMask }
func (l *Layer) Color() color.Color { return l.color }
func (l *Layer) PreviousColor() color.Color { return l.previousColor }
func (l *Layer) Alpha() float64 { return l.alpha }
func (l *Layer) Visible() bool { return l.visible }

func (l *Layer) CompositeOperation() CompositeOperation { return l.op }

// Source returns the installed image or nil.
func (l *Layer) Source() image.Image {
	if l.source == nil {
		return nil
	}
	return l.source
}

// Activate lets the layer take interactive transform input.
func (l *Layer) Activate() { l.active = true }
func (l *Layer) Deactivate() { l.active = false }

func (l *Layer) SetProvidesMask(v bool) { l.providesMask = v }
func (l *Layer) SetVisible(v bool) { l.visible = v }

// SetAlpha sets the layer opacity, clamped to [0, 1].
func (l *Layer) SetAlpha(a float64) {
	l.alpha = max(0, min(1, a))
}

func (l *Layer) SetCompositeOperation(op CompositeOperation) { l.op = op }

// FromImage installs a copy of img as the source, re-fits the transform,
// rebuilds the source mask and redraws. On error the layer is unchanged.
func (l *Layer) FromImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	b := img.Bounds()
	src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	mask, err := BuildMask(src, l.maskConfig)
	if err != nil {
		return fmt.Errorf("layer %s: %w", l.id, err)
	}
	l.source = src
	l.Reset()
	l.storeSourceMask(mask)
	l.Redraw()
	return nil
}

// Reset center-fits the source in the view and clears rotation.
func (l *Layer) Reset() {
	if l.source == nil {
		Logger().Debug("reset skipped, no source", zap.String("layer", l.id))
		return
	}
	l.transform.Reset(l.view.Bounds().Size(), l.source.Bounds().Size())
}

// CreateMask rebuilds the source mask from the current source.
// A layer without a source is left as is.
func (l *Layer) CreateMask() error {
	if l.source == nil {
		Logger().Debug("create mask skipped, no source", zap.String("layer", l.id))
		return nil
	}
	mask, err := BuildMask(l.source, l.maskConfig)
	if err != nil {
		return fmt.Errorf("layer %s: %w", l.id, err)
	}
	l.storeSourceMask(mask)
	return nil
}

func (l *Layer) storeSourceMask(mask *image.NRGBA) {
	if l.sourceMask == nil {
		h := l.registry.Register(l.id, mask)
		l.sourceMask = &h
		return
	}
	old := *l.sourceMask
	h, err := l.registry.Replace(old, mask)
	if err != nil {
		Logger().Warn("own mask slot missing, registering a new one", zap.String("layer", l.id), zap.Error(err))
		h = l.registry.Register(l.id, mask)
	}
	l.sourceMask = &h
	if l.mask != nil && l.mask.reg == old.reg && l.mask.Index == old.Index {
		l.mask = &h
	}
}

// SourceMaskHandle returns the handle of this layer's own mask slot.
func (l *Layer) SourceMaskHandle() (MaskHandle, bool) {
	if l.sourceMask == nil {
		return MaskHandle{}, false
	}
	return *l.sourceMask, true
}

// MaskHandle returns the handle of the effective mask, applied or not.
func (l *Layer) MaskHandle() (MaskHandle, bool) {
	if l.mask == nil {
		return MaskHandle{}, false
	}
	return *l.mask, true
}

// SourceMask resolves this layer's own mask, or nil before one was built.
func (l *Layer) SourceMask() *image.NRGBA {
	if l.sourceMask == nil {
		return nil
	}
	m, _, err := l.registry.Resolve(*l.sourceMask)
	if err != nil {
		return nil
	}
	return m
}

// Mask resolves the effective mask. The handle is re-resolved on every call
// so a borrowed mask always reflects the owner's current raster.
func (l *Layer) Mask() *image.NRGBA {
	if l.mask == nil {
		return nil
	}
	m, stale, err := l.registry.Resolve(*l.mask)
	if err != nil {
		Logger().Warn("mask handle unresolvable", zap.String("layer", l.id), zap.Error(err))
		return nil
	}
	if stale {
		Logger().Debug("mask handle stale", zap.String("layer", l.id), zap.Int("slot", l.mask.Index))
	}
	return m
}

// MaskStale reports whether the effective mask was replaced by its owner
// after this layer adopted it.
func (l *Layer) MaskStale() bool {
	if l.mask == nil {
		return false
	}
	_, stale, err := l.registry.Resolve(*l.mask)
	return err == nil && stale
}

// ApplyMask makes a mask effective. A nil handle adopts the layer's own
// source mask; otherwise h must have been issued by the layer's registry.
func (l *Layer) ApplyMask(h *MaskHandle) error {
	if h == nil {
		if l.sourceMask == nil {
			return fmt.Errorf("layer %s: %w", l.id, ErrNoMask)
		}
		own := *l.sourceMask
		l.mask = &own
	} else {
		if !l.registry.Issued(*h) {
			return fmt.Errorf("layer %s: %v from another registry: %w", l.id, *h, ErrUnknownMask)
		}
		if _, _, err := l.registry.Resolve(*h); err != nil {
			return fmt.Errorf("layer %s: %w", l.id, err)
		}
		borrowed := *h
		l.mask = &borrowed
	}
	l.isMasked = true
	l.Redraw()
	return nil
}

// UnapplyMask turns masking off but keeps the handle for later.
func (l *Layer) UnapplyMask() {
	l.isMasked = false
	l.Redraw()
}

// SetColor sets the background fill; nil means none.
func (l *Layer) SetColor(c color.Color) {
	l.color = c
	l.Redraw()
}

func (l *Layer) SaveColor()    { l.previousColor = l.color }
func (l *Layer) RestoreColor() { l.color = l.previousColor }

// Translate moves the source against the drag delta (dx, dy).
func (l *Layer) Translate(dx, dy int) {
	l.transform.Translate(dx, dy)
	l.Redraw()
}

func (l *Layer) SetScale(factor float64) error {
	if err := l.transform.SetScale(factor); err != nil {
		return fmt.Errorf("layer %s: scale %v: %w", l.id, factor, err)
	}
	l.Redraw()
	return nil
}

// Rotate adds a drag rotation; see RotationSensitivity.
func (l *Layer) Rotate(degree float64) {
	l.transform.Rotate(degree)
	l.Redraw()
}

// DrawMatrix is the affine placing source pixels in the view.
func (l *Layer) DrawMatrix() *mat.Dense { return l.transform.DrawMatrix() }

// Redraw renders the fill colour and the transformed source into the view.
// Rotation always starts from the original source.
func (l *Layer) Redraw() {
	draw.Draw(l.view, l.view.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if l.color != nil {
		draw.Draw(l.view, l.view.Bounds(), image.NewUniform(l.color), image.Point{}, draw.Src)
	}
	if l.source == nil {
		return
	}
	l.transform.place(l.view, l.transform.rotated(l.source, l.interp), l.interp)
}
