package tokenlayer

import "errors"

var (
	// ErrEmptyImage is returned when a source image has zero width or height.
	ErrEmptyImage = errors.New("tokenlayer: empty image")
	// ErrInvalidSize is returned for a non-positive view size.
	ErrInvalidSize = errors.New("tokenlayer: invalid view size")
	// ErrInvalidScale is returned when a scale factor is not strictly positive.
	ErrInvalidScale = errors.New("tokenlayer: invalid scale")
	// ErrNoMask is returned when applying a layer's own mask before one was built.
	ErrNoMask = errors.New("tokenlayer: no source mask")
	// ErrUnknownMask is returned for a handle the registry does not hold.
	ErrUnknownMask = errors.New("tokenlayer: unknown mask handle")
	// ErrDegenerate is returned when tracing a grid without a boundary.
	ErrDegenerate = errors.New("tokenlayer: uniform alpha grid has no contour")
)
