package tokenlayer

import (
	"fmt"
	"math"
)

// CompositeOperation selects how a layer is combined with the layers below.
type CompositeOperation uint8

const (
	// SourceOver paints the layer over the backdrop. This is the default.
	SourceOver CompositeOperation = iota
	// Multiply darkens: backdrop * source.
	Multiply
	// Screen lightens: 1 - (1-backdrop) * (1-source).
	Screen
	// Overlay multiplies dark backdrop areas and screens bright ones.
	Overlay
	// Darken keeps the darker channel.
	Darken
	// Lighten keeps the lighter channel.
	Lighten
	// DestinationOver paints the layer behind the backdrop.
	DestinationOver
	// SourceAtop paints the layer only where the backdrop is opaque.
	SourceAtop
)

var compositeNames = [...]string{
	SourceOver:      "source-over",
	Multiply:        "multiply",
	Screen:          "screen",
	Overlay:         "overlay",
	Darken:          "darken",
	Lighten:         "lighten",
	DestinationOver: "destination-over",
	SourceAtop:      "source-atop",
}

func (op CompositeOperation) String() string {
	if int(op) < len(compositeNames) {
		return compositeNames[op]
	}
	return fmt.Sprintf("CompositeOperation(%d)", uint8(op))
}

// ParseCompositeOperation maps a canvas style name to its operation.
// The empty string yields SourceOver.
func ParseCompositeOperation(s string) (CompositeOperation, error) {
	if s == "" {
		return SourceOver, nil
	}
	for i, name := range compositeNames {
		if name == s {
			return CompositeOperation(i), nil
		}
	}
	return SourceOver, fmt.Errorf("unknown composite operation %q", s)
}

// separable reports whether op mixes colours with a per channel blend
// function before source-over compositing.
func (op CompositeOperation) separable() bool {
	switch op {
	case Multiply, Screen, Overlay, Darken, Lighten:
		return true
	}
	return false
}

// blendChannel is B(cb, cs) for the separable modes, straight colour in [0,1].
func (op CompositeOperation) blendChannel(cb, cs float64) float64 {
	switch op {
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	case Darken:
		return math.Min(cb, cs)
	case Lighten:
		return math.Max(cb, cs)
	default:
		return cs
	}
}
