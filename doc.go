// Package tokenlayer is the image-layer engine of a token editor.
//
// A Layer holds a source image placed in a fixed size view. The image can
// be moved, scaled and rotated, and its opaque silhouette is traced into a
// binary mask that other layers may borrow through a MaskRegistry.
// Composite stacks layer views honouring masks, alpha and blend modes.
package tokenlayer
