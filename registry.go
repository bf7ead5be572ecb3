package tokenlayer

import (
	"fmt"
	"image"
)

// MaskHandle refers to a slot of the MaskRegistry that issued it. The
// generation records which version of the slot the handle was taken from.
// A handle resolves only against its issuing registry.
type MaskHandle struct {
	Index      int
	Generation uint64

	reg *MaskRegistry
}

func (h MaskHandle) String() string {
	return fmt.Sprintf("mask %d@%d", h.Index, h.Generation)
}

type maskSlot struct {
	owner      string
	mask       *image.NRGBA
	generation uint64
}

// MaskRegistry is an arena of mask rasters shared between layers.
// A slot is written only by its owner; other layers keep a handle and
// resolve it whenever they need the raster. Not safe for concurrent use.
type MaskRegistry struct {
	slots []maskSlot
}

func NewMaskRegistry() *MaskRegistry {
	return &MaskRegistry{}
}

// Register stores mask in a new slot owned by owner.
func (r *MaskRegistry) Register(owner string, mask *image.NRGBA) MaskHandle {
	r.slots = append(r.slots, maskSlot{owner: owner, mask: mask, generation: 1})
	return MaskHandle{Index: len(r.slots) - 1, Generation: 1, reg: r}
}

// Replace swaps the raster held by h's slot and returns the new handle.
// Handles taken before the call become stale.
func (r *MaskRegistry) Replace(h MaskHandle, mask *image.NRGBA) (MaskHandle, error) {
	if !r.valid(h) {
		return MaskHandle{}, fmt.Errorf("replace %v: %w", h, ErrUnknownMask)
	}
	s := &r.slots[h.Index]
	s.mask = mask
	s.generation++
	return MaskHandle{Index: h.Index, Generation: s.generation, reg: r}, nil
}

// Resolve returns the current raster of h's slot and whether h is stale.
func (r *MaskRegistry) Resolve(h MaskHandle) (*image.NRGBA, bool, error) {
	if !r.valid(h) {
		return nil, false, fmt.Errorf("resolve %v: %w", h, ErrUnknownMask)
	}
	s := r.slots[h.Index]
	return s.mask, h.Generation < s.generation, nil
}

// Owner returns the id of the layer that owns h's slot.
func (r *MaskRegistry) Owner(h MaskHandle) (string, error) {
	if !r.valid(h) {
		return "", fmt.Errorf("owner %v: %w", h, ErrUnknownMask)
	}
	return r.slots[h.Index].owner, nil
}

// Len returns the number of slots.
func (r *MaskRegistry) Len() int { return len(r.slots) }

// Issued reports whether h was handed out by r.
func (r *MaskRegistry) Issued(h MaskHandle) bool { return h.reg == r }

func (r *MaskRegistry) valid(h MaskHandle) bool {
	return h.reg == r && h.Index >= 0 && h.Index < len(r.slots) && h.Generation > 0 && h.Generation <= r.slots[h.Index].generation
}
