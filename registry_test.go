package tokenlayer

import (
	"errors"
	"image"
	"testing"
)

func TestMaskRegistryLifecycle(t *testing.T) {
	r := NewMaskRegistry()
	first := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	h := r.Register("owner-a", first)

	m, stale, err := r.Resolve(h)
	if err != nil || stale || m != first {
		t.Fatalf("expected fresh first mask, got %p stale=%v err=%v", m, stale, err)
	}
	if owner, _ := r.Owner(h); owner != "owner-a" {
		t.Errorf("expected owner-a, got %q", owner)
	}

	second := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	h2, err := r.Replace(h, second)
	if err != nil {
		t.Fatal(err)
	}
	if h2.Index != h.Index || h2.Generation != h.Generation+1 {
		t.Errorf("expected same slot next generation, got %+v from %+v", h2, h)
	}

	m, stale, err = r.Resolve(h)
	if err != nil || !stale || m != second {
		t.Errorf("old handle: expected current raster and stale, got %p stale=%v err=%v", m, stale, err)
	}
	if _, stale, _ := r.Resolve(h2); stale {
		t.Error("new handle should not be stale")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 slot, got %d", r.Len())
	}
}

func TestMaskRegistryUnknown(t *testing.T) {
	r := NewMaskRegistry()
	r.Register("a", nil)
	for _, h := range []MaskHandle{{Index: 1, Generation: 1}, {Index: -1, Generation: 1}, {Index: 0, Generation: 0}, {Index: 0, Generation: 5}} {
		if _, _, err := r.Resolve(h); !errors.Is(err, ErrUnknownMask) {
			t.Errorf("%+v: expected ErrUnknownMask, got %v", h, err)
		}
		if _, err := r.Replace(h, nil); !errors.Is(err, ErrUnknownMask) {
			t.Errorf("%+v: expected ErrUnknownMask from Replace, got %v", h, err)
		}
		if _, err := r.Owner(h); !errors.Is(err, ErrUnknownMask) {
			t.Errorf("%+v: expected ErrUnknownMask from Owner, got %v", h, err)
		}
	}
}

func TestMaskRegistryForeignHandle(t *testing.T) {
	a, b := NewMaskRegistry(), NewMaskRegistry()
	h := a.Register("owner-a", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	b.Register("owner-b", image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	if !a.Issued(h) || b.Issued(h) {
		t.Errorf("expected h to be issued by a only")
	}
	if _, _, err := b.Resolve(h); !errors.Is(err, ErrUnknownMask) {
		t.Errorf("expected ErrUnknownMask from a foreign registry, got %v", err)
	}
	if _, err := b.Replace(h, nil); !errors.Is(err, ErrUnknownMask) {
		t.Errorf("expected ErrUnknownMask from Replace, got %v", err)
	}
	if owner, _ := b.Owner(h); owner == "owner-b" {
		t.Error("a foreign handle must not resolve to b's slot")
	}
}
