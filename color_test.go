package tokenlayer

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}},
		{"00ff80", color.NRGBA{G: 255, B: 128, A: 255}},
		{"", nil},
		{"none", nil},
		{" NONE ", nil},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
	if _, err := ParseColor("#zz0000"); err == nil {
		t.Error("expected an error for a malformed colour")
	}
}

func TestFormatColor(t *testing.T) {
	if got := FormatColor(nil); got != "none" {
		t.Errorf("expected none, got %q", got)
	}
	if got := FormatColor(color.NRGBA{R: 255, G: 136, A: 255}); got != "#ff8800" {
		t.Errorf("expected #ff8800, got %q", got)
	}
}
