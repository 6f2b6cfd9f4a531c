package host

import (
	"image"
	"image/color"
	"testing"
)

func TestCanvas(t *testing.T) {
	var presents int
	c := NewCanvas(image.Pt(3, 2), func() { presents++ })
	if got := c.Bounds(); got != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds = %v", got)
	}

	red := color.RGBA{0xff, 0, 0, 0xff}
	c.Frame().Set(2, 1, red)
	if got := c.Snapshot(nil).RGBAAt(2, 1); got == red {
		t.Error("unpresented frame visible in snapshot")
	}

	c.Present()
	snap := c.Snapshot(nil)
	if got := snap.RGBAAt(2, 1); got != red {
		t.Errorf("presented pixel = %v, want %v", got, red)
	}
	if presents != 1 || c.Presented() != 1 {
		t.Errorf("presents = %d, Presented = %d, want 1", presents, c.Presented())
	}

	// Later drawing does not touch an earlier snapshot.
	c.Frame().Set(2, 1, color.RGBA{})
	c.Present()
	if got := snap.RGBAAt(2, 1); got != red {
		t.Errorf("snapshot changed to %v", got)
	}
	if again := c.Snapshot(snap); again != snap {
		t.Error("Snapshot did not reuse a correctly sized image")
	}
	if got := snap.RGBAAt(2, 1); got != (color.RGBA{}) {
		t.Errorf("reused snapshot pixel = %v, want transparent", got)
	}
}
