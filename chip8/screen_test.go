package chip8

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestDrawSprite(t *testing.T) {
	var d Display
	if d.DrawSprite(-1, -1, []byte{0xc0}) {
		t.Error("collision reported on empty display")
	}
	for _, p := range []image.Point{{63, 31}, {0, 31}} {
		if !d.At(p.X, p.Y) {
			t.Errorf("pixel %v not lit", p)
		}
	}
	if !d.At(-1, -1) {
		t.Error("At does not wrap negative coordinates")
	}
	if !d.DrawSprite(63, 31, []byte{0x80}) {
		t.Error("no collision reported when erasing a lit pixel")
	}
	if d.At(63, 31) {
		t.Error("pixel (63, 31) still lit after XOR")
	}
}

func TestRender(t *testing.T) {
	const scale = 3
	var (
		m     = NewMachine()
		bg    = color.RGBA{0x10, 0x20, 0x30, 0xff}
		ink   = color.RGBA{0xff, 0xff, 0xff, 0xff}
		dst   = image.NewRGBA(image.Rect(0, 0, Width*scale, Height*scale))
		lit   = map[image.Point]bool{{1, 0}: true, {63, 31}: true}
		count int
	)
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	m.Ink = ink
	for p := range lit {
		m.Display[p.Y*Width+p.X] = true
	}
	m.Render(dst, scale)
	for y := 0; y < Height*scale; y++ {
		for x := 0; x < Width*scale; x++ {
			want := bg
			if lit[image.Pt(x/scale, y/scale)] {
				want = ink
				count++
			}
			if g := dst.RGBAAt(x, y); g != want {
				t.Fatalf("pixel (%d, %d) is %v, want %v", x, y, g, want)
			}
		}
	}
	if w := len(lit) * scale * scale; count != w {
		t.Errorf("%d pixels drawn in ink, want %d", count, w)
	}
}
