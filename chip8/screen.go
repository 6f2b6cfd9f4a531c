package chip8

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// The CHIP-8 display is 64x32 monochrome pixels.
const (
	Width  = 64
	Height = 32
)

// Display holds the monochrome framebuffer, indexed by y*Width+x.
type Display [Width * Height]bool

// Clear turns off every pixel.
func (d *Display) Clear() { *d = Display{} }

// At reports whether the pixel at (x, y) is lit.
// Coordinates wrap around the edges of the display.
func (d *Display) At(x, y int) bool {
	return d[mod(y, Height)*Width+mod(x, Width)]
}

// DrawSprite XORs the sprite rows onto the display with its top-left corner
// at (x, y), wrapping pixels that fall off the edges. Each byte is one row
// of eight pixels, most significant bit first. It reports whether any lit
// pixel was turned off.
func (d *Display) DrawSprite(x, y int, sprite []byte) (collision bool) {
	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			i := mod(y+row, Height)*Width + mod(x+col, Width)
			if d[i] {
				collision = true
			}
			d[i] = !d[i]
		}
	}
	return collision
}

// frameImage is an image.Image view of a Display, showing lit pixels in
// ink and the rest as transparent.
type frameImage struct {
	d   *Display
	ink color.RGBA
}

func (f *frameImage) ColorModel() color.Model { return color.RGBAModel }
func (f *frameImage) Bounds() image.Rectangle { return image.Rect(0, 0, Width, Height) }

func (f *frameImage) At(x, y int) color.Color {
	if f.d[y*Width+x] {
		return f.ink
	}
	return color.Transparent
}

// Render draws the display onto dst with its origin at dst's top-left
// corner, each lit pixel as a scale×scale block of m.Ink. Unlit pixels are
// left untouched, so dst is normally cleared first.
func (m *Machine) Render(dst draw.Image, scale int) {
	if scale < 1 {
		scale = 1
	}
	if m.frame == nil {
		m.frame = &frameImage{d: &m.Display}
	}
	m.frame.ink = m.Ink
	origin := dst.Bounds().Min
	r := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(Width*scale, Height*scale))}
	draw.NearestNeighbor.Scale(dst, r, m.frame, m.frame.Bounds(), draw.Over, nil)
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

const fontGlyphSize = 5

var font = [16 * fontGlyphSize]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}
