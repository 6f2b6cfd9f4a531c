package host

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Canvas is a double-buffered Surface. Frames are drawn into a back buffer
// on the controller's goroutine; Present copies it to the front buffer,
// which other goroutines read with Snapshot.
type Canvas struct {
	back *image.RGBA

	mu    sync.Mutex
	front *image.RGBA
	n     int // frames presented

	onPresent func()
}

// NewCanvas returns a Canvas of the given size in pixels. If onPresent is
// non-nil it is called, on the presenting goroutine, after each frame
// becomes visible to Snapshot.
func NewCanvas(size image.Point, onPresent func()) *Canvas {
	r := image.Rectangle{Max: size}
	return &Canvas{
		back:      image.NewRGBA(r),
		front:     image.NewRGBA(r),
		onPresent: onPresent,
	}
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() image.Rectangle { return c.back.Rect }

// Frame returns the back buffer.
func (c *Canvas) Frame() draw.Image { return c.back }

// Present publishes the back buffer.
func (c *Canvas) Present() {
	c.mu.Lock()
	copy(c.front.Pix, c.back.Pix)
	c.n++
	c.mu.Unlock()
	if c.onPresent != nil {
		c.onPresent()
	}
}

// Presented returns the number of frames presented so far.
func (c *Canvas) Presented() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Snapshot copies the most recently presented frame into dst, which is
// allocated if nil or of the wrong size, and returns it.
func (c *Canvas) Snapshot(dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Rect != c.front.Rect {
		dst = image.NewRGBA(c.front.Rect)
	}
	c.mu.Lock()
	copy(dst.Pix, c.front.Pix)
	c.mu.Unlock()
	return dst
}
