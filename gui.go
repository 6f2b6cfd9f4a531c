package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// runGUI shows the session's canvas in a window and forwards key events
// to its controller. It must be called from the main goroutine and returns
// when the window is closed or ctx is done.
func runGUI(ctx context.Context, stop func(), s *session) (err error) {
	driver.Main(func(scr screen.Screen) {
		err = guiMain(ctx, stop, scr, s)
	})
	return
}

func guiMain(ctx context.Context, stop func(), scr screen.Screen, s *session) error {
	defer stop()

	bounds := s.cv.Bounds()
	w, err := scr.NewWindow(&screen.NewWindowOptions{
		Title:  "c8",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	})
	if err != nil {
		return err
	}
	defer w.Release()

	buf, err := scr.NewBuffer(bounds.Size())
	if err != nil {
		return err
	}
	defer buf.Release()
	tex, err := scr.NewTexture(bounds.Size())
	if err != nil {
		return err
	}
	defer tex.Release()

	type update struct{}
	type quit struct{}
	go func() {
		t := time.NewTicker(time.Second / 60)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(update{})
			case <-ctx.Done():
				w.Send(quit{})
				return
			}
		}
	}()

	var (
		sz    size.Event
		shown = -1 // frame number on screen
	)
	for {
		e := w.NextEvent()

		switch e := e.(type) {
		case update, quit, paint.Event, key.Event, size.Event:
		default:
			format := "got %#v\n"
			if _, ok := e.(fmt.Stringer); ok {
				format = "got %v\n"
			}
			log.Printf(format, e)
		}

		switch e := e.(type) {
		case quit:
			return nil

		case size.Event:
			sz = e
			if sz.WidthPx+sz.HeightPx == 0 {
				return nil
			}
			shown = -1

		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}

		case key.Event:
			if e.Code == key.CodeEscape {
				return nil
			}
			code, pressed := e.Code, e.Direction != key.DirRelease
			s.loop.Post(func() { s.c.HandleKey(code, pressed) })

		case paint.Event:
			shown = -1

		case update:
			n := s.cv.Presented()
			if n == shown || n == 0 {
				break
			}
			shown = n
			s.cv.Snapshot(buf.RGBA())
			tex.Upload(image.Point{}, buf, buf.Bounds())
			w.Scale(sz.Bounds(), tex, tex.Bounds(), draw.Src, nil)
			w.Publish()

		case error:
			log.Print(e)
		}
	}
}
