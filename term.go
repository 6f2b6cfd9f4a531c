package main

import (
	"bytes"
	"context"
	"image"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/mobile/event/key"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

// keyHold is how long a key is held down after the terminal reports it.
// Terminals send no release events, so each press is released after
// keyHold unless the key repeats.
const keyHold = 150 * time.Millisecond

type (
	frameEvent struct{}
	keyRelease struct{ code key.Code }
)

// term runs a session in the terminal, drawing two CHIP-8 rows per
// text row.
type term struct {
	scr    tcell.Screen
	status *statusLine
}

// newTerm takes over the terminal and redirects the log to the status line.
func newTerm() (*term, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := scr.Init(); err != nil {
		return nil, err
	}
	t := &term{scr: scr, status: &statusLine{}}
	log.SetOutput(t.status)
	return t, nil
}

// close restores the terminal and the log.
func (t *term) close() {
	t.scr.Fini()
	log.SetOutput(os.Stderr)
	if s := t.status.String(); s != "" {
		log.Print(s)
	}
}

// frameReady is the canvas present hook. It is called on the loop goroutine.
func (t *term) frameReady() {
	t.scr.PostEvent(tcell.NewEventInterrupt(frameEvent{}))
}

// run handles terminal events until Escape is pressed or ctx is done.
func (t *term) run(ctx context.Context, stop func(), s *session) error {
	scr := t.scr
	go func() {
		<-ctx.Done()
		scr.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	var (
		held  = map[key.Code]*time.Timer{}
		frame *image.RGBA
	)
	defer func() {
		for _, timer := range held {
			timer.Stop()
		}
	}()
	for {
		switch ev := scr.PollEvent().(type) {
		case nil:
			return nil

		case *tcell.EventResize:
			scr.Sync()

		case *tcell.EventInterrupt:
			switch d := ev.Data().(type) {
			case frameEvent:
				frame = s.cv.Snapshot(frame)
				drawTerm(scr, frame, t.status.String())
			case keyRelease:
				delete(held, d.code)
				s.loop.Post(func() { s.c.HandleKey(d.code, false) })
			default:
				if ctx.Err() != nil {
					return nil
				}
			}

		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				stop()
				return nil
			case tcell.KeyTab:
				if next := nextProgram(s.names, s.sel.Current()); next != "" {
					go s.sel.Select(ctx, next)
				}
			case tcell.KeyRune:
				code, ok := host.RuneCode(ev.Rune())
				if !ok {
					break
				}
				if timer, ok := held[code]; ok {
					timer.Reset(keyHold)
					break
				}
				held[code] = time.AfterFunc(keyHold, func() {
					scr.PostEvent(tcell.NewEventInterrupt(keyRelease{code}))
				})
				s.loop.Post(func() { s.c.HandleKey(code, true) })
			}
		}
	}
}

// nextProgram returns the name after cur in names, wrapping around.
func nextProgram(names []string, cur string) string {
	if len(names) == 0 {
		return ""
	}
	for i, n := range names {
		if n == cur {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// drawTerm draws frame using upper half blocks, so that each text cell
// shows two vertically adjacent pixels, followed by a status line.
func drawTerm(scr tcell.Screen, frame *image.RGBA, status string) {
	scr.Clear()
	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			st := tcell.StyleDefault.
				Foreground(termColor(frame, x, y)).
				Background(termColor(frame, x, y+1))
			scr.SetContent(x, y/2, '▀', nil, st)
		}
	}
	row := chip8.Height/2 + 1
	for i, r := range []rune(status) {
		scr.SetContent(i, row, r, nil, tcell.StyleDefault)
	}
	scr.Show()
}

func termColor(frame *image.RGBA, x, y int) tcell.Color {
	c := frame.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// statusLine is a log writer that keeps the last line written.
type statusLine struct {
	mu   sync.Mutex
	last string
}

func (l *statusLine) Write(p []byte) (int, error) {
	line := bytes.TrimRight(p, "\n")
	if i := bytes.LastIndexByte(line, '\n'); i >= 0 {
		line = line[i+1:]
	}
	l.mu.Lock()
	l.last = string(line)
	l.mu.Unlock()
	return len(p), nil
}

func (l *statusLine) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
