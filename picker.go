package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// picker is a terminal view listing the programs in a directory.
// Choosing one starts it; log output is shown alongside.
type picker struct {
	ctx context.Context
	s   *session

	list  *tview.List
	log   *tview.TextView
	state *tview.TextView
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	prevLog io.Writer
}

func newPicker(ctx context.Context, s *session) *picker {
	p := &picker{
		ctx: ctx,
		s:   s,
		list: tview.NewList().
			ShowSecondaryText(false),
		log: tview.NewTextView().
			SetMaxLines(1000),
		state: tview.NewTextView().
			SetWrap(false),
		cols: tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	p.log.SetChangedFunc(func() { p.app.Draw() })
	p.list.SetBackgroundColor(tcell.ColorDarkBlue)
	p.state.SetBackgroundColor(tcell.ColorDarkGrey)
	p.cols.
		AddItem(p.list, 0, 1, true).
		AddItem(p.log, 0, 2, false)
	p.rows.
		AddItem(p.cols, 0, 1, true).
		AddItem(p.state, 1, 0, false)
	p.app.SetRoot(p.rows, true)

	for _, name := range s.names {
		name := name
		p.list.AddItem(name, "", 0, func() { go s.sel.Select(ctx, name) })
	}
	p.list.AddItem("quit", "", 'q', p.app.Stop)

	p.prevLog = log.Writer()
	log.SetPrefix("")
	log.SetOutput(p.log)
	return p
}

// Run runs the picker until it is quit or ctx is done.
func (p *picker) Run() error {
	go p.poll()
	return p.app.Run()
}

func (p *picker) restoreLog() {
	if p.prevLog == nil {
		p.prevLog = os.Stderr
	}
	log.SetOutput(p.prevLog)
	log.SetPrefix("c8: ")
}

// poll refreshes the state line with the controller's view of the session.
func (p *picker) poll() {
	type status struct {
		text  string
		color tcell.Color
	}
	t := time.NewTicker(250 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-t.C:
		case <-p.ctx.Done():
			p.app.Stop()
			return
		}
		ch := make(chan status, 1)
		ok := p.s.loop.Post(func() {
			c := p.s.c
			st := status{
				text: fmt.Sprintf("%-20s %-8v session %d, frame %d",
					p.s.sel.Current(), c.State(), c.Session(), c.Frames()),
				color: tcell.ColorDarkGrey,
			}
			if c.Err() != nil {
				st.color = tcell.ColorDarkRed
			}
			ch <- st
		})
		if !ok {
			return
		}
		var st status
		select {
		case st = <-ch:
		case <-p.ctx.Done():
			return
		}
		p.app.QueueUpdateDraw(func() {
			p.state.SetText(st.text)
			p.state.SetBackgroundColor(st.color)
		})
	}
}
