package main

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	beepSampleRate = 44100
	beepFreq       = 440
	beepAmplitude  = 0x1800
)

// beeper plays a square wave while the sound timer runs.
type beeper struct {
	player *oto.Player
	tone   *squareWave
}

func newBeeper() (*beeper, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   beepSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	b := &beeper{tone: &squareWave{period: beepSampleRate / beepFreq}}
	b.player = ctx.NewPlayer(b.tone)
	b.player.Play()
	return b, nil
}

// SetActive turns the tone on or off. It is safe to call from any goroutine.
func (b *beeper) SetActive(on bool) { b.tone.on.Store(on) }

func (b *beeper) Close() { b.player.Pause() }

// squareWave is an endless stream of 16-bit mono samples,
// silent unless on is set.
type squareWave struct {
	on     atomic.Bool
	period int // in samples
	phase  int
}

func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	on := w.on.Load()
	for i := 0; i < n; i += 2 {
		var s int16
		if on {
			s = beepAmplitude
			if w.phase >= w.period/2 {
				s = -beepAmplitude
			}
		}
		w.phase = (w.phase + 1) % w.period
		binary.LittleEndian.PutUint16(p[i:], uint16(s))
	}
	return n, nil
}
