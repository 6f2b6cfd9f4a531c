// Command c8 runs CHIP-8 programs.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"

	"github.com/nf/c8/chip8"
	"github.com/nf/c8/host"
)

func main() {
	log.SetPrefix("c8: ")
	log.SetFlags(0)

	var (
		cliFlag   = flag.Bool("cli", false, "run in the terminal instead of a window")
		ipfFlag   = flag.Int("ipf", 10, "instructions executed per frame")
		fpsFlag   = flag.Int("fps", 60, "frames per second")
		scaleFlag = flag.Int("scale", 15, "window pixels per CHIP-8 pixel")
		romsFlag  = flag.String("roms", "", "choose programs from `dir`")
		watchFlag = flag.Bool("watch", false, "reload the running program when its file changes")
		muteFlag  = flag.Bool("mute", false, "disable sound")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.ch8>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [flags] -roms <dir> [program.ch8]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() > 1 || (flag.NArg() == 0 && *romsFlag == "") {
		flag.Usage()
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(options{
		gui:   !*cliFlag,
		ipf:   *ipfFlag,
		fps:   *fpsFlag,
		scale: *scaleFlag,
		roms:  *romsFlag,
		rom:   flag.Arg(0),
		watch: *watchFlag,
		mute:  *muteFlag,
	})

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

type options struct {
	gui             bool
	ipf, fps, scale int
	roms            string // directory of programs, may be empty
	rom             string // initial program, may be empty if roms is set
	watch           bool
	mute            bool
}

// session bundles the pieces shared by the front ends.
type session struct {
	m     *chip8.Machine
	loop  *host.Loop
	c     *host.Controller
	cv    *host.Canvas
	sel   *host.Selector
	dir   string
	names []string // programs in dir, if listing was requested
}

func run(o options) error {
	dir, name := o.roms, o.rom
	if dir == "" {
		dir, name = filepath.Split(filepath.Clean(name))
		if dir == "" {
			dir = "."
		}
	} else if name != "" {
		rel, err := filepath.Rel(dir, name)
		if err != nil {
			rel = name
		}
		name = filepath.ToSlash(rel)
	}
	src := host.NewDirSource(dir)

	var names []string
	if o.roms != "" {
		var err error
		names, err = src.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			return fmt.Errorf("no programs in %s", dir)
		}
		if name == "" && !o.gui {
			name = names[0]
		}
	}

	m := chip8.NewMachine()
	m.Trace = chip8.NewTrace(chip8.DefaultTraceLen)

	cfg := host.Config{
		InstructionsPerFrame: o.ipf,
		FramesPerSecond:      o.fps,
		Scale:                o.scale,
		OnHalt: func(err error) {
			log.Printf("halted: %v", err)
			m.Trace.Emit()
		},
	}
	if !o.gui {
		cfg.Scale = 1
	}
	if !o.mute {
		b, err := newBeeper()
		if err != nil {
			log.Printf("sound disabled: %v", err)
		} else {
			defer b.Close()
			cfg.Buzzer = b
		}
	}
	var (
		t         *term
		onPresent func()
	)
	if !o.gui {
		var err error
		if t, err = newTerm(); err != nil {
			return err
		}
		defer t.close()
		onPresent = t.frameReady
	}

	loop := host.NewLoop(o.fps)
	cv := host.NewCanvas(canvasSize(cfg.Scale), onPresent)
	s := &session{
		m:     m,
		loop:  loop,
		cv:    cv,
		dir:   dir,
		names: names,
	}
	s.c = host.New(m, loop, cv, cfg)
	m.Ink = s.c.Config().Foreground
	s.sel = &host.Selector{
		Source:     src,
		Loop:       loop,
		Controller: s.c,
		OnStart:    func(name string) { log.Printf("running %s", name) },
		OnError:    func(name string, err error) { log.Print(err) },
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go loop.Run(ctx)

	if name != "" {
		go s.sel.Select(ctx, name)
	}
	if o.watch {
		go func() {
			if err := watchPrograms(ctx, dir, s.sel); err != nil {
				log.Printf("watch: %v", err)
			}
		}()
	}

	if !o.gui {
		return t.run(ctx, stop, s)
	}
	if o.roms != "" {
		p := newPicker(ctx, s)
		go func() {
			if err := p.Run(); err != nil {
				log.Printf("picker: %v", err)
			}
			p.restoreLog()
			stop()
		}()
	}
	return runGUI(ctx, stop, s)
}

func canvasSize(scale int) image.Point {
	return image.Pt(chip8.Width*scale, chip8.Height*scale)
}
