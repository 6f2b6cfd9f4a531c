// Package host drives a virtual machine at a fixed frame cadence.
//
// A Controller owns one VM for its whole lifetime. Each call to
// StartSession resets the VM, loads a program and begins a frame loop that
// reschedules itself through a Scheduler; starting another session
// supersedes the previous loop. Every frame steps the VM a fixed number of
// times, advances its timers once, and redraws the output Surface.
//
// A Controller is not safe for concurrent use. All of its methods, and the
// frame callbacks it hands to its Scheduler, must run on one goroutine;
// Loop provides such a goroutine.
package host

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
)

// VM is the machine driven by a Controller.
type VM interface {
	// Reset restores the power-on state.
	Reset()
	// Load copies a program into memory. It is only called after Reset.
	Load(program []byte) error
	// Step executes one instruction.
	Step() error
	// TickTimers advances the machine's timers by one tick.
	TickTimers()
	// Render draws the machine's display onto dst, each logical pixel
	// as a scale×scale block.
	Render(dst draw.Image, scale int)
	// SetKey sets the state of a logical key.
	SetKey(k int, pressed bool)
}

// soundVM is implemented by machines with a sound timer.
type soundVM interface {
	SoundActive() bool
}

// Surface receives rendered frames.
type Surface interface {
	// Frame returns the image the next frame is drawn into.
	Frame() draw.Image
	// Present is called after a frame has been drawn.
	Present()
}

// Buzzer plays a tone while active.
type Buzzer interface {
	SetActive(bool)
}

// Config holds the frame cadence and presentation settings of a Controller.
type Config struct {
	// InstructionsPerFrame is the number of VM steps in each frame.
	InstructionsPerFrame int
	// FramesPerSecond is the rate at which a Loop runs frames.
	FramesPerSecond int
	// Scale is the size of each logical pixel on the Surface.
	Scale int
	// Background is the colour the Surface is cleared to before each frame.
	Background color.RGBA
	// Foreground is the colour of lit pixels, for VMs that take one.
	Foreground color.RGBA
	// Keys maps physical keys to logical VM keys.
	Keys KeyMap
	// Buzzer, if non-nil, follows the VM's sound timer.
	Buzzer Buzzer
	// OnHalt, if non-nil, is called when a session halts
	// because the VM failed to execute an instruction.
	OnHalt func(error)
}

// DefaultConfig returns the configuration used when fields are left unset.
func DefaultConfig() Config {
	return Config{
		InstructionsPerFrame: 10,
		FramesPerSecond:      60,
		Scale:                15,
		Background:           color.RGBA{0x00, 0x00, 0x00, 0xff},
		Foreground:           color.RGBA{0xff, 0xff, 0xff, 0xff},
		Keys:                 DefaultKeyMap(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InstructionsPerFrame <= 0 {
		c.InstructionsPerFrame = d.InstructionsPerFrame
	}
	if c.FramesPerSecond <= 0 {
		c.FramesPerSecond = d.FramesPerSecond
	}
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	if c.Background == (color.RGBA{}) {
		c.Background = d.Background
	}
	if c.Foreground == (color.RGBA{}) {
		c.Foreground = d.Foreground
	}
	if c.Keys == nil {
		c.Keys = d.Keys
	}
	return c
}

// State is the lifecycle state of the current session.
type State int

const (
	Idle    State = iota // no session started yet
	Loading              // resetting the VM and loading a program
	Running              // frame loop scheduled
	Halted               // session ended by a load or step failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Running:
		return "running"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrNoProgram is returned by StartSession for an empty program.
var ErrNoProgram = errors.New("no program")

// LoadError reports a session that could not start.
type LoadError struct {
	Session uint64
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("session %d: load: %v", e.Session, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// StepError reports a session halted by a failed VM step.
type StepError struct {
	Session uint64
	Frame   int // frames completed before the failing one
	Step    int // 1-based index of the failing step within its frame
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("session %d: frame %d, step %d: %v", e.Session, e.Frame, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Controller runs sessions on a VM.
type Controller struct {
	vm      VM
	sched   Scheduler
	surface Surface
	cfg     Config
	bg      *image.Uniform

	session uint64 // live session; frames queued under any other id are stale
	state   State
	err     error
	frames  int
	sound   bool
}

// New returns a Controller that drives vm, queues frames with sched,
// and draws them onto surface. Zero fields of cfg take their values from
// DefaultConfig.
func New(vm VM, sched Scheduler, surface Surface, cfg Config) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		vm:      vm,
		sched:   sched,
		surface: surface,
		cfg:     cfg,
		bg:      image.NewUniform(cfg.Background),
	}
}

// Config returns the controller's configuration with defaults applied.
func (c *Controller) Config() Config { return c.cfg }

// State returns the state of the current session.
func (c *Controller) State() State { return c.state }

// Err returns the error that halted the current session, if any.
func (c *Controller) Err() error { return c.err }

// Session returns the identifier of the current session.
// It is zero before the first call to StartSession.
func (c *Controller) Session() uint64 { return c.session }

// Frames returns the number of frames completed by the current session.
func (c *Controller) Frames() int { return c.frames }

// StartSession supersedes any running session, resets the VM, loads
// program and schedules the first frame. If the program cannot be loaded
// the session is left Halted with no frame scheduled, and the error, a
// *LoadError, is returned.
func (c *Controller) StartSession(program []byte) error {
	c.session++
	id := c.session
	c.state = Loading
	c.err = nil
	c.frames = 0
	c.setSound(false)

	c.vm.Reset()
	var err error
	if len(program) == 0 {
		err = ErrNoProgram
	} else {
		err = c.vm.Load(program)
	}
	if err != nil {
		c.state = Halted
		c.err = &LoadError{Session: id, Err: err}
		return c.err
	}

	c.state = Running
	c.sched.Next(c.frameFunc(id))
	return nil
}

func (c *Controller) frameFunc(id uint64) func() {
	return func() { c.runFrame(id) }
}

// runFrame runs one frame of session id and schedules the next.
// Frames of superseded sessions do nothing.
func (c *Controller) runFrame(id uint64) {
	if id != c.session {
		return
	}
	for i := 0; i < c.cfg.InstructionsPerFrame; i++ {
		if err := c.vm.Step(); err != nil {
			c.halt(&StepError{Session: id, Frame: c.frames, Step: i + 1, Err: err})
			return
		}
	}
	c.vm.TickTimers()
	if s, ok := c.vm.(soundVM); ok {
		c.setSound(s.SoundActive())
	}

	dst := c.surface.Frame()
	draw.Draw(dst, dst.Bounds(), c.bg, image.Point{}, draw.Src)
	c.vm.Render(dst, c.cfg.Scale)
	c.surface.Present()
	c.frames++

	if id == c.session {
		c.sched.Next(c.frameFunc(id))
	}
}

func (c *Controller) halt(err error) {
	c.state = Halted
	c.err = err
	c.setSound(false)
	if f := c.cfg.OnHalt; f != nil {
		f(err)
	}
}

func (c *Controller) setSound(on bool) {
	if c.cfg.Buzzer == nil || c.sound == on {
		return
	}
	c.sound = on
	c.cfg.Buzzer.SetActive(on)
}

// ForwardKey passes a key transition to the VM. NoKey is ignored.
func (c *Controller) ForwardKey(k Key, pressed bool) {
	if k == NoKey {
		return
	}
	c.vm.SetKey(int(k), pressed)
}

// HandleKey translates a physical key through the key map
// and forwards the transition.
func (c *Controller) HandleKey(code key.Code, pressed bool) {
	c.ForwardKey(c.cfg.Keys.Lookup(code), pressed)
}
