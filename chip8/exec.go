// Package chip8 provides an implementation of a CHIP-8 virtual machine,
// called Machine, that can be used to execute CHIP-8 programs.
package chip8

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
)

const (
	MemSize    = 0x1000
	StartAddr  = 0x200 // programs are loaded here; below is reserved
	MaxProgram = MemSize - StartAddr
	NumKeys    = 16
)

var (
	ErrEmptyProgram    = errors.New("empty program")
	ErrProgramTooLarge = fmt.Errorf("program larger than %d bytes", MaxProgram)
)

// Machine is an implementation of a CHIP-8 CPU and its display,
// timers, and keypad.
type Machine struct {
	Mem     [MemSize]byte
	V       [16]byte
	I       uint16
	PC      uint16
	Stack   Stack
	DT, ST  byte
	Keys    [NumKeys]bool
	Display Display

	// Ink is the colour in which lit pixels are rendered.
	Ink color.RGBA

	// Rand supplies the random bytes used by CXNN.
	Rand func() byte

	// Trace, if non-nil, records recently executed instructions.
	Trace *Trace

	frame *frameImage
}

// NewMachine returns a Machine in its power-on state.
func NewMachine() *Machine {
	m := &Machine{
		Ink:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		Rand: func() byte { return byte(rand.Intn(0x100)) },
	}
	m.Reset()
	return m
}

// Reset restores the power-on state: memory, registers, stack, timers,
// keys and display are cleared and the font is copied into low memory.
func (m *Machine) Reset() {
	m.Mem = [MemSize]byte{}
	copy(m.Mem[:], font[:])
	m.V = [16]byte{}
	m.I = 0
	m.PC = StartAddr
	m.Stack = Stack{}
	m.DT, m.ST = 0, 0
	m.Keys = [NumKeys]bool{}
	m.Display.Clear()
	if m.Trace != nil {
		m.Trace.Reset()
	}
}

// Load copies the program into memory at StartAddr.
// Load does not reset the machine; call Reset first.
func (m *Machine) Load(program []byte) error {
	switch {
	case len(program) == 0:
		return ErrEmptyProgram
	case len(program) > MaxProgram:
		return fmt.Errorf("%w (got %d)", ErrProgramTooLarge, len(program))
	}
	copy(m.Mem[StartAddr:], program)
	return nil
}

// TickTimers decrements the delay and sound timers, stopping at zero.
func (m *Machine) TickTimers() {
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}
}

// SoundActive reports whether the sound timer is running.
func (m *Machine) SoundActive() bool { return m.ST > 0 }

// SetKey sets the state of key k. Keys outside 0x0-0xf are ignored.
func (m *Machine) SetKey(k int, pressed bool) {
	if k < 0 || k >= NumKeys {
		return
	}
	m.Keys[k] = pressed
}

// Step executes the instruction at m.PC. It only returns a non-nil error,
// always a HaltError, if it encounters a halt condition. The machine state
// is left as it was when the condition was detected.
func (m *Machine) Step() (err error) {
	opPC := m.PC
	if int(opPC) > MemSize-2 {
		return HaltError{HaltCode: BadAddress, Addr: opPC}
	}
	op := Op(short(m.Mem[opPC], m.Mem[opPC+1]))
	defer func() {
		if e := recover(); e != nil {
			if code, ok := e.(HaltCode); ok {
				err = HaltError{
					HaltCode: code,
					Op:       op,
					Addr:     opPC,
				}
			} else {
				panic(e)
			}
		}
	}()

	if m.Trace != nil {
		m.Trace.add(opPC, op)
	}
	m.PC += 2

	var (
		x, y = op.X(), op.Y()
		vx   = m.V[x]
		vy   = m.V[y]
	)
	switch op.Base() {
	case NOP:
	case CLS:
		m.Display.Clear()
	case RET:
		m.PC = m.Stack.Pop()
	case JP:
		m.PC = op.NNN()
	case CALL:
		m.Stack.Push(m.PC)
		m.PC = op.NNN()
	case SEI:
		if vx == op.NN() {
			m.PC += 2
		}
	case SNEI:
		if vx != op.NN() {
			m.PC += 2
		}
	case SE:
		if vx == vy {
			m.PC += 2
		}
	case LDI:
		m.V[x] = op.NN()
	case ADDI:
		m.V[x] += op.NN()
	case LD:
		m.V[x] = vy
	case OR:
		m.V[x] = vx | vy
	case AND:
		m.V[x] = vx & vy
	case XOR:
		m.V[x] = vx ^ vy
	case ADD:
		sum := uint16(vx) + uint16(vy)
		m.V[x] = byte(sum)
		m.V[0xf] = boolByte(sum > 0xff)
	case SUB:
		m.V[x] = vx - vy
		m.V[0xf] = boolByte(vx >= vy)
	case SHR:
		m.V[x] = vx >> 1
		m.V[0xf] = vx & 0x1
	case SUBN:
		m.V[x] = vy - vx
		m.V[0xf] = boolByte(vy >= vx)
	case SHL:
		m.V[x] = vx << 1
		m.V[0xf] = vx >> 7
	case SNE:
		if vx != vy {
			m.PC += 2
		}
	case LDA:
		m.I = op.NNN()
	case JPV0:
		m.PC = uint16(m.V[0]) + op.NNN()
	case RND:
		m.V[x] = m.Rand() & op.NN()
	case DRW:
		sprite := m.mem(m.I, int(op.N()))
		m.V[0xf] = boolByte(m.Display.DrawSprite(int(vx), int(vy), sprite))
	case SKP:
		if m.Keys[vx&0xf] {
			m.PC += 2
		}
	case SKNP:
		if !m.Keys[vx&0xf] {
			m.PC += 2
		}
	case LDDT:
		m.V[x] = m.DT
	case LDK:
		// Repeat this instruction until a key is down.
		m.PC -= 2
		for k, down := range m.Keys {
			if down {
				m.V[x] = byte(k)
				m.PC += 2
				break
			}
		}
	case SETDT:
		m.DT = vx
	case SETST:
		m.ST = vx
	case ADDA:
		m.I += uint16(vx)
	case FONT:
		m.I = uint16(vx&0xf) * fontGlyphSize
	case BCD:
		b := m.mem(m.I, 3)
		b[0] = vx / 100
		b[1] = vx / 10 % 10
		b[2] = vx % 10
	case STORE:
		copy(m.mem(m.I, int(x)+1), m.V[:x+1])
	case LOAD:
		copy(m.V[:x+1], m.mem(m.I, int(x)+1))
	default:
		panic(InvalidOp)
	}
	return nil
}

// mem returns the n bytes of memory starting at addr,
// halting with BadAddress if they extend past the end of memory.
func (m *Machine) mem(addr uint16, n int) []byte {
	if int(addr)+n > MemSize {
		panic(BadAddress)
	}
	return m.Mem[addr : int(addr)+n]
}

// HaltError is returned by Step if execution cannot continue.
type HaltError struct {
	HaltCode
	Op   Op
	Addr uint16
}

func (e HaltError) Error() string {
	return fmt.Sprintf("%s executing %s at %.3x", e.HaltCode, e.Op, e.Addr)
}

// HaltCode signifies the type of condition that halted execution.
type HaltCode byte

const (
	InvalidOp HaltCode = iota + 1
	Underflow
	Overflow
	BadAddress
)

func (c HaltCode) String() string {
	if s, ok := map[HaltCode]string{
		InvalidOp:  "invalid instruction",
		Underflow:  "stack underflow",
		Overflow:   "stack overflow",
		BadAddress: "address out of range",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}

func short(hi, lo byte) uint16 {
	return uint16(hi)<<8 + uint16(lo)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
