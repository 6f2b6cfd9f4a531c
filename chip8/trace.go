package chip8

import (
	"fmt"
	"log"
)

// Trace is a ring buffer of the most recently executed instructions.
type Trace struct {
	entries []traceEntry
	n       int
}

type traceEntry struct {
	addr uint16
	op   Op
}

// DefaultTraceLen is the trace length used by NewTrace when n <= 0.
const DefaultTraceLen = 32

// NewTrace returns a Trace that keeps the last n instructions.
func NewTrace(n int) *Trace {
	if n <= 0 {
		n = DefaultTraceLen
	}
	return &Trace{entries: make([]traceEntry, 0, n)}
}

func (t *Trace) add(addr uint16, op Op) {
	if len(t.entries) < cap(t.entries) {
		t.entries = append(t.entries, traceEntry{addr, op})
	} else {
		t.entries[t.n] = traceEntry{addr, op}
	}
	t.n = (t.n + 1) % cap(t.entries)
}

// Lines returns the recorded instructions, oldest first,
// formatted as "addr: disassembly".
func (t *Trace) Lines() []string {
	var (
		lines = make([]string, 0, len(t.entries))
		start = 0
	)
	if len(t.entries) == cap(t.entries) {
		start = t.n
	}
	for i := 0; i < len(t.entries); i++ {
		e := t.entries[(start+i)%len(t.entries)]
		lines = append(lines, fmtTraceEntry(e))
	}
	return lines
}

// Emit writes the recorded instructions to the standard logger.
func (t *Trace) Emit() {
	for _, l := range t.Lines() {
		log.Print(l)
	}
}

// Reset discards all recorded instructions.
func (t *Trace) Reset() {
	t.entries = t.entries[:0]
	t.n = 0
}

func fmtTraceEntry(e traceEntry) string {
	return fmt.Sprintf("%.3x: %s", e.addr, e.op)
}
