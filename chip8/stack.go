package chip8

import (
	"fmt"
	"strings"
)

// StackSize is the maximum depth of nested subroutine calls.
const StackSize = 16

// Stack implements the CHIP-8 return address stack.
type Stack struct {
	Addrs [StackSize]uint16
	Ptr   byte
}

// Push pushes a return address, halting with Overflow if the stack is full.
func (s *Stack) Push(addr uint16) {
	if int(s.Ptr) == StackSize {
		panic(Overflow)
	}
	s.Addrs[s.Ptr] = addr
	s.Ptr++
}

// Pop pops a return address, halting with Underflow if the stack is empty.
func (s *Stack) Pop() uint16 {
	if s.Ptr == 0 {
		panic(Underflow)
	}
	s.Ptr--
	return s.Addrs[s.Ptr]
}

func (s Stack) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, v := range s.Addrs[:s.Ptr] {
		b.WriteByte(' ')
		fmt.Fprintf(&b, "%.3x", v)
	}
	b.WriteByte(' ')
	b.WriteByte(')')
	return b.String()
}
