package chip8

import (
	"fmt"
	"strings"
)

// Op represents a CHIP-8 instruction word.
type Op uint16

// X returns the register index in the second nibble.
func (o Op) X() byte { return byte(o>>8) & 0xf }

// Y returns the register index in the third nibble.
func (o Op) Y() byte { return byte(o>>4) & 0xf }

// N returns the lowest nibble.
func (o Op) N() byte { return byte(o) & 0xf }

// NN returns the low byte.
func (o Op) NN() byte { return byte(o) }

// NNN returns the low 12 bits, an address.
func (o Op) NNN() uint16 { return uint16(o) & 0x0fff }

// Base returns the instruction with its operands cleared, which is one of
// the constants below. Unrecognised instructions return Invalid.
func (o Op) Base() Op {
	var b Op
	switch o >> 12 {
	case 0x0:
		b = o
	case 0x5, 0x8, 0x9:
		b = o & 0xf00f
	case 0xe, 0xf:
		b = o & 0xf0ff
	default:
		b = o & 0xf000
	}
	if _, ok := opNames[b]; !ok {
		return Invalid
	}
	return b
}

const (
	NOP   Op = 0x0000
	CLS   Op = 0x00e0
	RET   Op = 0x00ee
	JP    Op = 0x1000
	CALL  Op = 0x2000
	SEI   Op = 0x3000
	SNEI  Op = 0x4000
	SE    Op = 0x5000
	LDI   Op = 0x6000
	ADDI  Op = 0x7000
	LD    Op = 0x8000
	OR    Op = 0x8001
	AND   Op = 0x8002
	XOR   Op = 0x8003
	ADD   Op = 0x8004
	SUB   Op = 0x8005
	SHR   Op = 0x8006
	SUBN  Op = 0x8007
	SHL   Op = 0x800e
	SNE   Op = 0x9000
	LDA   Op = 0xa000
	JPV0  Op = 0xb000
	RND   Op = 0xc000
	DRW   Op = 0xd000
	SKP   Op = 0xe09e
	SKNP  Op = 0xe0a1
	LDDT  Op = 0xf007
	LDK   Op = 0xf00a
	SETDT Op = 0xf015
	SETST Op = 0xf018
	ADDA  Op = 0xf01e
	FONT  Op = 0xf029
	BCD   Op = 0xf033
	STORE Op = 0xf055
	LOAD  Op = 0xf065

	Invalid Op = 0xffff
)

// opNames holds the disassembly pattern of each instruction. The pattern
// arguments are X, Y, N, NN and NNN, in that order.
var opNames = map[Op]string{
	NOP:   "NOP",
	CLS:   "CLS",
	RET:   "RET",
	JP:    "JP %.3[5]x",
	CALL:  "CALL %.3[5]x",
	SEI:   "SE V%[1]X, %.2[4]x",
	SNEI:  "SNE V%[1]X, %.2[4]x",
	SE:    "SE V%[1]X, V%[2]X",
	LDI:   "LD V%[1]X, %.2[4]x",
	ADDI:  "ADD V%[1]X, %.2[4]x",
	LD:    "LD V%[1]X, V%[2]X",
	OR:    "OR V%[1]X, V%[2]X",
	AND:   "AND V%[1]X, V%[2]X",
	XOR:   "XOR V%[1]X, V%[2]X",
	ADD:   "ADD V%[1]X, V%[2]X",
	SUB:   "SUB V%[1]X, V%[2]X",
	SHR:   "SHR V%[1]X",
	SUBN:  "SUBN V%[1]X, V%[2]X",
	SHL:   "SHL V%[1]X",
	SNE:   "SNE V%[1]X, V%[2]X",
	LDA:   "LD I, %.3[5]x",
	JPV0:  "JP V0, %.3[5]x",
	RND:   "RND V%[1]X, %.2[4]x",
	DRW:   "DRW V%[1]X, V%[2]X, %[3]X",
	SKP:   "SKP V%[1]X",
	SKNP:  "SKNP V%[1]X",
	LDDT:  "LD V%[1]X, DT",
	LDK:   "LD V%[1]X, K",
	SETDT: "LD DT, V%[1]X",
	SETST: "LD ST, V%[1]X",
	ADDA:  "ADD I, V%[1]X",
	FONT:  "LD F, V%[1]X",
	BCD:   "LD B, V%[1]X",
	STORE: "LD [I], V%[1]X",
	LOAD:  "LD V%[1]X, [I]",
}

// String returns the disassembled form of the instruction.
func (o Op) String() string {
	b := o.Base()
	if b == Invalid {
		return fmt.Sprintf("??? %.4x", uint16(o))
	}
	p := opNames[b]
	if !strings.ContainsRune(p, '%') {
		return p
	}
	return fmt.Sprintf(p, o.X(), o.Y(), o.N(), o.NN(), o.NNN())
}
