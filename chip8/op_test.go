package chip8

import "testing"

func TestOpBase(t *testing.T) {
	for i := 0; i <= 0xffff; i++ {
		o := Op(i)
		b := o.Base()
		if b == Invalid {
			continue
		}
		if _, ok := opNames[b]; !ok {
			t.Fatalf("Base(%.4x) returned %.4x, which has no name", i, uint16(b))
		}
		if bb := b.Base(); bb != b {
			t.Errorf("Base(%.4x) is %.4x, but Base(%.4x) is %.4x", i, uint16(b), uint16(b), uint16(bb))
		}
	}
	for _, o := range []Op{0x0123, 0x5121, 0x8008, 0x800d, 0x9001, 0xe000, 0xf000, 0xffff} {
		if b := o.Base(); b != Invalid {
			t.Errorf("Base(%.4x) returned %v, want Invalid", uint16(o), b)
		}
	}
}

func TestOpString(t *testing.T) {
	for _, c := range []struct {
		op   Op
		want string
	}{
		{0x00e0, "CLS"},
		{0x00ee, "RET"},
		{0x1234, "JP 234"},
		{0x2fff, "CALL fff"},
		{0x3a42, "SE VA, 42"},
		{0x5120, "SE V1, V2"},
		{0x7c01, "ADD VC, 01"},
		{0x8ab4, "ADD VA, VB"},
		{0x8306, "SHR V3"},
		{0xa050, "LD I, 050"},
		{0xb200, "JP V0, 200"},
		{0xd12f, "DRW V1, V2, F"},
		{0xe59e, "SKP V5"},
		{0xf40a, "LD V4, K"},
		{0xf833, "LD B, V8"},
		{0xf065, "LD V0, [I]"},
		{0x5121, "??? 5121"},
	} {
		if g := c.op.String(); g != c.want {
			t.Errorf("Op(%.4x).String() returned %q, want %q", uint16(c.op), g, c.want)
		}
	}
}
