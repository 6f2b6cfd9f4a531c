package chip8

import (
	"reflect"
	"testing"
)

func TestTrace(t *testing.T) {
	m := NewMachine()
	m.Trace = NewTrace(3)
	// LD V0, 01; ADD V0, 01; JP 202
	if err := m.Load([]byte{0x60, 0x01, 0x70, 0x01, 0x12, 0x02}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{
		"204: JP 202",
		"202: ADD V0, 01",
		"204: JP 202",
	}
	if g := m.Trace.Lines(); !reflect.DeepEqual(g, want) {
		t.Errorf("trace is\n\t%q\nwant\n\t%q", g, want)
	}
	if g, w := m.V[0], byte(3); g != w {
		t.Errorf("V0 is %d, want %d", g, w)
	}
}
