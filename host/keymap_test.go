package host

import (
	"testing"

	"golang.org/x/mobile/event/key"
)

func TestDefaultKeyMap(t *testing.T) {
	m := DefaultKeyMap()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(m) != NumKeys {
		t.Fatalf("default map has %d entries, want %d", len(m), NumKeys)
	}
	for _, c := range []struct {
		code key.Code
		want Key
	}{
		{key.Code1, 0x1},
		{key.Code4, 0xc},
		{key.CodeQ, 0x4},
		{key.CodeR, 0xd},
		{key.CodeS, 0x8},
		{key.CodeF, 0xe},
		{key.CodeZ, 0xa},
		{key.CodeX, 0x0},
		{key.CodeV, 0xf},
		{key.CodeP, NoKey},
		{key.CodeSpacebar, NoKey},
	} {
		if got := m.Lookup(c.code); got != c.want {
			t.Errorf("Lookup(%v) = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestKeyMapValidate(t *testing.T) {
	dup := KeyMap{key.CodeA: 1, key.CodeB: 1}
	if err := dup.Validate(); err == nil {
		t.Error("duplicate logical key accepted")
	}
	bad := KeyMap{key.CodeA: 16}
	if err := bad.Validate(); err == nil {
		t.Error("out of range logical key accepted")
	}
	if err := (KeyMap{key.CodeA: 0}).Validate(); err != nil {
		t.Errorf("partial map rejected: %v", err)
	}
}

func TestRuneCode(t *testing.T) {
	for _, c := range []struct {
		r    rune
		want key.Code
		ok   bool
	}{
		{'a', key.CodeA, true},
		{'Q', key.CodeQ, true},
		{'z', key.CodeZ, true},
		{'0', key.Code0, true},
		{'1', key.Code1, true},
		{'9', key.Code9, true},
		{' ', key.CodeUnknown, false},
		{'!', key.CodeUnknown, false},
	} {
		got, ok := RuneCode(c.r)
		if got != c.want || ok != c.ok {
			t.Errorf("RuneCode(%q) = %v, %v; want %v, %v", c.r, got, ok, c.want, c.ok)
		}
	}
}

func TestKeyString(t *testing.T) {
	if got := Key(0xb).String(); got != "B" {
		t.Errorf("Key(0xb) = %q", got)
	}
	if got := NoKey.String(); got != "none" {
		t.Errorf("NoKey = %q", got)
	}
}
