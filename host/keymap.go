package host

import (
	"fmt"
	"sort"
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Key is a logical key of the VM's keypad, 0x0 to 0xf.
type Key int8

// NoKey is the result of looking up a physical key that is not mapped.
const NoKey Key = -1

// NumKeys is the number of logical keys.
const NumKeys = 16

func (k Key) String() string {
	if k < 0 || k >= NumKeys {
		return "none"
	}
	return fmt.Sprintf("%X", int8(k))
}

// KeyMap maps physical keys to logical keys.
type KeyMap map[key.Code]Key

// DefaultKeyMap returns the conventional layout, which puts the 4×4
// keypad on the left-hand block of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
func DefaultKeyMap() KeyMap {
	return KeyMap{
		key.Code1: 0x1, key.Code2: 0x2, key.Code3: 0x3, key.Code4: 0xc,
		key.CodeQ: 0x4, key.CodeW: 0x5, key.CodeE: 0x6, key.CodeR: 0xd,
		key.CodeA: 0x7, key.CodeS: 0x8, key.CodeD: 0x9, key.CodeF: 0xe,
		key.CodeZ: 0xa, key.CodeX: 0x0, key.CodeC: 0xb, key.CodeV: 0xf,
	}
}

// Lookup returns the logical key for code, or NoKey.
func (m KeyMap) Lookup(code key.Code) Key {
	if k, ok := m[code]; ok {
		return k
	}
	return NoKey
}

// Validate reports an error if the map contains a logical key out of range
// or maps two physical keys to the same logical key.
func (m KeyMap) Validate() error {
	codes := make([]key.Code, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	seen := map[Key]key.Code{}
	for _, c := range codes {
		k := m[c]
		if k < 0 || k >= NumKeys {
			return fmt.Errorf("key map: %v mapped to out of range key %d", c, k)
		}
		if prev, ok := seen[k]; ok {
			return fmt.Errorf("key map: %v and %v both mapped to key %v", prev, c, k)
		}
		seen[k] = c
	}
	return nil
}

// RuneCode returns the physical key that types r on a US layout,
// for front ends that receive characters rather than key codes.
// Only letters and digits are recognised.
func RuneCode(r rune) (key.Code, bool) {
	r = unicode.ToLower(r)
	switch {
	case r >= 'a' && r <= 'z':
		return key.CodeA + key.Code(r-'a'), true
	case r == '0':
		return key.Code0, true
	case r >= '1' && r <= '9':
		return key.Code1 + key.Code(r-'1'), true
	}
	return key.CodeUnknown, false
}
