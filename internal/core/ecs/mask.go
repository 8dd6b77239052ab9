package ecs

import (
	"math/bits"
	"strings"
)

// MaskBits is the width of a Mask. Options.MaxComponents may lower the
// number of component ids a World hands out, never raise it.
const MaskBits = 256

// Mask records which component types an entity has, one bit per
// ComponentID. It is a fixed-width value type so it can key a map directly.
//
// Do not persist a Mask: which bit represents a type depends on the order in
// which a World first saw its component types.
type Mask [MaskBits / 64]uint64

func (m *Mask) Set(id ComponentID) {
	m[id>>6] |= 1 << (id & 63)
}

func (m *Mask) Clear(id ComponentID) {
	m[id>>6] &^= 1 << (id & 63)
}

func (m Mask) Has(id ComponentID) bool {
	return m[id>>6]&(1<<(id&63)) != 0
}

// Contains reports whether every bit of sub is also set in m.
func (m Mask) Contains(sub Mask) bool {
	return m[0]&sub[0] == sub[0] &&
		m[1]&sub[1] == sub[1] &&
		m[2]&sub[2] == sub[2] &&
		m[3]&sub[3] == sub[3]
}

func (m Mask) Or(other Mask) Mask {
	return Mask{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

func (m Mask) IsZero() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

func (m Mask) Count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// ForEach calls fn for every set bit in ascending order.
func (m Mask) ForEach(fn func(id ComponentID)) {
	for wordIdx, word := range m {
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			fn(ComponentID(wordIdx*64 + bit))
			word &= word - 1
		}
	}
}

// MaskOf builds a mask from component ids.
func MaskOf(ids ...ComponentID) Mask {
	var m Mask
	for _, id := range ids {
		m.Set(id)
	}
	return m
}

// String renders the mask as a bit string, lowest id first, trimmed after
// the highest set bit.
func (m Mask) String() string {
	top := -1
	m.ForEach(func(id ComponentID) { top = int(id) })
	if top < 0 {
		return "0"
	}
	var b strings.Builder
	b.Grow(top + 1)
	for i := 0; i <= top; i++ {
		if m.Has(ComponentID(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
