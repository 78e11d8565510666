package ecs

import "math/bits"

// Bitset is a growable presence set indexed by entity slot id.
type Bitset struct {
	words []uint64
}

func (b *Bitset) Set(i uint32) {
	w := int(i >> 6)
	for w >= len(b.words) {
		b.words = append(b.words, 0)
	}
	b.words[w] |= 1 << (i & 63)
}

func (b *Bitset) Clear(i uint32) {
	w := int(i >> 6)
	if w < len(b.words) {
		b.words[w] &^= 1 << (i & 63)
	}
}

func (b *Bitset) Test(i uint32) bool {
	if b == nil {
		return false
	}
	w := int(i >> 6)
	return w < len(b.words) && b.words[w]&(1<<(i&63)) != 0
}

func (b *Bitset) Clone() *Bitset {
	if b == nil {
		return &Bitset{}
	}
	return &Bitset{words: append([]uint64(nil), b.words...)}
}

// And keeps only the bits also present in o.
func (b *Bitset) And(o *Bitset) {
	for i := range b.words {
		if o == nil || i >= len(o.words) {
			b.words[i] = 0
			continue
		}
		b.words[i] &= o.words[i]
	}
}

// AndNot clears every bit present in o.
func (b *Bitset) AndNot(o *Bitset) {
	if o == nil {
		return
	}
	for i := range b.words {
		if i >= len(o.words) {
			break
		}
		b.words[i] &^= o.words[i]
	}
}

func (b *Bitset) Count() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls fn for every set bit in ascending order.
func (b *Bitset) Each(fn func(i uint32)) {
	if b == nil {
		return
	}
	for wi, w := range b.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			fn(uint32(wi<<6 + tz))
			w &= w - 1
		}
	}
}
