// Package tags decodes window manager tag state. A tag is one bit of a
// 32-bit mask: tag n is the value 1<<n.
package tags

import (
	"encoding/binary"
	"math/bits"
)

// Count is the number of tags a mask can carry.
const Count = 32

// All has every tag set. Sticky windows report it.
const All Mask = 0xffff_ffff

type Mask uint32

// Tag returns the mask for tag n, or 0 when n is out of range.
func Tag(n int) Mask {
	if n < 0 || n >= Count {
		return 0
	}
	return 1 << uint(n)
}

// Has reports whether tag n is set.
func (m Mask) Has(n int) bool {
	if n < 0 || n >= Count {
		return false
	}
	return (m>>uint(n))&1 != 0
}

// Indices returns every set tag, lowest first.
func (m Mask) Indices() []int {
	indices := make([]int, 0, bits.OnesCount32(uint32(m)))
	for n := 0; n < Count; n++ {
		if m.Has(n) {
			indices = append(indices, n)
		}
	}
	return indices
}

// ResolveFocused returns the primary focused tag of a mask: the first tag
// a scan from bit 0 upward reaches. A multi-tag mask resolves to its lowest
// tag. It returns false for an empty mask.
func ResolveFocused(m Mask) (int, bool) {
	for n := 0; n < Count; n++ {
		if m.Has(n) {
			return n, true
		}
	}
	return 0, false
}

// DecodeViewTags splits b into little-endian 4-byte groups, one mask per
// view, in arrival order. A trailing partial group is dropped and its
// length returned as dropped.
func DecodeViewTags(b []byte) (views []Mask, dropped int) {
	views = make([]Mask, 0, len(b)/4)
	for len(b) >= 4 {
		views = append(views, Mask(binary.LittleEndian.Uint32(b[:4])))
		b = b[4:]
	}
	return views, len(b)
}

// EncodeViewTags is the inverse of DecodeViewTags.
func EncodeViewTags(views []Mask) []byte {
	b := make([]byte, 0, len(views)*4)
	for _, v := range views {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}
