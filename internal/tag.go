package internal

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Tag is the 8-byte encoded reference to any value. A Tag is either a fixnum,
// a direct (immediate) value, or an indirect reference to an object on the
// heap. Two Tags are the same value iff their encodings are equal.
//
// The low three bits select the storage class:
//
//	x00  fixnum, the remaining 62 bits are a signed integer
//	010  indirect symbol
//	011  indirect function
//	101  indirect cons
//	110  direct: 2-bit direct type, 3-bit length, 56-bit payload
//	111  indirect heap object, classified by its header
//
// Pattern 001 is reserved and never produced.
type Tag uint64

// TagType is the storage class in the low bits of a Tag.
type TagType uint8

// Storage classes. The two fixnum patterns give fixnums 62 bits.
const (
	TagEvenFixnum TagType = iota
	TagReserved
	TagSymbol
	TagFunction
	TagOddFixnum
	TagCons
	TagDirect
	TagHeap
)

// DirectType is the subtype of a direct Tag.
type DirectType uint8

// Direct subtypes.
const (
	DirectChar DirectType = iota
	DirectString
	DirectKeyword
	DirectFloat
)

const (
	tagBits         = 3
	tagMask         = 1<<tagBits - 1
	directTypeShift = 3
	directLenShift  = 5
	directDataShift = 8

	// DirectMax is the longest byte string or keyword name that fits in a
	// direct Tag.
	DirectMax = 7

	// FixnumMax and FixnumMin bound the integers representable as fixnums.
	FixnumMax = 1<<61 - 1
	FixnumMin = -1 << 61
)

// Distinguished direct values. Nil is the keyword encoding of "nil" and is
// recognized before any other classification.
const (
	Nil     Tag = Tag('n')<<8 | Tag('i')<<16 | Tag('l')<<24 | 3<<directLenShift | Tag(DirectKeyword)<<directTypeShift | Tag(TagDirect)
	T       Tag = Tag('t')<<8 | 1<<directLenShift | Tag(DirectKeyword)<<directTypeShift | Tag(TagDirect)
	Unbound Tag = Tag(DirectKeyword)<<directTypeShift | Tag(TagDirect)
)

// Fixnum encodes an integer. Bits above the 62 representable bits are lost;
// use FixnumOK to check first.
func Fixnum(n int64) Tag {
	return Tag(uint64(n) << 2)
}

// FixnumOK reports whether n is representable as a fixnum.
func FixnumOK(n int64) bool {
	return n >= FixnumMin && n <= FixnumMax
}

// Char encodes a character.
func Char(r rune) Tag {
	return Direct(uint64(uint32(r)), 1, DirectChar)
}

// Float encodes a 32-bit float.
func Float(f float32) Tag {
	return Direct(uint64(math.Float32bits(f)), 0, DirectFloat)
}

// Direct builds a direct Tag from its payload, length, and subtype.
func Direct(data uint64, length int, dtype DirectType) Tag {
	return Tag(data<<directDataShift |
		uint64(length&7)<<directLenShift |
		uint64(dtype&3)<<directTypeShift |
		uint64(TagDirect))
}

// DirectBytes encodes up to DirectMax bytes as a direct value of the given
// subtype. It returns false if b is too long.
func DirectBytes(b []byte, dtype DirectType) (Tag, bool) {
	if len(b) > DirectMax {
		return 0, false
	}
	var buf [8]byte
	copy(buf[:], b)
	return Direct(binary.LittleEndian.Uint64(buf[:]), len(b), dtype), true
}

// Keyword returns the keyword with the given name, which must not include the
// leading colon. Panics if the name is empty or longer than DirectMax bytes.
func Keyword(name string) Tag {
	if len(name) == 0 {
		panic("mu: internal: empty keyword name")
	}
	t, ok := DirectBytes([]byte(name), DirectKeyword)
	if !ok {
		panic(fmt.Sprintf("mu: internal: keyword name %q too long", name))
	}
	return t
}

// Indirect builds a reference to the heap object at offset. tt must be one of
// TagSymbol, TagFunction, TagCons, or TagHeap.
func Indirect(offset uint64, tt TagType) Tag {
	return Tag(offset<<tagBits | uint64(tt))
}

// Type returns the storage class of t.
func (t Tag) Type() TagType {
	return TagType(t & tagMask)
}

// IsNil reports whether t is nil.
func (t Tag) IsNil() bool {
	return t == Nil
}

// Eq reports whether t and u are the same value.
func (t Tag) Eq(u Tag) bool {
	return t == u
}

// IsFixnum reports whether t is a fixnum.
func (t Tag) IsFixnum() bool {
	return t&3 == 0
}

// IsDirect reports whether t is a direct value.
func (t Tag) IsDirect() bool {
	return t.Type() == TagDirect
}

// IsIndirect reports whether t refers to a heap object.
func (t Tag) IsIndirect() bool {
	switch t.Type() {
	case TagSymbol, TagFunction, TagCons, TagHeap:
		return true
	}
	return false
}

// Int returns the integer value of a fixnum.
func (t Tag) Int() int64 {
	return int64(t) >> 2
}

// DirectType returns the subtype of a direct Tag.
func (t Tag) DirectType() DirectType {
	return DirectType(t>>directTypeShift) & 3
}

// DirectLen returns the length field of a direct Tag.
func (t Tag) DirectLen() int {
	return int(t>>directLenShift) & 7
}

// DirectData returns the 56-bit payload of a direct Tag.
func (t Tag) DirectData() uint64 {
	return uint64(t) >> directDataShift
}

// Bytes returns the payload bytes of a direct string or keyword.
func (t Tag) Bytes() []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], t.DirectData())
	return buf[:t.DirectLen()]
}

// Rune returns the character of a direct char.
func (t Tag) Rune() rune {
	return rune(uint32(t.DirectData()))
}

// Float32 returns the value of a direct float.
func (t Tag) Float32() float32 {
	return math.Float32frombits(uint32(t.DirectData()))
}

// Offset returns the heap offset of an indirect Tag.
func (t Tag) Offset() uint64 {
	return uint64(t) >> tagBits
}

// Image returns the little-endian byte encoding of t.
func (t Tag) Image() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(t))
	return b
}

// TagFromImage decodes a little-endian byte encoding. Panics if b is shorter
// than 8 bytes.
func TagFromImage(b []byte) Tag {
	return Tag(binary.LittleEndian.Uint64(b[:8]))
}

// String returns a diagnostic description of the encoding.
func (t Tag) String() string {
	switch {
	case t.IsFixnum():
		return fmt.Sprintf("%x: is a fixnum %d", uint64(t), t.Int())
	case t.IsDirect():
		return fmt.Sprintf("%x: is a direct: type %d", uint64(t), t.DirectType())
	default:
		return fmt.Sprintf("%x: is an indirect: type %d", uint64(t), t.Type())
	}
}
