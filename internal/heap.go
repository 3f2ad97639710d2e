package internal

import (
	"encoding/binary"
	"fmt"
)

// Heap is a bump-allocated arena of 8-byte aligned objects. Each object is an
// 8-byte header followed by its fields. Offset 0 never refers to an object.
type Heap struct {
	data     []byte
	release  func() error
	pageSize int
	pages    int
	// wp is the write pointer, the offset of the next header.
	wp    int
	stats [256]AllocStats

	// HighWater, if not nil, is called once when allocation first takes the
	// heap past 90% of its capacity.
	HighWater func(used, size int)
	warned    bool
}

// AllocStats counts allocations of one heap type.
type AllocStats struct {
	// Count is the number of objects allocated.
	Count int
	// InUse is the number of objects not marked free.
	InUse int
	// Free is the number of objects marked free. The heap never reclaims
	// memory and nothing sets the mark bit, so Free is always zero.
	Free int
	// Bytes is the total size of the objects, including headers.
	Bytes int
}

// Info is a decoded heap object header.
//
//	bits  0-15  relocation
//	bit   16    mark
//	bits 24-55  object length in bytes, header included
//	bits 56-63  type
type Info uint64

func makeInfo(reloc uint16, mark bool, length int, typ Class) Info {
	var m uint64
	if mark {
		m = 1
	}
	return Info(uint64(reloc) | m<<16 | uint64(uint32(length))<<24 | uint64(typ)<<56)
}

// Reloc returns the relocation field.
func (i Info) Reloc() uint16 { return uint16(i) }

// Mark returns the mark bit.
func (i Info) Mark() bool { return i>>16&1 != 0 }

// Len returns the object length in bytes, header included.
func (i Info) Len() int { return int(uint32(i >> 24)) }

// Type returns the object's heap type.
func (i Info) Type() Class { return Class(i >> 56) }

// NewHeap creates a heap of the given number of pages.
func NewHeap(pages, pageSize int) (*Heap, error) {
	if pages <= 0 || pageSize <= 0 || pageSize%8 != 0 {
		return nil, fmt.Errorf("invalid heap geometry %d pages of %d bytes", pages, pageSize)
	}
	data, release, err := mapHeap(pages * pageSize)
	if err != nil {
		return nil, fmt.Errorf("couldn't map heap: %w", err)
	}
	return &Heap{data: data, release: release, pageSize: pageSize, pages: pages}, nil
}

// Close releases the heap's memory. The heap must not be used afterward.
func (h *Heap) Close() error {
	if h.release == nil {
		return nil
	}
	err := h.release()
	h.data, h.release = nil, nil
	return err
}

// Size returns the capacity of the heap in bytes.
func (h *Heap) Size() int { return len(h.data) }

// PageSize returns the size of one heap page.
func (h *Heap) PageSize() int { return h.pageSize }

// Pages returns the number of heap pages.
func (h *Heap) Pages() int { return h.pages }

// Used returns the number of bytes allocated.
func (h *Heap) Used() int { return h.wp }

// Stats returns allocation statistics for a heap type.
func (h *Heap) Stats(typ Class) AllocStats { return h.stats[typ] }

// Alloc appends an object holding fields and returns the offset of its first
// field. Panics if the heap is exhausted.
func (h *Heap) Alloc(fields []Tag, typ Class) uint64 {
	return h.Valloc(fields, nil, typ)
}

// Valloc appends an object holding fields followed by blob, padded to eight
// bytes, and returns the offset of its first field. Panics if the heap is
// exhausted.
func (h *Heap) Valloc(fields []Tag, blob []byte, typ Class) uint64 {
	n := 8 + 8*len(fields) + (len(blob)+7)&^7
	if h.wp+n > len(h.data) {
		panic(fmt.Sprintf("mu: internal: heap exhausted allocating %d bytes (%d of %d used)", n, h.wp, len(h.data)))
	}
	binary.LittleEndian.PutUint64(h.data[h.wp:], uint64(makeInfo(0, false, n, typ)))
	off := h.wp + 8
	for i, f := range fields {
		binary.LittleEndian.PutUint64(h.data[off+8*i:], uint64(f))
	}
	copy(h.data[off+8*len(fields):], blob)
	h.wp += n
	if !h.warned && h.HighWater != nil && h.wp > len(h.data)/10*9 {
		h.warned = true
		h.HighWater(h.wp, len(h.data))
	}
	s := &h.stats[typ]
	s.Count++
	s.InUse++
	s.Bytes += n
	return uint64(off)
}

// WriteImage overwrites the fields of the object at offset.
func (h *Heap) WriteImage(fields []Tag, offset uint64) {
	for i, f := range fields {
		binary.LittleEndian.PutUint64(h.data[int(offset)+8*i:], uint64(f))
	}
}

// Info returns the header of the object whose first field is at offset. The
// result is false if offset cannot refer to an object.
func (h *Heap) Info(offset uint64) (Info, bool) {
	if offset < 8 || offset >= uint64(h.wp) || offset%8 != 0 {
		return 0, false
	}
	return Info(binary.LittleEndian.Uint64(h.data[offset-8:])), true
}

// OfLength returns n bytes starting at offset. The result is false if the
// range lies outside allocated memory.
func (h *Heap) OfLength(offset uint64, n int) ([]byte, bool) {
	if offset == 0 || n < 0 || offset+uint64(n) > uint64(h.wp) {
		return nil, false
	}
	return h.data[offset : offset+uint64(n)], true
}

// Field returns the i'th field of the object at offset.
func (h *Heap) Field(offset uint64, i int) Tag {
	p := int(offset) + 8*i
	if offset == 0 || p+8 > h.wp {
		panic(fmt.Sprintf("mu: internal: heap reference %#x out of range", p))
	}
	return Tag(binary.LittleEndian.Uint64(h.data[p:]))
}
