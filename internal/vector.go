package internal

import (
	"encoding/binary"
	"math"
)

// Vector element type keywords.
var (
	vtypeT      = Keyword("t")
	vtypeChar   = Keyword("char")
	vtypeByte   = Keyword("byte")
	vtypeFixnum = Keyword("fixnum")
	vtypeFloat  = Keyword("float")
)

// A vector on the heap is two fields, its element type keyword and its length
// as a fixnum, followed by its packed elements. Strings of at most DirectMax
// bytes are direct values instead.

func vectorElemSize(vtype Tag) int {
	switch vtype {
	case vtypeT, vtypeFixnum:
		return 8
	case vtypeFloat:
		return 4
	case vtypeChar, vtypeByte:
		return 1
	}
	return 0
}

// NewString creates a character vector holding s.
func (vm *VM) NewString(s string) Tag {
	if t, ok := DirectBytes([]byte(s), DirectString); ok {
		return t
	}
	fields := []Tag{vtypeChar, Fixnum(int64(len(s)))}
	return Indirect(vm.Heap.Valloc(fields, []byte(s), ClassVector), TagHeap)
}

// NewVector creates a vector of the given element type. It returns a Type
// exception if the type is not a vector type or an element does not have it.
func (vm *VM) NewVector(vtype Tag, elems []Tag) (Tag, error) {
	size := vectorElemSize(vtype)
	if size == 0 {
		return Nil, vm.Raise(CondType, "vector", vtype)
	}
	blob := make([]byte, 0, size*len(elems))
	for _, e := range elems {
		switch vtype {
		case vtypeT:
			b := e.Image()
			blob = append(blob, b[:]...)
		case vtypeChar:
			if vm.ClassOf(e) != ClassChar || e.Rune() > 0xff {
				return Nil, vm.Raise(CondType, "vector", e)
			}
			blob = append(blob, byte(e.Rune()))
		case vtypeByte:
			if !e.IsFixnum() || e.Int() < 0 || e.Int() > 0xff {
				return Nil, vm.Raise(CondType, "vector", e)
			}
			blob = append(blob, byte(e.Int()))
		case vtypeFixnum:
			if !e.IsFixnum() {
				return Nil, vm.Raise(CondType, "vector", e)
			}
			blob = binary.LittleEndian.AppendUint64(blob, uint64(e.Int()))
		case vtypeFloat:
			if vm.ClassOf(e) != ClassFloat {
				return Nil, vm.Raise(CondType, "vector", e)
			}
			blob = binary.LittleEndian.AppendUint32(blob, math.Float32bits(e.Float32()))
		}
	}
	if vtype == vtypeChar {
		return vm.NewString(string(blob)), nil
	}
	fields := []Tag{vtype, Fixnum(int64(len(elems)))}
	return Indirect(vm.Heap.Valloc(fields, blob, ClassVector), TagHeap), nil
}

// VectorType returns the element type keyword of a vector.
func (vm *VM) VectorType(t Tag) Tag {
	if t.Type() == TagDirect {
		return vtypeChar
	}
	return vm.Heap.Field(t.Offset(), 0)
}

// VectorLen returns the number of elements in a vector.
func (vm *VM) VectorLen(t Tag) int {
	if t.Type() == TagDirect {
		return t.DirectLen()
	}
	return int(vm.Heap.Field(t.Offset(), 1).Int())
}

func (vm *VM) vectorData(t Tag) []byte {
	if t.Type() == TagDirect {
		return t.Bytes()
	}
	n := vm.VectorLen(t) * vectorElemSize(vm.VectorType(t))
	b, ok := vm.Heap.OfLength(t.Offset()+16, n)
	if !ok {
		panic("mu: internal: vector data out of range")
	}
	return b
}

// VectorRef returns the element of a vector at index i. The result is false if
// i is out of range.
func (vm *VM) VectorRef(t Tag, i int) (Tag, bool) {
	if i < 0 || i >= vm.VectorLen(t) {
		return Nil, false
	}
	b := vm.vectorData(t)
	switch vm.VectorType(t) {
	case vtypeT:
		return TagFromImage(b[8*i:]), true
	case vtypeChar:
		return Char(rune(b[i])), true
	case vtypeByte:
		return Fixnum(int64(b[i])), true
	case vtypeFixnum:
		return Fixnum(int64(binary.LittleEndian.Uint64(b[8*i:]))), true
	case vtypeFloat:
		return Float(math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))), true
	}
	panic("mu: internal: bad vector type")
}

// StringOf returns the contents of a character vector. The result is false if
// t is not a character vector.
func (vm *VM) StringOf(t Tag) (string, bool) {
	if vm.ClassOf(t) != ClassVector || vm.VectorType(t) != vtypeChar {
		return "", false
	}
	return string(vm.vectorData(t)), true
}

// VectorMake is a native function.
//
// vector creates a vector with the element type given by its first argument
// from the elements of its second argument, a proper list.
func VectorMake(vm *VM, fp *Frame) error {
	vtype, l := fp.Argv[0], fp.Argv[1]
	if !vm.IsList(l) {
		return vm.Raise(CondType, "vector", l)
	}
	elems, ok := vm.ListSlice(l)
	if !ok {
		return vm.Raise(CondType, "vector", l)
	}
	v, err := vm.NewVector(vtype, elems)
	if err != nil {
		return err
	}
	fp.Value = v
	return nil
}

// VectorLength is a native function.
//
// sv-len returns the length of a vector.
func VectorLength(vm *VM, fp *Frame) error {
	v := fp.Argv[0]
	if vm.ClassOf(v) != ClassVector {
		return vm.Raise(CondType, "sv-len", v)
	}
	fp.Value = Fixnum(int64(vm.VectorLen(v)))
	return nil
}

// VectorElt is a native function.
//
// sv-ref returns the element of a vector at an index.
func VectorElt(vm *VM, fp *Frame) error {
	v, i := fp.Argv[0], fp.Argv[1]
	if vm.ClassOf(v) != ClassVector {
		return vm.Raise(CondType, "sv-ref", v)
	}
	if !i.IsFixnum() {
		return vm.Raise(CondType, "sv-ref", i)
	}
	r, ok := vm.VectorRef(v, int(i.Int()))
	if !ok {
		return vm.Raise(CondRange, "sv-ref", i)
	}
	fp.Value = r
	return nil
}

// VectorElemType is a native function.
//
// sv-type returns the element type keyword of a vector.
func VectorElemType(vm *VM, fp *Frame) error {
	v := fp.Argv[0]
	if vm.ClassOf(v) != ClassVector {
		return vm.Raise(CondType, "sv-type", v)
	}
	fp.Value = vm.VectorType(v)
	return nil
}
