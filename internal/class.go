package internal

import (
	"fmt"
	"unicode/utf8"
)

// Class is the type of a value as seen by programs. Heap object headers store
// the Class of the object as their type byte.
type Class uint8

// Classes. Zero is not a valid class.
const (
	_ Class = iota
	ClassChar
	ClassCons
	ClassFixnum
	ClassFloat
	ClassFunction
	ClassKeyword
	ClassNamespace
	ClassNull
	ClassStream
	ClassStruct
	ClassSymbol
	ClassT
	ClassVector
)

var classNames = [...]string{
	ClassChar:      "char",
	ClassCons:      "cons",
	ClassFixnum:    "fixnum",
	ClassFloat:     "float",
	ClassFunction:  "func",
	ClassKeyword:   "keyword",
	ClassNamespace: "ns",
	ClassNull:      "null",
	ClassStream:    "stream",
	ClassStruct:    "struct",
	ClassSymbol:    "symbol",
	ClassT:         "t",
	ClassVector:    "vector",
}

// String returns the name of the class.
func (c Class) String() string {
	if int(c) < len(classNames) && classNames[c] != "" {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// Keyword returns the type keyword of the class, e.g. :fixnum.
func (c Class) Keyword() Tag {
	return Keyword(c.String())
}

// ClassFromKeyword returns the class named by a type keyword.
func ClassFromKeyword(t Tag) (Class, bool) {
	if t.Type() != TagDirect || t.DirectType() != DirectKeyword {
		return 0, false
	}
	name := string(t.Bytes())
	for c, s := range classNames {
		if s != "" && s == name {
			return Class(c), true
		}
	}
	return 0, false
}

// ClassOf returns the class of a value. Nil is recognized before any other
// classification. Panics if t is the reserved encoding or an indirect
// reference outside the allocated heap.
func (vm *VM) ClassOf(t Tag) Class {
	if t == Nil {
		return ClassNull
	}
	switch t.Type() {
	case TagEvenFixnum, TagOddFixnum:
		return ClassFixnum
	case TagDirect:
		switch t.DirectType() {
		case DirectChar:
			return ClassChar
		case DirectString:
			return ClassVector
		case DirectKeyword:
			return ClassKeyword
		default:
			return ClassFloat
		}
	case TagSymbol:
		vm.checkIndirect(t)
		return ClassSymbol
	case TagFunction:
		vm.checkIndirect(t)
		return ClassFunction
	case TagCons:
		vm.checkIndirect(t)
		return ClassCons
	case TagHeap:
		return vm.checkIndirect(t).Type()
	}
	panic(fmt.Sprintf("mu: internal: reserved tag %#x", uint64(t)))
}

func (vm *VM) checkIndirect(t Tag) Info {
	info, ok := vm.Heap.Info(t.Offset())
	if !ok {
		panic(fmt.Sprintf("mu: internal: dangling reference %#x", uint64(t)))
	}
	return info
}

// IsList reports whether t is a cons or nil.
func (vm *VM) IsList(t Tag) bool {
	return t == Nil || t.Type() == TagCons
}

// TypeOf returns the type keyword of a value.
func (vm *VM) TypeOf(t Tag) Tag {
	return vm.ClassOf(t).Keyword()
}

// TypeOf is a native function.
//
// type-of returns the type keyword of its argument.
func TypeOf(vm *VM, fp *Frame) error {
	fp.Value = vm.TypeOf(fp.Argv[0])
	return nil
}

// Eq is a native function.
//
// eq returns t if its arguments are the same value and nil otherwise.
func Eq(vm *VM, fp *Frame) error {
	fp.Value = Bool(fp.Argv[0] == fp.Argv[1])
	return nil
}

// Coerce is a native function.
//
// coerce converts its first argument to the class named by its second, a type
// keyword. Fixnums convert to chars by code point and chars to fixnums.
func Coerce(vm *VM, fp *Frame) error {
	v, to := fp.Argv[0], fp.Argv[1]
	c, ok := ClassFromKeyword(to)
	if !ok {
		return vm.Raise(CondType, "coerce", to)
	}
	switch {
	case c == ClassChar && v.IsFixnum():
		n := v.Int()
		if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return vm.Raise(CondRange, "coerce", v)
		}
		fp.Value = Char(rune(n))
	case c == ClassFixnum && vm.ClassOf(v) == ClassChar:
		fp.Value = Fixnum(int64(v.Rune()))
	default:
		return vm.Raise(CondType, "coerce", to)
	}
	return nil
}

// Bool returns T if b is true and Nil otherwise.
func Bool(b bool) Tag {
	if b {
		return T
	}
	return Nil
}
