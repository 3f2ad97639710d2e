package internal

import "fmt"

// Scope is the visibility of a symbol in its namespace.
type Scope int

// Symbol scopes.
const (
	Intern Scope = iota
	Extern
)

var (
	scopeIntern = Keyword("intern")
	scopeExtern = Keyword("extern")
)

// String returns the name of the scope.
func (s Scope) String() string {
	switch s {
	case Intern:
		return "intern"
	case Extern:
		return "extern"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

// Keyword returns the keyword designating the scope.
func (s Scope) Keyword() Tag {
	if s == Intern {
		return scopeIntern
	}
	return scopeExtern
}

// ScopeFromKeyword returns the scope a keyword designates.
func ScopeFromKeyword(t Tag) (Scope, bool) {
	switch t {
	case scopeIntern:
		return Intern, true
	case scopeExtern:
		return Extern, true
	}
	return 0, false
}

// A symbol on the heap is four fields: its namespace, its scope keyword, its
// name, and its value. Unbound symbols hold Unbound as their value. Keywords
// are direct values and behave as symbols bound to themselves.

const symbolValueField = 3

// NewSymbol allocates a symbol. It is not entered into any namespace; use
// vm.Intern for that.
func (vm *VM) NewSymbol(ns Tag, scope Scope, name string, value Tag) Tag {
	fields := []Tag{ns, scope.Keyword(), vm.NewString(name), value}
	return Indirect(vm.Heap.Alloc(fields, ClassSymbol), TagSymbol)
}

// IsSymbol reports whether t is a symbol or keyword.
func (vm *VM) IsSymbol(t Tag) bool {
	switch vm.ClassOf(t) {
	case ClassSymbol, ClassKeyword, ClassNull:
		return true
	}
	return false
}

// SymbolNamespace returns the namespace of a symbol, or nil for keywords and
// uninterned symbols.
func (vm *VM) SymbolNamespace(t Tag) Tag {
	if t.Type() != TagSymbol {
		return Nil
	}
	return vm.Heap.Field(t.Offset(), 0)
}

// SymbolScope returns the scope of a symbol.
func (vm *VM) SymbolScope(t Tag) Scope {
	if t.Type() != TagSymbol {
		return Extern
	}
	s, _ := ScopeFromKeyword(vm.Heap.Field(t.Offset(), 1))
	return s
}

// SymbolNameTag returns the name of a symbol as a string value.
func (vm *VM) SymbolNameTag(t Tag) Tag {
	if t.Type() == TagDirect {
		r, _ := DirectBytes(t.Bytes(), DirectString)
		return r
	}
	return vm.Heap.Field(t.Offset(), 2)
}

// SymbolName returns the name of a symbol.
func (vm *VM) SymbolName(t Tag) string {
	if t.Type() == TagDirect {
		return string(t.Bytes())
	}
	s, _ := vm.StringOf(vm.SymbolNameTag(t))
	return s
}

// SymbolValue returns the value of a symbol, which is Unbound if the symbol
// has no value. A keyword is its own value.
func (vm *VM) SymbolValue(t Tag) Tag {
	if t.Type() == TagDirect {
		return t
	}
	return vm.Heap.Field(t.Offset(), symbolValueField)
}

// IsBound reports whether a symbol has a value.
func (vm *VM) IsBound(t Tag) bool {
	return vm.SymbolValue(t) != Unbound
}

// setSymbolValue patches the value of a symbol in place.
func (vm *VM) setSymbolValue(t, value Tag) {
	vm.Heap.WriteImage([]Tag{value}, t.Offset()+8*symbolValueField)
}

// KeywordFromString returns the keyword with the given name. The result is
// false if the name is empty or too long.
func KeywordFromString(name string) (Tag, bool) {
	if name == "" {
		return Nil, false
	}
	return DirectBytes([]byte(name), DirectKeyword)
}

// SymbolBoundp is a native function.
//
// boundp returns t if its argument, a symbol, has a value.
func SymbolBoundp(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if !vm.IsSymbol(s) {
		return vm.Raise(CondType, "boundp", s)
	}
	fp.Value = Bool(vm.IsBound(s))
	return nil
}

// SymbolKeyp is a native function.
//
// keyp returns t if its argument is a keyword.
func SymbolKeyp(vm *VM, fp *Frame) error {
	fp.Value = Bool(vm.ClassOf(fp.Argv[0]) == ClassKeyword)
	return nil
}

// SymbolKeyword is a native function.
//
// keyword returns the keyword named by its argument, a string.
func SymbolKeyword(vm *VM, fp *Frame) error {
	name, ok := vm.StringOf(fp.Argv[0])
	if !ok {
		return vm.Raise(CondType, "keyword", fp.Argv[0])
	}
	k, ok := KeywordFromString(name)
	if !ok {
		return vm.Raise(CondSyntax, "keyword", fp.Argv[0])
	}
	fp.Value = k
	return nil
}

// SymbolMake is a native function.
//
// symbol creates an unbound symbol in no namespace named by its argument, a
// string.
func SymbolMake(vm *VM, fp *Frame) error {
	name, ok := vm.StringOf(fp.Argv[0])
	if !ok {
		return vm.Raise(CondType, "symbol", fp.Argv[0])
	}
	fp.Value = vm.NewSymbol(Nil, Extern, name, Unbound)
	return nil
}

// SymbolNameOf is a native function.
//
// sy-name returns the name of a symbol as a string.
func SymbolNameOf(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if !vm.IsSymbol(s) {
		return vm.Raise(CondType, "sy-name", s)
	}
	fp.Value = vm.SymbolNameTag(s)
	return nil
}

// SymbolNamespaceOf is a native function.
//
// sy-ns returns the namespace of a symbol.
func SymbolNamespaceOf(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if !vm.IsSymbol(s) {
		return vm.Raise(CondType, "sy-ns", s)
	}
	fp.Value = vm.SymbolNamespace(s)
	return nil
}

// SymbolValueOf is a native function.
//
// sy-val returns the value of a symbol.
func SymbolValueOf(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if !vm.IsSymbol(s) {
		return vm.Raise(CondType, "sy-val", s)
	}
	if !vm.IsBound(s) {
		return vm.Raise(CondUnbound, "sy-val", s)
	}
	fp.Value = vm.SymbolValue(s)
	return nil
}
