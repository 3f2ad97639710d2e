package internal

import (
	"errors"
	"fmt"
)

// Condition is the kind of a raised exception.
type Condition int

// Exception conditions.
const (
	CondArity Condition = iota
	CondEof
	CondError
	CondExcept
	CondOpen
	CondRange
	CondRead
	CondStream
	CondSyntax
	CondType
	CondUnbound
	CondWrite
	CondZeroDivide
)

var conditionNames = [...]string{
	CondArity:      "arity",
	CondEof:        "eof",
	CondError:      "error",
	CondExcept:     "except",
	CondOpen:       "open",
	CondRange:      "range",
	CondRead:       "read",
	CondStream:     "stream",
	CondSyntax:     "syntax",
	CondType:       "type",
	CondUnbound:    "unbound",
	CondWrite:      "write",
	CondZeroDivide: "div0",
}

// String returns the name of the condition, the same as its keyword.
func (c Condition) String() string {
	if c < CondArity || c > CondZeroDivide {
		return fmt.Sprintf("Condition(%d)", c)
	}
	return conditionNames[c]
}

// Keyword returns the keyword designating the condition.
func (c Condition) Keyword() Tag {
	return Keyword(c.String())
}

// ConditionFromKeyword returns the condition a keyword designates.
func ConditionFromKeyword(t Tag) (Condition, bool) {
	if t.Type() != TagDirect || t.DirectType() != DirectKeyword {
		return 0, false
	}
	name := string(t.Bytes())
	for c, s := range conditionNames {
		if s == name {
			return Condition(c), true
		}
	}
	return 0, false
}

// Exception is a raised condition. It carries the name of the operation that
// raised it and the value that caused it.
type Exception struct {
	Condition Condition
	Source    string
	Tag       Tag
}

// NewException creates an exception. Most code should prefer vm.Raise, which
// also logs the condition.
func NewException(cond Condition, src string, tag Tag) *Exception {
	return &Exception{Condition: cond, Source: src, Tag: tag}
}

// Error returns a description of the exception.
func (e *Exception) Error() string {
	return fmt.Sprintf("mu: %s condition raised from %s", e.Condition, e.Source)
}

// Is reports whether target is an *Exception with the same condition, so that
// errors.Is can test conditions.
func (e *Exception) Is(target error) bool {
	t, ok := target.(*Exception)
	return ok && t.Condition == e.Condition && (t.Source == "" || t.Source == e.Source)
}

// AsException extracts an *Exception from err.
func AsException(err error) (*Exception, bool) {
	var e *Exception
	ok := errors.As(err, &e)
	return e, ok
}

// Raise creates an exception and logs it at debug level.
func (vm *VM) Raise(cond Condition, src string, tag Tag) *Exception {
	vm.Log.Debug("raise", "condition", cond.String(), "source", src, "tag", uint64(tag))
	return NewException(cond, src, tag)
}

// WithException is a native function.
//
// with-ex applies its second argument, a thunk, to no arguments. If the thunk
// raises an exception, the first argument is applied to the condition keyword
// and the offending value, and its result is the result of with-ex.
func WithException(vm *VM, fp *Frame) error {
	handler, thunk := fp.Argv[0], fp.Argv[1]
	if vm.ClassOf(handler) != ClassFunction {
		return vm.Raise(CondType, "with-ex", handler)
	}
	if vm.ClassOf(thunk) != ClassFunction {
		return vm.Raise(CondType, "with-ex", thunk)
	}
	r, err := vm.Apply(thunk, nil)
	if err == nil {
		fp.Value = r
		return nil
	}
	e, ok := AsException(err)
	if !ok {
		return err
	}
	r, err = vm.Apply(handler, []Tag{e.Condition.Keyword(), e.Tag})
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// RaiseException is a native function.
//
// raise raises an exception with the condition given by its second argument,
// a keyword, on the value of its first argument.
func RaiseException(vm *VM, fp *Frame) error {
	src, cond := fp.Argv[0], fp.Argv[1]
	c, ok := ConditionFromKeyword(cond)
	if !ok {
		return vm.Raise(CondType, "raise", cond)
	}
	return vm.Raise(c, "raise", src)
}
