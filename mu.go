/*
Package mu is an embeddable runtime for mu, a small Lisp with a tagged value
representation.

Every mu value is a 64-bit Tag. The low three bits of a tag say how to read
the rest: fixnums carry a 62-bit integer, direct values carry up to seven
bytes of character, string, keyword, or float data inline, and everything else
is an offset into the VM's heap, a bump-allocated arena of 8-byte aligned
objects.

Source text is read into forms, compiled, and evaluated:

	vm := mu.NewVM()
	r, err := vm.EvalString("((:lambda (x y) (fx-add x y)) 1 2)")
	if err != nil {
		// err is usually an *mu.Exception.
	}
	fmt.Println(vm.Sprint(r, true)) // 3

The compiler knows three special forms, all led by keywords:

	(:quote x)            x, unevaluated
	(:if test then else)  then if test is not :nil, else otherwise
	(:lambda (x y) body)  a function of exactly two arguments

Every other list is an application. Its head must be a function or a symbol
bound to one; its arguments are evaluated from left to right and the
function is applied to them. References to lambda parameters compile into
lookups in the activation frames of the function that binds them, so inner
lambdas see the arguments of the lambdas that enclose them.

Symbols live in namespaces. The mu namespace holds the natives, such as car,
fx-add, and read. A VM's default namespace, user unless configured otherwise,
imports mu, and the reader interns unqualified symbols there. A qualified
symbol is written ns:name for an external symbol or ns::name for an internal
one.

Go code extends a VM by installing natives:

	vm.InstallNative(mu.Native{
		Name:  "double",
		Scope: mu.Extern,
		NReq:  1,
		Fn: func(vm *mu.VM, fp *mu.Frame) error {
			fp.Value = mu.Fixnum(2 * fp.Argv[0].Int())
			return nil
		},
	})

Packages under coreext register natives for every VM with Register.
*/
package mu

import (
	"io"

	"github.com/zephyrtronium/mu/internal"
)

// A VM is a mu runtime: a heap, its namespaces, and the evaluator state.
type VM = internal.VM

// Tag is a mu value.
type Tag = internal.Tag

// TagType is the low three bits of a Tag.
type TagType = internal.TagType

// Class is the type of a value as mu programs see it.
type Class = internal.Class

// An Exception is a mu exception, the error returned by operations that fail
// inside the runtime.
type Exception = internal.Exception

// Condition identifies the kind of an Exception.
type Condition = internal.Condition

// A Frame is the activation of a function.
type Frame = internal.Frame

// An Fn is the Go implementation of a native function.
type Fn = internal.Fn

// Native describes a native function.
type Native = internal.Native

// Scope is the visibility of a symbol in its namespace.
type Scope = internal.Scope

// Config holds the parameters of a VM.
type Config = internal.Config

// Distinguished values.
const (
	Nil     = internal.Nil
	T       = internal.T
	Unbound = internal.Unbound
)

// Symbol scopes.
const (
	Intern = internal.Intern
	Extern = internal.Extern
)

// Exception conditions.
const (
	CondArity      = internal.CondArity
	CondEof        = internal.CondEof
	CondError      = internal.CondError
	CondExcept     = internal.CondExcept
	CondOpen       = internal.CondOpen
	CondRange      = internal.CondRange
	CondRead       = internal.CondRead
	CondStream     = internal.CondStream
	CondSyntax     = internal.CondSyntax
	CondType       = internal.CondType
	CondUnbound    = internal.CondUnbound
	CondWrite      = internal.CondWrite
	CondZeroDivide = internal.CondZeroDivide
)

// Value classes.
const (
	ClassChar      = internal.ClassChar
	ClassCons      = internal.ClassCons
	ClassFixnum    = internal.ClassFixnum
	ClassFloat     = internal.ClassFloat
	ClassFunction  = internal.ClassFunction
	ClassKeyword   = internal.ClassKeyword
	ClassNamespace = internal.ClassNamespace
	ClassNull      = internal.ClassNull
	ClassStream    = internal.ClassStream
	ClassStruct    = internal.ClassStruct
	ClassSymbol    = internal.ClassSymbol
	ClassT         = internal.ClassT
	ClassVector    = internal.ClassVector
)

// FixnumMax and FixnumMin bound the integers representable as fixnums.
const (
	FixnumMax = internal.FixnumMax
	FixnumMin = internal.FixnumMin
)

// Version is the runtime version.
const Version = internal.Version

// New creates a VM with the given configuration.
func New(cfg Config) (*VM, error) {
	return internal.New(cfg)
}

// NewVM creates a VM with the default configuration. Panics if the heap cannot
// be allocated.
func NewVM() *VM {
	return internal.NewVM()
}

// Register registers a function to run on every new VM. It must be called
// from an init func.
func Register(f func(*VM)) {
	internal.Register(f)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// ParseConfig parses a configuration string of comma-separated name:value
// pairs over the defaults.
func ParseConfig(s string) (Config, error) {
	return internal.ParseConfig(s)
}

// LoadConfig reads a YAML configuration over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	return internal.LoadConfig(r)
}

// NewException creates an exception.
func NewException(cond Condition, src string, tag Tag) *Exception {
	return internal.NewException(cond, src, tag)
}

// Fixnum encodes an integer. Bits above the 62 representable bits are lost.
func Fixnum(n int64) Tag {
	return internal.Fixnum(n)
}

// Char encodes a character.
func Char(r rune) Tag {
	return internal.Char(r)
}

// Float encodes a 32-bit float.
func Float(f float32) Tag {
	return internal.Float(f)
}

// Keyword encodes a keyword. Panics if name is empty or longer than seven
// bytes.
func Keyword(name string) Tag {
	return internal.Keyword(name)
}

// Bool returns T if b is true and Nil otherwise.
func Bool(b bool) Tag {
	return internal.Bool(b)
}
