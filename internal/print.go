package internal

import (
	"strconv"
	"strings"
)

var charNames = map[rune]string{
	' ':  "space",
	'\t': "tab",
	'\n': "linefeed",
	'\f': "page",
	'\r': "return",
}

// Write prints the external representation of t to an output stream. With
// escape, strings are quoted and characters use #\ syntax so that the result
// can be read back.
func (vm *VM) Write(t Tag, escape bool, stream Tag) error {
	var b strings.Builder
	vm.print(&b, t, escape)
	return vm.WriteString(stream, b.String())
}

// Sprint returns the external representation of t.
func (vm *VM) Sprint(t Tag, escape bool) string {
	var b strings.Builder
	vm.print(&b, t, escape)
	return b.String()
}

func (vm *VM) print(b *strings.Builder, t Tag, escape bool) {
	switch vm.ClassOf(t) {
	case ClassNull, ClassKeyword:
		b.WriteByte(':')
		b.Write(t.Bytes())
	case ClassFixnum:
		b.WriteString(strconv.FormatInt(t.Int(), 10))
	case ClassFloat:
		b.WriteString(strconv.FormatFloat(float64(t.Float32()), 'f', 4, 32))
	case ClassChar:
		r := t.Rune()
		if !escape {
			b.WriteRune(r)
			return
		}
		b.WriteString(`#\`)
		if name, ok := charNames[r]; ok {
			b.WriteString(name)
		} else {
			b.WriteRune(r)
		}
	case ClassSymbol:
		vm.printSymbol(b, t, escape)
	case ClassCons:
		vm.printList(b, t, escape)
	case ClassVector:
		vm.printVector(b, t, escape)
	case ClassStruct:
		b.WriteString("#s(")
		vm.print(b, vm.StructType(t), escape)
		v := vm.StructVector(t)
		for i, n := 0, vm.VectorLen(v); i < n; i++ {
			e, _ := vm.VectorRef(v, i)
			b.WriteByte(' ')
			vm.print(b, e, escape)
		}
		b.WriteByte(')')
	case ClassFunction:
		b.WriteString("#<function: ")
		if form := vm.FunctionForm(t); form.IsFixnum() {
			b.WriteString(":native ")
			b.WriteString(vm.natives[form.Int()].Name)
		} else {
			b.WriteString(":lambda ")
			b.WriteString(strconv.Itoa(vm.FunctionArity(t)))
		}
		b.WriteByte('>')
	case ClassNamespace:
		b.WriteString("#<namespace: ")
		b.WriteString(strconv.Quote(vm.NamespaceName(t)))
		b.WriteByte('>')
	case ClassStream:
		b.WriteString("#<stream: ")
		b.WriteString(vm.streamOf(t).name)
		b.WriteByte('>')
	}
}

func (vm *VM) printSymbol(b *strings.Builder, t Tag, escape bool) {
	name := vm.SymbolName(t)
	if escape {
		if ns := vm.SymbolNamespace(t); ns != Nil && ns != vm.UserNS {
			b.WriteString(vm.NamespaceName(ns))
			if vm.SymbolScope(t) == Intern {
				b.WriteString("::")
			} else {
				b.WriteByte(':')
			}
		}
	}
	b.WriteString(name)
}

func (vm *VM) printList(b *strings.Builder, t Tag, escape bool) {
	b.WriteByte('(')
	vm.print(b, vm.Car(t), escape)
	t = vm.Cdr(t)
	for t.Type() == TagCons {
		b.WriteByte(' ')
		vm.print(b, vm.Car(t), escape)
		t = vm.Cdr(t)
	}
	if t != Nil {
		b.WriteString(" . ")
		vm.print(b, t, escape)
	}
	b.WriteByte(')')
}

func (vm *VM) printVector(b *strings.Builder, t Tag, escape bool) {
	vtype := vm.VectorType(t)
	if vtype == vtypeChar {
		s := string(vm.vectorData(t))
		if escape {
			b.WriteByte('"')
			b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s))
			b.WriteByte('"')
		} else {
			b.WriteString(s)
		}
		return
	}
	b.WriteString("#(")
	vm.print(b, vtype, escape)
	for i, n := 0, vm.VectorLen(t); i < n; i++ {
		e, _ := vm.VectorRef(t, i)
		b.WriteByte(' ')
		vm.print(b, e, escape)
	}
	b.WriteByte(')')
}

// StreamWrite is a native function.
//
// write prints its first argument to the stream given by its third argument.
// If its second argument is not nil, the output is escaped.
func StreamWrite(vm *VM, fp *Frame) error {
	value, escape := fp.Argv[0], fp.Argv[1]
	t, err := vm.streamArg(fp, 2, "write")
	if err != nil {
		return err
	}
	if err := vm.Write(value, escape != Nil, t); err != nil {
		return err
	}
	fp.Value = value
	return nil
}
