package internal

// heapClasses are the classes of objects that live on the heap.
var heapClasses = []Class{
	ClassCons,
	ClassFunction,
	ClassNamespace,
	ClassStream,
	ClassStruct,
	ClassSymbol,
	ClassVector,
}

// HeapInfo returns a vector describing the heap: the page size, the number of
// pages, and the bytes used, followed by the type keyword, size in bytes,
// total count, in-use count, and free count for each heap class.
func (vm *VM) HeapInfo() Tag {
	h := vm.Heap
	elems := []Tag{
		Fixnum(int64(h.PageSize())),
		Fixnum(int64(h.Pages())),
		Fixnum(int64(h.Used())),
	}
	for _, c := range heapClasses {
		s := h.Stats(c)
		elems = append(elems,
			c.Keyword(),
			Fixnum(int64(s.Bytes)),
			Fixnum(int64(s.Count)),
			Fixnum(int64(s.InUse)),
			Fixnum(int64(s.Free)),
		)
	}
	v, err := vm.NewVector(vtypeT, elems)
	if err != nil {
		panic("mu: internal: " + err.Error())
	}
	return v
}

// unboundMarker stands for the value of an unbound symbol in views.
var unboundMarker = Keyword("unbound")

// View returns a vector of the components of a value.
func (vm *VM) View(t Tag) Tag {
	var elems []Tag
	switch vm.ClassOf(t) {
	case ClassCons:
		elems = []Tag{vm.Car(t), vm.Cdr(t)}
	case ClassSymbol:
		value := vm.SymbolValue(t)
		if value == Unbound {
			value = unboundMarker
		}
		elems = []Tag{vm.SymbolNamespace(t), vm.SymbolScope(t).Keyword(), vm.SymbolNameTag(t), value}
	case ClassFunction:
		elems = []Tag{Fixnum(int64(vm.FunctionArity(t))), vm.FunctionForm(t), Fixnum(int64(vm.FunctionFrame(t)))}
	case ClassNamespace:
		elems = []Tag{vm.Heap.Field(t.Offset(), nsNameField), vm.NamespaceImport(t)}
	case ClassVector:
		elems = []Tag{vm.VectorType(t), Fixnum(int64(vm.VectorLen(t)))}
	case ClassStruct:
		elems = []Tag{vm.StructType(t), vm.StructVector(t)}
	case ClassStream:
		elems = []Tag{vm.Heap.Field(t.Offset(), 0), Bool(vm.IsOpen(t))}
	default:
		elems = []Tag{t}
	}
	v, err := vm.NewVector(vtypeT, elems)
	if err != nil {
		panic("mu: internal: " + err.Error())
	}
	return v
}

// HeapInformation is a native function.
//
// hp-info returns a vector describing heap usage.
func HeapInformation(vm *VM, fp *Frame) error {
	fp.Value = vm.HeapInfo()
	return nil
}

// ViewOf is a native function.
//
// view returns a vector of the components of its argument.
func ViewOf(vm *VM, fp *Frame) error {
	fp.Value = vm.View(fp.Argv[0])
	return nil
}

// TagOf is a native function.
//
// tag-of returns the encoding of its argument as a fixnum. The two high bits
// of the encoding are lost.
func TagOf(vm *VM, fp *Frame) error {
	fp.Value = Fixnum(int64(fp.Argv[0]))
	return nil
}
