package internal

// A struct on the heap is two fields, its type keyword and a vector of type :t
// holding its members.

// NewStruct creates a struct of the given type.
func (vm *VM) NewStruct(stype Tag, members []Tag) (Tag, error) {
	if vm.ClassOf(stype) != ClassKeyword {
		return Nil, vm.Raise(CondType, "struct", stype)
	}
	v, err := vm.NewVector(vtypeT, members)
	if err != nil {
		return Nil, err
	}
	return Indirect(vm.Heap.Alloc([]Tag{stype, v}, ClassStruct), TagHeap), nil
}

// StructType returns the type keyword of a struct.
func (vm *VM) StructType(t Tag) Tag {
	return vm.Heap.Field(t.Offset(), 0)
}

// StructVector returns the member vector of a struct.
func (vm *VM) StructVector(t Tag) Tag {
	return vm.Heap.Field(t.Offset(), 1)
}

// StructMake is a native function.
//
// struct creates a struct with the type keyword given by its first argument
// and the members in its second argument, a proper list.
func StructMake(vm *VM, fp *Frame) error {
	stype, l := fp.Argv[0], fp.Argv[1]
	if !vm.IsList(l) {
		return vm.Raise(CondType, "struct", l)
	}
	members, ok := vm.ListSlice(l)
	if !ok {
		return vm.Raise(CondType, "struct", l)
	}
	r, err := vm.NewStruct(stype, members)
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// StructTypeOf is a native function.
//
// st-type returns the type keyword of a struct.
func StructTypeOf(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if vm.ClassOf(s) != ClassStruct {
		return vm.Raise(CondType, "st-type", s)
	}
	fp.Value = vm.StructType(s)
	return nil
}

// StructVec is a native function.
//
// st-vec returns the member vector of a struct.
func StructVec(vm *VM, fp *Frame) error {
	s := fp.Argv[0]
	if vm.ClassOf(s) != ClassStruct {
		return vm.Raise(CondType, "st-vec", s)
	}
	fp.Value = vm.StructVector(s)
	return nil
}
