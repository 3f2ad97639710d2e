package internal

// FrameID identifies the frame stack of an interpreted function. IDs are
// minted by the compiler for each lambda. Natives have FrameID 0.
type FrameID uint64

// A function on the heap is four fields: its lambda list, its number of
// required arguments as a fixnum, its form, and its frame ID as a fixnum. The
// form of a native is its index in the native table as a fixnum. The form of
// an interpreted function is its compiled body, a list of forms.

// NewFunction allocates a function.
func (vm *VM) NewFunction(lambda Tag, nreq int, form Tag, id FrameID) Tag {
	fields := []Tag{lambda, Fixnum(int64(nreq)), form, Fixnum(int64(id))}
	return Indirect(vm.Heap.Alloc(fields, ClassFunction), TagFunction)
}

// FunctionLambda returns the lambda list of a function.
func (vm *VM) FunctionLambda(fn Tag) Tag {
	return vm.Heap.Field(fn.Offset(), 0)
}

// FunctionArity returns the number of arguments a function requires.
func (vm *VM) FunctionArity(fn Tag) int {
	return int(vm.Heap.Field(fn.Offset(), 1).Int())
}

// FunctionForm returns the form of a function.
func (vm *VM) FunctionForm(fn Tag) Tag {
	return vm.Heap.Field(fn.Offset(), 2)
}

// FunctionFrame returns the frame ID of a function.
func (vm *VM) FunctionFrame(fn Tag) FrameID {
	return FrameID(vm.Heap.Field(fn.Offset(), 3).Int())
}

// mintFrameID returns a frame ID not previously used in this VM.
func (vm *VM) mintFrameID() FrameID {
	vm.lastFrameID++
	return vm.lastFrameID
}
