package internal

// Frame is the activation record of one function application.
type Frame struct {
	// Func is the function being applied.
	Func Tag
	// Argv holds the evaluated arguments.
	Argv []Tag
	// Value is the result of the application. Natives set it.
	Value Tag
}

// frameStack holds the active frames of one frame ID. last is the most
// recently pushed frame, which remains readable after it is popped.
type frameStack struct {
	active []*Frame
	last   *Frame
}

func (vm *VM) pushFrame(id FrameID, fp *Frame) {
	s := vm.frames[id]
	if s == nil {
		s = &frameStack{}
		vm.frames[id] = s
	}
	s.active = append(s.active, fp)
	s.last = fp
	vm.Log.Debug("push frame", "id", uint64(id), "depth", len(s.active))
}

func (vm *VM) popFrame(id FrameID) *Frame {
	s := vm.frames[id]
	if s == nil || len(s.active) == 0 {
		return nil
	}
	n := len(s.active) - 1
	fp := s.active[n]
	s.active[n] = nil
	s.active = s.active[:n]
	vm.Log.Debug("pop frame", "id", uint64(id), "depth", n)
	return fp
}

// topFrame returns the innermost active frame of id, or the most recently
// pushed frame if none is active.
func (vm *VM) topFrame(id FrameID) *Frame {
	s := vm.frames[id]
	if s == nil {
		return nil
	}
	if n := len(s.active); n > 0 {
		return s.active[n-1]
	}
	return s.last
}

// FrameRef returns the argument at offset in the innermost frame of id. If no
// frame of id is active, the most recently pushed one is read. It returns an
// Unbound exception if no frame of id was ever pushed and a Range exception
// if offset is out of bounds.
func (vm *VM) FrameRef(id FrameID, offset int) (Tag, error) {
	fp := vm.topFrame(id)
	if fp == nil {
		return Nil, vm.Raise(CondUnbound, "fr-ref", Fixnum(int64(id)))
	}
	if offset < 0 || offset >= len(fp.Argv) {
		return Nil, vm.Raise(CondRange, "fr-ref", Fixnum(int64(offset)))
	}
	return fp.Argv[offset], nil
}

// Apply applies a function to already evaluated arguments. A bound symbol is
// replaced by its value. The number of arguments must equal the function's
// arity exactly.
func (vm *VM) Apply(fn Tag, argv []Tag) (Tag, error) {
	if vm.ClassOf(fn) == ClassSymbol {
		if !vm.IsBound(fn) {
			return Nil, vm.Raise(CondUnbound, "apply", fn)
		}
		return vm.Apply(vm.SymbolValue(fn), argv)
	}
	if vm.ClassOf(fn) != ClassFunction {
		return Nil, vm.Raise(CondType, "apply", fn)
	}
	if len(argv) != vm.FunctionArity(fn) {
		return Nil, vm.Raise(CondArity, "apply", fn)
	}
	form := vm.FunctionForm(fn)
	fp := &Frame{Func: fn, Argv: argv, Value: Nil}
	switch {
	case form.IsFixnum():
		n := vm.natives[form.Int()]
		if err := n.Fn(vm, fp); err != nil {
			return Nil, err
		}
		return fp.Value, nil
	case form == Nil:
		return Nil, nil
	case form.Type() == TagCons:
		id := vm.FunctionFrame(fn)
		vm.pushFrame(id, fp)
		for body := form; body != Nil; body = vm.Cdr(body) {
			v, err := vm.Eval(vm.Car(body))
			if err != nil {
				vm.popFrame(id)
				return Nil, err
			}
			fp.Value = v
		}
		vm.popFrame(id)
		return fp.Value, nil
	}
	return Nil, vm.Raise(CondType, "apply", fn)
}

var frameKeyword = Keyword("frame")

// frameStruct creates a :frame struct holding the function and arguments of a
// frame.
func (vm *VM) frameStruct(fp *Frame) Tag {
	argv, err := vm.NewVector(vtypeT, fp.Argv)
	if err != nil {
		panic("mu: internal: " + err.Error())
	}
	s, err := vm.NewStruct(frameKeyword, []Tag{fp.Func, argv})
	if err != nil {
		panic("mu: internal: " + err.Error())
	}
	return s
}

// FrameReference is a native function.
//
// fr-ref returns the argument at an offset in the innermost frame of a frame
// ID. The compiler emits calls to fr-ref for lexical variable references.
func FrameReference(vm *VM, fp *Frame) error {
	id, off := fp.Argv[0], fp.Argv[1]
	if !id.IsFixnum() {
		return vm.Raise(CondType, "fr-ref", id)
	}
	if !off.IsFixnum() {
		return vm.Raise(CondType, "fr-ref", off)
	}
	r, err := vm.FrameRef(FrameID(id.Int()), int(off.Int()))
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// FrameGet is a native function.
//
// fr-get returns a :frame struct describing the innermost frame of a function.
func FrameGet(vm *VM, fp *Frame) error {
	fn := fp.Argv[0]
	if vm.ClassOf(fn) != ClassFunction {
		return vm.Raise(CondType, "fr-get", fn)
	}
	s := vm.frames[vm.FunctionFrame(fn)]
	if s == nil || len(s.active) == 0 {
		return vm.Raise(CondRange, "fr-get", fn)
	}
	fp.Value = vm.frameStruct(s.active[len(s.active)-1])
	return nil
}

// FramePush is a native function.
//
// fr-push pushes a frame described by a :frame struct onto the frame stack of
// its function.
func FramePush(vm *VM, fp *Frame) error {
	st := fp.Argv[0]
	if vm.ClassOf(st) != ClassStruct || vm.StructType(st) != frameKeyword {
		return vm.Raise(CondType, "fr-push", st)
	}
	v := vm.StructVector(st)
	fn, _ := vm.VectorRef(v, 0)
	argv, _ := vm.VectorRef(v, 1)
	if vm.ClassOf(fn) != ClassFunction {
		return vm.Raise(CondType, "fr-push", fn)
	}
	if vm.ClassOf(argv) != ClassVector || vm.VectorType(argv) != vtypeT {
		return vm.Raise(CondType, "fr-push", argv)
	}
	args := make([]Tag, vm.VectorLen(argv))
	for i := range args {
		args[i], _ = vm.VectorRef(argv, i)
	}
	vm.pushFrame(vm.FunctionFrame(fn), &Frame{Func: fn, Argv: args, Value: Nil})
	fp.Value = st
	return nil
}

// FramePop is a native function.
//
// fr-pop pops the innermost frame of a function and returns the function.
func FramePop(vm *VM, fp *Frame) error {
	fn := fp.Argv[0]
	if vm.ClassOf(fn) != ClassFunction {
		return vm.Raise(CondType, "fr-pop", fn)
	}
	if vm.popFrame(vm.FunctionFrame(fn)) == nil {
		return vm.Raise(CondRange, "fr-pop", fn)
	}
	fp.Value = fn
	return nil
}
