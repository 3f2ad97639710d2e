package internal

// Eval evaluates a compiled form. A symbol evaluates to its value. A list is
// either (:quote x), which evaluates to x, or an application whose head is a
// function or a symbol bound to one. Everything else evaluates to itself.
func (vm *VM) Eval(expr Tag) (Tag, error) {
	if vm.ClassOf(expr) == ClassSymbol {
		if !vm.IsBound(expr) {
			return Nil, vm.Raise(CondUnbound, "eval", expr)
		}
		return vm.SymbolValue(expr), nil
	}
	if expr.Type() != TagCons {
		return expr, nil
	}
	head, args := vm.Car(expr), vm.Cdr(expr)
	switch vm.ClassOf(head) {
	case ClassKeyword:
		if head == keyQuote {
			return vm.Car(args), nil
		}
	case ClassSymbol:
		if !vm.IsBound(head) {
			return Nil, vm.Raise(CondUnbound, "eval", head)
		}
		fn := vm.SymbolValue(head)
		if vm.ClassOf(fn) != ClassFunction {
			return Nil, vm.Raise(CondType, "eval", head)
		}
		return vm.Funcall(fn, args)
	case ClassFunction:
		return vm.Funcall(head, args)
	}
	return Nil, vm.Raise(CondType, "eval", head)
}

// Funcall evaluates each form in args, a proper list, from left to right and
// applies fn to the results.
func (vm *VM) Funcall(fn, args Tag) (Tag, error) {
	forms, ok := vm.ListSlice(args)
	if !ok {
		return Nil, vm.Raise(CondSyntax, "funcall", args)
	}
	for i, f := range forms {
		v, err := vm.Eval(f)
		if err != nil {
			return Nil, err
		}
		forms[i] = v
	}
	return vm.Apply(fn, forms)
}

// Fix applies fn to x repeatedly until the result is the same value as its
// argument.
func (vm *VM) Fix(fn, x Tag) (Tag, error) {
	for {
		r, err := vm.Apply(fn, []Tag{x})
		if err != nil {
			return Nil, err
		}
		if r == x {
			return r, nil
		}
		x = r
	}
}

// Evaluate is a native function.
//
// eval evaluates its argument, a compiled form.
func Evaluate(vm *VM, fp *Frame) error {
	r, err := vm.Eval(fp.Argv[0])
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// ApplyFunction is a native function.
//
// apply applies its first argument, a function or a symbol bound to one, to
// the elements of its second argument, a proper list, without evaluating them.
func ApplyFunction(vm *VM, fp *Frame) error {
	fn, l := fp.Argv[0], fp.Argv[1]
	if !vm.IsList(l) {
		return vm.Raise(CondType, "apply", l)
	}
	argv, ok := vm.ListSlice(l)
	if !ok {
		return vm.Raise(CondType, "apply", l)
	}
	r, err := vm.Apply(fn, argv)
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// FixFunction is a native function.
//
// fix applies its first argument, a function of one argument, to its second
// argument and then to each result until the result is eq to its argument.
func FixFunction(vm *VM, fp *Frame) error {
	fn, x := fp.Argv[0], fp.Argv[1]
	if vm.ClassOf(fn) != ClassFunction {
		return vm.Raise(CondType, "fix", fn)
	}
	r, err := vm.Fix(fn, x)
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// IfThunk is a native function.
//
// if applies its second argument if its first is not nil and its third
// otherwise. Both must be functions of no arguments. The compiler translates
// the :if special form into calls to if.
func IfThunk(vm *VM, fp *Frame) error {
	test, then, els := fp.Argv[0], fp.Argv[1], fp.Argv[2]
	if vm.ClassOf(then) != ClassFunction {
		return vm.Raise(CondType, "if", then)
	}
	if vm.ClassOf(els) != ClassFunction {
		return vm.Raise(CondType, "if", els)
	}
	branch := then
	if test == Nil {
		branch = els
	}
	r, err := vm.Apply(branch, nil)
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}

// Exit is a native function.
//
// exit ends the program with its argument, a fixnum, as the exit status.
func Exit(vm *VM, fp *Frame) error {
	status := fp.Argv[0]
	if !status.IsFixnum() {
		return vm.Raise(CondType, "exit", status)
	}
	vm.ExitStatus = int(status.Int())
	vm.exit(vm.ExitStatus)
	return nil
}
