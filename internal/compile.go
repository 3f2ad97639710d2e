package internal

// lexicalScope is the parameter list of a lambda being compiled.
type lexicalScope struct {
	id     FrameID
	params []Tag
}

var (
	keyQuote  = Keyword("quote")
	keyIf     = Keyword("if")
	keyLambda = Keyword("lambda")
)

// Compile translates a form into its executable representation. Special forms
// are lists headed by the keywords :quote, :if, and :lambda. References to
// lambda parameters become fr-ref calls on the frame of the lambda that binds
// them.
func (vm *VM) Compile(form Tag) (Tag, error) {
	if vm.ClassOf(form) == ClassSymbol {
		return vm.compileLexical(form), nil
	}
	if form.Type() != TagCons {
		return form, nil
	}
	head, args := vm.Car(form), vm.Cdr(form)
	switch vm.ClassOf(head) {
	case ClassKeyword:
		switch head {
		case keyQuote:
			return vm.compileQuote(args)
		case keyIf:
			return vm.compileIf(args)
		case keyLambda:
			return vm.compileLambda(args)
		}
		return Nil, vm.Raise(CondSyntax, "compile", head)
	case ClassSymbol, ClassFunction:
		l, err := vm.compileList(args)
		if err != nil {
			return Nil, err
		}
		return vm.Cons(head, l), nil
	case ClassCons:
		l, err := vm.compileList(args)
		if err != nil {
			return Nil, err
		}
		fn, err := vm.Compile(head)
		if err != nil {
			return Nil, err
		}
		if vm.ClassOf(fn) != ClassFunction {
			return Nil, vm.Raise(CondType, "compile", head)
		}
		return vm.Cons(fn, l), nil
	}
	return Nil, vm.Raise(CondType, "compile", head)
}

// compileList compiles each element of a proper list.
func (vm *VM) compileList(l Tag) (Tag, error) {
	elems, ok := vm.ListSlice(l)
	if !ok {
		return Nil, vm.Raise(CondSyntax, "compile", l)
	}
	for i, e := range elems {
		c, err := vm.Compile(e)
		if err != nil {
			return Nil, err
		}
		elems[i] = c
	}
	return vm.List(elems...), nil
}

func (vm *VM) compileQuote(args Tag) (Tag, error) {
	if vm.Length(args) != 1 {
		return Nil, vm.Raise(CondSyntax, ":quote", args)
	}
	return vm.Cons(keyQuote, args), nil
}

// compileIf rewrites (:if test then else) as a call of the if native on the
// test and two thunks.
func (vm *VM) compileIf(args Tag) (Tag, error) {
	if vm.Length(args) != 3 {
		return Nil, vm.Raise(CondSyntax, ":if", args)
	}
	thunk := func(body Tag) Tag {
		return vm.List(keyLambda, Nil, body)
	}
	form := vm.List(
		vm.ifSym,
		vm.Nth(0, args),
		thunk(vm.Nth(1, args)),
		thunk(vm.Nth(2, args)),
	)
	return vm.Compile(form)
}

func (vm *VM) compileLambda(args Tag) (Tag, error) {
	if args.Type() != TagCons {
		return Nil, vm.Raise(CondSyntax, ":lambda", args)
	}
	lambda, body := vm.Car(args), vm.Cdr(args)
	if !vm.IsList(lambda) {
		return Nil, vm.Raise(CondType, ":lambda", lambda)
	}
	params, err := vm.compileParams(lambda)
	if err != nil {
		return Nil, err
	}
	id := vm.mintFrameID()
	vm.lexenv = append(vm.lexenv, lexicalScope{id: id, params: params})
	form, err := vm.compileList(body)
	vm.lexenv = vm.lexenv[:len(vm.lexenv)-1]
	if err != nil {
		return Nil, err
	}
	return vm.NewFunction(lambda, len(params), form, id), nil
}

// compileParams checks that a lambda list is a proper list of distinct
// symbols.
func (vm *VM) compileParams(lambda Tag) ([]Tag, error) {
	params, ok := vm.ListSlice(lambda)
	if !ok {
		return nil, vm.Raise(CondSyntax, ":lambda", lambda)
	}
	vm.paramSet.Reset()
	for _, p := range params {
		if vm.ClassOf(p) != ClassSymbol {
			return nil, vm.Raise(CondType, ":lambda", p)
		}
		if !vm.paramSet.Add(uintptr(p)) {
			return nil, vm.Raise(CondSyntax, ":lambda", p)
		}
	}
	return params, nil
}

// compileLexical rewrites a symbol bound by an enclosing lambda as a frame
// reference. The innermost binding wins. Other symbols are unchanged.
func (vm *VM) compileLexical(sym Tag) Tag {
	for i := len(vm.lexenv) - 1; i >= 0; i-- {
		sc := vm.lexenv[i]
		for j, p := range sc.params {
			if p == sym {
				return vm.List(vm.frRefSym, Fixnum(int64(sc.id)), Fixnum(int64(j)))
			}
		}
	}
	return sym
}

// Compile is a native function.
//
// compile returns the compiled form of its argument.
func Compile(vm *VM, fp *Frame) error {
	r, err := vm.Compile(fp.Argv[0])
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}
