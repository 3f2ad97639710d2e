package internal

// Fn is the Go implementation of a native function. Its arguments are in
// fp.Argv, already evaluated and checked for count. It sets fp.Value to its
// result, or returns an error, usually an *Exception.
type Fn func(vm *VM, fp *Frame) error

// Native describes a native function installed in the mu namespace.
type Native struct {
	Name  string
	Scope Scope
	NReq  int
	Fn    Fn
}

// coreNatives is the native library of every VM. The index of a native in the
// VM's table is the form of its function object, so this order is part of
// the heap image format.
var coreNatives = []Native{
	{Name: "append", Scope: Extern, NReq: 2, Fn: ConsAppend},
	{Name: "car", Scope: Extern, NReq: 1, Fn: ConsCar},
	{Name: "cdr", Scope: Extern, NReq: 1, Fn: ConsCdr},
	{Name: "cons", Scope: Extern, NReq: 2, Fn: ConsCons},
	{Name: "length", Scope: Extern, NReq: 1, Fn: ConsLength},
	{Name: "nth", Scope: Extern, NReq: 2, Fn: ConsNth},
	{Name: "nthcdr", Scope: Extern, NReq: 2, Fn: ConsNthcdr},

	{Name: "apply", Scope: Extern, NReq: 2, Fn: ApplyFunction},
	{Name: "compile", Scope: Extern, NReq: 1, Fn: Compile},
	{Name: "eval", Scope: Extern, NReq: 1, Fn: Evaluate},
	{Name: "exit", Scope: Intern, NReq: 1, Fn: Exit},
	{Name: "fix", Scope: Extern, NReq: 2, Fn: FixFunction},
	{Name: "hp-info", Scope: Extern, NReq: 0, Fn: HeapInformation},
	{Name: "tag-of", Scope: Extern, NReq: 1, Fn: TagOf},
	{Name: "view", Scope: Extern, NReq: 1, Fn: ViewOf},

	{Name: "with-ex", Scope: Extern, NReq: 2, Fn: WithException},
	{Name: "raise", Scope: Extern, NReq: 2, Fn: RaiseException},

	{Name: "fr-get", Scope: Extern, NReq: 1, Fn: FrameGet},
	{Name: "fr-pop", Scope: Extern, NReq: 1, Fn: FramePop},
	{Name: "fr-push", Scope: Extern, NReq: 1, Fn: FramePush},

	{Name: "coerce", Scope: Extern, NReq: 2, Fn: Coerce},
	{Name: "eq", Scope: Extern, NReq: 2, Fn: Eq},
	{Name: "type-of", Scope: Extern, NReq: 1, Fn: TypeOf},

	{Name: "fx-add", Scope: Extern, NReq: 2, Fn: FixnumAdd},
	{Name: "fx-sub", Scope: Extern, NReq: 2, Fn: FixnumSub},
	{Name: "fx-lt", Scope: Extern, NReq: 2, Fn: FixnumLessThan},
	{Name: "fx-mul", Scope: Extern, NReq: 2, Fn: FixnumMul},
	{Name: "fx-div", Scope: Extern, NReq: 2, Fn: FixnumDiv},
	{Name: "logand", Scope: Extern, NReq: 2, Fn: FixnumAnd},
	{Name: "logor", Scope: Extern, NReq: 2, Fn: FixnumOr},

	{Name: "fl-add", Scope: Extern, NReq: 2, Fn: FloatAdd},
	{Name: "fl-sub", Scope: Extern, NReq: 2, Fn: FloatSub},
	{Name: "fl-lt", Scope: Extern, NReq: 2, Fn: FloatLessThan},
	{Name: "fl-mul", Scope: Extern, NReq: 2, Fn: FloatMul},
	{Name: "fl-div", Scope: Extern, NReq: 2, Fn: FloatDiv},

	{Name: "intern", Scope: Extern, NReq: 4, Fn: NamespaceIntern},
	{Name: "make-ns", Scope: Extern, NReq: 2, Fn: NamespaceMake},
	{Name: "map-ns", Scope: Extern, NReq: 1, Fn: NamespaceMap},
	{Name: "ns-ext", Scope: Extern, NReq: 1, Fn: NamespaceExterns},
	{Name: "ns-imp", Scope: Extern, NReq: 1, Fn: NamespaceImportOf},
	{Name: "ns-int", Scope: Extern, NReq: 1, Fn: NamespaceInterns},
	{Name: "ns-find", Scope: Extern, NReq: 3, Fn: NamespaceFind},
	{Name: "ns-name", Scope: Extern, NReq: 1, Fn: NamespaceNameOf},

	{Name: "read", Scope: Extern, NReq: 3, Fn: StreamRead},
	{Name: "write", Scope: Extern, NReq: 3, Fn: StreamWrite},

	{Name: "boundp", Scope: Extern, NReq: 1, Fn: SymbolBoundp},
	{Name: "keyp", Scope: Extern, NReq: 1, Fn: SymbolKeyp},
	{Name: "keyword", Scope: Extern, NReq: 1, Fn: SymbolKeyword},
	{Name: "symbol", Scope: Extern, NReq: 1, Fn: SymbolMake},
	{Name: "sy-name", Scope: Extern, NReq: 1, Fn: SymbolNameOf},
	{Name: "sy-ns", Scope: Extern, NReq: 1, Fn: SymbolNamespaceOf},
	{Name: "sy-val", Scope: Extern, NReq: 1, Fn: SymbolValueOf},

	{Name: "vector", Scope: Extern, NReq: 2, Fn: VectorMake},
	{Name: "sv-len", Scope: Extern, NReq: 1, Fn: VectorLength},
	{Name: "sv-ref", Scope: Extern, NReq: 2, Fn: VectorElt},
	{Name: "sv-type", Scope: Extern, NReq: 1, Fn: VectorElemType},

	{Name: "struct", Scope: Extern, NReq: 2, Fn: StructMake},
	{Name: "st-type", Scope: Extern, NReq: 1, Fn: StructTypeOf},
	{Name: "st-vec", Scope: Extern, NReq: 1, Fn: StructVec},

	{Name: "close", Scope: Extern, NReq: 1, Fn: StreamClose},
	{Name: "eof", Scope: Extern, NReq: 1, Fn: StreamEOF},
	{Name: "get-str", Scope: Extern, NReq: 1, Fn: StreamGetString},
	{Name: "open", Scope: Extern, NReq: 3, Fn: StreamOpen},
	{Name: "openp", Scope: Extern, NReq: 1, Fn: StreamOpenp},
	{Name: "rd-byte", Scope: Extern, NReq: 3, Fn: StreamReadByte},
	{Name: "rd-char", Scope: Extern, NReq: 3, Fn: StreamReadChar},
	{Name: "un-char", Scope: Extern, NReq: 2, Fn: StreamUnreadChar},
	{Name: "wr-byte", Scope: Extern, NReq: 2, Fn: StreamWriteByte},
	{Name: "wr-char", Scope: Extern, NReq: 2, Fn: StreamWriteChar},

	{Name: "if", Scope: Intern, NReq: 3, Fn: IfThunk},
	{Name: "fr-ref", Scope: Intern, NReq: 2, Fn: FrameReference},
}

// InstallNative adds a native to the VM's table and binds a function for it
// to its name in the mu namespace. It returns the function.
func (vm *VM) InstallNative(n Native) Tag {
	idx := len(vm.natives)
	vm.natives = append(vm.natives, n)
	fn := vm.NewFunction(Nil, n.NReq, Fixnum(int64(idx)), 0)
	vm.Intern(vm.MuNS, n.Scope, n.Name, fn)
	return fn
}

// Natives returns the names of the VM's natives in table order.
func (vm *VM) Natives() []string {
	r := make([]string, len(vm.natives))
	for i, n := range vm.natives {
		r[i] = n.Name
	}
	return r
}
