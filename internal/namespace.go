package internal

import "github.com/zephyrtronium/contains"

// A namespace on the heap is four fields: its name, a list of its extern
// symbols, a list of its intern symbols, and the namespace it imports or nil.
// The symbol lists are maintained alongside the VM's namespace cache, which
// is authoritative for lookups.

const (
	nsNameField = iota
	nsExternsField
	nsInternsField
	nsImportField
)

// nsEntry is the cache for one registered namespace.
type nsEntry struct {
	tag     Tag
	name    string
	imp     int
	interns map[string]Tag
	externs map[string]Tag
}

func (e *nsEntry) scope(s Scope) map[string]Tag {
	if s == Intern {
		return e.interns
	}
	return e.externs
}

// namespaces is the registry of namespaces. Entries are never removed, so
// their indices are stable handles.
type namespaces struct {
	entries []*nsEntry
	byName  map[string]int
	byTag   map[Tag]int
	// chain guards import chain walks.
	chain contains.Set
}

func newNamespaces() namespaces {
	return namespaces{
		byName: make(map[string]int),
		byTag:  make(map[Tag]int),
	}
}

// NewNamespace allocates a namespace that imports imp, which must be a
// namespace or nil. The namespace is not registered; use vm.AddNS for that.
func (vm *VM) NewNamespace(name string, imp Tag) Tag {
	fields := []Tag{vm.NewString(name), Nil, Nil, imp}
	return Indirect(vm.Heap.Alloc(fields, ClassNamespace), TagHeap)
}

// AddNS registers a namespace. It returns a Type exception if a namespace with
// the same name is already registered.
func (vm *VM) AddNS(ns Tag) error {
	name := vm.NamespaceName(ns)
	if _, ok := vm.ns.byName[name]; ok {
		return vm.Raise(CondType, "add-ns", ns)
	}
	imp := -1
	if t := vm.NamespaceImport(ns); t != Nil {
		i, ok := vm.ns.byTag[t]
		if !ok {
			return vm.Raise(CondType, "add-ns", t)
		}
		imp = i
	}
	e := &nsEntry{
		tag:     ns,
		name:    name,
		imp:     imp,
		interns: make(map[string]Tag),
		externs: make(map[string]Tag),
	}
	vm.ns.byName[name] = len(vm.ns.entries)
	vm.ns.byTag[ns] = len(vm.ns.entries)
	vm.ns.entries = append(vm.ns.entries, e)
	vm.Log.Debug("add namespace", "name", name)
	return nil
}

// MapNS returns the registered namespace with the given name.
func (vm *VM) MapNS(name string) (Tag, bool) {
	i, ok := vm.ns.byName[name]
	if !ok {
		return Nil, false
	}
	return vm.ns.entries[i].tag, true
}

func (vm *VM) nsEntry(ns Tag) *nsEntry {
	i, ok := vm.ns.byTag[ns]
	if !ok {
		panic("mu: internal: namespace " + ns.String() + " is not registered")
	}
	return vm.ns.entries[i]
}

// IsNamespace reports whether t is a namespace.
func (vm *VM) IsNamespace(t Tag) bool {
	return vm.ClassOf(t) == ClassNamespace
}

// NamespaceName returns the name of a namespace.
func (vm *VM) NamespaceName(ns Tag) string {
	s, _ := vm.StringOf(vm.Heap.Field(ns.Offset(), nsNameField))
	return s
}

// NamespaceImport returns the namespace a namespace imports, or nil.
func (vm *VM) NamespaceImport(ns Tag) Tag {
	return vm.Heap.Field(ns.Offset(), nsImportField)
}

// NamespaceSymbols returns the list of symbols of a namespace in a scope.
func (vm *VM) NamespaceSymbols(ns Tag, scope Scope) Tag {
	if scope == Intern {
		return vm.Heap.Field(ns.Offset(), nsInternsField)
	}
	return vm.Heap.Field(ns.Offset(), nsExternsField)
}

// Intern returns the symbol with the given name in a registered namespace and
// scope, creating it if it does not exist. If the symbol exists but is unbound,
// its value is set in place, so symbol identity is preserved. Panics if ns is
// not registered.
func (vm *VM) Intern(ns Tag, scope Scope, name string, value Tag) Tag {
	e := vm.nsEntry(ns)
	m := e.scope(scope)
	if sy, ok := m[name]; ok {
		if !vm.IsBound(sy) {
			vm.setSymbolValue(sy, value)
		}
		return sy
	}
	sy := vm.NewSymbol(ns, scope, name, value)
	m[name] = sy
	field := nsExternsField
	if scope == Intern {
		field = nsInternsField
	}
	l := vm.Cons(sy, vm.Heap.Field(ns.Offset(), field))
	vm.Heap.WriteImage([]Tag{l}, ns.Offset()+8*uint64(field))
	return sy
}

// FindSymbol returns the symbol with the given name in a namespace and scope.
// Panics if ns is not registered.
func (vm *VM) FindSymbol(ns Tag, scope Scope, name string) (Tag, bool) {
	sy, ok := vm.nsEntry(ns).scope(scope)[name]
	return sy, ok
}

// Resolve finds the symbol an unqualified name refers to in ns: an intern or
// extern of ns itself, or else an extern of a namespace on its import chain.
func (vm *VM) Resolve(ns Tag, name string) (Tag, bool) {
	e := vm.nsEntry(ns)
	if sy, ok := e.interns[name]; ok {
		return sy, true
	}
	if sy, ok := e.externs[name]; ok {
		return sy, true
	}
	vm.ns.chain.Reset()
	for i := e.imp; i >= 0; i = vm.ns.entries[i].imp {
		if !vm.ns.chain.Add(uintptr(i)) {
			break
		}
		if sy, ok := vm.ns.entries[i].externs[name]; ok {
			return sy, true
		}
	}
	return Nil, false
}

// NamespaceIntern is a native function.
//
// intern interns a symbol. Its arguments are a namespace, a scope keyword
// (:intern or :extern), a name string, and a value.
func NamespaceIntern(vm *VM, fp *Frame) error {
	ns, scope, name, value := fp.Argv[0], fp.Argv[1], fp.Argv[2], fp.Argv[3]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "intern", ns)
	}
	s, ok := ScopeFromKeyword(scope)
	if !ok {
		return vm.Raise(CondType, "intern", scope)
	}
	n, ok := vm.StringOf(name)
	if !ok {
		return vm.Raise(CondType, "intern", name)
	}
	if _, ok := vm.ns.byTag[ns]; !ok {
		return vm.Raise(CondUnbound, "intern", ns)
	}
	fp.Value = vm.Intern(ns, s, n, value)
	return nil
}

// NamespaceMake is a native function.
//
// make-ns creates and registers a namespace named by its first argument that
// imports its second argument, a namespace or nil.
func NamespaceMake(vm *VM, fp *Frame) error {
	name, imp := fp.Argv[0], fp.Argv[1]
	n, ok := vm.StringOf(name)
	if !ok {
		return vm.Raise(CondType, "make-ns", name)
	}
	if imp != Nil && !vm.IsNamespace(imp) {
		return vm.Raise(CondType, "make-ns", imp)
	}
	ns := vm.NewNamespace(n, imp)
	if err := vm.AddNS(ns); err != nil {
		return err
	}
	fp.Value = ns
	return nil
}

// NamespaceMap is a native function.
//
// map-ns returns the registered namespace named by its argument.
func NamespaceMap(vm *VM, fp *Frame) error {
	n, ok := vm.StringOf(fp.Argv[0])
	if !ok {
		return vm.Raise(CondType, "map-ns", fp.Argv[0])
	}
	ns, ok := vm.MapNS(n)
	if !ok {
		return vm.Raise(CondUnbound, "map-ns", fp.Argv[0])
	}
	fp.Value = ns
	return nil
}

// NamespaceExterns is a native function.
//
// ns-ext returns the list of extern symbols of a namespace.
func NamespaceExterns(vm *VM, fp *Frame) error {
	ns := fp.Argv[0]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "ns-ext", ns)
	}
	fp.Value = vm.NamespaceSymbols(ns, Extern)
	return nil
}

// NamespaceInterns is a native function.
//
// ns-int returns the list of intern symbols of a namespace.
func NamespaceInterns(vm *VM, fp *Frame) error {
	ns := fp.Argv[0]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "ns-int", ns)
	}
	fp.Value = vm.NamespaceSymbols(ns, Intern)
	return nil
}

// NamespaceImportOf is a native function.
//
// ns-imp returns the namespace a namespace imports.
func NamespaceImportOf(vm *VM, fp *Frame) error {
	ns := fp.Argv[0]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "ns-imp", ns)
	}
	fp.Value = vm.NamespaceImport(ns)
	return nil
}

// NamespaceNameOf is a native function.
//
// ns-name returns the name of a namespace.
func NamespaceNameOf(vm *VM, fp *Frame) error {
	ns := fp.Argv[0]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "ns-name", ns)
	}
	fp.Value = vm.Heap.Field(ns.Offset(), nsNameField)
	return nil
}

// NamespaceFind is a native function.
//
// ns-find returns the symbol with a name in a namespace and scope, or nil.
func NamespaceFind(vm *VM, fp *Frame) error {
	ns, scope, name := fp.Argv[0], fp.Argv[1], fp.Argv[2]
	if !vm.IsNamespace(ns) {
		return vm.Raise(CondType, "ns-find", ns)
	}
	s, ok := ScopeFromKeyword(scope)
	if !ok {
		return vm.Raise(CondType, "ns-find", scope)
	}
	n, ok := vm.StringOf(name)
	if !ok {
		return vm.Raise(CondType, "ns-find", name)
	}
	if _, ok := vm.ns.byTag[ns]; !ok {
		return vm.Raise(CondUnbound, "ns-find", ns)
	}
	sy, ok := vm.FindSymbol(ns, s, n)
	if !ok {
		sy = Nil
	}
	fp.Value = sy
	return nil
}
