package internal

// Cons allocates a new cons.
func (vm *VM) Cons(car, cdr Tag) Tag {
	return Indirect(vm.Heap.Alloc([]Tag{car, cdr}, ClassCons), TagCons)
}

// Car returns the car of a list. The car of nil is nil. Panics if t is not a
// list.
func (vm *VM) Car(t Tag) Tag {
	if t == Nil {
		return Nil
	}
	vm.mustType(t, TagCons, "car")
	return vm.Heap.Field(t.Offset(), 0)
}

// Cdr returns the cdr of a list. The cdr of nil is nil. Panics if t is not a
// list.
func (vm *VM) Cdr(t Tag) Tag {
	if t == Nil {
		return Nil
	}
	vm.mustType(t, TagCons, "cdr")
	return vm.Heap.Field(t.Offset(), 1)
}

func (vm *VM) mustType(t Tag, tt TagType, op string) {
	if t.Type() != tt {
		panic("mu: internal: " + op + " of " + t.String())
	}
}

// List creates a proper list of the given elements.
func (vm *VM) List(elems ...Tag) Tag {
	r := Nil
	for i := len(elems) - 1; i >= 0; i-- {
		r = vm.Cons(elems[i], r)
	}
	return r
}

// ListSlice returns the elements of a proper list. The result is false if t
// is not a proper list.
func (vm *VM) ListSlice(t Tag) ([]Tag, bool) {
	var r []Tag
	for t != Nil {
		if t.Type() != TagCons {
			return r, false
		}
		r = append(r, vm.Car(t))
		t = vm.Cdr(t)
	}
	return r, true
}

// Length returns the number of conses in a proper list, or -1 if t is not a
// proper list.
func (vm *VM) Length(t Tag) int {
	n := 0
	for ; t != Nil; t = vm.Cdr(t) {
		if t.Type() != TagCons {
			return -1
		}
		n++
	}
	return n
}

// Nthcdr returns the result of taking the cdr of t n times.
func (vm *VM) Nthcdr(n int, t Tag) Tag {
	for ; n > 0 && t.Type() == TagCons; n-- {
		t = vm.Cdr(t)
	}
	if n > 0 {
		return Nil
	}
	return t
}

// Nth returns the n'th element of a list, or nil if the list is too short.
func (vm *VM) Nth(n int, t Tag) Tag {
	t = vm.Nthcdr(n, t)
	if t.Type() != TagCons {
		return Nil
	}
	return vm.Car(t)
}

// ConsCar is a native function.
//
// car returns the first element of a list.
func ConsCar(vm *VM, fp *Frame) error {
	l := fp.Argv[0]
	if !vm.IsList(l) {
		return vm.Raise(CondType, "car", l)
	}
	fp.Value = vm.Car(l)
	return nil
}

// ConsCdr is a native function.
//
// cdr returns a list without its first element.
func ConsCdr(vm *VM, fp *Frame) error {
	l := fp.Argv[0]
	if !vm.IsList(l) {
		return vm.Raise(CondType, "cdr", l)
	}
	fp.Value = vm.Cdr(l)
	return nil
}

// ConsCons is a native function.
//
// cons creates a new cons from its two arguments.
func ConsCons(vm *VM, fp *Frame) error {
	fp.Value = vm.Cons(fp.Argv[0], fp.Argv[1])
	return nil
}

// ConsLength is a native function.
//
// length returns the number of elements in a proper list.
func ConsLength(vm *VM, fp *Frame) error {
	l := fp.Argv[0]
	n := -1
	if vm.IsList(l) {
		n = vm.Length(l)
	}
	if n < 0 {
		return vm.Raise(CondType, "length", l)
	}
	fp.Value = Fixnum(int64(n))
	return nil
}

// ConsNth is a native function.
//
// nth returns the element of a list at a nonnegative index, or nil if the list
// is too short.
func ConsNth(vm *VM, fp *Frame) error {
	n, l := fp.Argv[0], fp.Argv[1]
	if !n.IsFixnum() || n.Int() < 0 {
		return vm.Raise(CondType, "nth", n)
	}
	if !vm.IsList(l) {
		return vm.Raise(CondType, "nth", l)
	}
	fp.Value = vm.Nth(int(n.Int()), l)
	return nil
}

// ConsNthcdr is a native function.
//
// nthcdr returns the tail of a list starting at a nonnegative index.
func ConsNthcdr(vm *VM, fp *Frame) error {
	n, l := fp.Argv[0], fp.Argv[1]
	if !n.IsFixnum() || n.Int() < 0 {
		return vm.Raise(CondType, "nthcdr", n)
	}
	if !vm.IsList(l) {
		return vm.Raise(CondType, "nthcdr", l)
	}
	fp.Value = vm.Nthcdr(int(n.Int()), l)
	return nil
}

// ConsAppend is a native function.
//
// append returns a list of the elements of its first argument, a proper list,
// followed by its second argument. The second argument is shared.
func ConsAppend(vm *VM, fp *Frame) error {
	a, b := fp.Argv[0], fp.Argv[1]
	if !vm.IsList(a) {
		return vm.Raise(CondType, "append", a)
	}
	elems, ok := vm.ListSlice(a)
	if !ok {
		return vm.Raise(CondType, "append", a)
	}
	r := b
	for i := len(elems) - 1; i >= 0; i-- {
		r = vm.Cons(elems[i], r)
	}
	fp.Value = r
	return nil
}
