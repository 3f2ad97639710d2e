package internal

// fixnumArgs checks that both arguments of a binary fixnum native are
// fixnums.
func (vm *VM) fixnumArgs(fp *Frame, src string) (int64, int64, error) {
	a, b := fp.Argv[0], fp.Argv[1]
	if !a.IsFixnum() {
		return 0, 0, vm.Raise(CondType, src, a)
	}
	if !b.IsFixnum() {
		return 0, 0, vm.Raise(CondType, src, b)
	}
	return a.Int(), b.Int(), nil
}

// fixnumResult stores n in fp, raising a Range exception if it does not fit.
func (vm *VM) fixnumResult(fp *Frame, src string, n int64) error {
	if !FixnumOK(n) {
		return vm.Raise(CondRange, src, fp.Argv[0])
	}
	fp.Value = Fixnum(n)
	return nil
}

// FixnumAdd is a native function.
//
// fx-add returns the sum of two fixnums.
func FixnumAdd(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "fx-add")
	if err != nil {
		return err
	}
	return vm.fixnumResult(fp, "fx-add", a+b)
}

// FixnumSub is a native function.
//
// fx-sub returns the difference of two fixnums.
func FixnumSub(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "fx-sub")
	if err != nil {
		return err
	}
	return vm.fixnumResult(fp, "fx-sub", a-b)
}

// FixnumMul is a native function.
//
// fx-mul returns the product of two fixnums.
func FixnumMul(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "fx-mul")
	if err != nil {
		return err
	}
	p := a * b
	if a != 0 && p/a != b {
		return vm.Raise(CondRange, "fx-mul", fp.Argv[0])
	}
	return vm.fixnumResult(fp, "fx-mul", p)
}

// FixnumDiv is a native function.
//
// fx-div returns the quotient of two fixnums, truncated toward zero.
func FixnumDiv(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "fx-div")
	if err != nil {
		return err
	}
	if b == 0 {
		return vm.Raise(CondZeroDivide, "fx-div", fp.Argv[0])
	}
	return vm.fixnumResult(fp, "fx-div", a/b)
}

// FixnumLessThan is a native function.
//
// fx-lt returns t if its first argument is less than its second.
func FixnumLessThan(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "fx-lt")
	if err != nil {
		return err
	}
	fp.Value = Bool(a < b)
	return nil
}

// FixnumAnd is a native function.
//
// logand returns the bitwise and of two fixnums.
func FixnumAnd(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "logand")
	if err != nil {
		return err
	}
	fp.Value = Fixnum(a & b)
	return nil
}

// FixnumOr is a native function.
//
// logor returns the bitwise or of two fixnums.
func FixnumOr(vm *VM, fp *Frame) error {
	a, b, err := vm.fixnumArgs(fp, "logor")
	if err != nil {
		return err
	}
	fp.Value = Fixnum(a | b)
	return nil
}
