package internal

import "math"

func (vm *VM) floatArgs(fp *Frame, src string) (float32, float32, error) {
	a, b := fp.Argv[0], fp.Argv[1]
	if vm.ClassOf(a) != ClassFloat {
		return 0, 0, vm.Raise(CondType, src, a)
	}
	if vm.ClassOf(b) != ClassFloat {
		return 0, 0, vm.Raise(CondType, src, b)
	}
	return a.Float32(), b.Float32(), nil
}

// FloatAdd is a native function.
//
// fl-add returns the sum of two floats.
func FloatAdd(vm *VM, fp *Frame) error {
	a, b, err := vm.floatArgs(fp, "fl-add")
	if err != nil {
		return err
	}
	fp.Value = Float(a + b)
	return nil
}

// FloatSub is a native function.
//
// fl-sub returns the difference of two floats.
func FloatSub(vm *VM, fp *Frame) error {
	a, b, err := vm.floatArgs(fp, "fl-sub")
	if err != nil {
		return err
	}
	fp.Value = Float(a - b)
	return nil
}

// FloatMul is a native function.
//
// fl-mul returns the product of two floats.
func FloatMul(vm *VM, fp *Frame) error {
	a, b, err := vm.floatArgs(fp, "fl-mul")
	if err != nil {
		return err
	}
	fp.Value = Float(a * b)
	return nil
}

// FloatDiv is a native function.
//
// fl-div returns the quotient of two floats. Division by zero raises a
// div0 exception.
func FloatDiv(vm *VM, fp *Frame) error {
	a, b, err := vm.floatArgs(fp, "fl-div")
	if err != nil {
		return err
	}
	if b == 0 {
		return vm.Raise(CondZeroDivide, "fl-div", fp.Argv[0])
	}
	q := a / b
	if math.IsInf(float64(q), 0) {
		return vm.Raise(CondRange, "fl-div", fp.Argv[0])
	}
	fp.Value = Float(q)
	return nil
}

// FloatLessThan is a native function.
//
// fl-lt returns t if its first argument is less than its second.
func FloatLessThan(vm *VM, fp *Frame) error {
	a, b, err := vm.floatArgs(fp, "fl-lt")
	if err != nil {
		return err
	}
	fp.Value = Bool(a < b)
	return nil
}
