// Package clock provides mu natives for wall clock and run time.
package clock

import (
	"time"

	"github.com/zephyrtronium/mu"

	"gitlab.com/variadico/lctime"
)

func init() {
	mu.Register(initClock)
}

func initClock(vm *mu.VM) {
	natives := []mu.Native{
		{Name: "real-tm", Scope: mu.Extern, NReq: 0, Fn: realTime},
		{Name: "run-us", Scope: mu.Extern, NReq: 0, Fn: runTime},
		{Name: "strftime", Scope: mu.Extern, NReq: 1, Fn: strftime},
		{Name: "time-of", Scope: mu.Extern, NReq: 1, Fn: timeOf},
	}
	for _, n := range natives {
		vm.InstallNative(n)
	}
}

// realTime is a native function.
//
// real-tm returns the number of seconds since the Unix epoch.
func realTime(vm *mu.VM, fp *mu.Frame) error {
	fp.Value = mu.Fixnum(time.Now().Unix())
	return nil
}

// runTime is a native function.
//
// run-us returns the number of microseconds since the VM was created.
func runTime(vm *mu.VM, fp *mu.Frame) error {
	fp.Value = mu.Fixnum(time.Since(vm.StartTime).Microseconds())
	return nil
}

// strftime is a native function.
//
// strftime formats the current local time according to a C strftime format
// string.
func strftime(vm *mu.VM, fp *mu.Frame) error {
	format, ok := vm.StringOf(fp.Argv[0])
	if !ok {
		return vm.Raise(mu.CondType, "strftime", fp.Argv[0])
	}
	fp.Value = vm.NewString(lctime.Strftime(format, time.Now()))
	return nil
}

// timeOf is a native function.
//
// time-of applies a thunk and returns the number of microseconds it took.
func timeOf(vm *mu.VM, fp *mu.Frame) error {
	fn := fp.Argv[0]
	if vm.ClassOf(fn) != mu.ClassFunction {
		return vm.Raise(mu.CondType, "time-of", fn)
	}
	t := time.Now()
	if _, err := vm.Apply(fn, nil); err != nil {
		return err
	}
	fp.Value = mu.Fixnum(time.Since(t).Microseconds())
	return nil
}
