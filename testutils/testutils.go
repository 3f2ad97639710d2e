// Package testutils provides utilities for testing mu code in Go.
package testutils

import (
	"errors"
	"sync"
	"testing"

	"github.com/zephyrtronium/mu"
)

// testVM is the VM used for all tests.
var testVM *mu.VM

var testVMInit sync.Once

// VM returns a VM for testing mu. The VM is shared by all tests that use this
// package.
func VM() *mu.VM {
	testVMInit.Do(ResetVM)
	return testVM
}

// ResetVM reinitializes the VM returned by VM. It is not safe to call this in
// parallel tests.
func ResetVM() {
	testVM = mu.NewVM()
}

// A SourceTestCase is a test case containing mu source code and a predicate to
// check the result.
type SourceTestCase struct {
	// Source is the mu source code to read, compile, and evaluate.
	Source string
	// Pass is a predicate taking the result of evaluating Source. If Pass
	// returns false, then the test fails.
	Pass func(result mu.Tag, err error) bool
}

// TestFunc returns a test function for the test case. This uses VM to read
// and evaluate the code.
func (c SourceTestCase) TestFunc(name string) func(*testing.T) {
	return func(t *testing.T) {
		vm := VM()
		r, err := vm.EvalString(c.Source)
		if !c.Pass(r, err) {
			if err != nil {
				t.Errorf("%s: %q produced wrong result; an exception occurred: %v", name, c.Source, err)
			} else {
				t.Errorf("%s: %q produced wrong result; got %s", name, c.Source, vm.Sprint(r, true))
			}
		}
	}
}

// PassEqual returns a Pass function for a SourceTestCase that predicates on
// eq, i.e. the result must be exactly the given value.
func PassEqual(want mu.Tag) func(mu.Tag, error) bool {
	return func(result mu.Tag, err error) bool {
		return err == nil && result == want
	}
}

// PassFixnum returns a Pass function for a SourceTestCase that predicates on
// the result being the given fixnum.
func PassFixnum(want int64) func(mu.Tag, error) bool {
	return PassEqual(mu.Fixnum(want))
}

// PassPrinted returns a Pass function for a SourceTestCase that predicates on
// the escaped printed representation of the result.
func PassPrinted(want string) func(mu.Tag, error) bool {
	return func(result mu.Tag, err error) bool {
		return err == nil && VM().Sprint(result, true) == want
	}
}

// PassCondition returns a Pass function for a SourceTestCase that returns true
// iff evaluation raised an exception with the given condition.
func PassCondition(want mu.Condition) func(mu.Tag, error) bool {
	return func(result mu.Tag, err error) bool {
		var e *mu.Exception
		return errors.As(err, &e) && e.Condition == want
	}
}

// PassFailure returns a Pass function for a SourceTestCase that returns true
// iff evaluation raised an exception.
func PassFailure() func(mu.Tag, error) bool {
	return func(result mu.Tag, err error) bool {
		return err != nil
	}
}

// PassSuccess returns a Pass function for a SourceTestCase that returns true
// iff evaluation completed without an exception.
func PassSuccess() func(mu.Tag, error) bool {
	return func(result mu.Tag, err error) bool {
		return err == nil
	}
}
