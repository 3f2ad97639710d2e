package internal_test

import (
	"bytes"
	"testing"

	"github.com/zephyrtronium/mu/internal"
	"github.com/zephyrtronium/mu/testutils"
)

// newVM creates a VM with its own heap for tests that change global state.
func newVM(t *testing.T) *internal.VM {
	t.Helper()
	cfg := internal.DefaultConfig()
	cfg.Pages = 64
	cfg.Stdin = bytes.NewReader(nil)
	cfg.Stdout = new(bytes.Buffer)
	cfg.Errout = new(bytes.Buffer)
	vm, err := internal.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { vm.Close() })
	return vm
}

// TestNewVM tests that NewVM creates a VM.
func TestNewVM(t *testing.T) {
	if testutils.VM() == nil {
		t.Fatal("testVM is nil")
	}
}

// TestNewVMAttrs tests that a new VM has the namespaces and globals we expect.
func TestNewVMAttrs(t *testing.T) {
	vm := testutils.VM()
	if vm.StartTime.IsZero() {
		t.Error("StartTime is zero")
	}
	if !vm.IsNamespace(vm.MuNS) || vm.NamespaceName(vm.MuNS) != "mu" {
		t.Error("MuNS is not the mu namespace")
	}
	if !vm.IsNamespace(vm.UserNS) || vm.NamespaceName(vm.UserNS) != "user" {
		t.Error("UserNS is not the user namespace")
	}
	if vm.NamespaceImport(vm.UserNS) != vm.MuNS {
		t.Error("user does not import mu")
	}
	if vm.DefaultNS != vm.UserNS {
		t.Error("default namespace is not user")
	}
	for _, name := range []string{"version", "std-in", "std-out", "err-out"} {
		sy, ok := vm.FindSymbol(vm.MuNS, internal.Extern, name)
		if !ok || !vm.IsBound(sy) {
			t.Errorf("mu:%s is not bound", name)
		}
	}
	for _, s := range []internal.Tag{vm.Stdin, vm.Stdout, vm.Errout} {
		if !vm.IsStream(s) || !vm.IsOpen(s) {
			t.Errorf("%s is not an open stream", vm.Sprint(s, true))
		}
	}
}

// TestNatives tests that every native is bound in the mu namespace with its
// scope.
func TestNatives(t *testing.T) {
	vm := testutils.VM()
	for _, name := range vm.Natives() {
		scope := internal.Extern
		switch name {
		case "if", "fr-ref", "exit":
			scope = internal.Intern
		}
		sy, ok := vm.FindSymbol(vm.MuNS, scope, name)
		if !ok {
			t.Errorf("native %s not interned as %s", name, scope)
			continue
		}
		if vm.ClassOf(vm.SymbolValue(sy)) != internal.ClassFunction {
			t.Errorf("native %s not bound to a function", name)
		}
	}
}

func TestNewConfigErrors(t *testing.T) {
	cases := map[string]internal.Config{
		"pageSize": {Pages: 1, PageSize: 12, Namespace: "user", Encoding: "utf-8"},
		"ns":       {Pages: 1, PageSize: 64, Namespace: "mu", Encoding: "utf-8"},
		"encoding": {Pages: 1, PageSize: 64, Namespace: "user", Encoding: "no-such-encoding"},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			vm, err := internal.New(cfg)
			if err == nil {
				vm.Close()
				t.Error("no error")
			}
		})
	}
}

func TestNewNamespaceOption(t *testing.T) {
	cfg := internal.DefaultConfig()
	cfg.Pages = 16
	cfg.Namespace = "app"
	vm, err := internal.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer vm.Close()
	if vm.NamespaceName(vm.DefaultNS) != "app" {
		t.Errorf("default namespace is %q", vm.NamespaceName(vm.DefaultNS))
	}
	if _, ok := vm.MapNS("user"); ok {
		t.Error("user namespace exists")
	}
}

func TestLoad(t *testing.T) {
	vm := newVM(t)
	st := vm.OpenString(`
		; two forms
		(fx-add 1 2)
		(make-ns "loaded" :nil)
	`, true)
	if err := vm.Load(st); err != nil {
		t.Fatal(err)
	}
	if _, ok := vm.MapNS("loaded"); !ok {
		t.Error("second form not evaluated")
	}
	st = vm.OpenString(`(fx-add 1 2) (car 1) (make-ns "unloaded" :nil)`, true)
	if err := vm.Load(st); err == nil {
		t.Error("no error from bad form")
	}
	if _, ok := vm.MapNS("unloaded"); ok {
		t.Error("load continued after an error")
	}
}

func TestExit(t *testing.T) {
	vm := newVM(t)
	code := -1
	vm.SetExit(func(c int) { code = c })
	if _, err := vm.EvalString(`(mu::exit 3)`); err != nil {
		t.Fatal(err)
	}
	if code != 3 || vm.ExitStatus != 3 {
		t.Errorf("exit status %d, ExitStatus %d", code, vm.ExitStatus)
	}
}
