// Package path provides mu natives for file paths and directories. Paths use
// forward slashes on every system.
package path

import (
	"os"
	"path/filepath"

	"github.com/zephyrtronium/mu"
)

func init() {
	mu.Register(initPath)
}

func initPath(vm *mu.VM) {
	natives := []mu.Native{
		{Name: "path-abs", Scope: mu.Extern, NReq: 1, Fn: absolute},
		{Name: "path-absp", Scope: mu.Extern, NReq: 1, Fn: isPathAbsolute},
		{Name: "dir-cwd", Scope: mu.Extern, NReq: 0, Fn: currentWorkingDirectory},
		{Name: "dir-list", Scope: mu.Extern, NReq: 1, Fn: items},
	}
	for _, n := range natives {
		vm.InstallNative(n)
	}
	vm.Intern(vm.MuNS, mu.Extern, "path-sep", vm.NewString(string(filepath.Separator)))
}

func pathArg(vm *mu.VM, fp *mu.Frame, src string) (string, error) {
	s, ok := vm.StringOf(fp.Argv[0])
	if !ok {
		return "", vm.Raise(mu.CondType, src, fp.Argv[0])
	}
	return filepath.FromSlash(s), nil
}

// absolute is a native function.
//
// path-abs returns an absolute version of its argument.
func absolute(vm *mu.VM, fp *mu.Frame) error {
	p, err := pathArg(vm, fp, "path-abs")
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return vm.Raise(mu.CondError, "path-abs", fp.Argv[0])
	}
	fp.Value = vm.NewString(filepath.ToSlash(abs))
	return nil
}

// isPathAbsolute is a native function.
//
// path-absp returns t if its argument is an absolute path.
func isPathAbsolute(vm *mu.VM, fp *mu.Frame) error {
	p, err := pathArg(vm, fp, "path-absp")
	if err != nil {
		return err
	}
	fp.Value = mu.Bool(filepath.IsAbs(p))
	return nil
}

// currentWorkingDirectory is a native function.
//
// dir-cwd returns the working directory of the process.
func currentWorkingDirectory(vm *mu.VM, fp *mu.Frame) error {
	d, err := os.Getwd()
	if err != nil {
		return vm.Raise(mu.CondError, "dir-cwd", mu.Nil)
	}
	fp.Value = vm.NewString(filepath.ToSlash(d))
	return nil
}

// items is a native function.
//
// dir-list returns a list of the names of the entries in a directory, sorted.
// Directory names end with a slash.
func items(vm *mu.VM, fp *mu.Frame) error {
	d, err := pathArg(vm, fp, "dir-list")
	if err != nil {
		return err
	}
	ents, err := os.ReadDir(d)
	if err != nil {
		return vm.Raise(mu.CondOpen, "dir-list", fp.Argv[0])
	}
	names := make([]mu.Tag, len(ents))
	for i, e := range ents {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names[i] = vm.NewString(name)
	}
	fp.Value = vm.List(names...)
	return nil
}
