package mu_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/zephyrtronium/mu"
)

func newVM(t *testing.T, out *bytes.Buffer) *mu.VM {
	t.Helper()
	cfg := mu.DefaultConfig()
	cfg.Pages = 64
	cfg.Stdin = strings.NewReader("")
	cfg.Stdout = out
	cfg.Errout = out
	vm, err := mu.New(cfg)
	if err != nil {
		t.Fatalf("couldn't create VM: %v", err)
	}
	t.Cleanup(func() { vm.Close() })
	return vm
}

func TestEvalString(t *testing.T) {
	vm := newVM(t, new(bytes.Buffer))
	r, err := vm.EvalString("((:lambda (x y) (fx-add x y)) 1 2)")
	if err != nil {
		t.Fatal(err)
	}
	if r != mu.Fixnum(3) {
		t.Errorf("wrong result: %s", vm.Sprint(r, true))
	}
	if s := vm.Sprint(r, true); s != "3" {
		t.Errorf("printed %q", s)
	}
}

func TestInstallNative(t *testing.T) {
	vm := newVM(t, new(bytes.Buffer))
	fn := vm.InstallNative(mu.Native{
		Name:  "double",
		Scope: mu.Extern,
		NReq:  1,
		Fn: func(vm *mu.VM, fp *mu.Frame) error {
			n := fp.Argv[0]
			if vm.ClassOf(n) != mu.ClassFixnum {
				return mu.NewException(mu.CondType, "double", n)
			}
			fp.Value = mu.Fixnum(2 * n.Int())
			return nil
		},
	})
	if vm.ClassOf(fn) != mu.ClassFunction {
		t.Errorf("installed native is not a function")
	}
	r, err := vm.EvalString("(mu:double 21)")
	if err != nil {
		t.Fatal(err)
	}
	if r != mu.Fixnum(42) {
		t.Errorf("wrong result: %s", vm.Sprint(r, true))
	}
	_, err = vm.EvalString("(double :x)")
	if !errors.Is(err, mu.NewException(mu.CondType, "", mu.Nil)) {
		t.Errorf("wrong error: %v", err)
	}
	_, err = vm.EvalString("(double 1 2)")
	if !errors.Is(err, mu.NewException(mu.CondArity, "", mu.Nil)) {
		t.Errorf("wrong arity error: %v", err)
	}
}

func TestFacadeValues(t *testing.T) {
	vm := newVM(t, new(bytes.Buffer))
	cases := []struct {
		name string
		tag  mu.Tag
		want string
	}{
		{"Nil", mu.Nil, ":nil"},
		{"T", mu.T, ":t"},
		{"Fixnum", mu.Fixnum(-7), "-7"},
		{"Max", mu.Fixnum(mu.FixnumMax), "2305843009213693951"},
		{"Char", mu.Char('a'), `#\a`},
		{"Float", mu.Float(0.5), "0.5000"},
		{"Keyword", mu.Keyword("key"), ":key"},
		{"True", mu.Bool(true), ":t"},
		{"False", mu.Bool(false), ":nil"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := vm.Sprint(c.tag, true); got != c.want {
				t.Errorf("wrong printed form: want %q, got %q", c.want, got)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := mu.ParseConfig("pages:32,ns:app")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pages != 32 || cfg.Namespace != "app" {
		t.Errorf("wrong config: %v", cfg)
	}
	var out bytes.Buffer
	cfg.Stdout = &out
	vm, err := mu.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer vm.Close()
	if _, err := vm.EvalString(`(write "ok" :nil mu:std-out)`); err != nil {
		t.Fatal(err)
	}
	if out.String() != "ok" {
		t.Errorf("wrong output %q", out.String())
	}
	if _, err := mu.ParseConfig("pages"); err == nil {
		t.Error("malformed config parsed")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := mu.LoadConfig(strings.NewReader("pages: 16\nencoding: latin1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pages != 16 || cfg.Encoding != "latin1" || cfg.PageSize != mu.DefaultConfig().PageSize {
		t.Errorf("wrong config: %v", cfg)
	}
}
