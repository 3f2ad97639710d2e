package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zephyrtronium/mu"
)

func TestExitHooks(t *testing.T) {
	cfg := mu.DefaultConfig()
	cfg.Pages = 64
	cfg.Stdin = strings.NewReader("")
	cfg.Stdout = new(bytes.Buffer)
	cfg.Errout = new(bytes.Buffer)
	vm, err := mu.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer vm.Close()

	var order []string
	code := -1
	hooks := &exitHooks{exit: func(c int) { code = c }}
	hooks.add(func() { order = append(order, "close") })
	hooks.add(func() { order = append(order, "profile") })
	vm.SetExit(hooks.Exit)

	if _, err := vm.EvalString("(mu::exit 4)"); err != nil {
		t.Fatal(err)
	}
	if code != 4 {
		t.Errorf("exit code %d, want 4", code)
	}
	if strings.Join(order, " ") != "profile close" {
		t.Errorf("hooks ran as %v", order)
	}
	order = nil
	hooks.Exit(0)
	if len(order) != 0 {
		t.Errorf("hooks ran twice: %v", order)
	}
}
