// Command mu loads mu source files and runs a read-eval-print loop.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/mu"
	// import for side effects
	_ "github.com/zephyrtronium/mu/coreext"
)

const historyFile = ".mu_history"

// An option is a command-line action, performed in the order given.
type option struct {
	kind byte
	arg  string
}

// optFlag is a flag.Value that records each use of a flag in a shared list.
type optFlag struct {
	kind byte
	opts *[]option
}

func (f optFlag) String() string { return "" }

func (f optFlag) Set(s string) error {
	*f.opts = append(*f.opts, option{kind: f.kind, arg: s})
	return nil
}

func main() {
	os.Exit(run())
}

// exitHooks runs cleanup functions, last added first, before mu::exit ends
// the process.
type exitHooks struct {
	fns  []func()
	exit func(int)
}

func (h *exitHooks) add(f func()) {
	h.fns = append(h.fns, f)
}

// Exit runs the hooks once each and then exits with code.
func (h *exitHooks) Exit(code int) {
	fns := h.fns
	h.fns = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
	h.exit(code)
}

func run() int {
	var opts []option
	var (
		pipe    = flag.Bool("p", false, "pipe mode: no banner or prompts")
		script  = flag.Bool("s", false, "script mode: exit after loading")
		debug   = flag.Bool("d", false, "debug logging and verbose loading")
		version = flag.Bool("v", false, "print version and exit")
		conf    = flag.String("c", "", "configuration as `name:value,...`")
		yml     = flag.String("config", "", "load configuration from a YAML `file`")
		prof    = flag.String("cpuprofile", "", "write a CPU profile to `file`")
	)
	flag.Var(optFlag{'e', &opts}, "e", "evaluate `form` and print the result")
	flag.Var(optFlag{'q', &opts}, "q", "evaluate `form` quietly")
	flag.Var(optFlag{'l', &opts}, "l", "load `path`")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] [file...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Println("mu:", mu.Version)
		return 0
	}
	for _, file := range flag.Args() {
		opts = append(opts, option{kind: 'l', arg: file})
	}

	cfg, err := config(*conf, *yml)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mu:", err)
		return 2
	}
	level := slog.LevelInfo
	if *debug {
		cfg.Debug = true
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	vm, err := mu.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mu:", err)
		return 1
	}
	defer vm.Close()
	hooks := &exitHooks{exit: os.Exit}
	hooks.add(func() { vm.Close() })
	vm.SetExit(hooks.Exit)

	if *prof != "" {
		f, err := os.Create(*prof)
		if err != nil {
			fmt.Fprintln(os.Stderr, "mu:", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(os.Stderr, "mu:", err)
			return 1
		}
		defer pprof.StopCPUProfile()
		hooks.add(func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}

	for _, opt := range opts {
		switch opt.kind {
		case 'e':
			r, err := vm.EvalString(opt.arg)
			if err != nil {
				report(vm, err)
				continue
			}
			fmt.Println(vm.Sprint(r, true))
		case 'q':
			if _, err := vm.EvalString(opt.arg); err != nil {
				report(vm, err)
			}
		case 'l':
			if err := load(vm, opt.arg, *debug); err != nil {
				report(vm, err)
				fmt.Fprintf(os.Stderr, "mu: failed to load %s\n", opt.arg)
				return 1
			}
		}
	}
	if *script {
		return 0
	}
	if *pipe {
		return pipeLoop(vm)
	}
	fmt.Printf("mu: v%s; config [%s]\n", mu.Version, cfg)
	return repl(vm, hooks)
}

// config builds the VM configuration from a YAML file, if given, and then a
// name:value string.
func config(opts, file string) (mu.Config, error) {
	cfg := mu.DefaultConfig()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		cfg, err = mu.LoadConfig(f)
		if err != nil {
			return cfg, err
		}
	}
	if err := cfg.Apply(opts); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// load evaluates every form in a file. With verbose set, each form, its
// compiled form, and its value are printed as they are processed.
func load(vm *mu.VM, path string, verbose bool) error {
	st, err := vm.OpenFile(path, true)
	if err != nil {
		return err
	}
	defer vm.CloseStream(st)
	eof := vm.Cons(mu.Nil, mu.Nil)
	for {
		form, err := vm.Read(st, true, eof)
		if err != nil {
			return err
		}
		if form == eof {
			return nil
		}
		c, err := vm.Compile(form)
		if err != nil {
			return err
		}
		v, err := vm.Eval(c)
		if err != nil {
			return err
		}
		if verbose {
			fmt.Printf("%s: %s, %s, %s\n", path, vm.Sprint(form, true), vm.Sprint(c, true), vm.Sprint(v, true))
		}
	}
}

// pipeLoop evaluates forms from standard input without prompts until end of
// input.
func pipeLoop(vm *mu.VM) int {
	eof := vm.Cons(mu.Nil, mu.Nil)
	for {
		form, err := vm.Read(vm.Stdin, true, eof)
		if err != nil {
			var e *mu.Exception
			if errors.As(err, &e) && e.Condition == mu.CondEof {
				return 0
			}
			report(vm, err)
			continue
		}
		if form == eof {
			return 0
		}
		v, err := vm.CompileEval(form)
		if err != nil {
			report(vm, err)
			continue
		}
		vm.Write(v, false, vm.Stdout)
		fmt.Println()
	}
}

func repl(vm *mu.VM, hooks *exitHooks) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	done := func() {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
		ln.Close()
	}
	hooks.add(done)
	defer done()

	for {
		src, forms, ok := readForms(vm, ln, "mu> ", "... ")
		if !ok {
			fmt.Println()
			return 0
		}
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		for _, form := range forms {
			v, err := vm.CompileEval(form)
			if err != nil {
				report(vm, err)
				break
			}
			fmt.Println(vm.Sprint(v, false))
		}
	}
}

// readForms prompts for lines until they contain only complete forms, then
// returns the source and the forms read from it. The result is false at end
// of input.
func readForms(vm *mu.VM, ln *liner.State, prompt, cont string) (string, []mu.Tag, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return "", nil, true
			}
			return "", nil, false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		forms, err := readAll(vm, src)
		if err != nil {
			var e *mu.Exception
			if errors.As(err, &e) && e.Condition == mu.CondEof {
				continue
			}
			report(vm, err)
			return src, nil, true
		}
		return strings.TrimSpace(src), forms, true
	}
}

// readAll reads every form in src.
func readAll(vm *mu.VM, src string) ([]mu.Tag, error) {
	st := vm.OpenString(src, true)
	defer vm.CloseStream(st)
	eof := vm.Cons(mu.Nil, mu.Nil)
	var forms []mu.Tag
	for {
		form, err := vm.Read(st, true, eof)
		if err != nil {
			return nil, err
		}
		if form == eof {
			return forms, nil
		}
		forms = append(forms, form)
	}
}

// report prints an error to standard error, describing exceptions by their
// source, condition, and value.
func report(vm *mu.VM, err error) {
	var e *mu.Exception
	if !errors.As(err, &e) {
		fmt.Fprintln(os.Stderr, "error:", err)
		return
	}
	fmt.Fprintf(os.Stderr, "exception: raised from %s, %s condition on %s\n", e.Source, e.Condition, vm.Sprint(e.Tag, true))
}
