package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zephyrtronium/contains"
	"golang.org/x/text/encoding"
)

// Version is the runtime version, bound to mu:version.
const Version = "0.0.4"

// VM is a mu runtime: a heap, its namespaces, the native table, and the
// evaluator state. A VM is not safe for concurrent use.
type VM struct {
	// Config is the configuration the VM was created with.
	Config Config
	// Heap holds every indirect value.
	Heap *Heap
	// Log receives structured log records.
	Log *slog.Logger

	// MuNS is the namespace of the natives and globals. UserNS is the
	// default namespace, importing MuNS. DefaultNS is where the reader
	// resolves unqualified symbols; it starts as UserNS.
	MuNS      Tag
	UserNS    Tag
	DefaultNS Tag

	// Standard streams.
	Stdin  Tag
	Stdout Tag
	Errout Tag

	natives []Native
	ns      namespaces
	streams []*stream
	enc     encoding.Encoding

	// frames maps frame IDs to their stacks of activations.
	frames      map[FrameID]*frameStack
	lastFrameID FrameID
	// lexenv is the stack of lambdas enclosing the form being compiled.
	lexenv   []lexicalScope
	paramSet contains.Set

	ifSym    Tag
	frRefSym Tag

	// StartTime is the time at which VM initialization began.
	StartTime time.Time
	// ExitStatus is the value passed to mu::exit.
	ExitStatus int
	exit       func(int)
}

// New creates a VM with the given configuration.
func New(cfg Config) (*VM, error) {
	if cfg.Pages == 0 && cfg.PageSize == 0 {
		def := DefaultConfig()
		cfg.Pages, cfg.PageSize = def.Pages, def.PageSize
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "user"
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	enc, err := Encoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	heap, err := NewHeap(cfg.Pages, cfg.PageSize)
	if err != nil {
		return nil, err
	}
	haveVM = true
	vm := VM{
		Config:    cfg,
		Heap:      heap,
		Log:       cfg.Logger,
		enc:       enc,
		ns:        newNamespaces(),
		frames:    make(map[FrameID]*frameStack),
		StartTime: time.Now(),
		exit:      os.Exit,
	}
	if vm.Log == nil {
		vm.Log = slog.New(discardHandler{})
		if cfg.Debug {
			vm.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}
	heap.HighWater = func(used, size int) {
		vm.Log.Warn("heap nearly exhausted", "used", used, "size", size)
	}

	// The mu namespace must exist before natives can be installed, and the
	// natives must exist before anything can be compiled.
	vm.initNamespaces()
	vm.initNatives()
	vm.initGlobals()
	for _, ext := range coreExt {
		ext(&vm)
	}
	return &vm, nil
}

// NewVM creates a VM with the default configuration. Panics on any error.
func NewVM() *VM {
	vm, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Errorf("mu: couldn't create VM: %w", err))
	}
	return vm
}

// Close releases the VM's heap. The VM must not be used afterward.
func (vm *VM) Close() error {
	return vm.Heap.Close()
}

// SetExit replaces the function mu::exit calls to end the process.
func (vm *VM) SetExit(f func(int)) {
	vm.exit = f
}

func (vm *VM) initNamespaces() {
	vm.MuNS = vm.NewNamespace("mu", Nil)
	if err := vm.AddNS(vm.MuNS); err != nil {
		panic("mu: internal: " + err.Error())
	}
	vm.UserNS = vm.NewNamespace(vm.Config.Namespace, vm.MuNS)
	if err := vm.AddNS(vm.UserNS); err != nil {
		panic("mu: internal: " + err.Error())
	}
	vm.DefaultNS = vm.UserNS
}

func (vm *VM) initNatives() {
	for _, n := range coreNatives {
		vm.InstallNative(n)
	}
	vm.ifSym, _ = vm.FindSymbol(vm.MuNS, Intern, "if")
	vm.frRefSym, _ = vm.FindSymbol(vm.MuNS, Intern, "fr-ref")
}

func (vm *VM) initGlobals() {
	stdin, stdout, errout := vm.Config.Stdin, vm.Config.Stdout, vm.Config.Errout
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if errout == nil {
		errout = os.Stderr
	}
	vm.Stdin = vm.OpenReader("std-in", stdin)
	vm.Stdout = vm.OpenWriter("std-out", stdout)
	vm.Errout = vm.OpenWriter("err-out", errout)
	vm.Intern(vm.MuNS, Extern, "version", vm.NewString(Version))
	vm.Intern(vm.MuNS, Extern, "std-in", vm.Stdin)
	vm.Intern(vm.MuNS, Extern, "std-out", vm.Stdout)
	vm.Intern(vm.MuNS, Extern, "err-out", vm.Errout)
}

// EvalString reads, compiles, and evaluates the first form in s.
func (vm *VM) EvalString(s string) (Tag, error) {
	form, err := vm.ReadString(s)
	if err != nil {
		return Nil, err
	}
	return vm.CompileEval(form)
}

// CompileEval compiles and evaluates a form.
func (vm *VM) CompileEval(form Tag) (Tag, error) {
	c, err := vm.Compile(form)
	if err != nil {
		return Nil, err
	}
	return vm.Eval(c)
}

// Load reads, compiles, and evaluates every form in an input stream.
func (vm *VM) Load(stream Tag) error {
	eof := vm.Cons(Nil, Nil)
	for {
		form, err := vm.Read(stream, true, eof)
		if err != nil {
			return err
		}
		if form == eof {
			return nil
		}
		if _, err := vm.CompileEval(form); err != nil {
			return err
		}
	}
}

// Register registers a core extension. Each function is called in the order it
// is registered; extensions that depend on other extensions need only import
// them. Register should be called from within init funcs. Panics if New has
// been called.
func Register(f func(*VM)) {
	if haveVM {
		panic("mu/internal: Register must be called before any VM is created")
	}
	coreExt = append(coreExt, f)
}

// coreExt is a list of core extensions that have been registered.
var coreExt = make([]func(*VM), 0, 10)

// haveVM is set once any VM has been created.
var haveVM bool

// discardHandler is a slog.Handler that drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
