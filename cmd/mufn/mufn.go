// Command mufn lists the functions in Go packages that can serve as mu
// natives, formatted as rows of a native table.
//
// Usage:
//
//	mufn [-match re] [-ignore re] [-trim prefix] [-scope Extern] [-nreq n] [-fn pkg] pkgs...
//
// A function qualifies when it is exported and assignable to the Fn type of
// the package named by -fn. Each row names the native after the function, with
// the -trim prefix removed and CamelCase turned into kebab-case, so that
// FixnumAdd with -trim Fixnum becomes add. Go signatures do not carry mu
// arity, so every row gets the -nreq count; without -nreq, rows get NReq 0 and
// a comment marking the arity as unchecked.
package main

import (
	"errors"
	"flag"
	"fmt"
	"go/types"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

type lister struct {
	match, ignore *regexp.Regexp
	trim          string
	scope         string
	nreq          int
	fn            types.Type
}

func main() {
	var (
		match  = flag.String("match", ".", "include only functions matching this regular expression")
		ignore = flag.String("ignore", "$^", "exclude functions matching this regular expression")
		trim   = flag.String("trim", "", "prefix to remove from function names")
		scope  = flag.String("scope", "Extern", "symbol scope for each row, Intern or Extern")
		nreq   = flag.Int("nreq", -1, "number of required arguments for each row")
		fnpkg  = flag.String("fn", "github.com/zephyrtronium/mu/internal", "import path of the package defining Fn")
	)
	flag.Parse()
	if *scope != "Intern" && *scope != "Extern" {
		fail(fmt.Errorf("scope must be Intern or Extern, not %q", *scope))
	}
	var l lister
	var err error
	if l.match, err = regexp.Compile(*match); err != nil {
		fail(fmt.Errorf("bad -match: %w", err))
	}
	if l.ignore, err = regexp.Compile(*ignore); err != nil {
		fail(fmt.Errorf("bad -ignore: %w", err))
	}
	l.trim, l.scope, l.nreq = *trim, *scope, *nreq

	cfg := packages.Config{Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports}
	pkgs, err := packages.Load(&cfg, append([]string{*fnpkg}, flag.Args()...)...)
	if err != nil {
		fail(fmt.Errorf("couldn't load packages: %w", err))
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}
	if l.fn, err = fnType(pkgs[0].Types); err != nil {
		fail(err)
	}
	if len(pkgs) == 1 {
		pkgs = pkgs[:1]
	} else {
		pkgs = pkgs[1:]
	}
	var rows []string
	for _, pkg := range pkgs {
		rows = append(rows, l.natives(pkg.Types.Scope())...)
	}
	sort.Strings(rows)
	for _, name := range rows {
		fmt.Println(l.row(name))
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "mufn:", err)
	os.Exit(1)
}

// fnType returns the signature underlying pkg's Fn type.
func fnType(pkg *types.Package) (types.Type, error) {
	obj, ok := pkg.Scope().Lookup("Fn").(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("package %s has no Fn type", pkg.Path())
	}
	sig, ok := obj.Type().Underlying().(*types.Signature)
	if !ok {
		return nil, errors.New("Fn is not a function type")
	}
	return sig, nil
}

// natives returns the names of the functions in scope that can be natives.
func (l *lister) natives(scope *types.Scope) []string {
	var r []string
	for _, name := range scope.Names() {
		if !l.match.MatchString(name) || l.ignore.MatchString(name) {
			continue
		}
		f, ok := scope.Lookup(name).(*types.Func)
		if ok && f.Exported() && types.AssignableTo(f.Type(), l.fn) {
			r = append(r, name)
		}
	}
	return r
}

// row formats a native table entry for the function name.
func (l *lister) row(name string) string {
	if l.nreq < 0 {
		return fmt.Sprintf("\t{Name: %q, Scope: %s, NReq: 0, Fn: %s}, // unchecked arity", l.nativeName(name), l.scope, name)
	}
	return fmt.Sprintf("\t{Name: %q, Scope: %s, NReq: %d, Fn: %s},", l.nativeName(name), l.scope, l.nreq, name)
}

// nativeName converts a Go function name into a mu symbol name.
func (l *lister) nativeName(name string) string {
	name = strings.TrimPrefix(name, l.trim)
	var b strings.Builder
	for i, r := range name {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
