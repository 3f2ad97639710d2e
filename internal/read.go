package internal

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// syntax classes of characters outside tokens
func isTerminator(r rune) bool {
	switch r {
	case '(', ')', '\'', '"', ';':
		return true
	}
	return unicode.IsSpace(r)
}

var charByName = map[string]rune{
	"space":    ' ',
	"tab":      '\t',
	"linefeed": '\n',
	"newline":  '\n',
	"page":     '\f',
	"return":   '\r',
}

// closeParen is returned internally when the reader meets a ')'.
var closeParen = Char(')')

// Read reads one form from an input stream. At end of input, Read returns
// eofValue if eofp is true and an Eof exception otherwise. Unqualified symbols
// resolve in the default namespace and its imports; unresolved ones are
// interned there unbound.
func (vm *VM) Read(stream Tag, eofp bool, eofValue Tag) (Tag, error) {
	r, ok, err := vm.skipSpace(stream)
	if err != nil {
		return Nil, err
	}
	if !ok {
		if eofp {
			return eofValue, nil
		}
		return Nil, vm.Raise(CondEof, "read", stream)
	}
	t, err := vm.readForm(stream, r)
	if err != nil {
		return Nil, err
	}
	if t == closeParen {
		return Nil, vm.Raise(CondSyntax, "read", Char(')'))
	}
	return t, nil
}

// ReadString reads the first form in s.
func (vm *VM) ReadString(s string) (Tag, error) {
	st := vm.OpenString(s, true)
	defer vm.CloseStream(st)
	return vm.Read(st, false, Nil)
}

// skipSpace consumes whitespace and comments and returns the next character.
// The result is false at end of input.
func (vm *VM) skipSpace(stream Tag) (rune, bool, error) {
	for {
		r, ok, err := vm.ReadChar(stream)
		if err != nil || !ok {
			return 0, false, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case r == ';':
			for r != '\n' {
				r, ok, err = vm.ReadChar(stream)
				if err != nil || !ok {
					return 0, false, err
				}
			}
		case r == '#':
			n, ok, err := vm.ReadChar(stream)
			if err != nil {
				return 0, false, err
			}
			if !ok || n != '|' {
				if ok {
					vm.UnreadChar(stream, n)
				}
				return r, true, nil
			}
			if err := vm.skipBlockComment(stream); err != nil {
				return 0, false, err
			}
		default:
			return r, true, nil
		}
	}
}

func (vm *VM) skipBlockComment(stream Tag) error {
	var prev rune
	for {
		r, ok, err := vm.ReadChar(stream)
		if err != nil {
			return err
		}
		if !ok {
			return vm.Raise(CondEof, "read", stream)
		}
		if prev == '|' && r == '#' {
			return nil
		}
		prev = r
	}
}

// readForm reads the form starting with r, which is not whitespace.
func (vm *VM) readForm(stream Tag, r rune) (Tag, error) {
	switch r {
	case '(':
		return vm.readList(stream)
	case ')':
		return closeParen, nil
	case '\'':
		t, err := vm.readNext(stream)
		if err != nil {
			return Nil, err
		}
		return vm.List(keyQuote, t), nil
	case '"':
		return vm.readString(stream)
	case '#':
		return vm.readSharp(stream)
	}
	tok, err := vm.readToken(stream, r)
	if err != nil {
		return Nil, err
	}
	return vm.parseAtom(tok)
}

// readNext reads a form that must be present.
func (vm *VM) readNext(stream Tag) (Tag, error) {
	r, ok, err := vm.skipSpace(stream)
	if err != nil {
		return Nil, err
	}
	if !ok {
		return Nil, vm.Raise(CondEof, "read", stream)
	}
	t, err := vm.readForm(stream, r)
	if err != nil {
		return Nil, err
	}
	if t == closeParen {
		return Nil, vm.Raise(CondSyntax, "read", Char(')'))
	}
	return t, nil
}

func (vm *VM) readToken(stream Tag, r rune) (string, error) {
	var b strings.Builder
	b.WriteRune(r)
	for {
		r, ok, err := vm.ReadChar(stream)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		if isTerminator(r) {
			vm.UnreadChar(stream, r)
			break
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func (vm *VM) readList(stream Tag) (Tag, error) {
	var elems []Tag
	tail := Nil
	for {
		r, ok, err := vm.skipSpace(stream)
		if err != nil {
			return Nil, err
		}
		if !ok {
			return Nil, vm.Raise(CondEof, "read", stream)
		}
		if r == '.' {
			n, ok, err := vm.ReadChar(stream)
			if err != nil {
				return Nil, err
			}
			if ok {
				vm.UnreadChar(stream, n)
			}
			if !ok || isTerminator(n) {
				if len(elems) == 0 {
					return Nil, vm.Raise(CondSyntax, "read", Char('.'))
				}
				if tail, err = vm.readNext(stream); err != nil {
					return Nil, err
				}
				r, ok, err = vm.skipSpace(stream)
				if err != nil {
					return Nil, err
				}
				if !ok {
					return Nil, vm.Raise(CondEof, "read", stream)
				}
				if r != ')' {
					return Nil, vm.Raise(CondSyntax, "read", Char(r))
				}
				break
			}
		}
		t, err := vm.readForm(stream, r)
		if err != nil {
			return Nil, err
		}
		if t == closeParen {
			break
		}
		elems = append(elems, t)
	}
	for i := len(elems) - 1; i >= 0; i-- {
		tail = vm.Cons(elems[i], tail)
	}
	return tail, nil
}

func (vm *VM) readString(stream Tag) (Tag, error) {
	var b strings.Builder
	for {
		r, ok, err := vm.ReadChar(stream)
		if err != nil {
			return Nil, err
		}
		if !ok {
			return Nil, vm.Raise(CondEof, "read", stream)
		}
		switch r {
		case '"':
			return vm.NewString(b.String()), nil
		case '\\':
			r, ok, err = vm.ReadChar(stream)
			if err != nil {
				return Nil, err
			}
			if !ok {
				return Nil, vm.Raise(CondEof, "read", stream)
			}
		}
		b.WriteRune(r)
	}
}

func (vm *VM) readSharp(stream Tag) (Tag, error) {
	r, ok, err := vm.ReadChar(stream)
	if err != nil {
		return Nil, err
	}
	if !ok {
		return Nil, vm.Raise(CondEof, "read", stream)
	}
	switch r {
	case '\\':
		c, ok, err := vm.ReadChar(stream)
		if err != nil {
			return Nil, err
		}
		if !ok {
			return Nil, vm.Raise(CondEof, "read", stream)
		}
		tok, err := vm.readToken(stream, c)
		if err != nil {
			return Nil, err
		}
		if len([]rune(tok)) == 1 {
			return Char(c), nil
		}
		if n, ok := charByName[strings.ToLower(tok)]; ok {
			return Char(n), nil
		}
		return Nil, vm.Raise(CondSyntax, "read", vm.NewString(tok))
	case '(':
		l, err := vm.readList(stream)
		if err != nil {
			return Nil, err
		}
		elems, ok := vm.ListSlice(l)
		if !ok || len(elems) == 0 {
			return Nil, vm.Raise(CondSyntax, "read", l)
		}
		return vm.NewVector(elems[0], elems[1:])
	case 's':
		n, ok, err := vm.ReadChar(stream)
		if err != nil {
			return Nil, err
		}
		if !ok || n != '(' {
			return Nil, vm.Raise(CondSyntax, "read", Char(r))
		}
		l, err := vm.readList(stream)
		if err != nil {
			return Nil, err
		}
		elems, ok := vm.ListSlice(l)
		if !ok || len(elems) == 0 {
			return Nil, vm.Raise(CondSyntax, "read", l)
		}
		return vm.NewStruct(elems[0], elems[1:])
	case 'x':
		tok, err := vm.readToken(stream, 'x')
		if err != nil {
			return Nil, err
		}
		n, err := strconv.ParseInt(tok[1:], 16, 64)
		if err != nil || !FixnumOK(n) {
			return Nil, vm.Raise(CondSyntax, "read", vm.NewString(tok))
		}
		return Fixnum(n), nil
	}
	return Nil, vm.Raise(CondSyntax, "read", Char(r))
}

// parseAtom interprets a token as a fixnum, float, keyword, or symbol.
func (vm *VM) parseAtom(tok string) (Tag, error) {
	n, err := strconv.ParseInt(tok, 10, 64)
	if err == nil && FixnumOK(n) {
		return Fixnum(n), nil
	}
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return Nil, vm.Raise(CondRange, "read", vm.NewString(tok))
	}
	if strings.ContainsAny(tok, "0123456789") && strings.ContainsAny(tok, ".eE") {
		if f, err := strconv.ParseFloat(tok, 32); err == nil {
			return Float(float32(f)), nil
		}
	}
	if tok == "." {
		return Nil, vm.Raise(CondSyntax, "read", Char('.'))
	}
	if tok[0] == ':' {
		k, ok := KeywordFromString(tok[1:])
		if !ok {
			return Nil, vm.Raise(CondSyntax, "read", vm.NewString(tok))
		}
		return k, nil
	}
	if i := strings.IndexByte(tok, ':'); i > 0 {
		return vm.readQualified(tok, i)
	}
	if sy, ok := vm.Resolve(vm.DefaultNS, tok); ok {
		return sy, nil
	}
	return vm.Intern(vm.DefaultNS, Extern, tok, Unbound), nil
}

// readQualified reads ns:name or ns::name.
func (vm *VM) readQualified(tok string, i int) (Tag, error) {
	nsName, name, scope := tok[:i], tok[i+1:], Extern
	if strings.HasPrefix(name, ":") {
		name, scope = name[1:], Intern
	}
	if name == "" || strings.ContainsRune(name, ':') {
		return Nil, vm.Raise(CondSyntax, "read", vm.NewString(tok))
	}
	ns, ok := vm.MapNS(nsName)
	if !ok {
		return Nil, vm.Raise(CondUnbound, "read", vm.NewString(nsName))
	}
	if sy, ok := vm.FindSymbol(ns, scope, name); ok {
		return sy, nil
	}
	return vm.Intern(ns, scope, name, Unbound), nil
}

// StreamRead is a native function.
//
// read reads a form from a stream. At end of input, it returns its third
// argument if its second is not nil and raises eof otherwise.
func StreamRead(vm *VM, fp *Frame) error {
	t, err := vm.streamArg(fp, 0, "read")
	if err != nil {
		return err
	}
	r, err := vm.Read(t, fp.Argv[1] != Nil, fp.Argv[2])
	if err != nil {
		return err
	}
	fp.Value = r
	return nil
}
