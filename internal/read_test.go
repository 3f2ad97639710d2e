package internal_test

import (
	"testing"

	"github.com/zephyrtronium/mu/internal"
	"github.com/zephyrtronium/mu/testutils"
)

// TestReadPrint tests that forms print as expected after reading, escaped and
// unescaped.
func TestReadPrint(t *testing.T) {
	vm := testutils.VM()
	cases := []struct {
		src, escaped, plain string
	}{
		{`0`, `0`, `0`},
		{`-17`, `-17`, `-17`},
		{`#x1f`, `31`, `31`},
		{`1.5`, `1.5000`, `1.5000`},
		{`-.25`, `-0.2500`, `-0.2500`},
		{`:key`, `:key`, `:key`},
		{`:nil`, `:nil`, `:nil`},
		{`()`, `:nil`, `:nil`},
		{`:t`, `:t`, `:t`},
		{`#\a`, `#\a`, `a`},
		{`#\space`, `#\space`, ` `},
		{`#\Newline`, `#\linefeed`, "\n"},
		{`#\(`, `#\(`, `(`},
		{`"short"`, `"short"`, `short`},
		{`"a longer string"`, `"a longer string"`, `a longer string`},
		{`"q\"uote"`, `"q\"uote"`, `q"uote`},
		{`""`, `""`, ``},
		{`(1 2 3)`, `(1 2 3)`, `(1 2 3)`},
		{`(1 . 2)`, `(1 . 2)`, `(1 . 2)`},
		{`(1 2 . 3)`, `(1 2 . 3)`, `(1 2 . 3)`},
		{`(1 .5)`, `(1 0.5000)`, `(1 0.5000)`},
		{`((a) (b c))`, `((a) (b c))`, `((a) (b c))`},
		{`'x`, `(:quote x)`, `(:quote x)`},
		{`("s" #\c)`, `("s" #\c)`, `(s c)`},
		{`mu:car`, `mu:car`, `car`},
		{`mu::if`, `mu::if`, `if`},
		{`#(:t 1 :a)`, `#(:t 1 :a)`, `#(:t 1 :a)`},
		{`#(:fixnum 1 2 3)`, `#(:fixnum 1 2 3)`, `#(:fixnum 1 2 3)`},
		{`#(:byte 1 255)`, `#(:byte 1 255)`, `#(:byte 1 255)`},
		{`#(:float 1.0)`, `#(:float 1.0000)`, `#(:float 1.0000)`},
		{`#(:char #\a #\b)`, `"ab"`, `ab`},
		{`#s(:point 1 2)`, `#s(:point 1 2)`, `#s(:point 1 2)`},
		{`; comment` + "\n" + `5`, `5`, `5`},
		{`#| block | comment |# 6`, `6`, `6`},
		{`(1 ; inner` + "\n" + ` 2)`, `(1 2)`, `(1 2)`},
	}
	for _, c := range cases {
		r, err := vm.ReadString(c.src)
		if err != nil {
			t.Errorf("reading %q: %v", c.src, err)
			continue
		}
		if got := vm.Sprint(r, true); got != c.escaped {
			t.Errorf("%q printed escaped as %q, want %q", c.src, got, c.escaped)
		}
		if got := vm.Sprint(r, false); got != c.plain {
			t.Errorf("%q printed plain as %q, want %q", c.src, got, c.plain)
		}
	}
}

// TestReadRoundTrip tests that escaped output reads back to an equivalent form.
func TestReadRoundTrip(t *testing.T) {
	vm := testutils.VM()
	for _, src := range []string{
		`(a (b . c) "str" #\x :k 12 -3)`,
		`#(:t #\a "a longer string value")`,
		`(mu:car mu::if user-sym)`,
	} {
		r, err := vm.ReadString(src)
		if err != nil {
			t.Fatalf("reading %q: %v", src, err)
		}
		p := vm.Sprint(r, true)
		s, err := vm.ReadString(p)
		if err != nil {
			t.Fatalf("rereading %q: %v", p, err)
		}
		if q := vm.Sprint(s, true); q != p {
			t.Errorf("%q printed %q, then %q", src, p, q)
		}
	}
}

func TestReadErrors(t *testing.T) {
	vm := testutils.VM()
	cases := []struct {
		src  string
		cond internal.Condition
	}{
		{``, internal.CondEof},
		{`   ; only a comment`, internal.CondEof},
		{`(1 2`, internal.CondEof},
		{`"unterminated`, internal.CondEof},
		{`#| open`, internal.CondEof},
		{`'`, internal.CondEof},
		{`)`, internal.CondSyntax},
		{`( . 1)`, internal.CondSyntax},
		{`(1 . 2 3)`, internal.CondSyntax},
		{`#\bogus`, internal.CondSyntax},
		{`#q`, internal.CondSyntax},
		{`#()`, internal.CondSyntax},
		{`#(:bogus 1)`, internal.CondType},
		{`#(:byte 256)`, internal.CondType},
		{`#s(1 2)`, internal.CondType},
		{`#xzz`, internal.CondSyntax},
		{`:abcdefgh`, internal.CondSyntax},
		{`99999999999999999999`, internal.CondRange},
		{`2305843009213693952`, internal.CondRange},
		{`nowhere:x`, internal.CondUnbound},
		{`mu:`, internal.CondSyntax},
	}
	for _, c := range cases {
		_, err := vm.ReadString(c.src)
		e, ok := internal.AsException(err)
		if !ok || e.Condition != c.cond {
			t.Errorf("reading %q gave %v, want %s", c.src, err, c.cond)
		}
	}
}

// TestReadMultiple tests reading successive forms from one stream with an
// eof value.
func TestReadMultiple(t *testing.T) {
	vm := newVM(t)
	st := vm.OpenString(`1 (2) "three"`, true)
	eof := internal.Keyword("done")
	var got []string
	for {
		r, err := vm.Read(st, true, eof)
		if err != nil {
			t.Fatal(err)
		}
		if r == eof {
			break
		}
		got = append(got, vm.Sprint(r, true))
	}
	want := []string{`1`, `(2)`, `"three"`}
	if len(got) != len(want) {
		t.Fatalf("read %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("form %d: %s, want %s", i, got[i], want[i])
		}
	}
}

func TestPrintObjects(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Native":    {Source: `car`, Pass: testutils.PassPrinted(`#<function: :native car>`)},
		"Lambda":    {Source: `(:lambda (a b c) a)`, Pass: testutils.PassPrinted(`#<function: :lambda 3>`)},
		"Namespace": {Source: `(map-ns "mu")`, Pass: testutils.PassPrinted(`#<namespace: "mu">`)},
		"Stream":    {Source: `mu:std-out`, Pass: testutils.PassPrinted(`#<stream: std-out>`)},
		"Symbol":    {Source: `(symbol "loose")`, Pass: testutils.PassPrinted(`loose`)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestWriteNative(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Escaped": {Source: `((:lambda (s) (write "x y" :t s) (get-str s)) (open :string :output ""))`, Pass: testutils.PassPrinted(`"\"x y\""`)},
		"Plain":   {Source: `((:lambda (s) (write "x y" :nil s) (get-str s)) (open :string :output ""))`, Pass: testutils.PassPrinted(`"x y"`)},
		"Value":   {Source: `((:lambda (s) (write 12 :nil s)) (open :string :output ""))`, Pass: testutils.PassFixnum(12)},
		"Read":    {Source: `(read (open :string :input "(fx-add 1 2)") :nil :nil)`, Pass: testutils.PassPrinted(`(mu:fx-add 1 2)`)},
		"ReadEOF": {Source: `(read (open :string :input "") :t :end)`, Pass: testutils.PassEqual(internal.Keyword("end"))},
		"ReadErr": {Source: `(read (open :string :input "") :nil :nil)`, Pass: testutils.PassCondition(internal.CondEof)},
		"NotStrm": {Source: `(write 1 :nil 2)`, Pass: testutils.PassCondition(internal.CondType)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}
