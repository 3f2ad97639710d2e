package internal_test

import (
	"testing"

	"github.com/zephyrtronium/mu/internal"
	"github.com/zephyrtronium/mu/testutils"
)

func TestListNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Car":          {Source: `(car '(1 2))`, Pass: testutils.PassFixnum(1)},
		"CarNil":       {Source: `(car :nil)`, Pass: testutils.PassEqual(internal.Nil)},
		"CarType":      {Source: `(car 1)`, Pass: testutils.PassCondition(internal.CondType)},
		"Cdr":          {Source: `(cdr '(1 2))`, Pass: testutils.PassPrinted(`(2)`)},
		"CdrDotted":    {Source: `(cdr '(1 . 2))`, Pass: testutils.PassFixnum(2)},
		"Cons":         {Source: `(cons 1 '(2))`, Pass: testutils.PassPrinted(`(1 2)`)},
		"Length":       {Source: `(length '(1 2 3))`, Pass: testutils.PassFixnum(3)},
		"LengthNil":    {Source: `(length :nil)`, Pass: testutils.PassFixnum(0)},
		"LengthDotted": {Source: `(length '(1 . 2))`, Pass: testutils.PassCondition(internal.CondType)},
		"Nth":          {Source: `(nth 1 '(a b c))`, Pass: testutils.PassPrinted(`b`)},
		"NthShort":     {Source: `(nth 5 '(a b c))`, Pass: testutils.PassEqual(internal.Nil)},
		"NthNegative":  {Source: `(nth -1 '(a b c))`, Pass: testutils.PassCondition(internal.CondType)},
		"Nthcdr":       {Source: `(nthcdr 2 '(a b c))`, Pass: testutils.PassPrinted(`(c)`)},
		"NthcdrZero":   {Source: `(nthcdr 0 '(a))`, Pass: testutils.PassPrinted(`(a)`)},
		"Append":       {Source: `(append '(1 2) '(3))`, Pass: testutils.PassPrinted(`(1 2 3)`)},
		"AppendAtom":   {Source: `(append '(1) 2)`, Pass: testutils.PassPrinted(`(1 . 2)`)},
		"AppendType":   {Source: `(append 1 '(2))`, Pass: testutils.PassCondition(internal.CondType)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestCoerce(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"CharToFixnum":   {Source: `(coerce #\a :fixnum)`, Pass: testutils.PassFixnum(97)},
		"FixnumToChar":   {Source: `(coerce 97 :char)`, Pass: testutils.PassEqual(internal.Char('a'))},
		"Wide":           {Source: `(coerce 955 :char)`, Pass: testutils.PassEqual(internal.Char('λ'))},
		"RoundTrip":      {Source: `(coerce (coerce #\z :fixnum) :char)`, Pass: testutils.PassEqual(internal.Char('z'))},
		"Negative":       {Source: `(coerce -1 :char)`, Pass: testutils.PassCondition(internal.CondRange)},
		"Surrogate":      {Source: `(coerce 55296 :char)`, Pass: testutils.PassCondition(internal.CondRange)},
		"FixnumToFloat":  {Source: `(coerce 1 :float)`, Pass: testutils.PassCondition(internal.CondType)},
		"SymbolToFixnum": {Source: `(coerce 'a :fixnum)`, Pass: testutils.PassCondition(internal.CondType)},
		"NotAType":       {Source: `(coerce 1 :bogus)`, Pass: testutils.PassCondition(internal.CondType)},
		"NotAKeyword":    {Source: `(coerce 1 2)`, Pass: testutils.PassCondition(internal.CondType)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestFixnumNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Add":         {Source: `(fx-add 2 3)`, Pass: testutils.PassFixnum(5)},
		"AddOverflow": {Source: `(fx-add 2305843009213693951 1)`, Pass: testutils.PassCondition(internal.CondRange)},
		"AddType":     {Source: `(fx-add 1 :x)`, Pass: testutils.PassCondition(internal.CondType)},
		"Sub":         {Source: `(fx-sub 2 3)`, Pass: testutils.PassFixnum(-1)},
		"SubOverflow": {Source: `(fx-sub -2305843009213693952 1)`, Pass: testutils.PassCondition(internal.CondRange)},
		"Mul":         {Source: `(fx-mul -4 6)`, Pass: testutils.PassFixnum(-24)},
		"MulOverflow": {Source: `(fx-mul 2305843009213693951 2)`, Pass: testutils.PassCondition(internal.CondRange)},
		"MulWrap":     {Source: `(fx-mul 4294967296 4294967296)`, Pass: testutils.PassCondition(internal.CondRange)},
		"Div":         {Source: `(fx-div -7 2)`, Pass: testutils.PassFixnum(-3)},
		"DivZero":     {Source: `(fx-div 1 0)`, Pass: testutils.PassCondition(internal.CondZeroDivide)},
		"DivOverflow": {Source: `(fx-div -2305843009213693952 -1)`, Pass: testutils.PassCondition(internal.CondRange)},
		"LessThan":    {Source: `(fx-lt 1 2)`, Pass: testutils.PassEqual(internal.T)},
		"NotLessThan": {Source: `(fx-lt 2 2)`, Pass: testutils.PassEqual(internal.Nil)},
		"And":         {Source: `(logand 12 10)`, Pass: testutils.PassFixnum(8)},
		"Or":          {Source: `(logor 12 10)`, Pass: testutils.PassFixnum(14)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestFloatNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Add":      {Source: `(fl-add 1.5 2.25)`, Pass: testutils.PassEqual(internal.Float(3.75))},
		"Sub":      {Source: `(fl-sub 1.5 2.0)`, Pass: testutils.PassEqual(internal.Float(-0.5))},
		"Mul":      {Source: `(fl-mul 1.5 4.0)`, Pass: testutils.PassEqual(internal.Float(6))},
		"Div":      {Source: `(fl-div 1.0 4.0)`, Pass: testutils.PassEqual(internal.Float(0.25))},
		"DivZero":  {Source: `(fl-div 1.0 0.0)`, Pass: testutils.PassCondition(internal.CondZeroDivide)},
		"DivInf":   {Source: `(fl-div 3e38 1e-10)`, Pass: testutils.PassCondition(internal.CondRange)},
		"LessThan": {Source: `(fl-lt 1.0 1.5)`, Pass: testutils.PassEqual(internal.T)},
		"Type":     {Source: `(fl-add 1 2.0)`, Pass: testutils.PassCondition(internal.CondType)},
		"Printed":  {Source: `(fl-mul 0.5 0.5)`, Pass: testutils.PassPrinted(`0.2500`)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestSymbolNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Boundp":       {Source: `(boundp 'mu:car)`, Pass: testutils.PassEqual(internal.T)},
		"NotBoundp":    {Source: `(boundp 'never-bound-symbol)`, Pass: testutils.PassEqual(internal.Nil)},
		"BoundpKey":    {Source: `(boundp :key)`, Pass: testutils.PassEqual(internal.T)},
		"BoundpType":   {Source: `(boundp 1)`, Pass: testutils.PassCondition(internal.CondType)},
		"Keyp":         {Source: `(keyp :key)`, Pass: testutils.PassEqual(internal.T)},
		"NotKeyp":      {Source: `(keyp 'sym)`, Pass: testutils.PassEqual(internal.Nil)},
		"Keyword":      {Source: `(keyword "abc")`, Pass: testutils.PassEqual(internal.Keyword("abc"))},
		"KeywordLong":  {Source: `(keyword "abcdefgh")`, Pass: testutils.PassCondition(internal.CondSyntax)},
		"Symbol":       {Source: `(type-of (symbol "uninterned"))`, Pass: testutils.PassEqual(internal.Keyword("symbol"))},
		"SymbolFresh":  {Source: `(eq (symbol "s") (symbol "s"))`, Pass: testutils.PassEqual(internal.Nil)},
		"SymbolNoNS":   {Source: `(sy-ns (symbol "s"))`, Pass: testutils.PassEqual(internal.Nil)},
		"Name":         {Source: `(sy-name 'mu:car)`, Pass: testutils.PassPrinted(`"car"`)},
		"NameKey":      {Source: `(sy-name :key)`, Pass: testutils.PassPrinted(`"key"`)},
		"NS":           {Source: `(sy-ns 'mu:car)`, Pass: testutils.PassPrinted(`#<namespace: "mu">`)},
		"Value":        {Source: `(sy-val 'mu:version)`, Pass: testutils.PassPrinted(`"0.0.4"`)},
		"ValueKey":     {Source: `(sy-val :key)`, Pass: testutils.PassEqual(internal.Keyword("key"))},
		"ValueUnbound": {Source: `(sy-val 'never-bound-symbol)`, Pass: testutils.PassCondition(internal.CondUnbound)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestVectorNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Make":       {Source: `(vector :fixnum '(1 2 3))`, Pass: testutils.PassPrinted(`#(:fixnum 1 2 3)`)},
		"MakeString": {Source: `(vector :char '(#\h #\i))`, Pass: testutils.PassPrinted(`"hi"`)},
		"MakeType":   {Source: `(vector :fixnum '(1 :a))`, Pass: testutils.PassCondition(internal.CondType)},
		"Len":        {Source: `(sv-len #(:t 1 2 3))`, Pass: testutils.PassFixnum(3)},
		"LenString":  {Source: `(sv-len "a longer string")`, Pass: testutils.PassFixnum(15)},
		"LenDirect":  {Source: `(sv-len "abc")`, Pass: testutils.PassFixnum(3)},
		"Ref":        {Source: `(sv-ref #(:t :a :b) 1)`, Pass: testutils.PassEqual(internal.Keyword("b"))},
		"RefString":  {Source: `(sv-ref "hello" 4)`, Pass: testutils.PassEqual(internal.Char('o'))},
		"RefFloat":   {Source: `(sv-ref #(:float 1.5 2.5) 1)`, Pass: testutils.PassEqual(internal.Float(2.5))},
		"RefByte":    {Source: `(sv-ref #(:byte 7 200) 1)`, Pass: testutils.PassFixnum(200)},
		"RefNeg":     {Source: `(sv-ref #(:fixnum -5) 0)`, Pass: testutils.PassFixnum(-5)},
		"RefRange":   {Source: `(sv-ref #(:t 1) 1)`, Pass: testutils.PassCondition(internal.CondRange)},
		"RefType":    {Source: `(sv-ref '(1) 0)`, Pass: testutils.PassCondition(internal.CondType)},
		"Type":       {Source: `(sv-type #(:byte 1))`, Pass: testutils.PassEqual(internal.Keyword("byte"))},
		"TypeString": {Source: `(sv-type "s")`, Pass: testutils.PassEqual(internal.Keyword("char"))},
		"TypeOf":     {Source: `(type-of "s")`, Pass: testutils.PassEqual(internal.Keyword("vector"))},
		"Empty":      {Source: `(sv-len (vector :t :nil))`, Pass: testutils.PassFixnum(0)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestStructNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"Make":     {Source: `(struct :pt '(1 2))`, Pass: testutils.PassPrinted(`#s(:pt 1 2)`)},
		"MakeType": {Source: `(struct 1 '(1 2))`, Pass: testutils.PassCondition(internal.CondType)},
		"Type":     {Source: `(st-type #s(:pt 1 2))`, Pass: testutils.PassEqual(internal.Keyword("pt"))},
		"Vec":      {Source: `(st-vec #s(:pt 1 2))`, Pass: testutils.PassPrinted(`#(:t 1 2)`)},
		"VecType":  {Source: `(st-vec 1)`, Pass: testutils.PassCondition(internal.CondType)},
		"TypeOf":   {Source: `(type-of #s(:pt))`, Pass: testutils.PassEqual(internal.Keyword("struct"))},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestHeapNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"TagOf":         {Source: `(tag-of 5)`, Pass: testutils.PassFixnum(20)},
		"TagOfNil":      {Source: `(eq (tag-of :nil) (tag-of :nil))`, Pass: testutils.PassEqual(internal.T)},
		"ViewCons":      {Source: `(view '(1 . 2))`, Pass: testutils.PassPrinted(`#(:t 1 2)`)},
		"ViewAtom":      {Source: `(view 7)`, Pass: testutils.PassPrinted(`#(:t 7)`)},
		"ViewSym":       {Source: `(sv-ref (view 'mu:car) 1)`, Pass: testutils.PassEqual(internal.Keyword("extern"))},
		"ViewUnbound":   {Source: `(sv-ref (view 'never-viewed-symbol) 3)`, Pass: testutils.PassEqual(internal.Keyword("unbound"))},
		"ViewBound":     {Source: `(sv-ref (view 'mu:version) 3)`, Pass: testutils.PassPrinted(`"0.0.4"`)},
		"ViewFunc":      {Source: `(sv-ref (view (:lambda (a b) a)) 0)`, Pass: testutils.PassFixnum(2)},
		"InfoPageSize":  {Source: `(sv-ref (hp-info) 0)`, Pass: testutils.PassFixnum(4096)},
		"InfoClass":     {Source: `(sv-ref (hp-info) 3)`, Pass: testutils.PassEqual(internal.Keyword("cons"))},
		"InfoFree":      {Source: `(sv-ref (hp-info) 7)`, Pass: testutils.PassFixnum(0)},
		"InfoNextClass": {Source: `(sv-ref (hp-info) 8)`, Pass: testutils.PassEqual(internal.Keyword("func"))},
		"InfoUsed":      {Source: `(fx-lt 0 (sv-ref (hp-info) 2))`, Pass: testutils.PassEqual(internal.T)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

// TestHeapInfoCounts tests that hp-info reflects allocations.
func TestHeapInfoCounts(t *testing.T) {
	vm := newVM(t)
	before := vm.Heap.Stats(internal.ClassCons).Count
	vm.List(internal.Fixnum(1), internal.Fixnum(2), internal.Fixnum(3))
	if got := vm.Heap.Stats(internal.ClassCons).Count; got != before+3 {
		t.Errorf("cons count went from %d to %d", before, got)
	}
	info := vm.HeapInfo()
	count, _ := vm.VectorRef(info, 5)
	if count.Int() != int64(before+3) {
		t.Errorf("hp-info cons count %d", count.Int())
	}
	inUse, _ := vm.VectorRef(info, 6)
	free, _ := vm.VectorRef(info, 7)
	if inUse != count || free != internal.Fixnum(0) {
		t.Errorf("hp-info cons in use %d, free %d", inUse.Int(), free.Int())
	}
	if n := vm.VectorLen(info); n != 3+5*7 {
		t.Errorf("hp-info has %d elements", n)
	}
}
