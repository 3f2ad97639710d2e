package main

import "testing"

func TestRow(t *testing.T) {
	cases := []struct {
		name string
		l    lister
		fn   string
		want string
	}{
		{"Arity", lister{scope: "Extern", nreq: 2}, "FixnumAdd", "\t{Name: \"fixnum-add\", Scope: Extern, NReq: 2, Fn: FixnumAdd},"},
		{"Trim", lister{trim: "Fixnum", scope: "Extern", nreq: 2}, "FixnumAdd", "\t{Name: \"add\", Scope: Extern, NReq: 2, Fn: FixnumAdd},"},
		{"Intern", lister{scope: "Intern", nreq: 0}, "Exit", "\t{Name: \"exit\", Scope: Intern, NReq: 0, Fn: Exit},"},
		{"Unchecked", lister{scope: "Extern", nreq: -1}, "ConsCar", "\t{Name: \"cons-car\", Scope: Extern, NReq: 0, Fn: ConsCar}, // unchecked arity"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.l.row(c.fn); got != c.want {
				t.Errorf("wrong row:\nwant %q\ngot  %q", c.want, got)
			}
		})
	}
}
