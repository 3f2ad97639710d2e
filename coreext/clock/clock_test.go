package clock_test

import (
	"strconv"
	"testing"

	"github.com/zephyrtronium/mu"
	"github.com/zephyrtronium/mu/testutils"

	_ "github.com/zephyrtronium/mu/coreext/clock"
)

func TestClockNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"strftime": {Source: `(strftime "%Y")`, Pass: func(r mu.Tag, err error) bool {
			if err != nil {
				return false
			}
			s := testutils.VM().Sprint(r, false)
			_, perr := strconv.Atoi(s)
			return len(s) == 4 && perr == nil
		}},
		"strftimeType": {Source: `(strftime 1)`, Pass: testutils.PassCondition(mu.CondType)},
		"runUs": {Source: `(run-us)`, Pass: func(r mu.Tag, err error) bool {
			return err == nil && r.IsFixnum() && r.Int() >= 0
		}},
		"realTm": {Source: `(real-tm)`, Pass: func(r mu.Tag, err error) bool {
			return err == nil && r.IsFixnum() && r.Int() > 1500000000
		}},
		"timeOf": {Source: `(time-of (:lambda () (fx-add 1 2)))`, Pass: func(r mu.Tag, err error) bool {
			return err == nil && r.IsFixnum() && r.Int() >= 0
		}},
		"timeOfType":  {Source: `(time-of 1)`, Pass: testutils.PassCondition(mu.CondType)},
		"timeOfArity": {Source: `(time-of (:lambda (x) x))`, Pass: testutils.PassCondition(mu.CondArity)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}
