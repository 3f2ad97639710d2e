package path_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/zephyrtronium/mu"
	"github.com/zephyrtronium/mu/testutils"

	_ "github.com/zephyrtronium/mu/coreext/path"
)

func TestPathNatives(t *testing.T) {
	cases := map[string]testutils.SourceTestCase{
		"absp":      {Source: `(path-absp "/usr/lib")`, Pass: testutils.PassEqual(mu.T)},
		"notAbsp":   {Source: `(path-absp "lib")`, Pass: testutils.PassEqual(mu.Nil)},
		"abspType":  {Source: `(path-absp :lib)`, Pass: testutils.PassCondition(mu.CondType)},
		"abs":       {Source: `(path-absp (path-abs "lib"))`, Pass: testutils.PassEqual(mu.T)},
		"sep":       {Source: `mu:path-sep`, Pass: testutils.PassPrinted(fmt.Sprintf("%q", string(filepath.Separator)))},
		"cwd":       {Source: `(path-absp (dir-cwd))`, Pass: testutils.PassEqual(mu.T)},
		"listType":  {Source: `(dir-list 1)`, Pass: testutils.PassCondition(mu.CondType)},
		"listNoDir": {Source: `(dir-list "/nonexistent/mu/dir")`, Pass: testutils.PassCondition(mu.CondOpen)},
	}
	for name, c := range cases {
		t.Run(name, c.TestFunc(name))
	}
}

func TestDirList(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.mu"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "a"), 0o755); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf("(dir-list %q)", filepath.ToSlash(dir))
	c := testutils.SourceTestCase{Source: src, Pass: testutils.PassPrinted(`("a/" "b.mu")`)}
	t.Run("list", c.TestFunc("list"))
}
