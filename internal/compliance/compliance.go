// Package compliance runs the JSON-fixture test corpus described in
// spec.md section 8.4: a directory of files, each holding one or more
// "given" documents together with a list of expression/expected-result (or
// expected-error) cases. Grounded on internal/jsonpath/jsonpath_test.go's
// table-driven fixture style, generalized from Go literals to on-disk JSON
// so the corpus can grow without recompiling test code.
package compliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/parser"
	"github.com/jacoelho/jmespath/internal/value"
)

// suiteFile is one group inside an on-disk fixture file (each file holds a
// JSON array of them): a shared "given" document plus a batch of cases
// exercised against it. Given and Result are kept as raw JSON
// text (rather than decoded through encoding/json's map[string]any, which
// has no key order) and decoded with value.DecodeJSON, so this harness
// actually exercises the insertion-order invariant spec.md section 8.1
// property 7 requires instead of washing it out through an
// alphabetizing fallback.
type suiteFile struct {
	Comment string          `json:"comment"`
	Given   json.RawMessage `json:"given"`
	Cases   []struct {
		Comment    string          `json:"comment"`
		Expression string          `json:"expression"`
		Result     json.RawMessage `json:"result"`
		// Error, when non-empty, marks the case as expected to fail either
		// to parse ("parse") or to evaluate ("runtime"); Result is ignored.
		Error string `json:"error"`
	} `json:"cases"`
}

// RunCorpus reads every *.json file in dir and runs its cases as subtests
// of t, evaluating each expression against its suite's given document with
// a fresh interpreter backed by interp.DefaultRegistry.
func RunCorpus(t *testing.T, dir string) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("glob %s: %v", dir, err)
	}
	if len(files) == 0 {
		t.Fatalf("no compliance fixtures found in %s", dir)
	}

	it := interp.New(nil)

	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read %s: %v", path, err)
			}

			var suites []suiteFile
			if err := json.Unmarshal(raw, &suites); err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}

			for _, suite := range suites {
				given, err := value.DecodeJSON(bytes.NewReader(suite.Given))
				if err != nil {
					t.Fatalf("decode given in %s: %v", path, err)
				}
				for _, c := range suite.Cases {
					c := c
					name := c.Expression
					if c.Comment != "" {
						name = fmt.Sprintf("%s/%s", c.Comment, c.Expression)
					}
					t.Run(name, func(t *testing.T) {
						node, err := parser.Parse(c.Expression)
						if c.Error == "parse" {
							if err == nil {
								t.Fatalf("Parse(%q): expected a parse error, got none", c.Expression)
							}
							return
						}
						if err != nil {
							t.Fatalf("Parse(%q): unexpected error: %v", c.Expression, err)
						}

						got, err := it.Eval(node, given)
						if c.Error == "runtime" {
							if err == nil {
								t.Fatalf("Eval(%q): expected a runtime error, got none", c.Expression)
							}
							return
						}
						if err != nil {
							t.Fatalf("Eval(%q): unexpected error: %v", c.Expression, err)
						}

						want, err := value.DecodeJSON(bytes.NewReader(c.Result))
						if err != nil {
							t.Fatalf("decode result for %q: %v", c.Expression, err)
						}
						if diff := cmp.Diff(want, got, cmp.AllowUnexported(value.Object{})); diff != "" {
							t.Errorf("Eval(%q) mismatch (-want +got):\n%s", c.Expression, diff)
						}
					})
				}
			}
		})
	}
}
