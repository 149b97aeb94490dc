// Package testutil defines support code for unit tests.
package testutil

import (
	"os"
	"testing"

	"github.com/creachadair/jvalue"
	"github.com/google/go-cmp/cmp"
	"github.com/tailscale/hujson"
)

// CompareValues is a cmp.Option that compares JSON values with their Equal
// method.
var CompareValues = cmp.Comparer(func(a, b jvalue.Value) bool { return a.Equal(&b) })

// MustParse parses text as a JSON value, or fails the test.
func MustParse(t testing.TB, text string) jvalue.Value {
	t.Helper()
	v, err := jvalue.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse %q: unexpected error: %v", text, err)
	}
	return v
}

// A Case is an input paired with the name of the expected result.
type Case struct {
	Name  string
	Input string
}

// LoadCases reads a HuJSON file containing an object whose members map names
// to arrays of input strings, and returns its cases in key order.
func LoadCases(t testing.TB, path string) []Case {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read cases: %v", err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		t.Fatalf("Standardize %q: %v", path, err)
	}
	v := MustParse(t, string(std))
	defer v.Free()

	var out []Case
	for name, inputs := range v.Members() {
		if inputs.Kind() != jvalue.Array {
			t.Fatalf("Case %q: got %v, want array", name, inputs.Kind())
		}
		for _, in := range inputs.Elements() {
			out = append(out, Case{Name: name, Input: in.Text()})
		}
	}
	return out
}
