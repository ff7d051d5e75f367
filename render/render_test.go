package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat_PrefixesEachFileAndShiftsAnnotations(t *testing.T) {
	results := map[string]Result{
		"a.ts": {
			Lines: []string{"class A {}"},
			Annotations: []Annotation{
				{Annotation: "note", Span: Span{Start: Position{Line: 1, Column: 1}, End: Position{Line: 1, Column: 5}}},
			},
		},
		"b.ts": {
			Lines: []string{"class B {}", "class C {}"},
		},
	}

	out := Concat(results)

	assert.Equal(t, []string{
		"// a.ts", "",
		"class A {}",
		"// b.ts", "",
		"class B {}",
		"class C {}",
	}, out.Lines)

	require := out.Annotations
	if assert.Len(t, require, 1) {
		assert.Equal(t, 3, require[0].Span.Start.Line)
	}
}

func TestConcat_RoundTripsPerFileLineSets(t *testing.T) {
	results := map[string]Result{
		"x.ts": {Lines: []string{"one", "two"}},
		"y.ts": {Lines: []string{"three"}},
	}
	out := Concat(results)
	joined := strings.Join(out.Lines, "\n")

	parts := strings.Split(joined, "// ")
	// parts[0] is empty (content starts with the first header marker).
	recovered := map[string][]string{}
	for _, p := range parts[1:] {
		lines := strings.Split(strings.TrimSuffix(p, "\n"), "\n")
		name := lines[0]
		// lines[1] is the blank separator line.
		recovered[name] = lines[2:]
	}
	assert.Equal(t, []string{"one", "two"}, recovered["x.ts"])
	assert.Equal(t, []string{"three"}, recovered["y.ts"])
}
