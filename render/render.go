// Package render carries the shape of the driver's output contract without
// implementing a real target-language emitter: emitting code is a non-goal
// of this repository. A real renderer is an external
// collaborator that would produce a Result per output file; this package
// only defines that Result shape and the multi-file concatenation
// convenience every such renderer shares.
package render

import "sort"

// Position is a 1-based line/column location.
type Position struct {
	Line   int
	Column int
}

// Span is a half-open range between two Positions.
type Span struct {
	Start Position
	End   Position
}

// Annotation attaches a human-readable note to a Span, the way a renderer
// might mark a property that required a lossy transformation.
type Annotation struct {
	Annotation string
	Span       Span
}

// Result is one output file's rendered content: an ordered sequence of
// lines plus any annotations referencing positions within them.
type Result struct {
	Lines       []string
	Annotations []Annotation
}

// headerLines is the number of lines Concat's "// <filename>" + blank-line
// preamble adds before each file's own content.
const headerLines = 2

// Concat concatenates results in lexicographic filename order into one
// Result, prefixing each file's content with a "// <filename>" header line
// and a blank line, and shifting every annotation's span down by the
// cumulative line offset so spans still point at the right line in the
// combined output.
func Concat(results map[string]Result) Result {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var out Result
	offset := 0
	for _, name := range names {
		r := results[name]
		out.Lines = append(out.Lines, "// "+name, "")
		out.Lines = append(out.Lines, r.Lines...)
		for _, a := range r.Annotations {
			shifted := a
			shifted.Span.Start.Line += offset + headerLines
			shifted.Span.End.Line += offset + headerLines
			out.Annotations = append(out.Annotations, shifted)
		}
		offset += headerLines + len(r.Lines)
	}
	return out
}
