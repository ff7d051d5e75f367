// Package source provides a raw-content registry for byte-offset-to-position
// conversion.
//
// input.SampleReader and input.SchemaReader register the raw bytes of every
// sample and schema document they decode under a location.SourceID before
// handing them to encoding/json. When json.Decoder returns a *json.SyntaxError
// (or any error carrying a byte Offset), the reader converts that offset to a
// location.Position via PositionAt and attaches the resulting location.Span to
// the diag.Issue it returns, so a malformed-input diagnostic points at the
// actual line and column rather than only naming the input as a whole.
//
// # Responsibilities
//
//   - Store raw source bytes keyed by [location.SourceID]
//   - Precompute line-start byte offsets for efficient position lookup
//   - Precompute rune-to-byte offset tables
//   - Convert byte offset to [location.Position] (PositionAt)
//   - Provide raw bytes to consumers as a [diag.SourceProvider]
//   - Enforce uniqueness of source identity keys
//
// # Newline and Column Handling
//
//   - \r\n (CRLF) and bare \r (CR) are each treated as a single line break
//   - Columns count runes (Unicode code points) from line start, not bytes
//   - Column numbers are 1-based (first column is 1)
//
// # Lifecycle and Concurrency
//
// Register is safe for concurrent access. Once a document has been
// registered and decoded, the registry entry for it is read-only; concurrent
// reads from multiple pipeline.Run calls never contend on writes to each
// other's entries.
//
// # Interface Satisfaction
//
// The [*Registry] type satisfies [location.PositionRegistry] via PositionAt
// and [diag.SourceProvider] via Content.
package source
