package rxcore

import "github.com/coregx/rxcore/compile"

// Options configures how a pattern is compiled and how a Matcher built
// from it behaves. The zero value is a conservative default: ASCII and
// Unicode both accepted, single-line anchors, no indentation sensitivity.
type Options struct {
	// AllowEmptyMatch permits a pattern to report a zero-length match
	// instead of treating one as a failure to advance.
	AllowEmptyMatch bool
	// AsciiOnly restricts character classes and "." to the ASCII range,
	// enabling the simpler single-byte-range opcode tape.
	AsciiOnly bool
	// AllowDotAll makes "." match newlines as well.
	AllowDotAll bool
	// Multiline makes ^ and $ match at internal line boundaries, not just
	// the start and end of the whole input.
	Multiline bool
	// WordBoundaryUsesUnicode is carried into the compiled options; \b and
	// \B are evaluated over the ASCII [A-Za-z0-9_] set whatever its value.
	WordBoundaryUsesUnicode bool
	// TabSize is the column width of a tab stop for the indentation
	// tracker; 0 defaults to 8.
	TabSize uint32
	// IndentSensitive forces indentation tracking on even for a pattern
	// that happens not to use \i/\j/\k (compiling one of those escapes
	// turns this on automatically).
	IndentSensitive bool
	// RequireCaptures compiles the external Perl-compatible backend
	// alongside the opcode tape so Result.Group can resolve numbered and
	// named capture groups. Left false, Group always reports not-ok.
	RequireCaptures bool
}

// DefaultOptions returns the Options a bare Compile call uses.
func DefaultOptions() Options {
	return Options{TabSize: 8}
}

func (o Options) toCompileOptions() compile.Options {
	return compile.Options{
		AllowEmptyMatch:         o.AllowEmptyMatch,
		AsciiOnly:               o.AsciiOnly,
		AllowDotAll:             o.AllowDotAll,
		Multiline:               o.Multiline,
		WordBoundaryUsesUnicode: o.WordBoundaryUsesUnicode,
		TabSize:                 int(o.TabSize),
		IndentSensitive:         o.IndentSensitive,
	}
}
