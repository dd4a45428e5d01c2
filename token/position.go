package token

import "strconv"

// Position describes a single point in MCP-DSL source code.
//
// A Position is valid if its line number is > 0.
type Position struct {
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
	Offset int // byte offset into the source, starting at 0; the lexer does not set it, so positions from Tokenize carry 0
}

// IsValid reports whether p is a valid position.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns the position in line:column format.
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Before reports whether p comes before o in the source.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Range is a closed span of source between Start and End, both inclusive
// end points of the offending token as produced by the lexer and parser.
type Range struct {
	Start Position
	End   Position
}

// String returns the range in start-end format, collapsing to a single
// position when Start and End coincide.
func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + "-" + r.End.String()
}
