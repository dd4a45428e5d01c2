package parser

import "github.com/mcpdsl/mcpdsl/token"

// cursor is a buffered view over a finished token slice, generalizing the
// teacher's inline curToken/peekToken fields (dot.Parser) into a reusable
// type with arbitrary lookahead and mark/reset backtracking. Spec §4.2
// requires up to 4 tokens of lookahead to disambiguate constructs like
// `T name` vs. `T[]` vs. `T{name}`, and backtracking to try the collection
// grammar's two alternatives before committing.
type cursor struct {
	tokens []token.Token
	pos    int
}

func newCursor(tokens []token.Token) *cursor {
	return &cursor{tokens: tokens}
}

// current returns the token at the cursor, or the trailing EOF token if the
// cursor has run past the end (cursor.current is always valid: tokenize
// always terminates its output with an EOF token).
func (c *cursor) current() token.Token {
	return c.at(c.pos)
}

// peek looks ahead k tokens without consuming, peek(0) == current().
func (c *cursor) peek(k int) token.Token {
	return c.at(c.pos + k)
}

func (c *cursor) at(i int) token.Token {
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // EOF
	}
	return c.tokens[i]
}

// advance consumes and returns the current token.
func (c *cursor) advance() token.Token {
	t := c.current()
	if c.pos < len(c.tokens)-1 {
		c.pos++
	}
	return t
}

func (c *cursor) atEOF() bool {
	return c.current().Kind == token.EOF
}

// check reports whether the current token has kind k, without consuming.
func (c *cursor) check(k token.Kind) bool {
	return c.current().Kind == k
}

// checkAny reports whether the current token matches any of ks.
func (c *cursor) checkAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if c.check(k) {
			return true
		}
	}
	return false
}

// peekSequence reports whether the next len(ks) tokens, starting at the
// current one, match ks in order — used at the bounded-lookahead
// disambiguation points spec §4.2/§9 calls out (e.g. telling a single
// definition's `ID '{'` apart from a collection's `'[' ']'`).
func (c *cursor) peekSequence(ks ...token.Kind) bool {
	for i, k := range ks {
		if c.peek(i).Kind != k {
			return false
		}
	}
	return true
}

// match consumes and returns (token, true) if the current token has kind k,
// otherwise leaves the cursor unmoved and returns (zero, false).
func (c *cursor) match(k token.Kind) (token.Token, bool) {
	if c.check(k) {
		return c.advance(), true
	}
	return token.Token{}, false
}

// skip consumes tokens of kind k for as long as they appear, used to skip
// runs of NEWLINE/COMMENT between statements.
func (c *cursor) skip(ks ...token.Kind) {
	for c.checkAny(ks...) {
		c.advance()
	}
}

// mark is an opaque cursor position saved for backtracking.
type mark int

func (c *cursor) mark() mark {
	return mark(c.pos)
}

func (c *cursor) reset(m mark) {
	c.pos = int(m)
}

// unmark is a no-op for this cursor: a mark is just a saved index, not an
// entry in a stack that needs releasing. Kept so the cursor's API matches
// the mark/reset/unmark triple spec §4.2 names.
func (c *cursor) unmark(mark) {}
