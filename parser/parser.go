// Package parser implements the MCP-DSL recursive-descent parser, spec §4.3,
// producing the typed AST defined in package ast from a finished token
// stream. It follows the shape of the teacher's dot.Parser — curTokenIs-
// style predicates, an expect helper that both advances and records a
// diagnostic on mismatch, and statement-level error recovery — generalized
// from DOT's LL(1) grammar onto this grammar's handful of LL(4)
// disambiguation points (spec §4.2, §9).
package parser

import (
	"strconv"
	"strings"

	"github.com/mcpdsl/mcpdsl/ast"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/internal/assert"
	"github.com/mcpdsl/mcpdsl/token"
)

// Parse builds a Document from a finished token stream. Parsing never
// panics on malformed input: syntax errors are recorded as diagnostics and
// the parser resynchronizes at the next top-level boundary (spec §4.3,
// §7), so a single bad statement never prevents the rest of the document
// from being parsed.
func Parse(tokens []token.Token) (*ast.Document, []diag.Diagnostic) {
	p := &parser{c: newCursor(tokens)}
	doc := p.parseDocument()
	return doc, p.diagnostics
}

type parser struct {
	c           *cursor
	diagnostics []diag.Diagnostic
}

var triviaKinds = []token.Kind{token.Newline, token.Comment, token.Indent, token.Dedent}

var topLevelBoundary = []token.Kind{
	token.Gt, token.Lt, token.Bang, token.Error,
	token.KwServer, token.DefR, token.DefT, token.DefP, token.DefRT,
}

func (p *parser) parseDocument() *ast.Document {
	start := p.c.current()
	var body []ast.DocumentItem
	for !p.c.atEOF() {
		if p.c.checkAny(triviaKinds...) {
			p.c.advance()
			continue
		}
		item, ok := p.parseDocumentItem()
		if ok {
			body = append(body, item)
		}
	}
	end := p.c.current()
	return &ast.Document{Span: spanOf(start, end), Body: body}
}

func (p *parser) parseDocumentItem() (ast.DocumentItem, bool) {
	switch p.c.current().Kind {
	case token.Gt:
		return p.parseRequest(), true
	case token.Lt:
		return p.parseResponse(), true
	case token.Bang:
		return p.parseNotification(), true
	case token.Error:
		return p.parseError(), true
	case token.KwServer:
		return p.parseServerBlock(), true
	case token.DefR, token.DefT, token.DefP, token.DefRT:
		return p.parseDefinition(), true
	default:
		tok := p.c.current()
		p.errorf(tok.Range, "unexpected token %s, expected a message, definition, or server block", tok)
		p.recover()
		return nil, false
	}
}

// recover advances past the offending statement to the next top-level
// boundary token, so the document loop can keep making progress after a
// syntax error (spec §4.3, §7).
func (p *parser) recover() {
	for !p.c.atEOF() && !p.c.checkAny(topLevelBoundary...) {
		p.c.advance()
	}
}

// --- messages ---

func (p *parser) parseRequest() *ast.Request {
	assert.That(p.c.check(token.Gt), "current token must be '>', got %s", p.c.current().Kind)
	start, _ := p.c.match(token.Gt)
	method := p.expectMethodPath()
	p.expect(token.Hash, "'#'")
	idTok := p.expect(token.Integer, "message id")
	var params *ast.Object
	if p.c.check(token.LBrace) {
		params = p.parseObject(ast.RequestParamsCtx)
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.Request{Span: spanOf(start, end), Method: method, ID: idTok.Literal.Int, Params: params}
}

func (p *parser) parseResponse() *ast.Response {
	assert.That(p.c.check(token.Lt), "current token must be '<', got %s", p.c.current().Kind)
	start, _ := p.c.match(token.Lt)
	p.expect(token.Hash, "'#'")
	idTok := p.expect(token.Integer, "message id")
	var result ast.Value
	if p.atValueStart() {
		result = p.parseValue("", ast.ResponseResultCtx)
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.Response{Span: spanOf(start, end), ID: idTok.Literal.Int, Result: result}
}

func (p *parser) parseNotification() *ast.Notification {
	assert.That(p.c.check(token.Bang), "current token must be '!', got %s", p.c.current().Kind)
	start, _ := p.c.match(token.Bang)
	method := p.expectMethodPath()
	var params *ast.Object
	if p.c.check(token.LBrace) {
		params = p.parseObject(ast.RequestParamsCtx)
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.Notification{Span: spanOf(start, end), Method: method, Params: params}
}

func (p *parser) parseError() *ast.Error {
	assert.That(p.c.check(token.Error), "current token must be 'x', got %s", p.c.current().Kind)
	start, _ := p.c.match(token.Error)
	p.expect(token.Hash, "'#'")
	idTok := p.expect(token.Integer, "message id")
	code := p.parseSignedInteger()
	p.expect(token.Colon, "':'")
	var msg string
	if strTok, ok := p.c.match(token.String); ok {
		msg = strTok.Literal.String
	} else if idTok2, ok := p.expectIdentLikeOK("error message"); ok {
		msg = idTok2.Lexeme
	}
	var data ast.Value
	if p.atValueStart() {
		data = p.parseValue("", ast.ErrorDataCtx)
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.Error{Span: spanOf(start, end), ID: idTok.Literal.Int, Code: code, Message: msg, Data: data}
}

// parseSignedInteger combines a standalone Minus token with a following
// Integer, resolving the sign/number lexing ambiguity documented in
// DESIGN.md; valid input already lexes a negative literal as a single
// Integer token, so this is primarily a robustness fallback.
func (p *parser) parseSignedInteger() int64 {
	neg := int64(1)
	if _, ok := p.c.match(token.Minus); ok {
		neg = -1
	}
	tok := p.expect(token.Integer, "integer")
	return neg * tok.Literal.Int
}

// --- server block ---

func (p *parser) parseServerBlock() *ast.ServerBlock {
	start, _ := p.c.match(token.KwServer)
	nameTok := p.expectIdentLike("server name")
	var ver *ast.Version
	if vTok, ok := p.c.match(token.Version); ok {
		ver = parseVersionLiteral(vTok)
	}
	body := p.parseObject(ast.DefinitionBlockCtx)
	return &ast.ServerBlock{Span: spanOf(start, p.c.tokens[max0(p.c.pos-1)]), Name: nameTok.Lexeme, Version: ver, Body: body}
}

func parseVersionLiteral(tok token.Token) *ast.Version {
	parts := strings.SplitN(strings.TrimPrefix(tok.Lexeme, "v"), ".", 3)
	v := &ast.Version{Span: ast.Span{Range: tok.Range}}
	if len(parts) == 3 {
		v.Major, _ = strconv.Atoi(parts[0])
		v.Minor, _ = strconv.Atoi(parts[1])
		v.Patch, _ = strconv.Atoi(parts[2])
	}
	return v
}

// --- definitions ---

func (p *parser) parseDefinition() ast.Definition {
	assert.That(p.c.checkAny(token.DefR, token.DefT, token.DefP, token.DefRT),
		"current token must be a definition marker, got %s", p.c.current().Kind)
	marker := p.c.advance() // DefR | DefT | DefP | DefRT
	if p.c.peekSequence(token.LBracket, token.RBracket) {
		return p.parseCollection(marker)
	}
	nameTok := p.expectIdentLike("definition name")
	body := p.parseObject(ast.DefinitionBlockCtx)
	span := spanOf(marker, p.c.tokens[max0(p.c.pos-1)])
	switch marker.Kind {
	case token.DefR:
		return &ast.ResourceDef{Span: span, Name: nameTok.Lexeme, Body: body}
	case token.DefT:
		return &ast.ToolDef{Span: span, Name: nameTok.Lexeme, Body: body}
	case token.DefP:
		return &ast.PromptDef{Span: span, Name: nameTok.Lexeme, Body: body}
	default:
		return &ast.ResourceTemplateDef{Span: span, Name: nameTok.Lexeme, Body: body}
	}
}

func collectionKindOf(marker token.Kind) ast.CollectionKind {
	switch marker {
	case token.DefR:
		return ast.CollectionResource
	case token.DefT:
		return ast.CollectionTool
	case token.DefP:
		return ast.CollectionPrompt
	default:
		return ast.CollectionResourceTemplate
	}
}

func (p *parser) parseCollection(marker token.Token) *ast.CollectionDef {
	assert.That(marker.Kind == token.DefR || marker.Kind == token.DefT ||
		marker.Kind == token.DefP || marker.Kind == token.DefRT,
		"marker must be a definition marker, got %s", marker.Kind)
	p.expect(token.LBracket, "'['")
	p.expect(token.RBracket, "']'")

	var items []ast.NamedBlock
	if p.c.check(token.LBrace) {
		p.c.advance()
		p.c.skip(triviaKinds...)
		for !p.c.check(token.RBrace) && !p.c.atEOF() {
			items = append(items, p.parseNamedBlock())
			p.c.match(token.Comma)
			p.c.skip(triviaKinds...)
		}
		p.expect(token.RBrace, "'}'")
	} else {
		nameTok := p.expectIdentLike("definition name")
		body := p.parseObject(ast.DefinitionBlockCtx)
		items = append(items, ast.NamedBlock{Span: body.Span, Name: nameTok.Lexeme, Value: body})
	}

	span := spanOf(marker, p.c.tokens[max0(p.c.pos-1)])
	return &ast.CollectionDef{Span: span, Kind: collectionKindOf(marker.Kind), Items: items}
}

func (p *parser) parseNamedBlock() ast.NamedBlock {
	nameTok := p.expectIdentLike("block name")
	p.expect(token.Colon, "':'")
	var val ast.Node
	switch {
	case p.c.check(token.LBrace):
		val = p.parseObject(ast.DefinitionBlockCtx)
	case p.c.check(token.String):
		strTok := p.c.advance()
		val = &ast.StringLit{Span: spanTok(strTok), Value: strTok.Literal.String, Multiline: strTok.Multiline}
	default:
		val = p.parseTypeExpr()
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return ast.NamedBlock{Span: spanOf(nameTok, end), Name: nameTok.Lexeme, Value: val}
}

// --- objects, fields, annotations ---

func (p *parser) parseObject(ctx ast.ContextKind) *ast.Object {
	lbrace := p.expect(token.LBrace, "'{'")
	var props []ast.ObjectProp
	p.c.skip(triviaKinds...)
	for !p.c.check(token.RBrace) && !p.c.atEOF() {
		prop := p.parseObjectProp(ctx)
		if prop != nil {
			props = append(props, prop)
		}
		p.c.match(token.Comma)
		p.c.skip(triviaKinds...)
	}
	rbrace := p.expect(token.RBrace, "'}'")
	return &ast.Object{Span: spanOf(lbrace, rbrace), Properties: props, Ctx: ctx}
}

func (p *parser) parseObjectProp(ctx ast.ContextKind) ast.ObjectProp {
	switch {
	case p.c.check(token.At):
		return p.parseAnnotation()
	case p.c.checkAny(token.DefR, token.DefT, token.DefP, token.DefRT):
		return p.parseDefinition()
	default:
		return p.parseFieldAssignment()
	}
}

func (p *parser) parseFieldAssignment() *ast.FieldAssignment {
	nameTok, ok := p.expectIdentLikeOK("field name")
	if !ok {
		p.c.advance()
		return nil
	}
	mod := ast.ModifierNone
	if _, ok := p.c.match(token.Bang); ok {
		mod = ast.ModifierRequired
	} else if _, ok := p.c.match(token.Question); ok {
		mod = ast.ModifierOptional
	}
	p.expect(token.Colon, "':'")
	val := p.parseValue(nameTok.Lexeme, ast.GeneralValue)
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.FieldAssignment{Span: spanOf(nameTok, end), Name: nameTok.Lexeme, Modifier: mod, Value: val}
}

func (p *parser) parseAnnotation() *ast.Annotation {
	atTok, _ := p.c.match(token.At)
	nameTok := p.expectIdentLike("annotation name")
	ann := &ast.Annotation{Name: nameTok.Lexeme}
	switch {
	case p.peekIs(token.Colon):
		p.c.advance()
		ann.Value = p.parseValue("", ast.GeneralValue)
	case p.peekIs(token.LParen):
		p.c.advance()
		ann.Args = append(ann.Args, p.parseValue("", ast.GeneralValue))
		for {
			if _, ok := p.c.match(token.Comma); ok {
				ann.Args = append(ann.Args, p.parseValue("", ast.GeneralValue))
				continue
			}
			break
		}
		p.expect(token.RParen, "')'")
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	ann.Span = spanOf(atTok, end)
	return ann
}

func (p *parser) peekIs(k token.Kind) bool { return p.c.check(k) }

// --- values ---

func (p *parser) atValueStart() bool {
	switch p.c.current().Kind {
	case token.String, token.Integer, token.Decimal, token.KwTrue, token.KwFalse, token.KwNull,
		token.LBracket, token.LBrace, token.At,
		token.ContentTxt, token.ContentImg, token.ContentAud, token.ContentRes,
		token.RoleUser, token.RoleAssistant, token.RoleSystem,
		token.DefR, token.DefT, token.DefP, token.DefRT,
		token.Identifier, token.MethodPath:
		return true
	}
	return isIdentLikeKind(p.c.current().Kind)
}

func (p *parser) parseValue(fieldName string, ctx ast.ContextKind) ast.Value {
	primary := p.parsePrimary(fieldName, ctx)
	var casts []string
	for {
		if _, ok := p.c.match(token.ColonColon); ok {
			idTok := p.expectIdentLike("cast name")
			casts = append(casts, idTok.Lexeme)
			continue
		}
		break
	}
	if len(casts) == 0 {
		return primary
	}
	return &ast.CastValue{Span: primary.Pos(), Value: primary, Casts: casts}
}

func (p *parser) parsePrimary(fieldName string, ctx ast.ContextKind) ast.Value {
	tok := p.c.current()
	switch tok.Kind {
	case token.String:
		p.c.advance()
		return &ast.StringLit{Span: spanTok(tok), Value: tok.Literal.String, Multiline: tok.Multiline}
	case token.Integer:
		p.c.advance()
		return &ast.IntegerLit{Span: spanTok(tok), Value: tok.Literal.Int}
	case token.Decimal:
		p.c.advance()
		return &ast.DecimalLit{Span: spanTok(tok), Value: tok.Literal.Float}
	case token.Minus:
		p.c.advance()
		n := p.expect(token.Integer, "integer")
		return &ast.IntegerLit{Span: spanOf(tok, n), Value: -n.Literal.Int}
	case token.KwTrue:
		p.c.advance()
		return &ast.BooleanLit{Span: spanTok(tok), Value: true}
	case token.KwFalse:
		p.c.advance()
		return &ast.BooleanLit{Span: spanTok(tok), Value: false}
	case token.KwNull:
		p.c.advance()
		return &ast.NullLit{Span: spanTok(tok)}
	case token.LBracket:
		return p.parseArray()
	case token.LBrace:
		return p.parseBraceValue(fieldName, ctx)
	case token.At:
		return p.parseAnnotation()
	case token.ContentTxt, token.ContentImg, token.ContentAud, token.ContentRes:
		c := p.parseContent()
		return &ast.ContentValue{Span: c.Pos(), Content: c}
	case token.ContentEmb:
		c := p.parseContent()
		return &ast.ContentValue{Span: c.Pos(), Content: c}
	case token.DefT:
		if p.c.peek(1).Kind == token.LBrace {
			c := p.parseContent()
			return &ast.ContentValue{Span: c.Pos(), Content: c}
		}
		return p.parseDefinition().(ast.Value)
	case token.DefR, token.DefP, token.DefRT:
		return p.parseDefinition().(ast.Value)
	case token.RoleUser, token.RoleAssistant, token.RoleSystem:
		if p.c.peek(1).Kind == token.Colon {
			return p.parseRoleMessage()
		}
		p.c.advance()
		return &ast.IdentifierLit{Span: spanTok(tok), Name: tok.Lexeme}
	default:
		if isIdentLikeKind(tok.Kind) {
			p.c.advance()
			return &ast.IdentifierLit{Span: spanTok(tok), Name: tok.Lexeme}
		}
		p.errorf(tok.Range, "unexpected token %s in value position", tok)
		p.c.advance()
		return &ast.NullLit{Span: spanTok(tok)}
	}
}

func (p *parser) parseArray() *ast.ArrayLit {
	lbrack := p.expect(token.LBracket, "'['")
	var elems []ast.Value
	p.c.skip(triviaKinds...)
	for !p.c.check(token.RBracket) && !p.c.atEOF() {
		elems = append(elems, p.parseValue("", ast.GeneralValue))
		p.c.match(token.Comma)
		p.c.skip(triviaKinds...)
	}
	rbrack := p.expect(token.RBracket, "']'")
	return &ast.ArrayLit{Span: spanOf(lbrack, rbrack), Elements: elems}
}

// parseBraceValue disambiguates the two shapes a bare '{' can open in
// value position: a capability set, or a general object. The field-name
// hint resolves the caps/capabilities convention directly (spec §4.3); a
// 2-token lookahead resolves the rest — a capability entry is always
// ID followed by '.', ',' or '}', never ':' (spec §9 "Ambiguous '{…}'
// shapes").
func (p *parser) parseBraceValue(fieldName string, ctx ast.ContextKind) ast.Value {
	if fieldName == "caps" || fieldName == "capabilities" {
		return p.parseCapabilitySet()
	}
	if p.looksLikeCapabilitySet() {
		return p.parseCapabilitySet()
	}
	return p.parseObject(ctx)
}

func (p *parser) looksLikeCapabilitySet() bool {
	first := p.c.peek(1)
	if !isIdentLikeKind(first.Kind) {
		return false
	}
	second := p.c.peek(2)
	return second.Kind == token.Dot || second.Kind == token.Comma || second.Kind == token.RBrace
}

func (p *parser) parseCapabilitySet() *ast.CapabilitySet {
	lbrace := p.expect(token.LBrace, "'{'")
	var caps []ast.Capability
	p.c.skip(triviaKinds...)
	for !p.c.check(token.RBrace) && !p.c.atEOF() {
		caps = append(caps, p.parseCapability())
		p.c.match(token.Comma)
		p.c.skip(triviaKinds...)
	}
	rbrace := p.expect(token.RBrace, "'}'")
	return &ast.CapabilitySet{Span: spanOf(lbrace, rbrace), Caps: caps}
}

func (p *parser) parseCapability() ast.Capability {
	first := p.expectIdentLike("capability name")
	path := []string{first.Lexeme}
	for {
		if _, ok := p.c.match(token.Dot); ok {
			idTok := p.expectIdentLike("capability path segment")
			path = append(path, idTok.Lexeme)
			continue
		}
		break
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return ast.Capability{Span: spanOf(first, end), Path: path}
}

func (p *parser) parseRoleMessage() *ast.RoleMessage {
	roleTok := p.c.advance()
	p.expect(token.Colon, "':'")
	var val ast.Value
	if strTok, ok := p.c.match(token.String); ok {
		val = &ast.StringLit{Span: spanTok(strTok), Value: strTok.Literal.String, Multiline: strTok.Multiline}
	} else {
		c := p.parseContentChain()
		val = &ast.ContentValue{Span: c.Pos(), Content: c}
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.RoleMessage{Span: spanOf(roleTok, end), Role: roleKindOf(roleTok.Kind), Content: val}
}

func roleKindOf(k token.Kind) ast.RoleKind {
	switch k {
	case token.RoleAssistant:
		return ast.RoleAssistant
	case token.RoleSystem:
		return ast.RoleSystem
	default:
		return ast.RoleUser
	}
}

func (p *parser) parseContentChain() ast.Content {
	first := p.parseContent()
	parts := []ast.Content{first}
	for {
		if _, ok := p.c.match(token.Plus); ok {
			parts = append(parts, p.parseContent())
			continue
		}
		break
	}
	if len(parts) == 1 {
		return parts[0]
	}
	start, end := parts[0].Pos(), parts[len(parts)-1].Pos()
	return &ast.CompositeContent{Span: ast.Span{Range: token.Range{Start: start.Start, End: end.End}}, Parts: parts}
}

func (p *parser) parseContent() ast.Content {
	tok := p.c.current()
	switch tok.Kind {
	case token.ContentTxt:
		p.c.advance()
		strTok := p.expect(token.String, "text content")
		return &ast.TextContent{Span: spanOf(tok, strTok), Text: strTok.Literal.String, Multiline: strTok.Multiline}
	case token.ContentImg:
		p.c.advance()
		strTok := p.expect(token.String, "image data")
		format := ""
		if _, ok := p.c.match(token.ColonColon); ok {
			idTok := p.expectIdentLike("image format")
			format = idTok.Lexeme
		}
		end := p.c.tokens[max0(p.c.pos-1)]
		return &ast.ImageContent{Span: spanOf(tok, end), Data: strTok.Literal.String, Format: format}
	case token.ContentAud:
		p.c.advance()
		strTok := p.expect(token.String, "audio data")
		format := ""
		if _, ok := p.c.match(token.ColonColon); ok {
			idTok := p.expectIdentLike("audio format")
			format = idTok.Lexeme
		}
		end := p.c.tokens[max0(p.c.pos-1)]
		return &ast.AudioContent{Span: spanOf(tok, end), Data: strTok.Literal.String, Format: format}
	case token.ContentRes:
		p.c.advance()
		p.expect(token.LBrace, "'{'")
		idTok := p.expectIdentLike("resource name")
		rbrace := p.expect(token.RBrace, "'}'")
		return &ast.ResourceRef{Span: spanOf(tok, rbrace), Name: idTok.Lexeme}
	case token.DefT:
		p.c.advance()
		p.expect(token.LBrace, "'{'")
		idTok := p.expectIdentLike("tool name")
		rbrace := p.expect(token.RBrace, "'}'")
		return &ast.ToolRef{Span: spanOf(tok, rbrace), Name: idTok.Lexeme}
	case token.ContentEmb:
		p.c.advance()
		body := p.parseObject(ast.GeneralValue)
		return &ast.EmbeddedResource{Span: spanR(tok.Range.Start, body.Pos().End), Body: body}
	default:
		p.errorf(tok.Range, "unexpected token %s, expected content", tok)
		p.c.advance()
		return &ast.TextContent{Span: spanTok(tok)}
	}
}

// --- type expressions ---

func (p *parser) parseTypeExpr() ast.Type {
	first := p.parseCast()
	alts := []ast.Type{first}
	for {
		if _, ok := p.c.match(token.Pipe); ok {
			alts = append(alts, p.parseCast())
			continue
		}
		break
	}
	if len(alts) < 2 {
		return first
	}
	return &ast.UnionType{Span: ast.Span{Range: token.Range{Start: alts[0].Pos().Start, End: alts[len(alts)-1].Pos().End}}, Types: alts}
}

func (p *parser) parseCast() ast.Type {
	base := p.parsePrimaryType()
	var casts []string
	for {
		if _, ok := p.c.match(token.ColonColon); ok {
			idTok := p.expectIdentLike("cast name")
			casts = append(casts, idTok.Lexeme)
			continue
		}
		break
	}
	if len(casts) == 0 {
		return base
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return &ast.CastType{Span: spanR(base.Pos().Start, end.Range.End), Base: base, Casts: casts}
}

func (p *parser) parsePrimaryType() ast.Type {
	base := p.parseBaseType()
	if _, ok := p.c.match(token.Bang); ok {
		return &ast.PrimaryType{Span: base.Pos(), Base: base, Modifier: ast.ModifierRequired}
	}
	if _, ok := p.c.match(token.Question); ok {
		return &ast.PrimaryType{Span: base.Pos(), Base: base, Modifier: ast.ModifierOptional}
	}
	return base
}

func (p *parser) parseBaseType() ast.Type {
	tok := p.c.current()
	switch tok.Kind {
	case token.TypeStr, token.TypeInt, token.TypeNum, token.TypeBool, token.TypeURI, token.TypeBlob:
		p.c.advance()
		return &ast.PrimitiveType{Span: spanTok(tok), Kind: primKindOf(tok.Kind)}
	case token.LBracket:
		p.c.advance()
		var elem ast.Type
		if !p.c.check(token.RBracket) {
			elem = p.parseTypeExpr()
		}
		rbrack := p.expect(token.RBracket, "']'")
		return &ast.ArrayType{Span: spanOf(tok, rbrack), Elem: elem}
	case token.LBrace:
		p.c.advance()
		var fields []ast.FieldDef
		p.c.skip(triviaKinds...)
		for !p.c.check(token.RBrace) && !p.c.atEOF() {
			fields = append(fields, p.parseFieldDef())
			p.c.match(token.Comma)
			p.c.skip(triviaKinds...)
		}
		rbrace := p.expect(token.RBrace, "'}'")
		return &ast.ObjectType{Span: spanOf(tok, rbrace), Fields: fields}
	case token.KwEnum:
		p.c.advance()
		p.expect(token.LBracket, "'['")
		var vals []string
		for !p.c.check(token.RBracket) && !p.c.atEOF() {
			idTok := p.expectIdentLike("enum value")
			vals = append(vals, idTok.Lexeme)
			p.c.match(token.Comma)
		}
		rbrack := p.expect(token.RBracket, "']'")
		return &ast.EnumType{Span: spanOf(tok, rbrack), Values: vals}
	case token.LParen:
		p.c.advance()
		inner := p.parseTypeExpr()
		p.expect(token.RParen, "')'")
		return inner
	default:
		idTok := p.expectIdentLike("type name")
		return &ast.ReferenceType{Span: spanTok(idTok), Name: idTok.Lexeme}
	}
}

func (p *parser) parseFieldDef() ast.FieldDef {
	nameTok := p.expectIdentLike("field name")
	mod := ast.ModifierNone
	if _, ok := p.c.match(token.Bang); ok {
		mod = ast.ModifierRequired
	} else if _, ok := p.c.match(token.Question); ok {
		mod = ast.ModifierOptional
	}
	p.expect(token.Colon, "':'")
	ftype := p.parseTypeExpr()
	// A trailing '!'/'?' on the type expression itself (primary_type's own
	// postfix) binds to the field, per spec §4.3; lift it here if the field
	// itself carried no modifier of its own.
	if pt, ok := ftype.(*ast.PrimaryType); ok && mod == ast.ModifierNone {
		mod = pt.Modifier
		ftype = pt.Base
	}
	end := p.c.tokens[max0(p.c.pos-1)]
	return ast.FieldDef{Span: spanOf(nameTok, end), Name: nameTok.Lexeme, Modifier: mod, Type: ftype}
}

func primKindOf(k token.Kind) ast.PrimitiveKind {
	switch k {
	case token.TypeInt:
		return ast.PrimInt
	case token.TypeNum:
		return ast.PrimNum
	case token.TypeBool:
		return ast.PrimBool
	case token.TypeURI:
		return ast.PrimURI
	case token.TypeBlob:
		return ast.PrimBlob
	default:
		return ast.PrimStr
	}
}

// --- shared helpers ---

// expectIdentLike accepts an Identifier token or any soft-keyword token
// used as a name (e.g. a field named "uri" or "str", which lex as
// TypeURI/TypeStr rather than Identifier) and returns it, recording a
// diagnostic and returning the current token unconsumed on mismatch.
func (p *parser) expectIdentLike(what string) token.Token {
	tok, ok := p.expectIdentLikeOK(what)
	if !ok {
		return tok
	}
	return tok
}

func (p *parser) expectIdentLikeOK(what string) (token.Token, bool) {
	tok := p.c.current()
	if isIdentLikeKind(tok.Kind) {
		p.c.advance()
		return tok, true
	}
	p.errorf(tok.Range, "expected %s, found %s", what, tok)
	return tok, false
}

func (p *parser) expectMethodPath() string {
	tok := p.c.current()
	if tok.Kind == token.MethodPath || isIdentLikeKind(tok.Kind) {
		p.c.advance()
		return tok.Lexeme
	}
	p.errorf(tok.Range, "expected method path, found %s", tok)
	return ""
}

func (p *parser) expect(k token.Kind, what string) token.Token {
	tok, ok := p.c.match(k)
	if ok {
		return tok
	}
	cur := p.c.current()
	p.errorf(cur.Range, "expected %s, found %s", what, cur)
	return cur
}

func (p *parser) errorf(r token.Range, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, diag.Errorf(r, format, args...))
}

// isIdentLikeKind reports whether a token of kind k can be used as a name
// in a position the grammar marks ID: a plain Identifier, or any of the
// "soft keywords" that are reserved words in other positions but have no
// special meaning as a bare name (spec §3.1's keyword set overlaps
// field/definition/capability names like "uri", "str", "true" in practice).
func isIdentLikeKind(k token.Kind) bool {
	switch k {
	case token.Identifier,
		token.KwServer, token.KwEnum, token.KwTrue, token.KwFalse, token.KwNull,
		token.TypeStr, token.TypeInt, token.TypeNum, token.TypeBool, token.TypeURI, token.TypeBlob,
		token.ContentTxt, token.ContentImg, token.ContentAud, token.ContentRes, token.ContentEmb,
		token.RoleUser, token.RoleAssistant, token.RoleSystem,
		token.DefR, token.DefT, token.DefP, token.DefRT, token.Error:
		return true
	}
	return false
}

func spanTok(t token.Token) ast.Span { return ast.Span{Range: t.Range} }

func spanOf(start, end token.Token) ast.Span {
	return ast.Span{Range: token.Range{Start: start.Range.Start, End: end.Range.End}}
}

func spanR(start, end token.Position) ast.Span {
	return ast.Span{Range: token.Range{Start: start, End: end}}
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
