// Package ast contains the typed abstract syntax tree for MCP-DSL, as laid
// out in spec §3.2. A single conceptual sum type is modeled as a family of
// small Go interfaces plus one concrete struct per variant, the same idiom
// the teacher uses for its own Node/Stmt interfaces: a marker method per
// category (messageNode, definitionNode, ...) plus a shared Pos() method.
package ast

import "github.com/mcpdsl/mcpdsl/token"

// Node is implemented by every AST node. Pos reports the source range the
// node was parsed from; ranges contain no pointers into the source buffer,
// only line/column/offset positions, so the AST outlives the token stream
// (spec §3.3 Lifetime).
type Node interface {
	Pos() token.Range
}

// Span is embedded by every concrete node to implement Pos.
type Span struct {
	Range token.Range
}

func (s Span) Pos() token.Range { return s.Range }

// Document is the root of a parsed MCP-DSL source file.
type Document struct {
	Span
	Body []DocumentItem
}

// DocumentItem is a Message, a Definition, or a ServerBlock appearing at
// the top level of a Document.
type DocumentItem interface {
	Node
	documentItem()
}

// Message is a Request, Response, Notification, or Error.
type Message interface {
	DocumentItem
	messageNode()
}

// Modifier marks a FieldAssignment or a type field as required ('!'),
// optional ('?'), or unmarked.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierRequired
	ModifierOptional
)

// Request is '>' method_path '#' id params?.
type Request struct {
	Span
	Method string
	ID     int64
	Params *Object
}

func (*Request) documentItem() {}
func (*Request) messageNode()  {}

// Response is '<' '#' id value?. Exactly one of Result is set; a Response
// carrying an error is represented by [Error] instead (spec §3.3).
type Response struct {
	Span
	ID     int64
	Result Value
}

func (*Response) documentItem() {}
func (*Response) messageNode()  {}

// Notification is '!' method_path params?, carrying no id.
type Notification struct {
	Span
	Method string
	Params *Object
}

func (*Notification) documentItem() {}
func (*Notification) messageNode()  {}

// Error is 'x' '#' id code ':' message value?.
type Error struct {
	Span
	ID      int64
	Code    int64
	Message string
	Data    Value
}

func (*Error) documentItem() {}
func (*Error) messageNode()  {}

// ServerBlock is 'server' name version? object.
type ServerBlock struct {
	Span
	Name    string
	Version *Version
	Body    *Object
}

func (*ServerBlock) documentItem() {}

// Version is 'v' MAJOR '.' MINOR '.' PATCH.
type Version struct {
	Span
	Major, Minor, Patch int
}
