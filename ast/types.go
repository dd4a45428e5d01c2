package ast

// Type is a type expression as used inside an ObjectType's field list or a
// Tool/Resource schema position (spec §6.1 type_expr).
type Type interface {
	Node
	typeNode()
}

// PrimitiveKind enumerates the scalar primitives of spec §6.2.
type PrimitiveKind int

const (
	PrimStr PrimitiveKind = iota
	PrimInt
	PrimNum
	PrimBool
	PrimURI
	PrimBlob
)

func (p PrimitiveKind) String() string {
	switch p {
	case PrimStr:
		return "str"
	case PrimInt:
		return "int"
	case PrimNum:
		return "num"
	case PrimBool:
		return "bool"
	case PrimURI:
		return "uri"
	case PrimBlob:
		return "blob"
	default:
		return "?"
	}
}

// PrimitiveType is one of str|int|num|bool|uri|blob.
type PrimitiveType struct {
	Span
	Kind PrimitiveKind
}

func (*PrimitiveType) typeNode() {}

// ArrayType is `'[' type_expr? ']'`; Elem is nil for a bare `[]`.
type ArrayType struct {
	Span
	Elem Type
}

func (*ArrayType) typeNode() {}

// FieldDef is one field of an [ObjectType]'s field list.
type FieldDef struct {
	Span
	Name     string
	Modifier Modifier
	Type     Type
}

// ObjectType is `'{' field_list? '}'` in type position.
type ObjectType struct {
	Span
	Fields []FieldDef
}

func (*ObjectType) typeNode() {}

// EnumType is `'enum' '[' ID (',' ID)* ']'`.
type EnumType struct {
	Span
	Values []string
}

func (*EnumType) typeNode() {}

// ReferenceType is a bare identifier referring to another named definition;
// it compiles to a JSON Schema `$ref` (spec §9).
type ReferenceType struct {
	Span
	Name string
}

func (*ReferenceType) typeNode() {}

// UnionType is `cast ('|' cast)*` with at least two alternatives.
type UnionType struct {
	Span
	Types []Type
}

func (*UnionType) typeNode() {}

// CastType is `primary_type ('::' ID)*`, recorded only when at least one
// cast is present.
type CastType struct {
	Span
	Base  Type
	Casts []string
}

func (*CastType) typeNode() {}

// PrimaryType is `base_type ('!'|'?')?`, recorded only when a postfix
// modifier is present; the modifier binds to the enclosing field, not the
// type expression itself (spec §4.3), so this node exists mainly to carry
// the modifier through type-expression parsing before it is lifted onto the
// containing [FieldDef].
type PrimaryType struct {
	Span
	Base     Type
	Modifier Modifier
}

func (*PrimaryType) typeNode() {}
