// Package schema converts MCP-DSL type expressions (ast.Type) into JSON
// Schema documents, the mapping spec §6.2 specifies for tool input/output
// schemas and resource/prompt field shapes.
//
// Grounded on MacroPower-x's magicschema/generator.go: the same
// "walk the AST, build *jsonschema.Schema, accumulate Required as you go"
// style, retargeted from a YAML-inference walk onto a walk over a fully
// typed DSL AST, so there is no type inference step here — every field's
// type is already known from parsing.
package schema

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/mcpdsl/mcpdsl/ast"
)

// FromType converts a single type expression to a JSON Schema.
func FromType(t ast.Type) *jsonschema.Schema {
	if t == nil {
		return &jsonschema.Schema{}
	}

	switch n := t.(type) {
	case *ast.PrimitiveType:
		return primitiveSchema(n.Kind)
	case *ast.ArrayType:
		s := &jsonschema.Schema{Type: "array"}
		if n.Elem != nil {
			s.Items = FromType(n.Elem)
		}
		return s
	case *ast.ObjectType:
		return objectSchema(n)
	case *ast.EnumType:
		s := &jsonschema.Schema{Type: "string"}
		for _, v := range n.Values {
			s.Enum = append(s.Enum, v)
		}
		return s
	case *ast.ReferenceType:
		return &jsonschema.Schema{Ref: "#/$defs/" + n.Name}
	case *ast.UnionType:
		s := &jsonschema.Schema{}
		for _, alt := range n.Types {
			s.OneOf = append(s.OneOf, FromType(alt))
		}
		return s
	case *ast.CastType:
		// a cast names an out-of-band encoding (e.g. `str::base64`); the
		// wire shape is still that of the base type, so the cast name is
		// recorded as a free-form format hint rather than a schema keyword
		// of its own.
		s := FromType(n.Base)
		if len(n.Casts) > 0 {
			s.Format = n.Casts[len(n.Casts)-1]
		}
		return s
	case *ast.PrimaryType:
		return FromType(n.Base)
	default:
		return &jsonschema.Schema{}
	}
}

func primitiveSchema(k ast.PrimitiveKind) *jsonschema.Schema {
	switch k {
	case ast.PrimStr:
		return &jsonschema.Schema{Type: "string"}
	case ast.PrimInt:
		return &jsonschema.Schema{Type: "integer"}
	case ast.PrimNum:
		return &jsonschema.Schema{Type: "number"}
	case ast.PrimBool:
		return &jsonschema.Schema{Type: "boolean"}
	case ast.PrimURI:
		return &jsonschema.Schema{Type: "string", Format: "uri"}
	case ast.PrimBlob:
		return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}
	default:
		return &jsonschema.Schema{}
	}
}

func objectSchema(n *ast.ObjectType) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(n.Fields)),
	}
	for _, f := range n.Fields {
		s.Properties[f.Name] = FromType(f.Type)
		if f.Modifier == ast.ModifierRequired {
			s.Required = append(s.Required, f.Name)
		}
	}
	if len(s.Properties) == 0 {
		s.Properties = nil
	}
	return s
}

// FromObject converts an object literal's field assignments into a JSON
// Schema object by inferring each value's shape. The compiler calls it
// only with an empty object, to build a tool's default inputSchema.
func FromObject(o *ast.Object) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema),
	}
	for _, prop := range o.Properties {
		fa, ok := prop.(*ast.FieldAssignment)
		if !ok {
			continue
		}
		s.Properties[fa.Name] = FromValue(fa.Value)
		if fa.Modifier == ast.ModifierRequired {
			s.Required = append(s.Required, fa.Name)
		}
	}
	if len(s.Properties) == 0 {
		s.Properties = nil
	}
	return s
}

// FromValue infers a JSON Schema shape from a literal value; FromObject
// uses it for each field.
func FromValue(v ast.Value) *jsonschema.Schema {
	switch n := v.(type) {
	case *ast.StringLit:
		return &jsonschema.Schema{Type: "string"}
	case *ast.IntegerLit:
		return &jsonschema.Schema{Type: "integer"}
	case *ast.DecimalLit:
		return &jsonschema.Schema{Type: "number"}
	case *ast.BooleanLit:
		return &jsonschema.Schema{Type: "boolean"}
	case *ast.NullLit:
		return &jsonschema.Schema{Type: "null"}
	case *ast.ArrayLit:
		s := &jsonschema.Schema{Type: "array"}
		if len(n.Elements) > 0 {
			s.Items = FromValue(n.Elements[0])
		}
		return s
	case *ast.Object:
		return FromObject(n)
	case *ast.CastValue:
		s := FromValue(n.Value)
		if len(n.Casts) > 0 {
			s.Format = n.Casts[len(n.Casts)-1]
		}
		return s
	default:
		return &jsonschema.Schema{}
	}
}
