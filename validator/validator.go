// Package validator implements the MCP-DSL semantic validation pass, spec
// §4.4: a second traversal over the AST that enforces rules the grammar
// itself cannot express (object-context property restrictions, required
// fields on definitions, annotation target/arity checks, range checks on
// ids, codes, and versions).
//
// The teacher has no standalone semantic pass of its own — dot.Parser
// folds every check it has into parsing. This package is grounded instead
// on the *shape* of lsp/internal/diagnostic.Compute: a function from parsed
// structure to a flat []Diagnostic, called once after parsing completes.
package validator

import (
	"github.com/mcpdsl/mcpdsl/ast"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/token"
)

// target identifies which kind of definition an annotation was found
// inside, used to check the annotation/target-kind table in spec §6.2.
type target int

const (
	targetAny target = iota
	targetTool
	targetResource
	targetPrompt
	targetResourceTemplate
	targetInitialize
)

// knownAnnotations maps an annotation name to the definition kinds spec
// §6.2 associates it with. Names absent from this table are unknown,
// custom annotations: spec §4.4 says these "pass through... and are
// preserved" with no target check at all.
var knownAnnotations = map[string][]target{
	"readonly":    {targetTool},
	"idempotent":  {targetTool},
	"destructive": {targetTool},
	"openWorld":   {targetTool},
	"priority":    {targetResource, targetPrompt, targetResourceTemplate},
	"audience":    {targetResource, targetPrompt, targetResourceTemplate},
	"impl":        {targetInitialize},
}

var imageFormats = map[string]bool{
	"png": true, "jpeg": true, "jpg": true, "gif": true, "webp": true, "svg": true,
}

var audioFormats = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "flac": true, "aac": true,
}

// Validate walks doc and returns every diagnostic the semantic rules in
// spec §4.4 produce. A document is valid iff none of them are Error
// severity (spec §4.4, §7); Validate itself never refuses to finish a
// traversal — every rule violation is recorded and checking continues.
func Validate(doc *ast.Document) []diag.Diagnostic {
	v := &validator{}
	for _, item := range doc.Body {
		v.item(item)
	}
	return v.diagnostics
}

type validator struct {
	diagnostics []diag.Diagnostic
}

func (v *validator) errorf(r token.Range, format string, args ...any) {
	v.diagnostics = append(v.diagnostics, diag.Errorf(r, format, args...))
}

func (v *validator) warningf(r token.Range, format string, args ...any) {
	v.diagnostics = append(v.diagnostics, diag.Warningf(r, format, args...))
}

func (v *validator) item(item ast.DocumentItem) {
	switch n := item.(type) {
	case *ast.Request:
		v.id(n.ID, n.Pos())
		if n.Params != nil {
			target := targetAny
			if n.Method == "initialize" {
				target = targetInitialize
			}
			v.object(n.Params, target)
		}
	case *ast.Response:
		v.id(n.ID, n.Pos())
		if n.Result != nil {
			v.value(n.Result, targetAny)
		}
	case *ast.Notification:
		if n.Params != nil {
			v.object(n.Params, targetAny)
		}
	case *ast.Error:
		v.id(n.ID, n.Pos())
		v.code(n.Code, n.Pos())
		if n.Data != nil {
			v.value(n.Data, targetAny)
		}
	case *ast.ServerBlock:
		if n.Version != nil {
			v.version(n.Version)
		}
		v.object(n.Body, targetInitialize)
	case ast.Definition:
		v.definition(n)
	}
}

func (v *validator) id(id int64, r token.Range) {
	if id < 0 {
		v.errorf(r, "message id must be non-negative, got %d", id)
	}
}

// code checks the JSON-RPC standard error-code range, spec §3.3: values
// outside [-32768, -32000] are unusual but not invalid.
func (v *validator) code(code int64, r token.Range) {
	if code < -32768 || code > -32000 {
		v.warningf(r, "error code %d is outside the standard JSON-RPC range [-32768, -32000]", code)
	}
}

func (v *validator) version(ver *ast.Version) {
	if ver.Major < 0 || ver.Minor < 0 || ver.Patch < 0 {
		v.errorf(ver.Pos(), "version numbers must be non-negative")
	}
}

func (v *validator) definition(d ast.Definition) {
	switch n := d.(type) {
	case *ast.ResourceDef:
		v.requireField(n.Body, "uri", n.Pos())
		v.object(n.Body, targetResource)
	case *ast.ResourceTemplateDef:
		v.requireField(n.Body, "uri", n.Pos())
		v.object(n.Body, targetResourceTemplate)
	case *ast.ToolDef:
		if !hasField(n.Body, "desc") && !hasField(n.Body, "description") {
			v.warningf(n.Pos(), "tool %q has no description", n.Name)
		}
		v.object(n.Body, targetTool)
	case *ast.PromptDef:
		v.object(n.Body, targetPrompt)
	case *ast.CollectionDef:
		t := collectionTarget(n.Kind)
		for _, item := range n.Items {
			switch val := item.Value.(type) {
			case *ast.Object:
				v.object(val, t)
			case ast.Type:
				v.typeExpr(val)
			}
		}
	}
}

func collectionTarget(k ast.CollectionKind) target {
	switch k {
	case ast.CollectionTool:
		return targetTool
	case ast.CollectionResource:
		return targetResource
	case ast.CollectionPrompt:
		return targetPrompt
	default:
		return targetResourceTemplate
	}
}

func (v *validator) requireField(o *ast.Object, name string, r token.Range) {
	if !hasField(o, name) {
		v.errorf(r, "missing required field %q", name)
	}
}

func hasField(o *ast.Object, name string) bool {
	if o == nil {
		return false
	}
	for _, prop := range o.Properties {
		if fa, ok := prop.(*ast.FieldAssignment); ok && fa.Name == name {
			return true
		}
	}
	return false
}

// object enforces the per-ctx property-shape rules of spec §3.3 and
// recurses into every property's value.
func (v *validator) object(o *ast.Object, t target) {
	for _, prop := range o.Properties {
		switch p := prop.(type) {
		case *ast.FieldAssignment:
			if p.Value != nil {
				v.value(p.Value, t)
			}
		case *ast.Annotation:
			if o.Ctx == ast.ErrorDataCtx {
				v.errorf(p.Pos(), "annotations are not permitted in error data")
			}
			v.annotation(p, t)
		case ast.Definition:
			if o.Ctx == ast.ErrorDataCtx || o.Ctx == ast.RequestParamsCtx || o.Ctx == ast.ResponseResultCtx {
				v.errorf(p.Pos(), "nested definitions are not permitted here")
			}
			v.definition(p)
		}
	}
}

func (v *validator) annotation(a *ast.Annotation, t target) {
	if a.Name == "impl" {
		if len(a.Args) != 2 {
			v.errorf(a.Pos(), "@impl requires exactly two arguments (name, version), got %d", len(a.Args))
		}
	}
	if targets, known := knownAnnotations[a.Name]; known && t != targetAny {
		if !containsTarget(targets, t) {
			v.warningf(a.Pos(), "annotation @%s is not expected on this kind of definition", a.Name)
		}
	}
	if a.Value != nil {
		v.value(a.Value, targetAny)
	}
	for _, arg := range a.Args {
		v.value(arg, targetAny)
	}
}

func containsTarget(ts []target, t target) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

func (v *validator) value(val ast.Value, t target) {
	switch n := val.(type) {
	case *ast.Object:
		v.object(n, t)
	case *ast.CapabilitySet:
		v.capabilitySet(n)
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			v.value(el, t)
		}
	case *ast.CastValue:
		v.value(n.Value, t)
	case *ast.ContentValue:
		v.content(n.Content)
	case *ast.RoleMessage:
		v.value(n.Content, t)
	case *ast.Annotation:
		v.annotation(n, t)
	case ast.Definition:
		v.definition(n)
	}
}

func (v *validator) capabilitySet(cs *ast.CapabilitySet) {
	for _, c := range cs.Caps {
		if len(c.Path) == 0 {
			v.errorf(c.Pos(), "capability path must not be empty")
		}
	}
}

func (v *validator) content(c ast.Content) {
	switch n := c.(type) {
	case *ast.ImageContent:
		if n.Format != "" && !imageFormats[n.Format] {
			v.warningf(n.Pos(), "unrecognized image format %q", n.Format)
		}
	case *ast.AudioContent:
		if n.Format != "" && !audioFormats[n.Format] {
			v.warningf(n.Pos(), "unrecognized audio format %q", n.Format)
		}
	case *ast.EmbeddedResource:
		v.object(n.Body, targetResource)
	case *ast.CompositeContent:
		for _, part := range n.Parts {
			v.content(part)
		}
	}
}

func (v *validator) typeExpr(t ast.Type) {
	switch n := t.(type) {
	case *ast.ArrayType:
		if n.Elem != nil {
			v.typeExpr(n.Elem)
		}
	case *ast.ObjectType:
		for _, f := range n.Fields {
			v.typeExpr(f.Type)
		}
	case *ast.EnumType:
		if len(n.Values) == 0 {
			v.errorf(n.Pos(), "enum must have at least one value")
		}
		seen := map[string]bool{}
		for _, val := range n.Values {
			if seen[val] {
				v.warningf(n.Pos(), "duplicate enum value %q", val)
			}
			seen[val] = true
		}
	case *ast.UnionType:
		if len(n.Types) < 2 {
			v.errorf(n.Pos(), "union type must have at least two alternatives")
		}
		for _, alt := range n.Types {
			v.typeExpr(alt)
		}
	case *ast.CastType:
		v.typeExpr(n.Base)
	case *ast.PrimaryType:
		v.typeExpr(n.Base)
	}
}
