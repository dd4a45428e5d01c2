// Package compiler implements the AST → JSON-RPC/MCP compiler, spec §4.5.
//
// Grounded on teleivo-dot's printer.go: the same node-kind switch dispatch
// (printNode/printGraph/printStmt/...) that walks the AST in source order,
// except each printX here becomes a compileX that builds a JSON-able value
// instead of writing text.
package compiler

import (
	"github.com/mcpdsl/mcpdsl/ast"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/internal/schema"
	"github.com/mcpdsl/mcpdsl/jsonrpc"
)

// Result is the compiled form of a document: the messages and artefact
// collections spec §6.4's compile entry point returns, in source order.
type Result struct {
	Messages          []*object `json:"messages,omitempty"`
	Tools             []*object `json:"tools,omitempty"`
	Resources         []*object `json:"resources,omitempty"`
	Prompts           []*object `json:"prompts,omitempty"`
	ResourceTemplates []*object `json:"resourceTemplates,omitempty"`
	ServerInfo        *object   `json:"serverInfo,omitempty"`
}

// fieldNameMap implements the DSL→JSON field-name table of spec §6.2.
// "ok" and "info" are handled separately since they rewrite conditionally.
var fieldNameMap = map[string]string{
	"v":    "protocolVersion",
	"caps": "capabilities",
	"args": "arguments",
	"desc": "description",
	"mime": "mimeType",
	"in":   "inputSchema",
	"out":  "outputSchema",
	"msgs": "messages",
}

// compileCtx threads the handful of facts compileObject needs to apply the
// context-sensitive rewrites spec §4.5 calls out (ok→isError, info→
// clientInfo/serverInfo) without every call site having to know about them.
type compileCtx struct {
	inInitializeParams bool
}

type compiler struct {
	diagnostics []diag.Diagnostic
	resourceURI map[string]string // definition name -> uri, for `res{name}` content refs
}

// Compile converts doc into its JSON-RPC/MCP representation.
func Compile(doc *ast.Document) (*Result, []diag.Diagnostic) {
	c := &compiler{resourceURI: map[string]string{}}
	c.collectResourceURIs(doc)

	result := &Result{}
	for _, item := range doc.Body {
		switch n := item.(type) {
		case *ast.Request:
			result.Messages = append(result.Messages, c.compileRequest(n))
		case *ast.Response:
			result.Messages = append(result.Messages, c.compileResponse(n))
		case *ast.Notification:
			result.Messages = append(result.Messages, c.compileNotification(n))
		case *ast.Error:
			result.Messages = append(result.Messages, c.compileError(n))
		case *ast.ServerBlock:
			result.ServerInfo = c.compileServerBlock(n)
		case *ast.ToolDef:
			result.Tools = append(result.Tools, c.compileToolDef(n))
		case *ast.ResourceDef:
			result.Resources = append(result.Resources, c.compileResourceDef(n))
		case *ast.PromptDef:
			result.Prompts = append(result.Prompts, c.compilePromptDef(n))
		case *ast.ResourceTemplateDef:
			result.ResourceTemplates = append(result.ResourceTemplates, c.compileResourceTemplateDef(n))
		case *ast.CollectionDef:
			c.compileCollection(n, result)
		}
	}
	return result, c.diagnostics
}

func (c *compiler) collectResourceURIs(doc *ast.Document) {
	record := func(name string, body *ast.Object) {
		for _, prop := range body.Properties {
			if fa, ok := prop.(*ast.FieldAssignment); ok && fa.Name == "uri" {
				if s, ok := fa.Value.(*ast.StringLit); ok {
					c.resourceURI[name] = s.Value
				}
			}
		}
	}
	for _, item := range doc.Body {
		switch n := item.(type) {
		case *ast.ResourceDef:
			record(n.Name, n.Body)
		case *ast.ResourceTemplateDef:
			record(n.Name, n.Body)
		case *ast.CollectionDef:
			if n.Kind != ast.CollectionResource && n.Kind != ast.CollectionResourceTemplate {
				continue
			}
			for _, nb := range n.Items {
				if o, ok := nb.Value.(*ast.Object); ok {
					record(nb.Name, o)
				}
			}
		}
	}
}

func (c *compiler) compileRequest(n *ast.Request) *object {
	o := newObject()
	o.set("jsonrpc", "2.0")
	o.set("id", n.ID)
	o.set("method", n.Method)
	if n.Params != nil {
		ctx := compileCtx{inInitializeParams: n.Method == "initialize"}
		o.set("params", c.compileObject(n.Params, ctx))
	}
	return o
}

func (c *compiler) compileResponse(n *ast.Response) *object {
	o := newObject()
	o.set("jsonrpc", "2.0")
	o.set("id", n.ID)
	if n.Result != nil {
		o.set("result", c.compileValue(n.Result, compileCtx{}))
	}
	return o
}

func (c *compiler) compileNotification(n *ast.Notification) *object {
	o := newObject()
	o.set("jsonrpc", "2.0")
	o.set("method", n.Method)
	if n.Params != nil {
		o.set("params", c.compileObject(n.Params, compileCtx{}))
	}
	return o
}

func (c *compiler) compileError(n *ast.Error) *object {
	o := newObject()
	o.set("jsonrpc", "2.0")
	o.set("id", n.ID)
	errObj := newObject()
	errObj.set("code", jsonrpc.ErrorCode(n.Code))
	errObj.set("message", n.Message)
	if n.Data != nil {
		errObj.set("data", c.compileValue(n.Data, compileCtx{}))
	}
	o.set("error", errObj)
	return o
}

func (c *compiler) compileServerBlock(n *ast.ServerBlock) *object {
	o := c.compileObject(n.Body, compileCtx{})
	o.set("name", n.Name)
	if n.Version != nil {
		o.set("protocolVersion", versionString(n.Version))
	}
	return o
}

func versionString(v *ast.Version) string {
	return itoa(v.Major) + "." + itoa(v.Minor) + "." + itoa(v.Patch)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

// compileObject builds an [object] from o's properties in source order,
// applying the field-name rewrites of spec §6.2/§4.5 and aggregating
// annotations into the enclosing object's "annotations" map.
func (c *compiler) compileObject(o *ast.Object, ctx compileCtx) *object {
	out := newObject()
	annotations := newObject()
	for _, prop := range o.Properties {
		switch p := prop.(type) {
		case *ast.FieldAssignment:
			c.compileFieldAssignment(p, ctx, out)
		case *ast.Annotation:
			c.compileAnnotation(p, out, annotations)
		case ast.Definition:
			// a definition nested inside another definition's block compiles
			// to its own artefact shape, keyed by its own name.
			out.set(definitionName(p), c.compileDefinition(p))
		}
	}
	if annotations.len() > 0 {
		out.set("annotations", annotations)
	}
	return out
}

func (c *compiler) compileFieldAssignment(fa *ast.FieldAssignment, ctx compileCtx, out *object) {
	name := fa.Name
	var val any
	if fa.Value != nil {
		val = c.compileValue(fa.Value, ctx)
	}

	switch name {
	case "ok":
		if b, ok := val.(bool); ok {
			out.set("isError", !b)
			return
		}
	case "info":
		if ctx.inInitializeParams {
			out.set("clientInfo", val)
		} else {
			out.set("serverInfo", val)
		}
		return
	}
	if mapped, ok := fieldNameMap[name]; ok {
		out.set(mapped, val)
		return
	}
	out.set(name, val)
}

func (c *compiler) compileValue(v ast.Value, ctx compileCtx) any {
	switch n := v.(type) {
	case *ast.StringLit:
		return n.Value
	case *ast.IntegerLit:
		return n.Value
	case *ast.DecimalLit:
		return n.Value
	case *ast.BooleanLit:
		return n.Value
	case *ast.NullLit:
		return nil
	case *ast.IdentifierLit:
		return n.Name
	case *ast.ArrayLit:
		arr := make([]any, len(n.Elements))
		for i, el := range n.Elements {
			arr[i] = c.compileValue(el, ctx)
		}
		return arr
	case *ast.Object:
		return c.compileObject(n, ctx)
	case *ast.CapabilitySet:
		return c.compileCapabilitySet(n)
	case *ast.CastValue:
		return c.compileCastValue(n, ctx)
	case *ast.ContentValue:
		return c.compileContent(n.Content)
	case *ast.RoleMessage:
		return c.compileRoleMessage(n, ctx)
	case *ast.Annotation:
		return c.compileInlineAnnotation(n, ctx)
	case ast.Definition:
		return c.compileDefinition(n)
	default:
		return nil
	}
}

// compileCastValue compiles a `value::cast` chain. A recognised JSON-Schema
// format cast has no effect on the compiled value itself (format only
// constrains schemas, spec §6.2); it is retained as a sibling
// `format`-style hint only on type expressions, not on values, so a
// CastValue simply compiles to its underlying value.
func (c *compiler) compileCastValue(cv *ast.CastValue, ctx compileCtx) any {
	return c.compileValue(cv.Value, ctx)
}

func (c *compiler) compileInlineAnnotation(a *ast.Annotation, ctx compileCtx) any {
	if a.Name == "impl" && len(a.Args) == 2 {
		o := newObject()
		o.set("name", c.compileValue(a.Args[0], ctx))
		o.set("version", c.compileValue(a.Args[1], ctx))
		return o
	}
	o := newObject()
	if a.Value != nil {
		o.set(a.Name, c.compileValue(a.Value, ctx))
	} else {
		o.set(a.Name, true)
	}
	return o
}

// compileAnnotation merges a into either the enclosing object (for @impl,
// which contributes sibling keys rather than annotation entries) or the
// accumulating annotations map.
func (c *compiler) compileAnnotation(a *ast.Annotation, enclosing, annotations *object) {
	switch a.Name {
	case "impl":
		if len(a.Args) == 2 {
			enclosing.set("name", c.compileValue(a.Args[0], compileCtx{}))
			enclosing.set("version", c.compileValue(a.Args[1], compileCtx{}))
		}
	case "readonly":
		annotations.set("readOnlyHint", true)
	case "idempotent":
		annotations.set("idempotentHint", true)
	case "destructive":
		annotations.set("destructiveHint", false)
	case "openWorld":
		annotations.set("openWorld", valueOrTrue(c, a))
	case "priority":
		annotations.set("priority", valueOrTrue(c, a))
	case "audience":
		annotations.set("audience", valueOrTrue(c, a))
	default:
		// unknown/custom annotation: preserved verbatim (spec §4.4).
		annotations.set(a.Name, valueOrTrue(c, a))
	}
}

func valueOrTrue(c *compiler, a *ast.Annotation) any {
	if a.Value != nil {
		return c.compileValue(a.Value, compileCtx{})
	}
	if len(a.Args) > 0 {
		vals := make([]any, len(a.Args))
		for i, arg := range a.Args {
			vals[i] = c.compileValue(arg, compileCtx{})
		}
		return vals
	}
	return true
}

// compileCapabilitySet compiles dotted capability paths into nested
// objects, merging deeply (spec §4.5/§6.2). A multi-segment path's final
// segment maps to the boolean `true`; a bare, single-segment capability
// maps to an empty object instead.
func (c *compiler) compileCapabilitySet(cs *ast.CapabilitySet) *object {
	root := newObject()
	for _, cap := range cs.Caps {
		mergeCapabilityPath(root, cap.Path, len(cap.Path) == 1)
	}
	return root
}

func mergeCapabilityPath(into *object, path []string, bare bool) {
	if len(path) == 0 {
		return
	}
	head, rest := path[0], path[1:]
	if len(rest) == 0 {
		if bare {
			if !into.has(head) {
				into.set(head, newObject())
			}
		} else {
			into.set(head, true)
		}
		return
	}
	var child *object
	if existing, ok := into.get(head).(*object); ok {
		child = existing
	} else {
		child = newObject()
		into.set(head, child)
	}
	mergeCapabilityPath(child, rest, bare)
}

func (c *compiler) compileRoleMessage(rm *ast.RoleMessage, ctx compileCtx) *object {
	o := newObject()
	o.set("role", roleJSONName(rm.Role))
	o.set("content", c.compileValue(rm.Content, ctx))
	return o
}

func roleJSONName(r ast.RoleKind) string {
	switch r {
	case ast.RoleUser:
		return "user"
	case ast.RoleAssistant:
		return "assistant"
	default:
		return "system"
	}
}

func (c *compiler) compileContent(content ast.Content) any {
	switch n := content.(type) {
	case *ast.TextContent:
		o := newObject()
		o.set("type", "text")
		o.set("text", n.Text)
		return o
	case *ast.ImageContent:
		o := newObject()
		o.set("type", "image")
		o.set("data", n.Data)
		if n.Format != "" {
			o.set("mimeType", "image/"+n.Format)
		}
		return o
	case *ast.AudioContent:
		o := newObject()
		o.set("type", "audio")
		o.set("data", n.Data)
		if n.Format != "" {
			o.set("mimeType", "audio/"+n.Format)
		}
		return o
	case *ast.ResourceRef:
		uri, known := c.resourceURI[n.Name]
		if !known {
			c.diagnostics = append(c.diagnostics, diag.Warningf(n.Pos(), "res{%s} does not refer to any resource defined in this document", n.Name))
		}
		o := newObject()
		o.set("type", "resource")
		res := newObject()
		res.set("uri", uri)
		o.set("resource", res)
		return o
	case *ast.ToolRef:
		// the grammar allows a tool reference as content but the mapping
		// table in spec §6.2 has no entry for it; no MCP content type
		// models "a tool" either, so this is rendered as a custom content
		// shape rather than forced into "resource".
		o := newObject()
		o.set("type", "tool")
		o.set("tool", n.Name)
		return o
	case *ast.EmbeddedResource:
		o := c.compileObject(n.Body, compileCtx{})
		o.set("type", "resource")
		return o
	case *ast.CompositeContent:
		parts := make([]any, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = c.compileContent(p)
		}
		return parts
	default:
		return nil
	}
}

func (c *compiler) compileToolDef(n *ast.ToolDef) *object {
	o := c.compileObject(n.Body, compileCtx{})
	o.set("name", n.Name)
	if !o.has("inputSchema") {
		o.set("inputSchema", schema.FromObject(&ast.Object{}))
	}
	reorderToolDef(o)
	return o
}

// reorderToolDef rewrites body-derived keys that belong in a fixed tool
// shape {name, description?, inputSchema, outputSchema?, annotations?};
// compileObject already inserted them under their mapped names, this just
// ensures `name` comes first, matching the shape spec §4.5 names it by.
func reorderToolDef(o *object) {
	if !contains(o.keys, "name") {
		return
	}
	reordered := []string{"name"}
	for _, k := range o.keys {
		if k != "name" {
			reordered = append(reordered, k)
		}
	}
	o.keys = reordered
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func (c *compiler) compileResourceDef(n *ast.ResourceDef) *object {
	o := c.compileObject(n.Body, compileCtx{})
	o.set("name", n.Name)
	reorderToolDef(o)
	return o
}

func (c *compiler) compileResourceTemplateDef(n *ast.ResourceTemplateDef) *object {
	// resource templates carry no `name` field (spec §4.5).
	o := c.compileObject(n.Body, compileCtx{})
	o.delete("name")
	return o
}

func (c *compiler) compilePromptDef(n *ast.PromptDef) *object {
	o := c.compileObject(n.Body, compileCtx{})
	o.set("name", n.Name)
	reorderToolDef(o)
	return o
}

func definitionName(d ast.Definition) string {
	switch n := d.(type) {
	case *ast.ToolDef:
		return n.Name
	case *ast.ResourceDef:
		return n.Name
	case *ast.PromptDef:
		return n.Name
	case *ast.ResourceTemplateDef:
		return n.Name
	default:
		return ""
	}
}

func (c *compiler) compileDefinition(d ast.Definition) *object {
	switch n := d.(type) {
	case *ast.ToolDef:
		return c.compileToolDef(n)
	case *ast.ResourceDef:
		return c.compileResourceDef(n)
	case *ast.PromptDef:
		return c.compilePromptDef(n)
	case *ast.ResourceTemplateDef:
		return c.compileResourceTemplateDef(n)
	default:
		return newObject()
	}
}

func (c *compiler) compileCollection(n *ast.CollectionDef, result *Result) {
	for _, item := range n.Items {
		o := newObject()
		switch v := item.Value.(type) {
		case *ast.Object:
			o = c.compileObject(v, compileCtx{})
		case *ast.StringLit:
			o.set("value", v.Value)
		case ast.Type:
			o.set("schema", schema.FromType(v))
		}
		o.set("name", item.Name)
		reorderToolDef(o)
		switch n.Kind {
		case ast.CollectionTool:
			if !o.has("inputSchema") {
				o.set("inputSchema", schema.FromObject(&ast.Object{}))
			}
			result.Tools = append(result.Tools, o)
		case ast.CollectionResource:
			result.Resources = append(result.Resources, o)
		case ast.CollectionPrompt:
			result.Prompts = append(result.Prompts, o)
		case ast.CollectionResourceTemplate:
			o.delete("name")
			result.ResourceTemplates = append(result.ResourceTemplates, o)
		}
	}
}
