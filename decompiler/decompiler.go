// Package decompiler implements the JSON → DSL decompiler, spec §4.6: the
// inverse of package compiler, accepting the same {messages, tools,
// resources, prompts, resourceTemplates, serverInfo?} shape and producing
// MCP-DSL source text.
//
// Grounded on teleivo-dot's printer.go for the column-tracking print-loop
// idea, paired with package layout (itself adapted from layout/layout.go)
// for the inline-vs-block rendering decision spec §4.6 calls for.
package decompiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/internal/layout"
	"github.com/mcpdsl/mcpdsl/token"
)

// maxInlineWidth is the soft threshold spec §4.6 names as "e.g. 60 chars".
const maxInlineWidth = 60

// Input is the decompiler's entry: the same shape compile produces,
// represented with plain JSON values (map[string]any / []any / string /
// float64 / bool / nil) since a decompile input need not have come from
// this package's own compiler.
type Input struct {
	Messages          []map[string]any `json:"messages,omitempty"`
	Tools             []map[string]any `json:"tools,omitempty"`
	Resources         []map[string]any `json:"resources,omitempty"`
	Prompts           []map[string]any `json:"prompts,omitempty"`
	ResourceTemplates []map[string]any `json:"resourceTemplates,omitempty"`
	ServerInfo        map[string]any   `json:"serverInfo,omitempty"`
}

type decompiler struct {
	diagnostics   []diag.Diagnostic
	templateNames int
}

// Decompile renders in into MCP-DSL source text. Output order: the server
// block (if present), then messages, then resources, tools, prompts, and
// resource templates, each in the order given.
func Decompile(in Input) (string, []diag.Diagnostic) {
	d := &decompiler{}
	var sb strings.Builder

	if in.ServerInfo != nil {
		sb.WriteString(d.renderServerBlock(in.ServerInfo))
		sb.WriteString("\n")
	}
	for _, m := range in.Messages {
		sb.WriteString(d.renderMessage(m))
		sb.WriteString("\n")
	}
	for _, r := range in.Resources {
		sb.WriteString(d.renderDefinition("R", r))
		sb.WriteString("\n")
	}
	for _, tl := range in.Tools {
		sb.WriteString(d.renderDefinition("T", tl))
		sb.WriteString("\n")
	}
	for _, p := range in.Prompts {
		sb.WriteString(d.renderDefinition("P", p))
		sb.WriteString("\n")
	}
	for _, rt := range in.ResourceTemplates {
		sb.WriteString(d.renderDefinition("RT", rt))
		sb.WriteString("\n")
	}

	return sb.String(), d.diagnostics
}

func (d *decompiler) renderServerBlock(info map[string]any) string {
	name, _ := info["name"].(string)
	var version string
	if v, ok := info["protocolVersion"].(string); ok {
		version = " v" + v
	}
	body := copyWithout(info, "name", "protocolVersion")
	return fmt.Sprintf("server %s%s %s", name, version, d.renderObject(body, fieldCtx{}))
}

// fieldCtx mirrors compiler.compileCtx. Its only fact, inInitializeParams,
// decides whether sibling name/version keys fold back into
// `info: @impl(n, v)`; the clientInfo/serverInfo → info and isError → ok
// rewrites apply in every object regardless of it.
type fieldCtx struct {
	inInitializeParams bool
}

// reverseFieldNameMap inverts compiler.fieldNameMap (spec §6.2).
var reverseFieldNameMap = map[string]string{
	"protocolVersion": "v",
	"capabilities":    "caps",
	"arguments":       "args",
	"description":     "desc",
	"mimeType":        "mime",
	"inputSchema":     "in",
	"outputSchema":    "out",
	"messages":        "msgs",
}

func (d *decompiler) renderMessage(m map[string]any) string {
	if errVal, ok := m["error"].(map[string]any); ok {
		return d.renderError(m, errVal)
	}
	_, hasResult := m["result"]
	_, hasID := m["id"]
	method, hasMethod := m["method"].(string)

	switch {
	case hasResult && hasID:
		return d.renderResponse(m)
	case hasMethod && hasID:
		return d.renderRequest(m, method)
	case hasMethod:
		return d.renderNotification(m, method)
	default:
		d.diagnostics = append(d.diagnostics, diag.Warningf(token.Range{}, "message has neither method nor result/error; skipped"))
		return ""
	}
}

func (d *decompiler) renderRequest(m map[string]any, method string) string {
	id := idString(m["id"])
	out := ">" + method + " #" + id
	if params, ok := m["params"].(map[string]any); ok {
		ctx := fieldCtx{inInitializeParams: method == "initialize"}
		out += " " + d.renderObject(params, ctx)
	}
	return out
}

func (d *decompiler) renderResponse(m map[string]any) string {
	id := idString(m["id"])
	out := "<#" + id
	if result, ok := m["result"]; ok {
		out += " " + d.renderValue(result, fieldCtx{})
	}
	return out
}

func (d *decompiler) renderNotification(m map[string]any, method string) string {
	out := "!" + method
	if params, ok := m["params"].(map[string]any); ok {
		out += " " + d.renderObject(params, fieldCtx{})
	}
	return out
}

func (d *decompiler) renderError(m, errVal map[string]any) string {
	id := idString(m["id"])
	code := numberString(errVal["code"])
	message := quoteString(fmt.Sprint(errVal["message"]))
	out := "x #" + id + " " + code + ": " + message
	if data, ok := errVal["data"]; ok {
		out += " " + d.renderValue(data, fieldCtx{})
	}
	return out
}

// renderDefinition renders one Resource/Tool/Prompt/ResourceTemplate entry
// as `KIND name { ... }` (spec §4.6's `definition := ('R'|'T'|'P'|'RT') ID
// object` grammar, reversed). A resource template's compiled form carries
// no name (compiler.compileResourceTemplateDef strips it), so one is
// synthesized from its uri, with a disambiguating suffix if needed.
func (d *decompiler) renderDefinition(kind string, body map[string]any) string {
	name, _ := body["name"].(string)
	rest := copyWithout(body, "name")
	if kind == "RT" && name == "" {
		name = d.synthesizeTemplateName(body)
	}
	return fmt.Sprintf("%s %s %s", kind, name, d.renderObject(rest, fieldCtx{}))
}

// synthesizeTemplateName derives a DSL identifier from a resource
// template's uri (e.g. "file:///{path}" -> "file"), falling back to a
// counter-suffixed placeholder when the uri yields nothing usable.
func (d *decompiler) synthesizeTemplateName(body map[string]any) string {
	uri, _ := body["uri"].(string)
	var b strings.Builder
	for _, r := range uri {
		isAlnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if !isAlnum {
			if b.Len() > 0 {
				break
			}
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		return b.String()
	}
	d.templateNames++
	return fmt.Sprintf("template%d", d.templateNames)
}

func idString(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return fmt.Sprint(v)
	}
}

func numberString(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}

func (d *decompiler) renderValue(v any, ctx fieldCtx) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case bool:
		if n {
			return "true"
		}
		return "false"
	case string:
		return quoteString(n)
	case float64:
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	case []any:
		return d.renderArray(n, ctx)
	case map[string]any:
		return d.renderObject(n, ctx)
	default:
		return fmt.Sprint(n)
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// renderArray tries a flat rendering first; only if that overflows
// maxInlineWidth does it rebuild the group with hard breaks, since a Group
// containing any Break always renders as a block (see package layout).
func (d *decompiler) renderArray(elems []any, ctx fieldCtx) string {
	rendered := make([]string, len(elems))
	for i, el := range elems {
		rendered[i] = d.renderValue(el, ctx)
	}

	flat := layout.NewGroup(maxInlineWidth)
	flat.Text("[")
	for i, r := range rendered {
		if i > 0 {
			flat.Text(", ")
		}
		flat.Text(r)
	}
	flat.Text("]")
	if flat.Fits() {
		return flat.Render()
	}

	block := layout.NewGroup(maxInlineWidth)
	block.Text("[")
	for i, r := range rendered {
		if i > 0 {
			block.Text(",")
		}
		block.Break(2)
		block.Text(r)
	}
	block.Break(0)
	block.Text("]")
	return block.Render()
}

// renderObject reverses the field-name mapping and the ok/info rewrites,
// flattens a "capabilities" field back into dotted capability syntax, and
// pulls a flattened "annotations" map back out as `@name` annotations.
func (d *decompiler) renderObject(m map[string]any, ctx fieldCtx) string {
	keys := sortedKeys(m)

	var entries []string
	emit := func(text string) {
		entries = append(entries, text)
	}

	for _, k := range keys {
		v := m[k]
		switch k {
		case "isError":
			if b, ok := v.(bool); ok {
				emit(fmt.Sprintf("ok: %s", boolStr(!b)))
				continue
			}
		case "clientInfo", "serverInfo":
			emit(fmt.Sprintf("info: %s", d.renderValue(v, fieldCtx{})))
			continue
		case "capabilities":
			if obj, ok := v.(map[string]any); ok {
				emit(fmt.Sprintf("caps: %s", renderCapabilities(obj)))
				continue
			}
		case "annotations":
			if obj, ok := v.(map[string]any); ok {
				for _, ann := range d.renderAnnotations(obj) {
					emit(ann)
				}
				continue
			}
		case "name", "version":
			// lifted sibling keys from a compiled @impl(n, v); render back
			// as a single annotation only when both are present together
			// with no other indication of being a definition's own name.
			if k == "name" {
				if _, hasVersion := m["version"]; hasVersion && ctx.inInitializeParams {
					continue
				}
			}
			if k == "version" {
				if name, hasName := m["name"]; hasName && ctx.inInitializeParams {
					emit(fmt.Sprintf("info: @impl(%s, %s)", d.renderValue(name, ctx), d.renderValue(v, ctx)))
					continue
				}
			}
		}
		jsonName := k
		if mapped, ok := reverseFieldNameMap[k]; ok {
			jsonName = mapped
		}
		emit(fmt.Sprintf("%s: %s", jsonName, d.renderValue(v, fieldCtx{})))
	}

	flat := layout.NewGroup(maxInlineWidth)
	flat.Text("{")
	for i, e := range entries {
		if i > 0 {
			flat.Text(", ")
		}
		flat.Text(e)
	}
	flat.Text("}")
	if flat.Fits() {
		return flat.Render()
	}

	block := layout.NewGroup(maxInlineWidth)
	block.Text("{")
	for i, e := range entries {
		if i > 0 {
			block.Text(",")
		}
		block.Break(2)
		block.Text(e)
	}
	block.Break(0)
	block.Text("}")
	return block.Render()
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// renderAnnotations turns a flattened annotations map back into `@name`
// source forms, reversing the table in spec §6.2. Values always go through
// renderValue so decimals, strings, and arrays keep their shape instead of
// being formatted with Go's default %v.
func (d *decompiler) renderAnnotations(m map[string]any) []string {
	var out []string
	for _, k := range sortedKeys(m) {
		v := m[k]
		switch k {
		case "readOnlyHint":
			if b, ok := v.(bool); ok && b {
				out = append(out, "@readonly")
				continue
			}
		case "idempotentHint":
			if b, ok := v.(bool); ok && b {
				out = append(out, "@idempotent")
				continue
			}
		case "destructiveHint":
			if b, ok := v.(bool); ok && !b {
				out = append(out, "@destructive")
				continue
			}
		case "openWorld", "priority", "audience":
			out = append(out, fmt.Sprintf("@%s:%s", k, d.renderValue(v, fieldCtx{})))
			continue
		}
		// readOnlyHint/idempotentHint/destructiveHint holding a value other
		// than what the compiler ever produces for the bare form: fall
		// through to a colon-form annotation on the literal JSON key, which
		// reparses and recompiles back into the same map entry via the
		// default case in compileAnnotation.
		out = append(out, fmt.Sprintf("@%s:%s", k, d.renderValue(v, fieldCtx{})))
	}
	return out
}

// renderCapabilities flattens a nested capabilities object back into the
// `{a, b.c}` dotted-path syntax (spec §4.6).
func renderCapabilities(m map[string]any) string {
	var paths []string
	var walk func(prefix []string, mm map[string]any)
	walk = func(prefix []string, mm map[string]any) {
		for _, k := range sortedKeys(mm) {
			path := append(append([]string{}, prefix...), k)
			switch v := mm[k].(type) {
			case bool:
				paths = append(paths, strings.Join(path, "."))
			case map[string]any:
				if len(v) == 0 {
					paths = append(paths, strings.Join(path, "."))
				} else {
					walk(path, v)
				}
			}
		}
	}
	walk(nil, m)
	return "{" + strings.Join(paths, ", ") + "}"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyWithout(m map[string]any, exclude ...string) map[string]any {
	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if !skip[k] {
			out[k] = v
		}
	}
	return out
}
