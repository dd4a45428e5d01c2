package ast

// Content is a single MCP content item: text, image, audio, a resource or
// tool reference, an embedded resource, or a '+'-joined composite of these.
type Content interface {
	Node
	contentNode()
}

// TextContent is `'txt' (STRING | multiline)`.
type TextContent struct {
	Span
	Text      string
	Multiline bool
}

func (*TextContent) contentNode() {}

// ImageContent is `'img' STRING ('::' ID)?`.
type ImageContent struct {
	Span
	Data   string
	Format string // empty when absent
}

func (*ImageContent) contentNode() {}

// AudioContent is `'aud' STRING ('::' ID)?`.
type AudioContent struct {
	Span
	Data   string
	Format string // empty when absent
}

func (*AudioContent) contentNode() {}

// ResourceRef is `'res' '{' ID '}'`.
type ResourceRef struct {
	Span
	Name string
}

func (*ResourceRef) contentNode() {}

// ToolRef is `'T' '{' ID '}'`.
type ToolRef struct {
	Span
	Name string
}

func (*ToolRef) contentNode() {}

// EmbeddedResource is `'emb' '{' object_body '}'`.
type EmbeddedResource struct {
	Span
	Body *Object
}

func (*EmbeddedResource) contentNode() {}

// CompositeContent is `content ('+' content)*` with two or more parts.
type CompositeContent struct {
	Span
	Parts []Content
}

func (*CompositeContent) contentNode() {}
