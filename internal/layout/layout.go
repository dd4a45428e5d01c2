// Package layout renders a tree of text fragments as either a single
// compact line or an indented block, the inline-vs-block decision spec
// §4.6 requires for the decompiler's objects and arrays.
//
// Adapted from teleivo-dot's layout/layout.go: the same Doc/Group idea
// (build a tree of tags, measure each group's flat width, decide broken
// vs. flat at render time) but rebuilt as a plain recursive node tree
// instead of a flattened tag slice with iterator-based traversal, since
// the decompiler only ever needs one shallow measure-then-render pass per
// object or array, not the general-purpose streaming traversal DOT's
// attribute-list printer needed.
package layout

import "strings"

// node is the tag interface: Text, a hard Break, or a Group of children
// measured together.
type node interface {
	width() int // flat width in columns; -1 if the node can never render flat
}

type textNode string

func (t textNode) width() int { return len(t) }

// breakNode is a forced newline; it can never be part of a flat rendering.
type breakNode struct{ indent int }

func (breakNode) width() int { return -1 }

// Group renders its children inline, space-separated by nothing (callers
// insert their own separators as text/break nodes), on one line if the
// total flat width is within maxWidth and no child forces a break;
// otherwise every Break node becomes a newline plus its indent, and all
// other items stay where they are on the current line.
type Group struct {
	Items    []node
	maxWidth int
}

func (g *Group) width() int {
	if g == nil {
		return 0
	}
	total := 0
	for _, it := range g.Items {
		w := it.width()
		if w < 0 {
			return -1
		}
		total += w
	}
	return total
}

// NewGroup starts a new group measured against maxWidth columns.
func NewGroup(maxWidth int) *Group {
	return &Group{maxWidth: maxWidth}
}

// Text appends a literal text fragment.
func (g *Group) Text(s string) *Group {
	g.Items = append(g.Items, textNode(s))
	return g
}

// Break appends a forced line break at the given indent (spaces), used
// inside a group that has already decided to render as a block.
func (g *Group) Break(indent int) *Group {
	g.Items = append(g.Items, breakNode{indent: indent})
	return g
}

// Sub appends a nested, independently measured group (e.g. a nested
// object or array value).
func (g *Group) Sub(child *Group) *Group {
	g.Items = append(g.Items, child)
	return g
}

// Fits reports whether g renders within its maxWidth on one line.
func (g *Group) Fits() bool {
	w := g.width()
	return w >= 0 && w <= g.maxWidth
}

// Render writes g as compact inline text if it Fits, else expands every
// Break node in the tree into an actual newline + indent.
func (g *Group) Render() string {
	var sb strings.Builder
	if g.Fits() {
		renderFlat(&sb, g)
	} else {
		renderBlock(&sb, g)
	}
	return sb.String()
}

func renderFlat(sb *strings.Builder, g *Group) {
	for _, it := range g.Items {
		switch n := it.(type) {
		case textNode:
			sb.WriteString(string(n))
		case *Group:
			renderFlat(sb, n)
		case breakNode:
			// a forced break inside an otherwise-flat parent still has to
			// produce something; render it as a single space so Fits()
			// callers that allow hard breaks within a flat rendering (none
			// currently do) degrade gracefully instead of losing content.
			sb.WriteByte(' ')
		}
	}
}

func renderBlock(sb *strings.Builder, g *Group) {
	for _, it := range g.Items {
		switch n := it.(type) {
		case textNode:
			sb.WriteString(string(n))
		case breakNode:
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(" ", n.indent))
		case *Group:
			if n.Fits() {
				renderFlat(sb, n)
			} else {
				renderBlock(sb, n)
			}
		}
	}
}
