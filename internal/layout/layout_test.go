package layout

import (
	"testing"

	"github.com/teleivo/assertive/assert"
)

func TestGroupRendersFlatWhenItFits(t *testing.T) {
	g := NewGroup(60).Text(`{uri: "file:///docs"}`)

	assert.True(t, g.Fits())
	assert.Equal(t, `{uri: "file:///docs"}`, g.Render())
}

func TestGroupRendersBlockWhenTooWide(t *testing.T) {
	g := NewGroup(10).
		Text("{").
		Break(2).
		Text(`uri: "file:///a/very/long/path/that/does/not/fit"`).
		Break(0).
		Text("}")

	assert.False(t, g.Fits())
	want := "{\n  uri: \"file:///a/very/long/path/that/does/not/fit\"\n}"
	assert.Equal(t, want, g.Render())
}

func TestNestedGroupMeasuredIndependently(t *testing.T) {
	inner := NewGroup(60).Text(`{a: 1}`)
	outer := NewGroup(5).Text("x: ").Sub(inner)

	assert.False(t, outer.Fits())
	assert.True(t, inner.Fits())
}
