package render

import (
	"strings"
	"testing"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/graph"
)

func TestDOT_BasicGraph(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "Design"},
		{GID: "B", Name: "Build", BlockedBy: []string{"A"}},
	})

	r, err := New(FormatDOT, Options{})
	if err != nil {
		t.Fatal(err)
	}
	out := r.Render(g)

	for _, want := range []string{
		"digraph {",
		`"A" [label="Design"]`,
		`"B" [label="Build"]`,
		`"A" -> "B"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDOT_EmptyGraph(t *testing.T) {
	out := mustRender(t, FormatDOT, Options{}, graph.New())

	if out != "digraph {\n}\n" {
		t.Errorf("expected empty digraph block, got:\n%s", out)
	}
}

func TestDOT_NoEdgesForIndependentTasks(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "1", Name: "One"},
		{GID: "2", Name: "Two"},
	})
	out := mustRender(t, FormatDOT, Options{}, g)

	if strings.Contains(out, "->") {
		t.Errorf("expected no edge statements:\n%s", out)
	}
	if got := strings.Count(out, "[label="); got != 2 {
		t.Errorf("expected 2 node statements, got %d:\n%s", got, out)
	}
}

func TestDOT_EdgeCountMatchesUniquePairs(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "One"},
		{GID: "B", Name: "Two", BlockedBy: []string{"A", "A"}},
		{GID: "C", Name: "Three", BlockedBy: []string{"A", "B"}},
	})
	out := mustRender(t, FormatDOT, Options{}, g)

	if got := strings.Count(out, "->"); got != 3 {
		t.Errorf("expected 3 edges after dedup, got %d:\n%s", got, out)
	}
}

func TestDOT_Idempotent(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "Design"},
		{GID: "B", Name: "Build", BlockedBy: []string{"A"}},
	})
	r := &DOT{}

	if r.Render(g) != r.Render(g) {
		t.Error("expected byte-identical output for repeated rendering")
	}
}

func TestDOT_EscapesQuotes(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: `Ship "v1" \now`},
	})
	out := mustRender(t, FormatDOT, Options{}, g)

	if !strings.Contains(out, `label="Ship \"v1\" \\now"`) {
		t.Errorf("expected escaped label:\n%s", out)
	}
}

func TestDOT_Decorated(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "1", Name: "Plan", Completed: true},
		{GID: "2", Name: "Launch", Milestone: true, BlockedBy: []string{"1", "3"}},
		{GID: "3", Name: "Code"},
	})
	out := mustRender(t, FormatDOT, Options{Decorate: true}, g)

	// Completed task struck through and grayed.
	if !strings.Contains(out, `"1" [label=<<S>Plan</S>>`) {
		t.Errorf("expected strikethrough label for completed task:\n%s", out)
	}
	if !strings.Contains(out, "fontcolor=gray") {
		t.Errorf("expected gray fontcolor for completed task:\n%s", out)
	}

	// Blocked milestone: plain label, hexagon, darkgreen.
	if !strings.Contains(out, `"2" [label="Launch", style=rounded, shape=hexagon, color=darkgreen`) {
		t.Errorf("expected hexagon milestone node:\n%s", out)
	}

	// Unblocked task bold.
	if !strings.Contains(out, `"3" [label=<<B>Code</B>>`) {
		t.Errorf("expected bold label for unblocked task:\n%s", out)
	}

	// Edge from completed blocker is gray, other edges plain.
	if !strings.Contains(out, `"1" -> "2" [color=gray];`) {
		t.Errorf("expected gray edge from completed blocker:\n%s", out)
	}
	if !strings.Contains(out, `"3" -> "2";`) {
		t.Errorf("expected plain edge from open blocker:\n%s", out)
	}
}

func TestDOT_DecoratedEscapesHTMLLabels(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "a <b> & c", Completed: true},
	})
	out := mustRender(t, FormatDOT, Options{Decorate: true}, g)

	if !strings.Contains(out, "<S>a &lt;b&gt; &amp; c</S>") {
		t.Errorf("expected HTML-escaped label:\n%s", out)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New("svg", Options{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func mustRender(t *testing.T, format string, opts Options, g *graph.Graph) string {
	t.Helper()
	r, err := New(format, opts)
	if err != nil {
		t.Fatal(err)
	}
	return r.Render(g)
}
