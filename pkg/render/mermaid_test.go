package render

import (
	"strings"
	"testing"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/graph"
)

func TestMermaid_BasicGraph(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "Design"},
		{GID: "B", Name: "Build", BlockedBy: []string{"A"}},
	})
	out := mustRender(t, FormatMermaid, Options{}, g)

	for _, want := range []string{
		"flowchart TB",
		`A["Design"]`,
		`B["Build"]`,
		"A --> B",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMermaid_EmptyGraph(t *testing.T) {
	out := mustRender(t, FormatMermaid, Options{}, graph.New())

	if out != "flowchart TB\n" {
		t.Errorf("expected bare flowchart header, got:\n%s", out)
	}
}

func TestMermaid_Idempotent(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "Design"},
		{GID: "B", Name: "Build", BlockedBy: []string{"A"}},
	})
	r := &Mermaid{}

	if r.Render(g) != r.Render(g) {
		t.Error("expected byte-identical output for repeated rendering")
	}
}

func TestMermaid_Escaping(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: `Fix "#42"`},
	})
	out := mustRender(t, FormatMermaid, Options{}, g)

	if !strings.Contains(out, `A["Fix #quot;#35;42#quot;"]`) {
		t.Errorf("expected escaped label:\n%s", out)
	}
}

func TestMermaid_Decorated(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "1", Name: "Plan", Completed: true},
		{GID: "2", Name: "Launch", Milestone: true, BlockedBy: []string{"1", "3"}},
		{GID: "3", Name: "Code"},
	})
	out := mustRender(t, FormatMermaid, Options{Decorate: true}, g)

	// Completed task: check icon, muted styling.
	if !strings.Contains(out, "1([\"`fa:fa-check Plan`\"])") {
		t.Errorf("expected completed stadium node:\n%s", out)
	}
	if !strings.Contains(out, "style 1 stroke:none,fill:none") {
		t.Errorf("expected muted style for completed task:\n%s", out)
	}

	// Blocked milestone: hexagon with hourglass and fill.
	if !strings.Contains(out, "2{{\"`far:fa-hourglass Launch`\"}}") {
		t.Errorf("expected milestone hexagon node:\n%s", out)
	}
	if !strings.Contains(out, "style 2 stroke:darkgreen,fill:darkseagreen,stroke-width:4px") {
		t.Errorf("expected milestone style:\n%s", out)
	}

	// Unblocked task: bold.
	if !strings.Contains(out, "3([\"`**Code**`\"])") {
		t.Errorf("expected bold unblocked node:\n%s", out)
	}
	if !strings.Contains(out, "style 3 stroke-width:2px") {
		t.Errorf("expected unblocked style:\n%s", out)
	}

	// Edge from completed blocker is dashed, other edges solid.
	if !strings.Contains(out, "1 -.-> 2") {
		t.Errorf("expected dashed edge from completed blocker:\n%s", out)
	}
	if !strings.Contains(out, "3 --> 2") {
		t.Errorf("expected solid edge from open blocker:\n%s", out)
	}
}

func TestMermaid_SelfLoopNeverRendered(t *testing.T) {
	g := graph.Build([]asana.Task{
		{GID: "A", Name: "Loop", BlockedBy: []string{"A"}},
	})
	out := mustRender(t, FormatMermaid, Options{}, g)

	if strings.Contains(out, "A --> A") {
		t.Errorf("self-loop should have been dropped by the builder:\n%s", out)
	}
}
