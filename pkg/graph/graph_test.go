package graph

import (
	"testing"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
)

func TestBuild_NodesAndEdges(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "Design"},
		{GID: "B", Name: "Build", BlockedBy: []string{"A"}},
		{GID: "C", Name: "Ship", BlockedBy: []string{"A", "B"}},
	})

	if g.Len() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.Len())
	}
	edges := g.Edges()
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	want := []Edge{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	for i, e := range want {
		if edges[i] != e {
			t.Errorf("edge %d: expected %v, got %v", i, e, edges[i])
		}
	}
}

func TestBuild_NoDependencies(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "One"},
		{GID: "B", Name: "Two"},
	})

	if g.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Len())
	}
	if len(g.Edges()) != 0 {
		t.Errorf("expected zero edges, got %d", len(g.Edges()))
	}
}

func TestBuild_DuplicateTasksIdempotent(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "First"},
		{GID: "A", Name: "Refetched"},
	})

	if g.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", g.Len())
	}
	task, _ := g.Task("A")
	if task.Name != "First" {
		t.Errorf("expected first occurrence to win, got %q", task.Name)
	}
}

func TestBuild_DuplicateEdgesDeduplicated(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "One"},
		{GID: "B", Name: "Two", BlockedBy: []string{"A", "A", "A"}},
	})

	if len(g.Edges()) != 1 {
		t.Errorf("expected 1 edge after dedup, got %d", len(g.Edges()))
	}
}

func TestBuild_SelfDependencyDropped(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "Loop", BlockedBy: []string{"A"}},
	})

	if len(g.Edges()) != 0 {
		t.Errorf("expected self-loop to be dropped, got %v", g.Edges())
	}
	if len(g.Dropped()) != 1 {
		t.Errorf("expected 1 dropped edge, got %v", g.Dropped())
	}
}

func TestBuild_MissingEndpointDropped(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "B", Name: "Blocked", BlockedBy: []string{"outside-project"}},
	})

	if len(g.Edges()) != 0 {
		t.Errorf("expected edge to missing task to be dropped, got %v", g.Edges())
	}
	if len(g.Dropped()) != 1 {
		t.Errorf("expected 1 dropped edge, got %v", g.Dropped())
	}
}

func TestBuild_CycleTolerated(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "One", BlockedBy: []string{"B"}},
		{GID: "B", Name: "Two", BlockedBy: []string{"A"}},
	})

	if len(g.Edges()) != 2 {
		t.Errorf("expected both cycle edges preserved, got %v", g.Edges())
	}
}

func TestGraph_Blocked(t *testing.T) {
	g := Build([]asana.Task{
		{GID: "A", Name: "Done", Completed: true},
		{GID: "B", Name: "Open"},
		{GID: "C", Name: "AfterDone", BlockedBy: []string{"A"}},
		{GID: "D", Name: "AfterOpen", BlockedBy: []string{"B"}},
		{GID: "E", Name: "AfterMissing", BlockedBy: []string{"gone"}},
	})

	tests := []struct {
		gid  string
		want bool
	}{
		{"A", false},
		{"C", false}, // all blockers completed
		{"D", true},  // incomplete blocker
		{"E", false}, // blocker outside graph is ignored
	}
	for _, tt := range tests {
		if got := g.Blocked(tt.gid); got != tt.want {
			t.Errorf("Blocked(%s) = %v, want %v", tt.gid, got, tt.want)
		}
	}
}

func TestGraph_InsertionOrderStable(t *testing.T) {
	tasks := []asana.Task{
		{GID: "Z", Name: "Last alphabetically, first inserted"},
		{GID: "A", Name: "First alphabetically"},
		{GID: "M", Name: "Middle"},
	}
	g := Build(tasks)

	got := g.Tasks()
	for i, task := range tasks {
		if got[i].GID != task.GID {
			t.Errorf("position %d: expected %s, got %s", i, task.GID, got[i].GID)
		}
	}
}
