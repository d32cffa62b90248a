package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/graph"
)

// Status colors for decorated output.
const (
	dotMilestoneColor = "darkgreen"
	dotCompletedColor = "gray"
)

// DOT renders the graph in Graphviz DOT format.
type DOT struct {
	opts Options
}

// Render emits a digraph block: one node statement per task, then one edge
// statement per dependency edge, both in insertion order.
func (r *DOT) Render(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph {\n")

	for _, t := range g.Tasks() {
		if r.opts.Decorate {
			fmt.Fprintf(&buf, "  %q [%s];\n", t.GID, strings.Join(nodeAttrs(t, g), ", "))
		} else {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", t.GID, t.Name)
		}
	}

	if edges := g.Edges(); len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			if attrs := r.edgeAttrs(e, g); len(attrs) > 0 {
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeAttrs builds decorated node attributes: completed tasks are struck
// through and grayed, unblocked tasks bold, milestones darkgreen hexagons.
func nodeAttrs(t asana.Task, g *graph.Graph) []string {
	attrs := []string{labelAttr(t, g)}

	if t.Milestone && t.Completed {
		attrs = append(attrs, "style=filled", "shape=hexagon",
			"color="+dotMilestoneColor, "fillcolor="+dotMilestoneColor, "fontcolor="+dotCompletedColor)
		return attrs
	}

	attrs = append(attrs, "style=rounded")
	if t.Milestone {
		attrs = append(attrs, "shape=hexagon", "color="+dotMilestoneColor, "fontcolor="+dotMilestoneColor)
	} else if t.Completed {
		attrs = append(attrs, "shape=box", "color="+dotCompletedColor, "fontcolor="+dotCompletedColor)
	} else {
		attrs = append(attrs, "shape=box")
	}
	return attrs
}

func labelAttr(t asana.Task, g *graph.Graph) string {
	switch {
	case t.Completed:
		return fmt.Sprintf("label=<<S>%s</S>>", escapeDOTHTML(t.Name))
	case !g.Blocked(t.GID):
		return fmt.Sprintf("label=<<B>%s</B>>", escapeDOTHTML(t.Name))
	default:
		return fmt.Sprintf("label=%q", t.Name)
	}
}

// edgeAttrs grays out edges whose blocker is already completed.
func (r *DOT) edgeAttrs(e graph.Edge, g *graph.Graph) []string {
	if !r.opts.Decorate {
		return nil
	}
	if from, ok := g.Task(e.From); ok && from.Completed {
		return []string{"color=" + dotCompletedColor}
	}
	return nil
}

// escapeDOTHTML escapes a label for use inside a DOT HTML-like label.
var dotHTMLEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeDOTHTML(s string) string {
	return dotHTMLEscaper.Replace(s)
}
