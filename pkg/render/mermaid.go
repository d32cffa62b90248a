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
	mermaidMilestoneStroke = "darkgreen"
	mermaidMilestoneFill   = "darkseagreen"
	mermaidCompletedColor  = "lightgray"
)

// Mermaid renders the graph as a Mermaid flowchart.
type Mermaid struct {
	opts Options
}

// Render emits a flowchart block: one node line per task (plus a style
// line in decorated mode), then one edge line per dependency edge, both
// in insertion order.
func (r *Mermaid) Render(g *graph.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("flowchart TB\n")

	for _, t := range g.Tasks() {
		if r.opts.Decorate {
			r.writeDecoratedNode(&buf, t, g)
		} else {
			fmt.Fprintf(&buf, "  %s[\"%s\"]\n", t.GID, escapeMermaid(t.Name))
		}
	}

	for _, e := range g.Edges() {
		arrow := "-->"
		if r.opts.Decorate {
			if from, ok := g.Task(e.From); ok && from.Completed {
				arrow = "-.->"
			}
		}
		fmt.Fprintf(&buf, "  %s %s %s\n", e.From, arrow, e.To)
	}

	return buf.String()
}

// writeDecoratedNode emits a node with status iconography: completed tasks
// get a check icon and gray stroke, unblocked tasks bold emphasis, blocked
// tasks an hourglass; milestones render as hexagons with darkgreen styling.
func (r *Mermaid) writeDecoratedNode(buf *bytes.Buffer, t asana.Task, g *graph.Graph) {
	var (
		label string
		style kvList
	)

	name := escapeMermaid(t.Name)
	switch {
	case t.Completed:
		label = "fa:fa-check " + name
		style.set("stroke", mermaidCompletedColor)
	case !g.Blocked(t.GID):
		label = "**" + name + "**"
		style.set("stroke-width", "2px")
	default:
		label = "far:fa-hourglass " + name
	}

	if t.Milestone {
		style.set("stroke", mermaidMilestoneStroke)
		if t.Completed {
			style.set("fill", "none")
		} else {
			style.set("fill", mermaidMilestoneFill)
			style.set("stroke-width", "4px")
		}
	} else if t.Completed {
		style.set("stroke", "none")
		style.set("fill", "none")
	}

	open, close := "([", "])"
	if t.Milestone {
		open, close = "{{", "}}"
	}
	fmt.Fprintf(buf, "  %s%s\"`%s`\"%s\n", t.GID, open, label, close)

	if len(style) > 0 {
		fmt.Fprintf(buf, "  style %s %s\n", t.GID, style.String())
	}
}

// kvList is an insertion-ordered key/value list for style statements.
// Setting an existing key updates it in place, keeping output stable.
type kvList []struct{ k, v string }

func (l *kvList) set(k, v string) {
	for i := range *l {
		if (*l)[i].k == k {
			(*l)[i].v = v
			return
		}
	}
	*l = append(*l, struct{ k, v string }{k, v})
}

func (l kvList) String() string {
	parts := make([]string, len(l))
	for i, kv := range l {
		parts[i] = kv.k + ":" + kv.v
	}
	return strings.Join(parts, ",")
}

// escapeMermaid escapes a label for use inside a quoted Mermaid string.
// Replacer works in a single pass, so inserted # characters stay intact.
var mermaidEscaper = strings.NewReplacer(
	"#", "#35;",
	`"`, "#quot;",
)

func escapeMermaid(s string) string {
	return mermaidEscaper.Replace(s)
}
