// Package render translates a task dependency graph into textual graph
// description formats consumed by external tools.
//
// Two renderers are provided: Graphviz DOT and Mermaid flowchart. Both
// emit node statements in node insertion order followed by edge statements
// in edge insertion order, so output for identical input is byte-identical
// across runs and diffable. Neither renders images; that is the job of
// `dot` and the Mermaid CLI downstream.
package render

import (
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
	"github.com/asanagraph/asana-deps-graph/pkg/graph"
)

// Supported output formats.
const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
)

// Options configures rendering.
type Options struct {
	// Decorate includes task status styling: milestones, completed tasks,
	// and blocked/unblocked emphasis. When false, only ids and labels are
	// emitted.
	Decorate bool
}

// Renderer produces graph description text for a graph.
type Renderer interface {
	Render(g *graph.Graph) string
}

// New returns the renderer for the given format.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case FormatDOT:
		return &DOT{opts: opts}, nil
	case FormatMermaid:
		return &Mermaid{opts: opts}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want %s or %s)", format, FormatDOT, FormatMermaid)
	}
}

// Formats returns the supported format names.
func Formats() []string {
	return []string{FormatDOT, FormatMermaid}
}
