// Package pipeline provides the fetch → build → render pipeline shared by
// the CLI and the serve API. Centralizing this logic keeps behavior
// identical across entry points: same fetching, same drop policy, same
// deterministic output.
//
// The pipeline is strictly sequential: pages are fetched one at a time,
// the graph is built once, and rendering produces the complete output
// text or an error. Nothing is emitted on partial failure.
package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/asanagraph/asana-deps-graph/pkg/asana"
	"github.com/asanagraph/asana-deps-graph/pkg/graph"
	"github.com/asanagraph/asana-deps-graph/pkg/render"
)

// Options configures a pipeline run.
type Options struct {
	// ProjectID is the Asana project GID to fetch.
	ProjectID string

	// Format selects the output grammar: render.FormatDOT (default when
	// empty) or render.FormatMermaid.
	Format string

	// Decorate enables task status styling in the output.
	Decorate bool

	// Check validates emitted DOT with Graphviz before returning it.
	// Ignored for Mermaid output.
	Check bool
}

// Runner executes the pipeline against an Asana client.
type Runner struct {
	client *asana.Client
	logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil logger falls back to the
// default logger.
func NewRunner(client *asana.Client, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{client: client, logger: logger}
}

// Run fetches the project's tasks, builds the dependency graph, and
// renders it. The returned string is the complete output text; on any
// error nothing usable is returned, so callers can safely write the
// result to stdout only after Run succeeds.
func (r *Runner) Run(ctx context.Context, opts Options) (string, error) {
	format := opts.Format
	if format == "" {
		format = render.FormatDOT
	}

	// Resolve the renderer first so a bad format fails before any fetch.
	renderer, err := render.New(format, render.Options{Decorate: opts.Decorate})
	if err != nil {
		return "", err
	}

	tasks, err := r.client.ProjectTasks(ctx, opts.ProjectID)
	if err != nil {
		return "", err
	}
	r.logger.Debug("fetched project tasks", "project", opts.ProjectID, "tasks", len(tasks))

	g := graph.Build(tasks)
	for _, e := range g.Dropped() {
		if e.From == e.To {
			r.logger.Debug("dropped self-dependency", "task", e.From)
		} else {
			r.logger.Debug("dropped edge to task outside project", "blocker", e.From, "blocked", e.To)
		}
	}
	r.logger.Debug("built graph", "nodes", g.Len(), "edges", len(g.Edges()))

	out := renderer.Render(g)

	if opts.Check && format == render.FormatDOT {
		if err := render.Check(out); err != nil {
			return "", err
		}
	}
	return out, nil
}
