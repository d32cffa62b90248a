package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/asanagraph/asana-deps-graph/internal/config"
	"github.com/asanagraph/asana-deps-graph/pkg/pipeline"
)

// graphParams collects the root command's resolved flags.
type graphParams struct {
	projectID  string
	format     string
	decorate   bool
	check      bool
	output     string
	noCache    bool
	configPath string
}

// runGraph executes the fetch → build → render pipeline and writes the
// result. Output reaches stdout (or --output) only after the pipeline
// succeeds in full; failures leave stdout untouched.
func (c *CLI) runGraph(ctx context.Context, p graphParams) error {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := c.newClient(ctx, cfg, p.noCache)
	if err != nil {
		return err
	}

	projectID := p.projectID
	if projectID == "" {
		projectID, err = c.pickProject(ctx, client, cfg.Workspace)
		if err != nil {
			return err
		}
	}

	runner := pipeline.NewRunner(client, c.Logger)

	spinner := newSpinner(ctx, "Fetching project tasks...")
	spinner.Start()
	prog := newProgress(c.Logger)

	out, err := runner.Run(ctx, pipeline.Options{
		ProjectID: projectID,
		Format:    p.format,
		Decorate:  p.decorate,
		Check:     p.check,
	})
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s graph for project %s", p.format, projectID))

	if p.output != "" {
		if err := os.WriteFile(p.output, []byte(out), 0644); err != nil {
			return fmt.Errorf("write %s: %w", p.output, err)
		}
		printSuccess("Wrote %s", p.output)
		return nil
	}

	fmt.Print(out)
	return nil
}
