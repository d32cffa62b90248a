package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asanagraph/asana-deps-graph/internal/config"
)

// whoamiTimeout bounds the token verification request.
const whoamiTimeout = 30 * time.Second

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the Asana user the configured token belongs to",
		Long: `Verify the configured personal access token against the Asana API
and print the authenticated user along with the accessible workspaces.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), whoamiTimeout)
			defer cancel()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			client, err := c.newClient(ctx, cfg, true)
			if err != nil {
				return err
			}

			spinner := newSpinner(ctx, "Verifying token...")
			spinner.Start()

			user, err := client.Me(ctx)
			if err != nil {
				spinner.StopWithError("Token invalid")
				return fmt.Errorf("verify token: %w", err)
			}

			workspaces, err := client.Workspaces(ctx)
			if err != nil {
				spinner.StopWithError("Workspace lookup failed")
				return fmt.Errorf("list workspaces: %w", err)
			}
			spinner.Stop()

			printSuccess("Asana Session")
			printKeyValue("Name", user.Name)
			if user.Email != "" {
				printKeyValue("Email", user.Email)
			}
			printKeyValue("User GID", user.GID)
			if len(workspaces) == 0 {
				printWarning("Token has no visible workspaces")
			}
			for _, ws := range workspaces {
				printKeyValue("Workspace", fmt.Sprintf("%s (%s)", ws.Name, ws.GID))
			}

			return nil
		},
	}
}
