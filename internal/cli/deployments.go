package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vercel-bot/engine/internal/format"
	"github.com/vercel-bot/engine/internal/vercel"
)

func (a *app) deploymentsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "deployments <project>",
		Short: "List deployments for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			project := args[0]
			ds, err := c.ListDeployments(cmd.Context(), project, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ds) == 0 {
				fmt.Fprintf(out, "\nNo deployments found for project %q.\n\n", project)
				return nil
			}
			fmt.Fprintf(out, "\nFound %d deployment(s) for %q:\n\n", len(ds), project)
			for _, d := range ds {
				fmt.Fprintf(out, "  • %s\n", d.URL)
				fmt.Fprintf(out, "    UID: %s\n", d.UID)
				fmt.Fprintf(out, "    State: %s\n", d.State)
				fmt.Fprintf(out, "    Created: %s\n", format.Timestamp(d.Created))
				fmt.Fprintf(out, "    Creator: %s\n\n", d.Creator.Username)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", vercel.DefaultDeploymentLimit, "Number of deployments to fetch")
	return cmd
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show authenticated user information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			u, err := c.GetUser(cmd.Context())
			if err != nil {
				return err
			}

			name := u.Name
			if name == "" {
				name = "N/A"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nAuthenticated User:")
			fmt.Fprintf(out, "  Username: %s\n", u.Username)
			fmt.Fprintf(out, "  Email: %s\n", u.Email)
			fmt.Fprintf(out, "  Name: %s\n", name)
			fmt.Fprintf(out, "  UID: %s\n", u.UID)
			fmt.Fprintln(out)
			return nil
		},
	}
}
