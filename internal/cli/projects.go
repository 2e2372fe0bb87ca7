package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vercel-bot/engine/internal/format"
)

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all Vercel projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			projects, err := c.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			fmt.Fprintf(out, "\nFound %d project(s):\n\n", len(projects))
			for _, p := range projects {
				fmt.Fprintf(out, "  • %s (ID: %s)\n", p.Name, p.ID)
				if p.Framework != "" {
					fmt.Fprintf(out, "    Framework: %s\n", p.Framework)
				}
				fmt.Fprintf(out, "    Created: %s\n\n", format.Timestamp(p.CreatedAt))
			}
			return nil
		},
	}
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <project>",
		Short: "Get details of a specific project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\nProject Details:")
			fmt.Fprintf(out, "  Name: %s\n", p.Name)
			fmt.Fprintf(out, "  ID: %s\n", p.ID)
			fmt.Fprintf(out, "  Account ID: %s\n", p.AccountID)
			fmt.Fprintf(out, "  Created: %s\n", format.Timestamp(p.CreatedAt))
			optional := []struct{ label, value string }{
				{"Framework", p.Framework},
				{"Build Command", p.BuildCommand},
				{"Dev Command", p.DevCommand},
				{"Output Directory", p.OutputDirectory},
			}
			for _, f := range optional {
				if f.value != "" {
					fmt.Fprintf(out, "  %s: %s\n", f.label, f.value)
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

func (a *app) createCommand() *cobra.Command {
	var framework string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new Vercel project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			p, err := c.CreateProject(cmd.Context(), args[0], framework)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n✓ Project created successfully!")
			fmt.Fprintf(out, "  Name: %s\n", p.Name)
			fmt.Fprintf(out, "  ID: %s\n", p.ID)
			if p.Framework != "" {
				fmt.Fprintf(out, "  Framework: %s\n", p.Framework)
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&framework, "framework", "f", "", "Framework to use (e.g., nextjs, react, vue)")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project>",
		Short: "Delete a Vercel project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			project := args[0]
			if !yes {
				fmt.Fprintf(out, "\nWarning: This will permanently delete the project %q.\n", project)
				fmt.Fprintln(out, "Use --yes flag to confirm deletion.")
				return &exitError{code: 1}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.DeleteProject(cmd.Context(), project); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n✓ Project %q deleted successfully!\n\n", project)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
